package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldlink/locate-sla/pkg/errors"
	types "github.com/fieldlink/locate-sla/pkg/types/locate"
)

func TestSelection_Toggle(t *testing.T) {
	s := NewSelection()

	selected, err := s.Toggle(types.BucketNeedsCall, "a")
	require.NoError(t, err)
	assert.True(t, selected)

	selected, err = s.Toggle(types.BucketNeedsCall, "a")
	require.NoError(t, err)
	assert.False(t, selected, "second toggle removes the id")
	assert.Empty(t, s.IDs(types.BucketNeedsCall))
}

func TestSelection_BucketsAreIndependent(t *testing.T) {
	s := NewSelection()

	_, err := s.Toggle(types.BucketNeedsCall, "a")
	require.NoError(t, err)
	_, err = s.Toggle(types.BucketInProgress, "a")
	require.NoError(t, err)

	s.Clear(types.BucketNeedsCall)

	assert.Empty(t, s.IDs(types.BucketNeedsCall))
	assert.Equal(t, []string{"a"}, s.IDs(types.BucketInProgress),
		"clearing one bucket never alters another bucket's set")
}

func TestSelection_InvalidBucket(t *testing.T) {
	s := NewSelection()

	_, err := s.Toggle(types.Bucket("archived"), "a")
	assert.True(t, errors.IsCode(err, errors.CodeBucketInvalid))

	err = s.Replace(types.Bucket("archived"), []string{"a"})
	assert.True(t, errors.IsCode(err, errors.CodeBucketInvalid))
}

func TestSelection_ReplaceAndIDs(t *testing.T) {
	s := NewSelection()

	require.NoError(t, s.Replace(types.BucketCompleted, []string{"c", "a", "b", "", "a"}))
	assert.Equal(t, []string{"a", "b", "c"}, s.IDs(types.BucketCompleted),
		"ids come back sorted, deduplicated, without blanks")

	view := s.View(types.BucketCompleted)
	assert.Equal(t, types.BucketCompleted, view.Bucket)
	assert.Equal(t, []string{"a", "b", "c"}, view.IDs)
}
