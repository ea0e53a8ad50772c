package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fieldlink/locate-sla/internal/config"
	"github.com/fieldlink/locate-sla/pkg/errors"
	types "github.com/fieldlink/locate-sla/pkg/types/locate"
)

func TestTagForms_FillFromProfile(t *testing.T) {
	forms := NewTagForms(config.ProfileConfig{Name: "Dana Ops", Email: "dana@fieldlink.io"})

	filled := forms.Fill(types.TagForm{Tags: "gas, water"})
	assert.Equal(t, "Dana Ops", filled.Name)
	assert.Equal(t, "dana@fieldlink.io", filled.Email)
	assert.Equal(t, "gas, water", filled.Tags)

	// Explicit values win over defaults.
	filled = forms.Fill(types.TagForm{Name: " Casey ", Email: "casey@fieldlink.io"})
	assert.Equal(t, "Casey", filled.Name)
	assert.Equal(t, "casey@fieldlink.io", filled.Email)
}

func TestTagForms_ValidateRejectsBlankFields(t *testing.T) {
	forms := NewTagForms(config.ProfileConfig{})

	err := forms.Validate(types.TagForm{Name: "Casey"})
	assert.True(t, errors.IsCode(err, errors.CodeTagProfileIncomplete))

	err = forms.Validate(types.TagForm{Email: "casey@fieldlink.io"})
	assert.True(t, errors.IsCode(err, errors.CodeTagProfileIncomplete))

	assert.NoError(t, forms.Validate(types.TagForm{Name: "Casey", Email: "casey@fieldlink.io"}))
}
