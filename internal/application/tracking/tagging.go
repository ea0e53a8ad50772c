package tracking

import (
	"strings"

	"github.com/fieldlink/locate-sla/internal/config"
	"github.com/fieldlink/locate-sla/pkg/errors"
	types "github.com/fieldlink/locate-sla/pkg/types/locate"
)

// TagForms manages the tagging form: profile defaults and pre-submit
// validation.  Validation runs before any network call so an incomplete form
// never leaves the process.
type TagForms struct {
	defaults types.TagForm
}

// NewTagForms builds the form manager from the configured caller profile.
func NewTagForms(profile config.ProfileConfig) *TagForms {
	return &TagForms{defaults: types.TagForm{
		Name:  profile.Name,
		Email: profile.Email,
	}}
}

// Defaults returns a fresh form pre-populated from the caller profile.
func (f *TagForms) Defaults() types.TagForm {
	return f.defaults
}

// Fill backfills blank name/email fields from the profile defaults and trims
// whitespace.  Explicit values always win over defaults.
func (f *TagForms) Fill(form types.TagForm) types.TagForm {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	if form.Name == "" {
		form.Name = f.defaults.Name
	}
	if form.Email == "" {
		form.Email = f.defaults.Email
	}
	return form
}

// Validate rejects forms with a blank name or email.
func (f *TagForms) Validate(form types.TagForm) error {
	if form.Name == "" || form.Email == "" {
		return errors.New(errors.CodeTagProfileIncomplete, "name and email are required to tag locates")
	}
	return nil
}
