package apperror

import (
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// GlobalField is the FieldErrors key for messages that belong to the whole form.
const GlobalField = ""

// FieldErrors holds one message per field. The GlobalField key carries form-wide messages.
type FieldErrors map[string]string

// Add records msg for field unless the field already has a message.
func (f FieldErrors) Add(field, msg string) {
	if _, exists := f[field]; exists {
		return
	}
	f[field] = msg
}

// Merge copies every message of other that f does not have yet.
func (f FieldErrors) Merge(other FieldErrors) {
	for field, msg := range other {
		f.Add(field, msg)
	}
}

func (f FieldErrors) Valid() bool {
	return len(f) == 0
}

// Fields returns the field keys in a stable order.
func (f FieldErrors) Fields() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatFieldName(s string) string {
	// 1. Ganti underscore dengan spasi (last_name -> last name)
	s = strings.ReplaceAll(s, "_", " ")

	// 2. Ubah jadi Title Case (last name -> Last Name)
	caser := cases.Title(language.English)
	return caser.String(s)
}

func fieldMessage(e validator.FieldError) string {
	humanReadableField := formatFieldName(e.Field())
	switch e.Tag() {
	case "required":
		return RequiredField(humanReadableField).Message
	default:
		return InvalidField(humanReadableField).Message
	}
}

// FieldErrorsFrom converts validator.ValidationErrors into per-field messages.
// Field keys follow the names registered in Init (json tag names).
// Any other error yields nil.
func FieldErrorsFrom(err error) FieldErrors {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}
	out := FieldErrors{}
	for _, e := range errs {
		out.Add(e.Field(), fieldMessage(e))
	}
	return out
}
