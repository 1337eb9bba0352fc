package registration

import (
	"fmt"
	"slices"
	"strings"
)

// Field names a submission field after alias resolution.
type Field string

const (
	FieldUsn          Field = "usn"
	FieldName         Field = "name"
	FieldEmail        Field = "email"
	FieldPhone        Field = "phone"
	FieldCollege      Field = "college"
	FieldCourse       Field = "course"
	FieldBranch       Field = "branch"
	FieldYear         Field = "year"
	FieldEvents       Field = "events"
	FieldMessage      Field = "message"
	FieldReferrerCode Field = "referrer_code"
)

var knownFields = []Field{
	FieldUsn, FieldName, FieldEmail, FieldPhone, FieldCollege, FieldCourse,
	FieldBranch, FieldYear, FieldEvents, FieldMessage, FieldReferrerCode,
}

// Schema is a named set of fields that must be non-empty after normalization.
type Schema struct {
	Name     string
	Required []Field
}

var (
	// SchemaMinimal is the early form: name, email and at least one event.
	SchemaMinimal = Schema{
		Name:     "minimal",
		Required: []Field{FieldName, FieldEmail, FieldEvents},
	}

	// SchemaFull is the current form with institution details.
	SchemaFull = Schema{
		Name: "full",
		Required: []Field{
			FieldUsn, FieldName, FieldEmail, FieldCollege,
			FieldCourse, FieldBranch, FieldYear, FieldEvents,
		},
	}
)

// ParseSchema resolves a schema by name.
func ParseSchema(name string) (Schema, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SchemaFull.Name:
		return SchemaFull, nil
	case SchemaMinimal.Name:
		return SchemaMinimal, nil
	}
	return Schema{}, fmt.Errorf("unknown registration schema %q", name)
}

// CustomSchema builds a schema from an explicit list of field names.
func CustomSchema(names []string) (Schema, error) {
	s := Schema{Name: "custom"}
	for _, n := range names {
		f := Field(strings.ToLower(strings.TrimSpace(n)))
		if f == "" {
			continue
		}
		if f == "event" {
			f = FieldEvents
		}
		if !slices.Contains(knownFields, f) {
			return Schema{}, fmt.Errorf("unknown required field %q", n)
		}
		s.Required = appendUnique(s.Required, f)
	}
	if len(s.Required) == 0 {
		return Schema{}, fmt.Errorf("custom schema has no required fields")
	}
	return s, nil
}

func appendUnique(fields []Field, more ...Field) []Field {
	for _, m := range more {
		if !slices.Contains(fields, m) {
			fields = append(fields, m)
		}
	}
	return fields
}
