package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Errors maps a field name to the human-readable message for its first
// violated rule. An empty map means the input passed.
type Errors map[string]string

// Field is one declarative rule set for a single form field.
type Field struct {
	Name  string
	Label string
	Rules string // validator tag expression, e.g. "required,email"
}

// Schema is a declarative set of field rules shared between the client-side
// form flow and the server-side handlers. Validation is a pure function of
// the input: it returns the collected violations instead of failing on the
// first one.
type Schema struct {
	fields []Field
}

func NewSchema(fields ...Field) *Schema {
	return &Schema{fields: fields}
}

// Validate checks every field and collects all violations in one pass.
func (s *Schema) Validate(values map[string]string) Errors {
	errs := Errors{}
	for _, f := range s.fields {
		err := validate.Var(values[f.Name], f.Rules)
		if err == nil {
			continue
		}
		verrs, ok := err.(validator.ValidationErrors)
		if !ok || len(verrs) == 0 {
			errs[f.Name] = fmt.Sprintf("%s is invalid.", f.Label)
			continue
		}
		errs[f.Name] = message(f.Label, verrs[0])
	}
	return errs
}

func message(label string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", label)
	case "email":
		return "Invalid email format."
	case "url":
		return "Invalid URL format."
	case "min":
		return fmt.Sprintf("Minimum %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Maximum %s characters.", fe.Param())
	default:
		return fmt.Sprintf("%s is invalid.", label)
	}
}
