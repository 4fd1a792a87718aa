package registry

import (
	"fmt"

	"github.com/oaps-dev/oaps/internal/oapserrors"
)

// ValidateTypeFields checks a free-form type_fields map against a type
// definition's declared fields: every required field must be present,
// and any enum field present must use one of its allowed values. Fields
// not declared by the type definition are passed through untouched —
// the registry only polices what it knows about.
func ValidateTypeFields(def TypeDefinition, fields map[string]any) error {
	var errs []*oapserrors.ValidationError

	byName := make(map[string]TypeField, len(def.Fields))
	for _, f := range def.Fields {
		byName[f.Name] = f
	}

	for _, f := range def.Fields {
		if !f.Required {
			continue
		}
		if _, ok := fields[f.Name]; !ok {
			errs = append(errs, &oapserrors.ValidationError{
				Field:  f.Name,
				Reason: fmt.Sprintf("required type_field for %s artifacts", def.Name),
			})
		}
	}

	for name, value := range fields {
		f, ok := byName[name]
		if !ok || f.Type != FieldEnum || len(f.AllowedValues) == 0 {
			continue
		}
		s, ok := value.(string)
		if !ok {
			errs = append(errs, &oapserrors.ValidationError{
				Field:  name,
				Reason: "must be a string to match an allowed value",
			})
			continue
		}
		if !contains(f.AllowedValues, s) {
			errs = append(errs, &oapserrors.ValidationError{
				Field:  name,
				Reason: fmt.Sprintf("%q is not one of %v", s, f.AllowedValues),
			})
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return &oapserrors.MultiValidationError{Errors: errs}
}

// ValidFormat reports whether ext (without a leading dot) is one of a
// binary type definition's allowed formats. A type with no declared
// Formats list accepts any extension.
func ValidFormat(def TypeDefinition, ext string) bool {
	if len(def.Formats) == 0 {
		return true
	}
	return contains(def.Formats, ext)
}

// ValidSubtype reports whether subtype is declared for def, or is empty
// (subtype is always optional). A type with no declared Subtypes list
// accepts any subtype.
func ValidSubtype(def TypeDefinition, subtype string) bool {
	if subtype == "" || len(def.Subtypes) == 0 {
		return true
	}
	return contains(def.Subtypes, subtype)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
