package validation

import (
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/letanthang/tiktok-shop-ex/errors"
)

// Type names the expected Go type of a schema field.
type Type string

const (
	TypeString   Type = "string"
	TypeInt      Type = "int"
	TypeBool     Type = "bool"
	TypeDuration Type = "duration"
)

// Rule describes a single schema field.
type Rule struct {
	Type     Type
	Required bool
}

// Schema maps field names to their rules.
type Schema map[string]Rule

// Violation kinds.
const (
	KindMissingField = "MissingField"
	KindTypeMismatch = "TypeMismatch"
)

// Violation describes one failed field.
type Violation struct {
	Field   string `json:"field"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ValidateSchema checks candidate against schema. All violations are
// reported together, ordered by field name. On success the result is a copy
// of candidate with the schema fields overlaid.
func ValidateSchema(candidate map[string]any, schema Schema) (map[string]any, error) {
	var violations []Violation

	for field, rule := range schema {
		value, present := candidate[field]
		if !present || isEmpty(value) {
			if rule.Required {
				violations = append(violations, Violation{
					Field:   field,
					Kind:    KindMissingField,
					Message: errors.MissingField(field).Message,
				})
			}
			continue
		}
		if !matches(rule.Type, value) {
			violations = append(violations, Violation{
				Field:   field,
				Kind:    KindTypeMismatch,
				Message: errors.TypeMismatch(field, string(rule.Type), value).Message,
			})
		}
	}

	if len(violations) > 0 {
		sort.Slice(violations, func(i, j int) bool { return violations[i].Field < violations[j].Field })
		messages := make([]string, len(violations))
		for i, v := range violations {
			messages[i] = v.Message
		}
		return nil, errors.Validation(strings.Join(messages, "; ")).
			WithDetail("violations", violations)
	}

	out := make(map[string]any, len(candidate))
	for k, v := range candidate {
		out[k] = v
	}
	for field := range schema {
		if v, ok := candidate[field]; ok {
			out[field] = v
		}
	}
	return out, nil
}

// Violations extracts the schema violations carried by a validation error.
func Violations(err error) []Violation {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return nil
	}
	v, _ := appErr.Details["violations"].([]Violation)
	return v
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func matches(t Type, v any) bool {
	switch t {
	case TypeString:
		_, ok := v.(string)
		return ok
	case TypeBool:
		_, ok := v.(bool)
		return ok
	case TypeDuration:
		switch d := v.(type) {
		case time.Duration:
			return true
		case string:
			_, err := time.ParseDuration(d)
			return err == nil
		}
		return false
	case TypeInt:
		switch reflect.TypeOf(v).Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return true
		}
		return false
	}
	return false
}
