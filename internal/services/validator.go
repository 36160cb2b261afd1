package services

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mrlokans/account-manager/internal/entities"
)

// FieldError describes a single schema violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SchemaError is returned when a record does not match the account schema.
type SchemaError struct {
	Fields []FieldError
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field == "" {
			parts = append(parts, f.Message)
			continue
		}
		parts = append(parts, f.Field+": "+f.Message)
	}
	return strings.Join(parts, "; ")
}

// RecordValidator checks raw decoded records against the account schema.
// Unknown fields are dropped; username and password must be non-empty strings.
type RecordValidator struct {
	validate *validator.Validate
}

func NewRecordValidator() *RecordValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RecordValidator{validate: v}
}

// Validate converts a decoded element (as produced by the literal parser or
// encoding/json) into a NewAccount.
func (v *RecordValidator) Validate(raw any) (entities.NewAccount, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return entities.NewAccount{}, &SchemaError{Fields: []FieldError{
			{Message: "expected object, received " + TypeName(raw)},
		}}
	}

	var (
		input  entities.NewAccount
		fields []FieldError
	)
	input.Username, fields = stringField(obj, "username", fields)
	input.Password, fields = stringField(obj, "password", fields)

	if err := v.Check(input); err != nil {
		var schemaErr *SchemaError
		if !errors.As(err, &schemaErr) {
			return entities.NewAccount{}, err
		}
		for _, fe := range schemaErr.Fields {
			if !hasField(fields, fe.Field) {
				fields = append(fields, fe)
			}
		}
	}

	if len(fields) > 0 {
		return entities.NewAccount{}, &SchemaError{Fields: fields}
	}
	return input, nil
}

// Check runs the struct-tag rules on an already typed input.
func (v *RecordValidator) Check(input entities.NewAccount) error {
	err := v.validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: ruleMessage(fe.Tag())})
	}
	return &SchemaError{Fields: fields}
}

func ruleMessage(tag string) string {
	switch tag {
	case "required":
		return "must not be empty"
	default:
		return "failed " + tag + " rule"
	}
}

func stringField(obj map[string]any, name string, fields []FieldError) (string, []FieldError) {
	value, ok := obj[name]
	if !ok {
		return "", append(fields, FieldError{Field: name, Message: "required"})
	}
	s, ok := value.(string)
	if !ok {
		return "", append(fields, FieldError{Field: name, Message: "expected string, received " + TypeName(value)})
	}
	return s, fields
}

func hasField(fields []FieldError, name string) bool {
	for _, f := range fields {
		if f.Field == name {
			return true
		}
	}
	return false
}

// TypeName names the JSON type of a decoded value.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, json.Number:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return reflect.TypeOf(v).String()
	}
}
