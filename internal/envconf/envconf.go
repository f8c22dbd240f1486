// Package envconf populates configuration structs from environment variables.
package envconf

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
)

var (
	ErrEnvNotSet    = errors.New("environment variable not set")
	ErrInvalidValue = errors.New("v must be a pointer to a struct")
)

// Populate fills the fields of the pointer to struct v from the environment.
//
// lookupEnv has the same signature as [os.LookupEnv]. Fields are tagged with
// `env:"ENV_VAR"`; when the variable is unset the `envDefault:"value"` tag
// supplies a fallback, otherwise ErrEnvNotSet is returned. Supported field
// types are string, int and bool. All field errors are collected and joined.
func Populate(v any, lookupEnv func(string) (string, bool)) error {
	ptrRef := reflect.ValueOf(v)
	if ptrRef.Kind() != reflect.Ptr {
		return fmt.Errorf("%w: not pointer: %v", ErrInvalidValue, v)
	}
	ref := ptrRef.Elem()
	if ref.Kind() != reflect.Struct {
		return fmt.Errorf("%w: not struct: %v", ErrInvalidValue, v)
	}

	refType := ref.Type()

	var errs []error

	for i := range refType.NumField() {
		field := ref.Field(i)
		typeField := refType.Field(i)

		name, ok := typeField.Tag.Lookup("env")
		if !ok {
			continue
		}
		if !field.CanSet() {
			errs = append(errs, fmt.Errorf("%w: cannot set field: %s", ErrInvalidValue, typeField.Name))
			continue
		}

		raw, err := lookupWithDefault(name, typeField.Tag, lookupEnv)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if err = setField(field, raw); err != nil {
			errs = append(errs, fmt.Errorf("field %s (env %s): %w", typeField.Name, name, err))
		}
	}

	return errors.Join(errs...)
}

func lookupWithDefault(
	name string, tag reflect.StructTag, lookupEnv func(string) (string, bool)) (string, error) {
	value, ok := lookupEnv(name)
	if !ok {
		value, ok = tag.Lookup("envDefault")
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrEnvNotSet, name)
		}
	}
	return value, nil
}

func setField(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: parse int %q: %w", ErrInvalidValue, raw, err)
		}
		field.SetInt(int64(n))
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: parse bool %q: %w", ErrInvalidValue, raw, err)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("%w: unsupported field type %s", ErrInvalidValue, field.Kind())
	}
	return nil
}
