package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
)

// EnvPrefix namespaces variables; SCOLARITE_DB_HOST wins over DB_HOST.
const EnvPrefix = "SCOLARITE_"

func lookupEnv(key string) (string, bool) {
	if v, ok := os.LookupEnv(EnvPrefix + key); ok {
		return v, true
	}
	return os.LookupEnv(key)
}

// processStructFields overrides every field carrying an env tag, descending
// into nested sections. All malformed variables are reported together.
func processStructFields(s any) error {
	v := reflect.Indirect(reflect.ValueOf(s))
	if v.Kind() != reflect.Struct {
		return nil
	}
	var errs []error
	applyEnv(v, &errs)
	return errors.Join(errs...)
}

func applyEnv(v reflect.Value, errs *[]error) {
	t := v.Type()
	for i := range t.NumField() {
		field, meta := v.Field(i), t.Field(i)
		if field.Kind() == reflect.Struct {
			applyEnv(field, errs)
			continue
		}
		key := meta.Tag.Get("env")
		if key == "" {
			continue
		}
		raw, ok := lookupEnv(key)
		if !ok {
			continue
		}
		if err := setField(field, raw); err != nil {
			*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		}
	}
}

func setField(field reflect.Value, raw string) error {
	if !field.CanSet() {
		return errors.New("field cannot be set")
	}
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("expected an integer, got %q", raw)
		}
		field.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("expected a boolean, got %q", raw)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}
	return nil
}
