package util

import (
	"fmt"
	"reflect"
)

// IsStructInitialized checks whether all fields of the given struct pointer are non-nil.
// Fields tagged with `wire:"-"` are managed outside of the dependency injector and
// are still required to be set.
func IsStructInitialized(s interface{}) error {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return fmt.Errorf("expected struct, got %s", v.Kind())
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)

		switch field.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			if field.IsNil() {
				return fmt.Errorf("field %s.%s is not initialized", t.Name(), t.Field(i).Name)
			}
		default:
			// value types are considered initialized
		}
	}

	return nil
}
