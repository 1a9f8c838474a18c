package mapper

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mahsel79/FulkopingLibraryWeb-sub000/pkg/errors"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/store"
)

// ValidateEntityType checks at wiring time that T is usable with the field
// mapper: a struct (or pointer to struct) whose zero value can be
// instantiated. A repository built over a non-struct type is a programmer
// error and should fail when the container is assembled, not on the first
// conversion.
func ValidateEntityType[T any]() error {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("entity type %s is not a struct", t.String())
	}
	return nil
}

// ToFieldMap converts an entity into its schemaless document representation.
// Every exported field with a non-nil value is copied under its document
// name (json tag, falling back to snake_case of the field name). Nil
// pointers, interfaces, maps and slices are omitted so the result is safe
// to use for partial writes.
func ToFieldMap(entity any) (store.FieldMap, error) {
	v := reflect.ValueOf(entity)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, errors.NewConversionFailure("cannot map nil entity", nil)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, errors.NewConversionFailure(
			fmt.Sprintf("cannot map %s to fields", v.Kind()), nil)
	}

	t := v.Type()
	doc := make(store.FieldMap, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := documentFieldName(field)
		if name == "" {
			continue
		}

		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
			if fv.IsNil() {
				continue
			}
			if fv.Kind() == reflect.Ptr || fv.Kind() == reflect.Interface {
				fv = fv.Elem()
			}
		}
		if !fv.CanInterface() {
			return nil, errors.NewConversionFailure(
				fmt.Sprintf("cannot read field %s", field.Name), nil)
		}
		doc[name] = fv.Interface()
	}

	return doc, nil
}

// ToEntity builds a fresh T and assigns every document field whose name
// matches one of T's fields. Unknown document keys are ignored; fields
// absent from the document keep their zero value. Any single field that
// cannot be assigned fails the whole conversion.
func ToEntity[T any](doc store.FieldMap) (T, error) {
	var entity T

	v := reflect.ValueOf(&entity).Elem()
	if v.Kind() == reflect.Ptr {
		v.Set(reflect.New(v.Type().Elem()))
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return entity, errors.NewConversionFailure(
			fmt.Sprintf("cannot populate %s from fields", v.Kind()), nil)
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := documentFieldName(field)
		raw, ok := doc[name]
		if !ok || raw == nil {
			continue
		}
		if err := assignField(v.Field(i), raw); err != nil {
			return entity, errors.NewConversionFailure(
				fmt.Sprintf("field %s", field.Name), err)
		}
	}

	return entity, nil
}

// documentFieldName resolves the document key for a struct field: the json
// tag when present, snake_case of the Go name otherwise. A "-" tag opts the
// field out of mapping entirely.
func documentFieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	if tag != "" {
		if idx := strings.Index(tag, ","); idx >= 0 {
			tag = tag[:idx]
		}
		if tag != "" {
			return tag
		}
	}
	return toSnake(field.Name)
}

var timeType = reflect.TypeOf(time.Time{})

// assignField sets target from a document value, coercing across the type
// drift introduced by JSON round-trips (float64 for every number, RFC3339
// strings for timestamps).
func assignField(target reflect.Value, raw any) error {
	if !target.CanSet() {
		return fmt.Errorf("field is not settable")
	}

	if target.Kind() == reflect.Ptr {
		ptr := reflect.New(target.Type().Elem())
		if err := assignField(ptr.Elem(), raw); err != nil {
			return err
		}
		target.Set(ptr)
		return nil
	}

	rv := reflect.ValueOf(raw)

	// Timestamps arrive either as time.Time (in-process stores) or as the
	// RFC3339 string a JSON column hands back.
	if target.Type() == timeType {
		switch val := raw.(type) {
		case time.Time:
			target.Set(reflect.ValueOf(val))
			return nil
		case string:
			parsed, err := time.Parse(time.RFC3339Nano, val)
			if err != nil {
				return fmt.Errorf("parse time %q: %w", val, err)
			}
			target.Set(reflect.ValueOf(parsed))
			return nil
		}
		return fmt.Errorf("cannot convert %T to time.Time", raw)
	}

	if rv.Type().AssignableTo(target.Type()) {
		target.Set(rv)
		return nil
	}

	switch target.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch val := raw.(type) {
		case float64:
			target.SetInt(int64(val))
			return nil
		case float32:
			target.SetInt(int64(val))
			return nil
		case int:
			target.SetInt(int64(val))
			return nil
		case int64:
			target.SetInt(val)
			return nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		switch val := raw.(type) {
		case float64:
			if val >= 0 {
				target.SetUint(uint64(val))
				return nil
			}
		case int64:
			if val >= 0 {
				target.SetUint(uint64(val))
				return nil
			}
		}
	case reflect.Float32, reflect.Float64:
		switch val := raw.(type) {
		case float64:
			target.SetFloat(val)
			return nil
		case int:
			target.SetFloat(float64(val))
			return nil
		case int64:
			target.SetFloat(float64(val))
			return nil
		}
	case reflect.String:
		if val, ok := raw.(string); ok {
			target.SetString(val)
			return nil
		}
	case reflect.Bool:
		if val, ok := raw.(bool); ok {
			target.SetBool(val)
			return nil
		}
	}

	if rv.Type().ConvertibleTo(target.Type()) {
		target.Set(rv.Convert(target.Type()))
		return nil
	}

	return fmt.Errorf("cannot convert %T to %s", raw, target.Type())
}
