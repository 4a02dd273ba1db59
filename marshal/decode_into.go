package marshal

import (
	"reflect"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/sdl-bridge/errors"
)

// DecodeInto decodes value against schema and stores the result in dst,
// which must be a non-nil pointer. Records fill structs field by field
// (matched by wit tag, case-insensitive name, or kebab-case name); numeric
// results must fit the destination's Go type.
func DecodeInto(value any, schema wit.Type, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New(errors.PhaseMarshal, errors.KindArgument).
			Detail("destination must be a non-nil pointer, got %T", dst).
			Build()
	}
	decoded, err := Decode(value, schema)
	if err != nil {
		return err
	}
	return assign(rv.Elem(), decoded, schema, nil)
}

func assign(dst reflect.Value, v any, schema wit.Type, path []string) error {
	if v == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}

	if dst.Kind() == reflect.Pointer {
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return assign(dst.Elem(), v, schema, path)
	}

	if m, ok := v.(map[string]any); ok && dst.Kind() == reflect.Struct {
		rec := recordOf(schema)
		if rec == nil {
			return mismatch(path, v, schema, "record value for non-record schema")
		}
		for _, f := range rec.Fields {
			sf, ok := findGoField(dst.Type(), f.Name)
			if !ok {
				return mismatch(appendPath(path, f.Name), nil, f.Type, "no Go field for %q in %s", f.Name, dst.Type())
			}
			if err := assign(dst.FieldByIndex(sf.Index), m[f.Name], f.Type, appendPath(path, f.Name)); err != nil {
				return err
			}
		}
		return nil
	}

	if list, ok := v.([]any); ok && dst.Kind() == reflect.Slice {
		elem := listElem(schema)
		out := reflect.MakeSlice(dst.Type(), len(list), len(list))
		for i, e := range list {
			if err := assign(out.Index(i), e, elem, appendIndex(path, i)); err != nil {
				return err
			}
		}
		dst.Set(out)
		return nil
	}

	src := reflect.ValueOf(v)
	switch dst.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		var u uint64
		switch src.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			u = src.Uint()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if src.Int() < 0 {
				return mismatch(path, v, schema, "negative value for %s", dst.Type())
			}
			u = uint64(src.Int())
		default:
			return mismatch(path, v, schema, "cannot store %T in %s", v, dst.Type())
		}
		if dst.OverflowUint(u) {
			return mismatch(path, v, schema, "value %d overflows %s", u, dst.Type())
		}
		dst.SetUint(u)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var i int64
		switch src.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			i = src.Int()
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			if src.Uint() > 1<<63-1 {
				return mismatch(path, v, schema, "value overflows %s", dst.Type())
			}
			i = int64(src.Uint())
		default:
			return mismatch(path, v, schema, "cannot store %T in %s", v, dst.Type())
		}
		if dst.OverflowInt(i) {
			return mismatch(path, v, schema, "value %d overflows %s", i, dst.Type())
		}
		dst.SetInt(i)
		return nil
	case reflect.Float32, reflect.Float64:
		if src.Kind() != reflect.Float32 && src.Kind() != reflect.Float64 {
			return mismatch(path, v, schema, "cannot store %T in %s", v, dst.Type())
		}
		if dst.OverflowFloat(src.Float()) {
			return mismatch(path, v, schema, "value overflows %s", dst.Type())
		}
		dst.SetFloat(src.Float())
		return nil
	}

	if src.Type().AssignableTo(dst.Type()) {
		dst.Set(src)
		return nil
	}
	if src.Type().ConvertibleTo(dst.Type()) && src.Kind() == dst.Kind() {
		dst.Set(src.Convert(dst.Type()))
		return nil
	}
	return mismatch(path, v, schema, "cannot store %T in %s", v, dst.Type())
}

func recordOf(schema wit.Type) *wit.Record {
	td, ok := schema.(*wit.TypeDef)
	if !ok || td == nil {
		return nil
	}
	switch k := td.Kind.(type) {
	case *wit.Record:
		return k
	case *wit.Option:
		return recordOf(k.Type)
	}
	return nil
}

func listElem(schema wit.Type) wit.Type {
	td, ok := schema.(*wit.TypeDef)
	if !ok || td == nil {
		return nil
	}
	switch k := td.Kind.(type) {
	case *wit.List:
		return k.Type
	case *wit.Option:
		return listElem(k.Type)
	}
	return nil
}
