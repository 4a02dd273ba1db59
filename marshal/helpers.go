package marshal

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/sdl-bridge/errors"
	"github.com/wippyai/sdl-bridge/marshal/internal/abi"
)

func mismatch(path []string, value any, schema wit.Type, detail string, args ...any) *errors.Error {
	return errors.ShapeMismatch(clonePath(path), value, TypeString(schema), detail, args...)
}

// describe renders a value for error details, including its Go type.
func describe(value any) string {
	if value == nil {
		return "nil"
	}
	return fmt.Sprintf("%v (%s)", value, abi.TypeName(value))
}

func clonePath(path []string) []string {
	if len(path) == 0 {
		return nil
	}
	out := make([]string, len(path))
	copy(out, path)
	return out
}

func appendPath(path []string, name string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, name)
}

func appendIndex(path []string, i int) []string {
	return appendPath(path, "["+strconv.Itoa(i)+"]")
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func isOption(t wit.Type) bool {
	td, ok := t.(*wit.TypeDef)
	if !ok || td == nil {
		return false
	}
	_, ok = td.Kind.(*wit.Option)
	return ok
}

// findGoField matches by: 1) wit:"name" tag, 2) case-insensitive, 3) kebab-case.
func findGoField(goType reflect.Type, witName string) (reflect.StructField, bool) {
	for i := 0; i < goType.NumField(); i++ {
		field := goType.Field(i)
		if !field.IsExported() {
			continue
		}

		if tag := field.Tag.Get("wit"); tag != "" {
			if tag == "-" {
				continue
			}
			if tag == witName {
				return field, true
			}
		}

		if strings.EqualFold(field.Name, witName) {
			return field, true
		}

		if toKebabCase(field.Name) == witName {
			return field, true
		}
	}
	return reflect.StructField{}, false
}

// toKebabCase converts camelCase or PascalCase to kebab-case, keeping
// acronyms together: "sampleRate" -> "sample-rate", "GPUDevice" -> "gpu-device".
func toKebabCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prevLower := unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if prevLower || (nextLower && unicode.IsUpper(runes[i-1])) {
					b.WriteByte('-')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
