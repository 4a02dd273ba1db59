package marshal

import (
	"fmt"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/sdl-bridge/marshal/internal/abi"
	"github.com/wippyai/sdl-bridge/resource"
)

// MaxBytes is the largest byte buffer accepted or produced by one call.
const MaxBytes = abi.MaxBytesSize

// Field builds a record field.
func Field(name string, t wit.Type) wit.Field {
	return wit.Field{Name: name, Type: t}
}

// Record builds an anonymous record schema.
func Record(fields ...wit.Field) *wit.TypeDef {
	return &wit.TypeDef{Kind: &wit.Record{Fields: fields}}
}

// Named gives a schema a display name.
func Named(name string, td *wit.TypeDef) *wit.TypeDef {
	td.Name = &name
	return td
}

// Bytes is the byte buffer schema, list<u8>.
func Bytes() *wit.TypeDef {
	return &wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}}
}

// List builds a list schema.
func List(elem wit.Type) *wit.TypeDef {
	return &wit.TypeDef{Kind: &wit.List{Type: elem}}
}

// Option builds an option schema; nil decodes and encodes as absent.
func Option(t wit.Type) *wit.TypeDef {
	return &wit.TypeDef{Kind: &wit.Option{Type: t}}
}

// Enum builds an enum schema whose native value is the case index.
func Enum(cases ...string) *wit.TypeDef {
	e := &wit.Enum{Cases: make([]wit.EnumCase, len(cases))}
	for i, c := range cases {
		e.Cases[i] = wit.EnumCase{Name: c}
	}
	return &wit.TypeDef{Kind: e}
}

// Flags builds a flags schema whose native value is a bitmask with bit i
// set for flag i.
func Flags(names ...string) *wit.TypeDef {
	f := &wit.Flags{Flags: make([]wit.Flag, len(names))}
	for i, n := range names {
		f.Flags[i] = wit.Flag{Name: n}
	}
	return &wit.TypeDef{Kind: f}
}

var resourceDefs = func() map[resource.Kind]*wit.TypeDef {
	m := make(map[resource.Kind]*wit.TypeDef)
	for _, k := range resource.Kinds() {
		name := k.String()
		m[k] = &wit.TypeDef{Name: &name, Kind: &wit.Resource{}}
	}
	return m
}()

// Handle is the schema for an owned handle of the given kind, used for
// creation results and destroy arguments.
func Handle(kind resource.Kind) *wit.TypeDef {
	return &wit.TypeDef{Kind: &wit.Own{Type: resourceDefs[kind]}}
}

// Borrow is the schema for a borrowed handle of the given kind, used by
// every call that operates on a resource without ending its life.
func Borrow(kind resource.Kind) *wit.TypeDef {
	return &wit.TypeDef{Kind: &wit.Borrow{Type: resourceDefs[kind]}}
}

// HandleKind reports the resource kind a handle schema refers to.
func HandleKind(t wit.Type) (resource.Kind, bool) {
	td, ok := t.(*wit.TypeDef)
	if !ok {
		return resource.KindInvalid, false
	}
	var res *wit.TypeDef
	switch k := td.Kind.(type) {
	case *wit.Own:
		res = k.Type
	case *wit.Borrow:
		res = k.Type
	default:
		return resource.KindInvalid, false
	}
	if res == nil || res.Name == nil {
		return resource.KindInvalid, false
	}
	return resource.ParseKind(*res.Name)
}

// Owned reports whether t is an owned handle, one the call consumes.
func Owned(t wit.Type) bool {
	td, ok := t.(*wit.TypeDef)
	if !ok {
		return false
	}
	_, ok = td.Kind.(*wit.Own)
	return ok
}

// TypeString renders a schema in WIT syntax for errors and listings.
func TypeString(t wit.Type) string {
	switch v := t.(type) {
	case nil:
		return "_"
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v == nil {
			return "_"
		}
		if v.Name != nil {
			return *v.Name
		}
		return typeDefString(v)
	default:
		return fmt.Sprintf("%T", t)
	}
}

func typeDefString(td *wit.TypeDef) string {
	switch k := td.Kind.(type) {
	case *wit.Record:
		parts := make([]string, len(k.Fields))
		for i, f := range k.Fields {
			parts[i] = f.Name + ": " + TypeString(f.Type)
		}
		return "record { " + strings.Join(parts, ", ") + " }"
	case *wit.List:
		return "list<" + TypeString(k.Type) + ">"
	case *wit.Option:
		return "option<" + TypeString(k.Type) + ">"
	case *wit.Enum:
		names := make([]string, len(k.Cases))
		for i, c := range k.Cases {
			names[i] = c.Name
		}
		return "enum { " + strings.Join(names, ", ") + " }"
	case *wit.Flags:
		names := make([]string, len(k.Flags))
		for i, f := range k.Flags {
			names[i] = f.Name
		}
		return "flags { " + strings.Join(names, ", ") + " }"
	case *wit.Own:
		return "own<" + TypeString(k.Type) + ">"
	case *wit.Borrow:
		return "borrow<" + TypeString(k.Type) + ">"
	case *wit.Resource:
		return "resource"
	default:
		return fmt.Sprintf("%T", k)
	}
}
