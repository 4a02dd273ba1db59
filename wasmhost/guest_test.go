package wasmhost

// guestModule encodes a minimal guest that imports the four sdl functions,
// re-exports each one under the same name and exports one page of memory.
func guestModule() []byte {
	const (
		i32     = 0x7f
		funcTyp = 0x60
	)
	call := []byte{funcTyp, 4, i32, i32, i32, i32, 1, i32}
	buf := []byte{funcTyp, 2, i32, i32, 1, i32}

	imports := [][2]any{
		{"call", 0}, {"result", 1}, {"poll_event", 1}, {"constants", 1},
	}

	var out []byte
	out = append(out, 0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00)

	// types
	types := append([]byte{2}, call...)
	types = append(types, buf...)
	out = section(out, 1, types)

	// imports
	imp := []byte{byte(len(imports))}
	for _, im := range imports {
		imp = appendName(imp, ModuleName)
		imp = appendName(imp, im[0].(string))
		imp = append(imp, 0x00, byte(im[1].(int)))
	}
	out = section(out, 2, imp)

	// functions 4..7 wrap imports 0..3
	fns := []byte{byte(len(imports))}
	for _, im := range imports {
		fns = append(fns, byte(im[1].(int)))
	}
	out = section(out, 3, fns)

	// memory, one page
	out = section(out, 5, []byte{1, 0x00, 1})

	// exports
	exp := []byte{byte(len(imports) + 1)}
	exp = appendName(exp, "memory")
	exp = append(exp, 0x02, 0)
	for i, im := range imports {
		exp = appendName(exp, im[0].(string))
		exp = append(exp, 0x00, byte(len(imports)+i))
	}
	out = section(out, 7, exp)

	// code
	code := []byte{byte(len(imports))}
	for i, im := range imports {
		params := 2
		if im[1].(int) == 0 {
			params = 4
		}
		body := []byte{0} // no locals
		for p := 0; p < params; p++ {
			body = append(body, 0x20, byte(p)) // local.get
		}
		body = append(body, 0x10, byte(i), 0x0b) // call, end
		code = appendU32(code, uint32(len(body)))
		code = append(code, body...)
	}
	out = section(out, 10, code)
	return out
}

func section(out []byte, id byte, payload []byte) []byte {
	out = append(out, id)
	out = appendU32(out, uint32(len(payload)))
	return append(out, payload...)
}

func appendName(out []byte, name string) []byte {
	out = appendU32(out, uint32(len(name)))
	return append(out, name...)
}

func appendU32(out []byte, v uint32) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}
