package rustgen

import (
	"fmt"
	"strings"
)

// Generate renders the Rust scaffolding source. Rendering is pure:
// every failure mode was consumed by New, and two calls produce
// byte-identical output.
func (g *Generator) Generate() string {
	var b strings.Builder
	g.rustPrelude(&b)
	for _, p := range g.plans {
		g.rustAbiDecl(&b, p)
		g.rustHelpers(&b, p)
	}
	g.rustIdioDecls(&b)
	g.rustTrait(&b)
	g.rustMacro(&b)
	g.rustFreeFuncs(&b)
	g.rustAccessors(&b)
	return b.String()
}

func (g *Generator) sliceType() string  { return g.names.CType("byte-slice") }
func (g *Generator) bufferType() string { return g.names.CType("byte-buffer") }

func (g *Generator) rustPrelude(b *strings.Builder) {
	sliceT, bufT := g.sliceType(), g.bufferType()
	fmt.Fprintf(b, `// Generated scaffolding for world %q. Do not edit.

#![allow(dead_code)]
#![allow(unused_unsafe)]
#![allow(clippy::missing_safety_doc)]

use std::cell::RefCell;

thread_local! {
    static LAST_ERROR: RefCell<Option<String>> = RefCell::new(None);
}

pub fn witffi_set_last_error(message: String) {
    LAST_ERROR.with(|slot| *slot.borrow_mut() = Some(message));
}

pub fn witffi_reset_last_error() {
    LAST_ERROR.with(|slot| *slot.borrow_mut() = None);
}

/// Borrowed view of caller-owned bytes. Valid only for the duration
/// of the call it is passed to; the callee never frees it.
#[repr(C)]
#[derive(Clone, Copy)]
pub struct %[2]s {
    pub ptr: *const u8,
    pub len: usize,
}

/// Callee-allocated bytes. The caller releases them through
/// %[4]s; a null ptr is the empty or absent buffer.
#[repr(C)]
#[derive(Clone, Copy)]
pub struct %[3]s {
    pub ptr: *mut u8,
    pub len: usize,
}

pub fn witffi_buf_from_vec(bytes: Vec<u8>) -> %[3]s {
    let mut boxed = bytes.into_boxed_slice();
    let ptr = boxed.as_mut_ptr();
    let len = boxed.len();
    ::core::mem::forget(boxed);
    %[3]s { ptr, len }
}

pub fn witffi_buf_null() -> %[3]s {
    %[3]s { ptr: ::core::ptr::null_mut(), len: 0 }
}

pub unsafe fn witffi_buf_free(buf: %[3]s) {
    if buf.ptr.is_null() {
        return;
    }
    drop(::std::boxed::Box::from_raw(::core::slice::from_raw_parts_mut(buf.ptr, buf.len)));
}

pub fn witffi_slice_str<'a>(slice: %[2]s) -> Result<&'a str, String> {
    if slice.ptr.is_null() {
        return Err("null pointer passed as string parameter".to_string());
    }
    let bytes = unsafe { ::core::slice::from_raw_parts(slice.ptr, slice.len) };
    ::core::str::from_utf8(bytes).map_err(|e| format!("invalid UTF-8 in string parameter: {}", e))
}

pub fn witffi_slice_bytes<'a>(slice: %[2]s) -> &'a [u8] {
    if slice.ptr.is_null() {
        return &[];
    }
    unsafe { ::core::slice::from_raw_parts(slice.ptr, slice.len) }
}

pub fn witffi_lift_string(buf: %[3]s) -> Result<String, String> {
    if buf.ptr.is_null() {
        return Ok(String::new());
    }
    let bytes = unsafe { ::core::slice::from_raw_parts(buf.ptr, buf.len) };
    ::core::str::from_utf8(bytes)
        .map(|s| s.to_string())
        .map_err(|e| format!("invalid UTF-8 in string value: {}", e))
}

pub fn witffi_lift_opt_string(buf: %[3]s) -> Result<Option<String>, String> {
    if buf.ptr.is_null() {
        return Ok(None);
    }
    witffi_lift_string(buf).map(Some)
}

pub fn witffi_lift_bytes(buf: %[3]s) -> Vec<u8> {
    if buf.ptr.is_null() {
        return Vec::new();
    }
    unsafe { ::core::slice::from_raw_parts(buf.ptr, buf.len) }.to_vec()
}

pub fn witffi_lift_opt_bytes(buf: %[3]s) -> Option<Vec<u8>> {
    if buf.ptr.is_null() {
        return None;
    }
    Some(witffi_lift_bytes(buf))
}

pub fn witffi_lift_char(value: u32) -> Result<char, String> {
    char::from_u32(value).ok_or_else(|| format!("invalid char scalar value: {}", value))
}

`, g.world.Name, sliceT, bufT, g.names.FreeFunc("byte-buffer"))
}

func (g *Generator) rustAbiDecl(b *strings.Builder, p *typePlan) {
	switch p.kind {
	case planRecord:
		fmt.Fprintf(b, "#[repr(C)]\n#[derive(Clone, Copy)]\npub struct %s {\n", p.cName)
		if len(p.fields) == 0 {
			b.WriteString("    pub _reserved: u8,\n")
		}
		for _, f := range p.fields {
			fmt.Fprintf(b, "    pub %s: %s,\n", f.rust, g.rustAbiType(f.ref))
		}
		b.WriteString("}\n\n")
	case planVariant:
		if p.hasPayload() {
			fmt.Fprintf(b, "#[repr(C)]\n#[derive(Clone, Copy)]\npub union %sPayload {\n", p.cName)
			for _, c := range p.cases {
				if c.ref != nil {
					fmt.Fprintf(b, "    pub %s: %s,\n", c.arm, g.rustAbiType(c.ref))
				}
			}
			b.WriteString("}\n\n")
		}
		fmt.Fprintf(b, "#[repr(C)]\n#[derive(Clone, Copy)]\npub struct %s {\n    pub tag: u32,\n", p.cName)
		if p.hasPayload() {
			fmt.Fprintf(b, "    pub payload: %sPayload,\n", p.cName)
		}
		b.WriteString("}\n\n")
		for i, c := range p.cases {
			fmt.Fprintf(b, "pub const %s: u32 = %d;\n", c.constName, i)
		}
		b.WriteString("\n")
	case planEnum:
		fmt.Fprintf(b, "pub type %s = u32;\n\n", p.cName)
		for i, c := range p.cases {
			fmt.Fprintf(b, "pub const %s: u32 = %d;\n", c.constName, i)
		}
		b.WriteString("\n")
	case planFlags:
		width := fmt.Sprintf("u%d", p.flagsWidth)
		fmt.Fprintf(b, "pub type %s = %s;\n\n", p.cName, width)
		for i, name := range p.flagNames {
			fmt.Fprintf(b, "pub const %s: %s = 1 << %d;\n", g.names.CConst(p.source, name), width, i)
		}
		b.WriteString("\n")
	case planOption:
		fmt.Fprintf(b, "#[repr(C)]\n#[derive(Clone, Copy)]\npub struct %s {\n    pub is_some: bool,\n    pub value: %s,\n}\n\n",
			p.cName, g.rustAbiType(p.elem))
	case planResult:
		fmt.Fprintf(b, "#[repr(C)]\n#[derive(Clone, Copy)]\npub struct %s {\n    pub is_ok: bool,\n", p.cName)
		if p.okRef != nil {
			fmt.Fprintf(b, "    pub ok: %s,\n", g.rustAbiType(p.okRef))
		}
		if p.errRef != nil {
			fmt.Fprintf(b, "    pub err: %s,\n", g.rustAbiType(p.errRef))
		}
		b.WriteString("}\n\n")
	case planList:
		fmt.Fprintf(b, "#[repr(C)]\n#[derive(Clone, Copy)]\npub struct %s {\n    pub ptr: *mut %s,\n    pub len: usize,\n}\n\n",
			p.cName, g.rustAbiType(p.elem))
	}
}

func (p *typePlan) hasPayload() bool {
	for _, c := range p.cases {
		if c.ref != nil {
			return true
		}
	}
	return false
}

func (g *Generator) rustHelpers(b *strings.Builder, p *typePlan) {
	switch p.kind {
	case planRecord:
		g.rustRecordHelpers(b, p)
	case planVariant:
		g.rustVariantHelpers(b, p)
	case planEnum:
		g.rustEnumLift(b, p)
	case planOption:
		g.rustOptionHelpers(b, p)
	case planResult:
		g.rustResultHelpers(b, p)
	case planList:
		g.rustListHelpers(b, p)
	}
}

func (g *Generator) rustRecordHelpers(b *strings.Builder, p *typePlan) {
	fmt.Fprintf(b, "pub fn witffi_lower_%s(value: %s) -> %s {\n", p.snake, p.rust, p.cName)
	if len(p.fields) == 0 {
		fmt.Fprintf(b, "    let _ = value;\n    %s { _reserved: 0 }\n}\n\n", p.cName)
	} else {
		fmt.Fprintf(b, "    %s {\n", p.cName)
		for _, f := range p.fields {
			fmt.Fprintf(b, "        %s: %s,\n", f.rust, g.lowerExpr(f.ref, "value."+f.rust))
		}
		b.WriteString("    }\n}\n\n")
	}

	fmt.Fprintf(b, "pub fn witffi_lift_%s(value: %s) -> Result<%s, String> {\n", p.snake, p.cName, p.rust)
	if len(p.fields) == 0 {
		fmt.Fprintf(b, "    let _ = value;\n    Ok(%s {})\n}\n\n", p.rust)
	} else {
		fmt.Fprintf(b, "    Ok(%s {\n", p.rust)
		for _, f := range p.fields {
			fmt.Fprintf(b, "        %s: %s,\n", f.rust, g.liftExpr(f.ref, "value."+f.rust))
		}
		b.WriteString("    })\n}\n\n")
	}

	if p.owned {
		fmt.Fprintf(b, "pub fn witffi_drop_%s(value: %s) {\n    unsafe {\n", p.snake, p.cName)
		for _, f := range p.fields {
			if stmt := g.dropStmt(f.ref, "value."+f.rust); stmt != "" {
				fmt.Fprintf(b, "        %s\n", stmt)
			}
		}
		b.WriteString("    }\n}\n\n")
	}
}

func (g *Generator) rustVariantHelpers(b *strings.Builder, p *typePlan) {
	fmt.Fprintf(b, "pub fn witffi_lower_%s(value: %s) -> %s {\n    match value {\n", p.snake, p.rust, p.cName)
	for _, c := range p.cases {
		if c.ref == nil {
			if p.hasPayload() {
				fmt.Fprintf(b, "        %s::%s => %s { tag: %s, payload: unsafe { ::core::mem::zeroed() } },\n",
					p.rust, c.rust, p.cName, c.constName)
			} else {
				fmt.Fprintf(b, "        %s::%s => %s { tag: %s },\n", p.rust, c.rust, p.cName, c.constName)
			}
			continue
		}
		fmt.Fprintf(b, "        %s::%s(v) => %s { tag: %s, payload: %sPayload { %s: %s } },\n",
			p.rust, c.rust, p.cName, c.constName, p.cName, c.arm, g.lowerExpr(c.ref, "v"))
	}
	b.WriteString("    }\n}\n\n")

	fmt.Fprintf(b, "pub fn witffi_lift_%s(value: %s) -> Result<%s, String> {\n    match value.tag {\n", p.snake, p.cName, p.rust)
	for _, c := range p.cases {
		if c.ref == nil {
			fmt.Fprintf(b, "        %s => Ok(%s::%s),\n", c.constName, p.rust, c.rust)
			continue
		}
		arm := fmt.Sprintf("unsafe { value.payload.%s }", c.arm)
		fmt.Fprintf(b, "        %s => Ok(%s::%s(%s)),\n", c.constName, p.rust, c.rust, g.liftExpr(c.ref, arm))
	}
	fmt.Fprintf(b, "        _ => Err(format!(\"invalid %s tag: {}\", value.tag)),\n    }\n}\n\n", p.source)

	if p.owned {
		fmt.Fprintf(b, "pub fn witffi_drop_%s(value: %s) {\n    unsafe {\n        match value.tag {\n", p.snake, p.cName)
		for _, c := range p.cases {
			if c.ref == nil {
				continue
			}
			stmt := g.dropStmt(c.ref, "value.payload."+c.arm)
			if stmt == "" {
				continue
			}
			fmt.Fprintf(b, "            %s => { %s }\n", c.constName, stmt)
		}
		b.WriteString("            _ => {}\n        }\n    }\n}\n\n")
	}
}

func (g *Generator) rustEnumLift(b *strings.Builder, p *typePlan) {
	fmt.Fprintf(b, "pub fn witffi_lift_%s(value: u32) -> Result<%s, String> {\n    match value {\n", p.snake, p.rust)
	for i, c := range p.cases {
		fmt.Fprintf(b, "        %d => Ok(%s::%s),\n", i, p.rust, c.rust)
	}
	fmt.Fprintf(b, "        _ => Err(format!(\"invalid %s ordinal: {}\", value)),\n    }\n}\n\n", p.source)
}

func (g *Generator) rustOptionHelpers(b *strings.Builder, p *typePlan) {
	fmt.Fprintf(b, "pub fn witffi_lower_%s(value: %s) -> %s {\n", p.snake, p.idio, p.cName)
	fmt.Fprintf(b, "    match value {\n        Some(v) => %s { is_some: true, value: %s },\n",
		p.cName, g.lowerExpr(p.elem, "v"))
	b.WriteString("        None => unsafe { ::core::mem::zeroed() },\n    }\n}\n\n")

	fmt.Fprintf(b, "pub fn witffi_lift_%s(value: %s) -> Result<%s, String> {\n", p.snake, p.cName, p.idio)
	fmt.Fprintf(b, "    if value.is_some {\n        Ok(Some(%s))\n    } else {\n        Ok(None)\n    }\n}\n\n",
		g.liftExpr(p.elem, "value.value"))
}

func (g *Generator) rustResultHelpers(b *strings.Builder, p *typePlan) {
	okPat, errPat := "Ok(_)", "Err(_)"
	if p.okRef != nil {
		okPat = "Ok(v)"
	}
	if p.errRef != nil {
		errPat = "Err(v)"
	}

	fmt.Fprintf(b, "pub fn witffi_lower_%s(value: %s) -> %s {\n    match value {\n", p.snake, p.idio, p.cName)
	fmt.Fprintf(b, "        %s => %s {\n            is_ok: true,\n", okPat, p.cName)
	if p.okRef != nil {
		fmt.Fprintf(b, "            ok: %s,\n", g.lowerExpr(p.okRef, "v"))
	}
	if p.errRef != nil {
		b.WriteString("            err: unsafe { ::core::mem::zeroed() },\n")
	}
	b.WriteString("        },\n")
	fmt.Fprintf(b, "        %s => %s {\n            is_ok: false,\n", errPat, p.cName)
	if p.okRef != nil {
		b.WriteString("            ok: unsafe { ::core::mem::zeroed() },\n")
	}
	if p.errRef != nil {
		fmt.Fprintf(b, "            err: %s,\n", g.lowerExpr(p.errRef, "v"))
	}
	b.WriteString("        },\n    }\n}\n\n")

	okExpr, errExpr := "()", "()"
	if p.okRef != nil {
		okExpr = g.liftExpr(p.okRef, "value.ok")
	}
	if p.errRef != nil {
		errExpr = g.liftExpr(p.errRef, "value.err")
	}
	fmt.Fprintf(b, "pub fn witffi_lift_%s(value: %s) -> Result<%s, String> {\n", p.snake, p.cName, p.idio)
	fmt.Fprintf(b, "    if value.is_ok {\n        Ok(Ok(%s))\n    } else {\n        Ok(Err(%s))\n    }\n}\n\n", okExpr, errExpr)

	if p.owned {
		fmt.Fprintf(b, "pub fn witffi_drop_%s(value: %s) {\n    unsafe {\n        if value.is_ok {\n", p.snake, p.cName)
		if p.okRef != nil {
			if stmt := g.dropStmt(p.okRef, "value.ok"); stmt != "" {
				fmt.Fprintf(b, "            %s\n", stmt)
			}
		}
		b.WriteString("        } else {\n")
		if p.errRef != nil {
			if stmt := g.dropStmt(p.errRef, "value.err"); stmt != "" {
				fmt.Fprintf(b, "            %s\n", stmt)
			}
		}
		b.WriteString("        }\n    }\n}\n\n")
	}
}

func (g *Generator) rustListHelpers(b *strings.Builder, p *typePlan) {
	fmt.Fprintf(b, "pub fn witffi_lower_%s(values: %s) -> %s {\n", p.snake, p.idio, p.cName)
	fmt.Fprintf(b, "    let lowered: Vec<%s> = values.into_iter().map(|v| %s).collect();\n",
		g.rustAbiType(p.elem), g.lowerExpr(p.elem, "v"))
	b.WriteString("    let mut boxed = lowered.into_boxed_slice();\n")
	b.WriteString("    let ptr = boxed.as_mut_ptr();\n")
	b.WriteString("    let len = boxed.len();\n")
	b.WriteString("    ::core::mem::forget(boxed);\n")
	fmt.Fprintf(b, "    %s { ptr, len }\n}\n\n", p.cName)

	fmt.Fprintf(b, "pub fn witffi_lift_%s(list: %s) -> Result<%s, String> {\n", p.snake, p.cName, p.idio)
	b.WriteString("    if list.ptr.is_null() {\n        return Ok(Vec::new());\n    }\n")
	b.WriteString("    let raw = unsafe { ::core::slice::from_raw_parts(list.ptr, list.len) };\n")
	b.WriteString("    let mut out = Vec::with_capacity(list.len);\n")
	fmt.Fprintf(b, "    for item in raw.iter().copied() {\n        out.push(%s);\n    }\n", g.liftExpr(p.elem, "item"))
	b.WriteString("    Ok(out)\n}\n\n")

	fmt.Fprintf(b, "pub fn witffi_drop_%s(list: %s) {\n", p.snake, p.cName)
	b.WriteString("    if list.ptr.is_null() {\n        return;\n    }\n    unsafe {\n")
	b.WriteString("        let boxed = ::std::boxed::Box::from_raw(::core::slice::from_raw_parts_mut(list.ptr, list.len));\n")
	if stmt := g.dropStmt(p.elem, "item"); stmt != "" {
		fmt.Fprintf(b, "        for item in boxed.iter().copied() {\n            %s\n        }\n", stmt)
	}
	b.WriteString("        drop(boxed);\n    }\n}\n\n")
}

// rustIdioDecls renders the idiomatic Rust types the trait speaks in,
// in the same order as the ABI declarations.
func (g *Generator) rustIdioDecls(b *strings.Builder) {
	for _, p := range g.plans {
		switch p.kind {
		case planRecord:
			fmt.Fprintf(b, "#[derive(Debug, Clone)]\npub struct %s {\n", p.rust)
			for _, f := range p.fields {
				fmt.Fprintf(b, "    pub %s: %s,\n", f.rust, f.ref.idio)
			}
			b.WriteString("}\n\n")
		case planVariant:
			fmt.Fprintf(b, "#[derive(Debug, Clone)]\npub enum %s {\n", p.rust)
			for _, c := range p.cases {
				if c.ref == nil {
					fmt.Fprintf(b, "    %s,\n", c.rust)
				} else {
					fmt.Fprintf(b, "    %s(%s),\n", c.rust, c.ref.idio)
				}
			}
			b.WriteString("}\n\n")
		case planEnum:
			fmt.Fprintf(b, "#[derive(Debug, Clone, Copy, PartialEq, Eq)]\npub enum %s {\n", p.rust)
			for _, c := range p.cases {
				fmt.Fprintf(b, "    %s,\n", c.rust)
			}
			b.WriteString("}\n\n")
		case planFlags:
			fmt.Fprintf(b, "pub type %s = u%d;\n\n", p.rust, p.flagsWidth)
		}
	}
}

func (g *Generator) rustTrait(b *strings.Builder) {
	fmt.Fprintf(b, "/// The capability surface of world %q. Implement it and hand the\n", g.world.Name)
	fmt.Fprintf(b, "/// implementation to witffi_register! to export the C symbols.\npub trait %s {\n", g.traitName)
	for _, f := range g.funcs {
		var params []string
		for _, p := range f.params {
			params = append(params, p.ident+": "+g.paramIdio(p))
		}
		sig := fmt.Sprintf("    fn %s(%s)", f.method, strings.Join(params, ", "))
		if ret := retIdio(f.ret); ret != "()" {
			sig += " -> " + ret
		}
		b.WriteString(sig + ";\n")
	}
	b.WriteString("}\n\n")
}

func (g *Generator) rustMacro(b *strings.Builder) {
	fmt.Fprintf(b, "/// Exports the C wrappers for an implementation of %s.\n", g.traitName)
	b.WriteString("/// Invoke exactly once per cdylib, in a scope that imports this\n/// module's items.\n")
	b.WriteString("#[macro_export]\nmacro_rules! witffi_register {\n    ($impl:ty) => {\n")
	for _, f := range g.funcs {
		g.rustWrapper(b, f)
	}
	b.WriteString("    };\n}\n\n")
}

func (g *Generator) rustWrapper(b *strings.Builder, f *fnPlan) {
	var params []string
	for _, p := range f.params {
		t := g.sliceType()
		if p.mode == paramValue {
			t = g.rustAbiType(p.ref)
		}
		params = append(params, p.ident+": "+t)
	}

	fmt.Fprintf(b, "        #[no_mangle]\n        pub unsafe extern \"C\" fn %s(%s) -> %s {\n",
		f.symbol, strings.Join(params, ", "), g.retRustType(f.ret))
	b.WriteString("            witffi_reset_last_error();\n")
	b.WriteString("            let outcome = ::std::panic::catch_unwind(::std::panic::AssertUnwindSafe(move || -> ::core::result::Result<_, String> {\n")
	for _, p := range f.params {
		switch p.mode {
		case paramStr:
			fmt.Fprintf(b, "                let %s = witffi_slice_str(%s)?;\n", p.ident, p.ident)
		case paramBytes:
			fmt.Fprintf(b, "                let %s = witffi_slice_bytes(%s);\n", p.ident, p.ident)
		default:
			fmt.Fprintf(b, "                let %s = %s;\n", p.ident, g.liftExpr(p.ref, p.ident))
		}
	}

	var args []string
	for _, p := range f.params {
		args = append(args, p.ident)
	}
	call := fmt.Sprintf("<$impl as %s>::%s(%s)", g.traitName, f.method, strings.Join(args, ", "))
	if f.ret.isResult {
		call += g.errMap(f.ret) + "?"
	}
	if f.ret.ok == nil {
		fmt.Fprintf(b, "                %s;\n                Ok(true)\n", call)
	} else {
		fmt.Fprintf(b, "                let value = %s;\n", call)
		fmt.Fprintf(b, "                Ok(%s)\n", g.lowerExpr(f.ret.ok, "value"))
	}
	b.WriteString("            }));\n")

	success := "value"
	if retPointer(f.ret.ok) {
		success = "::std::boxed::Box::into_raw(::std::boxed::Box::new(value))"
	}
	fmt.Fprintf(b, `            match outcome {
                Ok(Ok(value)) => %s,
                Ok(Err(message)) => {
                    witffi_set_last_error(message);
                    %s
                }
                Err(_) => {
                    witffi_set_last_error("panic crossed the C boundary".to_string());
                    %s
                }
            }
        }

`, success, g.failSentinel(f.ret), g.failSentinel(f.ret))
}

// errMap converts a trait Err value into the error-slot message.
func (g *Generator) errMap(ret retPlan) string {
	switch {
	case ret.err == nil:
		return `.map_err(|_| "operation failed".to_string())`
	case ret.err.kind == refBuffer && ret.err.isString && !ret.err.optional:
		return "" // already String
	default:
		return `.map_err(|e| format!("{:?}", e))`
	}
}

func (g *Generator) rustFreeFuncs(b *strings.Builder) {
	fmt.Fprintf(b, "#[no_mangle]\npub unsafe extern \"C\" fn %s(buf: %s) {\n    unsafe { witffi_buf_free(buf) };\n}\n\n",
		g.names.FreeFunc("byte-buffer"), g.bufferType())
	for _, p := range g.plans {
		if !p.emitsFree() {
			continue
		}
		sym := g.freeSymbol(p)
		switch {
		case p.kind == planRecord && len(p.fields) == 0:
			fmt.Fprintf(b, "#[no_mangle]\npub extern \"C\" fn %s(_value: %s) {}\n\n", sym, p.cName)
		case p.kind == planList:
			fmt.Fprintf(b, "#[no_mangle]\npub unsafe extern \"C\" fn %s(list: %s) {\n    witffi_drop_%s(list);\n}\n\n",
				sym, p.cName, p.snake)
		default:
			fmt.Fprintf(b, "#[no_mangle]\npub unsafe extern \"C\" fn %s(value: *mut %s) {\n", sym, p.cName)
			b.WriteString("    if value.is_null() {\n        return;\n    }\n")
			fmt.Fprintf(b, "    let boxed = unsafe { ::std::boxed::Box::from_raw(value) };\n    witffi_drop_%s(*boxed);\n}\n\n", p.snake)
		}
	}
}

func (g *Generator) rustAccessors(b *strings.Builder) {
	fmt.Fprintf(b, `#[no_mangle]
pub extern "C" fn %s() -> usize {
    LAST_ERROR.with(|slot| slot.borrow().as_ref().map(|m| m.len()).unwrap_or(0))
}

#[no_mangle]
pub unsafe extern "C" fn %s(buf: *mut u8, len: usize) -> isize {
    LAST_ERROR.with(|slot| {
        let borrow = slot.borrow();
        let message = match borrow.as_ref() {
            Some(m) => m,
            None => return 0,
        };
        if buf.is_null() || len < message.len() {
            return -1;
        }
        unsafe { ::core::ptr::copy_nonoverlapping(message.as_ptr(), buf, message.len()) };
        message.len() as isize
    })
}

#[no_mangle]
pub extern "C" fn %s() {
    witffi_reset_last_error();
}
`,
		g.names.CFunc("last", "error", "length"),
		g.names.CFunc("last", "error", "message"),
		g.names.CFunc("clear", "last", "error"))
}
