package rustgen

import (
	"fmt"
	"strings"
)

// GenerateHeader renders the C header. It declares the same types,
// functions and constants as the Rust source, in the same order, from
// the same plans.
func (g *Generator) GenerateHeader() string {
	var b strings.Builder
	g.cPrelude(&b)
	for _, p := range g.plans {
		g.cTypeDecl(&b, p)
	}
	g.cFunctionDecls(&b)
	g.cFreeDecls(&b)
	g.cAccessorDecls(&b)
	b.WriteString("\n#ifdef __cplusplus\n}\n#endif\n")
	return b.String()
}

func (g *Generator) cPrelude(b *strings.Builder) {
	fmt.Fprintf(b, `// Generated C interface for world %q. Do not edit.

#pragma once

#include <stdbool.h>
#include <stddef.h>
#include <stdint.h>

#ifdef __cplusplus
extern "C" {
#endif

// Borrowed view of caller-owned bytes. Valid only for the duration of
// the call it is passed to.
typedef struct {
    const uint8_t *ptr;
    size_t len;
} %s;

// Callee-allocated bytes. Release with %s; a null
// ptr is the empty or absent buffer.
typedef struct {
    uint8_t *ptr;
    size_t len;
} %s;

`, g.world.Name, g.sliceType(), g.names.FreeFunc("byte-buffer"), g.bufferType())
}

// ptrTo forms the C pointer spelling for a storage type.
func ptrTo(cType string) string {
	if strings.HasSuffix(cType, "*") {
		return cType + "*"
	}
	return cType + " *"
}

func (g *Generator) cTypeDecl(b *strings.Builder, p *typePlan) {
	switch p.kind {
	case planRecord:
		b.WriteString("typedef struct {\n")
		if len(p.fields) == 0 {
			b.WriteString("    uint8_t _reserved;\n")
		}
		for _, f := range p.fields {
			fmt.Fprintf(b, "    %s;\n", cDecl(g.cType(f.ref), f.c))
		}
		fmt.Fprintf(b, "} %s;\n\n", p.cName)
	case planVariant:
		b.WriteString("typedef struct {\n    uint32_t tag;\n")
		if p.hasPayload() {
			b.WriteString("    union {\n")
			for _, c := range p.cases {
				if c.ref != nil {
					fmt.Fprintf(b, "        %s;\n", cDecl(g.cType(c.ref), c.arm))
				}
			}
			b.WriteString("    } payload;\n")
		}
		fmt.Fprintf(b, "} %s;\n\nenum {\n", p.cName)
		for i, c := range p.cases {
			fmt.Fprintf(b, "    %s = %d,\n", c.constName, i)
		}
		b.WriteString("};\n\n")
	case planEnum:
		fmt.Fprintf(b, "typedef uint32_t %s;\n\nenum {\n", p.cName)
		for i, c := range p.cases {
			fmt.Fprintf(b, "    %s = %d,\n", c.constName, i)
		}
		b.WriteString("};\n\n")
	case planFlags:
		fmt.Fprintf(b, "typedef uint%d_t %s;\n\n", p.flagsWidth, p.cName)
		for i, name := range p.flagNames {
			fmt.Fprintf(b, "#define %s ((uint%d_t)1 << %d)\n", g.names.CConst(p.source, name), p.flagsWidth, i)
		}
		b.WriteString("\n")
	case planOption:
		fmt.Fprintf(b, "typedef struct {\n    bool is_some;\n    %s;\n} %s;\n\n",
			cDecl(g.cType(p.elem), "value"), p.cName)
	case planResult:
		b.WriteString("typedef struct {\n    bool is_ok;\n")
		if p.okRef != nil {
			fmt.Fprintf(b, "    %s;\n", cDecl(g.cType(p.okRef), "ok"))
		}
		if p.errRef != nil {
			fmt.Fprintf(b, "    %s;\n", cDecl(g.cType(p.errRef), "err"))
		}
		fmt.Fprintf(b, "} %s;\n\n", p.cName)
	case planList:
		fmt.Fprintf(b, "typedef struct {\n    %s;\n    size_t len;\n} %s;\n\n",
			cDecl(ptrTo(g.cType(p.elem)), "ptr"), p.cName)
	}
}

func (g *Generator) cFunctionDecls(b *strings.Builder) {
	for _, f := range g.funcs {
		fmt.Fprintf(b, "%s;\n", g.cSignature(f))
	}
	b.WriteString("\n")
}

func (g *Generator) cSignature(f *fnPlan) string {
	var params []string
	for _, p := range f.params {
		t := g.sliceType()
		if p.mode == paramValue {
			t = g.cType(p.ref)
		}
		params = append(params, cDecl(t, p.ident))
	}
	plist := "void"
	if len(params) > 0 {
		plist = strings.Join(params, ", ")
	}
	return cDecl(g.retCType(f.ret), f.symbol+"("+plist+")")
}

func (g *Generator) cFreeDecls(b *strings.Builder) {
	fmt.Fprintf(b, "void %s(%s);\n", g.names.FreeFunc("byte-buffer"), cDecl(g.bufferType(), "buf"))
	for _, p := range g.plans {
		if !p.emitsFree() {
			continue
		}
		sym := g.freeSymbol(p)
		switch {
		case p.kind == planRecord && len(p.fields) == 0:
			fmt.Fprintf(b, "void %s(%s);\n", sym, cDecl(p.cName, "value"))
		case p.kind == planList:
			fmt.Fprintf(b, "void %s(%s);\n", sym, cDecl(p.cName, "list"))
		default:
			fmt.Fprintf(b, "void %s(%s);\n", sym, cDecl(ptrTo(p.cName), "value"))
		}
	}
	b.WriteString("\n")
}

func (g *Generator) cAccessorDecls(b *strings.Builder) {
	b.WriteString("// Length in bytes of the message left by the most recent failing\n")
	b.WriteString("// call on this thread, or 0 when the last call succeeded.\n")
	fmt.Fprintf(b, "size_t %s(void);\n\n", g.names.CFunc("last", "error", "length"))
	b.WriteString("// Copies the pending message into buf and returns the byte count,\n")
	b.WriteString("// 0 when no error is pending, or -1 when buf is null or too small.\n")
	fmt.Fprintf(b, "ptrdiff_t %s(uint8_t *buf, size_t len);\n\n", g.names.CFunc("last", "error", "message"))
	fmt.Fprintf(b, "void %s(void);\n", g.names.CFunc("clear", "last", "error"))
}
