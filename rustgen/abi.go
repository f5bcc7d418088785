package rustgen

import (
	"fmt"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/witffi/classify"
	"github.com/wippyai/witffi/errors"
)

type refKind int

const (
	refScalar refKind = iota
	refBuffer         // owned byte buffer: strings and byte lists
	refNamed          // by-value named or synthesized aggregate
	refPtr            // nullable pointer to a named aggregate
)

// typeRef is one use of a type in a stored position: a record field,
// union arm, synthesized-aggregate member or by-value parameter. It
// fixes all three spellings at once so the Rust artifact, the C
// header and the trait cannot drift apart.
type typeRef struct {
	kind     refKind
	scalar   classify.Scalar
	isString bool // refBuffer: validated text rather than raw bytes
	optional bool // null or zeroed storage encodes absence
	plan     *typePlan
	cls      *classify.Classification
	idio     string // idiomatic Rust spelling
	comp     string // PascalCase component for synthesized-type names
	source   string // WIT spelling, for diagnostics
}

var cScalar = map[classify.Scalar]string{
	classify.ScalarBool: "bool",
	classify.ScalarU8:   "uint8_t",
	classify.ScalarS8:   "int8_t",
	classify.ScalarU16:  "uint16_t",
	classify.ScalarS16:  "int16_t",
	classify.ScalarU32:  "uint32_t",
	classify.ScalarS32:  "int32_t",
	classify.ScalarU64:  "uint64_t",
	classify.ScalarS64:  "int64_t",
	classify.ScalarF32:  "float",
	classify.ScalarF64:  "double",
	classify.ScalarChar: "uint32_t",
}

var rustScalar = map[classify.Scalar]string{
	classify.ScalarBool: "bool",
	classify.ScalarU8:   "u8",
	classify.ScalarS8:   "i8",
	classify.ScalarU16:  "u16",
	classify.ScalarS16:  "i16",
	classify.ScalarU32:  "u32",
	classify.ScalarS32:  "i32",
	classify.ScalarU64:  "u64",
	classify.ScalarS64:  "i64",
	classify.ScalarF32:  "f32",
	classify.ScalarF64:  "f64",
	classify.ScalarChar: "u32",
}

var scalarComp = map[classify.Scalar]string{
	classify.ScalarBool: "Bool",
	classify.ScalarU8:   "U8",
	classify.ScalarS8:   "S8",
	classify.ScalarU16:  "U16",
	classify.ScalarS16:  "S16",
	classify.ScalarU32:  "U32",
	classify.ScalarS32:  "S32",
	classify.ScalarU64:  "U64",
	classify.ScalarS64:  "S64",
	classify.ScalarF32:  "F32",
	classify.ScalarF64:  "F64",
	classify.ScalarChar: "Char",
}

var scalarSource = map[classify.Scalar]string{
	classify.ScalarBool: "bool",
	classify.ScalarU8:   "u8",
	classify.ScalarS8:   "s8",
	classify.ScalarU16:  "u16",
	classify.ScalarS16:  "s16",
	classify.ScalarU32:  "u32",
	classify.ScalarS32:  "s32",
	classify.ScalarU64:  "u64",
	classify.ScalarS64:  "s64",
	classify.ScalarF32:  "f32",
	classify.ScalarF64:  "f64",
	classify.ScalarChar: "char",
}

// cType is the storage spelling in the header. Pointer spellings end
// in "*"; cDecl handles the spacing.
func (g *Generator) cType(r *typeRef) string {
	switch r.kind {
	case refScalar:
		return cScalar[r.scalar]
	case refBuffer:
		return g.names.CType("byte-buffer")
	case refNamed:
		return r.plan.cName
	case refPtr:
		return r.plan.cName + " *"
	default:
		return "void"
	}
}

// rustAbiType is the storage spelling in the generated Rust source.
func (g *Generator) rustAbiType(r *typeRef) string {
	switch r.kind {
	case refScalar:
		return rustScalar[r.scalar]
	case refBuffer:
		return g.names.CType("byte-buffer")
	case refNamed:
		return r.plan.cName
	case refPtr:
		return "*mut " + r.plan.cName
	default:
		return "()"
	}
}

// cDecl joins a C storage spelling and a declarator name.
func cDecl(cType, name string) string {
	if strings.HasSuffix(cType, "*") {
		return cType + name
	}
	return cType + " " + name
}

// resolveRef computes the stored-position lowering of a WIT type,
// creating plans for every named or synthesized aggregate it reaches.
func (g *Generator) resolveRef(t wit.Type, path []string) (*typeRef, error) {
	cl, err := g.cls.Classify(t)
	if err != nil {
		return nil, err
	}

	root := rootType(t)
	switch v := root.(type) {
	case wit.String:
		return &typeRef{kind: refBuffer, isString: true, cls: cl, idio: "String", comp: "String", source: "string"}, nil
	case *wit.TypeDef:
		return g.resolveTypeDef(v, cl, path)
	default:
		if cl.Repr.Kind == classify.ReprScalar {
			return &typeRef{
				kind:   refScalar,
				scalar: cl.Repr.Scalar,
				cls:    cl,
				idio:   rustIdioScalar(cl.Repr.Scalar),
				comp:   scalarComp[cl.Repr.Scalar],
				source: scalarSource[cl.Repr.Scalar],
			}, nil
		}
		return nil, errors.UnsupportedShape(fmt.Sprintf("%T", root), "no stored lowering")
	}
}

func rustIdioScalar(s classify.Scalar) string {
	if s == classify.ScalarChar {
		return "char"
	}
	return rustScalar[s]
}

func (g *Generator) resolveTypeDef(td *wit.TypeDef, cl *classify.Classification, path []string) (*typeRef, error) {
	switch kind := td.Kind.(type) {
	case *wit.Record, *wit.Variant, *wit.Enum, *wit.Flags:
		p, err := g.planNamed(td, path)
		if err != nil {
			return nil, err
		}
		return &typeRef{kind: refNamed, plan: p, cls: cl, idio: p.idio, comp: p.comp, source: p.source}, nil
	case *wit.List:
		return g.resolveList(kind, cl, path)
	case *wit.Option:
		return g.resolveOption(kind, cl, path)
	case *wit.Result:
		return g.resolveResult(kind, cl, path)
	default:
		return nil, errors.UnsupportedShape(classify.TypePath(td), fmt.Sprintf("no stored lowering for %T", kind))
	}
}

func (g *Generator) resolveList(l *wit.List, cl *classify.Classification, path []string) (*typeRef, error) {
	if classify.IsByteType(l.Type) {
		return &typeRef{kind: refBuffer, cls: cl, idio: "Vec<u8>", comp: "Bytes", source: "list<u8>"}, nil
	}
	elem, err := g.resolveRef(l.Type, append(append([]string{}, path...), "[elem]"))
	if err != nil {
		return nil, err
	}
	p, err := g.auxPlan(&typePlan{
		kind:   planList,
		source: "list<" + elem.source + ">",
		comp:   elem.comp + "List",
		idio:   "Vec<" + elem.idio + ">",
		owned:  true,
		elem:   elem,
	})
	if err != nil {
		return nil, err
	}
	return &typeRef{kind: refNamed, plan: p, cls: cl, idio: p.idio, comp: p.comp, source: p.source}, nil
}

// resolveOption picks one of three encodings: a flag+value aggregate
// for value inners, a null byte buffer for text and byte inners, and
// a null pointer for everything that already lives behind an
// allocation.
func (g *Generator) resolveOption(o *wit.Option, cl *classify.Classification, path []string) (*typeRef, error) {
	inner, err := g.resolveRef(o.Type, append(append([]string{}, path...), "[option]"))
	if err != nil {
		return nil, err
	}

	// Already-nullable storage absorbs the outer option.
	if inner.optional || inner.kind == refPtr {
		return inner, nil
	}

	if inner.cls.Ownership == classify.Value {
		p, err := g.auxPlan(&typePlan{
			kind:   planOption,
			source: "option<" + inner.source + ">",
			comp:   "Option" + inner.comp,
			idio:   "Option<" + inner.idio + ">",
			elem:   inner,
		})
		if err != nil {
			return nil, err
		}
		return &typeRef{kind: refNamed, plan: p, cls: cl, idio: p.idio, comp: p.comp, source: p.source}, nil
	}

	out := &typeRef{
		cls:      cl,
		optional: true,
		idio:     "Option<" + inner.idio + ">",
		comp:     "Option" + inner.comp,
		source:   "option<" + inner.source + ">",
	}
	switch inner.kind {
	case refBuffer:
		out.kind = refBuffer
		out.isString = inner.isString
	case refNamed:
		if inner.plan.kind == planList {
			// Absence is the null array pointer inside the aggregate.
			out.kind = refNamed
			out.plan = inner.plan
		} else {
			out.kind = refPtr
			out.plan = inner.plan
		}
	default:
		return nil, errors.UnsupportedShape(out.source, "no nullable lowering for inner type")
	}
	return out, nil
}

func (g *Generator) resolveResult(r *wit.Result, cl *classify.Classification, path []string) (*typeRef, error) {
	var okRef, errRef *typeRef
	var err error
	okComp, errComp := "Unit", "Unit"
	okSource, errSource := "_", "_"
	okIdio, errIdio := "()", "()"
	if r.OK != nil {
		okRef, err = g.resolveRef(r.OK, append(append([]string{}, path...), "[ok]"))
		if err != nil {
			return nil, err
		}
		okComp, okSource, okIdio = okRef.comp, okRef.source, okRef.idio
	}
	if r.Err != nil {
		errRef, err = g.resolveRef(r.Err, append(append([]string{}, path...), "[err]"))
		if err != nil {
			return nil, err
		}
		errComp, errSource, errIdio = errRef.comp, errRef.source, errRef.idio
	}
	p, err := g.auxPlan(&typePlan{
		kind:   planResult,
		source: "result<" + okSource + ", " + errSource + ">",
		comp:   "Result" + okComp + errComp,
		idio:   "Result<" + okIdio + ", " + errIdio + ">",
		owned:  cl.Ownership == classify.Owned,
		okRef:  okRef,
		errRef: errRef,
	})
	if err != nil {
		return nil, err
	}
	return &typeRef{kind: refNamed, plan: p, cls: cl, idio: p.idio, comp: p.comp, source: p.source}, nil
}

// retPointer reports whether a return payload crosses boxed behind a
// pointer: owned records and variants, whose by-value form would leave
// the caller nothing to hand back to the release function.
func retPointer(r *typeRef) bool {
	if r == nil || r.kind != refNamed {
		return false
	}
	switch r.plan.kind {
	case planRecord, planVariant, planResult:
		return r.plan.owned
	default:
		return false
	}
}

// retCType is the C return spelling for a lowered return.
func (g *Generator) retCType(ret retPlan) string {
	if ret.ok == nil {
		return "bool"
	}
	if retPointer(ret.ok) {
		return ret.ok.plan.cName + " *"
	}
	return g.cType(ret.ok)
}

// retRustType is the Rust return spelling for a lowered return.
func (g *Generator) retRustType(ret retPlan) string {
	if ret.ok == nil {
		return "bool"
	}
	if retPointer(ret.ok) {
		return "*mut " + ret.ok.plan.cName
	}
	return g.rustAbiType(ret.ok)
}

// failSentinel is the Rust expression a wrapper returns on panic or
// error: null for pointers, false for status-only returns, zeroed
// storage otherwise.
func (g *Generator) failSentinel(ret retPlan) string {
	if ret.ok == nil {
		return "false"
	}
	if retPointer(ret.ok) {
		return "::core::ptr::null_mut()"
	}
	return "::core::mem::zeroed()"
}

// lowerExpr renders the Rust expression converting an idiomatic value
// to its stored ABI form.
func (g *Generator) lowerExpr(r *typeRef, v string) string {
	switch r.kind {
	case refScalar:
		if r.scalar == classify.ScalarChar {
			return v + " as u32"
		}
		return v
	case refBuffer:
		if r.optional {
			inner := "witffi_buf_from_vec(v)"
			if r.isString {
				inner = "witffi_buf_from_vec(v.into_bytes())"
			}
			return fmt.Sprintf("match %s { Some(v) => %s, None => witffi_buf_null() }", v, inner)
		}
		if r.isString {
			return fmt.Sprintf("witffi_buf_from_vec(%s.into_bytes())", v)
		}
		return fmt.Sprintf("witffi_buf_from_vec(%s)", v)
	case refNamed:
		switch r.plan.kind {
		case planEnum:
			return v + " as u32"
		case planFlags:
			return v
		default:
			if r.optional {
				return fmt.Sprintf("match %s { Some(v) => witffi_lower_%s(v), None => unsafe { ::core::mem::zeroed() } }",
					v, r.plan.snake)
			}
			return fmt.Sprintf("witffi_lower_%s(%s)", r.plan.snake, v)
		}
	case refPtr:
		return fmt.Sprintf(
			"match %s { Some(v) => ::std::boxed::Box::into_raw(::std::boxed::Box::new(witffi_lower_%s(v))), None => ::core::ptr::null_mut() }",
			v, r.plan.snake)
	default:
		return v
	}
}

// liftExpr renders the Rust expression converting stored ABI form to
// the idiomatic value. The expression may use ? and therefore only
// appears inside functions returning Result<_, String>.
func (g *Generator) liftExpr(r *typeRef, v string) string {
	switch r.kind {
	case refScalar:
		if r.scalar == classify.ScalarChar {
			return fmt.Sprintf("witffi_lift_char(%s)?", v)
		}
		return v
	case refBuffer:
		fn := "witffi_lift_bytes"
		mark := ""
		if r.isString {
			fn = "witffi_lift_string"
			mark = "?"
		}
		if r.optional {
			fn = "witffi_lift_opt_bytes"
			if r.isString {
				fn = "witffi_lift_opt_string"
			}
		}
		return fmt.Sprintf("%s(%s)%s", fn, v, mark)
	case refNamed:
		switch r.plan.kind {
		case planEnum:
			return fmt.Sprintf("witffi_lift_%s(%s)?", r.plan.snake, v)
		case planFlags:
			return v
		default:
			if r.optional {
				return fmt.Sprintf("if %s.ptr.is_null() { None } else { Some(witffi_lift_%s(%s)?) }", v, r.plan.snake, v)
			}
			return fmt.Sprintf("witffi_lift_%s(%s)?", r.plan.snake, v)
		}
	case refPtr:
		return fmt.Sprintf("if %s.is_null() { None } else { Some(witffi_lift_%s(unsafe { *%s })?) }",
			v, r.plan.snake, v)
	default:
		return v
	}
}

// dropStmt renders the Rust statement releasing a stored value's owned
// allocations, or "" when nothing is owned. Emitted only inside
// unsafe functions.
func (g *Generator) dropStmt(r *typeRef, v string) string {
	switch r.kind {
	case refBuffer:
		return fmt.Sprintf("witffi_buf_free(%s);", v)
	case refNamed:
		if r.plan.owned {
			return fmt.Sprintf("witffi_drop_%s(%s);", r.plan.snake, v)
		}
		return ""
	case refPtr:
		inner := fmt.Sprintf("let boxed = ::std::boxed::Box::from_raw(%s);", v)
		drop := ""
		if r.plan.owned {
			drop = fmt.Sprintf(" witffi_drop_%s(*boxed);", r.plan.snake)
		}
		return fmt.Sprintf("if !%s.is_null() { %s%s }", v, inner, drop)
	default:
		return ""
	}
}

// The trait-facing parameter spelling: borrowed views for text and
// bytes, owned idiomatic values otherwise.
func (g *Generator) paramIdio(p paramPlan) string {
	switch p.mode {
	case paramStr:
		return "&str"
	case paramBytes:
		return "&[u8]"
	default:
		return p.ref.idio
	}
}

// retIdio is the trait-facing return spelling.
func retIdio(ret retPlan) string {
	okIdio := "()"
	if ret.ok != nil {
		okIdio = ret.ok.idio
	}
	if !ret.isResult {
		return okIdio
	}
	errIdio := "()"
	if ret.err != nil {
		errIdio = ret.err.idio
	}
	return "Result<" + okIdio + ", " + errIdio + ">"
}
