package rustgen

import (
	"fmt"

	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/witffi/classify"
	"github.com/wippyai/witffi/errors"
	"github.com/wippyai/witffi/loader"
	"github.com/wippyai/witffi/names"
)

// Config carries the operator-facing knobs for one generation run.
type Config struct {
	// CPrefix is prepended to every exported symbol. Empty selects the
	// default prefix.
	CPrefix string
	// CTypePrefix is prepended to every generated C type name. Empty
	// selects the default prefix.
	CTypePrefix string
}

// Generator holds the analyzed layout of one world: every reachable
// type in dependency order, every exported function with its lowered
// signature, and the naming table that proved the layout unambiguous.
// Construction does all the work that can fail; rendering afterwards
// is pure.
type Generator struct {
	world *wit.World
	cfg   Config
	names names.Context
	table *names.Table
	cls   *classify.Classifier

	traitName string
	plans     []*typePlan
	byDef     map[*wit.TypeDef]*typePlan
	auxByC    map[string]*typePlan
	funcs     []*fnPlan
}

type planKind int

const (
	planRecord planKind = iota
	planVariant
	planEnum
	planFlags
	planOption // synthesized flag+value aggregate
	planResult // synthesized two-arm aggregate
	planList   // synthesized pointer+length aggregate
)

// typePlan is one generated ABI type: a named WIT type or a
// synthesized aggregate for an anonymous option, result or list.
type typePlan struct {
	kind   planKind
	def    *wit.TypeDef // nil for synthesized aggregates
	source string       // WIT spelling, for diagnostics and naming
	comp   string       // PascalCase name component
	cName  string       // C type name
	rust   string       // idiomatic Rust type name ("" for synthesized)
	idio   string       // idiomatic Rust type spelling
	snake  string       // helper and release-function stem
	owned  bool

	fields     []fieldPlan // planRecord
	cases      []casePlan  // planVariant, planEnum
	flagNames  []string    // planFlags
	flagsWidth int         // planFlags
	elem       *typeRef    // planOption inner, planList element
	okRef      *typeRef    // planResult; nil when the arm is absent
	errRef     *typeRef    // planResult; nil when the arm is absent
}

type fieldPlan struct {
	source string // WIT field name
	c      string // C member name
	rust   string // Rust field name
	ref    *typeRef
}

type casePlan struct {
	source    string // WIT case name
	constName string // tag or ordinal constant
	rust      string // idiomatic enum case
	arm       string // union member name; "" for payload-less cases
	ref       *typeRef
}

type fnPlan struct {
	iface  string
	name   string
	symbol string
	method string
	params []paramPlan
	ret    retPlan
}

type paramMode int

const (
	paramValue paramMode = iota
	paramStr             // borrowed UTF-8 view, lifted to &str
	paramBytes           // borrowed byte view, lifted to &[u8]
)

type paramPlan struct {
	source string
	ident  string // Rust and C parameter name
	mode   paramMode
	ref    *typeRef // nil for paramStr and paramBytes
}

// retPlan describes a lowered return. A result return is absorbed
// into the error protocol, so only its payload arm shapes the C
// signature.
type retPlan struct {
	isResult bool
	ok       *typeRef // nil means no payload
	err      *typeRef // populated only for results with an err arm
}

// New analyzes a resolved world and returns a ready generator. All
// classification, naming and layout failures surface here.
func New(world *wit.World, cfg Config) (*Generator, error) {
	g := &Generator{
		world:  world,
		cfg:    cfg,
		names:  names.NewContext(cfg.CPrefix, cfg.CTypePrefix),
		table:  names.NewTable(),
		cls:    classify.New(),
		byDef:  make(map[*wit.TypeDef]*typePlan),
		auxByC: make(map[string]*typePlan),
	}

	g.traitName = g.names.RustType(world.Name)
	if err := g.table.Register(names.RoleType, "rust", world.Name, g.traitName); err != nil {
		return nil, err
	}

	if err := g.registerAccessors(); err != nil {
		return nil, err
	}

	exports, err := loader.ExportedFunctions(world)
	if err != nil {
		return nil, err
	}
	for _, ef := range exports {
		fp, err := g.planFunction(ef)
		if err != nil {
			return nil, err
		}
		g.funcs = append(g.funcs, fp)
	}

	if err := g.registerFreeFuncs(); err != nil {
		return nil, err
	}

	Logger().Debug("analyzed world",
		zap.String("world", world.Name),
		zap.Int("types", len(g.plans)),
		zap.Int("functions", len(g.funcs)))
	return g, nil
}

// registerAccessors reserves the fixed part of the C surface so user
// functions cannot shadow it.
func (g *Generator) registerAccessors() error {
	fixed := []string{
		g.names.CFunc("last", "error", "length"),
		g.names.CFunc("last", "error", "message"),
		g.names.CFunc("clear", "last", "error"),
		g.names.FreeFunc("byte-buffer"),
	}
	for _, sym := range fixed {
		if err := g.table.Register(names.RoleFunc, "c", sym, sym); err != nil {
			return err
		}
	}
	for _, name := range []string{"byte-slice", "byte-buffer"} {
		if err := g.table.Register(names.RoleType, "c", name, g.names.CType(name)); err != nil {
			return err
		}
	}
	return nil
}

// registerFreeFuncs claims a release symbol for every type that emits
// one, after the full type set is known.
func (g *Generator) registerFreeFuncs() error {
	for _, p := range g.plans {
		if !p.emitsFree() {
			continue
		}
		if err := g.table.Register(names.RoleFunc, "c", "free "+p.source, g.freeSymbol(p)); err != nil {
			return err
		}
	}
	return nil
}

// emitsFree reports whether the type gets a public release function:
// owned records, variants, and result aggregates (the boxed return
// shapes), synthesized lists, and empty records (which release nothing
// but keep the caller protocol uniform). Option aggregates only exist
// for by-value payloads and never own memory.
func (p *typePlan) emitsFree() bool {
	switch p.kind {
	case planRecord:
		return p.owned || len(p.fields) == 0
	case planVariant, planResult:
		return p.owned
	case planList:
		return true
	default:
		return false
	}
}

func (g *Generator) freeSymbol(p *typePlan) string {
	return g.names.CFunc("free", p.snake)
}

func (g *Generator) planFunction(ef loader.ExportedFunction) (*fnPlan, error) {
	source := ef.Name
	if ef.Interface != "" {
		source = ef.Interface + "." + ef.Name
	}

	fp := &fnPlan{
		iface:  ef.Interface,
		name:   ef.Name,
		symbol: g.names.Symbol(ef.Interface, ef.Name),
		method: g.names.TraitMethod(ef.Interface, ef.Name),
	}
	if err := g.table.Register(names.RoleFunc, "c", source, fp.symbol); err != nil {
		return nil, err
	}
	if err := g.table.Register(names.RoleMethod, g.traitName, source, fp.method); err != nil {
		return nil, err
	}

	for _, param := range ef.Func.Params {
		pp, err := g.planParam(source, param)
		if err != nil {
			return nil, err
		}
		fp.params = append(fp.params, pp)
	}

	var retType wit.Type
	switch len(ef.Func.Results) {
	case 0:
	case 1:
		retType = ef.Func.Results[0].Type
	default:
		// Multiple named results have no single flat-C return slot.
		return nil, errors.New(errors.PhaseClassify, errors.KindUnsupportedShape).
			Path(source).
			Detail("functions with multiple results are not supported").
			Build()
	}

	ret, err := g.planReturn(source, retType)
	if err != nil {
		return nil, err
	}
	fp.ret = ret
	return fp, nil
}

func (g *Generator) planParam(fn string, param wit.Param) (paramPlan, error) {
	pp := paramPlan{
		source: param.Name,
		ident:  g.names.RustIdent(param.Name),
	}
	// Text and byte parameters cross as borrowed views instead of
	// owned buffers; everything else uses its stored representation.
	switch {
	case classify.IsString(param.Type):
		pp.mode = paramStr
	case classify.IsBytes(param.Type):
		pp.mode = paramBytes
	default:
		ref, err := g.resolveRef(param.Type, []string{fn, param.Name})
		if err != nil {
			return paramPlan{}, err
		}
		pp.mode = paramValue
		pp.ref = ref
	}
	return pp, nil
}

// planReturn lowers a return type. A result in return position does
// not become a struct: its ok arm shapes the signature and its err arm
// feeds the thread-scoped error slot.
func (g *Generator) planReturn(fn string, t wit.Type) (retPlan, error) {
	if t == nil {
		return retPlan{}, nil
	}
	if res, ok := rootType(t).(*wit.TypeDef); ok {
		if kind, ok := res.Kind.(*wit.Result); ok {
			rp := retPlan{isResult: true}
			var err error
			if kind.OK != nil {
				rp.ok, err = g.resolveRef(kind.OK, []string{fn, "[ok]"})
				if err != nil {
					return retPlan{}, err
				}
			}
			if kind.Err != nil {
				rp.err, err = g.resolveRef(kind.Err, []string{fn, "[err]"})
				if err != nil {
					return retPlan{}, err
				}
			}
			return rp, nil
		}
	}
	ref, err := g.resolveRef(t, []string{fn, "[result]"})
	if err != nil {
		return retPlan{}, err
	}
	return retPlan{ok: ref}, nil
}

// rootType follows alias typedefs to the defining type.
func rootType(t wit.Type) wit.Type {
	for {
		td, ok := t.(*wit.TypeDef)
		if !ok {
			return t
		}
		inner, ok := td.Kind.(wit.Type)
		if !ok {
			return td
		}
		t = inner
	}
}

// planNamed builds (or returns) the plan for a named WIT type.
// Dependencies are planned first, so the plan list comes out in
// dependency order and both artifacts can declare types top-down.
func (g *Generator) planNamed(td *wit.TypeDef, path []string) (*typePlan, error) {
	if p, ok := g.byDef[td]; ok {
		return p, nil
	}
	if td.Name == nil {
		return nil, errors.UnsupportedShape(classify.TypePath(td), "anonymous type cannot be named in C")
	}
	name := *td.Name

	cl, err := g.cls.Classify(td)
	if err != nil {
		return nil, err
	}

	p := &typePlan{
		def:    td,
		source: name,
		comp:   names.ToPascal(name),
		cName:  g.names.CType(name),
		rust:   g.names.RustType(name),
		snake:  names.ToSnake(name),
		owned:  cl.Ownership == classify.Owned,
	}
	p.idio = p.rust

	if err := g.table.Register(names.RoleType, "c", name, p.cName); err != nil {
		return nil, err
	}
	if err := g.table.Register(names.RoleType, "rust", name, p.rust); err != nil {
		return nil, err
	}

	path = append(append([]string{}, path...), name)
	switch kind := td.Kind.(type) {
	case *wit.Record:
		err = g.planRecord(p, kind, path)
	case *wit.Variant:
		err = g.planVariant(p, kind, path)
	case *wit.Enum:
		err = g.planEnum(p, kind)
	case *wit.Flags:
		err = g.planFlags(p, kind, cl)
	default:
		err = errors.UnsupportedShape(classify.TypePath(td), fmt.Sprintf("no named lowering for %T", kind))
	}
	if err != nil {
		return nil, err
	}

	g.plans = append(g.plans, p)
	g.byDef[td] = p
	return p, nil
}

func (g *Generator) planRecord(p *typePlan, r *wit.Record, path []string) error {
	p.kind = planRecord
	for _, f := range r.Fields {
		ref, err := g.resolveRef(f.Type, append(append([]string{}, path...), f.Name))
		if err != nil {
			return err
		}
		fp := fieldPlan{
			source: f.Name,
			c:      names.EscapeC(names.ToSnake(f.Name)),
			rust:   g.names.RustIdent(f.Name),
			ref:    ref,
		}
		if err := g.table.Register(names.RoleField, p.cName, f.Name, fp.c); err != nil {
			return err
		}
		p.fields = append(p.fields, fp)
	}
	return nil
}

func (g *Generator) planVariant(p *typePlan, v *wit.Variant, path []string) error {
	p.kind = planVariant
	for _, c := range v.Cases {
		cp := casePlan{
			source:    c.Name,
			constName: g.names.CConst(p.source, c.Name),
			rust:      names.ToPascal(c.Name),
		}
		if c.Type != nil {
			ref, err := g.resolveRef(c.Type, append(append([]string{}, path...), c.Name))
			if err != nil {
				return err
			}
			cp.ref = ref
			cp.arm = names.EscapeC(names.ToSnake(c.Name))
			if err := g.table.Register(names.RoleField, p.cName+".payload", c.Name, cp.arm); err != nil {
				return err
			}
		}
		if err := g.table.Register(names.RoleConst, "c", p.source+"."+c.Name, cp.constName); err != nil {
			return err
		}
		if err := g.table.Register(names.RoleCase, p.rust, c.Name, cp.rust); err != nil {
			return err
		}
		p.cases = append(p.cases, cp)
	}
	if p.hasPayload() {
		if err := g.table.Register(names.RoleType, "c", p.source+".payload", p.cName+"Payload"); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) planEnum(p *typePlan, e *wit.Enum) error {
	p.kind = planEnum
	for _, c := range e.Cases {
		cp := casePlan{
			source:    c.Name,
			constName: g.names.CConst(p.source, c.Name),
			rust:      names.ToPascal(c.Name),
		}
		if err := g.table.Register(names.RoleConst, "c", p.source+"."+c.Name, cp.constName); err != nil {
			return err
		}
		if err := g.table.Register(names.RoleCase, p.rust, c.Name, cp.rust); err != nil {
			return err
		}
		p.cases = append(p.cases, cp)
	}
	return nil
}

func (g *Generator) planFlags(p *typePlan, f *wit.Flags, cl *classify.Classification) error {
	p.kind = planFlags
	p.flagsWidth = cl.Repr.FlagsWidth
	for _, flag := range f.Flags {
		constName := g.names.CConst(p.source, flag.Name)
		if err := g.table.Register(names.RoleConst, "c", p.source+"."+flag.Name, constName); err != nil {
			return err
		}
		p.flagNames = append(p.flagNames, flag.Name)
	}
	return nil
}

// auxPlan interns a synthesized aggregate under its C name. Distinct
// WIT shapes that collapse onto one generated name are a collision.
func (g *Generator) auxPlan(p *typePlan) (*typePlan, error) {
	p.cName = g.names.CTypePrefix + p.comp
	p.snake = names.ToSnake(p.comp)
	if existing, ok := g.auxByC[p.cName]; ok {
		if existing.source != p.source {
			return nil, errors.Collision(p.cName, existing.source, p.source)
		}
		return existing, nil
	}
	if err := g.table.Register(names.RoleType, "c", p.source, p.cName); err != nil {
		return nil, err
	}
	g.auxByC[p.cName] = p
	g.plans = append(g.plans, p)
	return p, nil
}
