package rustgen

import "fmt"

// FunctionInfo is the inspection view of one exported function: its
// origin, the symbol and trait method it becomes, and the lowered C
// signature with the caller's release obligation spelled out.
type FunctionInfo struct {
	Interface  string
	Name       string
	Symbol     string
	Method     string
	CSignature string
	Ownership  string // what the caller must do with the return value
	ErrorMode  string // how failures surface to the caller
}

// Functions returns the inspection view of every exported function,
// in export order.
func (g *Generator) Functions() []FunctionInfo {
	infos := make([]FunctionInfo, 0, len(g.funcs))
	for _, f := range g.funcs {
		infos = append(infos, FunctionInfo{
			Interface:  f.iface,
			Name:       f.name,
			Symbol:     f.symbol,
			Method:     f.method,
			CSignature: g.cSignature(f),
			Ownership:  g.retOwnership(f.ret),
			ErrorMode:  g.retErrorMode(f.ret),
		})
	}
	return infos
}

// TypeInfo is the inspection view of one generated type.
type TypeInfo struct {
	Source    string // WIT spelling
	CName     string
	Kind      string
	Ownership string
	FreeFunc  string // "" when the type has no release function
}

// Types returns the inspection view of every generated type, in
// declaration order.
func (g *Generator) Types() []TypeInfo {
	infos := make([]TypeInfo, 0, len(g.plans))
	for _, p := range g.plans {
		info := TypeInfo{
			Source:    p.source,
			CName:     p.cName,
			Kind:      p.kindName(),
			Ownership: "value",
		}
		if p.owned {
			info.Ownership = "owned"
		}
		if p.emitsFree() {
			info.FreeFunc = g.freeSymbol(p)
		}
		infos = append(infos, info)
	}
	return infos
}

// TraitName is the capability trait's Rust name.
func (g *Generator) TraitName() string { return g.traitName }

// WorldName is the name of the world being generated.
func (g *Generator) WorldName() string { return g.world.Name }

func (p *typePlan) kindName() string {
	switch p.kind {
	case planRecord:
		return "record"
	case planVariant:
		return "variant"
	case planEnum:
		return "enum"
	case planFlags:
		return "flags"
	case planOption:
		return "option"
	case planResult:
		return "result"
	case planList:
		return "list"
	default:
		return "unknown"
	}
}

func (g *Generator) retOwnership(ret retPlan) string {
	switch {
	case ret.ok == nil:
		return "nothing to release"
	case retPointer(ret.ok):
		return fmt.Sprintf("release with %s", g.freeSymbol(ret.ok.plan))
	case ret.ok.kind == refBuffer:
		return fmt.Sprintf("release with %s", g.names.FreeFunc("byte-buffer"))
	case ret.ok.kind == refPtr:
		return fmt.Sprintf("release with %s when non-null", g.freeSymbol(ret.ok.plan))
	case ret.ok.kind == refNamed && ret.ok.plan.kind == planList:
		return fmt.Sprintf("release with %s", g.freeSymbol(ret.ok.plan))
	default:
		return "crosses by value; nothing to release"
	}
}

func (g *Generator) retErrorMode(ret retPlan) string {
	if !ret.isResult {
		return "panic only: sentinel return plus the error slot"
	}
	switch {
	case ret.ok == nil:
		return "false return plus the error slot"
	case retPointer(ret.ok) || ret.ok.kind == refPtr:
		return "null return plus the error slot"
	default:
		return "zeroed return plus the error slot"
	}
}
