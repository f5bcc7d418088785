package names

import "strings"

// Default prefixes applied when the operator configures none.
const (
	DefaultCPrefix     = "witffi"
	DefaultCTypePrefix = "Ffi"
)

// Context holds the configured prefixes and derives generated
// identifiers from WIT source identifiers. It is immutable; all
// methods are pure.
type Context struct {
	CPrefix     string // symbol prefix for C-callable functions
	CTypePrefix string // prefix for C type names
}

// NewContext returns a Context, substituting defaults for empty prefixes.
func NewContext(cPrefix, cTypePrefix string) Context {
	if cPrefix == "" {
		cPrefix = DefaultCPrefix
	}
	if cTypePrefix == "" {
		cTypePrefix = DefaultCTypePrefix
	}
	return Context{CPrefix: cPrefix, CTypePrefix: cTypePrefix}
}

// CType derives the C type name for a WIT type: prefix + PascalCase.
func (c Context) CType(name string) string {
	return EscapeC(c.CTypePrefix + ToPascal(name))
}

// CFunc derives a C function symbol: the snake_case symbol prefix
// joined with the snake_case name parts. Empty parts are skipped, so
// freestanding functions pass an empty interface name.
func (c Context) CFunc(parts ...string) string {
	segs := []string{ToSnake(c.CPrefix)}
	for _, p := range parts {
		if p != "" {
			segs = append(segs, ToSnake(p))
		}
	}
	return strings.Join(segs, "_")
}

// CConst derives a C constant for an enum case or variant tag:
// SHOUTY type name + SHOUTY case name.
func (c Context) CConst(typeName, caseName string) string {
	return ToShoutySnake(typeName) + "_" + ToShoutySnake(caseName)
}

// Symbol derives the exported wrapper symbol for a function. Functions
// exported through an interface are always interface-qualified, which
// keeps same-named functions from different interfaces distinct.
func (c Context) Symbol(iface, fn string) string {
	return c.CFunc(iface, fn)
}

// FreeFunc derives the release-function symbol for an Owned type.
func (c Context) FreeFunc(typeName string) string {
	return c.CFunc("free", typeName)
}

// RustType derives the idiomatic Rust type name.
func (c Context) RustType(name string) string {
	return ToPascal(name)
}

// RustIdent derives a Rust field/parameter identifier with keyword
// escaping.
func (c Context) RustIdent(name string) string {
	return EscapeRust(ToSnake(name))
}

// TraitMethod derives the capability-trait method name, qualified by
// the owning interface when there is one.
func (c Context) TraitMethod(iface, fn string) string {
	if iface == "" {
		return EscapeRust(ToSnake(fn))
	}
	return EscapeRust(ToSnake(iface) + "_" + ToSnake(fn))
}
