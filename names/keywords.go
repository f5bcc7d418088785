package names

// Reserved words of the generation targets. Escaping appends a trailing
// underscore, the rule the generated artifacts document.

var rustKeywords = map[string]bool{
	"as": true, "break": true, "const": true, "continue": true,
	"crate": true, "else": true, "enum": true, "extern": true,
	"false": true, "fn": true, "for": true, "if": true, "impl": true,
	"in": true, "let": true, "loop": true, "match": true, "mod": true,
	"move": true, "mut": true, "pub": true, "ref": true, "return": true,
	"self": true, "Self": true, "static": true, "struct": true,
	"super": true, "trait": true, "true": true, "type": true,
	"unsafe": true, "use": true, "where": true, "while": true,
	"async": true, "await": true, "dyn": true, "abstract": true,
	"become": true, "box": true, "do": true, "final": true,
	"macro": true, "override": true, "priv": true, "typeof": true,
	"unsized": true, "virtual": true, "yield": true, "try": true,
}

var cKeywords = map[string]bool{
	"auto": true, "break": true, "case": true, "char": true,
	"const": true, "continue": true, "default": true, "do": true,
	"double": true, "else": true, "enum": true, "extern": true,
	"float": true, "for": true, "goto": true, "if": true,
	"inline": true, "int": true, "long": true, "register": true,
	"restrict": true, "return": true, "short": true, "signed": true,
	"sizeof": true, "static": true, "struct": true, "switch": true,
	"typedef": true, "union": true, "unsigned": true, "void": true,
	"volatile": true, "while": true, "bool": true, "true": true,
	"false": true,
}

// EscapeRust escapes Rust reserved words with a trailing underscore.
func EscapeRust(name string) string {
	if rustKeywords[name] {
		return name + "_"
	}
	return name
}

// EscapeC escapes C reserved words with a trailing underscore.
func EscapeC(name string) string {
	if cKeywords[name] {
		return name + "_"
	}
	return name
}
