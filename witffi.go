package witffi

import "fmt"

// Language is a generation target.
type Language string

const (
	// LanguageRust is the fully supported target: Rust extern "C"
	// scaffolding plus a matching C header.
	LanguageRust Language = "rust"
	// LanguageSwift is a partial target.
	LanguageSwift Language = "swift"
)

// ParseLanguage validates a target language name.
func ParseLanguage(s string) (Language, error) {
	switch Language(s) {
	case LanguageRust:
		return LanguageRust, nil
	case LanguageSwift:
		return LanguageSwift, nil
	default:
		return "", fmt.Errorf("unknown target language %q (supported: rust, swift)", s)
	}
}

// Config carries the operator-configurable generation options shared
// by all targets.
type Config struct {
	// CPrefix is the symbol prefix for emitted C-callable function
	// names (e.g. "zcash_eip681").
	CPrefix string
	// CTypePrefix is the prefix for emitted C type names (e.g. "Ffi").
	CTypePrefix string
}
