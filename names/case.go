package names

import (
	"strings"
	"unicode"
)

// ToPascal converts kebab-case or snake_case to PascalCase.
func ToPascal(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_'
	})

	var result strings.Builder
	for _, part := range parts {
		runes := []rune(part)
		result.WriteRune(unicode.ToUpper(runes[0]))
		result.WriteString(string(runes[1:]))
	}

	return result.String()
}

// ToCamel converts kebab-case or snake_case to camelCase.
func ToCamel(s string) string {
	pascal := ToPascal(s)
	if len(pascal) == 0 {
		return pascal
	}

	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// ToSnake converts kebab-case (or mixed-case) to snake_case.
// Uppercase runs are kept together so acronyms survive
// ("HTTPSConnection" -> "https_connection").
func ToSnake(s string) string {
	var result strings.Builder
	runes := []rune(s)

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r == '-' || r == '_' {
			result.WriteByte('_')
			continue
		}

		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			prevUpper := unicode.IsUpper(prev)
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prev != '-' && prev != '_' && (!prevUpper || nextLower) {
				result.WriteByte('_')
			}
		}

		result.WriteRune(unicode.ToLower(r))
	}

	return result.String()
}

// ToShoutySnake converts kebab-case to SHOUTY_SNAKE_CASE.
func ToShoutySnake(s string) string {
	return strings.ToUpper(ToSnake(s))
}
