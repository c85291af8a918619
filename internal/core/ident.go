// Package core provides identifier derivation and shell quoting helpers.
package core

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/NielsdaWheelz/create-solana-starter/internal/errors"
)

// SnakeCase replaces every hyphen with an underscore. Letter case is kept.
// example: my-app -> my_app
func SnakeCase(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// PascalCase upper-cases the first letter of every hyphen-separated word and
// drops the hyphens. Empty words (leading, trailing or doubled hyphens)
// contribute nothing.
// example: my-app -> MyApp
// example: app -> App
// example: -a--b- -> AB
func PascalCase(name string) string {
	var b strings.Builder
	for _, word := range strings.Split(name, "-") {
		b.WriteString(upperFirst(word))
	}
	return upperFirst(b.String())
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// ValidateAppName checks that name can be used as a project directory and
// program name:
// - non-empty
// - must not start with '-' (would be read as a flag)
// - allowed: [A-Za-z0-9-]
func ValidateAppName(name string) error {
	if name == "" {
		return errors.New(errors.EInvalidAppName, "app name must not be empty")
	}
	if strings.HasPrefix(name, "-") {
		return errors.New(errors.EInvalidAppName, "app name must not start with '-': "+name)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return errors.New(errors.EInvalidAppName, "app name may contain only letters, digits and hyphens: "+name)
		}
	}
	return nil
}
