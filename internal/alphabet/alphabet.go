// Package alphabet resolves the -a flag's alphabet presets (or a literal
// byte sequence) into the ordered, uppercased set of letters wildcards are
// filled in from.
package alphabet

import "strings"

const (
	// Default is the alphabet used when -a is not supplied.
	Default = "default"
)

var presets = map[string]string{
	"default": "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_-",
	"digits":  "0123456789",
	"numbers": "0123456789",
	"letters": "ABCDEFGHIJKLMNOPQRSTUVWXYZ",
	"hex":     "0123456789ABCDEF",
}

// Resolve returns the ordered byte sequence for name: one of the named
// presets (default, digits, numbers, letters, hex), or name itself,
// uppercased, taken literally.
func Resolve(name string) []byte {
	if preset, ok := presets[name]; ok {
		return []byte(preset)
	}
	return []byte(strings.ToUpper(name))
}
