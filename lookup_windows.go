//go:build windows

package inputhub

import "inputhub/internal/evcode"

// eventString resolves a code name. Key codes arrive as Windows virtual
// keys here, so the translation table is consulted first; a miss falls
// through to the raw value, since lossy best-effort identity beats
// failing the lookup.
func eventString(category string, code uint16) (string, error) {
	if category == "Key" {
		if translated, ok := evcode.WinKeyCode(code); ok {
			code = translated
		}
	}
	return evcode.CodeName(category, code)
}
