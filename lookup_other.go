//go:build !windows

package inputhub

import "inputhub/internal/evcode"

// eventString resolves a code name directly; only Windows needs the
// virtual-key translation pass.
func eventString(category string, code uint16) (string, error) {
	return evcode.CodeName(category, code)
}
