// Package evcode holds the static code tables shared by every platform
// backend: category numbering, per-category code names, and the
// platform-native translation tables (Windows virtual keys, Windows hook
// messages, macOS keycodes and mouse types, Xbox controller bits).
//
// Tables are immutable after init. Category resolution is strict; code
// resolution is strict except for the deliberately lossy Windows keyboard
// translation, which falls through to the raw value on a miss.
package evcode

import "github.com/pkg/errors"

// Sentinel lookup failures. Callers wrap these with the offending value.
var (
	ErrUnknownType = errors.New("unknown event type")
	ErrUnknownCode = errors.New("unknown event code")
)

// typeCodes is the inverse of typeNames, used when emulating a byte stream
// on platforms without a native one.
var typeCodes = func() map[string]uint16 {
	inv := make(map[string]uint16, len(typeNames))
	for raw, name := range typeNames {
		inv[name] = raw
	}
	return inv
}()

// TypeName resolves a raw category integer to its category name.
func TypeName(raw uint16) (string, error) {
	name, ok := typeNames[raw]
	if !ok {
		return "", errors.Wrapf(ErrUnknownType, "raw type 0x%02x", raw)
	}
	return name, nil
}

// TypeCode resolves a category name back to its raw integer.
func TypeCode(name string) (uint16, error) {
	raw, ok := typeCodes[name]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownType, "category %q", name)
	}
	return raw, nil
}

// TypeCount reports how many categories exist, sentinels included.
func TypeCount() int { return len(typeCodes) }

// CodeName resolves (category, raw code) to the canonical symbolic name.
func CodeName(category string, raw uint16) (string, error) {
	table, ok := categoryNames[category]
	if !ok {
		return "", errors.Wrapf(ErrUnknownType, "category %q", category)
	}
	name, ok := table[raw]
	if !ok {
		return "", errors.Wrapf(ErrUnknownCode, "%s code 0x%02x", category, raw)
	}
	return name, nil
}

// WinKeyCode translates a Windows virtual-key code to the canonical Key
// code. The second return is false when no translation exists (including
// the zero-valued placeholder entries); callers keep the raw value then.
func WinKeyCode(vk uint16) (uint16, bool) {
	code, ok := winKeyCodes[vk]
	if !ok || code == 0 {
		return 0, false
	}
	return code, true
}

// MacKeyCode translates a macOS virtual keycode to the canonical Key code.
// Unknown keycodes report false; listeners substitute code zero.
func MacKeyCode(keycode uint16) (uint16, bool) {
	code, ok := macKeyCodes[keycode]
	return code, ok
}
