// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gravity

import (
	"fmt"
	"strings"
)

// Variant selects how the render stage reaches the screen.
type Variant int

const (
	// VariantDirect draws particles straight to the visible framebuffer.
	VariantDirect Variant = iota

	// VariantPostProcess draws particles into an off-screen color target and
	// composites it to the screen with a full-screen quad.
	VariantPostProcess
)

// String returns the string representation of Variant.
func (v Variant) String() string {
	switch v {
	case VariantDirect:
		return "direct"
	case VariantPostProcess:
		return "postprocess"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// ParseVariant parses a variant name as produced by String.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "direct":
		return VariantDirect, nil
	case "postprocess", "post-process", "offscreen":
		return VariantPostProcess, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v Variant) MarshalText() ([]byte, error) {
	if v != VariantDirect && v != VariantPostProcess {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVariant, int(v))
	}
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so a Variant can be
// bound to a command line flag with flag.TextVar.
func (v *Variant) UnmarshalText(text []byte) error {
	parsed, err := ParseVariant(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
