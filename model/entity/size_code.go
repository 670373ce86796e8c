package entity

import (
	"fmt"
	"strings"
)

// SplitCode splits a size-qualified code "BASE-SIZE" at the first dash.
// Codes without a dash have an empty size.
func SplitCode(code string) (base, size string) {
	c := strings.TrimSpace(code)
	if i := strings.Index(c, "-"); i >= 0 {
		return strings.TrimSpace(c[:i]), strings.TrimSpace(c[i+1:])
	}
	return c, ""
}

// StripSizeSuffix removes a trailing parenthesized group, e.g. "Glove (32 dydis)" → "Glove".
func StripSizeSuffix(name string) string {
	t := strings.TrimSpace(name)
	if strings.HasSuffix(t, ")") {
		if i := strings.LastIndex(t, "("); i >= 0 {
			return strings.TrimSpace(t[:i])
		}
	}
	return t
}

// EnsureSizeSuffix returns the base name with a "(<size> dydis)" suffix.
// An empty size leaves name untouched.
func EnsureSizeSuffix(name, size string) string {
	if size == "" {
		return name
	}
	return strings.TrimSpace(fmt.Sprintf("%s (%s dydis)", StripSizeSuffix(name), size))
}

// BaseItemName is the grouping key for current holdings.
func BaseItemName(displayName string) string {
	return StripSizeSuffix(displayName)
}
