package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "tomato", NormalizeName("  Tomato "))
	assert.Equal(t, "olive oil", NormalizeName("OLIVE OIL"))
	assert.Equal(t, "", NormalizeName("   "))

	// case and whitespace variants collapse onto the same key
	assert.Equal(t, NormalizeName("Chicken Breast"), NormalizeName(" chicken breast"))

	// no pluralization or stemming
	assert.NotEqual(t, NormalizeName("tomato"), NormalizeName("tomatoes"))
}

func TestNormalizeNameIdempotent(t *testing.T) {
	for _, name := range []string{" Flour ", "EGGS", "soy sauce", ""} {
		once := NormalizeName(name)
		assert.Equal(t, once, NormalizeName(once))
	}
}
