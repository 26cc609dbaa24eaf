package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidFDINumber(t *testing.T) {
	valid := []int{11, 18, 21, 28, 31, 38, 41, 48, 51, 55, 61, 65, 71, 75, 81, 85}
	for _, n := range valid {
		assert.True(t, ValidFDINumber(n), "%d", n)
	}

	invalid := []int{0, 1, 10, 19, 20, 29, 40, 49, 50, 56, 86, 90, 100, -11}
	for _, n := range invalid {
		assert.False(t, ValidFDINumber(n), "%d", n)
	}
}

func TestPermanentFDINumbers(t *testing.T) {
	assert.Len(t, PermanentFDINumbers, 32)
	seen := make(map[int]bool)
	for _, n := range PermanentFDINumbers {
		assert.True(t, ValidFDINumber(n), "%d", n)
		assert.False(t, seen[n], "duplicate %d", n)
		seen[n] = true
	}
}
