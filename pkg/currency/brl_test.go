package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		cents    int64
		expected string
	}{
		{0, "R$ 0,00"},
		{5, "R$ 0,05"},
		{1099, "R$ 10,99"},
		{123456, "R$ 1.234,56"},
		{100000000, "R$ 1.000.000,00"},
		{-50, "-R$ 0,50"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatBRL(tt.cents))
		})
	}
}

func TestFormatInt(t *testing.T) {
	assert.Equal(t, "12.345", FormatInt(12345))
	assert.Equal(t, "7", FormatInt(7))
}
