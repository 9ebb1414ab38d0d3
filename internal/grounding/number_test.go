package grounding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"5 mil", 5000, true},
		{"uns 10k", 10000, true},
		{"2 milhões", 2_000_000, true},
		{"1,5 milhão", 1_500_000, true},
		{"R$ 5.000", 5000, true},
		{"5.000,50", 5000.50, true},
		{"1.234.567", 1_234_567, true},
		{"300 reais", 300, true},
		{"5,5", 5.5, true},
		{"", 0, false},
		{"nada por enquanto", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ExtractNumber(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 0.001)
			}
		})
	}
}

func TestMagnitudeMatch(t *testing.T) {
	tests := []struct {
		name      string
		candidate float64
		userText  string
		want      bool
	}{
		{"paraphrased_thousands", 5000, "posso investir uns 5 mil por mes", true},
		{"within_tolerance", 5500, "tenho 5 mil guardados", true},
		{"wrong_magnitude", 50000, "posso investir uns 5 mil por mes", false},
		{"plain_number", 300, "meu ticket e uns 300 reais", true},
		{"unrelated_number", 300, "vendo ha 3 anos na cidade", false},
		{"no_number", 5000, "nao tenho ideia de valores", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MagnitudeMatch(tt.candidate, tt.userText, DefaultMoneyTolerance))
		})
	}
}
