package materials

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUsageReport(t *testing.T) {
	tests := []struct {
		name  string
		rows  []Usage
		total string
	}{
		{"no usage", nil, "0.00"},
		{"two products", []Usage{{"P1", dec("3.00")}, {"P2", dec("1.50")}}, "4.50"},
		{"fractions add exactly", []Usage{{"A", dec("0.10")}, {"B", dec("0.20")}}, "0.30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := NewUsageReport(tt.rows)
			assert.Equal(t, tt.total, rep.TotalString())
			assert.NotNil(t, rep.Rows)
		})
	}
}

func TestMaterial_BelowMinimum(t *testing.T) {
	m := Material{QuantityInStock: dec("9.99"), MinQuantity: dec("10")}
	assert.True(t, m.BelowMinimum())
	m.QuantityInStock = dec("10")
	assert.False(t, m.BelowMinimum())
}
