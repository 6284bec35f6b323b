package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContainerRow(t *testing.T) {
	tests := []struct {
		name    string
		row     []string
		wantErr string
	}{
		{"valid row", []string{"AB-100", "48", "120.00", "3.75"}, ""},
		{"trims whitespace", []string{" AB-100 ", " 48 ", " 120 ", " 3.75 "}, ""},
		{"too few columns", []string{"AB-100", "48"}, "expected 4 columns"},
		{"blank item number", []string{"  ", "48", "120", "3.75"}, "missing item number"},
		{"non-numeric quantity", []string{"AB-100", "lots", "120", "3.75"}, "invalid quantity"},
		{"zero quantity", []string{"AB-100", "0", "120", "3.75"}, "invalid quantity"},
		{"negative purchase price", []string{"AB-100", "48", "-5", "3.75"}, "invalid purchase price"},
		{"bad sales price", []string{"AB-100", "48", "120", "n/a"}, "invalid sales price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := parseContainerRow(tt.row)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "AB-100", line.ItemNumber)
			assert.Equal(t, 48, line.Quantity)
			assert.Equal(t, 120.0, line.PurchasePrice)
			assert.Equal(t, 3.75, line.SalesPrice)
		})
	}
}

func TestPerCaseCostDerivation(t *testing.T) {
	// perCaseCost is purchase price spread over the line quantity
	assert.Equal(t, 2.5, round2(120.0/48))
	assert.Equal(t, 0.33, round2(1.0/3))
}
