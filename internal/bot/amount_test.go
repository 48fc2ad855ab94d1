package bot

import (
	"testing"

	"github.com/Veraticus/spend/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{input: "250.50", want: 250.5},
		{input: "250,50", want: 250.5},
		{input: "  99 ", want: 99},
		{input: "0", want: 0},
		{input: "-10,5", want: -10.5},
		{input: "1e3", want: 1000},
		{input: "", wantErr: true},
		{input: "   ", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "250 руб", wantErr: true},
		{input: "1.2.3", wantErr: true},
		{input: "1,2,3", wantErr: true},
		{input: "nan", wantErr: true},
		{input: "inf", wantErr: true},
		{input: "1e999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "250.50", FormatAmount(250.5))
	assert.Equal(t, "99.99", FormatAmount(99.99))
	assert.Equal(t, "1000.00", FormatAmount(1000))
	assert.Equal(t, "0.00", FormatAmount(0))

	// Half-up on the typed decimal, not on its binary approximation.
	assert.Equal(t, "2.68", FormatAmount(2.675))
	assert.Equal(t, "0.13", FormatAmount(0.125))
}
