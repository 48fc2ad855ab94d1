package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/spend/internal/cli"
	"github.com/Veraticus/spend/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectExpense(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		wantError       error
		wantDescription string
		args            []string
		wantAmount      float64
	}{
		{
			name:            "everything from args",
			args:            []string{"350", "coffee", "and", "cake"},
			wantAmount:      350,
			wantDescription: "coffee and cake",
		},
		{
			name:            "description prompted",
			args:            []string{"12,5"},
			input:           "bus ticket\n",
			wantAmount:      12.5,
			wantDescription: "bus ticket",
		},
		{
			name:            "blank description asked again",
			args:            []string{"7"},
			input:           "   \ngum\n",
			wantAmount:      7,
			wantDescription: "gum",
		},
		{
			name:            "both prompted",
			input:           "99.99\nbooks\n",
			wantAmount:      99.99,
			wantDescription: "books",
		},
		{
			name:      "bad amount",
			args:      []string{"abc", "coffee"},
			wantError: common.ErrInvalidArgument,
		},
		{
			name:      "input ends before description",
			args:      []string{"5"},
			wantError: io.EOF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := cli.NewNonBlockingReader(strings.NewReader(tt.input))
			amount, description, err := collectExpense(context.Background(), reader, &bytes.Buffer{}, tt.args)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.wantAmount, amount, 1e-9)
			assert.Equal(t, tt.wantDescription, description)
		})
	}
}

func TestParseDate(t *testing.T) {
	ts, err := parseDate("2025-03-31")
	require.NoError(t, err)
	assert.Equal(t, time.March, ts.Month())
	assert.Equal(t, 31, ts.Day())
	assert.Equal(t, 12, ts.Hour())

	_, err = parseDate("31.03.2025")
	require.Error(t, err)
}
