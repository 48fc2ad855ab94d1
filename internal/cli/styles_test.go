package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatters(t *testing.T) {
	tests := []struct {
		format func(string) string
		name   string
		icon   string
	}{
		{name: "success", format: FormatSuccess, icon: SuccessIcon},
		{name: "error", format: FormatError, icon: ErrorIcon},
		{name: "warning", format: FormatWarning, icon: WarningIcon},
		{name: "info", format: FormatInfo, icon: InfoIcon},
		{name: "title", format: FormatTitle, icon: WalletIcon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.format("row 7 written")
			assert.Contains(t, out, tt.icon)
			assert.Contains(t, out, "row 7 written")
		})
	}
}

func TestRenderBox(t *testing.T) {
	out := RenderBox("Январь 2025", FormatField("Start row", "7"))

	assert.Contains(t, out, "Январь 2025")
	assert.Contains(t, out, "Start row")
	assert.Contains(t, out, "7")
}
