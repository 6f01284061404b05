package format

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1234.5", "$1,234.50"},
		{"0", "$0.00"},
		{"-42.1", "$-42.10"},
		{"2297200.8603", "$2,297,200.86"},
		{"0.005", "$0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Currency(decimal.RequireFromString(tt.in)); got != tt.want {
				t.Errorf("Currency(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(72.2222); got != "72.2%" {
		t.Errorf("Percent() = %q", got)
	}
	if got := Percent(0); got != "0.0%" {
		t.Errorf("Percent(0) = %q", got)
	}
}

func TestCompact(t *testing.T) {
	if got := Compact(12345.67); got != "12,346" {
		t.Errorf("Compact() = %q", got)
	}
}
