package typesystem

import (
	"math"
	"testing"
)

func TestFormatDouble(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{2.5, "2.5"},
		{-3, "-3"},
		{1000000, "1000000"},
		{123456789.25, "123456789.25"},
		{0.001, "0.001"},
		{1e21, "1e+21"},
		{1e-7, "1e-07"},
		{math.Inf(1), "+Inf"},
	}
	for _, tt := range tests {
		if got := FormatDouble(tt.in); got != tt.want {
			t.Errorf("FormatDouble(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
