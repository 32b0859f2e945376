package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSmallestUnit(t *testing.T) {
	tests := []struct {
		amount   string
		decimals int
		want     string
	}{
		{"1.5", 18, "1500000000000000000"},
		{"0.000000000000000001", 18, "1"},
		{"1", 8, "100000000"},
		{"10.25", 6, "10250000"},
		{"0", 2, "0"},
		{"", 5, "0"},
		{"   ", 5, "0"},
		{"0.0", 18, "0"},
		{"1.123456789", 2, "112"}, // truncates, never rounds
		{"1.999", 0, "1"},
		{"007", 2, "700"},
		{".5", 2, "50"},
		{"123", 0, "123"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToSmallestUnit(tt.amount, tt.decimals),
			"ToSmallestUnit(%q, %d)", tt.amount, tt.decimals)
	}
}

func TestToHumanReadable(t *testing.T) {
	tests := []struct {
		amount   string
		decimals int
		want     string
	}{
		{"1500000000000000000", 18, "1.5"},
		{"1", 18, "0.000000000000000001"},
		{"100000000", 8, "1"},
		{"10250000", 6, "10.25"},
		{"0", 18, "0"},
		{"", 18, "0"},
		{"112", 2, "1.12"},
		{"50", 2, "0.5"},
		{"123", 0, "123"},
		{"1000000000000000000", 18, "1"}, // trailing zeros stripped
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToHumanReadable(tt.amount, tt.decimals),
			"ToHumanReadable(%q, %d)", tt.amount, tt.decimals)
	}
}

func TestAmountRoundTrip(t *testing.T) {
	cases := []struct {
		amount   string
		decimals int
	}{
		{"1.5", 18},
		{"0.000001", 6},
		{"42", 8},
		{"123.456", 9},
		{"0.1", 2},
	}
	for _, c := range cases {
		got := ToHumanReadable(ToSmallestUnit(c.amount, c.decimals), c.decimals)
		assert.Equal(t, c.amount, got, "round trip %q with %d decimals", c.amount, c.decimals)
	}
}
