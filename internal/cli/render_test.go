package cli

import (
	"strings"
	"testing"
)

func TestRenderTableContainsCells(t *testing.T) {
	out := renderTable(table{
		Title:   "Expenses",
		Headers: []string{"ID", "Amount"},
		Rows: [][]string{
			{"1", "12.50"},
			{"2", "500.00"},
		},
		Highlight: map[int]bool{1: true},
	})

	for _, want := range []string{"Expenses", "ID", "Amount", "12.50", "500.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered table missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "╭") || !strings.Contains(out, "╯") {
		t.Errorf("rendered table missing borders:\n%s", out)
	}
}

func TestRenderTableEmpty(t *testing.T) {
	if out := renderTable(table{}); out != "" {
		t.Errorf("empty table should render nothing, got %q", out)
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{12.5, "12.50"},
		{500, "500.00"},
		{-3.456, "-3.46"},
	}
	for _, tc := range cases {
		if got := formatAmount(tc.in); got != tc.want {
			t.Errorf("formatAmount(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
