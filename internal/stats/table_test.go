package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Name", "Value", "Count"}
	rows := [][]string{
		{"a", "97.50 %", "12"},
		{"temp", "8.0 °C", "3"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Name   Value Count" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "a    97.50 %    12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "temp  8.0 °C     3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Name", "N"}, [][]string{{"日本", "1"}}, nil)
	if lines[1] != "日本 1" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
}
