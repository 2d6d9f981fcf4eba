package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const segmentGap = "  "

type segment struct {
	text  string
	style lipgloss.Style
}

// wrapSegments packs footer segments into lines no wider than width.
// Segments are never split; one wider than width gets a line of its own.
func wrapSegments(segments []segment, width int) []string {
	var (
		lines     []string
		line      []string
		lineWidth int
	)
	gap := runewidth.StringWidth(segmentGap)
	for _, seg := range segments {
		if seg.text == "" {
			continue
		}
		w := runewidth.StringWidth(seg.text)
		if width > 0 && len(line) > 0 && lineWidth+gap+w > width {
			lines = append(lines, strings.Join(line, segmentGap))
			line = line[:0]
			lineWidth = 0
		}
		if len(line) > 0 {
			lineWidth += gap
		}
		line = append(line, seg.style.Render(seg.text))
		lineWidth += w
	}
	if len(line) > 0 {
		lines = append(lines, strings.Join(line, segmentGap))
	}
	return lines
}
