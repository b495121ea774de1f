// Package render draws uploader views for a terminal.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/moyoez/fileuploader/types"
)

const DefaultBarWidth = 24

var (
	nameStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	iconGlyphs = map[types.Icon]string{
		types.IconImage: "[img]",
		types.IconVideo: "[vid]",
		types.IconAudio: "[aud]",
		types.IconPDF:   "[pdf]",
		types.IconFile:  "[doc]",
	}
)

// Single renders the single uploader view.
func Single(v types.SingleView) string {
	var b strings.Builder
	if v.HasFile {
		fmt.Fprintf(&b, "%s\n", nameStyle.Render(v.FileName))
		fmt.Fprintf(&b, "%s\n", dimStyle.Render(fmt.Sprintf("Size: %s  Type: %s", v.Size, v.FileType)))
	} else {
		fmt.Fprintf(&b, "%s\n", dimStyle.Render("No file selected"))
	}
	if v.Status == types.StatusUploading {
		fmt.Fprintf(&b, "%s\n", dimStyle.Render("Uploading..."))
	}
	if v.SuccessMessage != "" {
		fmt.Fprintf(&b, "%s\n", successStyle.Render(v.SuccessMessage))
	}
	if v.ErrorMessage != "" {
		fmt.Fprintf(&b, "%s\n", errorStyle.Render(v.ErrorMessage))
	}
	return b.String()
}

// Multi renders one line per row with a progress bar of width cells.
func Multi(v types.MultiView, width int) string {
	if width <= 0 {
		width = DefaultBarWidth
	}
	if len(v.Rows) == 0 {
		return dimStyle.Render("No files selected") + "\n"
	}
	var b strings.Builder
	for _, row := range v.Rows {
		fmt.Fprintf(&b, "%s %s %s %s %s\n",
			iconGlyphs[row.Icon],
			nameStyle.Render(row.FileName),
			dimStyle.Render(fmt.Sprintf("(%s, %s)", row.Size, row.FileType)),
			Bar(row.ProgressWidth, width),
			progressText(row),
		)
	}
	return b.String()
}

// Bar draws percent (0..100) of width cells as filled.
func Bar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return barStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", width-filled))
}

func progressText(row types.EntryRow) string {
	switch {
	case row.Completed:
		return successStyle.Render(row.ProgressText)
	case row.Failed:
		return errorStyle.Render(row.ProgressText)
	}
	return row.ProgressText
}

// Live redraws a block of lines in place. On a non-terminal writer every frame is appended instead,
// since cursor movement would end up as garbage in a log file.
type Live struct {
	mu       sync.Mutex
	w        io.Writer
	terminal bool
	lines    int
}

// NewLive draws to w. Redrawing in place is enabled when w is a terminal.
func NewLive(w io.Writer) *Live {
	l := &Live{w: w}
	if f, ok := w.(*os.File); ok {
		l.terminal = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return l
}

// Draw replaces the previous frame with frame. Safe for concurrent use.
func (l *Live) Draw(frame string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.terminal && l.lines > 0 {
		// cursor up over the last frame, then clear to the end of the screen
		fmt.Fprintf(l.w, "\x1b[%dA\x1b[J", l.lines)
	}
	fmt.Fprint(l.w, frame)
	l.lines = strings.Count(frame, "\n")
}
