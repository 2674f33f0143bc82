package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// UI renders command output. In JSON mode only JSON documents are written
// to out; human-oriented messages and progress are suppressed.
type UI struct {
	out      io.Writer
	errOut   io.Writer
	jsonMode bool
	noColor  bool
}

// NewUI creates a UI writing to out and errOut.
func NewUI(out, errOut io.Writer, jsonMode, noColor bool) *UI {
	return &UI{out: out, errOut: errOut, jsonMode: jsonMode, noColor: noColor}
}

func (ui *UI) styled(attr color.Attribute) *color.Color {
	c := color.New(attr)
	if ui.noColor {
		c.DisableColor()
	} else {
		c.EnableColor()
	}
	return c
}

func (ui *UI) line(w io.Writer, attr color.Attribute, symbol, format string, args ...any) {
	if ui.jsonMode {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if ui.noColor || !isTerminal(w) {
		fmt.Fprintf(w, "%s %s\n", symbol, msg)
		return
	}
	ui.styled(attr).Fprintf(w, "%s %s\n", symbol, msg)
}

// Success prints a success message.
func (ui *UI) Success(format string, args ...any) { ui.line(ui.out, color.FgGreen, "✓", format, args...) }

// Error prints an error message to the error stream.
func (ui *UI) Error(format string, args ...any) { ui.line(ui.errOut, color.FgRed, "✗", format, args...) }

// Warning prints a warning message.
func (ui *UI) Warning(format string, args ...any) {
	ui.line(ui.out, color.FgYellow, "⚠", format, args...)
}

// Info prints an info message.
func (ui *UI) Info(format string, args ...any) { ui.line(ui.out, color.FgCyan, "ℹ", format, args...) }

// Section prints a section header.
func (ui *UI) Section(title string) {
	if ui.jsonMode {
		return
	}
	fmt.Fprintln(ui.out)
	header := fmt.Sprintf("━━━ %s ━━━", strings.ToUpper(title))
	if ui.noColor || !isTerminal(ui.out) {
		fmt.Fprintln(ui.out, header)
		return
	}
	ui.styled(color.Bold).Fprintln(ui.out, header)
}

// Text prints free-form text.
func (ui *UI) Text(s string) {
	if ui.jsonMode {
		return
	}
	fmt.Fprintln(ui.out, s)
}

// JSON writes v as indented JSON. It is a no-op outside JSON mode.
func (ui *UI) JSON(v any) error {
	if !ui.jsonMode {
		return nil
	}
	enc := json.NewEncoder(ui.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table prints rows under headers with padded columns.
func (ui *UI) Table(headers []string, rows [][]string) {
	if ui.jsonMode || len(headers) == 0 {
		return
	}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len([]rune(h))
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len([]rune(cell)) > widths[i] {
				widths[i] = len([]rune(cell))
			}
		}
	}

	render := func(cells []string) string {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = cell + strings.Repeat(" ", widths[i]-len([]rune(cell)))
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	head := render(headers)
	if ui.noColor || !isTerminal(ui.out) {
		fmt.Fprintln(ui.out, head)
	} else {
		ui.styled(color.FgCyan).Add(color.Bold).Fprintln(ui.out, head)
	}
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("─", w)
	}
	fmt.Fprintln(ui.out, strings.Join(sep, "  "))
	for _, row := range rows {
		fmt.Fprintln(ui.out, render(row))
	}
}

// ProgressBar is a determinate progress display. A nil bar is inert.
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// ProgressBar creates a bar on the error stream, or nil in JSON mode.
func (ui *UI) ProgressBar(total int, description string) *ProgressBar {
	if ui.jsonMode {
		return nil
	}
	w := ui.errOut
	return &ProgressBar{bar: progressbar.NewOptions(total,
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionEnableColorCodes(!ui.noColor),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
	)}
}

// Describe updates the bar's description.
func (p *ProgressBar) Describe(description string) {
	if p != nil {
		p.bar.Describe(description)
	}
}

// Add advances the bar.
func (p *ProgressBar) Add(n int) {
	if p != nil {
		_ = p.bar.Add(n)
	}
}

// Finish completes the bar.
func (p *ProgressBar) Finish() {
	if p != nil {
		_ = p.bar.Finish()
	}
}

// Spinner is an indeterminate progress display. A nil spinner is inert.
type Spinner struct {
	spinner *spinner.Spinner
}

// Spinner starts a spinner on the error stream when it is a terminal.
func (ui *UI) Spinner(message string) *Spinner {
	if ui.jsonMode || !isTerminal(ui.errOut) {
		return nil
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(ui.errOut))
	s.Suffix = " " + message
	if !ui.noColor {
		_ = s.Color("cyan")
	}
	s.Start()
	return &Spinner{spinner: s}
}

// Stop stops the spinner and clears its line.
func (s *Spinner) Stop() {
	if s != nil {
		s.spinner.Stop()
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
