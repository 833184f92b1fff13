// Package output renders command results for terminals, pipes and scripts.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Mode selects how a command writes its results.
type Mode string

// Output modes.
const (
	// ModeAuto picks text on a terminal and markdown otherwise.
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Renderer writes styled output to stdout and diagnostics to stderr.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	isTTY  bool
	styles Styles
}

// NewRenderer creates a Renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a Renderer with an explicit terminal flag.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	var o *termenv.Output
	if isTTY {
		o = termenv.NewOutput(out)
	} else {
		o = termenv.NewOutput(out, termenv.WithProfile(termenv.Ascii))
	}
	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
		styles: Styles{o: o},
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// EffectiveMode resolves ModeAuto (and unknown modes) against the terminal.
func (r *Renderer) EffectiveMode() Mode {
	switch r.mode {
	case ModeText, ModeMarkdown, ModeJSON:
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether stdout is a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Writer returns the stdout writer.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the stderr writer.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// Styles returns the renderer's text styles.
func (r *Renderer) Styles() Styles { return r.styles }

// Println writes a line to stdout.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted text to stdout.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Header writes a section header.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(FormatHeader(level, text))
		return
	}
	if level <= 1 {
		r.Println(r.styles.Header(text))
		r.Println(strings.Repeat("─", len([]rune(text))))
		return
	}
	r.Println(r.styles.Bold(text))
}

// Success writes a confirmation line.
func (r *Renderer) Success(msg string) {
	r.Println(r.styles.Success("✓ " + msg))
}

// Muted writes a low-emphasis line.
func (r *Renderer) Muted(msg string) {
	r.Println(r.styles.Muted(msg))
}

// Warning writes a warning to stderr.
func (r *Renderer) Warning(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warning("! "+msg))
}

// Error writes an error to stderr.
func (r *Renderer) Error(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Error("✗ "+msg))
}

// StatusLine writes "<icon> name  detail" for a status of success, warning
// or failure.
func (r *Renderer) StatusLine(name, status, detail string) {
	var icon string
	switch status {
	case "success":
		icon = r.styles.Success("✓")
	case "warning":
		icon = r.styles.Warning("!")
	default:
		icon = r.styles.Error("✗")
	}
	line := icon + " " + name
	if detail != "" {
		line += "  " + r.styles.Muted(detail)
	}
	r.Println(line)
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatHeader returns a markdown header.
func FormatHeader(level int, text string) string {
	return strings.Repeat("#", max(level, 1)) + " " + text + "\n"
}

// FormatKeyValue returns a markdown list item with a bold key.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s:** %s", key, value)
}

// FormatCodeBlock returns a fenced code block.
func FormatCodeBlock(lang, code string) string {
	return "```" + lang + "\n" + strings.TrimRight(code, "\n") + "\n```"
}

// Styles renders text with terminal colors. Without a terminal every style
// returns its input unchanged.
type Styles struct {
	o *termenv.Output
}

func (s Styles) style(text string) termenv.Style {
	return s.o.String(text)
}

// Header is bold cyan.
func (s Styles) Header(text string) string {
	return s.style(text).Bold().Foreground(termenv.ANSICyan).String()
}

// Bold is bold.
func (s Styles) Bold(text string) string {
	return s.style(text).Bold().String()
}

// Success is green.
func (s Styles) Success(text string) string {
	return s.style(text).Foreground(termenv.ANSIGreen).String()
}

// Warning is yellow.
func (s Styles) Warning(text string) string {
	return s.style(text).Foreground(termenv.ANSIYellow).String()
}

// Error is red.
func (s Styles) Error(text string) string {
	return s.style(text).Foreground(termenv.ANSIRed).String()
}

// Muted is faint.
func (s Styles) Muted(text string) string {
	return s.style(text).Faint().String()
}
