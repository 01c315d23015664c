// Package output renders command results for humans and for machines. Every
// command writes through a Formatter so --json swaps the whole surface at
// once instead of per call site.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

// Format selects the output surface.
type Format string

const (
	FormatCLI   Format = "cli"
	FormatJSON  Format = "json"
	FormatPlain Format = "plain"
)

// ColorMode controls ANSI color usage.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Formatter is the shared output sink for a command invocation.
type Formatter struct {
	Writer    io.Writer
	Format    Format
	ColorMode ColorMode
}

// NewFormatter returns a CLI formatter on stdout with auto color.
func NewFormatter() *Formatter {
	return &Formatter{Writer: os.Stdout, Format: FormatCLI, ColorMode: ColorAuto}
}

// IsColorEnabled resolves the color mode against the actual writer.
func (f *Formatter) IsColorEnabled() bool {
	switch f.ColorMode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	w, ok := f.Writer.(*os.File)
	return ok && (isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd()))
}

func (f *Formatter) Print(a ...interface{}) {
	fmt.Fprint(f.Writer, a...)
}

func (f *Formatter) Println(a ...interface{}) {
	fmt.Fprintln(f.Writer, a...)
}

func (f *Formatter) Printf(format string, a ...interface{}) {
	fmt.Fprintf(f.Writer, format, a...)
}

// JSON writes v as indented JSON with a trailing newline.
func (f *Formatter) JSON(v interface{}) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatSeconds renders a second count the way timers are usually read:
// "45s", "2m 30s", "1h 30m".
func FormatSeconds(s int64) string {
	d := time.Duration(s) * time.Second
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		m, sec := int(d.Minutes()), int(d.Seconds())%60
		if sec > 0 {
			return fmt.Sprintf("%dm %ds", m, sec)
		}
		return fmt.Sprintf("%dm", m)
	}
	h, m := int(d.Hours()), int(d.Minutes())%60
	if m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dh", h)
}

// FormatDay renders a day in the canonical YYYY-MM-DD form.
func FormatDay(t time.Time) string {
	return t.Local().Format("2006-01-02")
}

// FormatTimeShort renders a timestamp without seconds.
func FormatTimeShort(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
