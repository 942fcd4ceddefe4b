// Package termfmt provides ANSI color formatting as an injected value, so
// commands pass their palette down instead of flipping global state.
package termfmt

import "os"

const (
	ansiRed     = "\033[91m"
	ansiGreen   = "\033[92m"
	ansiYellow  = "\033[93m"
	ansiBlue    = "\033[94m"
	ansiMagenta = "\033[95m"
	ansiCyan    = "\033[96m"
	ansiBold    = "\033[1m"
	ansiReset   = "\033[0m"
)

// Palette wraps strings in ANSI color codes, or passes them through
// unchanged when disabled.
type Palette struct {
	enabled bool
}

// New returns a palette. Colors are off when noColor is set or stdout is
// not a terminal.
func New(noColor bool) Palette {
	return Palette{enabled: !noColor && stdoutIsTerminal()}
}

func stdoutIsTerminal() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func (p Palette) wrap(code, s string) string {
	if !p.enabled {
		return s
	}
	return code + s + ansiReset
}

func (p Palette) Red(s string) string     { return p.wrap(ansiRed, s) }
func (p Palette) Green(s string) string   { return p.wrap(ansiGreen, s) }
func (p Palette) Yellow(s string) string  { return p.wrap(ansiYellow, s) }
func (p Palette) Blue(s string) string    { return p.wrap(ansiBlue, s) }
func (p Palette) Magenta(s string) string { return p.wrap(ansiMagenta, s) }
func (p Palette) Cyan(s string) string    { return p.wrap(ansiCyan, s) }
func (p Palette) Bold(s string) string    { return p.wrap(ansiBold, s) }
