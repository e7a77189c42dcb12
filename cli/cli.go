// Package cli implements the flex2ledger command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	successSymbol = "✓"
	errorSymbol   = "✗"
	infoSymbol    = "→"

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
)

func printSuccess(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		successStyle.Render(successSymbol),
		message,
	)
}

func printError(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		errorStyle.Render(errorSymbol),
		errorStyle.Render(message),
	)
}

func printInfof(w io.Writer, format string, args ...interface{}) {
	formatted := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(w, "%s %s\n",
		infoStyle.Render(infoSymbol),
		formatted,
	)
}

// promptYesNo prompts the user with a yes/no question.
// Returns false by default if stdin is not a terminal.
func promptYesNo(question string) (bool, error) {
	if !isTerminal() {
		return false, nil
	}

	var confirm bool

	form := huh.NewConfirm().
		Title(question).
		WithButtonAlignment(lipgloss.Left).
		Value(&confirm)

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}

	return confirm, nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// openOutput opens the output target of a command: stdout when path is
// empty, otherwise the named file. An existing file is only overwritten
// after confirmation, unless force is set (watch re-runs). The boolean
// reports whether the caller owns the writer and should close it.
func openOutput(ctx *kong.Context, path string, force bool) (io.WriteCloser, bool, error) {
	if path == "" {
		return nopWriteCloser{ctx.Stdout}, false, nil
	}

	// Only ask when interactive; scripted runs overwrite like any
	// well-behaved Unix tool.
	if !force && isTerminal() {
		if _, err := os.Stat(path); err == nil {
			confirmed, err := promptYesNo(fmt.Sprintf("Overwrite %s?", path))
			if err != nil {
				return nil, false, err
			}
			if !confirmed {
				return nil, false, fmt.Errorf("refusing to overwrite %s", path)
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, true, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
