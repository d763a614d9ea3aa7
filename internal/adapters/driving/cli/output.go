package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// palette styles command summaries. Every style is plain when the
// output is not a terminal.
type palette struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}

// isTerminal reports whether w writes to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func paletteFor(w io.Writer) palette {
	plain := lipgloss.NewStyle()
	if !isTerminal(w) {
		return palette{Title: plain, Label: plain, Success: plain, Warning: plain, Error: plain, Muted: plain}
	}
	return palette{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#D97706")),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("#0EA5E9")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	}
}

// printTitle writes an underlined section title.
func printTitle(cmd *cobra.Command, p palette, title string) {
	cmd.Println(p.Title.Render(title))
	cmd.Println(p.Muted.Render(underline(title)))
}

// printField writes one aligned "label: value" line.
func printField(cmd *cobra.Command, p palette, label string, value any) {
	cmd.Printf("  %s %v\n", p.Label.Render(fmt.Sprintf("%-22s", label+":")), value)
}

func underline(title string) string {
	return strings.Repeat("=", lipgloss.Width(title))
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
