// Package printer formats engine output for consumption by shells,
// humans, and other programs.
package printer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"

	"github.com/asheshgoplani/beam/internal/store"
)

// maxPathColumn caps the path column in human tables; longer paths are
// truncated with an ellipsis.
const maxPathColumn = 72

// Paths writes one path per line, the shape the shell function consumes.
func Paths(w io.Writer, paths []string) error {
	bw := bufio.NewWriter(w)
	for _, p := range paths {
		if _, err := fmt.Fprintln(bw, p); err != nil {
			return fmt.Errorf("printer: write paths: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("printer: write paths: %w", err)
	}
	return nil
}

// JSON writes ledger entries as line-delimited JSON objects.
func JSON(w io.Writer, entries []store.Entry) error {
	enc := json.NewEncoder(w)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("printer: encode entry: %w", err)
		}
	}
	return nil
}

// TSV writes ledger entries as tab-separated lines, for pipes and scripts.
func TSV(w io.Writer, entries []store.Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := fmt.Fprintf(bw, "%s\t%s\n", e.Path, e.LastVisited.Format(time.RFC3339)); err != nil {
			return fmt.Errorf("printer: write tsv: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("printer: write tsv: %w", err)
	}
	return nil
}

// Human writes ledger entries as a bordered table for terminal display.
func Human(w io.Writer, entries []store.Entry) error {
	headerStyle := lipgloss.NewStyle().Bold(true)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("PATH", "LAST VISITED")

	for _, e := range entries {
		t.Row(
			runewidth.Truncate(e.Path, maxPathColumn, "…"),
			e.LastVisited.Format(time.RFC3339),
		)
	}

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return fmt.Errorf("printer: write table: %w", err)
	}
	return nil
}
