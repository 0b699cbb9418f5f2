package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/csheth/podscript/internal/library"
)

func printLibrary(w io.Writer, path string, colorize bool) error {
	entries, err := library.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintf(w, "No saved scripts in %s\n", path)
		return err
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	if colorize {
		tw.Style().Color.Header = text.Colors{text.FgHiCyan, text.Bold}
		tw.Style().Color.Footer = text.Colors{text.FgHiBlack}
	}
	tw.AppendHeader(table.Row{"ID", "Title", "Hosts", "Lines", "Updated"})
	for _, entry := range entries {
		title := entry.Title
		if title == "" {
			title = "Untitled script"
		}
		tw.AppendRow(table.Row{
			entry.ID,
			title,
			fmt.Sprintf("%s & %s", entry.Cast.A, entry.Cast.B),
			len(entry.Lines),
			entry.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	noun := "scripts"
	if len(entries) == 1 {
		noun = "script"
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d %s", len(entries), noun), "", "", ""})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 48},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	tw.Render()
	return nil
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
