package report

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/mwtools/unusedres/internal/history"
)

// CommitTable prints one row per commit with the number of identifiers
// last seen there.
func (r *Reporter) CommitTable(noun string, groups []history.Group) {
	if len(groups) == 0 {
		return
	}

	table := tablewriter.NewTable(r.w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{
				Left:   tw.Off,
				Right:  tw.Off,
				Top:    tw.Off,
				Bottom: tw.Off,
			},
			Settings: tw.Settings{
				Separators: tw.Separators{
					BetweenColumns: tw.Off,
				},
			},
		}),
	)

	table.Header([]string{"Commit", "Subject", noun})
	for _, g := range groups {
		table.Append([]string{g.Record.Hash, g.Record.Subject, strconv.Itoa(len(g.Identifiers))})
	}
	table.Render()
	fmt.Fprintln(r.w)
}
