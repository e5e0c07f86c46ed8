package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/wbrown/tablexpr/internal/demoengine"
)

// columnsOf collects a stable, sorted header from the union of every
// row's keys — rows are plain maps, so there is no schema-ordered
// column list to fall back on.
func columnsOf(rows []demoengine.Row) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, r := range rows {
		for k := range r.Values {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return cols
}

// formatRows renders rows as a markdown table, "id" first followed by
// the sorted field columns.
func formatRows(rows []demoengine.Row) string {
	if len(rows) == 0 {
		return "_No rows_"
	}

	cols := columnsOf(rows)
	headers := append([]string{"id"}, cols...)

	tableString := &strings.Builder{}
	alignment := make([]tw.Align, len(headers))
	for i := range alignment {
		alignment[i] = tw.AlignNone
	}

	table := tablewriter.NewTable(tableString,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(alignment),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header(headers)

	for _, r := range rows {
		row := make([]string, len(headers))
		row[0] = fmt.Sprintf("%d", r.ID)
		for i, col := range cols {
			row[i+1] = formatValue(r.Values[col])
		}
		table.Append(row)
	}
	table.Render()

	tableString.WriteString(fmt.Sprintf("\n_%d rows_\n", len(rows)))
	return tableString.String()
}

func formatValue(val any) string {
	if val == nil {
		return ""
	}
	switch v := val.(type) {
	case string:
		return v
	case int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%.2f", v)
	case bool:
		return fmt.Sprintf("%t", v)
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", v)
	}
}
