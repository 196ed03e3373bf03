package tui

import (
	"encoding/json"
	"fmt"
	"sort"

	table "github.com/charmbracelet/bubbles/table"
)

// refreshAttrsFromCurrent rebuilds the table columns/rows from the loaded counties
func (m *Model) refreshAttrsFromCurrent() {
	cols, rows := m.buildAttributes()
	// If there are no columns or rows, disable attributes view to avoid rendering panics
	if len(cols) == 0 || len(rows) == 0 {
		m.showAttrs = false
		m.status = "no attributes for current dataset"
		return
	}
	tcols := make([]table.Column, 0, len(cols)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 5})
	maxColW := 24
	for i, c := range cols {
		w := len(c) + 2
		for _, r := range rows {
			w = max(w, len(r[i])+1)
		}
		tcols = append(tcols, table.Column{Title: c, Width: min(w, maxColW)})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		row := make([]string, 0, len(r)+1)
		row = append(row, fmt.Sprintf("%d", i+1))
		row = append(row, r...)
		trows = append(trows, table.Row(row))
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

// buildAttributes lists the counties with their rate, followed by the union
// of the remaining property keys in sorted order.
func (m *Model) buildAttributes() ([]string, [][]string) {
	if m.data == nil || len(m.data.Features) == 0 {
		return nil, nil
	}
	seen := map[string]bool{"name": true}
	var extra []string
	for _, f := range m.data.Features {
		for k := range f.Properties {
			if !seen[k] {
				seen[k] = true
				extra = append(extra, k)
			}
		}
	}
	sort.Strings(extra)
	cols := append([]string{"id", "name", "rate"}, extra...)
	rows := make([][]string, 0, len(m.data.Features))
	for _, f := range m.data.Features {
		rate := ""
		if f.HasRate {
			rate = fmt.Sprintf("%.3f", f.Rate)
		}
		vals := []string{f.ID, f.Name, rate}
		for _, k := range extra {
			vals = append(vals, formatValue(f.Properties[k]))
		}
		rows = append(rows, vals)
	}
	return cols, rows
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		bs, _ := json.Marshal(t)
		return string(bs)
	}
}
