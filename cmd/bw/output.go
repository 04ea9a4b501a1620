package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/calderost/bridgewatch/internal/model"
	"github.com/calderost/bridgewatch/internal/sampler"
	"github.com/calderost/bridgewatch/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

// printRowTable renders buffered calls in the table layout the monitor
// defines: index, time, type, module, method, args. selected marks one row
// with an accent marker.
func printRowTable(rows []*model.ViewRow, total int, selected string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	header := "  "
	for i, col := range model.ColumnSpecs() {
		if i > 0 {
			header += "\t"
		}
		header += ui.RenderAccent(col.Label)
	}
	fmt.Fprintln(w, header)

	// Leave room for the marker and the tab gaps between columns.
	argsWidth := ui.TerminalWidth(120) - 60
	if argsWidth < 16 {
		argsWidth = 16
	}

	for _, row := range rows {
		marker := "  "
		if selected != "" && row.Key == selected {
			marker = ui.RenderAccent("> ")
		}
		line := marker
		for i, name := range model.ColumnOrder {
			if i > 0 {
				line += "\t"
			}
			line += renderCell(name, row.Columns[name].DisplayValue, argsWidth)
		}
		fmt.Fprintln(w, line)
	}
	w.Flush()
	fmt.Printf("\n%d calls (%d total)\n", len(rows), total)
}

func renderCell(column, value string, argsWidth int) string {
	if value == "" {
		return ui.RenderMuted("-")
	}
	switch column {
	case model.ColumnTime:
		return ui.RenderMuted(value)
	case model.ColumnType:
		return ui.RenderType(value)
	case model.ColumnArgs:
		return ui.RenderValue(ui.Truncate(value, argsWidth))
	default:
		return ui.RenderValue(value)
	}
}

// printCallDetail renders the full payload of a single call.
func printCallDetail(event *model.RawEvent) {
	fmt.Printf("ID:     %s\n", event.ID)
	fmt.Printf("Time:   %s\n", event.When().Format("2006-01-02 15:04:05.000"))
	fmt.Printf("Type:   %s\n", event.Type)
	if event.Module != "" {
		fmt.Printf("Module: %s\n", event.Module)
	}
	if event.Method != "" {
		fmt.Printf("Method: %s\n", event.Method)
	}
	if len(event.Args) > 0 {
		var pretty json.RawMessage = event.Args
		data, err := json.MarshalIndent(pretty, "", "  ")
		if err != nil {
			fmt.Printf("Args:   %s\n", string(event.Args))
		} else {
			fmt.Printf("Args:   %s\n", string(data))
		}
	}
}

func printMetrics(m *sampler.Metrics) {
	fmt.Printf("Messages/sec: %d\n", m.MessagesPerSecond)
	fmt.Printf("Bytes/sec:    %.1f\n", m.BytesPerSecond)
}

func printFilters(filters []model.Filter, combine model.CombineMode) {
	if len(filters) == 0 {
		fmt.Println("no filters set")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, ui.RenderAccent("COLUMN")+"\t"+ui.RenderAccent("VALUE"))
	for _, f := range filters {
		fmt.Fprintf(w, "%s\t%s\n", f.Key, f.Value)
	}
	w.Flush()
	fmt.Printf("\ncombine mode: %s\n", combine)
}
