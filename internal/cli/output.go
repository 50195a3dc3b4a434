package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// render 按 --output 输出：json 直接编码 data，table 使用 header/rows。
func render(w io.Writer, format string, data any, header []string, rows [][]string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case "table", "":
		if len(rows) == 0 {
			fmt.Fprintln(w, "No results.")
			return nil
		}
		table := tablewriter.NewWriter(w)
		table.Header(header)
		for _, row := range rows {
			if err := table.Append(row); err != nil {
				return err
			}
		}
		return table.Render()
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
