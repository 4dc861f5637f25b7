// Package schedule writes a simulator run's retired instruction schedule to
// CSV or JSON.
package schedule

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/ArpitPrd/fpsim/internal/fpsim"
)

// WriteCSV writes one row per retired instruction, in ascending index order,
// with no header: index,instr,issue,start,complete,writeback,result. Result
// is rendered with six digits after the decimal point.
func WriteCSV(rows []fpsim.Row, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("schedule: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.Index),
			row.Instr,
			strconv.FormatInt(row.Issue, 10),
			strconv.FormatInt(row.Start, 10),
			strconv.FormatInt(row.Complete, 10),
			strconv.FormatInt(row.Writeback, 10),
			formatResult(row.Result),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("schedule: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// jsonRow mirrors fpsim.Row with JSON field names, since fpsim.Row has no
// struct tags of its own (the core engine package stays free of an I/O
// concern it does not own). Result is carried as a decimal string rather
// than a JSON number because encoding/json cannot represent NaN, and a NaN
// result is a legitimate, expected row (a NaN-triggered termination always
// emits one).
type jsonRow struct {
	Index     int    `json:"index"`
	Instr     string `json:"instr"`
	Issue     int64  `json:"issue"`
	Start     int64  `json:"start"`
	Complete  int64  `json:"complete"`
	Writeback int64  `json:"writeback"`
	Result    string `json:"result"`
}

// WriteJSON writes the retired schedule as a JSON array of objects, in
// ascending index order, result rendered with six digits after the decimal
// point the same way as the CSV writer.
func WriteJSON(rows []fpsim.Row, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("schedule: %w", err)
	}
	defer f.Close()

	out := make([]jsonRow, len(rows))
	for i, row := range rows {
		out[i] = jsonRow{
			Index:     row.Index,
			Instr:     row.Instr,
			Issue:     row.Issue,
			Start:     row.Start,
			Complete:  row.Complete,
			Writeback: row.Writeback,
			Result:    formatResult(row.Result),
		}
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("schedule: %w", err)
	}
	return nil
}

// formatResult renders a result with six digits after the decimal point.
// strconv special-cases NaN to the literal string "NaN" regardless of
// format or precision.
func formatResult(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}
