package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/theirongolddev/holdcalc/internal/projection"

	"gopkg.in/yaml.v3"
)

// WriteReport encodes a projection report as json, yaml or csv.
func WriteReport(w io.Writer, format string, r projection.Report) error {
	if format == "csv" {
		return writeReportCSV(w, r)
	}
	return WriteStructured(w, format, r)
}

// WriteStructured encodes any value as json or yaml.
func WriteStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q is not supported here", format)
	}
}

// writeReportCSV writes one row per year with per-class savings columns.
func writeReportCSV(w io.Writer, r projection.Report) error {
	cw := csv.NewWriter(w)

	header := []string{"year", "without", "with", "savings"}
	for _, c := range r.Classes {
		header = append(header, c.Class.String()+"_savings")
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for y, row := range r.Years {
		rec := []string{
			strconv.Itoa(row.Year),
			row.Without.String(),
			row.With.String(),
			row.Savings.String(),
		}
		for _, c := range r.Classes {
			rec = append(rec, c.Savings[y].String())
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
