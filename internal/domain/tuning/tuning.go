// Package tuning condenses hyperparameter-tuning results into a summary
// table of the parameters selected per run.
package tuning

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// paramPrefix marks tuning-result columns holding selected parameter values.
const paramPrefix = "param_"

// ErrSchema indicates a tuning table missing required columns.
var ErrSchema = errors.New("tuning schema error")

// Row is one raw tuning-result row: the run it belongs to plus the selected
// parameter values, keyed by stripped parameter name.
type Row struct {
	Configuration string
	SampleSize    int
	Iteration     int
	Params        map[string]string
}

// Table is an ordered summary table ready for CSV or HTML output.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ParseCSV reads raw tuning results. The header must contain configuration,
// sample_size and iteration; every param_-prefixed column becomes a
// parameter, other columns are ignored.
func ParseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read tuning header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, required := range []string{"configuration", "sample_size", "iteration"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrSchema, required)
		}
	}

	paramCols := make(map[string]int)
	for name, i := range index {
		if strings.HasPrefix(name, paramPrefix) {
			paramCols[strings.TrimPrefix(name, paramPrefix)] = i
		}
	}

	var rows []Row
	for line := 2; ; line++ {
		raw, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tuning row: %w", err)
		}

		sampleSize, err := strconv.Atoi(raw[index["sample_size"]])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad sample_size %q", ErrSchema, line, raw[index["sample_size"]])
		}
		iteration, err := strconv.Atoi(raw[index["iteration"]])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad iteration %q", ErrSchema, line, raw[index["iteration"]])
		}

		row := Row{
			Configuration: raw[index["configuration"]],
			SampleSize:    sampleSize,
			Iteration:     iteration,
			Params:        make(map[string]string, len(paramCols)),
		}
		for name, i := range paramCols {
			row.Params[name] = raw[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// group identifies one summarized run.
type group struct {
	configuration string
	sampleSize    int
	iteration     int
}

// Summarize collapses raw tuning rows into one summary row per
// (configuration, sample size, iteration). Numeric parameters take the first
// value seen in the group; categorical parameters take the most frequent
// value, ties broken by the lexicographically smallest.
func Summarize(rows []Row) Table {
	paramSet := make(map[string]struct{})
	grouped := make(map[group][]Row)
	for _, row := range rows {
		g := group{row.Configuration, row.SampleSize, row.Iteration}
		grouped[g] = append(grouped[g], row)
		for name := range row.Params {
			paramSet[name] = struct{}{}
		}
	}

	paramNames := make([]string, 0, len(paramSet))
	for name := range paramSet {
		paramNames = append(paramNames, name)
	}
	sort.Strings(paramNames)

	keys := make([]group, 0, len(grouped))
	for g := range grouped {
		keys = append(keys, g)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.configuration != b.configuration {
			return a.configuration < b.configuration
		}
		if a.sampleSize != b.sampleSize {
			return a.sampleSize < b.sampleSize
		}
		return a.iteration < b.iteration
	})

	table := Table{
		Columns: append([]string{"configuration", "sample_size", "iteration"}, paramNames...),
	}
	for _, g := range keys {
		row := make([]string, 0, len(table.Columns))
		row = append(row, g.configuration, strconv.Itoa(g.sampleSize), strconv.Itoa(g.iteration))
		for _, name := range paramNames {
			row = append(row, summarizeParam(grouped[g], name))
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// summarizeParam picks one representative value for a parameter in a group.
func summarizeParam(rows []Row, name string) string {
	values := make([]string, 0, len(rows))
	for _, row := range rows {
		if v, ok := row.Params[name]; ok && v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return "N/A"
	}

	if allNumeric(values) {
		return values[0]
	}
	return mode(values)
}

func allNumeric(values []string) bool {
	for _, v := range values {
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return false
		}
	}
	return true
}

// mode returns the most frequent value, ties broken lexicographically.
func mode(values []string) string {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	best := ""
	bestCount := 0
	for v, n := range counts {
		if n > bestCount || (n == bestCount && v < best) {
			best = v
			bestCount = n
		}
	}
	return best
}

// WriteCSV writes the summary table as CSV.
func (t Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}
	for _, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
