package repository

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/okian/sitebench/internal/domain/model"
)

// Fixed results-table columns. Every other column is treated as a metric.
const (
	colConfiguration = "configuration"
	colSiteLeftOut   = "site_left_out"
	colSampleSize    = "sample_size"
	colIteration     = "iteration"
)

// ReadCSV parses a results table. The header must contain the four fixed
// columns; all remaining columns become metric entries. Empty metric cells
// mean the metric is absent for that row.
func ReadCSV(r io.Reader) ([]model.EvaluationRecord, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read results header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, required := range []string{colConfiguration, colSiteLeftOut, colSampleSize, colIteration} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrSchema, required)
		}
	}

	metricCols := make(map[string]int)
	for name, i := range index {
		switch name {
		case colConfiguration, colSiteLeftOut, colSampleSize, colIteration:
		default:
			metricCols[name] = i
		}
	}

	var records []model.EvaluationRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read results row: %w", err)
		}

		sampleSize, err := strconv.Atoi(row[index[colSampleSize]])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad sample_size %q", ErrSchema, line, row[index[colSampleSize]])
		}
		iteration, err := strconv.Atoi(row[index[colIteration]])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad iteration %q", ErrSchema, line, row[index[colIteration]])
		}

		rec := model.EvaluationRecord{
			Configuration: row[index[colConfiguration]],
			SiteLeftOut:   row[index[colSiteLeftOut]],
			SampleSize:    sampleSize,
			Iteration:     iteration,
			Metrics:       make(map[string]float64, len(metricCols)),
		}
		for name, i := range metricCols {
			cell := row[i]
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: bad value %q for metric %q", ErrSchema, line, cell, name)
			}
			rec.Metrics[name] = v
		}
		records = append(records, rec)
	}
	return records, nil
}

// WriteCSV writes records as a results table: fixed columns first, then the
// union of metric names sorted. Absent metrics become empty cells.
func WriteCSV(w io.Writer, records []model.EvaluationRecord) error {
	metricSet := make(map[string]struct{})
	for _, rec := range records {
		for name := range rec.Metrics {
			metricSet[name] = struct{}{}
		}
	}
	metricNames := make([]string, 0, len(metricSet))
	for name := range metricSet {
		metricNames = append(metricNames, name)
	}
	sort.Strings(metricNames)

	writer := csv.NewWriter(w)
	header := append([]string{colConfiguration, colSiteLeftOut, colSampleSize, colIteration}, metricNames...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write results header: %w", err)
	}

	row := make([]string, len(header))
	for _, rec := range records {
		row[0] = rec.Configuration
		row[1] = rec.SiteLeftOut
		row[2] = strconv.Itoa(rec.SampleSize)
		row[3] = strconv.Itoa(rec.Iteration)
		for i, name := range metricNames {
			if v, ok := rec.Metrics[name]; ok {
				row[4+i] = strconv.FormatFloat(v, 'g', -1, 64)
			} else {
				row[4+i] = ""
			}
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write results row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
