// Package chart builds renderer payloads from experiment views. The actual
// drawing is done by an external renderer consuming the JSON payloads; this
// package only reshapes view output and writes artifacts.
package chart

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/okian/sitebench/internal/domain/model"
	"github.com/okian/sitebench/internal/domain/views"
	"github.com/okian/sitebench/pkg/metrics"
)

// Payload kinds understood by the renderer.
const (
	KindViolin  = "violin"
	KindBox     = "box"
	KindScatter = "scatter"
)

// Theme carries explicit styling for one payload. It is threaded through
// every build call; there is no process-wide style state.
type Theme struct {
	Context   string   `json:"context"`
	Palette   []string `json:"palette,omitempty"`
	Width     float64  `json:"width"`
	Height    float64  `json:"height"`
	FontScale float64  `json:"font_scale"`
}

// DefaultTheme returns the styling used by the standard comparison figures.
func DefaultTheme() Theme {
	return Theme{Context: "paper", Width: 10, Height: 6, FontScale: 1.4}
}

// Series is one drawable group of values or points.
type Series struct {
	Name       string        `json:"name"`
	Metric     string        `json:"metric,omitempty"`
	SampleSize int           `json:"sample_size,omitempty"`
	Values     []float64     `json:"values,omitempty"`
	Points     []views.Point `json:"points,omitempty"`
}

// Payload is the renderer-facing chart description.
type Payload struct {
	Kind   string   `json:"kind"`
	Title  string   `json:"title"`
	XLabel string   `json:"x_label,omitempty"`
	YLabel string   `json:"y_label,omitempty"`
	Theme  Theme    `json:"theme"`
	Series []Series `json:"series"`
}

// ViolinComparison builds a violin payload comparing two metrics across
// configurations: one series per (configuration, metric), configurations in
// the given order, metricA before metricB. Configurations in the subset but
// not in configurationOrder fail with views.ErrUnknownConfiguration.
func ViolinComparison(subset []model.EvaluationRecord, metricA, metricB, title string, configurationOrder []string, theme Theme) (Payload, error) {
	long, err := views.MeltPair(subset, metricA, metricB)
	if err != nil {
		return Payload{}, err
	}

	known := make(map[string]struct{}, len(configurationOrder))
	for _, name := range configurationOrder {
		known[name] = struct{}{}
	}

	grouped := make(map[string]map[string][]float64) // configuration -> metric -> values
	for _, row := range long {
		if _, ok := known[row.Configuration]; !ok {
			return Payload{}, fmt.Errorf("%w: %q", views.ErrUnknownConfiguration, row.Configuration)
		}
		byMetric, ok := grouped[row.Configuration]
		if !ok {
			byMetric = make(map[string][]float64, 2)
			grouped[row.Configuration] = byMetric
		}
		byMetric[row.Metric] = append(byMetric[row.Metric], row.Value)
	}

	p := Payload{
		Kind:   KindViolin,
		Title:  title,
		XLabel: "configuration",
		YLabel: "score",
		Theme:  theme,
	}
	for _, name := range configurationOrder {
		byMetric, ok := grouped[name]
		if !ok {
			continue
		}
		for _, metric := range []string{metricA, metricB} {
			if values, ok := byMetric[metric]; ok {
				p.Series = append(p.Series, Series{Name: name, Metric: metric, Values: values})
			}
		}
	}
	return p, nil
}

// BoxBySampleSize builds a box payload over several training set sizes: for
// each size the records are filtered and melted over metricNames, producing
// one series per (sample size, configuration, metric).
func BoxBySampleSize(records []model.EvaluationRecord, sampleSizes []int, metricNames []string, maxIteration int, title string, theme Theme) (Payload, error) {
	p := Payload{
		Kind:   KindBox,
		Title:  title,
		XLabel: "sample size",
		YLabel: "score",
		Theme:  theme,
	}

	for _, size := range sampleSizes {
		subset := views.FilterBySampleSize(records, size, maxIteration)
		long, err := views.MeltMany(subset, metricNames)
		if err != nil {
			return Payload{}, err
		}

		grouped := make(map[string]map[string][]float64)
		var order []string
		for _, row := range long {
			byMetric, ok := grouped[row.Configuration]
			if !ok {
				byMetric = make(map[string][]float64, len(metricNames))
				grouped[row.Configuration] = byMetric
				order = append(order, row.Configuration)
			}
			byMetric[row.Metric] = append(byMetric[row.Metric], row.Score)
		}

		for _, name := range order {
			for _, metric := range metricNames {
				if values, ok := grouped[name][metric]; ok {
					p.Series = append(p.Series, Series{
						Name:       name,
						Metric:     metric,
						SampleSize: size,
						Values:     values,
					})
				}
			}
		}
	}
	return p, nil
}

// Scatter wraps positioned points into a scatter payload.
func Scatter(points []views.Point, title string, theme Theme) Payload {
	return Payload{
		Kind:   KindScatter,
		Title:  title,
		XLabel: "configuration",
		YLabel: "score",
		Theme:  theme,
		Series: []Series{{Name: "runs", Points: points}},
	}
}

// WriteJSON writes a payload artifact, creating parent directories.
func WriteJSON(path string, p Payload) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", p.Kind, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s payload: %w", p.Kind, err)
	}
	metrics.RecordChartArtifact(p.Kind)
	return nil
}
