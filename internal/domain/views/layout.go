package views

import (
	"fmt"
	"math/rand"

	"github.com/okian/sitebench/pkg/metrics"
)

// Default layout constants. The seed is fixed so layouts reproduce across
// runs unless the caller supplies its own source.
const (
	defaultJitterFactor = 0.08
	defaultRandomSeed   = 42
)

// defaultPalette assigns colors to sites in first-seen order.
var defaultPalette = []string{ //nolint:gochecknoglobals // fixed site palette
	"#4c72b0", "#dd8452", "#55a868", "#c44e52",
	"#8172b3", "#937860", "#da8bc3", "#8c8c8c",
}

// Style fixes the horizontal offset and marker shape for one metric.
type Style struct {
	Offset float64
	Marker string
}

// Point is one positioned scatter sample handed to the renderer.
type Point struct {
	X             float64
	Y             float64
	Marker        string
	Color         string
	Configuration string
	Metric        string
	SiteLeftOut   string
}

// Layout builds jittered scatter positions from long-form rows.
type Layout struct {
	jitterFactor float64
	rng          *rand.Rand
	palette      []string
}

// LayoutOption applies a configuration option to the Layout.
type LayoutOption func(*Layout)

// WithJitterFactor bounds the uniform horizontal perturbation.
func WithJitterFactor(f float64) LayoutOption {
	return func(l *Layout) {
		if f >= 0 {
			l.jitterFactor = f
		}
	}
}

// WithRandSource sets the randomness source so layouts are reproducible.
func WithRandSource(src rand.Source) LayoutOption {
	return func(l *Layout) {
		if src != nil {
			l.rng = rand.New(src) //nolint:gosec // layout jitter needs no cryptographic randomness
		}
	}
}

// WithPalette replaces the site color palette.
func WithPalette(palette []string) LayoutOption {
	return func(l *Layout) {
		if len(palette) > 0 {
			l.palette = palette
		}
	}
}

// NewLayout creates a layout builder with a fixed default seed.
func NewLayout(opts ...LayoutOption) *Layout {
	l := &Layout{
		jitterFactor: defaultJitterFactor,
		rng:          rand.New(rand.NewSource(defaultRandomSeed)), //nolint:gosec // deterministic seed for reproducible layouts
		palette:      defaultPalette,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// JitteredScatter positions each long-form row at the index of its
// configuration in configurationOrder, displaced by the metric's fixed
// offset plus a uniform jitter. Colors are assigned per site in first-seen
// order from the palette.
//
// Configurations present in rows but absent from configurationOrder fail
// with ErrUnknownConfiguration; metrics without a style entry fail with
// ErrUnknownMetric.
func (l *Layout) JitteredScatter(rows []MeltedRow, configurationOrder []string, styles map[string]Style) ([]Point, error) {
	position := make(map[string]int, len(configurationOrder))
	for i, name := range configurationOrder {
		position[name] = i
	}

	siteColor := make(map[string]string)
	points := make([]Point, 0, len(rows))
	for _, row := range rows {
		base, ok := position[row.Configuration]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownConfiguration, row.Configuration)
		}
		style, ok := styles[row.Metric]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, row.Metric)
		}

		color, ok := siteColor[row.SiteLeftOut]
		if !ok {
			color = l.palette[len(siteColor)%len(l.palette)]
			siteColor[row.SiteLeftOut] = color
		}

		jitter := (l.rng.Float64()*2 - 1) * l.jitterFactor
		points = append(points, Point{
			X:             float64(base) + style.Offset + jitter,
			Y:             row.Value,
			Marker:        style.Marker,
			Color:         color,
			Configuration: row.Configuration,
			Metric:        row.Metric,
			SiteLeftOut:   row.SiteLeftOut,
		})
	}

	metrics.AddViewRows("jittered_scatter", len(points))
	return points, nil
}
