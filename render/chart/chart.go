// Package chart renders the speed profile of drawn segments as a go-echarts line chart.
package chart

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/montanaflynn/stats"
	"github.com/paulmach/orb"
	"github.com/rotblauer/dashmap/common"
	"github.com/rotblauer/dashmap/params"
	"github.com/rotblauer/dashmap/render"
)

// Profile is a render.Surface that keeps only segment speeds.
// Markers, animated layers and bounds are ignored.
type Profile struct {
	Title string
	Unit  string

	// Path overrides the export destination.
	// When empty the chart is written next to the map, see params.ChartPathFor.
	Path string

	speeds []float64
	logger *slog.Logger
}

func NewProfile(title, unit string) *Profile {
	return &Profile{
		Title:  title,
		Unit:   unit,
		logger: slog.Default().With("surface", "chart"),
	}
}

func (p *Profile) DrawPolyline(pl render.Polyline) error {
	p.speeds = append(p.speeds, pl.Speed)
	return nil
}

func (p *Profile) DrawMarker(render.Marker) error { return nil }
func (p *Profile) AddAnimatedLayer(render.AnimatedLayer) error { return nil }
func (p *Profile) FitBounds(orb.MultiPoint) error { return nil }

// Speeds returns the segment speeds drawn so far, in order.
func (p *Profile) Speeds() []float64 {
	return p.speeds
}

// Chart builds the line chart. The visual map spans the slow and fast colors
// over the speeds seen, so the line reads like the map segments.
func (p *Profile) Chart() *charts.Line {
	data := stats.Float64Data(p.speeds)
	lo, _ := data.Min()
	hi, _ := data.Max()

	xs := make([]string, len(p.speeds))
	ys := make([]opts.LineData, len(p.speeds))
	for i, v := range p.speeds {
		xs[i] = strconv.Itoa(i)
		ys[i] = opts.LineData{Value: v}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: p.Title, Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: p.Title, Subtitle: fmt.Sprintf("segments=%d", len(p.speeds))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "segment", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "speed (" + p.Unit + ")", NameLocation: "middle", NameGap: 40}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:    opts.Bool(true),
			Min:     float32(lo),
			Max:     float32(hi),
			InRange: &opts.VisualMapInRange{Color: []string{common.ColorSlow.Hex(), common.ColorFast.Hex()}},
		}),
	)
	line.SetXAxis(xs).AddSeries("speed", ys)
	return line
}

// Export writes the chart page. The map destination is used to derive
// the chart's own path unless Path is set.
func (p *Profile) Export(dest string) error {
	out := p.Path
	if out == "" {
		out = params.ChartPathFor(dest)
	}
	var buf bytes.Buffer
	if err := p.Chart().Render(&buf); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
		return err
	}
	p.logger.Info("Chart saved", "path", out,
		"size", humanize.Bytes(uint64(buf.Len())),
		"segments", len(p.speeds))
	return nil
}
