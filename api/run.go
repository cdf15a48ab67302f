// Package api drives a rendering session: sources in, one exported view out.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/rotblauer/dashmap/animation"
	"github.com/rotblauer/dashmap/params"
	"github.com/rotblauer/dashmap/render"
	"github.com/rotblauer/dashmap/source"
	"github.com/rotblauer/dashmap/trajectory"
)

// Counter names in Report.Registry.
const (
	MetricSamplesParsed  = "samples.parsed"
	MetricSamplesDropped = "samples.dropped"
	MetricSegmentsDrawn  = "segments.drawn"
	MetricWaypointsDrawn = "waypoints.drawn"
	MetricSourcesOK      = "sources.ok"
	MetricSourcesSkipped = "sources.skipped"
)

// Config configures a Run. Nil fields take their params defaults.
type Config struct {
	Render   *params.RenderConfig
	Playback *params.PlaybackConfig
}

// SourceReport is the outcome of one source.
type SourceReport struct {
	Name    string
	Samples int
	Dropped int

	// Err is the reason the source was skipped, nil when it was drawn.
	Err error

	Result *trajectory.Result
}

func (s SourceReport) Skipped() bool {
	return s.Err != nil
}

// Report describes a Run, including a partial one that failed.
type Report struct {
	Sources   []SourceReport
	Keyframes int

	// Distance is the total drawn path length in meters.
	Distance float64

	Registry metrics.Registry
}

func newReport() *Report {
	// Counters are no-ops unless the metrics package is enabled.
	metrics.Enabled = true
	return &Report{Registry: metrics.NewRegistry()}
}

func (r *Report) counter(name string) metrics.Counter {
	return metrics.GetOrRegisterCounter(name, r.Registry)
}

// Count returns the current value of the named counter.
func (r *Report) Count(name string) int64 {
	return r.counter(name).Snapshot().Count()
}

// Skipped returns the reports of the sources that were not drawn.
func (r *Report) Skipped() []SourceReport {
	var out []SourceReport
	for _, s := range r.Sources {
		if s.Skipped() {
			out = append(out, s)
		}
	}
	return out
}

func (r *Report) log(logger *slog.Logger, took time.Duration) {
	logger.Info("Run complete",
		"sources", len(r.Sources),
		"ok", r.Count(MetricSourcesOK),
		"skipped", r.Count(MetricSourcesSkipped),
		"samples", humanize.Comma(r.Count(MetricSamplesParsed)),
		"dropped", humanize.Comma(r.Count(MetricSamplesDropped)),
		"segments", humanize.Comma(r.Count(MetricSegmentsDrawn)),
		"waypoints", humanize.Comma(r.Count(MetricWaypointsDrawn)),
		"keyframes", r.Keyframes,
		"distance", humanize.SIWithDigits(r.Distance, 2, "m"),
		"took", took.Round(time.Millisecond))
}

// Run draws every source onto surface, in order, then adds the animated
// layer for the whole session and exports to dest.
//
// A source without usable data (trajectory.ErrMissingData, from fetching or
// processing) is logged, recorded and skipped. Any other error aborts the run,
// including sample.ErrFormat. If no source contributed any samples the run fails
// with ErrMissingData before exporting. The report is returned in every case.
func Run(ctx context.Context, sources []source.Handle, surface render.Surface, dest string, cfg *Config) (*Report, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	renderConfig := cfg.Render
	if renderConfig == nil {
		renderConfig = params.DefaultRenderConfig
	}
	if err := renderConfig.Validate(); err != nil {
		return nil, err
	}

	started := time.Now()
	logger := slog.Default().With("component", "run")
	report := newReport()
	agg := trajectory.NewAggregate()
	proc := trajectory.NewProcessor(surface, agg, renderConfig)

	logger.Info("Plotting sources", "count", len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		sr, err := runSource(ctx, proc, src, report)
		report.Sources = append(report.Sources, sr)
		if err != nil {
			return report, err
		}
		if sr.Skipped() {
			logger.Warn("Skipping source", "source", sr.Name, "error", sr.Err)
			continue
		}
		logger.Info("Plotted source", "source", sr.Name,
			"samples", sr.Samples, "dropped", sr.Dropped,
			"segments", sr.Result.Segments,
			"distance", humanize.SIWithDigits(sr.Result.Distance, 2, "m"))
	}

	keyframes, err := animation.Animate(agg, surface, renderConfig.SpeedUnit, cfg.Playback)
	if err != nil {
		return report, err
	}
	report.Keyframes = len(keyframes)

	if err := surface.Export(dest); err != nil {
		return report, fmt.Errorf("export %s: %w", dest, err)
	}
	report.log(logger, time.Since(started))
	return report, nil
}

// runSource fetches and processes one source. Missing data is reported on the
// SourceReport; any other failure is returned.
func runSource(ctx context.Context, proc *trajectory.Processor, src source.Handle, report *Report) (SourceReport, error) {
	sr := SourceReport{Name: src.Name()}

	samples, err := src.Samples(ctx)
	if d, ok := src.(source.Dropper); ok {
		sr.Dropped = d.Dropped()
		report.counter(MetricSamplesDropped).Inc(int64(sr.Dropped))
	}
	if err == nil {
		sr.Samples = len(samples)
		report.counter(MetricSamplesParsed).Inc(int64(sr.Samples))
		sr.Result, err = proc.Process(samples)
	}
	if errors.Is(err, trajectory.ErrMissingData) {
		sr.Err = err
		sr.Result = nil
		report.counter(MetricSourcesSkipped).Inc(1)
		return sr, nil
	}
	if err != nil {
		sr.Err = err
		return sr, fmt.Errorf("source %s: %w", sr.Name, err)
	}

	report.counter(MetricSourcesOK).Inc(1)
	report.counter(MetricSegmentsDrawn).Inc(int64(sr.Result.Segments))
	report.counter(MetricWaypointsDrawn).Inc(int64(sr.Result.Waypoints))
	report.Distance += sr.Result.Distance
	return sr, nil
}
