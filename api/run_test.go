package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/rotblauer/dashmap/common"
	"github.com/rotblauer/dashmap/render"
	"github.com/rotblauer/dashmap/source"
	"github.com/rotblauer/dashmap/trajectory"
	"github.com/rotblauer/dashmap/types/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2024, 11, 8, 12, 38, 33, 0, time.UTC)

// testSource returns a source of n samples, one per second from offset seconds
// after testStart, heading north.
func testSource(t *testing.T, name string, offset, n int) *source.Static {
	t.Helper()
	items := make([]sample.Sample, n)
	for i := range items {
		k := offset + i
		s, err := sample.New(
			53.6+float64(k)*0.0001,
			-1.79,
			110,
			30+float64(k%5),
			0,
			sample.SourceTimestamp(testStart.Add(time.Duration(k)*time.Second)),
		)
		require.NoError(t, err)
		items[i] = s
	}
	return &source.Static{Label: name, Items: items}
}

// droppingSource reports dropped samples like the file-backed sources do.
type droppingSource struct {
	*source.Static
	dropped int
}

func (d *droppingSource) Dropped() int {
	return d.dropped
}

func TestRun_SkipsMissingDataSource(t *testing.T) {
	rec := render.NewRecorder()
	sources := []source.Handle{
		testSource(t, "a.mp4", 0, 10),
		&source.Static{Label: "b.mp4", Err: fmt.Errorf("%w: no gps in video", trajectory.ErrMissingData)},
		&droppingSource{Static: testSource(t, "c.mp4", 10, 10), dropped: 2},
	}

	report, err := Run(context.Background(), sources, rec, "gps_map.html", nil)
	require.NoError(t, err)

	require.Len(t, report.Sources, 3)
	require.Len(t, report.Skipped(), 1)
	assert.Equal(t, "b.mp4", report.Skipped()[0].Name)
	assert.ErrorIs(t, report.Skipped()[0].Err, trajectory.ErrMissingData)

	assert.EqualValues(t, 20, report.Count(MetricSamplesParsed))
	assert.EqualValues(t, 2, report.Count(MetricSamplesDropped))
	assert.EqualValues(t, 2, report.Count(MetricSourcesOK))
	assert.EqualValues(t, 1, report.Count(MetricSourcesSkipped))
	assert.EqualValues(t, 12, report.Count(MetricSegmentsDrawn))
	assert.Len(t, rec.Polylines, 12)
	assert.Greater(t, report.Distance, 0.0)

	// The view is fit to the whole session and animated once over it.
	assert.Len(t, rec.LastFit(), 20)
	require.Len(t, rec.Layers, 1)
	assert.Len(t, rec.Layers[0].Features.Features, 20)
	assert.Equal(t, 20, report.Keyframes)
	assert.Equal(t, []string{"gps_map.html"}, rec.Exports)
}

func TestRun_EmptySourceIsSkipped(t *testing.T) {
	rec := render.NewRecorder()
	sources := []source.Handle{
		&source.Static{Label: "empty.mp4"},
		testSource(t, "ok.mp4", 0, 6),
	}
	report, err := Run(context.Background(), sources, rec, "out.html", nil)
	require.NoError(t, err)
	require.Len(t, report.Skipped(), 1)
	assert.Equal(t, "empty.mp4", report.Skipped()[0].Name)
	assert.Len(t, rec.Polylines, 2)
}

func TestRun_AllSourcesMissing(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelError + 1)()

	rec := render.NewRecorder()
	sources := []source.Handle{
		&source.Static{Label: "a.mp4"},
		&source.Static{Label: "b.mp4", Err: trajectory.ErrMissingData},
	}
	report, err := Run(context.Background(), sources, rec, "out.html", nil)
	require.ErrorIs(t, err, trajectory.ErrMissingData)
	require.NotNil(t, report)
	assert.Len(t, report.Skipped(), 2)
	assert.Empty(t, rec.Layers)
	assert.Empty(t, rec.Exports)
}

func TestRun_NoSources(t *testing.T) {
	rec := render.NewRecorder()
	_, err := Run(context.Background(), nil, rec, "out.html", nil)
	require.ErrorIs(t, err, trajectory.ErrMissingData)
	assert.Empty(t, rec.Exports)
}

func TestRun_FormatErrorAborts(t *testing.T) {
	rec := render.NewRecorder()
	bad := testSource(t, "bad.mp4", 10, 6)
	bad.Items[3].Timestamp = "2024-11-08 12:38:36"

	sources := []source.Handle{
		testSource(t, "a.mp4", 0, 6),
		bad,
		testSource(t, "c.mp4", 20, 6),
	}
	report, err := Run(context.Background(), sources, rec, "out.html", nil)
	require.ErrorIs(t, err, sample.ErrFormat)
	assert.NotErrorIs(t, err, trajectory.ErrMissingData)

	// The first source was drawn, the third never reached.
	require.Len(t, report.Sources, 2)
	assert.False(t, report.Sources[0].Skipped())
	assert.ErrorIs(t, report.Sources[1].Err, sample.ErrFormat)
	assert.Len(t, rec.Polylines, 2)
	assert.Empty(t, rec.Exports)
}

func TestRun_FetchErrorAborts(t *testing.T) {
	rec := render.NewRecorder()
	boom := errors.New("exiftool exited 1")
	sources := []source.Handle{
		&source.Static{Label: "a.mp4", Err: boom},
		testSource(t, "b.mp4", 0, 6),
	}
	_, err := Run(context.Background(), sources, rec, "out.html", nil)
	require.ErrorIs(t, err, boom)
	assert.Empty(t, rec.Polylines)
}

func TestRun_ExportFailure(t *testing.T) {
	rec := render.NewRecorder()
	rec.FailExport = errors.New("disk full")
	report, err := Run(context.Background(), []source.Handle{testSource(t, "a.mp4", 0, 6)}, rec, "out.html", nil)
	require.ErrorIs(t, err, rec.FailExport)
	assert.Len(t, rec.Layers, 1)
	assert.Equal(t, 6, report.Keyframes)
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := render.NewRecorder()
	_, err := Run(ctx, []source.Handle{testSource(t, "a.mp4", 0, 6)}, rec, "out.html", nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.Polylines)
}

func TestRun_MultiSurface(t *testing.T) {
	a, b := render.NewRecorder(), render.NewRecorder()
	_, err := Run(context.Background(), []source.Handle{testSource(t, "a.mp4", 0, 6)}, render.Multi{a, b}, "out.html", nil)
	require.NoError(t, err)
	assert.Equal(t, a.Polylines, b.Polylines)
	assert.Equal(t, []string{"out.html"}, b.Exports)
}
