package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rotblauer/dashmap/common"
	"github.com/rotblauer/dashmap/source"
	"github.com/rotblauer/dashmap/source/exiftool"
	"github.com/rotblauer/dashmap/source/geojson"
	"github.com/rotblauer/dashmap/source/gpx"
	"github.com/rotblauer/dashmap/testing/testdata"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceRegistry(t *testing.T) {
	reg := sourceRegistry(common.SpeedUnitMph, "/opt/exiftool")

	h, err := reg.Open("front.MP4")
	require.NoError(t, err)
	v, ok := h.(*exiftool.Video)
	require.True(t, ok, "expected a video, got %T", h)
	assert.Equal(t, "/opt/exiftool", v.Binary)
	assert.Equal(t, common.KmhToMph, v.SpeedFactor)

	h, err = reg.Open("ride.gpx")
	require.NoError(t, err)
	assert.IsType(t, &gpx.File{}, h)

	h, err = reg.Open("dump.geojson.gz")
	require.NoError(t, err)
	assert.IsType(t, &geojson.File{}, h)

	_, err = reg.Open("notes.txt")
	assert.Error(t, err)
}

func TestSpeedUnit(t *testing.T) {
	assert.Equal(t, common.SpeedUnitKmh, speedUnit("kmh"))
	assert.Equal(t, common.SpeedUnitKmh, speedUnit("KM/H"))
	assert.Equal(t, common.SpeedUnitMph, speedUnit(" mph "))
	assert.Equal(t, "knots", speedUnit("knots"))
}

func TestWriteSamples_RoundTrip(t *testing.T) {
	in := geojson.NewFile(testdata.Path(testdata.Source_SamplesNDJSON))
	samples, err := in.Samples(context.Background())
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "dump.ndjson.gz")
	require.NoError(t, writeSamples(out, in.Name(), samples))

	got, err := geojson.NewFile(out).Samples(context.Background())
	require.NoError(t, err)
	assert.Equal(t, samples, got)
}

func TestWriteGPX(t *testing.T) {
	in := geojson.NewFile(testdata.Path(testdata.Source_SamplesNDJSON))
	samples, err := in.Samples(context.Background())
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "dump.gpx")
	require.NoError(t, writeGPX(out, "front.MP4", samples))
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(b, []byte("<name>front</name>")))
}

func TestPreflight(t *testing.T) {
	reg := sourceRegistry(common.SpeedUnitMph, "")
	video, err := reg.Open("front.MP4")
	require.NoError(t, err)
	track, err := reg.Open("ride.gpx")
	require.NoError(t, err)

	// No videos, no lookup.
	require.NoError(t, preflight([]source.Handle{track}, "/nonexistent/exiftool"))

	err = preflight([]source.Handle{track, video}, filepath.Join(t.TempDir(), "exiftool"))
	assert.True(t, errors.Is(err, exiftool.ErrNotFound), "expected ErrNotFound, got %v", err)
}

func TestPreflight_ResolvesBinary(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "exiftool")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0755))

	reg := sourceRegistry(common.SpeedUnitMph, "")
	a, err := reg.Open("front.MP4")
	require.NoError(t, err)
	b, err := reg.Open("rear.mov")
	require.NoError(t, err)

	require.NoError(t, preflight([]source.Handle{a, b}, bin))
	assert.Equal(t, bin, a.(*exiftool.Video).Binary)
	assert.Equal(t, bin, b.(*exiftool.Video).Binary)
}

// The render examples in the help text must parse, leaving only source paths.
func TestHelpExamples_Render(t *testing.T) {
	reg := sourceRegistry(common.SpeedUnitMph, "")
	n := 0
	for _, line := range strings.Split(rootCmd.Long+"\n"+renderCmd.Long, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != "dashmap" || fields[1] != "render" {
			continue
		}
		n++
		fs := pflag.NewFlagSet("render", pflag.ContinueOnError)
		fs.AddFlagSet(renderCmd.Flags())
		require.NoError(t, fs.Parse(fields[2:]), line)
		require.NotEmpty(t, fs.Args(), line)
		for _, arg := range fs.Args() {
			_, err := reg.Open(arg)
			assert.NoError(t, err, "%s: %q is not a source", line, arg)
		}
	}
	assert.GreaterOrEqual(t, n, 4)
}
