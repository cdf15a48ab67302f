// Package geojson reads and writes GPS samples as GeoJSON point features,
// either newline-delimited or as one FeatureCollection, optionally gzipped.
package geojson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/paulmach/orb/geojson"
	"github.com/rotblauer/dashmap/catz"
	"github.com/rotblauer/dashmap/stream"
	"github.com/rotblauer/dashmap/types/sample"
	"github.com/tidwall/gjson"
)

// File is a source.Handle for a GeoJSON sample dump.
type File struct {
	Path string

	dropped int
}

func NewFile(path string) *File {
	return &File{Path: path}
}

func (f *File) Name() string {
	return f.Path
}

func (f *File) Dropped() int {
	return f.dropped
}

func (f *File) Samples(ctx context.Context) ([]sample.Sample, error) {
	r, err := catz.Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	samples, dropped, err := Decode(ctx, r)
	f.dropped = dropped
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Path, err)
	}
	if dropped > 0 {
		slog.Warn("Dropped features", "source", f.Path, "dropped", dropped, "kept", len(samples))
	}
	return samples, nil
}

// Decode reads samples from a FeatureCollection or from newline-delimited features.
// Features that are not valid samples are counted in dropped.
func Decode(ctx context.Context, r io.Reader) (samples []sample.Sample, dropped int, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, 0, nil
	}

	var features <-chan *geojson.Feature
	var errs <-chan error
	if gjson.GetBytes(data, "type").String() == "FeatureCollection" {
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, 0, err
		}
		features = stream.Slice(ctx, fc.Features)
	} else {
		features, errs = stream.NDJSON[*geojson.Feature](ctx, bytes.NewReader(data))
	}

	// JSON null lines decode to nil features and are skipped.
	features = stream.Filter(ctx, func(f *geojson.Feature) bool {
		return f != nil
	}, features)
	results := stream.Collect(ctx, stream.Transform(ctx, func(f *geojson.Feature) parsed {
		s, err := sample.FromFeature(f)
		return parsed{s, err}
	}, features))

	if errs != nil {
		if err := <-errs; err != nil {
			return nil, 0, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	for i, p := range results {
		if p.err != nil {
			slog.Debug("Dropping feature", "index", i, "error", p.err)
			dropped++
			continue
		}
		samples = append(samples, p.sample)
	}
	return samples, dropped, nil
}

type parsed struct {
	sample sample.Sample
	err    error
}

// Encode writes samples as newline-delimited GeoJSON features.
// source, when not empty, is set as each feature's Source property.
func Encode(w io.Writer, source string, samples []sample.Sample) error {
	enc := json.NewEncoder(w)
	for _, s := range samples {
		f := s.Feature()
		if source != "" {
			f.Properties[sample.PropSource] = source
		}
		if err := enc.Encode(f); err != nil {
			return err
		}
	}
	return nil
}
