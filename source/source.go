// Package source defines where GPS samples come from.
// Extraction from a container (video, GPX, GeoJSON dump) happens in the subpackages;
// the trajectory pipeline only ever sees ordered samples.
package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rotblauer/dashmap/types/sample"
)

// Handle is one originating stream of samples, eg. one recorded video.
type Handle interface {
	Name() string

	// Samples returns the source's samples in recorded order.
	// Samples that fail to parse are dropped, not returned as errors.
	Samples(ctx context.Context) ([]sample.Sample, error)
}

// Dropper is implemented by handles that count samples dropped during their last read.
type Dropper interface {
	Dropped() int
}

// Static is an in-memory Handle.
type Static struct {
	Label string
	Items []sample.Sample

	// Err, when set, is returned by Samples instead of Items.
	Err error
}

func (s *Static) Name() string {
	return s.Label
}

func (s *Static) Samples(ctx context.Context) ([]sample.Sample, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Items, nil
}

// Opener opens a Handle for a path.
type Opener func(path string) Handle

// Registry maps lower-cased file extensions, including the dot, to Openers.
type Registry map[string]Opener

// Open returns a Handle for path chosen by its extension.
// A trailing .gz is skipped when looking up the extension.
func (r Registry) Open(path string) (Handle, error) {
	ext := Ext(path)
	opener, ok := r[ext]
	if !ok {
		return nil, fmt.Errorf("no source for %q (extension %q)", path, ext)
	}
	return opener(path), nil
}

// Ext returns the lower-cased extension of path, looking past a trailing .gz.
func Ext(path string) string {
	p := strings.ToLower(path)
	if strings.HasSuffix(p, ".gz") {
		p = strings.TrimSuffix(p, ".gz")
	}
	return filepath.Ext(p)
}
