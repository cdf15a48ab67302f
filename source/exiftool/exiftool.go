// Package exiftool reads GPS samples embedded in dashcam videos
// by way of the external exiftool binary.
package exiftool

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/rotblauer/dashmap/types/sample"
)

// DefaultBinary is looked up on PATH.
var DefaultBinary = "exiftool"

// sectionKey starts a new embedded sample in `exiftool -ee` output.
const sectionKey = "SampleDuration"

// Runner runs a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// Video is a source.Handle for one video file.
type Video struct {
	Path string

	// Binary is the exiftool executable; DefaultBinary when empty.
	Binary string

	// SpeedFactor converts the embedded speed (km/h) into the map's unit.
	SpeedFactor float64

	// Run executes exiftool; ExecRunner when nil.
	Run Runner

	dropped int
	logger  *slog.Logger
}

func NewVideo(path string, speedFactor float64) *Video {
	return &Video{
		Path:        path,
		SpeedFactor: speedFactor,
		logger:      slog.Default().With("source", path),
	}
}

func (v *Video) Name() string {
	return v.Path
}

func (v *Video) Dropped() int {
	return v.dropped
}

// Samples runs `exiftool -ee -n` over the video and parses the embedded GPS stream.
func (v *Video) Samples(ctx context.Context) ([]sample.Sample, error) {
	bin := v.Binary
	if bin == "" {
		bin = DefaultBinary
	}
	run := v.Run
	if run == nil {
		run = ExecRunner
	}
	logger := v.logger
	if logger == nil {
		logger = slog.Default().With("source", v.Path)
	}
	factor := v.SpeedFactor
	if factor == 0 {
		factor = 1
	}

	out, err := run(ctx, bin, "-ee", "-n", v.Path)
	if err != nil {
		return nil, fmt.Errorf("extract metadata from %s: %w", v.Path, err)
	}
	samples, dropped, err := ParseOutput(bytes.NewReader(out), sample.WithSpeedFactor(factor))
	v.dropped = dropped
	if err != nil {
		return nil, err
	}
	if dropped > 0 {
		logger.Warn("Dropped unparseable samples", "dropped", dropped, "kept", len(samples))
	}
	return samples, nil
}

// ParseOutput parses human-readable `exiftool -ee` output.
// Every "Sample Duration" line opens a section; within a section, lines
// mentioning GPS are read as "Key : value" pairs. Text before the first section
// is container metadata and is ignored.
// Sections that fail to parse are counted in dropped and skipped.
func ParseOutput(r io.Reader, opts ...sample.ParseOption) (samples []sample.Sample, dropped int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var section map[string]string
	flush := func() {
		if section == nil {
			return
		}
		s, err := sample.Parse(section, opts...)
		if err != nil {
			slog.Debug("Dropping sample", "error", err)
			dropped++
		} else {
			samples = append(samples, s)
		}
		section = nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = sample.NormalizeKey(key)
		if key == sectionKey {
			flush()
			section = map[string]string{}
			continue
		}
		if section == nil || !strings.Contains(key, "GPS") {
			continue
		}
		section[key] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, dropped, fmt.Errorf("read exiftool output: %w", err)
	}
	flush()
	return samples, dropped, nil
}

// ErrNotFound is returned by LookPath when exiftool is not installed.
var ErrNotFound = errors.New("exiftool not found")

// LookPath resolves the exiftool binary.
func LookPath(bin string) (string, error) {
	if bin == "" {
		bin = DefaultBinary
	}
	p, err := exec.LookPath(bin)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return p, nil
}
