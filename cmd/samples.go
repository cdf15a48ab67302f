/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/rotblauer/dashmap/catz"
	"github.com/rotblauer/dashmap/source"
	"github.com/rotblauer/dashmap/source/geojson"
	"github.com/rotblauer/dashmap/source/gpx"
	"github.com/rotblauer/dashmap/types/sample"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// samplesCmd represents the samples command
var samplesCmd = &cobra.Command{
	Use:   "samples [file]",
	Short: "Dump the GPS samples of one source",
	Long: `Samples extracts the GPS samples of one source and writes them as
GeoJSON lines, one Point feature per sample, to stdout or --output.
An --output ending in .gz is gzipped. The dump can be rendered later
without re-running exiftool.

Examples:

  dashmap samples front.MP4 > front.ndjson
  dashmap samples front.MP4 -o front.geojson.gz --gpx front.gpx
`,
	Args:   cobra.ExactArgs(1),
	PreRun: bindFlags,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		unit := speedUnit(viper.GetString("unit"))
		h, err := sourceRegistry(unit, viper.GetString("exiftool")).Open(args[0])
		if err != nil {
			fatal("Unsupported input", err)
		}
		if err := preflight([]source.Handle{h}, viper.GetString("exiftool")); err != nil {
			fatal("Cannot read videos", err)
		}
		samples, err := h.Samples(ctx)
		if err != nil {
			fatal("Read samples", err)
		}
		dropped := 0
		if d, ok := h.(source.Dropper); ok {
			dropped = d.Dropped()
		}

		if err := writeSamples(viper.GetString("output"), h.Name(), samples); err != nil {
			fatal("Write samples", err)
		}
		if out := viper.GetString("gpx"); out != "" {
			if err := writeGPX(out, h.Name(), samples); err != nil {
				fatal("Write GPX", err)
			}
		}
		slog.Info("Samples dumped", "source", h.Name(),
			"samples", humanize.Comma(int64(len(samples))),
			"dropped", dropped)
	},
}

// writeSamples writes NDJSON sample features to out, or stdout when out is empty.
func writeSamples(out, name string, samples []sample.Sample) error {
	var w io.WriteCloser = nopCloser{os.Stdout}
	if out != "" {
		f, err := catz.Create(out)
		if err != nil {
			return err
		}
		w = f
	}
	if err := geojson.Encode(w, name, samples); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func writeGPX(out, name string, samples []sample.Sample) error {
	b, err := gpx.Encode(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)), samples)
	if err != nil {
		return err
	}
	return os.WriteFile(out, b, 0644)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func init() {
	rootCmd.AddCommand(samplesCmd)

	flags := samplesCmd.Flags()
	flags.StringP("output", "o", "", "Output path, .gz to compress (default stdout)")
	flags.String("gpx", "", "Also write the samples as a GPX track")
	addSourceFlags(flags)
}
