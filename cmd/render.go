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
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotblauer/dashmap/api"
	"github.com/rotblauer/dashmap/params"
	"github.com/rotblauer/dashmap/render"
	"github.com/rotblauer/dashmap/render/chart"
	"github.com/rotblauer/dashmap/render/leaflet"
	"github.com/rotblauer/dashmap/source"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render [files...]",
	Short: "Render GPS sources into one HTML map",
	Long: `Render plots each source in the order given onto a single map.

Each source is drawn as overlapping segments colored green (slow) to red (fast)
relative to that source's own speed range, with a time waypoint every
--waypoint-interval points. An animated vehicle marker replays every source
together. Sources without GPS data are reported and skipped; a malformed
timestamp aborts the run.

Inputs are chosen by extension: .mp4/.mov videos (read with exiftool),
.gpx tracks, and .geojson/.ndjson/.json sample dumps (optionally .gz).

Examples:

  dashmap render front.MP4 rear.MP4 -o trip.html
  dashmap render *.MP4 --unit km/h --chart
  dashmap render trip.geojson.gz --window 10 --waypoint-interval 100
`,
	Args:   cobra.MinimumNArgs(1),
	PreRun: bindFlags,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		config := renderConfigFromViper()
		if err := config.Validate(); err != nil {
			fatal("Invalid render config", err)
		}

		registry := sourceRegistry(config.SpeedUnit, viper.GetString("exiftool"))
		handles := make([]source.Handle, 0, len(args))
		for _, arg := range args {
			h, err := registry.Open(arg)
			if err != nil {
				fatal("Unsupported input", err)
			}
			handles = append(handles, h)
		}
		if err := preflight(handles, viper.GetString("exiftool")); err != nil {
			fatal("Cannot read videos", err)
		}

		export := &params.ExportConfig{
			MapPath:   viper.GetString("output"),
			ChartPath: viper.GetString("chart-path"),
			Title:     viper.GetString("title"),
		}
		m := leaflet.NewMap(export.Title)
		if tiles := viper.GetString("tiles"); tiles != "" {
			m.WithTiles(tiles, viper.GetString("tiles-attribution"))
		}
		surface := render.Multi{m}
		if viper.GetBool("chart") || export.ChartPath != "" {
			profile := chart.NewProfile(export.Title+" speed", config.SpeedUnit)
			profile.Path = export.ChartPath
			surface = append(surface, profile)
		}

		report, err := api.Run(ctx, handles, surface, export.MapPath, &api.Config{Render: config})
		if report != nil {
			for _, s := range report.Skipped() {
				slog.Warn("Skipped", "source", s.Name, "reason", s.Err)
			}
		}
		if err != nil {
			fatal("Render failed", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	defaults := params.DefaultRenderConfig
	flags := renderCmd.Flags()
	flags.StringP("output", "o", params.DefaultExportConfig.MapPath, "HTML map output path")
	flags.String("title", params.DefaultExportConfig.Title, "Map page title")
	flags.Bool("chart", false, "Also write a speed profile chart next to the map")
	flags.String("chart-path", "", "Speed profile chart output path (implies --chart)")
	flags.Int("window", defaults.WindowSize, "Points per colored segment")
	flags.Int("waypoint-interval", defaults.WaypointInterval, "Points between time waypoints")
	flags.String("tiles", "", "Tile layer URL template (default OpenStreetMap)")
	flags.String("tiles-attribution", "", "Tile layer attribution")
	addSourceFlags(flags)
}
