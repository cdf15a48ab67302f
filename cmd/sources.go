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
	"strings"

	"github.com/rotblauer/dashmap/common"
	"github.com/rotblauer/dashmap/params"
	"github.com/rotblauer/dashmap/source"
	"github.com/rotblauer/dashmap/source/exiftool"
	"github.com/rotblauer/dashmap/source/geojson"
	"github.com/rotblauer/dashmap/source/gpx"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// sourceRegistry maps input file extensions to sources.
// Video and GPX speeds are converted from km/h into unit; GeoJSON dumps are
// read as written.
func sourceRegistry(unit, exiftoolBin string) source.Registry {
	factor := common.SpeedFactor(unit)
	video := func(path string) source.Handle {
		v := exiftool.NewVideo(path, factor)
		v.Binary = exiftoolBin
		return v
	}
	track := func(path string) source.Handle {
		return gpx.NewFile(path, factor)
	}
	dump := func(path string) source.Handle {
		return geojson.NewFile(path)
	}
	return source.Registry{
		".mp4":     video,
		".mov":     video,
		".gpx":     track,
		".geojson": dump,
		".ndjson":  dump,
		".json":    dump,
	}
}

// preflight resolves the exiftool binary once for every video source,
// so a missing install fails before any source is read.
// It fails with exiftool.ErrNotFound.
func preflight(handles []source.Handle, exiftoolBin string) error {
	var resolved string
	for _, h := range handles {
		v, ok := h.(*exiftool.Video)
		if !ok {
			continue
		}
		if resolved == "" {
			p, err := exiftool.LookPath(exiftoolBin)
			if err != nil {
				return err
			}
			resolved = p
		}
		v.Binary = resolved
	}
	return nil
}

// speedUnit normalizes a unit flag value.
func speedUnit(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "kmh", "kph", "km/h":
		return common.SpeedUnitKmh
	case "mph":
		return common.SpeedUnitMph
	}
	return v
}

func addSourceFlags(flags *pflag.FlagSet) {
	flags.String("unit", params.DefaultRenderConfig.SpeedUnit, "Speed unit: mph or km/h")
	flags.String("exiftool", exiftool.DefaultBinary, "exiftool executable")
}

func renderConfigFromViper() *params.RenderConfig {
	c := *params.DefaultRenderConfig
	c.SpeedUnit = speedUnit(viper.GetString("unit"))
	c.WindowSize = viper.GetInt("window")
	c.WaypointInterval = viper.GetInt("waypoint-interval")
	return &c
}
