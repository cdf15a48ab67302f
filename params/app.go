package params

import (
	"path/filepath"
	"strings"
)

const (
	AppName = "dashmap"

	// EnvPrefix prefixes environment overrides of config keys, eg. DASHMAP_WINDOW.
	EnvPrefix = "DASHMAP"

	// ConfigName is the config file base name looked up in the home directory.
	ConfigName = ".dashmap"
)

// ExportConfig names the rendered outputs.
type ExportConfig struct {
	// MapPath is where the HTML map is written.
	MapPath string

	// ChartPath is where the speed profile is written.
	// Empty derives it from MapPath.
	ChartPath string

	Title string
}

var DefaultExportConfig = &ExportConfig{
	MapPath: "gps_map.html",
	Title:   "GPS Map",
}

// ChartPathFor derives the speed profile path from a map path,
// eg. gps_map.html -> gps_map_speed.html.
func ChartPathFor(mapPath string) string {
	ext := filepath.Ext(mapPath)
	if ext == "" {
		ext = ".html"
	}
	return strings.TrimSuffix(mapPath, filepath.Ext(mapPath)) + "_speed" + ext
}
