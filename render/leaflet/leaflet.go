// Package leaflet renders a trajectory as a standalone Leaflet HTML map,
// with Leaflet.TimeDimension driving the animated layer.
package leaflet

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rotblauer/dashmap/render"
)

//go:embed map.html.tmpl
var mapTemplate string

var tmpl = template.Must(template.New("map").Parse(mapTemplate))

const (
	DefaultTileURL     = "https://tile.openstreetmap.org/{z}/{x}/{y}.png"
	DefaultAttribution = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`
)

// latLng is Leaflet's axis order.
type latLng [2]float64

func toLatLng(p orb.Point) latLng {
	return latLng{p.Lat(), p.Lon()}
}

type tilesJS struct {
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
}

type polylineJS struct {
	LatLngs []latLng `json:"latlngs"`
	Color   string   `json:"color"`
	Weight  float64  `json:"weight"`
	Opacity float64  `json:"opacity"`
	Tooltip string   `json:"tooltip"`
}

type markerJS struct {
	LatLng      latLng  `json:"latlng"`
	Radius      float64 `json:"radius"`
	Color       string  `json:"color"`
	Fill        bool    `json:"fill"`
	FillOpacity float64 `json:"fillOpacity"`
	Tooltip     string  `json:"tooltip"`
}

type playbackJS struct {
	Period               string  `json:"period"`
	Duration             string  `json:"duration"`
	AddLastPoint         bool    `json:"addLastPoint"`
	MinSpeed             float64 `json:"minSpeed"`
	MaxSpeed             float64 `json:"maxSpeed"`
	TransitionTime       int     `json:"transitionTime"`
	TimeSliderDragUpdate bool    `json:"timeSliderDragUpdate"`
	Loop                 bool    `json:"loop"`
	AutoPlay             bool    `json:"autoPlay"`
}

type layerJS struct {
	Features *geojson.FeatureCollection `json:"features"`
	Playback playbackJS                 `json:"playback"`
}

type dataJS struct {
	Tiles     tilesJS      `json:"tiles"`
	Polylines []polylineJS `json:"polylines"`
	Markers   []markerJS   `json:"markers"`
	Layers    []layerJS    `json:"layers"`
	Bounds    *[2]latLng   `json:"bounds"`
}

// Map is a render.Surface that collects draw calls and writes them
// as one HTML page on Export.
type Map struct {
	Title string
	Zoom  int

	data   dataJS
	logger *slog.Logger
}

func NewMap(title string) *Map {
	return &Map{
		Title: title,
		Zoom:  12,
		data: dataJS{
			Tiles:     tilesJS{URL: DefaultTileURL, Attribution: DefaultAttribution},
			Polylines: []polylineJS{},
			Markers:   []markerJS{},
			Layers:    []layerJS{},
		},
		logger: slog.Default().With("surface", "leaflet"),
	}
}

// WithTiles sets the tile layer URL template and attribution.
func (m *Map) WithTiles(url, attribution string) *Map {
	m.data.Tiles = tilesJS{URL: url, Attribution: attribution}
	return m
}

func (m *Map) DrawPolyline(p render.Polyline) error {
	lls := make([]latLng, len(p.Points))
	for i, pt := range p.Points {
		lls[i] = toLatLng(pt)
	}
	m.data.Polylines = append(m.data.Polylines, polylineJS{
		LatLngs: lls,
		Color:   p.Color,
		Weight:  p.Weight,
		Opacity: p.Opacity,
		Tooltip: p.Tooltip,
	})
	return nil
}

func (m *Map) DrawMarker(mk render.Marker) error {
	m.data.Markers = append(m.data.Markers, markerJS{
		LatLng:      toLatLng(mk.Point),
		Radius:      mk.Style.Radius,
		Color:       mk.Style.Color,
		Fill:        mk.Style.Fill,
		FillOpacity: mk.Style.FillOpacity,
		Tooltip:     mk.Tooltip,
	})
	return nil
}

func (m *Map) AddAnimatedLayer(layer render.AnimatedLayer) error {
	if layer.Features == nil {
		return fmt.Errorf("animated layer without features")
	}
	pb := layer.Playback
	m.data.Layers = append(m.data.Layers, layerJS{
		Features: layer.Features,
		Playback: playbackJS{
			Period:               pb.Period,
			Duration:             pb.Duration,
			AddLastPoint:         pb.AddLastPoint,
			MinSpeed:             pb.MinSpeed,
			MaxSpeed:             pb.MaxSpeed,
			TransitionTime:       pb.TransitionTimeMillis,
			TimeSliderDragUpdate: pb.TimeSliderDragUpdate,
			Loop:                 pb.Loop,
			AutoPlay:             pb.AutoPlay,
		},
	})
	return nil
}

// FitBounds replaces the view bounds with the bounding box of points.
func (m *Map) FitBounds(points orb.MultiPoint) error {
	if len(points) == 0 {
		return nil
	}
	b := points.Bound()
	m.data.Bounds = &[2]latLng{toLatLng(b.Min), toLatLng(b.Max)}
	return nil
}

// Render writes the HTML page to w.
func (m *Map) Render(w io.Writer) error {
	data, err := json.Marshal(m.data)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, struct {
		Title string
		Zoom  int
		Data  template.JS
	}{
		Title: m.Title,
		Zoom:  m.Zoom,
		Data:  template.JS(data),
	})
}

// Export writes the page to dest, creating parent directories.
func (m *Map) Export(dest string) error {
	var buf bytes.Buffer
	if err := m.Render(&buf); err != nil {
		return fmt.Errorf("render map: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(dest, buf.Bytes(), 0644); err != nil {
		return err
	}
	m.logger.Info("Map saved", "path", dest,
		"size", humanize.Bytes(uint64(buf.Len())),
		"segments", len(m.data.Polylines),
		"waypoints", len(m.data.Markers))
	return nil
}
