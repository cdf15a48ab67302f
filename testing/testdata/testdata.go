package testdata

import (
	"os"
	"path/filepath"
	"runtime"
)

// basepath is the root directory of this package.
var basepath string

func init() {
	_, currentFile, _, _ := runtime.Caller(0)
	basepath = filepath.Dir(currentFile)
}

// Path returns the absolute path the given relative file or directory path,
// relative to this testdata/ directory in the user's GOPATH.
// If rel is already absolute, it is returned unmodified.
// Taken from https://github.com/grpc/grpc-go/blob/master/testdata/testdata.go.
func Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}

	return filepath.Join(basepath, rel)
}

// Source_ExiftoolNextbase is `exiftool -ee -n` output for a short Nextbase clip:
// 6 GPS samples over 2 seconds, the 5th missing its GPS Track.
var Source_ExiftoolNextbase = "./exiftool_nextbase.txt"

// Source_GPXRide is a 4-point GPX track, one point per 10 seconds heading north.
var Source_GPXRide = "./ride.gpx"

// Source_SamplesNDJSON is a 3-sample NDJSON dump as written by `dashmap samples`.
var Source_SamplesNDJSON = "./samples.ndjson"

// MustReadFile reads a testdata file or panics.
func MustReadFile(rel string) []byte {
	b, err := os.ReadFile(Path(rel))
	if err != nil {
		panic(err)
	}
	return b
}
