package catz

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

const DefaultGZipCompressionLevel = gzip.BestCompression

type GZFileWriter struct {
	f      *os.File
	gzw    *gzip.Writer
	locked bool
	closed bool

	GZFileWriterConfig
}

type GZFileWriterConfig struct {
	CompressionLevel int
	Flag             int
	FilePerm         os.FileMode
	DirPerm          os.FileMode
}

// DefaultGZFileWriterConfig truncates existing files; dumps are written whole, once.
func DefaultGZFileWriterConfig() *GZFileWriterConfig {
	return &GZFileWriterConfig{
		CompressionLevel: DefaultGZipCompressionLevel,
		Flag:             os.O_WRONLY | os.O_TRUNC | os.O_CREATE,
		FilePerm:         0660,
		DirPerm:          0770,
	}
}

func NewGZFileWriter(path string, config *GZFileWriterConfig) (*GZFileWriter, error) {
	if config == nil {
		config = DefaultGZFileWriterConfig()
	}
	if err := os.MkdirAll(filepath.Dir(path), config.DirPerm); err != nil {
		return nil, err
	}
	fi, err := os.OpenFile(path, config.Flag, config.FilePerm)
	if err != nil {
		return nil, err
	}
	gzw, err := gzip.NewWriterLevel(fi, config.CompressionLevel)
	if err != nil {
		_ = fi.Close()
		return nil, err
	}
	return &GZFileWriter{
		f:                  fi,
		gzw:                gzw,
		GZFileWriterConfig: *config,
	}, nil
}

func (g *GZFileWriter) Write(p []byte) (int, error) {
	g.lock()
	return g.gzw.Write(p)
}

// lock locks the file for exclusive access.
// The lock will be invalidated if and when the file is closed.
func (g *GZFileWriter) lock() {
	if g.locked || g.closed || g.f == nil {
		return
	}
	fd := g.f.Fd()
	_ = syscall.Flock(int(fd), syscall.LOCK_EX)
	g.locked = true
}

func (g *GZFileWriter) Close() error {
	if g.closed {
		return nil
	}
	defer func() {
		g.closed = true
	}()
	if err := g.gzw.Close(); err != nil {
		_ = g.f.Close()
		return err
	}
	return g.f.Close()
}

func (g *GZFileWriter) Path() string {
	return g.f.Name()
}

type GZFileReader struct {
	f      *os.File
	gzr    *gzip.Reader
	closed bool
}

func NewGZFileReader(path string) (*GZFileReader, error) {
	fi, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	gzr, err := gzip.NewReader(fi)
	if err != nil {
		_ = fi.Close()
		return nil, err
	}
	return &GZFileReader{f: fi, gzr: gzr}, nil
}

func (g *GZFileReader) Path() string {
	return g.f.Name()
}

// Read satisfies the io.Reader interface.
func (g *GZFileReader) Read(p []byte) (int, error) {
	return g.gzr.Read(p)
}

// Close satisfies the io.Closer interface.
// It closes the gzip reader and the file.
func (g *GZFileReader) Close() error {
	if g.closed {
		return nil
	}
	defer func() {
		g.closed = true
	}()
	if err := g.gzr.Close(); err != nil {
		_ = g.f.Close()
		return err
	}
	return g.f.Close()
}

// IsGZ reports whether path names a gzip file, by extension.
func IsGZ(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".gz")
}

// Open opens path for reading, transparently gunzipping .gz files.
func Open(path string) (io.ReadCloser, error) {
	if IsGZ(path) {
		return NewGZFileReader(path)
	}
	return os.Open(path)
}

// Create opens path for writing, truncating it, gzipping when path ends in .gz.
// The returned writer is buffered; Close flushes it.
func Create(path string) (io.WriteCloser, error) {
	if IsGZ(path) {
		return NewGZFileWriter(path, nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0770); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &bufferedFile{Writer: bufio.NewWriter(f), f: f}, nil
}

type bufferedFile struct {
	*bufio.Writer
	f *os.File
}

func (b *bufferedFile) Close() error {
	if err := b.Flush(); err != nil {
		_ = b.f.Close()
		return err
	}
	return b.f.Close()
}
