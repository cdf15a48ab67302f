package catz

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestCreateOpen(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"samples.geojson", "samples.geojson.gz"} {
		target := filepath.Join(dir, "nested", name)
		w, err := Create(target)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte("hello\nworld\n")); err != nil {
			t.Fatal(err)
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}

		r, err := Open(target)
		if err != nil {
			t.Fatal(err)
		}
		b, err := io.ReadAll(r)
		if err != nil {
			t.Fatal(err)
		}
		if err := r.Close(); err != nil {
			t.Fatal(err)
		}
		if string(b) != "hello\nworld\n" {
			t.Errorf("%s: read back %q", name, b)
		}
	}
}

func TestGZFileWriter_Truncates(t *testing.T) {
	target := filepath.Join(t.TempDir(), "dump.json.gz")
	for _, content := range []string{"first write, longer\n", "second\n"} {
		w, err := NewGZFileWriter(target, nil)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}
	}
	r, err := NewGZFileReader(target)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "second\n" {
		t.Errorf("expected truncated file, got %q", b)
	}
}

func TestOpen_NotGZ(t *testing.T) {
	target := filepath.Join(t.TempDir(), "broken.gz")
	if err := os.WriteFile(target, []byte("not gzip"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(target); err == nil {
		t.Fatal("expected a gzip header error")
	}
}
