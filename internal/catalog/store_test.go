package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestWriteLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "electricity_be.json")
	rows := []Row{
		electricityRow("engie", "easy", RegionWallonia, 0.268),
		electricityRow("luminus", "comfy", RegionAll, 0.221),
	}

	if err := WriteFile(path, rows); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !reflect.DeepEqual(rows, loaded) {
		t.Errorf("round trip mismatch:\nwrote:  %+v\nloaded: %+v", rows, loaded)
	}
}

func TestWriteFileIsDiffable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := WriteFile(path, []Row{electricityRow("engie", "easy", RegionAll, 0.25)}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasSuffix(data, []byte("\n")) {
		t.Error("catalog file missing trailing newline")
	}
	if !bytes.Contains(data, []byte("\n  ")) {
		t.Error("catalog file not pretty-indented")
	}
}

func TestLoadMissingFileIsEmptyCatalog(t *testing.T) {
	rows, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if rows != nil {
		t.Errorf("got %v, want nil", rows)
	}
}

func TestLoadMalformedFileIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("malformed catalog loaded without error")
	}
}
