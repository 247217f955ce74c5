package data

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func TestExportGroupWritesOneCSVPerRecord(t *testing.T) {
	group := sampleGroup(t, "run1")
	extra, err := NewRecord("noise", []Column{{Name: "level", Dependent: true}})
	if err != nil {
		t.Fatalf("new record: %v", err)
	}
	if err := extra.AddRow(map[string]any{"level": 0.01}); err != nil {
		t.Fatalf("add row: %v", err)
	}
	if err := group.AddRecord(extra); err != nil {
		t.Fatalf("add record: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "export")
	count, err := ExportGroup(group, dir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 files, got %d", count)
	}

	f, err := os.Open(filepath.Join(dir, "iv.csv"))
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()
	lines, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines", len(lines))
	}
	header := lines[0]
	if header[0] != "timestamp" || header[1] != "bias" || header[2] != "current" {
		t.Fatalf("unexpected header %v", header)
	}
	if lines[1][0] != "0" {
		t.Fatalf("unexpected first timestamp %q", lines[1][0])
	}
}

func TestExportGroupRendersNilCellsEmpty(t *testing.T) {
	group, err := NewGroup("run1", nil)
	if err != nil {
		t.Fatalf("new group: %v", err)
	}
	record, err := NewRecord("iv", testColumns())
	if err != nil {
		t.Fatalf("new record: %v", err)
	}
	if err := record.AddRow(map[string]any{"timestamp": 1.5}); err != nil {
		t.Fatalf("add row: %v", err)
	}
	if err := group.AddRecord(record); err != nil {
		t.Fatalf("add record: %v", err)
	}

	dir := t.TempDir()
	if _, err := ExportGroup(group, dir); err != nil {
		t.Fatalf("export: %v", err)
	}
	f, err := os.Open(filepath.Join(dir, "iv.csv"))
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()
	lines, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if lines[1][1] != "" || lines[1][2] != "" {
		t.Fatalf("nil cells not rendered empty: %v", lines[1])
	}
}

func TestExportGroupRequiresGroup(t *testing.T) {
	if _, err := ExportGroup(nil, t.TempDir()); err == nil {
		t.Fatal("expected nil group to be rejected")
	}
}
