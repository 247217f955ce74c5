package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ExportGroup writes every record of group as a CSV file in dir, one file
// per record named <record>.csv. It returns the number of files written.
func ExportGroup(group *Group, dir string) (int, error) {
	if group == nil {
		return 0, errors.New("group is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	count := 0
	for _, name := range group.RecordNames() {
		record, _ := group.Record(name)
		path := filepath.Join(dir, name+".csv")
		if err := exportRecord(record, path); err != nil {
			return count, fmt.Errorf("export record %s: %w", name, err)
		}
		count++
	}
	return count, nil
}

func exportRecord(record *Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := make([]string, len(record.columns))
	for i, col := range record.columns {
		header[i] = col.Name
	}
	if err := w.Write(header); err != nil {
		return err
	}
	line := make([]string, len(record.columns))
	for _, row := range record.rows {
		for i, cell := range row {
			if cell == nil {
				line[i] = ""
				continue
			}
			line[i] = fmt.Sprintf("%v", cell)
		}
		if err := w.Write(line); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
