package data

import "encoding/json"

// Column and row payloads are stored as JSON blobs so any backend can carry
// heterogeneous cell values without a per-type schema.

func EncodeColumns(columns []Column) ([]byte, error) {
	return json.Marshal(columns)
}

func DecodeColumns(payload []byte) ([]Column, error) {
	var columns []Column
	if err := json.Unmarshal(payload, &columns); err != nil {
		return nil, err
	}
	return columns, nil
}

func EncodeRows(r *Record) ([]byte, error) {
	return json.Marshal(r.rows)
}

func DecodeRowsInto(r *Record, payload []byte) error {
	var rows [][]any
	if err := json.Unmarshal(payload, &rows); err != nil {
		return err
	}
	r.rows = rows
	return nil
}

func EncodeMeta(meta map[string]any) ([]byte, error) {
	return json.Marshal(meta)
}

func DecodeMeta(payload []byte) (map[string]any, error) {
	meta := map[string]any{}
	if len(payload) == 0 {
		return meta, nil
	}
	if err := json.Unmarshal(payload, &meta); err != nil {
		return nil, err
	}
	return meta, nil
}
