package data

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

func snapshotGroup(group *Group) (groupSnapshot, []recordSnapshot, error) {
	meta, err := EncodeMeta(group.meta)
	if err != nil {
		return groupSnapshot{}, nil, fmt.Errorf("encode meta of group %s: %w", group.id, err)
	}
	snapshot := groupSnapshot{
		ID:        group.id.String(),
		Name:      group.name,
		Meta:      meta,
		CreatedAt: group.createdAt.UnixNano(),
	}
	records := make([]recordSnapshot, 0, len(group.recordNames))
	for _, name := range group.recordNames {
		record := group.records[name]
		columns, err := EncodeColumns(record.columns)
		if err != nil {
			return groupSnapshot{}, nil, fmt.Errorf("encode columns of record %s: %w", name, err)
		}
		rows, err := EncodeRows(record)
		if err != nil {
			return groupSnapshot{}, nil, fmt.Errorf("encode rows of record %s: %w", name, err)
		}
		records = append(records, recordSnapshot{Name: name, Columns: columns, Rows: rows})
	}
	return snapshot, records, nil
}

func restoreFromSnapshots(snapshot groupSnapshot, records []recordSnapshot) (*Group, error) {
	id, err := uuid.Parse(snapshot.ID)
	if err != nil {
		return nil, fmt.Errorf("parse group id %s: %w", snapshot.ID, err)
	}
	meta, err := DecodeMeta(snapshot.Meta)
	if err != nil {
		return nil, fmt.Errorf("decode meta of group %s: %w", snapshot.ID, err)
	}
	group := RestoreGroup(id, snapshot.Name, meta, time.Unix(0, snapshot.CreatedAt).UTC())
	for _, stored := range records {
		columns, err := DecodeColumns(stored.Columns)
		if err != nil {
			return nil, fmt.Errorf("decode columns of record %s: %w", stored.Name, err)
		}
		record, err := NewRecord(stored.Name, columns)
		if err != nil {
			return nil, err
		}
		if err := DecodeRowsInto(record, stored.Rows); err != nil {
			return nil, fmt.Errorf("decode rows of record %s: %w", stored.Name, err)
		}
		if err := group.AddRecord(record); err != nil {
			return nil, err
		}
	}
	return group, nil
}
