// Package sweeplab is the embedding surface for the sweep orchestrator: it
// wires procedures, jobs, data groups and a persistence backend together.
package sweeplab

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sweeplab/internal/config"
	"sweeplab/internal/data"
	"sweeplab/internal/process"
)

const defaultDBPath = "sweeplab.db"

type Options struct {
	BackendKind string
	DBPath      string
	Clock       process.Clock
}

type Client struct {
	backend data.Backend
	clock   process.Clock
}

type RunResult struct {
	GroupID    string
	GroupName  string
	RecordName string
	Rows       int
}

type GroupInfo struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Records   []RecordInfo
}

type RecordInfo struct {
	Name    string
	Columns int
	Rows    int
}

func NewClient(opts Options) (*Client, error) {
	path := opts.DBPath
	if path == "" {
		path = defaultDBPath
	}
	backend, err := data.NewBackend(opts.BackendKind, path)
	if err != nil {
		return nil, err
	}
	clock := opts.Clock
	if clock == nil {
		clock = process.SystemClock{}
	}
	return &Client{backend: backend, clock: clock}, nil
}

func (c *Client) Init(ctx context.Context) error {
	return c.backend.Init(ctx)
}

func (c *Client) Close() error {
	return data.CloseIfSupported(c.backend)
}

// RunProcedure loads a procedure file, runs its job to completion and saves
// the resulting data group.
func (c *Client) RunProcedure(ctx context.Context, path string) (RunResult, error) {
	procedure, err := config.LoadProcedure(path)
	if err != nil {
		return RunResult{}, err
	}
	return c.RunLoaded(ctx, procedure)
}

// RunLoaded runs an already-parsed procedure.
func (c *Client) RunLoaded(ctx context.Context, procedure *config.Procedure) (RunResult, error) {
	job, err := procedure.BuildJob(c.clock)
	if err != nil {
		return RunResult{}, err
	}
	group, err := data.NewGroup(procedure.GroupName(), procedure.Group.Meta)
	if err != nil {
		return RunResult{}, err
	}
	job.SetGroup(group)
	if err := job.PrepareRecord(procedure.Job.Record, false); err != nil {
		return RunResult{}, err
	}

	if err := job.Run(ctx); err != nil {
		// Rows completed before the failure are still worth keeping.
		if saveErr := c.backend.SaveGroup(ctx, group); saveErr != nil {
			return RunResult{}, errors.Join(err, saveErr)
		}
		return RunResult{}, err
	}
	if err := c.backend.SaveGroup(ctx, group); err != nil {
		return RunResult{}, fmt.Errorf("save group %s: %w", group.ID(), err)
	}
	return RunResult{
		GroupID:    group.ID().String(),
		GroupName:  group.Name(),
		RecordName: procedure.Job.Record,
		Rows:       job.Record().Rows(),
	}, nil
}

func (c *Client) ListGroups(ctx context.Context) ([]GroupInfo, error) {
	ids, err := c.backend.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]GroupInfo, 0, len(ids))
	for _, id := range ids {
		group, ok, err := c.backend.LoadGroup(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load group %s: %w", id, err)
		}
		if !ok {
			continue
		}
		infos = append(infos, describeGroup(group))
	}
	return infos, nil
}

func (c *Client) Group(ctx context.Context, id string) (GroupInfo, error) {
	group, ok, err := c.backend.LoadGroup(ctx, id)
	if err != nil {
		return GroupInfo{}, err
	}
	if !ok {
		return GroupInfo{}, fmt.Errorf("group %s not found", id)
	}
	return describeGroup(group), nil
}

// ExportGroup extracts every record of a stored group as CSV files in dir
// and returns the file count.
func (c *Client) ExportGroup(ctx context.Context, id, dir string) (int, error) {
	group, ok, err := c.backend.LoadGroup(ctx, id)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("group %s not found", id)
	}
	return data.ExportGroup(group, dir)
}

func describeGroup(group *data.Group) GroupInfo {
	info := GroupInfo{
		ID:        group.ID().String(),
		Name:      group.Name(),
		CreatedAt: group.CreatedAt(),
	}
	for _, name := range group.RecordNames() {
		record, _ := group.Record(name)
		info.Records = append(info.Records, RecordInfo{
			Name:    name,
			Columns: len(record.Columns()),
			Rows:    record.Rows(),
		})
	}
	return info
}
