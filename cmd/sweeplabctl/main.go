package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"sweeplab/pkg/sweeplab"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}
	switch args[0] {
	case "run":
		return runRun(ctx, args[1:])
	case "groups":
		return runGroups(ctx, args[1:])
	case "records":
		return runRecords(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	backendKind := fs.String("backend", "sqlite", "data backend: memory|sqlite")
	dbPath := fs.String("db-path", "sweeplab.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usageError("run needs one procedure file")
	}

	client, err := newClient(ctx, *backendKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	result, err := client.RunProcedure(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Printf("group %s (%s): record %s with %s rows\n",
		result.GroupID, result.GroupName, result.RecordName,
		humanize.Comma(int64(result.Rows)))
	return nil
}

func runGroups(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("groups", flag.ContinueOnError)
	backendKind := fs.String("backend", "sqlite", "data backend: memory|sqlite")
	dbPath := fs.String("db-path", "sweeplab.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(ctx, *backendKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	groups, err := client.ListGroups(ctx)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		fmt.Println("no groups stored")
		return nil
	}
	for _, group := range groups {
		rows := 0
		for _, record := range group.Records {
			rows += record.Rows
		}
		fmt.Printf("%s  %-20s  %d records, %s rows, created %s\n",
			group.ID, group.Name, len(group.Records),
			humanize.Comma(int64(rows)), humanize.Time(group.CreatedAt))
	}
	return nil
}

func runRecords(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("records", flag.ContinueOnError)
	backendKind := fs.String("backend", "sqlite", "data backend: memory|sqlite")
	dbPath := fs.String("db-path", "sweeplab.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usageError("records needs a group id")
	}

	client, err := newClient(ctx, *backendKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	group, err := client.Group(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	for _, record := range group.Records {
		fmt.Printf("%-20s  %d columns, %s rows\n",
			record.Name, record.Columns, humanize.Comma(int64(record.Rows)))
	}
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	backendKind := fs.String("backend", "sqlite", "data backend: memory|sqlite")
	dbPath := fs.String("db-path", "sweeplab.db", "sqlite database path")
	outDir := fs.String("out", "exports", "output directory for csv files")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usageError("export needs a group id")
	}

	client, err := newClient(ctx, *backendKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	count, err := client.ExportGroup(ctx, fs.Arg(0), *outDir)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d csv file(s) to %s\n", count, *outDir)
	return nil
}

func newClient(ctx context.Context, backendKind, dbPath string) (*sweeplab.Client, error) {
	client, err := sweeplab.NewClient(sweeplab.Options{
		BackendKind: backendKind,
		DBPath:      dbPath,
	})
	if err != nil {
		return nil, err
	}
	if err := client.Init(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: sweeplabctl <run|groups|records|export> [flags]", msg)
}
