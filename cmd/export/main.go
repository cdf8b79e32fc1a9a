// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command export writes every live book as one JSON object per line.
//
// It shares configuration with the API server (DATABASE_URL etc.) and reads
// through the same service, so soft-deleted books are never exported.
//
//	export --output books.jsonl --search Classics
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	jsoniter "github.com/json-iterator/go"
	"github.com/urfave/cli/v2"

	"github.com/taibuivan/bookshelf/internal/core/book"
	"github.com/taibuivan/bookshelf/internal/platform/config"
	"github.com/taibuivan/bookshelf/internal/platform/constants"
	pgstore "github.com/taibuivan/bookshelf/internal/platform/postgres"
	"github.com/taibuivan/bookshelf/pkg/pagination"
)

const stdoutPath = "-"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:  "export",
		Usage: "dump live books as JSON lines",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: stdoutPath, Usage: "destination file, - for stdout"},
			&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "only books whose title/author contains, or genre equals, this term"},
			&cli.BoolFlag{Name: "debug", Usage: "verbose logging on stderr"},
		},
		Action: run,
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		slog.Error("export_failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	level := slog.LevelInfo
	if c.Bool("debug") {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName), slog.String("cmd", "export"))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pool, err := pgstore.NewPool(c.Context, pgstore.BatchOptions(cfg, "export"), log)
	if err != nil {
		return err
	}
	defer pool.Close()

	service := book.NewService(book.NewPostgresRepository(pool), log)

	writer, closeWriter, err := openOutput(c.String("output"))
	if err != nil {
		return err
	}

	count, err := export(c.Context, service, c.String("search"), writer)
	if closeErr := closeWriter(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	log.Info("export_finished", slog.Int("books", count), slog.String("output", c.String("output")))
	return nil
}

// lister is the part of [book.Service] the exporter needs.
type lister interface {
	List(context context.Context, query book.Query) (pagination.Envelope[*book.Book], error)
}

// export writes all matching live books to w as JSON lines, newest first.
func export(context context.Context, service lister, search string, w io.Writer) (int, error) {
	page, err := service.List(context, book.Query{Params: pagination.All(), Search: search})
	if err != nil {
		return 0, err
	}

	buffered := bufio.NewWriter(w)
	encoder := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(buffered)
	for _, b := range page.Data {
		if err := encoder.Encode(b); err != nil {
			return 0, fmt.Errorf("export: encode book %s: %w", b.ID, err)
		}
	}

	if err := buffered.Flush(); err != nil {
		return 0, fmt.Errorf("export: flush: %w", err)
	}
	return len(page.Data), nil
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == stdoutPath {
		return os.Stdout, func() error { return nil }, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("export: open output: %w", err)
	}
	return file, file.Close, nil
}
