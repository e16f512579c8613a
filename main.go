package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vegasq/databoard/internal/config"
	"github.com/vegasq/databoard/internal/logging"
	"github.com/vegasq/databoard/internal/output"
	"github.com/vegasq/databoard/internal/session"
	"github.com/vegasq/databoard/internal/web"
)

var (
	serveFlag   = flag.Bool("serve", false, "Start the HTTP command surface instead of printing a preview")
	formatFlag  = flag.String("f", "text", "Preview output format: text, csv, jsonl")
	previewFlag = flag.Int("n", 10, "Number of rows to preview")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [file.csv|file.parquet]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "An in-memory tabular ETL and query engine.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s data.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -f csv -n 50 data.parquet\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -serve data.csv\n", os.Args[0])
	}

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	sess := session.New()
	if flag.NArg() > 0 {
		if err := sess.Load(flag.Arg(0)); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "Error: file '%s' not found\n", flag.Arg(0))
			} else {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			os.Exit(1)
		}
	}

	if *serveFlag {
		serve(cfg, sess)
		return
	}

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: missing data file argument\n\n")
		flag.Usage()
		os.Exit(1)
	}

	var formatter output.Formatter
	switch *formatFlag {
	case "text":
		formatter = output.NewTextFormatter(os.Stdout)
	case "csv":
		formatter = output.NewCSVFormatter(os.Stdout)
	case "json", "jsonl":
		formatter = output.NewJSONFormatter(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Error: unsupported format '%s'\n", *formatFlag)
		fmt.Fprintf(os.Stderr, "Supported formats: text, csv, jsonl\n")
		os.Exit(1)
	}

	if err := formatter.Format(sess.Preview(*previewFlag)); err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
}

// serve runs the HTTP command surface until interrupted.
func serve(cfg *config.Config, sess *session.Session) {
	srv := web.NewServer(sess)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", cfg.Server.Addr())
		errCh <- srv.Start(cfg.Server.Addr(),
			cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.IdleTimeout)
	}()

	select {
	case err := <-errCh:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	case <-ctx.Done():
		slog.Info("shutting down")
		if err := srv.Shutdown(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}
