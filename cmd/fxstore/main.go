// Command fxstore is the CLI entry point: subcommands to ingest a text
// feed into a store and to serve its HTTP query facade (spec.md §6).
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/kestrelfx/fxstore/format"
	"github.com/kestrelfx/fxstore/httpapi"
	"github.com/kestrelfx/fxstore/store"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	log.SetPrefix("[fxstore] ")

	if len(args) == 0 {
		printUsage()

		return 1
	}

	switch args[0] {
	case "ingest":
		return runIngest(args[1:])
	case "serve":
		return runServe(args[1:])
	case "help", "-h", "--help":
		printUsage()

		return 0
	default:
		log.Printf("unknown subcommand: %s", args[0])
		printUsage()

		return 1
	}
}

func runIngest(args []string) int {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	var (
		feedPath string
		symbol   string
	)
	fs.StringVar(&feedPath, "feed", "", "Path to the text feed file")
	fs.StringVar(&symbol, "symbol", "", "Symbol name the feed belongs to, e.g. EURUSD")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		log.Printf("failed to parse arguments: %v", err)

		return 1
	}

	if feedPath == "" || symbol == "" {
		log.Println("both --feed and --symbol are required")
		fs.Usage()

		return 2
	}

	f, err := os.Open(feedPath)
	if err != nil {
		log.Printf("failed to open feed: %v", err)

		return 1
	}
	defer f.Close()

	s, err := store.New()
	if err != nil {
		log.Printf("failed to create store: %v", err)

		return 1
	}

	if err := s.IngestTextFeed(f, symbol); err != nil {
		log.Printf("ingest failed: %v", err)
		s.Shutdown()

		return 1
	}

	s.Shutdown()

	snap := s.Stats()
	log.Printf("ingest complete: records=%d compressed_bytes=%d dropped_lines=%d",
		snap.Records, snap.CompressedBytes, snap.DroppedLines)

	return 0
}

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	var (
		addr        string
		compression string
	)
	fs.StringVar(&addr, "addr", ":8080", "Listen address for the HTTP query facade")
	fs.StringVar(&compression, "compression", "zstd", "Day-block compression codec: zstd, s2, lz4, none")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		log.Printf("failed to parse arguments: %v", err)

		return 1
	}

	codec, err := parseCompression(compression)
	if err != nil {
		log.Println(err)

		return 2
	}

	s, err := store.New(store.WithCompression(codec))
	if err != nil {
		log.Printf("failed to create store: %v", err)

		return 1
	}
	defer s.Shutdown()

	server := &http.Server{
		Addr:    addr,
		Handler: httpapi.NewRouter(s),
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()

	log.Printf("fxstore listening on %s", addr)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Printf("server failed: %v", err)

			return 1
		}
	case sig := <-sigCh:
		log.Printf("signal %v received, shutting down", sig)
		_ = server.Close()
	}

	return 0
}

func parseCompression(s string) (format.CompressionType, error) {
	switch s {
	case "zstd":
		return format.CompressionZstd, nil
	case "s2":
		return format.CompressionS2, nil
	case "lz4":
		return format.CompressionLZ4, nil
	case "none":
		return format.CompressionNone, nil
	default:
		return 0, fmt.Errorf("unknown compression codec: %s", s)
	}
}

func printUsage() {
	fmt.Print(`fxstore - in-process OHLCV time-series store

Usage:
  fxstore <command> [options]

Available commands:
  ingest   Ingest a text feed for one symbol into a store, print stats, exit
  serve    Start the HTTP query facade over an empty store
  help     Show this help

Examples:
  fxstore ingest --feed eurusd.csv --symbol EURUSD
  fxstore serve --addr :8080 --compression zstd
`)
}
