package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dgallion1/texbuild/internal/api"
	"github.com/dgallion1/texbuild/internal/config"
	"github.com/dgallion1/texbuild/internal/discover"
	"github.com/dgallion1/texbuild/internal/pipeline"
	"github.com/dgallion1/texbuild/internal/report"
)

const (
	exitOK      = 0
	exitFailure = 1
)

type invocation struct {
	root    string
	clean   bool
	help    bool
	verbose bool
	serve   bool
}

func parseArgs(args []string) (invocation, error) {
	var inv invocation
	var positional []string

	for _, a := range args {
		switch a {
		case "-c", "--clean":
			inv.clean = true
		case "-h", "--help":
			inv.help = true
		case "-v", "--verbose":
			inv.verbose = true
		case "-s", "--serve":
			inv.serve = true
		default:
			if strings.HasPrefix(a, "-") {
				return inv, fmt.Errorf("unrecognized flag: %s", a)
			}
			positional = append(positional, a)
		}
	}

	switch len(positional) {
	case 0:
	case 1:
		inv.root = positional[0]
	default:
		return inv, fmt.Errorf("too many arguments: %s", strings.Join(positional[1:], " "))
	}
	return inv, nil
}

func usage() string {
	return `usage: texbuild [flags] [root]

Recursively compiles every .tex document under root (default ".") with three
pdflatex passes and an advisory bibtex pass, verifies the PDF output and
removes auxiliary build artifacts.

flags:
  -c, --clean    remove auxiliary artifacts only, skip compilation
  -s, --serve    after the run, serve the report and compiled PDFs over HTTP
  -v, --verbose  enable debug logging
  -h, --help     show this help
`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	inv, err := parseArgs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, usage())
		return exitFailure
	}
	if inv.help {
		fmt.Print(usage())
		return exitOK
	}

	level := slog.LevelInfo
	if inv.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	cfg := config.Load()
	if inv.root != "" {
		cfg.Root = inv.root
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		return exitFailure
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	orch := pipeline.New(cfg, log)

	var rep *report.Run
	if inv.clean {
		rep, err = orch.CleanOnly(ctx)
	} else {
		rep, err = orch.Run(ctx)
	}
	if err != nil {
		if errors.Is(err, discover.ErrNoDocuments) {
			log.Error("no .tex documents found", "root", cfg.Root)
			return exitFailure
		}
		log.Error("run aborted", "error", err)
		return exitFailure
	}

	fmt.Print(rep.Summary())

	if cfg.ReportDir != "" {
		if err := rep.WriteArtifacts(cfg.ReportDir); err != nil {
			log.Error("failed to write report artifacts", "error", err)
		}
	}

	if inv.serve {
		serve(ctx, orch, log, cfg, rep)
	}

	return rep.ExitCode()
}

// serve blocks until the context is cancelled (SIGINT/SIGTERM).
func serve(ctx context.Context, orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config, rep *report.Run) {
	srv := api.NewServer(orch, log, cfg, rep)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // a triggered rebuild runs inside the request
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("preview server listening", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
	}
}
