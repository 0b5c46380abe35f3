package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/LFroesch/fex/internal/bookmarks"
	"github.com/LFroesch/fex/internal/config"
	"github.com/LFroesch/fex/internal/fileops"
	"github.com/LFroesch/fex/internal/logger"
	"github.com/LFroesch/fex/internal/metrics"
	"github.com/LFroesch/fex/internal/session"
)

var version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	metricsAddr := flag.String("metrics", "", "serve Prometheus metrics on this address (overrides config)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: fex [flags] [directory]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(versionString())
		return
	}

	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
	}
	defer logger.Close()

	cfg := config.Load()
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		logger.Warn("%v, keeping info", err)
	}
	addr := cfg.MetricsAddr
	if *metricsAddr != "" {
		addr = *metricsAddr
	}

	startDir := cfg.StartDir
	if flag.NArg() > 0 {
		startDir = flag.Arg(0)
	}
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "fex: %v\n", err)
			os.Exit(1)
		}
		startDir = wd
	}

	loc := time.UTC
	if cfg.LocalTimestamps {
		loc = time.Local
	}
	fsys := osfs.New("/")
	lister := metrics.NewLister(fileops.NewLister(fsys, fileops.WithLocation(loc)))
	exec := fileops.NewExecutor(fsys,
		fileops.WithObserver(metrics.Observe),
		fileops.WithNameSearchLimit(cfg.NameSearchLimit),
	)

	sess, err := session.New(lister, exec, startDir)
	if err != nil {
		logger.Error("Cannot open %s: %v", startDir, err)
		fmt.Fprintf(os.Stderr, "fex: %v\n", err)
		os.Exit(1)
	}

	if addr != "" {
		srv := metrics.Serve(addr)
		defer srv.Close()
	}

	m := newModel(sess, cfg, bookmarks.Load(cfg.Bookmarks))
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		logger.Error("Program exited: %v", err)
		fmt.Fprintf(os.Stderr, "fex: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		logger.Warn("Failed to save config on exit: %v", err)
	}
}
