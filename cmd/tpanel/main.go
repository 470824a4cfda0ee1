package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vidyasagar/tpanel/internal/app"
	"github.com/vidyasagar/tpanel/internal/browser"
	"github.com/vidyasagar/tpanel/internal/logging"
	"github.com/vidyasagar/tpanel/internal/storage"
	"github.com/vidyasagar/tpanel/internal/theme"
	"github.com/vidyasagar/tpanel/internal/ui"
	"golang.org/x/term"
)

var (
	version = "0.1.0"
)

func main() {
	var (
		themeName   string
		backend     string
		dataDir     string
		showVersion bool
	)

	available := strings.Join(theme.List(), ", ")

	flag.StringVar(&themeName, "theme", "", "color theme ("+available+")")
	flag.StringVar(&backend, "store", "", "storage backend (sqlite, file)")
	flag.StringVar(&dataDir, "data-dir", "", "directory for history, session and logs")
	flag.BoolVar(&showVersion, "version", false, "show version")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "tpanel - a terminal control panel shell\n\n")
		fmt.Fprintf(os.Stderr, "Usage: tpanel [flags] [url]\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  tpanel                        # resume the last session or ask for a URL\n")
		fmt.Fprintf(os.Stderr, "  tpanel 192.168.1.100:8080     # open a panel (adds http://)\n")
		fmt.Fprintf(os.Stderr, "  tpanel --store file           # keep history in plain files\n")
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("tpanel %s\n", version)
		os.Exit(0)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: tpanel needs an interactive terminal")
		os.Exit(1)
	}

	cfg, err := storage.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if themeName != "" {
		cfg.Theme = themeName
	}
	if backend != "" {
		cfg.Store = backend
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Apply theme.
	if !theme.Set(cfg.Theme) {
		fmt.Fprintf(os.Stderr, "Unknown theme: %s\nAvailable: %s\n", cfg.Theme, available)
		os.Exit(1)
	}

	if dataDir == "" {
		dataDir, err = storage.DataDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	logger, logFile, err := logging.New(filepath.Join(dataDir, "tpanel.log"), cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	// Storage is best-effort: without it the shell still works but forgets
	// everything on exit.
	var session app.SessionStore
	kv, err := storage.Open(cfg.Store, dataDir)
	if err != nil {
		logger.Error("opening storage", "backend", cfg.Store, "err", err)
	} else {
		defer kv.Close()
		session = storage.NewSession(kv)
	}

	opts := browser.DefaultOptions()
	opts.UserAgent = cfg.UserAgent
	opts.Timeout = time.Duration(cfg.FetchTimeoutSeconds) * time.Second
	newSurface := func() ui.Surface {
		return browser.NewSurface(opts)
	}

	var startURL string
	if flag.NArg() > 0 {
		startURL = flag.Arg(0)
	}

	logger.Info("starting", "version", version, "store", cfg.Store, "theme", cfg.Theme)

	m := app.New(session, newSurface, logger, startURL)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		logger.Error("program exited", "err", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
