package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/podscript/internal/config"
	"github.com/csheth/podscript/internal/library"
	"github.com/csheth/podscript/internal/llm"
	"github.com/csheth/podscript/internal/script"
	"github.com/csheth/podscript/internal/source"
	"github.com/csheth/podscript/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (default: the user config dir podscript/config.yaml)")
	libraryPath := flag.String("library", "", "path to the script library JSON file")
	importPath := flag.String("import", "", "open a transcript file of \"Name: text\" turns")
	openID := flag.String("open", "", "open a saved script by library ID")
	list := flag.Bool("list", false, "print the saved scripts and exit")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	llmModel := flag.String("llm-model", "", "override the drafting model (Ollama default ministral-3:latest)")
	llmEndpoint := flag.String("llm-endpoint", "", "custom LLM host (eg. http://localhost:11434)")
	flag.Parse()

	cfg, err := loadConfig(*configPath, config.Overrides{
		LibraryPath: *libraryPath,
		LLMModel:    *llmModel,
		LLMEndpoint: *llmEndpoint,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *list {
		if err := printLibrary(os.Stdout, cfg.LibraryPath, shouldColorize(os.Stdout)); err != nil {
			fmt.Fprintln(os.Stderr, "list failed:", err)
			os.Exit(1)
		}
		return
	}

	closeLog := setupLogging(cfg)
	defer closeLog()

	tuiCfg := tui.Config{Settings: cfg}
	switch {
	case *importPath != "":
		lines, err := script.NewCodec(cfg.Cast).ParseFile(*importPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "import failed:", err)
			os.Exit(1)
		}
		tuiCfg.Script = lines
		tuiCfg.Title = strings.TrimSuffix(filepath.Base(*importPath), filepath.Ext(*importPath))
	case *openID != "":
		entry, err := library.Get(cfg.LibraryPath, *openID)
		if err != nil {
			fmt.Fprintln(os.Stderr, "open failed:", err)
			os.Exit(1)
		}
		if entry.Cast.Validate() == nil {
			tuiCfg.Settings.Cast = entry.Cast
		}
		tuiCfg.Script = entry.Lines
		tuiCfg.Title = entry.Title
		tuiCfg.SourceURL = entry.SourceURL
		tuiCfg.EntryID = entry.ID
	}

	client, err := llm.New(llm.Config{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		Endpoint: cfg.LLM.Endpoint,
		APIKey:   cfg.LLM.APIKey,
	})
	if err != nil {
		fmt.Println("LLM disabled:", err)
	} else {
		tuiCfg.LLM = client
	}

	fetcher, err := source.NewFetcher(source.Options{CacheDir: cfg.CacheDir})
	if err != nil {
		fmt.Println("article fetching disabled:", err)
	} else {
		tuiCfg.Fetcher = fetcher
	}

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(tui.New(tuiCfg), opts...)

	if _, err := program.Run(); err != nil {
		fmt.Println("program error:", err)
		os.Exit(1)
	}
}

func loadConfig(path string, overrides config.Overrides) (config.Config, error) {
	cfg, err := config.Load(config.Options{Path: path})
	if err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.Apply(overrides)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	absPath, err := filepath.Abs(cfg.LibraryPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("resolve library path: %w", err)
	}
	cfg.LibraryPath = absPath
	return cfg, nil
}

// setupLogging keeps log output off the terminal the TUI is drawing on.
func setupLogging(cfg config.Config) func() {
	if !cfg.Debug {
		log.SetOutput(io.Discard)
		return func() {}
	}
	file, err := tea.LogToFile(cfg.LogFile, "podscript")
	if err != nil {
		fmt.Println("debug log disabled:", err)
		log.SetOutput(io.Discard)
		return func() {}
	}
	return func() {
		if err := file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			fmt.Println("close debug log:", err)
		}
	}
}
