// Package main is the entry point for the glint syntax highlighting viewer.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/glint/internal/config"
	"github.com/dshills/glint/internal/parser"
	"github.com/dshills/glint/internal/theme"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	th, err := loadTheme(opts, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	p, err := buildParser(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if opts.Dump {
		if err := dump(os.Stdout, opts.File, p, th); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	v, err := newViewer(opts.File, p, th, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer v.close()

	if err := v.run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// options holds the parsed command line.
type options struct {
	File       string
	ConfigPath string
	ThemePath  string
	Language   string
	ScriptPath string
	Dump       bool
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", defaultConfigPath(), "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", defaultConfigPath(), "Path to configuration file (shorthand)")
	flag.StringVar(&opts.ThemePath, "theme", "", "Path to JSON theme file")
	flag.StringVar(&opts.Language, "lang", "", "Force a language instead of detecting by extension")
	flag.StringVar(&opts.ScriptPath, "script", "", "Path to a Lua tokenizer script")
	flag.BoolVar(&opts.Dump, "dump", false, "Print the highlighted file to stdout and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "glint - incremental syntax highlighting viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: glint [options] <file>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  glint main.go               View a file with highlighting\n")
		fmt.Fprintf(os.Stderr, "  glint -dump main.go         Print with ANSI colors\n")
		fmt.Fprintf(os.Stderr, "  glint -lang python script   Force a language\n")
		fmt.Fprintf(os.Stderr, "  glint -script my.lua file   Use a Lua tokenizer\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("glint %s (%s)\n", version, commit)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	opts.File = flag.Arg(0)

	return opts
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "glint", "glint.toml")
}

func loadTheme(opts options, cfg *config.Config) (*theme.Theme, error) {
	path := opts.ThemePath
	if path == "" {
		path = cfg.Viewer.Theme
	}
	if path == "" {
		return theme.DefaultDark(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading theme %s: %w", path, err)
	}
	return theme.LoadJSON(data)
}

// buildParser selects a tokenizer: a Lua script when given, then a
// forced language, then chroma's extension match, then the built-in
// rule lexers.
func buildParser(opts options) (parser.Parser, error) {
	if opts.ScriptPath != "" {
		script, err := os.ReadFile(opts.ScriptPath)
		if err != nil {
			return nil, fmt.Errorf("reading tokenizer script %s: %w", opts.ScriptPath, err)
		}
		return parser.NewLua(filepath.Base(opts.ScriptPath), string(script))
	}
	if opts.Language != "" {
		if p, err := parser.NewChroma(opts.Language); err == nil {
			return p, nil
		}
	}
	if p := parser.ChromaForFile(opts.File); p != nil {
		return p, nil
	}
	switch filepath.Ext(opts.File) {
	case ".go":
		return parser.Go(), nil
	case ".js", ".mjs", ".jsx":
		return parser.JavaScript(), nil
	}
	return nil, nil
}
