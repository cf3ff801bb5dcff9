package main

import (
	"flag"
	"io"

	"github.com/CTAG07/Nomenclator/internal/config"
)

// cliOptions holds the parsed command line. Settings that also exist in the
// config file are only applied when the flag was given explicitly.
type cliOptions struct {
	configPath  string
	showVersion bool
	debug       bool
	serve       bool
	dump        bool
	listSources bool
	forget      string
	seed        uint64

	flags     *flag.FlagSet
	overrides config.Config
}

// parseFlags parses args (without the program name).
func parseFlags(args []string, output io.Writer) (*cliOptions, error) {
	defaults := config.DefaultConfig()
	opts := &cliOptions{overrides: *defaults}
	fs := flag.NewFlagSet("nomenclator", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&opts.configPath, "config", "./config.toml", "Path to the TOML configuration file")
	fs.BoolVar(&opts.showVersion, "version", false, "Show current version")
	fs.BoolVar(&opts.debug, "d", false, "Toggle debug logging")
	fs.BoolVar(&opts.serve, "serve", false, "Serve the HTTP API instead of printing names")
	fs.BoolVar(&opts.dump, "dump", false, "Print the transition table after training")
	fs.BoolVar(&opts.listSources, "sources", false, "List cached corpora and exit")
	fs.StringVar(&opts.forget, "forget", "", "Remove a cached corpus by source name and exit")
	fs.Uint64Var(&opts.seed, "seed", 0, "Seed for the random source (0 picks one at random)")

	gen := &opts.overrides.Generator
	fs.IntVar(&gen.Order, "order", defaults.Generator.Order, "Number of symbols in each window")
	fs.IntVar(&gen.Count, "n", defaults.Generator.Count, "Number of names to generate")
	fs.IntVar(&gen.Length, "len", defaults.Generator.Length, "Target length of each name")
	fs.Float64Var(&gen.Temperature, "temperature", defaults.Generator.Temperature, "Sampling temperature (1 = frequency weighted, 0 = most frequent)")
	fs.IntVar(&gen.TopK, "topk", defaults.Generator.TopK, "Only sample from the k most frequent successors (0 = all)")
	fs.BoolVar(&gen.NovelOnly, "novel", defaults.Generator.NovelOnly, "Reject names that already appear in the corpus")

	cor := &opts.overrides.Corpus
	fs.StringVar(&cor.URL, "url", defaults.Corpus.URL, "URL of the HTML page listing names")
	fs.StringVar(&cor.Selector, "selector", defaults.Corpus.Selector, "Element path matching each name on the page")
	fs.StringVar(&cor.File, "file", defaults.Corpus.File, "Read names from a file, one per line, instead of the URL")
	fs.BoolVar(&cor.FoldDiacritics, "fold", defaults.Corpus.FoldDiacritics, "Strip accents from corpus names")
	fs.StringVar(&cor.DatabasePath, "db", defaults.Corpus.DatabasePath, "SQLite corpus cache (empty disables caching)")
	fs.BoolVar(&cor.Refresh, "refresh", defaults.Corpus.Refresh, "Refetch the corpus even if it is cached")

	srv := &opts.overrides.Server
	fs.StringVar(&srv.Addr, "addr", defaults.Server.Addr, "Listen address for -serve")
	fs.StringVar(&srv.LogLevel, "log", defaults.Server.LogLevel, "Log level: debug, info, warn or error")
	fs.StringVar(&srv.LogFormat, "logfmt", defaults.Server.LogFormat, "Log format: text or json")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opts.flags = fs
	return opts, nil
}

// apply copies every explicitly set flag onto cfg.
func (o *cliOptions) apply(cfg *config.Config) {
	o.flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "order":
			cfg.Generator.Order = o.overrides.Generator.Order
		case "n":
			cfg.Generator.Count = o.overrides.Generator.Count
		case "len":
			cfg.Generator.Length = o.overrides.Generator.Length
		case "temperature":
			cfg.Generator.Temperature = o.overrides.Generator.Temperature
		case "topk":
			cfg.Generator.TopK = o.overrides.Generator.TopK
		case "novel":
			cfg.Generator.NovelOnly = o.overrides.Generator.NovelOnly
		case "url":
			cfg.Corpus.URL = o.overrides.Corpus.URL
		case "selector":
			cfg.Corpus.Selector = o.overrides.Corpus.Selector
		case "file":
			cfg.Corpus.File = o.overrides.Corpus.File
		case "fold":
			cfg.Corpus.FoldDiacritics = o.overrides.Corpus.FoldDiacritics
		case "db":
			cfg.Corpus.DatabasePath = o.overrides.Corpus.DatabasePath
		case "refresh":
			cfg.Corpus.Refresh = o.overrides.Corpus.Refresh
		case "addr":
			cfg.Server.Addr = o.overrides.Server.Addr
		case "log":
			cfg.Server.LogLevel = o.overrides.Server.LogLevel
		case "logfmt":
			cfg.Server.LogFormat = o.overrides.Server.LogFormat
		}
	})
	if o.debug {
		cfg.Server.LogLevel = "debug"
	}
}
