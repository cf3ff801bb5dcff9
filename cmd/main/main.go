package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CTAG07/Nomenclator/internal/config"
	"github.com/CTAG07/Nomenclator/internal/logger"
	"github.com/CTAG07/Nomenclator/internal/server"
	"github.com/CTAG07/Nomenclator/pkg/corpus"
	"github.com/CTAG07/Nomenclator/pkg/markov"
	"github.com/charmbracelet/lipgloss"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if opts.showVersion {
		printVersion(os.Stdout)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "nomenclator: %v\n", err)
		os.Exit(1)
	}
}

// run loads the configuration, trains a chain on the corpus, and then prints
// names, dumps the table, or serves the API depending on opts.
func run(ctx context.Context, opts *cliOptions, out io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	opts.apply(cfg)
	if err = cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := newLogger(os.Stderr, cfg.Server)

	if opts.listSources || opts.forget != "" {
		return manageCache(ctx, cfg, opts, log, out)
	}

	names, err := loadCorpus(ctx, &cfg.Corpus, log)
	if err != nil {
		return err
	}

	chainOpts := []markov.Option{markov.WithLogger(log)}
	if opts.seed != 0 {
		chainOpts = append(chainOpts, markov.WithRand(rand.New(rand.NewPCG(opts.seed, opts.seed))))
	}
	chain, err := markov.New(cfg.Generator.Order, chainOpts...)
	if err != nil {
		return err
	}
	chain.TrainAll(names)

	var index *corpus.Index
	if cfg.Generator.NovelOnly {
		index = corpus.NewIndex(names...)
	}

	switch {
	case opts.serve:
		if index == nil {
			index = corpus.NewIndex(names...)
		}
		return server.New(markov.NewSyncChain(chain), index, cfg, log).Run(ctx, cfg.Server.Addr)
	case opts.dump:
		_, err = chain.WriteTo(out)
		return err
	default:
		return printNames(chain, index, cfg.Generator, out)
	}
}

// newLogger builds the logger selected by the server log settings.
func newLogger(w io.Writer, cfg config.ServerConfig) *slog.Logger {
	level := logger.ParseLevel(cfg.LogLevel)
	if cfg.LogFormat == config.LogFormatJSON {
		return logger.NewJSON(w, level)
	}
	return logger.New(w, "nomenclator", level)
}

// printNames writes the configured number of names to out, one per line.
func printNames(chain *markov.Chain, index *corpus.Index, gen config.GeneratorConfig, out io.Writer) error {
	opts := []markov.GenerateOption{
		markov.WithTemperature(gen.Temperature),
		markov.WithTopK(gen.TopK),
	}
	names, err := corpus.GenerateNovel(chain, index, gen.Count, gen.Length, gen.MaxAttempts, opts...)
	if err != nil {
		return fmt.Errorf("failed to generate names: %w", err)
	}
	for _, name := range names {
		if _, err = fmt.Fprintln(out, name); err != nil {
			return err
		}
	}
	return nil
}

// manageCache lists or removes cached corpora.
func manageCache(ctx context.Context, cfg *config.Config, opts *cliOptions, log *slog.Logger, out io.Writer) error {
	if cfg.Corpus.DatabasePath == "" {
		return errors.New("no corpus database configured")
	}
	store, cleanup, err := openStore(cfg.Corpus.DatabasePath, log)
	if err != nil {
		return err
	}
	defer cleanup()

	if opts.forget != "" {
		return store.RemoveSource(ctx, opts.forget)
	}

	sources, err := store.Sources(ctx)
	if err != nil {
		return fmt.Errorf("failed to list cached corpora: %w", err)
	}
	for _, s := range sources {
		if _, err = fmt.Fprintf(out, "%s\t%d\t%s\n", s.Name, s.Entries, s.FetchedAt.Format(time.RFC3339)); err != nil {
			return err
		}
	}
	return nil
}

// printVersion writes the styled version banner.
func printVersion(w io.Writer) {
	title := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	value := lipgloss.NewStyle().
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	faint := lipgloss.NewStyle().Italic(true).Faint(true)

	_, _ = fmt.Fprintln(w, title.Render("[ Nomenclator ] Markov chain name generator"))
	_, _ = fmt.Fprintf(w, "version %s  commit %s  built %s\n",
		value.Render(Version), value.Render(Commit), value.Render(BuildDate))
	_, _ = fmt.Fprintln(w, faint.Render("use -h to see available options"))
}
