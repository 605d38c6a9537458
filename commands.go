package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bodul/xwplay/internal/clues"
	"github.com/bodul/xwplay/internal/config"
	"github.com/bodul/xwplay/internal/dispatch"
	"github.com/bodul/xwplay/internal/genclient"
	"github.com/bodul/xwplay/internal/generate"
	"github.com/bodul/xwplay/internal/puzzle"
	"github.com/bodul/xwplay/internal/session"
	"github.com/bodul/xwplay/internal/tui"
	"github.com/bodul/xwplay/internal/words"
)

func newRootCommand() *cobra.Command {
	v := config.New()

	cmd := &cobra.Command{
		Use:          "xwplay",
		Short:        "Generate and solve crossword puzzles.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	_ = v.BindPFlag(config.KeyLogLevel, cmd.PersistentFlags().Lookup("log-level"))
	cmd.PersistentFlags().String("words", "", "word list file, one word per line")
	_ = v.BindPFlag(config.KeyWordsFile, cmd.PersistentFlags().Lookup("words"))

	addServe(cmd, v)
	addPlay(cmd, v)
	addGenerate(cmd, v)
	return cmd
}

func addServe(topLevel *cobra.Command, v *viper.Viper) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Example: `
xwplay serve --port 8080
XW_GENERATE_URL=http://gen.internal/generate xwplay serve
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			setupLogging(cfg, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().String("port", "", "listen port")
	_ = v.BindPFlag(config.KeyPort, cmd.Flags().Lookup("port"))
	cmd.Flags().String("generate-url", "", "remote generation endpoint for sessions")
	_ = v.BindPFlag(config.KeyGenerateURL, cmd.Flags().Lookup("generate-url"))

	topLevel.AddCommand(cmd)
}

func serve(ctx context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, local, cleanup, err := puzzleSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := NewServer(NewStore(), src, local, sessionOptions(cfg))
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}
	httpSrv.RegisterOnShutdown(srv.Close)

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("server started")
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func addPlay(topLevel *cobra.Command, v *viper.Viper) {
	var size int
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Solve puzzles in the terminal",
		Example: `
xwplay play --size 12
xwplay play --log-file /tmp/xwplay.log
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
				return errors.New("play needs an interactive terminal")
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("size") {
				cfg.DefaultSize = size
			}

			// Logs must not reach the terminal the program draws on.
			var out io.Writer = io.Discard
			if cfg.LogFile != "" {
				f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				out = f
			}
			setupLogging(cfg, out)

			src, _, cleanup, err := puzzleSource(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			m := tui.New(src, tui.Options{
				Size:            cfg.DefaultSize,
				Dispatch:        sessionOptions(cfg).Dispatch,
				GenerateTimeout: cfg.GenerateTimeout,
			})
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
			return err
		},
	}
	cmd.Flags().IntVar(&size, "size", 0, "grid size")
	cmd.Flags().String("log-file", "", "write logs to this file")
	_ = v.BindPFlag(config.KeyLogFile, cmd.Flags().Lookup("log-file"))

	topLevel.AddCommand(cmd)
}

func addGenerate(topLevel *cobra.Command, v *viper.Viper) {
	var (
		size             int
		asJSON, solution bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one puzzle and print it",
		Example: `
xwplay generate --size 9
xwplay generate --size 15 --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("size") {
				cfg.DefaultSize = size
			}
			setupLogging(cfg, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

			src, _, cleanup, err := puzzleSource(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.GenerateTimeout)
			defer cancel()
			p, err := src.Generate(ctx, cfg.DefaultSize)
			if err != nil {
				return fmt.Errorf("generate: %w", err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(puzzle.ToResponse(p))
			}
			out := cmd.OutOrStdout()
			if out == os.Stdout {
				out = color.Output
			}
			printPuzzle(out, p, solution)
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "size", 0, "grid size")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the generation response as JSON")
	cmd.Flags().BoolVar(&solution, "solution", false, "fill the grid with the answers")

	topLevel.AddCommand(cmd)
}

func setupLogging(cfg config.Config, w io.Writer) {
	zerolog.SetGlobalLevel(cfg.LogLevel)
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func sessionOptions(cfg config.Config) session.Options {
	return session.Options{
		Dispatch: dispatch.Options{
			MarkTimeout: cfg.MarkTimeout,
			DefaultSize: cfg.DefaultSize,
		},
		GenerateTimeout: cfg.GenerateTimeout,
	}
}

// puzzleSource builds the in-process generator and picks where sessions get
// puzzles from: the remote endpoint when one is configured, else the local
// generator. cleanup releases the clue writer.
func puzzleSource(ctx context.Context, cfg config.Config) (session.Generator, *generate.Generator, func(), error) {
	list, err := words.Load(cfg.WordsFile)
	if err != nil {
		return nil, nil, nil, err
	}

	var writer clues.Writer = clues.Dictionary{}
	cleanup := func() {}
	if cfg.ProjectID != "" {
		g, err := clues.NewGemini(ctx, cfg.ProjectID, cfg.Region)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("init gemini: %w", err)
		}
		writer = g
		cleanup = func() { _ = g.Close() }
		log.Info().Str("project", cfg.ProjectID).Msg("gemini clue writer enabled")
	} else {
		log.Info().Msg("GCP_PROJECT_ID not set, using dictionary clues")
	}
	local := generate.New(list, writer, rand.NewPCG(rand.Uint64(), rand.Uint64()))

	if cfg.GenerateURL != "" {
		log.Info().Str("url", cfg.GenerateURL).Msg("sessions use remote generator")
		return genclient.New(cfg.GenerateURL, cfg.GenerateTimeout), local, cleanup, nil
	}
	return generate.Local{Gen: local}, local, cleanup, nil
}
