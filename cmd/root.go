package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yuvraj20122008-del/autofix-my-code/internal/assistant"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/config"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/github"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/llm"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/logging"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/pipeline"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/store"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/walker"
)

// annotationOwnsTerminal marks commands whose stderr must stay clean, so logs
// only go to the log file.
const annotationOwnsTerminal = "owns-terminal"

var (
	flagConfig string

	v         = config.New()
	cfg       *config.Config
	logger    = zerolog.Nop()
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "autofix",
	Short: "Scan a repository, find problems, propose fixes and write docs",
	Long: `autofix scans a local folder or a public GitHub repository into a bounded
summary, then asks a local model to analyze it, propose patches and generate
documentation. Run without arguments for the interactive interface.`,
	Annotations:   map[string]string{annotationOwnsTerminal: "true"},
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "config file (default ./autofix.yaml or ~/.config/autofix/config.yaml)")
	pf.String("db", "", "report database path (default ~/.autofix/reports.db)")
	pf.String("ollama", "", "ollama base URL (default http://localhost:11434)")
	pf.String("model", "", "chat model for analysis, fixes and docs (default qwen3:8b)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.Int("max-files", 0, "maximum files per scan (default 100)")
	pf.Bool("no-gitignore", false, "scan files matched by the folder's .gitignore")

	bind("store.path", "db")
	bind("llm.url", "ollama")
	bind("llm.model", "model")
	bind("log.level", "log-level")
	bind("scan.max_files", "max-files")
}

// bind binds a persistent flag to a config key; unset flags leave the key alone.
func bind(key, flag string) {
	if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func setup(cmd *cobra.Command) error {
	var err error
	cfg, err = config.Load(v, flagConfig)
	if err != nil {
		return err
	}
	if noGitignore, _ := cmd.Flags().GetBool("no-gitignore"); noGitignore {
		cfg.Scan.RespectGitignore = false
	}

	logger, logCloser, err = logging.Setup(logging.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Console: cmd.Annotations[annotationOwnsTerminal] == "",
	})
	if err != nil {
		return err
	}
	logger.Debug().Str("command", cmd.Name()).Str("model", cfg.LLM.Model).Msg("starting")
	return nil
}

// fileOnlyLogging moves logging off the terminal before a TUI takes it over.
func fileOnlyLogging() error {
	if logCloser != nil {
		logCloser.Close()
	}
	var err error
	logger, logCloser, err = logging.Setup(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	return err
}

func openStore() (*store.SQLiteStore, error) {
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open report database %s: %w", cfg.Store.Path, err)
	}
	return st, nil
}

func newAssistant() *assistant.Assistant {
	chat := llm.NewOllamaChat(cfg.LLM.URL, cfg.LLM.Model, llm.WithJSON(), llm.WithTimeout(cfg.LLM.Timeout))
	return assistant.New(chat,
		assistant.WithMaxContentChars(cfg.LLM.MaxContentChars),
		assistant.WithLogger(logger),
	)
}

// pipelineConfig builds the runner configuration shared by every command.
// Assistant, Actions and Store are left for the caller.
func pipelineConfig() pipeline.Config {
	return pipeline.Config{
		Scan:   cfg.ScannerConfig(&logger),
		GitHub: github.NewClient(cfg.GitHubOptions()),
		Walk:   walker.Options{RespectGitignore: cfg.Scan.RespectGitignore},
		Logger: logger,
	}
}
