package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"sheet-quiz/internal/config"
	"sheet-quiz/internal/ui"
)

// NewPlayCmd runs the quiz in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var logFile string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), *configPath, logFile)
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file (the terminal is owned by the UI)")
	return cmd
}

func runPlay(ctx context.Context, configPath, logFile string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	var out io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := newLogger(cfg, out)

	d, err := loadDeps(ctx, cfg, logger, true)
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	engine := d.newEngine()
	done := make(chan error, 1)
	go func() { done <- engine.Run(ctx) }()

	err = ui.Run(engine, d.prefs)
	cancel()
	<-done
	return err
}
