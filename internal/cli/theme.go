package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"sheet-quiz/internal/config"
)

// NewThemeCmd reads or flips the stored light/dark preference.
func NewThemeCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show the stored theme",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTheme(cmd.Context(), cmd.OutOrStdout(), *configPath, false)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the stored theme",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTheme(cmd.Context(), cmd.OutOrStdout(), *configPath, false)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTheme(cmd.Context(), cmd.OutOrStdout(), *configPath, true)
		},
	})
	return cmd
}

func runTheme(ctx context.Context, out io.Writer, configPath string, toggle bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	d, err := loadDeps(ctx, cfg, newLogger(cfg, os.Stderr), false)
	if err != nil {
		return err
	}
	defer d.Close()

	theme := d.prefs.Theme(ctx)
	if toggle {
		if theme, err = d.prefs.ToggleTheme(ctx); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(out, theme)
	return err
}
