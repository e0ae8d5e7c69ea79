package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/ThatOtherAndrew/fragview/internal/logx"
	"github.com/ThatOtherAndrew/fragview/internal/shaders"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "fragview",
	Short: "Live preview for GLSL fragment shaders",
	Long: `fragview renders a fragment shader over the whole window, recompiles it
whenever the file changes and lets you orbit, zoom and scrub through time.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logx.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logx.SetLogger(logx.New(os.Stderr, level))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "settings file (default ~/.config/fragview/settings.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "diagnostic log level: debug, info, warn or error")
}

// Execute runs the command line and exits non-zero on failure. Shader
// diagnostics have already been printed by the time they surface here.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var compileErr *shaders.CompileError
		var linkErr *shaders.LinkError
		if !errors.As(err, &compileErr) && !errors.As(err, &linkErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
