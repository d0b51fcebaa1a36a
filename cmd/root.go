// Package cmd defines the jjsum command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/adrg/xdg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matharman/jjsum/config"
	"github.com/matharman/jjsum/interactive"
	"github.com/matharman/jjsum/jj"
	"github.com/matharman/jjsum/ui"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagInteractive bool
	flagRepo        string
	flagNoWatch     bool
	flagConfigPath  string
	flagNoConfig    bool
)

var rootCmd = &cobra.Command{
	Use:   "jjsum",
	Short: "Change summary viewer for jj repositories",
	Long: `jjsum shows the working-copy changes of a Jujutsu repository as a
categorized file list with expandable per-file diffs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the jjsum version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("jjsum " + version)
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "run the quick-action menu instead of the full view")
	rootCmd.Flags().StringVar(&flagRepo, "repo", ".", "repository directory")
	rootCmd.Flags().BoolVar(&flagNoWatch, "no-watch", false, "disable filesystem auto-refresh")
	rootCmd.Flags().StringVar(&flagConfigPath, "config", "", "config file path")
	rootCmd.Flags().BoolVar(&flagNoConfig, "no-config", false, "skip loading any config file")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(xdg.ConfigHome, flagConfigPath, flagNoConfig)
	if err != nil {
		return err
	}

	if cfg.LogFile != nil {
		level := ""
		if cfg.LogLevel != nil {
			level = *cfg.LogLevel
		}
		if err := jj.InitExecLog(*cfg.LogFile, level); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
		}
	}

	binary := ""
	if cfg.JJBinary != nil {
		binary = *cfg.JJBinary
	}
	client := jj.NewClient(flagRepo, binary)

	if flagInteractive {
		return interactive.Run(cmd.Context(), client)
	}

	watch := true
	if cfg.Watch != nil {
		watch = *cfg.Watch
	}
	if flagNoWatch {
		watch = false
	}

	var watcher *fsnotify.Watcher
	if watch {
		watcher, err = ui.NewRepoWatcher(flagRepo)
		if err != nil {
			// Auto-refresh is a convenience; run without it.
			fmt.Fprintf(os.Stderr, "Warning: filesystem watch unavailable: %v\n", err)
			watcher = nil
		}
	}

	app := ui.NewApp(client, watcher)
	app.SetLogger(jj.Logger())
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
