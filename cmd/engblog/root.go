package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/eringen/engblog"
)

var (
	cfgFile string
	envFile string
	verbose bool
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "engblog",
	Short: "An engineering blog engine built with Go, Echo, and templ",
	Long: `engblog serves a blog from Markdown posts and author profiles, an optional
admin-managed SQLite store and an optional syndicated feed.

Example usage:
  engblog serve                       # Serve the site from ./content
  engblog new-post "Hello world"      # Create content/blog/hello-world/index.md
  engblog new-author "Jane Doe"       # Create content/authors/jane-doe.md
  engblog tags                        # Print tag and author counts
  engblog init myblog                 # Create a new site skeleton`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initEnv()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default engblog.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(serveCmd, newPostCmd, newAuthorCmd, initCmd, tagsCmd, versionCmd)
}

// initEnv sets up the logger and loads the dotenv file if there is one.
func initEnv() error {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// loadConfig reads the site config from --config, or engblog.yaml in the
// working directory, or the environment alone.
func loadConfig() (engblog.SiteConfig, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("engblog.yaml"); err == nil {
			path = "engblog.yaml"
		}
	}
	cfg, err := engblog.LoadSiteConfig(path)
	if err != nil {
		return engblog.SiteConfig{}, err
	}
	logger.Debug("config loaded", "path", path, "content_dir", cfg.ContentDir, "admin", cfg.AdminEnabled())
	return cfg, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the engblog version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("engblog %s\n", version)
	},
}
