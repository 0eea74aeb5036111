// Command fimdash is a terminal dashboard for the file integrity
// monitoring service: it lists per-file change logs, inspects diff
// metadata and backup history, and drives verification, polling
// interval changes, monitoring deletion and backup rollback.
package main

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/fimwatch/fimdash/internal/api"
	"github.com/fimwatch/fimdash/internal/artifact"
	"github.com/fimwatch/fimdash/internal/backups"
	"github.com/fimwatch/fimdash/internal/config"
	"github.com/fimwatch/fimdash/internal/dashboard"
	"github.com/fimwatch/fimdash/internal/logger"
	"github.com/fimwatch/fimdash/internal/login"
	"github.com/fimwatch/fimdash/internal/logs"
	"github.com/fimwatch/fimdash/internal/session"
)

var (
	// version and buildDate are set via ldflags.
	version   string
	buildDate string
)

const loginTimeout = 5 * time.Minute

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file from the default location.
func loadConfig() (*config.Config, error) {
	path, err := config.DefaultPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.ReadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w (run 'fimdash config init' first)", err)
	}
	return cfg, nil
}

// newLogger initializes zap at the configured level.
func newLogger(level string) (*zap.Logger, error) {
	log := logger.New()
	if err := log.Init(level); err != nil {
		return nil, err
	}
	return log.Log, nil
}

// newDashboard wires the remote client, repositories, session store and
// artifact saver into a Dashboard.
func newDashboard(cfg *config.Config, zl *zap.Logger) *dashboard.Dashboard {
	client := api.New(cfg.ServerURL, nil, zl)
	return dashboard.New(
		client,
		logs.NewRepository(client),
		backups.NewRepository(client),
		session.NewStore(cfg.TokenPath),
		artifact.NewSaver(cfg.DownloadDir),
		zl,
	)
}

var rootCmd = &cobra.Command{
	Use:   "fimdash",
	Short: "Terminal dashboard for the file integrity monitor",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.DefaultDir()
		if err != nil {
			return err
		}
		path, err := config.DefaultPath()
		if err != nil {
			return err
		}

		cfg := config.NewConfig(dir)
		if err := config.Init(path, cfg); err != nil {
			return err
		}

		fmt.Printf("Configuration initialized at %s\n", path)
		fmt.Printf("Server URL:   %s\n", cfg.ServerURL)
		fmt.Printf("Download dir: %s\n", cfg.DownloadDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.DefaultPath()
		if err != nil {
			return err
		}
		cfg, err := config.ReadFromFile(path)
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", path)
		fmt.Printf("Server URL:    %s\n", cfg.ServerURL)
		fmt.Printf("Provider:      %s\n", cfg.Provider)
		fmt.Printf("Token path:    %s\n", cfg.TokenPath)
		fmt.Printf("Download dir:  %s\n", cfg.DownloadDir)
		fmt.Printf("Callback addr: %s\n", cfg.CallbackAddr)
		fmt.Printf("Log level:     %s\n", cfg.LogLevel)
		return nil
	},
}

// login command
var loginManual bool

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Obtain and store an API token",
	Long: "Opens the monitoring service's OAuth entry point in your browser and captures\n" +
		"the token from the post-login redirect. With --manual the token is pasted directly.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		zl, err := newLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		defer func() { _ = zl.Sync() }()

		var token string
		if loginManual {
			fmt.Print("Paste API token: ")
			b, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("read token: %w", err)
			}
			token = strings.TrimSpace(string(b))
			if token == "" {
				return fmt.Errorf("empty token")
			}
		} else {
			fmt.Println("Open the following URL in your browser to log in:")
			fmt.Println()
			fmt.Printf("  %s\n", login.URL(cfg.ServerURL, cfg.Provider, cfg.CallbackAddr))
			fmt.Println()
			fmt.Println("Waiting for the login redirect...")

			ctx, cancel := context.WithTimeout(cmd.Context(), loginTimeout)
			defer cancel()
			token, err = login.Wait(ctx, cfg.CallbackAddr, zl)
			if err != nil {
				return err
			}
		}

		if err := session.NewStore(cfg.TokenPath).Set(token); err != nil {
			return err
		}
		fmt.Println("Logged in.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored API token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := session.NewStore(cfg.TokenPath).Clear(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "List monitored files and their status histogram",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		zl, err := newLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		defer func() { _ = zl.Sync() }()

		d := newDashboard(cfg, zl)
		if err := d.Refresh(cmd.Context()); err != nil {
			return err
		}

		printRecords(os.Stdout, d.Records())
		fmt.Println()
		printHistogram(os.Stdout, d.Histogram())
		return nil
	},
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive dashboard shell",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		zl, err := newLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		defer func() { _ = zl.Sync() }()

		d := newDashboard(cfg, zl)
		if !d.LoggedIn() {
			fmt.Println("Not logged in. Run 'fimdash login' first.")
			return nil
		}
		if err := d.Refresh(cmd.Context()); err != nil {
			fmt.Println("error:", err)
		}
		repl(cmd.Context(), d)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build version and date",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fimdash\nVersion: %s\nBuild Date: %s\n",
			cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
	},
}

func init() {
	loginCmd.Flags().BoolVar(&loginManual, "manual", false, "paste the token instead of using the browser flow")

	configCmd.AddCommand(configInitCmd, configListCmd)
	rootCmd.AddCommand(configCmd, loginCmd, logoutCmd, logsCmd, shellCmd, versionCmd)
}
