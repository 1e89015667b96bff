package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"griddesk/cmd/griddesk/console"
	"griddesk/internal/api"
	"griddesk/internal/cache"
	"griddesk/internal/config"
	"griddesk/internal/logging"
	"griddesk/internal/notify"
)

var (
	version = "0.3.0"

	// Global flags
	verbose    bool
	configPath string

	logger *zap.Logger
)

// rootCmd launches the interactive console when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "griddesk",
	Short: "griddesk - terminal back-office for the solar fleet",
	Long: `griddesk is the asset-management back-office in your terminal.

Browse sites, review their compliance, lease, offtaker, tax equity and
vendor records, and edit any card in place. Every save issues a single
partial update and refreshes the site from the backend.

Run without arguments to start the interactive console.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The console has its own UI; zap is for the one-shot commands.
		if cmd.CalledAs() == "griddesk" {
			return nil
		}
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsole()
	},
}

// sitesCmd prints the site list.
var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List sites",
	RunE:  listSites,
}

// pullCmd prefetches one site into the snapshot cache.
var pullCmd = &cobra.Command{
	Use:   "pull [site-id]",
	Short: "Fetch a site aggregate and its devices into the local cache",
	Args:  cobra.ExactArgs(1),
	RunE:  pullSite,
}

// cacheCmd groups the cache maintenance commands.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Snapshot cache maintenance",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached snapshot",
	RunE:  clearCache,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the griddesk version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("griddesk %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.griddesk/config.yaml)")

	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(sitesCmd, pullCmd, cacheCmd, versionCmd)
}

func loadConfig() (config.Config, string, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	return cfg, path, err
}

func newClient(cfg config.Config) *api.Client {
	return api.NewClient(cfg.API.BaseURL, cfg.API.Token, cfg.APITimeout())
}

func runConsole() error {
	cfg, path, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logging.Initialize(config.HomeDir(), logging.Options{
		DebugMode:  cfg.Logging.DebugMode,
		Level:      cfg.Logging.Level,
		Categories: cfg.Logging.Categories,
	}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.CloseAll()

	store, err := cache.NewStore(cachePath(cfg))
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer store.Close()

	watcher, err := config.Watch(path)
	if err != nil {
		// A missing watcher only disables live reload.
		logging.Boot("config watcher unavailable: %v", err)
		watcher = nil
	}
	if watcher != nil {
		defer watcher.Close()
	}

	model := console.New(console.Options{
		Config:   cfg,
		Client:   newClient(cfg),
		Cache:    store,
		Notifier: notify.NewCenter(50),
		Watcher:  watcher,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func listSites(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	sites, err := client.ListSites(context.Background())
	if err != nil {
		logger.Error("failed to list sites", zap.Error(err))
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS")
	for _, s := range sites {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.Name, s.Status)
	}
	return w.Flush()
}

func pullSite(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	siteID := args[0]

	store, err := cache.NewStore(cachePath(cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	client := newClient(cfg)
	page, err := client.GetSitePage(context.Background(), siteID)
	if err != nil {
		logger.Error("failed to fetch site", zap.String("site_id", siteID), zap.Error(err))
		return err
	}

	if err := console.StorePage(store, siteID, page); err != nil {
		return err
	}
	logger.Info("site cached",
		zap.String("site_id", siteID),
		zap.String("name", page.Site.Name),
		zap.Int("devices", len(page.Devices)))
	fmt.Printf("cached %s (%d devices)\n", page.Site.Name, len(page.Devices))
	return nil
}

func clearCache(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := cache.NewStore(cachePath(cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Println("cache cleared")
	return nil
}

func cachePath(cfg config.Config) string {
	if cfg.Cache.Path != "" {
		return cfg.Cache.Path
	}
	return filepath.Join(config.HomeDir(), "cache.db")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
