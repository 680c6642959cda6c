package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/snaptic/go-snaptic/internal/config"
	"github.com/snaptic/go-snaptic/internal/db"
	"github.com/snaptic/go-snaptic/internal/db/mongodb"
	"github.com/snaptic/go-snaptic/internal/db/sqlite"
	"github.com/snaptic/go-snaptic/internal/logger"
	"github.com/snaptic/go-snaptic/internal/models"
	"github.com/snaptic/go-snaptic/internal/scheduler"
	"github.com/snaptic/go-snaptic/internal/services"
	"github.com/snaptic/go-snaptic/internal/snaptic"
)

var (
	cfgFile      string
	verbose      bool
	cfg          *config.Config
	store        db.Store
	client       *snaptic.Client
	sched        *scheduler.Scheduler
	syncService  *services.SyncService
	statsService *services.StatsService
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "snaptic",
	Short: "Client and check runner for the Snaptic notes API",
	Long: `Snaptic is a command line client for the Snaptic notes service.

It keeps a local cache of your notes and tags, lets you create, edit and
delete notes, attach images, and runs acceptance checks against the host
configured in your config.ini.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			logger.SetLevel(logger.DEBUG)
		}

		// init, help and shell completion must work before a config exists
		switch cmd.Name() {
		case "init", "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return nil
		}

		// Load configuration
		if cfgFile == "" {
			cfgFile = config.GetConfigPath()
		}

		if !config.Exists(cfgFile) {
			return fmt.Errorf("configuration file not found. Run 'snaptic init' to create one")
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		// Initialize API client
		client = buildClient(cfg)

		// Initialize cache store
		store, err = newStore(cfg)
		if err != nil {
			return fmt.Errorf("failed to create cache store: %w", err)
		}
		if err := store.Connect(context.Background()); err != nil {
			return fmt.Errorf("failed to connect to cache: %w", err)
		}

		// Initialize services
		syncService = services.NewSync(store, client)
		statsService = services.NewStats(store)
		sched = scheduler.New(store, client)

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			return store.Disconnect(context.Background())
		}
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.snaptic/config.ini)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Disable completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Add subcommands
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(imageCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(schedulerCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(migrateCmd)
}

// buildClient creates the API client from configuration
func buildClient(cfg *config.Config) *snaptic.Client {
	useSSL := cfg.API.UseSSL
	opts := &snaptic.Options{
		Host:         cfg.API.Host,
		Port:         cfg.API.Port,
		UseSSL:       &useSSL,
		Timeout:      time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		RateLimitRPS: cfg.API.RateLimitRPS,
	}

	if cfg.Auth.Username != "" && cfg.Auth.Password != "" {
		return snaptic.New(cfg.Auth.Username, cfg.Auth.Password, opts)
	}
	return snaptic.NewWithCookie(cfg.Auth.CookieEpass, opts)
}

// newStore creates the cache store for the configured provider
func newStore(cfg *config.Config) (db.Store, error) {
	cacheConfig := &models.CacheConfig{
		Provider: cfg.Cache.Provider,
		URI:      cfg.Cache.URI,
		Database: cfg.Cache.Database,
	}

	switch cacheConfig.Provider {
	case "sqlite", "":
		return sqlite.New(cacheConfig)
	case "mongodb":
		return mongodb.New(cacheConfig)
	default:
		return nil, fmt.Errorf("unsupported cache provider: %s", cacheConfig.Provider)
	}
}
