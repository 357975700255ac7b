package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stencilgen/stencil/internal/config"
)

var (
	cfgFile     string
	appCfg      *config.Config
	configPath  string
	projectRoot string
	logger      *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "stencil",
	Short: "stencil builds a static HTML site from Markdown content",
	Long: `stencil reads Markdown files with YAML front matter from the content
directory, renders them through the configured layouts and writes the
resulting HTML plus static assets to the output directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd.Context())
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.Flags().BoolVar(&watchMode, "watch", false, "rebuild when content, templates, static files or the config change")
	rootCmd.Flags().BoolVar(&serveMode, "serve", false, "serve the output directory over HTTP while running")
	rootCmd.Flags().IntVar(&portOverride, "port", 0, "dev server port (overrides the config)")
}

// initializeConfig locates the YAML document via viper (flag, then the
// project root), loads it with defaults-merge semantics and applies
// environment overrides.
func initializeConfig() error {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}
	projectRoot = root

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(root)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("STENCIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Discovery only; a missing or broken file is handled by config.Load.
	_ = v.ReadInConfig()
	configPath = v.ConfigFileUsed()
	if configPath == "" {
		if cfgFile != "" {
			configPath = cfgFile
		} else {
			configPath = filepath.Join(root, "config.yaml")
		}
	}

	cfg, err := config.Load(configPath, projectRoot, logger)
	if err != nil {
		return err
	}

	if v.IsSet("server.port") {
		cfg.Server.Port = v.GetInt("server.port")
	}
	if v.IsSet("site.baseURL") {
		cfg.Site.BaseURL = v.GetString("site.baseURL")
	}
	if portOverride != 0 {
		cfg.Server.Port = portOverride
	}

	appCfg = cfg
	return nil
}
