package main

import (
	"fmt"
	"os"

	"pelicanstore/pkg/config"
	"pelicanstore/pkg/credential"
	"pelicanstore/pkg/federation"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configFile string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pelicanstore",
		Short: "Pelican federation storage query tooling",
		Long: `Resolve Pelican/OSDF object queries to canonical URLs and credentials.
Queries use pelican://host/path or the legacy osdf:///path form; credentials
are selected by longest matching URL prefix from the token mapping config.`,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.AddCommand(
		normalizeCmd(),
		validateCmd(),
		resolveCmd(),
		mappingsCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadSettings reads the config file when --config is given, otherwise
// falls back to PELICAN_* environment variables.
func loadSettings() (*config.Settings, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	return config.LoadFromEnv(), nil
}

func normalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <query>",
		Short: "Print the canonical pelican:// form of a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			fmt.Println(federation.CanonicalizeWithHost(args[0], settings.Host()))
			return nil
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <query>",
		Short: "Check that a query is structurally valid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := federation.ValidateQuery(args[0])
			if !result.Valid {
				return fmt.Errorf("invalid query: %s", result.Reason)
			}
			fmt.Println("valid")
			return nil
		},
	}
}

func resolveCmd() *cobra.Command {
	var printToken bool

	cmd := &cobra.Command{
		Use:   "resolve <query>",
		Short: "Resolve which credential applies to a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger(verbose)
			defer logger.Sync()

			settings, err := loadSettings()
			if err != nil {
				return err
			}

			query := args[0]
			if result := federation.ValidateQuery(query); !result.Valid {
				return fmt.Errorf("invalid query: %s", result.Reason)
			}

			table, err := credential.ParseMappings(settings.TokenConfig, settings.Host())
			if err != nil {
				return fmt.Errorf("failed to parse token mappings: %w", err)
			}

			mapping, ok := table.Lookup(query)
			if !ok {
				return fmt.Errorf("no credential mapping matches %s", query)
			}

			logger.Debug("resolved mapping",
				zap.String("query", query),
				zap.String("prefix", mapping.Prefix),
				zap.String("token_path", mapping.TokenPath))

			if printToken {
				token, err := table.ResolveToken(query)
				if err != nil {
					return err
				}
				// Raw token bytes, exactly as stored.
				fmt.Print(token)
				return nil
			}

			prefix := mapping.Prefix
			if prefix == "" {
				prefix = "(default)"
			}
			fmt.Printf("prefix: %s\ntoken file: %s\n", prefix, mapping.TokenPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&printToken, "print-token", false, "print the token content instead of the file path")
	return cmd
}

func mappingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mappings",
		Short: "Show the parsed credential mapping table",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}

			table, err := credential.ParseMappings(settings.TokenConfig, settings.Host())
			if err != nil {
				return fmt.Errorf("failed to parse token mappings: %w", err)
			}

			fmt.Println(renderMappings(settings.Host(), table))
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Pelican Storage Tooling v0.1.0")
		},
	}
}

func setupLogger(verbose bool) *zap.Logger {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, _ := config.Build()
	return logger
}
