package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	configPath  string
	catalogPath string
	logDir      string
	verbose     bool
}

// loads config, applies flag overrides on top of file and environment
func (o *rootOptions) config() (*Config, error) {
	cfg, err := LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.catalogPath != "" {
		cfg.CatalogPath = o.catalogPath
	}
	if o.logDir != "" {
		cfg.LogDir = o.logDir
	}
	return cfg, nil
}

func SetupCommands() *cobra.Command {
	opts := &rootOptions{}

	var (
		a      *App
		logger *zap.Logger
	)

	// completes food names from the catalog, hooks do not run during completion
	completeFoods := func(suffix string, directive cobra.ShellCompDirective) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			cfg, err := opts.config()
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			catalog, err := LoadCatalog(cfg.CatalogPath)
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}

			var names []string
			for _, name := range catalog.Filter(toComplete) {
				if strings.HasPrefix(strings.ToLower(name), strings.ToLower(toComplete)) {
					names = append(names, name+suffix)
				}
			}
			return names, directive
		}
	}

	// root command
	rootCmd := &cobra.Command{
		Use:           "protrack",
		Short:         "A protein tracking CLI application",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}

			logger, err = NewLogger(cfg.Logging.Level, opts.verbose)
			if err != nil {
				return err
			}

			a, err = NewApp(cfg, logger, cmd.OutOrStdout())
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", DefaultConfigPath(), "path to config file")
	rootCmd.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "path to food catalog (json or yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.logDir, "log-dir", "", "directory for log files")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	// command for listing foods, optionally filtered by name
	foodsCmd := &cobra.Command{
		Use:               "foods [query]",
		Short:             "List foods in the catalog",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeFoods("", cobra.ShellCompDirectiveNoFileComp),
		RunE: func(cmd *cobra.Command, args []string) error {
			var query string
			if len(args) > 0 {
				query = args[0]
			}

			return a.ListFoods(query)
		},
	}

	// command for a one-shot calculation
	var (
		target string
		foods  []string
		save   bool
	)
	calcCmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate protein eaten and remaining for the day",
		Example: `  protrack calc --target 150 --food banana=200 --food "chicken breast=150"
  protrack calc -t 150 -f banana=200 --save`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Calculate(target, foods, save)
		},
	}
	calcCmd.Flags().StringVarP(&target, "target", "t", "", "daily protein target in grams")
	calcCmd.Flags().StringArrayVarP(&foods, "food", "f", nil, "food eaten as name=grams, repeatable")
	calcCmd.Flags().BoolVar(&save, "save", false, "also save the result under a timestamped name")
	_ = calcCmd.RegisterFlagCompletionFunc("food", completeFoods("=", cobra.ShellCompDirectiveNoSpace))

	// command for the interactive tracker
	trackCmd := &cobra.Command{
		Use:   "track",
		Short: "Pick foods and amounts interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session := NewSession(a.tracker, menuPicker{}, cmd.InOrStdin(), cmd.OutOrStdout())
			return session.Run()
		},
	}

	// command for printing the latest calculation
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the latest calculation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Show()
		},
	}

	// command for listing timestamped saves
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List saved calculations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.History()
		},
	}

	// command group for the config file, runs without loading the catalog
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}

	// command for writing a default config file
	var force bool
	configInitCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file to --config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(opts.configPath); err == nil && !force {
				return fmt.Errorf("config %s already exists, use --force to overwrite", opts.configPath)
			}

			cfg := DefaultConfig()
			if opts.catalogPath != "" {
				cfg.CatalogPath = opts.catalogPath
			}
			if opts.logDir != "" {
				cfg.LogDir = opts.logDir
			}
			if err := cfg.Save(opts.configPath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote config to %s\n", opts.configPath)
			return nil
		},
	}
	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)

	// add commands
	rootCmd.AddCommand(foodsCmd)
	rootCmd.AddCommand(calcCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)

	return rootCmd
}
