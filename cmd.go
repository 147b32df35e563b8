package main

import (
	"strings"

	"github.com/spf13/cobra"

	"entrylog/internal/api"
	"entrylog/internal/config"
)

type recordFlags struct {
	from string
	to   string
	pick bool
}

func SetupCommands(a *App) *cobra.Command {
	var opts Options

	// root command
	rootCmd := &cobra.Command{
		Use:           "entrylog",
		Short:         "Record entries and exits and keep an eye on who is in",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.Init(opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "Config file (default ~/.config/entrylog/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.BaseURL, "url", "", "Base URL of the entry/exit service")
	rootCmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	// completes person names from the configured people list
	completeNames := func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		path := opts.ConfigPath
		if path == "" {
			path = config.DefaultPath()
		}
		cfg, err := config.Load(path)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return cfg.People, cobra.ShellCompDirectiveNoFileComp
	}

	newRecordCmd := func(entryType, short string) *cobra.Command {
		var flags recordFlags

		cmd := &cobra.Command{
			Use:               entryType + " [name]",
			Short:             short,
			ValidArgsFunction: completeNames,
			Run: func(cmd *cobra.Command, args []string) {
				name := strings.Join(args, " ")

				a.Record(cmd.Context(), entryType, name, flags.from, flags.to, flags.pick)
			},
		}

		cmd.Flags().StringVar(&flags.from, "from", "", "Place coming from")
		cmd.Flags().StringVar(&flags.to, "to", "", "Place going to")
		cmd.Flags().BoolVarP(&flags.pick, "pick", "p", false, "Choose the name from the configured people")
		return cmd
	}

	// command for listing entries, newest first
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show all entries",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			a.List(cmd.Context())
		},
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show totals of entries, exits and hours",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			a.Stats(cmd.Context())
		},
	}

	var deleteYes bool
	deleteCmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete one entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Delete(cmd.Context(), args[0], deleteYes)
		},
	}
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip confirmation prompt")

	var clearYes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all entries",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			a.Clear(cmd.Context(), clearYes)
		},
	}
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Skip confirmation prompt")

	// interactive session that keeps the list and stats fresh
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Interactive session with periodic refresh",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Watch(cmd.Context())
		},
	}

	// add commands
	rootCmd.AddCommand(
		newRecordCmd(api.TypeEntry, "Record an entry"),
		newRecordCmd(api.TypeExit, "Record an exit"),
		listCmd,
		statsCmd,
		deleteCmd,
		clearCmd,
		watchCmd,
	)

	return rootCmd
}
