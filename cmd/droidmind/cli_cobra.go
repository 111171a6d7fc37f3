package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func executeCLI() error {
	return buildRootCommand().Execute()
}

func buildRootCommand() *cobra.Command {
	var showVersion bool

	root := &cobra.Command{
		Use:   "droidmind",
		Short: "Voice assistant core with a local profile memory and skill routing",
		Long: strings.TrimSpace(`droidmind is the headless core of a voice-driven assistant.

It keeps a local action log and user profile, routes utterances to built-in
skills or an LLM fallback, and can serve remote sessions over Discord.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				printVersion()
				return nil
			}
			_ = cmd.Help()
			return fmt.Errorf("a subcommand is required")
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.Flags().BoolVarP(&showVersion, "version", "v", false, "Show build/version metadata")

	root.AddCommand(newOnboardCommand())
	root.AddCommand(newAssistantCommand())
	root.AddCommand(newGatewayCommand())
	root.AddCommand(newStatusCommand())
	root.AddCommand(newProfileCommand())
	root.AddCommand(newLogCommand())
	root.AddCommand(newSyncCommand())
	root.AddCommand(newVersionCommand())

	return root
}

func newOnboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "onboard",
		Short:   "Initialize ~/.droidmind config and workspace",
		Example: "  droidmind onboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return onboard()
		},
	}
}

func newAssistantCommand() *cobra.Command {
	var (
		message string
		debug   bool
	)

	cmd := &cobra.Command{
		Use:   "assistant",
		Short: "Chat with the assistant locally (CLI mode)",
		Long:  "Run an interactive local session or send a one-shot utterance without Discord.",
		Example: strings.Join([]string{
			"  droidmind assistant",
			"  droidmind assistant --message \"想吃火锅\"",
			"  droidmind assistant --message \"/profile\"",
		}, "\n"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return assistantRun(message, debug)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "One-shot utterance to process")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	return cmd
}

func newGatewayCommand() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:     "gateway",
		Short:   "Run the Discord gateway with the heartbeat worker",
		Long:    "Start channel adapters, the memory-backed interaction loop, and the scheduled maintenance worker.",
		Example: "  droidmind gateway --debug",
		RunE: func(cmd *cobra.Command, args []string) error {
			return gatewayRun(debug)
		},
	}

	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   "Show configuration and runtime readiness",
		Example: "  droidmind status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return statusRun()
		},
	}
}

func newProfileCommand() *cobra.Command {
	profileRoot := &cobra.Command{
		Use:   "profile",
		Short: "Inspect or reset the persisted user profile",
	}

	profileRoot.AddCommand(&cobra.Command{
		Use:     "show",
		Short:   "Print the aggregated profile",
		Example: "  droidmind profile show",
		RunE: func(cmd *cobra.Command, args []string) error {
			return profileShow()
		},
	})

	profileRoot.AddCommand(&cobra.Command{
		Use:     "reset",
		Short:   "Drop the persisted profile",
		Example: "  droidmind profile reset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return profileReset()
		},
	})

	return profileRoot
}

func newLogCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "log",
		Short:   "List recent action log entries, newest first",
		Example: "  droidmind log --limit 20",
		RunE: func(cmd *cobra.Command, args []string) error {
			return logList(limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show")
	return cmd
}

func newSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "sync [platform]",
		Short:     "Crawl a delivery platform and rebuild the profile",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"meituan", "eleme"},
		Example: strings.Join([]string{
			"  droidmind sync",
			"  droidmind sync eleme",
		}, "\n"),
		RunE: func(cmd *cobra.Command, args []string) error {
			platform := "meituan"
			if len(args) == 1 {
				platform = args[0]
			}
			return syncRun(platform)
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Show build/version metadata",
		Example: "  droidmind version",
		RunE: func(cmd *cobra.Command, args []string) error {
			printVersion()
			return nil
		},
	}
}
