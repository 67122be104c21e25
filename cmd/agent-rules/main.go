package main

import (
	"fmt"
	"os"

	"github.com/michael-freling/agent-rules/internal/config"
	"github.com/michael-freling/agent-rules/internal/hooks"
	"github.com/michael-freling/agent-rules/internal/policy"
	"github.com/michael-freling/agent-rules/internal/rules"
	"github.com/michael-freling/agent-rules/internal/telemetry"
	"github.com/spf13/cobra"
)

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "agent-rules",
		Short: "Allow, deny or ask about coding agent tool calls from a rules file",
		Long: `A PreToolUse hook for coding agents. Each tool call is checked against the
regular expressions in agent-rules.yaml and answered with allow, deny or ask.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "settings file")

	rootCmd.AddCommand(newPreToolUseCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newInitCmd())

	return rootCmd
}

func loadSettings() (*config.Settings, error) {
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

func newPreToolUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pre-tool-use [rules-file]",
		Short: "Evaluate rules before tool execution",
		Long: `Reads a tool call from stdin as JSON and writes the permission decision to
stdout. Without a rules file argument, the rules file is looked up in the
working directory of the agent.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			verdict, err := policy.ParseVerdict(settings.DefaultDecision)
			if err != nil {
				return err
			}

			rulesFile := settings.RulesFile
			if len(args) == 1 {
				rulesFile = args[0]
			}

			runner := hooks.NewRunner(
				rules.NewFileLoader(settings.RuleFileNames...),
				hooks.WithRulesFile(rulesFile),
				hooks.WithLogger(telemetry.NewLogger(settings.Log.Level, settings.Log.Format, cmd.ErrOrStderr())),
				hooks.WithEngineOptions(
					policy.WithDefault(verdict),
					policy.WithCommandTools(settings.CommandTools...),
					policy.WithPathArguments(settings.PathArguments...),
				),
			)
			if _, err := runner.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("failed to run hook: %w", err)
			}
			return nil
		},
	}
}
