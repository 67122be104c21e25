package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/michael-freling/agent-rules/internal/rules"
	"github.com/michael-freling/agent-rules/internal/scaffold"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [rules-file]",
		Short: "Check a rules file and print its rules in evaluation order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			loader := rules.NewFileLoader(settings.RuleFileNames...)

			path := settings.RulesFile
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("failed to get working directory: %w", err)
				}
				if path, err = loader.Find(cwd); err != nil {
					return err
				}
			}

			store, err := loader.Load(cmd.Context(), path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d rules\n", path, store.Len())
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, rule := range store.Rules() {
				subject := rule.Pattern
				if rule.Path != "" {
					subject = "path " + rule.Path
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", rule.Name(), verdictOf(rule.Kind), subject)
			}
			return w.Flush()
		},
	}
}

func verdictOf(kind rules.Kind) string {
	switch {
	case kind.IsDeny():
		return "deny"
	case kind == rules.KindToolAsk:
		return "ask"
	default:
		return "allow"
	}
}

func newInitCmd() *cobra.Command {
	var (
		preset  string
		dir     string
		protect []string
		force   bool
		list    bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter rules file",
		Long:  `Write a rules file rendered from a preset. Use --list to show the available presets.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := scaffold.NewEngine()
			if err != nil {
				return fmt.Errorf("failed to create scaffold engine: %w", err)
			}

			if list {
				for _, name := range engine.List() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}

			settings, err := loadSettings()
			if err != nil {
				return err
			}

			content, err := engine.Render(preset, scaffold.Data{ProtectedPaths: protect})
			if err != nil {
				return err
			}

			target := filepath.Join(dir, settings.RuleFileNames[0])
			if err := scaffold.WriteFile(cmd.Context(), target, content, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&preset, "preset", "p", scaffold.DefaultPreset, "preset to render")
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "directory to write the rules file to")
	cmd.Flags().StringSliceVar(&protect, "protect", nil, "paths the agent must not edit, relative to --dir")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing rules file")
	cmd.Flags().BoolVar(&list, "list", false, "list the available presets")

	return cmd
}
