package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for DeepResearch.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deepresearch",
		Short: "Competitive intelligence battlecards for sales teams",
		Long: `DeepResearch scans a competitor's website with a grounded generative model
and turns it into a sales battlecard: overview, strengths and weaknesses, key
features, pricing and a kill script with objection handlers.

Scans require an active license. Redeem a key with 'deepresearch redeem' or
buy one with 'deepresearch upgrade'. The Gemini API key is read from
GEMINI_API_KEY, API_KEY or the configuration file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .deepresearch in current or home directory)")
	cmd.PersistentFlags().String("db-dir", "",
		"Directory of the local database (default: XDG data directory)")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewNewsCmd())
	cmd.AddCommand(NewRebuttalsCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewRedeemCmd())
	cmd.AddCommand(NewSignOutCmd())
	cmd.AddCommand(NewWhoAmICmd())
	cmd.AddCommand(NewUpgradeCmd())
	cmd.AddCommand(NewRoadmapCmd())
	cmd.AddCommand(NewAboutCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
