package main

import (
	"fmt"
	"io"

	"github.com/nao1215/deepresearch/internal/app"
	"github.com/nao1215/deepresearch/internal/model"
	"github.com/spf13/cobra"
)

// NewRedeemCmd creates the redeem command.
func NewRedeemCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "redeem [license-key]",
		Short: "Activate a license key",
		Long: `Redeem verifies a license key and stores it locally. An active license
unlocks unlimited scans. Use 'deepresearch upgrade' to buy a key.

Examples:
  deepresearch redeem SUMO-1001`,
		Args: cobra.ExactArgs(1),
		RunE: runRedeemCmd,
	}
}

// runRedeemCmd executes the redeem command.
func runRedeemCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg)
	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	env, err := newEnvironment(ctx, cfg, logger, model.ViewLanding.Path())
	if err != nil {
		return err
	}
	defer env.Close()

	fmt.Fprintln(cmd.OutOrStdout(), "Verifying license key...")
	state, err := env.ctrl.Redeem(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "License activated. Welcome aboard!")
	writeUser(cmd.OutOrStdout(), state)
	return nil
}

// NewSignOutCmd creates the signout command.
func NewSignOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Remove the stored license key",
		Args:  cobra.NoArgs,
		RunE:  runSignOutCmd,
	}
}

// runSignOutCmd executes the signout command.
func runSignOutCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg)
	env, err := newEnvironment(cmd.Context(), cfg, logger, model.ViewLanding.Path())
	if err != nil {
		return err
	}
	defer env.Close()

	if _, err := env.ctrl.SignOut(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Signed out. The stored license key was removed.")
	return nil
}

// NewWhoAmICmd creates the whoami command.
func NewWhoAmICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE:  runWhoAmICmd,
	}
}

// runWhoAmICmd executes the whoami command.
func runWhoAmICmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg)
	env, err := newEnvironment(cmd.Context(), cfg, logger, model.ViewLanding.Path())
	if err != nil {
		return err
	}
	defer env.Close()

	writeUser(cmd.OutOrStdout(), env.state)
	if !env.state.Subscribed() {
		fmt.Fprintln(cmd.OutOrStdout(), "\nRedeem a license key with 'deepresearch redeem <key>' to unlock scans.")
	}
	return nil
}

// writeUser prints the session summary shown in the dashboard header.
func writeUser(w io.Writer, state app.State) {
	user := state.User
	fmt.Fprintf(w, "User:     %s\n", user.Name)
	fmt.Fprintf(w, "Tier:     %s\n", user.Tier)
	fmt.Fprintf(w, "Credits:  %s\n", user.Credits)
	fmt.Fprintf(w, "Scans:    %d in history\n", len(state.History))
}

// NewUpgradeCmd creates the upgrade command.
func NewUpgradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Print the checkout link for a lifetime license",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "Get lifetime access to DeepResearch:")
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", model.CheckoutURL)
			fmt.Fprintln(cmd.OutOrStdout(), "\nThen run 'deepresearch redeem <key>' with the key from your receipt.")
		},
	}
}
