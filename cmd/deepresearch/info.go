package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nao1215/deepresearch/internal/model"
	"github.com/nao1215/deepresearch/internal/report"
	"github.com/spf13/cobra"
)

// NewRoadmapCmd creates the roadmap command.
func NewRoadmapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roadmap",
		Short: "Show the product roadmap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, err := cmd.Flags().GetBool("json")
			if err != nil {
				return err
			}

			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(model.Roadmap)
			}

			w := cmd.OutOrStdout()
			for i, phase := range model.Roadmap {
				if i > 0 {
					fmt.Fprintln(w)
				}
				mark := " "
				if phase.Done() {
					mark = "x"
				}
				fmt.Fprintf(w, "[%s] %s (%s)\n", mark, phase.Phase, phase.Status)
				for _, item := range phase.Items {
					fmt.Fprintf(w, "    - %s\n", item)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolP("json", "j", false, "Output the roadmap as JSON")
	return cmd
}

// NewAboutCmd creates the about command.
func NewAboutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "about",
		Short: "About DeepResearch and the founder photo",
		Long: `About prints information about DeepResearch.

With --photo, the given image becomes the founder photo shown on the About
page. Its EXIF metadata is audited first: photos that embed GPS coordinates
are refused unless photo.rejectGPS is false in the configuration file.

Examples:
  deepresearch about
  deepresearch about --photo founder.jpg`,
		Args: cobra.NoArgs,
		RunE: runAboutCmd,
	}
	cmd.Flags().String("photo", "", "Upload an image file as the founder photo")
	return cmd
}

// runAboutCmd executes the about command.
func runAboutCmd(cmd *cobra.Command, _ []string) error {
	photoPath, err := cmd.Flags().GetString("photo")
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg)
	env, err := newEnvironment(cmd.Context(), cfg, logger, model.ViewAbout.Path())
	if err != nil {
		return err
	}
	defer env.Close()

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "DeepResearch %s\n", getVersion())
	fmt.Fprintln(w, "Built by a founder who lost one deal too many to a competitor nobody had researched.")

	if photoPath == "" {
		if env.state.HasPhoto {
			fmt.Fprintln(w, "\nFounder photo: uploaded")
		} else {
			fmt.Fprintln(w, "\nFounder photo: none (use --photo to upload one)")
		}
		return nil
	}

	data, err := os.ReadFile(photoPath) //nolint:gosec // User-provided photo path is intentional
	if err != nil {
		return fmt.Errorf("failed to read photo: %w", err)
	}

	audit, err := env.ctrl.UploadPhoto(cmd.Context(), data)
	if audit != nil {
		fmt.Fprintln(w)
		if _, werr := report.NewSimpleWriter(w).WritePhotoAudit(audit); werr != nil {
			return werr
		}
	}
	if err != nil {
		return fmt.Errorf("founder photo refused: %w", err)
	}

	fmt.Fprintln(w, "Founder photo updated.")
	return nil
}
