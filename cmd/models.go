package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tubeseo/tubeseo/internal/models"
)

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List supported image models, aspect ratios and languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printOptions(cmd.OutOrStdout())
		},
	}
}

func printOptions(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Image models:"); err != nil {
		return err
	}
	for i, m := range models.ImageModels() {
		var notes string
		if i == 0 {
			notes = " (default)"
		}
		if m.Premium() {
			notes += " (premium, needs a paid key)"
		}
		fmt.Fprintf(w, "  %-28s %s%s\n", m, m.Family(), notes)
	}

	fmt.Fprintln(w, "Aspect ratios:")
	for _, r := range models.AspectRatios() {
		fmt.Fprintf(w, "  %s\n", r)
	}

	fmt.Fprintln(w, "Languages:")
	for _, l := range models.Languages() {
		fmt.Fprintf(w, "  %s\n", l)
	}
	return nil
}
