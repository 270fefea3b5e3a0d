package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/keyflight/selfupdate"
	"github.com/spf13/cobra"
)

func newCheckCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check whether a newer release is published",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			up, cfg, err := opts.newUpdater()
			if err != nil {
				return err
			}
			info, err := up.CheckForUpdate(cmd.Context(), cfg.Check.Timeout)
			if err != nil {
				return err
			}
			printRelease(cmd.OutOrStdout(), info)
			return nil
		},
	}
}

func printRelease(out io.Writer, info *selfupdate.ReleaseInfo) {
	fmt.Fprintln(out, labelStyle.Render("Installed version:")+info.CurrentVersion)
	if !info.HasDownload() {
		fmt.Fprintln(out, warningStyle.Render(info.ReleaseNotes))
		fmt.Fprintln(out, labelStyle.Render("Releases:")+info.DetailsURL)
		return
	}
	fmt.Fprintln(out, labelStyle.Render("Latest version:")+info.LatestVersion)
	if !info.Available {
		fmt.Fprintln(out, successStyle.Render("The configurator is up to date"))
		return
	}
	fmt.Fprintln(out, titleStyle.Render("A new version is available"))
	fmt.Fprintln(out, labelStyle.Render("Release notes:"))
	fmt.Fprintln(out, renderNotes(info.ReleaseNotes))
	fmt.Fprintln(out, labelStyle.Render("Details:")+info.DetailsURL)
}

// renderNotes formats the markdown release notes for the terminal
func renderNotes(notes string) string {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
	if err == nil {
		if rendered, err := renderer.Render(notes); err == nil {
			return strings.TrimRight(rendered, "\n")
		}
	}
	return notesStyle.Render(notes)
}
