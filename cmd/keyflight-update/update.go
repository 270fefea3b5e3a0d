package main

import (
	"errors"
	"fmt"

	"github.com/keyflight/selfupdate"
	"github.com/spf13/cobra"
)

type updateOptions struct {
	yes     bool
	restart bool
}

func newUpdateCommand(opts *globalOptions) *cobra.Command {
	updateOpts := &updateOptions{}
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Download and install the latest release",
		Long: `Download the latest release and merge it into the installation.

Press Ctrl+C to cancel: the files already copied are kept, and a new update can be started later.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUpdate(cmd, opts, updateOpts)
		},
	}
	cmd.Flags().BoolVarP(&updateOpts.yes, "yes", "y", false, "install without asking for confirmation")
	cmd.Flags().BoolVar(&updateOpts.restart, "restart", false, "restart the configurator once the update is installed")
	return cmd
}

func runUpdate(cmd *cobra.Command, opts *globalOptions, updateOpts *updateOptions) error {
	out := cmd.OutOrStdout()
	prompt := newPrompter(cmd.InOrStdin(), out)

	up, cfg, err := opts.newUpdater()
	if err != nil {
		return err
	}
	info, err := up.CheckForUpdate(cmd.Context(), cfg.Check.Timeout)
	if err != nil {
		return err
	}
	printRelease(out, info)
	if !info.Available {
		return nil
	}

	if !updateOpts.yes {
		ok, err := prompt.confirm(fmt.Sprintf("Install version %s now?", info.LatestVersion))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, subtleStyle.Render("Update skipped"))
			return nil
		}
	}

	session, err := up.Start(cmd.Context(), info)
	if err != nil {
		return err
	}
	line := newProgressLine(cmd.ErrOrStderr())
	for event := range session.Events() {
		line.render(event)
	}
	line.done()

	stats, err := session.Wait()
	if errors.Is(err, selfupdate.ErrCancelled) {
		fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("Update cancelled after %d files: run the update again to complete the installation", stats.FilesCopied)))
		return err
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("Version %s installed", info.LatestVersion)),
		subtleStyle.Render(fmt.Sprintf("(%d files copied, %d protected files kept)", stats.FilesCopied, stats.FilesSkipped)))

	restart := updateOpts.restart
	if !restart && !updateOpts.yes {
		restart, err = prompt.confirm("Restart the configurator now?")
		if err != nil {
			return err
		}
	}
	if restart && up.Restart() {
		fmt.Fprintln(out, "Restarting the configurator...")
		return nil
	}
	fmt.Fprintln(out, "Please restart the configurator to use the new version")
	return nil
}
