package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the versions of this command and of the installation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, labelStyle.Render("keyflight-update:")+Version)
			up, _, err := opts.newUpdater()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, labelStyle.Render("Configurator:")+up.InstalledVersion())
			fmt.Fprintln(out, labelStyle.Render("Installation:")+up.InstallRoot())
			return nil
		},
	}
}
