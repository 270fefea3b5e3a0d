package main

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/keyflight/selfupdate"
	kfcmd "github.com/keyflight/selfupdate/cmd"
	"github.com/keyflight/selfupdate/internal/config"
	"github.com/spf13/cobra"
)

// Version is set via -ldflags
var Version = "dev"

type globalOptions struct {
	configFile string
	envFile    string
	verbose    bool
	root       string
	sourceType string
	repository string
	baseURL    string
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}
	rootCmd := &cobra.Command{
		Use:   "keyflight-update",
		Short: "Keep a KeyFlight configurator installation up to date",
		Long: titleStyle.Render("keyflight-update") + ` checks the registry for a newer release of the
KeyFlight configurator, then merges it into the installation.

User files, version-control metadata, editor settings and virtual environments are never overwritten.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogger(cmd.ErrOrStderr(), opts.verbose)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default is "+config.ConfigName+".yaml in the user config directory)")
	flags.StringVar(&opts.envFile, "env-file", "", "dotenv file setting KEYFLIGHT_* variables")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "display debugging information")
	flags.StringVar(&opts.root, "root", "", "installation directory (default is the directory of the executable)")
	flags.StringVar(&opts.sourceType, "source", "", "registry type: auto, github, gitlab, gitea or http")
	flags.StringVar(&opts.repository, "repo", "", "repository publishing the releases, as owner/name or URL")
	flags.StringVar(&opts.baseURL, "base-url", "", "base URL of the registry")

	rootCmd.AddCommand(
		newCheckCommand(opts),
		newUpdateCommand(opts),
		newConfigCommand(opts),
		newVersionCommand(opts),
	)
	return rootCmd
}

// Execute runs the command line. Interrupting the process cancels the running update.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		newRootCommand(),
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

func setupLogger(w io.Writer, verbose bool) {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "keyflight-update",
		ReportTimestamp: verbose,
	})
	logger.SetLevel(log.WarnLevel)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	selfupdate.SetLogger(logger.StandardLog(log.StandardLogOptions{ForceLevel: log.InfoLevel}))
}

// load reads the configuration, then applies the command line flags
func (o *globalOptions) load() (*config.Config, error) {
	if o.envFile != "" {
		if err := config.LoadEnvFile(o.envFile); err != nil {
			return nil, err
		}
	}
	defaults := config.Defaults(selfupdate.DefaultProtected, selfupdate.DefaultLauncher(), selfupdate.DefaultCheckTimeout)
	cfg, err := config.Load(o.configFile, defaults)
	if err != nil {
		return nil, err
	}
	if o.root != "" {
		cfg.Install.Root = o.root
	}
	if o.sourceType != "" {
		cfg.Source.Type = o.sourceType
	}
	if o.repository != "" {
		cfg.Source.Repository = o.repository
	}
	if o.baseURL != "" {
		cfg.Source.BaseURL = o.baseURL
	}
	return cfg, nil
}

func (o *globalOptions) newUpdater() (*selfupdate.Updater, *config.Config, error) {
	cfg, err := o.load()
	if err != nil {
		return nil, nil, err
	}
	up, err := newUpdater(cfg)
	if err != nil {
		return nil, nil, err
	}
	return up, cfg, nil
}

func newUpdater(cfg *config.Config) (*selfupdate.Updater, error) {
	source, err := kfcmd.GetSource(cfg.Source.Type, cfg.Source.Repository, cfg.Source.BaseURL, cfg.Source.Token)
	if err != nil {
		return nil, err
	}
	var validator selfupdate.Validator
	if cfg.Check.Checksums != "" {
		validator = &selfupdate.ChecksumValidator{UniqueFilename: cfg.Check.Checksums}
	}
	return selfupdate.NewUpdater(selfupdate.Config{
		Source:      source,
		Validator:   validator,
		InstallRoot: cfg.Install.Root,
		VersionFile: cfg.Install.VersionFile,
		Launcher:    cfg.Install.Launcher,
		Protected:   cfg.Install.Protected,
	})
}
