package main

import (
	"errors"
	"fmt"
	"io/fs"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/teamhava/hava-integration-controltower/config"
	coded "github.com/teamhava/hava-integration-controltower/errors"
	"github.com/teamhava/hava-integration-controltower/internal/app"
	"github.com/teamhava/hava-integration-controltower/logging"
	"github.com/teamhava/hava-integration-controltower/report"
)

const (
	component      = "havasyncctl"
	defaultEnvFile = ".env"
)

type globalFlags struct {
	envFile  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   component,
		Short: "Reconcile Hava sources with an AWS organization",
		Long: `havasyncctl runs the Hava Control Tower reconciliation locally.

Configuration is read from the environment, after loading an optional
.env file. Runs are dry runs unless --dry-run=false is given.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadEnvFile(flags.envFile, cmd.Flags().Changed("env-file"))
		},
	}

	root.PersistentFlags().StringVar(&flags.envFile, "env-file", defaultEnvFile, "file of KEY=VALUE lines loaded into the environment")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")

	root.AddCommand(newRunCmd(flags), newValidateCmd())
	return root
}

// loadEnvFile loads path into the environment without overriding variables
// already set. A missing default file is ignored.
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func newRunCmd(flags *globalFlags) *cobra.Command {
	var (
		dryRun    bool
		reportDir string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one reconciliation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			bootstrap, flush := logging.NewWithWriter(cmd.ErrOrStderr(), config.DefaultLogLevel, component)
			defer flush()

			cfg, err := config.Load(config.WithLogger(bootstrap))
			if err != nil {
				return err
			}
			cfg = cfg.WithDryRun(dryRun)

			level := cfg.LogLevel
			if flags.logLevel != "" {
				level = flags.logLevel
			}
			logger, sync := logging.NewWithWriter(cmd.ErrOrStderr(), level, component)
			defer sync()

			awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
			if err != nil {
				return coded.Wrap(err, coded.CodeInvalidConfig, "failed to load AWS config")
			}

			syncer, err := app.NewSyncer(cfg, awsCfg, logger, app.Options{ReportDir: reportDir})
			if err != nil {
				return err
			}

			result, runErr := syncer.Run(ctx)
			data, err := report.Render(result)
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(data); err != nil {
				return err
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", true, "log intended changes without calling mutating APIs")
	cmd.Flags().StringVar(&reportDir, "report", "", "directory receiving the YAML run report")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration without contacting any service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				for _, v := range config.Violations(err) {
					fmt.Fprintln(cmd.ErrOrStderr(), "  -", v)
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "configuration is valid")
			fmt.Fprintf(out, "  api endpoint:  %s\n", cfg.APIEndpoint)
			fmt.Fprintf(out, "  secret store:  %s (%s)\n", cfg.SecretStore, cfg.SecretParameterPath)
			fmt.Fprintf(out, "  role owner:    %s\n", cfg.CrossAccountRoleOwner)
			fmt.Fprintf(out, "  blocklists:    %d accounts, %d OUs\n", len(cfg.AccountBlocklist), len(cfg.OUBlocklist))
			if cfg.ReportEnabled() {
				fmt.Fprintf(out, "  reports:       s3://%s/%s\n", cfg.ReportBucket, cfg.ReportPrefix)
			}
			return nil
		},
	}
}
