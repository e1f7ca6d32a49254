// Package app assembles a Syncer from the loaded configuration. It is shared
// by the Lambda handler and the CLI.
package app

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/teamhava/hava-integration-controltower/config"
	"github.com/teamhava/hava-integration-controltower/errors"
	"github.com/teamhava/hava-integration-controltower/hava"
	"github.com/teamhava/hava-integration-controltower/orgsync"
	"github.com/teamhava/hava-integration-controltower/report"
	"github.com/teamhava/hava-integration-controltower/services/aws/iamrole"
	"github.com/teamhava/hava-integration-controltower/services/aws/organizations"
	"github.com/teamhava/hava-integration-controltower/services/aws/parameters"
	"github.com/teamhava/hava-integration-controltower/services/aws/secrets"
)

// Options tweaks how the Syncer is assembled.
type Options struct {
	// ReportDir, when set, writes run reports to this local directory in
	// addition to any configured bucket.
	ReportDir string
}

// NewSyncer wires every component of a run from cfg and awsCfg.
func NewSyncer(cfg *config.Config, awsCfg aws.Config, logger *slog.Logger, o Options) (*orgsync.Syncer, error) {
	apiKey, err := APIKey(cfg, awsCfg, logger)
	if err != nil {
		return nil, err
	}

	inventory, err := hava.NewClient(cfg.APIEndpoint, apiKey,
		hava.WithLogger(logger.With("component", "hava")),
		hava.WithTimeout(cfg.HTTPTimeout),
	)
	if err != nil {
		return nil, err
	}

	walker := organizations.NewWalkerFromConfig(awsCfg,
		organizations.WithLogger(logger.With("component", "organizations")),
		organizations.WithAccountBlocklist(cfg.AccountBlocklist...),
		organizations.WithOUBlocklist(cfg.OUBlocklist...),
	)

	provisioner, err := iamrole.NewProvisionerFromConfig(awsCfg,
		iamrole.Trust{
			OwnerAccountID: cfg.CrossAccountRoleOwner,
			ExternalID:     cfg.ExternalID,
		},
		iamrole.WithLogger(logger.With("component", "iamrole")),
		iamrole.WithDryRun(cfg.DryRun),
	)
	if err != nil {
		return nil, err
	}

	opts := []orgsync.Option{orgsync.WithLogger(logger)}
	if reporter := Reporter(cfg, awsCfg, logger, o.ReportDir); reporter != nil {
		opts = append(opts, orgsync.WithReporter(reporter))
	}

	return orgsync.NewSyncer(cfg, inventory, walker, provisioner, opts...)
}

// APIKey returns a lookup of the Hava API key from the configured store.
// The key is cached for the length of a run.
func APIKey(cfg *config.Config, awsCfg aws.Config, logger *slog.Logger) (hava.APIKeyFunc, error) {
	switch cfg.SecretStore {
	case config.SecretStoreSSM:
		client, err := parameters.NewClientWithConfig(&awsCfg,
			parameters.WithLogger(logger.With("component", "parameters")),
			parameters.WithCache(parameters.NewCache(cfg.RunTimeout)),
		)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to create SSM client")
		}
		return func(ctx context.Context) (string, error) {
			return client.GetParameter(ctx, cfg.SecretParameterPath)
		}, nil

	case config.SecretStoreSecretsManager:
		client, err := secrets.NewClientWithConfig(&awsCfg,
			secrets.WithLogger(logger.With("component", "secrets")),
			secrets.WithCache(secrets.NewCache(cfg.RunTimeout)),
		)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to create Secrets Manager client")
		}
		return func(ctx context.Context) (string, error) {
			return client.GetSecretCached(ctx, cfg.SecretParameterPath)
		}, nil

	default:
		return nil, errors.Newf(errors.CodeInvalidConfig, "unsupported secret store %q", cfg.SecretStore)
	}
}

// Reporter returns the report writer for the run, or nil when neither a
// bucket nor a directory is configured.
func Reporter(cfg *config.Config, awsCfg aws.Config, logger *slog.Logger, dir string) orgsync.Reporter {
	var sinks multiSink

	if cfg.ReportEnabled() {
		sink, err := report.NewS3SinkFromConfig(awsCfg, cfg.ReportBucket)
		if err != nil {
			logger.Warn("run reports disabled", "bucket", cfg.ReportBucket, "error", err)
		} else {
			sinks = append(sinks, sink)
		}
	}
	if dir != "" {
		sinks = append(sinks, report.NewDirSink(dir))
	}

	if len(sinks) == 0 {
		return nil
	}
	return report.NewWriter(sinks,
		report.WithPrefix(cfg.ReportPrefix),
		report.WithLogger(logger.With("component", "report")),
	)
}

// multiSink stores a report in every sink, returning the joined failures.
type multiSink []report.Sink

func (m multiSink) Put(ctx context.Context, key string, data []byte) error {
	var errs []error
	for _, s := range m {
		if err := s.Put(ctx, key, data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
