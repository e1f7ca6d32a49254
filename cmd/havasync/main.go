// Command havasync is the Lambda entry point. Each invocation, whether
// scheduled or triggered by a Control Tower lifecycle event, runs one
// reconciliation between Hava and the organization.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/teamhava/hava-integration-controltower/config"
	"github.com/teamhava/hava-integration-controltower/errors"
	"github.com/teamhava/hava-integration-controltower/internal/app"
	"github.com/teamhava/hava-integration-controltower/logging"
)

const component = "havasync"

func handler(ctx context.Context, event events.CloudWatchEvent) (string, error) {
	bootstrap, flush := logging.New(config.DefaultLogLevel, component)
	defer flush()

	cfg, err := config.Load(config.WithLogger(bootstrap))
	if err != nil {
		return "", err
	}

	logger, sync := logging.New(cfg.LogLevel, component)
	defer sync()

	logger.InfoContext(ctx, "invoked",
		"event_id", event.ID,
		"source", event.Source,
		"detail_type", event.DetailType,
		"config", cfg)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInvalidConfig, "failed to load AWS config")
	}

	syncer, err := app.NewSyncer(cfg, awsCfg, logger, app.Options{})
	if err != nil {
		return "", err
	}

	if _, err := syncer.Run(ctx); err != nil {
		return "", err
	}
	return "success", nil
}

func main() {
	lambda.Start(handler)
}
