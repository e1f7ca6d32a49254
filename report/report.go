// Package report persists the outcome of a reconciliation run as YAML.
//
// A Writer renders an orgsync.Result and hands the bytes to a Sink. Two sinks
// are provided: FileSink writes into any go-billy filesystem and S3Sink
// uploads to a bucket.
//
//	sink, _ := report.NewS3SinkFromConfig(awsCfg, "reports-bucket")
//	syncer, _ := orgsync.NewSyncer(cfg, inventory, walker, provisioner,
//	    orgsync.WithReporter(report.NewWriter(sink, report.WithPrefix("hava-sync"))),
//	)
package report

import (
	"bytes"
	"context"
	"log/slog"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/teamhava/hava-integration-controltower/errors"
	"github.com/teamhava/hava-integration-controltower/orgsync"
)

// Sink stores a rendered report under key.
type Sink interface {
	Put(ctx context.Context, key string, data []byte) error
}

// Render encodes result as YAML.
func Render(result *orgsync.Result) ([]byte, error) {
	if result == nil {
		return nil, errors.New(errors.CodeInvalidInput, "result cannot be nil")
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(result); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to encode report")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to encode report")
	}
	return buf.Bytes(), nil
}

// Key returns the object key of a report: <prefix>/<YYYY-MM-DD>/<run-id>.yaml,
// dated by the run's UTC start time.
func Key(prefix string, result *orgsync.Result) string {
	return path.Join(prefix, result.StartedAt.UTC().Format("2006-01-02"), result.RunID+".yaml")
}

// Writer implements orgsync.Reporter over a Sink.
type Writer struct {
	sink   Sink
	prefix string
	logger *slog.Logger
}

// NewWriter creates a Writer storing reports in sink.
func NewWriter(sink Sink, opts ...Option) *Writer {
	options := defaultOptions()
	applyOptions(options, opts)

	return &Writer{
		sink:   sink,
		prefix: options.prefix,
		logger: options.logger,
	}
}

// Report renders result and stores it.
func (w *Writer) Report(ctx context.Context, result *orgsync.Result) error {
	data, err := Render(result)
	if err != nil {
		return err
	}

	key := Key(w.prefix, result)
	if err := w.sink.Put(ctx, key, data); err != nil {
		return errors.WrapWithContext(err, errors.CodeInternal, "failed to store report",
			map[string]interface{}{"key": key})
	}

	if w.logger != nil {
		w.logger.InfoContext(ctx, "run report written", "key", key, "bytes", len(data))
	}
	return nil
}

// Write renders result and stores it in sink under the default key layout.
func Write(ctx context.Context, sink Sink, prefix string, result *orgsync.Result) error {
	return NewWriter(sink, WithPrefix(prefix)).Report(ctx, result)
}
