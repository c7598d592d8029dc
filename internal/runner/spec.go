package runner

import (
	"context"
	"fmt"
	"os"
	"time"

	v1 "github.com/packconv/packconv/apis/v1"
	"github.com/packconv/packconv/internal/engine"
	"github.com/packconv/packconv/internal/gateway"
	"github.com/packconv/packconv/internal/sinks"
	"github.com/packconv/packconv/internal/zipstore"
)

func buildGateway(spec v1.GatewaySpec) (*gateway.Client, error) {
	cfg := gateway.Config{
		BaseURL:  spec.BaseURL,
		Headers:  spec.Headers,
		Insecure: spec.Insecure,
	}

	if spec.Auth != nil && spec.Auth.Basic != nil {
		cfg.Auth = &gateway.AuthConfig{
			Basic: &gateway.BasicAuthConfig{
				Username: spec.Auth.Basic.Username,
				Password: spec.Auth.Basic.Password,
				Encoded:  spec.Auth.Basic.Encoded,
			},
		}
	}

	if spec.Timeout != nil {
		cfg.Timeout = time.Duration(*spec.Timeout) * time.Second
	}

	return gateway.NewClient(cfg)
}

// buildSink resolves the job's destination and wraps it in an ArchiveSink so
// every successful result lands inside a single ZIP.
func buildSink(ctx context.Context, job v1.ConvertJob) (engine.Sink, error) {
	inner, err := buildDestination(ctx, job.Spec.Output)
	if err != nil {
		return nil, err
	}

	return sinks.NewArchiveSink(inner, zipstore.NewArchiver(), archiveName(job.Spec.Output)), nil
}

func buildDestination(ctx context.Context, output *v1.OutputSpec) (engine.Sink, error) {
	if output == nil || output.Destination == nil {
		return sinks.NewStreamSink(os.Stdout), nil
	}

	dest := output.Destination
	switch {
	case dest.Stdout != nil:
		return sinks.NewStreamSink(os.Stdout), nil
	case dest.Folder != nil:
		sink, err := sinks.NewFilesystemSinkFromPath(dest.Folder.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to create folder sink: %w", err)
		}
		return sink, nil
	case dest.S3 != nil:
		sink, err := sinks.NewS3Sink(ctx, sinks.S3Config{
			Bucket:          dest.S3.Bucket,
			Region:          dest.S3.Region,
			Endpoint:        dest.S3.Endpoint,
			Prefix:          dest.S3.Prefix,
			AccessKeyID:     dest.S3.AccessKeyID,
			SecretAccessKey: dest.S3.SecretAccessKey,
			ForcePathStyle:  dest.S3.ForcePathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 sink: %w", err)
		}
		return sink, nil
	default:
		return nil, fmt.Errorf("output destination has no type specified")
	}
}

func archiveName(output *v1.OutputSpec) string {
	if output != nil && output.ArchiveName != "" {
		return output.ArchiveName
	}
	return DefaultArchiveName
}
