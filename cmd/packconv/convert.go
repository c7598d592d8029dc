package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/packconv/packconv/internal/runner"
)

var convertCommand = &cli.Command{
	Name:  "convert",
	Usage: "Run a conversion job and deliver the resulting archive",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      "job",
			UsageText: "The job file describing the conversion",
		},
	},
	Action: func(ctx context.Context, command *cli.Command) error {
		logger := getLogger(ctx)

		jobFilename := command.StringArg("job")
		if jobFilename == "" {
			return fmt.Errorf("no job file provided")
		}

		jobFile, err := os.ReadFile(jobFilename)
		if err != nil {
			return fmt.Errorf("failed to read job file: %w", err)
		}

		job, err := runner.ParseConvertJob(jobFile)
		if err != nil {
			return fmt.Errorf("failed to parse job: %w", err)
		}

		var opts []runner.Option
		if isInteractive(ctx) {
			opts = append(opts, runner.WithObserver(newConsoleObserver(os.Stderr)))
		}

		r, err := runner.New(ctx, logger.Named("runner"), job, opts...)
		if err != nil {
			return fmt.Errorf("failed to create runner: %w", err)
		}

		run, err := r.Run(ctx)
		if err != nil {
			if errors.Is(err, runner.ErrNothingConverted) {
				return fmt.Errorf("nothing to package: %w", err)
			}
			return fmt.Errorf("failed to run job: %w", err)
		}

		fmt.Fprintf(os.Stderr, "converted %d of %d files (%d failed)\n",
			run.SucceededCount(), len(run.Items), run.FailedCount())

		return nil
	},
}
