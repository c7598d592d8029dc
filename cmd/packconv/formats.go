package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/packconv/packconv/internal/gateway"
)

var formatsCommand = &cli.Command{
	Name:  "formats",
	Usage: "List the output formats supported by a conversion service",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "base-url",
			Usage:    "Base URL of the conversion service",
			Required: true,
		},
		&cli.IntFlag{
			Name:  "timeout",
			Usage: "Request timeout in seconds",
			Value: 30,
		},
		&cli.BoolFlag{
			Name:  "insecure",
			Usage: "Skip TLS certificate verification",
		},
	},
	Action: func(ctx context.Context, command *cli.Command) error {
		client, err := gateway.NewClient(gateway.Config{
			BaseURL:  command.String("base-url"),
			Timeout:  time.Duration(command.Int("timeout")) * time.Second,
			Insecure: command.Bool("insecure"),
		})
		if err != nil {
			return fmt.Errorf("failed to create gateway client: %w", err)
		}

		formats, err := client.Formats(ctx)
		if err != nil {
			return fmt.Errorf("failed to query formats: %w", err)
		}

		fmt.Printf("formats: %s\n", strings.Join(formats.Formats, ", "))
		fmt.Printf("quality formats: %s\n", strings.Join(formats.QualityFormats, ", "))
		return nil
	},
}
