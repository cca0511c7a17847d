package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/taiiii123/discord-billing-notify/internal/app"
	"github.com/taiiii123/discord-billing-notify/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := app.NewLogger(cfg, os.Stderr)

	reporter, err := app.NewReporter(context.Background(), cfg, logger)
	if err != nil {
		return fmt.Errorf("init reporter: %w", err)
	}

	// The scheduled event payload is ignored; the invocation time decides
	// the reporting window.
	lambda.Start(func(ctx context.Context, _ json.RawMessage) error {
		_, err := reporter.Run(ctx, time.Now())
		return err
	})
	return nil
}
