package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"crossexam/internal/e2etest"
	"crossexam/internal/errors"
	"crossexam/internal/logging"
)

// TestSetupScreen checks that the deployment serves the interview setup screen.
// It deliberately stops short of starting an interview to avoid burning AI
// quota on every deploy.
func TestSetupScreen(client *e2etest.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	if err := client.WaitForReady(ctx, "/api/healthy"); err != nil {
		return errors.Wrap(err, "wait for healthy endpoint")
	}
	doc, err := client.GetDoc(ctx, "/")
	if err != nil {
		return errors.Wrap(err, "get front page")
	}
	if doc.Find("form[action='/interview/start']").Length() != 1 {
		return errors.New("interview setup form not found")
	}
	if doc.Find("select[name=difficulty] option").Length() == 0 {
		return errors.New("difficulty tiers not found")
	}
	return nil
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		url      = "https://" + hostname
		client   *e2etest.Client
		err      error
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))

	if client, err = e2etest.NewClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestSetupScreen(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing setup screen", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
