package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/cognicore/golden/internal/htmltext"
	"github.com/cognicore/golden/pkg/golden"
	"github.com/cognicore/golden/pkg/golden/config"
)

func newLogger(c *cli.Context) *slog.Logger {
	level := slog.LevelInfo
	if c.Bool("quiet") {
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level}))
}

// buildEngine loads the configuration and restores cache snapshots. cleanup
// persists the caches and closes the snapshot store.
func buildEngine(ctx context.Context, configPath string, noCache bool, logger *slog.Logger) (*golden.Engine, func(), error) {
	loader := config.Loader{ConfigPath: configPath, Logger: logger, NoCache: noCache}
	comp, err := loader.Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	engine := golden.New(comp.Options)
	engine.LoadCaches(ctx)

	cleanup := func() {
		engine.PersistCaches(ctx)
		if err := comp.Close(); err != nil {
			logger.Warn("close snapshot store", "err", err)
		}
	}
	return engine, cleanup, nil
}

func engineFor(c *cli.Context) (*golden.Engine, func(), *slog.Logger, error) {
	logger := newLogger(c)
	engine, cleanup, err := buildEngine(c.Context, c.String("config"), c.Bool("no-cache"), logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return engine, cleanup, logger, nil
}

// readInput returns --text, the named file, or stdin, in that order.
func readInput(c *cli.Context) (string, error) {
	var text string
	switch {
	case c.IsSet("text"):
		text = c.String("text")
	case c.Args().Len() > 0 && c.Args().First() != "-":
		data, err := os.ReadFile(c.Args().First())
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		text = string(data)
	default:
		data, err := io.ReadAll(c.App.Reader)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}

	if c.Bool("html") {
		return htmltext.String(text), nil
	}
	return text, nil
}

func parseSelection(parts []string) (golden.Selection, error) {
	if len(parts) == 0 {
		return golden.All(), nil
	}
	var sel golden.Selection
	for _, raw := range parts {
		for _, p := range strings.Split(raw, ",") {
			switch strings.TrimSpace(strings.ToLower(p)) {
			case "sections":
				sel.Sections = true
			case "keywords":
				sel.Keywords = true
			case "patterns":
				sel.Patterns = true
			case "classification", "classify":
				sel.Classification = true
			case "":
			default:
				return sel, fmt.Errorf("unknown part %q", p)
			}
		}
	}
	return sel, nil
}
