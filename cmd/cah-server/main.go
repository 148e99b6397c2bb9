package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/adam0314/cards-against-humanity/internal/deck"
	"github.com/adam0314/cards-against-humanity/internal/game"
	"github.com/adam0314/cards-against-humanity/internal/randutil"
	"github.com/adam0314/cards-against-humanity/internal/server"
	"github.com/adam0314/cards-against-humanity/internal/sessionid"
)

var CLI struct {
	Config   string `short:"c" default:"cah-server.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" help:"Listen address (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	Seed     int64  `help:"RNG seed for every session, for reproducible games (overrides config)"`
}

func main() {
	kctx := kong.Parse(&CLI)

	cfg, err := server.LoadConfig(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		kctx.Exit(1)
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		kctx.Exit(1)
	}

	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	addr := cfg.Addr()
	if CLI.Addr != "" {
		addr = CLI.Addr
	}

	srv := server.NewServer(addr, quartz.NewReal(), logger)

	for _, sc := range cfg.Sessions {
		prompts, err := deck.LoadFile(sc.PromptDeck, deck.Prompt)
		if err != nil {
			logger.Error("failed to load prompt deck", "session", sc.Name, "error", err)
			kctx.Exit(1)
		}
		responses, err := deck.LoadFile(sc.ResponseDeck, deck.Response)
		if err != nil {
			logger.Error("failed to load response deck", "session", sc.Name, "error", err)
			kctx.Exit(1)
		}

		seed := sc.Seed
		if CLI.Seed != 0 {
			seed = CLI.Seed
		}
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		id := sessionid.New()
		notifier := server.NewWSNotifier(id, srv, logger)
		sess, err := game.NewSession(id, prompts, responses, randutil.New(seed), notifier, logger)
		if err != nil {
			logger.Error("failed to create session", "session", sc.Name, "error", err)
			kctx.Exit(1)
		}
		srv.AddSession(sess)

		logger.Info("created session",
			"id", id,
			"name", sc.Name,
			"prompts", len(prompts),
			"responses", len(responses))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		return srv.Stop()
	})

	if err := g.Wait(); err != nil {
		logger.Error("server failed", "error", err)
		kctx.Exit(1)
	}
}
