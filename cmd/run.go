package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"minivenmo/cmd/shell"
	"minivenmo/config"
	"minivenmo/domain/events"
	"minivenmo/domain/interfaces"
	"minivenmo/infrastructure"
	"minivenmo/infrastructure/observability"
	"minivenmo/venmo"

	log "github.com/sirupsen/logrus"
)

// Run plays the demonstration scenario against a fresh ledger
func Run(ctx context.Context) error {
	log.Info("Starting MiniVenmo demo...")

	v, cleanup, err := Bootstrap(ctx, config.Get())
	if err != nil {
		return err
	}
	defer cleanup()

	lines, err := v.Run(ctx)
	if err != nil {
		return fmt.Errorf("demo failed: %w", err)
	}

	log.WithField("lineCount", len(lines)).Info("Demo completed")
	return nil
}

// RunShell starts the interactive shell on stdin/stdout
func RunShell(ctx context.Context) error {
	v, cleanup, err := Bootstrap(ctx, config.Get())
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Println("MiniVenmo shell. Type 'help' for commands.")
	return shell.NewShell(v, os.Stdin, os.Stdout).Run(ctx)
}

// Bootstrap wires a MiniVenmo from cfg and returns it with a cleanup function
func Bootstrap(ctx context.Context, cfg *config.Config) (*venmo.MiniVenmo, func(), error) {
	configureLogging(cfg)

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	log.Info("Initializing metrics...")
	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	closers = append(closers, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
			log.WithError(err).Error("Error shutting down metrics")
		}
	})

	publisher, closePublisher, err := newEventPublisher(ctx, cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	closers = append(closers, closePublisher)

	sink, err := newFeedSink(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	v := venmo.New(venmo.Options{
		Charger:             infrastructure.NewCardProcessor(),
		Publisher:           publisher,
		Sink:                sink,
		Metrics:             observability.GetMetrics(),
		AcceptedCardNumbers: cfg.AcceptedCardNumbers,
	})

	log.WithFields(log.Fields{
		"environment": cfg.Environment,
		"feedSink":    cfg.FeedSink,
		"nats":        cfg.NATSEnabled,
		"metrics":     cfg.OTelEnabled,
	}).Info("MiniVenmo initialized")

	return v, cleanup, nil
}

func configureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

func newEventPublisher(ctx context.Context, cfg *config.Config) (interfaces.EventPublisher, func(), error) {
	if !cfg.NATSEnabled {
		log.Info("NATS disabled, domain events will not leave the process")
		return infrastructure.NewNoopEventPublisher(), func() {}, nil
	}

	log.WithField("servers", cfg.NATSServers).Info("Connecting to NATS...")
	client := infrastructure.NewNATSClient(cfg.NATSServers)
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Connect(connectCtx); err != nil {
		return nil, nil, err
	}

	mapper := infrastructure.NewEventSubjectMapper("")
	if err := client.EnsureStream(cfg.NATSStreamName, mapper.GetAllSubjects()); err != nil {
		client.Close()
		return nil, nil, err
	}

	publisher := infrastructure.NewNATSEventPublisher(client, mapper)
	publisher.RegisterLocalHandler(events.EventTypePaymentCompleted, func(ctx context.Context, event events.Event) error {
		completed := event.(events.PaymentCompletedEvent)
		log.WithFields(log.Fields{
			"paymentID": completed.PaymentID,
			"seq":       completed.Seq,
		}).Debug("Payment journaled")
		return nil
	})

	return publisher, func() {
		if err := client.Close(); err != nil {
			log.WithError(err).Error("Error closing NATS connection")
		}
	}, nil
}

func newFeedSink(cfg *config.Config) (interfaces.FeedSink, error) {
	switch cfg.FeedSink {
	case config.FeedSinkDiscord:
		session, err := infrastructure.NewDiscordSession(cfg.DiscordToken)
		if err != nil {
			return nil, err
		}
		return infrastructure.NewDiscordSink(session, cfg.DiscordFeedChannelID), nil
	default:
		return infrastructure.NewConsoleSink(os.Stdout, true), nil
	}
}
