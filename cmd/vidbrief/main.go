package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vidbrief/chart"
	"vidbrief/client"
	"vidbrief/config"
	"vidbrief/downloads"
	"vidbrief/events"
	"vidbrief/logging"
	"vidbrief/player"
	"vidbrief/recent"
	"vidbrief/store"
	"vidbrief/theme"
	"vidbrief/tui"
	"vidbrief/types"
	"vidbrief/view"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment
	_ = godotenv.Load()

	// Parse command-line flags
	backendURL := flag.String("url", "", "Backend URL (overrides VIDBRIEF_BACKEND_URL)")
	themeFlag := flag.String("theme", "", "Force the theme: dark or light")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if *backendURL != "" {
		cfg.BackendURL = *backendURL
	}
	if *themeFlag != "" {
		cfg.Theme = *themeFlag
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// stdout belongs to the terminal UI
	logCloser, err := logging.Setup(cfg.LogDir, cfg.LogLevel, false)
	if err != nil {
		fmt.Printf("Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	if err := run(cfg); err != nil {
		logrus.WithError(err).Error("vidbrief exited with error")
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	kv, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open state store: %w", err)
	}
	defer kv.Close()

	recentStore := recent.NewStore(kv)
	themes := theme.NewManager(ctx, kv, theme.DetectTerminal)
	if cfg.Theme != "" {
		themes.Set(ctx, theme.Parse(cfg.Theme))
	}

	sink, err := downloads.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open download destination: %w", err)
	}

	sync := view.NewSynchronizer(view.Options{
		NewPlayer: player.NewFactory(cfg),
		NewChart: func(entries []types.WordCount, t theme.Theme) view.Chart {
			return chart.New(entries, t)
		},
		Recent: recentStore,
		Theme:  themes,
	})
	themes.Subscribe(sync.ApplyTheme)

	// renderer frames and clipboard sequences share one writer
	out := tui.NewOutput(os.Stdout)
	m := tui.NewModel(tui.Deps{
		Client: client.New(cfg.BackendURL, cfg.HTTPTimeout),
		Sync:   sync,
		Recent: recentStore,
		Themes: themes,
		Sink:   sink,
		NewAudio: func(url string) (player.Audio, error) {
			return player.NewAudio(cfg, url)
		},
		AudioDuration: func(url string) (float64, error) {
			return player.MediaDuration(url, config.AudioDurationTimeout)
		},
		Clipboard: out,
	})

	logrus.WithFields(logrus.Fields{
		"backend": cfg.BackendURL,
		"store":   cfg.Store.Kind,
		"player":  cfg.Player,
		"theme":   themes.Current(),
	}).Info("Starting vidbrief")

	// Create the tea program
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(out))

	consumerCtx, stopConsumer := context.WithCancel(ctx)
	defer stopConsumer()
	if consumer := startRecentFeed(consumerCtx, cfg, recentStore, program); consumer != nil {
		defer consumer.Close()
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		program.Quit()
	}()

	// Run the program
	_, err = program.Run()
	sync.Close()
	return err
}

// startRecentFeed keeps the recent strip current with videos processed
// through the gateway. It returns nil when Kafka is not configured.
func startRecentFeed(ctx context.Context, cfg *config.Config, recentStore *recent.Store, program *tea.Program) *events.Consumer {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil
	}

	consumer, err := events.NewConsumer(events.ConsumerConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
		Handler: func(ctx context.Context, ev events.VideoProcessed) error {
			list, err := recentStore.Record(ctx, ev.RecentEntry())
			if err != nil {
				return err
			}
			program.Send(tui.RecentLoadedMsg{Entries: list})
			return nil
		},
	})
	if err != nil {
		logrus.WithError(err).Warn("Kafka unavailable, live recent feed disabled")
		return nil
	}

	go func() {
		if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
			logrus.WithError(err).Warn("Kafka consumer failed to start")
		}
	}()
	return consumer
}
