package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"inncoin/bot"
	"inncoin/bot/dispatch"
	"inncoin/bot/features/auth"
	"inncoin/bot/features/economy"
	"inncoin/bot/features/moderation"
	"inncoin/bot/features/rolepanels"
	"inncoin/bot/features/tickets"
	"inncoin/bot/features/utility"
	"inncoin/config"
	"inncoin/domain/entities"
	"inncoin/domain/events"
	"inncoin/domain/interfaces"
	"inncoin/domain/services"
	"inncoin/infrastructure"
	"inncoin/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// application holds the volatile stores and the services built on them
type application struct {
	ledger     *services.Ledger
	cooldowns  *services.CooldownTracker
	rewards    *services.RewardConfigStore
	challenges *services.ChallengeRegistry
	panels     *services.PanelRegistry
	bus        *events.Bus
	clock      interfaces.Clock

	economy    interfaces.EconomyService
	auth       interfaces.AuthService
	tickets    interfaces.TicketService
	rolePanels interfaces.RolePanelService
}

// newApplication wires the stores and services against the platform
func newApplication(cfg *config.Config, gateway interfaces.GuildGateway) *application {
	clock := services.SystemClock{}
	rng := services.MathRandom{}
	scheduler := services.TimerScheduler{}
	bus := events.NewBus()

	app := &application{
		ledger:     services.NewLedger(),
		cooldowns:  services.NewCooldownTracker(),
		rewards:    services.NewRewardConfigStore(),
		challenges: services.NewChallengeRegistry(cfg.ChallengeTTL, rng),
		panels:     services.NewPanelRegistry(cfg.RolePalette, services.DefaultFallbackSymbol),
		bus:        bus,
		clock:      clock,
	}

	app.economy = services.NewEconomyService(app.ledger, app.cooldowns, app.rewards, clock, rng, bus)
	app.auth = services.NewAuthService(app.challenges, gateway, clock, bus, entities.ChallengeVariant(cfg.ChallengeMode))
	app.tickets = services.NewTicketService(app.panels, gateway, scheduler, clock, bus, cfg.TicketCloseDelay)
	app.rolePanels = services.NewRolePanelService(app.panels, gateway, clock, bus)
	return app
}

// registry registers every feature
func (a *application) registry(cfg *config.Config, gateway interfaces.GuildGateway, moderator interfaces.Moderator) (*dispatch.Registry, error) {
	registry := dispatch.NewRegistry()
	features := []dispatch.Feature{
		economy.New(a.economy, gateway),
		auth.New(a.auth, cfg.ChallengeTTL),
		tickets.New(a.tickets),
		rolepanels.New(a.rolePanels),
		moderation.New(moderator, gateway, services.TimerScheduler{}, a.clock),
		utility.New(),
	}
	for _, feature := range features {
		if err := feature.Register(registry); err != nil {
			return nil, fmt.Errorf("failed to register feature: %w", err)
		}
	}
	return registry, nil
}

// snapshot reports store sizes for the health API
func (a *application) snapshot() bot.StateSnapshot {
	return bot.StateSnapshot{
		Accounts:       a.ledger.Accounts(),
		LiveChallenges: a.challenges.Live(a.clock.Now()),
		Panels:         a.panels.Count(),
		RewardChannels: a.rewards.Count(),
	}
}

// Run initializes and starts the application, blocking until ctx is cancelled
func Run(ctx context.Context, cfg *config.Config) error {
	log.WithFields(log.Fields{
		"environment":    cfg.Environment,
		"challenge_mode": cfg.ChallengeMode,
	}).Info("Starting InnCoin bot...")

	// Initialize Discord session
	discord, err := bot.New(bot.Config{
		Token:   cfg.DiscordToken,
		GuildID: cfg.GuildID,
	})
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}
	platform := discord.Platform()

	app := newApplication(cfg, platform)

	// Initialize metrics
	metrics := observability.NewMetricsProvider(cfg)
	if err := metrics.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	metrics.Attach(app.bus)

	// Initialize NATS forwarding
	var natsClient *infrastructure.NATSClient
	if cfg.NATSServers != "" {
		natsClient, err = connectNATS(ctx, cfg, app.bus, metrics)
		if err != nil {
			shutdownMetrics(metrics)
			return err
		}
	} else {
		log.Info("NATS_SERVERS not set, event forwarding disabled")
	}

	registry, err := app.registry(cfg, platform, platform)
	if err != nil {
		closeNATS(natsClient)
		shutdownMetrics(metrics)
		return err
	}

	log.Info("Connecting to Discord...")
	if err := discord.Start(registry, metrics); err != nil {
		closeNATS(natsClient)
		shutdownMetrics(metrics)
		return fmt.Errorf("failed to start bot: %w", err)
	}
	log.Info("Discord bot started successfully")

	healthServer := bot.StartHealthAPI(cfg.HealthPort, app.snapshot)

	<-ctx.Done()
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := healthServer.Shutdown(shutdownCtx); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Warn("Failed to stop health API")
	}
	if err := discord.Close(); err != nil {
		log.WithError(err).Warn("Failed to close Discord session")
	}
	app.bus.Wait()
	closeNATS(natsClient)
	if err := metrics.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Failed to flush metrics")
	}

	log.Info("Shutdown complete")
	return nil
}

func connectNATS(ctx context.Context, cfg *config.Config, bus *events.Bus, recorder infrastructure.PublishRecorder) (*infrastructure.NATSClient, error) {
	client := infrastructure.NewNATSClient(cfg.NATSServers, infrastructure.SourceService)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Connect(connectCtx); err != nil {
		return nil, err
	}

	mapper := infrastructure.NewEventSubjectMapper(cfg.NATSSubjectPrefix)
	if err := client.EnsureStream(mapper.StreamName(), mapper.GetAllSubjects()); err != nil {
		client.Close()
		return nil, err
	}

	infrastructure.NewEventForwarder(client, mapper, recorder).Attach(bus)
	log.WithField("prefix", cfg.NATSSubjectPrefix).Info("Forwarding domain events to NATS")
	return client, nil
}

func closeNATS(client *infrastructure.NATSClient) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		log.WithError(err).Warn("Failed to close NATS connection")
	}
}

func shutdownMetrics(metrics *observability.MetricsProvider) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := metrics.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("Failed to flush metrics")
	}
}
