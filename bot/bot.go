package bot

import (
	"context"
	"fmt"
	"time"

	"inncoin/bot/dispatch"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// presence is the activity shown once the gateway is ready
const presence = "/help"

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string
	// HandlerTimeout bounds a single dispatched event.
	HandlerTimeout time.Duration
}

// Bot owns the gateway session and feeds its events to the dispatcher
type Bot struct {
	config     Config
	session    *discordgo.Session
	platform   *Platform
	dispatcher *dispatch.Dispatcher
	ctx        context.Context
	cancel     context.CancelFunc
}

// New creates the session without connecting. Features are built against
// Platform before Start opens the gateway.
func New(config Config) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	if config.HandlerTimeout <= 0 {
		config.HandlerTimeout = 30 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Bot{
		config:   config,
		session:  dg,
		platform: NewPlatform(dg),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Platform returns the adapter implementing the transport, guild gateway
// and moderator capabilities
func (b *Bot) Platform() *Platform {
	return b.platform
}

// Start installs the dispatcher, connects and registers the commands
func (b *Bot) Start(registry *dispatch.Registry, observer dispatch.Observer) error {
	b.dispatcher = dispatch.NewDispatcher(registry, b.platform, dispatch.PermissionAuthorizer{})
	if observer != nil {
		b.dispatcher.SetObserver(observer)
	}

	b.session.AddHandler(b.handleReady)
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(b.handleMessageCreate)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	if err := b.registerCommands(registry); err != nil {
		b.session.Close()
		return fmt.Errorf("error registering commands: %w", err)
	}
	return nil
}

// Close cancels in-flight handlers and disconnects
func (b *Bot) Close() error {
	b.cancel()
	return b.session.Close()
}

func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	log.WithFields(log.Fields{
		"user":   r.User.Username,
		"guilds": len(r.Guilds),
	}).Info("Gateway ready")

	if err := s.UpdateGameStatus(0, presence); err != nil {
		log.WithError(err).Warn("Failed to set presence")
	}
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	event := interactionEvent(i.Interaction)
	if event == nil {
		return
	}
	b.dispatch(event)
}

func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	event := messageEvent(m)
	if event == nil {
		return
	}
	b.dispatch(event)
}

func (b *Bot) dispatch(event *dispatch.Event) {
	ctx, cancel := context.WithTimeout(b.ctx, b.config.HandlerTimeout)
	defer cancel()
	b.dispatcher.Dispatch(ctx, event)
}
