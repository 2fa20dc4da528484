package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"inncoin/bot/dispatch"
	"inncoin/config"
	"inncoin/domain/events"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// MetricsProvider manages OpenTelemetry metrics for the bot. It observes
// the dispatcher and the domain event bus.
type MetricsProvider struct {
	config        config.OTelConfig
	environment   string
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	recording     bool
	mu            sync.RWMutex

	// Metric instruments
	interactionsCounter        metric.Int64Counter
	interactionDurationHist    metric.Float64Histogram
	balanceTransactionsCounter metric.Int64Counter
	challengesIssuedCounter    metric.Int64Counter
	challengesResolvedCounter  metric.Int64Counter
	panelsCreatedCounter       metric.Int64Counter
	ticketsOpenGauge           metric.Int64UpDownCounter
	natsPublishedCounter       metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config:      cfg.OTel,
		environment: cfg.Environment,
	}
}

// Initialize sets up the exporter selected by configuration
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	if !mp.config.Enabled {
		log.Info("OpenTelemetry metrics disabled")
		return nil
	}

	var (
		exporter sdkmetric.Exporter
		err      error
	)
	switch mp.config.ExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTLPEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.ExporterType)
	}

	reader := sdkmetric.NewPeriodicReader(
		exporter,
		sdkmetric.WithInterval(time.Duration(mp.config.ExportIntervalMillis)*time.Millisecond),
	)
	if err := mp.start(reader); err != nil {
		return err
	}

	otel.SetMeterProvider(mp.meterProvider)
	log.Info("Metrics provider initialized successfully")
	return nil
}

// start builds the meter provider around reader and creates the instruments
func (mp *MetricsProvider) start(reader sdkmetric.Reader) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.recording {
		return nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(mp.config.ServiceName),
			attribute.String("environment", mp.environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	mp.meter = mp.meterProvider.Meter("inncoin")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.recording = true
	return nil
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	var err error

	mp.interactionsCounter, err = mp.meter.Int64Counter(
		InteractionsTotal,
		metric.WithDescription("Total number of dispatched events by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create interactions counter: %w", err)
	}

	mp.interactionDurationHist, err = mp.meter.Float64Histogram(
		InteractionDuration,
		metric.WithDescription("Time spent handling a dispatched event"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create interaction duration histogram: %w", err)
	}

	mp.balanceTransactionsCounter, err = mp.meter.Int64Counter(
		BalanceTransactionsTotal,
		metric.WithDescription("Total number of balance transactions"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create balance transactions counter: %w", err)
	}

	mp.challengesIssuedCounter, err = mp.meter.Int64Counter(
		ChallengesIssuedTotal,
		metric.WithDescription("Total number of verification challenges issued"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create challenges issued counter: %w", err)
	}

	mp.challengesResolvedCounter, err = mp.meter.Int64Counter(
		ChallengesResolvedTotal,
		metric.WithDescription("Total number of verification answers by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create challenges resolved counter: %w", err)
	}

	mp.panelsCreatedCounter, err = mp.meter.Int64Counter(
		PanelsCreatedTotal,
		metric.WithDescription("Total number of panels created"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create panels created counter: %w", err)
	}

	// UpDownCounter for gauge-like behavior
	mp.ticketsOpenGauge, err = mp.meter.Int64UpDownCounter(
		TicketsOpen,
		metric.WithDescription("Ticket channels opened and not yet closed"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create tickets open gauge: %w", err)
	}

	mp.natsPublishedCounter, err = mp.meter.Int64Counter(
		NATSMessagesPublishedTotal,
		metric.WithDescription("Total number of NATS messages published"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create NATS messages published counter: %w", err)
	}

	return nil
}

// Shutdown flushes and stops the exporter
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.recording = false
	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// Attach subscribes the provider to the domain events it counts
func (mp *MetricsProvider) Attach(bus *events.Bus) {
	bus.SubscribeAll(mp.handleEvent,
		events.EventTypeBalanceChange,
		events.EventTypeChallengeIssued,
		events.EventTypeChallengeResolved,
		events.EventTypePanelCreated,
		events.EventTypeTicketOpened,
		events.EventTypeTicketClosed,
	)
}

func (mp *MetricsProvider) handleEvent(ctx context.Context, event events.Event) {
	switch e := event.(type) {
	case events.BalanceChangeEvent:
		mp.RecordBalanceTransaction(e.TransactionType.String())
	case events.ChallengeIssuedEvent:
		mp.RecordChallengeIssued(string(e.Variant))
	case events.ChallengeResolvedEvent:
		mp.RecordChallengeResolved(e.Outcome)
	case events.PanelCreatedEvent:
		mp.RecordPanelCreated(string(e.Kind))
	case events.TicketOpenedEvent:
		mp.UpdateOpenTickets(1)
	case events.TicketClosedEvent:
		mp.UpdateOpenTickets(-1)
	}
}

// EventHandled records one dispatched event
func (mp *MetricsProvider) EventHandled(ctx context.Context, kind dispatch.EventKind, name, outcome string, elapsed time.Duration) {
	if !mp.isEnabled() {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(LabelKind, kind.String()),
		attribute.String(LabelName, name),
		attribute.String(LabelOutcome, outcome),
	)
	// The handler context may already be cancelled; metrics are recorded regardless.
	ctx = context.WithoutCancel(ctx)
	mp.interactionsCounter.Add(ctx, 1, attrs)
	mp.interactionDurationHist.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordBalanceTransaction records a balance transaction
func (mp *MetricsProvider) RecordBalanceTransaction(transactionType string) {
	if !mp.isEnabled() {
		return
	}

	mp.balanceTransactionsCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelType, transactionType),
		),
	)
}

// RecordChallengeIssued records a started verification
func (mp *MetricsProvider) RecordChallengeIssued(variant string) {
	if !mp.isEnabled() {
		return
	}

	mp.challengesIssuedCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelVariant, variant),
		),
	)
}

// RecordChallengeResolved records a verification answer
func (mp *MetricsProvider) RecordChallengeResolved(outcome string) {
	if !mp.isEnabled() {
		return
	}

	mp.challengesResolvedCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelOutcome, outcome),
		),
	)
}

// RecordPanelCreated records a new ticket or role panel
func (mp *MetricsProvider) RecordPanelCreated(kind string) {
	if !mp.isEnabled() {
		return
	}

	mp.panelsCreatedCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelKind, kind),
		),
	)
}

// UpdateOpenTickets updates the count of open tickets (increment/decrement)
func (mp *MetricsProvider) UpdateOpenTickets(delta int64) {
	if !mp.isEnabled() {
		return
	}

	mp.ticketsOpenGauge.Add(context.Background(), delta)
}

// RecordNATSMessagePublished records a NATS message being published
func (mp *MetricsProvider) RecordNATSMessagePublished(eventType string) {
	if !mp.isEnabled() {
		return
	}

	mp.natsPublishedCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelEventType, eventType),
		),
	)
}

// isEnabled checks if instruments exist and the provider is running
func (mp *MetricsProvider) isEnabled() bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.recording
}
