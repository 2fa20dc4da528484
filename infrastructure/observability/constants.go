package observability

// Metric name prefixes
const (
	MetricPrefix = "inncoin"
)

// Metric names
const (
	// Dispatcher metrics
	InteractionsTotal   = MetricPrefix + ".interactions.total"
	InteractionDuration = MetricPrefix + ".interactions.duration"

	// Balance metrics
	BalanceTransactionsTotal = MetricPrefix + ".balance.transactions_total"

	// Verification metrics
	ChallengesIssuedTotal   = MetricPrefix + ".challenges.issued_total"
	ChallengesResolvedTotal = MetricPrefix + ".challenges.resolved_total"

	// Panel metrics
	PanelsCreatedTotal = MetricPrefix + ".panels.created_total"
	TicketsOpen        = MetricPrefix + ".tickets.open"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"
)

// Label keys
const (
	LabelKind      = "kind"
	LabelName      = "name"
	LabelOutcome   = "outcome"
	LabelType      = "type"
	LabelVariant   = "variant"
	LabelEventType = "event_type"
)
