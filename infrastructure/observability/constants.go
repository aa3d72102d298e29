package observability

// Metric name prefixes
const (
	MetricPrefix = "minivenmo"
)

// Metric names
const (
	// Payment metrics
	PaymentsTotal         = MetricPrefix + ".payments.total"
	PaymentsAmount        = MetricPrefix + ".payments.amount"
	PaymentsRejectedTotal = MetricPrefix + ".payments.rejected_total"

	// Card metrics
	CardChargesTotal = MetricPrefix + ".cards.charges_total"

	// Social metrics
	FriendshipsTotal = MetricPrefix + ".friends.added_total"
	UsersCreated     = MetricPrefix + ".users.created_total"
)

// Label keys
const (
	LabelFundingSource = "funding_source"
	LabelReason        = "reason"
	LabelResult        = "result"
)

// Card charge results
const (
	ChargeResultSuccess = "success"
	ChargeResultFailure = "failure"
)
