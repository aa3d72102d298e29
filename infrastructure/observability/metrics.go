package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"minivenmo/config"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// MetricsProvider manages OpenTelemetry metrics for the ledger.
// Until it is initialized with an exporter every Record call is a no-op.
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	reader        sdkmetric.Reader
	initialized   bool
	enabled       bool
	mu            sync.RWMutex

	// Metric instruments
	paymentsCounter         metric.Int64Counter
	paymentsAmountHist      metric.Float64Histogram
	paymentsRejectedCounter metric.Int64Counter
	cardChargesCounter      metric.Int64Counter
	friendshipsCounter      metric.Int64Counter
	usersCreatedCounter     metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry meter provider with the configured exporter
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Debug("Metrics provider already initialized")
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	var reader sdkmetric.Reader
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err := stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		reader = mp.periodicReader(exporter)
		log.Info("Using console metric exporter")

	case "otlp":
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err := otlpmetricgrpc.New(dialCtx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		reader = mp.periodicReader(exporter)
		log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	if err := mp.start(reader); err != nil {
		return err
	}
	mp.initialized = true
	log.Info("Metrics provider initialized successfully")
	return nil
}

// InitializeWithReader wires the provider to reader directly; tests use a ManualReader
func (mp *MetricsProvider) InitializeWithReader(reader sdkmetric.Reader) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if err := mp.start(reader); err != nil {
		return err
	}
	mp.initialized = true
	return nil
}

func (mp *MetricsProvider) periodicReader(exporter sdkmetric.Exporter) sdkmetric.Reader {
	return sdkmetric.NewPeriodicReader(
		exporter,
		sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
	)
}

func (mp *MetricsProvider) start(reader sdkmetric.Reader) error {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			attribute.String("service.name", mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	mp.reader = reader
	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(mp.meterProvider)
	mp.meter = mp.meterProvider.Meter("minivenmo")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}
	mp.enabled = true
	return nil
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	var err error

	mp.paymentsCounter, err = mp.meter.Int64Counter(
		PaymentsTotal,
		metric.WithDescription("Total number of completed payments"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create payments counter: %w", err)
	}

	mp.paymentsAmountHist, err = mp.meter.Float64Histogram(
		PaymentsAmount,
		metric.WithDescription("Amount of completed payments"),
		metric.WithUnit("USD"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000),
	)
	if err != nil {
		return fmt.Errorf("failed to create payments amount histogram: %w", err)
	}

	mp.paymentsRejectedCounter, err = mp.meter.Int64Counter(
		PaymentsRejectedTotal,
		metric.WithDescription("Total number of rejected payments"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create payments rejected counter: %w", err)
	}

	mp.cardChargesCounter, err = mp.meter.Int64Counter(
		CardChargesTotal,
		metric.WithDescription("Total number of card charge attempts"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create card charges counter: %w", err)
	}

	mp.friendshipsCounter, err = mp.meter.Int64Counter(
		FriendshipsTotal,
		metric.WithDescription("Total number of friendships added"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create friendships counter: %w", err)
	}

	mp.usersCreatedCounter, err = mp.meter.Int64Counter(
		UsersCreated,
		metric.WithDescription("Total number of users created"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create users created counter: %w", err)
	}

	return nil
}

// Shutdown flushes and stops the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RecordPayment records a completed payment and its amount
func (mp *MetricsProvider) RecordPayment(fundingSource string, amount float64) {
	if !mp.isEnabled() {
		return
	}

	attrs := metric.WithAttributes(attribute.String(LabelFundingSource, fundingSource))
	mp.paymentsCounter.Add(context.Background(), 1, attrs)
	mp.paymentsAmountHist.Record(context.Background(), amount, attrs)
}

// RecordPaymentRejected records a payment refused by validation
func (mp *MetricsProvider) RecordPaymentRejected(reason string) {
	if !mp.isEnabled() {
		return
	}

	mp.paymentsRejectedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelReason, reason)),
	)
}

// RecordCardCharge records a card charge attempt
func (mp *MetricsProvider) RecordCardCharge(success bool) {
	if !mp.isEnabled() {
		return
	}

	result := ChargeResultSuccess
	if !success {
		result = ChargeResultFailure
	}
	mp.cardChargesCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelResult, result)),
	)
}

// RecordFriendAdded records a new friendship
func (mp *MetricsProvider) RecordFriendAdded() {
	if !mp.isEnabled() {
		return
	}
	mp.friendshipsCounter.Add(context.Background(), 1)
}

// RecordUserCreated records a new user
func (mp *MetricsProvider) RecordUserCreated() {
	if !mp.isEnabled() {
		return
	}
	mp.usersCreatedCounter.Add(context.Background(), 1)
}

// isEnabled checks if metrics are initialized with an exporter
func (mp *MetricsProvider) isEnabled() bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.enabled
}

// Global metrics provider instance
var (
	globalMetrics *MetricsProvider
	metricsOnce   sync.Once
)

// InitializeGlobalMetrics initializes the global metrics provider
func InitializeGlobalMetrics(ctx context.Context, cfg *config.Config) error {
	var err error
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsProvider(cfg)
		err = globalMetrics.Initialize(ctx)
	})
	return err
}

// GetMetrics returns the global metrics provider, or a disabled one if none was initialized
func GetMetrics() *MetricsProvider {
	if globalMetrics == nil {
		return NewMetricsProvider(config.NewTestConfig())
	}
	return globalMetrics
}

// ShutdownGlobalMetrics shuts down the global metrics provider
func ShutdownGlobalMetrics(ctx context.Context) error {
	if globalMetrics != nil {
		return globalMetrics.Shutdown(ctx)
	}
	return nil
}
