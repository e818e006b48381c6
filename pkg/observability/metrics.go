package observability

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

const metricsFlushBatchSize = 20

// MetricsPublisher is the subset of the CloudWatch client used for metric emission
type MetricsPublisher interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Metrics buffers application metrics and flushes them to CloudWatch.
// Datapoints are held in memory and sent in batches so request paths
// never block on the metrics backend.
type Metrics struct {
	client    MetricsPublisher
	namespace string
	logger    *zap.Logger

	mu     sync.Mutex
	buffer []types.MetricDatum
}

// NewMetrics creates a new metrics collector for the given namespace
func NewMetrics(client MetricsPublisher, namespace string, logger *zap.Logger) *Metrics {
	return &Metrics{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// IncrementCounter records a count metric
func (m *Metrics) IncrementCounter(name string, dimensions map[string]string) {
	m.record(name, 1, types.StandardUnitCount, dimensions)
}

// RecordDuration records a latency metric in milliseconds
func (m *Metrics) RecordDuration(name string, d time.Duration, dimensions map[string]string) {
	m.record(name, float64(d.Milliseconds()), types.StandardUnitMilliseconds, dimensions)
}

// RecordValue records an arbitrary numeric metric
func (m *Metrics) RecordValue(name string, value float64, dimensions map[string]string) {
	m.record(name, value, types.StandardUnitNone, dimensions)
}

func (m *Metrics) record(name string, value float64, unit types.StandardUnit, dimensions map[string]string) {
	datum := types.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(value),
		Unit:       unit,
		Timestamp:  aws.Time(time.Now()),
	}
	for k, v := range dimensions {
		datum.Dimensions = append(datum.Dimensions, types.Dimension{
			Name:  aws.String(k),
			Value: aws.String(v),
		})
	}

	m.mu.Lock()
	m.buffer = append(m.buffer, datum)
	shouldFlush := len(m.buffer) >= metricsFlushBatchSize
	m.mu.Unlock()

	if shouldFlush {
		go m.Flush(context.Background())
	}
}

// Flush sends all buffered datapoints to CloudWatch
func (m *Metrics) Flush(ctx context.Context) {
	m.mu.Lock()
	if len(m.buffer) == 0 {
		m.mu.Unlock()
		return
	}
	batch := m.buffer
	m.buffer = nil
	m.mu.Unlock()

	for start := 0; start < len(batch); start += metricsFlushBatchSize {
		end := start + metricsFlushBatchSize
		if end > len(batch) {
			end = len(batch)
		}

		_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(m.namespace),
			MetricData: batch[start:end],
		})
		if err != nil {
			m.logger.Warn("failed to publish metrics", zap.Error(err), zap.Int("datapoints", end-start))
		}
	}
}

// StartFlushLoop flushes buffered metrics on an interval until the context is done
func (m *Metrics) StartFlushLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.Flush(context.Background())
			return
		case <-ticker.C:
			m.Flush(ctx)
		}
	}
}
