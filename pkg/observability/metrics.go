package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

const putTimeout = 5 * time.Second

// Metrics publishes counters and timings to CloudWatch. Publishing is
// asynchronous and lossy: a failed PutMetricData is logged and dropped, it
// never slows the measured operation. A nil client turns every call into a
// no-op, which is how development mode runs.
type Metrics struct {
	namespace string
	client    *cloudwatch.Client
	logger    *zap.Logger
}

// NewMetrics creates a new metrics sink
func NewMetrics(namespace string, client *cloudwatch.Client, logger *zap.Logger) *Metrics {
	return &Metrics{
		namespace: namespace,
		client:    client,
		logger:    logger,
	}
}

// Increment publishes a count-of-one datum
func (m *Metrics) Increment(metric, label string) {
	m.put(metric, label, 1, types.StandardUnitCount)
}

// StartTimer begins a timing measurement; Stop publishes it
func (m *Metrics) StartTimer(metric, label string) *Timer {
	return &Timer{
		metrics: m,
		metric:  metric,
		label:   label,
		start:   time.Now(),
	}
}

// Timer measures one timed operation
type Timer struct {
	metrics *Metrics
	metric  string
	label   string
	start   time.Time
}

// Stop publishes the elapsed time in milliseconds
func (t *Timer) Stop() {
	elapsed := time.Since(t.start)
	t.metrics.put(t.metric, t.label, float64(elapsed.Milliseconds()), types.StandardUnitMilliseconds)
}

func (m *Metrics) put(metric, label string, value float64, unit types.StandardUnit) {
	if m.client == nil {
		return
	}

	datum := types.MetricDatum{
		MetricName: aws.String(metric),
		Dimensions: []types.Dimension{
			{
				Name:  aws.String("Label"),
				Value: aws.String(label),
			},
		},
		Value:     aws.Float64(value),
		Unit:      unit,
		Timestamp: aws.Time(time.Now()),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), putTimeout)
		defer cancel()

		_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(m.namespace),
			MetricData: []types.MetricDatum{datum},
		})
		if err != nil {
			m.logger.Warn("Failed to publish metric",
				zap.String("metric", metric),
				zap.Error(err),
			)
		}
	}()
}
