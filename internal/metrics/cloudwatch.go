package metrics

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	log "github.com/sirupsen/logrus"

	"github.com/imrishuroy/go-storefront-backend/internal/aws"
)

// Emitter publishes operational metrics to CloudWatch. All emits are
// best-effort: a failed PutMetricData is logged and swallowed so metrics
// can never fail a request.
type Emitter struct {
	client    aws.CloudWatchAPI
	namespace string
}

// NewEmitter returns an Emitter for the given namespace.
func NewEmitter(client aws.CloudWatchAPI, namespace string) *Emitter {
	return &Emitter{
		client:    client,
		namespace: namespace,
	}
}

// CountProductCreated increments the product-creation counter.
func (e *Emitter) CountProductCreated(ctx context.Context) {
	e.putCount(ctx, "ProductCreated")
}

// CountOrderPlaced increments the order-placed counter.
func (e *Emitter) CountOrderPlaced(ctx context.Context) {
	e.putCount(ctx, "OrderPlaced")
}

// ObserveUploadDuration records the wall time of a media upload batch.
func (e *Emitter) ObserveUploadDuration(ctx context.Context, d time.Duration) {
	e.put(ctx, cwtypes.MetricDatum{
		MetricName: strPtr("UploadDurationMs"),
		Unit:       cwtypes.StandardUnitMilliseconds,
		Value:      float64Ptr(float64(d.Milliseconds())),
	})
}

func (e *Emitter) putCount(ctx context.Context, name string) {
	e.put(ctx, cwtypes.MetricDatum{
		MetricName: strPtr(name),
		Unit:       cwtypes.StandardUnitCount,
		Value:      float64Ptr(1),
	})
}

func (e *Emitter) put(ctx context.Context, datum cwtypes.MetricDatum) {
	if e == nil || e.client == nil {
		return
	}
	_, err := e.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  &e.namespace,
		MetricData: []cwtypes.MetricDatum{datum},
	})
	if err != nil {
		log.WithError(err).WithField("metric", *datum.MetricName).Warn("put metric data failed")
	}
}

func strPtr(s string) *string        { return &s }
func float64Ptr(f float64) *float64 { return &f }
