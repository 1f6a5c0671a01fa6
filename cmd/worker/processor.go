package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	log "github.com/sirupsen/logrus"

	"github.com/imrishuroy/go-storefront-backend/internal/aws"
	"github.com/imrishuroy/go-storefront-backend/internal/metrics"
	"github.com/imrishuroy/go-storefront-backend/internal/orders"
)

// Processor consumes order-placed events and records fulfillment-side
// bookkeeping (metrics, logs). Orders themselves are immutable once placed.
type Processor struct {
	orderStore *orders.Store
	emitter    *metrics.Emitter
}

// NewProcessor creates a new worker processor with AWS clients injected.
func NewProcessor(clients *aws.AWSClients, ordersTable, metricsNamespace string) *Processor {
	return &Processor{
		orderStore: orders.NewStore(clients.DynamoDB, ordersTable),
		emitter:    metrics.NewEmitter(clients.CloudWatch, metricsNamespace),
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			log.WithError(err).Error("worker error")
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg WorkerMessage
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}

	log.WithFields(log.Fields{
		"order_id": msg.OrderID,
		"corr":     msg.CorrelationID,
	}).Info("received order event")

	order, err := p.orderStore.Get(ctx, msg.OrderID)
	if err != nil {
		return fmt.Errorf("failed to fetch order: %w", err)
	}
	if order == nil {
		// Should never happen — DLQ if it does
		return fmt.Errorf("order not found: %s", msg.OrderID)
	}

	p.emitter.CountOrderPlaced(ctx)

	log.WithField("order_id", msg.OrderID).Info("order event processed")
	return nil
}
