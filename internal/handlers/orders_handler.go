package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/imrishuroy/go-storefront-backend/internal/aws"
	"github.com/imrishuroy/go-storefront-backend/internal/metrics"
	"github.com/imrishuroy/go-storefront-backend/internal/orders"
)

// RegisterOrderRoutes registers routes for order intake.
func RegisterOrderRoutes(r *gin.Engine, cfg HandlerConfig) {
	ordersStore := orders.NewStore(cfg.DynamoDBClient, cfg.OrdersTable)
	publisher := aws.NewPublisher(cfg.SQSClient, cfg.QueueURL)
	emitter := metrics.NewEmitter(cfg.CloudWatchClient, cfg.MetricsNamespace)

	r.POST("/orders", func(c *gin.Context) {
		ctx := c.Request.Context()

		// the order payload is free-form: whatever checkout posts is stored
		// as given, with no linkage to products and no stock decrement
		var payload map[string]interface{}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "invalid_request_body",
				"msg":   err.Error(),
			})
			return
		}

		rec, err := ordersStore.Create(ctx, payload)
		if err != nil {
			log.WithError(err).Error("failed to persist order")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while processing the order"})
			return
		}

		// best-effort downstream notification: the order is already
		// persisted, so a publish failure is logged, not surfaced
		ev := orders.PlacedEvent{
			OrderID:       rec.OrderID(),
			CorrelationID: c.GetHeader("X-Request-Id"),
		}
		body, _ := json.Marshal(ev)
		if err := publisher.SendOrderPlaced(ctx, string(body), map[string]string{"order_id": ev.OrderID}); err != nil {
			log.WithError(err).WithField("order_id", ev.OrderID).Warn("failed to publish order-placed event")
		}

		emitter.CountOrderPlaced(ctx)

		c.JSON(http.StatusOK, gin.H{
			"message": "Ordered successfully",
			"order":   rec,
		})
	})
}
