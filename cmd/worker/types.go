package worker

// WorkerMessage is the order-placed payload sent from API -> SQS -> Worker.
type WorkerMessage struct {
	OrderID       string `json:"order_id"`
	CorrelationID string `json:"correlation_id,omitempty"`
}
