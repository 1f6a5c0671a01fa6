package orders

// Record is a persisted order: the caller-supplied payload verbatim, plus
// order_id and created_at added at write time. The payload is deliberately
// schemaless — checkout posts whatever the cart holds and it is stored as
// given, with no product linkage validation, no stock decrement and no
// payment step.
type Record map[string]interface{}

// OrderID returns the generated order id, or "" if the record has none.
func (r Record) OrderID() string {
	id, _ := r["order_id"].(string)
	return id
}

// PlacedEvent is the message published to the order-events queue after an
// order is persisted, consumed by cmd/worker.
type PlacedEvent struct {
	OrderID       string `json:"order_id"`
	CorrelationID string `json:"correlation_id,omitempty"`
}
