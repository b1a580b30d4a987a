package engine

import "encoding/json"

// Mutation describes what an applier changed on an order.
type Mutation struct {
	AddedLines  []string              `json:"addedLines,omitempty"`
	TaggedLines []string              `json:"taggedLines,omitempty"`
	Adjustments map[string]Adjustment `json:"adjustments,omitempty"`
	OrderLevel  bool                  `json:"orderLevel"`
	Skipped     bool                  `json:"skipped"`
}

// ApplyResult is returned to the caller of an application attempt.
type ApplyResult struct {
	OrderID  string `json:"orderId"`
	SchemeID string `json:"schemeId"`
	State    State  `json:"state"`

	Quantity        float64 `json:"quantity"`
	Amount          float64 `json:"amount"`
	FreeQty         float64 `json:"freeQty"`
	SelectedFreeQty float64 `json:"selectedFreeQty"`

	Mutation
	RequiresSave bool            `json:"requiresSave"`
	Delta        json.RawMessage `json:"delta,omitempty"`
	ExecutionLog []ExecutionStep `json:"executionLog"`
}
