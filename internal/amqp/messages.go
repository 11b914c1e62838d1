package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"debtplan/internal/core"
)

// PlanRequestMessage asks a worker to run one repayment plan. The engine is
// pure and stateless, so the message carries the complete input: loans,
// settings and the simulation start date.
type PlanRequestMessage struct {
	RunID     string               `json:"runId"`
	Loans     []core.LoanInput     `json:"loans"`
	Settings  core.PlannerSettings `json:"settings"`
	Start     time.Time            `json:"start"`
	Timestamp time.Time            `json:"timestamp"`
}

// PlanResultMessage carries a computed plan back to the requesting
// application, echoing the request's run id.
type PlanResultMessage struct {
	RunID     string           `json:"runId"`
	Result    *core.PlanResult `json:"result"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewPlanRequestMessage creates a request message with a fresh run id.
func NewPlanRequestMessage(loans []core.LoanInput, settings core.PlannerSettings, start time.Time) *PlanRequestMessage {
	return &PlanRequestMessage{
		RunID:     uuid.NewString(),
		Loans:     loans,
		Settings:  settings,
		Start:     start,
		Timestamp: time.Now(),
	}
}

// NewPlanResultMessage wraps a computed result for publishing.
func NewPlanResultMessage(runID string, result *core.PlanResult) *PlanResultMessage {
	return &PlanResultMessage{
		RunID:     runID,
		Result:    result,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *PlanRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PlanRequestMessageFromJSON creates a request message from JSON bytes
func PlanRequestMessageFromJSON(data []byte) (*PlanRequestMessage, error) {
	var msg PlanRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ToJSON converts the message to JSON bytes
func (m *PlanResultMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PlanResultMessageFromJSON creates a result message from JSON bytes
func PlanResultMessageFromJSON(data []byte) (*PlanResultMessage, error) {
	var msg PlanResultMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
