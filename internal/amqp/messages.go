package amqp

import (
	"encoding/json"
	"time"

	"github.com/MrJamesThe3rd/tally/internal/accountability"
)

// BudgetExceededType is the AMQP message type and routing key of
// BudgetExceededMessage.
const BudgetExceededType = "budget.exceeded"

// BudgetExceededMessage is published once per user and budget when an
// accountable user goes over budget. Amounts are decimal strings.
type BudgetExceededMessage struct {
	UserEmail   string    `json:"user_email"`
	DisplayName string    `json:"display_name"`
	BudgetID    string    `json:"budget_id"`
	Limit       string    `json:"limit"`
	Spent       string    `json:"spent"`
	Overage     string    `json:"overage"`
	Percentage  float64   `json:"percentage"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func NewBudgetExceededMessage(e accountability.Event) *BudgetExceededMessage {
	return &BudgetExceededMessage{
		UserEmail:   e.UserEmail,
		DisplayName: e.DisplayName,
		BudgetID:    e.BudgetID.String(),
		Limit:       e.Limit.StringFixed(2),
		Spent:       e.Spent.StringFixed(2),
		Overage:     e.Overage.StringFixed(2),
		Percentage:  e.Percentage,
		OccurredAt:  e.OccurredAt,
	}
}

func (m *BudgetExceededMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BudgetExceededMessageFromJSON(data []byte) (*BudgetExceededMessage, error) {
	var msg BudgetExceededMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}

	return &msg, nil
}
