package model

import (
	"encoding/json"

	"github.com/spendtrail/spendtrail/filter"
	"github.com/spendtrail/spendtrail/model"
)

// CreateTransaction is the POST /transactions request body. Items is kept
// raw so validation can distinguish "not an array" from "invalid item".
type CreateTransaction struct {
	User        string          `json:"user"`
	Total       float64         `json:"total"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	Business    string          `json:"business"`
	Items       json.RawMessage `json:"items"`
}

// ToTransaction converts a validated request into the domain record. It must
// only be called after ValidateCreateTransaction has passed.
func (t *CreateTransaction) ToTransaction() *model.Transaction {
	date, _ := filter.ParseDateTime(t.Date)

	items := []model.LineItem{}
	if len(t.Items) > 0 {
		_ = json.Unmarshal(t.Items, &items)
	}

	return &model.Transaction{
		UserID:      t.User,
		Total:       int64(t.Total),
		Description: t.Description,
		Date:        date,
		Business:    t.Business,
		Items:       items,
	}
}
