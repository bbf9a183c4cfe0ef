package store

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/budgetviz/budgetviz/internal/model"
)

// document is the flat on-disk form of a transaction.
type document struct {
	ID          string      `json:"id"`
	DateTime    string      `json:"datetime"`
	Account     string      `json:"account"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
	UPIRef      string      `json:"upi_ref"`
	OrderID     string      `json:"order_id"`
	Remarks     string      `json:"remarks"`
	Category    string      `json:"category"`
	Comment     string      `json:"comment"`
}

func toDocument(t model.Transaction) document {
	return document{
		ID:          t.ID,
		DateTime:    t.FormatDateTime(),
		Account:     t.Account,
		Amount:      json.Number(t.Amount.String()),
		Description: t.Description,
		UPIRef:      t.UPIRef,
		OrderID:     t.OrderID,
		Remarks:     t.Remarks,
		Category:    t.Category,
		Comment:     t.Comment,
	}
}

func fromDocument(d document) (model.Transaction, error) {
	when, err := model.ParseDateTime(d.DateTime)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("record %s: parsing datetime: %w", d.ID, err)
	}
	amount, err := decimal.NewFromString(d.Amount.String())
	if err != nil {
		return model.Transaction{}, fmt.Errorf("record %s: parsing amount: %w", d.ID, err)
	}
	return model.Transaction{
		ID:          d.ID,
		DateTime:    when,
		Account:     d.Account,
		Amount:      amount,
		Description: d.Description,
		UPIRef:      d.UPIRef,
		OrderID:     d.OrderID,
		Remarks:     d.Remarks,
		Category:    d.Category,
		Comment:     d.Comment,
	}, nil
}
