// Package export renders issuance cards for finished issuance transactions.
package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ppe.GO/core/datemath"
	"ppe.GO/model/entity"
)

// Card is the printable record of one issuance transaction.
type Card struct {
	Employee   entity.Employee
	Items      []CardItem
	DocumentNo int
	IssuedOn   time.Time
}

type CardItem struct {
	IssuedOn    time.Time
	Code        string
	DisplayName string
	WearMonths  int
	// zero when the item never wears out
	WearOutDate time.Time
}

// NewCard snapshots an issuance into a card, computing each item's wear-out date.
func NewCard(e entity.Employee, items []entity.IssueItem, documentNo int, issuedOn time.Time) Card {
	card := Card{Employee: e, DocumentNo: documentNo, IssuedOn: datemath.Truncate(issuedOn)}
	for _, it := range items {
		ci := CardItem{IssuedOn: card.IssuedOn, Code: it.Code, DisplayName: it.DisplayName, WearMonths: it.WearMonths}
		if it.WearMonths > 0 {
			ci.WearOutDate = datemath.AddMonths(card.IssuedOn, it.WearMonths)
		}
		card.Items = append(card.Items, ci)
	}
	return card
}

// Exporter turns a card into an output file and returns its path.
type Exporter interface {
	Export(ctx context.Context, card Card) (string, error)
}

var fileNameReplacer = strings.NewReplacer("/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")

// CardFileName is the deterministic output name "AAP <documentNo> <employee name>.xlsx".
func CardFileName(documentNo int, employeeName string) string {
	name := fileNameReplacer.Replace(strings.Join(strings.Fields(employeeName), " "))
	return fmt.Sprintf("AAP %d %s.xlsx", documentNo, name)
}
