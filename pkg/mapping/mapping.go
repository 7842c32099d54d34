package mapping

import (
	"time"

	"github.com/max-de-bug/portion-app-sub001/pkg/api"
	"github.com/max-de-bug/portion-app-sub001/pkg/models"
)

// ToApiTransaction converts a domain Transaction model to an API Transaction model.
// The relative time label is recomputed from the timestamp at mapping time.
func ToApiTransaction(tx *models.Transaction) *api.Transaction {
	return &api.Transaction{
		Id:        tx.Id,
		Service:   tx.Service,
		Type:      string(tx.Type),
		Amount:    tx.Amount,
		Status:    string(tx.Status),
		Source:    tx.Source,
		Timestamp: tx.Timestamp,
		Time:      models.RelativeTime(tx.Timestamp, time.Now()),
	}
}

// ToApiAuditEvent converts a domain AuditEvent to an API AuditEvent.
func ToApiAuditEvent(ev *models.AuditEvent) *api.AuditEvent {
	return &api.AuditEvent{
		Id:        ev.Id,
		Action:    ev.Action,
		Detail:    ev.Detail,
		Status:    string(ev.Status),
		Category:  string(ev.Category),
		Timestamp: ev.Timestamp,
		Time:      models.RelativeTime(ev.Timestamp, time.Now()),
	}
}

// ToApiYieldSnapshot converts a domain YieldSnapshot to a YieldResponse.
func ToApiYieldSnapshot(snap *models.YieldSnapshot, apy float64) *api.YieldResponse {
	breakdown := make([]api.YieldSourceAmount, len(snap.Breakdown))
	for i, b := range snap.Breakdown {
		breakdown[i] = api.YieldSourceAmount{Source: b.Source, Amount: b.Amount}
	}
	return &api.YieldResponse{
		Wallet:         snap.Wallet,
		SpendableYield: snap.SpendableYield,
		APY:            apy,
		AsOf:           snap.AsOf,
		Breakdown:      breakdown,
	}
}

// ToApiYieldOpportunities converts ranked domain opportunities to wire form.
func ToApiYieldOpportunities(opps []models.YieldOpportunity) []api.YieldOpportunity {
	out := make([]api.YieldOpportunity, len(opps))
	for i, o := range opps {
		out[i] = api.YieldOpportunity{Source: o.Source, APY: o.APY, TVL: o.TVL, Risk: o.Risk}
	}
	return out
}

// ToApiService converts a catalog entry to wire form.
func ToApiService(svc *models.Service) *api.Service {
	return &api.Service{
		Id:          svc.Id,
		Description: svc.Description,
		Price:       svc.Price,
		Type:        string(svc.Type),
		X402Enabled: svc.X402Enabled,
	}
}
