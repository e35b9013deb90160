package checkout

import "github.com/uiaphotography/uia-api/models"

// Notifier delivers transactional order emails. Calls are best-effort from
// the ledger's point of view: a failure is logged, never rolled back, and an
// order stays valid even if its confirmation could not be sent.
type Notifier interface {
	SendConfirmation(order *models.Order) error
	SendShipmentUpdate(order *models.Order, info *models.ShippingInfo) error
}
