package checkout

import "errors"

var (
	// ErrEmptyCart rejects order requests with zero items.
	ErrEmptyCart = errors.New("cart has no items")

	// ErrProductNotFound means a cart line references a catalog id that
	// does not exist.
	ErrProductNotFound = errors.New("one or more products not found")

	// ErrMissingShipping means a cart with physical items arrived without a
	// shipping destination.
	ErrMissingShipping = errors.New("shipping destination is required for physical items")

	// ErrCheckoutNotFound means no ledger record matches the transaction id.
	ErrCheckoutNotFound = errors.New("checkout record not found")

	// ErrOrderHasNoItems guards totals queries against empty orders.
	ErrOrderHasNoItems = errors.New("order has no items")

	// ErrOrderNotFound means no order matches the given id or customer.
	ErrOrderNotFound = errors.New("order not found")
)
