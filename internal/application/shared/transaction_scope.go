// Package shared holds application-layer contracts used by more than one
// use case.
package shared

import (
	"context"

	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/order"
)

// TransactionScope provides transactional access to the storefront repositories.
// Every repository handed to fn shares one database transaction, committed
// when fn returns nil and rolled back otherwise.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to repositories within a transaction.
type TransactionalRepositories interface {
	// ItemRepo returns the inventory ledger scoped to the current transaction
	ItemRepo() inventory.ItemRepository
	// OrderRepo returns the order store scoped to the current transaction
	OrderRepo() order.OrderRepository
}

// NoOpTransactionScope runs fn directly against the given repositories.
// Used by tests and by callers that do not need atomicity.
type NoOpTransactionScope struct {
	itemRepo  inventory.ItemRepository
	orderRepo order.OrderRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(itemRepo inventory.ItemRepository, orderRepo order.OrderRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{itemRepo: itemRepo, orderRepo: orderRepo}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ItemRepo returns the item repository
func (s *NoOpTransactionScope) ItemRepo() inventory.ItemRepository {
	return s.itemRepo
}

// OrderRepo returns the order repository
func (s *NoOpTransactionScope) OrderRepo() order.OrderRepository {
	return s.orderRepo
}

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
