package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/0zheermao0/inventory/internal/inventory/domain"
	"github.com/0zheermao0/inventory/internal/inventory/repository"
)

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) BeginTx(ctx context.Context) (repository.DBTX, error) {
	args := m.Called(ctx)
	if tx := args.Get(0); tx != nil {
		return tx.(repository.DBTX), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionRepository) InsertHeader(ctx context.Context, dbops repository.DBTX, t *domain.Transaction) error {
	args := m.Called(ctx, dbops, t)
	if t != nil && args.Error(0) == nil {
		t.ID = "mock-transaction-id"
	}
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateHeader(ctx context.Context, dbops repository.DBTX, t *domain.Transaction) error {
	args := m.Called(ctx, dbops, t)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetHeaderByDocumentNumber(ctx context.Context, dbops repository.DBTX, documentNumber string) (*domain.Transaction, error) {
	args := m.Called(ctx, dbops, documentNumber)
	if res := args.Get(0); res != nil {
		return res.(*domain.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionRepository) SetTotalAmount(ctx context.Context, dbops repository.DBTX, transactionID string, total decimal.Decimal) error {
	args := m.Called(ctx, dbops, transactionID, total)
	return args.Error(0)
}

func (m *MockTransactionRepository) InsertItem(ctx context.Context, dbops repository.DBTX, item *domain.TransactionItem) error {
	args := m.Called(ctx, dbops, item)
	if item != nil && args.Error(0) == nil {
		item.ID = "mock-item-id"
	}
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateItem(ctx context.Context, dbops repository.DBTX, item *domain.TransactionItem) error {
	args := m.Called(ctx, dbops, item)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetItemByTransactionAndProduct(ctx context.Context, dbops repository.DBTX, transactionID, productID string) (*domain.TransactionItem, error) {
	args := m.Called(ctx, dbops, transactionID, productID)
	if res := args.Get(0); res != nil {
		return res.(*domain.TransactionItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionRepository) SumItemTotals(ctx context.Context, dbops repository.DBTX, transactionID string) (decimal.Decimal, error) {
	args := m.Called(ctx, dbops, transactionID)
	if res := args.Get(0); res != nil {
		return res.(decimal.Decimal), args.Error(1)
	}
	return decimal.Zero, args.Error(1)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*domain.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, filter domain.ListFilter) ([]domain.Transaction, error) {
	args := m.Called(ctx, filter)
	if res := args.Get(0); res != nil {
		return res.([]domain.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsWithItems(ctx context.Context) ([]domain.Transaction, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]domain.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionRepository) CountByType(ctx context.Context, t domain.TransactionType) (int, error) {
	args := m.Called(ctx, t)
	return args.Int(0), args.Error(1)
}
