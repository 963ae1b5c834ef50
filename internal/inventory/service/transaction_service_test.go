package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	catalogDomain "github.com/0zheermao0/inventory/internal/catalog/domain"
	catalogRepo "github.com/0zheermao0/inventory/internal/catalog/repository"
	catalogMocks "github.com/0zheermao0/inventory/internal/catalog/repository/mocks"
	directoryDomain "github.com/0zheermao0/inventory/internal/directory/domain"
	directoryMocks "github.com/0zheermao0/inventory/internal/directory/repository/mocks"
	"github.com/0zheermao0/inventory/internal/inventory/domain"
	"github.com/0zheermao0/inventory/internal/inventory/repository"
	"github.com/0zheermao0/inventory/internal/inventory/repository/mocks"
)

func decimalEq(expected string) interface{} {
	want, _ := decimal.NewFromString(expected)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}

func newTestService() (*mocks.MockTransactionRepository, *catalogMocks.MockProductRepository, *directoryMocks.MockCustomerRepository, TransactionService) {
	mockTxRepo := new(mocks.MockTransactionRepository)
	mockProducts := new(catalogMocks.MockProductRepository)
	mockCustomers := new(directoryMocks.MockCustomerRepository)
	svc := NewTransactionService(mockTxRepo, mockProducts, mockCustomers, NewDocumentNumberGenerator())
	return mockTxRepo, mockProducts, mockCustomers, svc
}

func TestTransactionService_CreateTransaction_In(t *testing.T) {
	mockTxRepo, mockProducts, _, svc := newTestService()
	ctx := context.TODO()
	mockTx := new(mocks.MockDBTX)

	product := &catalogDomain.Product{
		ID: "id-1", ProductID: "P001", Name: "Widget",
		Price: decimal.NewFromFloat(10.00), StockQuantity: 50,
	}

	mockTxRepo.On("BeginTx", ctx).Return(mockTx, nil).Once()
	mockProducts.On("GetByProductIDForUpdate", ctx, mockTx, "P001").Return(product, nil).Once()
	mockTxRepo.On("InsertHeader", ctx, mockTx, mock.MatchedBy(func(h *domain.Transaction) bool {
		return h.TransactionType == domain.TypeIn && strings.HasPrefix(h.DocumentNumber, "RK")
	})).Return(nil).Once()
	mockTxRepo.On("InsertItem", ctx, mockTx, mock.MatchedBy(func(i *domain.TransactionItem) bool {
		// Unit price falls back to the product's current price.
		return i.Quantity == 20 && i.UnitPrice.Equal(decimal.NewFromFloat(10.00)) &&
			i.TotalPrice.Equal(decimal.NewFromInt(200))
	})).Return(nil).Once()
	mockProducts.On("AdjustStock", ctx, mockTx, "P001", 20).Return(nil).Once()
	mockTxRepo.On("SetTotalAmount", ctx, mockTx, "mock-transaction-id", decimalEq("200")).Return(nil).Once()
	mockTx.On("Commit").Return(nil).Once()
	mockTx.On("Rollback").Return(nil).Maybe()

	result, err := svc.CreateTransaction(ctx, domain.CreateTransactionRequest{
		TransactionType: domain.TypeIn,
		ProductID:       "P001",
		Quantity:        20,
	})
	assert.NoError(t, err)
	assert.True(t, result.TotalAmount.Equal(decimal.NewFromInt(200)))
	assert.Len(t, result.Items, 1)
	assert.True(t, result.Items[0].TotalPrice.Equal(decimal.NewFromInt(200)))
	mockTxRepo.AssertExpectations(t)
	mockProducts.AssertExpectations(t)
	mockTx.AssertExpectations(t)
}

func TestTransactionService_CreateTransaction_OutInsufficientStock(t *testing.T) {
	mockTxRepo, mockProducts, _, svc := newTestService()
	ctx := context.TODO()
	mockTx := new(mocks.MockDBTX)

	product := &catalogDomain.Product{
		ID: "id-1", ProductID: "P001",
		Price: decimal.NewFromFloat(10.00), StockQuantity: 70,
	}

	mockTxRepo.On("BeginTx", ctx).Return(mockTx, nil).Once()
	mockProducts.On("GetByProductIDForUpdate", ctx, mockTx, "P001").Return(product, nil).Once()
	mockTx.On("Rollback").Return(nil).Once()

	_, err := svc.CreateTransaction(ctx, domain.CreateTransactionRequest{
		TransactionType: domain.TypeOut,
		ProductID:       "P001",
		Quantity:        80,
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	// Nothing was written and no stock moved.
	mockTxRepo.AssertNotCalled(t, "InsertHeader", mock.Anything, mock.Anything, mock.Anything)
	mockProducts.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockTxRepo.AssertExpectations(t)
	mockProducts.AssertExpectations(t)
}

func TestTransactionService_CreateTransaction_OutAppliesNegativeDelta(t *testing.T) {
	mockTxRepo, mockProducts, _, svc := newTestService()
	ctx := context.TODO()
	mockTx := new(mocks.MockDBTX)

	product := &catalogDomain.Product{
		ID: "id-1", ProductID: "P001",
		Price: decimal.NewFromFloat(10.00), StockQuantity: 70,
	}
	explicit := decimal.NewFromFloat(9.50)

	mockTxRepo.On("BeginTx", ctx).Return(mockTx, nil).Once()
	mockProducts.On("GetByProductIDForUpdate", ctx, mockTx, "P001").Return(product, nil).Once()
	mockTxRepo.On("InsertHeader", ctx, mockTx, mock.MatchedBy(func(h *domain.Transaction) bool {
		return strings.HasPrefix(h.DocumentNumber, "CK")
	})).Return(nil).Once()
	mockTxRepo.On("InsertItem", ctx, mockTx, mock.MatchedBy(func(i *domain.TransactionItem) bool {
		// Explicit unit price wins over the product price.
		return i.UnitPrice.Equal(explicit) && i.TotalPrice.Equal(decimal.NewFromFloat(57.00))
	})).Return(nil).Once()
	mockProducts.On("AdjustStock", ctx, mockTx, "P001", -6).Return(nil).Once()
	mockTxRepo.On("SetTotalAmount", ctx, mockTx, "mock-transaction-id", decimalEq("57")).Return(nil).Once()
	mockTx.On("Commit").Return(nil).Once()
	mockTx.On("Rollback").Return(nil).Maybe()

	result, err := svc.CreateTransaction(ctx, domain.CreateTransactionRequest{
		TransactionType: domain.TypeOut,
		ProductID:       "P001",
		Quantity:        6,
		UnitPrice:       &explicit,
	})
	assert.NoError(t, err)
	assert.True(t, result.TotalAmount.Equal(decimal.NewFromFloat(57.00)))
	mockTxRepo.AssertExpectations(t)
	mockProducts.AssertExpectations(t)
	mockTx.AssertExpectations(t)
}

func TestTransactionService_CreateTransaction_StockUpdateFailureRollsBack(t *testing.T) {
	mockTxRepo, mockProducts, _, svc := newTestService()
	ctx := context.TODO()
	mockTx := new(mocks.MockDBTX)

	product := &catalogDomain.Product{
		ID: "id-1", ProductID: "P001",
		Price: decimal.NewFromFloat(10.00), StockQuantity: 50,
	}

	mockTxRepo.On("BeginTx", ctx).Return(mockTx, nil).Once()
	mockProducts.On("GetByProductIDForUpdate", ctx, mockTx, "P001").Return(product, nil).Once()
	mockTxRepo.On("InsertHeader", ctx, mockTx, mock.Anything).Return(nil).Once()
	mockTxRepo.On("InsertItem", ctx, mockTx, mock.Anything).Return(nil).Once()
	// Header and item already written inside the tx; a failing stock update
	// must take them down with it.
	mockProducts.On("AdjustStock", ctx, mockTx, "P001", 20).
		Return(errors.New("deadlock detected")).Once()
	mockTx.On("Rollback").Return(nil).Once()

	_, err := svc.CreateTransaction(ctx, domain.CreateTransactionRequest{
		TransactionType: domain.TypeIn,
		ProductID:       "P001",
		Quantity:        20,
	})
	assert.Error(t, err)
	mockTx.AssertNotCalled(t, "Commit")
	mockTxRepo.AssertNotCalled(t, "SetTotalAmount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockTxRepo.AssertExpectations(t)
	mockProducts.AssertExpectations(t)
	mockTx.AssertExpectations(t)
}

func TestTransactionService_CreateTransaction_DocNumberCollisionRetries(t *testing.T) {
	mockTxRepo, mockProducts, _, svc := newTestService()
	ctx := context.TODO()
	mockTx := new(mocks.MockDBTX)

	product := &catalogDomain.Product{
		ID: "id-1", ProductID: "P001",
		Price: decimal.NewFromFloat(10.00), StockQuantity: 50,
	}

	mockTxRepo.On("BeginTx", ctx).Return(mockTx, nil).Twice()
	mockProducts.On("GetByProductIDForUpdate", ctx, mockTx, "P001").Return(product, nil).Twice()
	// First attempt loses the race on the unique constraint, second succeeds
	// with a regenerated number.
	mockTxRepo.On("InsertHeader", ctx, mockTx, mock.Anything).Return(repository.ErrDuplicateDocumentNumber).Once()
	mockTxRepo.On("InsertHeader", ctx, mockTx, mock.Anything).Return(nil).Once()
	mockTxRepo.On("InsertItem", ctx, mockTx, mock.Anything).Return(nil).Once()
	mockProducts.On("AdjustStock", ctx, mockTx, "P001", 5).Return(nil).Once()
	mockTxRepo.On("SetTotalAmount", ctx, mockTx, "mock-transaction-id", decimalEq("50")).Return(nil).Once()
	mockTx.On("Commit").Return(nil).Once()
	mockTx.On("Rollback").Return(nil).Times(2)

	result, err := svc.CreateTransaction(ctx, domain.CreateTransactionRequest{
		TransactionType: domain.TypeIn,
		ProductID:       "P001",
		Quantity:        5,
	})
	assert.NoError(t, err)
	assert.NotNil(t, result)
	mockTxRepo.AssertExpectations(t)
}

func TestTransactionService_ReconcileDocument_NewDocument(t *testing.T) {
	mockTxRepo, mockProducts, mockCustomers, svc := newTestService()
	ctx := context.TODO()
	mockTx := new(mocks.MockDBTX)

	productA := &catalogDomain.Product{ID: "id-1", ProductID: "P001", Price: decimal.NewFromFloat(10.00), StockQuantity: 100}
	productB := &catalogDomain.Product{ID: "id-2", ProductID: "P002", Price: decimal.NewFromFloat(2.50), StockQuantity: 100}
	customer := &directoryDomain.Customer{ID: "cust-1", Name: "Acme"}

	mockCustomers.On("GetOrCreateByName", ctx, "Acme", directoryDomain.CustomerDefaults{Phone: "555-0100"}).
		Return(customer, nil).Once()
	mockTxRepo.On("BeginTx", ctx).Return(mockTx, nil).Once()
	mockTxRepo.On("GetHeaderByDocumentNumber", ctx, mockTx, "RK001").
		Return(nil, repository.ErrTransactionNotFound).Once()
	mockTxRepo.On("InsertHeader", ctx, mockTx, mock.MatchedBy(func(h *domain.Transaction) bool {
		return h.DocumentNumber == "RK001" && h.CustomerID != nil && *h.CustomerID == "cust-1"
	})).Return(nil).Once()

	// Row 1: new item for P001.
	mockProducts.On("GetByProductIDForUpdate", ctx, mockTx, "P001").Return(productA, nil).Once()
	mockTxRepo.On("GetItemByTransactionAndProduct", ctx, mockTx, "mock-transaction-id", "P001").
		Return(nil, repository.ErrItemNotFound).Once()
	mockTxRepo.On("InsertItem", ctx, mockTx, mock.MatchedBy(func(i *domain.TransactionItem) bool {
		return i.ProductID == "P001" && i.TotalPrice.Equal(decimal.NewFromInt(200))
	})).Return(nil).Once()
	mockProducts.On("AdjustStock", ctx, mockTx, "P001", 20).Return(nil).Once()
	mockTxRepo.On("SumItemTotals", ctx, mockTx, "mock-transaction-id").
		Return(decimal.NewFromInt(200), nil).Once()
	mockTxRepo.On("SetTotalAmount", ctx, mockTx, "mock-transaction-id", decimalEq("200")).Return(nil).Once()

	// Row 2: new item for P002.
	mockProducts.On("GetByProductIDForUpdate", ctx, mockTx, "P002").Return(productB, nil).Once()
	mockTxRepo.On("GetItemByTransactionAndProduct", ctx, mockTx, "mock-transaction-id", "P002").
		Return(nil, repository.ErrItemNotFound).Once()
	mockTxRepo.On("InsertItem", ctx, mockTx, mock.MatchedBy(func(i *domain.TransactionItem) bool {
		return i.ProductID == "P002" && i.TotalPrice.Equal(decimal.NewFromInt(25))
	})).Return(nil).Once()
	mockProducts.On("AdjustStock", ctx, mockTx, "P002", 10).Return(nil).Once()
	mockTxRepo.On("SumItemTotals", ctx, mockTx, "mock-transaction-id").
		Return(decimal.NewFromInt(225), nil).Once()
	mockTxRepo.On("SetTotalAmount", ctx, mockTx, "mock-transaction-id", decimalEq("225")).Return(nil).Once()

	mockTx.On("Commit").Return(nil).Once()
	mockTx.On("Rollback").Return(nil).Maybe()

	result, err := svc.ReconcileDocument(ctx, domain.DocumentImport{
		DocumentNumber:  "RK001",
		TransactionType: domain.TypeIn,
		CustomerName:    "Acme",
		CustomerPhone:   "555-0100",
		Rows: []domain.DocumentImportRow{
			{ProductID: "P001", Quantity: 20},
			{ProductID: "P002", Quantity: 10},
		},
	})
	assert.NoError(t, err)
	assert.True(t, result.HeaderCreated)
	assert.Empty(t, result.RowErrors)
	mockTxRepo.AssertExpectations(t)
	mockProducts.AssertExpectations(t)
	mockCustomers.AssertExpectations(t)
	mockTx.AssertExpectations(t)
}

func TestTransactionService_ReconcileDocument_MissingProductRowError(t *testing.T) {
	mockTxRepo, mockProducts, _, svc := newTestService()
	ctx := context.TODO()
	mockTx := new(mocks.MockDBTX)

	productA := &catalogDomain.Product{ID: "id-1", ProductID: "P001", Price: decimal.NewFromFloat(10.00), StockQuantity: 100}

	mockTxRepo.On("BeginTx", ctx).Return(mockTx, nil).Once()
	mockTxRepo.On("GetHeaderByDocumentNumber", ctx, mockTx, "RK002").
		Return(nil, repository.ErrTransactionNotFound).Once()
	mockTxRepo.On("InsertHeader", ctx, mockTx, mock.Anything).Return(nil).Once()

	// Row 1 references an unknown product and becomes a row error.
	mockProducts.On("GetByProductIDForUpdate", ctx, mockTx, "P404").
		Return(nil, catalogRepo.ErrProductNotFound).Once()

	// Row 2 still processes.
	mockProducts.On("GetByProductIDForUpdate", ctx, mockTx, "P001").Return(productA, nil).Once()
	mockTxRepo.On("GetItemByTransactionAndProduct", ctx, mockTx, "mock-transaction-id", "P001").
		Return(nil, repository.ErrItemNotFound).Once()
	mockTxRepo.On("InsertItem", ctx, mockTx, mock.Anything).Return(nil).Once()
	mockProducts.On("AdjustStock", ctx, mockTx, "P001", 3).Return(nil).Once()
	mockTxRepo.On("SumItemTotals", ctx, mockTx, "mock-transaction-id").
		Return(decimal.NewFromInt(30), nil).Once()
	mockTxRepo.On("SetTotalAmount", ctx, mockTx, "mock-transaction-id", decimalEq("30")).Return(nil).Once()

	mockTx.On("Commit").Return(nil).Once()
	mockTx.On("Rollback").Return(nil).Maybe()

	result, err := svc.ReconcileDocument(ctx, domain.DocumentImport{
		DocumentNumber:  "RK002",
		TransactionType: domain.TypeIn,
		Rows: []domain.DocumentImportRow{
			{ProductID: "P404", Quantity: 1},
			{ProductID: "P001", Quantity: 3},
		},
	})
	assert.NoError(t, err)
	assert.True(t, result.HeaderCreated)
	assert.Len(t, result.RowErrors, 1)
	assert.Contains(t, result.RowErrors[0], "P404")
	mockTxRepo.AssertExpectations(t)
	mockProducts.AssertExpectations(t)
}

func TestTransactionService_ReconcileDocument_ExistingItemNeverMovesStock(t *testing.T) {
	mockTxRepo, mockProducts, _, svc := newTestService()
	ctx := context.TODO()
	mockTx := new(mocks.MockDBTX)

	product := &catalogDomain.Product{ID: "id-1", ProductID: "P001", Price: decimal.NewFromFloat(10.00), StockQuantity: 100}
	existingHeader := &domain.Transaction{ID: "tx-1", DocumentNumber: "RK003", TransactionType: domain.TypeIn}
	existingItem := &domain.TransactionItem{ID: "item-1", TransactionID: "tx-1", ProductID: "P001", Quantity: 5}

	mockTxRepo.On("BeginTx", ctx).Return(mockTx, nil).Once()
	mockTxRepo.On("GetHeaderByDocumentNumber", ctx, mockTx, "RK003").Return(existingHeader, nil).Once()
	mockTxRepo.On("UpdateHeader", ctx, mockTx, existingHeader).Return(nil).Once()

	mockProducts.On("GetByProductIDForUpdate", ctx, mockTx, "P001").Return(product, nil).Once()
	mockTxRepo.On("GetItemByTransactionAndProduct", ctx, mockTx, "tx-1", "P001").
		Return(existingItem, nil).Once()
	mockTxRepo.On("UpdateItem", ctx, mockTx, mock.MatchedBy(func(i *domain.TransactionItem) bool {
		// Re-saving an existing line recomputes the total from the new
		// quantity and price.
		return i.ID == "item-1" && i.Quantity == 8 && i.TotalPrice.Equal(decimal.NewFromInt(80))
	})).Return(nil).Once()
	mockTxRepo.On("SumItemTotals", ctx, mockTx, "tx-1").Return(decimal.NewFromInt(80), nil).Once()
	mockTxRepo.On("SetTotalAmount", ctx, mockTx, "tx-1", decimalEq("80")).Return(nil).Once()

	mockTx.On("Commit").Return(nil).Once()
	mockTx.On("Rollback").Return(nil).Maybe()

	result, err := svc.ReconcileDocument(ctx, domain.DocumentImport{
		DocumentNumber:  "RK003",
		TransactionType: domain.TypeIn,
		Rows: []domain.DocumentImportRow{
			{ProductID: "P001", Quantity: 8},
		},
	})
	assert.NoError(t, err)
	assert.False(t, result.HeaderCreated)
	assert.Empty(t, result.RowErrors)
	// The stock delta belongs to the first posting only.
	mockProducts.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockTxRepo.AssertExpectations(t)
	mockProducts.AssertExpectations(t)
}

func TestTransactionService_ListTransactions_ForwardsFilter(t *testing.T) {
	mockTxRepo, _, _, svc := newTestService()
	ctx := context.TODO()

	filter := domain.ListFilter{
		TransactionType: "IN",
		ProductName:     "widg",
	}
	mockTxRepo.On("ListTransactions", ctx, filter).
		Return([]domain.Transaction{{ID: "tx-1", DocumentNumber: "RK100"}}, nil).Once()

	transactions, err := svc.ListTransactions(ctx, filter)
	assert.NoError(t, err)
	assert.Len(t, transactions, 1)
	mockTxRepo.AssertExpectations(t)
}

func TestTransactionService_Summary(t *testing.T) {
	mockTxRepo, _, _, svc := newTestService()
	ctx := context.TODO()

	mockTxRepo.On("CountByType", ctx, domain.TypeIn).Return(7, nil).Once()
	mockTxRepo.On("CountByType", ctx, domain.TypeOut).Return(3, nil).Once()

	summary, err := svc.Summary(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 7, summary.TotalIn)
	assert.Equal(t, 3, summary.TotalOut)
	mockTxRepo.AssertExpectations(t)
}
