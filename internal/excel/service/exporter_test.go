package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	catalogDomain "github.com/0zheermao0/inventory/internal/catalog/domain"
	catalogMocks "github.com/0zheermao0/inventory/internal/catalog/repository/mocks"
	directoryDomain "github.com/0zheermao0/inventory/internal/directory/domain"
	directoryMocks "github.com/0zheermao0/inventory/internal/directory/repository/mocks"
	inventoryDomain "github.com/0zheermao0/inventory/internal/inventory/domain"
	inventoryMocks "github.com/0zheermao0/inventory/internal/inventory/repository/mocks"
)

func readWorkbook(t *testing.T, blob []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(blob))
	assert.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	assert.NoError(t, err)
	return rows
}

func TestExporterService_ExportProducts(t *testing.T) {
	mockProducts := new(catalogMocks.MockProductRepository)
	svc := NewExporterService(mockProducts, nil, nil)
	ctx := context.TODO()

	mockProducts.On("ListProducts", ctx).Return([]catalogDomain.Product{
		{ProductID: "P001", Name: "Widget", Specification: "L", Unit: "pcs",
			Price: decimal.NewFromFloat(10.5), StockQuantity: 70, Description: "fragile"},
	}, nil).Once()

	blob, err := svc.ExportProducts(ctx)
	assert.NoError(t, err)

	rows := readWorkbook(t, blob)
	assert.Len(t, rows, 2)
	assert.Equal(t, []string{"型号", "商品名称", "规格", "单位", "单价", "库存数量", "商品描述"}, rows[0])
	assert.Equal(t, []string{"P001", "Widget", "L", "pcs", "10.5", "70", "fragile"}, rows[1])
	mockProducts.AssertExpectations(t)
}

func TestExporterService_ExportCustomers(t *testing.T) {
	mockCustomers := new(directoryMocks.MockCustomerRepository)
	svc := NewExporterService(nil, mockCustomers, nil)
	ctx := context.TODO()

	mockCustomers.On("ListCustomers", ctx).Return([]directoryDomain.Customer{
		{Name: "Acme", ContactPerson: "Kim", Phone: "555-0100",
			Email: "kim@acme.test", Address: "1 Main St", Remarks: "wholesale"},
	}, nil).Once()

	blob, err := svc.ExportCustomers(ctx)
	assert.NoError(t, err)

	rows := readWorkbook(t, blob)
	assert.Len(t, rows, 2)
	assert.Equal(t, []string{"客户名称", "联系人", "联系电话", "邮箱", "地址", "备注"}, rows[0])
	assert.Equal(t, []string{"Acme", "Kim", "555-0100", "kim@acme.test", "1 Main St", "wholesale"}, rows[1])
	mockCustomers.AssertExpectations(t)
}

func TestExporterService_ExportTransactions_FlattensItemsWithJoins(t *testing.T) {
	mockProducts := new(catalogMocks.MockProductRepository)
	mockCustomers := new(directoryMocks.MockCustomerRepository)
	mockTransactions := new(inventoryMocks.MockTransactionRepository)
	svc := NewExporterService(mockProducts, mockCustomers, mockTransactions)
	ctx := context.TODO()

	customerID := "cust-1"
	posted := time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)
	mockTransactions.On("ListTransactionsWithItems", ctx).Return([]inventoryDomain.Transaction{
		{
			ID: "tx-1", TransactionType: inventoryDomain.TypeIn, DocumentNumber: "RK100",
			CustomerID: &customerID, Preparer: "alice", Auditor: "bob",
			TransactionDate: posted,
			Items: []inventoryDomain.TransactionItem{
				{ProductID: "P001", Quantity: 20, UnitPrice: decimal.NewFromFloat(10.5),
					TotalPrice: decimal.NewFromInt(210), Remarks: "first batch"},
				{ProductID: "P002", Quantity: 5, UnitPrice: decimal.NewFromFloat(2.5),
					TotalPrice: decimal.NewFromFloat(12.5)},
			},
		},
	}, nil).Once()
	mockProducts.On("ListProducts", ctx).Return([]catalogDomain.Product{
		{ProductID: "P001", Name: "Widget", Specification: "L", Unit: "pcs"},
		{ProductID: "P002", Name: "Gadget"},
	}, nil).Once()
	mockCustomers.On("ListCustomers", ctx).Return([]directoryDomain.Customer{
		{ID: "cust-1", Name: "Acme", Phone: "555-0100"},
	}, nil).Once()

	blob, err := svc.ExportTransactions(ctx)
	assert.NoError(t, err)

	rows := readWorkbook(t, blob)
	// One header row plus one row per item.
	assert.Len(t, rows, 3)
	assert.Equal(t, []string{
		"单据号码", "操作类型", "客户名称", "客户电话", "商品编号", "商品名称",
		"规格", "单位", "数量", "单价", "金额", "制单日期", "制单人", "审核人",
		"经手人", "收货人", "单据备注", "商品备注",
	}, rows[0])

	first := rows[1]
	assert.Equal(t, "RK100", first[0])
	assert.Equal(t, "入库", first[1])
	assert.Equal(t, "Acme", first[2])
	assert.Equal(t, "555-0100", first[3])
	assert.Equal(t, "P001", first[4])
	assert.Equal(t, "Widget", first[5])
	assert.Equal(t, "L", first[6])
	assert.Equal(t, "pcs", first[7])
	assert.Equal(t, "20", first[8])
	assert.Equal(t, "10.5", first[9])
	assert.Equal(t, "210", first[10])
	assert.Equal(t, "2026-08-01 09:30:00", first[11])
	assert.Equal(t, "alice", first[12])

	second := rows[2]
	assert.Equal(t, "RK100", second[0])
	assert.Equal(t, "P002", second[4])
	assert.Equal(t, "Gadget", second[5])
	assert.Equal(t, "12.5", second[10])

	mockTransactions.AssertExpectations(t)
	mockProducts.AssertExpectations(t)
	mockCustomers.AssertExpectations(t)
}
