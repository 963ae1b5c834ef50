package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	catalogDomain "github.com/0zheermao0/inventory/internal/catalog/domain"
	catalogRepo "github.com/0zheermao0/inventory/internal/catalog/repository"
	directoryDomain "github.com/0zheermao0/inventory/internal/directory/domain"
	directoryRepo "github.com/0zheermao0/inventory/internal/directory/repository"
	inventoryRepo "github.com/0zheermao0/inventory/internal/inventory/repository"
	"github.com/0zheermao0/inventory/internal/platform/logger"
)

// Sheet names match the workbooks the operators file these exports under.
const (
	productSheetName     = "商品信息"
	customerSheetName    = "客户资料"
	transactionSheetName = "出入库订单"
)

type ExporterService interface {
	// Each export returns a finished xlsx workbook as bytes, ready to stream
	// as a download.
	ExportProducts(ctx context.Context) ([]byte, error)
	ExportCustomers(ctx context.Context) ([]byte, error)
	ExportTransactions(ctx context.Context) ([]byte, error)
}

type exporterServiceImpl struct {
	products     catalogRepo.ProductRepository
	customers    directoryRepo.CustomerRepository
	transactions inventoryRepo.TransactionRepository
}

func NewExporterService(
	products catalogRepo.ProductRepository,
	customers directoryRepo.CustomerRepository,
	transactions inventoryRepo.TransactionRepository,
) ExporterService {
	return &exporterServiceImpl{
		products:     products,
		customers:    customers,
		transactions: transactions,
	}
}

func (s *exporterServiceImpl) ExportProducts(ctx context.Context) ([]byte, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(products)+1)
	rows = append(rows, []interface{}{"型号", "商品名称", "规格", "单位", "单价", "库存数量", "商品描述"})
	for _, p := range products {
		rows = append(rows, []interface{}{
			p.ProductID, p.Name, p.Specification, p.Unit,
			p.Price.InexactFloat64(), p.StockQuantity, p.Description,
		})
	}
	return writeWorkbook(productSheetName, rows)
}

func (s *exporterServiceImpl) ExportCustomers(ctx context.Context) ([]byte, error) {
	customers, err := s.customers.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(customers)+1)
	rows = append(rows, []interface{}{"客户名称", "联系人", "联系电话", "邮箱", "地址", "备注"})
	for _, c := range customers {
		rows = append(rows, []interface{}{
			c.Name, c.ContactPerson, c.Phone, c.Email, c.Address, c.Remarks,
		})
	}
	return writeWorkbook(customerSheetName, rows)
}

// ExportTransactions flattens every document into one spreadsheet row per
// item, joined with the product and customer details an operator expects to
// see next to the line.
func (s *exporterServiceImpl) ExportTransactions(ctx context.Context) ([]byte, error) {
	transactions, err := s.transactions.ListTransactionsWithItems(ctx)
	if err != nil {
		return nil, err
	}
	productsByID, err := s.productLookup(ctx)
	if err != nil {
		return nil, err
	}
	customersByID, err := s.customerLookup(ctx)
	if err != nil {
		return nil, err
	}

	rows := [][]interface{}{{
		"单据号码", "操作类型", "客户名称", "客户电话", "商品编号", "商品名称",
		"规格", "单位", "数量", "单价", "金额", "制单日期", "制单人", "审核人",
		"经手人", "收货人", "单据备注", "商品备注",
	}}
	for _, t := range transactions {
		operation := "入库"
		if t.TransactionType != "IN" {
			operation = "出库"
		}
		var customerName, customerPhone string
		if t.CustomerID != nil {
			if c, ok := customersByID[*t.CustomerID]; ok {
				customerName = c.Name
				customerPhone = c.Phone
			}
		}
		for _, item := range t.Items {
			product := productsByID[item.ProductID]
			rows = append(rows, []interface{}{
				t.DocumentNumber, operation, customerName, customerPhone,
				item.ProductID, product.Name, product.Specification, product.Unit,
				item.Quantity, item.UnitPrice.InexactFloat64(), item.TotalPrice.InexactFloat64(),
				t.TransactionDate.Format("2006-01-02 15:04:05"),
				t.Preparer, t.Auditor, t.Handler, t.Receiver,
				t.Remarks, item.Remarks,
			})
		}
	}
	return writeWorkbook(transactionSheetName, rows)
}

func (s *exporterServiceImpl) productLookup(ctx context.Context) (map[string]catalogDomain.Product, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]catalogDomain.Product, len(products))
	for _, p := range products {
		byID[p.ProductID] = p
	}
	return byID, nil
}

func (s *exporterServiceImpl) customerLookup(ctx context.Context) (map[string]directoryDomain.Customer, error) {
	customers, err := s.customers.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]directoryDomain.Customer, len(customers))
	for _, c := range customers {
		byID[c.ID] = c
	}
	return byID, nil
}

func writeWorkbook(sheet string, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for i, row := range rows {
		start, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, start, &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		logger.Error(fmt.Sprintf("Exporter: writing sheet %s failed", sheet), err)
		return nil, err
	}
	return buf.Bytes(), nil
}
