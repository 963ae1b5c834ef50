package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	catalogDomain "github.com/0zheermao0/inventory/internal/catalog/domain"
	catalogRepo "github.com/0zheermao0/inventory/internal/catalog/repository"
	directoryDomain "github.com/0zheermao0/inventory/internal/directory/domain"
	directoryRepo "github.com/0zheermao0/inventory/internal/directory/repository"
	inventoryDomain "github.com/0zheermao0/inventory/internal/inventory/domain"
	inventoryService "github.com/0zheermao0/inventory/internal/inventory/service"
	"github.com/0zheermao0/inventory/internal/platform/logger"
)

var (
	ErrMissingColumn = errors.New("required column missing")
	ErrEmptySheet    = errors.New("spreadsheet has no data rows")
	ErrInvalidFile   = errors.New("file is not a readable xlsx workbook")
)

// Spreadsheet column labels. The workbooks these importers accept are the ones
// the shop operators already keep, so the labels are a fixed data contract and
// stay in the operators' language.
const (
	colProductID      = "型号"
	colProductPrice   = "单价元/个"
	colProductName    = "名称"
	colRemarks        = "备注"
	colCustomerName   = "客户名称"
	colContactPerson  = "联系人"
	colContactPhone   = "联系电话"
	colEmail          = "邮箱"
	colAddress        = "地址"
	colDocumentNumber = "单据号码"
	colOperationType  = "操作类型"
	colItemProductID  = "商品编号"
	colQuantity       = "数量"
	colUnitPrice      = "单价"
	colCustomerPhone  = "客户电话"
	colPreparer       = "制单人"
	colAuditor        = "审核人"
	colHandler        = "经手人"
	colReceiver       = "收货人"
	colDocRemarks     = "单据备注"
	colItemRemarks    = "商品备注"

	operationInbound  = "入库"
	operationOutbound = "出库"
)

// ImportResult mirrors what every import pipeline reports: how many records
// were created versus refreshed, plus per-row errors that did not stop the run.
type ImportResult struct {
	CreatedCount int      `json:"created_count"`
	UpdatedCount int      `json:"updated_count"`
	Errors       []string `json:"errors"`
}

type ImporterService interface {
	ImportProducts(ctx context.Context, r io.Reader) (*ImportResult, error)
	ImportCustomers(ctx context.Context, r io.Reader) (*ImportResult, error)
	ImportTransactions(ctx context.Context, r io.Reader) (*ImportResult, error)
}

type importerServiceImpl struct {
	products     catalogRepo.ProductRepository
	customers    directoryRepo.CustomerRepository
	transactions inventoryService.TransactionService
}

func NewImporterService(
	products catalogRepo.ProductRepository,
	customers directoryRepo.CustomerRepository,
	transactions inventoryService.TransactionService,
) ImporterService {
	return &importerServiceImpl{
		products:     products,
		customers:    customers,
		transactions: transactions,
	}
}

// ImportProducts reads the operator's product workbook and upserts every row
// by its product code. The workbook is decorative: a title block and blank
// rows precede the real header, so the header row is located by scanning for
// the product code label instead of assuming row one.
func (s *importerServiceImpl) ImportProducts(ctx context.Context, r io.Reader) (*ImportResult, error) {
	rows, err := readFirstSheet(r)
	if err != nil {
		return nil, err
	}

	headerRow := -1
	for i, row := range rows {
		if rowContains(row, colProductID) {
			headerRow = i
			break
		}
	}
	if headerRow < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, colProductID)
	}

	idx := headerIndex(rows[headerRow])
	if err := requireColumns(idx, colProductID, colProductPrice); err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for n, row := range rows[headerRow+1:] {
		productID := cell(row, idx, colProductID)
		if productID == "" {
			continue
		}

		defaults := catalogDomain.ProductDefaults{
			Name:        cell(row, idx, colProductName),
			Price:       ParsePrice(cell(row, idx, colProductPrice)),
			Description: cell(row, idx, colRemarks),
		}
		created, err := s.products.UpsertByProductID(ctx, productID, defaults)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", headerRow+n+2, err))
			continue
		}
		if created {
			result.CreatedCount++
		} else {
			result.UpdatedCount++
		}
	}

	logger.Info(fmt.Sprintf("Importer.ImportProducts: %d created, %d updated, %d errors",
		result.CreatedCount, result.UpdatedCount, len(result.Errors)))
	return result, nil
}

// ImportCustomers upserts customers by name from a plain header-first workbook.
func (s *importerServiceImpl) ImportCustomers(ctx context.Context, r io.Reader) (*ImportResult, error) {
	rows, err := readFirstSheet(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	idx := headerIndex(rows[0])
	if err := requireColumns(idx, colCustomerName); err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for n, row := range rows[1:] {
		name := cell(row, idx, colCustomerName)
		if name == "" {
			continue
		}

		defaults := directoryDomain.CustomerDefaults{
			ContactPerson: cell(row, idx, colContactPerson),
			Phone:         cell(row, idx, colContactPhone),
			Email:         cell(row, idx, colEmail),
			Address:       cell(row, idx, colAddress),
			Remarks:       cell(row, idx, colRemarks),
		}
		created, err := s.customers.UpsertByName(ctx, name, defaults)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", n+2, err))
			continue
		}
		if created {
			result.CreatedCount++
		} else {
			result.UpdatedCount++
		}
	}

	logger.Info(fmt.Sprintf("Importer.ImportCustomers: %d created, %d updated, %d errors",
		result.CreatedCount, result.UpdatedCount, len(result.Errors)))
	return result, nil
}

// ImportTransactions replays a workbook of stock movement rows. Rows sharing a
// document number form one document; the header fields come from the group's
// first row and each group is reconciled in its own database transaction, so a
// bad row or a bad document never drags the rest of the batch down.
func (s *importerServiceImpl) ImportTransactions(ctx context.Context, r io.Reader) (*ImportResult, error) {
	rows, err := readFirstSheet(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	idx := headerIndex(rows[0])
	if err := requireColumns(idx, colDocumentNumber, colOperationType, colItemProductID, colQuantity); err != nil {
		return nil, err
	}

	docs := groupByDocument(rows[1:], idx)

	result := &ImportResult{}
	for _, doc := range docs {
		outcome, err := s.transactions.ReconcileDocument(ctx, doc)
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("document %s: %v", doc.DocumentNumber, err))
			continue
		}
		if outcome.HeaderCreated {
			result.CreatedCount++
		} else {
			result.UpdatedCount++
		}
		result.Errors = append(result.Errors, outcome.RowErrors...)
	}

	logger.Info(fmt.Sprintf("Importer.ImportTransactions: %d created, %d updated, %d errors",
		result.CreatedCount, result.UpdatedCount, len(result.Errors)))
	return result, nil
}

// groupByDocument collapses flat spreadsheet rows into per-document imports,
// preserving the order documents first appear in the sheet.
func groupByDocument(rows [][]string, idx map[string]int) []inventoryDomain.DocumentImport {
	var order []string
	byNumber := make(map[string]*inventoryDomain.DocumentImport)

	for _, row := range rows {
		documentNumber := cell(row, idx, colDocumentNumber)
		if documentNumber == "" {
			continue
		}

		doc, seen := byNumber[documentNumber]
		if !seen {
			doc = &inventoryDomain.DocumentImport{
				DocumentNumber:  documentNumber,
				TransactionType: operationType(cell(row, idx, colOperationType)),
				CustomerName:    cell(row, idx, colCustomerName),
				CustomerPhone:   cell(row, idx, colCustomerPhone),
				Preparer:        cell(row, idx, colPreparer),
				Auditor:         cell(row, idx, colAuditor),
				Handler:         cell(row, idx, colHandler),
				Receiver:        cell(row, idx, colReceiver),
				Remarks:         cell(row, idx, colDocRemarks),
			}
			byNumber[documentNumber] = doc
			order = append(order, documentNumber)
		}

		importRow := inventoryDomain.DocumentImportRow{
			ProductID: cell(row, idx, colItemProductID),
			Quantity:  ParseQuantity(cell(row, idx, colQuantity)),
			Remarks:   cell(row, idx, colItemRemarks),
		}
		if raw := cell(row, idx, colUnitPrice); raw != "" {
			price := ParsePrice(raw)
			if !price.Equal(decimal.Zero) {
				importRow.UnitPrice = &price
			}
		}
		doc.Rows = append(doc.Rows, importRow)
	}

	docs := make([]inventoryDomain.DocumentImport, 0, len(order))
	for _, documentNumber := range order {
		docs = append(docs, *byNumber[documentNumber])
	}
	return docs
}

// operationType maps the sheet's operation label. Anything that is not the
// inbound label counts as outbound, matching how the sheets are filled in.
func operationType(label string) inventoryDomain.TransactionType {
	if label == operationInbound {
		return inventoryDomain.TypeIn
	}
	return inventoryDomain.TypeOut
}

func readFirstSheet(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		logger.Error("Importer: open workbook failed", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	return rows, nil
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, label := range header {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		if _, dup := idx[label]; !dup {
			idx[label] = i
		}
	}
	return idx
}

func requireColumns(idx map[string]int, labels ...string) error {
	for _, label := range labels {
		if _, ok := idx[label]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingColumn, label)
		}
	}
	return nil
}

func rowContains(row []string, label string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) == label {
			return true
		}
	}
	return false
}

func cell(row []string, idx map[string]int, label string) string {
	i, ok := idx[label]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
