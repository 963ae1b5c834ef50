package service

import (
	"context"
	"errors"
	"fmt"

	catalogDomain "github.com/0zheermao0/inventory/internal/catalog/domain"
	catalogRepo "github.com/0zheermao0/inventory/internal/catalog/repository"
	directoryDomain "github.com/0zheermao0/inventory/internal/directory/domain"
	directoryRepo "github.com/0zheermao0/inventory/internal/directory/repository"
	"github.com/0zheermao0/inventory/internal/inventory/domain"
	"github.com/0zheermao0/inventory/internal/inventory/repository"
	"github.com/0zheermao0/inventory/internal/platform/logger"
)

var (
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrTransactionPostFailed   = errors.New("transaction posting failed")
	ErrDocumentNumberExhausted = errors.New("could not allocate a unique document number")
)

// docNumberAttempts bounds the regenerate-and-retry loop when another process
// races us to the same document number.
const docNumberAttempts = 3

type TransactionService interface {
	// CreateTransaction posts a new stock movement: header plus a single item,
	// a stock delta on the product, and a freshly stamped document number, all
	// in one database transaction.
	CreateTransaction(ctx context.Context, req domain.CreateTransactionRequest) (*domain.Transaction, error)

	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, filter domain.ListFilter) ([]domain.Transaction, error)
	Summary(ctx context.Context) (*domain.TransactionSummary, error)

	// ReconcileDocument upserts one imported document (header plus line rows)
	// keyed by its document number. Row-level failures are reported, not
	// raised; the rest of the document still commits.
	ReconcileDocument(ctx context.Context, doc domain.DocumentImport) (*domain.ReconcileResult, error)
}

type transactionServiceImpl struct {
	transactions repository.TransactionRepository
	products     catalogRepo.ProductRepository
	customers    directoryRepo.CustomerRepository
	docNumbers   DocumentNumberGenerator
}

func NewTransactionService(
	transactions repository.TransactionRepository,
	products catalogRepo.ProductRepository,
	customers directoryRepo.CustomerRepository,
	docNumbers DocumentNumberGenerator,
) TransactionService {
	return &transactionServiceImpl{
		transactions: transactions,
		products:     products,
		customers:    customers,
		docNumbers:   docNumbers,
	}
}

func (s *transactionServiceImpl) CreateTransaction(ctx context.Context, req domain.CreateTransactionRequest) (*domain.Transaction, error) {
	// A duplicate document number aborts the whole sql transaction, so the
	// retry restarts from BeginTx with a regenerated number.
	for attempt := 0; attempt < docNumberAttempts; attempt++ {
		t, err := s.createTransactionOnce(ctx, req)
		if errors.Is(err, repository.ErrDuplicateDocumentNumber) {
			logger.Warn("Svc.CreateTransaction: document number collision, retrying")
			continue
		}
		return t, err
	}
	return nil, ErrDocumentNumberExhausted
}

func (s *transactionServiceImpl) createTransactionOnce(ctx context.Context, req domain.CreateTransactionRequest) (*domain.Transaction, error) {
	tx, err := s.transactions.BeginTx(ctx)
	if err != nil {
		logger.Error("Svc.CreateTransaction: begin tx failed", err)
		return nil, fmt.Errorf("%w: %v", ErrTransactionPostFailed, err)
	}
	defer tx.Rollback()

	// Lock the product row before the stock check so concurrent OUT postings
	// serialize instead of racing the same stock.
	product, err := s.products.GetByProductIDForUpdate(ctx, tx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if req.TransactionType == domain.TypeOut && product.StockQuantity < req.Quantity {
		return nil, fmt.Errorf("%w: current stock %d, requested %d",
			ErrInsufficientStock, product.StockQuantity, req.Quantity)
	}

	header := &domain.Transaction{
		TransactionType: req.TransactionType,
		DocumentNumber:  s.docNumbers.Next(req.TransactionType),
		CustomerID:      req.CustomerID,
		Preparer:        req.Preparer,
		Auditor:         req.Auditor,
		Handler:         req.Handler,
		Receiver:        req.Receiver,
		Remarks:         req.Remarks,
	}
	if err := s.transactions.InsertHeader(ctx, tx, header); err != nil {
		return nil, err
	}

	item := &domain.TransactionItem{
		TransactionID: header.ID,
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		Remarks:       req.ItemRemarks,
	}
	if req.UnitPrice != nil {
		item.UnitPrice = *req.UnitPrice
	} else {
		item.UnitPrice = product.Price
	}
	item.ComputeTotal()

	if err := s.transactions.InsertItem(ctx, tx, item); err != nil {
		return nil, err
	}
	if err := s.products.AdjustStock(ctx, tx, req.ProductID, req.TransactionType.StockDelta(req.Quantity)); err != nil {
		return nil, err
	}

	header.TotalAmount = item.TotalPrice
	if err := s.transactions.SetTotalAmount(ctx, tx, header.ID, header.TotalAmount); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("Svc.CreateTransaction: commit failed", err)
		return nil, fmt.Errorf("%w: %v", ErrTransactionPostFailed, err)
	}

	header.Items = []domain.TransactionItem{*item}
	return header, nil
}

func (s *transactionServiceImpl) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return s.transactions.GetByID(ctx, id)
}

func (s *transactionServiceImpl) ListTransactions(ctx context.Context, filter domain.ListFilter) ([]domain.Transaction, error) {
	return s.transactions.ListTransactions(ctx, filter)
}

func (s *transactionServiceImpl) Summary(ctx context.Context) (*domain.TransactionSummary, error) {
	totalIn, err := s.transactions.CountByType(ctx, domain.TypeIn)
	if err != nil {
		return nil, err
	}
	totalOut, err := s.transactions.CountByType(ctx, domain.TypeOut)
	if err != nil {
		return nil, err
	}
	return &domain.TransactionSummary{TotalIn: totalIn, TotalOut: totalOut}, nil
}

func (s *transactionServiceImpl) ReconcileDocument(ctx context.Context, doc domain.DocumentImport) (*domain.ReconcileResult, error) {
	var customerID *string
	if doc.CustomerName != "" {
		customer, err := s.customers.GetOrCreateByName(ctx, doc.CustomerName,
			directoryDomain.CustomerDefaults{Phone: doc.CustomerPhone})
		if err != nil {
			return nil, err
		}
		customerID = &customer.ID
	}

	tx, err := s.transactions.BeginTx(ctx)
	if err != nil {
		logger.Error("Svc.ReconcileDocument: begin tx failed", err)
		return nil, fmt.Errorf("%w: %v", ErrTransactionPostFailed, err)
	}
	defer tx.Rollback()

	result := &domain.ReconcileResult{}

	header, err := s.transactions.GetHeaderByDocumentNumber(ctx, tx, doc.DocumentNumber)
	switch {
	case errors.Is(err, repository.ErrTransactionNotFound):
		header = &domain.Transaction{
			TransactionType: doc.TransactionType,
			DocumentNumber:  doc.DocumentNumber,
			CustomerID:      customerID,
			Preparer:        doc.Preparer,
			Auditor:         doc.Auditor,
			Handler:         doc.Handler,
			Receiver:        doc.Receiver,
			Remarks:         doc.Remarks,
		}
		if err := s.transactions.InsertHeader(ctx, tx, header); err != nil {
			return nil, err
		}
		result.HeaderCreated = true
	case err != nil:
		return nil, err
	default:
		header.TransactionType = doc.TransactionType
		header.CustomerID = customerID
		header.Preparer = doc.Preparer
		header.Auditor = doc.Auditor
		header.Handler = doc.Handler
		header.Receiver = doc.Receiver
		header.Remarks = doc.Remarks
		if err := s.transactions.UpdateHeader(ctx, tx, header); err != nil {
			return nil, err
		}
	}

	for _, row := range doc.Rows {
		product, err := s.products.GetByProductIDForUpdate(ctx, tx, row.ProductID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrProductNotFound) {
				result.RowErrors = append(result.RowErrors,
					fmt.Sprintf("document %s: product %s not found", doc.DocumentNumber, row.ProductID))
				continue
			}
			return nil, err
		}

		item := &domain.TransactionItem{
			TransactionID: header.ID,
			ProductID:     row.ProductID,
			Quantity:      row.Quantity,
			Remarks:       row.Remarks,
		}
		if row.UnitPrice != nil {
			item.UnitPrice = *row.UnitPrice
		} else {
			item.UnitPrice = product.Price
		}

		if err := s.upsertDocumentItem(ctx, tx, header, product, item); err != nil {
			if errors.Is(err, ErrInsufficientStock) {
				result.RowErrors = append(result.RowErrors,
					fmt.Sprintf("document %s: product %s: %v", doc.DocumentNumber, row.ProductID, err))
				continue
			}
			return nil, err
		}

		total, err := s.transactions.SumItemTotals(ctx, tx, header.ID)
		if err != nil {
			return nil, err
		}
		if err := s.transactions.SetTotalAmount(ctx, tx, header.ID, total); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("Svc.ReconcileDocument: commit failed", err)
		return nil, fmt.Errorf("%w: %v", ErrTransactionPostFailed, err)
	}
	return result, nil
}

// upsertDocumentItem routes an imported line row to the post-or-update split:
// a line new to the document is posted (stock delta applied once), a line
// already on the document is only repriced.
func (s *transactionServiceImpl) upsertDocumentItem(ctx context.Context, tx repository.DBTX, header *domain.Transaction, product *catalogDomain.Product, item *domain.TransactionItem) error {
	existing, err := s.transactions.GetItemByTransactionAndProduct(ctx, tx, header.ID, item.ProductID)
	switch {
	case errors.Is(err, repository.ErrItemNotFound):
		return s.postNewItem(ctx, tx, header.TransactionType, product, item)
	case err != nil:
		return err
	default:
		item.ID = existing.ID
		return s.updateExistingItem(ctx, tx, item)
	}
}

// postNewItem applies the stock delta. It is only ever called for an item
// that has never been persisted.
func (s *transactionServiceImpl) postNewItem(ctx context.Context, tx repository.DBTX, transactionType domain.TransactionType, product *catalogDomain.Product, item *domain.TransactionItem) error {
	if transactionType == domain.TypeOut && product.StockQuantity < item.Quantity {
		return fmt.Errorf("%w: current stock %d, requested %d",
			ErrInsufficientStock, product.StockQuantity, item.Quantity)
	}
	item.ComputeTotal()
	if err := s.transactions.InsertItem(ctx, tx, item); err != nil {
		return err
	}
	return s.products.AdjustStock(ctx, tx, item.ProductID, transactionType.StockDelta(item.Quantity))
}

// updateExistingItem recomputes the line total only. Stock was already moved
// when the item was first posted and is never re-applied.
func (s *transactionServiceImpl) updateExistingItem(ctx context.Context, tx repository.DBTX, item *domain.TransactionItem) error {
	item.ComputeTotal()
	return s.transactions.UpdateItem(ctx, tx, item)
}
