package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	catalogRepo "github.com/0zheermao0/inventory/internal/catalog/repository"
	"github.com/0zheermao0/inventory/internal/inventory/domain"
	"github.com/0zheermao0/inventory/internal/inventory/repository"
	"github.com/0zheermao0/inventory/internal/inventory/service"
	"github.com/0zheermao0/inventory/internal/platform/logger"
)

type TransactionHandler struct {
	transactionService service.TransactionService
}

func NewTransactionHandler(ts service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: ts}
}

func (h *TransactionHandler) RegisterRoutes(router *gin.RouterGroup) {
	txRoutes := router.Group("/inventory-transactions")
	{
		txRoutes.GET("", h.ListTransactions)
		txRoutes.POST("", h.CreateTransaction)
		txRoutes.GET("/summary", h.Summary)
		txRoutes.GET("/:id", h.GetTransaction)
	}
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req domain.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	t, err := h.transactionService.CreateTransaction(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientStock):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, catalogRepo.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			logger.Error("Hdl.CreateTransaction: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create transaction"})
		}
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id := c.Param("id")
	t, err := h.transactionService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Hdl.GetTransaction: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transaction"})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	filter := domain.ListFilter{
		TransactionType: c.Query("transaction_type"),
		ProductID:       c.Query("product_id"),
		ProductName:     c.Query("product_name"),
	}
	transactions, err := h.transactionService.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		logger.Error("Hdl.ListTransactions: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func (h *TransactionHandler) Summary(c *gin.Context) {
	summary, err := h.transactionService.Summary(c.Request.Context())
	if err != nil {
		logger.Error("Hdl.Summary: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
