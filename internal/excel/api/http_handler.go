package api

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/0zheermao0/inventory/internal/excel/service"
	"github.com/0zheermao0/inventory/internal/platform/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExcelHandler struct {
	importer service.ImporterService
	exporter service.ExporterService
}

func NewExcelHandler(importer service.ImporterService, exporter service.ExporterService) *ExcelHandler {
	return &ExcelHandler{importer: importer, exporter: exporter}
}

func (h *ExcelHandler) RegisterRoutes(router *gin.RouterGroup) {
	importRoutes := router.Group("/import")
	{
		importRoutes.POST("/products", h.ImportProducts)
		importRoutes.POST("/customers", h.ImportCustomers)
		importRoutes.POST("/transactions", h.ImportTransactions)
	}
	exportRoutes := router.Group("/export")
	{
		exportRoutes.GET("/products", h.ExportProducts)
		exportRoutes.GET("/customers", h.ExportCustomers)
		exportRoutes.GET("/transactions", h.ExportTransactions)
	}
}

type importFunc func(c *gin.Context) (*service.ImportResult, error)

// handleImport pulls the uploaded workbook out of the multipart form and runs
// one import pipeline over it.
func (h *ExcelHandler) handleImport(c *gin.Context, name string, run importFunc) {
	result, err := run(c)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingColumn),
			errors.Is(err, service.ErrEmptySheet),
			errors.Is(err, service.ErrInvalidFile):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Hdl."+name+": import failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Import failed"})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ExcelHandler) openUpload(c *gin.Context) (multipart.File, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing upload: expected a multipart 'file' field"})
		return nil, false
	}
	f, err := fileHeader.Open()
	if err != nil {
		logger.Error("Hdl.openUpload: open uploaded file failed", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
		return nil, false
	}
	return f, true
}

func (h *ExcelHandler) ImportProducts(c *gin.Context) {
	f, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer f.Close()
	h.handleImport(c, "ImportProducts", func(c *gin.Context) (*service.ImportResult, error) {
		return h.importer.ImportProducts(c.Request.Context(), f)
	})
}

func (h *ExcelHandler) ImportCustomers(c *gin.Context) {
	f, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer f.Close()
	h.handleImport(c, "ImportCustomers", func(c *gin.Context) (*service.ImportResult, error) {
		return h.importer.ImportCustomers(c.Request.Context(), f)
	})
}

func (h *ExcelHandler) ImportTransactions(c *gin.Context) {
	f, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer f.Close()
	h.handleImport(c, "ImportTransactions", func(c *gin.Context) (*service.ImportResult, error) {
		return h.importer.ImportTransactions(c.Request.Context(), f)
	})
}

func (h *ExcelHandler) serveWorkbook(c *gin.Context, name, filename string, blob []byte, err error) {
	if err != nil {
		logger.Error("Hdl."+name+": export failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Export failed"})
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, blob)
}

func (h *ExcelHandler) ExportProducts(c *gin.Context) {
	blob, err := h.exporter.ExportProducts(c.Request.Context())
	h.serveWorkbook(c, "ExportProducts", "products.xlsx", blob, err)
}

func (h *ExcelHandler) ExportCustomers(c *gin.Context) {
	blob, err := h.exporter.ExportCustomers(c.Request.Context())
	h.serveWorkbook(c, "ExportCustomers", "customers.xlsx", blob, err)
}

func (h *ExcelHandler) ExportTransactions(c *gin.Context) {
	blob, err := h.exporter.ExportTransactions(c.Request.Context())
	h.serveWorkbook(c, "ExportTransactions", "inventory_transactions.xlsx", blob, err)
}
