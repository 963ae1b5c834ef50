package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/0zheermao0/inventory/internal/directory/domain"
	"github.com/0zheermao0/inventory/internal/directory/repository"
	"github.com/0zheermao0/inventory/internal/directory/service"
	"github.com/0zheermao0/inventory/internal/platform/logger"
)

type CustomerHandler struct {
	customerService service.CustomerService
}

func NewCustomerHandler(cs service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: cs}
}

func (h *CustomerHandler) RegisterRoutes(router *gin.RouterGroup) {
	customerRoutes := router.Group("/customers")
	{
		customerRoutes.GET("", h.ListCustomers)
		customerRoutes.POST("", h.CreateCustomer)
		customerRoutes.GET("/:name", h.GetCustomer)
		customerRoutes.PUT("/:name", h.UpdateCustomer)
		customerRoutes.DELETE("/:name", h.DeleteCustomer)
	}
	storeRoutes := router.Group("/store-info")
	{
		storeRoutes.GET("", h.GetStoreInfo)
		storeRoutes.PUT("", h.SaveStoreInfo)
	}
}

func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	customers, err := h.customerService.ListCustomers(c.Request.Context())
	if err != nil {
		logger.Error("Hdl.ListCustomers: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve customers"})
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	name := c.Param("name")
	customer, err := h.customerService.GetCustomer(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Hdl.GetCustomer: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve customer"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req domain.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	customer, err := h.customerService.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Hdl.CreateCustomer: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customer"})
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	name := c.Param("name")
	var req domain.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), name, req)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Hdl.UpdateCustomer: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update customer"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	name := c.Param("name")
	if err := h.customerService.DeleteCustomer(c.Request.Context(), name); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, repository.ErrCustomerInUse) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Hdl.DeleteCustomer: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete customer"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
}

func (h *CustomerHandler) GetStoreInfo(c *gin.Context) {
	info, err := h.customerService.GetStoreInfo(c.Request.Context())
	if err != nil {
		if errors.Is(err, repository.ErrStoreInfoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Hdl.GetStoreInfo: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve store info"})
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *CustomerHandler) SaveStoreInfo(c *gin.Context) {
	var req domain.StoreInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	info, err := h.customerService.SaveStoreInfo(c.Request.Context(), req)
	if err != nil {
		logger.Error("Hdl.SaveStoreInfo: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save store info"})
		return
	}
	c.JSON(http.StatusOK, info)
}
