package service

import (
	"context"

	"github.com/0zheermao0/inventory/internal/catalog/domain"
	"github.com/0zheermao0/inventory/internal/catalog/repository"
	"github.com/0zheermao0/inventory/internal/platform/logger"
)

type ProductService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error)
	UpdateProduct(ctx context.Context, productID string, req domain.UpdateProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
}

type productServiceImpl struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productServiceImpl{repo: repo}
}

func (s *productServiceImpl) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *productServiceImpl) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	return s.repo.GetByProductID(ctx, productID)
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	p := &domain.Product{
		ProductID:     req.ProductID,
		Name:          req.Name,
		Specification: req.Specification,
		Unit:          req.Unit,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Description:   req.Description,
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		logger.Error("Svc.CreateProduct: repo error", err)
		return nil, err
	}
	return p, nil
}

func (s *productServiceImpl) UpdateProduct(ctx context.Context, productID string, req domain.UpdateProductRequest) (*domain.Product, error) {
	p, err := s.repo.GetByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	p.Name = req.Name
	p.Specification = req.Specification
	p.Unit = req.Unit
	p.Price = req.Price
	p.Description = req.Description
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		logger.Error("Svc.UpdateProduct: repo error", err)
		return nil, err
	}
	return p, nil
}

func (s *productServiceImpl) DeleteProduct(ctx context.Context, productID string) error {
	return s.repo.DeleteProduct(ctx, productID)
}
