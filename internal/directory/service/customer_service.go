package service

import (
	"context"

	"github.com/0zheermao0/inventory/internal/directory/domain"
	"github.com/0zheermao0/inventory/internal/directory/repository"
	"github.com/0zheermao0/inventory/internal/platform/logger"
)

type CustomerService interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	GetCustomer(ctx context.Context, name string) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, req domain.CreateCustomerRequest) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, name string, req domain.CreateCustomerRequest) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, name string) error

	GetStoreInfo(ctx context.Context) (*domain.StoreInfo, error)
	SaveStoreInfo(ctx context.Context, info domain.StoreInfo) (*domain.StoreInfo, error)
}

type customerServiceImpl struct {
	customers repository.CustomerRepository
	store     repository.StoreInfoRepository
}

func NewCustomerService(customers repository.CustomerRepository, store repository.StoreInfoRepository) CustomerService {
	return &customerServiceImpl{customers: customers, store: store}
}

func (s *customerServiceImpl) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.customers.ListCustomers(ctx)
}

func (s *customerServiceImpl) GetCustomer(ctx context.Context, name string) (*domain.Customer, error) {
	return s.customers.GetByName(ctx, name)
}

func (s *customerServiceImpl) CreateCustomer(ctx context.Context, req domain.CreateCustomerRequest) (*domain.Customer, error) {
	c := &domain.Customer{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		Remarks:       req.Remarks,
	}
	if err := s.customers.CreateCustomer(ctx, c); err != nil {
		logger.Error("Svc.CreateCustomer: repo error", err)
		return nil, err
	}
	return c, nil
}

func (s *customerServiceImpl) UpdateCustomer(ctx context.Context, name string, req domain.CreateCustomerRequest) (*domain.Customer, error) {
	c, err := s.customers.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	c.ContactPerson = req.ContactPerson
	c.Phone = req.Phone
	c.Email = req.Email
	c.Address = req.Address
	c.Remarks = req.Remarks
	if err := s.customers.UpdateCustomer(ctx, c); err != nil {
		logger.Error("Svc.UpdateCustomer: repo error", err)
		return nil, err
	}
	return c, nil
}

func (s *customerServiceImpl) DeleteCustomer(ctx context.Context, name string) error {
	return s.customers.DeleteCustomer(ctx, name)
}

func (s *customerServiceImpl) GetStoreInfo(ctx context.Context) (*domain.StoreInfo, error) {
	return s.store.GetStoreInfo(ctx)
}

func (s *customerServiceImpl) SaveStoreInfo(ctx context.Context, info domain.StoreInfo) (*domain.StoreInfo, error) {
	if err := s.store.SaveStoreInfo(ctx, &info); err != nil {
		logger.Error("Svc.SaveStoreInfo: repo error", err)
		return nil, err
	}
	return &info, nil
}
