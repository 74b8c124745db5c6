package services

import (
	"context"
	"strings"

	"salon/internal/core"
)

type CatalogStore interface {
	CreateCustomer(ctx context.Context, c core.Customer) (core.Customer, error)
	GetCustomer(ctx context.Context, id int64) (core.Customer, error)
	ListCustomers(ctx context.Context) ([]core.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, patch core.CustomerPatch) (core.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error

	CreateService(ctx context.Context, s core.Service) (core.Service, error)
	GetService(ctx context.Context, id int64) (core.Service, error)
	ListServices(ctx context.Context) ([]core.Service, error)
	UpdateService(ctx context.Context, id int64, patch core.ServicePatch) (core.Service, error)
	DeleteService(ctx context.Context, id int64) error
}

// CatalogService validates customer and service records before they reach
// the store.
type CatalogService struct {
	store CatalogStore
}

func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) CreateCustomer(ctx context.Context, c core.Customer) (core.Customer, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	if err := c.Validate(); err != nil {
		return core.Customer{}, err
	}
	return s.store.CreateCustomer(ctx, c)
}

func (s *CatalogService) GetCustomer(ctx context.Context, id int64) (core.Customer, error) {
	return s.store.GetCustomer(ctx, id)
}

func (s *CatalogService) ListCustomers(ctx context.Context) ([]core.Customer, error) {
	return s.store.ListCustomers(ctx)
}

// UpdateCustomer is validated by the store against the merged record.
func (s *CatalogService) UpdateCustomer(ctx context.Context, id int64, patch core.CustomerPatch) (core.Customer, error) {
	return s.store.UpdateCustomer(ctx, id, patch)
}

func (s *CatalogService) DeleteCustomer(ctx context.Context, id int64) error {
	return s.store.DeleteCustomer(ctx, id)
}

func (s *CatalogService) CreateService(ctx context.Context, svc core.Service) (core.Service, error) {
	svc.Name = strings.TrimSpace(svc.Name)
	if err := svc.Validate(); err != nil {
		return core.Service{}, err
	}
	return s.store.CreateService(ctx, svc)
}

func (s *CatalogService) GetService(ctx context.Context, id int64) (core.Service, error) {
	return s.store.GetService(ctx, id)
}

func (s *CatalogService) ListServices(ctx context.Context) ([]core.Service, error) {
	return s.store.ListServices(ctx)
}

func (s *CatalogService) UpdateService(ctx context.Context, id int64, patch core.ServicePatch) (core.Service, error) {
	return s.store.UpdateService(ctx, id, patch)
}

func (s *CatalogService) DeleteService(ctx context.Context, id int64) error {
	return s.store.DeleteService(ctx, id)
}
