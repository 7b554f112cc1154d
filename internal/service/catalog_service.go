package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/models"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/ports"
)

// CatalogService exposes the catalog slice the storefront needs: public
// reads and the admin product upsert/delete
type CatalogService struct {
	storage ports.ProductStorage
}

func NewCatalogService(storage ports.ProductStorage) *CatalogService {
	return &CatalogService{
		storage: storage,
	}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.storage.ListProducts(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (models.Product, error) {
	return s.storage.GetProductByID(ctx, id)
}

// SaveProduct creates or replaces a catalog entry (admin)
func (s *CatalogService) SaveProduct(ctx context.Context, product models.Product) (models.Product, error) {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	return s.storage.UpsertProduct(ctx, product)
}

// DeleteProduct removes a catalog entry; historical order items keep their
// name/price snapshot (admin)
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	return s.storage.DeleteProduct(ctx, id)
}
