package service

import (
	"context"
	"errors"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	SKU         string          `json:"sku" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       int             `json:"stock" binding:"gte=0"`
	IsActive    *bool           `json:"is_active"`
}

type UpdateProductRequest struct {
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	IsActive    *bool            `json:"is_active"`
}

type AddImageRequest struct {
	URL       string `json:"url" binding:"required,url"`
	IsPrimary bool   `json:"is_primary"`
}

// --- Interface ---

type ProductService interface {
	CreateProduct(ctx context.Context, actorID *uuid.UUID, req CreateProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, req UpdateProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, actorID *uuid.UUID, id uuid.UUID) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context, page, limit int, search string) ([]model.Product, int64, error)
	AddImage(ctx context.Context, productID uuid.UUID, req AddImageRequest) (*model.ProductImage, error)
	RemoveImage(ctx context.Context, productID, imageID uuid.UUID) error
}

type productService struct {
	repo  repository.ProductRepository
	audit AuditService
}

func NewProductService(repo repository.ProductRepository, audit AuditService) ProductService {
	return &productService{repo: repo, audit: audit}
}

// --- Implementation ---

func (s *productService) CreateProduct(ctx context.Context, actorID *uuid.UUID, req CreateProductRequest) (*model.Product, error) {
	if req.Price.IsNegative() {
		return nil, errors.New("price must be non-negative")
	}

	if _, err := s.repo.FindBySKU(ctx, req.SKU); err == nil {
		return nil, errors.New("SKU already exists")
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	product := &model.Product{
		Name:        req.Name,
		SKU:         req.SKU,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		IsActive:    active,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actorID, model.ActionCreateProduct, product.ID.String(), product.Name, req)
	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, req UpdateProductRequest) (*model.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("product not found")
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, errors.New("price must be non-negative")
		}
		product.Price = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, errors.New("stock must be non-negative")
		}
		product.Stock = *req.Stock
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actorID, model.ActionUpdateProduct, product.ID.String(), product.Name, req)
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, actorID *uuid.UUID, id uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("product not found")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, actorID, model.ActionDeleteProduct, id.String(), product.Name, nil)
	return nil
}

func (s *productService) GetProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *productService) ListProducts(ctx context.Context, page, limit int, search string) ([]model.Product, int64, error) {
	return s.repo.List(ctx, page, limit, search)
}

func (s *productService) AddImage(ctx context.Context, productID uuid.UUID, req AddImageRequest) (*model.ProductImage, error) {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		return nil, errors.New("product not found")
	}

	image := &model.ProductImage{
		ProductID: productID,
		URL:       req.URL,
		IsPrimary: req.IsPrimary,
	}
	if err := s.repo.AddImage(ctx, image); err != nil {
		return nil, err
	}
	return image, nil
}

func (s *productService) RemoveImage(ctx context.Context, productID, imageID uuid.UUID) error {
	return s.repo.DeleteImage(ctx, productID, imageID)
}
