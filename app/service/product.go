package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-storefront/app/entity"
	"github.com/vibast-solutions/ms-go-storefront/app/repository"
)

type listProductsRequest interface {
	GetStyle() string
	GetSearch() string
	GetLimit() int32
	GetOffset() int32
}

type productIDRequest interface {
	GetID() uint64
}

type saveProductRequest interface {
	GetID() uint64
	GetName() string
	GetDescription() string
	GetPrice() decimal.Decimal
	GetAvailableSizes() []string
	GetAvailableColors() []string
	GetStyle() string
}

type productRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uint64) error
	FindByID(ctx context.Context, id uint64) (*entity.Product, error)
	List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error)
}

type ProductService struct {
	productRepo productRepository
	now         func() time.Time
}

func NewProductService(productRepo productRepository) *ProductService {
	return &ProductService{productRepo: productRepo, now: time.Now}
}

func (s *ProductService) ListProducts(ctx context.Context, req listProductsRequest) ([]*entity.Product, error) {
	limit := req.GetLimit()
	if limit <= 0 {
		limit = defaultBatchSize
	}
	return s.productRepo.List(ctx, repository.ProductFilter{
		Style:  req.GetStyle(),
		Search: req.GetSearch(),
		Limit:  limit,
		Offset: req.GetOffset(),
	})
}

func (s *ProductService) GetProduct(ctx context.Context, req productIDRequest) (*entity.Product, error) {
	product, err := s.productRepo.FindByID(ctx, req.GetID())
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, req saveProductRequest) (*entity.Product, error) {
	now := s.now().UTC()
	product := &entity.Product{
		Name:            req.GetName(),
		Description:     req.GetDescription(),
		Price:           req.GetPrice(),
		AvailableSizes:  req.GetAvailableSizes(),
		AvailableColors: req.GetAvailableColors(),
		Style:           req.GetStyle(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, req saveProductRequest) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, req)
	if err != nil {
		return nil, err
	}

	product.Name = req.GetName()
	product.Description = req.GetDescription()
	product.Price = req.GetPrice()
	product.AvailableSizes = req.GetAvailableSizes()
	product.AvailableColors = req.GetAvailableColors()
	product.Style = req.GetStyle()
	product.UpdatedAt = s.now().UTC()

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, req productIDRequest) error {
	if err := s.productRepo.Delete(ctx, req.GetID()); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return nil
}
