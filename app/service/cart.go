package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vibast-solutions/ms-go-storefront/app/entity"
)

type cartUserRequest interface {
	GetUserID() uint64
}

type addCartItemRequest interface {
	GetUserID() uint64
	GetProductID() uint64
	GetSize() string
	GetColor() string
	GetStyle() string
	GetCustomText() string
	GetPattern() string
	GetQuantity() int32
}

type updateCartItemRequest interface {
	GetUserID() uint64
	GetItemID() string
	GetQuantity() int32
	GetSize() string
	GetColor() string
	GetStyle() string
	GetCustomText() *string
	GetPattern() *string
}

type removeCartItemRequest interface {
	GetUserID() uint64
	GetItemID() string
}

type cartRepository interface {
	FindByUserID(ctx context.Context, userID uint64) (*entity.Cart, error)
	Save(ctx context.Context, cart *entity.Cart) error
}

type productReader interface {
	FindByID(ctx context.Context, id uint64) (*entity.Product, error)
}

type CartService struct {
	cartRepo    cartRepository
	productRepo productReader
	now         func() time.Time
	newID       func() string
}

func NewCartService(cartRepo cartRepository, productRepo productReader) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// GetCart returns the user's cart, creating an empty one on first access.
func (s *CartService) GetCart(ctx context.Context, req cartUserRequest) (*entity.Cart, error) {
	return s.loadCart(ctx, req.GetUserID(), true)
}

func (s *CartService) AddItem(ctx context.Context, req addCartItemRequest) (*entity.Cart, error) {
	product, err := s.findProduct(ctx, req.GetProductID())
	if err != nil {
		return nil, err
	}
	if !product.HasSize(req.GetSize()) {
		return nil, ErrInvalidSize
	}
	if !product.HasColor(req.GetColor()) {
		return nil, ErrInvalidColor
	}

	cart, err := s.loadCart(ctx, req.GetUserID(), false)
	if err != nil {
		return nil, err
	}

	item := entity.CartItem{
		ProductID:       product.ID,
		ProductName:     product.Name,
		Size:            req.GetSize(),
		Color:           req.GetColor(),
		Style:           req.GetStyle(),
		CustomText:      req.GetCustomText(),
		Pattern:         req.GetPattern(),
		Quantity:        req.GetQuantity(),
		PriceAtAddition: product.Price,
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].SameLine(item) {
			cart.Items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		item.ID = s.newID()
		cart.Items = append(cart.Items, item)
	}

	return s.save(ctx, cart)
}

// UpdateItem changes quantity or attributes of a cart line. New size and
// colour values are checked against the product.
func (s *CartService) UpdateItem(ctx context.Context, req updateCartItemRequest) (*entity.Cart, error) {
	cart, err := s.loadCart(ctx, req.GetUserID(), false)
	if err != nil {
		return nil, err
	}

	idx := findCartItem(cart, req.GetItemID())
	if idx < 0 {
		return nil, ErrCartItemNotFound
	}
	item := &cart.Items[idx]

	if req.GetSize() != "" || req.GetColor() != "" {
		product, err := s.findProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if req.GetSize() != "" {
			if !product.HasSize(req.GetSize()) {
				return nil, ErrInvalidSize
			}
			item.Size = req.GetSize()
		}
		if req.GetColor() != "" {
			if !product.HasColor(req.GetColor()) {
				return nil, ErrInvalidColor
			}
			item.Color = req.GetColor()
		}
	}
	if req.GetQuantity() > 0 {
		item.Quantity = req.GetQuantity()
	}
	if req.GetStyle() != "" {
		item.Style = req.GetStyle()
	}
	if text := req.GetCustomText(); text != nil {
		item.CustomText = *text
	}
	if pattern := req.GetPattern(); pattern != nil {
		item.Pattern = *pattern
	}

	return s.save(ctx, cart)
}

func (s *CartService) RemoveItem(ctx context.Context, req removeCartItemRequest) (*entity.Cart, error) {
	cart, err := s.loadCart(ctx, req.GetUserID(), false)
	if err != nil {
		return nil, err
	}

	idx := findCartItem(cart, req.GetItemID())
	if idx < 0 {
		return nil, ErrCartItemNotFound
	}
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)

	return s.save(ctx, cart)
}

func (s *CartService) loadCart(ctx context.Context, userID uint64, persistNew bool) (*entity.Cart, error) {
	if userID == 0 {
		return nil, ErrInvalidRequest
	}

	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}

	now := s.now().UTC()
	cart = &entity.Cart{
		UserID:    userID,
		Items:     []entity.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if persistNew {
		if err := s.cartRepo.Save(ctx, cart); err != nil {
			return nil, err
		}
	}
	return cart, nil
}

func (s *CartService) findProduct(ctx context.Context, id uint64) (*entity.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *CartService) save(ctx context.Context, cart *entity.Cart) (*entity.Cart, error) {
	cart.Recalculate()
	cart.UpdatedAt = s.now().UTC()
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func findCartItem(cart *entity.Cart, itemID string) int {
	for i, item := range cart.Items {
		if item.ID == itemID {
			return i
		}
	}
	return -1
}
