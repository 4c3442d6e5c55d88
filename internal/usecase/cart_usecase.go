package usecase

import (
	"errors"
	"fmt"

	"electromart/internal/domain"

	"github.com/sirupsen/logrus"
)

// CartLine joins a cart entry with the current state of its product. Prices
// are always the live catalog price, never a stored copy.
type CartLine struct {
	Item        domain.CartItem
	Product     domain.Product
	Unavailable bool
	LineTotal   float64
}

type CartView struct {
	Lines []CartLine
	Total float64
}

type CartUseCase interface {
	AddItem(actor *domain.User, productID string, qty int) (*domain.CartItem, error)
	UpdateQuantity(actor *domain.User, productID string, qty int) error
	RemoveItem(actor *domain.User, productID string) error
	Clear(actor *domain.User) error
	ViewCart(actor *domain.User) (*CartView, error)
	ComputeTotal(actor *domain.User) (float64, error)
}

type cartUseCase struct {
	cartRepo    domain.CartRepository
	productRepo domain.ProductRepository
	log         *logrus.Logger
}

var _ CartUseCase = (*cartUseCase)(nil)

func NewCartUseCase(cartRepo domain.CartRepository, productRepo domain.ProductRepository, logger *logrus.Logger) CartUseCase {
	return &cartUseCase{cartRepo: cartRepo, productRepo: productRepo, log: logger}
}

func (uc *cartUseCase) AddItem(actor *domain.User, productID string, qty int) (*domain.CartItem, error) {
	if actor == nil || actor.Role != domain.RoleBuyer {
		return nil, fmt.Errorf("%w: only buyers have a cart", domain.ErrForbidden)
	}
	if qty < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", domain.ErrValidation)
	}

	product, err := uc.productRepo.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %s", domain.ErrProductUnavailable, productID)
		}
		return nil, err
	}
	if !product.Active {
		uc.log.Warnf("Use Case: attempt to add inactive product %s to cart of %s", productID, actor.ID)
		return nil, fmt.Errorf("%w: product %q is no longer listed", domain.ErrProductUnavailable, product.Name)
	}

	// Check stock against what the cart would hold after the merge.
	inCart := 0
	items, err := uc.cartRepo.ListItems(actor.ID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.ProductID == productID {
			inCart = item.Quantity
			break
		}
	}
	if inCart+qty > product.Stock {
		uc.log.Warnf("Use Case: insufficient stock for product %s: have %d, cart wants %d", productID, product.Stock, inCart+qty)
		return nil, fmt.Errorf("%w: only %d of %q in stock", domain.ErrProductUnavailable, product.Stock, product.Name)
	}

	item, err := uc.cartRepo.AddItem(actor.ID, productID, qty)
	if err != nil {
		uc.log.Errorf("Use Case: repository failed to add product %s to cart of %s: %v", productID, actor.ID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: user %s added %d x product %s to cart (now %d)", actor.ID, qty, productID, item.Quantity)
	return item, nil
}

func (uc *cartUseCase) UpdateQuantity(actor *domain.User, productID string, qty int) error {
	if actor == nil || actor.Role != domain.RoleBuyer {
		return fmt.Errorf("%w: only buyers have a cart", domain.ErrForbidden)
	}

	if qty > 0 {
		product, err := uc.productRepo.GetProductByID(productID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: product %s", domain.ErrProductUnavailable, productID)
			}
			return err
		}
		if qty > product.Stock {
			return fmt.Errorf("%w: only %d of %q in stock", domain.ErrProductUnavailable, product.Stock, product.Name)
		}
	}

	if _, err := uc.cartRepo.SetQuantity(actor.ID, productID, qty); err != nil {
		return err
	}
	uc.log.Infof("Use Case: user %s set quantity of product %s to %d", actor.ID, productID, qty)
	return nil
}

func (uc *cartUseCase) RemoveItem(actor *domain.User, productID string) error {
	if actor == nil || actor.Role != domain.RoleBuyer {
		return fmt.Errorf("%w: only buyers have a cart", domain.ErrForbidden)
	}
	if err := uc.cartRepo.RemoveItem(actor.ID, productID); err != nil {
		return err
	}
	uc.log.Infof("Use Case: user %s removed product %s from cart", actor.ID, productID)
	return nil
}

func (uc *cartUseCase) Clear(actor *domain.User) error {
	if actor == nil || actor.Role != domain.RoleBuyer {
		return fmt.Errorf("%w: only buyers have a cart", domain.ErrForbidden)
	}
	return uc.cartRepo.Clear(actor.ID)
}

func (uc *cartUseCase) ViewCart(actor *domain.User) (*CartView, error) {
	if actor == nil || actor.Role != domain.RoleBuyer {
		return nil, fmt.Errorf("%w: only buyers have a cart", domain.ErrForbidden)
	}

	items, err := uc.cartRepo.ListItems(actor.ID)
	if err != nil {
		return nil, err
	}

	view := &CartView{Lines: []CartLine{}}
	for _, item := range items {
		line := CartLine{Item: item}
		product, err := uc.productRepo.GetProductByID(item.ProductID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			line.Unavailable = true
		case err != nil:
			return nil, err
		default:
			line.Product = *product
			if !product.Active {
				line.Unavailable = true
			} else {
				line.LineTotal = product.Price * float64(item.Quantity)
				view.Total += line.LineTotal
			}
		}
		view.Lines = append(view.Lines, line)
	}
	return view, nil
}

// ComputeTotal recomputes the cart total from live catalog prices; it is
// never a stored value.
func (uc *cartUseCase) ComputeTotal(actor *domain.User) (float64, error) {
	view, err := uc.ViewCart(actor)
	if err != nil {
		return 0, err
	}
	return view.Total, nil
}
