package usecase

import (
	"fmt"
	"strings"

	"electromart/internal/domain"

	"github.com/sirupsen/logrus"
)

// ProductInput carries the editable fields of a product. ImageRef left empty
// on update keeps the existing image.
type ProductInput struct {
	Name        string
	Category    string
	Description string
	Price       float64
	Stock       int
	ImageRef    string
}

type CatalogUseCase interface {
	ListProducts(filter domain.ProductFilter) ([]domain.Product, error)
	GetProduct(id string) (*domain.Product, error)
	CreateProduct(actor *domain.User, input ProductInput) (*domain.Product, error)
	UpdateProduct(actor *domain.User, id string, input ProductInput) (*domain.Product, error)
	SetProductActive(actor *domain.User, id string, active bool) (*domain.Product, error)
}

type catalogUseCase struct {
	productRepo domain.ProductRepository
	log         *logrus.Logger
}

var _ CatalogUseCase = (*catalogUseCase)(nil)

func NewCatalogUseCase(repo domain.ProductRepository, logger *logrus.Logger) CatalogUseCase {
	return &catalogUseCase{productRepo: repo, log: logger}
}

func (uc *catalogUseCase) ListProducts(filter domain.ProductFilter) ([]domain.Product, error) {
	return uc.productRepo.ListProducts(filter)
}

func (uc *catalogUseCase) GetProduct(id string) (*domain.Product, error) {
	return uc.productRepo.GetProductByID(id)
}

func (uc *catalogUseCase) CreateProduct(actor *domain.User, input ProductInput) (*domain.Product, error) {
	if !domain.IsApprovedSeller(actor) {
		uc.log.Warnf("Use Case: product creation rejected, actor is not an approved seller")
		return nil, fmt.Errorf("%w: only approved sellers may list products", domain.ErrForbidden)
	}
	if err := validateProductInput(input); err != nil {
		uc.log.Warnf("Use Case: product creation failed validation: %v", err)
		return nil, err
	}

	product := &domain.Product{
		SellerID:    actor.ID,
		Name:        strings.TrimSpace(input.Name),
		Category:    input.Category,
		Price:       input.Price,
		Description: strings.TrimSpace(input.Description),
		ImageRef:    input.ImageRef,
		Stock:       input.Stock,
		Active:      true,
	}

	created, err := uc.productRepo.CreateProduct(product)
	if err != nil {
		uc.log.Errorf("Use Case: repository failed to create product %q: %v", product.Name, err)
		return nil, err
	}

	uc.log.Infof("Use Case: product %s (%q) created by seller %s", created.ID, created.Name, actor.ID)
	return created, nil
}

func (uc *catalogUseCase) UpdateProduct(actor *domain.User, id string, input ProductInput) (*domain.Product, error) {
	product, err := uc.productRepo.GetProductByID(id)
	if err != nil {
		return nil, err
	}
	if !domain.CanManageProduct(actor, product) {
		uc.log.Warnf("Use Case: update of product %s rejected, actor lacks permission", id)
		return nil, fmt.Errorf("%w: you may only edit your own products", domain.ErrForbidden)
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Category = input.Category
	product.Price = input.Price
	product.Description = strings.TrimSpace(input.Description)
	product.Stock = input.Stock
	if input.ImageRef != "" {
		product.ImageRef = input.ImageRef
	}

	updated, err := uc.productRepo.UpdateProduct(product)
	if err != nil {
		uc.log.Errorf("Use Case: repository failed to update product %s: %v", id, err)
		return nil, err
	}

	uc.log.Infof("Use Case: product %s updated", id)
	return updated, nil
}

func (uc *catalogUseCase) SetProductActive(actor *domain.User, id string, active bool) (*domain.Product, error) {
	product, err := uc.productRepo.GetProductByID(id)
	if err != nil {
		return nil, err
	}
	if !domain.CanManageProduct(actor, product) {
		return nil, fmt.Errorf("%w: you may only manage your own products", domain.ErrForbidden)
	}

	product.Active = active
	updated, err := uc.productRepo.UpdateProduct(product)
	if err != nil {
		return nil, err
	}

	uc.log.Infof("Use Case: product %s active set to %t", id, active)
	return updated, nil
}

func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: product name cannot be empty", domain.ErrValidation)
	}
	if !domain.IsValidCategory(input.Category) {
		return fmt.Errorf("%w: unknown category %q", domain.ErrValidation, input.Category)
	}
	if input.Price <= 0 {
		return fmt.Errorf("%w: price must be greater than zero", domain.ErrValidation)
	}
	if input.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", domain.ErrValidation)
	}
	return nil
}
