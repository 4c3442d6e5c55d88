package usecase

import (
	"testing"

	"electromart/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProductRequiresApprovedSeller(t *testing.T) {
	f := newFixture(t)

	input := ProductInput{Name: "Hub", Category: "Accessories", Description: "7-in-1", Price: 44.5, Stock: 10}

	created, err := f.catalog.CreateProduct(f.seller, input)
	require.NoError(t, err)
	assert.Equal(t, f.seller.ID, created.SellerID)
	assert.True(t, created.Active, "new products are listed immediately")

	_, err = f.catalog.CreateProduct(f.buyer, input)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	pending, err := f.store.CreateUser(&domain.User{
		Username: "pending", Email: "pending@example.com", PasswordHash: "x", Role: domain.RoleSeller, Approved: false,
	})
	require.NoError(t, err)
	_, err = f.catalog.CreateProduct(pending, input)
	assert.ErrorIs(t, err, domain.ErrForbidden, "unapproved sellers cannot list products")
}

func TestProductValidation(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name  string
		input ProductInput
	}{
		{"empty name", ProductInput{Name: " ", Category: "Mice", Description: "d", Price: 1, Stock: 1}},
		{"bad category", ProductInput{Name: "X", Category: "Fridges", Description: "d", Price: 1, Stock: 1}},
		{"zero price", ProductInput{Name: "X", Category: "Mice", Description: "d", Price: 0, Stock: 1}},
		{"negative stock", ProductInput{Name: "X", Category: "Mice", Description: "d", Price: 1, Stock: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.catalog.CreateProduct(f.seller, tc.input)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestUpdateProductOwnership(t *testing.T) {
	f := newFixture(t)
	mouse := f.addProduct(t, "Mouse", 10.00, 5)

	input := ProductInput{Name: "Mouse v2", Category: "Mice", Description: "better", Price: 12, Stock: 5}

	updated, err := f.catalog.UpdateProduct(f.seller, mouse.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Mouse v2", updated.Name)

	// Admins may edit anyone's product.
	_, err = f.catalog.UpdateProduct(f.admin, mouse.ID, input)
	assert.NoError(t, err)

	other, err := f.store.CreateUser(&domain.User{
		Username: "other", Email: "other@example.com", PasswordHash: "x", Role: domain.RoleSeller, Approved: true,
	})
	require.NoError(t, err)
	_, err = f.catalog.UpdateProduct(other, mouse.ID, input)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.catalog.UpdateProduct(f.seller, "no-such-id", input)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateProductKeepsImageWhenNoneUploaded(t *testing.T) {
	f := newFixture(t)
	product, err := f.store.CreateProduct(&domain.Product{
		SellerID: f.seller.ID, Name: "Cam", Category: "Accessories", Price: 20,
		Description: "webcam", ImageRef: "abc.png", Stock: 3, Active: true,
	})
	require.NoError(t, err)

	updated, err := f.catalog.UpdateProduct(f.seller, product.ID, ProductInput{
		Name: "Cam", Category: "Accessories", Description: "webcam", Price: 20, Stock: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "abc.png", updated.ImageRef)

	updated, err = f.catalog.UpdateProduct(f.seller, product.ID, ProductInput{
		Name: "Cam", Category: "Accessories", Description: "webcam", Price: 20, Stock: 3, ImageRef: "new.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "new.png", updated.ImageRef)
}

func TestSetProductActiveHidesFromStorefront(t *testing.T) {
	f := newFixture(t)
	mouse := f.addProduct(t, "Mouse", 10.00, 5)

	_, err := f.catalog.SetProductActive(f.seller, mouse.ID, false)
	require.NoError(t, err)

	visible, err := f.catalog.ListProducts(domain.ProductFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, err := f.catalog.ListProducts(domain.ProductFilter{SellerID: f.seller.ID})
	require.NoError(t, err)
	assert.Len(t, all, 1, "the owner still sees delisted products")
}
