package usecase

import (
	"testing"

	"electromart/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemMergesAndChecksStock(t *testing.T) {
	f := newFixture(t)
	mouse := f.addProduct(t, "Mouse", 10.00, 4)

	item, err := f.carts.AddItem(f.buyer, mouse.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)

	item, err = f.carts.AddItem(f.buyer, mouse.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, item.Quantity)

	// The cart already holds all the stock there is.
	_, err = f.carts.AddItem(f.buyer, mouse.ID, 1)
	assert.ErrorIs(t, err, domain.ErrProductUnavailable)
}

func TestAddItemRejectsInactiveAndMissingProducts(t *testing.T) {
	f := newFixture(t)
	mouse := f.addProduct(t, "Mouse", 10.00, 4)

	_, err := f.catalog.SetProductActive(f.seller, mouse.ID, false)
	require.NoError(t, err)

	_, err = f.carts.AddItem(f.buyer, mouse.ID, 1)
	assert.ErrorIs(t, err, domain.ErrProductUnavailable)

	_, err = f.carts.AddItem(f.buyer, "no-such-product", 1)
	assert.ErrorIs(t, err, domain.ErrProductUnavailable)

	_, err = f.carts.AddItem(f.buyer, mouse.ID, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestOnlyBuyersHaveCarts(t *testing.T) {
	f := newFixture(t)
	mouse := f.addProduct(t, "Mouse", 10.00, 4)

	_, err := f.carts.AddItem(f.seller, mouse.ID, 1)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.carts.ViewCart(f.admin)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.carts.AddItem(nil, mouse.ID, 1)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestViewCartUsesLivePrices(t *testing.T) {
	f := newFixture(t)
	mouse := f.addProduct(t, "Mouse", 10.00, 10)

	_, err := f.carts.AddItem(f.buyer, mouse.ID, 2)
	require.NoError(t, err)

	view, err := f.carts.ViewCart(f.buyer)
	require.NoError(t, err)
	assert.InDelta(t, 20.00, view.Total, 1e-9)

	_, err = f.catalog.UpdateProduct(f.seller, mouse.ID, ProductInput{
		Name: "Mouse", Category: "Mice", Description: "repriced", Price: 15.00, Stock: 10,
	})
	require.NoError(t, err)

	view, err = f.carts.ViewCart(f.buyer)
	require.NoError(t, err)
	assert.InDelta(t, 30.00, view.Total, 1e-9, "cart totals follow the live catalog price")

	total, err := f.carts.ComputeTotal(f.buyer)
	require.NoError(t, err)
	assert.InDelta(t, 30.00, total, 1e-9)
}

func TestViewCartMarksUnavailableLines(t *testing.T) {
	f := newFixture(t)
	mouse := f.addProduct(t, "Mouse", 10.00, 10)
	hub := f.addProduct(t, "Hub", 5.00, 10)

	_, err := f.carts.AddItem(f.buyer, mouse.ID, 1)
	require.NoError(t, err)
	_, err = f.carts.AddItem(f.buyer, hub.ID, 1)
	require.NoError(t, err)

	_, err = f.catalog.SetProductActive(f.seller, hub.ID, false)
	require.NoError(t, err)

	view, err := f.carts.ViewCart(f.buyer)
	require.NoError(t, err)
	require.Len(t, view.Lines, 2)
	assert.InDelta(t, 10.00, view.Total, 1e-9, "delisted lines do not count toward the total")

	unavailable := 0
	for _, line := range view.Lines {
		if line.Unavailable {
			unavailable++
		}
	}
	assert.Equal(t, 1, unavailable)
}

func TestUpdateQuantityAndRemove(t *testing.T) {
	f := newFixture(t)
	mouse := f.addProduct(t, "Mouse", 10.00, 5)

	_, err := f.carts.AddItem(f.buyer, mouse.ID, 2)
	require.NoError(t, err)

	require.NoError(t, f.carts.UpdateQuantity(f.buyer, mouse.ID, 4))

	err = f.carts.UpdateQuantity(f.buyer, mouse.ID, 6)
	assert.ErrorIs(t, err, domain.ErrProductUnavailable, "cannot exceed stock")

	require.NoError(t, f.carts.UpdateQuantity(f.buyer, mouse.ID, 0))
	view, err := f.carts.ViewCart(f.buyer)
	require.NoError(t, err)
	assert.Empty(t, view.Lines, "zero quantity removes the line")

	err = f.carts.RemoveItem(f.buyer, mouse.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "removing an absent line reports not-in-cart")
}
