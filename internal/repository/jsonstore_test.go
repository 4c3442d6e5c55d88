package repository

import (
	"errors"
	"path/filepath"
	"testing"

	"electromart/internal/domain"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func newMemStore(t *testing.T) *JSONStore {
	t.Helper()
	store, err := NewJSONStore("", testLogger())
	require.NoError(t, err)
	return store
}

func TestJSONStorePersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	store, err := NewJSONStore(path, testLogger())
	require.NoError(t, err)

	user, err := store.CreateUser(&domain.User{
		Username: "alice", Email: "alice@example.com", PasswordHash: "x", Role: domain.RoleSeller, Approved: true,
	})
	require.NoError(t, err)

	product, err := store.CreateProduct(&domain.Product{
		SellerID: user.ID, Name: "Glide Mouse", Category: "Mice", Price: 29.99, Description: "quiet", Stock: 5, Active: true,
	})
	require.NoError(t, err)

	order, err := store.CreateOrder(&domain.Order{
		BuyerID: "buyer-1",
		Items:   []domain.OrderItem{{ProductID: product.ID, ProductName: product.Name, SellerID: user.ID, Quantity: 2, UnitPrice: 29.99}},
		Total:   59.98,
		Billing: domain.BillingInfo{Name: "Buyer", Address: "1 Road"},
		Payment: domain.PaymentInfo{Method: domain.PaymentCreditCard, Reference: "****1234"},
		Status:  domain.StatusCreated,
	})
	require.NoError(t, err)

	// A second store reading the same file must see everything.
	reloaded, err := NewJSONStore(path, testLogger())
	require.NoError(t, err)

	gotUser, err := reloaded.GetUserByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, gotUser.ID)
	assert.True(t, gotUser.Approved)
	assert.Equal(t, "x", gotUser.PasswordHash, "credentials survive a restart")

	gotProduct, err := reloaded.GetProductByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Glide Mouse", gotProduct.Name)
	assert.Equal(t, 5, gotProduct.Stock)

	gotOrder, err := reloaded.GetOrderByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCreated, gotOrder.Status)
	require.Len(t, gotOrder.Items, 1)
	assert.Equal(t, 2, gotOrder.Items[0].Quantity)
}

func TestJSONStoreEmailUniqueness(t *testing.T) {
	store := newMemStore(t)

	_, err := store.CreateUser(&domain.User{Username: "a", Email: "dup@example.com", PasswordHash: "x", Role: domain.RoleBuyer})
	require.NoError(t, err)

	_, err = store.CreateUser(&domain.User{Username: "b", Email: "DUP@example.com", PasswordHash: "x", Role: domain.RoleBuyer})
	assert.ErrorIs(t, err, domain.ErrEmailTaken, "emails are case-insensitively unique")
}

func TestJSONStoreCartMergeAndSetQuantity(t *testing.T) {
	store := newMemStore(t)

	item, err := store.AddItem("u1", "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)

	item, err = store.AddItem("u1", "p1", 3)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity, "adding the same product merges quantities")

	item, err = store.SetQuantity("u1", "p1", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, item.Quantity)

	item, err = store.SetQuantity("u1", "p1", 0)
	require.NoError(t, err)
	assert.Nil(t, item, "zero quantity removes the entry")

	items, err := store.ListItems("u1")
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = store.SetQuantity("u1", "p1", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound, "cannot set quantity on an absent entry")
}

func TestJSONStoreAdjustStock(t *testing.T) {
	store := newMemStore(t)

	product, err := store.CreateProduct(&domain.Product{
		SellerID: "s1", Name: "Hub", Category: "Accessories", Price: 44.5, Description: "7-in-1", Stock: 3, Active: true,
	})
	require.NoError(t, err)

	updated, err := store.AdjustStock(product.ID, -2)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Stock)

	_, err = store.AdjustStock(product.ID, -2)
	assert.ErrorIs(t, err, domain.ErrProductUnavailable, "stock never goes negative")

	updated, err = store.AdjustStock(product.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Stock)

	_, err = store.AdjustStock("missing", -1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestJSONStoreUpdateStatusIsCompareAndSet(t *testing.T) {
	store := newMemStore(t)

	order, err := store.CreateOrder(&domain.Order{
		BuyerID: "b1",
		Items:   []domain.OrderItem{{ProductID: "p1", SellerID: "s1", Quantity: 1, UnitPrice: 10}},
		Total:   10,
		Status:  domain.StatusCreated,
	})
	require.NoError(t, err)

	updated, err := store.UpdateStatus(order.ID, domain.StatusCreated, domain.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, updated.Status)
	assert.True(t, updated.UpdatedAt.After(order.UpdatedAt) || updated.UpdatedAt.Equal(order.UpdatedAt))

	// The same compare-and-set again must fail: the order moved on.
	_, err = store.UpdateStatus(order.ID, domain.StatusCreated, domain.StatusCancelled)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestJSONStoreCommentOrdering(t *testing.T) {
	store := newMemStore(t)

	order, err := store.CreateOrder(&domain.Order{
		BuyerID: "b1",
		Items:   []domain.OrderItem{{ProductID: "p1", SellerID: "s1", Quantity: 1, UnitPrice: 10}},
		Total:   10,
		Status:  domain.StatusCreated,
	})
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		_, err := store.AddComment(&domain.OrderComment{
			OrderID: order.ID, AuthorID: "b1", AuthorRole: domain.RoleBuyer, Message: "ping",
		})
		require.NoError(t, err)
	}

	comments, err := store.ListCommentsByOrder(order.ID)
	require.NoError(t, err)
	require.Len(t, comments, 20)
	for i := 1; i < len(comments); i++ {
		assert.True(t, comments[i].CreatedAt.After(comments[i-1].CreatedAt),
			"comment %d must be strictly after comment %d even within one clock tick", i, i-1)
	}
}

func TestJSONStoreDeleteOrderRemovesComments(t *testing.T) {
	store := newMemStore(t)

	order, err := store.CreateOrder(&domain.Order{
		BuyerID: "b1",
		Items:   []domain.OrderItem{{ProductID: "p1", SellerID: "s1", Quantity: 1, UnitPrice: 10}},
		Total:   10,
		Status:  domain.StatusCancelled,
	})
	require.NoError(t, err)

	_, err = store.AddComment(&domain.OrderComment{OrderID: order.ID, AuthorID: "b1", AuthorRole: domain.RoleBuyer, Message: "hello"})
	require.NoError(t, err)

	require.NoError(t, store.DeleteOrder(order.ID))

	_, err = store.GetOrderByID(order.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	comments, err := store.ListCommentsByOrder(order.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestJSONStoreListProductsFilter(t *testing.T) {
	store := newMemStore(t)

	mk := func(name, category, sellerID string, active bool) {
		_, err := store.CreateProduct(&domain.Product{
			SellerID: sellerID, Name: name, Category: category, Price: 10, Description: name + " description", Stock: 1, Active: active,
		})
		require.NoError(t, err)
	}
	mk("ProBook 15", "Laptops", "s1", true)
	mk("Nova X2", "Smartphones", "s1", true)
	mk("Old Stock Laptop", "Laptops", "s2", false)

	active, err := store.ListProducts(domain.ProductFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	laptops, err := store.ListProducts(domain.ProductFilter{ActiveOnly: true, Category: "Laptops"})
	require.NoError(t, err)
	require.Len(t, laptops, 1)
	assert.Equal(t, "ProBook 15", laptops[0].Name)

	search, err := store.ListProducts(domain.ProductFilter{SearchText: "nova"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, "Nova X2", search[0].Name)

	bySeller, err := store.ListProducts(domain.ProductFilter{SellerID: "s2"})
	require.NoError(t, err)
	assert.Len(t, bySeller, 1)
}
