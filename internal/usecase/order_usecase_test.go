package usecase

import (
	"testing"

	"electromart/internal/domain"
	"electromart/internal/repository"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

type fixture struct {
	store   *repository.JSONStore
	orders  OrderUseCase
	carts   CartUseCase
	catalog CatalogUseCase

	buyer  *domain.User
	seller *domain.User
	admin  *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := repository.NewJSONStore("", testLogger())
	require.NoError(t, err)

	mkUser := func(name string, role domain.Role, approved bool) *domain.User {
		u, err := store.CreateUser(&domain.User{
			Username: name, Email: name + "@example.com", PasswordHash: "x", Role: role, Approved: approved,
		})
		require.NoError(t, err)
		return u
	}

	log := testLogger()
	return &fixture{
		store:   store,
		orders:  NewOrderUseCase(store, store, store, log),
		carts:   NewCartUseCase(store, store, log),
		catalog: NewCatalogUseCase(store, log),
		buyer:   mkUser("buyer", domain.RoleBuyer, true),
		seller:  mkUser("seller", domain.RoleSeller, true),
		admin:   mkUser("admin", domain.RoleAdmin, true),
	}
}

func (f *fixture) addProduct(t *testing.T, name string, price float64, stock int) *domain.Product {
	t.Helper()
	p, err := f.store.CreateProduct(&domain.Product{
		SellerID: f.seller.ID, Name: name, Category: "Mice", Price: price,
		Description: name + " description", Stock: stock, Active: true,
	})
	require.NoError(t, err)
	return p
}

func validCheckout() CheckoutInput {
	return CheckoutInput{
		BillingName:    "Buyer Person",
		BillingAddress: "1 Example Road",
		PaymentMethod:  domain.PaymentCreditCard,
		PaymentNumber:  "4111111111111111",
	}
}

func TestCheckoutSnapshotsCartAndClearsIt(t *testing.T) {
	f := newFixture(t)
	mouse := f.addProduct(t, "Mouse", 10.00, 5)
	hub := f.addProduct(t, "Hub", 5.00, 5)

	_, err := f.carts.AddItem(f.buyer, mouse.ID, 2)
	require.NoError(t, err)
	_, err = f.carts.AddItem(f.buyer, hub.ID, 1)
	require.NoError(t, err)

	order, err := f.orders.Checkout(f.buyer, validCheckout())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCreated, order.Status)
	assert.InDelta(t, 25.00, order.Total, 1e-9)
	assert.Len(t, order.Items, 2)
	for _, item := range order.Items {
		assert.Equal(t, f.seller.ID, item.SellerID, "line items carry the seller id")
		assert.NotEmpty(t, item.ProductName)
	}
	assert.Equal(t, "****1111", order.Payment.Reference, "payment number is stored masked")

	view, err := f.carts.ViewCart(f.buyer)
	require.NoError(t, err)
	assert.Empty(t, view.Lines, "checkout empties the cart")

	gotMouse, err := f.store.GetProductByID(mouse.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, gotMouse.Stock, "checkout reserves stock")

	// A second checkout with an empty cart must fail.
	_, err = f.orders.Checkout(f.buyer, validCheckout())
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestOrderTotalSurvivesPriceChanges(t *testing.T) {
	f := newFixture(t)
	mouse := f.addProduct(t, "Mouse", 10.00, 5)

	_, err := f.carts.AddItem(f.buyer, mouse.ID, 1)
	require.NoError(t, err)
	order, err := f.orders.Checkout(f.buyer, validCheckout())
	require.NoError(t, err)

	_, err = f.catalog.UpdateProduct(f.seller, mouse.ID, ProductInput{
		Name: "Mouse", Category: "Mice", Description: "now pricier", Price: 99.99, Stock: 4,
	})
	require.NoError(t, err)

	got, err := f.orders.GetOrder(f.buyer, order.ID)
	require.NoError(t, err)
	assert.InDelta(t, 10.00, got.Total, 1e-9, "the snapshot total never follows the catalog")
	assert.InDelta(t, 10.00, got.Items[0].UnitPrice, 1e-9)
}

func TestCheckoutValidation(t *testing.T) {
	f := newFixture(t)
	mouse := f.addProduct(t, "Mouse", 10.00, 5)
	_, err := f.carts.AddItem(f.buyer, mouse.ID, 1)
	require.NoError(t, err)

	cases := []struct {
		name  string
		input CheckoutInput
	}{
		{"missing billing name", CheckoutInput{BillingAddress: "a", PaymentMethod: domain.PaymentCreditCard, PaymentNumber: "4111111111111111"}},
		{"missing address", CheckoutInput{BillingName: "n", PaymentMethod: domain.PaymentCreditCard, PaymentNumber: "4111111111111111"}},
		{"card too short", CheckoutInput{BillingName: "n", BillingAddress: "a", PaymentMethod: domain.PaymentCreditCard, PaymentNumber: "41111"}},
		{"momo too short", CheckoutInput{BillingName: "n", BillingAddress: "a", PaymentMethod: domain.PaymentMobileMoney, PaymentNumber: "12345"}},
		{"non-digits", CheckoutInput{BillingName: "n", BillingAddress: "a", PaymentMethod: domain.PaymentCreditCard, PaymentNumber: "4111-1111-1111-1111"}},
		{"unknown method", CheckoutInput{BillingName: "n", BillingAddress: "a", PaymentMethod: "cheque", PaymentNumber: "4111111111111111"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.orders.Checkout(f.buyer, tc.input)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	// The cart must be untouched after all those failures.
	view, err := f.carts.ViewCart(f.buyer)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 1)
	got, err := f.store.GetProductByID(mouse.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock, "failed checkouts never burn stock")
}

func TestOrderLifecycleHappyPath(t *testing.T) {
	f := newFixture(t)
	mouse := f.addProduct(t, "Mouse", 10.00, 5)
	_, err := f.carts.AddItem(f.buyer, mouse.ID, 1)
	require.NoError(t, err)
	order, err := f.orders.Checkout(f.buyer, validCheckout())
	require.NoError(t, err)

	order, err = f.orders.Pay(f.buyer, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, order.Status)

	order, err = f.orders.ApproveFulfilment(f.seller, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSellerApproved, order.Status)

	order, err = f.orders.ConfirmDelivery(f.buyer, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, order.Status)
}

func TestOrderTransitionGuards(t *testing.T) {
	f := newFixture(t)
	mouse := f.addProduct(t, "Mouse", 10.00, 5)
	_, err := f.carts.AddItem(f.buyer, mouse.ID, 1)
	require.NoError(t, err)
	order, err := f.orders.Checkout(f.buyer, validCheckout())
	require.NoError(t, err)

	// Confirming before the order was even paid is a graph violation.
	_, err = f.orders.ConfirmDelivery(f.buyer, order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// The seller cannot drive the pay edge.
	_, err = f.orders.Pay(f.seller, order.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// A second approved seller with no items in this order cannot act on it.
	outsider, err := f.store.CreateUser(&domain.User{
		Username: "outsider", Email: "outsider@example.com", PasswordHash: "x", Role: domain.RoleSeller, Approved: true,
	})
	require.NoError(t, err)
	_, err = f.orders.Pay(f.buyer, order.ID)
	require.NoError(t, err)
	_, err = f.orders.ApproveFulfilment(outsider, order.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Admins follow the graph too: paid -> completed does not exist.
	_, err = f.orders.ConfirmDelivery(f.admin, order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// But an admin may drive any edge that does exist.
	_, err = f.orders.ApproveFulfilment(f.admin, order.ID)
	assert.NoError(t, err)
}

func TestCancelRestoresStock(t *testing.T) {
	f := newFixture(t)
	mouse := f.addProduct(t, "Mouse", 10.00, 5)
	_, err := f.carts.AddItem(f.buyer, mouse.ID, 3)
	require.NoError(t, err)
	order, err := f.orders.Checkout(f.buyer, validCheckout())
	require.NoError(t, err)

	got, err := f.store.GetProductByID(mouse.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.Stock)

	_, err = f.orders.Cancel(f.buyer, order.ID)
	require.NoError(t, err)

	got, err = f.store.GetProductByID(mouse.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock, "cancelling returns the reserved units")
}

func TestDeleteCancelledOrder(t *testing.T) {
	f := newFixture(t)
	mouse := f.addProduct(t, "Mouse", 10.00, 5)
	_, err := f.carts.AddItem(f.buyer, mouse.ID, 1)
	require.NoError(t, err)
	order, err := f.orders.Checkout(f.buyer, validCheckout())
	require.NoError(t, err)

	err = f.orders.DeleteCancelledOrder(f.admin, order.ID)
	assert.ErrorIs(t, err, domain.ErrValidation, "only cancelled orders may be deleted")

	_, err = f.orders.Cancel(f.buyer, order.ID)
	require.NoError(t, err)

	err = f.orders.DeleteCancelledOrder(f.buyer, order.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, f.orders.DeleteCancelledOrder(f.admin, order.ID))
	_, err = f.orders.GetOrder(f.admin, order.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetOrderAccess(t *testing.T) {
	f := newFixture(t)
	mouse := f.addProduct(t, "Mouse", 10.00, 5)
	_, err := f.carts.AddItem(f.buyer, mouse.ID, 1)
	require.NoError(t, err)
	order, err := f.orders.Checkout(f.buyer, validCheckout())
	require.NoError(t, err)

	_, err = f.orders.GetOrder(f.buyer, order.ID)
	assert.NoError(t, err)
	_, err = f.orders.GetOrder(f.seller, order.ID)
	assert.NoError(t, err)
	_, err = f.orders.GetOrder(f.admin, order.ID)
	assert.NoError(t, err)

	stranger, err := f.store.CreateUser(&domain.User{
		Username: "stranger", Email: "stranger@example.com", PasswordHash: "x", Role: domain.RoleBuyer, Approved: true,
	})
	require.NoError(t, err)
	_, err = f.orders.GetOrder(stranger, order.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
