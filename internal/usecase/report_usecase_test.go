package usecase

import (
	"testing"

	"electromart/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminStatsCountsRevenueFromPaidOrders(t *testing.T) {
	f := newFixture(t)
	reports := NewReportUseCase(f.store, f.store, f.store, testLogger())
	mouse := f.addProduct(t, "Mouse", 10.00, 20)

	// Order 1 stays created: no revenue.
	_, err := f.carts.AddItem(f.buyer, mouse.ID, 1)
	require.NoError(t, err)
	_, err = f.orders.Checkout(f.buyer, validCheckout())
	require.NoError(t, err)

	// Order 2 is paid: counts.
	_, err = f.carts.AddItem(f.buyer, mouse.ID, 2)
	require.NoError(t, err)
	paid, err := f.orders.Checkout(f.buyer, validCheckout())
	require.NoError(t, err)
	_, err = f.orders.Pay(f.buyer, paid.ID)
	require.NoError(t, err)

	// Order 3 is paid then cancelled: does not count.
	_, err = f.carts.AddItem(f.buyer, mouse.ID, 3)
	require.NoError(t, err)
	cancelled, err := f.orders.Checkout(f.buyer, validCheckout())
	require.NoError(t, err)
	_, err = f.orders.Pay(f.buyer, cancelled.ID)
	require.NoError(t, err)
	_, err = f.orders.Cancel(f.buyer, cancelled.ID)
	require.NoError(t, err)

	stats, err := reports.AdminStats(f.admin)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalUsers)
	assert.Equal(t, 1, stats.TotalProducts)
	assert.Equal(t, 3, stats.TotalOrders)
	assert.Equal(t, 1, stats.OrdersByStatus[domain.StatusCreated])
	assert.Equal(t, 1, stats.OrdersByStatus[domain.StatusPaid])
	assert.Equal(t, 1, stats.OrdersByStatus[domain.StatusCancelled])
	assert.InDelta(t, 20.00, stats.TotalRevenue, 1e-9, "only the paid, uncancelled order counts")

	_, err = reports.AdminStats(f.seller)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSellerStatsCountOnlyOwnLines(t *testing.T) {
	f := newFixture(t)
	reports := NewReportUseCase(f.store, f.store, f.store, testLogger())

	other, err := f.store.CreateUser(&domain.User{
		Username: "other", Email: "other@example.com", PasswordHash: "x", Role: domain.RoleSeller, Approved: true,
	})
	require.NoError(t, err)

	mouse := f.addProduct(t, "Mouse", 10.00, 20)
	theirs, err := f.store.CreateProduct(&domain.Product{
		SellerID: other.ID, Name: "Tablet", Category: "Tablets", Price: 100, Description: "theirs", Stock: 20, Active: true,
	})
	require.NoError(t, err)

	_, err = f.carts.AddItem(f.buyer, mouse.ID, 2)
	require.NoError(t, err)
	_, err = f.carts.AddItem(f.buyer, theirs.ID, 1)
	require.NoError(t, err)
	order, err := f.orders.Checkout(f.buyer, validCheckout())
	require.NoError(t, err)
	_, err = f.orders.Pay(f.buyer, order.ID)
	require.NoError(t, err)

	stats, err := reports.SellerStats(f.seller)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ProductCount)
	assert.Equal(t, 1, stats.OrderCount)
	assert.Equal(t, 1, stats.AwaitingApproval)
	assert.InDelta(t, 20.00, stats.Revenue, 1e-9, "the other seller's tablet is not our revenue")

	_, err = reports.SellerStats(f.buyer)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
