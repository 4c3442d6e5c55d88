package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindTransition(t *testing.T) {
	legal := []struct {
		from, to OrderStatus
	}{
		{StatusCreated, StatusPaid},
		{StatusPaid, StatusSellerApproved},
		{StatusSellerApproved, StatusCompleted},
		{StatusCreated, StatusCancelled},
		{StatusPaid, StatusCancelled},
	}
	for _, tc := range legal {
		_, ok := FindTransition(tc.from, tc.to)
		assert.True(t, ok, "expected %s -> %s to be a legal edge", tc.from, tc.to)
	}

	illegal := []struct {
		from, to OrderStatus
	}{
		{StatusCreated, StatusSellerApproved},
		{StatusCreated, StatusCompleted},
		{StatusPaid, StatusCompleted},
		{StatusSellerApproved, StatusCancelled},
		{StatusCompleted, StatusCancelled},
		{StatusCancelled, StatusCreated},
		{StatusPaid, StatusCreated},
	}
	for _, tc := range illegal {
		_, ok := FindTransition(tc.from, tc.to)
		assert.False(t, ok, "expected %s -> %s to be illegal", tc.from, tc.to)
	}
}

func TestCanTransitionOrder(t *testing.T) {
	buyer := &User{ID: "buyer-1", Role: RoleBuyer}
	otherBuyer := &User{ID: "buyer-2", Role: RoleBuyer}
	seller := &User{ID: "seller-1", Role: RoleSeller, Approved: true}
	otherSeller := &User{ID: "seller-2", Role: RoleSeller, Approved: true}
	admin := &User{ID: "admin-1", Role: RoleAdmin}

	order := &Order{
		ID:      "order-1",
		BuyerID: buyer.ID,
		Status:  StatusCreated,
		Items: []OrderItem{
			{ProductID: "p1", SellerID: seller.ID, Quantity: 1, UnitPrice: 10},
		},
	}

	assert.True(t, CanTransitionOrder(buyer, order, StatusPaid), "owning buyer pays")
	assert.False(t, CanTransitionOrder(otherBuyer, order, StatusPaid), "stranger buyer cannot pay")
	assert.False(t, CanTransitionOrder(seller, order, StatusPaid), "seller cannot pay")
	assert.True(t, CanTransitionOrder(admin, order, StatusPaid), "admin drives any listed edge")

	order.Status = StatusPaid
	assert.True(t, CanTransitionOrder(seller, order, StatusSellerApproved), "item seller approves")
	assert.False(t, CanTransitionOrder(otherSeller, order, StatusSellerApproved), "unrelated seller cannot approve")
	assert.False(t, CanTransitionOrder(buyer, order, StatusSellerApproved), "buyer cannot approve")
	assert.True(t, CanTransitionOrder(buyer, order, StatusCancelled), "buyer cancels a paid order")
	assert.True(t, CanTransitionOrder(seller, order, StatusCancelled), "seller cancels a paid order")

	order.Status = StatusSellerApproved
	assert.True(t, CanTransitionOrder(buyer, order, StatusCompleted), "owning buyer confirms delivery")
	assert.False(t, CanTransitionOrder(seller, order, StatusCompleted), "seller cannot confirm delivery")
	// Past the cancellation window nobody cancels, not even an admin.
	assert.False(t, CanTransitionOrder(admin, order, StatusCancelled))

	order.Status = StatusCompleted
	assert.False(t, CanTransitionOrder(admin, order, StatusCancelled), "completed orders are final")
	assert.False(t, CanTransitionOrder(nil, order, StatusPaid), "guests can do nothing")
}

func TestCanManageProduct(t *testing.T) {
	owner := &User{ID: "seller-1", Role: RoleSeller, Approved: true}
	pending := &User{ID: "seller-3", Role: RoleSeller, Approved: false}
	admin := &User{ID: "admin-1", Role: RoleAdmin}
	buyer := &User{ID: "buyer-1", Role: RoleBuyer}

	product := &Product{ID: "p1", SellerID: owner.ID}

	assert.True(t, CanManageProduct(owner, product))
	assert.True(t, CanManageProduct(admin, product))
	assert.False(t, CanManageProduct(buyer, product))
	assert.False(t, CanManageProduct(nil, product))

	notTheirs := &Product{ID: "p2", SellerID: "someone-else"}
	assert.False(t, CanManageProduct(owner, notTheirs))

	pendingOwn := &Product{ID: "p3", SellerID: pending.ID}
	assert.False(t, CanManageProduct(pending, pendingOwn), "unapproved sellers cannot manage products")
}

func TestCanViewOrder(t *testing.T) {
	buyer := &User{ID: "buyer-1", Role: RoleBuyer}
	seller := &User{ID: "seller-1", Role: RoleSeller, Approved: true}
	stranger := &User{ID: "buyer-9", Role: RoleBuyer}
	admin := &User{ID: "admin-1", Role: RoleAdmin}

	order := &Order{
		BuyerID: buyer.ID,
		Items:   []OrderItem{{ProductID: "p1", SellerID: seller.ID}},
	}

	assert.True(t, CanViewOrder(buyer, order))
	assert.True(t, CanViewOrder(seller, order))
	assert.True(t, CanViewOrder(admin, order))
	assert.False(t, CanViewOrder(stranger, order))
	assert.False(t, CanViewOrder(nil, order))
}

func TestOrderItemLineTotal(t *testing.T) {
	item := OrderItem{Quantity: 3, UnitPrice: 7.5}
	assert.InDelta(t, 22.5, item.LineTotal(), 1e-9)
}
