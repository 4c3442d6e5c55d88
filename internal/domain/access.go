package domain

// Access-control predicates. Every mutating usecase consults these instead of
// inlining role checks, so the authorization rules live in exactly one place.

// IsApprovedSeller reports whether u is a seller whose account an admin has
// approved. Freshly registered sellers start unapproved.
func IsApprovedSeller(u *User) bool {
	return u != nil && u.Role == RoleSeller && u.Approved
}

// CanManageProduct reports whether u may create or mutate p. Admins manage
// everything; sellers only their own products, and only once approved.
func CanManageProduct(u *User, p *Product) bool {
	if u == nil {
		return false
	}
	if u.Role == RoleAdmin {
		return true
	}
	return IsApprovedSeller(u) && p.SellerID == u.ID
}

// CanTransitionOrder reports whether u may move o to target, assuming the
// edge (o.Status, target) exists in the transition table. Admins may drive
// any listed edge regardless of ownership; they still cannot skip states,
// which callers enforce via FindTransition before consulting this predicate.
func CanTransitionOrder(u *User, o *Order, target OrderStatus) bool {
	if u == nil {
		return false
	}
	t, ok := FindTransition(o.Status, target)
	if !ok {
		return false
	}
	if u.Role == RoleAdmin {
		return true
	}
	if t.Buyer && u.Role == RoleBuyer && o.BuyerID == u.ID {
		return true
	}
	if t.Seller && u.Role == RoleSeller && o.ContainsSeller(u.ID) {
		return true
	}
	return false
}

// CanViewOrder reports whether u may read o and its comment thread.
func CanViewOrder(u *User, o *Order) bool {
	if u == nil {
		return false
	}
	switch u.Role {
	case RoleAdmin:
		return true
	case RoleBuyer:
		return o.BuyerID == u.ID
	case RoleSeller:
		return o.ContainsSeller(u.ID)
	default:
		return false
	}
}

// CanComment reports whether u may post to o's comment thread: the owning
// buyer, a seller owning a line item, or an admin.
func CanComment(u *User, o *Order) bool {
	return CanViewOrder(u, o)
}
