package domain

import "time"

type OrderStatus string

const (
	StatusCreated        OrderStatus = "created"
	StatusPaid           OrderStatus = "paid"
	StatusSellerApproved OrderStatus = "seller_approved"
	StatusCompleted      OrderStatus = "completed"
	StatusCancelled      OrderStatus = "cancelled"
)

func IsValidStatus(status OrderStatus) bool {
	switch status {
	case StatusCreated, StatusPaid, StatusSellerApproved, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// OrderItem is an immutable snapshot of a cart line taken at checkout. The
// seller id is captured alongside the price so ownership checks keep working
// even if the product is later deactivated or deleted.
type OrderItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	SellerID    string  `json:"seller_id"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

func (i OrderItem) LineTotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

type BillingInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// PaymentInfo records what the buyer submitted at checkout. No gateway is
// ever called; Reference keeps only a masked identifier.
type PaymentInfo struct {
	Method    string `json:"method"`
	Reference string `json:"reference"`
}

const (
	PaymentCreditCard  = "credit_card"
	PaymentMobileMoney = "momo"
)

type Order struct {
	ID        string      `json:"id"`
	BuyerID   string      `json:"buyer_id"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Billing   BillingInfo `json:"billing"`
	Payment   PaymentInfo `json:"payment"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// ContainsSeller reports whether at least one line item belongs to sellerID.
func (o *Order) ContainsSeller(sellerID string) bool {
	for _, item := range o.Items {
		if item.SellerID == sellerID {
			return true
		}
	}
	return false
}

// Transition is one legal edge of the order state machine. Buyer/Seller flag
// which non-admin actors may drive it: the owning buyer, or a seller owning
// at least one line item. Admins may drive every listed edge.
type Transition struct {
	From   OrderStatus
	To     OrderStatus
	Buyer  bool
	Seller bool
}

// orderTransitions is the complete transition table. Any (from, to) pair not
// listed here is illegal for every actor, admins included.
var orderTransitions = []Transition{
	{From: StatusCreated, To: StatusPaid, Buyer: true},
	{From: StatusPaid, To: StatusSellerApproved, Seller: true},
	{From: StatusSellerApproved, To: StatusCompleted, Buyer: true},
	{From: StatusCreated, To: StatusCancelled, Buyer: true, Seller: true},
	{From: StatusPaid, To: StatusCancelled, Buyer: true, Seller: true},
}

// FindTransition looks up the edge (from, to) in the transition table.
func FindTransition(from, to OrderStatus) (Transition, bool) {
	for _, t := range orderTransitions {
		if t.From == from && t.To == to {
			return t, true
		}
	}
	return Transition{}, false
}

type OrderRepository interface {
	CreateOrder(order *Order) (*Order, error)
	GetOrderByID(id string) (*Order, error)

	// UpdateStatus is compare-and-set: it only moves the order from `from`
	// to `to` if the current status still equals `from`, so two concurrent
	// transitions cannot both pass the state check. A stale `from` fails
	// with ErrInvalidTransition.
	UpdateStatus(id string, from, to OrderStatus) (*Order, error)

	ListOrders() ([]Order, error)
	ListOrdersByBuyer(buyerID string) ([]Order, error)
	ListOrdersBySeller(sellerID string) ([]Order, error)
	DeleteOrder(id string) error
}
