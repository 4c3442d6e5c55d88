package usecase

import (
	"errors"
	"fmt"
	"strings"

	"electromart/internal/domain"

	"github.com/sirupsen/logrus"
)

type CheckoutInput struct {
	BillingName    string
	BillingAddress string
	PaymentMethod  string
	PaymentNumber  string
}

type OrderUseCase interface {
	Checkout(actor *domain.User, input CheckoutInput) (*domain.Order, error)
	GetOrder(actor *domain.User, id string) (*domain.Order, error)
	ListOrdersForBuyer(actor *domain.User) ([]domain.Order, error)
	ListOrdersForSeller(actor *domain.User) ([]domain.Order, error)
	ListAllOrders(actor *domain.User) ([]domain.Order, error)
	Transition(actor *domain.User, orderID string, target domain.OrderStatus) (*domain.Order, error)
	Pay(actor *domain.User, orderID string) (*domain.Order, error)
	ApproveFulfilment(actor *domain.User, orderID string) (*domain.Order, error)
	ConfirmDelivery(actor *domain.User, orderID string) (*domain.Order, error)
	Cancel(actor *domain.User, orderID string) (*domain.Order, error)
	DeleteCancelledOrder(actor *domain.User, orderID string) error
}

type orderUseCase struct {
	orderRepo   domain.OrderRepository
	cartRepo    domain.CartRepository
	productRepo domain.ProductRepository
	log         *logrus.Logger
}

var _ OrderUseCase = (*orderUseCase)(nil)

func NewOrderUseCase(orderRepo domain.OrderRepository, cartRepo domain.CartRepository, productRepo domain.ProductRepository, logger *logrus.Logger) OrderUseCase {
	return &orderUseCase{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		log:         logger,
	}
}

// Checkout turns the buyer's cart into an order. Billing and payment details
// are captured here so that after creation only the status (and updated_at)
// of an order ever changes.
func (uc *orderUseCase) Checkout(actor *domain.User, input CheckoutInput) (*domain.Order, error) {
	if actor == nil || actor.Role != domain.RoleBuyer {
		return nil, fmt.Errorf("%w: only buyers may check out", domain.ErrForbidden)
	}
	uc.log.Infof("Use Case: checkout started for buyer %s", actor.ID)

	cartItems, err := uc.cartRepo.ListItems(actor.ID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		uc.log.Warnf("Use Case: checkout rejected for buyer %s, cart is empty", actor.ID)
		return nil, fmt.Errorf("%w: cart is empty", domain.ErrValidation)
	}

	billing, err := validateBilling(input)
	if err != nil {
		return nil, err
	}
	payment, err := validatePayment(input)
	if err != nil {
		return nil, err
	}

	// Verify every line against the live catalog before touching stock.
	orderItems := make([]domain.OrderItem, 0, len(cartItems))
	total := 0.0
	for _, item := range cartItems {
		product, err := uc.productRepo.GetProductByID(item.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: product %s", domain.ErrProductUnavailable, item.ProductID)
			}
			return nil, err
		}
		if !product.Active {
			return nil, fmt.Errorf("%w: product %q is no longer listed", domain.ErrProductUnavailable, product.Name)
		}
		if product.Stock < item.Quantity {
			return nil, fmt.Errorf("%w: only %d of %q in stock", domain.ErrProductUnavailable, product.Stock, product.Name)
		}
		orderItems = append(orderItems, domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			SellerID:    product.SellerID,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
		})
		total += product.Price * float64(item.Quantity)
	}

	// Reserve stock line by line, undoing earlier lines on failure.
	reserved := []domain.OrderItem{}
	for _, item := range orderItems {
		if _, err := uc.productRepo.AdjustStock(item.ProductID, -item.Quantity); err != nil {
			uc.restoreStock(reserved)
			if errors.Is(err, domain.ErrProductUnavailable) {
				return nil, fmt.Errorf("%w: %q sold out during checkout", domain.ErrProductUnavailable, item.ProductName)
			}
			return nil, err
		}
		reserved = append(reserved, item)
	}

	order := &domain.Order{
		BuyerID: actor.ID,
		Items:   orderItems,
		Total:   total,
		Billing: billing,
		Payment: payment,
		Status:  domain.StatusCreated,
	}
	created, err := uc.orderRepo.CreateOrder(order)
	if err != nil {
		uc.log.Errorf("Use Case: order creation failed for buyer %s, restoring stock: %v", actor.ID, err)
		uc.restoreStock(reserved)
		return nil, err
	}

	if err := uc.cartRepo.Clear(actor.ID); err != nil {
		// The order exists; a stale cart is recoverable, losing the order is not.
		uc.log.Errorf("Use Case: order %s created but cart of %s could not be cleared: %v", created.ID, actor.ID, err)
	}

	uc.log.Infof("Use Case: order %s created for buyer %s, %d items, total %.2f", created.ID, actor.ID, len(created.Items), created.Total)
	return created, nil
}

func (uc *orderUseCase) GetOrder(actor *domain.User, id string) (*domain.Order, error) {
	order, err := uc.orderRepo.GetOrderByID(id)
	if err != nil {
		return nil, err
	}
	if !domain.CanViewOrder(actor, order) {
		uc.log.Warnf("Use Case: access to order %s denied", id)
		return nil, fmt.Errorf("%w: you are not a party to this order", domain.ErrForbidden)
	}
	return order, nil
}

func (uc *orderUseCase) ListOrdersForBuyer(actor *domain.User) ([]domain.Order, error) {
	if actor == nil || actor.Role != domain.RoleBuyer {
		return nil, fmt.Errorf("%w: only buyers have a purchase history", domain.ErrForbidden)
	}
	return uc.orderRepo.ListOrdersByBuyer(actor.ID)
}

func (uc *orderUseCase) ListOrdersForSeller(actor *domain.User) ([]domain.Order, error) {
	if actor == nil || actor.Role != domain.RoleSeller {
		return nil, fmt.Errorf("%w: only sellers have incoming orders", domain.ErrForbidden)
	}
	return uc.orderRepo.ListOrdersBySeller(actor.ID)
}

func (uc *orderUseCase) ListAllOrders(actor *domain.User) ([]domain.Order, error) {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins may list all orders", domain.ErrForbidden)
	}
	return uc.orderRepo.ListOrders()
}

// Transition moves an order along the status graph. The edge must exist for
// everyone, admins included; the actor check then decides who may drive it.
func (uc *orderUseCase) Transition(actor *domain.User, orderID string, target domain.OrderStatus) (*domain.Order, error) {
	if !domain.IsValidStatus(target) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, target)
	}

	order, err := uc.orderRepo.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}

	if _, ok := domain.FindTransition(order.Status, target); !ok {
		uc.log.Warnf("Use Case: invalid transition %s -> %s requested for order %s", order.Status, target, orderID)
		return nil, fmt.Errorf("%w: cannot go from %s to %s", domain.ErrInvalidTransition, order.Status, target)
	}
	if !domain.CanTransitionOrder(actor, order, target) {
		uc.log.Warnf("Use Case: actor may not move order %s from %s to %s", orderID, order.Status, target)
		return nil, fmt.Errorf("%w: you may not perform this action on the order", domain.ErrForbidden)
	}

	updated, err := uc.orderRepo.UpdateStatus(orderID, order.Status, target)
	if err != nil {
		return nil, err
	}

	if target == domain.StatusCancelled {
		uc.restoreStock(updated.Items)
	}

	uc.log.Infof("Use Case: order %s moved from %s to %s", orderID, order.Status, target)
	return updated, nil
}

func (uc *orderUseCase) Pay(actor *domain.User, orderID string) (*domain.Order, error) {
	return uc.Transition(actor, orderID, domain.StatusPaid)
}

func (uc *orderUseCase) ApproveFulfilment(actor *domain.User, orderID string) (*domain.Order, error) {
	return uc.Transition(actor, orderID, domain.StatusSellerApproved)
}

func (uc *orderUseCase) ConfirmDelivery(actor *domain.User, orderID string) (*domain.Order, error) {
	return uc.Transition(actor, orderID, domain.StatusCompleted)
}

func (uc *orderUseCase) Cancel(actor *domain.User, orderID string) (*domain.Order, error) {
	return uc.Transition(actor, orderID, domain.StatusCancelled)
}

func (uc *orderUseCase) DeleteCancelledOrder(actor *domain.User, orderID string) error {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: only admins may delete orders", domain.ErrForbidden)
	}

	order, err := uc.orderRepo.GetOrderByID(orderID)
	if err != nil {
		return err
	}
	if order.Status != domain.StatusCancelled {
		return fmt.Errorf("%w: only cancelled orders may be deleted", domain.ErrValidation)
	}

	if err := uc.orderRepo.DeleteOrder(orderID); err != nil {
		return err
	}
	uc.log.Infof("Use Case: cancelled order %s deleted by admin %s", orderID, actor.ID)
	return nil
}

// restoreStock puts reserved units back. Products deleted in the meantime are
// logged and skipped; there is nothing left to restock.
func (uc *orderUseCase) restoreStock(items []domain.OrderItem) {
	for _, item := range items {
		if _, err := uc.productRepo.AdjustStock(item.ProductID, item.Quantity); err != nil {
			uc.log.Errorf("Use Case: failed to restore %d units of product %s: %v", item.Quantity, item.ProductID, err)
		}
	}
}

func validateBilling(input CheckoutInput) (domain.BillingInfo, error) {
	name := strings.TrimSpace(input.BillingName)
	address := strings.TrimSpace(input.BillingAddress)
	if name == "" {
		return domain.BillingInfo{}, fmt.Errorf("%w: billing name cannot be empty", domain.ErrValidation)
	}
	if address == "" {
		return domain.BillingInfo{}, fmt.Errorf("%w: billing address cannot be empty", domain.ErrValidation)
	}
	return domain.BillingInfo{Name: name, Address: address}, nil
}

func validatePayment(input CheckoutInput) (domain.PaymentInfo, error) {
	number := strings.TrimSpace(input.PaymentNumber)
	number = strings.ReplaceAll(number, " ", "")
	if !isAllDigits(number) {
		return domain.PaymentInfo{}, fmt.Errorf("%w: payment number must contain only digits", domain.ErrValidation)
	}

	switch input.PaymentMethod {
	case domain.PaymentCreditCard:
		if len(number) < 13 || len(number) > 19 {
			return domain.PaymentInfo{}, fmt.Errorf("%w: card number must be 13 to 19 digits", domain.ErrValidation)
		}
	case domain.PaymentMobileMoney:
		if len(number) < 10 {
			return domain.PaymentInfo{}, fmt.Errorf("%w: mobile money number must be at least 10 digits", domain.ErrValidation)
		}
	default:
		return domain.PaymentInfo{}, fmt.Errorf("%w: unknown payment method %q", domain.ErrValidation, input.PaymentMethod)
	}

	return domain.PaymentInfo{
		Method:    input.PaymentMethod,
		Reference: maskPaymentNumber(number),
	}, nil
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// maskPaymentNumber keeps only the last four digits; full numbers are never
// stored.
func maskPaymentNumber(number string) string {
	if len(number) <= 4 {
		return "****"
	}
	return "****" + number[len(number)-4:]
}
