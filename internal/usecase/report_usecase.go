package usecase

import (
	"fmt"

	"electromart/internal/domain"

	"github.com/sirupsen/logrus"
)

type AdminStats struct {
	TotalUsers     int
	TotalProducts  int
	TotalOrders    int
	OrdersByStatus map[domain.OrderStatus]int
	TotalRevenue   float64
	PendingSellers int
}

type SellerStats struct {
	ProductCount     int
	OrderCount       int
	AwaitingApproval int
	Revenue          float64
}

type ReportUseCase interface {
	AdminStats(actor *domain.User) (*AdminStats, error)
	SellerStats(actor *domain.User) (*SellerStats, error)
}

type reportUseCase struct {
	userRepo    domain.UserRepository
	productRepo domain.ProductRepository
	orderRepo   domain.OrderRepository
	log         *logrus.Logger
}

var _ ReportUseCase = (*reportUseCase)(nil)

func NewReportUseCase(userRepo domain.UserRepository, productRepo domain.ProductRepository, orderRepo domain.OrderRepository, logger *logrus.Logger) ReportUseCase {
	return &reportUseCase{
		userRepo:    userRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		log:         logger,
	}
}

// revenueCounts reports whether an order's money has actually arrived: it
// reached paid (or beyond) and was not cancelled afterwards.
func revenueCounts(status domain.OrderStatus) bool {
	switch status {
	case domain.StatusPaid, domain.StatusSellerApproved, domain.StatusCompleted:
		return true
	}
	return false
}

func (uc *reportUseCase) AdminStats(actor *domain.User) (*AdminStats, error) {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins may view store statistics", domain.ErrForbidden)
	}

	users, err := uc.userRepo.ListUsers()
	if err != nil {
		return nil, err
	}
	products, err := uc.productRepo.ListProducts(domain.ProductFilter{})
	if err != nil {
		return nil, err
	}
	orders, err := uc.orderRepo.ListOrders()
	if err != nil {
		return nil, err
	}

	stats := &AdminStats{
		TotalUsers:     len(users),
		TotalProducts:  len(products),
		TotalOrders:    len(orders),
		OrdersByStatus: map[domain.OrderStatus]int{},
	}
	for _, u := range users {
		if u.Role == domain.RoleSeller && !u.Approved {
			stats.PendingSellers++
		}
	}
	for _, o := range orders {
		stats.OrdersByStatus[o.Status]++
		if revenueCounts(o.Status) {
			stats.TotalRevenue += o.Total
		}
	}
	return stats, nil
}

func (uc *reportUseCase) SellerStats(actor *domain.User) (*SellerStats, error) {
	if actor == nil || actor.Role != domain.RoleSeller {
		return nil, fmt.Errorf("%w: only sellers have a dashboard", domain.ErrForbidden)
	}

	products, err := uc.productRepo.ListProducts(domain.ProductFilter{SellerID: actor.ID})
	if err != nil {
		return nil, err
	}
	orders, err := uc.orderRepo.ListOrdersBySeller(actor.ID)
	if err != nil {
		return nil, err
	}

	stats := &SellerStats{ProductCount: len(products), OrderCount: len(orders)}
	for _, o := range orders {
		if o.Status == domain.StatusPaid {
			stats.AwaitingApproval++
		}
		if !revenueCounts(o.Status) {
			continue
		}
		// Only this seller's lines count toward their revenue.
		for _, item := range o.Items {
			if item.SellerID == actor.ID {
				stats.Revenue += item.UnitPrice * float64(item.Quantity)
			}
		}
	}
	return stats, nil
}
