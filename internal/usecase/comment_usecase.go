package usecase

import (
	"fmt"
	"strings"

	"electromart/internal/domain"

	"github.com/sirupsen/logrus"
)

type CommentUseCase interface {
	PostComment(actor *domain.User, orderID, message string) (*domain.OrderComment, error)
	ListComments(actor *domain.User, orderID string) ([]domain.OrderComment, error)
}

type commentUseCase struct {
	commentRepo domain.CommentRepository
	orderRepo   domain.OrderRepository
	log         *logrus.Logger
}

var _ CommentUseCase = (*commentUseCase)(nil)

func NewCommentUseCase(commentRepo domain.CommentRepository, orderRepo domain.OrderRepository, logger *logrus.Logger) CommentUseCase {
	return &commentUseCase{commentRepo: commentRepo, orderRepo: orderRepo, log: logger}
}

func (uc *commentUseCase) PostComment(actor *domain.User, orderID, message string) (*domain.OrderComment, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, domain.ErrEmptyMessage
	}

	order, err := uc.orderRepo.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if !domain.CanComment(actor, order) {
		uc.log.Warnf("Use Case: comment on order %s rejected, actor is not a party", orderID)
		return nil, fmt.Errorf("%w: you are not a party to this order", domain.ErrForbidden)
	}

	comment := &domain.OrderComment{
		OrderID:    orderID,
		AuthorID:   actor.ID,
		AuthorRole: actor.Role,
		Message:    message,
	}
	created, err := uc.commentRepo.AddComment(comment)
	if err != nil {
		uc.log.Errorf("Use Case: repository failed to add comment to order %s: %v", orderID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: comment %s posted on order %s by %s (%s)", created.ID, orderID, actor.ID, actor.Role)
	return created, nil
}

func (uc *commentUseCase) ListComments(actor *domain.User, orderID string) ([]domain.OrderComment, error) {
	order, err := uc.orderRepo.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if !domain.CanViewOrder(actor, order) {
		return nil, fmt.Errorf("%w: you are not a party to this order", domain.ErrForbidden)
	}
	return uc.commentRepo.ListCommentsByOrder(orderID)
}
