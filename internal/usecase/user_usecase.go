package usecase

import (
	"fmt"
	"strings"

	"electromart/internal/domain"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type UserUseCase interface {
	Register(username, email, password string, role domain.Role) (*domain.User, error)
	Authenticate(email, password string) (*domain.User, error)
	GetUser(id string) (*domain.User, error)
	ListUsers(actor *domain.User) ([]domain.User, error)
	ListPendingSellers(actor *domain.User) ([]domain.User, error)
	ApproveSeller(actor *domain.User, sellerID string) (*domain.User, error)
}

type userUseCase struct {
	userRepo domain.UserRepository
	log      *logrus.Logger
}

var _ UserUseCase = (*userUseCase)(nil)

func NewUserUseCase(repo domain.UserRepository, logger *logrus.Logger) UserUseCase {
	return &userUseCase{userRepo: repo, log: logger}
}

func (uc *userUseCase) Register(username, email, password string, role domain.Role) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	uc.log.Infof("Use Case: attempting registration for email %s as %s", email, role)

	if username == "" {
		return nil, fmt.Errorf("%w: username cannot be empty", domain.ErrValidation)
	}
	if !isValidEmail(email) {
		uc.log.Warnf("Use Case: registration failed, invalid email format: %s", email)
		return nil, fmt.Errorf("%w: invalid email format", domain.ErrValidation)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrValidation)
	}
	if !domain.IsValidRole(role) || role == domain.RoleAdmin {
		// Admin accounts are seeded or promoted, never self-registered.
		return nil, fmt.Errorf("%w: invalid role %q", domain.ErrValidation, role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.log.Errorf("Use Case: failed to hash password for %s: %v", email, err)
		return nil, fmt.Errorf("internal error processing password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		// Sellers need an admin to approve them before they may list
		// products; buyers are usable immediately.
		Approved: role == domain.RoleBuyer,
	}

	created, err := uc.userRepo.CreateUser(user)
	if err != nil {
		uc.log.Warnf("Use Case: repository failed to create user %s: %v", email, err)
		return nil, err
	}

	uc.log.Infof("Use Case: user registered with ID %s, email %s, role %s", created.ID, created.Email, created.Role)
	return created, nil
}

func (uc *userUseCase) Authenticate(email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	uc.log.Infof("Use Case: attempting authentication for email %s", email)

	user, err := uc.userRepo.GetUserByEmail(email)
	if err != nil {
		uc.log.Warnf("Use Case: authentication failed, user not found: %s", email)
		return nil, fmt.Errorf("%w: invalid email or password", domain.ErrForbidden)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		uc.log.Warnf("Use Case: authentication failed, wrong password for %s", email)
		return nil, fmt.Errorf("%w: invalid email or password", domain.ErrForbidden)
	}

	uc.log.Infof("Use Case: authentication successful for %s (ID %s)", email, user.ID)
	return user, nil
}

func (uc *userUseCase) GetUser(id string) (*domain.User, error) {
	return uc.userRepo.GetUserByID(id)
}

func (uc *userUseCase) ListUsers(actor *domain.User) ([]domain.User, error) {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins may list users", domain.ErrForbidden)
	}
	return uc.userRepo.ListUsers()
}

func (uc *userUseCase) ListPendingSellers(actor *domain.User) ([]domain.User, error) {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins may list pending sellers", domain.ErrForbidden)
	}
	users, err := uc.userRepo.ListUsers()
	if err != nil {
		return nil, err
	}
	pending := []domain.User{}
	for _, u := range users {
		if u.Role == domain.RoleSeller && !u.Approved {
			pending = append(pending, u)
		}
	}
	return pending, nil
}

func (uc *userUseCase) ApproveSeller(actor *domain.User, sellerID string) (*domain.User, error) {
	if actor == nil || actor.Role != domain.RoleAdmin {
		uc.log.Warnf("Use Case: non-admin attempted to approve seller %s", sellerID)
		return nil, fmt.Errorf("%w: only admins may approve sellers", domain.ErrForbidden)
	}

	seller, err := uc.userRepo.GetUserByID(sellerID)
	if err != nil {
		return nil, err
	}
	if seller.Role != domain.RoleSeller {
		return nil, fmt.Errorf("%w: user %s is not a seller", domain.ErrValidation, sellerID)
	}

	approved, err := uc.userRepo.SetSellerApproved(sellerID, true)
	if err != nil {
		uc.log.Errorf("Use Case: repository failed to approve seller %s: %v", sellerID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: seller %s approved by admin %s", sellerID, actor.ID)
	return approved, nil
}

// isValidEmail provides a basic shape check; anything stricter belongs to a
// confirmation mail flow this app does not have.
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}
	domainParts := strings.Split(parts[1], ".")
	return len(domainParts) >= 2 && domainParts[0] != "" && domainParts[len(domainParts)-1] != ""
}
