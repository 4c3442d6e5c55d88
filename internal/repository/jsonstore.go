package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"electromart/internal/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// JSONStore keeps the whole object graph in memory behind one RW mutex and
// writes a JSON snapshot through to disk on every mutation. With an empty
// path it runs purely in memory, which is what the tests use.
type JSONStore struct {
	mu   sync.RWMutex
	path string
	log  *logrus.Logger

	users    map[string]domain.User
	products map[string]domain.Product
	carts    map[cartKey]domain.CartItem
	orders   map[string]domain.Order
	comments map[string][]domain.OrderComment

	lastCommentAt time.Time
}

type cartKey struct {
	UserID    string
	ProductID string
}

// persistedUser carries the password hash, which domain.User deliberately
// excludes from its JSON form.
type persistedUser struct {
	domain.User
	PasswordHash string `json:"password_hash"`
}

// snapshot is the on-disk layout of the store.
type snapshot struct {
	Users    []persistedUser       `json:"users"`
	Products []domain.Product      `json:"products"`
	Carts    []domain.CartItem     `json:"cart_items"`
	Orders   []domain.Order        `json:"orders"`
	Comments []domain.OrderComment `json:"order_comments"`
}

var (
	_ domain.UserRepository    = (*JSONStore)(nil)
	_ domain.ProductRepository = (*JSONStore)(nil)
	_ domain.CartRepository    = (*JSONStore)(nil)
	_ domain.OrderRepository   = (*JSONStore)(nil)
	_ domain.CommentRepository = (*JSONStore)(nil)
)

func NewJSONStore(path string, logger *logrus.Logger) (*JSONStore, error) {
	s := &JSONStore{
		path:     path,
		log:      logger,
		users:    make(map[string]domain.User),
		products: make(map[string]domain.Product),
		carts:    make(map[cartKey]domain.CartItem),
		orders:   make(map[string]domain.Order),
		comments: make(map[string][]domain.OrderComment),
	}
	if path == "" {
		logger.Info("Repository: JSON store running in-memory only (no data file configured)")
		return s, nil
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *JSONStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Infof("Repository: data file %s not found, starting with an empty store", s.path)
			return nil
		}
		return fmt.Errorf("could not read data file %s: %w", s.path, err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("could not parse data file %s: %w", s.path, err)
	}

	for _, pu := range snap.Users {
		u := pu.User
		u.PasswordHash = pu.PasswordHash
		s.users[u.ID] = u
	}
	for _, p := range snap.Products {
		s.products[p.ID] = p
	}
	for _, c := range snap.Carts {
		s.carts[cartKey{c.UserID, c.ProductID}] = c
	}
	for _, o := range snap.Orders {
		s.orders[o.ID] = o
	}
	for _, c := range snap.Comments {
		s.comments[c.OrderID] = append(s.comments[c.OrderID], c)
		if c.CreatedAt.After(s.lastCommentAt) {
			s.lastCommentAt = c.CreatedAt
		}
	}

	s.log.Infof("Repository: loaded %d users, %d products, %d cart items, %d orders from %s",
		len(s.users), len(s.products), len(s.carts), len(s.orders), s.path)
	return nil
}

// persist writes the current state back to disk. Callers must hold the write
// lock. Persist failures are surfaced, not masked.
func (s *JSONStore) persist() error {
	if s.path == "" {
		return nil
	}

	snap := snapshot{
		Users:    make([]persistedUser, 0, len(s.users)),
		Products: make([]domain.Product, 0, len(s.products)),
		Carts:    make([]domain.CartItem, 0, len(s.carts)),
		Orders:   make([]domain.Order, 0, len(s.orders)),
	}
	for _, u := range s.users {
		snap.Users = append(snap.Users, persistedUser{User: u, PasswordHash: u.PasswordHash})
	}
	for _, p := range s.products {
		snap.Products = append(snap.Products, p)
	}
	for _, c := range s.carts {
		snap.Carts = append(snap.Carts, c)
	}
	for _, o := range s.orders {
		snap.Orders = append(snap.Orders, o)
	}
	for _, thread := range s.comments {
		snap.Comments = append(snap.Comments, thread...)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode store snapshot: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("could not write data file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("could not replace data file: %w", err)
	}
	return nil
}

// --- UserRepository ---

func (s *JSONStore) CreateUser(user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(user.Email))
	for _, existing := range s.users {
		if existing.Email == email {
			s.log.Warnf("Repository: attempted to create user with duplicate email: %s", email)
			return nil, fmt.Errorf("%w: %s", domain.ErrEmailTaken, email)
		}
	}

	u := *user
	u.Email = email
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	s.users[u.ID] = u
	if err := s.persist(); err != nil {
		delete(s.users, u.ID)
		return nil, err
	}

	s.log.Infof("Repository: user created with ID %s, email %s, role %s", u.ID, u.Email, u.Role)
	return &u, nil
}

func (s *JSONStore) GetUserByID(id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	return &u, nil
}

func (s *JSONStore) GetUserByEmail(email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("%w: user with email %s", domain.ErrNotFound, email)
}

func (s *JSONStore) ListUsers() ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (s *JSONStore) SetSellerApproved(id string, approved bool) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	prev := u.Approved
	u.Approved = approved
	s.users[id] = u
	if err := s.persist(); err != nil {
		u.Approved = prev
		s.users[id] = u
		return nil, err
	}

	s.log.Infof("Repository: seller %s approval set to %t", id, approved)
	return &u, nil
}

// --- ProductRepository ---

func (s *JSONStore) CreateProduct(product *domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := *product
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.products[p.ID] = p
	if err := s.persist(); err != nil {
		delete(s.products, p.ID)
		return nil, err
	}

	s.log.Infof("Repository: product created with ID %s, name %q, seller %s", p.ID, p.Name, p.SellerID)
	return &p, nil
}

func (s *JSONStore) GetProductByID(id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, id)
	}
	return &p, nil
}

func (s *JSONStore) UpdateProduct(product *domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.products[product.ID]
	if !ok {
		return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, product.ID)
	}
	p := *product
	p.CreatedAt = prev.CreatedAt
	p.UpdatedAt = time.Now()
	s.products[p.ID] = p
	if err := s.persist(); err != nil {
		s.products[p.ID] = prev
		return nil, err
	}
	return &p, nil
}

func (s *JSONStore) ListProducts(filter domain.ProductFilter) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.SearchText))
	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if filter.ActiveOnly && !p.Active {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.SellerID != "" && p.SellerID != filter.SellerID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].ID < products[j].ID
		}
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

func (s *JSONStore) AdjustStock(id string, delta int) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, id)
	}
	if p.Stock+delta < 0 {
		return nil, fmt.Errorf("%w: insufficient stock for %q (available: %d)", domain.ErrProductUnavailable, p.Name, p.Stock)
	}
	prev := p
	p.Stock += delta
	p.UpdatedAt = time.Now()
	s.products[id] = p
	if err := s.persist(); err != nil {
		s.products[id] = prev
		return nil, err
	}
	return &p, nil
}

// --- CartRepository ---

func (s *JSONStore) AddItem(userID, productID string, qty int) (*domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cartKey{userID, productID}
	item, ok := s.carts[key]
	if ok {
		item.Quantity += qty
	} else {
		item = domain.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  qty,
			AddedAt:   time.Now(),
		}
	}
	prev, hadPrev := s.carts[key]
	s.carts[key] = item
	if err := s.persist(); err != nil {
		if hadPrev {
			s.carts[key] = prev
		} else {
			delete(s.carts, key)
		}
		return nil, err
	}
	return &item, nil
}

func (s *JSONStore) SetQuantity(userID, productID string, qty int) (*domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cartKey{userID, productID}
	item, ok := s.carts[key]
	if !ok {
		return nil, fmt.Errorf("%w: product %s not in cart", domain.ErrNotFound, productID)
	}
	prev := item
	if qty <= 0 {
		delete(s.carts, key)
		if err := s.persist(); err != nil {
			s.carts[key] = prev
			return nil, err
		}
		return nil, nil
	}
	item.Quantity = qty
	s.carts[key] = item
	if err := s.persist(); err != nil {
		s.carts[key] = prev
		return nil, err
	}
	return &item, nil
}

func (s *JSONStore) RemoveItem(userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cartKey{userID, productID}
	prev, ok := s.carts[key]
	if !ok {
		return fmt.Errorf("%w: product %s not in cart", domain.ErrNotFound, productID)
	}
	delete(s.carts, key)
	if err := s.persist(); err != nil {
		s.carts[key] = prev
		return err
	}
	return nil
}

func (s *JSONStore) Clear(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := make(map[cartKey]domain.CartItem)
	for key, item := range s.carts {
		if key.UserID == userID {
			removed[key] = item
			delete(s.carts, key)
		}
	}
	if len(removed) == 0 {
		return nil
	}
	if err := s.persist(); err != nil {
		for key, item := range removed {
			s.carts[key] = item
		}
		return err
	}
	return nil
}

func (s *JSONStore) ListItems(userID string) ([]domain.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := []domain.CartItem{}
	for key, item := range s.carts {
		if key.UserID == userID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].AddedAt.Equal(items[j].AddedAt) {
			return items[i].ProductID < items[j].ProductID
		}
		return items[i].AddedAt.Before(items[j].AddedAt)
	})
	return items, nil
}

// --- OrderRepository ---

func (s *JSONStore) CreateOrder(order *domain.Order) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := *order
	o.Items = append([]domain.OrderItem(nil), order.Items...)
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	now := time.Now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = o.CreatedAt
	s.orders[o.ID] = o
	if err := s.persist(); err != nil {
		delete(s.orders, o.ID)
		return nil, err
	}

	s.log.Infof("Repository: order %s created for buyer %s with %d items, total %.2f", o.ID, o.BuyerID, len(o.Items), o.Total)
	return copyOrder(o), nil
}

func (s *JSONStore) GetOrderByID(id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, id)
	}
	return copyOrder(o), nil
}

func (s *JSONStore) UpdateStatus(id string, from, to domain.OrderStatus) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, id)
	}
	if o.Status != from {
		s.log.Warnf("Repository: stale status update for order %s: expected %s, found %s", id, from, o.Status)
		return nil, fmt.Errorf("%w: order %s is %s, not %s", domain.ErrInvalidTransition, id, o.Status, from)
	}
	prev := o
	o.Status = to
	o.UpdatedAt = time.Now()
	s.orders[id] = o
	if err := s.persist(); err != nil {
		s.orders[id] = prev
		return nil, err
	}

	s.log.Infof("Repository: order %s status updated from %s to %s", id, from, to)
	return copyOrder(o), nil
}

func (s *JSONStore) ListOrders() ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectOrders(func(domain.Order) bool { return true }), nil
}

func (s *JSONStore) ListOrdersByBuyer(buyerID string) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectOrders(func(o domain.Order) bool { return o.BuyerID == buyerID }), nil
}

func (s *JSONStore) ListOrdersBySeller(sellerID string) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectOrders(func(o domain.Order) bool { return o.ContainsSeller(sellerID) }), nil
}

func (s *JSONStore) collectOrders(keep func(domain.Order) bool) []domain.Order {
	orders := []domain.Order{}
	for _, o := range s.orders {
		if keep(o) {
			orders = append(orders, *copyOrder(o))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID < orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders
}

func (s *JSONStore) DeleteOrder(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.orders[id]
	if !ok {
		return fmt.Errorf("%w: order %s", domain.ErrNotFound, id)
	}
	prevComments := s.comments[id]
	delete(s.orders, id)
	delete(s.comments, id)
	if err := s.persist(); err != nil {
		s.orders[id] = prev
		if prevComments != nil {
			s.comments[id] = prevComments
		}
		return err
	}

	s.log.Infof("Repository: order %s deleted", id)
	return nil
}

func copyOrder(o domain.Order) *domain.Order {
	c := o
	c.Items = append([]domain.OrderItem(nil), o.Items...)
	return &c
}

// --- CommentRepository ---

func (s *JSONStore) AddComment(comment *domain.OrderComment) (*domain.OrderComment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *comment
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now()
	if !now.After(s.lastCommentAt) {
		now = s.lastCommentAt.Add(time.Microsecond)
	}
	c.CreatedAt = now

	s.comments[c.OrderID] = append(s.comments[c.OrderID], c)
	if err := s.persist(); err != nil {
		thread := s.comments[c.OrderID]
		s.comments[c.OrderID] = thread[:len(thread)-1]
		return nil, err
	}
	s.lastCommentAt = now

	s.log.Infof("Repository: comment %s added to order %s by %s", c.ID, c.OrderID, c.AuthorID)
	return &c, nil
}

func (s *JSONStore) ListCommentsByOrder(orderID string) ([]domain.OrderComment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	thread := append([]domain.OrderComment(nil), s.comments[orderID]...)
	sort.Slice(thread, func(i, j int) bool {
		return thread[i].CreatedAt.Before(thread[j].CreatedAt)
	})
	return thread, nil
}
