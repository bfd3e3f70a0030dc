package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ardiansetya/kasirpoint-backend/pkg/logger"
	"github.com/google/uuid"
)

// Line is one product entry in a user's cart.
type Line struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice int64     `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	ImageURL  *string   `json:"image_url,omitempty"`
}

// Product carries the fields AddItem needs to open a new line.
type Product struct {
	ID       uuid.UUID
	Name     string
	Price    int64
	ImageURL *string
}

// Snapshotter persists per-user cart lines so carts survive restarts.
type Snapshotter interface {
	Load(ctx context.Context) (map[uuid.UUID][]Line, error)
	Save(ctx context.Context, userID uuid.UUID, lines []Line) error
}

// Store owns the per-user cart table. Carts are isolated by user id: switching
// the active user never merges or drops another user's lines. Mutations with
// no active user are silent no-ops so add actions fired before login never
// error out.
type Store struct {
	snap Snapshotter
	logg *logger.Logger

	mu     sync.Mutex
	carts  map[uuid.UUID][]Line
	active uuid.UUID
	loaded bool

	saveTimeout time.Duration
	// synchronous persistence for tests; production saves are fire-and-forget
	syncSave bool
}

// NewStore builds a cart store backed by the provided snapshotter.
func NewStore(snap Snapshotter, logg *logger.Logger) (*Store, error) {
	if snap == nil {
		return nil, fmt.Errorf("cart snapshotter required")
	}
	return &Store{
		snap:        snap,
		logg:        logg,
		carts:       map[uuid.UUID][]Line{},
		saveTimeout: 5 * time.Second,
	}, nil
}

// Load hydrates the cart table from durable storage. It must complete before
// any cart operation is accepted; operations called earlier are dropped.
func (s *Store) Load(ctx context.Context) error {
	table, err := s.snap.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading cart snapshots: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if table != nil {
		s.carts = table
	}
	s.loaded = true
	return nil
}

// SetActiveUser switches the active cart, creating an empty entry on first
// login. Repeated calls with the same id are no-ops.
func (s *Store) SetActiveUser(userID uuid.UUID) {
	if userID == uuid.Nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded || s.active == userID {
		return
	}
	s.active = userID
	if _, ok := s.carts[userID]; !ok {
		s.carts[userID] = []Line{}
	}
}

// ClearActiveUser deactivates the cart view without deleting stored lines.
// The user's cart is still there on the next login.
func (s *Store) ClearActiveUser() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = uuid.Nil
}

// ActiveUser returns the currently active user id, or uuid.Nil.
func (s *Store) ActiveUser() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// AddItem increments the quantity of an existing line for the product, or
// appends a new line with quantity 1. Silent no-op without an active user.
func (s *Store) AddItem(ctx context.Context, product Product) {
	s.mutate(ctx, addLine(product))
}

// RemoveItem deletes the line for the product if present.
func (s *Store) RemoveItem(ctx context.Context, productID uuid.UUID) {
	s.mutate(ctx, dropLine(productID))
}

// SetQuantity sets the line's quantity exactly. A quantity below 1 removes
// the line, matching RemoveItem.
func (s *Store) SetQuantity(ctx context.Context, productID uuid.UUID, quantity int) {
	if quantity < 1 {
		s.RemoveItem(ctx, productID)
		return
	}
	s.mutate(ctx, setLineQuantity(productID, quantity))
}

// Clear empties the active cart's line list (used after checkout).
func (s *Store) Clear(ctx context.Context) {
	s.mutate(ctx, clearLines)
}

// Lines returns a copy of the active user's line sequence in add order, or an
// empty slice when no user is active.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.linesLocked(s.active)
}

// ItemCount sums quantities across the active cart's lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemCountLocked(s.active)
}

// Subtotal sums unit price times quantity across the active cart's lines.
// Prices are whole rupiah so int64 arithmetic is exact.
func (s *Store) Subtotal() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subtotalLocked(s.active)
}

// For returns a handle scoped to one user's cart. HTTP handlers hold a
// request-scoped handle keyed by the token subject, so concurrent requests
// from different users never contend over the active pointer.
func (s *Store) For(userID uuid.UUID) UserCart {
	return UserCart{store: s, userID: userID}
}

// UserCart is a view of a single user's rows in the store. The zero value is
// inert: every operation on it is a no-op returning empty results.
type UserCart struct {
	store  *Store
	userID uuid.UUID
}

// UserID reports which user the handle is scoped to.
func (c UserCart) UserID() uuid.UUID { return c.userID }

// AddItem increments the quantity of an existing line, or opens a new one.
func (c UserCart) AddItem(ctx context.Context, product Product) {
	if c.store == nil {
		return
	}
	c.store.mutateUser(ctx, c.userID, addLine(product))
}

// RemoveItem deletes the line for the product if present.
func (c UserCart) RemoveItem(ctx context.Context, productID uuid.UUID) {
	if c.store == nil {
		return
	}
	c.store.mutateUser(ctx, c.userID, dropLine(productID))
}

// SetQuantity sets the line's quantity exactly; below 1 removes the line.
func (c UserCart) SetQuantity(ctx context.Context, productID uuid.UUID, quantity int) {
	if quantity < 1 {
		c.RemoveItem(ctx, productID)
		return
	}
	if c.store == nil {
		return
	}
	c.store.mutateUser(ctx, c.userID, setLineQuantity(productID, quantity))
}

// Clear empties the user's cart.
func (c UserCart) Clear(ctx context.Context) {
	if c.store == nil {
		return
	}
	c.store.mutateUser(ctx, c.userID, clearLines)
}

// Lines returns a copy of the user's line sequence in add order.
func (c UserCart) Lines() []Line {
	if c.store == nil {
		return []Line{}
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	return c.store.linesLocked(c.userID)
}

// ItemCount sums quantities across the user's lines.
func (c UserCart) ItemCount() int {
	if c.store == nil {
		return 0
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	return c.store.itemCountLocked(c.userID)
}

// Subtotal sums unit price times quantity across the user's lines.
func (c UserCart) Subtotal() int64 {
	if c.store == nil {
		return 0
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	return c.store.subtotalLocked(c.userID)
}

func addLine(product Product) func([]Line) []Line {
	return func(lines []Line) []Line {
		for i := range lines {
			if lines[i].ProductID == product.ID {
				lines[i].Quantity++
				return lines
			}
		}
		return append(lines, Line{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  1,
			ImageURL:  product.ImageURL,
		})
	}
}

func dropLine(productID uuid.UUID) func([]Line) []Line {
	return func(lines []Line) []Line {
		out := lines[:0]
		for _, line := range lines {
			if line.ProductID != productID {
				out = append(out, line)
			}
		}
		return out
	}
}

func setLineQuantity(productID uuid.UUID, quantity int) func([]Line) []Line {
	return func(lines []Line) []Line {
		for i := range lines {
			if lines[i].ProductID == productID {
				lines[i].Quantity = quantity
			}
		}
		return lines
	}
}

func clearLines([]Line) []Line {
	return []Line{}
}

func (s *Store) linesLocked(userID uuid.UUID) []Line {
	if userID == uuid.Nil {
		return []Line{}
	}
	lines := s.carts[userID]
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}

func (s *Store) itemCountLocked(userID uuid.UUID) int {
	if userID == uuid.Nil {
		return 0
	}
	var total int
	for _, line := range s.carts[userID] {
		total += line.Quantity
	}
	return total
}

func (s *Store) subtotalLocked(userID uuid.UUID) int64 {
	if userID == uuid.Nil {
		return 0
	}
	var total int64
	for _, line := range s.carts[userID] {
		total += line.UnitPrice * int64(line.Quantity)
	}
	return total
}

// mutate applies fn to the active cart.
func (s *Store) mutate(ctx context.Context, fn func([]Line) []Line) {
	s.mu.Lock()
	userID := s.active
	snapshot, ok := s.applyLocked(userID, fn)
	s.mu.Unlock()
	if ok {
		s.scheduleSave(ctx, userID, snapshot)
	}
}

// mutateUser applies fn to the given user's cart regardless of the active
// pointer.
func (s *Store) mutateUser(ctx context.Context, userID uuid.UUID, fn func([]Line) []Line) {
	s.mu.Lock()
	snapshot, ok := s.applyLocked(userID, fn)
	s.mu.Unlock()
	if ok {
		s.scheduleSave(ctx, userID, snapshot)
	}
}

// applyLocked mutates the user's lines and returns a copy for persistence.
// The state update is visible as soon as the lock is released.
func (s *Store) applyLocked(userID uuid.UUID, fn func([]Line) []Line) ([]Line, bool) {
	if !s.loaded || userID == uuid.Nil {
		return nil, false
	}
	s.carts[userID] = fn(s.carts[userID])

	snapshot := make([]Line, len(s.carts[userID]))
	copy(snapshot, s.carts[userID])
	return snapshot, true
}

// scheduleSave writes the mutated user's lines; the write is not awaited.
func (s *Store) scheduleSave(ctx context.Context, userID uuid.UUID, lines []Line) {
	if s.syncSave {
		s.persist(ctx, userID, lines)
		return
	}
	go s.persist(context.WithoutCancel(ctx), userID, lines)
}

func (s *Store) persist(ctx context.Context, userID uuid.UUID, lines []Line) {
	ctx, cancel := context.WithTimeout(ctx, s.saveTimeout)
	defer cancel()
	if err := s.snap.Save(ctx, userID, lines); err != nil && s.logg != nil {
		s.logg.Error(s.logg.WithUserID(ctx, userID.String()), "cart snapshot save failed", err)
	}
}
