package cart

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/google/uuid"
)

type stubSnapshotter struct {
	mu      sync.Mutex
	table   map[uuid.UUID][]Line
	loadErr error
	saveErr error
	saves   int
}

func newStubSnapshotter() *stubSnapshotter {
	return &stubSnapshotter{table: map[uuid.UUID][]Line{}}
}

func (s *stubSnapshotter) Load(ctx context.Context) (map[uuid.UUID][]Line, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[uuid.UUID][]Line, len(s.table))
	for k, v := range s.table {
		lines := make([]Line, len(v))
		copy(lines, v)
		out[k] = lines
	}
	return out, nil
}

func (s *stubSnapshotter) Save(ctx context.Context, userID uuid.UUID, lines []Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.table[userID] = lines
	return nil
}

func newTestStore(t *testing.T, snap Snapshotter) *Store {
	t.Helper()
	store, err := NewStore(snap, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	store.syncSave = true
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return store
}

func product(id uuid.UUID, name string, price int64) Product {
	return Product{ID: id, Name: name, Price: price}
}

func TestStoreTotals(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, newStubSnapshotter())
	user := uuid.New()
	store.SetActiveUser(user)

	p1 := uuid.New()
	p2 := uuid.New()
	store.AddItem(context.Background(), product(p1, "Kopi Susu", 10000))
	store.AddItem(context.Background(), product(p1, "Kopi Susu", 10000))
	store.AddItem(context.Background(), product(p2, "Roti Bakar", 5000))

	if got := store.Subtotal(); got != 25000 {
		t.Fatalf("subtotal = %d, want 25000", got)
	}
	if got := store.ItemCount(); got != 3 {
		t.Fatalf("item count = %d, want 3", got)
	}
	if got := len(store.Lines()); got != 2 {
		t.Fatalf("line count = %d, want 2", got)
	}
}

func TestStoreAddBeforeLoginIsNoop(t *testing.T) {
	t.Parallel()

	snap := newStubSnapshotter()
	store := newTestStore(t, snap)

	store.AddItem(context.Background(), product(uuid.New(), "Teh Manis", 3000))

	if got := len(store.Lines()); got != 0 {
		t.Fatalf("expected empty cart without active user, got %d lines", got)
	}
	if snap.saves != 0 {
		t.Fatalf("expected no persistence writes, got %d", snap.saves)
	}
}

func TestStoreUserIsolation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, newStubSnapshotter())
	alice := uuid.New()
	bob := uuid.New()
	p := uuid.New()

	store.SetActiveUser(alice)
	store.AddItem(context.Background(), product(p, "Nasi Goreng", 15000))
	aliceLines := store.Lines()

	store.SetActiveUser(bob)
	if got := len(store.Lines()); got != 0 {
		t.Fatalf("bob's cart should start empty, got %d lines", got)
	}
	store.AddItem(context.Background(), product(uuid.New(), "Es Jeruk", 4000))
	store.AddItem(context.Background(), product(uuid.New(), "Mie Ayam", 12000))

	store.SetActiveUser(alice)
	if !reflect.DeepEqual(store.Lines(), aliceLines) {
		t.Fatalf("alice's cart changed across user switch: %+v", store.Lines())
	}
}

func TestUserCartHandlesIgnoreActivePointer(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, newStubSnapshotter())
	alice := uuid.New()
	bob := uuid.New()
	p := uuid.New()

	aliceCart := store.For(alice)
	aliceCart.AddItem(context.Background(), product(p, "Nasi Goreng", 15000))

	// Another session repointing the active user must not redirect the handle.
	store.SetActiveUser(bob)
	aliceCart.AddItem(context.Background(), product(p, "Nasi Goreng", 15000))

	lines := aliceCart.Lines()
	if len(lines) != 1 || lines[0].Quantity != 2 {
		t.Fatalf("handle followed the active pointer: %+v", lines)
	}
	if got := len(store.Lines()); got != 0 {
		t.Fatalf("handle writes leaked into bob's cart: %d lines", got)
	}

	aliceCart.Clear(context.Background())
	if got := len(aliceCart.Lines()); got != 0 {
		t.Fatalf("handle clear missed its own cart: %d lines", got)
	}
}

func TestUserCartZeroValueIsInert(t *testing.T) {
	t.Parallel()

	var c UserCart
	c.AddItem(context.Background(), product(uuid.New(), "Kopi", 8000))
	if got := len(c.Lines()); got != 0 {
		t.Fatalf("zero-value handle accepted a mutation: %d lines", got)
	}
	if c.ItemCount() != 0 || c.Subtotal() != 0 {
		t.Fatal("zero-value handle reported non-empty totals")
	}
}

func TestStoreClearActiveUserKeepsLines(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, newStubSnapshotter())
	user := uuid.New()
	store.SetActiveUser(user)
	store.AddItem(context.Background(), product(uuid.New(), "Ayam Geprek", 18000))

	store.ClearActiveUser()
	if got := len(store.Lines()); got != 0 {
		t.Fatalf("deactivated view should be empty, got %d lines", got)
	}

	store.SetActiveUser(user)
	if got := len(store.Lines()); got != 1 {
		t.Fatalf("cart should survive logout/login, got %d lines", got)
	}
}

func TestSetQuantityZeroMatchesRemove(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p1 := uuid.New()
	p2 := uuid.New()

	build := func() *Store {
		store := newTestStore(t, newStubSnapshotter())
		store.SetActiveUser(uuid.New())
		store.AddItem(ctx, product(p1, "Kopi", 8000))
		store.AddItem(ctx, product(p2, "Donat", 6000))
		return store
	}

	removed := build()
	removed.RemoveItem(ctx, p1)

	zeroed := build()
	zeroed.SetQuantity(ctx, p1, 0)

	if !reflect.DeepEqual(removed.Lines(), zeroed.Lines()) {
		t.Fatalf("SetQuantity(0) and RemoveItem diverged: %+v vs %+v", zeroed.Lines(), removed.Lines())
	}
}

func TestSetQuantitySetsExactValue(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t, newStubSnapshotter())
	store.SetActiveUser(uuid.New())

	p := uuid.New()
	store.AddItem(ctx, product(p, "Kerupuk", 2000))
	store.SetQuantity(ctx, p, 7)
	store.SetQuantity(ctx, p, 7)

	lines := store.Lines()
	if len(lines) != 1 || lines[0].Quantity != 7 {
		t.Fatalf("unexpected lines after SetQuantity: %+v", lines)
	}
	if got := store.Subtotal(); got != 14000 {
		t.Fatalf("subtotal = %d, want 14000", got)
	}
}

func TestStoreMutationSurvivesSaveFailure(t *testing.T) {
	t.Parallel()

	snap := newStubSnapshotter()
	snap.saveErr = errors.New("disk full")
	store := newTestStore(t, snap)
	store.SetActiveUser(uuid.New())

	store.AddItem(context.Background(), product(uuid.New(), "Bakso", 20000))

	// The in-memory mutation lands even when persistence fails.
	if got := len(store.Lines()); got != 1 {
		t.Fatalf("expected 1 line after failed save, got %d", got)
	}
}

func TestStoreLoadHydratesSnapshots(t *testing.T) {
	t.Parallel()

	snap := newStubSnapshotter()
	user := uuid.New()
	snap.table[user] = []Line{{ProductID: uuid.New(), Name: "Sate", UnitPrice: 25000, Quantity: 2}}

	store := newTestStore(t, snap)
	store.SetActiveUser(user)

	if got := store.Subtotal(); got != 50000 {
		t.Fatalf("subtotal after reload = %d, want 50000", got)
	}
}

func TestStoreRejectsOpsBeforeLoad(t *testing.T) {
	t.Parallel()

	store, err := NewStore(newStubSnapshotter(), nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	store.syncSave = true

	store.SetActiveUser(uuid.New())
	store.AddItem(context.Background(), product(uuid.New(), "Gorengan", 1000))

	if got := len(store.Lines()); got != 0 {
		t.Fatalf("operations before Load must be dropped, got %d lines", got)
	}
}
