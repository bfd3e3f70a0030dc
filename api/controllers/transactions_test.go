package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/ardiansetya/kasirpoint-backend/internal/transactions"
	"github.com/ardiansetya/kasirpoint-backend/pkg/db/models"
)

type captureCheckoutService struct {
	mu     sync.Mutex
	inputs []transactions.CheckoutInput
}

func (s *captureCheckoutService) Checkout(_ context.Context, input transactions.CheckoutInput) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = append(s.inputs, input)
	return &models.Transaction{TransactionCode: "TXN-TEST0001"}, nil
}

func (s *captureCheckoutService) History(context.Context, transactions.HistoryFilter) ([]models.Transaction, int64, error) {
	panic("unimplemented")
}

func (s *captureCheckoutService) Get(context.Context, uuid.UUID, uuid.UUID) (*models.Transaction, error) {
	panic("unimplemented")
}

func (s *captureCheckoutService) captured() []transactions.CheckoutInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputs
}

func TestCheckoutSettlesOnlyTheCallersCart(t *testing.T) {
	store := newTestCartStore(t)
	buyerProduct := uuid.New()
	browserProduct := uuid.New()
	catalog := stubCatalog{products: map[uuid.UUID]*models.Product{
		buyerProduct:   {ID: buyerProduct, Name: "Nasi Goreng", Price: 15000, IsActive: true},
		browserProduct: {ID: browserProduct, Name: "Es Teh", Price: 4000, IsActive: true},
	}}

	buyer := uuid.New()
	browser := uuid.New()
	addItem := CartAddItem(store, catalog, nil)

	resp := httptest.NewRecorder()
	addItem(resp, authedRequest(http.MethodPost, "/cart/items", `{"product_id":"`+buyerProduct.String()+`"}`, buyer))
	if resp.Code != http.StatusOK {
		t.Fatalf("seed buyer cart: %d", resp.Code)
	}
	resp = httptest.NewRecorder()
	addItem(resp, authedRequest(http.MethodPost, "/cart/items", `{"product_id":"`+browserProduct.String()+`"}`, browser))
	if resp.Code != http.StatusOK {
		t.Fatalf("seed browser cart: %d", resp.Code)
	}

	// Another user's cart request between seeding and checkout must not
	// redirect whose lines get settled.
	resp = httptest.NewRecorder()
	CartGet(store, nil)(resp, authedRequest(http.MethodGet, "/cart", "", browser))
	if resp.Code != http.StatusOK {
		t.Fatalf("browser cart get: %d", resp.Code)
	}

	svc := &captureCheckoutService{}
	resp = httptest.NewRecorder()
	Checkout(svc, store, nil)(resp, authedRequest(http.MethodPost, "/checkout", `{"payment_method":"qris"}`, buyer))
	if resp.Code != http.StatusCreated {
		t.Fatalf("checkout: %d %s", resp.Code, resp.Body.String())
	}

	inputs := svc.captured()
	if len(inputs) != 1 {
		t.Fatalf("expected one checkout call, got %d", len(inputs))
	}
	if inputs[0].UserID != buyer {
		t.Fatalf("checkout ran as %s, want %s", inputs[0].UserID, buyer)
	}
	if len(inputs[0].Lines) != 1 || inputs[0].Lines[0].ProductID != buyerProduct {
		t.Fatalf("checkout settled foreign lines: %+v", inputs[0].Lines)
	}

	if got := len(store.For(buyer).Lines()); got != 0 {
		t.Fatalf("buyer's cart not cleared after checkout: %d lines", got)
	}
	if got := len(store.For(browser).Lines()); got != 1 {
		t.Fatalf("browser's cart wiped by someone else's checkout: %d lines", got)
	}
}
