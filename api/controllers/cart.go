package controllers

import (
	"net/http"

	"github.com/ardiansetya/kasirpoint-backend/api/middleware"
	"github.com/ardiansetya/kasirpoint-backend/api/responses"
	"github.com/ardiansetya/kasirpoint-backend/api/validators"
	"github.com/ardiansetya/kasirpoint-backend/internal/cart"
	"github.com/ardiansetya/kasirpoint-backend/internal/products"
	pkgerrors "github.com/ardiansetya/kasirpoint-backend/pkg/errors"
	"github.com/ardiansetya/kasirpoint-backend/pkg/logger"
	"github.com/google/uuid"
)

type cartView struct {
	Lines     []cart.Line `json:"lines"`
	ItemCount int         `json:"item_count"`
	Subtotal  int64       `json:"subtotal"`
}

type addCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

type setCartQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

func viewOf(c cart.UserCart) cartView {
	return cartView{
		Lines:     c.Lines(),
		ItemCount: c.ItemCount(),
		Subtotal:  c.Subtotal(),
	}
}

// cartFor returns a handle on the token subject's cart. Requests are
// stateless, so every cart call resolves its own handle; the store's active
// pointer is never shared across handlers.
func cartFor(store *cart.Store, r *http.Request) (cart.UserCart, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == uuid.Nil {
		return cart.UserCart{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return store.For(userID), nil
}

// CartGet returns the current user's lines and totals.
func CartGet(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userCart, err := cartFor(store, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOf(userCart))
	}
}

// CartAddItem adds one unit of a product, or bumps the existing line.
func CartAddItem(store *cart.Store, catalog products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userCart, err := cartFor(store, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := catalog.Get(r.Context(), body.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !product.IsActive {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "product is not for sale"))
			return
		}

		userCart.AddItem(r.Context(), cart.Product{
			ID:       product.ID,
			Name:     product.Name,
			Price:    product.Price,
			ImageURL: product.ImageURL,
		})
		responses.WriteSuccess(w, viewOf(userCart))
	}
}

// CartSetQuantity sets a line's quantity; zero removes the line.
func CartSetQuantity(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userCart, err := cartFor(store, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := pathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setCartQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userCart.SetQuantity(r.Context(), productID, body.Quantity)
		responses.WriteSuccess(w, viewOf(userCart))
	}
}

// CartRemoveItem drops a line entirely.
func CartRemoveItem(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userCart, err := cartFor(store, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := pathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userCart.RemoveItem(r.Context(), productID)
		responses.WriteSuccess(w, viewOf(userCart))
	}
}

// CartClear empties the current user's cart.
func CartClear(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userCart, err := cartFor(store, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userCart.Clear(r.Context())
		responses.WriteSuccess(w, viewOf(userCart))
	}
}
