package reports

import (
	"context"
	"fmt"
	"sync"

	"github.com/ardiansetya/kasirpoint-backend/pkg/db/models"
	pkgerrors "github.com/ardiansetya/kasirpoint-backend/pkg/errors"
	"github.com/ardiansetya/kasirpoint-backend/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// ErrSuperseded signals that a search finished after a newer search had
// already been issued; its result was dropped instead of overwriting the
// newer one.
var ErrSuperseded = pkgerrors.New(pkgerrors.CodeConflict, "search superseded by a newer request")

// SessionState is the accumulated result of one search plus any load-more
// pages appended to it.
type SessionState struct {
	// gen records which search published this state; load-more pages carry
	// it so a page fetched against a replaced session is never appended.
	gen uint64

	Filter       Filter               `json:"-"`
	Transactions []models.Transaction `json:"transactions"`
	Page         int                  `json:"page"`
	PageSize     int                  `json:"page_size"`
	HasMore      bool                 `json:"has_more"`
	TotalCount   int64                `json:"total_count"`
	TotalAmount  int64                `json:"total_amount"`
}

// Totals summarizes a session. TotalCount and TotalAmount cover the full
// matching set; LoadedItemCount only counts quantities across loaded pages.
type Totals struct {
	TotalCount      int64 `json:"total_count"`
	TotalAmount     int64 `json:"total_amount"`
	LoadedItemCount int   `json:"loaded_item_count"`
}

// Engine turns a validated filter into one paged query plus one unwindowed
// aggregate query, and supports cursor-less load-more pagination over the
// result. The page and aggregate queries are fired concurrently and the
// combined state is published atomically once both resolve; on any failure
// the previous state stays intact.
type Engine struct {
	repo     Repository
	logg     *logger.Logger
	pageSize int

	mu          sync.Mutex
	generation  uint64
	loadingMore bool
	state       *SessionState
}

// NewEngine builds an engine with the given page size.
func NewEngine(repository Repository, pageSize int, logg *logger.Logger) (*Engine, error) {
	if repository == nil {
		return nil, fmt.Errorf("report repository required")
	}
	if pageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive")
	}
	return &Engine{
		repo:     repository,
		logg:     logg,
		pageSize: pageSize,
	}, nil
}

// Search validates the filter, resets pagination to page one, and runs the
// page query and the aggregate query concurrently. Each call takes a
// monotonic generation; a slow search that resolves after a newer one was
// issued does not publish and returns ErrSuperseded.
func (e *Engine) Search(ctx context.Context, filter Filter) (*SessionState, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	var (
		rows  []models.Transaction
		count int64
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, count, err = e.repo.FetchPage(gctx, filter, 1, e.pageSize)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = e.repo.TotalAmount(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "report query failed")
	}

	fetched := len(rows)
	rows = narrowByProductName(rows, filter.ProductName)

	state := &SessionState{
		gen:          gen,
		Filter:       filter,
		Transactions: rows,
		Page:         1,
		PageSize:     e.pageSize,
		HasMore:      fetched == e.pageSize && int64(len(rows)) < count,
		TotalCount:   count,
		TotalAmount:  total,
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.generation {
		if e.logg != nil {
			e.logg.Warn(ctx, "dropping stale report search result")
		}
		return nil, ErrSuperseded
	}
	e.state = state
	e.loadingMore = false
	return snapshot(state), nil
}

// LoadMore fetches the next page with the session's filter and appends it.
// It is a no-op while another load is in flight, when there is nothing more
// to load, or when the accumulated rows already cover the total count. A page
// that comes back empty forces HasMore false, defending against drift between
// the count query and the page query.
func (e *Engine) LoadMore(ctx context.Context) (*SessionState, error) {
	e.mu.Lock()
	if e.state == nil || e.loadingMore || !e.state.HasMore ||
		int64(len(e.state.Transactions)) >= e.state.TotalCount {
		state := snapshot(e.state)
		e.mu.Unlock()
		return state, nil
	}
	e.loadingMore = true
	filter := e.state.Filter
	nextPage := e.state.Page + 1
	gen := e.state.gen
	e.mu.Unlock()

	rows, _, err := e.repo.FetchPage(ctx, filter, nextPage, e.pageSize)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil || gen != e.state.gen {
		// A newer search replaced the session while this page was in flight.
		// The in-flight guard now belongs to that session, so leave it alone.
		return snapshot(e.state), nil
	}
	e.loadingMore = false

	if err != nil {
		return snapshot(e.state), pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load more failed")
	}

	rows = narrowByProductName(rows, filter.ProductName)
	if len(rows) == 0 {
		e.state.HasMore = false
		return snapshot(e.state), nil
	}

	e.state.Transactions = append(e.state.Transactions, rows...)
	e.state.Page = nextPage
	e.state.HasMore = int64(len(e.state.Transactions)) < e.state.TotalCount
	return snapshot(e.state), nil
}

// Totals summarizes the current session.
func (e *Engine) Totals() Totals {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return Totals{}
	}
	var items int
	for _, tx := range e.state.Transactions {
		for _, item := range tx.Items {
			items += item.Quantity
		}
	}
	return Totals{
		TotalCount:      e.state.TotalCount,
		TotalAmount:     e.state.TotalAmount,
		LoadedItemCount: items,
	}
}

// State returns a copy of the current session state, or nil before the first
// successful search.
func (e *Engine) State() *SessionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot(e.state)
}

func snapshot(state *SessionState) *SessionState {
	if state == nil {
		return nil
	}
	out := *state
	out.Transactions = make([]models.Transaction, len(state.Transactions))
	copy(out.Transactions, state.Transactions)
	return &out
}
