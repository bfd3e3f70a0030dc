package reports

import (
	"fmt"
	"sync"

	"github.com/ardiansetya/kasirpoint-backend/pkg/logger"
	"github.com/google/uuid"
)

// Service hands out one report engine per authenticated user so concurrent
// cashiers never share pagination state.
type Service struct {
	repo     Repository
	logg     *logger.Logger
	pageSize int

	mu      sync.Mutex
	engines map[uuid.UUID]*Engine
}

// NewService builds the per-user engine registry.
func NewService(repository Repository, pageSize int, logg *logger.Logger) (*Service, error) {
	if repository == nil {
		return nil, fmt.Errorf("report repository required")
	}
	if pageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive")
	}
	return &Service{
		repo:     repository,
		logg:     logg,
		pageSize: pageSize,
		engines:  map[uuid.UUID]*Engine{},
	}, nil
}

// EngineFor returns the user's engine, creating it on first use.
func (s *Service) EngineFor(userID uuid.UUID) *Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	if engine, ok := s.engines[userID]; ok {
		return engine
	}
	engine, err := NewEngine(s.repo, s.pageSize, s.logg)
	if err != nil {
		// Constructor args were validated in NewService.
		panic(err)
	}
	s.engines[userID] = engine
	return engine
}
