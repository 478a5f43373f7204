package handler

import (
	"github.com/ShawrmaM8/BarakahBoost/internal/service"
	"github.com/ShawrmaM8/BarakahBoost/internal/store"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	store    *store.Store
	engine   *service.ScoreEngine
	insights *service.InsightService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(s *store.Store, weights service.WeightConfig) *API {
	engine := service.NewScoreEngine(weights)

	return &API{
		store:    s,
		engine:   engine,
		insights: service.NewInsightService(engine),
	}
}

// Store exposes the underlying habit store for test seeding.
func (a *API) Store() *store.Store {
	return a.store
}
