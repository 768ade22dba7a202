package middleware

import (
	"net/http"
	"sync/atomic"

	"github.com/dom/shift-monitor/internal/api/respond"
)

// StoreGate rejects every request with 500 while the store is marked unreachable.
type StoreGate struct {
	ready atomic.Bool
}

func NewStoreGate(ready bool) *StoreGate {
	g := &StoreGate{}
	g.ready.Store(ready)
	return g
}

func (g *StoreGate) SetReady(ready bool) {
	g.ready.Store(ready)
}

func (g *StoreGate) Ready() bool {
	return g.ready.Load()
}

func (g *StoreGate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.ready.Load() {
			respond.Error(w, http.StatusInternalServerError, "Banco de dados indisponível")
			return
		}
		next.ServeHTTP(w, r)
	})
}
