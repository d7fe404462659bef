// Package session хранит контроллеры создания паст по идентификатору сессии браузера.
// Хранилище живёт только в памяти процесса: содержимое паст не сохраняется.
package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/issafronov/pastelite/internal/app/flow"
	"github.com/issafronov/pastelite/internal/middleware/logger"
)

type entry struct {
	creation *flow.Creation
	lastSeen time.Time
}

// Registry — реестр контроллеров создания
type Registry struct {
	creator flow.Creator
	idleTTL time.Duration
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

// NewRegistry создаёт реестр. Сессии, к которым не обращались дольше idleTTL,
// удаляются при вызове Sweep.
func NewRegistry(creator flow.Creator, idleTTL time.Duration) *Registry {
	return &Registry{
		creator: creator,
		idleTTL: idleTTL,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// Creation возвращает контроллер сессии id, создавая его при первом обращении
func (r *Registry) Creation(id string) *flow.Creation {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		e = &entry{creation: flow.NewCreation(r.creator)}
		r.entries[id] = e
		logger.Log.Debug("session started", zap.String("session", id))
	}
	e.lastSeen = r.now()
	return e.creation
}

// Len возвращает количество активных сессий
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep удаляет простаивающие сессии и возвращает их количество
func (r *Registry) Sweep() int {
	if r.idleTTL <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	deadline := r.now().Add(-r.idleTTL)
	removed := 0
	for id, e := range r.entries {
		if e.lastSeen.Before(deadline) {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}
