package flow

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/issafronov/pastelite/internal/app/apierror"
	"github.com/issafronov/pastelite/internal/app/gateway"
	"github.com/issafronov/pastelite/internal/app/models"
	"github.com/issafronov/pastelite/internal/middleware/logger"
)

// RetrievalState — состояние контроллера просмотра
type RetrievalState int

const (
	RetrievalLoading RetrievalState = iota
	RetrievalFound
	RetrievalNotFound
	RetrievalErrored
)

func (s RetrievalState) String() string {
	switch s {
	case RetrievalLoading:
		return "loading"
	case RetrievalFound:
		return "found"
	case RetrievalNotFound:
		return "not_found"
	case RetrievalErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// ErrClosed — контроллер просмотра уже закрыт
var ErrClosed = errors.New("flow: retrieval closed")

// Fetcher получает пасту по идентификатору
type Fetcher interface {
	GetPaste(ctx context.Context, id string) (*models.PasteView, error)
}

// RetrievalSnapshot — копия состояния контроллера просмотра
type RetrievalSnapshot struct {
	State RetrievalState
	ID    string
	Paste *models.PasteView
	// Message — текст ошибки для состояния RetrievalErrored
	Message string
}

// Retrieval — контроллер просмотра пасты. Результаты не кешируются:
// каждый Load начинает автомат заново с RetrievalLoading.
type Retrieval struct {
	fetcher Fetcher

	mu         sync.Mutex
	generation uint64
	closed     bool
	snap       RetrievalSnapshot
}

// NewRetrieval создаёт контроллер в состоянии RetrievalLoading
func NewRetrieval(fetcher Fetcher) *Retrieval {
	return &Retrieval{fetcher: fetcher}
}

// Snapshot возвращает текущее состояние
func (r *Retrieval) Snapshot() RetrievalSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}

// Load загружает пасту id. Ответ, пришедший после нового Load или Close, отбрасывается.
func (r *Retrieval) Load(ctx context.Context, id string) (RetrievalSnapshot, error) {
	r.mu.Lock()
	if r.closed {
		snap := r.snap
		r.mu.Unlock()
		return snap, ErrClosed
	}
	r.generation++
	gen := r.generation
	r.snap = RetrievalSnapshot{State: RetrievalLoading, ID: id}
	r.mu.Unlock()

	paste, err := r.fetcher.GetPaste(ctx, id)

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.generation {
		logger.Log.Debug("discarding stale paste response", zap.String("id", id))
		return r.snap, ErrStale
	}

	switch {
	case err == nil:
		r.snap.State = RetrievalFound
		r.snap.Paste = paste
	case gateway.IsNotFound(err):
		r.snap.State = RetrievalNotFound
	default:
		r.snap.State = RetrievalErrored
		r.snap.Message = apierror.Describe(err)
		logger.Log.Warn("get paste failed", zap.String("id", id), zap.Error(err))
	}
	return r.snap, nil
}

// Close отмечает контроллер закрытым; незавершённый Load будет отброшен
func (r *Retrieval) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.generation++
}
