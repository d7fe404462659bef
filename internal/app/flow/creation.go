// Package flow содержит конечные автоматы жизненного цикла пасты на стороне клиента:
// создание пасты из формы (Creation) и просмотр пасты по идентификатору (Retrieval).
//
// Контроллеры снимают блокировку на время сетевого вызова и записи в буфер обмена.
// Каждый запрос получает номер поколения; если после возврата из вызова поколение
// сменилось (сброс, новый запрос, закрытие), результат отбрасывается.
package flow

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/issafronov/pastelite/internal/app/apierror"
	"github.com/issafronov/pastelite/internal/app/clipboard"
	"github.com/issafronov/pastelite/internal/app/models"
	"github.com/issafronov/pastelite/internal/middleware/logger"
)

// CreationState — состояние контроллера создания
type CreationState int

const (
	StateIdle CreationState = iota
	StateValidating
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s CreationState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Сообщения о копировании ссылки
const (
	MessageAutoCopied   = "Success! The shareable URL has been copied to your clipboard."
	MessageCopyManually = "Success! Paste created. You can copy the URL manually below."
	MessageCopied       = "URL copied to clipboard!"
	MessageCopyFailed   = "Error: Could not copy URL to clipboard."
)

var (
	// ErrBusy — предыдущая отправка ещё не завершилась
	ErrBusy = errors.New("flow: submission already in flight")
	// ErrStale — ответ пришёл после сброса или нового запроса и был отброшен
	ErrStale = errors.New("flow: stale response discarded")
	// ErrNoResult — копировать нечего, паста ещё не создана
	ErrNoResult = errors.New("flow: no paste to copy")
	// ErrEmptyResult — Creator не вернул ни результата, ни ошибки
	ErrEmptyResult = errors.New("flow: creator returned no result")
)

// Creator создаёт пасту на бэкенде
type Creator interface {
	CreatePaste(ctx context.Context, req models.PasteRequest) (*models.PasteCreationResult, error)
}

// CreationSnapshot — копия состояния контроллера создания для отрисовки
type CreationSnapshot struct {
	State  CreationState
	Form   Form
	Result *models.PasteCreationResult
	// ValidationErr — ошибка, найденная до обращения к сети
	ValidationErr *apierror.Error
	// RequestErr — классифицированная ошибка последнего запроса
	RequestErr *apierror.Error
	Offline    bool
	CopyStatus string
}

// Alert возвращает единственную ошибку для показа.
// Приоритет: недоступность бэкенда, затем валидация, затем ошибки сервера.
func (s CreationSnapshot) Alert() *apierror.Error {
	if s.Offline && s.RequestErr != nil {
		return s.RequestErr
	}
	if s.ValidationErr != nil {
		return s.ValidationErr
	}
	return s.RequestErr
}

// Creation — контроллер создания пасты. Один экземпляр на сессию браузера.
type Creation struct {
	creator Creator

	mu         sync.Mutex
	generation uint64
	snap       CreationSnapshot
}

// NewCreation создаёт контроллер в состоянии Idle
func NewCreation(creator Creator) *Creation {
	return &Creation{creator: creator}
}

// Snapshot возвращает текущее состояние
func (c *Creation) Snapshot() CreationSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Submit валидирует форму и создаёт пасту. После успешного создания ссылка
// автоматически копируется через cb; неудача копирования не делает операцию неуспешной.
//
// Пока предыдущая отправка не завершилась, Submit ничего не делает и возвращает ErrBusy.
// Если за время запроса контроллер был сброшен, результат отбрасывается с ErrStale.
func (c *Creation) Submit(ctx context.Context, form Form, cb clipboard.Clipboard) (CreationSnapshot, error) {
	c.mu.Lock()
	if c.snap.State == StateSubmitting {
		snap := c.snap
		c.mu.Unlock()
		return snap, ErrBusy
	}

	c.snap.Form = form
	c.snap.State = StateValidating
	req, err := form.Validate()
	if err != nil {
		// результат прошлой отправки не переживает неудачную попытку;
		// начатое копирование старой ссылки отбрасывается
		c.generation++
		c.snap.State = StateFailed
		c.snap.Result = nil
		c.snap.CopyStatus = ""
		c.snap.ValidationErr = apierror.Classify(err)
		snap := c.snap
		c.mu.Unlock()
		return snap, nil
	}

	c.generation++
	gen := c.generation
	c.snap = CreationSnapshot{State: StateSubmitting, Form: form}
	c.mu.Unlock()

	result, err := c.creator.CreatePaste(ctx, req)
	if err == nil && result == nil {
		err = ErrEmptyResult
	}

	c.mu.Lock()
	if gen != c.generation {
		snap := c.snap
		c.mu.Unlock()
		logger.Log.Debug("discarding stale create response", zap.Error(err))
		return snap, ErrStale
	}
	if err != nil {
		classified := apierror.Classify(err)
		c.snap.State = StateFailed
		c.snap.RequestErr = classified
		c.snap.Offline = classified.Kind == apierror.KindOffline
		snap := c.snap
		c.mu.Unlock()
		logger.Log.Warn("create paste failed",
			zap.Stringer("kind", classified.Kind),
			zap.Int("status", classified.Status),
			zap.Error(err),
		)
		return snap, nil
	}
	c.snap.State = StateSucceeded
	c.snap.Result = result
	c.mu.Unlock()

	copyErr := copyText(ctx, cb, result.URL)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return c.snap, ErrStale
	}
	if copyErr != nil {
		logger.Log.Info("auto copy failed", zap.String("url", result.URL), zap.Error(copyErr))
		c.snap.CopyStatus = MessageCopyManually
	} else {
		c.snap.CopyStatus = MessageAutoCopied
	}
	return c.snap, nil
}

// Copy копирует ссылку на созданную пасту. Меняет только статус копирования.
func (c *Creation) Copy(ctx context.Context, cb clipboard.Clipboard) (CreationSnapshot, error) {
	c.mu.Lock()
	if c.snap.Result == nil {
		snap := c.snap
		c.mu.Unlock()
		return snap, ErrNoResult
	}
	gen := c.generation
	url := c.snap.Result.URL
	c.mu.Unlock()

	err := copyText(ctx, cb, url)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return c.snap, ErrStale
	}
	if err != nil {
		logger.Log.Info("manual copy failed", zap.String("url", url), zap.Error(err))
		c.snap.CopyStatus = MessageCopyFailed
	} else {
		c.snap.CopyStatus = MessageCopied
	}
	return c.snap, nil
}

// Reset возвращает все поля в начальное состояние независимо от текущего.
// Ответы на запросы, начатые до сброса, будут отброшены.
func (c *Creation) Reset() CreationSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.snap = CreationSnapshot{}
	return c.snap
}

func copyText(ctx context.Context, cb clipboard.Clipboard, text string) error {
	if cb == nil {
		return clipboard.ErrUnavailable
	}
	return cb.Copy(ctx, text)
}
