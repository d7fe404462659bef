package handlers

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/issafronov/pastelite/internal/app/apierror"
	"github.com/issafronov/pastelite/internal/app/clipboard"
	"github.com/issafronov/pastelite/internal/app/config"
	"github.com/issafronov/pastelite/internal/app/flow"
	"github.com/issafronov/pastelite/internal/app/models"
	"github.com/issafronov/pastelite/internal/app/session"
	"github.com/issafronov/pastelite/internal/middleware/auth"
	"github.com/issafronov/pastelite/internal/middleware/logger"
)

// maxFormBytes ограничивает размер тела формы создания пасты
const maxFormBytes = 10 << 20

//go:embed templates/*.html
var templatesFS embed.FS

// Gateway объединяет операции бэкенда, нужные обоим сценариям
type Gateway interface {
	flow.Creator
	flow.Fetcher
}

// Handler содержит обработчики страниц создания и просмотра паст
type Handler struct {
	config   *config.Config
	gateway  Gateway
	sessions *session.Registry
	pages    *template.Template

	created atomic.Int64
	viewed  atomic.Int64
}

// NewHandler создаёт Handler и разбирает шаблоны страниц
func NewHandler(config *config.Config, gateway Gateway) (*Handler, error) {
	pages, err := template.New("pages").
		Funcs(template.FuncMap{"formatExpiry": formatExpiry}).
		ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Handler{
		config:   config,
		gateway:  gateway,
		sessions: session.NewRegistry(gateway, config.SessionIdleTTL),
		pages:    pages,
	}, nil
}

// Sessions возвращает реестр сессий
func (h *Handler) Sessions() *session.Registry {
	return h.sessions
}

type alertView struct {
	Class   string
	Title   string
	Message string
}

type createPage struct {
	Snapshot     flow.CreationSnapshot
	Alert        *alertView
	Submitting   bool
	// CopyText — ссылка, которую скрипт страницы должен скопировать в буфер обмена
	CopyText     string
	// CopyFallback заменяет статус копирования, если браузер отклонил запись
	CopyFallback string
}

type viewPage struct {
	ID                string
	Content           string
	HasRemainingViews bool
	RemainingViews    int
	ExpiresAt         string
}

type errorPage struct {
	Message string
}

// CreatePage отрисовывает форму создания или результат для текущей сессии
func (h *Handler) CreatePage(res http.ResponseWriter, req *http.Request) {
	creation, ok := h.creation(res, req)
	if !ok {
		return
	}
	h.renderCreate(res, http.StatusOK, creation.Snapshot(), "", "")
}

// SubmitPaste валидирует форму и создаёт пасту
func (h *Handler) SubmitPaste(res http.ResponseWriter, req *http.Request) {
	creation, ok := h.creation(res, req)
	if !ok {
		return
	}

	req.Body = http.MaxBytesReader(res, req.Body, maxFormBytes)
	if err := req.ParseForm(); err != nil {
		logger.Log.Info("SubmitPaste: bad form", zap.Error(err))
		http.Error(res, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	form := flow.Form{
		Content:    req.PostForm.Get("content"),
		TTLSeconds: req.PostForm.Get("ttl_seconds"),
		MaxViews:   req.PostForm.Get("max_views"),
	}
	cb := clipboard.NewPage(req)

	snap, err := creation.Submit(detach(req), form, cb)
	switch {
	case errors.Is(err, flow.ErrBusy):
		h.renderCreate(res, http.StatusConflict, snap, "", "")
		return
	case errors.Is(err, flow.ErrStale):
		http.Redirect(res, req, "/", http.StatusSeeOther)
		return
	case err != nil:
		logger.Log.Error("SubmitPaste: unexpected flow error", zap.Error(err))
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if snap.State == flow.StateSucceeded {
		h.created.Add(1)
		logger.Log.Info("paste created", zap.String("id", snap.Result.ID))
	}
	h.renderCreate(res, submitStatus(snap), snap, cb.Pending(), flow.MessageCopyManually)
}

// CopyURL копирует ссылку на созданную пасту
func (h *Handler) CopyURL(res http.ResponseWriter, req *http.Request) {
	creation, ok := h.creation(res, req)
	if !ok {
		return
	}

	cb := clipboard.NewPage(req)
	snap, err := creation.Copy(detach(req), cb)
	switch {
	case errors.Is(err, flow.ErrNoResult):
		h.renderCreate(res, http.StatusConflict, snap, "", "")
		return
	case errors.Is(err, flow.ErrStale):
		http.Redirect(res, req, "/", http.StatusSeeOther)
		return
	case err != nil:
		logger.Log.Error("CopyURL: unexpected flow error", zap.Error(err))
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.renderCreate(res, http.StatusOK, snap, cb.Pending(), flow.MessageCopyFailed)
}

// ResetForm сбрасывает состояние сессии и возвращает на форму
func (h *Handler) ResetForm(res http.ResponseWriter, req *http.Request) {
	creation, ok := h.creation(res, req)
	if !ok {
		return
	}
	creation.Reset()
	http.Redirect(res, req, "/", http.StatusSeeOther)
}

// ViewPaste загружает пасту по идентификатору из пути /p/{id}
func (h *Handler) ViewPaste(res http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")

	retrieval := flow.NewRetrieval(h.gateway)
	defer retrieval.Close()

	snap, err := retrieval.Load(detach(req), id)
	if err != nil {
		logger.Log.Error("ViewPaste: unexpected flow error", zap.String("id", id), zap.Error(err))
		h.render(res, http.StatusInternalServerError, "error", errorPage{Message: apierror.UnexpectedMessage})
		return
	}

	switch snap.State {
	case flow.RetrievalFound:
		h.viewed.Add(1)
		h.render(res, http.StatusOK, "view", newViewPage(snap))
	case flow.RetrievalNotFound:
		h.NotFoundPage(res, req)
	case flow.RetrievalErrored:
		h.render(res, http.StatusBadGateway, "error", errorPage{Message: snap.Message})
	default:
		h.render(res, http.StatusInternalServerError, "error", errorPage{Message: apierror.UnexpectedMessage})
	}
}

// NotFoundPage отрисовывает общую страницу 404
func (h *Handler) NotFoundPage(res http.ResponseWriter, req *http.Request) {
	h.render(res, http.StatusNotFound, "notfound", nil)
}

// Stats возвращает счётчики сессий и паст
func (h *Handler) Stats(res http.ResponseWriter, req *http.Request) {
	stats := models.Stats{
		Sessions:      h.sessions.Len(),
		PastesCreated: h.created.Load(),
		PastesViewed:  h.viewed.Load(),
	}
	res.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(res).Encode(stats); err != nil {
		logger.Log.Error("Stats: failed to encode response", zap.Error(err))
	}
}

func (h *Handler) creation(res http.ResponseWriter, req *http.Request) (*flow.Creation, bool) {
	sessionID, ok := auth.SessionID(req.Context())
	if !ok {
		logger.Log.Error("request without session", zap.String("uri", req.RequestURI))
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return nil, false
	}
	return h.sessions.Creation(sessionID), true
}

func (h *Handler) renderCreate(res http.ResponseWriter, status int, snap flow.CreationSnapshot, copyText, copyFallback string) {
	h.render(res, status, "create", createPage{
		Snapshot:     snap,
		Alert:        newAlertView(snap.Alert()),
		Submitting:   snap.State == flow.StateSubmitting,
		CopyText:     copyText,
		CopyFallback: copyFallback,
	})
}

// render сначала выполняет шаблон в буфер, чтобы ошибка шаблона не оставила полстраницы
func (h *Handler) render(res http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := h.pages.ExecuteTemplate(&buf, name, data); err != nil {
		logger.Log.Error("failed to render page", zap.String("page", name), zap.Error(err))
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	res.Header().Set("Content-Type", "text/html; charset=utf-8")
	res.WriteHeader(status)
	if _, err := res.Write(buf.Bytes()); err != nil {
		logger.Log.Debug("failed to write page", zap.String("page", name), zap.Error(err))
	}
}

func submitStatus(snap flow.CreationSnapshot) int {
	if snap.State == flow.StateSucceeded {
		return http.StatusCreated
	}
	alert := snap.Alert()
	if alert == nil {
		return http.StatusOK
	}
	switch alert.Kind {
	case apierror.KindValidation:
		return http.StatusUnprocessableEntity
	case apierror.KindServer:
		return http.StatusBadGateway
	case apierror.KindOffline:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func newAlertView(err *apierror.Error) *alertView {
	if err == nil {
		return nil
	}
	view := &alertView{Class: err.Kind.String(), Message: err.Message}
	if err.Kind == apierror.KindOffline {
		view.Title = "Backend Unreachable"
	}
	return view
}

func newViewPage(snap flow.RetrievalSnapshot) viewPage {
	page := viewPage{ID: snap.ID, Content: snap.Paste.Content}
	if snap.Paste.RemainingViews != nil {
		page.HasRemainingViews = true
		page.RemainingViews = *snap.Paste.RemainingViews
	}
	if snap.Paste.ExpiresAt != nil {
		page.ExpiresAt = *snap.Paste.ExpiresAt
	}
	return page
}

// formatExpiry переводит ISO-8601 время в локальное; неразборчивое значение выводится как есть
func formatExpiry(value string) string {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return value
	}
	return t.Local().Format("Jan 2, 2006, 3:04:05 PM MST")
}

// detach отвязывает вызов бэкенда от отмены запроса: начатый запрос нельзя прервать
func detach(req *http.Request) context.Context {
	return context.WithoutCancel(req.Context())
}
