// Package gateway оборачивает вызовы HTTP API бэкенда паст.
//
// Клиент не классифицирует ошибки: он лишь различает ответ с кодом вне 2xx
// (*ResponseError), отсутствие ответа (*NoResponseError) и прочие сбои.
// Классификация выполняется вызывающей стороной, см. пакет apierror.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/issafronov/pastelite/internal/app/models"
)

// ErrEmptyBaseURL возвращается, если адрес бэкенда не задан
var ErrEmptyBaseURL = errors.New("gateway: empty base URL")

// Client — клиент API бэкенда паст
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     resty.Logger
	resty      *resty.Client
}

// Option настраивает Client
type Option func(*Client)

// WithHTTPClient задаёт собственный http.Client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger подключает логгер к resty, например logger.Log.Sugar()
func WithLogger(l resty.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New создаёт клиент для бэкенда по адресу baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, ErrEmptyBaseURL
	}

	c := &Client{baseURL: strings.TrimSuffix(baseURL, "/")}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient != nil {
		c.resty = resty.NewWithClient(c.httpClient)
	} else {
		c.resty = resty.New()
	}
	if c.logger != nil {
		c.resty.SetLogger(c.logger)
	}
	c.resty.
		SetBaseURL(c.baseURL).
		SetHeader("Accept", "application/json")

	return c, nil
}

// BaseURL возвращает адрес бэкенда
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreatePaste отправляет POST {base}/pastes и возвращает id и url новой пасты
func (c *Client) CreatePaste(ctx context.Context, req models.PasteRequest) (*models.PasteCreationResult, error) {
	resp, err := c.resty.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/pastes")
	if err != nil {
		return nil, transportError(err)
	}
	if !resp.IsSuccess() {
		return nil, newResponseError(resp)
	}

	var result models.PasteCreationResult
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("decoding created paste: %w", err)
	}
	return &result, nil
}

// GetPaste отправляет GET {base}/pastes/{id}
func (c *Client) GetPaste(ctx context.Context, id string) (*models.PasteView, error) {
	resp, err := c.resty.R().
		SetContext(ctx).
		SetPathParam("id", id).
		Get("/pastes/{id}")
	if err != nil {
		return nil, transportError(err)
	}
	if !resp.IsSuccess() {
		return nil, newResponseError(resp)
	}

	var view models.PasteView
	if err := json.Unmarshal(resp.Body(), &view); err != nil {
		return nil, fmt.Errorf("decoding paste %s: %w", id, err)
	}
	return &view, nil
}

// transportError отделяет ошибки доставки запроса от ошибок его подготовки.
// net/http оборачивает все сбои Do в *url.Error.
func transportError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &NoResponseError{Err: err}
	}
	return fmt.Errorf("making request: %w", err)
}

func newResponseError(resp *resty.Response) *ResponseError {
	body := resp.Body()

	var payload models.ErrorResponse
	// тело ошибки необязательно и может быть не JSON
	_ = json.Unmarshal(body, &payload)

	return &ResponseError{
		StatusCode: resp.StatusCode(),
		Message:    payload.Message,
		Body:       body,
	}
}
