package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/issafronov/pastelite/internal/app/gateway"
	"github.com/issafronov/pastelite/internal/app/models"
)

func intPtr(v int) *int { return &v }

func TestNew_EmptyBaseURL(t *testing.T) {
	_, err := gateway.New("  ")
	assert.ErrorIs(t, err, gateway.ErrEmptyBaseURL)
}

func TestCreatePaste(t *testing.T) {
	tests := []struct {
		name     string
		request  models.PasteRequest
		wantBody string
	}{
		{
			name:     "content_only",
			request:  models.PasteRequest{Content: "hello"},
			wantBody: `{"content":"hello"}`,
		},
		{
			name:     "with_limits",
			request:  models.PasteRequest{Content: "hello", TTLSeconds: intPtr(60), MaxViews: intPtr(3)},
			wantBody: `{"content":"hello","ttl_seconds":60,"max_views":3}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/pastes", r.URL.Path)
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				assert.JSONEq(t, tt.wantBody, string(body))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{"id":"abc","url":"http://front/p/abc"}`))
			}))
			defer srv.Close()

			c, err := gateway.New(srv.URL)
			require.NoError(t, err)

			res, err := c.CreatePaste(context.Background(), tt.request)
			require.NoError(t, err)
			assert.Equal(t, "abc", res.ID)
			assert.Equal(t, "http://front/p/abc", res.URL)
		})
	}
}

func TestCreatePaste_ResponseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{Message: "boom"})
	}))
	defer srv.Close()

	c, err := gateway.New(srv.URL + "/")
	require.NoError(t, err)

	_, err = c.CreatePaste(context.Background(), models.PasteRequest{Content: "x"})
	require.Error(t, err)

	var respErr *gateway.ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, http.StatusInternalServerError, respErr.StatusCode)
	assert.Equal(t, "boom", respErr.Message)
	assert.Equal(t, "request failed with status code 500", respErr.Error())
}

func TestCreatePaste_PlainTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := gateway.New(srv.URL)
	require.NoError(t, err)

	_, err = c.CreatePaste(context.Background(), models.PasteRequest{Content: "x"})

	var respErr *gateway.ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, http.StatusBadGateway, respErr.StatusCode)
	assert.Empty(t, respErr.Message)
}

func TestCreatePaste_NoResponse(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c, err := gateway.New(addr)
	require.NoError(t, err)

	_, err = c.CreatePaste(context.Background(), models.PasteRequest{Content: "x"})
	require.Error(t, err)
	assert.True(t, gateway.IsNoResponse(err))
	assert.False(t, gateway.IsNotFound(err))
}

func TestCreatePaste_UndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c, err := gateway.New(srv.URL)
	require.NoError(t, err)

	_, err = c.CreatePaste(context.Background(), models.PasteRequest{Content: "x"})
	require.Error(t, err)

	var respErr *gateway.ResponseError
	assert.False(t, errors.As(err, &respErr))
	assert.False(t, gateway.IsNoResponse(err))
}

func TestGetPaste(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		switch r.URL.Path {
		case "/pastes/abc":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"content":"hi","remaining_views":0,"expires_at":null}`))
		default:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"paste not found"}`))
		}
	}))
	defer srv.Close()

	c, err := gateway.New(srv.URL)
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		view, err := c.GetPaste(context.Background(), "abc")
		require.NoError(t, err)
		assert.Equal(t, "hi", view.Content)
		require.NotNil(t, view.RemainingViews)
		assert.Equal(t, 0, *view.RemainingViews)
		assert.Nil(t, view.ExpiresAt)
	})

	t.Run("not_found", func(t *testing.T) {
		_, err := c.GetPaste(context.Background(), "missing")
		require.Error(t, err)
		assert.True(t, gateway.IsNotFound(err))
	})
}

func TestGetPaste_EscapesID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pastes/a%2Fb", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"content":"x","remaining_views":null,"expires_at":null}`))
	}))
	defer srv.Close()

	c, err := gateway.New(srv.URL)
	require.NoError(t, err)

	_, err = c.GetPaste(context.Background(), "a/b")
	require.NoError(t, err)
}
