package restclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sucursal/listByEmpresa/1", r.URL.Path)
		require.Equal(t, "req-1", r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`[{"id":3,"nombre":"Centro"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", time.Second, nil)
	var out []struct {
		ID     int64  `json:"id"`
		Nombre string `json:"nombre"`
	}
	err := c.GetJSON(WithRequestID(context.Background(), "req-1"), "/sucursal/listByEmpresa/1", &out)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "Centro", out[0].Nombre)
}

func TestPostJSONStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))
		http.Error(w, "sin stock", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, nil)
	err := c.PostJSON(context.Background(), "/pedido", map[string]any{"total": 10}, nil)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusUnprocessableEntity, se.StatusCode)
	require.Equal(t, "sin stock", se.Body)
	require.True(t, IsStatus(err, http.StatusBadRequest, http.StatusUnprocessableEntity))
	require.False(t, IsStatus(err, http.StatusNotFound))
}

func TestPostForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "ana@example.com", r.FormValue("email"))
		require.Equal(t, "secret", r.FormValue("contrasenia"))
		_, _ = w.Write([]byte(`{"id":7}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, nil)
	var out struct {
		ID int64 `json:"id"`
	}
	err := c.PostForm(context.Background(), "/cliente/login", map[string]string{
		"email":       "ana@example.com",
		"contrasenia": "secret",
	}, &out)
	require.NoError(t, err)
	require.Equal(t, int64(7), out.ID)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(url, time.Second, nil)
	err := c.GetJSON(context.Background(), "/cliente/1", nil)
	require.ErrorIs(t, err, ErrTransport)
}
