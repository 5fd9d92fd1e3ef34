package toggl

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

	"toggl-entries/internal/domain"
)

func TestClient_Do(t *testing.T) {
	t.Run("sends auth and json body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
			assert.Equal(t, "toggl-entries", req.Header.Get("User-Agent"))
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Equal(t, "/api/v8/time_entries/start", req.URL.Path)
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

			u, p, ok := req.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "secret", u)
			assert.Equal(t, "api_token", p)

			b, _ := io.ReadAll(req.Body)
			assert.JSONEq(t, `{"a":1}`, string(b))
			_, _ = res.Write([]byte(`{"data":{"id":1}}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL+"/api/v8/", "secret", 0, nil)
		b, err := c.Do(context.Background(), http.MethodPost, "/time_entries/start", map[string]int{"a": 1})
		require.NoError(t, err)
		assert.JSONEq(t, `{"data":{"id":1}}`, string(b))
	})

	t.Run("no body means no content type", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
			assert.Empty(t, req.Header.Get("Content-Type"))
			b, _ := io.ReadAll(req.Body)
			assert.Empty(t, b)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "secret", 0, nil)
		_, err := c.Do(context.Background(), http.MethodPut, "/time_entries/3/stop", nil)
		require.NoError(t, err)
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
			res.WriteHeader(http.StatusInternalServerError)
			_, _ = res.Write([]byte("oops"))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "secret", 0, nil)
		_, err := c.Do(context.Background(), http.MethodGet, "/time_entries", nil)
		require.Error(t, err)

		var te *domain.TransportError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
		assert.Equal(t, "oops", te.Body)
		assert.False(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("not found", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
			res.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "secret", 0, nil)
		_, err := c.Do(context.Background(), http.MethodDelete, "/time_entries/9", nil)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("bad url", func(t *testing.T) {
		c := NewClient("UnknownUrl", "secret", 0, nil)
		_, err := c.Do(context.Background(), http.MethodGet, "/time_entries", nil)

		var te *domain.TransportError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, 0, te.StatusCode)
	})

	t.Run("missing token", func(t *testing.T) {
		c := NewClient("http://localhost", "", 0, nil)
		_, err := c.Do(context.Background(), http.MethodGet, "/time_entries", nil)
		var te *domain.TransportError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, 0, te.StatusCode)
		assert.ErrorIs(t, err, ErrMissingToken)
		assert.Equal(t, "toggl: GET http://localhost/time_entries: toggl: missing api token", err.Error())
	})
}

func TestClient_FetchWorkspaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/me", req.URL.Path)
		_ = json.NewEncoder(res).Encode(map[string]any{
			"since": 1,
			"data": map[string]any{
				"id":         7,
				"workspaces": []map[string]any{{"id": 1, "name": "Acme"}, {"id": 2, "name": "Side"}},
			},
		})
	}))
	defer srv.Close()

	ws, err := NewClient(srv.URL, "secret", 0, nil).FetchWorkspaces(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Workspace{{ID: 1, Name: "Acme"}, {ID: 2, Name: "Side"}}, ws)
}

func TestClient_FetchMe_MissingData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		_, _ = res.Write([]byte(`{"data":null}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "secret", 0, nil).FetchMe(context.Background())
	var de *domain.DeserializationError
	assert.True(t, errors.As(err, &de))
}

func TestClient_FetchProjects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		switch req.URL.Path {
		case "/workspaces/1/projects":
			_, _ = res.Write([]byte(`[{"id":10,"wid":1,"name":"Backend","active":true,"color":"5"}]`))
		case "/workspaces/2/projects":
			_, _ = res.Write([]byte(`null`))
		default:
			_, _ = res.Write([]byte(`{"not":"an array"}`))
		}
	}))
	defer srv.Close()
	c := NewClient(srv.URL, "secret", 0, nil)

	ps, err := c.FetchProjects(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []domain.Project{{ID: 10, WorkspaceID: 1, Name: "Backend", Active: true, Color: "5"}}, ps)

	ps, err = c.FetchProjects(context.Background(), 2)
	require.NoError(t, err)
	assert.Empty(t, ps)

	_, err = c.FetchProjects(context.Background(), 3)
	var de *domain.DeserializationError
	assert.True(t, errors.As(err, &de))
}
