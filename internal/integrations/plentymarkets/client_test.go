package plentymarkets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	conf "github.com/bartek5186/plentyexport/internal/config"
	"github.com/bartek5186/plentyexport/internal/errs"
	"github.com/bartek5186/plentyexport/internal/integrations"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := New(zerolog.Nop(), conf.SourceConfig{
		Type:           "plentymarkets",
		URL:            srv.URL,
		Username:       "rest",
		Password:       "secret",
		ItemsPerPage:   2,
		TimeoutSeconds: 5,
		Retry: conf.RetryConfig{
			MaxAttempts:       3,
			InitialBackoff:    0.001,
			BackoffMultiplier: 1,
			RetryableStatuses: []int{503},
		},
	})
	require.NoError(t, err)
	return c
}

func TestLogin(t *testing.T) {
	t.Run("StoresToken", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/rest/login":
				assert.Equal(t, http.MethodPost, r.Method)
				fmt.Fprint(w, `{"accessToken":"tok-1","tokenType":"Bearer"}`)
			case "/rest/items/units":
				assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
				fmt.Fprint(w, `{"entries":[]}`)
			}
		}))
		defer srv.Close()

		c := newTestClient(t, srv)
		require.NoError(t, c.Login(context.Background()))
		_, err := c.Get(context.Background(), "/rest/items/units", nil)
		require.NoError(t, err)
	})

	t.Run("RejectedIsAuthenticationError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		err := newTestClient(t, srv).Login(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrAuthentication))
		assert.True(t, errs.IsFatal(err))
	})

	t.Run("MissingToken", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{}`)
		}))
		defer srv.Close()

		err := newTestClient(t, srv).Login(context.Background())
		assert.True(t, errors.Is(err, errs.ErrAuthentication))
	})
}

func TestGet(t *testing.T) {
	t.Run("RetriesUnavailable", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			fmt.Fprint(w, `[{"id":1}]`)
		}))
		defer srv.Close()

		res, err := newTestClient(t, srv).Get(context.Background(), "/rest/webstores", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.Get("0.id").Int())
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("GivesUpAfterMaxAttempts", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv).Get(context.Background(), "/rest/vat", nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrHTTPResponse))
		assert.False(t, errs.IsFatal(err))
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("NotFoundIsNotRetried", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv).Get(context.Background(), "/rest/properties", nil)
		assert.True(t, errors.Is(err, errs.ErrHTTPResponse))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("UnauthorizedIsFatal", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv).Get(context.Background(), "/rest/items", nil)
		assert.True(t, errors.Is(err, errs.ErrAuthentication))
	})

	t.Run("Latin1Body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=ISO-8859-1")
			_, _ = w.Write([]byte("{\"name\":\"Gr\xf6\xdfe\"}"))
		}))
		defer srv.Close()

		res, err := newTestClient(t, srv).Get(context.Background(), "/rest/items/units", nil)
		require.NoError(t, err)
		assert.Equal(t, "Größe", res.Get("name").String())
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html>maintenance</html>`)
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv).Get(context.Background(), "/rest/items", nil)
		assert.True(t, errors.Is(err, errs.ErrHTTPResponse))
	})
	t.Run("SlowAttemptIsRetried", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
				return
			}
			fmt.Fprint(w, `{"ok":true}`)
		}))
		defer srv.Close()

		c := newTestClient(t, srv)
		assert.Zero(t, c.http.Timeout, "whole request with retries is bounded by ctx only")
		c.http = newHTTPClient(c.cfg.Retry, 50*time.Millisecond, zerolog.Nop())

		res, err := c.Get(context.Background(), "/rest/items/units", nil)
		require.NoError(t, err)
		assert.True(t, res.Get("ok").Bool())
		assert.Equal(t, int32(2), calls.Load())
	})
}

func TestPaginate(t *testing.T) {
	t.Run("StopsOnLastPage", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "2", r.URL.Query().Get("itemsPerPage"))
			assert.Equal(t, "texts", r.URL.Query().Get("with"))
			switch r.URL.Query().Get("page") {
			case "1":
				fmt.Fprint(w, `{"page":1,"isLastPage":false,"entries":[{"id":1},{"id":2}]}`)
			case "2":
				fmt.Fprint(w, `{"page":2,"isLastPage":true,"entries":[{"id":3}]}`)
			default:
				t.Errorf("unexpected page %s", r.URL.Query().Get("page"))
			}
		}))
		defer srv.Close()

		var ids []int64
		err := newTestClient(t, srv).Paginate(context.Background(), "/rest/items", url.Values{"with": {"texts"}}, func(page gjson.Result) error {
			for _, e := range page.Get("entries").Array() {
				ids = append(ids, e.Get("id").Int())
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2, 3}, ids)
	})

	t.Run("StopsOnEmptyEntries", func(t *testing.T) {
		var pages atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if pages.Add(1) == 1 {
				fmt.Fprint(w, `{"entries":[{"id":1}]}`)
				return
			}
			fmt.Fprint(w, `{"entries":[]}`)
		}))
		defer srv.Close()

		calls := 0
		err := newTestClient(t, srv).Paginate(context.Background(), "/rest/vat", nil, func(gjson.Result) error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Equal(t, int32(2), pages.Load())
	})

	t.Run("ArrayIsSinglePage", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[{"id":1},{"id":2}]`)
		}))
		defer srv.Close()

		calls := 0
		err := newTestClient(t, srv).Paginate(context.Background(), "/rest/webstores", nil, func(page gjson.Result) error {
			calls++
			assert.Len(t, page.Array(), 2)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("MissingEntries", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"foo":"bar"}`)
		}))
		defer srv.Close()

		err := newTestClient(t, srv).Paginate(context.Background(), "/rest/items", nil, func(gjson.Result) error { return nil })
		assert.True(t, errors.Is(err, errs.ErrPagination))
	})
}

func TestRegistered(t *testing.T) {
	f, ok := integrations.Get("plentymarkets")
	require.True(t, ok)
	src, err := f(zerolog.Nop(), conf.SourceConfig{URL: "https://shop.test"})
	require.NoError(t, err)
	assert.Equal(t, "plentymarkets", src.Name())
}
