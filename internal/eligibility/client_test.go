package eligibility

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientCheck(t *testing.T) {
	ctx := context.Background()

	serve := func(status int, body string) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		}))
	}

	t.Run("requests the digits-only path", func(t *testing.T) {
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			_, _ = w.Write([]byte(`{"valido":true}`))
		}))
		defer srv.Close()

		_, err := NewHTTPClient(srv.URL, 0).Check(ctx, "52998224725")
		require.NoError(t, err)
		assert.Equal(t, "/user/52998224725", gotPath)
	})

	t.Run("truthy flag means eligible", func(t *testing.T) {
		srv := serve(http.StatusOK, `{"cpf":"52998224725","valido":true}`)
		defer srv.Close()
		status, err := NewHTTPClient(srv.URL, 0).Check(ctx, "52998224725")
		require.NoError(t, err)
		assert.Equal(t, StatusEligible, status)
	})

	t.Run("falsy flag means ineligible", func(t *testing.T) {
		srv := serve(http.StatusOK, `{"valido":false}`)
		defer srv.Close()
		status, err := NewHTTPClient(srv.URL, 0).Check(ctx, "52998224725")
		require.NoError(t, err)
		assert.Equal(t, StatusIneligible, status)
	})

	t.Run("400 and 404 mean ineligible", func(t *testing.T) {
		for _, code := range []int{http.StatusBadRequest, http.StatusNotFound} {
			srv := serve(code, `{"valido":false}`)
			status, err := NewHTTPClient(srv.URL, 0).Check(ctx, "11111111111")
			srv.Close()
			require.NoError(t, err)
			assert.Equal(t, StatusIneligible, status, "status code %d", code)
		}
	})

	t.Run("unexpected status is a transient failure", func(t *testing.T) {
		srv := serve(http.StatusInternalServerError, "oops")
		defer srv.Close()
		_, err := NewHTTPClient(srv.URL, 0).Check(ctx, "52998224725")
		assert.ErrorIs(t, err, ErrRemote)
	})

	t.Run("undecodable body is a transient failure", func(t *testing.T) {
		srv := serve(http.StatusOK, "not json")
		defer srv.Close()
		_, err := NewHTTPClient(srv.URL, 0).Check(ctx, "52998224725")
		assert.ErrorIs(t, err, ErrRemote)
	})

	t.Run("timeout is a transient failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`{"valido":true}`))
		}))
		defer srv.Close()
		_, err := NewHTTPClient(srv.URL, 20*time.Millisecond).Check(ctx, "52998224725")
		assert.ErrorIs(t, err, ErrRemote)
	})

	t.Run("connection refused is a transient failure", func(t *testing.T) {
		srv := serve(http.StatusOK, "{}")
		srv.Close() // address is valid but nothing listens anymore
		_, err := NewHTTPClient(srv.URL, 0).Check(ctx, "52998224725")
		assert.ErrorIs(t, err, ErrRemote)
	})
}
