package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type echo struct {
	Name string `json:"name"`
}

func newTestServer(t *testing.T) *httptest.Server {
	router := mux.NewRouter()

	router.HandleFunc("/echo", func(rw http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(DEFAULT_SESSION_COOKIE)
		if err != nil || cookie.Value != "s3ss10n" {
			rw.WriteHeader(http.StatusUnauthorized)
			return
		}

		body := echo{}
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(rw).Encode(body)
	}).Methods(http.MethodPost)

	router.HandleFunc("/status/{code:[0-9]+}", func(rw http.ResponseWriter, r *http.Request) {
		switch mux.Vars(r)["code"] {
		case "404":
			rw.WriteHeader(http.StatusNotFound)
		case "400":
			rw.WriteHeader(http.StatusBadRequest)
			rw.Write([]byte(`{"message":"phone is required"}`))
		case "204":
			rw.WriteHeader(http.StatusNoContent)
		case "200":
			rw.Write([]byte(`<html>login</html>`))
		default:
			rw.WriteHeader(http.StatusBadGateway)
		}
	})

	return httptest.NewServer(router)
}

func TestClientDo(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer(t)
	defer ts.Close()

	client := NewClient(Config{BaseURL: ts.URL + "/", SessionCookie: "s3ss10n", Timeout: time.Second})

	t.Run("Should send session cookie & decode response", func(t *testing.T) {
		out := echo{}
		err := client.Do(ctx, http.MethodPost, "/echo", echo{Name: "mom"}, &out)
		assert.Nil(t, err)
		assert.Equal(t, "mom", out.Name)
	})

	t.Run("Should be unauthorized without session", func(t *testing.T) {
		err := NewClient(Config{BaseURL: ts.URL}).Do(ctx, http.MethodPost, "/echo", echo{}, nil)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	cases := []struct {
		path     string
		expected error
	}{
		{"/status/404", ErrNotFound},
		{"/status/400", ErrRejected},
		{"/status/502", ErrTransientNetwork},
	}

	for _, c := range cases {
		t.Run("Should map "+c.path, func(t *testing.T) {
			err := client.Do(ctx, http.MethodGet, c.path, nil, nil)
			assert.ErrorIs(t, err, c.expected)
		})
	}

	t.Run("Should include remote error message", func(t *testing.T) {
		err := client.Do(ctx, http.MethodGet, "/status/400", nil, nil)
		assert.Contains(t, err.Error(), "phone is required")
	})

	t.Run("Should treat non json success body as transient", func(t *testing.T) {
		out := echo{}
		err := client.Do(ctx, http.MethodGet, "/status/200", nil, &out)
		assert.ErrorIs(t, err, ErrTransientNetwork)
		assert.False(t, errors.Is(err, ErrRejected))

		remoteErr := &RemoteError{}
		assert.True(t, errors.As(err, &remoteErr))
		assert.Equal(t, http.StatusOK, remoteErr.StatusCode)
	})

	t.Run("Should accept empty response", func(t *testing.T) {
		out := echo{}
		assert.Nil(t, client.Do(ctx, http.MethodGet, "/status/204", nil, &out))
	})
}

func TestClientDoTransportError(t *testing.T) {
	ts := newTestServer(t)
	url := ts.URL
	ts.Close()

	err := NewClient(Config{BaseURL: url, Timeout: time.Second}).
		Do(context.Background(), http.MethodGet, "/echo", nil, nil)

	assert.ErrorIs(t, err, ErrTransientNetwork)

	remoteErr := &RemoteError{}
	assert.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, 0, remoteErr.StatusCode)
}
