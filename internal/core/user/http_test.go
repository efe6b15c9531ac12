package user_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/filmorate/internal/core/user"
)

func newRouter() http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := user.NewService(user.NewMemoryRepository(), logger, user.WithClock(func() time.Time { return today }))

	router := chi.NewRouter()
	router.Mount("/users", user.NewHandler(service).Routes())
	return router
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(method, path, reader))
	return recorder
}

/*
TestHandler_CreateAndGet verifies the create response shape and name defaulting.
*/
func TestHandler_CreateAndGet(t *testing.T) {
	router := newRouter()

	created := do(t, router, http.MethodPost, "/users",
		`{"login":"dolore","name":"","email":"mail@mail.ru","birthday":"1946-08-20"}`)
	require.Equal(t, http.StatusCreated, created.Code)

	var body user.User
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.ID)
	assert.Equal(t, "dolore", body.Name)
	assert.Equal(t, "1946-08-20", body.Birthday.String())
	assert.Contains(t, created.Body.String(), `"friends":[]`)

	fetched := do(t, router, http.MethodGet, "/users/1", "")
	assert.Equal(t, http.StatusOK, fetched.Code)
	assert.JSONEq(t, created.Body.String(), fetched.Body.String())
}

func TestHandler_Errors(t *testing.T) {
	router := newRouter()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"invalid_json", http.MethodPost, "/users", `{"login":`, http.StatusBadRequest},
		{"invalid_email", http.MethodPost, "/users", `{"login":"x","email":"nope"}`, http.StatusBadRequest},
		{"unknown_user", http.MethodGet, "/users/77", "", http.StatusNotFound},
		{"malformed_id", http.MethodGet, "/users/abc", "", http.StatusBadRequest},
		{"negative_id", http.MethodGet, "/users/-1", "", http.StatusBadRequest},
		{"update_unknown", http.MethodPut, "/users", `{"id":77,"login":"x","email":"x@y.z"}`, http.StatusNotFound},
		{"friend_unknown", http.MethodPut, "/users/1/friends/2", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := do(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, recorder.Code)
			assert.Contains(t, recorder.Body.String(), `"error"`)
		})
	}
}

/*
TestHandler_FriendsFlow walks add, list, common and remove over HTTP.
*/
func TestHandler_FriendsFlow(t *testing.T) {
	router := newRouter()

	for _, login := range []string{"one", "two", "three"} {
		recorder := do(t, router, http.MethodPost, "/users", `{"login":"`+login+`","email":"`+login+`@example.com"}`)
		require.Equal(t, http.StatusCreated, recorder.Code)
	}

	assert.Equal(t, http.StatusNoContent, do(t, router, http.MethodPut, "/users/1/friends/3", "").Code)
	assert.Equal(t, http.StatusNoContent, do(t, router, http.MethodPut, "/users/2/friends/3", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPut, "/users/1/friends/1", "").Code)

	friends := do(t, router, http.MethodGet, "/users/1/friends", "")
	require.Equal(t, http.StatusOK, friends.Code)
	var list []user.User
	require.NoError(t, json.Unmarshal(friends.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, int64(3), list[0].ID)

	reverse := do(t, router, http.MethodGet, "/users/3/friends", "")
	assert.JSONEq(t, `[]`, reverse.Body.String())

	common := do(t, router, http.MethodGet, "/users/1/friends/common/2", "")
	require.Equal(t, http.StatusOK, common.Code)
	require.NoError(t, json.Unmarshal(common.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "three", list[0].Login)

	assert.Equal(t, http.StatusNoContent, do(t, router, http.MethodDelete, "/users/1/friends/3", "").Code)
	assert.JSONEq(t, `[]`, do(t, router, http.MethodGet, "/users/1/friends/common/2", "").Body.String())
}
