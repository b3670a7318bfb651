package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := New(server.URL, server.Client())
	require.NoError(t, err)
	return c, server
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestListProducts(t *testing.T) {
	var gotQuery map[string]string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/products", r.URL.Path)
		gotQuery = map[string]string{
			"category": r.URL.Query().Get("category"),
			"search":   r.URL.Query().Get("search"),
			"page":     r.URL.Query().Get("page"),
			"limit":    r.URL.Query().Get("limit"),
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"products": []map[string]interface{}{
				{"_id": "p1", "name": "PLAIN BLACK SHIRT", "price": 250.0, "image": "/images/x.png", "category": "shirts"},
			},
			"page": 2, "pages": 3, "total": 12,
		})
	}))

	page, err := c.ListProducts(context.Background(), "shirts", "black", "", 2, 5)
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "PLAIN BLACK SHIRT", page.Products[0].Name)
	assert.EqualValues(t, 2, page.Page)
	assert.EqualValues(t, 3, page.Pages)
	assert.EqualValues(t, 12, page.Total)

	assert.Equal(t, "shirts", gotQuery["category"])
	assert.Equal(t, "black", gotQuery["search"])
	assert.Equal(t, "2", gotQuery["page"])
	assert.Equal(t, "5", gotQuery["limit"])
}

func TestDoDecodesErrorBody(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Product not found"})
	}))

	_, err := c.ListProducts(context.Background(), "", "", "", 0, 0)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Product not found", apiErr.Message)
}

func TestDoFallsBackOnUnreadableErrorBody(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("not json"))
	}))

	_, err := c.ListProducts(context.Background(), "", "", "", 0, 0)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Server Error", apiErr.Message)
}

func TestAuthStoreLogin(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds["password"] != "hunter22" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid username or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"_id": "u1", "username": creds["username"], "isAdmin": true, "token": "tok-1",
		})
	}))

	notify := NewNotificationStore()
	auth := NewAuthStore(c, notify)

	require.NoError(t, auth.Login(context.Background(), "admin", "hunter22"))
	assert.True(t, auth.IsLoggedIn())
	assert.True(t, auth.IsAdmin())
	assert.Equal(t, "tok-1", auth.Token())
	require.NotNil(t, auth.CurrentUser())
	assert.Equal(t, "admin", auth.CurrentUser().Username)

	n := notify.Current()
	require.NotNil(t, n)
	assert.Equal(t, LevelInfo, n.Level)
	assert.Contains(t, n.Message, "admin")
}

func TestAuthStoreLoginFailure(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid username or password"})
	}))

	notify := NewNotificationStore()
	auth := NewAuthStore(c, notify)

	err := auth.Login(context.Background(), "ghost", "wrong")
	require.Error(t, err)
	assert.False(t, auth.IsLoggedIn())
	assert.Nil(t, auth.CurrentUser())

	n := notify.Current()
	require.NotNil(t, n)
	assert.Equal(t, LevelError, n.Level)
}

func TestAuthStoreLogoutDropsStateOnFailure(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"_id": "u1", "username": "shopper", "isAdmin": false, "token": "tok-1",
			})
		default:
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Already logged out"})
		}
	}))

	auth := NewAuthStore(c, NewNotificationStore())
	require.NoError(t, auth.Login(context.Background(), "shopper", "pw"))

	auth.Logout(context.Background())
	assert.False(t, auth.IsLoggedIn())
	assert.Nil(t, auth.CurrentUser())
}

func TestNotificationReplacesPrevious(t *testing.T) {
	notify := NewNotificationStore()
	notify.Show("first", LevelInfo)
	notify.Show("second", LevelError)

	n := notify.Current()
	require.NotNil(t, n)
	assert.Equal(t, "second", n.Message)
	assert.Equal(t, LevelError, n.Level)

	notify.Clear()
	assert.Nil(t, notify.Current())
}
