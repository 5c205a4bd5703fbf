package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/ErlanBelekov/item-tracker/internal/infrastructure/memory"
	"github.com/ErlanBelekov/item-tracker/internal/transport/http/handler"
	"github.com/ErlanBelekov/item-tracker/internal/transport/http/middleware"
	"github.com/ErlanBelekov/item-tracker/internal/usecase"
	"github.com/gin-gonic/gin"
)

type itemJSON struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	CreatedBy     int64   `json:"createdBy"`
	CreatedByName string  `json:"createdByName"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     *string `json:"updatedAt"`
}

type itemEnv struct {
	engine *gin.Engine
	alice  int64
	bob    int64
}

// newItemEnv wires the item handler to a real usecase over the in-memory
// store. X-Test-User stands in for the Auth middleware.
func newItemEnv(t *testing.T) *itemEnv {
	t.Helper()
	ctx := context.Background()

	users := memory.NewUserRepository()
	alice, err := users.Create(ctx, "alice@example.com", "hash", "Alice")
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	bob, err := users.Create(ctx, "bob@example.com", "hash", "Bob")
	if err != nil {
		t.Fatalf("create bob: %v", err)
	}

	h := handler.NewItemHandler(usecase.NewItemUsecase(memory.NewItemRepository(users)), discard)

	r := gin.New()
	items := r.Group("/items", func(c *gin.Context) {
		if id, err := strconv.ParseInt(c.GetHeader("X-Test-User"), 10, 64); err == nil {
			c.Set(middleware.UserIDKey, id)
		}
		c.Next()
	})
	items.GET("", h.List)
	items.POST("", h.Create)
	items.GET("/:id", h.GetByID)
	items.PUT("/:id", h.Update)
	items.DELETE("/:id", h.Delete)

	return &itemEnv{engine: r, alice: alice.ID, bob: bob.ID}
}

func (e *itemEnv) do(t *testing.T, user int64, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if user != 0 {
		req.Header.Set("X-Test-User", strconv.FormatInt(user, 10))
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decodeItem(t *testing.T, w *httptest.ResponseRecorder) itemJSON {
	t.Helper()
	var it itemJSON
	if err := json.Unmarshal(w.Body.Bytes(), &it); err != nil {
		t.Fatalf("decode item: %v (%s)", err, w.Body.String())
	}
	return it
}

func TestItems_NoUser_Returns401(t *testing.T) {
	env := newItemEnv(t)
	if w := env.do(t, 0, http.MethodGet, "/items", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestItems_CreateReturns201WithLocation(t *testing.T) {
	env := newItemEnv(t)

	w := env.do(t, env.alice, http.MethodPost, "/items", `{"name":"Book"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", w.Code, w.Body.String())
	}
	it := decodeItem(t, w)
	if got := w.Header().Get("Location"); got != "/items/"+strconv.FormatInt(it.ID, 10) {
		t.Errorf("Location = %q", got)
	}
	if it.Name != "Book" || it.Description != "" {
		t.Errorf("unexpected item %+v", it)
	}
	if it.CreatedBy != env.alice || it.CreatedByName != "Alice" {
		t.Errorf("owner = %d/%q, want %d/Alice", it.CreatedBy, it.CreatedByName, env.alice)
	}
	if it.UpdatedAt != nil {
		t.Errorf("updatedAt = %v, want null", *it.UpdatedAt)
	}
}

func TestItems_CreateValidation_Returns400(t *testing.T) {
	env := newItemEnv(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"description":"x"}`},
		{"name too long", `{"name":"` + strings.Repeat("a", 201) + `"}`},
		{"description too long", `{"name":"ok","description":"` + strings.Repeat("d", 1001) + `"}`},
		{"blank name", `{"name":"   "}`},
		{"malformed", `{"name":`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if w := env.do(t, env.alice, http.MethodPost, "/items", tc.body); w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (%s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestItems_UpdateRoundTrip(t *testing.T) {
	env := newItemEnv(t)
	created := decodeItem(t, env.do(t, env.alice, http.MethodPost, "/items", `{"name":"Book","description":"old"}`))
	path := "/items/" + strconv.FormatInt(created.ID, 10)

	w := env.do(t, env.alice, http.MethodPut, path, `{"name":"Notebook","description":"new"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}

	got := decodeItem(t, env.do(t, env.alice, http.MethodGet, path, ""))
	if got.Name != "Notebook" || got.Description != "new" {
		t.Errorf("unexpected item %+v", got)
	}
	if got.UpdatedAt == nil {
		t.Error("updatedAt should be set after update")
	}
	if got.CreatedAt != created.CreatedAt {
		t.Errorf("createdAt changed: %s -> %s", created.CreatedAt, got.CreatedAt)
	}
}

func TestItems_OtherUserLooksLikeMissing(t *testing.T) {
	env := newItemEnv(t)
	created := decodeItem(t, env.do(t, env.alice, http.MethodPost, "/items", `{"name":"Book"}`))
	path := "/items/" + strconv.FormatInt(created.ID, 10)
	missing := "/items/999"

	cases := []struct {
		method string
		body   string
	}{
		{http.MethodGet, ""},
		{http.MethodPut, `{"name":"Stolen"}`},
		{http.MethodDelete, ""},
	}
	for _, tc := range cases {
		t.Run(tc.method, func(t *testing.T) {
			foreign := env.do(t, env.bob, tc.method, path, tc.body)
			absent := env.do(t, env.bob, tc.method, missing, tc.body)

			if foreign.Code != http.StatusNotFound || absent.Code != http.StatusNotFound {
				t.Fatalf("status foreign=%d absent=%d, want 404/404", foreign.Code, absent.Code)
			}
			if foreign.Body.String() != absent.Body.String() {
				t.Errorf("bodies differ: %q vs %q", foreign.Body.String(), absent.Body.String())
			}
		})
	}

	// Alice still sees her untouched item.
	got := decodeItem(t, env.do(t, env.alice, http.MethodGet, path, ""))
	if got.Name != "Book" {
		t.Errorf("name = %q, want Book", got.Name)
	}
}

func TestItems_ListScopedToCaller(t *testing.T) {
	env := newItemEnv(t)
	env.do(t, env.alice, http.MethodPost, "/items", `{"name":"a1"}`)
	env.do(t, env.alice, http.MethodPost, "/items", `{"name":"a2"}`)
	env.do(t, env.bob, http.MethodPost, "/items", `{"name":"b1"}`)

	w := env.do(t, env.alice, http.MethodGet, "/items", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var items []itemJSON
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	for _, it := range items {
		if it.CreatedBy != env.alice {
			t.Errorf("foreign item in list: %+v", it)
		}
	}
}

func TestItems_EmptyListIsArray(t *testing.T) {
	env := newItemEnv(t)
	w := env.do(t, env.bob, http.MethodGet, "/items", "")
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("body = %q, want []", w.Body.String())
	}
}

func TestItems_NonNumericID_Returns404(t *testing.T) {
	env := newItemEnv(t)
	if w := env.do(t, env.alice, http.MethodGet, "/items/abc", ""); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestItems_DeleteThenGet(t *testing.T) {
	env := newItemEnv(t)
	created := decodeItem(t, env.do(t, env.alice, http.MethodPost, "/items", `{"name":"Book"}`))
	path := "/items/" + strconv.FormatInt(created.ID, 10)

	if w := env.do(t, env.alice, http.MethodDelete, path, ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", w.Code)
	}
	if w := env.do(t, env.alice, http.MethodGet, path, ""); w.Code != http.StatusNotFound {
		t.Errorf("get status = %d, want 404", w.Code)
	}
	if w := env.do(t, env.alice, http.MethodDelete, path, ""); w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}
