package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/storefront/internal/account"
	"github.com/yungbote/storefront/internal/api"
	"github.com/yungbote/storefront/internal/cart"
	"github.com/yungbote/storefront/internal/catalog"
	httpH "github.com/yungbote/storefront/internal/http/handlers"
	"github.com/yungbote/storefront/internal/notify"
	"github.com/yungbote/storefront/internal/orders"
	"github.com/yungbote/storefront/internal/realtime"
	"github.com/yungbote/storefront/internal/store"
)

type fixture struct {
	router    *gin.Engine
	engine    *cart.Engine
	recorder  *notify.Recorder
	userPosts atomic.Int32
	orderBody atomic.Value
}

func fakeAPI(f *fixture) http.Handler {
	mux := http.NewServeMux()
	products := map[string]string{
		"1": `{"id":1,"name":"Linen Shirt","description":"Breathable summer shirt","price":25.5,"category":"shirts","stock_quantity":1,"created_at":"2024-05-01T10:00:00"}`,
		"2": `{"id":2,"name":"Canvas Cap","description":"Cotton cap","price":12,"category":"hats","stock_quantity":3,"created_at":"2024-05-01T10:00:00"}`,
	}
	mux.HandleFunc("GET /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		body, ok := products[r.PathValue("id")]
		w.Header().Set("Content-Type", "application/json")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"detail":"Product not found"}`)
			return
		}
		_, _ = io.WriteString(w, body)
	})
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, "["+products["1"]+","+products["2"]+"]")
	})
	mux.HandleFunc("POST /api/orders/", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		f.orderBody.Store(string(raw))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":7,"user_id":1,"items":[{"product_id":2,"quantity":2}],"total_amount":24,"status":"pending","created_at":"2024-05-01T10:00:00"}`)
	})
	mux.HandleFunc("GET /api/orders/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	})
	mux.HandleFunc("POST /api/users/", func(w http.ResponseWriter, r *http.Request) {
		f.userPosts.Add(1)
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		w.Header().Set("Content-Type", "application/json")
		if in["email"] == "taken@example.com" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"detail":"Email already registered"}`)
			return
		}
		_, _ = io.WriteString(w, `{"id":3,"email":"`+in["email"]+`","first_name":"Ada","last_name":"Lovelace","created_at":"2024-05-01T10:00:00"}`)
	})
	return mux
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{recorder: &notify.Recorder{}}
	srv := httptest.NewServer(fakeAPI(f))
	t.Cleanup(srv.Close)

	ac, err := api.New(api.Options{BaseURL: srv.URL + "/api", Timeout: 2 * time.Second, Backoff: time.Millisecond})
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	st := store.NewAdapter(store.NewMemory(), "shop.test", nil)
	cat := catalog.New(ac, nil)
	f.engine = cart.New(cat, st, nil)
	f.engine.Initialize(context.Background())
	n := notify.New(nil, f.recorder)

	f.router = NewRouter(RouterConfig{
		HealthHandler:  httpH.NewHealthHandler(f.engine),
		ProductHandler: httpH.NewProductHandler(cat, n),
		CartHandler:    httpH.NewCartHandler(f.engine, n),
		OrderHandler:   httpH.NewOrderHandler(orders.New(ac, f.engine, 1, nil), n),
		AccountHandler: httpH.NewAccountHandler(account.New(ac, st, nil), n),
	})
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	out := map[string]any{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code, out
}

func errCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func noteMessage(body map[string]any) string {
	n, _ := body["notification"].(map[string]any)
	msg, _ := n["message"].(string)
	return msg
}

func cartQuantity(body map[string]any) float64 {
	c, _ := body["cart"].(map[string]any)
	s, _ := c["summary"].(map[string]any)
	q, _ := s["total_quantity"].(float64)
	return q
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("health: %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("request id header missing")
	}
}

func TestProducts(t *testing.T) {
	f := newFixture(t)

	code, body := f.do(t, http.MethodGet, "/api/products?q=CAP", "")
	if code != http.StatusOK {
		t.Fatalf("list: %d %v", code, body)
	}
	list, _ := body["products"].([]any)
	if len(list) != 1 {
		t.Fatalf("want 1 match, got %v", body["products"])
	}

	code, body = f.do(t, http.MethodGet, "/api/products/99", "")
	if code != http.StatusNotFound || errCode(body) != "NOT_FOUND" || noteMessage(body) != "Product not found" {
		t.Fatalf("missing: %d %v", code, body)
	}

	code, body = f.do(t, http.MethodGet, "/api/products/abc", "")
	if code != http.StatusBadRequest || errCode(body) != "INVALID_INPUT" {
		t.Fatalf("bad id: %d %v", code, body)
	}

	code, body = f.do(t, http.MethodGet, "/api/products?sort=random", "")
	if code != http.StatusBadRequest || errCode(body) != "INVALID_INPUT" {
		t.Fatalf("bad sort: %d %v", code, body)
	}
}

func TestCartFlow(t *testing.T) {
	f := newFixture(t)

	code, body := f.do(t, http.MethodPost, "/api/cart/items", `{"product_id":1}`)
	if code != http.StatusOK || cartQuantity(body) != 1 || noteMessage(body) != "Added to cart" {
		t.Fatalf("add: %d %v", code, body)
	}

	// Product 1 has a single unit in stock.
	code, body = f.do(t, http.MethodPost, "/api/cart/items", `{"product_id":1}`)
	if code != http.StatusConflict || errCode(body) != "OUT_OF_STOCK" || noteMessage(body) != "Only 1 left in stock" {
		t.Fatalf("over stock: %d %v", code, body)
	}

	code, body = f.do(t, http.MethodPost, "/api/cart/items", `{"product_id":2}`)
	if code != http.StatusOK || cartQuantity(body) != 2 {
		t.Fatalf("add 2: %d %v", code, body)
	}
	code, body = f.do(t, http.MethodPatch, "/api/cart/items/2", `{"delta":2}`)
	if code != http.StatusOK || cartQuantity(body) != 4 {
		t.Fatalf("update: %d %v", code, body)
	}
	code, body = f.do(t, http.MethodPatch, "/api/cart/items/2", `{"delta":0}`)
	if code != http.StatusBadRequest {
		t.Fatalf("zero delta: %d %v", code, body)
	}
	code, body = f.do(t, http.MethodDelete, "/api/cart/items/1", "")
	if code != http.StatusOK || cartQuantity(body) != 3 {
		t.Fatalf("remove: %d %v", code, body)
	}

	code, body = f.do(t, http.MethodPost, "/api/cart/revalidate", "")
	if code != http.StatusOK {
		t.Fatalf("revalidate: %d %v", code, body)
	}
	if issues, _ := body["issues"].([]any); len(issues) != 0 {
		t.Fatalf("unexpected issues %v", issues)
	}

	code, body = f.do(t, http.MethodDelete, "/api/cart", "")
	if code != http.StatusOK || cartQuantity(body) != 0 {
		t.Fatalf("clear: %d %v", code, body)
	}

	code, body = f.do(t, http.MethodPost, "/api/cart/items", `{}`)
	if code != http.StatusBadRequest || errCode(body) != "INVALID_INPUT" {
		t.Fatalf("missing id: %d %v", code, body)
	}

	if len(f.recorder.All()) == 0 {
		t.Fatalf("notifications should reach the sinks")
	}
}

func TestOrderSubmit(t *testing.T) {
	f := newFixture(t)

	code, body := f.do(t, http.MethodPost, "/api/orders", "")
	if code != http.StatusUnprocessableEntity || errCode(body) != "EMPTY_CART" {
		t.Fatalf("empty: %d %v", code, body)
	}

	f.do(t, http.MethodPost, "/api/cart/items", `{"product_id":2}`)
	f.do(t, http.MethodPatch, "/api/cart/items/2", `{"delta":1}`)

	code, body = f.do(t, http.MethodPost, "/api/orders", "")
	if code != http.StatusCreated || noteMessage(body) != "Order #7 placed" {
		t.Fatalf("submit: %d %v", code, body)
	}
	sent, _ := f.orderBody.Load().(string)
	if !strings.Contains(sent, `"product_id":2`) || !strings.Contains(sent, `"quantity":2`) {
		t.Fatalf("order body %q", sent)
	}
	if f.engine.Summary().TotalQuantity != 0 {
		t.Fatalf("cart should be cleared after the order")
	}

	code, body = f.do(t, http.MethodGet, "/api/orders", "")
	if code != http.StatusOK {
		t.Fatalf("list: %d %v", code, body)
	}
}

func TestAccount(t *testing.T) {
	f := newFixture(t)

	code, body := f.do(t, http.MethodPost, "/api/users",
		`{"email":"ada@example.com","first_name":"Ada","last_name":"Lovelace","password":"secret1","confirm_password":"secret2"}`)
	if code != http.StatusBadRequest || noteMessage(body) != "Passwords do not match" {
		t.Fatalf("mismatch: %d %v", code, body)
	}
	if f.userPosts.Load() != 0 {
		t.Fatalf("validation failure must not call the API")
	}

	code, body = f.do(t, http.MethodPost, "/api/users",
		`{"email":"taken@example.com","first_name":"Ada","last_name":"Lovelace","password":"secret1","confirm_password":"secret1"}`)
	if code != http.StatusBadRequest || errCode(body) != "REJECTED" || noteMessage(body) != "Email already registered" {
		t.Fatalf("taken: %d %v", code, body)
	}

	code, body = f.do(t, http.MethodPost, "/api/users",
		`{"email":"ada@example.com","first_name":"Ada","last_name":"Lovelace","password":"secret1","confirm_password":"secret1"}`)
	if code != http.StatusCreated {
		t.Fatalf("register: %d %v", code, body)
	}

	code, body = f.do(t, http.MethodGet, "/api/session", "")
	if code != http.StatusOK || body["signed_in"] != true {
		t.Fatalf("session: %d %v", code, body)
	}
	code, body = f.do(t, http.MethodDelete, "/api/session", "")
	if code != http.StatusOK || body["signed_in"] != false {
		t.Fatalf("signout: %d %v", code, body)
	}
	_, body = f.do(t, http.MethodGet, "/api/session", "")
	if body["signed_in"] != false {
		t.Fatalf("still signed in: %v", body)
	}
}

func TestEventsStreamOpensWithCart(t *testing.T) {
	f := newFixture(t)
	hub := realtime.NewHub(nil)
	r := NewRouter(RouterConfig{EventsHandler: httpH.NewEventsHandler(hub, f.engine.Snapshot)})
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "data: ") {
			if !strings.Contains(line, `"event":"CartChanged"`) {
				t.Fatalf("first event %q", line)
			}
			return
		}
	}
	t.Fatalf("stream ended without data: %v", sc.Err())
}
