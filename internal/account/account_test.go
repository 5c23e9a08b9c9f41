package account

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/storefront/internal/api"
	"github.com/yungbote/storefront/internal/domain"
	"github.com/yungbote/storefront/internal/store"
)

func newService(t *testing.T, h http.HandlerFunc) (*Service, *store.Adapter) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	ac, err := api.New(api.Options{BaseURL: srv.URL + "/api", Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	st := store.NewAdapter(store.NewMemory(), "shop.test", nil)
	return New(ac, st, nil), st
}

func validRegistration() Registration {
	return Registration{
		Email:           "ann@example.com",
		FirstName:       "Ann",
		LastName:        "Lee",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

func TestValidationMakesNoCall(t *testing.T) {
	var calls int32
	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) { atomic.AddInt32(&calls, 1) })

	cases := []struct {
		name  string
		mut   func(*Registration)
		field string
	}{
		{"mismatch first", func(r *Registration) { r.Password = "abc"; r.ConfirmPassword = "abd" }, "confirm_password"},
		{"short password", func(r *Registration) { r.Password = "abc"; r.ConfirmPassword = "abc" }, "password"},
		{"bad email", func(r *Registration) { r.Email = "not-an-email" }, "email"},
		{"blank first name", func(r *Registration) { r.FirstName = "   " }, "first_name"},
		{"long last name", func(r *Registration) {
			b := make([]byte, 51)
			for i := range b {
				b[i] = 'x'
			}
			r.LastName = string(b)
		}, "last_name"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := validRegistration()
			tc.mut(&r)
			_, err := svc.Register(context.Background(), r)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) || ve.Field != tc.field {
				t.Fatalf("err=%v", err)
			}
			if !errors.Is(err, domain.ErrInvalid) {
				t.Fatalf("not ErrInvalid")
			}
		})
	}
	if calls != 0 {
		t.Fatalf("calls=%d", calls)
	}
}

func TestRegisterRemembersUser(t *testing.T) {
	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/users/" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if _, ok := body["confirm_password"]; ok {
			t.Errorf("confirmation must not be sent")
		}
		if body["password"] != "secret1" || body["first_name"] != "Ann" {
			t.Errorf("body=%v", body)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":5,"email":"ann@example.com","first_name":"Ann","last_name":"Lee","created_at":"2024-05-01T09:00:00"}`))
	})
	ctx := context.Background()
	if _, ok := svc.Current(ctx); ok {
		t.Fatalf("nobody should be signed in yet")
	}
	r := validRegistration()
	r.Email = "  ann@example.com "
	u, err := svc.Register(ctx, r)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.ID != 5 {
		t.Fatalf("user=%+v", u)
	}
	cu, ok := svc.Current(ctx)
	if !ok || cu.Email != "ann@example.com" {
		t.Fatalf("current=%+v ok=%v", cu, ok)
	}
	if err := svc.SignOut(ctx); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, ok := svc.Current(ctx); ok {
		t.Fatalf("still signed in")
	}
}

func TestRegisterRejected(t *testing.T) {
	svc, st := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Email already registered"}`))
	})
	_, err := svc.Register(context.Background(), validRegistration())
	var rej *domain.RejectedError
	if !errors.As(err, &rej) || rej.Reason != "Email already registered" {
		t.Fatalf("err=%v", err)
	}
	var cu domain.CurrentUser
	if st.Load(context.Background(), store.KeyCurrentUser, &cu) {
		t.Fatalf("marker stored after rejection")
	}
}
