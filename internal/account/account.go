package account

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/storefront/internal/api"
	"github.com/yungbote/storefront/internal/domain"
	"github.com/yungbote/storefront/internal/platform/logger"
	"github.com/yungbote/storefront/internal/store"
)

type Store interface {
	Load(ctx context.Context, key string, out any) bool
	Save(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// Registration is the sign-up form. ConfirmPassword never leaves the client.
type Registration struct {
	Email           string `json:"email" validate:"required,email"`
	FirstName       string `json:"first_name" validate:"required,max=50"`
	LastName        string `json:"last_name" validate:"required,max=50"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"eqfield=Password"`
}

type createUserRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type Service struct {
	api      *api.Client
	store    Store
	validate *validator.Validate
	log      *logger.Logger
}

func New(apiClient *api.Client, st Store, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Service{api: apiClient, store: st, validate: v, log: log.With("component", "account")}
}

// Validate runs the client-side checks. It makes no network call.
func (s *Service) Validate(r Registration) error {
	err := s.validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &domain.ValidationError{Reason: err.Error()}
	}
	// A mismatched confirmation is reported before anything else, as the sign-up page does.
	first := verrs[0]
	for _, fe := range verrs {
		if fe.Tag() == "eqfield" {
			first = fe
			break
		}
	}
	return &domain.ValidationError{Field: first.Field(), Reason: reason(first)}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "is not a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "eqfield":
		return "does not match password"
	default:
		return "is invalid"
	}
}

func normalize(r Registration) Registration {
	r.Email = strings.TrimSpace(r.Email)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	return r
}

// Register creates the account and remembers its email as the current user.
func (s *Service) Register(ctx context.Context, r Registration) (domain.User, error) {
	r = normalize(r)
	if err := s.Validate(r); err != nil {
		return domain.User{}, err
	}

	body := createUserRequest{Email: r.Email, FirstName: r.FirstName, LastName: r.LastName, Password: r.Password}
	var u domain.User
	if err := s.api.Post(ctx, "/users/", nil, body, &u); err != nil {
		if status := api.StatusOf(err); status != 0 {
			s.log.Warn("registration rejected", "status", status, "email", r.Email, "detail", api.DetailOf(err))
			return domain.User{}, &domain.RejectedError{Status: status, Reason: api.DetailOf(err)}
		}
		return domain.User{}, fmt.Errorf("register: %w", err)
	}
	s.log.Info("user registered", "user_id", u.ID, "email", u.Email)

	email := u.Email
	if email == "" {
		email = r.Email
	}
	if err := s.store.Save(ctx, store.KeyCurrentUser, domain.CurrentUser{Email: email}); err != nil {
		return u, fmt.Errorf("registered but not remembered: %w", err)
	}
	return u, nil
}

// Current returns the remembered user marker. It is not proof of identity.
func (s *Service) Current(ctx context.Context) (domain.CurrentUser, bool) {
	var cu domain.CurrentUser
	if !s.store.Load(ctx, store.KeyCurrentUser, &cu) || strings.TrimSpace(cu.Email) == "" {
		return domain.CurrentUser{}, false
	}
	return cu, true
}

func (s *Service) SignOut(ctx context.Context) error {
	return s.store.Delete(ctx, store.KeyCurrentUser)
}
