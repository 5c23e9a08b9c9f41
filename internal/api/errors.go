package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/yungbote/storefront/internal/domain"
)

// HTTPError is a non-2xx answer from the storefront API.
type HTTPError struct {
	StatusCode int
	Detail     string
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "http error"
	}
	msg := strings.TrimSpace(e.Detail)
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if msg == "" {
		msg = "http error"
	}
	return fmt.Sprintf("http error: status=%d detail=%s", e.StatusCode, msg)
}

// Is treats a server-side failure as the API being unavailable.
func (e *HTTPError) Is(target error) bool {
	return target == domain.ErrUnreachable && e != nil && e.StatusCode >= 500
}

// StatusOf returns the status of an *HTTPError anywhere in err's chain, or 0.
func StatusOf(err error) int {
	if he := asHTTPError(err); he != nil {
		return he.StatusCode
	}
	return 0
}

// DetailOf returns the server-provided reason, falling back to the status text.
func DetailOf(err error) string {
	he := asHTTPError(err)
	if he == nil {
		return ""
	}
	if d := strings.TrimSpace(he.Detail); d != "" {
		return d
	}
	return http.StatusText(he.StatusCode)
}

func asHTTPError(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}
	return nil
}

// parseHTTPError decodes {"detail": ...}. Validation failures carry a list of
// {loc, msg} objects instead of a string; their messages are joined.
func parseHTTPError(status int, raw []byte) error {
	body := strings.TrimSpace(string(raw))

	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &env); err != nil || len(env.Detail) == 0 {
		return &HTTPError{StatusCode: status, Body: body}
	}

	var s string
	if err := json.Unmarshal(env.Detail, &s); err == nil {
		return &HTTPError{StatusCode: status, Detail: strings.TrimSpace(s), Body: body}
	}

	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(env.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			msg := strings.TrimSpace(it.Msg)
			if msg == "" {
				continue
			}
			if n := len(it.Loc); n > 0 {
				msg = fmt.Sprintf("%v: %s", it.Loc[n-1], msg)
			}
			msgs = append(msgs, msg)
		}
		return &HTTPError{StatusCode: status, Detail: strings.Join(msgs, "; "), Body: body}
	}

	return &HTTPError{StatusCode: status, Body: body}
}
