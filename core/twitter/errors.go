package twitter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrUnauthorized matches API errors caused by rejected credentials.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-successful API response.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// Title is the short problem description returned by the API.
	Title string
	// Detail is the long problem description returned by the API.
	Detail string
	// RetryAfter is how long the server asked us to wait, if it said so.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("api error %d", e.StatusCode)
	if e.Title != "" {
		msg += ": " + e.Title
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Temporary reports whether the request may succeed if retried.
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// RetryDelay returns the server-provided wait hint.
func (e *APIError) RetryDelay() time.Duration {
	return e.RetryAfter
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// problem covers both the v2 problem document and the legacy errors array.
type problem struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Errors []struct {
		Message string `json:"message"`
		Title   string `json:"title"`
		Detail  string `json:"detail"`
	} `json:"errors"`
}

func newAPIError(resp *http.Response, body []byte, now time.Time) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		RetryAfter: retryAfter(resp.Header, now),
	}

	var p problem
	if err := json.Unmarshal(body, &p); err == nil {
		apiErr.Title = p.Title
		apiErr.Detail = p.Detail
		if apiErr.Title == "" && len(p.Errors) > 0 {
			apiErr.Title = p.Errors[0].Title
			if apiErr.Title == "" {
				apiErr.Title = p.Errors[0].Message
			}
			apiErr.Detail = p.Errors[0].Detail
		}
	}
	if apiErr.Title == "" {
		apiErr.Title = http.StatusText(resp.StatusCode)
	}

	return apiErr
}

// retryAfter reads the rate-limit reset (epoch seconds) or Retry-After (seconds) header.
func retryAfter(h http.Header, now time.Time) time.Duration {
	if v := h.Get("x-rate-limit-reset"); v != "" {
		if epoch, err := strconv.ParseInt(v, 10, 64); err == nil {
			if d := time.Unix(epoch, 0).Sub(now); d > 0 {
				return d
			}
		}
	}
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 0
}
