package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
)

// ErrorKind classifies a failed Bot API call. It is assigned once, where the
// call is made.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindCanceled
	KindUnauthorized
	KindForbidden
	KindBadRequest
	KindNotFound
	KindConflict
	KindRateLimited
)

func (k ErrorKind) String() string {
	switch k {
	case KindCanceled:
		return "canceled"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindBadRequest:
		return "bad_request"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "unknown"
	}
}

// APIError is returned by every Client method that talks to the Bot API.
type APIError struct {
	Op   string
	Kind ErrorKind
	Err  error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s failed (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// wrapError tags err with the operation name and its kind. nil stays nil.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{Op: op, Kind: kindOf(err), Err: err}
}

// Classify returns the kind of err. Errors produced by Client carry their kind;
// anything else is classified from the go-telegram/bot sentinels.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return kindOf(err)
}

func kindOf(err error) ErrorKind {
	var tooMany *bot.TooManyRequestsError

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.As(err, &tooMany), errors.Is(err, bot.ErrorTooManyRequests):
		return KindRateLimited
	case errors.Is(err, bot.ErrorUnauthorized):
		return KindUnauthorized
	case errors.Is(err, bot.ErrorForbidden):
		return KindForbidden
	case errors.Is(err, bot.ErrorBadRequest):
		return KindBadRequest
	case errors.Is(err, bot.ErrorNotFound):
		return KindNotFound
	case errors.Is(err, bot.ErrorConflict):
		return KindConflict
	default:
		return KindUnknown
	}
}

// LogError is the single logging path for polling errors and for errors that
// escape an update handler. Cancellation during shutdown is logged at debug level.
func LogError(ctx context.Context, log *slog.Logger, source string, err error) {
	if err == nil {
		return
	}
	kind := Classify(err)
	if kind == KindCanceled {
		log.DebugContext(ctx, "Telegram operation cancelled", "source", source, "error", err)
		return
	}
	log.ErrorContext(ctx, "Polling error", "source", source, "kind", kind.String(), "error", err)
}

// NewErrorsHandler returns the go-telegram/bot errors handler that receives
// transport failures of the long-poll loop. The loop keeps running after it returns.
func NewErrorsHandler(log *slog.Logger) bot.ErrorsHandler {
	return func(err error) {
		LogError(context.Background(), log, "polling", err)
	}
}
