package handlers

import (
	"encoding/json"

	"clawtown-server/internal/domain"
	"clawtown-server/pkg/api"
)

// TypedHandlerFunc - "чистый" хендлер, который работает с готовой структурой T
type TypedHandlerFunc[T any] func(ctx Context, payload T) (Result, error)

// EmptyHandlerFunc - хендлер, которому не нужны данные (ping, party_create)
type EmptyHandlerFunc func(ctx Context) (Result, error)

// WithPayload берет "чистый" хендлер и превращает его в стандартный HandlerFunc.
// Unmarshal и Validate делаются здесь, ошибки обоих имеют вид ErrValidation.
func WithPayload[T any](handler TypedHandlerFunc[T]) HandlerFunc {
	return func(ctx Context, raw json.RawMessage) (Result, error) {
		var payload T

		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &payload); err != nil {
				return Result{}, domain.Invalid("invalid payload format: %v", err)
			}
		}

		if v, ok := any(payload).(api.Validator); ok {
			if err := v.Validate(); err != nil {
				return Result{}, domain.Invalid("%v", err)
			}
		}

		return handler(ctx, payload)
	}
}

// WithEmptyPayload - обертка для команд без данных
func WithEmptyPayload(handler EmptyHandlerFunc) HandlerFunc {
	return func(ctx Context, _ json.RawMessage) (Result, error) {
		return handler(ctx)
	}
}

// RequireActor - команда возможна только от имени игрока.
func RequireActor(next HandlerFunc) HandlerFunc {
	return func(ctx Context, raw json.RawMessage) (Result, error) {
		if ctx.Actor == nil {
			return Result{}, domain.NewError(domain.ErrNotFound, "unknown player")
		}
		return next(ctx, raw)
	}
}
