package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"clawtown-server/internal/domain"
	"clawtown-server/internal/engine"
	"clawtown-server/pkg/api"
	"clawtown-server/pkg/logger"
)

// maxBodySize - тела запросов API маленькие, все остальное - ошибка клиента.
const maxBodySize = 64 << 10

// statusFor сопоставляет вид ошибки со статусом HTTP.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrStateConflict), errors.Is(err, domain.ErrNoTarget):
		return http.StatusConflict
	case errors.Is(err, domain.ErrExpired):
		return http.StatusGone
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, engine.ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Debug("Failed to write response.")
	}
}

func writeOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, data)
}

// writeError пишет {ok:false,error}. Внутренние ошибки наружу не попадают.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Log.WithError(err).Error("Request failed.")
		msg = "internal error"
	}

	var rl *domain.RateLimitError
	if errors.As(err, &rl) {
		secs := int(rl.RetryIn.Seconds() + 0.999)
		w.Header().Set("Retry-After", strconv.Itoa(max(1, secs)))
	}
	writeJSON(w, status, api.ErrorResponse{OK: false, Error: msg})
}

// readBody читает тело целиком. Пустое тело допустимо.
func readBody(w http.ResponseWriter, r *http.Request) (json.RawMessage, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return nil, domain.Invalid("unreadable body: %v", err)
	}
	return data, nil
}

// decodeBody читает тело в T и вызывает Validate, если он есть.
func decodeBody[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var v T
	data, err := readBody(w, r)
	if err != nil {
		return v, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &v); err != nil {
			return v, domain.Invalid("invalid json: %v", err)
		}
	}
	if val, ok := any(v).(api.Validator); ok {
		if err := val.Validate(); err != nil {
			return v, domain.Invalid("%v", err)
		}
	}
	return v, nil
}
