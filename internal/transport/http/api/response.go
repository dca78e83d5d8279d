package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Created(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message}, RequestID: requestID})
}

func FailValidation(w http.ResponseWriter, details any, requestID string) {
	WriteJSON(w, http.StatusBadRequest, Envelope{
		Success:   false,
		Error:     &Error{Code: "validation_failed", Message: "request validation failed", Details: details},
		RequestID: requestID,
	})
}

// Decode reads a JSON body, translating oversized payloads into their own
// error so body-limit rejections are distinguishable from malformed JSON.
func Decode(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return ErrBodyTooLarge
	}
	if errors.Is(err, io.EOF) {
		return ErrEmptyBody
	}
	return err
}

var (
	ErrBodyTooLarge = errors.New("request body too large")
	ErrEmptyBody    = errors.New("request body is empty")
)
