package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Error is the body of every failed request.
type Error struct {
	Status    bool   `json:"status"`
	Message   string `json:"message"`
	Code      string `json:"code"`
	Fields    any    `json:"fields,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

type Message struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func Success(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, data)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Error{Status: false, Message: message, Code: code, RequestID: requestID})
}

func FailWithFields(w http.ResponseWriter, status int, code, message string, fields any, requestID string) {
	WriteJSON(w, status, Error{Status: false, Message: message, Code: code, Fields: fields, RequestID: requestID})
}
