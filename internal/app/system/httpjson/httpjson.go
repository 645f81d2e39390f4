// internal/app/system/httpjson/httpjson.go

// Package httpjson writes the app's uniform JSON responses. Errors are
// always {"error": message}; success bodies are the resource itself.
package httpjson

import (
	"encoding/json"
	"net/http"
)

// Write encodes v as JSON with the given status code.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes the uniform error envelope.
func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, map[string]string{"error": msg})
}

// OK writes v with a 200 status.
func OK(w http.ResponseWriter, v any) { Write(w, http.StatusOK, v) }

// Created writes v with a 201 status.
func Created(w http.ResponseWriter, v any) { Write(w, http.StatusCreated, v) }

// Decode reads the request body into v. A malformed body is the caller's
// validation error (400), so the error text is safe to return to clients.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
