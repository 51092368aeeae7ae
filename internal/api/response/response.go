package response

import (
	"encoding/json"
	"net/http"
)

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

type failEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSON writes a 200 success envelope carrying data.
func JSON(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Status: StatusSuccess, Data: data})
}

// Created writes a 201 success envelope with a message and data.
func Created(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusCreated, envelope{Status: StatusSuccess, Message: message, Data: data})
}

// Fail writes a fail envelope with the given status code.
func Fail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, failEnvelope{Status: StatusFail, Message: message})
}

// FailWithData writes a fail envelope that also carries diagnostic data.
func FailWithData(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, failEnvelope{Status: StatusFail, Message: message, Data: data})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
