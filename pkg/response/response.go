// Package response builds the uniform JSON envelope returned by every endpoint:
//
//	{"status": "success"|"error", "message": "...", "data": ..., "httpCode": 200}
package response

import (
	"encoding/json"
	"net/http"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the outcome of a handler before it is written to the wire.
type Result struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Data     any    `json:"data"`
	HTTPCode int    `json:"httpCode"`
}

// Success returns a success envelope carrying data.
func Success(data any, message string, code int) Result {
	return Result{Status: StatusSuccess, Message: message, Data: data, HTTPCode: code}
}

// Error returns an error envelope with no data.
func Error(message string, code int) Result {
	return Result{Status: StatusError, Message: message, HTTPCode: code}
}

// ErrorWithData returns an error envelope carrying details, e.g. field errors.
func ErrorWithData(message string, data any, code int) Result {
	return Result{Status: StatusError, Message: message, Data: data, HTTPCode: code}
}

// OK reports whether the result is a success variant.
func (r Result) OK() bool { return r.Status == StatusSuccess }

// Write encodes r as JSON using r.HTTPCode as the response status.
func Write(w http.ResponseWriter, r Result) {
	code := r.HTTPCode
	if code == 0 {
		code = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(r)
}
