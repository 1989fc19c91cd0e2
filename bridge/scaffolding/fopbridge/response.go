// Package fopbridge provides the success envelope and paging helpers shared
// by every bridge.
package fopbridge

import (
	"encoding/json"
	"net/http"

	"github.com/kingjawir/marketplace/core/scaffolding/fop"
)

// Response is the success envelope every endpoint returns.
type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`

	status int
}

// NewResponse wraps data in a 200 envelope.
func NewResponse[T any](message string, data T) *Response[T] {
	return &Response[T]{Success: true, Message: message, Data: data, status: http.StatusOK}
}

// NewCreatedResponse wraps data in a 201 envelope.
func NewCreatedResponse[T any](message string, data T) *Response[T] {
	return &Response[T]{Success: true, Message: message, Data: data, status: http.StatusCreated}
}

// NewMessage is an envelope without data.
func NewMessage(message string) *Response[any] {
	return &Response[any]{Success: true, Message: message, status: http.StatusOK}
}

// Encode implements the encoder interface.
func (r *Response[T]) Encode() ([]byte, string, error) {
	data, err := json.Marshal(r)
	return data, "application/json; charset=utf-8", err
}

// HTTPStatus implements the web package httpStatus interface.
func (r *Response[T]) HTTPStatus() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// Pagination is the pagination object embedded in list payloads.
type Pagination = fop.PageInfo

// ParsePage reads page and limit from the query string.
func ParsePage(r *http.Request, defaultLimit int) (fop.Page, error) {
	q := r.URL.Query()
	return fop.ParsePage(q.Get("page"), q.Get("limit"), defaultLimit)
}
