// Package api - request and response types
package api

import (
	"github.com/S-COULIBALY/express-quote-sub008/core/types"
)

// QuoteRequest is the POST /v1/quotes payload
type QuoteRequest struct {
	// BasePrice is the starting price before rule application
	BasePrice float64 `json:"base_price"`

	// Currency overrides the configured currency when set
	Currency string `json:"currency,omitempty"`

	// Quote is the structured quote context
	Quote types.QuoteContext `json:"quote"`
}

// ErrorResponse is the error payload
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
