package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quadworks/storefront/pkg/pagination"
)

// PaginationParams reads limit/cursor query parameters. A non-numeric
// limit is ignored; range clamping happens in pkg/pagination.
func PaginationParams(r *http.Request) pagination.Params {
	params := pagination.Params{Cursor: strings.TrimSpace(r.URL.Query().Get("cursor"))}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			params.Limit = limit
		}
	}
	return params
}

// QueryString returns the trimmed value of a query parameter.
func QueryString(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

// QueryDecimal parses a decimal query parameter. Non-numeric values are
// ignored rather than rejected, matching the list-filter contract.
func QueryDecimal(r *http.Request, name string) *decimal.Decimal {
	raw := QueryString(r, name)
	if raw == "" {
		return nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &value
}

// QueryBool parses a boolean query parameter, nil when absent or invalid.
func QueryBool(r *http.Request, name string) *bool {
	raw := QueryString(r, name)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &value
}
