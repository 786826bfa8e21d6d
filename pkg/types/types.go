package types

// SuccessResponse is the envelope for all 2xx JSON responses.
type SuccessResponse struct {
	Data any       `json:"data"`
	Meta *ListMeta `json:"meta,omitempty"`
}

// ListMeta carries cursor pagination details for list endpoints.
type ListMeta struct {
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
	Count      int    `json:"count"`
}

// ErrorResponse is the envelope for all non-2xx JSON responses.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}
