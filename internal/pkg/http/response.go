package http

// ErrorResponse error envelope shared by all API handlers
type ErrorResponse struct {
	Code    int    `json:"code"`             // non-zero on error
	Message string `json:"message"`          // human-readable summary
	Detail  string `json:"detail,omitempty"` // optional detail
}

// SuccessResponse success envelope shared by all API handlers
type SuccessResponse struct {
	Code    int         `json:"code"` // 0 on success
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewSuccessResponse creates a success envelope
func NewSuccessResponse(data interface{}) *SuccessResponse {
	return &SuccessResponse{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

// NewErrorResponse creates an error envelope
func NewErrorResponse(code int, message string, detail ...string) *ErrorResponse {
	resp := &ErrorResponse{
		Code:    code,
		Message: message,
	}
	if len(detail) > 0 && detail[0] != "" {
		resp.Detail = detail[0]
	}
	return resp
}
