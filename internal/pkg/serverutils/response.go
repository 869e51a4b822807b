package serverutils

// BaseResponse is the uniform success envelope for all JSON endpoints.
type BaseResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

func SuccessResponse[T any](message string, data T) BaseResponse[T] {
	return BaseResponse[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// ErrorResponse is the safe client-facing error shape. Never carries
// internal details; the request id correlates with server logs.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestId string `json:"request_id,omitempty"`
}
