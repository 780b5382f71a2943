package serverutils

// Response is the envelope every JSON endpoint answers with.
type Response[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func SuccessResponse[T any](message string, data T) *Response[T] {
	return &Response[T]{
		Success: true,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) *Response[any] {
	return &Response[any]{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// ErrorResponseWithData is used when a failure still carries a payload, e.g. {error} envelopes.
func ErrorResponseWithData[T any](code int, message string, data T) *Response[T] {
	return &Response[T]{
		Success: false,
		Code:    code,
		Message: message,
		Data:    data,
	}
}
