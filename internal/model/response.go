package model

// Response is a generic struct for API responses
type Response struct {
	Data    interface{} `json:"data,omitempty"`
	Error   *string     `json:"error,omitempty"`
	Message string      `json:"message"`
}

// NewErrorResponse builds the envelope returned for every non-2xx status.
func NewErrorResponse(errMsg, message string) Response {
	return Response{
		Error:   &errMsg,
		Message: message,
	}
}
