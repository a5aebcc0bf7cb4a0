package model

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error codes returned by the ingestion endpoint.
const (
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeInvalidPayload   = "INVALID_PAYLOAD"
	CodeConfigNotFound   = "CONFIG_NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeDBError          = "DB_ERROR"
	CodeServerError      = "SERVER_ERROR"
	CodeRouteNotFound    = "NOT_FOUND"
)

// APIResponse is the JSON envelope of every ingestion response.
type APIResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

func ErrorResponse(code, message string) APIResponse {
	return APIResponse{Status: StatusError, Code: code, Message: message}
}
