package http

const (
	CodeUnknown          = "UNKNOWN"
	CodeInternal         = "INTERNAL_SERVER_ERROR"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeInvalidJSON      = "INVALID_JSON"
	CodeBadRequest       = "BAD_REQUEST"
	CodeRequestTooLarge  = "REQUEST_TOO_LARGE"
	CodeUnavailable      = "SERVICE_UNAVAILABLE"
)
