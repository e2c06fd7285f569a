package domain

type CtxKey string

const (
	KeyRequestID CtxKey = "RequestID"
	KeyClientIP  CtxKey = "ClientIP"
)

// RequestIDHeader carries the per-request correlation ID
const RequestIDHeader = "X-Request-ID"
