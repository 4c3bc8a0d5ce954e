package utils

// ContextKey is the type for request-scoped context values.
type ContextKey string

// Request context keys set by HTTP handlers and read by flows for logging.
const (
	RequestIDKey  ContextKey = "request_id"
	UserAgentKey  ContextKey = "user_agent"
	IPAddressKey  ContextKey = "ip_address"
	EndpointKey   ContextKey = "endpoint"
	TimeoutKey    ContextKey = "timeout"
	CancelFuncKey ContextKey = "cancel_func"
	MerchantIDKey ContextKey = "merchant_id"
)
