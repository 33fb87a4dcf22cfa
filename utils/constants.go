package utils

// ContextKey is the type for request-scoped context keys shared between handlers and flows
type ContextKey string

const (
	RequestIDKey  ContextKey = "request_id"
	UserAgentKey  ContextKey = "user_agent"
	IPAddressKey  ContextKey = "ip_address"
	EndpointKey   ContextKey = "endpoint"
	TimeoutKey    ContextKey = "timeout"
	CancelFuncKey ContextKey = "cancel_func"
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Quoting constants
const (
	// DefaultVATRate is the VAT percentage applied when a quote does not specify one (23%)
	DefaultVATRate = 23

	// CurrencyPrecision is the number of decimal places kept on final monetary output
	CurrencyPrecision = 2

	// MaxServiceItemSlots bounds the number of named service cost entries per quote line
	MaxServiceItemSlots = 4

	// NumberScanRetries bounds the scan-and-insert retry loop for quote numbers
	NumberScanRetries = 3
)
