package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for admin access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour

	// MyPageTokenTTL is the time-to-live for applicant my-page tokens (30 days)
	MyPageTokenTTL = 30 * 24 * time.Hour
)

// ICCID intake constants
const (
	// ICCIDMinLength is the minimum token length that triggers an automatic
	// submit in length-triggered scanner mode (standard ICCID length)
	ICCIDMinLength = 19

	// ICCIDMaxLength caps accepted tokens (ICCIDs are at most 20 digits)
	ICCIDMaxLength = 20
)

// HTTP constants
const (
	// CORSMaxAge is how long browsers may cache preflight responses (seconds)
	CORSMaxAge = 3600
)

// Cache key constants
const (
	// TagListCacheKey is the redis key stem for cached tag listings
	TagListCacheKey = "tags:list"
)

// Request context keys used by handlers to thread request metadata into flows
type ContextKey string

const (
	RequestIDKey  ContextKey = "request_id"
	UserAgentKey  ContextKey = "user_agent"
	IPAddressKey  ContextKey = "ip_address"
	EndpointKey   ContextKey = "endpoint"
	TimeoutKey    ContextKey = "timeout"
	CancelFuncKey ContextKey = "cancel_func"
	AdminIDKey    ContextKey = "admin_id"
)
