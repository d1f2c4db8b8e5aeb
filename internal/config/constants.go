package config

import "time"

const (
	// Rate limit (messages per minute per chat)
	RateLimitPerMinute = 20

	// Window for the in-memory rate limiter
	RateLimitWindow = time.Minute
)
