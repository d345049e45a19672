package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// SecurityConfig selects the optional security headers
type SecurityConfig struct {
	HSTSEnabled           bool
	HSTSMaxAge            int // seconds
	HSTSIncludeSubdomains bool
	HSTSPreload           bool

	CSPEnabled   bool
	CSPDirective string

	PermissionsPolicyEnabled   bool
	PermissionsPolicyDirective string
}

// DefaultSecurityConfig locks the API down to JSON and event streams.
// HSTS stays off until the API is served over HTTPS.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		HSTSMaxAge:                 365 * 24 * 60 * 60,
		HSTSIncludeSubdomains:      true,
		CSPEnabled:                 true,
		CSPDirective:               "default-src 'none'; frame-ancestors 'none'",
		PermissionsPolicyEnabled:   true,
		PermissionsPolicyDirective: "accelerometer=(), camera=(), geolocation=(), gyroscope=(), magnetometer=(), microphone=(), payment=(), usb=()",
	}
}

// Secure sets security headers with DefaultSecurityConfig
func Secure() gin.HandlerFunc {
	return SecureWithConfig(DefaultSecurityConfig())
}

// SecureWithConfig sets the fixed hardening headers plus whatever cfg enables
func SecureWithConfig(cfg SecurityConfig) gin.HandlerFunc {
	headers := [][2]string{
		{"X-Frame-Options", "DENY"},
		{"X-Content-Type-Options", "nosniff"},
		{"X-XSS-Protection", "1; mode=block"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
	}
	if cfg.CSPEnabled && cfg.CSPDirective != "" {
		headers = append(headers, [2]string{"Content-Security-Policy", cfg.CSPDirective})
	}
	if cfg.PermissionsPolicyEnabled && cfg.PermissionsPolicyDirective != "" {
		headers = append(headers, [2]string{"Permissions-Policy", cfg.PermissionsPolicyDirective})
	}
	if cfg.HSTSEnabled {
		hsts := "max-age=" + strconv.Itoa(cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubdomains {
			hsts += "; includeSubDomains"
		}
		if cfg.HSTSPreload {
			hsts += "; preload"
		}
		headers = append(headers, [2]string{"Strict-Transport-Security", hsts})
	}

	return func(c *gin.Context) {
		for _, h := range headers {
			c.Header(h[0], h[1])
		}
		c.Next()
	}
}
