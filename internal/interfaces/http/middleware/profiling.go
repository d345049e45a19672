package middleware

import (
	"context"
	"regexp"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

// ProfilingConfig controls which requests get Pyroscope labels.
type ProfilingConfig struct {
	Enabled   bool
	SkipPaths []string
	// The event stream lives for minutes and would dominate its route.
	SkipPathPrefixes []string
}

func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:          true,
		SkipPaths:        []string{"/health", "/api/v1/health"},
		SkipPathPrefixes: []string{"/api/v1/stream"},
	}
}

func (c ProfilingConfig) skips(path string) bool {
	if slices.Contains(c.SkipPaths, path) {
		return true
	}
	return slices.ContainsFunc(c.SkipPathPrefixes, func(prefix string) bool {
		return strings.HasPrefix(path, prefix)
	})
}

func Profiling() gin.HandlerFunc {
	return ProfilingWithConfig(DefaultProfilingConfig())
}

// ProfilingWithConfig runs the rest of the chain under pprof labels naming the
// resource ("orders"), the route template and the method, so CPU samples can
// be grouped per endpoint.
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passThrough
	}

	return func(c *gin.Context) {
		if cfg.skips(c.Request.URL.Path) {
			c.Next()
			return
		}

		route := c.FullPath()
		labels := map[string]string{
			telemetry.ProfilingLabelMethod:     c.Request.Method,
			telemetry.ProfilingLabelRoute:      route,
			telemetry.ProfilingLabelController: routeResource(route),
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

var versionSegment = regexp.MustCompile(`^[vV][0-9]+$`)

// routeResource is the first literal segment of a route template once the
// api and version prefix is dropped.
func routeResource(route string) string {
	segments := strings.FieldsFunc(route, func(r rune) bool { return r == '/' })
	if len(segments) > 0 && segments[0] == "api" {
		segments = segments[1:]
	}
	if len(segments) > 0 && versionSegment.MatchString(segments[0]) {
		segments = segments[1:]
	}
	if len(segments) == 0 || strings.ContainsAny(segments[0][:1], ":*") {
		return ""
	}
	return segments[0]
}
