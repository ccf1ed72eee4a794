package config

import "strings"

// GetAuthSkipperPaths returns path prefixes served without a logged-in session.
// Everything else under /api requires login.
func GetAuthSkipperPaths() []string {
	return []string{
		"/api/products",
		"/api/categories",
		"/api/brands",
		"/api/promo-codes",
		"/api/cart",
		"/api/checkout",
		"/api/auth/",
		"/graphql",
	}
}

// IsPublicPath reports whether path matches one of the skipper prefixes.
func IsPublicPath(path string) bool {
	for _, p := range GetAuthSkipperPaths() {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// CronSchedules maps job names to their configured schedule.
func CronSchedules(cfg *Config) map[string]string {
	return map[string]string{
		"session:prune":   cfg.SessionPruneSchedule,
		"catalog:reindex": cfg.CatalogReindexSchedule,
	}
}
