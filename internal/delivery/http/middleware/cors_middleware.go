package middleware

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware whitelists the web companion app and local development
// origins. The mobile clients talk to the API directly and never send an
// Origin header, which is treated as same-origin and allowed.
func CORSMiddleware() gin.HandlerFunc {
	isProduction := os.Getenv("GIN_MODE") == "release"

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		productionOrigins := map[string]bool{
			"https://www.collabengine.app": true,
			"https://collabengine.app":     true,
		}

		devOrigins := map[string]bool{
			"http://localhost:8081":  true, // Expo web
			"http://localhost:19006": true,
			"http://127.0.0.1:8081":  true,
		}

		var isAllowed bool
		if productionOrigins[origin] {
			isAllowed = true
		}
		if !isProduction && devOrigins[origin] {
			isAllowed = true
		}

		// Expo/EAS preview builds: collabengine-<branch>.expo.app only.
		if !isAllowed && strings.HasPrefix(origin, "https://") && strings.HasSuffix(origin, ".expo.app") {
			subdomain := strings.TrimPrefix(origin, "https://")
			subdomain = strings.TrimSuffix(subdomain, ".expo.app")
			if subdomain == "collabengine" || strings.HasPrefix(subdomain, "collabengine-") {
				isAllowed = true
			}
		}

		// Same-origin / native clients send no Origin header.
		if origin == "" {
			isAllowed = true
		}

		if isAllowed {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
			c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			c.Header("Access-Control-Max-Age", "86400")
		}

		c.Header("Vary", "Origin")

		if c.Request.Method == "OPTIONS" {
			if isAllowed {
				c.AbortWithStatus(204)
			} else {
				c.AbortWithStatus(403)
			}
			return
		}

		c.Next()
	}
}
