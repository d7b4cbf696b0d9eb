package middleware

import (
	"net/http"

	"github.com/qianyuchang/chefnote/config"
)

// APIKeyMiddleware protects mutating endpoints. Checks the X-API-Key header
// against CHEFNOTE_API_KEY. When no key is configured the check is skipped --
// ChefNote is a single-user app and commonly runs on a private network.
func APIKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expectedKey := config.GetEnv("CHEFNOTE_API_KEY", "")
		if expectedKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		if r.Header.Get("X-API-Key") != expectedKey {
			http.Error(w, "Forbidden: Invalid API Key", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
