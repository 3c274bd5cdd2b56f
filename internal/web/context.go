package web

import (
	"net/http"
	"strings"

	"github.com/JonMunkholm/costdraft/internal/core"
)

// OwnerHeader carries the id of the user whose presets are addressed.
// Authentication is handled in front of this service.
const OwnerHeader = "X-Owner-ID"

// DefaultOwner is used when OwnerHeader is absent.
const DefaultOwner = "local"

// maxOwnerLen bounds the owner id accepted from the header.
const maxOwnerLen = 128

// ownerContext stores the request owner in the context.
func ownerContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := strings.TrimSpace(r.Header.Get(OwnerHeader))
		if owner == "" {
			owner = DefaultOwner
		}
		if len(owner) > maxOwnerLen {
			http.Error(w, `{"error":"owner id too long","code":"VAL004"}`, http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r.WithContext(core.ContextWithOwner(r.Context(), owner)))
	})
}

// owner returns the request owner set by ownerContext.
func owner(r *http.Request) string {
	if o := core.OwnerFromContext(r.Context()); o != "" {
		return o
	}
	return DefaultOwner
}
