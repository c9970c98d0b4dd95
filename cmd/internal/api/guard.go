package api

import (
	"net"
	"net/http"
	"strings"

	"notebook/cmd/identity"

	"github.com/go-chi/chi/v5/middleware"
)

// TokenHeader is the header browser clients send the identity token in.
const TokenHeader = "auth-token"

// requireCaller resolves the request's token into a Caller or writes 401.
func (h *Handler) requireCaller(w http.ResponseWriter, r *http.Request) (identity.Caller, bool) {
	tok := TokenFromRequest(r)
	if tok == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "please authenticate using a valid token")
		return identity.Caller{}, false
	}

	caller, err := h.identity.ResolveIdentity(r.Context(), tok)
	if err != nil {
		h.writeServiceError(w, r, "api.guard.fail", err)
		return identity.Caller{}, false
	}
	return caller, true
}

// TokenFromRequest returns the identity token from the auth-token header or
// an Authorization bearer credential, in that order.
func TokenFromRequest(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(TokenHeader)); v != "" {
		return v
	}
	return bearerToken(r)
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	parts := strings.SplitN(raw, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}

func clientIP(r *http.Request, trustProxy bool) net.IP {
	if trustProxy {
		if ip := parseForwardedIP(r.Header.Get("X-Forwarded-For")); ip != nil {
			return ip
		}
		if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil {
		if ip := net.ParseIP(host); ip != nil {
			return ip
		}
	}
	return nil
}

func parseForwardedIP(raw string) net.IP {
	if raw == "" {
		return nil
	}
	for _, p := range strings.Split(raw, ",") {
		if ip := net.ParseIP(strings.TrimSpace(p)); ip != nil {
			return ip
		}
	}
	return nil
}
