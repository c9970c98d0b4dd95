package api

import (
	"net/http"

	"notebook/cmd/apperr"
	"notebook/cmd/identity"
)

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	tok, _, err := h.identity.Register(r.Context(), identity.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeServiceError(w, r, "api.createuser.fail", err)
		return
	}

	writeJSON(w, http.StatusOK, authTokenResponse{AuthToken: tok})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	tok, err := h.identity.Login(r.Context(), identity.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if reason, ok := apperr.ReasonOf(err); ok && reason == apperr.ReasonInvalidCredentials {
			ip := ""
			if addr := clientIP(r, h.cfg.TrustProxy); addr != nil {
				ip = addr.String()
			}
			h.log.Info("api.login.denied", "ip", ip, "request_id", requestID(r))
		}
		h.writeServiceError(w, r, "api.login.fail", err)
		return
	}

	writeJSON(w, http.StatusOK, authTokenResponse{AuthToken: tok})
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.requireCaller(w, r)
	if !ok {
		return
	}

	p, err := h.identity.GetProfile(r.Context(), caller.AccountID())
	if err != nil {
		h.writeServiceError(w, r, "api.getuser.fail", err)
		return
	}

	writeJSON(w, http.StatusOK, getUserResponse{User: toUserResponse(p)})
}
