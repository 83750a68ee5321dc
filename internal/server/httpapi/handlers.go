package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	DeviceID string `json:"deviceId"`
}

type loginResponse struct {
	UserID        string `json:"userId"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

func blank(fields ...string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return true
		}
	}
	return false
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if blank(req.Email, req.Password) {
		writeProblem(w, http.StatusBadRequest, "email and password are required")
		return
	}

	res, err := s.auth.Register(r.Context(), services.RegisterCommand{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		s.writeError(r.Context(), w, "register", err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{UserID: res.UserID, Email: res.Email})
}

func (s *Server) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decode(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if blank(req.Token) {
		writeProblem(w, http.StatusBadRequest, "token is required")
		return
	}

	res, err := s.auth.VerifyEmail(r.Context(), services.VerifyEmailCommand{Token: req.Token})
	if err != nil {
		s.writeError(r.Context(), w, "verify_email", err)
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{UserID: res.UserID, Email: res.Email, Verified: res.Verified})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if blank(req.Email, req.Password, req.DeviceID) {
		writeProblem(w, http.StatusBadRequest, "email, password and deviceId are required")
		return
	}

	res, err := s.auth.Login(r.Context(), services.LoginCommand{Email: req.Email, Password: req.Password, DeviceID: req.DeviceID})
	if err != nil {
		s.writeError(r.Context(), w, "login", err)
		return
	}

	s.setCookie(w, common.AccessTokenCookieName, res.AccessToken, s.opts.AccessTTL)
	s.setCookie(w, common.RefreshTokenCookieName, res.RefreshToken, s.opts.RefreshTTL)

	writeJSON(w, http.StatusOK, loginResponse{UserID: res.UserID, Email: res.Email, EmailVerified: res.EmailVerified})
}

// handleRefresh takes the refresh token from its cookie, falling back to the
// JSON body for clients without a cookie jar.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var token string
	if c, err := r.Cookie(common.RefreshTokenCookieName); err == nil {
		token = c.Value
	}
	if token == "" && r.ContentLength != 0 {
		var req refreshRequest
		if err := decode(r, &req); err != nil {
			writeProblem(w, http.StatusBadRequest, "malformed request body")
			return
		}
		token = req.RefreshToken
	}
	if blank(token) {
		writeProblem(w, http.StatusBadRequest, "refresh token is required")
		return
	}

	res, err := s.auth.RenewAccessToken(r.Context(), services.RenewCommand{RefreshToken: token})
	if err != nil {
		s.writeError(r.Context(), w, "refresh", err)
		return
	}

	s.setCookie(w, common.AccessTokenCookieName, res.AccessToken, s.opts.AccessTTL)

	writeJSON(w, http.StatusOK, refreshResponse{AccessToken: res.AccessToken})
}

func (s *Server) setCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
