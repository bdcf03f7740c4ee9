package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/everyonewrite/writeguide/internal/auth"
	"github.com/everyonewrite/writeguide/internal/logger"
	"github.com/everyonewrite/writeguide/internal/models"
	"github.com/everyonewrite/writeguide/internal/utools"
)

// IdentityGateway is the slice of the plugin-platform client the login
// flow needs.
type IdentityGateway interface {
	ExchangeToken(ctx context.Context, accessToken string) (*utools.UserInfo, error)
}

// UserStore is the account surface the HTTP layer consumes.
type UserStore interface {
	GetOrCreate(ctx context.Context, utoolID string, defaultBalance float64) (*models.User, bool, error)
	GetBalance(ctx context.Context, userID int64) (float64, error)
}

type AuthHandler struct {
	gateway        IdentityGateway
	users          UserStore
	issuer         *auth.Issuer
	defaultBalance float64
}

func NewAuthHandler(gateway IdentityGateway, users UserStore, issuer *auth.Issuer, defaultBalance float64) *AuthHandler {
	return &AuthHandler{
		gateway:        gateway,
		users:          users,
		issuer:         issuer,
		defaultBalance: defaultBalance,
	}
}

type loginRequest struct {
	AccessToken string `json:"access_token"`
}

type loginResponse struct {
	Message  string          `json:"message"`
	Token    *auth.TokenPair `json:"token"`
	UserInfo loginUserInfo   `json:"user_info"`
}

type loginUserInfo struct {
	Avatar       string  `json:"avatar"`
	Nickname     string  `json:"nickname"`
	Member       int     `json:"member"`
	TokenBalance float64 `json:"token_balance"`
}

// Login exchanges a plugin access token for a local account and a JWT
// pair. A fresh identity gets exactly one account with the default grant;
// repeated logins reuse it.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	if req.AccessToken == "" {
		writeError(w, http.StatusBadRequest, "access_token is required", "")
		return
	}

	info, err := h.gateway.ExchangeToken(r.Context(), req.AccessToken)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "failed to authenticate with the plugin platform", "")
		return
	}

	usr, created, err := h.users.GetOrCreate(r.Context(), info.OpenID, h.defaultBalance)
	if err != nil {
		writeMappedError(w, err)
		return
	}
	if created {
		logger.Log.Info("registered new user", "utool_id", usr.UtoolID)
	}

	pair, err := h.issuer.IssuePair(usr.UtoolID)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message: "Login successful",
		Token:   pair,
		UserInfo: loginUserInfo{
			Avatar:       info.Avatar,
			Nickname:     info.Nickname,
			Member:       info.Member,
			TokenBalance: usr.TokenBalance,
		},
	})
}
