package controllers

import (
	"net/http"
	"time"

	"github.com/tgshopai/tgshop-backend/api/responses"
	"github.com/tgshopai/tgshop-backend/api/validators"
	pkgAuth "github.com/tgshopai/tgshop-backend/pkg/auth"
	"github.com/tgshopai/tgshop-backend/pkg/config"
	pkgerrors "github.com/tgshopai/tgshop-backend/pkg/errors"
	"github.com/tgshopai/tgshop-backend/pkg/logger"
	"github.com/tgshopai/tgshop-backend/pkg/security"
)

type adminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type adminLoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}

// AdminLogin verifies the admin password against the configured argon2id hash
// and issues a short-lived bearer token.
func AdminLogin(cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload adminLoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ok, err := security.VerifyPassword(payload.Password, cfg.Admin.PasswordHash)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password"))
			return
		}
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials"))
			return
		}

		token, err := pkgAuth.MintAdminToken(cfg.JWT, time.Now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token"))
			return
		}

		responses.WriteSuccess(w, adminLoginResponse{
			Token:     token,
			TokenType: "Bearer",
			ExpiresIn: int64(cfg.JWT.ExpirationMinutes) * 60,
		})
	}
}
