package api

import (
	"net/http"

	"github.com/rpupo63/portfolio-blog-backend/auth"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder Responder
	authz     auth.Authorizer
}

func newAuthHandler(authz auth.Authorizer) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()
	return authHandler{responder: NewResponder(logger), authz: authz}
}

// getCurrentUser reports who the caller is. Anonymous callers get a null user.
// @Summary Current user
// @Tags Auth
// @Produce json
// @Success 200 {object} CurrentUserResponse
// @Router /auth/me [get]
func (h authHandler) getCurrentUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := ctxGetSession(r.Context())
		h.responder.WriteJSON(w, CurrentUserResponse{
			User:    sess.User,
			IsAdmin: h.authz.IsAdmin(sess),
		})
	}
}
