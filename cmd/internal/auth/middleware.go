package auth

import (
	"clientdesk/cmd/internal/utils/apierror"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// RequireSession rejects requests without a valid bearer token and stores the
// verified Session for ParseTokenDataCtx. revocations may be nil.
func RequireSession(verifier Verifier, revocations RevocationStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return c.JSON(apierror.InvalidAuthTokenError.Code(), apierror.InvalidAuthTokenError)
			}

			ctx := c.Request().Context()
			sess, err := verifier.Verify(ctx, raw)
			if err != nil {
				log.Debugf("rejected bearer token: %v", err)
				return c.JSON(apierror.InvalidAuthTokenError.Code(), apierror.InvalidAuthTokenError)
			}

			if revocations != nil && sess.TokenID != "" {
				revoked, err := revocations.IsRevoked(ctx, sess.TokenID)
				if err != nil {
					log.Errorf("failed to check revocation of token %s: %v", sess.TokenID, err)
					return c.JSON(apierror.InternalServerError.Code(), apierror.InternalServerError)
				}
				if revoked {
					return c.JSON(apierror.InvalidAuthTokenError.Code(), apierror.InvalidAuthTokenError)
				}
			}

			setSession(c, sess)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
