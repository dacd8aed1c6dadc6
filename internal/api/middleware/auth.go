package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rifaamiga/raffle-api/internal/pkg/jwthelper"
)

// ContextKeyUserID is where VerifyJWT stores the authenticated admin's ID.
const ContextKeyUserID = "user_id"

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT gates the admin surface. The token must carry the same user
// agent it was issued against.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		segments := strings.SplitN(header, " ", 2)
		if len(segments) != 2 || !strings.EqualFold(segments[0], "Bearer") {
			ctx.AbortWithStatus(http.StatusUnauthorized)

			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, segments[1])
		if err != nil {
			ctx.AbortWithStatus(http.StatusUnauthorized)

			return
		}

		if claims.UserAgent != ctx.Request.UserAgent() {
			ctx.AbortWithStatus(http.StatusUnauthorized)

			return
		}

		ctx.Set(ContextKeyUserID, claims.UserID)
		ctx.Next()
	}
}
