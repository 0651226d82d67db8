package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Shreevatsags/ecommerce-platform/internal/api/handler/v1/response"
)

// ContextKeyHolderID is where VerifyJWT stores the authenticated holder
// identity (the token subject) for handlers downstream.
const ContextKeyHolderID = "holderID"

type Authenticator struct {
	signingKey string
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: signingKey,
	}
}

func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" {
			response.RenderErr(ctx, response.ErrUnauthorized("authorization header is missing"))
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			response.RenderErr(ctx, response.ErrUnauthorized("authorization header is not a bearer token"))
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}

			return []byte(a.signingKey), nil
		})
		if err != nil || !token.Valid {
			response.RenderErr(ctx, response.ErrUnauthorized("token is invalid or expired"))
			return
		}

		if claims.Subject == "" {
			response.RenderErr(ctx, response.ErrUnauthorized("token has no subject"))
			return
		}

		ctx.Set(ContextKeyHolderID, claims.Subject)
		ctx.Next()
	}
}
