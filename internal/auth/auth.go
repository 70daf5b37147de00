package auth

import (
	"context"
	"strings"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"loftonrealty/server/internal/models"
)

const accountKey = "account"

// TokenVerifier checks a Firebase ID token and returns its claims.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error)
}

// NewFirebaseApp initializes the Firebase Admin SDK. When no credentials
// file is configured the SDK falls back to application default credentials.
func NewFirebaseApp(ctx context.Context, projectID, credentialsFile string) (*firebase.App, error) {
	conf := &firebase.Config{ProjectID: projectID}
	if credentialsFile != "" {
		return firebase.NewApp(ctx, conf, option.WithCredentialsFile(credentialsFile))
	}
	return firebase.NewApp(ctx, conf)
}

// Middleware resolves the signed-in account from the Authorization header.
// Requests without a token pass through anonymously; endpoints that need
// an account check for one themselves. An invalid token is treated as
// anonymous rather than rejected so public pages keep working with a
// stale session.
func Middleware(verifier TokenVerifier, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		idToken, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || idToken == "" {
			c.Next()
			return
		}

		token, err := verifier.VerifyIDToken(c.Request.Context(), idToken)
		if err != nil {
			logger.WithError(err).Debug("Rejected ID token")
			c.Next()
			return
		}

		account := &models.Account{UID: token.UID}
		if name, ok := token.Claims["name"].(string); ok {
			account.Name = name
		}
		if email, ok := token.Claims["email"].(string); ok {
			account.Email = email
		}

		c.Set(accountKey, account)
		c.Next()
	}
}

// AccountFrom returns the signed-in account for the request, or nil for
// anonymous traffic.
func AccountFrom(c *gin.Context) *models.Account {
	v, ok := c.Get(accountKey)
	if !ok {
		return nil
	}
	account, ok := v.(*models.Account)
	if !ok {
		return nil
	}
	return account
}
