package middleware

import (
	"net/http"
	"time"

	"hotel-concierge-platform/internal/auth"
	"hotel-concierge-platform/internal/config"
	"hotel-concierge-platform/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type AuthMiddleware struct {
	config *config.Config
	rdb    *redis.Client
}

func NewAuthMiddleware(cfg *config.Config, rdb *redis.Client) *AuthMiddleware {
	return &AuthMiddleware{
		config: cfg,
		rdb:    rdb,
	}
}

func (a *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		var tokenString string

		if authHeader != "" {
			tokenString = utils.ExtractTokenFromHeader(authHeader)
		}

		// Fall back to the access_token cookie
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			utils.RespondWithError(c, http.StatusUnauthorized,
				"unauthorized", "Authentication token is required", nil)
			c.Abort()
			return
		}

		claims, err := auth.ValidateAccessToken(tokenString, a.rdb)
		if err != nil {
			// Try to auto-refresh from the refresh cookie
			if refreshToken, cookieErr := c.Cookie("refresh_token"); cookieErr == nil && refreshToken != "" {
				if refreshClaims, refreshErr := auth.ValidateRefreshToken(refreshToken, a.rdb); refreshErr == nil {
					// Rotate: old refresh JTI is revoked before the new pair goes out
					_ = auth.RevokeToken(refreshClaims.ID, true, a.rdb)

					tokenPair, issueErr := auth.IssueTokenPair(
						refreshClaims.UserID, refreshClaims.TenantID, refreshClaims.Role,
						refreshClaims.Impersonating, a.rdb)
					if issueErr == nil {
						a.setTokenCookies(c, tokenPair)
						if freshClaims, valErr := auth.ValidateAccessToken(tokenPair.AccessToken, a.rdb); valErr == nil {
							claims = freshClaims
						}
					}
				}
			}

			if claims == nil {
				errorCode := "session_expired"
				refreshToken, refreshErr := c.Cookie("refresh_token")
				if refreshErr == nil && refreshToken != "" {
					if _, validationErr := auth.ValidateRefreshToken(refreshToken, a.rdb); validationErr != nil {
						errorCode = "refresh_token_expired"
					} else {
						errorCode = "token_refresh_failed"
					}
				}

				utils.RespondWithError(c, http.StatusUnauthorized,
					errorCode, "Your session has expired. Please log in again.",
					gin.H{"error": err.Error()})
				c.Abort()
				return
			}
		}

		setClaimsContext(c, claims)
		c.Next()
	})
}

func (a *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		var tokenString string

		if authHeader != "" {
			tokenString = utils.ExtractTokenFromHeader(authHeader)
		}
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString != "" {
			if claims, err := auth.ValidateAccessToken(tokenString, a.rdb); err == nil {
				setClaimsContext(c, claims)
				c.Set("authenticated", true)
			}
		}

		c.Next()
	})
}

func (a *AuthMiddleware) setTokenCookies(c *gin.Context, pair *auth.TokenPair) {
	secure := a.config.GinMode == "release"
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("access_token", pair.AccessToken,
		int(1*time.Hour.Seconds()), "/", "", secure, true)
	c.SetCookie("refresh_token", pair.RefreshToken,
		int(7*24*time.Hour.Seconds()), "/", "", secure, true)
}

// SetTokenCookies exposes cookie writing to the login and refresh handlers.
func (a *AuthMiddleware) SetTokenCookies(c *gin.Context, pair *auth.TokenPair) {
	a.setTokenCookies(c, pair)
}

func setClaimsContext(c *gin.Context, claims *auth.Claims) {
	c.Set("user_id", claims.UserID)
	c.Set("role", claims.Role)
	c.Set("tenant_id", claims.TenantID)
	c.Set("impersonating", claims.Impersonating)
	c.Set("claims", claims)
}

func IsAuthenticated(c *gin.Context) bool {
	_, exists := c.Get("user_id")
	return exists
}

func GetUserID(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return ""
}

func GetRole(c *gin.Context) string {
	if role, exists := c.Get("role"); exists {
		if r, ok := role.(string); ok {
			return r
		}
	}
	return ""
}

func GetTenantID(c *gin.Context) string {
	if tenantID, exists := c.Get("tenant_id"); exists {
		if id, ok := tenantID.(string); ok {
			return id
		}
	}
	return ""
}

// IsImpersonating reports whether the session was minted through the
// master-panel impersonation endpoint.
func IsImpersonating(c *gin.Context) bool {
	if v, exists := c.Get("impersonating"); exists {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}
