package routes

import (
	"context"
	"net/http"
	"time"

	"hotel-concierge-platform/internal/auth"
	"hotel-concierge-platform/internal/config"
	"hotel-concierge-platform/middleware"
	"hotel-concierge-platform/models"
	"hotel-concierge-platform/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func SetupAuthRoutes(router *gin.Engine, cfg *config.Config, db *mongo.Database, rdb *redis.Client, authMW *middleware.AuthMiddleware) {
	group := router.Group("/api/auth")
	users := db.Collection("users")

	group.POST("/login", func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := users.FindOne(context.Background(), bson.M{"username": req.Username}).Decode(&user); err != nil {
			utils.RespondWithError(c, http.StatusUnauthorized,
				"invalid_credentials", "Invalid username or password", nil)
			return
		}

		if !utils.CheckPassword(req.Password, user.PasswordHash) {
			utils.RespondWithError(c, http.StatusUnauthorized,
				"invalid_credentials", "Invalid username or password", nil)
			return
		}

		tenantID := ""
		if user.TenantID != nil {
			tenantID = user.TenantID.Hex()
		}

		pair, err := auth.IssueTokenPair(user.ID.Hex(), tenantID, user.Role, false, rdb)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to create session", nil)
			return
		}
		authMW.SetTokenCookies(c, pair)

		c.JSON(http.StatusOK, models.TokenPairResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			AccessExp:    pair.AccessExp,
			RefreshExp:   pair.RefreshExp,
			User: models.UserInfo{
				ID:       user.ID.Hex(),
				Username: user.Username,
				Name:     user.Name,
				Email:    user.Email,
				Role:     user.Role,
				TenantID: tenantID,
			},
		})
	})

	group.POST("/refresh", func(c *gin.Context) {
		refreshToken := utils.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if refreshToken == "" {
			if cookie, err := c.Cookie("refresh_token"); err == nil {
				refreshToken = cookie
			}
		}
		if refreshToken == "" {
			utils.RespondWithUnauthorized(c, "Refresh token required")
			return
		}

		claims, err := auth.ValidateRefreshToken(refreshToken, rdb)
		if err != nil {
			utils.RespondWithError(c, http.StatusUnauthorized,
				"refresh_token_expired", "Refresh token is invalid or expired", nil)
			return
		}

		// rotation: the presented refresh token is dead after this call
		_ = auth.RevokeToken(claims.ID, true, rdb)

		pair, err := auth.IssueTokenPair(claims.UserID, claims.TenantID, claims.Role, claims.Impersonating, rdb)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to refresh session", nil)
			return
		}
		authMW.SetTokenCookies(c, pair)

		c.JSON(http.StatusOK, gin.H{
			"access_token":  pair.AccessToken,
			"refresh_token": pair.RefreshToken,
			"access_exp":    pair.AccessExp,
			"refresh_exp":   pair.RefreshExp,
		})
	})

	group.POST("/logout", authMW.RequireAuth(), func(c *gin.Context) {
		if claims, exists := c.Get("claims"); exists {
			if cl, ok := claims.(*auth.Claims); ok {
				_ = auth.RevokeToken(cl.ID, false, rdb)
			}
		}
		if refreshToken, err := c.Cookie("refresh_token"); err == nil && refreshToken != "" {
			if cl, err := auth.ValidateRefreshToken(refreshToken, rdb); err == nil {
				_ = auth.RevokeToken(cl.ID, true, rdb)
			}
		}

		secure := cfg.GinMode == "release"
		c.SetCookie("access_token", "", -1, "/", "", secure, true)
		c.SetCookie("refresh_token", "", -1, "/", "", secure, true)
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	})

	group.GET("/me", authMW.RequireAuth(), func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		oid, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			utils.RespondWithUnauthorized(c, "Invalid session")
			return
		}

		var user models.User
		if err := users.FindOne(context.Background(), bson.M{"_id": oid}).Decode(&user); err != nil {
			utils.RespondWithNotFound(c, "User not found")
			return
		}

		tenantID := ""
		if user.TenantID != nil {
			tenantID = user.TenantID.Hex()
		}
		c.JSON(http.StatusOK, gin.H{
			"user": models.UserInfo{
				ID:       user.ID.Hex(),
				Username: user.Username,
				Name:     user.Name,
				Email:    user.Email,
				Role:     user.Role,
				TenantID: tenantID,
			},
			"impersonating": middleware.IsImpersonating(c),
			"checked_at":    time.Now(),
		})
	})
}
