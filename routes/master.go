package routes

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"hotel-concierge-platform/internal/ai"
	"hotel-concierge-platform/internal/auth"
	"hotel-concierge-platform/internal/config"
	"hotel-concierge-platform/internal/queue"
	"hotel-concierge-platform/internal/tariff"
	"hotel-concierge-platform/middleware"
	"hotel-concierge-platform/models"
	"hotel-concierge-platform/services"
	"hotel-concierge-platform/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTemplateVersion = "1.0.0"

// SetupMasterRoutes wires the superadmin panel: tenant lifecycle, platform
// users, tariffs, impersonation and bulk operations.
func SetupMasterRoutes(router *gin.Engine, cfg *config.Config, db *mongo.Database, rdb *redis.Client,
	asynqClient *asynq.Client, authMW *middleware.AuthMiddleware, roleMW *middleware.RoleMiddleware) {

	group := router.Group("/api/master")
	group.Use(authMW.RequireAuth(), roleMW.SuperadminGuard(),
		middleware.RoleBasedRateLimit(rdb, cfg))

	tenants := db.Collection("tenants")
	users := db.Collection("users")
	messages := db.Collection("messages")
	documents := db.Collection("documents")
	tariffs := db.Collection("tariffs")

	// --- tenants ---

	group.GET("/tenants", func(c *gin.Context) {
		cursor, err := tenants.Find(context.Background(), bson.M{},
			options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to list tenants", nil)
			return
		}
		defer cursor.Close(context.Background())

		var list []models.Tenant
		if err := cursor.All(context.Background(), &list); err != nil {
			utils.RespondWithInternalError(c, "Failed to decode tenants", nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tenants": list, "total": len(list)})
	})

	group.POST("/tenants", func(c *gin.Context) {
		var req models.CreateTenantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		if err := tenants.FindOne(context.Background(), bson.M{"slug": req.Slug}).Err(); err == nil {
			utils.RespondWithError(c, http.StatusConflict,
				"slug_exists", "A tenant with this slug already exists", nil)
			return
		}

		tariffID := req.TariffID
		if tariffID == "" {
			tariffID = "basic"
		}
		status := req.Status
		if status == "" {
			status = "active"
		}

		widgetSecret, err := utils.GenerateWidgetSecret()
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to create tenant", nil)
			return
		}

		now := time.Now()
		tenant := models.Tenant{
			Slug:            req.Slug,
			Name:            req.Name,
			Description:     req.Description,
			OwnerEmail:      req.OwnerEmail,
			OwnerPhone:      req.OwnerPhone,
			TariffID:        tariffID,
			TemplateVersion: defaultTemplateVersion,
			AutoUpdate:      true,
			Status:          status,
			WidgetSecret:    widgetSecret,
			Widget:          models.DefaultWidgetSettings(),
			Formatting:      models.DefaultFormattingSettings(),
			AI: models.AISettings{
				ChatProvider:      "openai",
				ChatModel:         ai.DefaultChatModel("openai"),
				EmbeddingProvider: "openai",
				EmbeddingModel:    ai.DefaultEmbeddingModel("openai"),
				Temperature:       0.7,
			},
			CreatedAt: now,
			UpdatedAt: now,
		}

		result, err := tenants.InsertOne(context.Background(), tenant)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to create tenant", nil)
			return
		}
		tenantID := result.InsertedID.(primitive.ObjectID)
		tenant.ID = tenantID

		// Second, non-transactional step: the owner login. On failure the
		// tenant record survives and the response names it so the operator
		// can retry user creation instead of re-creating the tenant.
		if req.OwnerUser != nil {
			hash, err := utils.HashPassword(req.OwnerUser.Password, cfg.BcryptCost)
			if err != nil {
				utils.RespondWithError(c, http.StatusInternalServerError,
					"owner_user_failed",
					"Tenant was created but the owner user could not be created. Retry user creation for this tenant.",
					gin.H{"tenant_id": tenantID.Hex(), "slug": tenant.Slug})
				return
			}

			owner := models.User{
				Username:     req.OwnerUser.Username,
				Name:         req.OwnerUser.Name,
				Email:        req.OwnerUser.Email,
				PasswordHash: hash,
				Role:         "admin",
				TenantID:     &tenantID,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if _, err := users.InsertOne(context.Background(), owner); err != nil {
				utils.RespondWithError(c, http.StatusInternalServerError,
					"owner_user_failed",
					"Tenant was created but the owner user could not be created. Retry user creation for this tenant.",
					gin.H{"tenant_id": tenantID.Hex(), "slug": tenant.Slug, "error": err.Error()})
				return
			}
		}

		c.JSON(http.StatusCreated, tenant)
	})

	group.GET("/tenants/:id", func(c *gin.Context) {
		tenant, ok := findTenantByID(c, tenants)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, tenant)
	})

	group.PUT("/tenants/:id", func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.RespondWithBadRequest(c, "Invalid tenant id", nil)
			return
		}

		var req models.UpdateTenantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		set := bson.M{"updated_at": time.Now()}
		if req.Name != nil {
			set["name"] = *req.Name
		}
		if req.Description != nil {
			set["description"] = *req.Description
		}
		if req.OwnerEmail != nil {
			set["owner_email"] = *req.OwnerEmail
		}
		if req.OwnerPhone != nil {
			set["owner_phone"] = *req.OwnerPhone
		}
		if req.TariffID != nil {
			if !validTariffID(*req.TariffID) {
				utils.RespondWithBadRequest(c, "Unknown tariff id",
					gin.H{"tariff_id": *req.TariffID, "known": tariff.PlanIDs()})
				return
			}
			set["tariff_id"] = *req.TariffID
		}
		if req.TemplateVersion != nil {
			set["template_version"] = *req.TemplateVersion
		}
		if req.AutoUpdate != nil {
			set["auto_update"] = *req.AutoUpdate
		}
		if req.Status != nil {
			set["status"] = *req.Status
		}

		result, err := tenants.UpdateOne(context.Background(),
			bson.M{"_id": oid}, bson.M{"$set": set})
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to update tenant", nil)
			return
		}
		if result.MatchedCount == 0 {
			utils.RespondWithNotFound(c, "Tenant not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": true})
	})

	group.DELETE("/tenants/:id", func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.RespondWithBadRequest(c, "Invalid tenant id", nil)
			return
		}

		// Suspension, not removal. Transcripts and documents stay for audit.
		result, err := tenants.UpdateOne(context.Background(),
			bson.M{"_id": oid},
			bson.M{"$set": bson.M{"status": "suspended", "updated_at": time.Now()}})
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to suspend tenant", nil)
			return
		}
		if result.MatchedCount == 0 {
			utils.RespondWithNotFound(c, "Tenant not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"suspended": true})
	})

	group.POST("/tenants/bulk-version-update", func(c *gin.Context) {
		var req models.BulkVersionUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		task, err := queue.NewBulkVersionUpdateTask(req.TargetVersion, req.Selection, middleware.GetUserID(c))
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to build task", nil)
			return
		}
		info, err := asynqClient.Enqueue(task)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to enqueue version update", nil)
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"task_id":        info.ID,
			"target_version": req.TargetVersion,
			"scope":          bulkScope(req.Selection),
		})
	})

	group.POST("/tenants/:id/impersonate", func(c *gin.Context) {
		tenant, ok := findTenantByID(c, tenants)
		if !ok {
			return
		}

		pair, err := auth.IssueTokenPair(
			middleware.GetUserID(c), tenant.ID.Hex(), "superadmin", true, rdb)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to mint impersonation session", nil)
			return
		}
		authMW.SetTokenCookies(c, pair)

		c.JSON(http.StatusOK, gin.H{
			"access_token":  pair.AccessToken,
			"refresh_token": pair.RefreshToken,
			"access_exp":    pair.AccessExp,
			"tenant":        gin.H{"id": tenant.ID.Hex(), "slug": tenant.Slug, "name": tenant.Name},
			"impersonating": true,
		})
	})

	group.GET("/tenants/:id/usage", func(c *gin.Context) {
		tenant, ok := findTenantByID(c, tenants)
		if !ok {
			return
		}

		ctx := context.Background()
		since := time.Now().AddDate(0, 0, -30)
		messages30d, err := messages.CountDocuments(ctx, bson.M{
			"tenant_id": tenant.ID,
			"timestamp": bson.M{"$gte": since},
		})
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to count messages", nil)
			return
		}
		docCount, err := documents.CountDocuments(ctx, bson.M{"tenant_id": tenant.ID})
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to count documents", nil)
			return
		}

		var last models.Message
		lastActivity := time.Time{}
		if err := messages.FindOne(ctx, bson.M{"tenant_id": tenant.ID},
			options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})).Decode(&last); err == nil {
			lastActivity = last.Timestamp
		}

		stats := models.TenantUsageStats{
			Tenant:       *tenant,
			LastActivity: lastActivity,
			Messages30d:  int(messages30d),
			Documents:    int(docCount),
		}

		if quota, err := ai.GetTenantQuotaStatus(ctx, db, tenant.Slug); err == nil {
			c.JSON(http.StatusOK, gin.H{"stats": stats, "ai_quota": quota})
			return
		}
		c.JSON(http.StatusOK, gin.H{"stats": stats})
	})

	group.PUT("/tenants/:id/ai-quota", func(c *gin.Context) {
		tenant, ok := findTenantByID(c, tenants)
		if !ok {
			return
		}

		var req struct {
			DailyTokenLimit int `json:"daily_token_limit" binding:"required,min=1"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		if err := ai.SetTenantQuotaLimit(context.Background(), db, tenant.Slug, req.DailyTokenLimit); err != nil {
			utils.RespondWithInternalError(c, "Failed to update quota", nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tenant_slug": tenant.Slug, "daily_token_limit": req.DailyTokenLimit})
	})

	// --- platform users ---

	group.GET("/users", func(c *gin.Context) {
		cursor, err := users.Find(context.Background(), bson.M{},
			options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to list users", nil)
			return
		}
		defer cursor.Close(context.Background())

		var list []models.User
		if err := cursor.All(context.Background(), &list); err != nil {
			utils.RespondWithInternalError(c, "Failed to decode users", nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": list, "total": len(list)})
	})

	group.POST("/users", func(c *gin.Context) {
		var req models.CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		if err := users.FindOne(context.Background(), bson.M{"username": req.Username}).Err(); err == nil {
			utils.RespondWithError(c, http.StatusConflict,
				"username_exists", "Username already exists", nil)
			return
		}

		var tenantID *primitive.ObjectID
		if req.TenantID != "" {
			oid, err := primitive.ObjectIDFromHex(req.TenantID)
			if err != nil {
				utils.RespondWithBadRequest(c, "Invalid tenant id", nil)
				return
			}
			if err := tenants.FindOne(context.Background(), bson.M{"_id": oid}).Err(); err != nil {
				utils.RespondWithNotFound(c, "Tenant not found")
				return
			}
			tenantID = &oid
		}
		if req.Role != "superadmin" && tenantID == nil {
			utils.RespondWithBadRequest(c, "Tenant-scoped roles require a tenant_id", nil)
			return
		}

		hash, err := utils.HashPassword(req.Password, cfg.BcryptCost)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to process password", nil)
			return
		}

		now := time.Now()
		user := models.User{
			Username:     req.Username,
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
			Role:         req.Role,
			TenantID:     tenantID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		result, err := users.InsertOne(context.Background(), user)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to create user", nil)
			return
		}
		user.ID = result.InsertedID.(primitive.ObjectID)
		c.JSON(http.StatusCreated, user)
	})

	group.PUT("/users/:id", func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.RespondWithBadRequest(c, "Invalid user id", nil)
			return
		}

		var req models.UpdateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		set := bson.M{"updated_at": time.Now()}
		revokeSessions := false
		if req.Name != nil {
			set["name"] = *req.Name
		}
		if req.Email != nil {
			set["email"] = *req.Email
		}
		if req.Role != nil {
			set["role"] = *req.Role
			revokeSessions = true
		}
		if req.Password != nil {
			hash, err := utils.HashPassword(*req.Password, cfg.BcryptCost)
			if err != nil {
				utils.RespondWithInternalError(c, "Failed to process password", nil)
				return
			}
			set["password_hash"] = hash
			revokeSessions = true
		}

		result, err := users.UpdateOne(context.Background(),
			bson.M{"_id": oid}, bson.M{"$set": set})
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to update user", nil)
			return
		}
		if result.MatchedCount == 0 {
			utils.RespondWithNotFound(c, "User not found")
			return
		}

		if revokeSessions {
			_ = auth.RevokeAllUserTokens(oid.Hex(), rdb)
		}
		c.JSON(http.StatusOK, gin.H{"updated": true, "sessions_revoked": revokeSessions})
	})

	group.DELETE("/users/:id", func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.RespondWithBadRequest(c, "Invalid user id", nil)
			return
		}
		if oid.Hex() == middleware.GetUserID(c) {
			utils.RespondWithBadRequest(c, "You cannot delete your own account", nil)
			return
		}

		result, err := users.DeleteOne(context.Background(), bson.M{"_id": oid})
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to delete user", nil)
			return
		}
		if result.DeletedCount == 0 {
			utils.RespondWithNotFound(c, "User not found")
			return
		}

		_ = auth.RevokeAllUserTokens(oid.Hex(), rdb)
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	})

	// --- tariffs ---

	group.GET("/tariffs", func(c *gin.Context) {
		cursor, err := tariffs.Find(context.Background(), bson.M{},
			options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}}))
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to list tariffs", nil)
			return
		}
		defer cursor.Close(context.Background())

		var records []models.Tariff
		if err := cursor.All(context.Background(), &records); err != nil {
			utils.RespondWithInternalError(c, "Failed to decode tariffs", nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tariffs": tariffPlanViews(records)})
	})

	group.POST("/tariffs", func(c *gin.Context) {
		var plan models.Tariff
		if err := c.ShouldBindJSON(&plan); err != nil {
			utils.RespondWithBadRequest(c, "Invalid tariff data", gin.H{"error": err.Error()})
			return
		}
		if !validTariffID(plan.PlanID) {
			utils.RespondWithBadRequest(c, "Unknown plan id",
				gin.H{"plan_id": plan.PlanID, "known": tariff.PlanIDs()})
			return
		}
		if err := tariffs.FindOne(context.Background(),
			bson.M{"plan_id": plan.PlanID}).Err(); err == nil {
			utils.RespondWithError(c, http.StatusConflict,
				"plan_exists", "A tariff record for this plan already exists", nil)
			return
		}

		plan.ID = primitive.NilObjectID
		plan.CreatedAt = time.Now()
		plan.UpdatedAt = plan.CreatedAt
		result, err := tariffs.InsertOne(context.Background(), plan)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to create tariff", nil)
			return
		}
		plan.ID = result.InsertedID.(primitive.ObjectID)
		c.JSON(http.StatusCreated, plan)
	})

	group.PUT("/tariffs/:id", func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.RespondWithBadRequest(c, "Invalid tariff id", nil)
			return
		}

		var req models.UpdateTariffRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		set := bson.M{"updated_at": time.Now()}
		if req.Name != nil {
			set["name"] = *req.Name
		}
		if req.Price != nil {
			set["price"] = *req.Price
		}
		if req.RenewalPrice != nil {
			set["renewal_price"] = *req.RenewalPrice
		}
		if req.SetupFee != nil {
			set["setup_fee"] = *req.SetupFee
		}
		if req.Currency != nil {
			set["currency"] = *req.Currency
		}
		if req.Features != nil {
			set["features"] = *req.Features
		}
		if req.Popular != nil {
			set["popular"] = *req.Popular
		}
		if req.Active != nil {
			set["active"] = *req.Active
		}
		if req.SortOrder != nil {
			set["sort_order"] = *req.SortOrder
		}

		result, err := tariffs.UpdateOne(context.Background(),
			bson.M{"_id": oid}, bson.M{"$set": set})
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to update tariff", nil)
			return
		}
		if result.MatchedCount == 0 {
			utils.RespondWithNotFound(c, "Tariff not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": true})
	})

	group.DELETE("/tariffs/:id", func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.RespondWithBadRequest(c, "Invalid tariff id", nil)
			return
		}

		// Deactivation, not removal. Tenants keep referencing the plan id.
		result, err := tariffs.UpdateOne(context.Background(),
			bson.M{"_id": oid},
			bson.M{"$set": bson.M{"active": false, "updated_at": time.Now()}})
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to deactivate tariff", nil)
			return
		}
		if result.MatchedCount == 0 {
			utils.RespondWithNotFound(c, "Tariff not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"deactivated": true})
	})

	// --- usage export ---

	exporter := services.NewExportService(db)
	group.GET("/tenants/:id/export", func(c *gin.Context) {
		tenant, ok := findTenantByID(c, tenants)
		if !ok {
			return
		}

		req, err := exportRequestFromQuery(
			c.DefaultQuery("format", "excel"),
			c.Query("date_from"), c.Query("date_to"),
			c.Query("session_id"), c.Query("limit"))
		if err != nil {
			utils.RespondWithBadRequest(c, err.Error(), nil)
			return
		}

		result, err := exporter.ExportConversations(context.Background(), tenant.ID, req)
		if err != nil {
			utils.RespondWithInternalError(c, "Export failed", gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
		c.Header("X-Record-Count", strconv.Itoa(result.RecordCount))
		c.Data(http.StatusOK, result.ContentType, result.Data)
	})
}

// tariffPlanViews merges stored plan records with the static capability
// table. Every known plan appears once; a stored record contributes its
// pricing and marketing fields when present.
func tariffPlanViews(records []models.Tariff) []gin.H {
	byPlan := make(map[string]models.Tariff, len(records))
	for _, r := range records {
		byPlan[r.PlanID] = r
	}

	ids := tariff.PlanIDs()
	sort.Strings(ids)

	views := make([]gin.H, 0, len(ids))
	for _, id := range ids {
		view := gin.H{"id": id, "limits": tariff.Resolve(id)}
		if r, ok := byPlan[id]; ok {
			view["record"] = r
		}
		views = append(views, view)
	}
	return views
}

// exportRequestFromQuery validates the master export query params. Dates are
// RFC3339; format defaults to excel upstream.
func exportRequestFromQuery(format, dateFrom, dateTo, sessionID, limit string) (services.ExportRequest, error) {
	req := services.ExportRequest{Format: format, SessionID: sessionID}
	if format != "json" && format != "excel" {
		return req, errors.New("format must be json or excel")
	}
	if dateFrom != "" {
		ts, err := time.Parse(time.RFC3339, dateFrom)
		if err != nil {
			return req, errors.New("date_from must be RFC3339")
		}
		req.DateFrom = ts
	}
	if dateTo != "" {
		ts, err := time.Parse(time.RFC3339, dateTo)
		if err != nil {
			return req, errors.New("date_to must be RFC3339")
		}
		req.DateTo = ts
	}
	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n <= 0 {
			return req, errors.New("limit must be a positive integer")
		}
		req.Limit = n
	}
	return req, nil
}

func findTenantByID(c *gin.Context, tenants *mongo.Collection) (*models.Tenant, bool) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.RespondWithBadRequest(c, "Invalid tenant id", nil)
		return nil, false
	}

	var tenant models.Tenant
	if err := tenants.FindOne(context.Background(), bson.M{"_id": oid}).Decode(&tenant); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithNotFound(c, "Tenant not found")
		} else {
			utils.RespondWithInternalError(c, "Failed to load tenant", nil)
		}
		return nil, false
	}
	return &tenant, true
}

func validTariffID(id string) bool {
	for _, known := range tariff.PlanIDs() {
		if known == id {
			return true
		}
	}
	return false
}

func bulkScope(selection []string) string {
	if len(selection) == 0 {
		return "all_auto_update"
	}
	return "selection"
}
