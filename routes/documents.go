package routes

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"hotel-concierge-platform/internal/config"
	"hotel-concierge-platform/internal/queue"
	"hotel-concierge-platform/internal/tariff"
	"hotel-concierge-platform/middleware"
	"hotel-concierge-platform/models"
	"hotel-concierge-platform/services"
	"hotel-concierge-platform/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupDocumentRoutes wires the tenant knowledge base: PDF upload, listing,
// deletion and the site importer. Upload counts against the tariff's
// document quota.
func SetupDocumentRoutes(router *gin.Engine, cfg *config.Config, db *mongo.Database,
	asynqClient *asynq.Client, authMW *middleware.AuthMiddleware,
	roleMW *middleware.RoleMiddleware, featureMW *middleware.FeatureCheckMiddleware) {

	group := router.Group("/api/tenant/documents")
	group.Use(authMW.RequireAuth(), roleMW.TenantGuard())

	documents := db.Collection("documents")
	chunks := db.Collection("document_chunks")
	tenants := db.Collection("tenants")

	group.GET("", func(c *gin.Context) {
		tenant, ok := loadSessionTenant(c, tenants)
		if !ok {
			return
		}

		cursor, err := documents.Find(context.Background(),
			bson.M{"tenant_id": tenant.ID},
			options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to list documents", nil)
			return
		}
		defer cursor.Close(context.Background())

		var list []models.Document
		if err := cursor.All(context.Background(), &list); err != nil {
			utils.RespondWithInternalError(c, "Failed to decode documents", nil)
			return
		}

		limits := tariff.Resolve(tenant.TariffID)
		c.JSON(http.StatusOK, gin.H{
			"documents":     list,
			"total":         len(list),
			"max_documents": limits.MaxDocuments,
		})
	})

	group.POST("", func(c *gin.Context) {
		tenant, ok := loadSessionTenant(c, tenants)
		if !ok {
			return
		}

		count, err := documents.CountDocuments(context.Background(), bson.M{"tenant_id": tenant.ID})
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to check document quota", nil)
			return
		}

		viewer := middleware.ViewerFromContext(c)
		if !tariff.CanUploadMoreDocuments(viewer, int(count), tenant.TariffID) {
			utils.RespondWithError(c, http.StatusForbidden,
				"document_quota_exceeded",
				"Document limit for your plan has been reached.",
				gin.H{"current": count, "max": tariff.Resolve(tenant.TariffID).MaxDocuments})
			return
		}

		file, err := c.FormFile("file")
		if err != nil {
			utils.RespondWithBadRequest(c, "A file upload is required", nil)
			return
		}
		if file.Size > cfg.MaxFileSize {
			utils.RespondWithError(c, http.StatusRequestEntityTooLarge,
				"file_too_large", "File exceeds the upload size limit",
				gin.H{"max_bytes": cfg.MaxFileSize})
			return
		}
		if !allowedContentType(file.Header.Get("Content-Type"), cfg.AllowedTypes) {
			utils.RespondWithBadRequest(c, "Unsupported file type",
				gin.H{"allowed": cfg.AllowedTypes})
			return
		}

		storageDir := filepath.Join(cfg.FileStorageDir, tenant.ID.Hex())
		if err := os.MkdirAll(storageDir, 0o755); err != nil {
			utils.RespondWithInternalError(c, "Failed to prepare storage", nil)
			return
		}
		storedPath := filepath.Join(storageDir,
			fmt.Sprintf("%s%s", uuid.NewString(), filepath.Ext(file.Filename)))
		if err := c.SaveUploadedFile(file, storedPath); err != nil {
			utils.RespondWithInternalError(c, "Failed to store file", nil)
			return
		}

		now := time.Now()
		doc := models.Document{
			ID:        primitive.NewObjectID(),
			TenantID:  tenant.ID,
			Name:      file.Filename,
			Filename:  file.Filename,
			Source:    "upload",
			Size:      file.Size,
			Status:    "pending",
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := documents.InsertOne(context.Background(), doc); err != nil {
			utils.RespondWithInternalError(c, "Failed to create document record", nil)
			return
		}

		task, err := queue.NewDocumentIngestTask(tenant.ID.Hex(), doc.ID.Hex(), storedPath)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to build ingestion task", nil)
			return
		}
		if _, err := asynqClient.Enqueue(task); err != nil {
			utils.RespondWithInternalError(c, "Failed to enqueue ingestion", nil)
			return
		}

		_, _ = tenants.UpdateOne(context.Background(),
			bson.M{"_id": tenant.ID},
			bson.M{"$inc": bson.M{"doc_count": 1}})

		c.JSON(http.StatusAccepted, doc)
	})

	group.DELETE("/:doc_id", func(c *gin.Context) {
		tenant, ok := loadSessionTenant(c, tenants)
		if !ok {
			return
		}

		oid, err := primitive.ObjectIDFromHex(c.Param("doc_id"))
		if err != nil {
			utils.RespondWithBadRequest(c, "Invalid document id", nil)
			return
		}

		result, err := documents.DeleteOne(context.Background(),
			bson.M{"_id": oid, "tenant_id": tenant.ID})
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to delete document", nil)
			return
		}
		if result.DeletedCount == 0 {
			utils.RespondWithNotFound(c, "Document not found")
			return
		}

		if _, err := chunks.DeleteMany(context.Background(),
			bson.M{"document_id": oid}); err != nil {
			utils.RespondWithInternalError(c, "Document removed but chunk cleanup failed", nil)
			return
		}
		_, _ = tenants.UpdateOne(context.Background(),
			bson.M{"_id": tenant.ID},
			bson.M{"$inc": bson.M{"doc_count": -1}})

		c.JSON(http.StatusOK, gin.H{"deleted": true})
	})

	// --- site import, premium and up ---

	importer := services.NewSiteImporter(db)
	group.POST("/site-import",
		featureMW.RequireFeature(tariff.FeatureSiteImport),
		func(c *gin.Context) {
			tenant := middleware.TenantFromContext(c)

			var req struct {
				URL      string `json:"url" binding:"required,url"`
				MaxPages int    `json:"max_pages,omitempty"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				utils.RespondWithBadRequest(c, "Invalid import request", gin.H{"error": err.Error()})
				return
			}

			result, err := importer.ImportSite(c.Request.Context(), tenant.ID, req.URL, req.MaxPages)
			if err != nil {
				utils.RespondWithBadRequest(c, "Site import failed", gin.H{"error": err.Error()})
				return
			}

			// each captured page goes through the same ingestion pipeline as
			// an uploaded PDF
			for _, docID := range result.DocumentIDs {
				task, err := queue.NewDocumentIngestTask(tenant.ID.Hex(), docID, "")
				if err != nil {
					continue
				}
				_, _ = asynqClient.Enqueue(task)
			}

			c.JSON(http.StatusAccepted, result)
		})
}

func allowedContentType(contentType string, allowed []string) bool {
	for _, t := range allowed {
		if t == contentType {
			return true
		}
	}
	return false
}
