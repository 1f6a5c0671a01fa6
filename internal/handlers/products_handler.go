package handlers

import (
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/imrishuroy/go-storefront-backend/internal/aws"
	"github.com/imrishuroy/go-storefront-backend/internal/catalog"
	"github.com/imrishuroy/go-storefront-backend/internal/identity"
	"github.com/imrishuroy/go-storefront-backend/internal/media"
	"github.com/imrishuroy/go-storefront-backend/internal/metrics"
	"github.com/imrishuroy/go-storefront-backend/internal/validation"
)

// IdentityHeader carries the authenticated caller's user id, set by the
// upstream auth layer (API Gateway authorizer in the Lambda deployment).
const IdentityHeader = "X-User-Id"

// HandlerConfig groups dependencies for the storefront handlers.
type HandlerConfig struct {
	DynamoDBClient   aws.DynamoDBAPI
	S3Client         aws.S3API
	SQSClient        aws.SQSAPI
	CloudWatchClient aws.CloudWatchAPI
	ProductsTable    string
	UsersTable       string
	OrdersTable      string
	MediaBucket      string
	Region           string
	QueueURL         string
	MetricsNamespace string
	UploadTimeout    time.Duration
	TempDir          string // spool dir for multipart file parts; "" -> os.TempDir()
}

// RegisterProductRoutes registers routes for the product catalog API.
func RegisterProductRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	products := catalog.NewStore(cfg.DynamoDBClient, cfg.ProductsTable)
	users := identity.NewStore(cfg.DynamoDBClient, cfg.UsersTable)
	uploader := media.NewUploader(cfg.S3Client, cfg.MediaBucket, cfg.Region, cfg.UploadTimeout)
	emitter := metrics.NewEmitter(cfg.CloudWatchClient, cfg.MetricsNamespace)

	tempDir := cfg.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}

	r.POST("/products", func(c *gin.Context) {
		ctx := c.Request.Context()

		// fail-closed: an unknown user or a lookup error denies, never a 500
		if !users.IsAdmin(ctx, c.GetHeader(IdentityHeader)) {
			c.JSON(http.StatusForbidden, gin.H{"message": "User does not have admin role"})
			return
		}

		var req validation.CreateProductRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}

		thumbFile, err := c.FormFile("thumbnail")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "invalid_request_body",
				"msg":   "thumbnail file is required",
			})
			return
		}
		var imageFiles []*multipart.FileHeader
		if form, ferr := c.MultipartForm(); ferr == nil && form != nil {
			imageFiles = form.File["images"]
		}

		// spool every part to a local temp file first; uploads read from disk
		// and delete their own temp file after success
		thumbPath, err := saveTempFile(c, thumbFile, tempDir)
		if err != nil {
			log.WithError(err).Error("failed to spool thumbnail")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		imagePaths := make([]string, 0, len(imageFiles))
		for _, f := range imageFiles {
			p, err := saveTempFile(c, f, tempDir)
			if err != nil {
				log.WithError(err).Error("failed to spool image")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			imagePaths = append(imagePaths, p)
		}

		uploadStart := time.Now()

		thumbURL, err := uploader.UploadFile(ctx, thumbPath)
		if err != nil {
			log.WithError(err).Error("thumbnail upload failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		// fan-out/fan-in: all gallery uploads run concurrently, results keep
		// the caller-supplied order; the first failure aborts the request and
		// leaves already-uploaded siblings orphaned in the bucket
		imageURLs, err := uploader.UploadAll(ctx, imagePaths)
		if err != nil {
			log.WithError(err).Error("gallery upload failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		emitter.ObserveUploadDuration(ctx, time.Since(uploadStart))

		product := catalog.Product{
			ProductID:          uuid.NewString(),
			Title:              req.Title,
			Slug:               catalog.Slugify(req.Title),
			Category:           req.Category,
			Price:              req.Price,
			Thumbnail:          thumbURL,
			Rating:             req.Rating,
			DiscountPercentage: req.DiscountPercentage,
			Description:        req.Description,
			Images:             imageURLs,
			Stock:              req.Stock,
			Brand:              req.Brand,
		}
		if err := products.Create(ctx, &product); err != nil {
			// uploaded objects are not compensated; they stay orphaned
			log.WithError(err).Error("failed to persist product")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		emitter.CountProductCreated(ctx)

		c.JSON(http.StatusCreated, gin.H{
			"message": "Product created successfully",
			"product": product,
		})
	})

	r.GET("/products", func(c *gin.Context) {
		all, err := products.List(c.Request.Context())
		if err != nil {
			log.WithError(err).Error("failed to list products")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred, products not found"})
			return
		}
		c.JSON(http.StatusOK, all)
	})

	r.GET("/products/:slug", func(c *gin.Context) {
		slug := strings.ToLower(c.Param("slug"))
		product, err := products.GetBySlug(c.Request.Context(), slug)
		if err != nil {
			log.WithError(err).Error("failed to get product")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred, products not found"})
			return
		}
		// a missing slug is not an error: the body is JSON null with a 200
		c.JSON(http.StatusOK, product)
	})

	r.PUT("/products/:slug", func(c *gin.Context) {
		slug := strings.ToLower(c.Param("slug"))

		var fields map[string]interface{}
		if err := c.ShouldBindJSON(&fields); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "invalid_request_body",
				"msg":   err.Error(),
			})
			return
		}

		updated, err := products.UpdateBySlug(c.Request.Context(), slug, fields)
		if err == catalog.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"msg": "Product not found"})
			return
		}
		if err != nil {
			log.WithError(err).Error("failed to update product")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"msg":  "Product updated successfully",
			"data": updated,
		})
	})
}

// saveTempFile writes a multipart part to a uniquely named file under dir,
// mirroring the temp-file staging the upload pipeline expects. The file is
// deleted by the uploader after a successful upload; on upload failure it
// stays on disk.
func saveTempFile(c *gin.Context, file *multipart.FileHeader, dir string) (string, error) {
	dst := filepath.Join(dir, uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", err
	}
	return dst, nil
}
