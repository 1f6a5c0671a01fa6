package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/imrishuroy/go-storefront-backend/internal/aws"
	"github.com/imrishuroy/go-storefront-backend/internal/handlers"
)

func setupLogger() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)
}

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterProductRoutes(r, cfg)
	handlers.RegisterOrderRoutes(r, cfg)

	return r
}

func uploadTimeoutFromEnv() time.Duration {
	v := os.Getenv("UPLOAD_TIMEOUT_SECONDS")
	if v == "" {
		return 0 // uploader falls back to its default
	}
	sec, err := strconv.Atoi(v)
	if err != nil || sec <= 0 {
		log.WithField("value", v).Warn("invalid UPLOAD_TIMEOUT_SECONDS, using default")
		return 0
	}
	return time.Duration(sec) * time.Second
}

func main() {
	setupLogger()

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.WithError(err).Fatal("failed to init aws clients")
	}

	cfg := handlers.HandlerConfig{
		DynamoDBClient:   clients.DynamoDB,
		S3Client:         clients.S3,
		SQSClient:        clients.SQS,
		CloudWatchClient: clients.CloudWatch,
		ProductsTable:    os.Getenv("PRODUCTS_TABLE"),
		UsersTable:       os.Getenv("USERS_TABLE"),
		OrdersTable:      os.Getenv("ORDERS_TABLE"),
		MediaBucket:      os.Getenv("MEDIA_BUCKET"),
		Region:           clients.Region,
		QueueURL:         os.Getenv("ORDER_EVENTS_QUEUE_URL"),
		MetricsNamespace: os.Getenv("METRICS_NAMESPACE"),
		UploadTimeout:    uploadTimeoutFromEnv(),
	}

	r := setupRouter(cfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		log.WithField("addr", addr).Info("running local server")
		if err := r.Run(addr); err != nil {
			log.WithError(err).Fatal("failed to run local server")
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		// the adapter handles proxying; use adapter.ProxyWithContext for proper context propagation
		return adapter.ProxyWithContext(ctx, req)
	})
}
