package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/ai"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/apperrors"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/config"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/controllers"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/events"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/logger"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/middleware"
	aws_pkg "github.com/MdFaizanuddin1/Ecommerce-Full-stack/pkg/aws"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/payment"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/repository"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/routes"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/services"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/storage"
	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const serviceName = "storefront-api"

type app struct {
	cfg      *config.Config
	stores   *stores
	engine   *gin.Engine
	limiter  *middleware.RateLimiter
	consumer *events.OrderPaidConsumer
	gemini   *ai.GeminiClient
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	awsCfg, awsErr := aws_pkg.LoadAWSConfig(ctx)
	if awsErr != nil {
		zap.L().Warn("AWS config unavailable, AWS backed features disabled", zap.Error(awsErr))
	}
	hasAWS := awsErr == nil

	if hasAWS && os.Getenv("CLOUDWATCH_LOGS_ENABLED") == "true" {
		shipper, err := aws_pkg.NewCloudWatchLogsClient(ctx, awsCfg, serviceName)
		if err != nil {
			zap.L().Warn("CloudWatch Logs unavailable, logging to stdout only", zap.Error(err))
		} else {
			logger.InitializeWithWriter(cfg.Env, shipper)
		}
	}

	st, err := openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, stores: st}

	if err := st.ensureIndexes(ctx); err != nil {
		a.close()
		return nil, err
	}

	var metrics *aws_pkg.MetricsClient
	var sns aws_pkg.SNSPublisher
	var dynamo repository.DynamoAPI
	if hasAWS {
		metrics = aws_pkg.NewMetricsClient(awsCfg)
		sns = aws_pkg.NewSNSClient(awsCfg)
		dynamo = aws_pkg.NewDynamoClient(awsCfg)
	}

	images, err := newImageStore(cfg.Images, awsCfg, hasAWS)
	if err != nil {
		a.close()
		return nil, err
	}

	gateway, err := newGateway(cfg.Payment)
	if err != nil {
		a.close()
		return nil, err
	}

	checkouts, err := st.checkoutStore(dynamo)
	if err != nil {
		a.close()
		return nil, err
	}

	publisher := events.NewPublisher(sns, cfg.Events.OrderTopicARN, cfg.Events.InventoryTopicARN)
	cache := services.NewCacheManager(st.redis, 10*time.Minute)

	authService := st.auth(metrics)
	tokenService := services.NewTokenService(cfg.Tokens)
	productService := services.NewProductService(st.products, images, cache, metrics)
	categoryService := services.NewCategoryService(st.categories, st.products)
	cartService := services.NewCartService(st.carts, st.products)
	wishListService := services.NewWishListService(st.wishLists, st.products)
	inventoryService := services.NewInventoryService(st.products, publisher, metrics, cache, cfg.Payment.Currency)
	reviewService := services.NewReviewService(st.reviews, st.products, st.users, cache)
	addressService := services.NewAddressService(st.addresses, st.users)

	salesViaQueue := hasAWS && cfg.Events.OrderQueueURL != "" && cfg.Events.OrderTopicARN != ""
	orderService := services.NewOrderService(services.OrderDeps{
		Products:  st.products,
		Carts:     st.carts,
		Orders:    st.orders,
		Users:     st.users,
		Checkouts: checkouts,
		Gateway:   gateway,
		Publisher: publisher,
		Sales:     inventoryService,
		Metrics:   metrics,
	}, services.OrderConfig{
		Currency:      cfg.Payment.Currency,
		SnapshotTTL:   cfg.Payment.CheckoutTTL,
		SalesViaQueue: salesViaQueue,
	})

	if salesViaQueue {
		queue := aws_pkg.NewSQSConsumer(awsCfg, cfg.Events.OrderQueueURL)
		a.consumer = events.NewOrderPaidConsumer(queue, inventoryService, st.redis, metrics)
	}

	var generator ai.Generator
	if cfg.AI.GeminiAPIKey != "" {
		a.gemini, err = ai.NewGeminiClient(ctx, cfg.AI.GeminiAPIKey, cfg.AI.Model)
		if err != nil {
			zap.L().Warn("Gemini unavailable, assistant disabled", zap.Error(err))
		} else {
			generator = a.gemini
		}
	}
	assistantService := services.NewAssistantService(generator)

	a.limiter = middleware.NewRateLimiter(rate.Limit(20), 40, 10*time.Minute)

	r := gin.New()
	r.Use(
		apperrors.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(logger.Log),
		middleware.Metrics(metrics, serviceName),
		middleware.SecurityHeaders(),
		middleware.RateLimit(a.limiter),
		middleware.CORS(cfg.CORSOrigins),
		middleware.Timeout(cfg.RequestTimeout),
		apperrors.ErrorMiddleware(),
	)

	routes.RegisterRoutes(r, routes.Handlers{
		Auth:      controllers.NewAuthController(authService, cfg.Cookie),
		Products:  controllers.NewProductController(productService, controllers.NewRequestValidator()),
		Category:  controllers.NewCategoryController(categoryService),
		Cart:      controllers.NewCartController(cartService),
		WishList:  controllers.NewWishListController(wishListService),
		Orders:    controllers.NewOrderController(orderService),
		Inventory: controllers.NewInventoryController(inventoryService),
		Reviews:   controllers.NewReviewController(reviewService),
		Addresses: controllers.NewAddressController(addressService),
		Assistant: controllers.NewAssistantController(assistantService),
		Health: controllers.NewHealthController(map[string]controllers.Pinger{
			"mongo": func(ctx context.Context) error { return st.mongo.Ping(ctx, nil) },
			"redis": func(ctx context.Context) error { return st.redis.Ping(ctx).Err() },
		}),
		VerifyToken:  middleware.VerifyToken(tokenService, st.users),
		RequireAdmin: middleware.RequireAdmin(),
	})
	a.engine = r

	return a, nil
}

func newImageStore(cfg config.ImageConfig, awsCfg sdkaws.Config, hasAWS bool) (storage.ImageStore, error) {
	switch cfg.Provider {
	case "cloudinary":
		return storage.NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
	case "", "s3":
		if !hasAWS {
			return nil, errors.New("IMAGE_STORE=s3 needs AWS configuration")
		}
		endpoint := os.Getenv("AWS_S3_ENDPOINT")
		if endpoint == "" {
			endpoint = os.Getenv("AWS_ENDPOINT")
		}
		return storage.NewS3Store(aws_pkg.NewS3Client(awsCfg), cfg.S3Bucket, cfg.S3Prefix, endpoint, cfg.S3PublicBaseURL, awsCfg.Region), nil
	default:
		return nil, fmt.Errorf("unknown IMAGE_STORE %q", cfg.Provider)
	}
}

func newGateway(cfg config.PaymentConfig) (payment.Gateway, error) {
	switch cfg.Provider {
	case payment.ProviderRazorpay:
		return payment.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret), nil
	case payment.ProviderStripe:
		return payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret), nil
	default:
		return nil, fmt.Errorf("unknown PAYMENT_PROVIDER %q", cfg.Provider)
	}
}

// serve blocks until SIGINT or SIGTERM, then drains in-flight requests.
func (a *app) serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go a.limiter.Run(ctx)
	if a.consumer != nil {
		go a.consumer.Start(ctx)
	}

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("server starting", zap.String("port", a.cfg.Port), zap.String("env", a.cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	zap.L().Info("server stopped gracefully")
	return nil
}

func (a *app) close() {
	if a.gemini != nil {
		if err := a.gemini.Close(); err != nil {
			zap.L().Error("failed to close Gemini client", zap.Error(err))
		}
	}
	a.stores.close()
}
