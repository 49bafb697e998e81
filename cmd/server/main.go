package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"blogsmith/internal/auth"
	"blogsmith/internal/capabilities"
	"blogsmith/internal/config"
	"blogsmith/internal/handler"
	"blogsmith/internal/middleware"
	"blogsmith/internal/plans"
	"blogsmith/internal/prompts"
	"blogsmith/internal/repository"
	"blogsmith/internal/service/admin"
	"blogsmith/internal/service/billing"
	"blogsmith/internal/service/billing/stripe"
	"blogsmith/internal/service/completion"
	"blogsmith/internal/service/converter"
	"blogsmith/internal/service/generation"
	"blogsmith/internal/service/posts"
	"blogsmith/internal/service/publisher"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"completion_provider", cfg.CompletionProvider,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create JWT verifier for Supabase authentication
	jwtVerifier, err := auth.NewJWTVerifier(ctx, cfg.SupabaseJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	repos, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open repositories: %v", err)
	}
	defer repos.Close()

	if _, err := posts.EnsureDefaultCategories(ctx, repos.Categories); err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}

	capabilityRegistry, err := capabilities.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize capability registry: %v", err)
	}

	promptCatalog, err := prompts.Load()
	if err != nil {
		log.Fatalf("Failed to load prompts: %v", err)
	}

	planCatalog, err := plans.Load(cfg.PlanPrices())
	if err != nil {
		log.Fatalf("Failed to load plans: %v", err)
	}

	completionClient, err := completion.NewClient(cfg, capabilityRegistry, promptCatalog.JSONInstruction(), logger)
	if err != nil {
		log.Fatalf("Failed to create completion client: %v", err)
	}

	generationService := generation.NewService(
		repos.Outlines,
		repos.Feedback,
		repos.Posts,
		repos.TxManager,
		completionClient,
		promptCatalog,
		generation.Models{Outline: cfg.OutlineModel, Article: cfg.ArticleModel},
		logger,
	)
	postService := posts.NewService(repos.Posts, repos.Categories, converter.NewConverterRegistry(), logger)
	billingService := billing.NewService(
		billing.Repositories{
			Ledger:        repos.Ledger,
			Subscriptions: repos.Subscriptions,
			Purchases:     repos.Purchases,
			Customers:     repos.Customers,
			Events:        repos.Events,
			TxManager:     repos.TxManager,
		},
		stripe.NewClient(cfg.StripeSecretKey),
		planCatalog,
		cfg.StripeWebhookSecret,
		cfg.BaseURL,
		logger,
	)
	publisherService := publisher.NewService(
		repos.WordPress,
		repos.Posts,
		converter.NewMarkdownRenderer(),
		time.Duration(cfg.WordPressTimeoutSeconds)*time.Second,
		logger,
	)
	adminService := admin.NewService(auth.NewAdminClient(cfg.SupabaseURL, cfg.SupabaseKey), repos.Posts, logger)

	logger.Info("services initialized")

	router := handler.NewRouter(&handler.Handlers{
		Generation:   handler.NewGenerationHandler(generationService, logger),
		Posts:        handler.NewPostHandler(postService, logger),
		Billing:      handler.NewBillingHandler(billingService, logger),
		Integrations: handler.NewIntegrationHandler(publisherService, logger),
		Admin:        handler.NewAdminHandler(adminService, logger),
		Models:       handler.NewModelsHandler(cfg, logger, capabilityRegistry),
	}, jwtVerifier, middleware.NewRateLimiter(cfg.GenerationRatePerMinute), logger)

	// CORS - outermost so OPTIONS pre-flight never reaches auth
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "Stripe-Signature"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsHandler.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 3 * time.Minute, // article generation can take a while
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}
