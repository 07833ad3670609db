// File: lokai/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lokai/config"
	"lokai/cron"
	"lokai/database"
	vendorRepo "lokai/database/repository/vendor"
	"lokai/handlers"
	"lokai/middleware"
	"lokai/routes"
	"lokai/services/assistant"
	"lokai/services/catalog"
	"lokai/services/geolocation"
	ai "lokai/services/intelligence"
	"lokai/services/search"
	"lokai/services/speech"
	"lokai/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB()
	utils.InitCache()

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// repositories.
	repo, err := vendorRepo.NewMongoVendorRepo(database.Database())
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize vendor repository: %v", err)
	}
	catalogCache := catalog.NewCache(repo, logger)

	// AI endpoint served by this binary.
	var llm ai.LLM = ai.Unavailable{}
	if config.AppConfig.GeminiAPIKey != "" {
		gemini, err := ai.NewGeminiClient(rootCtx, config.AppConfig.GeminiAPIKey, config.AppConfig.GeminiModel)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize gemini client: %v", err)
		}
		defer gemini.Close()
		llm = gemini
	} else {
		logger.Sugar().Warn("main: GEMINI_API_KEY not set, AI endpoint will answer with errors")
	}
	translations := ai.NewTranslationStore(utils.GetCacheClient(), config.TranslationCacheTTL())
	aiSvc := ai.NewDefaultSearchAssistant(llm, translations, logger)

	// Search pipeline.
	assistantClient := assistant.NewClient(config.AppConfig.AIEndpointURL, config.AITimeout(), logger)

	var recognizer speech.Recognizer = speech.Unsupported{}
	if config.AppConfig.SpeechEnabled {
		google, err := speech.NewGoogleRecognizer(rootCtx, config.AppConfig.GoogleServiceAccountFile, logger)
		if err != nil {
			logger.Sugar().Errorf("main: speech recognition disabled: %v", err)
		} else {
			defer google.Close()
			recognizer = google
		}
	}

	registry := search.NewRegistry(search.Dependencies{
		Catalog:     catalogCache,
		Normalizer:  search.NewNormalizer(assistantClient, logger),
		Localizer:   search.NewLocalizer(assistantClient, logger),
		Recommender: search.NewRecommender(assistantClient, logger),
		Recognizer:  recognizer,
		Logger:      logger,
	}, config.SessionIdleTimeout())
	go registry.Run(rootCtx)

	// Background work.
	utils.StartHealthMonitor(rootCtx, utils.GetCacheClient(), database.MongoClient)
	stopWorker := cron.InitCatalogWorker(catalogCache, logger)
	queue := cron.NewClient()
	defer queue.Close()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))
	router.Use(middleware.GeolocationMiddleware(geolocation.NewIPLookup(config.AppConfig.GeoLookupURL, logger)))

	searchHandler := handlers.NewSearchHandler(registry)
	vendorHandler := handlers.NewVendorHandler(catalogCache, queue)
	assistantHandler := handlers.NewAssistantHandler(aiSvc)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		// Search session endpoints.
		CreateSessionHandler:  searchHandler.CreateSessionHandler,
		GetSessionHandler:     searchHandler.GetSessionHandler,
		DeleteSessionHandler:  searchHandler.DeleteSessionHandler,
		SubmitQueryHandler:    searchHandler.SubmitQueryHandler,
		VoiceQueryHandler:     searchHandler.VoiceQueryHandler,
		StopVoiceHandler:      searchHandler.StopVoiceHandler,
		SetLanguageHandler:    searchHandler.SetLanguageHandler,
		ReportLocationHandler: searchHandler.ReportLocationHandler,
		RefreshSessionHandler: searchHandler.RefreshSessionHandler,

		// Vendor endpoints.
		ListVendorsHandler:    vendorHandler.ListVendorsHandler,
		RefreshVendorsHandler: vendorHandler.RefreshVendorsHandler,

		// AI endpoint.
		SearchServicesHandler: assistantHandler.SearchServicesHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	stop()
	registry.CloseAll()
	stopWorker()
	if err := database.CloseDB(ctx); err != nil {
		logger.Sugar().Warnf("main: failed to disconnect MongoDB: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
