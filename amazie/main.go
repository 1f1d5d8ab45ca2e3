package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/iamham/amazie/amazie/catalog"
	"github.com/iamham/amazie/amazie/config"
	"github.com/iamham/amazie/amazie/controllers"
	"github.com/iamham/amazie/amazie/recipes"
	"github.com/iamham/amazie/amazie/routes"
	"github.com/iamham/amazie/amazie/services/assistant"
	"github.com/iamham/amazie/amazie/sources/psql"
	"github.com/iamham/amazie/amazie/sources/psql/dao"
	"github.com/iamham/amazie/amazie/sources/storage"
	"github.com/iamham/amazie/amazie/utils/logging"
)

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logging.ErrorLogger.Error("catalog load error", zap.Error(err))
		os.Exit(1)
	}
	book, err := recipes.Load(cfg.RecipesPath)
	if err != nil {
		logging.AppLogger.Warn("recipe book not loaded, getRecipe disabled", zap.Error(err))
		book = recipes.New(nil)
	}

	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()
	chatDAO := dao.NewChatMessageDAO(db.DB)

	var images *storage.MinIOClient
	if cfg.MinIOEndpoint != "" {
		images, err = storage.NewMinIOClient(cfg)
		if err != nil {
			logging.AppLogger.Warn("minio unavailable, chat images will not be archived", zap.Error(err))
			images = nil
		}
	}

	// A missing Gemini key must surface as a configuration error on each
	// chat request, not as a startup crash.
	ai, err := assistant.New(ctx, cfg, cat, book)
	if err != nil {
		if errors.Is(err, assistant.ErrNotConfigured) {
			logging.ErrorLogger.Error("assistant not configured, chat turns will fail until GEMINI_API_KEY is set", zap.Error(err))
			ai = nil
		} else {
			logging.ErrorLogger.Error("assistant init error", zap.Error(err))
			os.Exit(1)
		}
	}

	authCtrl := controllers.NewAuthController(cfg)
	chatCtrl := controllers.NewChatController(ai, chatDAO, images)
	productCtrl := controllers.NewProductController(cat)
	healthCtrl := controllers.NewHealthController()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Mount("/auth", routes.AuthRoutes(authCtrl))
	r.Mount("/chat", routes.ChatRoutes(chatCtrl, cfg))
	r.Mount("/products", routes.ProductRoutes(productCtrl))
	r.Mount("/health", routes.HealthRoutes(healthCtrl))

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()
	logging.AppLogger.Info("amazie listening", zap.String("addr", cfg.Addr), zap.Int("products", cat.Len()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
