package main

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"vitatrack/ai"
	"vitatrack/cache"
	"vitatrack/config"
	"vitatrack/controllers"
	"vitatrack/routes"
	"vitatrack/services"
	"vitatrack/store"
	"vitatrack/utils"
)

func main() {
	config.Load()
	utils.InitLogger(config.LogFile())
	log := utils.Log()
	defer log.Sync()
	utils.InitMetrics()

	dbPath := config.DBPath()
	_ = os.MkdirAll(filepath.Dir(dbPath), 0o755)

	st, err := store.OpenShared(store.Config{Path: dbPath})
	if err != nil {
		// Nothing works without the store; bail out loudly.
		log.Fatal("store_open_failed", zap.String("path", dbPath), zap.Error(err))
	}
	defer st.Close()

	fallback := store.NewFallbackKV(config.FallbackKVPath())

	if addr := config.RedisAddr(); addr != "" {
		_ = cache.InitRedis(addr, log)
		defer cache.Close()
	}

	ctx := context.Background()
	if err := utils.InitS3(ctx); err != nil {
		log.Info("s3_disabled", zap.Error(err))
	}
	if err := utils.InitRekognition(ctx); err != nil {
		log.Info("rekognition_disabled", zap.Error(err))
	}

	// Services
	settings := services.NewSettingsService(st, fallback, log)
	activity := services.NewActivityService(st, log)
	users := services.NewUserService(st, activity, log)
	auth := services.NewAuthService(st, activity, log)
	weights := services.NewWeightService(st, log)
	hub := services.NewRealtimeHub()
	alerts := services.NewAlertBus(activity, hub, log)
	sync := services.NewSyncService(st, settings, alerts, log)
	resolver := ai.NewResolver(log)
	food := services.NewFoodService()
	plans := services.NewPlanService(st, resolver, settings, users, log)
	chat := services.NewChatService(st, resolver, settings, users, log)
	analysis := services.NewAnalysisService(st, resolver, settings, users, food, log)
	reports := services.NewReportService(st, resolver, settings, users, weights, log)
	recipes := services.NewRecipeService(st)

	router := routes.SetupRouter(routes.Controllers{
		Auth:     controllers.NewAuthController(auth, activity, sync),
		User:     controllers.NewUserController(users, activity),
		Weight:   controllers.NewWeightController(weights, users),
		Plan:     controllers.NewPlanController(plans, users),
		Chat:     controllers.NewChatController(chat),
		Analysis: controllers.NewAnalysisController(analysis, food),
		Report:   controllers.NewReportController(reports),
		Sync:     controllers.NewSyncController(sync, settings, resolver),
		Settings: controllers.NewSettingsController(settings),
		Recipe:   controllers.NewRecipeController(recipes),
		Realtime: controllers.NewRealtimeController(hub, log),
	}, log)

	addr := config.HTTPAddr()
	log.Info("server_starting", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		log.Fatal("server_stopped", zap.Error(err))
	}
}
