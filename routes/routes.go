package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"vitatrack/controllers"
	"vitatrack/middlewares"
)

// Controllers bundles everything the router wires up.
type Controllers struct {
	Auth     *controllers.AuthController
	User     *controllers.UserController
	Weight   *controllers.WeightController
	Plan     *controllers.PlanController
	Chat     *controllers.ChatController
	Analysis *controllers.AnalysisController
	Report   *controllers.ReportController
	Sync     *controllers.SyncController
	Settings *controllers.SettingsController
	Recipe   *controllers.RecipeController
	Realtime *controllers.RealtimeController
}

func SetupRouter(ctl Controllers, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middlewares.Recovery(log))
	r.Use(middlewares.RequestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"X-Cache"},
		MaxAge:        12 * time.Hour,
	}))
	middlewares.RegisterValidations()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", ctl.Auth.Register)
		auth.POST("/login", ctl.Auth.Login)
	}

	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())
	{
		api.POST("/auth/logout", ctl.Auth.Logout)

		user := api.Group("/user")
		{
			user.GET("/profile", middlewares.CacheResponse(time.Minute), ctl.User.GetProfile)
			user.PUT("/profile", ctl.User.UpdateProfile)
			user.POST("/challenges/complete", ctl.User.CompleteChallenge)
			user.GET("/activity", ctl.User.Activity)
			user.GET("/sessions", ctl.User.Sessions)
			user.DELETE("/account", ctl.User.DeleteAccount)
		}

		weight := api.Group("/weight")
		{
			weight.POST("", ctl.Weight.Log)
			weight.GET("/history", middlewares.CacheResponse(time.Minute), ctl.Weight.History)
		}

		plan := api.Group("/plans")
		{
			plan.POST("/wellness/generate", ctl.Plan.GenerateWellnessPlan)
			plan.GET("/wellness", ctl.Plan.GetWellnessPlan)
			plan.POST("/wellness/complete/:day", ctl.Plan.CompleteWorkout)
			plan.POST("/meals/generate", ctl.Plan.GenerateMealPlan)
			plan.GET("/meals/history", ctl.Plan.MealPlanHistory)
		}

		chat := api.Group("/chat")
		{
			chat.POST("", ctl.Chat.Send)
			chat.GET("/history", ctl.Chat.History)
			chat.DELETE("", ctl.Chat.Clear)
		}

		analysis := api.Group("/analysis")
		{
			analysis.POST("/text", ctl.Analysis.AnalyzeText)
			analysis.POST("/photo", ctl.Analysis.AnalyzePhoto)
			analysis.GET("/history", ctl.Analysis.History)
			analysis.GET("/foods", ctl.Analysis.SearchFoods)
		}

		api.GET("/reports/weekly", ctl.Report.Weekly)

		sync := api.Group("/sync")
		{
			sync.POST("", ctl.Sync.Trigger)
			sync.GET("/remote-profile", ctl.Sync.RemoteProfile)
			sync.GET("/test/gym", ctl.Sync.TestGymConnection)
			sync.GET("/test/ai", ctl.Sync.TestAIConnection)
		}

		settings := api.Group("/settings")
		{
			settings.GET("", ctl.Settings.Get)
			settings.PUT("", ctl.Settings.Set)
		}

		recipes := api.Group("/recipes")
		{
			recipes.POST("", ctl.Recipe.Create)
			recipes.GET("", ctl.Recipe.List)
			recipes.GET("/:id", ctl.Recipe.Get)
			recipes.DELETE("/:id", ctl.Recipe.Delete)
		}

		api.GET("/ws", ctl.Realtime.Connect)
	}

	return r
}
