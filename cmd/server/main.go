package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/antoniodyeuson/site-teste-3-sub000/internal/admin"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/auth"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/config"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/database"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/earnings"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/jobs"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/logs"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/middleware"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/payment"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/payout"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/post"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/storage"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/subscription"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/user"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/withdrawal"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadConfig()
	if cfg.DBUrl == "" {
		panic("DATABASE_URL missing")
	}

	database.Connect(cfg.DBUrl)

	if err := storage.InitS3(cfg.AWSBucketName, cfg.AWSRegion); err != nil {
		logs.LogJSON("FATAL", "S3 init failed", map[string]interface{}{"error": err.Error()})
		panic(err)
	}

	earningsSvc := earnings.NewService(cfg)
	instantProvider := payout.NewInstantClient(cfg.PayoutProviderURL, cfg.PayoutProviderKey)
	bankProvider := payout.NewStripeTransfer(cfg.StripeSecretKey)

	authorizer := withdrawal.NewAuthorizer(earningsSvc, instantProvider)
	earningsHandler := earnings.NewHandler(earningsSvc)
	withdrawalHandler := withdrawal.NewHandler(authorizer)

	scheduler := jobs.Start(bankProvider)
	defer scheduler.Stop()

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	api.POST("/signup", auth.Signup)
	api.POST("/login", auth.Login)
	api.POST("/webhooks/stripe", payment.HandleStripeWebhook)

	api.Use(middleware.AuthMiddleware())

	api.GET("/me", user.GetMe)
	api.GET("/users/:id", user.GetUser)
	api.PATCH("/users/:id", user.UpdateUser)

	api.POST("/posts", post.CreatePost)
	api.GET("/posts/:id", post.GetPost)
	api.DELETE("/posts/:id", post.DeletePost)
	api.POST("/posts/:id/purchase", payment.CreateContentCheckout)

	api.GET("/creators/:creator_id/posts", post.ListCreatorPosts)
	api.POST("/creators/:creator_id/subscribe", payment.CreateSubscriptionCheckout)
	api.DELETE("/creators/:creator_id/subscribe", subscription.Unsubscribe)
	api.POST("/creators/:creator_id/tip", payment.CreateTipCheckout)
	api.GET("/subscriptions", subscription.ListMine)

	creator := api.Group("/creator")
	creator.POST("/connect", payment.CreateAccountLink)
	creator.GET("/connect/complete", payment.CompleteConnect)
	creator.PATCH("/tip-settings", user.UpdateTipSettings)
	creator.GET("/earnings", earningsHandler.GetEarnings)
	creator.GET("/balance", withdrawalHandler.GetBalance)
	creator.POST("/withdrawals", withdrawalHandler.Create)
	creator.GET("/withdrawals", withdrawalHandler.ListMine)

	adminRoutes := api.Group("/admin")
	adminRoutes.Use(middleware.AdminOnlyMiddleware())
	adminRoutes.GET("/stats", admin.GetDashboardStats)
	adminRoutes.GET("/finance", admin.GetFinanceReport)
	adminRoutes.GET("/users", admin.ListUsers)
	adminRoutes.PATCH("/users/:id/suspend", admin.SuspendUser)
	adminRoutes.PATCH("/users/:id/unsuspend", admin.UnsuspendUser)
	adminRoutes.DELETE("/posts/:id", admin.TakeDownPost)
	adminRoutes.GET("/withdrawals", admin.ListWithdrawals)

	if err := r.Run(":8080"); err != nil {
		logs.LogJSON("FATAL", "Server stopped", map[string]interface{}{"error": err.Error()})
	}
}
