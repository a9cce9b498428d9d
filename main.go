package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Azi77ry/personal-App/auth"
	"github.com/Azi77ry/personal-App/directory"
	"github.com/Azi77ry/personal-App/handlers"
	"github.com/Azi77ry/personal-App/logger"
	"github.com/Azi77ry/personal-App/mailer"
	"github.com/Azi77ry/personal-App/middleware"
	"github.com/Azi77ry/personal-App/store"
)

const mongoDatabase = "money_event_manager"

func main() {
	migrateOnly := flag.Bool("migrate", false, "upgrade all stored user documents to the current schema and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	development := os.Getenv("GIN_MODE") != "release"
	if err := logger.Init(development, os.Getenv("LOG_LEVEL")); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	backend, dir := buildStorage(ctx)
	documents := store.NewDocuments(backend)

	if *migrateOnly {
		migrated, err := documents.MigrateAll(context.Background())
		if err != nil {
			logger.Get().Fatal("migration failed", zap.Error(err))
		}
		logger.Get().Info("migration completed", zap.Int("documents_migrated", migrated))
		return
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Get().Fatal("JWT_SECRET environment variable not set")
	}
	tokens := auth.NewTokenService(secret)
	revoked := auth.NewRevocationListFromURL(ctx, os.Getenv("REDIS_URL"))

	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	h := handlers.New(documents, dir, tokens, revoked, buildMailer(), baseURL)

	router := gin.Default()
	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})
	router.Use(middleware.CORS)

	// 10 auth attempts per minute per IP.
	authLimit := middleware.RateLimit(rate.Every(6*time.Second), 10)
	router.POST("/register", authLimit, h.Register)
	router.POST("/login", authLimit, h.Login)
	router.GET("/verify_email/:token", h.VerifyEmail)

	authRequired := middleware.Auth(tokens, revoked)
	router.POST("/logout", authRequired, h.Logout)

	api := router.Group("/api")
	api.Use(authRequired)
	{
		api.POST("/add_expense", h.AddExpense)
		api.POST("/add_income", h.AddIncome)
		api.POST("/add_budget", h.AddBudget)
		api.POST("/add_goal", h.AddGoal)
		api.POST("/add_bill", h.AddBill)
		api.POST("/add_task", h.AddTask)
		api.POST("/add_event", h.AddEvent)

		api.GET("/get_expenses", h.GetExpenses)
		api.GET("/get_incomes", h.GetIncomes)
		api.GET("/get_budgets", h.GetBudgets)
		api.GET("/get_goals", h.GetGoals)
		api.GET("/get_bills", h.GetBills)
		api.GET("/get_tasks", h.GetTasks)
		api.GET("/get_events", h.GetEvents)

		api.PUT("/update_goal_progress/:id", h.UpdateGoalProgress)
		api.PUT("/mark_bill_paid/:id", h.MarkBillPaid)
		api.PUT("/mark_task_completed/:id", h.MarkTaskCompleted)
		api.DELETE("/delete_item/:type/:id", h.DeleteItem)

		api.GET("/get_financial_summary", h.GetFinancialSummary)

		api.POST("/update_profile", h.UpdateProfile)
		api.POST("/update_notifications", h.UpdateNotifications)
		api.GET("/get_notification_settings", h.GetNotificationSettings)
		api.POST("/change_password", h.ChangePassword)

		api.GET("/export_data", h.ExportData)
		api.POST("/import_data", h.ImportData)
		api.POST("/reset_data", h.ResetData)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Get().Info("server starting", zap.String("port", port))
	if err := router.Run(":" + port); err != nil {
		logger.Get().Fatal("failed to start server", zap.Error(err))
	}
}

// buildStorage picks the backing medium: MongoDB when MONGO_URI is set (or
// STORAGE_BACKEND=mongo), otherwise one JSON file per user under DATA_DIR.
func buildStorage(ctx context.Context) (store.Backend, directory.Directory) {
	kind := os.Getenv("STORAGE_BACKEND")
	mongoURI := os.Getenv("MONGO_URI")

	if kind == "mongo" || (kind == "" && mongoURI != "") {
		if mongoURI == "" {
			logger.Get().Fatal("MONGO_URI environment variable not set")
		}
		serverAPI := options.ServerAPI(options.ServerAPIVersion1)
		client, err := mongo.Connect(options.Client().ApplyURI(mongoURI).SetServerAPIOptions(serverAPI))
		if err != nil {
			logger.Get().Fatal("failed to connect to MongoDB", zap.Error(err))
		}
		dir, err := directory.NewMongoDirectory(ctx, client, mongoDatabase)
		if err != nil {
			logger.Get().Fatal("failed to initialize user directory", zap.Error(err))
		}
		logger.Get().Info("using MongoDB storage")
		return store.NewMongoBackend(client, mongoDatabase), dir
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	fileBackend, err := store.NewFileBackend(dataDir)
	if err != nil {
		logger.Get().Fatal("failed to initialize file storage", zap.Error(err))
	}
	dir, err := directory.NewFileDirectory(dataDir)
	if err != nil {
		logger.Get().Fatal("failed to initialize user directory", zap.Error(err))
	}
	logger.Get().Info("using file storage", zap.String("data_dir", dataDir))
	return fileBackend, dir
}

func buildMailer() mailer.Mailer {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	sender := os.Getenv("EMAIL_SENDER")
	if apiKey == "" || sender == "" {
		logger.Get().Warn("SENDGRID_API_KEY or EMAIL_SENDER not set, email delivery disabled")
		return mailer.NoopMailer{}
	}
	return mailer.NewSendGridMailer(apiKey, sender)
}
