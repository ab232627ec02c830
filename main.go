package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/dbos-inc/dbos-transact-golang/dbos"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	"taskchat/auth"
	"taskchat/config"
	"taskchat/handlers"
	"taskchat/services"
	"taskchat/store"
	"taskchat/tools"
	"taskchat/workflows"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Connect to PostgreSQL
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	if err := store.InitSchema(context.Background(), db); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	log.Println("Connected to PostgreSQL database")

	taskStore := store.NewPostgresTaskStore(db)
	userStore := store.NewPostgresUserStore(db)
	conversationStore := store.NewPostgresConversationStore(db)

	// Pick the resolver strategy: remote with local failover when an OpenAI
	// key is configured, local-only otherwise.
	fallback := services.NewFallbackResolver()
	var resolver services.Resolver = fallback
	if cfg.RemoteResolverEnabled() {
		resolver = services.NewFailoverResolver(
			services.NewOpenAIResolver(cfg.OpenAIAPIKey, cfg.ResolverTimeout),
			fallback,
		)
		log.Println("Remote resolver enabled with local fallback")
	} else {
		log.Println("OPENAI_API_KEY not set - using local fallback resolver only")
	}

	registry := tools.NewRegistry(taskStore, userStore)
	chatWorkflows := workflows.NewChatWorkflows(conversationStore, registry, resolver)

	// Initialize DBOS so chat turns run as durable workflows
	dbosCtx, err := dbos.NewDBOSContext(context.Background(), dbos.Config{
		DatabaseURL: cfg.DatabaseURL,
		AppName:     "taskchat",
	})
	if err != nil {
		log.Fatalf("Failed to initialize DBOS: %v", err)
	}

	// Register workflows with DBOS (MUST be before Launch)
	dbos.RegisterWorkflow(dbosCtx, chatWorkflows.ChatTurnWorkflow)

	if err := dbos.Launch(dbosCtx); err != nil {
		log.Fatalf("Failed to launch DBOS: %v", err)
	}
	defer dbos.Shutdown(dbosCtx, 5*time.Second)
	log.Println("DBOS initialized - durable chat turns enabled")

	runner := &workflows.DBOSRunner{Ctx: dbosCtx, Workflows: chatWorkflows}

	tokens := auth.NewTokens(cfg.JWTSecret)
	authHandler := handlers.NewAuthHandler(userStore, tokens)
	taskHandler := handlers.NewTaskHandler(taskStore)
	chatHandler := handlers.NewChatHandler(chatWorkflows, runner, conversationStore)

	router := gin.Default()

	// Enable CORS for local development
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	api := router.Group("/api")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		authed := api.Group("", auth.Middleware(tokens))
		{
			authed.GET("/auth/token", authHandler.Token)

			authed.GET("/tasks", taskHandler.ListTasks)
			authed.GET("/tasks/:id", taskHandler.GetTask)
			authed.POST("/tasks", taskHandler.CreateTask)
			authed.PUT("/tasks/:id", taskHandler.UpdateTask)
			authed.PATCH("/tasks/:id", taskHandler.PatchTask)
			authed.DELETE("/tasks/:id", taskHandler.DeleteTask)

			authed.POST("/chat", chatHandler.HandleChat)
			authed.GET("/conversations/:id/messages", chatHandler.GetMessages)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	log.Printf("Starting server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
