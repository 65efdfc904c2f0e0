package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"userdesk/handlers"
	"userdesk/store"
	"userdesk/utils"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, continuing..")
		}
	}
	log.Println("environment: ", os.Getenv("APP_ENV"))

	dsn := requireEnv("DATABASE_URL")
	signingSecret := requireEnv("JWT_SECRET")
	sendgridKey := requireEnv("SENDGRID_API_KEY")
	frontendURL := requireEnv("FRONTEND_URL")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	mailFromName := os.Getenv("MAIL_FROM_NAME")
	if mailFromName == "" {
		mailFromName = "Userdesk Support"
	}
	mailFrom := os.Getenv("MAIL_FROM")
	if mailFrom == "" {
		mailFrom = "donotreply@userdesk.app"
	}

	ctx := context.Background()

	if err := store.RunMigrations(ctx, dsn); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize the database connection pool
	dbPool, err := store.OpenDB(ctx, dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	tokens, err := utils.NewTokens(signingSecret)
	if err != nil {
		log.Fatalf("Invalid JWT_SECRET: %v", err)
	}

	images, err := utils.NewImageStore(uploadDir)
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}

	// Rate limiting of the credential endpoints is on only when redis is
	// configured.
	var limiter *utils.Limiter
	if redisDSN := os.Getenv("REDIS_URL"); redisDSN != "" {
		redisPool, err := utils.OpenRedisPool(redisDSN)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisPool.Close()
		limiter = utils.NewLimiter(redisPool)
	}

	api := &handlers.API{
		Store:       store.NewUserStore(dbPool),
		Tokens:      tokens,
		Mail:        utils.NewMailer(sendgridKey, mailFromName, mailFrom),
		Images:      images,
		Limiter:     limiter,
		FrontendURL: frontendURL,
	}

	mux := api.Routes()

	// File server for uploaded profile images
	fileServer := http.FileServer(http.Dir(uploadDir))
	mux.Handle(utils.PublicUploadPrefix+"/", http.StripPrefix(utils.PublicUploadPrefix, fileServer))

	log.Println("Starting server on :" + port)
	log.Fatal(http.ListenAndServe(":"+port, handlers.CORS(mux)))
}

func requireEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("%s is required", key)
	}
	return value
}
