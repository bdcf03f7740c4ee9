package main

import (
	"context"
	"log"

	"github.com/everyonewrite/writeguide/internal/assistant"
	"github.com/everyonewrite/writeguide/internal/config"
	"github.com/everyonewrite/writeguide/internal/db"
	"github.com/everyonewrite/writeguide/internal/order"
	"github.com/everyonewrite/writeguide/internal/user"
	"github.com/joho/godotenv"
)

// Creates the schema for a fresh database. All statements are IF NOT
// EXISTS, so re-running is safe.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	database := db.NewBunPostgresClient(cfg.DatabaseURL)
	defer database.Close()

	ctx := context.Background()

	if err := user.NewUserRepository(database).InitializeDatabase(ctx); err != nil {
		log.Fatalf("Failed to create utools_user schema: %v", err)
	}
	if err := order.NewOrderRepository(database).InitializeDatabase(ctx); err != nil {
		log.Fatalf("Failed to create orders schema: %v", err)
	}
	if err := assistant.NewWritingTaskRepository(database).InitializeDatabase(ctx); err != nil {
		log.Fatalf("Failed to create writing_tasks schema: %v", err)
	}

	log.Println("Database schema is up to date")
}
