package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Connect loads the environment and opens the database connection. Fatal on
// failure: nothing in this service works without the database.
func Connect() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	dsn := os.Getenv("DB_DSN")
	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
}

// DSN returns the raw connection string, needed by the changefeed listener
// which holds its own connection outside gorm.
func DSN() string {
	return os.Getenv("DB_DSN")
}
