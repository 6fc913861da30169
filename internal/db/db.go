package db

import (
	"log"
	"os"
	"strings"

	"ideahub/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "sqlite://ideahub.db"
		log.Println("DATABASE_URL not set, defaulting to 'sqlite://ideahub.db'")
	}

	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "sqlite://") {
		dialector = sqlite.Open(strings.TrimPrefix(dsn, "sqlite://"))
	} else {
		dialector = postgres.Open(dsn)
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	seedRoles(DB)
}

// Migrate runs the schema migration for all models.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Idea{},
		&models.Role{},
	)
}

func seedRoles(gdb *gorm.DB) {
	var count int64
	gdb.Model(&models.Role{}).Count(&count)
	if count > 0 {
		return
	}

	roles := []models.Role{
		{Name: "admin"},
		{Name: "user"},
	}
	for _, role := range roles {
		if err := gdb.Create(&role).Error; err != nil {
			log.Printf("Failed to create role %s: %v", role.Name, err)
		}
	}
	log.Println("Initial roles created")
}
