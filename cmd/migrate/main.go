package main

import (
	"log"
	"os"
	"strings"

	"processpilot/internal/app/ds"
	"processpilot/internal/app/dsn"
	"processpilot/internal/app/role"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gorm.io/driver/postgres"
)

func main() {
	_ = godotenv.Load()

	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		log.Fatal("DSN string is empty. Check your .env file")
	}

	db, err := gorm.Open(postgres.Open(dsnStr), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Connected to database successfully")

	err = db.AutoMigrate(
		&ds.User{},
		&ds.UserRole{},
		&ds.Request{},
		&ds.Payment{},
		&ds.PlatformCredential{},
		&ds.RequestAttachment{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Println("Database migration completed successfully")

	seedAdmin(db)
}

// seedAdmin grants the admin role to the ADMIN_EMAIL account, if that user
// has already registered.
func seedAdmin(db *gorm.DB) {
	adminEmail := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	if adminEmail == "" {
		log.Println("ADMIN_EMAIL not set, skipping admin seed")
		return
	}

	var user ds.User
	if err := db.Where("email = ?", adminEmail).First(&user).Error; err != nil {
		log.Printf("Admin user %s not registered yet, skipping admin seed", adminEmail)
		return
	}

	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&ds.UserRole{
		UserID: user.ID,
		Role:   role.AdminRoleName,
	}).Error
	if err != nil {
		log.Fatalf("Failed to seed admin role: %v", err)
	}

	log.Printf("Admin role granted to %s", adminEmail)
}
