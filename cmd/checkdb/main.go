package main

import (
	"fmt"
	"log"

	"processpilot/internal/app/ds"
	"processpilot/internal/app/dsn"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Quick smoke check: connect and dump the requests table.
func main() {
	_ = godotenv.Load()

	db, err := gorm.Open(postgres.Open(dsn.FromEnv()), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	var requests []ds.Request
	err = db.Preload("Owner").Find(&requests).Error
	if err != nil {
		log.Fatal("Failed to get requests:", err)
	}

	fmt.Println("Requests in database:")
	for _, request := range requests {
		cost := "unset"
		if request.EstimatedCost != nil {
			cost = fmt.Sprintf("%.2f", *request.EstimatedCost)
		}
		fmt.Printf("ID: %s, Title: %s, Status: %s, Cost: %s, Owner: %s\n",
			request.ID, request.Title, request.Status, cost, request.Owner.Email)
	}
}
