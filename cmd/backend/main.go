package main

import (
	"log"

	"processpilot/internal/api"
)

// @title ProcessPilot API
// @version 1.0
// @description Business automation request and fulfillment portal

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log.Println("App start")
	api.StartServer()
	log.Println("App terminated")
}
