package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mentorhub/mentor-portal-api/api/handlers"
	"github.com/mentorhub/mentor-portal-api/api/scheduler"
	"github.com/mentorhub/mentor-portal-api/config"
	"github.com/mentorhub/mentor-portal-api/databases"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	a := handlers.App{}
	a.Config = *config.New()

	if err := a.Initialize(); err != nil { // initialize database and router
		log.Fatal(err)
	}

	s := scheduler.NewScheduler(
		databases.NewMentorDatabase(a.DB),
		databases.NewMenteeDatabase(a.DB),
		databases.NewLeaveApplicationDatabase(a.DB),
		databases.NewAccountDatabase(a.DB),
	)
	s.Start()
	defer s.Stop()

	port := os.Getenv("PORT")
	baseURL := os.Getenv("BASE_URL")
	zap.S().Infow("mentor-portal-api is up and running",
		"port", port,
		"url", baseURL,
	)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", port), a.Router))
}
