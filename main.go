package main

import (
	"fmt"
	"github.com/joho/godotenv"
	"go-firewatch/cronjobs"
	"go-firewatch/db"
	"go-firewatch/extraction"
	"go-firewatch/geocode"
	"go-firewatch/intake"
	"go-firewatch/routes"
	"go-firewatch/verify"
	"log"
	"os"

	"github.com/sashabaranov/go-openai"
)

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("Error loading .env file: %v", err)
	}

	// Print and check env
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey != "" {
		fmt.Println("OPENAI_API_KEY loaded")
	}

	clientURL := os.Getenv("CLIENT_URL")
	fmt.Println("CLIENT_URL: ", clientURL)

	// Init firestore
	firestoreClient, err := db.InitFirestore()
	if err != nil {
		log.Fatalf("Failed to initialize Firestore: %v", err)
	}
	defer db.CloseFirestore() // Firestore client is closed on exit

	// Init the maps client used for reverse geocoding
	mapsClient, err := geocode.InitMapsClient()
	if err != nil {
		log.Fatalf("Failed to initialize maps client: %v", err)
	}

	// Wire the intake pipeline: oracle adapter -> store -> verifier
	openaiClient := openai.NewClient(apiKey)
	resolver := geocode.NewResolver(mapsClient)
	adapter := extraction.NewAdapter(openaiClient, resolver)
	store := db.NewReportStore(firestoreClient)
	verifier := verify.New(nil)
	service := intake.NewService(store, adapter, resolver, verifier, nil)

	// Initialize cron jobs
	cronjobs.InitCronJobs(store)

	r := routes.SetupRouter(service, store, adapter, openaiClient)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
