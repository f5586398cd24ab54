package db

import (
	"cloud.google.com/go/firestore"
	"context"
	"encoding/base64"
	firebase "firebase.google.com/go"
	"fmt"
	"google.golang.org/api/option"
	"log"
	"os"
	"sync"
)

// client is a singleton Firestore client instance backing the report store.
var (
	client     *firestore.Client
	clientOnce sync.Once
)

// InitFirestore initializes and returns the singleton Firestore client.
// Credentials are read from FIREBASE_CREDENTIALS as base64-encoded service
// account JSON.
func InitFirestore() (*firestore.Client, error) {
	var initErr error

	clientOnce.Do(func() {
		encoded := os.Getenv("FIREBASE_CREDENTIALS")
		if encoded == "" {
			initErr = fmt.Errorf("FIREBASE_CREDENTIALS environment variable not set")
			return
		}

		creds, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			log.Fatalf("Failed to decode Firestore credentials: %v", err)
		}

		app, err := firebase.NewApp(context.Background(), nil, option.WithCredentialsJSON(creds))
		if err != nil {
			log.Fatalf("Error initializing Firebase app: %v", err)
		}

		client, err = app.Firestore(context.Background())
		if err != nil {
			log.Fatalf("Error getting Firestore client: %v", err)
		}
	})

	return client, initErr
}

// CloseFirestore closes the Firestore client.
func CloseFirestore() {
	if client != nil {
		client.Close()
	}
}
