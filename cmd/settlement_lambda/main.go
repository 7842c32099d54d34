package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	"github.com/max-de-bug/portion-app-sub001/pkg/scheduler"
	"github.com/max-de-bug/portion-app-sub001/pkg/storage"
	dydbstore "github.com/max-de-bug/portion-app-sub001/pkg/storage/dynamodb"
)

var store storage.Storage

func init() {
	// Load environment variables from .env file (useful for local testing).
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(cfg)
	transactionsTable := os.Getenv("DYNAMODB_TRANSACTIONS_TABLE_NAME")
	auditTable := os.Getenv("DYNAMODB_AUDIT_TABLE_NAME")
	connectionsTable := os.Getenv("DYNAMODB_CONNECTIONS_TABLE_NAME")

	if transactionsTable == "" {
		log.Fatal("DYNAMODB_TRANSACTIONS_TABLE_NAME environment variable not set")
	}

	store = dydbstore.New(dbClient, transactionsTable, auditTable, connectionsTable)
}

// HandleRequest processes deferred status transitions delivered through SQS.
// The conditional update in the store makes redelivery and stale transitions
// harmless: transactions already in a terminal status are left untouched.
func HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) error {
	for _, message := range sqsEvent.Records {
		log.Printf("Processing message %s", message.MessageId)

		var transition scheduler.TransitionMessage
		if err := json.Unmarshal([]byte(message.Body), &transition); err != nil {
			log.Printf("ERROR: failed to unmarshal transition from SQS message %s: %v", message.MessageId, err)
			// Returning an error will cause SQS to retry the message, which is appropriate here.
			return err
		}

		log.Printf("Applying transition for transaction %s to %s", transition.TransactionID, transition.Status)

		if err := store.UpdateTransactionStatus(ctx, transition.TransactionID, transition.Status); err != nil {
			log.Printf("ERROR: failed to apply transition for transaction %s: %v", transition.TransactionID, err)
			return err
		}
	}

	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
