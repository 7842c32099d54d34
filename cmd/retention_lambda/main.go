package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	"github.com/max-de-bug/portion-app-sub001/pkg/ledger"
	"github.com/max-de-bug/portion-app-sub001/pkg/storage"
	dydbstore "github.com/max-de-bug/portion-app-sub001/pkg/storage/dynamodb"
)

var store storage.Storage

// Retention defaults; overridable through the environment.
const (
	defaultMaxAuditEvents = 200
	defaultAuditRetention = 30 * 24 * time.Hour
)

func init() {
	// Load environment variables for local testing.
	godotenv.Load()

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(cfg)
	transactionsTable := os.Getenv("DYNAMODB_TRANSACTIONS_TABLE_NAME")
	auditTable := os.Getenv("DYNAMODB_AUDIT_TABLE_NAME")
	connectionsTable := os.Getenv("DYNAMODB_CONNECTIONS_TABLE_NAME")

	if transactionsTable == "" || auditTable == "" {
		log.Fatal("DynamoDB table name environment variables are not set")
	}

	store = dydbstore.New(dbClient, transactionsTable, auditTable, connectionsTable)
}

// HandleRequest is triggered by an EventBridge Schedule. It enforces the
// ledger's entry cap and the audit log's age and count limits against the
// persisted items, catching anything the item TTLs haven't reaped yet.
func HandleRequest(ctx context.Context) error {
	log.Println("Starting retention pass...")

	removedTxs, err := store.PruneTransactions(ctx, ledger.MaxEntries)
	if err != nil {
		log.Printf("ERROR: failed to prune transactions: %v", err)
		return err
	}

	maxEvents := defaultMaxAuditEvents
	if raw := os.Getenv("AUDIT_MAX_EVENTS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			maxEvents = n
		}
	}

	removedEvents, err := store.PruneEvents(ctx, int32(maxEvents), defaultAuditRetention)
	if err != nil {
		log.Printf("ERROR: failed to prune audit events: %v", err)
		return err
	}

	log.Printf("Retention pass finished: removed %d transactions, %d audit events", removedTxs, removedEvents)
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
