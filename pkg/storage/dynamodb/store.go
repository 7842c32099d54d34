// Package dynamodb implements the storage interfaces on AWS DynamoDB.
// Every item carries a versioned storage_key partition value so that a
// version bump strands incompatible historical items instead of loading
// them; item TTLs reap the strays.
package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/max-de-bug/portion-app-sub001/pkg/storage"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the Store,
// extracted for mocking.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// itemTTL bounds how long orphaned items survive a storage key version bump.
const itemTTL = 30 * 24 * time.Hour

// Store implements the Storage interface using AWS DynamoDB.
type Store struct {
	Client               DynamoDBAPI
	TransactionsTableName string
	AuditTableName        string
	ConnectionsTableName  string
}

// New creates a new Store.
func New(client DynamoDBAPI, transactionsTable, auditTable, connectionsTable string) *Store {
	return &Store{
		Client:               client,
		TransactionsTableName: transactionsTable,
		AuditTableName:        auditTable,
		ConnectionsTableName:  connectionsTable,
	}
}

// Make sure we conform to the interfaces
var _ storage.Storage = (*Store)(nil)
var _ storage.WebSocketManager = (*Store)(nil)
