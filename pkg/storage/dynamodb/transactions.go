package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/max-de-bug/portion-app-sub001/pkg/models"
	"github.com/max-de-bug/portion-app-sub001/pkg/storage"
)

// transactionItem is the stored shape of a transaction, namespaced by the
// versioned storage key.
type transactionItem struct {
	StorageKey string `dynamodbav:"storage_key"`
	models.Transaction
}

// SaveTransaction upserts one transaction under the current storage key.
func (s *Store) SaveTransaction(ctx context.Context, tx models.Transaction) error {
	if tx.TTL == 0 {
		tx.TTL = time.Now().Add(itemTTL).Unix()
	}

	item, err := attributevalue.MarshalMap(transactionItem{
		StorageKey:  storage.TransactionsStorageKey,
		Transaction: tx,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.TransactionsTableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put transaction: %w", err)
	}
	return nil
}

// UpdateTransactionStatus mutates a stored transaction's status in place.
// The conditional write makes missing records and records already in a
// terminal status a silent no-op, so a stale deferred transition can never
// undo SETTLED or FAILED.
func (s *Store) UpdateTransactionStatus(ctx context.Context, id string, status models.TransactionStatus) error {
	statusAV, err := attributevalue.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.TransactionsTableName),
		Key: map[string]types.AttributeValue{
			"storage_key": &types.AttributeValueMemberS{Value: storage.TransactionsStorageKey},
			"id":          &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:    aws.String("SET #status = :status"),
		ConditionExpression: aws.String("attribute_exists(id) AND #status <> :settled AND #status <> :failed"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status":  statusAV,
			":settled": &types.AttributeValueMemberS{Value: string(models.SETTLED)},
			":failed":  &types.AttributeValueMemberS{Value: string(models.FAILED)},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			// Pruned, unknown, or already terminal.
			return nil
		}
		return fmt.Errorf("failed to update transaction status: %w", err)
	}
	return nil
}

// ListTransactions retrieves up to limit transactions, newest first.
func (s *Store) ListTransactions(ctx context.Context, limit int32) ([]models.Transaction, error) {
	txs, err := s.queryTransactions(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && int(limit) < len(txs) {
		txs = txs[:limit]
	}
	return txs, nil
}

// PruneTransactions deletes everything beyond the newest maxEntries records.
func (s *Store) PruneTransactions(ctx context.Context, maxEntries int32) (int, error) {
	txs, err := s.queryTransactions(ctx)
	if err != nil {
		return 0, err
	}
	if len(txs) <= int(maxEntries) {
		return 0, nil
	}

	var stale []string
	for _, tx := range txs[maxEntries:] {
		stale = append(stale, tx.Id)
	}
	if err := s.batchDelete(ctx, s.TransactionsTableName, storage.TransactionsStorageKey, stale); err != nil {
		return 0, err
	}
	return len(stale), nil
}

// queryTransactions loads the current collection, newest first.
func (s *Store) queryTransactions(ctx context.Context) ([]models.Transaction, error) {
	result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.TransactionsTableName),
		KeyConditionExpression: aws.String("storage_key = :key"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":key": &types.AttributeValueMemberS{Value: storage.TransactionsStorageKey},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}

	var txs []models.Transaction
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &txs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transactions: %w", err)
	}

	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Timestamp.After(txs[j].Timestamp)
	})
	return txs, nil
}

// batchDelete removes items by id in chunks of 25, the BatchWriteItem cap.
func (s *Store) batchDelete(ctx context.Context, table, storageKey string, ids []string) error {
	for start := 0; start < len(ids); start += 25 {
		end := start + 25
		if end > len(ids) {
			end = len(ids)
		}

		requests := make([]types.WriteRequest, 0, end-start)
		for _, id := range ids[start:end] {
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{
					Key: map[string]types.AttributeValue{
						"storage_key": &types.AttributeValueMemberS{Value: storageKey},
						"id":          &types.AttributeValueMemberS{Value: id},
					},
				},
			})
		}

		_, err := s.Client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{table: requests},
		})
		if err != nil {
			return fmt.Errorf("failed to batch delete from %s: %w", table, err)
		}
	}
	return nil
}
