package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/max-de-bug/portion-app-sub001/pkg/models"
	"github.com/max-de-bug/portion-app-sub001/pkg/storage"
)

// fakeDynamoDB records calls and plays back scripted responses.
type fakeDynamoDB struct {
	putInputs    []*dynamodb.PutItemInput
	updateInputs []*dynamodb.UpdateItemInput
	batchInputs  []*dynamodb.BatchWriteItemInput
	queryOutput  *dynamodb.QueryOutput
	updateErr    error
}

func (f *fakeDynamoDB) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putInputs = append(f.putInputs, params)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamoDB) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updateInputs = append(f.updateInputs, params)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamoDB) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamoDB) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if f.queryOutput != nil {
		return f.queryOutput, nil
	}
	return &dynamodb.QueryOutput{}, nil
}

func (f *fakeDynamoDB) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.batchInputs = append(f.batchInputs, params)
	return &dynamodb.BatchWriteItemOutput{}, nil
}

func queryOutputFor(t *testing.T, txs []models.Transaction) *dynamodb.QueryOutput {
	t.Helper()
	items := make([]map[string]types.AttributeValue, 0, len(txs))
	for _, tx := range txs {
		item, err := attributevalue.MarshalMap(transactionItem{
			StorageKey:  storage.TransactionsStorageKey,
			Transaction: tx,
		})
		require.NoError(t, err)
		items = append(items, item)
	}
	return &dynamodb.QueryOutput{Items: items}
}

func TestSaveTransaction(t *testing.T) {
	t.Run("Namespaces By Storage Key And Sets TTL", func(t *testing.T) {
		// Arrange
		fake := &fakeDynamoDB{}
		s := New(fake, "transactions", "audit", "connections")

		// Act
		err := s.SaveTransaction(context.Background(), models.Transaction{
			Id:      "tx-1",
			Service: "ai-summarize",
			Status:  models.PROCESSING,
		})

		// Assert
		require.NoError(t, err)
		require.Len(t, fake.putInputs, 1)
		assert.Equal(t, "transactions", *fake.putInputs[0].TableName)

		var item transactionItem
		require.NoError(t, attributevalue.UnmarshalMap(fake.putInputs[0].Item, &item))
		assert.Equal(t, storage.TransactionsStorageKey, item.StorageKey)
		assert.Equal(t, "tx-1", item.Id)
		assert.NotZero(t, item.TTL, "items must carry a TTL so stranded versions get reaped")
	})
}

func TestUpdateTransactionStatus(t *testing.T) {
	t.Run("Guards Terminal Statuses In The Condition", func(t *testing.T) {
		fake := &fakeDynamoDB{}
		s := New(fake, "transactions", "audit", "connections")

		err := s.UpdateTransactionStatus(context.Background(), "tx-1", models.VALIDATED)

		require.NoError(t, err)
		require.Len(t, fake.updateInputs, 1)
		cond := *fake.updateInputs[0].ConditionExpression
		assert.Contains(t, cond, "attribute_exists(id)")
		assert.Contains(t, cond, ":settled")
		assert.Contains(t, cond, ":failed")
	})

	t.Run("Conditional Check Failure Is A NoOp", func(t *testing.T) {
		fake := &fakeDynamoDB{updateErr: &types.ConditionalCheckFailedException{}}
		s := New(fake, "transactions", "audit", "connections")

		err := s.UpdateTransactionStatus(context.Background(), "tx-1", models.SETTLED)

		assert.NoError(t, err)
	})

	t.Run("Other Errors Propagate", func(t *testing.T) {
		fake := &fakeDynamoDB{updateErr: errors.New("throughput exceeded")}
		s := New(fake, "transactions", "audit", "connections")

		err := s.UpdateTransactionStatus(context.Background(), "tx-1", models.SETTLED)

		assert.Error(t, err)
	})
}

func TestListTransactions(t *testing.T) {
	t.Run("Sorts Newest First And Applies Limit", func(t *testing.T) {
		base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
		fake := &fakeDynamoDB{queryOutput: queryOutputFor(t, []models.Transaction{
			{Id: "tx-old", Timestamp: base.Add(-2 * time.Hour)},
			{Id: "tx-new", Timestamp: base},
			{Id: "tx-mid", Timestamp: base.Add(-time.Hour)},
		})}
		s := New(fake, "transactions", "audit", "connections")

		txs, err := s.ListTransactions(context.Background(), 2)

		require.NoError(t, err)
		require.Len(t, txs, 2)
		assert.Equal(t, "tx-new", txs[0].Id)
		assert.Equal(t, "tx-mid", txs[1].Id)
	})
}

func TestPruneTransactions(t *testing.T) {
	t.Run("Deletes Beyond The Cap", func(t *testing.T) {
		base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
		var txs []models.Transaction
		for i := 0; i < 5; i++ {
			txs = append(txs, models.Transaction{
				Id:        fmt.Sprintf("tx-%d", i),
				Timestamp: base.Add(-time.Duration(i) * time.Minute),
			})
		}
		fake := &fakeDynamoDB{queryOutput: queryOutputFor(t, txs)}
		s := New(fake, "transactions", "audit", "connections")

		removed, err := s.PruneTransactions(context.Background(), 3)

		require.NoError(t, err)
		assert.Equal(t, 2, removed)
		require.Len(t, fake.batchInputs, 1)
		assert.Len(t, fake.batchInputs[0].RequestItems["transactions"], 2)
	})

	t.Run("Under The Cap Is A NoOp", func(t *testing.T) {
		fake := &fakeDynamoDB{queryOutput: queryOutputFor(t, []models.Transaction{{Id: "tx-1"}})}
		s := New(fake, "transactions", "audit", "connections")

		removed, err := s.PruneTransactions(context.Background(), 50)

		require.NoError(t, err)
		assert.Zero(t, removed)
		assert.Empty(t, fake.batchInputs)
	})
}
