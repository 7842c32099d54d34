package dynamodb

import (
	"context"
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

func auditQueryOutputFor(t *testing.T, events []models.AuditEvent) *dynamodb.QueryOutput {
	t.Helper()
	items := make([]map[string]types.AttributeValue, 0, len(events))
	for _, ev := range events {
		item, err := attributevalue.MarshalMap(auditItem{
			StorageKey: storage.AuditStorageKey,
			AuditEvent: ev,
		})
		require.NoError(t, err)
		items = append(items, item)
	}
	return &dynamodb.QueryOutput{Items: items}
}

func TestAppendEvent(t *testing.T) {
	fake := &fakeDynamoDB{}
	s := New(fake, "transactions", "audit", "connections")

	err := s.AppendEvent(context.Background(), models.AuditEvent{
		Id:     "ev-1",
		Action: "payment.settled",
		Status: models.AuditSuccess,
	})

	require.NoError(t, err)
	require.Len(t, fake.putInputs, 1)
	assert.Equal(t, "audit", *fake.putInputs[0].TableName)

	var item auditItem
	require.NoError(t, attributevalue.UnmarshalMap(fake.putInputs[0].Item, &item))
	assert.Equal(t, storage.AuditStorageKey, item.StorageKey)
	assert.NotZero(t, item.TTL)
}

func TestPruneEvents(t *testing.T) {
	t.Run("Removes Aged Then Caps", func(t *testing.T) {
		now := time.Now()
		var events []models.AuditEvent
		// Two aged out, four recent.
		for i := 0; i < 2; i++ {
			events = append(events, models.AuditEvent{
				Id:        fmt.Sprintf("old-%d", i),
				Timestamp: now.Add(-40 * 24 * time.Hour),
			})
		}
		for i := 0; i < 4; i++ {
			events = append(events, models.AuditEvent{
				Id:        fmt.Sprintf("recent-%d", i),
				Timestamp: now.Add(-time.Duration(i) * time.Minute),
			})
		}
		fake := &fakeDynamoDB{queryOutput: auditQueryOutputFor(t, events)}
		s := New(fake, "transactions", "audit", "connections")

		removed, err := s.PruneEvents(context.Background(), 3, 30*24*time.Hour)

		require.NoError(t, err)
		// Two by age, one more by count.
		assert.Equal(t, 3, removed)
		require.Len(t, fake.batchInputs, 1)
		assert.Len(t, fake.batchInputs[0].RequestItems["audit"], 3)
	})

	t.Run("Nothing To Remove", func(t *testing.T) {
		fake := &fakeDynamoDB{queryOutput: auditQueryOutputFor(t, []models.AuditEvent{
			{Id: "ev-1", Timestamp: time.Now()},
		})}
		s := New(fake, "transactions", "audit", "connections")

		removed, err := s.PruneEvents(context.Background(), 200, 30*24*time.Hour)

		require.NoError(t, err)
		assert.Zero(t, removed)
		assert.Empty(t, fake.batchInputs)
	})
}
