package dynamodb

import (
	"context"
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

type auditItem struct {
	StorageKey string `dynamodbav:"storage_key"`
	models.AuditEvent
}

// AppendEvent stores one audit event under the current storage key.
func (s *Store) AppendEvent(ctx context.Context, ev models.AuditEvent) error {
	if ev.TTL == 0 {
		ev.TTL = time.Now().Add(itemTTL).Unix()
	}

	item, err := attributevalue.MarshalMap(auditItem{
		StorageKey: storage.AuditStorageKey,
		AuditEvent: ev,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.AuditTableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put audit event: %w", err)
	}
	return nil
}

// ListEvents retrieves up to limit audit events, newest first.
func (s *Store) ListEvents(ctx context.Context, limit int32) ([]models.AuditEvent, error) {
	events, err := s.queryEvents(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && int(limit) < len(events) {
		events = events[:limit]
	}
	return events, nil
}

// PruneEvents removes events older than the retention window, then caps the
// remainder to maxEvents. The age filter runs before the count cap.
func (s *Store) PruneEvents(ctx context.Context, maxEvents int32, retention time.Duration) (int, error) {
	events, err := s.queryEvents(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-retention)

	var stale []string
	var kept []models.AuditEvent
	for _, ev := range events {
		if ev.Timestamp.Before(cutoff) {
			stale = append(stale, ev.Id)
			continue
		}
		kept = append(kept, ev)
	}

	if len(kept) > int(maxEvents) {
		for _, ev := range kept[maxEvents:] {
			stale = append(stale, ev.Id)
		}
	}

	if len(stale) == 0 {
		return 0, nil
	}
	if err := s.batchDelete(ctx, s.AuditTableName, storage.AuditStorageKey, stale); err != nil {
		return 0, err
	}
	return len(stale), nil
}

func (s *Store) queryEvents(ctx context.Context) ([]models.AuditEvent, error) {
	result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.AuditTableName),
		KeyConditionExpression: aws.String("storage_key = :key"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":key": &types.AttributeValueMemberS{Value: storage.AuditStorageKey},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}

	var events []models.AuditEvent
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal audit events: %w", err)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})
	return events, nil
}
