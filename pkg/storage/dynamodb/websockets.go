package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/max-de-bug/portion-app-sub001/pkg/storage"
)

// AddConnection stores a WebSocket connection ID.
func (s *Store) AddConnection(ctx context.Context, connectionID string) error {
	_, err := s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.ConnectionsTableName),
		Item: map[string]types.AttributeValue{
			"storage_key": &types.AttributeValueMemberS{Value: storage.ConnectionsStorageKey},
			"id":          &types.AttributeValueMemberS{Value: connectionID},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to store connection: %w", err)
	}
	return nil
}

// RemoveConnection deletes a WebSocket connection ID.
func (s *Store) RemoveConnection(ctx context.Context, connectionID string) error {
	_, err := s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.ConnectionsTableName),
		Key: map[string]types.AttributeValue{
			"storage_key": &types.AttributeValueMemberS{Value: storage.ConnectionsStorageKey},
			"id":          &types.AttributeValueMemberS{Value: connectionID},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}
	return nil
}

// GetAllConnections returns every stored connection ID.
func (s *Store) GetAllConnections(ctx context.Context) ([]string, error) {
	result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.ConnectionsTableName),
		KeyConditionExpression: aws.String("storage_key = :key"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":key": &types.AttributeValueMemberS{Value: storage.ConnectionsStorageKey},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query connections: %w", err)
	}

	ids := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		if av, ok := item["id"].(*types.AttributeValueMemberS); ok {
			ids = append(ids, av.Value)
		}
	}
	return ids, nil
}
