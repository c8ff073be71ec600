package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/biz-onboarding-api/internal/domain"
)

// BusinessRepo provides typed DynamoDB operations for the businesses table.
type BusinessRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewBusinessRepo(client *dynamodb.Client, tableName string) *BusinessRepo {
	return &BusinessRepo{client: client, tableName: tableName}
}

func (r *BusinessRepo) Put(ctx context.Context, b *domain.BusinessProfile) error {
	item, err := attributevalue.MarshalMap(b)
	if err != nil {
		return fmt.Errorf("marshal business: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *BusinessRepo) Get(ctx context.Context, businessID string) (*domain.BusinessProfile, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("business_id", businessID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("business not found: %w", domain.ErrNotFound)
	}
	var b domain.BusinessProfile
	if err := attributevalue.UnmarshalMap(out.Item, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BusinessRepo) GetByOwner(ctx context.Context, ownerID string) (*domain.BusinessProfile, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("owner_id-index"),
		KeyConditionExpression:    aws.String("owner_id = :o"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":o": &types.AttributeValueMemberS{Value: ownerID}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("business not found: %w", domain.ErrNotFound)
	}
	var b domain.BusinessProfile
	if err := attributevalue.UnmarshalMap(out.Items[0], &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Delete removes a business record. Used as the compensating action when the
// owner-reference update after a create fails.
func (r *BusinessRepo) Delete(ctx context.Context, businessID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("business_id", businessID),
	})
	return err
}
