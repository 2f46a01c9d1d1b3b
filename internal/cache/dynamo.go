package cache

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoStore implements Store on a DynamoDB table with a composite primary
// key: partition key "version" (S), sort key "key" (S). The table must
// already exist.
type DynamoStore struct {
	client  *dynamodb.Client
	table   string
	version string
}

type assetItem struct {
	Version string `dynamodbav:"version"`
	Key     string `dynamodbav:"key"`
	Data    []byte `dynamodbav:"data"`
}

// NewDynamo creates a new dynamodb-backed store for the given version tag.
// endpoint overrides the service endpoint (e.g. DynamoDB Local); leave empty
// for the regional default.
func NewDynamo(ctx context.Context, table, region, endpoint, version string) (*DynamoStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &DynamoStore{
		client:  client,
		table:   table,
		version: version,
	}, nil
}

func (d *DynamoStore) itemKey(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"version": &types.AttributeValueMemberS{Value: d.version},
		"key":     &types.AttributeValueMemberS{Value: key},
	}
}

// Init checks the table is reachable
func (d *DynamoStore) Init(ctx context.Context) error {
	_, err := d.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(d.table),
	})
	if err != nil {
		return fmt.Errorf("describing table %s: %w", d.table, err)
	}
	return nil
}

// Get retrieves stored data if the key is present
func (d *DynamoStore) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key:       d.itemKey(key),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, nil
	}

	var item assetItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshaling item: %w", err)
	}
	return item.Data, nil
}

// Set stores data under a key
func (d *DynamoStore) Set(ctx context.Context, key string, data []byte) error {
	item, err := attributevalue.MarshalMap(assetItem{
		Version: d.version,
		Key:     key,
		Data:    data,
	})
	if err != nil {
		return fmt.Errorf("marshaling item: %w", err)
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      item,
	})
	return err
}

// Clear removes every item of this version's partition
func (d *DynamoStore) Clear(ctx context.Context) error {
	out, err := d.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(d.table),
		KeyConditionExpression: aws.String("#v = :version"),
		ExpressionAttributeNames: map[string]string{
			"#v": "version",
			"#k": "key",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":version": &types.AttributeValueMemberS{Value: d.version},
		},
		ProjectionExpression: aws.String("#v, #k"),
	})
	if err != nil {
		return err
	}

	for _, item := range out.Items {
		var stored assetItem
		if err := attributevalue.UnmarshalMap(item, &stored); err != nil {
			return fmt.Errorf("unmarshaling item key: %w", err)
		}
		_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(d.table),
			Key:       d.itemKey(stored.Key),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Version returns the version tag
func (d *DynamoStore) Version() string {
	return d.version
}
