package dal

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"wastewise-backend/models"
	"wastewise-backend/utils/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// dynamoAPI is the subset of *dynamodb.Client used here
type dynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

type DynamoDBClient struct {
	client dynamoAPI
	config *models.Config
	logger logger.Logger
}

// NewDynamoDBClient creates a new DynamoDB client
func NewDynamoDBClient(cfg *models.Config, log logger.Logger) (*DynamoDBClient, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)))
	}

	awsCfg, err := config.LoadDefaultConfig(context.TODO(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		// Local DynamoDB
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})

	log.Info("DynamoDB client initialized successfully")
	return newDynamoDBClient(client, cfg, log), nil
}

func newDynamoDBClient(client dynamoAPI, cfg *models.Config, log logger.Logger) *DynamoDBClient {
	return &DynamoDBClient{
		client: client,
		config: cfg,
		logger: log,
	}
}

func keyAttribute(value string, keyType models.AttributeType) types.AttributeValue {
	switch keyType {
	case models.NumberType:
		return &types.AttributeValueMemberN{Value: value}
	case models.BinaryType:
		return &types.AttributeValueMemberB{Value: []byte(value)}
	default:
		return &types.AttributeValueMemberS{Value: value}
	}
}

// GetItem retrieves a single item by primary key, or the first match on an index.
// It returns ErrItemNotFound when nothing matches.
func (db *DynamoDBClient) GetItem(ctx context.Context, q models.QueryConfig, result interface{}) error {
	if q.IndexName != "" {
		output, err := db.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(q.TableName),
			IndexName:              aws.String(q.IndexName),
			Limit:                  aws.Int32(1),
			KeyConditionExpression: aws.String("#kn0 = :kv0"),
			ExpressionAttributeNames: map[string]string{
				"#kn0": q.KeyName,
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":kv0": keyAttribute(q.KeyValue, q.KeyType),
			},
		})
		if err != nil {
			db.logger.Errorf("Failed to query %s.%s: %v", q.TableName, q.IndexName, err)
			return err
		}
		if len(output.Items) == 0 {
			return ErrItemNotFound
		}
		return attributevalue.UnmarshalMap(output.Items[0], result)
	}

	output, err := db.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(q.TableName),
		Key: map[string]types.AttributeValue{
			q.KeyName: keyAttribute(q.KeyValue, q.KeyType),
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		db.logger.Errorf("Failed to get item: %v", err)
		return err
	}

	if output.Item == nil {
		return ErrItemNotFound
	}

	return attributevalue.UnmarshalMap(output.Item, result)
}

// PutItem stores an item in DynamoDB
func (db *DynamoDBClient) PutItem(ctx context.Context, tableName string, item interface{}) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	_, err = db.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(tableName),
		Item:      av,
	})
	return err
}

// PutItemIfNotExists stores item only when no item with the same keyName exists.
// A rejected write returns ErrConditionFailed.
func (db *DynamoDBClient) PutItemIfNotExists(ctx context.Context, tableName, keyName string, item interface{}) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	_, err = db.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{
			"#pk": keyName,
		},
	})
	if IsConditionalCheckFailed(err) {
		return fmt.Errorf("%w: %s already exists in %s", ErrConditionFailed, keyName, tableName)
	}
	return err
}

// UpdateItem sets fields on an existing item
func (db *DynamoDBClient) UpdateItem(ctx context.Context, tableName, key, keyValue string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	names := make(map[string]string)
	values := make(map[string]types.AttributeValue)
	sets, err := buildSetClauses(updates, names, values)
	if err != nil {
		return err
	}

	_, err = db.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(tableName),
		Key: map[string]types.AttributeValue{
			key: &types.AttributeValueMemberS{Value: keyValue},
		},
		UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames:  withName(names, "#pk", key),
		ExpressionAttributeValues: values,
	})
	if IsConditionalCheckFailed(err) {
		return ErrItemNotFound
	}
	return err
}

// ConditionalUpdate applies update only when the item exists and, if set,
// ConditionField equals ConditionValue. The updated item is unmarshalled into result.
// A failed condition returns an error matching ErrConditionFailed.
func (db *DynamoDBClient) ConditionalUpdate(ctx context.Context, u *models.ConditionalUpdate, result interface{}) error {
	names := map[string]string{"#pk": u.KeyName}
	values := make(map[string]types.AttributeValue)

	var clauses []string
	sets, err := buildSetClauses(u.Set, names, values)
	if err != nil {
		return err
	}
	if len(sets) > 0 {
		clauses = append(clauses, "SET "+strings.Join(sets, ", "))
	}

	if len(u.Remove) > 0 {
		removes := make([]string, 0, len(u.Remove))
		for i, field := range u.Remove {
			n := fmt.Sprintf("#r%d", i)
			names[n] = field
			removes = append(removes, n)
		}
		clauses = append(clauses, "REMOVE "+strings.Join(removes, ", "))
	}

	if len(u.Add) > 0 {
		adds := make([]string, 0, len(u.Add))
		for i, field := range sortedKeys(u.Add) {
			n, v := fmt.Sprintf("#a%d", i), fmt.Sprintf(":a%d", i)
			names[n] = field
			values[v] = &types.AttributeValueMemberN{Value: strconv.Itoa(u.Add[field])}
			adds = append(adds, n+" "+v)
		}
		clauses = append(clauses, "ADD "+strings.Join(adds, ", "))
	}

	if len(clauses) == 0 {
		return fmt.Errorf("conditional update on %s has no changes", u.TableName)
	}

	condition := "attribute_exists(#pk)"
	if u.ConditionField != "" {
		av, err := attributevalue.Marshal(u.ConditionValue)
		if err != nil {
			return fmt.Errorf("failed to marshal condition value: %w", err)
		}
		names["#c0"] = u.ConditionField
		values[":c0"] = av
		condition += " AND #c0 = :c0"
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(u.TableName),
		Key: map[string]types.AttributeValue{
			u.KeyName: &types.AttributeValueMemberS{Value: u.KeyValue},
		},
		UpdateExpression:         aws.String(strings.Join(clauses, " ")),
		ConditionExpression:      aws.String(condition),
		ExpressionAttributeNames: names,
		ReturnValues:             types.ReturnValueAllNew,
	}
	if len(values) > 0 {
		input.ExpressionAttributeValues = values
	}

	output, err := db.client.UpdateItem(ctx, input)
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return fmt.Errorf("%w: %s=%s", ErrConditionFailed, u.KeyName, u.KeyValue)
		}
		db.logger.Errorf("Conditional update on %s failed: %v", u.TableName, err)
		return err
	}

	if result == nil {
		return nil
	}
	return attributevalue.UnmarshalMap(output.Attributes, result)
}

// QueryByIndex queries every item matching keyValue on a global secondary index
func (db *DynamoDBClient) QueryByIndex(ctx context.Context, tableName, indexName, keyName, keyValue string, results interface{}) error {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(tableName),
		IndexName:              aws.String(indexName),
		KeyConditionExpression: aws.String("#kn0 = :kv0"),
		ExpressionAttributeNames: map[string]string{
			"#kn0": keyName,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":kv0": &types.AttributeValueMemberS{Value: keyValue},
		},
	}

	var items []map[string]types.AttributeValue
	for {
		output, err := db.client.Query(ctx, input)
		if err != nil {
			return err
		}
		items = append(items, output.Items...)
		if len(output.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = output.LastEvaluatedKey
	}

	return attributevalue.UnmarshalListOfMaps(items, results)
}

// Scan scans the entire table, following pagination
func (db *DynamoDBClient) Scan(ctx context.Context, tableName string, results interface{}) error {
	input := &dynamodb.ScanInput{
		TableName: aws.String(tableName),
	}

	var items []map[string]types.AttributeValue
	for {
		output, err := db.client.Scan(ctx, input)
		if err != nil {
			return err
		}
		items = append(items, output.Items...)
		if len(output.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = output.LastEvaluatedKey
	}

	return attributevalue.UnmarshalListOfMaps(items, results)
}

// CreateTable creates a table
func (db *DynamoDBClient) CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error {
	_, err := db.client.CreateTable(ctx, input)
	return err
}

// DescribeTable describes a table
func (db *DynamoDBClient) DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error) {
	return db.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(tableName),
	})
}

func buildSetClauses(updates map[string]interface{}, names map[string]string, values map[string]types.AttributeValue) ([]string, error) {
	sets := make([]string, 0, len(updates))
	for i, field := range sortedKeys(updates) {
		n, v := fmt.Sprintf("#s%d", i), fmt.Sprintf(":s%d", i)
		av, err := attributevalue.Marshal(updates[field])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", field, err)
		}
		names[n] = field
		values[v] = av
		sets = append(sets, n+" = "+v)
	}
	return sets, nil
}

func withName(names map[string]string, placeholder, field string) map[string]string {
	names[placeholder] = field
	return names
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
