package dal

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"wastewise-backend/models"
	"wastewise-backend/utils/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// MockDynamoAPI implements dynamoAPI for testing
type MockDynamoAPI struct {
	mock.Mock
}

func (m *MockDynamoAPI) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.GetItemOutput), args.Error(1)
}

func (m *MockDynamoAPI) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.PutItemOutput), args.Error(1)
}

func (m *MockDynamoAPI) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.UpdateItemOutput), args.Error(1)
}

func (m *MockDynamoAPI) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.QueryOutput), args.Error(1)
}

func (m *MockDynamoAPI) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.ScanOutput), args.Error(1)
}

func (m *MockDynamoAPI) CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.CreateTableOutput), args.Error(1)
}

func (m *MockDynamoAPI) DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.DescribeTableOutput), args.Error(1)
}

type record struct {
	ID     string `dynamodbav:"id"`
	Status string `dynamodbav:"status"`
}

// DALTestSuite exercises the DynamoDB client against a mocked API
type DALTestSuite struct {
	suite.Suite
	ctx    context.Context
	api    *MockDynamoAPI
	client *DynamoDBClient
}

func (suite *DALTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.api = &MockDynamoAPI{}
	cfg := &models.Config{DynamoDBTablePrefix: "test"}
	suite.client = newDynamoDBClient(suite.api, cfg, logger.NewLogger("error", "json"))
}

func (suite *DALTestSuite) TearDownTest() {
	suite.api.AssertExpectations(suite.T())
}

func (suite *DALTestSuite) TestGetItemNotFound() {
	suite.api.On("GetItem", suite.ctx, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

	var out record
	err := suite.client.GetItem(suite.ctx, models.QueryConfig{TableName: "test_pickups", KeyName: "id", KeyValue: "missing"}, &out)
	assert.ErrorIs(suite.T(), err, ErrItemNotFound)
}

func (suite *DALTestSuite) TestGetItemByIndexUsesFirstMatch() {
	suite.api.On("Query", suite.ctx, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return aws.ToString(in.IndexName) == "email-index" && aws.ToInt32(in.Limit) == 1
	})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{
		{"id": &types.AttributeValueMemberS{Value: "u1"}, "status": &types.AttributeValueMemberS{Value: "active"}},
	}}, nil)

	var out record
	err := suite.client.GetItem(suite.ctx, models.QueryConfig{TableName: "test_users", IndexName: "email-index", KeyName: "email", KeyValue: "a@b.c"}, &out)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "u1", out.ID)
}

func (suite *DALTestSuite) TestConditionalUpdateBuildsGuardedExpression() {
	var captured *dynamodb.UpdateItemInput
	suite.api.On("UpdateItem", suite.ctx, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(*dynamodb.UpdateItemInput)
	}).Return(&dynamodb.UpdateItemOutput{Attributes: map[string]types.AttributeValue{
		"id":     &types.AttributeValueMemberS{Value: "p1"},
		"status": &types.AttributeValueMemberS{Value: "REJECTED"},
	}}, nil)

	var out record
	err := suite.client.ConditionalUpdate(suite.ctx, &models.ConditionalUpdate{
		TableName:      "test_pickups",
		KeyName:        "id",
		KeyValue:       "p1",
		Set:            map[string]interface{}{"status": "REJECTED", "rejection_reason": "duplicate"},
		Remove:         []string{"assigned_crew_id"},
		Add:            map[string]int{"version": 1},
		ConditionField: "status",
		ConditionValue: "PENDING",
	}, &out)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "REJECTED", out.Status)

	require.NotNil(suite.T(), captured)
	assert.Equal(suite.T(), "SET #s0 = :s0, #s1 = :s1 REMOVE #r0 ADD #a0 :a0", aws.ToString(captured.UpdateExpression))
	assert.Equal(suite.T(), "attribute_exists(#pk) AND #c0 = :c0", aws.ToString(captured.ConditionExpression))
	assert.Equal(suite.T(), "rejection_reason", captured.ExpressionAttributeNames["#s0"])
	assert.Equal(suite.T(), "status", captured.ExpressionAttributeNames["#s1"])
	assert.Equal(suite.T(), "assigned_crew_id", captured.ExpressionAttributeNames["#r0"])
	assert.Equal(suite.T(), "status", captured.ExpressionAttributeNames["#c0"])
	assert.Equal(suite.T(), &types.AttributeValueMemberS{Value: "PENDING"}, captured.ExpressionAttributeValues[":c0"])
	assert.Equal(suite.T(), types.ReturnValueAllNew, captured.ReturnValues)
}

func (suite *DALTestSuite) TestConditionalUpdateMapsConditionFailure() {
	suite.api.On("UpdateItem", suite.ctx, mock.Anything).
		Return(nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")})

	err := suite.client.ConditionalUpdate(suite.ctx, &models.ConditionalUpdate{
		TableName:      "test_pickups",
		KeyName:        "id",
		KeyValue:       "p1",
		Set:            map[string]interface{}{"status": "APPROVED"},
		ConditionField: "status",
		ConditionValue: "PENDING",
	}, nil)
	assert.ErrorIs(suite.T(), err, ErrConditionFailed)
}

func (suite *DALTestSuite) TestConditionalUpdateWithoutChangesFails() {
	err := suite.client.ConditionalUpdate(suite.ctx, &models.ConditionalUpdate{TableName: "t", KeyName: "id", KeyValue: "x"}, nil)
	assert.Error(suite.T(), err)
}

func (suite *DALTestSuite) TestPutItemIfNotExists() {
	suite.api.On("PutItem", suite.ctx, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		return aws.ToString(in.ConditionExpression) == "attribute_not_exists(#pk)" && in.ExpressionAttributeNames["#pk"] == "code"
	})).Return(nil, &smithy.GenericAPIError{Code: "ConditionalCheckFailedException", Message: "exists"}).Once()

	err := suite.client.PutItemIfNotExists(suite.ctx, "test_request_codes", "code", map[string]string{"code": "REQ-AAAAAAAA"})
	assert.ErrorIs(suite.T(), err, ErrConditionFailed)
}

func (suite *DALTestSuite) TestScanFollowsPagination() {
	page2Key := map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "p1"}}
	suite.api.On("Scan", suite.ctx, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
		return in.ExclusiveStartKey == nil
	})).Return(&dynamodb.ScanOutput{
		Items:            []map[string]types.AttributeValue{{"id": &types.AttributeValueMemberS{Value: "p1"}}},
		LastEvaluatedKey: page2Key,
	}, nil).Once()
	suite.api.On("Scan", suite.ctx, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
		return in.ExclusiveStartKey != nil
	})).Return(&dynamodb.ScanOutput{
		Items: []map[string]types.AttributeValue{{"id": &types.AttributeValueMemberS{Value: "p2"}}},
	}, nil).Once()

	var out []record
	require.NoError(suite.T(), suite.client.Scan(suite.ctx, "test_pickups", &out))
	assert.Len(suite.T(), out, 2)
	assert.Equal(suite.T(), "p2", out[1].ID)
}

func (suite *DALTestSuite) TestUpdateItemMissingItem() {
	suite.api.On("UpdateItem", suite.ctx, mock.Anything).
		Return(nil, &types.ConditionalCheckFailedException{Message: aws.String("missing")})

	err := suite.client.UpdateItem(suite.ctx, "test_users", "id", "nobody", map[string]interface{}{"status": "inactive"})
	assert.ErrorIs(suite.T(), err, ErrItemNotFound)
}

func TestDALTestSuite(t *testing.T) {
	suite.Run(t, new(DALTestSuite))
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, IsConditionalCheckFailed(&types.ConditionalCheckFailedException{}))
	assert.True(t, IsConditionalCheckFailed(fmt.Errorf("wrapped: %w", &smithy.GenericAPIError{Code: "ConditionalCheckFailedException"})))
	assert.False(t, IsConditionalCheckFailed(errors.New("boom")))
	assert.False(t, IsConditionalCheckFailed(nil))

	assert.True(t, IsTableNotFound(&types.ResourceNotFoundException{}))
	assert.False(t, IsTableNotFound(&types.ResourceInUseException{}))
	assert.True(t, IsResourceInUse(&smithy.GenericAPIError{Code: "ResourceInUseException"}))
}
