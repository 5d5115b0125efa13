package infrastructure

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseTables(t *testing.T) {
	assert.Equal(t, []string{"users", "pickups", "request_codes"}, BaseTables())
}

func TestGetTable_Pickups(t *testing.T) {
	input, err := GetTable("pickups", "dev_pickups")
	require.NoError(t, err)

	assert.Equal(t, "dev_pickups", aws.ToString(input.TableName))
	assert.Equal(t, types.BillingModePayPerRequest, input.BillingMode)
	assert.Nil(t, input.ProvisionedThroughput)
	require.Len(t, input.KeySchema, 1)
	assert.Equal(t, "id", aws.ToString(input.KeySchema[0].AttributeName))
	assert.Equal(t, types.KeyTypeHash, input.KeySchema[0].KeyType)

	indexes := map[string]string{}
	for _, gsi := range input.GlobalSecondaryIndexes {
		indexes[aws.ToString(gsi.IndexName)] = aws.ToString(gsi.KeySchema[0].AttributeName)
		assert.Nil(t, gsi.ProvisionedThroughput)
		assert.Equal(t, types.ProjectionTypeAll, gsi.Projection.ProjectionType)
	}
	assert.Equal(t, map[string]string{
		"resident-index": "resident_id",
		"crew-index":     "assigned_crew_id",
		"status-index":   "status",
	}, indexes)
}

func TestGetTable_UnderscoreBaseName(t *testing.T) {
	input, err := GetTable("request_codes", "wastewise_prod_request_codes")
	require.NoError(t, err)

	assert.Equal(t, "wastewise_prod_request_codes", aws.ToString(input.TableName))
	assert.Empty(t, input.GlobalSecondaryIndexes)
	assert.Equal(t, "code", aws.ToString(input.KeySchema[0].AttributeName))
}

func TestGetTable_Unknown(t *testing.T) {
	_, err := GetTable("jobs", "dev_jobs")
	assert.Error(t, err)
}

func TestIndexCount(t *testing.T) {
	assert.Equal(t, 2, IndexCount("users"))
	assert.Equal(t, 3, IndexCount("pickups"))
	assert.Equal(t, 0, IndexCount("request_codes"))
}

func TestToDynamoInput_Provisioned(t *testing.T) {
	schema := TableSchema{
		TableName:             "t",
		AttributeDefinitions:  []AttributeDefinition{{AttributeName: "id", AttributeType: "S"}, {AttributeName: "email", AttributeType: "S"}},
		KeySchema:             []KeySchemaElement{{AttributeName: "id", KeyType: "HASH"}},
		ProvisionedThroughput: &Throughput{ReadCapacityUnits: 5, WriteCapacityUnits: 2},
		GlobalSecondaryIndexes: []GlobalSecondaryIndex{{
			IndexName:  "email-index",
			KeySchema:  []KeySchemaElement{{AttributeName: "email", KeyType: "HASH"}},
			Projection: Projection{ProjectionType: "ALL"},
		}},
	}

	input := schema.ToDynamoInput()

	assert.Equal(t, types.BillingModeProvisioned, input.BillingMode)
	assert.Equal(t, int64(5), aws.ToInt64(input.ProvisionedThroughput.ReadCapacityUnits))
	require.Len(t, input.GlobalSecondaryIndexes, 1)
	assert.Equal(t, int64(2), aws.ToInt64(input.GlobalSecondaryIndexes[0].ProvisionedThroughput.WriteCapacityUnits))
}
