package models

// AttributeType enum for different DynamoDB attribute types
type AttributeType int

const (
	StringType AttributeType = iota
	NumberType
	BinaryType
)

// QueryConfig holds all the configuration for any DynamoDB query
type QueryConfig struct {
	TableName string
	IndexName string // empty for primary key lookups
	KeyName   string
	KeyValue  string
	KeyType   AttributeType
}

// ConditionalUpdate describes an UpdateItem guarded by an equality condition.
// The update applies only when ConditionField currently equals ConditionValue.
type ConditionalUpdate struct {
	TableName      string
	KeyName        string
	KeyValue       string
	Set            map[string]interface{}
	Remove         []string
	Add            map[string]int
	ConditionField string
	ConditionValue interface{}
}
