package dynamodb

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"deepthinker-backend/domain/quota"
	pkgerrors "deepthinker-backend/pkg/errors"
)

// stubLedgerClient fakes the two DynamoDB calls the ledger makes
type stubLedgerClient struct {
	getItem    func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error)
	updateItem func(*dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error)

	getCalls    int
	updateCalls int
	lastUpdate  *dynamodb.UpdateItemInput
}

func (s *stubLedgerClient) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	s.getCalls++
	return s.getItem(in)
}

func (s *stubLedgerClient) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	s.updateCalls++
	s.lastUpdate = in
	return s.updateItem(in)
}

func ledgerItem(usage int, lastReset string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"TokenUsage":     &types.AttributeValueMemberN{Value: strconv.Itoa(usage)},
		"LastTokenReset": &types.AttributeValueMemberS{Value: lastReset},
	}
}

func attrN(t *testing.T, values map[string]types.AttributeValue, key string) int {
	t.Helper()
	av, ok := values[key].(*types.AttributeValueMemberN)
	require.True(t, ok, "expected numeric attribute %s", key)
	n, err := strconv.Atoi(av.Value)
	require.NoError(t, err)
	return n
}

func TestQuotaLedger_Consume_SamePeriod(t *testing.T) {
	thisMonth := time.Now().UTC().Format(time.RFC3339)
	client := &stubLedgerClient{
		getItem: func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{Item: ledgerItem(100, thisMonth)}, nil
		},
		updateItem: func(*dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error) {
			return &dynamodb.UpdateItemOutput{}, nil
		},
	}
	ledger := NewQuotaLedger(client, "deepthinker", zap.NewNop())

	status, err := ledger.Consume(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, 100+quota.CostPerGeneration, status.Usage)
	assert.Equal(t, quota.Remaining(100+quota.CostPerGeneration), status.Remaining)

	// The charge is conditional on the usage we read
	update := client.lastUpdate
	require.NotNil(t, update)
	assert.Equal(t, "TokenUsage = :expected", *update.ConditionExpression)
	assert.Equal(t, 100, attrN(t, update.ExpressionAttributeValues, ":expected"))
	assert.Equal(t, 100+quota.CostPerGeneration, attrN(t, update.ExpressionAttributeValues, ":newUsage"))
	assert.NotContains(t, *update.UpdateExpression, "LastTokenReset")
}

func TestQuotaLedger_Consume_MonthRollover(t *testing.T) {
	lastMonth := "2024-01-15T09:00:00Z"
	client := &stubLedgerClient{
		getItem: func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{Item: ledgerItem(900, lastMonth)}, nil
		},
		updateItem: func(*dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error) {
			return &dynamodb.UpdateItemOutput{}, nil
		},
	}
	ledger := NewQuotaLedger(client, "deepthinker", zap.NewNop())

	status, err := ledger.Consume(context.Background(), "user-1")
	require.NoError(t, err)

	// Last month's usage is discarded before the charge
	assert.Equal(t, quota.CostPerGeneration, status.Usage)

	update := client.lastUpdate
	require.NotNil(t, update)
	assert.Contains(t, *update.UpdateExpression, "LastTokenReset = :now")
	assert.Equal(t, "LastTokenReset = :expectedReset", *update.ConditionExpression)
	expectedReset, ok := update.ExpressionAttributeValues[":expectedReset"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, lastMonth, expectedReset.Value)
	assert.Equal(t, quota.CostPerGeneration, attrN(t, update.ExpressionAttributeValues, ":newUsage"))
}

func TestQuotaLedger_Consume_Exhausted(t *testing.T) {
	thisMonth := time.Now().UTC().Format(time.RFC3339)
	client := &stubLedgerClient{
		getItem: func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{Item: ledgerItem(quota.MonthlyFreeAllowance-quota.CostPerGeneration+1, thisMonth)}, nil
		},
	}
	ledger := NewQuotaLedger(client, "deepthinker", zap.NewNop())

	_, err := ledger.Consume(context.Background(), "user-1")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsQuotaExhausted(err))
	assert.Equal(t, 0, client.updateCalls, "an exhausted allowance is never charged")
}

func TestQuotaLedger_Consume_ContentionExhaustsRetries(t *testing.T) {
	thisMonth := time.Now().UTC().Format(time.RFC3339)
	client := &stubLedgerClient{
		getItem: func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{Item: ledgerItem(100, thisMonth)}, nil
		},
		updateItem: func(*dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error) {
			return nil, &types.ConditionalCheckFailedException{}
		},
	}
	ledger := NewQuotaLedger(client, "deepthinker", zap.NewNop())

	_, err := ledger.Consume(context.Background(), "user-1")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsDatabase(err))
	assert.Contains(t, err.Error(), "contention")

	// Every attempt re-reads the ledger before retrying the charge
	assert.Equal(t, quotaConsumeRetries, client.getCalls)
	assert.Equal(t, quotaConsumeRetries, client.updateCalls)
}

func TestQuotaLedger_Consume_ContentionThenSuccess(t *testing.T) {
	thisMonth := time.Now().UTC().Format(time.RFC3339)
	usage := 100
	client := &stubLedgerClient{}
	client.getItem = func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
		return &dynamodb.GetItemOutput{Item: ledgerItem(usage, thisMonth)}, nil
	}
	client.updateItem = func(*dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error) {
		if client.updateCalls == 1 {
			// Another request charged between our read and write
			usage += quota.CostPerGeneration
			return nil, &types.ConditionalCheckFailedException{}
		}
		return &dynamodb.UpdateItemOutput{}, nil
	}
	ledger := NewQuotaLedger(client, "deepthinker", zap.NewNop())

	status, err := ledger.Consume(context.Background(), "user-1")
	require.NoError(t, err)

	// The second attempt charged on top of the refreshed usage
	assert.Equal(t, 100+2*quota.CostPerGeneration, status.Usage)
	assert.Equal(t, 2, client.getCalls)
	assert.Equal(t, 150, attrN(t, client.lastUpdate.ExpressionAttributeValues, ":expected"))
}

func TestQuotaLedger_Consume_UnknownUser(t *testing.T) {
	client := &stubLedgerClient{
		getItem: func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{}, nil
		},
	}
	ledger := NewQuotaLedger(client, "deepthinker", zap.NewNop())

	_, err := ledger.Consume(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestQuotaLedger_Status_StalePeriod(t *testing.T) {
	lastMonth := "2024-01-15T09:00:00Z"
	client := &stubLedgerClient{
		getItem: func(in *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			pk, ok := in.Key["PK"].(*types.AttributeValueMemberS)
			require.True(t, ok)
			assert.True(t, strings.HasPrefix(pk.Value, "USER#"))
			return &dynamodb.GetItemOutput{Item: ledgerItem(950, lastMonth)}, nil
		},
	}
	ledger := NewQuotaLedger(client, "deepthinker", zap.NewNop())

	status, err := ledger.Status(context.Background(), "user-1")
	require.NoError(t, err)

	// A stale period reports a fresh allowance without writing anything
	assert.Equal(t, 0, status.Usage)
	assert.Equal(t, quota.MonthlyFreeAllowance, status.Remaining)
	assert.Equal(t, 0, client.updateCalls)
}
