package dynamodb

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"deepthinker-backend/application/ports"
	"deepthinker-backend/domain/quota"
	pkgerrors "deepthinker-backend/pkg/errors"
)

// quotaConsumeRetries bounds the optimistic-concurrency loop in Consume.
// Each retry re-reads the ledger, so contention between a handful of
// concurrent generations resolves within a try or two.
const quotaConsumeRetries = 3

// LedgerClient is the slice of the DynamoDB API the ledger uses
type LedgerClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// QuotaLedger implements ports.QuotaLedger on the user's profile item.
// Charges are conditional updates keyed on the value we read, so two
// concurrent generations can never both spend the same tokens.
type QuotaLedger struct {
	client    LedgerClient
	tableName string
	logger    *zap.Logger
}

// NewQuotaLedger creates a new QuotaLedger
func NewQuotaLedger(client LedgerClient, tableName string, logger *zap.Logger) ports.QuotaLedger {
	return &QuotaLedger{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

func (l *QuotaLedger) userKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("USER#%s", userID)},
		"SK": &types.AttributeValueMemberS{Value: "PROFILE"},
	}
}

// readLedger returns the stored usage and reset marker for a user
func (l *QuotaLedger) readLedger(ctx context.Context, userID string) (usage int, lastReset string, err error) {
	out, err := l.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(l.tableName),
		Key:                  l.userKey(userID),
		ProjectionExpression: aws.String("TokenUsage, LastTokenReset"),
		ConsistentRead:       aws.Bool(true),
	})
	if err != nil {
		return 0, "", pkgerrors.NewDatabaseError("read quota ledger", err)
	}
	if out.Item == nil {
		return 0, "", pkgerrors.NewNotFoundError("user")
	}

	if av, ok := out.Item["TokenUsage"].(*types.AttributeValueMemberN); ok {
		usage, _ = strconv.Atoi(av.Value)
	}
	if av, ok := out.Item["LastTokenReset"].(*types.AttributeValueMemberS); ok {
		lastReset = av.Value
	}

	return usage, lastReset, nil
}

// Consume charges one generation against the user's monthly allowance
func (l *QuotaLedger) Consume(ctx context.Context, userID string) (ports.QuotaStatus, error) {
	now := time.Now().UTC()

	for attempt := 0; attempt < quotaConsumeRetries; attempt++ {
		usage, lastReset, err := l.readLedger(ctx, userID)
		if err != nil {
			return ports.QuotaStatus{}, err
		}

		resetAt, _ := time.Parse(time.RFC3339, lastReset)
		samePeriod := lastReset != "" && quota.SamePeriod(resetAt, now)

		effectiveUsage := usage
		if !samePeriod {
			effectiveUsage = 0
		}

		if !quota.CanGenerate(effectiveUsage) {
			return ports.QuotaStatus{}, pkgerrors.NewQuotaExhaustedError(quota.Remaining(effectiveUsage))
		}

		newUsage := effectiveUsage + quota.CostPerGeneration

		var update *dynamodb.UpdateItemInput
		if samePeriod {
			// Charge on top of the usage we observed. The condition
			// fails if another request charged first.
			update = &dynamodb.UpdateItemInput{
				TableName:           aws.String(l.tableName),
				Key:                 l.userKey(userID),
				UpdateExpression:    aws.String("SET TokenUsage = :newUsage, UpdatedAt = :now"),
				ConditionExpression: aws.String("TokenUsage = :expected"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":newUsage": &types.AttributeValueMemberN{Value: strconv.Itoa(newUsage)},
					":expected": &types.AttributeValueMemberN{Value: strconv.Itoa(usage)},
					":now":      &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
				},
			}
		} else {
			// New month: roll the ledger over. The condition fails if
			// another request rolled it first.
			update = &dynamodb.UpdateItemInput{
				TableName:           aws.String(l.tableName),
				Key:                 l.userKey(userID),
				UpdateExpression:    aws.String("SET TokenUsage = :newUsage, LastTokenReset = :now, UpdatedAt = :now"),
				ConditionExpression: aws.String("LastTokenReset = :expectedReset"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":newUsage":      &types.AttributeValueMemberN{Value: strconv.Itoa(newUsage)},
					":expectedReset": &types.AttributeValueMemberS{Value: lastReset},
					":now":           &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
				},
			}
		}

		_, err = l.client.UpdateItem(ctx, update)
		if err != nil {
			if isConditionalCheckFailed(err) {
				l.logger.Debug("quota charge contended, retrying",
					zap.String("userID", userID),
					zap.Int("attempt", attempt+1),
				)
				continue
			}
			return ports.QuotaStatus{}, pkgerrors.NewDatabaseError("charge quota", err)
		}

		status := ports.QuotaStatus{
			Usage:     newUsage,
			Remaining: quota.Remaining(newUsage),
			LastReset: resetAtOrNow(samePeriod, resetAt, now),
		}

		l.logger.Info("charged generation",
			zap.String("userID", userID),
			zap.Int("usage", status.Usage),
			zap.Int("remaining", status.Remaining),
		)

		return status, nil
	}

	return ports.QuotaStatus{}, pkgerrors.NewDatabaseError("charge quota",
		fmt.Errorf("ledger contention persisted after %d attempts", quotaConsumeRetries))
}

// Status reads the ledger without charging
func (l *QuotaLedger) Status(ctx context.Context, userID string) (ports.QuotaStatus, error) {
	now := time.Now().UTC()

	usage, lastReset, err := l.readLedger(ctx, userID)
	if err != nil {
		return ports.QuotaStatus{}, err
	}

	resetAt, _ := time.Parse(time.RFC3339, lastReset)
	if lastReset == "" || !quota.SamePeriod(resetAt, now) {
		usage = 0
	}

	return ports.QuotaStatus{
		Usage:     usage,
		Remaining: quota.Remaining(usage),
		LastReset: resetAt,
	}, nil
}

func resetAtOrNow(samePeriod bool, resetAt, now time.Time) time.Time {
	if samePeriod {
		return resetAt
	}
	return now
}
