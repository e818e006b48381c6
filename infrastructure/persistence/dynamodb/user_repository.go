package dynamodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"deepthinker-backend/application/ports"
	"deepthinker-backend/domain/core/entities"
	pkgerrors "deepthinker-backend/pkg/errors"
)

// UserRepository implements ports.UserRepository using DynamoDB
type UserRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) ports.UserRepository {
	return &UserRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// userItem represents the DynamoDB item structure for a user profile.
// GSI1 keys the item by email for lookup during registration.
type userItem struct {
	PK                  string   `dynamodbav:"PK"`
	SK                  string   `dynamodbav:"SK"`
	GSI1PK              string   `dynamodbav:"GSI1PK,omitempty"`
	GSI1SK              string   `dynamodbav:"GSI1SK,omitempty"`
	EntityType          string   `dynamodbav:"EntityType"`
	UserID              string   `dynamodbav:"UserID"`
	Email               string   `dynamodbav:"Email"`
	DisplayName         string   `dynamodbav:"DisplayName"`
	Role                string   `dynamodbav:"Role,omitempty"`
	Interests           []string `dynamodbav:"Interests,omitempty"`
	ThinkingStyle       string   `dynamodbav:"ThinkingStyle,omitempty"`
	AIInteraction       string   `dynamodbav:"AIInteraction,omitempty"`
	OnboardingCompleted bool     `dynamodbav:"OnboardingCompleted"`
	InitialCanvasID     string   `dynamodbav:"InitialCanvasID,omitempty"`
	TokenUsage          int      `dynamodbav:"TokenUsage"`
	LastTokenReset      string   `dynamodbav:"LastTokenReset"`
	CreatedAt           string   `dynamodbav:"CreatedAt"`
	UpdatedAt           string   `dynamodbav:"UpdatedAt"`
}

func userToItem(user *entities.User, now time.Time) userItem {
	item := userItem{
		PK:                  fmt.Sprintf("USER#%s", user.ID()),
		SK:                  "PROFILE",
		EntityType:          "USER",
		UserID:              user.ID(),
		Email:               user.Email(),
		DisplayName:         user.DisplayName(),
		Role:                user.Role(),
		Interests:           user.Interests(),
		ThinkingStyle:       user.ThinkingStyle(),
		AIInteraction:       user.AIInteraction(),
		OnboardingCompleted: user.OnboardingCompleted(),
		InitialCanvasID:     user.InitialCanvasID(),
		TokenUsage:          user.TokenUsage(now),
		LastTokenReset:      user.LastTokenReset().Format(time.RFC3339),
		CreatedAt:           user.CreatedAt().Format(time.RFC3339),
		UpdatedAt:           user.UpdatedAt().Format(time.RFC3339),
	}
	if user.Email() != "" {
		item.GSI1PK = fmt.Sprintf("EMAIL#%s", strings.ToLower(user.Email()))
		item.GSI1SK = "PROFILE"
	}
	return item
}

func itemToUser(item userItem) (*entities.User, error) {
	lastTokenReset, _ := time.Parse(time.RFC3339, item.LastTokenReset)
	createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, item.UpdatedAt)

	return entities.ReconstructUser(
		item.UserID,
		item.Email,
		item.DisplayName,
		item.Role,
		item.Interests,
		item.ThinkingStyle,
		item.AIInteraction,
		item.OnboardingCompleted,
		item.InitialCanvasID,
		item.TokenUsage,
		lastTokenReset,
		createdAt, updatedAt,
	)
}

// Save persists a user profile
func (r *UserRepository) Save(ctx context.Context, user *entities.User) error {
	av, err := attributevalue.MarshalMap(userToItem(user, time.Now()))
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("save user", err)
	}

	r.logger.Debug("saved user", zap.String("userID", user.ID()))

	return nil
}

// FindByID loads a user by their identifier
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("USER#%s", id)},
			"SK": &types.AttributeValueMemberS{Value: "PROFILE"},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get user", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("user")
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return itemToUser(item)
}

// FindByEmail loads a user by email address
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.indexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk AND GSI1SK = :sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("EMAIL#%s", strings.ToLower(email))},
			":sk": &types.AttributeValueMemberS{Value: "PROFILE"},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query user by email", err)
	}
	if len(out.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("user")
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return itemToUser(item)
}
