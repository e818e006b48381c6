package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"deepthinker-backend/application/ports"
	"deepthinker-backend/domain/core/aggregates"
	"deepthinker-backend/domain/core/valueobjects"
	pkgerrors "deepthinker-backend/pkg/errors"
)

// CanvasRepository implements ports.CanvasRepository using DynamoDB.
// Canvas metadata lives under the owner's partition; the thoughts
// themselves live in the canvas partition and are loaded through the
// thought repository.
type CanvasRepository struct {
	client    *dynamodb.Client
	tableName string
	thoughts  ports.ThoughtRepository
	logger    *zap.Logger
}

// NewCanvasRepository creates a new CanvasRepository
func NewCanvasRepository(client *dynamodb.Client, tableName string, thoughts ports.ThoughtRepository, logger *zap.Logger) ports.CanvasRepository {
	return &CanvasRepository{
		client:    client,
		tableName: tableName,
		thoughts:  thoughts,
		logger:    logger,
	}
}

// canvasItem represents the DynamoDB item structure for canvas metadata
type canvasItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI1PK     string `dynamodbav:"GSI1PK,omitempty"`
	GSI1SK     string `dynamodbav:"GSI1SK,omitempty"`
	EntityType string `dynamodbav:"EntityType"`
	CanvasID   string `dynamodbav:"CanvasID"`
	UserID     string `dynamodbav:"UserID"`
	Name       string `dynamodbav:"Name"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
	UpdatedAt  string `dynamodbav:"UpdatedAt"`
	Version    int    `dynamodbav:"Version"`
}

func canvasToItem(canvas *aggregates.Canvas) canvasItem {
	return canvasItem{
		PK:         fmt.Sprintf("USER#%s", canvas.UserID()),
		SK:         fmt.Sprintf("CANVAS#%s", canvas.ID().String()),
		GSI1PK:     fmt.Sprintf("CANVASID#%s", canvas.ID().String()),
		GSI1SK:     "METADATA",
		EntityType: "CANVAS",
		CanvasID:   canvas.ID().String(),
		UserID:     canvas.UserID(),
		Name:       canvas.Name(),
		CreatedAt:  canvas.CreatedAt().Format(time.RFC3339),
		UpdatedAt:  canvas.UpdatedAt().Format(time.RFC3339),
		Version:    canvas.Version(),
	}
}

func (r *CanvasRepository) itemToCanvas(item canvasItem) (*aggregates.Canvas, error) {
	canvasID, err := valueobjects.NewCanvasIDFromString(item.CanvasID)
	if err != nil {
		return nil, fmt.Errorf("corrupt canvas item %s: %w", item.SK, err)
	}

	createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, item.UpdatedAt)

	return aggregates.ReconstructCanvas(canvasID, item.UserID, item.Name, nil, createdAt, updatedAt, item.Version)
}

// Save persists canvas metadata
func (r *CanvasRepository) Save(ctx context.Context, canvas *aggregates.Canvas) error {
	av, err := attributevalue.MarshalMap(canvasToItem(canvas))
	if err != nil {
		return fmt.Errorf("failed to marshal canvas: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("save canvas", err)
	}

	r.logger.Debug("saved canvas",
		zap.String("canvasID", canvas.ID().String()),
		zap.String("userID", canvas.UserID()),
	)

	return nil
}

// FindByID loads a canvas together with its thoughts
func (r *CanvasRepository) FindByID(ctx context.Context, userID string, id valueobjects.CanvasID) (*aggregates.Canvas, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("USER#%s", userID)},
			"SK": &types.AttributeValueMemberS{Value: fmt.Sprintf("CANVAS#%s", id.String())},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get canvas", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("canvas")
	}

	var item canvasItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal canvas: %w", err)
	}

	canvasID, err := valueobjects.NewCanvasIDFromString(item.CanvasID)
	if err != nil {
		return nil, fmt.Errorf("corrupt canvas item %s: %w", item.SK, err)
	}

	thoughts, err := r.thoughts.FindByCanvas(ctx, canvasID)
	if err != nil {
		return nil, err
	}

	createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, item.UpdatedAt)

	return aggregates.ReconstructCanvas(canvasID, item.UserID, item.Name, thoughts, createdAt, updatedAt, item.Version)
}

// FindByUser lists a user's canvases without loading thoughts
func (r *CanvasRepository) FindByUser(ctx context.Context, userID string) ([]*aggregates.Canvas, error) {
	var canvases []*aggregates.Canvas

	keyEx := expression.Key("PK").Equal(expression.Value(fmt.Sprintf("USER#%s", userID))).
		And(expression.Key("SK").BeginsWith("CANVAS#"))

	expr, err := expression.NewBuilder().WithKeyCondition(keyEx).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query canvases", err)
		}

		for _, raw := range page.Items {
			var item canvasItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("failed to unmarshal canvas: %w", err)
			}
			canvas, err := r.itemToCanvas(item)
			if err != nil {
				return nil, err
			}
			canvases = append(canvases, canvas)
		}
	}

	return canvases, nil
}

// Delete removes a canvas and every thought on it
func (r *CanvasRepository) Delete(ctx context.Context, userID string, id valueobjects.CanvasID) error {
	thoughts, err := r.thoughts.FindByCanvas(ctx, id)
	if err != nil {
		return err
	}
	for _, thought := range thoughts {
		if err := r.thoughts.Delete(ctx, id, thought.ID()); err != nil {
			return err
		}
	}

	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("USER#%s", userID)},
			"SK": &types.AttributeValueMemberS{Value: fmt.Sprintf("CANVAS#%s", id.String())},
		},
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewNotFoundError("canvas")
		}
		return pkgerrors.NewDatabaseError("delete canvas", err)
	}

	r.logger.Info("deleted canvas",
		zap.String("canvasID", id.String()),
		zap.String("userID", userID),
		zap.Int("thoughtCount", len(thoughts)),
	)

	return nil
}
