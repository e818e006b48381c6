// Package dynamodb implements the application's repositories on a
// single DynamoDB table. Items share one keyspace:
//
//	USER#<id>    / PROFILE        user accounts and their token ledger
//	USER#<id>    / CANVAS#<id>    canvas metadata
//	CANVAS#<id>  / THOUGHT#<id>   thoughts
//
// GSI1 inverts the keys for direct lookups by entity ID.
package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"deepthinker-backend/application/ports"
	"deepthinker-backend/domain/core/entities"
	"deepthinker-backend/domain/core/valueobjects"
	pkgerrors "deepthinker-backend/pkg/errors"
)

const batchWriteLimit = 25

// ThoughtRepository implements ports.ThoughtRepository using DynamoDB
type ThoughtRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewThoughtRepository creates a new ThoughtRepository
func NewThoughtRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.ThoughtRepository {
	return &ThoughtRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// thoughtItem represents the DynamoDB item structure for a thought
type thoughtItem struct {
	PK          string   `dynamodbav:"PK"`
	SK          string   `dynamodbav:"SK"`
	GSI1PK      string   `dynamodbav:"GSI1PK,omitempty"`
	GSI1SK      string   `dynamodbav:"GSI1SK,omitempty"`
	EntityType  string   `dynamodbav:"EntityType"`
	ThoughtID   string   `dynamodbav:"ThoughtID"`
	CanvasID    string   `dynamodbav:"CanvasID"`
	UserID      string   `dynamodbav:"UserID"`
	Content     string   `dynamodbav:"Content"`
	X           float64  `dynamodbav:"X"`
	Y           float64  `dynamodbav:"Y"`
	Connections []string `dynamodbav:"Connections"`
	Origin      string   `dynamodbav:"Origin"`
	CreatedAt   string   `dynamodbav:"CreatedAt"`
	UpdatedAt   string   `dynamodbav:"UpdatedAt"`
	Version     int      `dynamodbav:"Version"`
}

func thoughtToItem(thought *entities.Thought) thoughtItem {
	connections := thought.Connections()
	connectionIDs := make([]string, len(connections))
	for i, id := range connections {
		connectionIDs[i] = id.String()
	}

	return thoughtItem{
		PK:          fmt.Sprintf("CANVAS#%s", thought.CanvasID().String()),
		SK:          fmt.Sprintf("THOUGHT#%s", thought.ID().String()),
		GSI1PK:      fmt.Sprintf("THOUGHTID#%s", thought.ID().String()),
		GSI1SK:      "METADATA",
		EntityType:  "THOUGHT",
		ThoughtID:   thought.ID().String(),
		CanvasID:    thought.CanvasID().String(),
		UserID:      thought.UserID(),
		Content:     thought.Content().Text(),
		X:           thought.Position().X,
		Y:           thought.Position().Y,
		Connections: connectionIDs,
		Origin:      string(thought.Origin()),
		CreatedAt:   thought.CreatedAt().Format(time.RFC3339),
		UpdatedAt:   thought.UpdatedAt().Format(time.RFC3339),
		Version:     thought.Version(),
	}
}

func itemToThought(item thoughtItem) (*entities.Thought, error) {
	thoughtID, err := valueobjects.NewThoughtIDFromString(item.ThoughtID)
	if err != nil {
		return nil, fmt.Errorf("corrupt thought item %s: %w", item.SK, err)
	}
	canvasID, err := valueobjects.NewCanvasIDFromString(item.CanvasID)
	if err != nil {
		return nil, fmt.Errorf("corrupt thought item %s: %w", item.SK, err)
	}
	content, err := valueobjects.NewThoughtContent(item.Content)
	if err != nil {
		return nil, fmt.Errorf("corrupt thought item %s: %w", item.SK, err)
	}

	connections := make([]valueobjects.ThoughtID, 0, len(item.Connections))
	for _, raw := range item.Connections {
		id, err := valueobjects.NewThoughtIDFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt connection in item %s: %w", item.SK, err)
		}
		connections = append(connections, id)
	}

	createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, item.UpdatedAt)

	return entities.ReconstructThought(
		thoughtID,
		canvasID,
		item.UserID,
		content,
		valueobjects.NewPosition(item.X, item.Y),
		connections,
		entities.ThoughtOrigin(item.Origin),
		createdAt,
		updatedAt,
		item.Version,
	)
}

// Save persists a thought to DynamoDB
func (r *ThoughtRepository) Save(ctx context.Context, thought *entities.Thought) error {
	av, err := attributevalue.MarshalMap(thoughtToItem(thought))
	if err != nil {
		return fmt.Errorf("failed to marshal thought: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("save thought", err)
	}

	r.logger.Debug("saved thought",
		zap.String("thoughtID", thought.ID().String()),
		zap.String("canvasID", thought.CanvasID().String()),
	)

	return nil
}

// SaveBatch persists several thoughts using batched writes
func (r *ThoughtRepository) SaveBatch(ctx context.Context, thoughts []*entities.Thought) error {
	if len(thoughts) == 0 {
		return nil
	}

	for start := 0; start < len(thoughts); start += batchWriteLimit {
		end := start + batchWriteLimit
		if end > len(thoughts) {
			end = len(thoughts)
		}

		writes := make([]types.WriteRequest, 0, end-start)
		for _, thought := range thoughts[start:end] {
			av, err := attributevalue.MarshalMap(thoughtToItem(thought))
			if err != nil {
				return fmt.Errorf("failed to marshal thought: %w", err)
			}
			writes = append(writes, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: av},
			})
		}

		out, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				r.tableName: writes,
			},
		})
		if err != nil {
			return pkgerrors.NewDatabaseError("batch save thoughts", err)
		}

		// Retry unprocessed items once before giving up
		if pending := out.UnprocessedItems[r.tableName]; len(pending) > 0 {
			retry, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{r.tableName: pending},
			})
			if err != nil {
				return pkgerrors.NewDatabaseError("retry batch save thoughts", err)
			}
			if len(retry.UnprocessedItems[r.tableName]) > 0 {
				return pkgerrors.NewDatabaseError("batch save thoughts",
					fmt.Errorf("%d items unprocessed after retry", len(retry.UnprocessedItems[r.tableName])))
			}
		}
	}

	r.logger.Debug("saved thought batch", zap.Int("count", len(thoughts)))

	return nil
}

// FindByID loads a thought from a canvas
func (r *ThoughtRepository) FindByID(ctx context.Context, canvasID valueobjects.CanvasID, id valueobjects.ThoughtID) (*entities.Thought, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("CANVAS#%s", canvasID.String())},
			"SK": &types.AttributeValueMemberS{Value: fmt.Sprintf("THOUGHT#%s", id.String())},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get thought", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("thought")
	}

	var item thoughtItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal thought: %w", err)
	}

	return itemToThought(item)
}

// FindByCanvas loads every thought on a canvas
func (r *ThoughtRepository) FindByCanvas(ctx context.Context, canvasID valueobjects.CanvasID) ([]*entities.Thought, error) {
	var thoughts []*entities.Thought

	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: fmt.Sprintf("CANVAS#%s", canvasID.String())},
			":prefix": &types.AttributeValueMemberS{Value: "THOUGHT#"},
		},
	}

	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query thoughts", err)
		}

		for _, raw := range page.Items {
			var item thoughtItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("failed to unmarshal thought: %w", err)
			}
			thought, err := itemToThought(item)
			if err != nil {
				return nil, err
			}
			thoughts = append(thoughts, thought)
		}
	}

	return thoughts, nil
}

// Delete removes a thought from a canvas
func (r *ThoughtRepository) Delete(ctx context.Context, canvasID valueobjects.CanvasID, id valueobjects.ThoughtID) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("CANVAS#%s", canvasID.String())},
			"SK": &types.AttributeValueMemberS{Value: fmt.Sprintf("THOUGHT#%s", id.String())},
		},
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewNotFoundError("thought")
		}
		return pkgerrors.NewDatabaseError("delete thought", err)
	}

	r.logger.Debug("deleted thought",
		zap.String("thoughtID", id.String()),
		zap.String("canvasID", canvasID.String()),
	)

	return nil
}
