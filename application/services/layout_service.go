package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"deepthinker-backend/application/ports"
	"deepthinker-backend/domain/core/aggregates"
	"deepthinker-backend/domain/core/entities"
	"deepthinker-backend/domain/core/valueobjects"
	"deepthinker-backend/domain/layout"
)

// LayoutService repositions thought families after the connection
// graph changes. It keeps the family root where the user left it and
// rebuilds the rows beneath it.
type LayoutService struct {
	engine      *layout.Engine
	thoughtRepo ports.ThoughtRepository
	logger      *zap.Logger
}

// NewLayoutService creates a new layout service
func NewLayoutService(engine *layout.Engine, thoughtRepo ports.ThoughtRepository, logger *zap.Logger) *LayoutService {
	return &LayoutService{
		engine:      engine,
		thoughtRepo: thoughtRepo,
		logger:      logger,
	}
}

// RepositionFamily recomputes positions for the family containing
// memberID and persists every thought that moved. The family root's
// position is preserved, so the subtree grows around a fixed point
// instead of drifting across the canvas.
func (s *LayoutService) RepositionFamily(ctx context.Context, canvas *aggregates.Canvas, memberID valueobjects.ThoughtID) ([]*entities.Thought, error) {
	root, err := canvas.FamilyRoot(memberID)
	if err != nil {
		return nil, err
	}

	cards := canvas.LayoutCards()
	placements, width := s.engine.PlaceSubtree(root.ID().String(), cards, valueobjects.NewPosition(0, 0))

	rootPlacement, ok := placements[root.ID().String()]
	if !ok {
		return nil, fmt.Errorf("layout produced no placement for root %s", root.ID())
	}

	// Translate so the root keeps its current position
	dx := root.Position().X - rootPlacement.X
	dy := root.Position().Y - rootPlacement.Y

	var moved []*entities.Thought
	for id, placement := range placements {
		thoughtID, err := valueobjects.NewThoughtIDFromString(id)
		if err != nil {
			return nil, err
		}
		thought, err := canvas.GetThought(thoughtID)
		if err != nil {
			return nil, err
		}

		target := placement.Translate(dx, dy)
		if thought.Position().Equals(target) {
			continue
		}
		if err := thought.MoveTo(target); err != nil {
			return nil, err
		}
		moved = append(moved, thought)
	}

	if len(moved) > 0 {
		if err := s.thoughtRepo.SaveBatch(ctx, moved); err != nil {
			return nil, err
		}
	}

	s.logger.Debug("repositioned family",
		zap.String("rootID", root.ID().String()),
		zap.Float64("subtreeWidth", width),
		zap.Int("moved", len(moved)),
	)

	return moved, nil
}
