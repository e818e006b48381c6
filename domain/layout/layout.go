// Package layout computes card positions for mind map subtrees.
//
// The geometry is a classic tidy tree: children sit one row below their
// parent, sibling subtrees are packed left to right in connection
// order, and every parent is centered over the span of its children.
// Positions refer to the top-left corner of a card, so centering
// offsets by half the card width.
package layout

import (
	"deepthinker-backend/domain/config"
	"deepthinker-backend/domain/core/valueobjects"
)

// Card is the layout engine's view of a thought. Children are listed
// in connection order, which fixes sibling ordering on the canvas.
type Card struct {
	ID       string
	Children []string
}

// Placement pairs a card with its computed position
type Placement struct {
	ID       string
	Position valueobjects.Position
}

// Engine positions subtrees according to its spacing configuration
type Engine struct {
	cfg config.LayoutConfig
}

// NewEngine creates a layout engine with the given spacing configuration
func NewEngine(cfg config.LayoutConfig) *Engine {
	return &Engine{cfg: cfg}
}

// NewDefaultEngine creates a layout engine with production spacing
func NewDefaultEngine() *Engine {
	return NewEngine(config.DefaultConfig().Layout)
}

// PlaceSubtree computes positions for every card reachable from rootID,
// anchoring the subtree's left edge at anchor. It returns the computed
// placements and the total width the subtree occupies.
//
// Cards referenced as children but absent from the map are skipped, as
// is any card already placed, so diamonds and cycles in the connection
// graph terminate with each card positioned exactly once.
func (e *Engine) PlaceSubtree(rootID string, cards map[string]Card, anchor valueobjects.Position) (map[string]valueobjects.Position, float64) {
	positions := make(map[string]valueobjects.Position)

	if _, ok := cards[rootID]; !ok {
		return positions, 0
	}

	visited := make(map[string]bool)
	width := e.place(rootID, cards, anchor.X, anchor.Y, visited, positions)
	return positions, width
}

func (e *Engine) place(id string, cards map[string]Card, anchorX, anchorY float64, visited map[string]bool, positions map[string]valueobjects.Position) float64 {
	visited[id] = true
	card := cards[id]

	childRowY := anchorY + e.cfg.VerticalSpacing
	cumWidth := 0.0
	placedChild := false

	for _, childID := range card.Children {
		if visited[childID] {
			continue
		}
		if _, ok := cards[childID]; !ok {
			continue
		}

		childWidth := e.place(childID, cards, anchorX+cumWidth, childRowY, visited, positions)
		cumWidth += childWidth + e.cfg.HorizontalSpacing
		placedChild = true
	}

	width := e.cfg.MinSubtreeWidth
	if placedChild {
		// cumWidth carries one trailing gap too many
		width = cumWidth - e.cfg.HorizontalSpacing
		if width < e.cfg.MinSubtreeWidth {
			width = e.cfg.MinSubtreeWidth
		}
	}

	positions[id] = valueobjects.NewPosition(anchorX+width/2-e.cfg.CardWidth/2, anchorY)
	return width
}

// SubtreeWidth returns the width the subtree would occupy without
// materializing placements for callers that only need the footprint.
func (e *Engine) SubtreeWidth(rootID string, cards map[string]Card) float64 {
	_, width := e.PlaceSubtree(rootID, cards, valueobjects.NewPosition(0, 0))
	return width
}

// CollectSubtree returns the IDs reachable from rootID in placement
// order, honoring the same skip rules as PlaceSubtree.
func CollectSubtree(rootID string, cards map[string]Card) []string {
	if _, ok := cards[rootID]; !ok {
		return nil
	}

	var order []string
	visited := make(map[string]bool)

	var walk func(id string)
	walk = func(id string) {
		visited[id] = true
		order = append(order, id)
		for _, childID := range cards[id].Children {
			if visited[childID] {
				continue
			}
			if _, ok := cards[childID]; !ok {
				continue
			}
			walk(childID)
		}
	}
	walk(rootID)

	return order
}
