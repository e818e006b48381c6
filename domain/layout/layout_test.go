package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deepthinker-backend/domain/core/valueobjects"
)

func cardsFrom(edges map[string][]string) map[string]Card {
	cards := make(map[string]Card)
	for id, children := range edges {
		cards[id] = Card{ID: id, Children: children}
	}
	return cards
}

func TestPlaceSubtree_SingleCard(t *testing.T) {
	engine := NewDefaultEngine()
	cards := cardsFrom(map[string][]string{"root": nil})

	positions, width := engine.PlaceSubtree("root", cards, valueobjects.NewPosition(400, 100))

	assert.Equal(t, 200.0, width)
	require.Contains(t, positions, "root")
	// A leaf subtree is 200 wide, so the 200-wide card sits flush at the anchor
	assert.Equal(t, valueobjects.NewPosition(400, 100), positions["root"])
}

func TestPlaceSubtree_ParentCenteredOverChildren(t *testing.T) {
	engine := NewDefaultEngine()
	cards := cardsFrom(map[string][]string{
		"root": {"a", "b"},
		"a":    {"c"},
		"b":    nil,
		"c":    nil,
	})

	positions, width := engine.PlaceSubtree("root", cards, valueobjects.NewPosition(1000, 50))

	require.Len(t, positions, 4)
	assert.Equal(t, 700.0, width)

	assert.Equal(t, valueobjects.NewPosition(1250, 50), positions["root"])
	assert.Equal(t, valueobjects.NewPosition(1000, 300), positions["a"])
	assert.Equal(t, valueobjects.NewPosition(1500, 300), positions["b"])
	assert.Equal(t, valueobjects.NewPosition(1000, 550), positions["c"])
}

func TestPlaceSubtree_SiblingOrderFollowsConnectionOrder(t *testing.T) {
	engine := NewDefaultEngine()
	cards := cardsFrom(map[string][]string{
		"root": {"second", "first"},
		"second": nil,
		"first":  nil,
	})

	positions, _ := engine.PlaceSubtree("root", cards, valueobjects.NewPosition(0, 0))

	assert.Less(t, positions["second"].X, positions["first"].X,
		"earlier connections occupy the leftmost slots")
}

func TestPlaceSubtree_ChildrenShareRow(t *testing.T) {
	engine := NewDefaultEngine()
	cards := cardsFrom(map[string][]string{
		"root": {"a", "b", "c"},
		"a":    nil,
		"b":    nil,
		"c":    nil,
	})

	positions, width := engine.PlaceSubtree("root", cards, valueobjects.NewPosition(0, 0))

	// Three 200-wide leaves with two 300 gaps
	assert.Equal(t, 1200.0, width)
	for _, id := range []string{"a", "b", "c"} {
		assert.Equal(t, 250.0, positions[id].Y)
	}
	assert.Equal(t, 0.0, positions["a"].X)
	assert.Equal(t, 500.0, positions["b"].X)
	assert.Equal(t, 1000.0, positions["c"].X)
}

func TestPlaceSubtree_MissingChildSkipped(t *testing.T) {
	engine := NewDefaultEngine()
	cards := cardsFrom(map[string][]string{
		"root": {"ghost", "a"},
		"a":    nil,
	})

	positions, width := engine.PlaceSubtree("root", cards, valueobjects.NewPosition(0, 0))

	require.Len(t, positions, 2)
	assert.NotContains(t, positions, "ghost")
	assert.Equal(t, 200.0, width, "a lone surviving child packs as if the missing one never existed")
}

func TestPlaceSubtree_CycleTerminates(t *testing.T) {
	engine := NewDefaultEngine()
	cards := cardsFrom(map[string][]string{
		"a": {"b"},
		"b": {"a"},
	})

	positions, _ := engine.PlaceSubtree("a", cards, valueobjects.NewPosition(0, 0))

	require.Len(t, positions, 2)
	assert.Equal(t, 250.0, positions["b"].Y)
}

func TestPlaceSubtree_DiamondPlacedOnce(t *testing.T) {
	engine := NewDefaultEngine()
	cards := cardsFrom(map[string][]string{
		"root": {"a", "b"},
		"a":    {"shared"},
		"b":    {"shared"},
		"shared": nil,
	})

	positions, _ := engine.PlaceSubtree("root", cards, valueobjects.NewPosition(0, 0))

	require.Len(t, positions, 4)
	// shared lands under a, its first parent in placement order
	assert.Equal(t, positions["a"].X, positions["shared"].X)
}

func TestPlaceSubtree_UnknownRoot(t *testing.T) {
	engine := NewDefaultEngine()

	positions, width := engine.PlaceSubtree("missing", map[string]Card{}, valueobjects.NewPosition(0, 0))

	assert.Empty(t, positions)
	assert.Equal(t, 0.0, width)
}

func TestPlaceSubtree_AnchorTranslationIsPure(t *testing.T) {
	engine := NewDefaultEngine()
	cards := cardsFrom(map[string][]string{
		"root": {"a", "b"},
		"a":    nil,
		"b":    nil,
	})

	atOrigin, _ := engine.PlaceSubtree("root", cards, valueobjects.NewPosition(0, 0))
	shifted, _ := engine.PlaceSubtree("root", cards, valueobjects.NewPosition(130, -40))

	for id, pos := range atOrigin {
		assert.Equal(t, pos.Translate(130, -40), shifted[id])
	}
}

func TestCollectSubtree(t *testing.T) {
	cards := cardsFrom(map[string][]string{
		"root": {"a", "b"},
		"a":    {"c"},
		"b":    nil,
		"c":    nil,
	})

	order := CollectSubtree("root", cards)

	assert.Equal(t, []string{"root", "a", "c", "b"}, order)
	assert.Nil(t, CollectSubtree("missing", cards))
}

func TestSubtreeWidth(t *testing.T) {
	engine := NewDefaultEngine()
	cards := cardsFrom(map[string][]string{
		"root": {"a", "b"},
		"a":    {"c"},
		"b":    nil,
		"c":    nil,
	})

	assert.Equal(t, 700.0, engine.SubtreeWidth("root", cards))
	assert.Equal(t, 200.0, engine.SubtreeWidth("b", cards))
}
