package venue

import (
	"encoding/json"
	"fmt"
)

// FloorPlan is the JSON-serializable definition of one venue floor.
type FloorPlan struct {
	Floor  int         `json:"floor"`
	Name   string      `json:"name"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Tiles  []string    `json:"tiles"`
	Rooms  []RoomDef   `json:"rooms"`
	Stamps []StampMark `json:"stamps"`
}

// RoomDef defines a named room in a floor plan. Glyph is the single
// character used for the room's cells in the Tiles rows. Tag is empty for
// an interactive classroom, or "hallway"/"notClassroom" for surfaces that
// should not respond to taps.
type RoomDef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Glyph string `json:"glyph"`
	Tag   string `json:"tag,omitempty"`
}

// StampMark places a stamp waypoint on the floor grid.
type StampMark struct {
	StampID string `json:"stampId"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
}

// LoadFloorPlan parses a FloorPlan from JSON bytes.
func LoadFloorPlan(data []byte) (*FloorPlan, error) {
	var plan FloorPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse floor plan: %w", err)
	}
	if len(plan.Tiles) != plan.Height {
		return nil, fmt.Errorf("floor %d: tile rows (%d) != declared height (%d)", plan.Floor, len(plan.Tiles), plan.Height)
	}
	if plan.Floor < 1 {
		return nil, fmt.Errorf("floor number %d out of range", plan.Floor)
	}
	return &plan, nil
}

// ToTileGrid converts a FloorPlan into a TileGrid. Room glyphs resolve to
// classroom tiles carrying the room index; unknown glyphs become void.
func (p *FloorPlan) ToTileGrid() *TileGrid {
	byGlyph := make(map[rune]int, len(p.Rooms))
	for i, room := range p.Rooms {
		for _, ch := range room.Glyph {
			byGlyph[ch] = i
			break
		}
	}

	grid := NewTileGrid(p.Width, p.Height)
	grid.Rooms = p.Rooms
	for y, row := range p.Tiles {
		for x, ch := range row {
			if x >= p.Width {
				break
			}
			grid.Set(x, y, charToTile(ch, byGlyph))
		}
	}
	for _, mark := range p.Stamps {
		grid.SetStamp(mark.X, mark.Y, mark.StampID)
	}
	return grid
}

func charToTile(ch rune, byGlyph map[rune]int) Tile {
	switch ch {
	case ' ':
		return Tile{Kind: TileVoid, Room: -1}
	case '#':
		return Tile{Kind: TileWall, Room: -1}
	case '.':
		return Tile{Kind: TileHallway, Room: -1}
	case '+':
		return Tile{Kind: TileDoor, Room: -1}
	case '<', '>':
		return Tile{Kind: TileStairs, Room: -1}
	case '@':
		return Tile{Kind: TileEntrance, Room: -1}
	}
	if idx, ok := byGlyph[ch]; ok {
		return Tile{Kind: TileClassroom, Room: idx}
	}
	return Tile{Kind: TileVoid, Room: -1}
}
