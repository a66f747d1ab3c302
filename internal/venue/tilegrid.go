package venue

// TileKind represents the structural type of a floor tile.
type TileKind uint8

const (
	TileVoid      TileKind = iota // outside the building outline
	TileHallway                   // walkable corridor
	TileWall                      // structural wall
	TileDoor                      // doorway in a wall
	TileClassroom                 // room interior (Room indexes FloorPlan.Rooms)
	TileStairs                    // stairwell between floors
	TileEntrance                  // building entrance
)

// Room tags recognized by the tap-intercept policy.
const (
	TagHallway      = "hallway"
	TagNotClassroom = "notClassroom"
)

// Tile is a single cell of a floor grid.
type Tile struct {
	Kind    TileKind
	Room    int    // index into TileGrid.Rooms, -1 if none
	StampID string // non-empty if a stamp waypoint sits on this cell
}

// TileGrid is a 2D grid of tiles for one floor.
type TileGrid struct {
	Width  int
	Height int
	Tiles  []Tile
	Rooms  []RoomDef
}

// NewTileGrid creates an empty grid filled with void.
func NewTileGrid(w, h int) *TileGrid {
	tiles := make([]Tile, w*h)
	for i := range tiles {
		tiles[i].Room = -1
	}
	return &TileGrid{Width: w, Height: h, Tiles: tiles}
}

// Get returns the tile at (x, y). Out-of-bounds reads return void.
func (g *TileGrid) Get(x, y int) Tile {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return Tile{Kind: TileVoid, Room: -1}
	}
	return g.Tiles[y*g.Width+x]
}

// Set writes a tile at (x, y). Out-of-bounds writes are ignored.
func (g *TileGrid) Set(x, y int, t Tile) {
	if x >= 0 && x < g.Width && y >= 0 && y < g.Height {
		g.Tiles[y*g.Width+x] = t
	}
}

// SetStamp attaches a stamp waypoint to the cell at (x, y).
func (g *TileGrid) SetStamp(x, y int, stampID string) {
	if x >= 0 && x < g.Width && y >= 0 && y < g.Height {
		g.Tiles[y*g.Width+x].StampID = stampID
	}
}

// RoomAt returns the room definition covering (x, y), or nil.
func (g *TileGrid) RoomAt(x, y int) *RoomDef {
	t := g.Get(x, y)
	if t.Room < 0 || t.Room >= len(g.Rooms) {
		return nil
	}
	return &g.Rooms[t.Room]
}

// TargetKind classifies what a tap lands on, mirroring the markup element
// classes the intercept policy filters by.
type TargetKind uint8

const (
	TargetBackground TargetKind = iota // empty space around the outline
	TargetGroup                        // structural geometry (walls, doors)
	TargetRect                         // a room or corridor surface
	TargetText                         // a room label
)

// Target is the classification of one tapped cell.
type Target struct {
	Kind TargetKind
	Tag  string   // room tag, or TagHallway for corridor cells
	Room *RoomDef // non-nil only for classroom cells
}

// TargetAt classifies the cell at (x, y) for the tap-intercept policy.
func (g *TileGrid) TargetAt(x, y int) Target {
	t := g.Get(x, y)
	switch t.Kind {
	case TileWall, TileDoor:
		return Target{Kind: TargetGroup}
	case TileHallway, TileEntrance:
		return Target{Kind: TargetRect, Tag: TagHallway}
	case TileStairs:
		return Target{Kind: TargetRect, Tag: TagNotClassroom}
	case TileClassroom:
		room := g.RoomAt(x, y)
		tag := ""
		if room != nil {
			tag = room.Tag
		}
		return Target{Kind: TargetRect, Tag: tag, Room: room}
	default:
		return Target{Kind: TargetBackground}
	}
}
