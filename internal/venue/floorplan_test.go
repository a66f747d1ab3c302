package venue

import "testing"

const planJSON = `{
	"floor": 2,
	"name": "2F",
	"width": 8,
	"height": 4,
	"tiles": [
		"########",
		"#aa..bb#",
		"#aa.<bb#",
		"########"
	],
	"rooms": [
		{"id": "2-1", "name": "Class 2-1", "glyph": "a"},
		{"id": "prep", "name": "Prep Room", "glyph": "b", "tag": "notClassroom"}
	],
	"stamps": [{"stampId": "B2", "x": 2, "y": 1}]
}`

func TestLoadFloorPlan(t *testing.T) {
	plan, err := LoadFloorPlan([]byte(planJSON))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if plan.Floor != 2 || len(plan.Rooms) != 2 {
		t.Fatalf("plan = %+v", plan)
	}
}

func TestLoadRejectsRowMismatch(t *testing.T) {
	bad := `{"floor":1,"width":3,"height":2,"tiles":["###"]}`
	if _, err := LoadFloorPlan([]byte(bad)); err == nil {
		t.Fatal("row/height mismatch accepted")
	}
}

func TestLoadRejectsBadFloorNumber(t *testing.T) {
	bad := `{"floor":0,"width":1,"height":1,"tiles":["#"]}`
	if _, err := LoadFloorPlan([]byte(bad)); err == nil {
		t.Fatal("floor 0 accepted")
	}
}

func TestToTileGrid(t *testing.T) {
	plan, err := LoadFloorPlan([]byte(planJSON))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	grid := plan.ToTileGrid()

	if got := grid.Get(0, 0).Kind; got != TileWall {
		t.Fatalf("(0,0) = %d, want wall", got)
	}
	if got := grid.Get(3, 1).Kind; got != TileHallway {
		t.Fatalf("(3,1) = %d, want hallway", got)
	}
	if got := grid.Get(4, 2).Kind; got != TileStairs {
		t.Fatalf("(4,2) = %d, want stairs", got)
	}
	if room := grid.RoomAt(1, 1); room == nil || room.ID != "2-1" {
		t.Fatalf("room at (1,1) = %+v", room)
	}
	if got := grid.Get(2, 1).StampID; got != "B2" {
		t.Fatalf("stamp at (2,1) = %q", got)
	}
	if got := grid.Get(100, 100).Kind; got != TileVoid {
		t.Fatalf("out of bounds = %d, want void", got)
	}
}

func TestTargetClassification(t *testing.T) {
	plan, _ := LoadFloorPlan([]byte(planJSON))
	grid := plan.ToTileGrid()

	if tgt := grid.TargetAt(0, 0); tgt.Kind != TargetGroup {
		t.Fatalf("wall target = %+v", tgt)
	}
	if tgt := grid.TargetAt(3, 1); tgt.Kind != TargetRect || tgt.Tag != TagHallway {
		t.Fatalf("hallway target = %+v", tgt)
	}
	if tgt := grid.TargetAt(4, 2); tgt.Tag != TagNotClassroom {
		t.Fatalf("stairs target = %+v", tgt)
	}
	if tgt := grid.TargetAt(1, 1); tgt.Room == nil || tgt.Tag != "" {
		t.Fatalf("classroom target = %+v", tgt)
	}
	if tgt := grid.TargetAt(5, 2); tgt.Tag != TagNotClassroom {
		t.Fatalf("tagged room target = %+v", tgt)
	}
}
