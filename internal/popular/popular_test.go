package popular

import (
	"fmt"
	"testing"
	"time"
)

func testIndex() *Index {
	return NewIndex([]IndexEntry{
		{Title: "Mario Kart Wii", URL: "/games/mario-kart-wii/"},
		{Title: "Tetris GB", URL: "/games/tetris-gb/"},
		{Title: "Doom", URL: "/games/doom/"},
	})
}

func TestParseTop(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		rows    int
	}{
		{"valid all", `{"ok":true,"mode":"all","top":[{"id":"doom","count":3}]}`, false, 1},
		{"valid trending empty", `{"ok":true,"mode":"trending","top":[]}`, false, 0},
		{"not json", `<html>502</html>`, true, 0},
		{"ok false", `{"ok":false,"error":"server_error"}`, true, 0},
		{"missing top", `{"ok":true,"mode":"all"}`, true, 0},
		{"unknown mode", `{"ok":true,"mode":"hourly","top":[]}`, true, 0},
		{"top wrong type", `{"ok":true,"mode":"all","top":"nope"}`, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ParseTop([]byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTop() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && len(res.Rows) != tt.rows {
				t.Errorf("ParseTop() rows = %d, want %d", len(res.Rows), tt.rows)
			}
		})
	}
}

func TestIndexResolve(t *testing.T) {
	idx := testIndex()

	tests := []struct {
		name         string
		id           string
		wantTitle    string
		wantURL      string
		wantFallback bool
	}{
		{"strict hit", "mario-kart-wii", "Mario Kart Wii", "/games/mario-kart-wii/", false},
		{"loose hit absorbs drift", "mariokart-wii", "Mario Kart Wii", "/games/mario-kart-wii/", false},
		{"miss synthesizes label", "zelda-n64", "Zelda N64", "/all/#zelda-n64", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := idx.Resolve(tt.id)
			if info.Title != tt.wantTitle || info.URL != tt.wantURL || info.Fallback != tt.wantFallback {
				t.Errorf("Resolve(%q) = %+v, want {%s %s %v}", tt.id, info, tt.wantTitle, tt.wantURL, tt.wantFallback)
			}
		})
	}
}

func TestBuildList_FiltersAndRanks(t *testing.T) {
	res := &TopResult{Mode: "all", Rows: []Row{
		{ID: "test-live", Count: 99}, // reserved test prefix, skipped
		{ID: "mario-kart-wii", Count: 7},
		{ID: "", Count: 5}, // empty, skipped
		{ID: "doom", Count: 3},
	}}

	items := BuildList(res, testIndex())
	if len(items) != 2 {
		t.Fatalf("BuildList() = %d items, want 2", len(items))
	}
	// Skipped rows do not consume display ranks
	if items[0].Rank != 1 || items[0].ID != "mario-kart-wii" {
		t.Errorf("items[0] = %+v, want rank 1 mario-kart-wii", items[0])
	}
	if items[1].Rank != 2 || items[1].ID != "doom" {
		t.Errorf("items[1] = %+v, want rank 2 doom", items[1])
	}
	for _, it := range items {
		if it.Fallback {
			t.Errorf("item %s marked fallback with an index hit", it.ID)
		}
	}
}

func TestBuildList_CapsAtTen(t *testing.T) {
	res := &TopResult{Mode: "all"}
	for i := 0; i < 25; i++ {
		res.Rows = append(res.Rows, Row{ID: fmt.Sprintf("game-%02d", i), Count: int64(25 - i)})
	}

	items := BuildList(res, NewIndex(nil))
	if len(items) != 10 {
		t.Fatalf("BuildList() = %d items, want 10", len(items))
	}
	if items[9].Rank != 10 {
		t.Errorf("last rank = %d, want 10", items[9].Rank)
	}
}

func TestBuildList_Decorations(t *testing.T) {
	rows := []Row{{ID: "a", Count: 4}, {ID: "b", Count: 3}, {ID: "c", Count: 2}, {ID: "d", Count: 1}}

	all := BuildList(&TopResult{Mode: "all", Rows: rows}, NewIndex(nil))
	wantAll := []Decoration{DecorGold, DecorSilver, DecorBronze, DecorNone}
	for i, w := range wantAll {
		if all[i].Decor != w {
			t.Errorf("all mode decor[%d] = %q, want %q", i, all[i].Decor, w)
		}
	}

	tr := BuildList(&TopResult{Mode: "trending", Rows: rows}, NewIndex(nil))
	wantTr := []Decoration{DecorFire, DecorNone, DecorNone, DecorNone}
	for i, w := range wantTr {
		if tr[i].Decor != w {
			t.Errorf("trending decor[%d] = %q, want %q", i, tr[i].Decor, w)
		}
	}
}

func TestBuildList_FallbackNeverRawSlug(t *testing.T) {
	res := &TopResult{Mode: "all", Rows: []Row{{ID: "super-metroid-n64", Count: 1}}}

	items := BuildList(res, testIndex())
	if len(items) != 1 {
		t.Fatalf("BuildList() = %d items, want 1", len(items))
	}
	it := items[0]
	if !it.Fallback {
		t.Error("expected fallback for unindexed id")
	}
	if it.Title == it.ID {
		t.Errorf("title %q is the raw slug", it.Title)
	}
	if it.Title != "Super Metroid N64" {
		t.Errorf("title = %q, want synthesized label", it.Title)
	}
	if it.URL == "" || it.URL == "#" {
		t.Errorf("url = %q, want a best-effort anchor", it.URL)
	}
}

func TestUpdatedLabel(t *testing.T) {
	base := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		elapsed time.Duration
		want    string
	}{
		{0, "Updated just now"},
		{9 * time.Second, "Updated just now"},
		{10 * time.Second, "Updated 10s ago"},
		{59 * time.Second, "Updated 59s ago"},
		{60 * time.Second, "Updated 1m ago"},
		{5 * time.Minute, "Updated 5m ago"},
	}
	for _, tt := range tests {
		if got := updatedLabel(base, base.Add(tt.elapsed)); got != tt.want {
			t.Errorf("updatedLabel(+%v) = %q, want %q", tt.elapsed, got, tt.want)
		}
	}
	if got := updatedLabel(time.Time{}, base); got != "" {
		t.Errorf("updatedLabel(zero) = %q, want empty", got)
	}
}
