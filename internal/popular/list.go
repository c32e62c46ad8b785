package popular

import (
	"strings"

	"github.com/gamingemporium/popularity/internal/slug"
)

// Decoration styles a rendered rank position.
type Decoration string

const (
	DecorNone   Decoration = ""
	DecorGold   Decoration = "gold"
	DecorSilver Decoration = "silver"
	DecorBronze Decoration = "bronze"
	DecorFire   Decoration = "fire"
)

// Item is one rendered row of the popular list.
type Item struct {
	Rank     int // 1-based display rank over surviving rows
	ID       string
	Title    string
	URL      string
	Count    int64
	Fallback bool
	Decor    Decoration
}

// maxDisplayed caps the rendered list regardless of how many rows the
// API returned.
const maxDisplayed = 10

// BuildList turns a parsed ranking result into display items: empty and
// test-prefixed ids are skipped without consuming a display rank, the
// list stops at ten rows, and rank decorations depend on the served
// mode (medals for all-time 1-3, fire for trending 1).
func BuildList(res *TopResult, idx *Index) []Item {
	items := make([]Item, 0, maxDisplayed)
	for _, row := range res.Rows {
		id := strings.TrimSpace(row.ID)
		if id == "" || strings.HasPrefix(id, slug.TestPrefix) {
			continue
		}

		info := idx.Resolve(id)
		it := Item{
			Rank:     len(items) + 1,
			ID:       id,
			Title:    info.Title,
			URL:      info.URL,
			Count:    row.Count,
			Fallback: info.Fallback,
		}
		it.Decor = decorate(res.Mode, it.Rank)
		items = append(items, it)
		if len(items) >= maxDisplayed {
			break
		}
	}
	return items
}

func decorate(mode string, rank int) Decoration {
	if mode == "trending" {
		if rank == 1 {
			return DecorFire
		}
		return DecorNone
	}
	switch rank {
	case 1:
		return DecorGold
	case 2:
		return DecorSilver
	case 3:
		return DecorBronze
	}
	return DecorNone
}
