package popular

import (
	"net/url"

	"github.com/gamingemporium/popularity/internal/slug"
)

// IndexEntry is one item of the externally produced title/url index.
type IndexEntry struct {
	Title string
	URL   string
}

// Info is the display metadata resolved for a ranking id. Fallback
// marks entries synthesized because the index had no match.
type Info struct {
	Title    string
	URL      string
	Fallback bool
}

// Index maps normalized title keys to display metadata. It is built
// once per page view from the site's title/url index and handed to the
// consumer explicitly.
type Index struct {
	strict map[string]Info
	loose  map[string]Info
}

// NewIndex keys every entry twice: by the slugified title and by a
// loose variant with separators stripped, which absorbs minor
// normalization drift between ranking ids and index keys.
func NewIndex(entries []IndexEntry) *Index {
	idx := &Index{
		strict: make(map[string]Info, len(entries)),
		loose:  make(map[string]Info, len(entries)),
	}
	for _, e := range entries {
		if e.Title == "" || e.URL == "" {
			continue
		}
		k := slug.Make(e.Title)
		if k == "" {
			continue
		}
		info := Info{Title: e.Title, URL: e.URL}
		idx.strict[k] = info
		idx.loose[slug.Loose(k)] = info
	}
	return idx
}

// Resolve finds display metadata for id: exact key, then loose key,
// then a synthesized label with a best-effort anchor so the list never
// shows a raw slug or a dead link.
func (idx *Index) Resolve(id string) Info {
	if info, ok := idx.strict[id]; ok {
		return info
	}
	if info, ok := idx.loose[slug.Loose(id)]; ok {
		return info
	}
	return Info{
		Title:    slug.Humanize(id),
		URL:      "/all/#" + url.QueryEscape(id),
		Fallback: true,
	}
}

// Len reports how many strict keys the index holds.
func (idx *Index) Len() int { return len(idx.strict) }
