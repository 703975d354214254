package store

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/famedia/site/blog"
)

// ReadFixtures decodes a JSON array of posts shaped like the content store's
// detail projection.
func ReadFixtures(r io.Reader) ([]blog.PostDetail, error) {
	var posts []blog.PostDetail
	if err := json.NewDecoder(r).Decode(&posts); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	seen := make(map[string]struct{}, len(posts))
	for i, p := range posts {
		if p.Slug == "" {
			return nil, fmt.Errorf("fixture %d (%q): missing slug", i, p.Title)
		}
		if _, dup := seen[p.Slug]; dup {
			return nil, fmt.Errorf("fixture %d: duplicate slug %q", i, p.Slug)
		}
		seen[p.Slug] = struct{}{}
	}
	return posts, nil
}
