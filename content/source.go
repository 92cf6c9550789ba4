package content

import (
	"context"
	"errors"
	"fmt"
)

// Validation errors reported by sources. They are wrapped with the offending
// record's location.
var (
	ErrMissingTitle  = errors.New("title is required")
	ErrMissingName   = errors.New("name is required")
	ErrMissingSlug   = errors.New("slug is required")
	ErrDuplicateSlug = errors.New("duplicate slug")
	ErrInvalidEmail  = errors.New("email is not a valid address")
	ErrInvalidURL    = errors.New("not an absolute URL")
	ErrInvalidDate   = errors.New("unrecognized date")
	ErrFrontMatter   = errors.New("malformed front-matter")
)

// Source loads a Snapshot from some content store.
type Source interface {
	Load(ctx context.Context) (Snapshot, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (Snapshot, error)

// Load calls f.
func (f SourceFunc) Load(ctx context.Context) (Snapshot, error) {
	return f(ctx)
}

// MultiSource loads each source in order and concatenates the results.
type MultiSource []Source

// Load implements Source. A failing source fails the whole load, and slugs
// must stay unique across sources.
func (m MultiSource) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	for i, src := range m {
		s, err := src.Load(ctx)
		if err != nil {
			return Snapshot{}, fmt.Errorf("source %d: %w", i, err)
		}
		snap.Posts = append(snap.Posts, s.Posts...)
		snap.Authors = append(snap.Authors, s.Authors...)
	}
	if err := Validate(snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Validate checks the invariants the Index relies on: every post has a title
// and slug, non-draft post slugs are unique, and author slugs are unique.
func Validate(snap Snapshot) error {
	var errs []error
	posts := make(map[string]string)
	for _, p := range snap.Posts {
		if p.Title == "" {
			errs = append(errs, fmt.Errorf("post %q: %w", p.ID, ErrMissingTitle))
		}
		if p.Slug == "" {
			errs = append(errs, fmt.Errorf("post %q: %w", p.ID, ErrMissingSlug))
			continue
		}
		if p.Draft {
			continue
		}
		if prev, ok := posts[p.Slug]; ok {
			errs = append(errs, fmt.Errorf("post %q: %w %q (also %q)", p.ID, ErrDuplicateSlug, p.Slug, prev))
			continue
		}
		posts[p.Slug] = p.ID
	}
	authors := make(map[string]struct{})
	for _, a := range snap.Authors {
		if a.Slug == "" {
			errs = append(errs, fmt.Errorf("author %q: %w", a.Name, ErrMissingSlug))
			continue
		}
		if _, ok := authors[a.Slug]; ok {
			errs = append(errs, fmt.Errorf("author: %w %q", ErrDuplicateSlug, a.Slug))
			continue
		}
		authors[a.Slug] = struct{}{}
	}
	return errors.Join(errs...)
}
