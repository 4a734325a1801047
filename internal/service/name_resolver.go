package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"crew-exam/internal/domain"

	"github.com/agnivade/levenshtein"
)

// maxNameDistance caps the edit distance of a fuzzy reference match.
const maxNameDistance = 3

// resolution is the outcome of matching a spreadsheet name against one reference table.
type resolution struct {
	ID   string
	Name string
	// Warning is set when the match was not exact or nothing matched.
	Warning string
}

// nameResolver maps names typed by hand onto reference ids. Created references are
// remembered so later rows of the same import match them exactly.
type nameResolver struct {
	kind   domain.ReferenceKind
	refs   []*domain.Reference
	repo   domain.ReferenceRepository
	create bool
}

func newNameResolver(kind domain.ReferenceKind, refs []*domain.Reference, repo domain.ReferenceRepository, create bool) *nameResolver {
	return &nameResolver{kind: kind, refs: refs, repo: repo, create: create}
}

func (r *nameResolver) Resolve(ctx context.Context, name string) (resolution, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return resolution{}, nil
	}

	for _, ref := range r.refs {
		if strings.EqualFold(strings.TrimSpace(ref.Name), name) {
			return resolution{ID: ref.ID, Name: ref.Name}, nil
		}
	}

	if ref := r.closest(name); ref != nil {
		return resolution{
			ID:      ref.ID,
			Name:    ref.Name,
			Warning: fmt.Sprintf("%s %q matched to %q", r.label(), name, ref.Name),
		}, nil
	}

	if !r.create {
		return resolution{Warning: fmt.Sprintf("%s %q not found, left empty", r.label(), name)}, nil
	}
	ref := &domain.Reference{Kind: r.kind, Name: name}
	if err := r.repo.Create(ctx, ref); err != nil {
		return resolution{}, fmt.Errorf("failed to create %s %q: %w", r.label(), name, err)
	}
	r.refs = append(r.refs, ref)
	return resolution{
		ID:      ref.ID,
		Name:    ref.Name,
		Warning: fmt.Sprintf("%s %q created", r.label(), name),
	}, nil
}

// closest returns the nearest reference within min(3, len/3) edits of name, first one on ties.
func (r *nameResolver) closest(name string) *domain.Reference {
	lowered := strings.ToLower(name)
	var best *domain.Reference
	bestDistance := -1
	for _, ref := range r.refs {
		candidate := strings.ToLower(strings.TrimSpace(ref.Name))
		limit := min(maxNameDistance, utf8.RuneCountInString(candidate)/3)
		d := levenshtein.ComputeDistance(lowered, candidate)
		if d > limit {
			continue
		}
		if best == nil || d < bestDistance {
			best, bestDistance = ref, d
		}
	}
	return best
}

func (r *nameResolver) label() string {
	return strings.ReplaceAll(string(r.kind), "_", " ")
}
