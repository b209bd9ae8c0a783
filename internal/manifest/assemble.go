package manifest

import "fmt"

// internalFields are never emitted even when captured as extras.
var internalFields = []string{"kind", "last-modified"}

// Assembly is the result of Assemble.
type Assembly struct {
	Document *Document
	// Drafts counts records dropped because they were flagged draft.
	Drafts int
}

// Assemble drops draft records, partitions the rest by kind in discovery
// order and strips internal-only fields.
func Assemble(records []Record) (*Assembly, error) {
	doc := &Document{
		Dependencies: []Dependency{},
		Articles:     []Article{},
		Fragments:    []Fragment{},
	}
	drafts := 0
	fragmentIDs := map[string]string{}

	for _, record := range records {
		if record == nil {
			continue
		}
		if record.IsDraft() {
			drafts++
			continue
		}

		switch r := record.(type) {
		case Dependency:
			doc.Dependencies = append(doc.Dependencies, r)
		case *Dependency:
			doc.Dependencies = append(doc.Dependencies, *r)
		case Article:
			doc.Articles = append(doc.Articles, stripArticle(r))
		case *Article:
			doc.Articles = append(doc.Articles, stripArticle(*r))
		case Fragment:
			if err := claimFragmentID(fragmentIDs, r); err != nil {
				return nil, err
			}
			doc.Fragments = append(doc.Fragments, stripFragment(r))
		case *Fragment:
			if err := claimFragmentID(fragmentIDs, *r); err != nil {
				return nil, err
			}
			doc.Fragments = append(doc.Fragments, stripFragment(*r))
		default:
			return nil, fmt.Errorf("%w: %T", ErrUnknownRecord, record)
		}
	}

	return &Assembly{Document: doc, Drafts: drafts}, nil
}

func claimFragmentID(seen map[string]string, f Fragment) error {
	owner := f.Source
	if previous, ok := seen[f.ID]; ok {
		return fmt.Errorf("%w: %q used by %s and %s", ErrDuplicateFragmentID, f.ID, previous, owner)
	}
	seen[f.ID] = owner
	return nil
}

func stripArticle(a Article) Article {
	a.Extra = stripFields(a.Extra)
	return a
}

func stripFragment(f Fragment) Fragment {
	f.Extra = stripFields(f.Extra)
	return f
}

func stripFields(extra Fields) Fields {
	if len(extra) == 0 {
		return extra
	}
	out := extra.Clone()
	for _, key := range internalFields {
		delete(out, key)
	}
	return out
}
