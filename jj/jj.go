// Package jj provides a Go interface to the jj (Jujutsu) command line tool.
// It shells out to the jj binary, captures textual output, and parses it into
// structured data. The parsers are deliberately tolerant: jj's human-readable
// output is not a versioned contract, so every parser here extracts what it
// recognizes and skips what it doesn't.
package jj

// Category classifies a changed file by its status sigil in jj output.
type Category int

const (
	CategoryModified Category = iota
	CategoryAdded
	CategoryDeleted
	CategoryRenamed
	CategoryCopied
)

// Categories lists every category in rendering order. The order is fixed and
// governs how the summary view lays out its sections.
var Categories = [...]Category{
	CategoryModified,
	CategoryAdded,
	CategoryDeleted,
	CategoryRenamed,
	CategoryCopied,
}

// Sigil returns the single-letter status marker jj prints for this category.
func (c Category) Sigil() string {
	switch c {
	case CategoryModified:
		return "M"
	case CategoryAdded:
		return "A"
	case CategoryDeleted:
		return "D"
	case CategoryRenamed:
		return "R"
	case CategoryCopied:
		return "C"
	default:
		return "?"
	}
}

// Label returns the human-readable section heading for this category.
func (c Category) Label() string {
	switch c {
	case CategoryModified:
		return "Modified"
	case CategoryAdded:
		return "Added"
	case CategoryDeleted:
		return "Deleted"
	case CategoryRenamed:
		return "Renamed"
	case CategoryCopied:
		return "Copied"
	default:
		return "Unknown"
	}
}

// ChangeIdentity identifies the working-copy change (@) or its parent (@-).
// Description is the first line of the commit message, empty when the source
// line carried no trailing text.
type ChangeIdentity struct {
	ID          string
	Description string
}

// StatusSummary is the structured form of `jj status` output: the two change
// identities plus the changed files grouped by category. Paths preserve the
// order they appeared in the source text.
type StatusSummary struct {
	ChangeID       ChangeIdentity
	ParentChangeID ChangeIdentity

	Modified []string
	Added    []string
	Deleted  []string
	Renamed  []string
	Copied   []string
}

// Paths returns the ordered path list for the given category.
func (s *StatusSummary) Paths(c Category) []string {
	switch c {
	case CategoryModified:
		return s.Modified
	case CategoryAdded:
		return s.Added
	case CategoryDeleted:
		return s.Deleted
	case CategoryRenamed:
		return s.Renamed
	case CategoryCopied:
		return s.Copied
	default:
		return nil
	}
}

func (s *StatusSummary) appendPath(c Category, path string) {
	switch c {
	case CategoryModified:
		s.Modified = append(s.Modified, path)
	case CategoryAdded:
		s.Added = append(s.Added, path)
	case CategoryDeleted:
		s.Deleted = append(s.Deleted, path)
	case CategoryRenamed:
		s.Renamed = append(s.Renamed, path)
	case CategoryCopied:
		s.Copied = append(s.Copied, path)
	}
}
