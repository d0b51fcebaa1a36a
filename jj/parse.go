package jj

import (
	"regexp"
	"strings"
)

// Recognized line shapes in `jj status` output. Each pattern is a named rule:
// anything that matches none of them is skipped, never an error.
var (
	// "Working copy  (@) : wprqlrtr 08b82958 some description"
	workingCopyRe = regexp.MustCompile(`^Working copy\s*(?:\(@\)\s*)?:\s*([A-Za-z0-9]+)\s+([A-Za-z0-9]+)\s*(.*)$`)
	// "Parent commit (@-): kxryzmor 41b1a093 master | fix bug"
	parentCommitRe = regexp.MustCompile(`^Parent commit\s*(?:\(@-\)\s*)?:\s*([A-Za-z0-9]+)\s+([A-Za-z0-9]+)\s*(.*)$`)
	// "M path/to/file"
	fileStatusRe = regexp.MustCompile(`^\s*([MADRC])\s+(\S.*)$`)
)

// ParseStatus turns `jj status` output into a StatusSummary. Empty or
// whitespace-only input yields nil: not an error, just no result. Lines are
// scanned independently; file paths keep their source order within each
// category.
func ParseStatus(text string) *StatusSummary {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	s := &StatusSummary{
		ChangeID:       ChangeIdentity{ID: "@"},
		ParentChangeID: ChangeIdentity{ID: "@-"},
	}

	for _, line := range strings.Split(text, "\n") {
		if m := workingCopyRe.FindStringSubmatch(line); m != nil {
			s.ChangeID = identityFromMatch(m)
			continue
		}
		if m := parentCommitRe.FindStringSubmatch(line); m != nil {
			s.ParentChangeID = identityFromMatch(m)
			continue
		}
		if m := fileStatusRe.FindStringSubmatch(line); m != nil {
			s.appendPath(categoryForSigil(m[1]), strings.TrimRight(m[2], " \t"))
			continue
		}
	}

	return s
}

// identityFromMatch builds a ChangeIdentity from a header line match. When
// the trailing segment contains a bookmark list, jj separates it from the
// description with "|"; the text after the last separator wins.
func identityFromMatch(m []string) ChangeIdentity {
	id := ChangeIdentity{ID: m[1]}

	trailing := strings.TrimSpace(m[3])
	if trailing == "" {
		return id
	}
	if i := strings.LastIndex(trailing, "|"); i >= 0 {
		id.Description = strings.TrimSpace(trailing[i+1:])
		return id
	}
	id.Description = trailing
	return id
}

func categoryForSigil(sigil string) Category {
	switch sigil {
	case "A":
		return CategoryAdded
	case "D":
		return CategoryDeleted
	case "R":
		return CategoryRenamed
	case "C":
		return CategoryCopied
	default:
		return CategoryModified
	}
}

var (
	// Graph decoration that may precede a change ID in `jj log` output.
	graphPrefixRe = regexp.MustCompile(`^[\s@○◆×│┃├┤╮╯╭╰┌┐└┘─┆|*:.~+-]*`)
	// A change ID token is only valid when bounded by whitespace or EOL;
	// this keeps the extractor from matching inside free text.
	changeTokenRe = regexp.MustCompile(`^([A-Za-z0-9]+)(?:\s|$)`)
)

// ExtractChangeID reads the revision identifier from one rendered log line by
// stripping the graph-drawing prefix and taking the first alphanumeric token.
// Returns "" when the line holds no recognizable ID.
func ExtractChangeID(line string) string {
	rest := graphPrefixRe.ReplaceAllString(line, "")
	m := changeTokenRe.FindStringSubmatch(rest)
	if m == nil {
		return ""
	}
	return m[1]
}

var quotedArgRe = regexp.MustCompile(`"([^"]*)"|'([^']*)'`)

// ParseCommandArgs extracts an argument list from a jj config value. The
// value is either a bare scalar or a TOML-style bracketed list of quoted
// strings, e.g. `["--git", "--context", "5"]`.
func ParseCommandArgs(value string) []string {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}

	if strings.HasPrefix(v, "[") && strings.HasSuffix(v, "]") {
		var args []string
		for _, m := range quotedArgRe.FindAllStringSubmatch(v, -1) {
			if strings.HasPrefix(m[0], `"`) {
				args = append(args, m[1])
			} else {
				args = append(args, m[2])
			}
		}
		return args
	}

	return []string{strings.Trim(v, `"'`)}
}

var renameBracesRe = regexp.MustCompile(`\{([^{}]*) => ([^{}]*)\}`)

// SplitRenamePath resolves jj's rename notation into the old and new paths.
// Handles both the brace form "dir/{old => new}/file" and the bare form
// "old => new". A path without rename markers maps to itself.
func SplitRenamePath(path string) (oldPath, newPath string) {
	if m := renameBracesRe.FindStringSubmatchIndex(path); m != nil {
		prefix := path[:m[0]]
		suffix := path[m[1]:]
		oldPart := path[m[2]:m[3]]
		newPart := path[m[4]:m[5]]
		return joinRenamePart(prefix, oldPart, suffix), joinRenamePart(prefix, newPart, suffix)
	}
	if i := strings.Index(path, " => "); i >= 0 {
		return path[:i], path[i+len(" => "):]
	}
	return path, path
}

// joinRenamePart glues a brace segment back into its surrounding path,
// collapsing the doubled slash left behind by an empty segment.
func joinRenamePart(prefix, part, suffix string) string {
	p := prefix + part + suffix
	return strings.ReplaceAll(p, "//", "/")
}
