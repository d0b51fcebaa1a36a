package jj

import (
	"context"
	"strings"
)

// LogOutput contains rendered log lines plus the metadata needed to map a
// display line back to the change it belongs to.
type LogOutput struct {
	Lines        []string     // Rendered graph lines from jj log
	LineChangeID []string     // lineIndex -> change ID ("" for continuation lines)
	Changes      []ChangeInfo // Unique changes in log order
}

// ChangeInfo describes one change in the log output.
type ChangeInfo struct {
	ChangeID      string
	CommitID      string
	Description   string
	IsWorkingCopy bool
	StartLine     int // First rendered line for this change (0-indexed)
	EndLine       int // Last rendered line (exclusive)
}

// logTemplate produces one machine-readable line per change.
const logTemplate = `change_id.short(8) ++ "|" ++ commit_id.short(8) ++ "|" ++ if(current_working_copy, "@", "") ++ "|" ++ description.first_line() ++ "\n"`

// Log fetches the log in two passes: the rendered graph for display, and a
// structured template pass to map lines to changes.
func (c *Client) Log(ctx context.Context) (*LogOutput, error) {
	rendered, err := c.run(ctx, "log", "--color=never")
	if err != nil {
		return nil, err
	}

	structured, err := c.run(ctx, "log", "--no-graph", "-T", logTemplate)
	if err != nil {
		return nil, err
	}
	changes := parseStructuredLog(structured)

	byID := make(map[string]int, len(changes))
	for i, change := range changes {
		byID[change.ChangeID] = i
	}

	lines := strings.Split(strings.TrimRight(rendered, "\n"), "\n")
	lineChangeID := make([]string, len(lines))

	// A change's rendered block starts at the line carrying its ID and runs
	// until the next change's first line.
	current := -1
	for i, line := range lines {
		if id := ExtractChangeID(line); id != "" {
			if idx, ok := byID[id]; ok {
				current = idx
				changes[idx].StartLine = i
			}
		}
		if current >= 0 {
			lineChangeID[i] = changes[current].ChangeID
		}
	}
	for i := range changes {
		if i < len(changes)-1 {
			changes[i].EndLine = changes[i+1].StartLine
		} else {
			changes[i].EndLine = len(lines)
		}
	}

	return &LogOutput{
		Lines:        lines,
		LineChangeID: lineChangeID,
		Changes:      changes,
	}, nil
}

// parseStructuredLog parses the template output into ChangeInfo entries.
func parseStructuredLog(output string) []ChangeInfo {
	var changes []ChangeInfo
	for _, line := range strings.Split(output, "\n") {
		parts := strings.SplitN(line, "|", 4)
		if len(parts) != 4 || parts[0] == "" {
			continue
		}
		changes = append(changes, ChangeInfo{
			ChangeID:      parts[0],
			CommitID:      parts[1],
			IsWorkingCopy: parts[2] == "@",
			Description:   parts[3],
		})
	}
	return changes
}
