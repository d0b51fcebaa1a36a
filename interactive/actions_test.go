package interactive

import (
	"testing"

	"github.com/matharman/jjsum/jj"
)

func TestBuildRevisionOptions(t *testing.T) {
	tests := []struct {
		name       string
		changes    []jj.ChangeInfo
		wantLabels []string
		wantValues []string
	}{
		{
			name:    "empty changes",
			changes: []jj.ChangeInfo{},
		},
		{
			name: "single change not working copy",
			changes: []jj.ChangeInfo{
				{ChangeID: "abcd1234", CommitID: "deadbeef", IsWorkingCopy: false},
			},
			wantLabels: []string{"abcd1234 (no description)"},
			wantValues: []string{"abcd1234"},
		},
		{
			name: "single change is working copy",
			changes: []jj.ChangeInfo{
				{ChangeID: "wxyz9876", CommitID: "cafebabe", IsWorkingCopy: true},
			},
			wantLabels: []string{"wxyz9876 @ (no description)"},
			wantValues: []string{"wxyz9876"},
		},
		{
			name: "change with description",
			changes: []jj.ChangeInfo{
				{ChangeID: "desctest", CommitID: "abcd1234", Description: "Fix the bug"},
			},
			wantLabels: []string{"desctest Fix the bug"},
			wantValues: []string{"desctest"},
		},
		{
			name: "working copy with description",
			changes: []jj.ChangeInfo{
				{ChangeID: "fullinfo", CommitID: "bbbb2222", Description: "Add feature", IsWorkingCopy: true},
			},
			wantLabels: []string{"fullinfo @ Add feature"},
			wantValues: []string{"fullinfo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options := buildRevisionOptions(tt.changes)

			if len(options) != len(tt.wantLabels) {
				t.Fatalf("buildRevisionOptions() returned %d options, want %d", len(options), len(tt.wantLabels))
			}

			for i, opt := range options {
				if opt.Key != tt.wantLabels[i] {
					t.Errorf("option[%d] label = %q, want %q", i, opt.Key, tt.wantLabels[i])
				}
				if opt.Value != tt.wantValues[i] {
					t.Errorf("option[%d] value = %q, want %q", i, opt.Value, tt.wantValues[i])
				}
			}
		})
	}
}

func TestBuildRevisionOptionsPreservesOrder(t *testing.T) {
	changes := []jj.ChangeInfo{
		{ChangeID: "first", CommitID: "111", IsWorkingCopy: false},
		{ChangeID: "second", CommitID: "222", IsWorkingCopy: true},
		{ChangeID: "third", CommitID: "333", IsWorkingCopy: false},
	}

	options := buildRevisionOptions(changes)

	if len(options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(options))
	}

	expectedOrder := []string{"first", "second", "third"}
	for i, opt := range options {
		if opt.Value != expectedOrder[i] {
			t.Errorf("option[%d] value = %q, want %q (order not preserved)", i, opt.Value, expectedOrder[i])
		}
	}
}
