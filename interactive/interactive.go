// Package interactive implements the quick-action menu reached with -i. It
// drives the same jj client as the full-screen view through simple prompts.
package interactive

import (
	"context"

	"github.com/charmbracelet/huh"

	"github.com/matharman/jjsum/jj"
)

// Run shows the quick-action menu and executes the chosen action.
func Run(ctx context.Context, client *jj.Client) error {
	var action string

	err := huh.NewSelect[string]().
		Title("jjsum - Quick Actions").
		Options(
			huh.NewOption("Edit - Switch working copy to revision", "edit"),
			huh.NewOption("Rebase - Move revision to new parent", "rebase"),
			huh.NewOption("Abandon - Discard a revision", "abandon"),
			huh.NewOption("Bookmark - Set bookmark on revision", "bookmark-set"),
			huh.NewOption("Bookmark - Delete bookmark", "bookmark-delete"),
			huh.NewOption("Git push", "push"),
			huh.NewOption("Git fetch", "fetch"),
		).
		Value(&action).
		Run()

	if err != nil {
		return err // User cancelled
	}

	switch action {
	case "edit":
		return runEdit(ctx, client)
	case "rebase":
		return runRebase(ctx, client)
	case "abandon":
		return runAbandon(ctx, client)
	case "bookmark-set":
		return runBookmarkSet(ctx, client)
	case "bookmark-delete":
		return runBookmarkDelete(ctx, client)
	case "push":
		return runGitPush(ctx, client)
	case "fetch":
		return runGitFetch(ctx, client)
	}

	return nil
}
