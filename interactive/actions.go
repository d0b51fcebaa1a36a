package interactive

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/matharman/jjsum/jj"
)

func runEdit(ctx context.Context, client *jj.Client) error {
	options, err := revisionOptions(ctx, client)
	if err != nil {
		return err
	}
	if len(options) == 0 {
		fmt.Println("No revisions available")
		return nil
	}

	var revision string
	err = huh.NewSelect[string]().
		Title("Select revision to edit").
		Options(options...).
		Value(&revision).
		Run()

	if err != nil {
		return nil // User cancelled
	}

	if err := client.Edit(ctx, revision); err != nil {
		return fmt.Errorf("edit failed: %w", err)
	}

	fmt.Printf("Now editing %s\n", revision)
	return nil
}

func runRebase(ctx context.Context, client *jj.Client) error {
	options, err := revisionOptions(ctx, client)
	if err != nil {
		return err
	}
	if len(options) < 2 {
		fmt.Println("Need at least 2 revisions to rebase")
		return nil
	}

	var source string
	err = huh.NewSelect[string]().
		Title("Select revision to rebase (source)").
		Options(options...).
		Value(&source).
		Run()

	if err != nil {
		return nil // Cancelled
	}

	var dest string
	err = huh.NewSelect[string]().
		Title("Select destination (new parent)").
		Description(fmt.Sprintf("Rebasing %s onto...", source)).
		Options(options...).
		Value(&dest).
		Run()

	if err != nil {
		return nil // Cancelled
	}

	if source == dest {
		fmt.Println("Source and destination cannot be the same")
		return nil
	}

	if err := client.Rebase(ctx, source, dest); err != nil {
		return fmt.Errorf("rebase failed: %w", err)
	}

	fmt.Printf("Rebased %s onto %s\n", source, dest)
	return nil
}

func runAbandon(ctx context.Context, client *jj.Client) error {
	options, err := revisionOptions(ctx, client)
	if err != nil {
		return err
	}
	if len(options) == 0 {
		fmt.Println("No revisions available")
		return nil
	}

	var revision string
	err = huh.NewSelect[string]().
		Title("Select revision to abandon").
		Options(options...).
		Value(&revision).
		Run()

	if err != nil {
		return nil // Cancelled
	}

	var confirmed bool
	err = huh.NewConfirm().
		Title(fmt.Sprintf("Abandon %s?", revision)).
		Value(&confirmed).
		Run()

	if err != nil || !confirmed {
		return nil
	}

	if err := client.Abandon(ctx, revision); err != nil {
		return fmt.Errorf("abandon failed: %w", err)
	}

	fmt.Printf("Abandoned %s\n", revision)
	return nil
}

func runBookmarkSet(ctx context.Context, client *jj.Client) error {
	options, err := revisionOptions(ctx, client)
	if err != nil {
		return err
	}
	if len(options) == 0 {
		fmt.Println("No revisions available")
		return nil
	}

	var revision string
	err = huh.NewSelect[string]().
		Title("Select revision for bookmark").
		Options(options...).
		Value(&revision).
		Run()

	if err != nil {
		return nil // Cancelled
	}

	var name string
	err = huh.NewInput().
		Title("Bookmark name").
		Value(&name).
		Run()

	if err != nil || name == "" {
		return nil
	}

	if err := client.BookmarkSet(ctx, name, revision); err != nil {
		return fmt.Errorf("bookmark set failed: %w", err)
	}

	fmt.Printf("Set bookmark %s on %s\n", name, revision)
	return nil
}

func runBookmarkDelete(ctx context.Context, client *jj.Client) error {
	var name string
	err := huh.NewInput().
		Title("Bookmark to delete").
		Value(&name).
		Run()

	if err != nil || name == "" {
		return nil
	}

	if err := client.BookmarkDelete(ctx, name); err != nil {
		return fmt.Errorf("bookmark delete failed: %w", err)
	}

	fmt.Printf("Deleted bookmark %s\n", name)
	return nil
}

func runGitPush(ctx context.Context, client *jj.Client) error {
	out, err := client.GitPush(ctx)
	if err != nil {
		return fmt.Errorf("git push failed: %w", err)
	}
	if out != "" {
		fmt.Println(out)
	}
	return nil
}

func runGitFetch(ctx context.Context, client *jj.Client) error {
	out, err := client.GitFetch(ctx)
	if err != nil {
		return fmt.Errorf("git fetch failed: %w", err)
	}
	if out != "" {
		fmt.Println(out)
	}
	return nil
}

func revisionOptions(ctx context.Context, client *jj.Client) ([]huh.Option[string], error) {
	log, err := client.Log(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get log: %w", err)
	}
	return buildRevisionOptions(log.Changes), nil
}

func buildRevisionOptions(changes []jj.ChangeInfo) []huh.Option[string] {
	var options []huh.Option[string]
	for _, c := range changes {
		label := c.ChangeID
		if c.IsWorkingCopy {
			label += " @"
		}
		if c.Description != "" {
			label += " " + c.Description
		} else {
			label += " (no description)"
		}
		options = append(options, huh.NewOption(label, c.ChangeID))
	}
	return options
}
