package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/featuretrail/internal/app"
	"github.com/heartmarshall/featuretrail/internal/service/feature"
	"github.com/heartmarshall/featuretrail/pkg/ctxutil"
)

// forOwners runs fn for the --owner flag value, or for every owner when it is empty.
func forOwners(ctx context.Context, a *app.App, owner string, fn func(ctx context.Context, ownerID uuid.UUID) error) error {
	if owner == "" {
		return a.EachOwner(ctx, fn)
	}
	id, err := uuid.Parse(owner)
	if err != nil {
		return fmt.Errorf("invalid --owner: %w", err)
	}
	return fn(ctxutil.WithOwnerID(ctx, id), id)
}

func verifyCmd() *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Report nodes whose child caches disagree with parent references",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			var (
				mu    sync.Mutex
				total int
			)
			err = forOwners(cmd.Context(), a, owner, func(ctx context.Context, ownerID uuid.UUID) error {
				mismatches, err := a.Features.VerifyIndex(ctx)
				if err != nil {
					return err
				}
				mu.Lock()
				defer mu.Unlock()
				total += len(mismatches)
				printMismatches(cmd.OutOrStdout(), ownerID, mismatches)
				return nil
			})
			if err != nil {
				return err
			}
			if total > 0 {
				return fmt.Errorf("%d index mismatch(es) found", total)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "index ok")
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "limit to one owner id")
	return cmd
}

func printMismatches(w io.Writer, ownerID uuid.UUID, mismatches []feature.Mismatch) {
	for _, m := range mismatches {
		fmt.Fprintf(w, "%s\t%s\t%q\t%s\twant %d got %d\n",
			ownerID, m.FID, m.Name, m.Field, len(m.Want), len(m.Got))
	}
}

func reindexCmd() *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Recompute child caches from parent references and repair drift",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			var mu sync.Mutex
			return forOwners(cmd.Context(), a, owner, func(ctx context.Context, ownerID uuid.UUID) error {
				res, err := a.Features.Reindex(ctx)
				if err != nil {
					return err
				}
				mu.Lock()
				defer mu.Unlock()
				fmt.Fprintf(cmd.OutOrStdout(), "%s\tchecked %d\trepaired %d\n", ownerID, res.Checked, res.Repaired)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "limit to one owner id")
	return cmd
}
