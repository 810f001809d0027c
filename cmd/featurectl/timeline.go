package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/featuretrail/pkg/ctxutil"
)

func timelineCmd() *cobra.Command {
	var (
		owner   string
		history bool
	)

	cmd := &cobra.Command{
		Use:   "timeline <subject-id>",
		Short: "Print the audit timeline of one subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ownerID, err := uuid.Parse(owner)
			if err != nil {
				return fmt.Errorf("invalid --owner: %w", err)
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := ctxutil.WithOwnerID(cmd.Context(), ownerID)
			out := cmd.OutOrStdout()

			if history {
				entries, err := a.Audit.GetHistory(ctx, args[0])
				if err != nil {
					return err
				}
				for _, e := range entries {
					fmt.Fprintf(out, "%s\t%s\t%s\t%s\tprev=%s\tnext=%s\n",
						e.CreatedAt.Format(time.RFC3339), e.ID, e.Topic, e.Message, e.PrevLink, e.NextLink)
				}
				return nil
			}

			tl, err := a.Audit.GetTimeline(ctx, args[0])
			if err != nil {
				return err
			}
			for _, item := range tl.Items {
				fmt.Fprintf(out, "%s\t%s\t%s\n", item.CreatedAt.Format(time.RFC3339), item.EntryID, item.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner id (required)")
	cmd.Flags().BoolVar(&history, "history", false, "print full chained entries instead of the timeline")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}
