package main

import (
	"fmt"
	"strconv"

	"github.com/Eursukkul/venue-booking/internal/models"
	"github.com/Eursukkul/venue-booking/internal/notifier"
	"github.com/Eursukkul/venue-booking/internal/token"
	"github.com/spf13/cobra"
)

func tokenCommand() *cobra.Command {
	var action string
	cmd := &cobra.Command{
		Use:   "token <booking-id>",
		Short: "Print a signed approve/reject link for a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid booking id %q", args[0])
			}
			codec, err := token.NewCodec(cfg.SecretKey)
			if err != nil {
				return err
			}

			actions := []models.Action{models.ActionApprove, models.ActionReject}
			if action != "" {
				a := models.Action(action)
				if !a.Valid() {
					return fmt.Errorf("unknown action %q", action)
				}
				actions = []models.Action{a}
			}
			for _, a := range actions {
				tok, err := codec.Issue(uint(id), a, cfg.TokenTTL)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", a, notifier.DecisionLink(cfg.BaseURL, tok))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&action, "action", "", "approve or reject (default both)")
	return cmd
}
