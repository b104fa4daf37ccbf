package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewUserCommand groups user operations.
func NewUserCommand(opts *RootOptions, boot Bootstrap) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User operations",
	}
	cmd.AddCommand(newUserProvisionCommand(opts, boot))
	return cmd
}

type provisionResult struct {
	UserID    string `json:"userId"`
	Role      string `json:"role"`
	ProfileID string `json:"profileId,omitempty"`
}

func newUserProvisionCommand(opts *RootOptions, boot Bootstrap) *cobra.Command {
	var ref string

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Create the student or staff profile of a user if missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, boot, func(ctx context.Context, app *App) error {
				user, err := resolveUser(ctx, app.Users, ref)
				if err != nil {
					return err
				}

				profileID, err := app.Profile.EnsureProfile(ctx, user)
				if err != nil {
					return err
				}

				res := provisionResult{UserID: user.UserID, Role: user.Role, ProfileID: profileID}
				if opts.Format == "json" {
					return writeJSON(cmd.OutOrStdout(), res)
				}
				if profileID == "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) has no profile\n", user.UserID, user.Role)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) profile %s\n", user.UserID, user.Role, profileID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&ref, "user", "u", "", "user id or email")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
