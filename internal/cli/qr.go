package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"library-management/backend/internal/dto"
	"library-management/backend/internal/model"
)

// NewQRCommand groups QR session operations.
func NewQRCommand(opts *RootOptions, boot Bootstrap) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qr",
		Short: "QR session operations",
	}
	cmd.AddCommand(newQRIssueCommand(opts, boot))
	return cmd
}

func newQRIssueCommand(opts *RootOptions, boot Bootstrap) *cobra.Command {
	var (
		issuer           string
		locationRequired bool
		ttl              time.Duration
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a QR attendance session on behalf of an admin",
		Long: `Issue a QR attendance session on behalf of an admin.

Without --ttl the configured duration policy applies and an active
session from today may be returned instead of a new one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ttl < 0 {
				return fmt.Errorf("--ttl must not be negative")
			}
			return withApp(cmd, opts, boot, func(ctx context.Context, app *App) error {
				user, err := resolveUser(ctx, app.Users, issuer)
				if err != nil {
					return err
				}
				if user.Role != model.RoleAdmin {
					return fmt.Errorf("user %q is %s; only admins issue QR sessions", issuer, user.Role)
				}

				req := &dto.CreateQRSessionRequest{LocationRequired: locationRequired}
				if ttl > 0 {
					req.ExpiresInSeconds = int(ttl / time.Second)
					if req.ExpiresInSeconds == 0 {
						req.ExpiresInSeconds = 1
					}
				}

				res, err := app.QR.Create(ctx, user.UserID, req)
				if err != nil {
					return err
				}

				if opts.Format == "json" {
					return writeJSON(cmd.OutOrStdout(), res)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "token:             %s\n", res.QRToken)
				fmt.Fprintf(out, "expires at:        %s\n", res.ExpiresAt)
				fmt.Fprintf(out, "location required: %t\n", res.LocationRequired)
				if res.Reused {
					fmt.Fprintln(out, "reused active session")
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&issuer, "issuer", "", "admin user id or email")
	cmd.Flags().BoolVar(&locationRequired, "location-required", false, "require a location with each submission")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "fixed validity window, e.g. 2m")
	_ = cmd.MarkFlagRequired("issuer")
	return cmd
}
