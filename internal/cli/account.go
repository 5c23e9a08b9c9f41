package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/storefront/internal/account"
	"github.com/yungbote/storefront/internal/domain"
)

func newAccountCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Register and manage the remembered user",
	}

	var reg account.Registration
	register := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, _ []string) error {
			ctx := rt.ctx(cmd)
			u, err := rt.app.Services.Account.Register(ctx, reg)
			if err != nil && (u.ID == 0 || !errors.Is(err, domain.ErrStorageFailure)) {
				return err
			}
			n := rt.app.Clients.Notifier
			if err != nil {
				rt.announce(cmd, n.Error(ctx, err))
			} else {
				rt.announce(cmd, n.Success(ctx, "Account created"))
			}
			if rt.asJSON {
				if jerr := rt.printJSON(cmd.OutOrStdout(), u); jerr != nil {
					return jerr
				}
			}
			return err
		}),
	}
	fl := register.Flags()
	fl.StringVar(&reg.Email, "email", "", "email address")
	fl.StringVar(&reg.FirstName, "first-name", "", "first name")
	fl.StringVar(&reg.LastName, "last-name", "", "last name")
	fl.StringVar(&reg.Password, "password", "", "password, at least 6 characters")
	fl.StringVar(&reg.ConfirmPassword, "confirm-password", "", "the same password again")

	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Show the remembered user",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, _ []string) error {
			cu, ok := rt.app.Services.Account.Current(rt.ctx(cmd))
			if rt.asJSON {
				return rt.printJSON(cmd.OutOrStdout(), map[string]any{"signed_in": ok, "user": cu})
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), cu.Email)
			return nil
		}),
	}

	signout := &cobra.Command{
		Use:   "signout",
		Short: "Forget the remembered user",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, _ []string) error {
			ctx := rt.ctx(cmd)
			if err := rt.app.Services.Account.SignOut(ctx); err != nil {
				return err
			}
			rt.announce(cmd, rt.app.Clients.Notifier.Success(ctx, "Signed out"))
			return nil
		}),
	}

	cmd.AddCommand(register, whoami, signout)
	return cmd
}
