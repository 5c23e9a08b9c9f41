package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/yungbote/storefront/internal/cart"
	"github.com/yungbote/storefront/internal/domain"
)

func newCartCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the cart",
	}

	// mutate runs op, then shows the cart and a notification. A storage
	// failure still shows the changed cart before reporting.
	mutate := func(op func(cmd *cobra.Command, args []string) (cart.Snapshot, error), ok string) func(*cobra.Command, []string) error {
		return rt.run(func(cmd *cobra.Command, args []string) error {
			snap, err := op(cmd, args)
			if err != nil && !errors.Is(err, domain.ErrStorageFailure) {
				return err
			}
			n := rt.app.Clients.Notifier
			if err != nil {
				rt.announce(cmd, n.Error(rt.ctx(cmd), err))
			} else {
				rt.announce(cmd, n.Success(rt.ctx(cmd), ok))
			}
			if rt.asJSON {
				if jerr := rt.printJSON(cmd.OutOrStdout(), snap); jerr != nil {
					return jerr
				}
			} else {
				writeCart(cmd.OutOrStdout(), snap)
			}
			return err
		})
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, _ []string) error {
			snap := rt.app.Services.Cart.Snapshot()
			if rt.asJSON {
				return rt.printJSON(cmd.OutOrStdout(), snap)
			}
			writeCart(cmd.OutOrStdout(), snap)
			return nil
		}),
	}

	add := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add one unit of a product",
		Args:  cobra.ExactArgs(1),
		RunE: mutate(func(cmd *cobra.Command, args []string) (cart.Snapshot, error) {
			id, err := parseID(args[0])
			if err != nil {
				return cart.Snapshot{}, err
			}
			return rt.app.Services.Cart.AddItem(rt.ctx(cmd), id)
		}, "Added to cart"),
	}

	var delta int
	update := &cobra.Command{
		Use:   "update <product-id> --by=<delta>",
		Short: "Change a line's quantity; dropping below one removes it",
		Args:  cobra.ExactArgs(1),
		RunE: mutate(func(cmd *cobra.Command, args []string) (cart.Snapshot, error) {
			id, err := parseID(args[0])
			if err != nil {
				return cart.Snapshot{}, err
			}
			if delta == 0 {
				return cart.Snapshot{}, &domain.ValidationError{Field: "by", Reason: "must be a non-zero integer"}
			}
			return rt.app.Services.Cart.UpdateQuantity(rt.ctx(cmd), id, delta)
		}, "Cart updated"),
	}
	update.Flags().IntVar(&delta, "by", 1, "quantity change, e.g. --by=-1")

	remove := &cobra.Command{
		Use:     "remove <product-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a line",
		Args:    cobra.ExactArgs(1),
		RunE: mutate(func(cmd *cobra.Command, args []string) (cart.Snapshot, error) {
			id, err := parseID(args[0])
			if err != nil {
				return cart.Snapshot{}, err
			}
			return rt.app.Services.Cart.RemoveItem(rt.ctx(cmd), id)
		}, "Removed from cart"),
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: mutate(func(cmd *cobra.Command, _ []string) (cart.Snapshot, error) {
			return rt.app.Services.Cart.Clear(rt.ctx(cmd))
		}, "Cart cleared"),
	}

	check := &cobra.Command{
		Use:   "check",
		Short: "Re-check stock for every line",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, _ []string) error {
			issues, err := rt.app.Services.Cart.Revalidate(rt.ctx(cmd))
			if err != nil {
				return err
			}
			if rt.asJSON {
				return rt.printJSON(cmd.OutOrStdout(), issues)
			}
			writeIssues(cmd.OutOrStdout(), issues)
			return nil
		}),
	}

	cmd.AddCommand(show, add, update, remove, clearCmd, check)
	return cmd
}
