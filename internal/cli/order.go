package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/storefront/internal/orders"
)

func newOrderCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "order",
		Aliases: []string{"orders"},
		Short:   "Place and review orders",
	}

	submit := &cobra.Command{
		Use:   "submit",
		Short: "Order everything in the cart",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, _ []string) error {
			ctx := rt.ctx(cmd)
			n := rt.app.Clients.Notifier
			order, err := rt.app.Services.Orders.Submit(ctx)
			if err != nil && !orders.IsPlacedButNotCleared(order, err) {
				return err
			}
			if err != nil {
				rt.announce(cmd, n.Error(ctx, err))
			} else {
				rt.announce(cmd, n.Success(ctx, fmt.Sprintf("Order #%d placed", order.ID)))
			}
			if rt.asJSON {
				if jerr := rt.printJSON(cmd.OutOrStdout(), order); jerr != nil {
					return jerr
				}
			} else {
				writeOrder(cmd.OutOrStdout(), order)
			}
			return err
		}),
	}

	var f orders.ListFilter
	list := &cobra.Command{
		Use:   "list",
		Short: "List placed orders",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, _ []string) error {
			list, err := rt.app.Services.Orders.List(rt.ctx(cmd), f)
			if err != nil {
				return err
			}
			if rt.asJSON {
				return rt.printJSON(cmd.OutOrStdout(), list)
			}
			writeOrders(cmd.OutOrStdout(), list)
			return nil
		}),
	}
	list.Flags().IntVar(&f.Skip, "skip", 0, "orders to skip")
	list.Flags().IntVar(&f.Limit, "limit", 0, "page size (server default when 0)")

	show := &cobra.Command{
		Use:   "show <order-id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			order, err := rt.app.Services.Orders.Get(rt.ctx(cmd), id)
			if err != nil {
				return err
			}
			if rt.asJSON {
				return rt.printJSON(cmd.OutOrStdout(), order)
			}
			writeOrder(cmd.OutOrStdout(), order)
			return nil
		}),
	}

	cmd.AddCommand(submit, list, show)
	return cmd
}
