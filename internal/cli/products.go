package cli

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/storefront/internal/catalog"
	"github.com/yungbote/storefront/internal/domain"
)

func newProductsCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product", "p"},
		Short:   "Browse the catalog",
	}

	var f domain.ProductFilter
	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, _ []string) error {
			products, err := rt.app.Services.Catalog.ListProducts(rt.ctx(cmd), f)
			if err != nil {
				return err
			}
			if rt.asJSON {
				return rt.printJSON(cmd.OutOrStdout(), products)
			}
			writeProducts(cmd.OutOrStdout(), products)
			return nil
		}),
	}
	list.Flags().StringVar(&f.Category, "category", "", "only this category")
	list.Flags().StringVar(&f.Sort, "sort", "", "price, price_desc or name")
	list.Flags().IntVar(&f.Limit, "limit", catalog.DefaultLimit, "page size")
	list.Flags().IntVar(&f.Skip, "skip", 0, "products to skip")

	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Search names, descriptions and categories",
		Args:  cobra.ExactArgs(1),
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			products, err := rt.app.Services.Catalog.SearchProducts(rt.ctx(cmd), args[0])
			if err != nil {
				return err
			}
			if rt.asJSON {
				return rt.printJSON(cmd.OutOrStdout(), products)
			}
			writeProducts(cmd.OutOrStdout(), products)
			return nil
		}),
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := rt.app.Services.Catalog.GetProduct(rt.ctx(cmd), id)
			if err != nil {
				return err
			}
			if rt.asJSON {
				return rt.printJSON(cmd.OutOrStdout(), p)
			}
			writeProduct(cmd.OutOrStdout(), p)
			return nil
		}),
	}

	cmd.AddCommand(list, search, show)
	return cmd
}
