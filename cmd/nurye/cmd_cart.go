package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nurye/shop/internal/app"
	"github.com/nurye/shop/internal/cart"
	"github.com/nurye/shop/internal/catalog"
	"github.com/nurye/shop/internal/money"
)

var cartQty int

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Inspect and change the local cart",
}

var cartListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show cart lines and subtotal",
	Args:  cobra.NoArgs,
	RunE:  runCartList,
}

var cartAddCmd = &cobra.Command{
	Use:   "add [product]",
	Short: "Add a product by slug or id",
	Long: `Looks the product up in the catalog and adds it to the cart.
Adding a product that is already in the cart increases its quantity.

Example:
  nurye cart add coffee-beans --qty 2`,
	Args: cobra.ExactArgs(1),
	RunE: runCartAdd,
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a line from the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartRemove,
}

var cartQtyCmd = &cobra.Command{
	Use:   "qty [id] [delta]",
	Short: "Change a line's quantity by delta (never below 1)",
	Example: `  nurye cart qty p1 +2
  nurye cart qty p1 -1`,
	Args: cobra.ExactArgs(2),
	RunE: runCartQty,
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	RunE:  runCartClear,
}

func init() {
	cartAddCmd.Flags().IntVarP(&cartQty, "qty", "n", 1, "Quantity to add")

	cartCmd.AddCommand(cartListCmd)
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	cartCmd.AddCommand(cartQtyCmd)
	cartCmd.AddCommand(cartClearCmd)
}

// withCart opens the environment, runs fn and reports persistence failures.
func withCart(fn func(env *app.Env) error) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	if err := fn(env); err != nil {
		return err
	}
	if err := env.Cart.LastPersistError(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func runCartList(cmd *cobra.Command, args []string) error {
	return withCart(func(env *app.Env) error {
		printCart(cmd.OutOrStdout(), env.Cart, env.Config.Currency)
		return nil
	})
}

func runCartAdd(cmd *cobra.Command, args []string) error {
	return withCart(func(env *app.Env) error {
		ctx, cancel := context.WithTimeout(commandContext(cmd), timeout)
		defer cancel()

		p, err := env.Catalog.Product(ctx, args[0])
		if errors.Is(err, catalog.ErrNotFound) {
			return fmt.Errorf("no product %q", args[0])
		}
		if err != nil {
			return fmt.Errorf("look up product: %w", err)
		}

		env.Cart.Add(cart.Item{
			ID:    p.ID,
			Title: p.Title,
			Price: p.PriceValue(),
			Image: string(p.Image),
		}, cartQty)
		env.Logger.Info("cart add",
			zap.String("id", p.ID),
			zap.Int("quantity", max(1, cartQty)),
		)

		line, _ := env.Cart.Line(p.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "%s x%d (%d in cart)\n", line.Title, line.Quantity, env.Cart.Count())
		return nil
	})
}

func runCartRemove(cmd *cobra.Command, args []string) error {
	return withCart(func(env *app.Env) error {
		if _, ok := env.Cart.Line(args[0]); !ok {
			return fmt.Errorf("%q is not in the cart", args[0])
		}
		env.Cart.Remove(args[0])
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s (%d in cart)\n", args[0], env.Cart.Count())
		return nil
	})
}

func runCartQty(cmd *cobra.Command, args []string) error {
	delta, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid delta %q: %w", args[1], err)
	}
	return withCart(func(env *app.Env) error {
		if _, ok := env.Cart.Line(args[0]); !ok {
			return fmt.Errorf("%q is not in the cart", args[0])
		}
		env.Cart.ChangeQuantity(args[0], delta)
		line, _ := env.Cart.Line(args[0])
		fmt.Fprintf(cmd.OutOrStdout(), "%s x%d\n", line.Title, line.Quantity)
		return nil
	})
}

func runCartClear(cmd *cobra.Command, args []string) error {
	return withCart(func(env *app.Env) error {
		env.Cart.Clear()
		fmt.Fprintln(cmd.OutOrStdout(), "cart cleared")
		return nil
	})
}

func printCart(w io.Writer, store *cart.Store, currency string) {
	lines := store.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(w, "cart is empty")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tQTY\tPRICE\tTOTAL")
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			l.ID, l.Title, l.Quantity,
			money.Format(l.UnitPrice(), currency),
			money.Format(l.Total(), currency),
		)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "\n%d items, subtotal %s\n", store.Count(), money.Format(store.Subtotal(), currency))
}
