// Command shopctl is a terminal shopper for the storefront API. The cart
// lives on this machine and is only sent to the server at checkout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/client"
	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/clientcart"
	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/domain"
	"github.com/owaisraza72/Full-Stack-E-Commerce/pkg/logger"
)

const usage = `usage: shopctl [-server URL] <command> [args]

commands:
  login -email E -password P
  products
  add <product-id> [quantity]
  remove <product-id>
  qty <product-id> <quantity>
  cart
  checkout -first F -last L -email E -address A -city C -postal P
  orders
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "shopctl:", err)
		os.Exit(1)
	}
}

type app struct {
	out     io.Writer
	api     *client.Client
	store   *clientcart.Store
	session string
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("shopctl", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage) }
	server := fs.String("server", envOr("SHOPCTL_SERVER", "http://localhost:8080"), "storefront base URL")
	dir := fs.String("dir", "", "state directory (default: user config dir)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	stateDir := *dir
	if stateDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("locate config dir: %w", err)
		}
		stateDir = filepath.Join(base, "shopctl")
	}

	log := logger.New(logger.Options{Service: "shopctl", Level: envOr("LOG_LEVEL", "warn"), Output: os.Stderr})

	a := &app{
		out:     out,
		api:     client.New(*server),
		store:   clientcart.NewStore(clientcart.NewFilePersister(filepath.Join(stateDir, "cart.json")), log),
		session: filepath.Join(stateDir, "session"),
	}
	if tok, err := os.ReadFile(a.session); err == nil {
		a.api.SetToken(strings.TrimSpace(string(tok)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "login":
		return a.login(ctx, rest)
	case "products":
		return a.products(ctx)
	case "add":
		return a.add(ctx, rest)
	case "remove":
		if len(rest) != 1 {
			return errors.New("usage: remove <product-id>")
		}
		if err := a.store.RemoveLine(rest[0]); err != nil {
			return err
		}
		return a.cart()
	case "qty":
		if len(rest) != 2 {
			return errors.New("usage: qty <product-id> <quantity>")
		}
		n, err := strconv.Atoi(rest[1])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", rest[1])
		}
		if err := a.store.SetQuantity(rest[0], n); err != nil {
			return err
		}
		return a.cart()
	case "cart":
		return a.cart()
	case "checkout":
		return a.checkout(ctx, rest)
	case "orders":
		return a.orders(ctx)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(a.session), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(a.session, []byte(a.api.Token()), 0o600); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	fmt.Fprintf(a.out, "logged in as %s (%s)\n", user.Email, user.Role)
	return nil
}

func (a *app) products(ctx context.Context) error {
	products, err := a.api.Products(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTOCK")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%d\n", p.ID, p.Name, p.Price, p.Stock)
	}
	return tw.Flush()
}

func (a *app) add(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: add <product-id> [quantity]")
	}
	qty := 1
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
		qty = n
	}

	p, err := a.api.GetProduct(ctx, args[0])
	if err != nil {
		return err
	}
	if err := a.store.AddLine(clientcart.Product{ID: p.ID, Name: p.Name, Price: p.Price}, qty); err != nil {
		return err
	}
	return a.cart()
}

func (a *app) cart() error {
	lines := a.store.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(a.out, "cart is empty")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tUNIT\tSUBTOTAL")
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t%.2f\n", l.ProductID, l.Name, l.Quantity, l.UnitPrice, float64(l.Quantity)*l.UnitPrice)
	}
	fmt.Fprintf(tw, "\t\t\tTOTAL\t%.2f\n", a.store.Total())
	return tw.Flush()
}

func (a *app) checkout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	var addr domain.ShippingAddress
	fs.StringVar(&addr.FirstName, "first", "", "first name")
	fs.StringVar(&addr.LastName, "last", "", "last name")
	fs.StringVar(&addr.Email, "email", "", "contact email")
	fs.StringVar(&addr.Address, "address", "", "street address")
	fs.StringVar(&addr.City, "city", "", "city")
	fs.StringVar(&addr.PostalCode, "postal", "", "postal code")
	if err := fs.Parse(args); err != nil {
		return err
	}

	order, err := a.api.Checkout(ctx, a.store, addr)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "order %s placed: %.2f (%s)\n", order.ID, order.TotalAmount, order.Status)
	return nil
}

func (a *app) orders(ctx context.Context) error {
	orders, err := a.api.Orders(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPLACED\tITEMS\tTOTAL\tSTATUS")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t%s\n", o.ID, o.CreatedAt.Local().Format(time.DateTime), len(o.Items), o.TotalAmount, o.Status)
	}
	return tw.Flush()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
