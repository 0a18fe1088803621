package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/dejobratic/restoadmin/internal/orders/app/queries"
	"github.com/dejobratic/restoadmin/internal/orders/domain"
)

func (a *app) ordersCmd() *Command {
	fs := flag.NewFlagSet("orders", flag.ContinueOnError)
	status := fs.StringP("status", "s", "all", "status to keep: all, sent_to_printer, completed, cancelled, print_error")
	date := fs.StringP("date", "d", "all", "date window: all, today, week, month")
	recent := fs.Bool("recent", false, "only the backend's recent orders")
	asJSON := fs.Bool("json", false, "print JSON instead of a table")

	return &Command{
		Flags: fs,
		Usage: "orders [flags]",
		Short: "List orders by status and date",
		Long: "List orders from the backend, filtered by status and by a date window\n" +
			"resolved from each order code. The window ends now in ORDERS_TIMEZONE.",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			sel, err := queries.ParseSelection(*status, *date)
			if err != nil {
				return usageError{err: err}
			}

			list := a.client.ListOrders
			if *recent {
				list = a.client.ListRecentOrders
			}
			orders, err := list(ctx)
			if err != nil {
				return err
			}

			visible := domain.Filter(orders, sel, a.clock())
			if *asJSON {
				enc := json.NewEncoder(o.Out())
				enc.SetIndent("", "  ")
				return enc.Encode(visible)
			}
			return printOrders(o, visible)
		},
	}
}

func (a *app) dashboardCmd() *Command {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	recent := fs.IntP("recent", "n", domain.DefaultRecentOrders, "how many recent orders to list")

	return &Command{
		Flags: fs,
		Usage: "dashboard [--recent <n>]",
		Short: "Show order totals and the latest orders",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			orders, err := a.client.ListOrders(ctx)
			if err != nil {
				return err
			}
			s := domain.Summarize(orders, a.clock(), *recent)

			tw := o.Table()
			fmt.Fprintf(tw, "Jami buyurtmalar:\t%d\n", s.Total)
			fmt.Fprintf(tw, "Bugungi buyurtmalar:\t%d\n", s.Today)
			fmt.Fprintf(tw, "Faol buyurtmalar:\t%d\n", s.Active)
			fmt.Fprintf(tw, "Jami summa:\t%s\n", domain.FormatSum(s.Revenue))
			if err := tw.Flush(); err != nil {
				return err
			}

			o.Println()
			return printOrders(o, s.Recent)
		},
	}
}

func printOrders(o *IO, orders []domain.Order) error {
	if len(orders) == 0 {
		o.Println("Buyurtmalar topilmadi")
		return nil
	}

	tw := o.Table()
	fmt.Fprintln(tw, "CODE\tCUSTOMER\tFILIAL\tITEMS\tTOTAL\tSTATUS")
	for _, ord := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			ord.Code, ord.Username, ord.FilialName, len(ord.Items), domain.FormatSum(ord.Total), ord.Status.Label())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	o.Printf("Jami: %d ta buyurtma\n", len(orders))
	return nil
}

func (a *app) orderCreateCmd() *Command {
	fs := flag.NewFlagSet("order-create", flag.ContinueOnError)
	username := fs.StringP("username", "u", "", "customer name")
	filial := fs.StringP("filial", "f", "", "filial the order is placed in")
	items := fs.StringArrayP("item", "i", nil, "order line as <product_id>=<count>, repeatable")

	return &Command{
		Flags: fs,
		Usage: "order-create --username <name> --item <id>=<count>...",
		Short: "Place an order",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			lines, err := parseItems(*items)
			if err != nil {
				return usageError{err: err}
			}

			draft, err := domain.OrderDraft{
				Username: strings.TrimSpace(*username),
				Filial:   strings.TrimSpace(*filial),
				Items:    lines,
			}.Validate()
			if err != nil {
				return usageError{err: err}
			}

			order, err := a.client.CreateOrder(ctx, draft)
			if err != nil {
				return err
			}
			o.Printf("Buyurtma muvaffaqiyatli yaratildi: %s (%s)\n", order.Code, domain.FormatSum(order.Total))
			return nil
		},
	}
}

var errBadItem = errors.New("item must look like <product_id>=<count>")

func parseItems(raw []string) ([]domain.DraftItem, error) {
	items := make([]domain.DraftItem, 0, len(raw))
	for _, r := range raw {
		id, count, ok := strings.Cut(r, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q", errBadItem, r)
		}
		productID, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", errBadItem, r)
		}
		n, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", errBadItem, r)
		}
		items = append(items, domain.DraftItem{ProductID: productID, Count: n})
	}
	return items, nil
}
