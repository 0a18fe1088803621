package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/dejobratic/restoadmin/internal/backend"
)

var ErrNotFound = errors.New("not found")

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, usageError{err: errors.New("expected exactly one id")}
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, usageError{err: fmt.Errorf("invalid id %q", args[0])}
	}
	return id, nil
}

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return usageError{err: fmt.Errorf("--%s is required", name)}
	}
	return nil
}

func (a *app) filialsCmd() *Command {
	addFlags := flag.NewFlagSet("add", flag.ContinueOnError)
	addName := addFlags.String("name", "", "filial name")
	addLocation := addFlags.String("location", "", "address or landmark")

	editFlags := flag.NewFlagSet("edit", flag.ContinueOnError)
	editName := editFlags.String("name", "", "new name")
	editLocation := editFlags.String("location", "", "new location")

	return &Command{
		Usage: "filials <command>",
		Short: "Manage filials",
		Subcommands: []*Command{
			{
				Usage: "ls",
				Short: "List filials",
				Exec: func(ctx context.Context, o *IO, _ []string) error {
					filials, err := a.client.ListFilials(ctx)
					if err != nil {
						return err
					}
					tw := o.Table()
					fmt.Fprintln(tw, "ID\tNAME\tLOCATION")
					for _, f := range filials {
						fmt.Fprintf(tw, "%d\t%s\t%s\n", f.ID, f.Name, f.Location)
					}
					return tw.Flush()
				},
			},
			{
				Flags: addFlags,
				Usage: "add --name <name> [--location <location>]",
				Short: "Create a filial",
				Exec: func(ctx context.Context, o *IO, _ []string) error {
					if err := required("name", *addName); err != nil {
						return err
					}
					f, err := a.client.CreateFilial(ctx, backend.FilialInput{
						Name:     strings.TrimSpace(*addName),
						Location: strings.TrimSpace(*addLocation),
					})
					if err != nil {
						return err
					}
					o.Printf("Created filial %d %s\n", f.ID, f.Name)
					return nil
				},
			},
			{
				Flags: editFlags,
				Usage: "edit <id> [--name <name>] [--location <location>]",
				Short: "Rename or move a filial",
				Exec: func(ctx context.Context, o *IO, args []string) error {
					id, err := parseID(args)
					if err != nil {
						return err
					}
					filials, err := a.client.ListFilials(ctx)
					if err != nil {
						return err
					}
					in, ok := findFilial(filials, id)
					if !ok {
						return fmt.Errorf("filial %d: %w", id, ErrNotFound)
					}
					if editFlags.Changed("name") {
						in.Name = strings.TrimSpace(*editName)
					}
					if editFlags.Changed("location") {
						in.Location = strings.TrimSpace(*editLocation)
					}
					if err := required("name", in.Name); err != nil {
						return err
					}

					f, err := a.client.UpdateFilial(ctx, id, in)
					if err != nil {
						return err
					}
					o.Printf("Updated filial %d %s\n", f.ID, f.Name)
					return nil
				},
			},
			{
				Usage: "rm <id>",
				Short: "Delete a filial",
				Exec: func(ctx context.Context, o *IO, args []string) error {
					id, err := parseID(args)
					if err != nil {
						return err
					}
					if err := a.client.DeleteFilial(ctx, id); err != nil {
						return err
					}
					o.Printf("Deleted filial %d\n", id)
					return nil
				},
			},
		},
	}
}

func findFilial(filials []backend.Filial, id int64) (backend.FilialInput, bool) {
	for _, f := range filials {
		if f.ID == id {
			return backend.FilialInput{Name: f.Name, Location: f.Location}, true
		}
	}
	return backend.FilialInput{}, false
}

func (a *app) categoriesCmd() *Command {
	addFlags := flag.NewFlagSet("add", flag.ContinueOnError)
	addName := addFlags.String("name", "", "category name")

	editFlags := flag.NewFlagSet("edit", flag.ContinueOnError)
	editName := editFlags.String("name", "", "new name")

	return &Command{
		Usage: "categories <command>",
		Short: "Manage product categories",
		Subcommands: []*Command{
			{
				Usage: "ls",
				Short: "List categories",
				Exec: func(ctx context.Context, o *IO, _ []string) error {
					categories, err := a.client.ListCategories(ctx)
					if err != nil {
						return err
					}
					tw := o.Table()
					fmt.Fprintln(tw, "ID\tNAME")
					for _, c := range categories {
						fmt.Fprintf(tw, "%d\t%s\n", c.ID, c.Name)
					}
					return tw.Flush()
				},
			},
			{
				Flags: addFlags,
				Usage: "add --name <name>",
				Short: "Create a category",
				Exec: func(ctx context.Context, o *IO, _ []string) error {
					if err := required("name", *addName); err != nil {
						return err
					}
					c, err := a.client.CreateCategory(ctx, strings.TrimSpace(*addName))
					if err != nil {
						return err
					}
					o.Printf("Created category %d %s\n", c.ID, c.Name)
					return nil
				},
			},
			{
				Flags: editFlags,
				Usage: "edit <id> --name <name>",
				Short: "Rename a category",
				Exec: func(ctx context.Context, o *IO, args []string) error {
					id, err := parseID(args)
					if err != nil {
						return err
					}
					if err := required("name", *editName); err != nil {
						return err
					}
					c, err := a.client.UpdateCategory(ctx, id, strings.TrimSpace(*editName))
					if err != nil {
						return err
					}
					o.Printf("Updated category %d %s\n", c.ID, c.Name)
					return nil
				},
			},
			{
				Usage: "rm <id>",
				Short: "Delete a category",
				Exec: func(ctx context.Context, o *IO, args []string) error {
					id, err := parseID(args)
					if err != nil {
						return err
					}
					if err := a.client.DeleteCategory(ctx, id); err != nil {
						return err
					}
					o.Printf("Deleted category %d\n", id)
					return nil
				},
			},
		},
	}
}

func (a *app) productsCmd() *Command {
	lsFlags := flag.NewFlagSet("ls", flag.ContinueOnError)
	all := lsFlags.Bool("all", false, "include products of every filial")

	addFlags := flag.NewFlagSet("add", flag.ContinueOnError)
	addName := addFlags.String("name", "", "product name")
	addCategory := addFlags.Int64("category", 0, "category id")
	addFilials := addFlags.Int64Slice("filial", nil, "filial ids the product is sold in")

	editFlags := flag.NewFlagSet("edit", flag.ContinueOnError)
	editName := editFlags.String("name", "", "new name")
	editCategory := editFlags.Int64("category", 0, "new category id")
	editFilials := editFlags.Int64Slice("filial", nil, "replacement filial ids")

	return &Command{
		Usage: "products <command>",
		Short: "Manage products",
		Subcommands: []*Command{
			{
				Flags: lsFlags,
				Usage: "ls [--all]",
				Short: "List products",
				Exec: func(ctx context.Context, o *IO, _ []string) error {
					list := a.client.ListProducts
					if *all {
						list = a.client.ListAllProducts
					}
					products, err := list(ctx)
					if err != nil {
						return err
					}
					tw := o.Table()
					fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tFILIALS")
					for _, p := range products {
						fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Name, p.CategoryName, strings.Join(p.FilialNames, ", "))
					}
					return tw.Flush()
				},
			},
			{
				Flags: addFlags,
				Usage: "add --name <name> --category <id> [--filial <id>...]",
				Short: "Create a product",
				Exec: func(ctx context.Context, o *IO, _ []string) error {
					if err := required("name", *addName); err != nil {
						return err
					}
					if *addCategory <= 0 {
						return usageError{err: errors.New("--category is required")}
					}
					p, err := a.client.CreateProduct(ctx, backend.ProductInput{
						Name:       strings.TrimSpace(*addName),
						CategoryID: *addCategory,
						Filials:    nonNil(*addFilials),
					})
					if err != nil {
						return err
					}
					o.Printf("Created product %d %s\n", p.ID, p.Name)
					return nil
				},
			},
			{
				Flags: editFlags,
				Usage: "edit <id> [flags]",
				Short: "Change a product",
				Exec: func(ctx context.Context, o *IO, args []string) error {
					id, err := parseID(args)
					if err != nil {
						return err
					}
					products, err := a.client.ListAllProducts(ctx)
					if err != nil {
						return err
					}
					in, ok := findProduct(products, id)
					if !ok {
						return fmt.Errorf("product %d: %w", id, ErrNotFound)
					}
					if editFlags.Changed("name") {
						in.Name = strings.TrimSpace(*editName)
					}
					if editFlags.Changed("category") {
						in.CategoryID = *editCategory
					}
					if editFlags.Changed("filial") {
						in.Filials = nonNil(*editFilials)
					}
					if err := required("name", in.Name); err != nil {
						return err
					}

					p, err := a.client.UpdateProduct(ctx, id, in)
					if err != nil {
						return err
					}
					o.Printf("Updated product %d %s\n", p.ID, p.Name)
					return nil
				},
			},
			{
				Usage: "rm <id>",
				Short: "Delete a product",
				Exec: func(ctx context.Context, o *IO, args []string) error {
					id, err := parseID(args)
					if err != nil {
						return err
					}
					if err := a.client.DeleteProduct(ctx, id); err != nil {
						return err
					}
					o.Printf("Deleted product %d\n", id)
					return nil
				},
			},
		},
	}
}

func findProduct(products []backend.Product, id int64) (backend.ProductInput, bool) {
	for _, p := range products {
		if p.ID == id {
			return backend.ProductInput{Name: p.Name, CategoryID: p.CategoryID, Filials: nonNil(p.Filials)}, true
		}
	}
	return backend.ProductInput{}, false
}

// nonNil keeps "filials" a JSON array.
func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
