package cli

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"
)

func (a *app) usersCmd() *Command {
	assignFlags := flag.NewFlagSet("assign", flag.ContinueOnError)
	filial := assignFlags.Int64("filial", 0, "filial id")

	return &Command{
		Usage: "users <command>",
		Short: "Manage staff accounts",
		Subcommands: []*Command{
			{
				Usage: "ls",
				Short: "List users",
				Exec: func(ctx context.Context, o *IO, _ []string) error {
					users, err := a.client.ListUsers(ctx)
					if err != nil {
						return err
					}
					tw := o.Table()
					fmt.Fprintln(tw, "ID\tNAME\tPHONE\tROLE\tFILIAL")
					for _, u := range users {
						filialName := "-"
						if u.Filial != nil {
							filialName = u.Filial.Name
						}
						fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Phone, role(u), filialName)
					}
					return tw.Flush()
				},
			},
			{
				Flags: assignFlags,
				Usage: "assign <user-id> --filial <id>",
				Short: "Bind a user to a filial",
				Exec: func(ctx context.Context, o *IO, args []string) error {
					id, err := parseID(args)
					if err != nil {
						return err
					}
					if *filial <= 0 {
						return usageError{err: errors.New("--filial is required")}
					}
					u, err := a.client.AssignFilial(ctx, id, *filial)
					if err != nil {
						return err
					}
					o.Printf("Assigned %s to filial %d\n", u.Name, *filial)
					return nil
				},
			},
			{
				Usage: "rm <id>",
				Short: "Delete a user",
				Exec: func(ctx context.Context, o *IO, args []string) error {
					id, err := parseID(args)
					if err != nil {
						return err
					}
					if err := a.client.DeleteUser(ctx, id); err != nil {
						return err
					}
					o.Printf("Deleted user %d\n", id)
					return nil
				},
			},
		},
	}
}
