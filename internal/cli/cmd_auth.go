package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/dejobratic/restoadmin/internal/backend"
	"github.com/dejobratic/restoadmin/internal/session"
)

var ErrNotLoggedIn = errors.New("not logged in")

func (a *app) loginCmd() *Command {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	phone := fs.StringP("phone", "p", "", "phone number (prompted when empty)")

	return &Command{
		Flags: fs,
		Usage: "login [--phone <phone>]",
		Short: "Log in and save the session",
		Long: "Log in with a phone number and password. The password is read from\n" +
			"BACKEND_PASSWORD or prompted for. The token is saved to the session file.",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			creds := backend.Credentials{Phone: *phone, Password: a.cfg.Backend.Password}
			if creds.Phone == "" {
				creds.Phone = a.cfg.Backend.Phone
			}

			var err error
			if creds.Phone == "" {
				if creds.Phone, err = a.prompter.Prompt("Telefon: "); err != nil {
					return err
				}
			}
			if creds.Password == "" {
				if creds.Password, err = a.prompter.Password("Parol: "); err != nil {
					return err
				}
			}
			creds.Phone = strings.TrimSpace(creds.Phone)
			if creds.Phone == "" || creds.Password == "" {
				return usageError{err: errors.New("phone and password are required")}
			}

			res, err := a.client.Login(ctx, creds)
			if err != nil {
				return err
			}
			if err := a.sessions.Save(ctx, session.Session{Token: res.Token, User: res.User}); err != nil {
				return err
			}

			o.Printf("Logged in as %s (%s)\n", res.User.Name, role(res.User))
			return nil
		},
	}
}

func (a *app) registerCmd() *Command {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	name := fs.String("name", "", "full name")
	phone := fs.String("phone", "", "phone number")

	return &Command{
		Flags: fs,
		Usage: "register --name <name> --phone <phone>",
		Short: "Create a staff account",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			if strings.TrimSpace(*name) == "" || strings.TrimSpace(*phone) == "" {
				return usageError{err: errors.New("--name and --phone are required")}
			}

			password, err := a.prompter.Password("Parol: ")
			if err != nil {
				return err
			}
			confirm, err := a.prompter.Password("Parolni tasdiqlang: ")
			if err != nil {
				return err
			}
			if password == "" || password != confirm {
				return errors.New("passwords do not match")
			}

			user, err := a.client.Register(ctx, backend.Registration{
				Name:     strings.TrimSpace(*name),
				Phone:    strings.TrimSpace(*phone),
				Password: password,
			})
			if err != nil {
				return err
			}

			o.Printf("Registered user %d %s\n", user.ID, user.Name)
			return nil
		},
	}
}

func (a *app) logoutCmd() *Command {
	return &Command{
		Usage: "logout",
		Short: "Forget the saved session",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			if err := a.sessions.Clear(ctx); err != nil {
				return err
			}
			o.Println("Logged out")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *Command {
	return &Command{
		Usage: "whoami",
		Short: "Show the logged-in user",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			s, err := a.sessions.Load(ctx)
			if errors.Is(err, session.ErrNoSession) {
				return ErrNotLoggedIn
			}
			if err != nil {
				return err
			}

			tw := o.Table()
			fmt.Fprintf(tw, "id:\t%d\n", s.User.ID)
			fmt.Fprintf(tw, "name:\t%s\n", s.User.Name)
			fmt.Fprintf(tw, "phone:\t%s\n", s.User.Phone)
			fmt.Fprintf(tw, "role:\t%s\n", role(s.User))
			if s.User.Filial != nil {
				fmt.Fprintf(tw, "filial:\t%s\n", s.User.Filial.Name)
			}
			return tw.Flush()
		},
	}
}

func role(u backend.User) string {
	if u.IsAdmin {
		return "admin"
	}
	return "staff"
}
