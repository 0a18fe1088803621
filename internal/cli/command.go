package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command is a single adminctl command, or a group when Subcommands is set.
type Command struct {
	// Flags may be nil for commands without flags.
	Flags *flag.FlagSet

	// Usage starts with the command name, e.g. "edit <id> [flags]".
	Usage string

	Short string
	Long  string

	Exec func(ctx context.Context, o *IO, args []string) error

	Subcommands []*Command
}

// Name returns the first word of Usage.
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")
	return name
}

func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-26s %s", c.Usage, c.Short)
}

// PrintHelp prints the help for "adminctl <parent> <cmd> --help".
func (c *Command) PrintHelp(o *IO, parent string) {
	o.Println("Usage:", strings.TrimSpace(parent+" "+c.Usage))
	o.Println()

	desc := c.Long
	if desc == "" {
		desc = c.Short
	}
	o.Println(desc)

	if len(c.Subcommands) > 0 {
		o.Println()
		o.Println("Commands:")
		for _, sub := range c.Subcommands {
			o.Println(sub.HelpLine())
		}
	}

	if c.Flags != nil && c.Flags.HasFlags() {
		o.Println()
		o.Println("Flags:")

		var buf strings.Builder
		c.Flags.SetOutput(&buf)
		c.Flags.PrintDefaults()
		o.Printf("%s", buf.String())
	}
}

// Run parses flags and executes the command, or dispatches to a subcommand.
func (c *Command) Run(ctx context.Context, o *IO, parent string, args []string) error {
	if len(c.Subcommands) > 0 {
		return c.dispatch(ctx, o, parent, args)
	}

	fs := c.Flags
	if fs == nil {
		fs = flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	}
	fs.SetOutput(&strings.Builder{})

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			c.PrintHelp(o, parent)
			return nil
		}
		return usageError{err: err}
	}
	return c.Exec(ctx, o, fs.Args())
}

func (c *Command) dispatch(ctx context.Context, o *IO, parent string, args []string) error {
	path := strings.TrimSpace(parent + " " + c.Name())

	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		c.PrintHelp(o, parent)
		return nil
	}

	for _, sub := range c.Subcommands {
		if sub.Name() == args[0] {
			return sub.Run(ctx, o, path, args[1:])
		}
	}
	return usageError{err: fmt.Errorf("unknown command: %s %s", path, args[0])}
}

// usageError marks mistakes in the command line itself.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }
