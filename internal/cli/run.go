package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/dejobratic/restoadmin/internal/backend"
	"github.com/dejobratic/restoadmin/internal/config"
	"github.com/dejobratic/restoadmin/internal/session"
	"github.com/dejobratic/restoadmin/internal/telemetry"
)

const program = "adminctl"

// Env is everything Run needs from the outside world. Zero fields fall back
// to the real terminal, clock and network.
type Env struct {
	Stdout     io.Writer
	Stderr     io.Writer
	Prompter   Prompter
	Now        func() time.Time
	HTTPClient *http.Client
}

// app is shared by every command of one invocation.
type app struct {
	cfg      *config.Config
	client   *backend.Client
	sessions session.Store
	prompter Prompter
	now      func() time.Time
	loc      *time.Location
}

// Run executes adminctl with args (including the program name) and returns
// the exit code.
func Run(ctx context.Context, env Env, args []string) int {
	o := NewIO(env.Stdout, env.Stderr)

	global := flag.NewFlagSet(program, flag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(io.Discard)
	configPath := global.StringP("config", "c", "", "JSONC config file")
	backendURL := global.String("backend", "", "backend base URL (overrides config)")
	sessionPath := global.String("session", "", "session file")
	logLevel := global.String("log-level", "warn", "log level for diagnostics on stderr")
	help := global.BoolP("help", "h", false, "show help")

	if len(args) > 0 {
		args = args[1:]
	}
	if err := global.Parse(args); err != nil {
		o.ErrPrintln("error:", err)
		return 1
	}

	rest := global.Args()
	if *help || len(rest) == 0 {
		printUsage(o, global)
		return 0
	}

	a, err := newApp(env, *configPath, *backendURL, *sessionPath, *logLevel)
	if err != nil {
		o.ErrPrintln("error:", err)
		return 1
	}

	commands := a.commands()
	var cmd *Command
	for _, c := range commands {
		if c.Name() == rest[0] {
			cmd = c
			break
		}
	}
	if cmd == nil {
		o.ErrPrintln("error: unknown command:", rest[0])
		printUsage(o, global)
		return 1
	}

	if err := cmd.Run(ctx, o, program, rest[1:]); err != nil {
		return a.fail(ctx, o, err)
	}
	return 0
}

func newApp(env Env, configPath, backendURL, sessionPath, logLevel string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	level, err := telemetry.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	logger := telemetry.NewLogger(env.Stderr, level, slog.String("component", program))

	loc, err := cfg.Orders.Location()
	if err != nil {
		return nil, err
	}

	if sessionPath == "" {
		sessionPath = cfg.CLI.SessionPath
	}
	if sessionPath == "" {
		sessionPath = session.DefaultPath()
	}
	sessions := session.NewFileStore(sessionPath)

	if backendURL == "" {
		backendURL = cfg.Backend.URL
	}
	var tokens backend.TokenSource = session.TokenSource(sessions)
	if cfg.Backend.Token != "" {
		tokens = backend.StaticToken(cfg.Backend.Token)
	}

	opts := []backend.Option{
		backend.WithTokenSource(tokens),
		backend.WithLogger(logger),
		backend.WithTimeout(cfg.Backend.Timeout()),
	}
	if env.HTTPClient != nil {
		opts = append(opts, backend.WithHTTPClient(env.HTTPClient))
	}
	client, err := backend.NewClient(strings.TrimSuffix(backendURL, "/"), opts...)
	if err != nil {
		return nil, err
	}

	prompter := env.Prompter
	if prompter == nil {
		prompter = terminalPrompter{}
	}
	now := env.Now
	if now == nil {
		now = time.Now
	}

	return &app{
		cfg:      cfg,
		client:   client,
		sessions: sessions,
		prompter: prompter,
		now:      now,
		loc:      loc,
	}, nil
}

func (a *app) commands() []*Command {
	return []*Command{
		a.loginCmd(),
		a.registerCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.ordersCmd(),
		a.dashboardCmd(),
		a.orderCreateCmd(),
		a.filialsCmd(),
		a.categoriesCmd(),
		a.productsCmd(),
		a.usersCmd(),
	}
}

// fail reports err and picks the exit code. A rejected token drops the saved
// session so the next command does not reuse it.
func (a *app) fail(ctx context.Context, o *IO, err error) int {
	var usage usageError
	switch {
	case errors.As(err, &usage):
		o.ErrPrintln("error:", usage.err)
		return 2
	case errors.Is(err, backend.ErrUnauthorized):
		if clearErr := a.sessions.Clear(ctx); clearErr != nil {
			o.ErrPrintln("error:", clearErr)
		}
		o.ErrPrintln("error: not logged in or session expired, run", program, "login")
		return 1
	case errors.Is(err, ErrAborted):
		o.ErrPrintln("aborted")
		return 130
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		o.ErrPrintln("error:", apiErr.Message)
		return 1
	}
	o.ErrPrintln("error:", err)
	return 1
}

// clock is the operator's current instant in the configured timezone.
func (a *app) clock() time.Time {
	return a.now().In(a.loc)
}

func printUsage(o *IO, global *flag.FlagSet) {
	o.Println("Usage:", program, "[global flags] <command> [args]")
	o.Println()
	o.Println("Restaurant admin console for the ordering backend.")
	o.Println()
	o.Println("Commands:")

	var stub app
	for _, c := range stub.commands() {
		o.Println(c.HelpLine())
	}

	o.Println()
	o.Println("Global flags:")
	var buf strings.Builder
	global.SetOutput(&buf)
	global.PrintDefaults()
	o.Printf("%s", buf.String())
	o.Println()
	o.Printf("Run '%s <command> --help' for details.\n", program)
}
