package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/AyloRyd/taskhub/internal/api"
	"github.com/AyloRyd/taskhub/internal/bindings"
	"github.com/AyloRyd/taskhub/internal/config"
	"github.com/AyloRyd/taskhub/internal/db"
	"github.com/AyloRyd/taskhub/internal/models"
	"github.com/AyloRyd/taskhub/internal/query"
	"github.com/AyloRyd/taskhub/internal/session"
	"github.com/AyloRyd/taskhub/internal/tui"
)

// App is everything a command needs, wired once per invocation
type App struct {
	Config  *config.Config
	Store   *db.Store
	Session *session.Store
	Jar     *api.PersistentJar
	Cache   *query.Cache
	Auth    *bindings.Auth
	Tasks   *bindings.Tasks
	Logger  *log.Logger

	unsubscribe func()
}

// openApp loads config, opens the local database and builds the API stack.
// With resetCorrupt a session that cannot be decoded is wiped instead of
// failing the command.
func openApp(cmd *cobra.Command, resetCorrupt bool) (*App, error) {
	logger := log.New(io.Discard, "", 0)
	if verboseFlag {
		logger = log.New(cmd.ErrOrStderr(), "taskhub: ", log.LstdFlags)
	}

	cfg, err := config.Load(config.Overrides{APIURL: apiURLFlag, DataDir: dataDirFlag})
	if err != nil {
		return nil, err
	}

	store, err := db.Open(db.DatabasePath(cfg.DataDir), db.Options{Verbose: verboseFlag})
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, Store: store, Logger: logger}
	if err := app.wire(resetCorrupt); err != nil {
		store.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) wire(resetCorrupt bool) error {
	sess, err := session.Load(a.Store)
	if errors.Is(err, session.ErrCorruptState) && resetCorrupt {
		a.Logger.Printf("resetting corrupt session: %v", err)
		if err := session.Reset(a.Store); err != nil {
			return err
		}
		sess, err = session.Load(a.Store)
	}
	if err != nil {
		return err
	}
	a.Session = sess

	jar, err := api.NewPersistentJar(a.Store, a.Logger)
	if err != nil {
		return err
	}
	a.Jar = jar
	a.Cache = query.NewCache(0)

	// Signing out anywhere drops the session cookie and every cached query
	a.unsubscribe = sess.Subscribe(func(state session.State) {
		if state.IsAuthenticated {
			return
		}
		if err := jar.Clear(); err != nil {
			a.Logger.Printf("failed to clear cookies: %v", err)
		}
		a.Cache.Clear()
	})

	userAgent := "taskhub/" + version
	public, err := api.New(a.Config.APIURL,
		api.WithTimeout(a.Config.Timeout),
		api.WithLogger(a.Logger),
		api.WithUserAgent(userAgent),
	)
	if err != nil {
		return err
	}
	credentialed, err := api.New(a.Config.APIURL,
		api.WithJar(jar),
		api.WithTimeout(a.Config.Timeout),
		api.WithInterceptor(api.NewSessionInterceptor(sess, a.Logger)),
		api.WithLogger(a.Logger),
		api.WithUserAgent(userAgent),
	)
	if err != nil {
		return err
	}

	a.Auth = bindings.NewAuth(api.NewAuthService(public, credentialed), sess, a.Cache)
	a.Tasks = bindings.NewTasks(api.NewTaskService(credentialed), a.Cache)
	return nil
}

// Close releases the database
func (a *App) Close() error {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	return a.Store.Close()
}

// Shimmer returns the TUI animation settings
func (a *App) Shimmer() tui.ShimmerConfig {
	return tui.ShimmerConfigFor(a.Config.Animations)
}

// requireSignedIn fails fast for commands that only make sense with a session
func (a *App) requireSignedIn() error {
	if !a.Session.IsAuthenticated() {
		return bindings.ErrSignedOut
	}
	return nil
}

// withApp wraps a command function to open the app first
func withApp(fn func(cmd *cobra.Command, args []string, app *App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd, false)
		if err != nil {
			return err
		}
		defer app.Close()
		return fn(cmd, args, app)
	}
}

// taskSource feeds the task browser from the bindings. An empty pid lists
// the signed-in user's own tasks.
type taskSource struct {
	*bindings.Tasks
	pid string
}

func (s taskSource) List(ctx context.Context) ([]models.Task, error) {
	if s.pid == "" {
		return s.MyTasks(ctx)
	}
	return s.UserTasks(ctx, s.pid)
}

// runForm runs a TUI form and prints its outcome
func runForm(cmd *cobra.Command, app *App, title string, fields []tui.Field, submit tui.SubmitFunc) error {
	m, err := tui.RunForm(title, fields, submit, app.Shimmer())
	if err != nil {
		return fmt.Errorf("failed to run form: %w", err)
	}

	switch {
	case m.Completed():
		fmt.Fprintln(cmd.OutOrStdout(), m.Message())
		return nil
	case m.Err() != nil:
		return m.Err()
	default:
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
		return nil
	}
}
