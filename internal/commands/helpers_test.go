package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/AyloRyd/taskhub/internal/models"
)

const (
	sessionCookie = "taskhub_session"
	testPassword  = "secret123"
)

// fakeTaskHub is an in-memory TaskHub API
type fakeTaskHub struct {
	mu          sync.Mutex
	tasks       []models.Task
	attachments []models.Attachment
	nextID      int64
	expired     bool
	logouts     int
	listCalls   int
}

func (f *fakeTaskHub) setExpired(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expired = v
}

// snapshot returns copies of the server state
func (f *fakeTaskHub) snapshot() ([]models.Task, []models.Attachment, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Task(nil), f.tasks...), append([]models.Attachment(nil), f.attachments...), f.logouts
}

func (f *fakeTaskHub) seed(tasks ...models.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range tasks {
		f.tasks = append(f.tasks, t)
		if t.ID >= f.nextID {
			f.nextID = t.ID + 1
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// authed rejects requests without a live session cookie
func (f *fakeTaskHub) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		expired := f.expired
		f.mu.Unlock()

		c, err := r.Cookie(sessionCookie)
		if err != nil || c.Value != "tok" || expired {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized", "description": "You need to sign in"})
			return
		}
		next(w, r)
	}
}

func (f *fakeTaskHub) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	json.NewDecoder(r.Body).Decode(&body)
	if body.Password != testPassword {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized", "description": "Invalid credentials"})
		return
	}

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "tok", Path: "/", HttpOnly: true})
	writeJSON(w, http.StatusOK, map[string]any{"pid": "1", "name": "A", "is_verified": false, "role": "User"})
}

func (f *fakeTaskHub) current(w http.ResponseWriter, r *http.Request) {
	// is_verified left out on purpose
	writeJSON(w, http.StatusOK, map[string]any{"pid": "1", "name": "A", "email": "a@x.com", "role": "User"})
}

func (f *fakeTaskHub) logout(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.logouts++
	f.mu.Unlock()
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusOK)
}

func (f *fakeTaskHub) myTasks(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	writeJSON(w, http.StatusOK, f.tasks)
}

func (f *fakeTaskHub) create(w http.ResponseWriter, r *http.Request) {
	var task models.Task
	json.NewDecoder(r.Body).Decode(&task)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.nextID == 0 {
		f.nextID = 1
	}
	task.ID = f.nextID
	f.nextID++
	f.tasks = append(f.tasks, task)
	writeJSON(w, http.StatusCreated, task)
}

func (f *fakeTaskHub) search(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	defer f.mu.Unlock()
	matches := []models.Task{}
	for _, t := range f.tasks {
		if strings.Contains(strings.ToLower(t.Name), strings.ToLower(body.Name)) {
			matches = append(matches, t)
		}
	}
	writeJSON(w, http.StatusOK, matches)
}

func (f *fakeTaskHub) attach(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_request", "description": err.Error()})
		return
	}
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	a := models.Attachment{
		Type:   models.AttachmentType(r.FormValue("attachment_type")),
		Data:   r.FormValue("data"),
		TaskID: id,
	}

	f.mu.Lock()
	f.attachments = append(f.attachments, a)
	f.mu.Unlock()
	writeJSON(w, http.StatusCreated, a)
}

// testEnv is a fake API plus an isolated home and data directory
type testEnv struct {
	api   *fakeTaskHub
	flags []string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	f := &fakeTaskHub{nextID: 1}
	r := mux.NewRouter()
	r.HandleFunc("/auth/login", f.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/current", f.authed(f.current)).Methods(http.MethodGet)
	r.HandleFunc("/auth/logout", f.authed(f.logout)).Methods(http.MethodPost)
	r.HandleFunc("/user/tasks/me", f.authed(f.myTasks)).Methods(http.MethodGet)
	r.HandleFunc("/tasks", f.authed(f.create)).Methods(http.MethodPost)
	r.HandleFunc("/tasks/search", f.authed(f.search)).Methods(http.MethodPost)
	r.HandleFunc("/tasks/attachments/{id:[0-9]+}", f.authed(f.attach)).Methods(http.MethodPost)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{
		api:   f,
		flags: []string{"--api-url", srv.URL, "--data-dir", t.TempDir()},
	}
}

// run executes the command line against the env with empty stdin
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return e.runWithInput(t, "", args...)
}

func (e *testEnv) runWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(append(args, e.flags...))

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	if _, err := e.run(t, "login", "--email", "a@x.com", "--password", testPassword); err != nil {
		t.Fatalf("login failed: %v", err)
	}
}

// openTestApp wires an App against the env the way a command invocation would
func (e *testEnv) openTestApp(t *testing.T) *App {
	t.Helper()
	resetFlags(rootCmd)
	if err := rootCmd.PersistentFlags().Parse(e.flags); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	app, err := openApp(rootCmd, false)
	if err != nil {
		t.Fatalf("openApp failed: %v", err)
	}
	t.Cleanup(func() { app.Close() })
	return app
}

func (f *fakeTaskHub) myTasksCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

// resetFlags puts every flag back to its default; cobra keeps values
// between executions of the same command tree
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
