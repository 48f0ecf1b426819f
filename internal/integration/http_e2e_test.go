//go:build integration || !unit

package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/rs/zerolog"

	"hotel_console/internal/adapters/hotelapi"
	server "hotel_console/internal/adapters/http_server"
	redisad "hotel_console/internal/adapters/redis"
	"hotel_console/internal/app"
	"hotel_console/internal/domain"
	"hotel_console/internal/form"
	mysqlrepo "hotel_console/internal/storage/mysql"
)

// ---------- helpers ----------

func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir()

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest unavailable: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not reachable: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env:        []string{"MYSQL_ROOT_PASSWORD=root", "MYSQL_DATABASE=hotels"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/hotels?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

type firedTimer struct{}

func (firedTimer) Stop() bool { return false }

// immediate runs the post-save navigation right away.
type immediate struct{}

func (immediate) AfterFunc(_ time.Duration, f func()) form.Timer { f(); return firedTimer{} }

// ---------- the test ----------

// The form drives the real API, which writes through MySQL and caches in redis.
func TestHTTP_EndToEnd_HotelForm(t *testing.T) {
	db := startMySQL(t)
	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0, "e2e:")
	t.Cleanup(func() { _ = cache.Close() })

	srv := server.New(zerolog.Nop())
	srv.MountHandlers(&server.Handlers{S: app.NewHotelService(mysqlrepo.New(db), cache, time.Minute)})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	client, err := hotelapi.New(ts.URL+"/api", 50)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	ctx := context.Background()

	// create through the form
	navigated := 0
	c := form.New(client, 0, form.WithScheduler(immediate{}), form.WithNavigator(func() { navigated++ }))
	for f, v := range map[string]string{"name": "Hotel E2E", "address": "Calle 1", "city": "Medellin", "nit": "800-1", "max_rooms": "30"} {
		if err := c.Change(f, v); err != nil {
			t.Fatalf("change %s: %v", f, err)
		}
	}
	k := c.AppendRoom()
	_ = c.ChangeRoom(k, domain.RoomFieldType, "Junior")
	_ = c.ChangeRoom(k, domain.RoomFieldAccommodation, "Cuadruple")
	_ = c.ChangeRoom(k, domain.RoomFieldQuantity, "10")

	if out := c.Submit(ctx); out != form.OutcomeSucceeded {
		t.Fatalf("create outcome = %s alert=%+v", out, c.Alert())
	}
	if navigated != 1 {
		t.Fatalf("navigated %d times", navigated)
	}

	list, err := client.ListHotels(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %+v %v", list, err)
	}
	id := list[0].ID

	// same NIT again: the server's 422 lands on the nit field
	dup := form.New(client, 0, form.WithScheduler(immediate{}))
	for f, v := range map[string]string{"name": "Otro", "address": "Calle 2", "city": "Cali", "nit": "800-1", "max_rooms": "5"} {
		_ = dup.Change(f, v)
	}
	if out := dup.Submit(ctx); out != form.OutcomeRejected || dup.Errors().Get("nit") != app.MsgNITTaken {
		t.Fatalf("dup outcome=%s errors=%v", out, dup.Errors())
	}

	// edit: load, change, save
	edit := form.Mount(ctx, client, id, form.WithScheduler(immediate{}))
	if edit.State() != form.StateIdle || edit.Draft().Rooms[0].Accommodation != domain.AccommodationCuadruple {
		t.Fatalf("edit load: state=%s draft=%+v", edit.State(), edit.Draft())
	}
	_ = edit.Change("city", "Envigado")
	if out := edit.Submit(ctx); out != form.OutcomeSucceeded {
		t.Fatalf("update outcome = %s alert=%+v", out, edit.Alert())
	}
	h, err := client.FetchHotel(ctx, id)
	if err != nil || h.City != "Envigado" || len(h.Rooms) != 1 {
		t.Fatalf("after update: %+v %v", h, err)
	}

	if err := client.DeleteHotel(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := client.FetchHotel(ctx, id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("fetch after delete err = %v", err)
	}

	// loading a deleted hotel leaves the form in LoadFailed with a danger alert
	gone := form.Mount(ctx, client, id)
	if gone.State() != form.StateLoadFailed || gone.Alert() == nil || gone.Alert().Severity != form.SeverityDanger {
		t.Fatalf("load deleted: state=%s alert=%+v", gone.State(), gone.Alert())
	}
}
