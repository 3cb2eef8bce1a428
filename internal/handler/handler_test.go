package handler

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/society/internal/database"
	"github.com/dukerupert/society/internal/events"
	"github.com/dukerupert/society/internal/store"
)

var fixedNow = time.Date(2024, 1, 20, 10, 30, 0, 0, time.UTC)

type recorder struct{ got []events.Message }

func (r *recorder) Broadcast(msg events.Message) { r.got = append(r.got, msg) }

type testEnv struct {
	db           *sql.DB
	feed         *recorder
	houses       *HouseHandler
	members      *MemberHandler
	vehicles     *VehicleHandler
	payments     *PaymentHandler
	expenditures *ExpenditureHandler
	dashboard    *DashboardHandler
}

func setupHandlers(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	hs := store.NewHouseStore(db)
	ms := store.NewMemberStore(db)
	vs := store.NewVehicleStore(db)
	ps := store.NewPaymentStore(db)
	es := store.NewExpenditureStore(db)
	feed := &recorder{}
	logger := slog.Default()

	env := &testEnv{
		db:           db,
		feed:         feed,
		houses:       NewHouseHandler(hs, feed, 1000, logger),
		members:      NewMemberHandler(ms, feed, 1000, logger),
		vehicles:     NewVehicleHandler(vs, feed, 1000, logger),
		payments:     NewPaymentHandler(ps, hs, feed, 1000, logger),
		expenditures: NewExpenditureHandler(es, ps, feed, 1000, logger),
		dashboard:    NewDashboardHandler(hs, ms, vs, ps, es, 1000, logger),
	}
	clock := func() time.Time { return fixedNow }
	env.payments.now = clock
	env.dashboard.now = clock
	return env
}

// call invokes h directly; id, when non-empty, is set as the {id} path value.
func call(h http.HandlerFunc, method, target, id, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if id != "" {
		req.SetPathValue("id", id)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, kind string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["kind"] != kind {
		t.Errorf("kind = %q, want %q", body["kind"], kind)
	}
	if body["error"] == "" {
		t.Error("expected error message")
	}
}

func jsonID(id int64) string { return strconv.FormatInt(id, 10) }
