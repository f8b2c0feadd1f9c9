package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

var keysToIgnore = map[string]struct{}{
	"timestamp": {},
	"requestId": {},
	"createdAt": {},
	"orderId":   {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

func doRequest(app *TestApp, req *http.Request) *http.Response {
	rec := httptest.NewRecorder()
	app.App.Routes().ServeHTTP(rec, req)
	return rec.Result()
}

func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indetermistic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ok := keysToIgnore[k]
		return ok
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}
		if nested, ok := m[k].(map[string]any); ok {
			cleanMap(nested)
		}
	}
}

// seedCatalog inserts one movie, one theater, one show and four seats, and
// returns the show ID. IDs restart from 1 after each resetTables call.
func seedCatalog(t testing.TB, app *TestApp) int {
	ctx := context.Background()

	_, err := app.DB.Exec(ctx, `
		INSERT INTO movies (title, genre, language, duration_mins)
		VALUES ('Inception', 'Sci-Fi', 'English', 148)
	`)
	require.NoError(t, err)

	_, err = app.DB.Exec(ctx, `
		INSERT INTO theaters (name, city)
		VALUES ('Galaxy Cinema', 'Mumbai')
	`)
	require.NoError(t, err)

	var showID int
	err = app.DB.QueryRow(ctx, `
		INSERT INTO shows (movie_id, theater_id, timing, available_seats)
		VALUES (1, 1, '18:30', 4)
		RETURNING show_id
	`).Scan(&showID)
	require.NoError(t, err)

	_, err = app.DB.Exec(ctx, `
		INSERT INTO seats (show_id, seat_number)
		VALUES ($1, 'A1'), ($1, 'A2'), ($1, 'A3'), ($1, 'A4')
	`, showID)
	require.NoError(t, err)

	return showID
}

func resetTables(t testing.TB, app *TestApp) {
	ctx := context.Background()

	_, err := app.DB.Exec(ctx, `
		TRUNCATE movies, theaters, shows, seats, bookings, payment_orders
		RESTART IDENTITY CASCADE
	`)
	require.NoError(t, err)

	require.NoError(t, app.Redis.FlushAll(ctx).Err())
}
