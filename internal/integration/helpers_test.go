package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
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
	"expiresAt": {},
	"id":        {},
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

// seedBaseData populates one user, a movie shown on a three by three screen
// and category prices for the show. Bookings build on top of this fixture.
func seedBaseData(t testing.TB, app *TestApp) {
	t.Helper()

	ctx := context.Background()

	statements := []string{
		fmt.Sprintf(`INSERT INTO users (id, first_name, last_name, email)
			VALUES (%d, '%s', '%s', '%s') ON CONFLICT DO NOTHING`,
			TestUserId, TestUserFirstName, TestUserLastName, TestUserEmail),
		fmt.Sprintf(`INSERT INTO movies (id, title, language, runtime)
			VALUES (1, '%s', '%s', %d) ON CONFLICT DO NOTHING`,
			TestMovieTitle, TestMovieLanguage, TestMovieRuntime),
		fmt.Sprintf(`INSERT INTO theatres (id, name, city)
			VALUES (1, '%s', '%s') ON CONFLICT DO NOTHING`,
			TestTheatreName, TestTheatreCity),
		fmt.Sprintf(`INSERT INTO screens (id, theatre_id, name)
			VALUES (1, 1, '%s') ON CONFLICT DO NOTHING`, TestScreenName),
		`INSERT INTO seats (id, screen_id, seat_row, seat_col, category)
			SELECT n, 1, (n - 1) / 3 + 1, (n - 1) % 3 + 1,
				CASE WHEN n > 6 THEN 'VIP' ELSE 'STANDARD' END
			FROM generate_series(1, 9) AS n
			ON CONFLICT DO NOTHING`,
		fmt.Sprintf(`INSERT INTO shows (id, movie_id, screen_id, start_time)
			VALUES (%d, 1, 1, NOW() + INTERVAL '1 day') ON CONFLICT DO NOTHING`, TestShowId),
		fmt.Sprintf(`INSERT INTO show_seats (show_id, seat_id)
			SELECT %d, id FROM seats WHERE screen_id = 1
			ON CONFLICT DO NOTHING`, TestShowId),
		fmt.Sprintf(`INSERT INTO show_seat_prices (show_id, category, price)
			VALUES (%d, 'STANDARD', %d), (%d, 'VIP', %d) ON CONFLICT DO NOTHING`,
			TestShowId, TestStandardPrice, TestShowId, TestVIPPrice),
	}

	for _, stmt := range statements {
		_, err := app.DB.Exec(ctx, stmt)
		require.NoError(t, err)
	}
}

// resetBookings clears booking state and returns every show seat to
// AVAILABLE so scenarios start from a clean ledger.
func resetBookings(t testing.TB, app *TestApp) {
	t.Helper()

	ctx := context.Background()

	statements := []string{
		`DELETE FROM payments`,
		`DELETE FROM booking_seats`,
		`DELETE FROM bookings`,
		`UPDATE show_seats SET status = 'AVAILABLE', held_by = NULL`,
	}

	for _, stmt := range statements {
		_, err := app.DB.Exec(ctx, stmt)
		require.NoError(t, err)
	}
}

func seatStatus(t testing.TB, app *TestApp, showId, seatId int) string {
	t.Helper()

	var status string
	err := app.DB.QueryRow(
		context.Background(),
		`SELECT status FROM show_seats WHERE show_id = $1 AND seat_id = $2`,
		showId, seatId,
	).Scan(&status)
	require.NoError(t, err)

	return status
}

func bookingStatus(t testing.TB, app *TestApp, bookingId string) string {
	t.Helper()

	var status string
	err := app.DB.QueryRow(
		context.Background(),
		`SELECT status FROM bookings WHERE id = $1`,
		bookingId,
	).Scan(&status)
	require.NoError(t, err)

	return status
}
