package users

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestApp wires the feature against a real temp sqlite database.
func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	path := filepath.Join(t.TempDir(), "user_data.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	require.NoError(t, db.Exec("CREATE TABLE users (email TEXT, phone TEXT, qq TEXT)").Error)
	seed := [][3]any{
		{"alice@example.com", "13800000001", "10001"},
		{"bob@example.com", "13800000002", "10002"},
		{nil, "13800000002", "10003"},
	}
	for _, row := range seed {
		require.NoError(t, db.Exec("INSERT INTO users (email, phone, qq) VALUES (?, ?, ?)", row[0], row[1], row[2]).Error)
	}

	app := fiber.New()
	require.NoError(t, NewFeature(db, zap.NewNop()).Load(app))
	return app
}

func postForm(t *testing.T, app *fiber.App, route string, form url.Values) (int, string) {
	t.Helper()
	req := httptest.NewRequest("POST", route, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestHandleQuery(t *testing.T) {
	app := setupTestApp(t)

	t.Run("By Email", func(t *testing.T) {
		status, body := postForm(t, app, "/query", url.Values{"email": {"alice@example.com"}})
		require.Equal(t, 200, status)

		var results []UserInfo
		require.NoError(t, json.Unmarshal([]byte(body), &results))
		require.Len(t, results, 1)
		assert.Equal(t, "13800000001", *results[0].Phone)
	})

	t.Run("By Phone Multiple Matches", func(t *testing.T) {
		status, body := postForm(t, app, "/query", url.Values{"phone": {"13800000002"}})
		require.Equal(t, 200, status)

		var results []UserInfo
		require.NoError(t, json.Unmarshal([]byte(body), &results))
		assert.Len(t, results, 2)
	})

	t.Run("Phone Wins Over Email", func(t *testing.T) {
		status, body := postForm(t, app, "/query", url.Values{
			"phone": {"13800000001"},
			"email": {"bob@example.com"},
		})
		require.Equal(t, 200, status)

		var results []UserInfo
		require.NoError(t, json.Unmarshal([]byte(body), &results))
		require.Len(t, results, 1)
		assert.Equal(t, "alice@example.com", *results[0].Email)
	})

	t.Run("No Match Is Empty Array", func(t *testing.T) {
		status, body := postForm(t, app, "/query", url.Values{"qq": {"99999"}})
		require.Equal(t, 200, status)
		assert.Equal(t, "[]", body)
	})

	t.Run("No Criteria", func(t *testing.T) {
		status, _ := postForm(t, app, "/query", url.Values{})
		assert.Equal(t, 400, status)
	})
}

func TestHandleStats(t *testing.T) {
	app := setupTestApp(t)

	status, body := postForm(t, app, "/stats", url.Values{})
	require.Equal(t, 200, status)
	assert.Contains(t, body, "Database Statistics")
	assert.Contains(t, body, "Total Records: 3")
	assert.Contains(t, body, "Unique Phones: 2")
	assert.Contains(t, body, "Unique Emails: 2")
}
