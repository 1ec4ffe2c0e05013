package server_test

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"userdata-server/core/database"
	"userdata-server/core/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func createUserDB(t *testing.T, n int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "user_data.db")

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE users (email TEXT, phone TEXT, qq TEXT)").Error)
	for i := 0; i < n; i++ {
		require.NoError(t, db.Exec(
			"INSERT INTO users (email, phone, qq) VALUES (?, ?, ?)",
			fmt.Sprintf("user%d@example.com", i), fmt.Sprintf("100%d", i), fmt.Sprintf("200%d", i),
		).Error)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	return path
}

// freePort grabs an ephemeral port and releases it for the engine to rebind.
func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func startEngine(t *testing.T, path string) *server.Engine {
	t.Helper()
	h, err := database.Open(path)
	require.NoError(t, err)

	cfg := server.Config{DBPath: path, Port: freePort(t), DrainTimeout: time.Second}
	eng, err := server.Start(cfg, h, nil, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Stop() })
	return eng
}

func get(t *testing.T, port int, route string) (int, string) {
	t.Helper()
	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d%s", port, route))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestEngine_BuiltinRoutes(t *testing.T) {
	eng := startEngine(t, createUserDB(t, 3))

	t.Run("Banner", func(t *testing.T) {
		status, body := get(t, eng.Port(), "/")
		assert.Equal(t, 200, status)
		assert.Equal(t, "User Data Server Running", body)
	})

	t.Run("Config", func(t *testing.T) {
		status, body := get(t, eng.Port(), "/config")
		assert.Equal(t, 200, status)
		assert.Contains(t, body, "db_path")
		assert.Contains(t, body, "port")
	})

	t.Run("Health", func(t *testing.T) {
		status, body := get(t, eng.Port(), "/health")
		assert.Equal(t, 200, status)
		assert.Contains(t, body, `"records":3`)
	})
}

func TestEngine_PortInUse(t *testing.T) {
	path := createUserDB(t, 0)

	// Hold the port ourselves so the bind must fail.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	h, err := database.Open(path)
	require.NoError(t, err)
	defer h.Close()

	eng, err := server.Start(server.Config{DBPath: path, Port: port}, h, nil, zap.NewNop())
	assert.Nil(t, eng)
	assert.ErrorIs(t, err, server.ErrPortInUse)

	// Handle stays usable: the engine takes no ownership on a failed start.
	_, err = h.HealthCheck(context.Background())
	assert.NoError(t, err)
}

func TestEngine_Stop(t *testing.T) {
	eng := startEngine(t, createUserDB(t, 1))
	port := eng.Port()

	require.NoError(t, eng.Stop())

	// Listener released.
	_, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/", port))
	assert.Error(t, err)

	// Second stop is a no-op.
	assert.NoError(t, eng.Stop())
}

func TestEngine_PostForm(t *testing.T) {
	// Without features loaded, unknown routes 404 rather than panic.
	eng := startEngine(t, createUserDB(t, 1))

	resp, err := http.Post(
		fmt.Sprintf("http://127.0.0.1:%d/query", eng.Port()),
		"application/x-www-form-urlencoded",
		strings.NewReader(url.Values{"phone": {"1000"}}.Encode()),
	)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 404, resp.StatusCode)
}
