package sqlite

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// openTestConn opens a migrated in-memory database unique to the test.
func openTestConn(t *testing.T, opts ...Option) *Conn {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := Open(context.Background(), Config{
		Path:        fmt.Sprintf("file:test_%s?mode=memory&cache=shared", name),
		AutoMigrate: true,
	})
	require.NoError(t, err)

	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	conn := NewConn(db, opts...)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}
