package http

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readEvent returns the event name and data line of the next SSE message.
func readEvent(t *testing.T, r *bufio.Reader) (string, string) {
	t.Helper()
	var name, data string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "":
			return name, data
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		}
	}
}

func TestEventsHandler_StreamDeliversUserEvents(t *testing.T) {
	hub := sse.NewHub()
	jwtService, err := jwt.NewJWTService("test-secret", "1h")
	require.NoError(t, err)
	h := NewEventsHandler(hub, jwtService)

	srv := httptest.NewServer(http.HandlerFunc(h.Stream))
	defer srv.Close()

	token, _, err := jwtService.GenerateSSEToken("alice", user.RoleEmployee)
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "?token=" + token)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	r := bufio.NewReader(resp.Body)
	name, data := readEvent(t, r)
	assert.Equal(t, "connected", name)
	assert.Contains(t, data, `"alice"`)

	assert.Equal(t, 0, hub.Publish("bob", sse.Event{UserID: "bob", Event: "attendance.clock_in", Data: map[string]string{"id": "x"}}))
	assert.Equal(t, 1, hub.Publish("alice", sse.Event{UserID: "alice", Event: "attendance.clock_in", Data: map[string]string{"id": "e1"}}))

	name, data = readEvent(t, r)
	assert.Equal(t, "attendance.clock_in", name)
	assert.JSONEq(t, `{"id":"e1"}`, data)
}
