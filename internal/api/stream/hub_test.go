package stream

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pegjump/internal/model"
	"github.com/mcoot/pegjump/internal/services/session"
	"github.com/mcoot/pegjump/internal/testutil"
)

type HubSuite struct {
	suite.Suite
	hub    *Hub
	server *httptest.Server
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(HubSuite))
}

func (s *HubSuite) SetupTest() {
	s.hub = NewHub(testutil.NopLogger())
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(w, r, s.hub, model.SessionID(r.URL.Query().Get("session")))
	}))
}

func (s *HubSuite) TearDownTest() {
	s.hub.Close()
	s.server.Close()
}

func (s *HubSuite) dial(id model.SessionID) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "?session=" + string(id)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = conn.Close() })

	s.Require().Eventually(func() bool {
		return s.hub.ClientCount(id) > 0
	}, time.Second, 10*time.Millisecond)
	return conn
}

func (s *HubSuite) readEvent(conn *websocket.Conn) map[string]any {
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	s.Require().NoError(err)

	var msg map[string]any
	s.Require().NoError(json.Unmarshal(data, &msg))
	return msg
}

func (s *HubSuite) TestEventsReachSessionClients() {
	conn := s.dial("session-1")

	s.hub.HandleUpdate(session.Update{
		Session: &model.Session{ID: "session-1"},
		Events: []model.Event{{
			Type:      model.EventPanned,
			SessionID: "session-1",
			Payload:   model.PannedPayload{From: 18, To: 13},
		}},
	})

	msg := s.readEvent(conn)
	s.Equal("panned", msg["type"])
	s.Equal("session-1", msg["session_id"])
	payload := msg["payload"].(map[string]any)
	s.Equal(float64(13), payload["to"])
}

func (s *HubSuite) TestEventsAreScopedToSession() {
	other := s.dial("session-2")
	mine := s.dial("session-1")

	s.hub.Send("session-1", []byte(`{"type":"reset"}`))
	s.Equal("reset", s.readEvent(mine)["type"])

	_ = other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err := other.ReadMessage()
	s.Error(err)
}

func (s *HubSuite) TestSessionEndedDisconnectsClients() {
	conn := s.dial("session-1")

	s.hub.HandleUpdate(session.Update{
		Session: &model.Session{ID: "session-1"},
		Events:  []model.Event{{Type: model.EventSessionEnded, SessionID: "session-1"}},
	})

	s.Equal("session_ended", s.readEvent(conn)["type"])

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	s.True(websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	s.Zero(s.hub.ClientCount("session-1"))
}

func (s *HubSuite) TestClientDisconnectUnregisters() {
	conn := s.dial("session-1")
	s.Require().NoError(conn.Close())

	s.Eventually(func() bool {
		return s.hub.ClientCount("session-1") == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func (s *HubSuite) TestUnregisterTwiceIsSafe() {
	client := NewClient("session-1")
	s.hub.Register(client)

	s.hub.Unregister(client)
	s.hub.Unregister(client)
	s.Zero(s.hub.ClientCount("session-1"))
}
