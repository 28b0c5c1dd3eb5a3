package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/pegjump/internal/api"
	"github.com/mcoot/pegjump/internal/api/apierr"
	"github.com/mcoot/pegjump/internal/api/response"
	"github.com/mcoot/pegjump/internal/factory"
	"github.com/mcoot/pegjump/internal/model"
	"github.com/mcoot/pegjump/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	t.Cleanup(func() { _ = app.Close() })

	router := api.NewRouter(api.RouterConfig{
		Logger:            testutil.NopLogger(),
		SessionController: app.SessionController,
		StreamHub:         app.StreamHub,
	})

	return &testServer{
		t:       t,
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// createSession creates a session with a known id
func (ts *testServer) createSession(id string) response.SessionState {
	ts.t.Helper()
	ts.app.MockRandom.QueueString(id)

	rr := ts.request(http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(ts.t, http.StatusCreated, rr.Code)

	var state response.SessionState
	require.NoError(ts.t, json.Unmarshal(rr.Body.Bytes(), &state))
	return state
}

func (ts *testServer) activate(id string, row, col int) response.ActivateResponse {
	ts.t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+id+"/activate", map[string]int{"row": row, "col": col})
	require.Equal(ts.t, http.StatusOK, rr.Code, rr.Body.String())

	var resp response.ActivateResponse
	require.NoError(ts.t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apierr.APIError {
	t.Helper()
	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestCreateSession(t *testing.T) {
	ts := newTestServer(t)

	state := ts.createSession("game00000001")

	assert.Equal(t, "game00000001", state.ID)
	require.Len(t, state.Board, model.Rows)
	assert.Equal(t, strings.Repeat(".", model.TotalCols), state.Board[0])
	assert.Equal(t, strings.Repeat("o", model.TotalCols), state.Board[model.StartRow])
	require.Len(t, state.VisibleBoard, model.Rows)
	assert.Len(t, state.VisibleBoard[0], model.VisibleCols)
	assert.Equal(t, []string{"5", "4", "3", "2", "1", "1", "2"}, state.RowLabels[:7])
	assert.Equal(t, model.DefaultViewportOffset, state.ViewportOffset)
	assert.Nil(t, state.Selection)
	assert.Empty(t, state.ValidMoves)
	assert.Equal(t, model.StartRow, state.HighestRowReached)
	assert.Equal(t, 765, state.Pieces)
	assert.False(t, state.CanUndo)
	assert.True(t, state.CanPanLeft)
	assert.True(t, state.CanPanRight)
	assert.True(t, state.HasMoves)
}

func TestGetSession(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession("game00000001")

	rr := ts.request(http.MethodGet, "/api/v1/sessions/game00000001", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/sessions/missing", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeSessionNotFound, decodeError(t, rr).Code)
}

func TestActivateAndMove(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession("game00000001")

	resp := ts.activate("game00000001", 6, 2)
	assert.Equal(t, string(model.ActivationSelected), resp.Activation)
	require.NotNil(t, resp.State.Selection)
	assert.Equal(t, response.Position{Row: 6, Col: 20}, *resp.State.Selection)
	assert.Equal(t, []response.Position{{Row: 4, Col: 20}}, resp.State.ValidMoves)

	resp = ts.activate("game00000001", 4, 2)
	assert.Equal(t, string(model.ActivationMoved), resp.Activation)
	assert.Equal(t, 764, resp.State.Pieces)
	assert.Equal(t, 1, resp.State.MoveCount)
	assert.Equal(t, 4, resp.State.HighestRowReached)
	assert.Equal(t, "Nice start! The journey has just begun.", resp.State.AdvisoryMessage)
	assert.True(t, resp.State.CanUndo)
	assert.Equal(t, byte('o'), resp.State.VisibleBoard[4][2])
	assert.Equal(t, byte('.'), resp.State.VisibleBoard[5][2])
}

func TestActivateOutsideWindowIsIgnored(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession("game00000001")

	resp := ts.activate("game00000001", 6, model.VisibleCols)
	assert.Equal(t, string(model.ActivationIgnored), resp.Activation)
	assert.Nil(t, resp.State.Selection)
}

func TestActivateValidation(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession("game00000001")

	rr := ts.request(http.MethodPost, "/api/v1/sessions/game00000001/activate", map[string]int{"row": 1})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, decodeError(t, rr).Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/game00000001/activate", strings.NewReader("{"))
	rr = httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPan(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession("game00000001")

	rr := ts.request(http.MethodPost, "/api/v1/sessions/game00000001/pan", map[string]string{"direction": "right"})
	require.Equal(t, http.StatusOK, rr.Code)

	var state response.SessionState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Equal(t, model.DefaultViewportOffset+model.PanStep, state.ViewportOffset)

	rr = ts.request(http.MethodPost, "/api/v1/sessions/game00000001/pan", map[string]string{"direction": "up"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidDirection, decodeError(t, rr).Code)
}

func TestUndoResetDismiss(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession("game00000001")
	ts.activate("game00000001", 6, 2)
	ts.activate("game00000001", 4, 2)

	rr := ts.request(http.MethodDelete, "/api/v1/sessions/game00000001/advisory", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var state response.SessionState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Empty(t, state.AdvisoryMessage)

	rr = ts.request(http.MethodPost, "/api/v1/sessions/game00000001/undo", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Equal(t, 765, state.Pieces)
	assert.False(t, state.CanUndo)
	assert.Equal(t, 4, state.HighestRowReached)

	rr = ts.request(http.MethodPost, "/api/v1/sessions/game00000001/reset", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Equal(t, model.StartRow, state.HighestRowReached)
}

func TestEndSession(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession("game00000001")

	rr := ts.request(http.MethodDelete, "/api/v1/sessions/game00000001", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodDelete, "/api/v1/sessions/game00000001", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStreamUnknownSession(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/sessions/missing/ws", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStreamDeliversEvents(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession("game00000001")

	srv := httptest.NewServer(ts.handler)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/sessions/game00000001/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	require.Eventually(t, func() bool {
		return ts.app.StreamHub.ClientCount("game00000001") == 1
	}, time.Second, 10*time.Millisecond)

	ts.activate("game00000001", 6, 2)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var evt struct {
		Type      string `json:"type"`
		SessionID string `json:"session_id"`
	}
	require.NoError(t, conn.ReadJSON(&evt))
	assert.Equal(t, string(model.EventPieceSelected), evt.Type)
	assert.Equal(t, "game00000001", evt.SessionID)

	// Ending the session closes the stream
	rr := ts.request(http.MethodDelete, "/api/v1/sessions/game00000001", nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	require.NoError(t, conn.ReadJSON(&evt))
	assert.Equal(t, string(model.EventSessionEnded), evt.Type)
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}
