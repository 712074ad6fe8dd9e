package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/riftrewind/internal/backend"
	"github.com/riftrewind/internal/config"
	"github.com/riftrewind/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockBackend is a mock implementation of the Backend interface.
type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) Lookup(ctx context.Context, req domain.LookupRequest) (*domain.LookupResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LookupResult), args.Error(1)
}

func (m *mockBackend) Process(ctx context.Context, req domain.ProcessRequest) (*domain.AggregateResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AggregateResult), args.Error(1)
}

func (m *mockBackend) Ask(ctx context.Context, req domain.AskRequest) (*domain.QAExchange, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QAExchange), args.Error(1)
}

func (m *mockBackend) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func newTestServer(b Backend, shape string) http.Handler {
	cfg := &config.Config{ServerAddr: ":0", ResponseShape: shape}
	return New(cfg, b, log.New(io.Discard, "", 0)).Handler()
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// unwrapEnvelope asserts the HTTP layer succeeded and returns the inner status and body.
func unwrapEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (int, string) {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code)
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.StatusCode, env.Body
}

func TestLookup_Envelope(t *testing.T) {
	b := &mockBackend{}
	b.On("Lookup", mock.Anything, domain.LookupRequest{PlayerName: "Faker#KR1", Region: "kr"}).
		Return(&domain.LookupResult{
			Summoner:         domain.SummonerProfile{Name: "Faker#KR1", Level: 742, StableID: "p1"},
			Matches:          []domain.MatchSummary{{MatchID: "KR_2"}, {MatchID: "KR_1"}},
			MatchesProcessed: 2,
			Region:           "kr",
		}, nil)

	rec := post(t, newTestServer(b, config.ShapeEnvelope), "/lookup", `{"playerName":"Faker#KR1","region":"kr"}`)
	status, body := unwrapEnvelope(t, rec)

	assert.Equal(t, http.StatusOK, status)
	var res domain.LookupResult
	require.NoError(t, json.Unmarshal([]byte(body), &res))
	assert.Equal(t, 2, res.MatchesProcessed)
	assert.Equal(t, "KR_2", res.Matches[0].MatchID)
	assert.Equal(t, "p1", res.Summoner.StableID)
	b.AssertExpectations(t)
}

func TestLookup_AcceptsSummonerNameAlias(t *testing.T) {
	b := &mockBackend{}
	b.On("Lookup", mock.Anything, domain.LookupRequest{PlayerName: "Iceraze#OC", Region: "oc1"}).
		Return(&domain.LookupResult{}, nil)

	rec := post(t, newTestServer(b, config.ShapeDirect), "/lookup", `{"summonerName":"Iceraze#OC","region":"oc1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	b.AssertExpectations(t)
}

func TestErrors_Direct(t *testing.T) {
	testCases := []struct {
		name       string
		path       string
		body       string
		setup      func(b *mockBackend)
		wantStatus int
		wantError  string
		wantHint   string
	}{
		{
			name: "process not found",
			path: "/process",
			body: `{"puuid":"p1"}`,
			setup: func(b *mockBackend) {
				b.On("Process", mock.Anything, domain.ProcessRequest{StableID: "p1"}).
					Return(nil, &backend.Error{Kind: backend.ErrNotFound, Message: "No matches found for this user. Search for a summoner first!"})
			},
			wantStatus: http.StatusNotFound,
			wantError:  "No matches found for this user. Search for a summoner first!",
		},
		{
			name: "ask with hint",
			path: "/ask",
			body: `{"stableId":"p1","question":"hi"}`,
			setup: func(b *mockBackend) {
				b.On("Ask", mock.Anything, domain.AskRequest{StableID: "p1", Question: "hi"}).
					Return(nil, &backend.Error{Kind: backend.ErrNotFound, Message: "No processed data found.", Hint: "Process first."})
			},
			wantStatus: http.StatusNotFound,
			wantError:  "No processed data found.",
			wantHint:   "Process first.",
		},
		{
			name: "internal error",
			path: "/process",
			body: `{"stableId":"p1"}`,
			setup: func(b *mockBackend) {
				b.On("Process", mock.Anything, domain.ProcessRequest{StableID: "p1"}).
					Return(nil, errors.New("disk on fire"))
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Internal server error",
		},
		{
			name:       "invalid json",
			path:       "/ask",
			body:       `{"stableId":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request body",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := &mockBackend{}
			if tc.setup != nil {
				tc.setup(b)
			}

			rec := post(t, newTestServer(b, config.ShapeDirect), tc.path, tc.body)
			assert.Equal(t, tc.wantStatus, rec.Code)

			var body backend.ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.wantError, body.Error)
			assert.Equal(t, tc.wantHint, body.Hint)
			b.AssertExpectations(t)
		})
	}
}

func TestErrors_Envelope(t *testing.T) {
	b := &mockBackend{}
	b.On("Ask", mock.Anything, domain.AskRequest{StableID: "p1", Question: ""}).
		Return(nil, &backend.Error{Kind: backend.ErrInvalidInput, Message: "PUUID and question are required"})

	rec := post(t, newTestServer(b, ""), "/ask", `{"stableId":"p1"}`)
	status, body := unwrapEnvelope(t, rec)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":"PUUID and question are required"}`, body)
}

func TestHealth(t *testing.T) {
	b := &mockBackend{}
	b.On("Ping", mock.Anything).Return(nil).Once()
	b.On("Ping", mock.Anything).Return(errors.New("redis down")).Once()
	h := newTestServer(b, config.ShapeEnvelope)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"storage":"ok"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "redis down")
}

func TestRouting(t *testing.T) {
	h := newTestServer(&mockBackend{}, config.ShapeDirect)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lookup", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMiddleware(t *testing.T) {
	h := newTestServer(&mockBackend{}, config.ShapeDirect)

	t.Run("generates request id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/lookup", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("keeps incoming request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/ask", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})
}
