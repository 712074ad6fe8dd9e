package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/riftrewind/internal/domain"
	"github.com/riftrewind/internal/gateway"
	"github.com/riftrewind/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// backendStub serves the three operations in the direct response shape.
func backendStub(t *testing.T, questions *[]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /lookup", func(w http.ResponseWriter, r *http.Request) {
		var req domain.LookupRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.PlayerName == "Nobody#404" {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":"Riot ID not found. Check spelling and region."}`)
			return
		}
		matches := []domain.MatchSummary{
			{MatchID: "KR_2", ChampionName: "Ahri", Role: "MIDDLE", Kills: 7, Assists: 3, GameDuration: 125, CS: 40, Win: true},
			{MatchID: "KR_1", ChampionName: "Azir", Role: "MIDDLE", Kills: 10, Deaths: 5, Assists: 5, GameDuration: 1800, CS: 250},
		}
		_ = json.NewEncoder(w).Encode(domain.LookupResult{
			Summoner:         domain.SummonerProfile{Name: req.PlayerName, Level: 30, StableID: "p1"},
			Matches:          matches,
			MatchesProcessed: 2,
			Region:           req.Region,
		})
	})
	mux.HandleFunc("POST /process", func(w http.ResponseWriter, r *http.Request) {
		var req domain.ProcessRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "p1", req.StableID)
		_ = json.NewEncoder(w).Encode(domain.AggregateResult{
			MatchesProcessed: 2,
			StorageLocation:  "memory://users/p1/processed/match_stats.csv",
			Message:          "Processed 2 matches",
		})
	})
	mux.HandleFunc("POST /ask", func(w http.ResponseWriter, r *http.Request) {
		var req domain.AskRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if questions != nil {
			*questions = append(*questions, req.Question)
		}
		if req.StableID == "unknown" {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":"No processed stats found.","hint":"Please click \"Process Stats\" first!"}`)
			return
		}
		_ = json.NewEncoder(w).Encode(domain.QAExchange{Question: req.Question, Answer: "Play more Ahri."})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func setEndpoints(t *testing.T, base string) {
	t.Setenv("LOOKUP_ENDPOINT", base+"/lookup")
	t.Setenv("PROCESS_ENDPOINT", base+"/process")
	t.Setenv("ASK_ENDPOINT", base+"/ask")
}

func TestLookupCmd(t *testing.T) {
	server := backendStub(t, nil)
	setEndpoints(t, server.URL)

	stdout, _, err := run(t, "lookup", "Faker#KR1", "--region", "KR")
	require.NoError(t, err)

	var res domain.LookupResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.Equal(t, "Faker#KR1", res.Summoner.Name)
	assert.Equal(t, domain.Region("kr"), res.Region)
	assert.Equal(t, 2, res.MatchesProcessed)
}

func TestLookupCmd_Table(t *testing.T) {
	server := backendStub(t, nil)
	setEndpoints(t, server.URL)

	stdout, _, err := run(t, "lookup", "Faker#KR1", "--region", "kr", "-o", "table")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Faker#KR1  level 30  region kr", lines[0])
	assert.Equal(t, []string{"MATCH", "CHAMPION", "ROLE", "K/D/A", "KDA", "CS", "DURATION", "RESULT"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"KR_2", "Ahri", "MIDDLE", "7/0/3", "Perfect", "40", "2m", "5s", "Win"}, strings.Fields(lines[3]))
	assert.Equal(t, []string{"KR_1", "Azir", "MIDDLE", "10/5/5", "3.00", "250", "30m", "0s", "Loss"}, strings.Fields(lines[4]))
}

func TestLookupCmd_FormatErrors(t *testing.T) {
	server := backendStub(t, nil)
	setEndpoints(t, server.URL)

	_, _, err := run(t, "lookup", "Faker#KR1", "-o", "yaml")
	assert.EqualError(t, err, `unknown format "yaml" (use json or table)`)

	_, _, err = run(t, "lookup", "Faker#KR1", "-o", "table", "--process")
	assert.Error(t, err)
}

func TestLookupCmd_Chain(t *testing.T) {
	var questions []string
	server := backendStub(t, &questions)
	setEndpoints(t, server.URL)

	stdout, _, err := run(t, "lookup", "Faker#KR1", "--process", "--ask", "  How am I doing?  ")
	require.NoError(t, err)

	var out chainResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.NotNil(t, out.Process)
	require.NotNil(t, out.Ask)
	assert.Equal(t, "memory://users/p1/processed/match_stats.csv", out.Process.StorageLocation)
	assert.Equal(t, "Play more Ahri.", out.Ask.Answer)
	assert.Equal(t, []string{"How am I doing?"}, questions)
}

func TestLookupCmd_RemoteError(t *testing.T) {
	server := backendStub(t, nil)
	setEndpoints(t, server.URL)

	stdout, _, err := run(t, "lookup", "Nobody#404")
	var remote *gateway.RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, http.StatusNotFound, remote.StatusCode)
	assert.Equal(t, "Riot ID not found. Check spelling and region.", remote.Message)
	assert.Empty(t, stdout)
}

func TestProcessCmd_MissingEndpoint(t *testing.T) {
	t.Setenv("PROCESS_ENDPOINT", "")

	_, _, err := run(t, "process", "p1")
	var cfgErr *gateway.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "PROCESS_ENDPOINT", cfgErr.Setting)
}

func TestAskCmd(t *testing.T) {
	var questions []string
	server := backendStub(t, &questions)
	setEndpoints(t, server.URL)

	stdout, _, err := run(t, "ask", "p1", "What", "should", "I", "play?")
	require.NoError(t, err)
	var qa domain.QAExchange
	require.NoError(t, json.Unmarshal([]byte(stdout), &qa))
	assert.Equal(t, "What should I play?", qa.Question)

	_, _, err = run(t, "ask", "p1", "--quick", "1")
	require.NoError(t, err)

	_, _, err = run(t, "ask", "p1", "   ")
	assert.ErrorIs(t, err, session.ErrEmptyQuestion)

	_, _, err = run(t, "ask", "p1", "--quick", "99")
	assert.ErrorIs(t, err, session.ErrEmptyQuestion)

	assert.Equal(t, []string{"What should I play?", session.QuickQuestions[0]}, questions)
}

func TestAskCmd_PrintsHint(t *testing.T) {
	server := backendStub(t, nil)
	setEndpoints(t, server.URL)

	_, stderr, err := run(t, "ask", "unknown", "Why?")
	require.Error(t, err)
	assert.Contains(t, stderr, `Hint: Please click "Process Stats" first!`)
}

func TestHealthCmd(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()

	stdout, _, err := run(t, "health", "--url", healthy.URL+"/health")
	require.NoError(t, err)
	assert.Equal(t, "ok\n", stdout)

	unhealthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer unhealthy.Close()

	_, _, err = run(t, "health", "--url", unhealthy.URL)
	assert.EqualError(t, err, "unhealthy: 503")
}

func TestHealthURL(t *testing.T) {
	testCases := []struct {
		addr string
		want string
	}{
		{addr: ":8080", want: "http://localhost:8080/health"},
		{addr: "127.0.0.1:9000", want: "http://127.0.0.1:9000/health"},
	}
	for _, tc := range testCases {
		t.Run(tc.addr, func(t *testing.T) {
			assert.Equal(t, tc.want, healthURL(tc.addr))
		})
	}
}
