// Package backend implements the lookup, process and ask operations.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"golang.org/x/sync/errgroup"

	"github.com/riftrewind/internal/config"
	"github.com/riftrewind/internal/domain"
	"github.com/riftrewind/internal/services/riot"
	"github.com/riftrewind/internal/stats"
	"github.com/riftrewind/internal/storage"
)

const topChampionCount = 3

// RiotAPI is the subset of the Riot client the service needs.
type RiotAPI interface {
	GetAccountByRiotID(ctx context.Context, region domain.Region, gameName, tagLine string) (*riot.AccountResponse, error)
	GetSummonerByPUUID(ctx context.Context, region domain.Region, puuid string) (*riot.SummonerDTO, error)
	GetTopMasteries(ctx context.Context, region domain.Region, puuid string, count int) ([]riot.ChampionMasteryDTO, error)
	GetMatchIDsByPUUID(ctx context.Context, region domain.Region, puuid string, count int) ([]string, error)
	GetMatchRaw(ctx context.Context, region domain.Region, matchID string) ([]byte, error)
	ChampionName(championID int) string
}

// Answerer answers a question about a stats CSV.
type Answerer interface {
	Ask(ctx context.Context, statsCSV, question string) (string, error)
}

// Service runs the three player operations against Riot, storage and the AI.
type Service struct {
	riot        RiotAPI
	ai          Answerer
	store       storage.MatchStore
	matchCount  int
	concurrency int
	logger      *log.Logger

	seenMu sync.Mutex
	seen   *bloom.BloomFilter
}

// NewService is a constructor that wires the service's collaborators.
func NewService(cfg *config.Config, riotAPI RiotAPI, ai Answerer, store storage.MatchStore, logger *log.Logger) *Service {
	matchCount := cfg.MatchCount
	if matchCount <= 0 {
		matchCount = 10
	}
	concurrency := cfg.FetchConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Service{
		riot:        riotAPI,
		ai:          ai,
		store:       store,
		matchCount:  matchCount,
		concurrency: concurrency,
		logger:      logger,
		seen:        bloom.NewWithEstimates(100000, 0.001),
	}
}

// Ping reports whether storage is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Lookup resolves a Riot ID and returns the profile, top champions and recent matches.
// Fetched matches are persisted for Process.
func (s *Service) Lookup(ctx context.Context, req domain.LookupRequest) (*domain.LookupResult, error) {
	name := strings.TrimSpace(req.PlayerName)
	if name == "" {
		return nil, invalid("Summoner name is required")
	}
	gameName, tagLine, ok := domain.SplitRiotID(name)
	if !ok {
		return nil, invalid("Please use Riot ID format: GameName#TAG (e.g., Iceraze#OC)")
	}
	region, err := domain.ParseRegion(string(req.Region))
	if err != nil {
		return nil, invalid(err.Error())
	}

	s.logger.Printf("🎮 Looking up: %s in region %s", name, region)

	account, err := s.riot.GetAccountByRiotID(ctx, region, gameName, tagLine)
	if err != nil {
		return nil, riotError(err, "account", "Riot ID not found. Check spelling and region.")
	}
	puuid := account.PUUID

	var (
		summoner  *riot.SummonerDTO
		masteries []riot.ChampionMasteryDTO
		matchIDs  []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summoner, err = s.riot.GetSummonerByPUUID(gctx, region, puuid)
		if err != nil {
			return riotError(err, "summoner data", "Failed to fetch summoner data")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		masteries, err = s.riot.GetTopMasteries(gctx, region, puuid, topChampionCount)
		if err != nil {
			s.logger.Printf("⚠️ No mastery data: %v", err)
			masteries = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		matchIDs, err = s.riot.GetMatchIDsByPUUID(gctx, region, puuid, s.matchCount)
		if err != nil {
			return riotError(err, "match history", "Failed to fetch match history")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matches, err := s.fetchMatches(ctx, region, puuid, matchIDs)
	if err != nil {
		return nil, err
	}

	records, skipped := stats.Extract(puuid, matches)
	for _, id := range skipped {
		s.logger.Printf("⚠️ Player not found in match %s", id)
	}

	summaries := make([]domain.MatchSummary, len(records))
	for i, r := range records {
		summaries[i] = stats.Summary(r)
	}

	top := make([]domain.ChampionMastery, 0, len(masteries))
	for _, m := range masteries {
		top = append(top, domain.ChampionMastery{
			ChampionID:     m.ChampionID,
			ChampionName:   s.riot.ChampionName(m.ChampionID),
			ChampionLevel:  m.ChampionLevel,
			ChampionPoints: m.ChampionPoints,
		})
	}

	result := &domain.LookupResult{
		Summoner: domain.SummonerProfile{
			Name:       account.RiotID(),
			Level:      summoner.SummonerLevel,
			StableID:   puuid,
			StorageKey: storage.MatchPrefix(puuid),
		},
		TopChampions:     top,
		Matches:          summaries,
		MatchesProcessed: len(summaries),
		Region:           region,
	}

	s.logger.Printf("🎉 Success! Returning %d matches for %s", len(summaries), result.Summoner.Name)
	return result, nil
}

// fetchMatches loads match documents in matchIDs order, reading from storage
// when the match was persisted before and from Riot otherwise.
func (s *Service) fetchMatches(ctx context.Context, region domain.Region, puuid string, matchIDs []string) ([]*riot.MatchResponse, error) {
	matches := make([]*riot.MatchResponse, len(matchIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, matchID := range matchIDs {
		g.Go(func() error {
			raw, err := s.loadMatch(gctx, region, puuid, matchID)
			if err != nil {
				var apiErr *riot.APIError
				if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden) {
					return riotError(err, "match", "")
				}
				if errors.Is(err, ErrStorage) || gctx.Err() != nil {
					return err
				}
				s.logger.Printf("⚠️ Skipping match %s: %v", matchID, err)
				return nil
			}

			m, err := riot.ParseMatch(raw)
			if err != nil {
				s.logger.Printf("⚠️ Skipping match %s: %v", matchID, err)
				return nil
			}
			matches[i] = m
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := matches[:0]
	for _, m := range matches {
		if m != nil {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *Service) loadMatch(ctx context.Context, region domain.Region, puuid, matchID string) ([]byte, error) {
	key := puuid + ":" + matchID

	if s.hasSeen(key) {
		raw, err := s.store.GetMatch(ctx, puuid, matchID)
		if err == nil {
			return raw, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Printf("⚠️ Stored match %s unreadable, refetching: %v", matchID, err)
		}
	}

	raw, err := s.riot.GetMatchRaw(ctx, region, matchID)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveMatch(ctx, puuid, matchID, raw); err != nil {
		return nil, storageFailure("Failed to store match data", err)
	}
	s.markSeen(key)
	return raw, nil
}

func (s *Service) hasSeen(key string) bool {
	s.seenMu.Lock()
	defer s.seenMu.Unlock()
	return s.seen.TestString(key)
}

func (s *Service) markSeen(key string) {
	s.seenMu.Lock()
	defer s.seenMu.Unlock()
	s.seen.AddString(key)
}

// Process computes per-match stats from every stored match of a player and
// saves them as CSV for Ask.
func (s *Service) Process(ctx context.Context, req domain.ProcessRequest) (*domain.AggregateResult, error) {
	puuid := strings.TrimSpace(req.StableID)
	if puuid == "" {
		return nil, invalid("PUUID is required")
	}

	s.logger.Printf("🔍 Looking for matches at %s", storage.MatchPrefix(puuid))

	raws, err := s.store.ListMatches(ctx, puuid)
	if err != nil {
		return nil, storageFailure("Failed to access match storage", err)
	}
	if len(raws) == 0 {
		return nil, notFound("No matches found for this user. Search for a summoner first!")
	}

	matches := make([]*riot.MatchResponse, 0, len(raws))
	for _, raw := range raws {
		m, err := riot.ParseMatch(raw)
		if err != nil {
			s.logger.Printf("⚠️ Skipping stored match: %v", err)
			continue
		}
		matches = append(matches, m)
	}

	records, skipped := stats.Extract(puuid, matches)
	for _, id := range skipped {
		s.logger.Printf("⚠️ Player not found in match %s", id)
	}
	if len(records) == 0 {
		return nil, notFound("No valid match data found")
	}

	rows := stats.Aggregate(records)
	csv, err := stats.WriteCSV(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to render stats: %w", err)
	}

	location, err := s.store.SaveProcessed(ctx, puuid, csv)
	if err != nil {
		return nil, storageFailure("Failed to save processed stats", err)
	}

	s.logger.Printf("✅ Processed %d matches", len(rows))
	s.logger.Printf("📁 Saved to %s", location)

	return &domain.AggregateResult{
		MatchesProcessed: len(rows),
		Stats:            rows,
		StorageLocation:  location,
		Message:          fmt.Sprintf("Successfully processed %d matches", len(rows)),
		Summary:          stats.Summarize(rows),
	}, nil
}

// Ask answers a question about a player's processed stats.
func (s *Service) Ask(ctx context.Context, req domain.AskRequest) (*domain.QAExchange, error) {
	puuid := strings.TrimSpace(req.StableID)
	question := strings.TrimSpace(req.Question)
	if puuid == "" || question == "" {
		return nil, invalid("PUUID and question are required")
	}

	s.logger.Printf("🔍 Question: %s", question)

	csv, location, err := s.store.GetProcessed(ctx, puuid)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &Error{
			Kind:    ErrNotFound,
			Message: `No processed data found. Please click "Process Stats" first!`,
			Hint:    "Search for a summoner and process their stats before asking questions.",
		}
	}
	if err != nil {
		return nil, storageFailure("Failed to read processed stats", err)
	}

	s.logger.Printf("📊 Found processed data at %s", location)

	answer, err := s.ai.Ask(ctx, string(csv), question)
	if err != nil {
		return nil, &Error{Kind: ErrAI, Message: "Failed to get an answer", Detail: err.Error(), Err: err}
	}

	return &domain.QAExchange{
		Question:   question,
		Answer:     answer,
		DataSource: location,
	}, nil
}

// riotError classifies a Riot client failure. notFoundMsg is used for 404s.
func riotError(err error, what, notFoundMsg string) error {
	var apiErr *riot.APIError
	if !errors.As(err, &apiErr) {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return &Error{Kind: ErrUpstream, Message: "Failed to fetch " + what, Detail: err.Error(), Err: err}
	}

	switch apiErr.StatusCode {
	case http.StatusNotFound:
		if notFoundMsg == "" {
			notFoundMsg = "Failed to fetch " + what
		}
		return &Error{Kind: ErrNotFound, Message: notFoundMsg, Err: err}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &Error{
			Kind:    ErrUpstreamAuth,
			Message: "API key is invalid or expired",
			Hint:    "Regenerate your Riot API key at https://developer.riotgames.com/",
			Err:     err,
		}
	default:
		return &Error{
			Kind:    ErrUpstream,
			Message: fmt.Sprintf("Failed to fetch %s: %d", what, apiErr.StatusCode),
			Detail:  apiErr.Body,
			Err:     err,
		}
	}
}
