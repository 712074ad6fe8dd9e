// Package riot provides a Riot API client for RiftRewind.
package riot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riftrewind/internal/config"
	"github.com/riftrewind/internal/data"
	"github.com/riftrewind/internal/domain"
)

// maxRetryAfter caps how long a 429 response can make us wait.
const maxRetryAfter = 10 * time.Second

// Cache is the key/value store used to remember account lookups.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Client is a client for Riot Games API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	champions  *data.Champions
	cache      Cache
}

// NewClient creates a new Riot API client.
// cache may be nil.
func NewClient(cfg *config.Config, cache Cache) *Client {
	// Reuse connections for efficiency
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	}

	c := &Client{
		apiKey:  cfg.RiotAPIKey,
		baseURL: cfg.RiotBaseURL,
		httpClient: &http.Client{
			Timeout:   15 * time.Second,
			Transport: transport,
		},
		cache: cache,
	}

	c.loadChampionData(cfg.ChampionDataPath())

	return c
}

// loadChampionData loads champion data from JSON file.
// A missing file leaves champion names empty.
func (c *Client) loadChampionData(path string) {
	champions, err := data.LoadChampions(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Failed to load %s: %v", path, err)
		}
		return
	}
	c.champions = champions
	log.Printf("Loaded %d champions (Data Dragon %s)", champions.Len(), champions.Version())
}

// ChampionName returns the display name for a champion id, or "" if unknown.
func (c *Client) ChampionName(championID int) string {
	return c.champions.Name(championID)
}

// host returns the base URL for a platform or regional routing value.
func (c *Client) host(routing string) string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return "https://" + routing + ".api.riotgames.com"
}

// doRequest makes an HTTP request to Riot API.
// A 429 is retried once after Retry-After.
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("X-Riot-Token", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt == 0 {
			wait := retryAfter(resp.Header.Get("Retry-After"))
			log.Printf("Rate limited, retrying in %v", wait)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
		}

		return body, nil
	}
}

func retryAfter(header string) time.Duration {
	secs, err := strconv.Atoi(header)
	if err != nil || secs < 0 {
		return time.Second
	}
	wait := time.Duration(secs) * time.Second
	if wait > maxRetryAfter {
		return maxRetryAfter
	}
	return wait
}

// GetAccountByRiotID resolves a Riot ID (Name#Tag) to an account.
// Uses the cache to avoid repeated API calls.
func (c *Client) GetAccountByRiotID(ctx context.Context, region domain.Region, gameName, tagLine string) (*AccountResponse, error) {
	// Create cache key (lowercase for consistency)
	cacheKey := fmt.Sprintf("account:%s#%s", strings.ToLower(gameName), strings.ToLower(tagLine))

	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, cacheKey); err == nil && cached != "" {
			var account AccountResponse
			if err := json.Unmarshal([]byte(cached), &account); err == nil && account.PUUID != "" {
				log.Printf("Account cache hit for %s#%s", gameName, tagLine)
				return &account, nil
			}
		}
	}

	reqURL := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
		c.host(region.AccountRouting()),
		url.PathEscape(gameName),
		url.PathEscape(tagLine),
	)

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		log.Printf("Error fetching account for %s#%s: %v", gameName, tagLine, err)
		return nil, err
	}

	var account AccountResponse
	if err := json.Unmarshal(body, &account); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if c.cache != nil && account.PUUID != "" {
		if err := c.cache.Set(ctx, cacheKey, string(body)); err != nil {
			log.Printf("Failed to cache account: %v", err)
		}
	}

	return &account, nil
}

// GetSummonerByPUUID gets summoner data from the platform host.
func (c *Client) GetSummonerByPUUID(ctx context.Context, region domain.Region, puuid string) (*SummonerDTO, error) {
	reqURL := fmt.Sprintf("%s/lol/summoner/v4/summoners/by-puuid/%s", c.host(region.String()), url.PathEscape(puuid))

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		log.Printf("Error fetching summoner for %s: %v", puuid, err)
		return nil, err
	}

	var summoner SummonerDTO
	if err := json.Unmarshal(body, &summoner); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &summoner, nil
}

// GetTopMasteries gets a player's highest champion masteries.
func (c *Client) GetTopMasteries(ctx context.Context, region domain.Region, puuid string, count int) ([]ChampionMasteryDTO, error) {
	reqURL := fmt.Sprintf("%s/lol/champion-mastery/v4/champion-masteries/by-puuid/%s/top?count=%d",
		c.host(region.String()),
		url.PathEscape(puuid),
		count,
	)

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var masteries []ChampionMasteryDTO
	if err := json.Unmarshal(body, &masteries); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(masteries) > count {
		masteries = masteries[:count]
	}
	return masteries, nil
}

// GetMatchIDsByPUUID gets list of recent match IDs, most recent first.
func (c *Client) GetMatchIDsByPUUID(ctx context.Context, region domain.Region, puuid string, count int) ([]string, error) {
	reqURL := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?start=0&count=%d",
		c.host(region.Routing()),
		url.PathEscape(puuid),
		count,
	)

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		log.Printf("Error fetching match IDs for %s: %v", puuid, err)
		return nil, err
	}

	var matchIDs []string
	if err := json.Unmarshal(body, &matchIDs); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return matchIDs, nil
}

// GetMatchRaw gets the undecoded match-v5 document so it can be stored as-is.
func (c *Client) GetMatchRaw(ctx context.Context, region domain.Region, matchID string) ([]byte, error) {
	reqURL := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.host(region.Routing()), url.PathEscape(matchID))

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		log.Printf("Error fetching details for match %s: %v", matchID, err)
		return nil, err
	}
	return body, nil
}

// ParseMatch decodes a match-v5 document.
func ParseMatch(raw []byte) (*MatchResponse, error) {
	var resp MatchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse match: %w", err)
	}
	if resp.Metadata.MatchID == "" {
		return nil, fmt.Errorf("failed to parse match: missing matchId")
	}
	return &resp, nil
}
