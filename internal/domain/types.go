// Package domain contains the data structures shared by the backend and its clients.
package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// LookupRequest is the body of a lookup call.
type LookupRequest struct {
	PlayerName string `json:"playerName"`
	Region     Region `json:"region"`
}

// ProcessRequest is the body of a process call.
type ProcessRequest struct {
	StableID string `json:"stableId"`
}

// AskRequest is the body of an ask call.
type AskRequest struct {
	StableID string `json:"stableId"`
	Question string `json:"question"`
}

// SummonerProfile identifies a player account.
// StableID is the PUUID used to correlate lookup, process and ask.
type SummonerProfile struct {
	Name       string `json:"name"`
	Level      int64  `json:"level"`
	StableID   string `json:"stableId"`
	StorageKey string `json:"storageKey,omitempty"`
}

// UnmarshalJSON also accepts "puuid" in place of "stableId".
func (p *SummonerProfile) UnmarshalJSON(data []byte) error {
	type plain SummonerProfile
	var aux struct {
		plain
		PUUID string `json:"puuid"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*p = SummonerProfile(aux.plain)
	if p.StableID == "" {
		p.StableID = aux.PUUID
	}
	return nil
}

// ChampionMastery is one of a player's top champions.
type ChampionMastery struct {
	ChampionID     int    `json:"championId"`
	ChampionName   string `json:"championName,omitempty"`
	ChampionLevel  int    `json:"championLevel"`
	ChampionPoints int    `json:"championPoints"`
}

// MatchSummary is the short per-match record returned by a lookup.
type MatchSummary struct {
	MatchID      string `json:"matchId"`
	ChampionName string `json:"championName"`
	ChampionID   int    `json:"championId"`
	Role         string `json:"role"`
	Kills        int    `json:"kills"`
	Deaths       int    `json:"deaths"`
	Assists      int    `json:"assists"`
	Win          bool   `json:"win"`
	GameMode     string `json:"gameMode"`
	GameDuration int64  `json:"gameDuration"`
	CS           int    `json:"cs"`
}

// LookupResult is the success payload of a lookup call.
type LookupResult struct {
	Summoner         SummonerProfile   `json:"summoner"`
	TopChampions     []ChampionMastery `json:"topChampions"`
	Matches          []MatchSummary    `json:"matches"`
	MatchesProcessed int               `json:"matchesProcessed"`
	Region           Region            `json:"region"`
}

// MatchStats is the derived per-match statistics record.
type MatchStats struct {
	MatchID      string `json:"matchId"`
	GameCreation int64  `json:"gameCreation"`
	GameDuration int64  `json:"gameDuration"`
	GameMode     string `json:"gameMode"`
	QueueID      int    `json:"queueId"`
	ChampionName string `json:"championName"`
	ChampionID   int    `json:"championId"`
	Position     string `json:"position"`
	Kills        int    `json:"kills"`
	Deaths       int    `json:"deaths"`
	Assists      int    `json:"assists"`
	KDARatio     KDA    `json:"kdaRatio"`
	CS           int    `json:"cs"`
	GoldEarned   int    `json:"goldEarned"`
	DamageDealt  int    `json:"damageDealt"`
	DamageTaken  int    `json:"damageTaken"`
	VisionScore  int    `json:"visionScore"`
	Win          bool   `json:"win"`
	FirstBlood   bool   `json:"firstBlood"`
	DoubleKills  int    `json:"doubleKills"`
	TripleKills  int    `json:"tripleKills"`
	QuadraKills  int    `json:"quadraKills"`
	PentaKills   int    `json:"pentaKills"`
}

// StatsSummary holds averages across a set of MatchStats.
type StatsSummary struct {
	Games          int     `json:"games"`
	Wins           int     `json:"wins"`
	WinRate        float64 `json:"winRate"`
	AvgKills       float64 `json:"avgKills"`
	AvgDeaths      float64 `json:"avgDeaths"`
	AvgAssists     float64 `json:"avgAssists"`
	AvgCS          float64 `json:"avgCs"`
	MedianCS       float64 `json:"medianCs"`
	AvgDamageDealt float64 `json:"avgDamageDealt"`
	AvgVisionScore float64 `json:"avgVisionScore"`
	MostPlayed     string  `json:"mostPlayed,omitempty"`
}

// AggregateResult is the success payload of a process call.
type AggregateResult struct {
	MatchesProcessed int           `json:"matchesProcessed"`
	Stats            []MatchStats  `json:"stats"`
	StorageLocation  string        `json:"storageLocation"`
	Message          string        `json:"message"`
	Summary          *StatsSummary `json:"summary,omitempty"`
}

// UnmarshalJSON also accepts "s3Location" in place of "storageLocation".
func (r *AggregateResult) UnmarshalJSON(data []byte) error {
	type plain AggregateResult
	var aux struct {
		plain
		S3Location string `json:"s3Location"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = AggregateResult(aux.plain)
	if r.StorageLocation == "" {
		r.StorageLocation = aux.S3Location
	}
	return nil
}

// QAExchange is the success payload of an ask call.
type QAExchange struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	DataSource string `json:"dataSource"`
}

// PerfectKDA is how a deathless KDA is displayed and serialized.
const PerfectKDA = "Perfect"

// KDA is a kill/death/assist ratio. Perfect is set when deaths is zero,
// in which case Ratio is unused.
type KDA struct {
	Ratio   float64
	Perfect bool
}

// NewKDA computes (kills+assists)/deaths at full precision.
func NewKDA(kills, deaths, assists int) KDA {
	if deaths == 0 {
		return KDA{Perfect: true}
	}
	return KDA{Ratio: float64(kills+assists) / float64(deaths)}
}

func (k KDA) String() string {
	if k.Perfect {
		return PerfectKDA
	}
	return fmt.Sprintf("%.2f", k.Ratio)
}

func (k KDA) MarshalJSON() ([]byte, error) {
	if k.Perfect {
		return json.Marshal(PerfectKDA)
	}
	return json.Marshal(k.Ratio)
}

func (k *KDA) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if !strings.EqualFold(s, PerfectKDA) {
			return fmt.Errorf("invalid kda value %q", s)
		}
		*k = KDA{Perfect: true}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("invalid kda value: %w", err)
	}
	*k = KDA{Ratio: f}
	return nil
}

// FormatDuration renders seconds as "Xm Ys".
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}

// SplitRiotID splits "GameName#TAG" into its two halves.
func SplitRiotID(riotID string) (gameName, tagLine string, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(riotID), "#", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}
