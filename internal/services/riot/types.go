// Package riot provides types for Riot API responses.
package riot

import "fmt"

// AccountResponse represents the response from Riot Account API.
type AccountResponse struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// RiotID returns "GameName#TagLine".
func (a *AccountResponse) RiotID() string {
	return a.GameName + "#" + a.TagLine
}

// SummonerDTO represents summoner data from Riot API.
type SummonerDTO struct {
	ID            string `json:"id"`
	AccountID     string `json:"accountId"`
	PUUID         string `json:"puuid"`
	ProfileIconID int    `json:"profileIconId"`
	SummonerLevel int64  `json:"summonerLevel"`
}

// ChampionMasteryDTO represents one entry from champion-mastery-v4.
type ChampionMasteryDTO struct {
	PUUID          string `json:"puuid"`
	ChampionID     int    `json:"championId"`
	ChampionLevel  int    `json:"championLevel"`
	ChampionPoints int    `json:"championPoints"`
	LastPlayTime   int64  `json:"lastPlayTime"`
}

// MatchInfo represents the info section of a match response.
type MatchInfo struct {
	GameCreation int64         `json:"gameCreation"`
	GameDuration int64         `json:"gameDuration"`
	GameMode     string        `json:"gameMode"`
	QueueID      int           `json:"queueId"`
	Participants []Participant `json:"participants"`
}

// MatchResponse represents the full match response from Riot API.
type MatchResponse struct {
	Metadata struct {
		MatchID      string   `json:"matchId"`
		Participants []string `json:"participants"`
	} `json:"metadata"`
	Info MatchInfo `json:"info"`
}

// Participant finds the participant with the given PUUID.
func (m *MatchResponse) Participant(puuid string) (*Participant, bool) {
	for i := range m.Info.Participants {
		if m.Info.Participants[i].PUUID == puuid {
			return &m.Info.Participants[i], true
		}
	}
	return nil, false
}

// Participant represents a player in a match.
type Participant struct {
	PUUID              string `json:"puuid"`
	ParticipantID      int    `json:"participantId"`
	RiotIDGameName     string `json:"riotIdGameName"`
	ChampionName       string `json:"championName"`
	ChampionID         int    `json:"championId"`
	TeamID             int    `json:"teamId"`
	TeamPosition       string `json:"teamPosition"`
	IndividualPosition string `json:"individualPosition"`
	Win                bool   `json:"win"`
	Kills              int    `json:"kills"`
	Deaths             int    `json:"deaths"`
	Assists            int    `json:"assists"`
	FirstBloodKill     bool   `json:"firstBloodKill"`

	// Multi-kills
	DoubleKills int `json:"doubleKills"`
	TripleKills int `json:"tripleKills"`
	QuadraKills int `json:"quadraKills"`
	PentaKills  int `json:"pentaKills"`

	// Damage
	TotalDamageDealtToChampions int `json:"totalDamageDealtToChampions"`
	TotalDamageTaken            int `json:"totalDamageTaken"`

	// CS and Gold
	TotalMinionsKilled   int `json:"totalMinionsKilled"`
	NeutralMinionsKilled int `json:"neutralMinionsKilled"`
	GoldEarned           int `json:"goldEarned"`

	// Vision
	VisionScore int `json:"visionScore"`
}

// CS returns lane plus jungle minions killed.
func (p *Participant) CS() int {
	return p.TotalMinionsKilled + p.NeutralMinionsKilled
}

// APIError is a non-200 response from the Riot API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Body)
}
