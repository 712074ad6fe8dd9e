// Package stats turns raw match documents into per-match statistics.
package stats

import (
	"github.com/riftrewind/internal/domain"
	"github.com/riftrewind/internal/services/riot"
)

// UnknownPosition is used when the match has no team position for the player.
const UnknownPosition = "UNKNOWN"

// Record is one match seen from one player's side.
type Record struct {
	MatchID      string
	GameCreation int64
	GameDuration int64
	GameMode     string
	QueueID      int
	Player       riot.Participant
}

// Extract pairs each match with the participant whose PUUID is puuid.
// Matches the player is not part of are skipped and their ids returned.
func Extract(puuid string, matches []*riot.MatchResponse) (records []Record, skipped []string) {
	records = make([]Record, 0, len(matches))
	for _, m := range matches {
		if m == nil {
			continue
		}
		p, ok := m.Participant(puuid)
		if !ok {
			skipped = append(skipped, m.Metadata.MatchID)
			continue
		}
		records = append(records, Record{
			MatchID:      m.Metadata.MatchID,
			GameCreation: m.Info.GameCreation,
			GameDuration: m.Info.GameDuration,
			GameMode:     m.Info.GameMode,
			QueueID:      m.Info.QueueID,
			Player:       *p,
		})
	}
	return records, skipped
}

// Aggregate produces one MatchStats per record, in input order.
// The input is not modified and the result shares no memory with it.
func Aggregate(records []Record) []domain.MatchStats {
	out := make([]domain.MatchStats, len(records))
	for i, r := range records {
		out[i] = FromRecord(r)
	}
	return out
}

// FromRecord derives the statistics for a single match.
func FromRecord(r Record) domain.MatchStats {
	p := r.Player

	position := p.TeamPosition
	if position == "" {
		position = UnknownPosition
	}

	return domain.MatchStats{
		MatchID:      r.MatchID,
		GameCreation: r.GameCreation,
		GameDuration: r.GameDuration,
		GameMode:     r.GameMode,
		QueueID:      r.QueueID,
		ChampionName: p.ChampionName,
		ChampionID:   p.ChampionID,
		Position:     position,
		Kills:        p.Kills,
		Deaths:       p.Deaths,
		Assists:      p.Assists,
		KDARatio:     domain.NewKDA(p.Kills, p.Deaths, p.Assists),
		CS:           p.CS(),
		GoldEarned:   p.GoldEarned,
		DamageDealt:  p.TotalDamageDealtToChampions,
		DamageTaken:  p.TotalDamageTaken,
		VisionScore:  p.VisionScore,
		Win:          p.Win,
		FirstBlood:   p.FirstBloodKill,
		DoubleKills:  p.DoubleKills,
		TripleKills:  p.TripleKills,
		QuadraKills:  p.QuadraKills,
		PentaKills:   p.PentaKills,
	}
}

// Summary builds the short per-match record returned by a lookup.
func Summary(r Record) domain.MatchSummary {
	p := r.Player
	return domain.MatchSummary{
		MatchID:      r.MatchID,
		ChampionName: p.ChampionName,
		ChampionID:   p.ChampionID,
		Role:         p.TeamPosition,
		Kills:        p.Kills,
		Deaths:       p.Deaths,
		Assists:      p.Assists,
		Win:          p.Win,
		GameMode:     r.GameMode,
		GameDuration: r.GameDuration,
		CS:           p.CS(),
	}
}
