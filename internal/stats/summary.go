package stats

import (
	mstats "github.com/montanaflynn/stats"

	"github.com/riftrewind/internal/domain"
)

// Summarize computes averages across rows. It returns nil for no rows.
func Summarize(rows []domain.MatchStats) *domain.StatsSummary {
	if len(rows) == 0 {
		return nil
	}

	n := len(rows)
	kills := make(mstats.Float64Data, n)
	deaths := make(mstats.Float64Data, n)
	assists := make(mstats.Float64Data, n)
	cs := make(mstats.Float64Data, n)
	damage := make(mstats.Float64Data, n)
	vision := make(mstats.Float64Data, n)

	wins := 0
	played := make(map[string]int)
	for i, r := range rows {
		kills[i] = float64(r.Kills)
		deaths[i] = float64(r.Deaths)
		assists[i] = float64(r.Assists)
		cs[i] = float64(r.CS)
		damage[i] = float64(r.DamageDealt)
		vision[i] = float64(r.VisionScore)
		if r.Win {
			wins++
		}
		played[r.ChampionName]++
	}

	return &domain.StatsSummary{
		Games:          n,
		Wins:           wins,
		WinRate:        round2(float64(wins) / float64(n) * 100),
		AvgKills:       mean(kills),
		AvgDeaths:      mean(deaths),
		AvgAssists:     mean(assists),
		AvgCS:          mean(cs),
		MedianCS:       median(cs),
		AvgDamageDealt: mean(damage),
		AvgVisionScore: mean(vision),
		MostPlayed:     mostPlayed(rows, played),
	}
}

// mostPlayed breaks ties by the champion seen first (most recent match).
func mostPlayed(rows []domain.MatchStats, played map[string]int) string {
	best, bestCount := "", 0
	for _, r := range rows {
		if c := played[r.ChampionName]; c > bestCount {
			best, bestCount = r.ChampionName, c
		}
	}
	return best
}

func mean(data mstats.Float64Data) float64 {
	m, err := data.Mean()
	if err != nil {
		return 0
	}
	return round2(m)
}

func median(data mstats.Float64Data) float64 {
	m, err := data.Median()
	if err != nil {
		return 0
	}
	return round2(m)
}

func round2(v float64) float64 {
	r, err := mstats.Round(v, 2)
	if err != nil {
		return v
	}
	return r
}
