package stats

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/riftrewind/internal/domain"
)

// Header is the column order of the processed stats file.
var Header = []string{
	"matchId", "gameCreation", "gameDuration", "gameMode", "queueId",
	"championName", "championId", "position",
	"kills", "deaths", "assists", "kdaRatio",
	"cs", "goldEarned", "damageDealt", "damageTaken", "visionScore",
	"win", "firstBlood",
	"doubleKills", "tripleKills", "quadraKills", "pentaKills",
}

// WriteCSV renders rows as CSV with a header line.
func WriteCSV(rows []domain.MatchStats) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header); err != nil {
		return nil, err
	}
	for _, s := range rows {
		if err := w.Write(row(s)); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func row(s domain.MatchStats) []string {
	itoa := strconv.Itoa
	i64 := func(v int64) string { return strconv.FormatInt(v, 10) }
	b := func(v bool) string {
		if v {
			return "True"
		}
		return "False"
	}

	return []string{
		s.MatchID, i64(s.GameCreation), i64(s.GameDuration), s.GameMode, itoa(s.QueueID),
		s.ChampionName, itoa(s.ChampionID), s.Position,
		itoa(s.Kills), itoa(s.Deaths), itoa(s.Assists), s.KDARatio.String(),
		itoa(s.CS), itoa(s.GoldEarned), itoa(s.DamageDealt), itoa(s.DamageTaken), itoa(s.VisionScore),
		b(s.Win), b(s.FirstBlood),
		itoa(s.DoubleKills), itoa(s.TripleKills), itoa(s.QuadraKills), itoa(s.PentaKills),
	}
}
