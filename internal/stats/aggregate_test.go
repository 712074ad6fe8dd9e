package stats

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/riftrewind/internal/domain"
	"github.com/riftrewind/internal/services/riot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func match(id, puuid string, p riot.Participant) *riot.MatchResponse {
	m := &riot.MatchResponse{}
	m.Metadata.MatchID = id
	m.Info = riot.MatchInfo{
		GameCreation: 1700000000000,
		GameDuration: 125,
		GameMode:     "CLASSIC",
		QueueID:      420,
	}
	p.PUUID = puuid
	m.Info.Participants = []riot.Participant{
		{PUUID: "someone-else", ChampionName: "Garen"},
		p,
	}
	return m
}

func TestExtract_SkipsMatchesWithoutPlayer(t *testing.T) {
	matches := []*riot.MatchResponse{
		match("OC1_3", "me", riot.Participant{ChampionName: "Ahri"}),
		match("OC1_2", "not-me", riot.Participant{ChampionName: "Zed"}),
		nil,
		match("OC1_1", "me", riot.Participant{ChampionName: "Lux"}),
	}

	records, skipped := Extract("me", matches)

	require.Len(t, records, 2)
	assert.Equal(t, "OC1_3", records[0].MatchID)
	assert.Equal(t, "Ahri", records[0].Player.ChampionName)
	assert.Equal(t, "OC1_1", records[1].MatchID)
	assert.Equal(t, []string{"OC1_2"}, skipped)
}

func TestAggregate_PreservesLengthAndOrder(t *testing.T) {
	testCases := []struct {
		name string
		ids  []string
	}{
		{name: "empty", ids: nil},
		{name: "single", ids: []string{"KR_1"}},
		{name: "many", ids: []string{"KR_9", "KR_3", "KR_7", "KR_1"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			records := make([]Record, len(tc.ids))
			for i, id := range tc.ids {
				records[i] = Record{MatchID: id}
			}

			out := Aggregate(records)
			require.Len(t, out, len(records))
			for i := range records {
				assert.Equal(t, records[i].MatchID, out[i].MatchID)
			}
		})
	}
}

func TestAggregate_DerivedFields(t *testing.T) {
	records := []Record{
		{
			MatchID:      "KR_1",
			GameDuration: 125,
			Player: riot.Participant{
				ChampionName:                "Ahri",
				ChampionID:                  103,
				TeamPosition:                "MIDDLE",
				Kills:                       10,
				Deaths:                      5,
				Assists:                     5,
				TotalMinionsKilled:          150,
				NeutralMinionsKilled:        12,
				TotalDamageDealtToChampions: 25000,
				TotalDamageTaken:            18000,
				FirstBloodKill:              true,
				DoubleKills:                 2,
				TripleKills:                 1,
				PentaKills:                  1,
			},
		},
		{
			MatchID: "KR_0",
			Player:  riot.Participant{Kills: 3, Deaths: 0, Assists: 7},
		},
	}

	out := Aggregate(records)

	first := out[0]
	assert.Equal(t, "3.00", first.KDARatio.String())
	assert.Equal(t, 3.0, first.KDARatio.Ratio)
	assert.Equal(t, 162, first.CS)
	assert.Equal(t, "MIDDLE", first.Position)
	assert.Equal(t, 25000, first.DamageDealt)
	assert.Equal(t, 18000, first.DamageTaken)
	assert.True(t, first.FirstBlood)
	assert.Equal(t, 2, first.DoubleKills)
	assert.Equal(t, 1, first.TripleKills)
	assert.Equal(t, 0, first.QuadraKills)
	assert.Equal(t, 1, first.PentaKills)
	assert.Equal(t, int64(125), first.GameDuration)
	assert.Equal(t, "2m 5s", domain.FormatDuration(first.GameDuration))

	second := out[1]
	assert.True(t, second.KDARatio.Perfect)
	assert.Equal(t, domain.PerfectKDA, second.KDARatio.String())
	assert.Equal(t, UnknownPosition, second.Position)
	assert.False(t, second.FirstBlood)
}

func TestAggregate_DoesNotMutateInputAndIsIdempotent(t *testing.T) {
	records := []Record{
		{MatchID: "NA1_2", Player: riot.Participant{Kills: 1, Deaths: 3}},
		{MatchID: "NA1_1", Player: riot.Participant{Kills: 2, Deaths: 3}},
	}
	snapshot := make([]Record, len(records))
	copy(snapshot, records)

	first := Aggregate(records)
	first[0].MatchID = "changed"
	first[1].Kills = 99

	second := Aggregate(records)

	assert.Equal(t, snapshot, records)
	assert.Equal(t, "NA1_2", second[0].MatchID)
	assert.Equal(t, 2, second[1].Kills)
	assert.Equal(t, "0.33", second[0].KDARatio.String())
	assert.Equal(t, "0.67", second[1].KDARatio.String())
}

func TestSummary(t *testing.T) {
	s := Summary(Record{
		MatchID:      "OC1_5",
		GameMode:     "ARAM",
		GameDuration: 900,
		Player: riot.Participant{
			ChampionName:         "Lux",
			ChampionID:           99,
			TeamPosition:         "",
			Kills:                4,
			Deaths:               2,
			Assists:              20,
			Win:                  true,
			TotalMinionsKilled:   30,
			NeutralMinionsKilled: 1,
		},
	})

	assert.Equal(t, domain.MatchSummary{
		MatchID:      "OC1_5",
		ChampionName: "Lux",
		ChampionID:   99,
		Kills:        4,
		Deaths:       2,
		Assists:      20,
		Win:          true,
		GameMode:     "ARAM",
		GameDuration: 900,
		CS:           31,
	}, s)
}

func TestWriteCSV(t *testing.T) {
	rows := Aggregate([]Record{
		{
			MatchID:      "OC1_2",
			GameCreation: 1700000000000,
			GameDuration: 1800,
			GameMode:     "CLASSIC",
			QueueID:      420,
			Player: riot.Participant{
				ChampionName: "Lee Sin", ChampionID: 64, TeamPosition: "JUNGLE",
				Kills: 10, Deaths: 5, Assists: 5, Win: true, DoubleKills: 1,
			},
		},
		{
			MatchID: "OC1_1",
			Player:  riot.Participant{ChampionName: "Sona, Maven", Kills: 1},
		},
	})

	data, err := WriteCSV(rows)
	require.NoError(t, err)

	recs := readCSV(t, data)
	require.Len(t, recs, 3)
	assert.Equal(t, Header, recs[0])

	first := recs[1]
	require.Len(t, first, len(Header))
	assert.Equal(t, "OC1_2", first[0])
	assert.Equal(t, "1700000000000", first[1])
	assert.Equal(t, "Lee Sin", first[5])
	assert.Equal(t, "JUNGLE", first[7])
	assert.Equal(t, "3.00", first[11])
	assert.Equal(t, "True", first[17])
	assert.Equal(t, "False", first[18])
	assert.Equal(t, "1", first[19])

	second := recs[2]
	assert.Equal(t, "Sona, Maven", second[5])
	assert.Equal(t, UnknownPosition, second[7])
	assert.Equal(t, domain.PerfectKDA, second[11])
}

func TestWriteCSV_HeaderOnly(t *testing.T) {
	data, err := WriteCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, [][]string{Header}, readCSV(t, data))
}

func TestSummarize(t *testing.T) {
	rows := []domain.MatchStats{
		{ChampionName: "Ahri", Kills: 10, Deaths: 2, Assists: 5, CS: 200, DamageDealt: 30000, VisionScore: 20, Win: true},
		{ChampionName: "Lux", Kills: 2, Deaths: 6, Assists: 10, CS: 50, DamageDealt: 12000, VisionScore: 40},
		{ChampionName: "Ahri", Kills: 6, Deaths: 4, Assists: 0, CS: 170, DamageDealt: 21000, VisionScore: 15, Win: true},
		{ChampionName: "Lux", Kills: 0, Deaths: 0, Assists: 1, CS: 20, DamageDealt: 5000, VisionScore: 25},
	}

	s := Summarize(rows)
	require.NotNil(t, s)
	assert.Equal(t, 4, s.Games)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 50.0, s.WinRate)
	assert.Equal(t, 4.5, s.AvgKills)
	assert.Equal(t, 3.0, s.AvgDeaths)
	assert.Equal(t, 4.0, s.AvgAssists)
	assert.Equal(t, 110.0, s.AvgCS)
	assert.Equal(t, 110.0, s.MedianCS)
	assert.Equal(t, 17000.0, s.AvgDamageDealt)
	assert.Equal(t, 25.0, s.AvgVisionScore)
	assert.Equal(t, "Ahri", s.MostPlayed)

	assert.Nil(t, Summarize(nil))
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	recs, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return recs
}
