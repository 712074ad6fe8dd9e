package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/riftrewind/internal/domain"
)

// writeLookupTable prints a lookup result as a human-readable table.
func writeLookupTable(w io.Writer, res *domain.LookupResult) error {
	fmt.Fprintf(w, "%s  level %d  region %s\n", res.Summoner.Name, res.Summoner.Level, res.Region)
	for _, c := range res.TopChampions {
		name := c.ChampionName
		if name == "" {
			name = fmt.Sprintf("#%d", c.ChampionID)
		}
		fmt.Fprintf(w, "  mastery %d  %s  %d pts\n", c.ChampionLevel, name, c.ChampionPoints)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MATCH\tCHAMPION\tROLE\tK/D/A\tKDA\tCS\tDURATION\tRESULT")
	for _, m := range res.Matches {
		result := "Loss"
		if m.Win {
			result = "Win"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d/%d\t%s\t%d\t%s\t%s\n",
			m.MatchID, m.ChampionName, m.Role,
			m.Kills, m.Deaths, m.Assists,
			domain.NewKDA(m.Kills, m.Deaths, m.Assists),
			m.CS, domain.FormatDuration(m.GameDuration), result)
	}
	return tw.Flush()
}
