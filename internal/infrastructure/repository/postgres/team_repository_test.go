package postgres

import (
	"strings"
	"testing"

	"github.com/riskibarqy/sports-sync/internal/domain/team"
	"github.com/stretchr/testify/require"
)

func TestClearCurrentMembershipsQuery_SpansSeasonRowsOfCompetition(t *testing.T) {
	t.Parallel()

	query, args, err := clearCurrentMembershipsQuery(team.Membership{LeagueID: 12, TeamID: 7, Season: "2025", IsCurrent: true})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(query, "UPDATE team_league_memberships SET is_current = $1, updated_at = NOW() WHERE "), query)
	require.Contains(t, query, "team_id = $2")
	require.Contains(t, query, "is_current = $3")
	require.Contains(t, query, "current.sport_id = sibling.sport_id AND current.external_id = sibling.external_id")
	require.Contains(t, query, "WHERE current.id = $4")
	require.Contains(t, query, "(league_id, season) <> ($5, $6)")
	require.NotContains(t, query, "league_id = $")
	require.Equal(t, []any{false, int64(7), true, int64(12), int64(12), "2025"}, args)
}
