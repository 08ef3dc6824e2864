package leaderboarddomain

import (
	"sort"

	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// Weights of the two scoring channels in the final score.
const (
	JudgeWeight  = 0.9
	PublicWeight = 0.1
)

// JudgeSubtotal is one judge's summed score across a team's criteria.
type JudgeSubtotal struct {
	JudgeKey   string
	Subtotal   sharedtypes.Score
	NumEntries int
}

// TeamAggregate is the fully computed score state of one team.
type TeamAggregate struct {
	Team          sharedtypes.TeamInfo
	JudgeScore    sharedtypes.Score
	NumJudges     int
	PublicScore   sharedtypes.Score
	NumVotes      int
	VoterSessions int
	FinalScore    sharedtypes.Score
	SkippedRows   int
}

// Standing is one ranked row of a track leaderboard.
type Standing struct {
	Rank          int                    `json:"rank"`
	TeamID        sharedtypes.TeamID     `json:"team_id"`
	TeamName      string                 `json:"team_name"`
	TeamNumber    sharedtypes.TeamNumber `json:"team_number"`
	JudgeScore    sharedtypes.Score      `json:"judge_score"`
	NumJudges     int                    `json:"num_judges"`
	PublicScore   sharedtypes.Score      `json:"public_score"`
	NumVotes      int                    `json:"num_votes"`
	VoterSessions int                    `json:"voter_sessions"`
	FinalScore    sharedtypes.Score      `json:"final_score"`
}

// CriterionSet is the membership check for a track's criteria.
type CriterionSet map[sharedtypes.CriterionID]bool

// NewCriterionSet builds a CriterionSet from criteria metadata.
func NewCriterionSet(criteria []sharedtypes.CriterionInfo) CriterionSet {
	set := make(CriterionSet, len(criteria))
	for _, c := range criteria {
		set[c.ID] = true
	}
	return set
}

// JudgeSubtotals groups a team's score rows by effective judge key and sums
// each judge's entries. Rows referencing a criterion outside the track are
// skipped and counted; the caller decides how loudly to complain. Subtotals
// are returned in judge-key order so output is deterministic.
func JudgeSubtotals(rows []sharedtypes.ScoreRow, criteria CriterionSet) ([]JudgeSubtotal, int) {
	byJudge := make(map[string]*JudgeSubtotal)
	skipped := 0
	for _, row := range rows {
		if !criteria[row.CriterionID] {
			skipped++
			continue
		}
		key := row.EffectiveJudgeKey()
		sub, ok := byJudge[key]
		if !ok {
			sub = &JudgeSubtotal{JudgeKey: key}
			byJudge[key] = sub
		}
		sub.Subtotal += row.Score
		sub.NumEntries++
	}

	subtotals := make([]JudgeSubtotal, 0, len(byJudge))
	for _, sub := range byJudge {
		subtotals = append(subtotals, *sub)
	}
	sort.Slice(subtotals, func(i, j int) bool {
		return subtotals[i].JudgeKey < subtotals[j].JudgeKey
	})
	return subtotals, skipped
}

// TeamJudgeScore is the mean of the per-judge subtotals. A team nobody has
// judged scores zero.
func TeamJudgeScore(subtotals []JudgeSubtotal) sharedtypes.Score {
	if len(subtotals) == 0 {
		return 0
	}
	var sum sharedtypes.Score
	for _, sub := range subtotals {
		sum += sub.Subtotal
	}
	return sum / sharedtypes.Score(len(subtotals))
}

// PublicVoteScore is the flat mean over all vote rows, regardless of which
// session or criterion each row belongs to. Judges are averaged per judge,
// votes per row; the two channels intentionally aggregate differently.
// Returns the score, the counted rows, and the distinct session count.
func PublicVoteScore(rows []sharedtypes.VoteRow, criteria CriterionSet) (sharedtypes.Score, int, int) {
	var sum sharedtypes.Score
	counted := 0
	sessions := make(map[sharedtypes.SessionID]bool)
	for _, row := range rows {
		if !criteria[row.CriterionID] {
			continue
		}
		sum += row.Score
		counted++
		sessions[row.SessionID] = true
	}
	if counted == 0 {
		return 0, 0, 0
	}
	return sum / sharedtypes.Score(counted), counted, len(sessions)
}

// FinalScore combines the two channels with the fixed 90/10 weighting.
func FinalScore(judgeScore, publicScore sharedtypes.Score) sharedtypes.Score {
	return judgeScore*JudgeWeight + publicScore*PublicWeight
}

// ComputeTeamAggregate derives one team's full score state from its raw rows.
func ComputeTeamAggregate(
	team sharedtypes.TeamInfo,
	scoreRows []sharedtypes.ScoreRow,
	voteRows []sharedtypes.VoteRow,
	criteria CriterionSet,
) TeamAggregate {
	subtotals, skipped := JudgeSubtotals(scoreRows, criteria)
	judgeScore := TeamJudgeScore(subtotals)
	publicScore, numVotes, sessions := PublicVoteScore(voteRows, criteria)

	return TeamAggregate{
		Team:          team,
		JudgeScore:    judgeScore,
		NumJudges:     len(subtotals),
		PublicScore:   publicScore,
		NumVotes:      numVotes,
		VoterSessions: sessions,
		FinalScore:    FinalScore(judgeScore, publicScore),
		SkippedRows:   skipped,
	}
}

// Rank orders team aggregates into standings: final score descending, team
// number ascending on equal scores. The tie-break makes equal-score ordering
// deterministic across recomputations, so ranks never flap between refreshes.
func Rank(aggregates []TeamAggregate) []Standing {
	sorted := make([]TeamAggregate, len(aggregates))
	copy(sorted, aggregates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].FinalScore != sorted[j].FinalScore {
			return sorted[i].FinalScore > sorted[j].FinalScore
		}
		return sorted[i].Team.TeamNumber < sorted[j].Team.TeamNumber
	})

	standings := make([]Standing, len(sorted))
	for i, agg := range sorted {
		standings[i] = Standing{
			Rank:          i + 1,
			TeamID:        agg.Team.ID,
			TeamName:      agg.Team.Name,
			TeamNumber:    agg.Team.TeamNumber,
			JudgeScore:    agg.JudgeScore,
			NumJudges:     agg.NumJudges,
			PublicScore:   agg.PublicScore,
			NumVotes:      agg.NumVotes,
			VoterSessions: agg.VoterSessions,
			FinalScore:    agg.FinalScore,
		}
	}
	return standings
}
