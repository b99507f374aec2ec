package league

import (
	"github.com/google/uuid"
)

// TeamPair is one unordered round-robin pairing.
type TeamPair struct {
	Team1 uuid.UUID
	Team2 uuid.UUID
}

// RoundRobinPairs enumerates all C(n,2) unordered pairs exactly once,
// pair (i,j) for i<j over team index order.
func RoundRobinPairs(teamIDs []uuid.UUID) []TeamPair {
	var pairs []TeamPair
	for i := 0; i < len(teamIDs); i++ {
		for j := i + 1; j < len(teamIDs); j++ {
			pairs = append(pairs, TeamPair{Team1: teamIDs[i], Team2: teamIDs[j]})
		}
	}
	return pairs
}

// WeeksNeeded is the number of weekly buckets required to place every
// pair at one matchup per lane per week.
func WeeksNeeded(pairCount, laneCount int) int {
	if laneCount <= 0 {
		return 0
	}
	return (pairCount + laneCount - 1) / laneCount
}

// PartitionWeeks fills weekly buckets in pair-generation order, each
// week consuming up to laneCount pairs. Pairs beyond maxWeeks weeks are
// returned separately and simply not scheduled.
func PartitionWeeks(pairs []TeamPair, laneCount, maxWeeks int) (weeks [][]TeamPair, unscheduled []TeamPair) {
	if laneCount <= 0 {
		return nil, pairs
	}
	for i := 0; i < len(pairs); i += laneCount {
		if len(weeks) >= maxWeeks {
			unscheduled = pairs[i:]
			break
		}
		end := i + laneCount
		if end > len(pairs) {
			end = len(pairs)
		}
		weeks = append(weeks, pairs[i:end])
	}
	return weeks, unscheduled
}
