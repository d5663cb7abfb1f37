package batch

import (
	"math"
	"sort"

	"github.com/jonathan/resume-tailor/internal/types"
)

const maxRareKeywords = 10

// Compare summarizes batch results. It returns nil for an empty batch.
func Compare(results []types.BatchResult) *types.BatchComparison {
	if len(results) == 0 {
		return nil
	}

	var matchSum, atsSum int
	best, worst := results[0], results[0]
	for _, r := range results {
		matchSum += r.MatchScore
		atsSum += r.ATSScore
		if r.MatchScore > best.MatchScore {
			best = r
		}
		if r.MatchScore <= worst.MatchScore {
			worst = r
		}
	}

	n := float64(len(results))
	return &types.BatchComparison{
		TotalJobs:         len(results),
		AverageMatchScore: int(math.Round(float64(matchSum) / n)),
		AverageATSScore:   int(math.Round(float64(atsSum) / n)),
		BestMatch:         jobRef(best),
		WorstMatch:        jobRef(worst),
		ScoreRange:        types.ScoreRange{Min: worst.MatchScore, Max: best.MatchScore},
	}
}

func jobRef(r types.BatchResult) types.BatchJobRef {
	return types.BatchJobRef{
		JobID:       r.JobID,
		CompanyName: r.CompanyName,
		RoleName:    r.RoleName,
		MatchScore:  r.MatchScore,
	}
}

// CommonKeywords buckets matched keywords by how many results share them.
// Universal keywords appear in every result, frequent ones in at least half,
// and the ten most common of the rest are rare.
func CommonKeywords(results []types.BatchResult) types.CommonKeywords {
	common := types.CommonKeywords{
		Universal: []string{},
		Frequent:  []types.KeywordCount{},
		Rare:      []types.KeywordCount{},
	}
	if len(results) == 0 {
		return common
	}

	counts := make(map[string]int)
	var order []string
	for _, r := range results {
		seen := make(map[string]bool)
		for _, kw := range r.Keywords.Matched {
			if seen[kw] {
				continue
			}
			seen[kw] = true
			if _, ok := counts[kw]; !ok {
				order = append(order, kw)
			}
			counts[kw]++
		}
	}

	total := len(results)
	threshold := int(math.Ceil(float64(total) * 0.5))
	for _, kw := range order {
		count := counts[kw]
		switch {
		case count == total:
			common.Universal = append(common.Universal, kw)
		case count >= threshold:
			common.Frequent = append(common.Frequent, types.KeywordCount{Keyword: kw, Count: count})
		default:
			common.Rare = append(common.Rare, types.KeywordCount{Keyword: kw, Count: count})
		}
	}

	byCount := func(s []types.KeywordCount) func(i, j int) bool {
		return func(i, j int) bool { return s[i].Count > s[j].Count }
	}
	sort.SliceStable(common.Frequent, byCount(common.Frequent))
	sort.SliceStable(common.Rare, byCount(common.Rare))
	if len(common.Rare) > maxRareKeywords {
		common.Rare = common.Rare[:maxRareKeywords]
	}
	return common
}
