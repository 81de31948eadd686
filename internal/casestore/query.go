package casestore

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/viral-studio/internal/models"
)

// Apply filters and orders a collection in insertion order per the query.
// Sorting is stable: equal keys keep their original relative order. The
// input slice is not modified.
func Apply(cases []*models.Case, q Query) []*models.Case {
	allowed := make(map[models.Platform]bool, len(q.Platforms))
	for _, p := range q.Platforms {
		allowed[p] = true
	}

	keyword := strings.ToLower(strings.TrimSpace(q.Keyword))

	result := make([]*models.Case, 0, len(cases))
	for _, c := range cases {
		if !allowed[c.Platform] {
			continue
		}
		if keyword != "" && !matchesKeyword(c, keyword) {
			continue
		}
		result = append(result, c)
	}

	switch q.SortKey {
	case SortImpactDesc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].InteractionScore > result[j].InteractionScore
		})
	case SortPublishDesc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].CanonicalPublishTime() > result[j].CanonicalPublishTime()
		})
	case SortAddedDesc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].AddedTime > result[j].AddedTime
		})
	}

	return result
}

// matchesKeyword reports a case-insensitive substring match against the
// title, content or author
func matchesKeyword(c *models.Case, keyword string) bool {
	return strings.Contains(strings.ToLower(c.Title), keyword) ||
		strings.Contains(strings.ToLower(c.Content), keyword) ||
		strings.Contains(strings.ToLower(c.Author), keyword)
}

// generatedIDPrefix is the namespace for repository-assigned case ids
const generatedIDPrefix = "VC"

// NextCaseID computes the next sequential id in the VCnnnn namespace:
// max(existing VC numbers)+1. Scanning the whole collection rather than
// keeping a counter tolerates gaps and out-of-order ids. The first assigned
// id is VC0001.
func NextCaseID(cases []*models.Case) string {
	max := 0
	for _, c := range cases {
		if !strings.HasPrefix(c.ID, generatedIDPrefix) {
			continue
		}
		n, err := strconv.Atoi(c.ID[len(generatedIDPrefix):])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%04d", generatedIDPrefix, max+1)
}
