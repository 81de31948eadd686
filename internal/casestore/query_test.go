package casestore

import (
	"testing"

	"github.com/viral-studio/internal/models"
)

func testCases() []*models.Case {
	return []*models.Case{
		{
			ID:               "VC0001",
			Title:            "Tariff shock explained",
			Author:           "Han Lu",
			Content:          "Counter-tariffs on large cars",
			Platform:         models.PlatformWeibo,
			InteractionScore: 51.3,
			PublishTime:      models.StringSlice{"2025-02-04 13:29:03"},
			AddedTime:        "2025-03-04 16:02:00",
		},
		{
			ID:               "VC0005",
			Title:            "Ten minute workout",
			Author:           "Coach Wei",
			Content:          "No equipment needed",
			Platform:         models.PlatformBilibili,
			InteractionScore: 88.9,
			PublishTime:      models.StringSlice{"2025-02-10 08:00:00"},
			AddedTime:        "2025-03-01 09:00:00",
		},
		{
			ID:               "custom-id",
			Title:            "Tariffs and you",
			Author:           "Anon",
			Content:          "A TARIFF deep dive",
			Platform:         models.PlatformWeChat,
			InteractionScore: 51.3,
			PublishTime:      models.StringSlice{"2025-01-01 12:00:00"},
			AddedTime:        "2025-03-05 10:00:00",
		},
	}
}

func TestApply_EmptyPlatformsMatchesNothing(t *testing.T) {
	got := Apply(testCases(), Query{Platforms: nil, Keyword: "tariff", SortKey: SortImpactDesc})
	if len(got) != 0 {
		t.Errorf("Apply() with empty platform set returned %d cases, want 0", len(got))
	}
}

func TestApply_KeywordMatchesTitleContentAuthor(t *testing.T) {
	all := testCases()

	tests := []struct {
		name    string
		keyword string
		wantIDs []string
	}{
		{"title match, case-insensitive", "TARIFF SHOCK", []string{"VC0001"}},
		{"content match", "tariff", []string{"VC0001", "custom-id"}},
		{"author match", "coach", []string{"VC0005"}},
		{"no match", "quantum", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(all, Query{Platforms: models.Platforms, Keyword: tt.keyword})
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("Apply(%q) returned %d cases, want %d", tt.keyword, len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("Apply(%q)[%d].ID = %s, want %s", tt.keyword, i, got[i].ID, id)
				}
			}
		})
	}
}

func TestApply_PlatformFilter(t *testing.T) {
	got := Apply(testCases(), Query{Platforms: []models.Platform{models.PlatformWeibo, models.PlatformWeChat}})
	if len(got) != 2 {
		t.Fatalf("Apply() returned %d cases, want 2", len(got))
	}
	if got[0].ID != "VC0001" || got[1].ID != "custom-id" {
		t.Errorf("Apply() = [%s, %s], want [VC0001, custom-id]", got[0].ID, got[1].ID)
	}
}

func TestApply_SortImpactDescStable(t *testing.T) {
	got := Apply(testCases(), Query{Platforms: models.Platforms, SortKey: SortImpactDesc})
	if len(got) != 3 {
		t.Fatalf("Apply() returned %d cases, want 3", len(got))
	}
	// 88.9 first; the two 51.3 entries keep insertion order
	wantIDs := []string{"VC0005", "VC0001", "custom-id"}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("Apply()[%d].ID = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestApply_SortPublishAndAddedDesc(t *testing.T) {
	byPublish := Apply(testCases(), Query{Platforms: models.Platforms, SortKey: SortPublishDesc})
	if byPublish[0].ID != "VC0005" || byPublish[2].ID != "custom-id" {
		t.Errorf("publish sort = [%s %s %s]", byPublish[0].ID, byPublish[1].ID, byPublish[2].ID)
	}

	byAdded := Apply(testCases(), Query{Platforms: models.Platforms, SortKey: SortAddedDesc})
	if byAdded[0].ID != "custom-id" || byAdded[2].ID != "VC0005" {
		t.Errorf("added sort = [%s %s %s]", byAdded[0].ID, byAdded[1].ID, byAdded[2].ID)
	}
}

func TestApply_SortNoneKeepsInsertionOrder(t *testing.T) {
	got := Apply(testCases(), Query{Platforms: models.Platforms, SortKey: SortNone})
	wantIDs := []string{"VC0001", "VC0005", "custom-id"}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("Apply()[%d].ID = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	all := testCases()
	Apply(all, Query{Platforms: models.Platforms, SortKey: SortImpactDesc})
	if all[0].ID != "VC0001" {
		t.Errorf("Apply() reordered its input, first id now %s", all[0].ID)
	}
}

func TestNextCaseID(t *testing.T) {
	tests := []struct {
		name  string
		ids   []string
		want  string
	}{
		{"empty collection", nil, "VC0001"},
		{"no VC ids", []string{"sample", "custom"}, "VC0001"},
		{"sequential", []string{"VC0001", "VC0002"}, "VC0003"},
		{"gaps tolerated", []string{"VC0001", "VC0007"}, "VC0008"},
		{"out of order", []string{"VC0009", "VC0002"}, "VC0010"},
		{"mixed with curated ids", []string{"sample", "VC0003", "weird-VC"}, "VC0004"},
		{"non-numeric suffix ignored", []string{"VC12ab", "VC0002"}, "VC0003"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cases := make([]*models.Case, len(tt.ids))
			for i, id := range tt.ids {
				cases[i] = &models.Case{ID: id}
			}
			if got := NextCaseID(cases); got != tt.want {
				t.Errorf("NextCaseID(%v) = %s, want %s", tt.ids, got, tt.want)
			}
		})
	}
}
