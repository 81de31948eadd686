package casestore

import "github.com/viral-studio/internal/models"

// Seed returns the built-in bootstrap collection used when no store exists
// yet. A fresh install gets one real case so every flow can be exercised
// before any data is imported.
func Seed() []*models.Case {
	return []*models.Case{
		{
			ID:               "sample",
			Title:            "#China imposes additional tariffs on selected US imports#",
			Author:           "Han Lu",
			InteractionScore: 51.3492063492063,
			Content: "China's counter-tariffs have landed: large-displacement cars +10%. " +
				"Glad I already picked up my F-150 Raptor. " +
				"Note: anything above 2.5L (exclusive) counts as large displacement. " +
				"#China imposes additional tariffs on selected US imports#",
			Region:      models.StringSlice{"China", "United States"},
			Theme:       models.StringSlice{"economy-tariffs"},
			PublishTime: models.StringSlice{"2025-02-04 13:29:03"},
			Platform:    models.PlatformWeibo,
			Link:        "https://www.weibo.com/1192966660/PcIKnBqdT",
			AddedTime:   "2025-03-04 16:02:00",
		},
	}
}
