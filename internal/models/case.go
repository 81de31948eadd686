package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Platform identifies the social platform a case was published on
type Platform string

const (
	PlatformWeChat   Platform = "wechat"
	PlatformBilibili Platform = "bilibili"
	PlatformWeibo    Platform = "weibo"
)

// Platforms lists every supported platform
var Platforms = []Platform{PlatformWeChat, PlatformBilibili, PlatformWeibo}

// IsValid reports whether the platform is one of the supported set
func (p Platform) IsValid() bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

// TimeLayout is the timestamp format used in the case store
const TimeLayout = "2006-01-02 15:04:05"

// StringSlice is a custom type for storing string arrays in JSON
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	return json.Unmarshal(value.([]byte), s)
}

// Case represents one piece of viral source content in the repository
type Case struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Author           string      `json:"author"`
	InteractionScore float64     `json:"interaction_score"`
	Content          string      `json:"content"`
	Region           StringSlice `json:"region"`
	Theme            StringSlice `json:"theme"`
	PublishTime      StringSlice `json:"publish_time"`
	Platform         Platform    `json:"platform"`
	Link             string      `json:"link"`
	AddedTime        string      `json:"added_time"`
}

// DisplayScore returns the interaction score for display. The fractional
// part is discarded, never rounded up.
func (c *Case) DisplayScore() int {
	return int(c.InteractionScore)
}

// CanonicalPublishTime returns the first (canonical) publish time entry,
// or an empty string when no publish time is recorded.
func (c *Case) CanonicalPublishTime() string {
	if len(c.PublishTime) == 0 {
		return ""
	}
	return c.PublishTime[0]
}

// RawCase represents an unnormalized case fetched from an acquisition source
type RawCase struct {
	Title            string
	Author           string
	Content          string
	Link             string
	Platform         Platform
	Region           []string
	Theme            []string
	InteractionScore float64
	PublishedAt      time.Time
}

// ToCase converts a raw case to a repository case. The id is left empty so
// the repository assigns the next VC-numbered one on append.
func (r *RawCase) ToCase(now time.Time) *Case {
	return &Case{
		Title:            r.Title,
		Author:           r.Author,
		InteractionScore: r.InteractionScore,
		Content:          r.Content,
		Region:           r.Region,
		Theme:            r.Theme,
		PublishTime:      StringSlice{r.PublishedAt.Format(TimeLayout)},
		Platform:         r.Platform,
		Link:             r.Link,
		AddedTime:        now.Format(TimeLayout),
	}
}
