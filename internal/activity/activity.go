// Package activity defines the user activity record model and the typed set
// of action kinds the metrics engine understands.
package activity

import (
	"encoding/json"
	"time"
)

// Kind identifies a known action type. Records carrying an action outside
// this set decode to KindOther with their metadata preserved as an opaque map.
type Kind string

const (
	KindVisit   Kind = "visit"
	KindLike    Kind = "like"
	KindComment Kind = "comment"
	KindSubmit  Kind = "submit_website"
	KindFollow  Kind = "follow"
	KindSearch  Kind = "search"
	KindBrowse  Kind = "browse"
	KindOther   Kind = "other"
)

var knownKinds = map[Kind]bool{
	KindVisit:   true,
	KindLike:    true,
	KindComment: true,
	KindSubmit:  true,
	KindFollow:  true,
	KindSearch:  true,
	KindBrowse:  true,
}

// Record is one user action captured by the platform. Meta holds free-form
// JSON attached by the producing workflow.
type Record struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	UserID     int64  `gorm:"index;not null"`
	WebsiteID  *int64 `gorm:"index"`
	Action     string `gorm:"index;not null"`
	Meta       string
	OccurredAt time.Time `gorm:"index;not null"`
	CreatedAt  time.Time
}

func (Record) TableName() string {
	return "activity_records"
}

// Action is the decoded form of a record's action field: a known kind, or
// KindOther carrying the raw action name and its metadata map.
type Action struct {
	Kind Kind
	Name string
	Meta map[string]any
}

// KindOf maps an action name to its kind, defaulting to KindOther.
func KindOf(action string) Kind {
	k := Kind(action)
	if knownKinds[k] {
		return k
	}
	return KindOther
}

// Decode resolves a record into a typed Action. Metadata that is not valid
// JSON is dropped rather than surfaced as a parse failure; the frequency and
// hour-bucket logic only depends on the action name and timestamp.
func Decode(r Record) Action {
	a := Action{
		Kind: KindOf(r.Action),
		Name: r.Action,
	}

	if r.Meta != "" {
		meta := map[string]any{}
		if err := json.Unmarshal([]byte(r.Meta), &meta); err == nil {
			a.Meta = meta
		}
	}

	return a
}
