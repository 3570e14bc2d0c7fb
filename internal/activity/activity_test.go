package activity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"showroom/internal/activity"
)

func TestKindOf(t *testing.T) {
	t.Run("maps known actions", func(t *testing.T) {
		assert.Equal(t, activity.KindVisit, activity.KindOf("visit"))
		assert.Equal(t, activity.KindSubmit, activity.KindOf("submit_website"))
		assert.Equal(t, activity.KindFollow, activity.KindOf("follow"))
	})

	t.Run("unknown actions map to other", func(t *testing.T) {
		assert.Equal(t, activity.KindOther, activity.KindOf("share_to_social"))
		assert.Equal(t, activity.KindOther, activity.KindOf(""))
	})
}

func TestDecode(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("decodes known action with metadata", func(t *testing.T) {
		record := activity.Record{
			Action:     "like",
			Meta:       `{"website_id": 42, "source": "feed"}`,
			OccurredAt: at,
		}

		action := activity.Decode(record)
		assert.Equal(t, activity.KindLike, action.Kind)
		assert.Equal(t, "like", action.Name)
		assert.Equal(t, "feed", action.Meta["source"])
	})

	t.Run("unknown action keeps its name and metadata", func(t *testing.T) {
		record := activity.Record{
			Action: "share_to_social",
			Meta:   `{"network": "mastodon"}`,
		}

		action := activity.Decode(record)
		assert.Equal(t, activity.KindOther, action.Kind)
		assert.Equal(t, "share_to_social", action.Name)
		assert.Equal(t, "mastodon", action.Meta["network"])
	})

	t.Run("invalid metadata is dropped, not fatal", func(t *testing.T) {
		record := activity.Record{
			Action: "visit",
			Meta:   `{not json`,
		}

		action := activity.Decode(record)
		assert.Equal(t, activity.KindVisit, action.Kind)
		assert.Nil(t, action.Meta)
	})

	t.Run("empty metadata stays nil", func(t *testing.T) {
		action := activity.Decode(activity.Record{Action: "browse"})
		assert.Nil(t, action.Meta)
	})
}
