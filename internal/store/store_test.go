package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showroom/internal/activity"
	"showroom/internal/store"
	"showroom/internal/testsupport"
	"showroom/internal/timeframe"
	"showroom/internal/users"
	"showroom/internal/websites"
)

func mustFrame(t *testing.T, from, to time.Time) timeframe.TimeFrame {
	t.Helper()
	tf, err := timeframe.New(from, to)
	require.NoError(t, err)
	return tf
}

func TestStoreCounts(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	st := store.New(db)
	ctx := context.Background()

	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	alice := testsupport.CreateTestUser(t, db, "alice@example.com", march.AddDate(0, 0, 1))
	bob := testsupport.CreateTestUser(t, db, "bob@example.com", march.AddDate(0, 0, 3))
	carol := testsupport.CreateTestUser(t, db, "carol@example.com", march.AddDate(0, -1, 0))

	site := testsupport.CreateTestWebsite(t, db, alice.ID, "Alice Portfolio", "portfolio", websites.StatusApproved, march.AddDate(0, 0, 2))
	testsupport.CreateTestWebsite(t, db, bob.ID, "Bob Blog", "blog", websites.StatusPending, march.AddDate(0, 0, 4))

	testsupport.CreateTestActivity(t, db, alice.ID, &site.ID, "visit", march.AddDate(0, 0, 2).Add(10*time.Hour))
	testsupport.CreateTestActivity(t, db, alice.ID, &site.ID, "like", march.AddDate(0, 0, 2).Add(11*time.Hour))
	testsupport.CreateTestActivity(t, db, bob.ID, &site.ID, "visit", march.AddDate(0, 0, 5).Add(9*time.Hour))

	period := mustFrame(t, march, march.AddDate(0, 0, 7))

	t.Run("totals and period counts", func(t *testing.T) {
		total, err := st.TotalUsers(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)

		newUsers, err := st.NewUsers(ctx, period)
		require.NoError(t, err)
		assert.Equal(t, int64(2), newUsers)

		active, err := st.ActiveUsers(ctx, period)
		require.NoError(t, err)
		assert.Equal(t, int64(2), active)

		interactions, err := st.TotalInteractions(ctx, period)
		require.NoError(t, err)
		assert.Equal(t, int64(3), interactions)
	})

	t.Run("website counts by status", func(t *testing.T) {
		total, err := st.TotalWebsites(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)

		approved, err := st.ApprovedWebsites(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), approved)

		created, err := st.WebsitesCreated(ctx, period)
		require.NoError(t, err)
		assert.Equal(t, int64(2), created)
	})

	t.Run("day counts cover exactly one day", func(t *testing.T) {
		day := timeframe.Day(march.AddDate(0, 0, 2))

		counts, err := st.CountsForDay(ctx, day)
		require.NoError(t, err)
		assert.Equal(t, int64(0), counts.Users)
		assert.Equal(t, int64(1), counts.Websites)
		assert.Equal(t, int64(2), counts.Interactions)
	})

	t.Run("groupings come back busiest first", func(t *testing.T) {
		categories, err := st.CategoryCounts(ctx, period)
		require.NoError(t, err)
		require.Len(t, categories, 2)
		assert.Equal(t, int64(1), categories[0].Count)

		statuses, err := st.StatusCounts(ctx)
		require.NoError(t, err)
		require.Len(t, statuses, 2)
	})

	t.Run("returning users must predate the period", func(t *testing.T) {
		// Alice and Bob are active but signed up inside the period.
		returning, err := st.ReturningUsers(ctx, period)
		require.NoError(t, err)
		assert.Zero(t, returning)

		testsupport.CreateTestActivity(t, db, carol.ID, nil, "visit", march.AddDate(0, 0, 6))

		returning, err = st.ReturningUsers(ctx, period)
		require.NoError(t, err)
		assert.Equal(t, int64(1), returning)
	})
}

func TestStoreCohortQueries(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	st := store.New(db)
	ctx := context.Background()

	feb := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	u1 := testsupport.CreateTestUser(t, db, "u1@example.com", feb)
	u2 := testsupport.CreateTestUser(t, db, "u2@example.com", feb.AddDate(0, 0, 3))
	u3 := testsupport.CreateTestUser(t, db, "u3@example.com", feb.AddDate(0, 0, 10))

	testsupport.CreateTestActivity(t, db, u1.ID, nil, "visit", feb.AddDate(0, 0, 7).Add(2*time.Hour))
	testsupport.CreateTestActivity(t, db, u1.ID, nil, "like", feb.AddDate(0, 0, 7).Add(3*time.Hour))
	testsupport.CreateTestActivity(t, db, u3.ID, nil, "visit", feb.AddDate(0, 0, 7).Add(4*time.Hour))

	t.Run("signup window is closed on both ends", func(t *testing.T) {
		ids, err := st.SignupsBetween(ctx, feb, feb.AddDate(0, 0, 3))
		require.NoError(t, err)
		assert.Equal(t, []int64{u1.ID, u2.ID}, ids)
	})

	t.Run("active member count is distinct and membership-scoped", func(t *testing.T) {
		from := feb.AddDate(0, 0, 7)
		to := feb.AddDate(0, 0, 8)

		// u1 has two records in the window but counts once; u3 is active
		// but outside the membership list.
		count, err := st.ActiveMemberCount(ctx, []int64{u1.ID, u2.ID}, from, to)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("empty membership short-circuits to zero", func(t *testing.T) {
		count, err := st.ActiveMemberCount(ctx, nil, feb, feb.AddDate(0, 0, 30))
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("distinct user count filters by action", func(t *testing.T) {
		count, err := st.DistinctUserCount(ctx, "visit", feb, feb.AddDate(0, 1, 0))
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		count, err = st.DistinctUserCount(ctx, "like", feb, feb.AddDate(0, 1, 0))
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestStoreUserQueries(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	st := store.New(db)
	ctx := context.Background()

	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	owner := testsupport.CreateTestUser(t, db, "owner@example.com", start)
	fan := testsupport.CreateTestUser(t, db, "fan@example.com", start)

	popular := testsupport.CreateTestWebsite(t, db, owner.ID, "Popular Site", "portfolio", websites.StatusApproved, start)
	quiet := testsupport.CreateTestWebsite(t, db, owner.ID, "Quiet Site", "blog", websites.StatusApproved, start)
	db.Model(&websites.Website{}).Where("id = ?", popular.ID).
		Updates(map[string]any{"likes_count": 30, "views_count": 500})
	db.Model(&websites.Website{}).Where("id = ?", quiet.ID).
		Updates(map[string]any{"likes_count": 2, "views_count": 40})

	testsupport.CreateTestActivity(t, db, fan.ID, &popular.ID, "comment", start.AddDate(0, 0, 1))
	testsupport.CreateTestActivity(t, db, fan.ID, &popular.ID, "comment", start.AddDate(0, 0, 2))
	testsupport.CreateTestActivity(t, db, owner.ID, &quiet.ID, "like", start.AddDate(0, 0, 3))
	testsupport.CreateTestActivity(t, db, owner.ID, nil, "follow", start.AddDate(0, 0, 4))

	t.Run("user lookup round-trips", func(t *testing.T) {
		found, err := st.UserByID(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, "owner@example.com", found.Email)

		_, err = st.UserByID(ctx, 99999)
		assert.ErrorIs(t, err, users.ErrUserNotFound)
	})

	t.Run("recent activity is newest first and capped", func(t *testing.T) {
		records, err := st.RecentActivity(ctx, owner.ID, 1)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "follow", records[0].Action)
	})

	t.Run("engagement received sums counters and comment records", func(t *testing.T) {
		totals, err := st.EngagementReceived(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(32), totals.Likes)
		assert.Equal(t, int64(540), totals.Views)
		assert.Equal(t, int64(2), totals.Comments)
	})

	t.Run("contribution totals count given actions", func(t *testing.T) {
		totals, err := st.ContributionTotals(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), totals.LikesGiven)
		assert.Equal(t, int64(0), totals.CommentsGiven)
		assert.Equal(t, int64(1), totals.FollowsGiven)
	})

	t.Run("top websites rank by reception", func(t *testing.T) {
		stats, err := st.TopWebsitesByUser(ctx, owner.ID, 5)
		require.NoError(t, err)
		require.Len(t, stats, 2)
		assert.Equal(t, "Popular Site", stats[0].Title)
		assert.Equal(t, int64(30), stats[0].Likes)
	})

	t.Run("owned website count", func(t *testing.T) {
		owned, err := st.OwnedWebsiteCount(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), owned)
	})

	t.Run("weekly buckets cover the trailing window", func(t *testing.T) {
		recent := testsupport.CreateTestUser(t, db, "recent@example.com", start)
		now := time.Now().UTC()
		testsupport.CreateTestActivity(t, db, recent.ID, nil, "visit", now.Add(-2*24*time.Hour))
		testsupport.CreateTestActivity(t, db, recent.ID, nil, "visit", now.Add(-3*24*time.Hour))
		testsupport.CreateTestActivity(t, db, recent.ID, nil, "visit", now.Add(-10*24*time.Hour))

		counts, err := st.WeeklyActivityCounts(ctx, recent.ID, 4)
		require.NoError(t, err)
		require.Len(t, counts, 4)

		var total int64
		for _, c := range counts {
			total += c
		}
		assert.Equal(t, int64(3), total)
		assert.Equal(t, int64(2), counts[3])
	})
}

func TestStoreRankings(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	st := store.New(db)
	ctx := context.Background()

	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	period := mustFrame(t, start, start.AddDate(0, 0, 7))

	maker := testsupport.CreateTestUser(t, db, "maker@example.com", start)
	lurker := testsupport.CreateTestUser(t, db, "lurker@example.com", start)

	hot := testsupport.CreateTestWebsite(t, db, maker.ID, "Hot", "portfolio", websites.StatusApproved, start)
	cold := testsupport.CreateTestWebsite(t, db, maker.ID, "Cold", "portfolio", websites.StatusApproved, start)

	for i := 0; i < 3; i++ {
		testsupport.CreateTestActivity(t, db, lurker.ID, &hot.ID, "visit", start.Add(time.Duration(i+1)*time.Hour))
	}
	testsupport.CreateTestActivity(t, db, maker.ID, &cold.ID, "visit", start.Add(time.Hour))
	// Outside the period, must not count.
	testsupport.CreateTestActivity(t, db, lurker.ID, &cold.ID, "visit", start.AddDate(0, 0, 10))

	t.Run("top websites rank by in-period interactions", func(t *testing.T) {
		ranked, err := st.TopWebsites(ctx, period, 10)
		require.NoError(t, err)
		require.Len(t, ranked, 2)
		assert.Equal(t, "Hot", ranked[0].Title)
		assert.Equal(t, int64(3), ranked[0].Interactions)
		assert.Equal(t, int64(1), ranked[1].Interactions)
	})

	t.Run("top users rank by in-period actions", func(t *testing.T) {
		ranked, err := st.TopUsers(ctx, period, 10)
		require.NoError(t, err)
		require.Len(t, ranked, 2)
		assert.Equal(t, lurker.ID, ranked[0].UserID)
		assert.Equal(t, int64(3), ranked[0].Interactions)
	})

	t.Run("limit bounds the list", func(t *testing.T) {
		ranked, err := st.TopWebsites(ctx, period, 1)
		require.NoError(t, err)
		assert.Len(t, ranked, 1)
	})
}

func TestStorePruneActivity(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	st := store.New(db)
	ctx := context.Background()

	user := testsupport.CreateTestUser(t, db, "old@example.com", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	testsupport.CreateTestActivity(t, db, user.ID, nil, "visit", cutoff.AddDate(-1, 0, 0))
	testsupport.CreateTestActivity(t, db, user.ID, nil, "visit", cutoff.AddDate(0, 0, -1))
	testsupport.CreateTestActivity(t, db, user.ID, nil, "visit", cutoff.AddDate(0, 0, 1))

	deleted, err := st.PruneActivityBefore(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	var remaining int64
	require.NoError(t, db.Model(&activity.Record{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}
