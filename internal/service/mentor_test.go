package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/himanshu-anonymous/CookMate/internal/mentor"
	"github.com/himanshu-anonymous/CookMate/internal/models"
	"github.com/himanshu-anonymous/CookMate/internal/pantry"
	"github.com/himanshu-anonymous/CookMate/internal/testhelpers"
	"github.com/himanshu-anonymous/CookMate/internal/types"
)

type mentorFixture struct {
	db     *gorm.DB
	chef   *stubChef
	drafts *MemoryDraftStore
	svc    *MentorService
	user   *models.User
}

func newMentorFixture(t *testing.T, aiDeductions bool) *mentorFixture {
	t.Helper()
	db := testhelpers.SetupSQLite(t)
	chef := &stubChef{}
	drafts := NewMemoryDraftStore()
	return &mentorFixture{
		db:     db,
		chef:   chef,
		drafts: drafts,
		svc: NewMentorService(MentorConfig{
			DB:           db,
			Chef:         chef,
			Drafts:       drafts,
			AIDeductions: aiDeductions,
		}),
		user: testhelpers.CreateUser(t, db, "asha"),
	}
}

func (f *mentorFixture) start(t *testing.T) uint64 {
	t.Helper()
	resp, err := f.svc.StartSession(context.Background(), &types.StartSessionRequest{
		UserID:      f.user.ID,
		RecipeTitle: "Chicken Curry",
	})
	require.NoError(t, err)
	return resp.SessionID
}

func (f *mentorFixture) end(t *testing.T, id uint64, rating int, leftovers bool, consumed ...string) *types.EndSessionResponse {
	t.Helper()
	resp, err := f.svc.EndSession(context.Background(), &types.EndSessionRequest{
		SessionID:           id,
		Rating:              rating,
		Leftovers:           leftovers,
		IngredientsConsumed: consumed,
	})
	require.NoError(t, err)
	return resp
}

func TestStartSessionUnknownUser(t *testing.T) {
	f := newMentorFixture(t, false)

	_, err := f.svc.StartSession(context.Background(), &types.StartSessionRequest{UserID: 999, RecipeTitle: "Dal"})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Zero(t, f.svc.Registry().Len())
}

func TestStartSessionRequiresTitle(t *testing.T) {
	f := newMentorFixture(t, false)

	_, err := f.svc.StartSession(context.Background(), &types.StartSessionRequest{UserID: f.user.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestStartSessionDefaultStep(t *testing.T) {
	f := newMentorFixture(t, false)

	resp, err := f.svc.StartSession(context.Background(), &types.StartSessionRequest{UserID: f.user.ID, RecipeTitle: "Dal"})
	require.NoError(t, err)
	assert.Equal(t, "Let's start cooking.", resp.Message)
	assert.Equal(t, 1, resp.StepNumber)
	assert.Equal(t, mentor.DefaultInstruction, resp.Instruction)
	assert.Equal(t, []int{mentor.DefaultDurationSeconds}, resp.AllStepTimers)
}

func TestStartSessionFromDraft(t *testing.T) {
	f := newMentorFixture(t, false)
	draft := &types.RecipeDraft{UserID: f.user.ID, Recipe: types.Recipe{
		DishName: "Poha",
		Steps: []models.CookingStep{
			{StepNumber: 1, Instruction: "Rinse poha", DurationSeconds: 30},
			{StepNumber: 2, Instruction: "Temper spices", DurationSeconds: 90},
		},
	}}
	require.NoError(t, f.drafts.SaveDraft(context.Background(), draft))

	resp, err := f.svc.StartSession(context.Background(), &types.StartSessionRequest{UserID: f.user.ID, DraftID: draft.ID})
	require.NoError(t, err)
	assert.Equal(t, "Rinse poha", resp.Instruction)
	assert.Equal(t, []int{30, 90}, resp.AllStepTimers)

	session, err := f.svc.Registry().Get(resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "Poha", session.RecipeTitle)

	other := testhelpers.CreateUser(t, f.db, "ravi")
	_, err = f.svc.StartSession(context.Background(), &types.StartSessionRequest{UserID: other.ID, DraftID: draft.ID})
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestNextStepReachesFinishedMarker(t *testing.T) {
	f := newMentorFixture(t, false)
	resp, err := f.svc.StartSession(context.Background(), &types.StartSessionRequest{
		UserID:      f.user.ID,
		RecipeTitle: "Tea",
		Steps: []models.CookingStep{
			{StepNumber: 1, Instruction: "Boil water", DurationSeconds: 120},
			{StepNumber: 2, Instruction: "Add leaves", DurationSeconds: 60},
		},
	})
	require.NoError(t, err)

	next, err := f.svc.NextStep(context.Background(), resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 2, next.Step)
	assert.Equal(t, 60, next.Timer)
	assert.False(t, next.Finished)

	for i := 0; i < 3; i++ {
		next, err = f.svc.NextStep(context.Background(), resp.SessionID)
		require.NoError(t, err)
		assert.Equal(t, mentor.FinishedStepNumber, next.Step)
		assert.Equal(t, mentor.FinishedInstruction, next.Instruction)
		assert.Zero(t, next.Timer)
		assert.True(t, next.Finished)
	}

	_, err = f.svc.NextStep(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestEndSessionDeductsMatchedItem(t *testing.T) {
	f := newMentorFixture(t, false)
	chicken := testhelpers.CreateItem(t, f.db, f.user.ID, "Chicken Breast", 2.0)
	rice := testhelpers.CreateItem(t, f.db, f.user.ID, "Rice", 5.0)

	resp := f.end(t, f.start(t), 5, false, "1 kg Chicken Breast", "a pinch of saffron")

	assert.Equal(t, models.SessionCompleted, resp.Status)
	assert.Equal(t, 1, resp.InventoryUpdates)
	assert.Empty(t, resp.ReorderSuggestions)
	assert.Equal(t, DeductionSourceFixed, resp.DeductionSource)

	got := testhelpers.ReloadItem(t, f.db, chicken.ID)
	assert.Equal(t, 1.0, got.Quantity)
	assert.False(t, got.IsExhausted)
	assert.Equal(t, 5.0, testhelpers.ReloadItem(t, f.db, rice.ID).Quantity)
}

func TestEndSessionExhaustsAndSuggestsReorder(t *testing.T) {
	f := newMentorFixture(t, false)
	chicken := testhelpers.CreateItem(t, f.db, f.user.ID, "Chicken Breast", 0.5)

	resp := f.end(t, f.start(t), 4, false, "chicken breast, diced")

	got := testhelpers.ReloadItem(t, f.db, chicken.ID)
	assert.Equal(t, 0.0, got.Quantity)
	assert.True(t, got.IsExhausted)
	assert.Equal(t, []string{"Chicken Breast"}, resp.ReorderSuggestions)
}

func TestEndSessionRepeatedPhrasesAccumulate(t *testing.T) {
	f := newMentorFixture(t, false)
	eggs := testhelpers.CreateItem(t, f.db, f.user.ID, "Egg", 3.0)

	resp := f.end(t, f.start(t), 4, false, "1 egg", "another egg")

	assert.Equal(t, 1, resp.InventoryUpdates)
	assert.Equal(t, 1.0, testhelpers.ReloadItem(t, f.db, eggs.ID).Quantity)
}

func TestEndSessionPortionAndCounters(t *testing.T) {
	cases := []struct {
		name       string
		leftovers  bool
		rating     int
		multiplier float64
	}{
		{"leftovers shrink portion", true, 5, 0.9},
		{"leftovers win over low rating", true, 1, 0.9},
		{"low rating grows portion", false, 2, 1.05},
		{"good rating keeps portion", false, 5, 1.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newMentorFixture(t, false)

			resp := f.end(t, f.start(t), tc.rating, tc.leftovers)

			assert.InDelta(t, tc.multiplier, resp.PortionMultiplier, 1e-9)
			assert.Equal(t, mentor.XPReward, resp.NewXP)
			assert.Equal(t, 1, resp.CurrentStreak)

			user := testhelpers.ReloadUser(t, f.db, f.user.ID)
			assert.InDelta(t, tc.multiplier, user.PortionMultiplier, 1e-9)
			assert.Equal(t, mentor.XPReward, user.XPPoints)
			assert.NotNil(t, user.LastCookedDate)
		})
	}
}

func TestEndSessionTwiceIsNotFound(t *testing.T) {
	f := newMentorFixture(t, false)
	id := f.start(t)
	f.end(t, id, 5, false)

	_, err := f.svc.EndSession(context.Background(), &types.EndSessionRequest{SessionID: id, Rating: 5})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	user := testhelpers.ReloadUser(t, f.db, f.user.ID)
	assert.Equal(t, mentor.XPReward, user.XPPoints)
}

func TestEndSessionConcurrentCallsOneWins(t *testing.T) {
	f := newMentorFixture(t, false)
	id := f.start(t)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.EndSession(context.Background(), &types.EndSessionRequest{SessionID: id, Rating: 4})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrSessionNotFound)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, testhelpers.ReloadUser(t, f.db, f.user.ID).CurrentStreak)
}

func TestStreakBadgeAwardedOnce(t *testing.T) {
	f := newMentorFixture(t, false)

	var earned [][]string
	for i := 0; i < 5; i++ {
		earned = append(earned, f.end(t, f.start(t), 5, false).BadgesEarned)
	}

	assert.Empty(t, earned[0])
	assert.Empty(t, earned[1])
	assert.Equal(t, []string{mentor.StreakBadgeName}, earned[2])
	assert.Empty(t, earned[3])
	assert.Empty(t, earned[4])

	user := testhelpers.ReloadUser(t, f.db, f.user.ID)
	require.Len(t, user.Badges, 1)
	assert.Equal(t, mentor.StreakBadgeName, user.Badges[0].Name)
	assert.Equal(t, 5*mentor.XPReward, user.XPPoints)
	assert.Equal(t, 5, user.CurrentStreak)
}

func TestEndSessionPersistsRecord(t *testing.T) {
	f := newMentorFixture(t, false)
	id := f.start(t)
	_, err := f.svc.NextStep(context.Background(), id)
	require.NoError(t, err)
	f.end(t, id, 3, true)

	records, err := f.svc.ListSessions(context.Background(), f.user.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, id, records[0].SessionID)
	assert.Equal(t, "Chicken Curry", records[0].RecipeTitle)
	assert.Equal(t, 3, records[0].Rating)
	assert.True(t, records[0].Leftovers)
	assert.Equal(t, 1, records[0].StepsViewed)
	assert.Equal(t, models.SessionCompleted, records[0].Status)
	assert.False(t, records[0].EndedAt.Before(records[0].StartedAt))
}

func TestEndSessionRestoresOnFailure(t *testing.T) {
	f := newMentorFixture(t, false)
	id := f.start(t)
	require.NoError(t, f.db.Delete(&models.User{}, f.user.ID).Error)

	_, err := f.svc.EndSession(context.Background(), &types.EndSessionRequest{SessionID: id, Rating: 5})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.svc.Registry().Get(id)
	assert.NoError(t, err, "session is back in the registry for a retry")
}

func TestEndSessionRejectsBadRating(t *testing.T) {
	f := newMentorFixture(t, false)
	id := f.start(t)

	_, err := f.svc.EndSession(context.Background(), &types.EndSessionRequest{SessionID: id, Rating: 6})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.Registry().Get(id)
	assert.NoError(t, err)
}

func TestEndSessionUsesValidAIPlan(t *testing.T) {
	f := newMentorFixture(t, true)
	rice := testhelpers.CreateItem(t, f.db, f.user.ID, "Rice", 2.0)
	f.chef.deductions = []pantry.Deduction{
		{ItemID: rice.ID, Amount: 0.25},
		{ItemID: 9999, Amount: 1},
		{ItemID: rice.ID, Amount: -3},
	}

	resp := f.end(t, f.start(t), 5, false, "quarter cup rice")

	assert.True(t, f.chef.deductCalled)
	assert.Equal(t, DeductionSourceAI, resp.DeductionSource)
	assert.Equal(t, 1.75, testhelpers.ReloadItem(t, f.db, rice.ID).Quantity)
}

func TestEndSessionFallsBackWhenAIPlanInvalid(t *testing.T) {
	f := newMentorFixture(t, true)
	rice := testhelpers.CreateItem(t, f.db, f.user.ID, "Rice", 2.0)
	f.chef.deductions = []pantry.Deduction{{ItemID: 9999, Amount: 1}}

	resp := f.end(t, f.start(t), 5, false, "rice")

	assert.Equal(t, DeductionSourceFixed, resp.DeductionSource)
	assert.Equal(t, 1.0, testhelpers.ReloadItem(t, f.db, rice.ID).Quantity)
}

func TestEndSessionFallsBackWhenAIDown(t *testing.T) {
	f := newMentorFixture(t, true)
	rice := testhelpers.CreateItem(t, f.db, f.user.ID, "Rice", 2.0)

	resp := f.end(t, f.start(t), 5, false, "rice")

	assert.True(t, f.chef.deductCalled)
	assert.Equal(t, DeductionSourceFixed, resp.DeductionSource)
	assert.Equal(t, 1.0, testhelpers.ReloadItem(t, f.db, rice.ID).Quantity)
}

func TestCheckProgress(t *testing.T) {
	f := newMentorFixture(t, false)
	id := f.start(t)

	check, err := f.svc.CheckProgress(context.Background(), id, "aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "error", check.Status)
	assert.Equal(t, "Vision system offline. Please check manually.", check.Message)

	f.chef.progress = &types.ProgressCheck{Status: "on_track", Message: "Looks golden"}
	check, err = f.svc.CheckProgress(context.Background(), id, "data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "on_track", check.Status)

	_, err = f.svc.CheckProgress(context.Background(), 404, "aGVsbG8=")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = f.svc.CheckProgress(context.Background(), id, "%%%")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListSessionsUnknownUser(t *testing.T) {
	f := newMentorFixture(t, false)

	_, err := f.svc.ListSessions(context.Background(), 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSweepIdleForgetsSession(t *testing.T) {
	f := newMentorFixture(t, false)
	id := f.start(t)

	assert.Zero(t, f.svc.SweepIdle(0))
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, f.svc.SweepIdle(5*time.Millisecond))

	_, err := f.svc.NextStep(context.Background(), id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = f.svc.EndSession(context.Background(), &types.EndSessionRequest{SessionID: id, Rating: 3})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestEndSessionSkipsEmptyRow(t *testing.T) {
	f := newMentorFixture(t, false)
	chicken := testhelpers.CreateItem(t, f.db, f.user.ID, "Chicken Breast", 0)
	before := testhelpers.ReloadItem(t, f.db, chicken.ID)

	resp := f.end(t, f.start(t), 4, false, "chicken breast")

	assert.Zero(t, resp.InventoryUpdates)
	assert.Empty(t, resp.ReorderSuggestions)
	got := testhelpers.ReloadItem(t, f.db, chicken.ID)
	assert.Equal(t, 0.0, got.Quantity)
	assert.True(t, got.IsExhausted)
	assert.True(t, got.UpdatedAt.Equal(before.UpdatedAt))
}

func TestStartSessionRejectsLongTitle(t *testing.T) {
	f := newMentorFixture(t, false)

	_, err := f.svc.StartSession(context.Background(), &types.StartSessionRequest{
		UserID:      f.user.ID,
		RecipeTitle: strings.Repeat("a", models.MaxDishNameLen+1),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, f.svc.Registry().Len())

	_, err = f.svc.StartSession(context.Background(), &types.StartSessionRequest{
		UserID:      f.user.ID,
		RecipeTitle: strings.Repeat("न", models.MaxDishNameLen),
	})
	assert.NoError(t, err)
}

func TestStartSessionClipsLongDraftTitle(t *testing.T) {
	f := newMentorFixture(t, false)
	draft := &types.RecipeDraft{UserID: f.user.ID, Recipe: types.Recipe{DishName: strings.Repeat("b", 250)}}
	require.NoError(t, f.drafts.SaveDraft(context.Background(), draft))

	resp, err := f.svc.StartSession(context.Background(), &types.StartSessionRequest{UserID: f.user.ID, DraftID: draft.ID})
	require.NoError(t, err)
	session, err := f.svc.Registry().Get(resp.SessionID)
	require.NoError(t, err)
	assert.Len(t, session.RecipeTitle, models.MaxDishNameLen)

	f.end(t, resp.SessionID, 4, false)
	var record models.CookingSessionRecord
	require.NoError(t, f.db.Where("session_id = ?", resp.SessionID).First(&record).Error)
	assert.Len(t, record.RecipeTitle, models.MaxDishNameLen)
}
