package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"property-card-be/internal/config"
	"property-card-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dueTracker(residentId uuid.UUID, unitId *uuid.UUID, kind entity.CardType, due time.Time) *entity.CardFeeReminderState {
	var rid *uuid.UUID
	if residentId != uuid.Nil {
		rid = &residentId
	}
	return &entity.CardFeeReminderState{
		Id:              uuid.New(),
		CardId:          uuid.New(),
		CardType:        kind,
		ResidentId:      rid,
		UserId:          uuid.New(),
		UnitId:          unitId,
		ApartmentNumber: "12A",
		BuildingName:    "Sunrise Tower",
		NextDueDate:     due,
	}
}

func newReminderForTest(uow *fakeUow, dir *fakeDirectory, sender *fakeSender, now time.Time, cfg config.CardConfig) IFeeReminderService {
	svc := NewFeeReminderService(&fakeFactory{uow: uow}, dir, sender, nopLogger{}, cfg)
	svc.(*feeReminderService).now = func() time.Time { return now }
	return svc
}

func TestRunRemindersBatchesPerResident(t *testing.T) {
	now := time.Date(2026, time.June, 10, 8, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, -2)
	unitId := uuid.New()
	residentId := uuid.New()

	uow := newFakeUow()
	t1 := dueTracker(residentId, &unitId, entity.CardTypeVehicle, due)
	t2 := dueTracker(residentId, &unitId, entity.CardTypeVehicle, due)
	t3 := dueTracker(residentId, &unitId, entity.CardTypeResident, due)
	uow.reminderRepo.due = []*entity.CardFeeReminderState{t1, t2, t3}

	sender := &fakeSender{}
	svc := newReminderForTest(uow, &fakeDirectory{}, sender, now, testCardConfig())
	require.NoError(t, svc.RunReminders(context.Background()))

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, residentId, msg.residentId)
	assert.Equal(t, entity.NotificationCategoryFeeReminder, msg.category)
	assert.Contains(t, msg.body, "2 vehicle cards and 1 resident card")
	assert.Contains(t, msg.body, "apartment 12A, Sunrise Tower")
	assert.Contains(t, msg.body, "2 days overdue")
	assert.Contains(t, msg.body, "5 grace days left")

	assert.ElementsMatch(t, []uuid.UUID{t1.Id, t2.Id, t3.Id}, uow.reminderRepo.marked)
}

func TestRunRemindersKeepsResidentsOfOneUnitApart(t *testing.T) {
	now := time.Date(2026, time.June, 10, 8, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, -1)
	unitId := uuid.New()
	residentA := uuid.New()
	residentB := uuid.New()

	uow := newFakeUow()
	uow.reminderRepo.due = []*entity.CardFeeReminderState{
		dueTracker(residentA, &unitId, entity.CardTypeVehicle, due),
		dueTracker(residentB, &unitId, entity.CardTypeElevator, due),
	}

	sender := &fakeSender{}
	svc := newReminderForTest(uow, &fakeDirectory{}, sender, now, testCardConfig())
	require.NoError(t, svc.RunReminders(context.Background()))

	require.Len(t, sender.sent, 2)
	assert.NotEqual(t, sender.sent[0].residentId, sender.sent[1].residentId)
	for _, msg := range sender.sent {
		// Each resident only hears about their own single card.
		assert.Contains(t, msg.body, "1 ")
		assert.NotContains(t, msg.body, "2 ")
	}
}

func TestRunRemindersMarksAttemptedEvenWhenDispatchFails(t *testing.T) {
	now := time.Date(2026, time.June, 10, 8, 0, 0, 0, time.UTC)
	unitId := uuid.New()

	uow := newFakeUow()
	tracker := dueTracker(uuid.New(), &unitId, entity.CardTypeVehicle, now)
	uow.reminderRepo.due = []*entity.CardFeeReminderState{tracker}

	sender := &fakeSender{sendErr: errors.New("bus down")}
	svc := newReminderForTest(uow, &fakeDirectory{}, sender, now, testCardConfig())
	require.NoError(t, svc.RunReminders(context.Background()))

	// The attempt counts: the tracker is marked so the resident is not
	// re-notified every run while the bus misbehaves.
	assert.Equal(t, []uuid.UUID{tracker.Id}, uow.reminderRepo.marked)
}

func TestRunRemindersSkipsUnresolvableTrackers(t *testing.T) {
	now := time.Date(2026, time.June, 10, 8, 0, 0, 0, time.UTC)
	unitId := uuid.New()

	uow := newFakeUow()
	orphan := dueTracker(uuid.Nil, &unitId, entity.CardTypeVehicle, now)
	uow.reminderRepo.due = []*entity.CardFeeReminderState{orphan}

	sender := &fakeSender{}
	svc := newReminderForTest(uow, &fakeDirectory{}, sender, now, testCardConfig())
	require.NoError(t, svc.RunReminders(context.Background()))

	assert.Empty(t, sender.sent)
	// Unresolved rows stay unmarked so the next run retries them.
	assert.Empty(t, uow.reminderRepo.marked)
}

func TestRunRemindersBackfillsResidentFromDirectory(t *testing.T) {
	now := time.Date(2026, time.June, 10, 8, 0, 0, 0, time.UTC)
	unitId := uuid.New()
	residentId := uuid.New()

	uow := newFakeUow()
	orphan := dueTracker(uuid.Nil, &unitId, entity.CardTypeVehicle, now)
	uow.reminderRepo.due = []*entity.CardFeeReminderState{orphan}

	dir := &fakeDirectory{byUser: map[uuid.UUID]*entity.ResidentInfo{
		orphan.UserId: {ResidentId: residentId, ApartmentNumber: "12A", BuildingName: "Sunrise Tower", Email: "r@example.com"},
	}}
	sender := &fakeSender{}
	svc := newReminderForTest(uow, dir, sender, now, testCardConfig())
	require.NoError(t, svc.RunReminders(context.Background()))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, residentId, sender.sent[0].residentId)
	assert.Equal(t, "r@example.com", sender.sent[0].data["email"])
	assert.Equal(t, residentId, uow.reminderRepo.backfilled[orphan.Id])
	assert.Equal(t, []uuid.UUID{orphan.Id}, uow.reminderRepo.marked)
}

func TestRunRemindersHonorsDisableFlag(t *testing.T) {
	now := time.Date(2026, time.June, 10, 8, 0, 0, 0, time.UTC)
	uow := newFakeUow()
	uow.reminderRepo.due = []*entity.CardFeeReminderState{
		dueTracker(uuid.New(), nil, entity.CardTypeVehicle, now),
	}

	cfg := testCardConfig()
	cfg.RemindersEnabled = false
	sender := &fakeSender{}
	svc := NewFeeReminderService(&fakeFactory{uow: uow}, &fakeDirectory{}, sender, nopLogger{}, cfg)
	svc.(*feeReminderService).now = func() time.Time { return now }

	require.NoError(t, svc.RunReminders(context.Background()))
	assert.Empty(t, sender.sent)
	assert.Empty(t, uow.reminderRepo.marked)
}

func TestSyncTrackersDerivesDueDates(t *testing.T) {
	now := time.Date(2026, time.June, 10, 8, 0, 0, 0, time.UTC)
	approvedAt := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	uow := newFakeUow()
	card := approvedPaidCard(entity.CardTypeElevator, approvedAt)
	missing := approvedPaidCard(entity.CardTypeElevator, approvedAt)
	missing.ApprovedAt = nil
	uow.cardRepos[entity.CardTypeElevator].cards = []*entity.CardRegistration{card, missing}

	svc := newReminderForTest(uow, &fakeDirectory{}, &fakeSender{}, now, testCardConfig())
	require.NoError(t, svc.SyncTrackers(context.Background()))

	require.Len(t, uow.reminderRepo.upserts, 1)
	state := uow.reminderRepo.upserts[0]
	assert.Equal(t, card.Id, state.CardId)
	assert.Equal(t, entity.CardTypeElevator, state.CardType)
	assert.Equal(t, entity.NextFeeDueDate(approvedAt, 12, 365), state.NextDueDate)
	assert.Nil(t, state.LastRemindedDue)
}

func TestCardCountPhrase(t *testing.T) {
	tests := []struct {
		name   string
		counts map[entity.CardType]int
		want   string
	}{
		{
			name:   "single card",
			counts: map[entity.CardType]int{entity.CardTypeVehicle: 1},
			want:   "1 vehicle card",
		},
		{
			name:   "plural",
			counts: map[entity.CardType]int{entity.CardTypeElevator: 3},
			want:   "3 elevator cards",
		},
		{
			name: "two kinds",
			counts: map[entity.CardType]int{
				entity.CardTypeVehicle:  2,
				entity.CardTypeResident: 1,
			},
			want: "2 vehicle cards and 1 resident card",
		},
		{
			name: "all three kinds keep canonical order",
			counts: map[entity.CardType]int{
				entity.CardTypeResident: 2,
				entity.CardTypeVehicle:  1,
				entity.CardTypeElevator: 1,
			},
			want: "1 vehicle card, 1 elevator card and 2 resident cards",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cardCountPhrase(tt.counts))
		})
	}
}

func TestUnitLabel(t *testing.T) {
	assert.Equal(t, "apartment 12A, Sunrise Tower", unitLabel("12A", "Sunrise Tower"))
	assert.Equal(t, "apartment 12A", unitLabel("12A", ""))
	assert.Equal(t, "Sunrise Tower", unitLabel("", "Sunrise Tower"))
	assert.Equal(t, "your unit", unitLabel("", ""))
}

func TestComposeReminderBody(t *testing.T) {
	counts := map[entity.CardType]int{entity.CardTypeVehicle: 1}

	dueToday := composeReminderBody(counts, "apartment 12A, Sunrise Tower", 0, 7)
	assert.Contains(t, dueToday, "due today")
	assert.Contains(t, dueToday, "7 grace days left")

	lastDay := composeReminderBody(counts, "your unit", 7, 0)
	assert.Contains(t, lastDay, "7 days overdue")
	assert.Contains(t, lastDay, "no grace days left")

	oneEach := composeReminderBody(counts, "your unit", 1, 1)
	assert.Contains(t, oneEach, "1 day overdue")
	assert.Contains(t, oneEach, "1 grace day left")
}

func TestSyncTrackersReportsUpsertFailures(t *testing.T) {
	now := time.Date(2026, time.June, 10, 8, 0, 0, 0, time.UTC)
	uow := newFakeUow()
	card := approvedPaidCard(entity.CardTypeResident, now.AddDate(0, -3, 0))
	uow.cardRepos[entity.CardTypeResident].cards = []*entity.CardRegistration{card}
	uow.reminderRepo.upsertErr = errors.New("unique violation")

	svc := newReminderForTest(uow, &fakeDirectory{}, &fakeSender{}, now, testCardConfig())
	err := svc.SyncTrackers(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1")
}

func TestRunRemindersContinuesWhenSyncFails(t *testing.T) {
	now := time.Date(2026, time.June, 10, 8, 0, 0, 0, time.UTC)
	residentId := uuid.New()
	unitId := uuid.New()

	uow := newFakeUow()
	// Card loading is down, but a tracker from an earlier sync is still due
	// and must go out.
	uow.cardRepos[entity.CardTypeVehicle].findErr = errors.New("table missing")
	tracker := dueTracker(residentId, &unitId, entity.CardTypeVehicle, now.AddDate(0, 0, -1))
	uow.reminderRepo.due = []*entity.CardFeeReminderState{tracker}

	sender := &fakeSender{}
	svc := newReminderForTest(uow, &fakeDirectory{}, sender, now, testCardConfig())
	require.NoError(t, svc.RunReminders(context.Background()))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, residentId, sender.sent[0].residentId)
	assert.Equal(t, []uuid.UUID{tracker.Id}, uow.reminderRepo.marked)
}
