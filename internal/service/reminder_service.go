package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"property-card-be/internal/config"
	"property-card-be/internal/entity"
	"property-card-be/internal/pkg/logger"
	"property-card-be/internal/repository/contract"
	"property-card-be/internal/repository/specification"
	"property-card-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IFeeReminderService interface {
	// SyncTrackers makes sure every APPROVED+PAID card has a reminder
	// tracker with a current due date. Safe to run repeatedly.
	SyncTrackers(ctx context.Context) error

	// RunReminders reconciles trackers, selects the ones due today or
	// earlier that were not yet reminded this cycle, and sends one private
	// notification per resident.
	RunReminders(ctx context.Context) error
}

// sentinel group for trackers with no unit reference.
const unassignedUnitKey = "unassigned"

type feeReminderService struct {
	uowFactory unitofwork.RepositoryFactory
	directory  IResidentDirectory
	sender     NotificationSender
	logger     logger.ILogger
	cfg        config.CardConfig
	now        func() time.Time
}

func NewFeeReminderService(
	uowFactory unitofwork.RepositoryFactory,
	directory IResidentDirectory,
	sender NotificationSender,
	log logger.ILogger,
	cfg config.CardConfig,
) IFeeReminderService {
	return &feeReminderService{
		uowFactory: uowFactory,
		directory:  directory,
		sender:     sender,
		logger:     log,
		cfg:        cfg,
		now:        time.Now,
	}
}

func (s *feeReminderService) SyncTrackers(ctx context.Context) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	trackerRepo := uow.ReminderStateRepository()
	var synced, failed int

	for _, kind := range entity.CardTypes {
		cards, err := uow.CardRepository(kind).FindAll(ctx,
			specification.WithStatus{Status: entity.CardStatusApproved},
			specification.WithPaymentStatus{PaymentStatus: entity.PaymentStatusPaid},
		)
		if err != nil {
			s.logger.Error("FeeReminder", "Failed to load cards for tracker sync", map[string]interface{}{
				"card_type": kind,
				"error":     err.Error(),
			})
			failed++
			continue
		}

		for _, card := range cards {
			if card.ApprovedAt == nil {
				continue
			}

			state := &entity.CardFeeReminderState{
				CardId:      card.Id,
				CardType:    kind,
				ResidentId:  card.ResidentId,
				UserId:      card.UserId,
				UnitId:      card.UnitId,
				NextDueDate: entity.NextFeeDueDate(*card.ApprovedAt, s.cfg.FeeCycleMonths, s.cfg.FeeCycleDays),
			}

			// Denormalize display names when the unit is known; a failed
			// lookup leaves them empty and the message falls back.
			if info, err := s.directory.Resolve(ctx, card.UserId, card.UnitId); err == nil && info != nil {
				state.ApartmentNumber = info.ApartmentNumber
				state.BuildingName = info.BuildingName
				if state.ResidentId == nil {
					rid := info.ResidentId
					state.ResidentId = &rid
				}
			}

			if err := trackerRepo.Upsert(ctx, state); err != nil {
				s.logger.Error("FeeReminder", "Failed to upsert reminder tracker", map[string]interface{}{
					"card_type": kind,
					"card_id":   card.Id,
					"error":     err.Error(),
				})
				failed++
				continue
			}
			synced++
		}
	}

	s.logger.Debug("FeeReminder", "Tracker sync finished", map[string]interface{}{
		"synced": synced,
		"failed": failed,
	})
	if failed > 0 {
		return fmt.Errorf("tracker sync: %d of %d upserts failed", failed, synced+failed)
	}
	return nil
}

func (s *feeReminderService) RunReminders(ctx context.Context) error {
	if !s.cfg.RemindersEnabled {
		s.logger.Debug("FeeReminder", "Reminder job is disabled", nil)
		return nil
	}

	// Reconciliation runs before due evaluation so cards that missed their
	// tracker insert still get picked up in the same run.
	if err := s.SyncTrackers(ctx); err != nil {
		s.logger.Warn("FeeReminder", "Tracker sync failed, continuing with existing trackers", map[string]interface{}{
			"error": err.Error(),
		})
	}

	today := s.now()
	uow := s.uowFactory.NewUnitOfWork(ctx)
	trackerRepo := uow.ReminderStateRepository()

	due, err := trackerRepo.FindDue(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to load due reminder trackers: %w", err)
	}
	if len(due) == 0 {
		s.logger.Info("FeeReminder", "No card fees due, nothing to send", nil)
		return nil
	}

	recipients, processed, skipped := s.groupRecipients(ctx, trackerRepo, due)

	var dispatched, dispatchFailed int
	for _, rcpt := range recipients {
		if err := s.notifyRecipient(ctx, rcpt, today); err != nil {
			s.logger.Warn("FeeReminder", "Failed to dispatch reminder", map[string]interface{}{
				"resident_id": rcpt.residentId,
				"error":       err.Error(),
			})
			dispatchFailed++
			continue
		}
		dispatched++
	}

	// Marker writes happen once, after the dispatch loop. Rows whose
	// dispatch was attempted count as processed; unresolvable rows retry
	// on the next run.
	if err := trackerRepo.MarkReminded(ctx, processed); err != nil {
		return fmt.Errorf("failed to mark reminders sent: %w", err)
	}

	s.logger.Info("FeeReminder", "Reminder run finished", map[string]interface{}{
		"due_trackers":    len(due),
		"recipients":      len(recipients),
		"dispatched":      dispatched,
		"dispatch_failed": dispatchFailed,
		"skipped":         skipped,
	})
	return nil
}

// reminderRecipient is one resident's private batch of due cards.
type reminderRecipient struct {
	residentId uuid.UUID
	buildingId *uuid.UUID
	email      string
	trackers   []*entity.CardFeeReminderState
}

// groupRecipients splits due trackers by unit, then by resident inside each
// unit, resolving missing resident references on the way. Cards belonging to
// other residents of the same unit never share a recipient.
func (s *feeReminderService) groupRecipients(
	ctx context.Context,
	trackerRepo contract.ReminderStateRepository,
	due []*entity.CardFeeReminderState,
) (recipients []*reminderRecipient, processed []uuid.UUID, skipped int) {

	byUnit := make(map[string][]*entity.CardFeeReminderState)
	var unitOrder []string
	for _, tracker := range due {
		key := unassignedUnitKey
		if tracker.UnitId != nil {
			key = tracker.UnitId.String()
		}
		if _, seen := byUnit[key]; !seen {
			unitOrder = append(unitOrder, key)
		}
		byUnit[key] = append(byUnit[key], tracker)
	}

	index := make(map[uuid.UUID]*reminderRecipient)
	for _, unitKey := range unitOrder {
		for _, tracker := range byUnit[unitKey] {
			residentId, buildingId, email, ok := s.resolveResident(ctx, trackerRepo, tracker)
			if !ok {
				skipped++
				continue
			}

			rcpt, seen := index[residentId]
			if !seen {
				rcpt = &reminderRecipient{
					residentId: residentId,
					buildingId: buildingId,
					email:      email,
				}
				index[residentId] = rcpt
				recipients = append(recipients, rcpt)
			}
			rcpt.trackers = append(rcpt.trackers, tracker)
			processed = append(processed, tracker.Id)
		}
	}
	return recipients, processed, skipped
}

func (s *feeReminderService) resolveResident(
	ctx context.Context,
	trackerRepo contract.ReminderStateRepository,
	tracker *entity.CardFeeReminderState,
) (residentId uuid.UUID, buildingId *uuid.UUID, email string, ok bool) {

	info, err := s.directory.Resolve(ctx, tracker.UserId, tracker.UnitId)
	if err == nil && info != nil {
		buildingId = info.BuildingId
		email = info.Email
	}

	if tracker.ResidentId != nil {
		return *tracker.ResidentId, buildingId, email, true
	}

	if err != nil || info == nil {
		s.logger.Warn("FeeReminder", "Cannot resolve resident for tracker, skipping card", map[string]interface{}{
			"tracker_id": tracker.Id,
			"user_id":    tracker.UserId,
			"card_id":    tracker.CardId,
		})
		return uuid.Nil, nil, "", false
	}

	// Backfill so the next run resolves from the tracker itself.
	if err := trackerRepo.SetResident(ctx, tracker.Id, info.ResidentId); err != nil {
		s.logger.Warn("FeeReminder", "Failed to backfill resident on tracker", map[string]interface{}{
			"tracker_id": tracker.Id,
			"error":      err.Error(),
		})
	}
	rid := info.ResidentId
	tracker.ResidentId = &rid
	return info.ResidentId, buildingId, email, true
}

func (s *feeReminderService) notifyRecipient(ctx context.Context, rcpt *reminderRecipient, today time.Time) error {
	counts := make(map[entity.CardType]int)
	maxOverdue := 0
	var apartment, building string
	for _, tracker := range rcpt.trackers {
		counts[tracker.CardType]++
		if d := tracker.DaysOverdue(today); d > maxOverdue {
			maxOverdue = d
		}
		if apartment == "" {
			apartment = tracker.ApartmentNumber
		}
		if building == "" {
			building = tracker.BuildingName
		}
	}

	graceLeft := s.cfg.GraceDays - maxOverdue
	if graceLeft < 0 {
		graceLeft = 0
	}

	unit := unitLabel(apartment, building)
	body := composeReminderBody(counts, unit, maxOverdue, graceLeft)

	data := map[string]interface{}{
		"unit":            unit,
		"days_overdue":    maxOverdue,
		"grace_days_left": graceLeft,
		"card_count":      len(rcpt.trackers),
	}
	for kind, n := range counts {
		data[string(kind)+"_cards"] = n
	}
	if rcpt.email != "" {
		data["email"] = rcpt.email
	}

	// One reference per recipient batch: the first due card.
	refId := rcpt.trackers[0].CardId

	return s.sender.Send(ctx,
		rcpt.residentId, rcpt.buildingId,
		entity.NotificationCategoryFeeReminder,
		"Card fee due",
		body,
		&refId, entity.ReferenceTypeFeeReminder,
		data,
	)
}

// unitLabel names the unit for the message, degrading gracefully when parts
// are missing.
func unitLabel(apartment, building string) string {
	switch {
	case apartment != "" && building != "":
		return fmt.Sprintf("apartment %s, %s", apartment, building)
	case apartment != "":
		return "apartment " + apartment
	case building != "":
		return building
	default:
		return "your unit"
	}
}

// cardCountPhrase enumerates card-type counts: "1 vehicle card",
// "2 vehicle cards and 1 elevator card",
// "1 vehicle card, 1 elevator card and 2 resident cards".
func cardCountPhrase(counts map[entity.CardType]int) string {
	var parts []string
	for _, kind := range entity.CardTypes {
		n := counts[kind]
		if n == 0 {
			continue
		}
		label := kind.Label()
		if n > 1 {
			label += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, label))
	}

	switch len(parts) {
	case 0:
		return "no cards"
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
}

func composeReminderBody(counts map[entity.CardType]int, unit string, daysOverdue, graceLeft int) string {
	phrase := cardCountPhrase(counts)
	when := "The renewal fee is due today."
	if daysOverdue == 1 {
		when = "The renewal fee is 1 day overdue."
	} else if daysOverdue > 1 {
		when = fmt.Sprintf("The renewal fee is %d days overdue.", daysOverdue)
	}

	grace := "There are no grace days left; the cards may be suspended at any time."
	if graceLeft == 1 {
		grace = "You have 1 grace day left before the cards are suspended."
	} else if graceLeft > 1 {
		grace = fmt.Sprintf("You have %d grace days left before the cards are suspended.", graceLeft)
	}

	return fmt.Sprintf("You have %s due for fee renewal at %s. %s %s", phrase, unit, when, grace)
}
