package service

import (
	"context"
	"sync"
	"time"

	"property-card-be/internal/entity"
	"property-card-be/internal/pkg/logger"
	"property-card-be/internal/repository/contract"
	"property-card-be/internal/repository/specification"
	"property-card-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// In-memory doubles for the job services. They record mutations instead of
// touching a database so the tests can assert on exactly which rows each job
// decided to change.

type nopLogger struct{}

func (nopLogger) Info(module string, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module string, message string, details map[string]interface{})  {}
func (nopLogger) Error(module string, message string, details map[string]interface{}) {}
func (nopLogger) Debug(module string, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                         { return nil }

var _ logger.ILogger = nopLogger{}

type fakeCardRepo struct {
	kind  entity.CardType
	cards []*entity.CardRegistration

	findErr    error
	mutateErr  map[uuid.UUID]error
	renewed    []uuid.UUID
	suspended  []uuid.UUID
	reset      []uuid.UUID
	failedPay  []uuid.UUID
	cancelled  []uuid.UUID
	notes      map[uuid.UUID]string
}

func newFakeCardRepo(kind entity.CardType, cards ...*entity.CardRegistration) *fakeCardRepo {
	return &fakeCardRepo{
		kind:      kind,
		cards:     cards,
		mutateErr: map[uuid.UUID]error{},
		notes:     map[uuid.UUID]string{},
	}
}

func (r *fakeCardRepo) Kind() entity.CardType { return r.kind }

func (r *fakeCardRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CardRegistration, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []*entity.CardRegistration
	for _, c := range r.cards {
		if cardMatches(c, specs) {
			out = append(out, c)
		}
	}
	return out, nil
}

// cardMatches interprets the known specifications against entity fields the
// same way their SQL would.
func cardMatches(c *entity.CardRegistration, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.WithStatus:
			if c.Status != s.Status {
				return false
			}
		case specification.WithPaymentStatus:
			if c.PaymentStatus != s.PaymentStatus {
				return false
			}
		case specification.WithPaymentStatusIn:
			found := false
			for _, ps := range s.PaymentStatuses {
				if c.PaymentStatus == ps {
					found = true
				}
			}
			if !found {
				return false
			}
		case specification.UpdatedBefore:
			if !c.UpdatedAt.Before(s.Cutoff) {
				return false
			}
		case specification.VnpayInitiatedBefore:
			if c.VnpayInitiatedAt == nil || !c.VnpayInitiatedAt.Before(s.Cutoff) {
				return false
			}
		}
	}
	return true
}

func (r *fakeCardRepo) find(id uuid.UUID) *entity.CardRegistration {
	for _, c := range r.cards {
		if c.Id == id {
			return c
		}
	}
	return nil
}

func (r *fakeCardRepo) MarkNeedsRenewal(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := r.mutateErr[id]; err != nil {
		return false, err
	}
	card := r.find(id)
	if card == nil || card.Status != entity.CardStatusApproved {
		return false, nil
	}
	card.Status = entity.CardStatusNeedsRenewal
	card.UpdatedAt = time.Now()
	r.renewed = append(r.renewed, id)
	return true, nil
}

func (r *fakeCardRepo) MarkSuspended(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := r.mutateErr[id]; err != nil {
		return false, err
	}
	card := r.find(id)
	if card == nil || (card.Status != entity.CardStatusApproved && card.Status != entity.CardStatusNeedsRenewal) {
		return false, nil
	}
	card.Status = entity.CardStatusSuspended
	card.UpdatedAt = time.Now()
	r.suspended = append(r.suspended, id)
	return true, nil
}

func (r *fakeCardRepo) ResetPendingPayment(ctx context.Context, id uuid.UUID, note string) (bool, error) {
	if err := r.mutateErr[id]; err != nil {
		return false, err
	}
	card := r.find(id)
	if card == nil || card.PaymentStatus != entity.PaymentStatusPending {
		return false, nil
	}
	card.PaymentStatus = entity.PaymentStatusUnpaid
	card.Status = entity.CardStatusReadyForPayment
	card.UpdatedAt = time.Now()
	if card.NoteOnce(note) {
		r.notes[id] = note
	}
	r.reset = append(r.reset, id)
	return true, nil
}

func (r *fakeCardRepo) FailInProgressPayment(ctx context.Context, id uuid.UUID, note string) (bool, error) {
	if err := r.mutateErr[id]; err != nil {
		return false, err
	}
	card := r.find(id)
	if card == nil || card.PaymentStatus == entity.PaymentStatusPaid {
		return false, nil
	}
	inProgress := false
	for _, ps := range entity.InProgressPaymentStatuses(r.kind) {
		if card.PaymentStatus == ps {
			inProgress = true
		}
	}
	if !inProgress {
		return false, nil
	}
	card.PaymentStatus = entity.PaymentStatusFailed
	card.UpdatedAt = time.Now()
	if card.NoteOnce(note) {
		r.notes[id] = note
	}
	r.failedPay = append(r.failedPay, id)
	return true, nil
}

func (r *fakeCardRepo) CancelStaleReady(ctx context.Context, id uuid.UUID, note string) (bool, error) {
	if err := r.mutateErr[id]; err != nil {
		return false, err
	}
	card := r.find(id)
	if card == nil || card.Status != entity.CardStatusReadyForPayment || card.PaymentStatus == entity.PaymentStatusPaid {
		return false, nil
	}
	card.Status = entity.CardStatusCancelled
	card.PaymentStatus = entity.PaymentStatusUnpaid
	card.UpdatedAt = time.Now()
	if card.NoteOnce(note) {
		r.notes[id] = note
	}
	r.cancelled = append(r.cancelled, id)
	return true, nil
}

var _ contract.CardRegistrationRepository = (*fakeCardRepo)(nil)

type fakeReminderRepo struct {
	upserts    []*entity.CardFeeReminderState
	upsertErr  error
	due        []*entity.CardFeeReminderState
	findDueErr error
	marked     []uuid.UUID
	markErr    error
	backfilled map[uuid.UUID]uuid.UUID
}

func newFakeReminderRepo() *fakeReminderRepo {
	return &fakeReminderRepo{backfilled: map[uuid.UUID]uuid.UUID{}}
}

func (r *fakeReminderRepo) Upsert(ctx context.Context, state *entity.CardFeeReminderState) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.upserts = append(r.upserts, state)
	return nil
}

func (r *fakeReminderRepo) FindDue(ctx context.Context, dueOnOrBefore time.Time) ([]*entity.CardFeeReminderState, error) {
	if r.findDueErr != nil {
		return nil, r.findDueErr
	}
	return r.due, nil
}

func (r *fakeReminderRepo) MarkReminded(ctx context.Context, ids []uuid.UUID) error {
	if r.markErr != nil {
		return r.markErr
	}
	r.marked = append(r.marked, ids...)
	return nil
}

func (r *fakeReminderRepo) SetResident(ctx context.Context, id uuid.UUID, residentId uuid.UUID) error {
	r.backfilled[id] = residentId
	return nil
}

var _ contract.ReminderStateRepository = (*fakeReminderRepo)(nil)

type fakeNotificationRepo struct {
	mu      sync.Mutex
	created []*entity.Notification
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, n)
	return nil
}

func (r *fakeNotificationRepo) all() []*entity.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Notification, len(r.created))
	copy(out, r.created)
	return out
}

func (r *fakeNotificationRepo) ListByResident(ctx context.Context, residentId uuid.UUID, limit, offset int) ([]*entity.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Notification
	for _, n := range r.created {
		if n.ResidentId == residentId {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) UnreadCount(ctx context.Context, residentId uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.created {
		if n.ResidentId == residentId && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.created {
		if n.Id == id {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, residentId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.created {
		if n.ResidentId == residentId {
			n.IsRead = true
		}
	}
	return nil
}

var _ contract.NotificationRepository = (*fakeNotificationRepo)(nil)

type fakeResidentRepo struct {
	byUser map[uuid.UUID]*entity.ResidentInfo
}

func (r *fakeResidentRepo) FindByUserAndUnit(ctx context.Context, userId uuid.UUID, unitId *uuid.UUID) (*entity.ResidentInfo, error) {
	return r.byUser[userId], nil
}

var _ contract.ResidentRepository = (*fakeResidentRepo)(nil)

type fakeUow struct {
	cardRepos     map[entity.CardType]*fakeCardRepo
	reminderRepo  *fakeReminderRepo
	notifications *fakeNotificationRepo
	residents     *fakeResidentRepo
}

func newFakeUow() *fakeUow {
	return &fakeUow{
		cardRepos: map[entity.CardType]*fakeCardRepo{
			entity.CardTypeVehicle:  newFakeCardRepo(entity.CardTypeVehicle),
			entity.CardTypeElevator: newFakeCardRepo(entity.CardTypeElevator),
			entity.CardTypeResident: newFakeCardRepo(entity.CardTypeResident),
		},
		reminderRepo:  newFakeReminderRepo(),
		notifications: &fakeNotificationRepo{},
		residents:     &fakeResidentRepo{byUser: map[uuid.UUID]*entity.ResidentInfo{}},
	}
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) CardRepository(kind entity.CardType) contract.CardRegistrationRepository {
	return u.cardRepos[kind]
}

func (u *fakeUow) ReminderStateRepository() contract.ReminderStateRepository {
	return u.reminderRepo
}

func (u *fakeUow) NotificationRepository() contract.NotificationRepository {
	return u.notifications
}

func (u *fakeUow) ResidentRepository() contract.ResidentRepository {
	return u.residents
}

var _ unitofwork.UnitOfWork = (*fakeUow)(nil)

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

var _ unitofwork.RepositoryFactory = (*fakeFactory)(nil)

type fakeDirectory struct {
	byUser map[uuid.UUID]*entity.ResidentInfo
	err    error
}

func (d *fakeDirectory) Resolve(ctx context.Context, userId uuid.UUID, unitId *uuid.UUID) (*entity.ResidentInfo, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.byUser[userId], nil
}

var _ IResidentDirectory = (*fakeDirectory)(nil)

type sentNotification struct {
	residentId uuid.UUID
	category   string
	title      string
	body       string
	data       map[string]interface{}
}

type fakeSender struct {
	sent    []sentNotification
	sendErr error
}

func (s *fakeSender) Send(ctx context.Context, residentId uuid.UUID, buildingId *uuid.UUID,
	category, title, body string,
	referenceId *uuid.UUID, referenceType string,
	data map[string]interface{}) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, sentNotification{
		residentId: residentId,
		category:   category,
		title:      title,
		body:       body,
		data:       data,
	})
	return nil
}

var _ NotificationSender = (*fakeSender)(nil)
