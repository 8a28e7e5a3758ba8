package booking

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"dog-grooming-booking/internal/domain/account"
	domainBooking "dog-grooming-booking/internal/domain/booking"
	"dog-grooming-booking/internal/infrastructure/database/memory"
	"dog-grooming-booking/internal/infrastructure/lock"
	"dog-grooming-booking/internal/metrics"
	"dog-grooming-booking/internal/mocks"
	appErrors "dog-grooming-booking/pkg/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type statusNotice struct {
	ownerEmail string
	bookingID  string
	previous   domainBooking.Status
	current    domainBooking.Status
}

type fakeNotifier struct {
	mu      sync.Mutex
	notices []statusNotice
}

func (f *fakeNotifier) BookingStatusChanged(owner *account.Summary, b *domainBooking.Booking, previous domainBooking.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, statusNotice{
		ownerEmail: owner.Email,
		bookingID:  b.ID,
		previous:   previous,
		current:    b.Status,
	})
}

type testEnv struct {
	svc       *Service
	bookings  *memory.BookingRepository
	customers *memory.AccountRepository
	publisher *mocks.MockEventPublisher
	notifier  *fakeNotifier
	now       time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockEventPublisher(ctrl)

	env := &testEnv{
		bookings:  memory.NewBookingRepository(),
		customers: memory.NewAccountRepository(account.KindCustomer),
		publisher: publisher,
		notifier:  &fakeNotifier{},
		now:       time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	env.svc = NewService(env.bookings, env.customers, lock.NewLocalLocker(), publisher, env.notifier,
		metrics.New(prometheus.NewRegistry()))
	env.svc.now = func() time.Time { return env.now }
	// Runs before the controller verifies its expectations.
	t.Cleanup(env.svc.Wait)

	return env
}

func (e *testEnv) allowEvents() {
	e.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func (e *testEnv) addCustomer(t *testing.T, email string, verified bool) string {
	t.Helper()
	a := &account.Account{
		FirstName:   "Juan",
		LastName:    "Dela Cruz",
		PhoneNumber: "09171234567",
		Email:       email,
		IsVerified:  verified,
	}
	require.NoError(t, e.customers.Create(context.Background(), a))
	return a.ID
}

func (e *testEnv) request(offset time.Duration) *CreateBookingRequest {
	return &CreateBookingRequest{
		DogCategory: "Shih Tzu",
		Service:     "Full Groom",
		Price:       850,
		Schedule:    e.now.Add(offset),
	}
}

func TestCreateEnforcesLeadTime(t *testing.T) {
	env := newTestEnv(t)
	env.allowEvents()
	owner := env.addCustomer(t, "owner@example.com", true)

	_, err := env.svc.Create(context.Background(), owner, env.request(23*time.Hour+59*time.Minute))
	assert.ErrorIs(t, err, appErrors.ErrInvalidSchedule)

	created, err := env.svc.Create(context.Background(), owner, env.request(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, domainBooking.StatusPending, created.Status)
	assert.Equal(t, env.now, created.CreatedAt)
	require.NotNil(t, created.Owner)
	assert.Equal(t, "owner@example.com", created.Owner.Email)
}

func TestCreateConflictWindow(t *testing.T) {
	env := newTestEnv(t)
	env.allowEvents()
	owner := env.addCustomer(t, "owner@example.com", true)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, owner, env.request(48*time.Hour))
	require.NoError(t, err)

	_, err = env.svc.Create(ctx, owner, env.request(49*time.Hour))
	assert.ErrorIs(t, err, appErrors.ErrScheduleConflict)

	_, err = env.svc.Create(ctx, owner, env.request(50*time.Hour))
	assert.ErrorIs(t, err, appErrors.ErrScheduleConflict, "window bounds are inclusive")

	_, err = env.svc.Create(ctx, owner, env.request(51*time.Hour))
	assert.NoError(t, err)
}

func TestCreateConflictIsPerOwner(t *testing.T) {
	env := newTestEnv(t)
	env.allowEvents()
	ownerA := env.addCustomer(t, "a@example.com", true)
	ownerB := env.addCustomer(t, "b@example.com", true)

	_, err := env.svc.Create(context.Background(), ownerA, env.request(48*time.Hour))
	require.NoError(t, err)

	_, err = env.svc.Create(context.Background(), ownerB, env.request(48*time.Hour))
	assert.NoError(t, err)
}

func TestCreateQuotaRecoversAfterCompletion(t *testing.T) {
	env := newTestEnv(t)
	env.allowEvents()
	owner := env.addCustomer(t, "owner@example.com", true)
	ctx := context.Background()

	var ids []string
	for i := 0; i < domainBooking.Quota; i++ {
		created, err := env.svc.Create(ctx, owner, env.request(time.Duration(48+3*i)*time.Hour))
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	_, err := env.svc.Create(ctx, owner, env.request(100*time.Hour))
	assert.ErrorIs(t, err, appErrors.ErrQuotaExceeded)

	_, err = env.svc.UpdateStatus(ctx, ids[0], &UpdateStatusRequest{Status: domainBooking.StatusConfirmed})
	require.NoError(t, err)
	_, err = env.svc.Create(ctx, owner, env.request(100*time.Hour))
	assert.ErrorIs(t, err, appErrors.ErrQuotaExceeded, "confirmed bookings still count")

	_, err = env.svc.UpdateStatus(ctx, ids[0], &UpdateStatusRequest{Status: domainBooking.StatusCompleted})
	require.NoError(t, err)

	_, err = env.svc.Create(ctx, owner, env.request(100*time.Hour))
	assert.NoError(t, err)

	active, err := env.bookings.CountByOwner(ctx, owner, domainBooking.ActiveStatuses)
	require.NoError(t, err)
	assert.Equal(t, int64(domainBooking.Quota), active)
}

func TestCreateCheckOrder(t *testing.T) {
	env := newTestEnv(t)
	env.allowEvents()
	owner := env.addCustomer(t, "owner@example.com", true)
	ctx := context.Background()

	for i := 0; i < domainBooking.Quota; i++ {
		_, err := env.svc.Create(ctx, owner, env.request(time.Duration(48+3*i)*time.Hour))
		require.NoError(t, err)
	}

	// Lead time wins over quota.
	_, err := env.svc.Create(ctx, owner, env.request(time.Hour))
	assert.ErrorIs(t, err, appErrors.ErrInvalidSchedule)

	// Quota wins over a conflicting schedule.
	_, err = env.svc.Create(ctx, owner, env.request(48*time.Hour))
	assert.ErrorIs(t, err, appErrors.ErrQuotaExceeded)
}

func TestCreateRejectsUnverifiedOwner(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addCustomer(t, "owner@example.com", false)

	_, err := env.svc.Create(context.Background(), owner, env.request(48*time.Hour))
	assert.ErrorIs(t, err, appErrors.ErrNotVerified)
}

func TestCreateValidatesInput(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addCustomer(t, "owner@example.com", true)

	req := env.request(48 * time.Hour)
	req.Price = 0

	_, err := env.svc.Create(context.Background(), owner, req)
	assert.True(t, appErrors.HasCode(err, appErrors.CodeValidation))
}

func TestCreateSurvivesPublishFailure(t *testing.T) {
	env := newTestEnv(t)
	env.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(fmt.Errorf("broker down"))
	owner := env.addCustomer(t, "owner@example.com", true)

	created, err := env.svc.Create(context.Background(), owner, env.request(48*time.Hour))
	require.NoError(t, err)
	env.svc.Wait()

	stored, err := env.bookings.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domainBooking.StatusPending, stored.Status)
}

func TestCreateReportsBusyOwner(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addCustomer(t, "owner@example.com", true)

	ctrl := gomock.NewController(t)
	locker := mocks.NewMockOwnerLocker(ctrl)
	locker.EXPECT().Acquire(gomock.Any(), owner).Return(nil, domainBooking.ErrLockNotAcquired)
	env.svc.locker = locker

	_, err := env.svc.Create(context.Background(), owner, env.request(48*time.Hour))
	assert.ErrorIs(t, err, appErrors.ErrBookingBusy)
}

func TestCreateConcurrentRequestsCannotDoubleBook(t *testing.T) {
	env := newTestEnv(t)
	env.allowEvents()
	owner := env.addCustomer(t, "owner@example.com", true)

	const attempts = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := env.svc.Create(context.Background(), owner, env.request(48*time.Hour+time.Duration(i)*time.Minute))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case appErrors.HasCode(err, appErrors.CodeScheduleConflict):
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicts)
}

func TestUpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addCustomer(t, "owner@example.com", true)
	ctx := context.Background()

	var (
		mu        sync.Mutex
		published = map[domainBooking.EventType]*domainBooking.Event{}
	)
	env.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, evt *domainBooking.Event) error {
			mu.Lock()
			defer mu.Unlock()
			published[evt.Type] = evt
			return nil
		}).AnyTimes()

	created, err := env.svc.Create(ctx, owner, env.request(48*time.Hour))
	require.NoError(t, err)

	_, err = env.svc.UpdateStatus(ctx, created.ID, &UpdateStatusRequest{Status: domainBooking.StatusCompleted})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.CodeInvalidTransition))

	updated, err := env.svc.UpdateStatus(ctx, created.ID, &UpdateStatusRequest{Status: domainBooking.StatusConfirmed})
	require.NoError(t, err)
	assert.Equal(t, domainBooking.StatusConfirmed, updated.Status)
	require.NotNil(t, updated.Owner)

	_, err = env.svc.UpdateStatus(ctx, created.ID, &UpdateStatusRequest{Status: domainBooking.StatusRejected})
	assert.True(t, appErrors.HasCode(err, appErrors.CodeInvalidTransition))

	require.Len(t, env.notifier.notices, 1)
	assert.Equal(t, statusNotice{
		ownerEmail: "owner@example.com",
		bookingID:  created.ID,
		previous:   domainBooking.StatusPending,
		current:    domainBooking.StatusConfirmed,
	}, env.notifier.notices[0])

	env.svc.Wait()
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, published, 2)
	require.Contains(t, published, domainBooking.EventCreated)
	require.Contains(t, published, domainBooking.EventStatusChanged)
	assert.Equal(t, domainBooking.StatusPending, published[domainBooking.EventStatusChanged].PreviousStatus)
	assert.Equal(t, domainBooking.StatusConfirmed, published[domainBooking.EventStatusChanged].Status)
}

// readBarrierRepo holds the first two GetByID calls until both have read.
type readBarrierRepo struct {
	*memory.BookingRepository
	readers sync.WaitGroup
	calls   atomic.Int32
}

func newReadBarrierRepo(repo *memory.BookingRepository) *readBarrierRepo {
	r := &readBarrierRepo{BookingRepository: repo}
	r.readers.Add(2)
	return r
}

func (r *readBarrierRepo) GetByID(ctx context.Context, id string) (*domainBooking.Booking, error) {
	b, err := r.BookingRepository.GetByID(ctx, id)
	if r.calls.Add(1) <= 2 {
		r.readers.Done()
		r.readers.Wait()
	}
	return b, err
}

func TestUpdateStatusConcurrentTransitionsAllowOnlyOne(t *testing.T) {
	env := newTestEnv(t)
	env.allowEvents()
	owner := env.addCustomer(t, "owner@example.com", true)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, owner, env.request(48*time.Hour))
	require.NoError(t, err)
	env.svc.bookingRepo = newReadBarrierRepo(env.bookings)

	targets := []domainBooking.Status{domainBooking.StatusConfirmed, domainBooking.StatusRejected}
	errs := make([]error, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target domainBooking.Status) {
			defer wg.Done()
			_, errs[i] = env.svc.UpdateStatus(ctx, created.ID, &UpdateStatusRequest{Status: target})
		}(i, target)
	}
	wg.Wait()

	var winner domainBooking.Status
	failures := 0
	for i, err := range errs {
		if err == nil {
			winner = targets[i]
			continue
		}
		failures++
		assert.True(t, appErrors.HasCode(err, appErrors.CodeInvalidTransition), "unexpected error: %v", err)
	}
	require.Equal(t, 1, failures)

	stored, err := env.bookings.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, winner, stored.Status)

	require.Len(t, env.notifier.notices, 1)
	assert.Equal(t, winner, env.notifier.notices[0].current)
}

func TestCreateDoesNotWaitForPublisher(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addCustomer(t, "owner@example.com", true)

	unblock := make(chan struct{})
	t.Cleanup(func() { close(unblock) })
	env.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *domainBooking.Event) error {
			<-unblock
			return nil
		}).Times(2)

	done := make(chan error, 1)
	go func() {
		// The second booking needs the owner lock the first one held.
		if _, err := env.svc.Create(context.Background(), owner, env.request(48*time.Hour)); err != nil {
			done <- err
			return
		}
		_, err := env.svc.Create(context.Background(), owner, env.request(72*time.Hour))
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Create blocked on the event publisher")
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.UpdateStatus(context.Background(), "any", &UpdateStatusRequest{Status: "archived"})
	assert.True(t, appErrors.HasCode(err, appErrors.CodeValidation))
}

func TestUpdateStatusNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.UpdateStatus(context.Background(), "missing", &UpdateStatusRequest{Status: domainBooking.StatusConfirmed})
	assert.ErrorIs(t, err, appErrors.ErrBookingNotFound)
}

func TestPaginate(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addCustomer(t, "owner@example.com", true)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		require.NoError(t, env.bookings.Create(ctx, &domainBooking.Booking{
			OwnerID:     owner,
			DogCategory: "Poodle",
			Service:     "Bath",
			Price:       500,
			Schedule:    env.now.Add(time.Duration(48+i*3) * time.Hour),
			Status:      domainBooking.StatusCompleted,
			CreatedAt:   env.now,
		}))
	}

	page1, err := env.svc.Paginate(ctx, &PaginateRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page1.Bookings, 10)
	assert.Equal(t, int64(25), page1.TotalBookings)
	assert.Equal(t, 3, page1.TotalPages)
	assert.Equal(t, 1, page1.CurrentPage)
	assert.True(t, page1.Bookings[0].Schedule.After(page1.Bookings[1].Schedule), "latest schedule first")
	require.NotNil(t, page1.Bookings[0].Owner)

	page3, err := env.svc.Paginate(ctx, &PaginateRequest{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page3.Bookings, 5)

	page4, err := env.svc.Paginate(ctx, &PaginateRequest{Page: 4, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, page4.Bookings)
	assert.Equal(t, int64(25), page4.TotalBookings)
	assert.Equal(t, 3, page4.TotalPages)

	all, err := env.svc.Paginate(ctx, &PaginateRequest{Page: 1, Limit: 200})
	require.NoError(t, err)
	assert.Len(t, all.Bookings, 25)
	assert.Equal(t, 1, all.TotalPages)

	_, err = env.svc.Paginate(ctx, &PaginateRequest{Page: 0, Limit: 10})
	assert.True(t, appErrors.HasCode(err, appErrors.CodeValidation))
}

func TestFindAllAndSchedules(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addCustomer(t, "owner@example.com", true)
	ctx := context.Background()

	seed := []struct {
		status  domainBooking.Status
		created time.Duration
	}{
		{domainBooking.StatusConfirmed, 0},
		{domainBooking.StatusPending, time.Minute},
		{domainBooking.StatusConfirmed, 2 * time.Minute},
		{domainBooking.StatusRejected, 3 * time.Minute},
	}
	for i, s := range seed {
		require.NoError(t, env.bookings.Create(ctx, &domainBooking.Booking{
			ID:          fmt.Sprintf("b%d", i),
			OwnerID:     owner,
			DogCategory: "Beagle",
			Service:     "Nail Trim",
			Price:       300,
			Schedule:    env.now.Add(time.Duration(48+i*3) * time.Hour),
			Status:      s.status,
			CreatedAt:   env.now.Add(s.created),
		}))
	}

	all, err := env.svc.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "b3", all[0].ID, "newest created first")
	assert.Equal(t, "09171234567", all[0].Owner.PhoneNumber)

	events, err := env.svc.Schedules(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "b2", events[0].EventID)
	assert.Equal(t, "b0", events[1].EventID)
	assert.Equal(t, "Dela Cruz, Juan || Nail Trim || Beagle", events[0].Title)
	assert.Equal(t, events[0].Start.Add(2*time.Hour), events[0].End)

	own, err := env.svc.OwnerSchedules(ctx, owner)
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, "Nail Trim || Beagle", own[0].Title)

	mine, err := env.svc.OwnerBookings(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, mine, 4)

	other, err := env.svc.OwnerBookings(ctx, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestFindBooking(t *testing.T) {
	env := newTestEnv(t)
	env.allowEvents()
	owner := env.addCustomer(t, "owner@example.com", true)
	stranger := env.addCustomer(t, "stranger@example.com", true)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, owner, env.request(48*time.Hour))
	require.NoError(t, err)

	found, err := env.svc.FindBooking(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", found.Owner.Email)

	_, err = env.svc.FindOwnedBooking(ctx, owner, created.ID)
	assert.NoError(t, err)

	_, err = env.svc.FindOwnedBooking(ctx, stranger, created.ID)
	assert.ErrorIs(t, err, appErrors.ErrBookingNotFound)

	_, err = env.svc.FindBooking(ctx, "missing")
	assert.ErrorIs(t, err, appErrors.ErrBookingNotFound)
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t)
	env.allowEvents()
	owner := env.addCustomer(t, "owner@example.com", true)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, owner, env.request(48*time.Hour))
	require.NoError(t, err)

	require.NoError(t, env.svc.Delete(ctx, created.ID))

	_, err = env.svc.FindBooking(ctx, created.ID)
	assert.ErrorIs(t, err, appErrors.ErrBookingNotFound)

	err = env.svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, appErrors.ErrBookingNotFound)
}

func TestUpcomingConfirmed(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addCustomer(t, "owner@example.com", true)
	ctx := context.Background()

	for i, offset := range []time.Duration{23 * time.Hour, 24 * time.Hour, 24*time.Hour + 30*time.Minute, 25 * time.Hour} {
		require.NoError(t, env.bookings.Create(ctx, &domainBooking.Booking{
			ID:       fmt.Sprintf("b%d", i),
			OwnerID:  owner,
			Schedule: env.now.Add(offset),
			Status:   domainBooking.StatusConfirmed,
		}))
	}

	due, err := env.svc.UpcomingConfirmed(ctx, env.now.Add(24*time.Hour), env.now.Add(25*time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "b1", due[0].ID)
	assert.Equal(t, "b2", due[1].ID)
	assert.Equal(t, "owner@example.com", due[0].Owner.Email)
}
