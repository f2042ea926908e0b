package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"school-bus/internal/domain/attendance"
	"school-bus/internal/domain/bus"
	"school-bus/internal/domain/child"
	"school-bus/internal/domain/route"
	"school-bus/internal/domain/schedule"
	"school-bus/internal/domain/school"
	"school-bus/internal/domain/trip"
	"school-bus/internal/general/config"
	"school-bus/internal/general/logger"
	"school-bus/internal/ports"
)

// fakeUow runs the function directly; the in-memory repos below have no
// transactions to coordinate.
type fakeUow struct{}

func (fakeUow) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeSchoolRepo struct {
	schools map[string]*school.School
}

func (r *fakeSchoolRepo) GetByID(_ context.Context, id string) (*school.School, error) {
	s, ok := r.schools[id]
	if !ok {
		return nil, school.ErrSchoolNotFound
	}
	return s, nil
}

type fakeChildRepo struct {
	children []*child.Child
}

func (r *fakeChildRepo) ListBySchool(_ context.Context, schoolID string) ([]*child.Child, error) {
	var out []*child.Child
	for _, c := range r.children {
		if c.SchoolID == schoolID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeChildRepo) ListWithPickupLocation(_ context.Context, schoolID string) ([]*child.Child, error) {
	var out []*child.Child
	for _, c := range r.children {
		if c.SchoolID == schoolID && c.HasPickupLocation() {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeBusRepo struct {
	buses []*bus.Bus
}

func (r *fakeBusRepo) ListByCompany(_ context.Context, companyID string) ([]*bus.Bus, error) {
	var out []*bus.Bus
	for _, b := range r.buses {
		if b.CompanyID == companyID {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeRouteRepo struct {
	mu     sync.Mutex
	nextID int
	routes map[string]*route.Route
}

func newFakeRouteRepo() *fakeRouteRepo {
	return &fakeRouteRepo{routes: make(map[string]*route.Route)}
}

func (r *fakeRouteRepo) CreateWithStops(_ context.Context, rt *route.Route) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	rt.ID = fmt.Sprintf("route-%d", r.nextID)
	for i := range rt.Stops {
		rt.Stops[i].ID = fmt.Sprintf("%s-stop-%d", rt.ID, i+1)
		rt.Stops[i].RouteID = rt.ID
	}
	r.routes[rt.ID] = rt
	return nil
}

func (r *fakeRouteRepo) GetWithStops(_ context.Context, id string) (*route.Route, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.routes[id]
	if !ok {
		return nil, route.ErrRouteNotFound
	}
	return rt, nil
}

type fakeScheduleRepo struct {
	schedules []*schedule.ScheduledRoute
	failList  error
}

func (r *fakeScheduleRepo) ListActiveOn(_ context.Context, day schedule.Weekday, date time.Time) ([]*schedule.ScheduledRoute, error) {
	if r.failList != nil {
		return nil, r.failList
	}
	var out []*schedule.ScheduledRoute
	for _, sr := range r.schedules {
		if sr.Status == schedule.StatusActive && sr.RecursOn(day) && sr.ActiveOn(date) {
			out = append(out, sr)
		}
	}
	return out, nil
}

type fakeTripRepo struct {
	mu     sync.Mutex
	nextID int
	trips  map[string]*trip.Trip

	failCreateFor map[string]error // keyed by scheduled route id
}

func newFakeTripRepo() *fakeTripRepo {
	return &fakeTripRepo{trips: make(map[string]*trip.Trip), failCreateFor: make(map[string]error)}
}

func (r *fakeTripRepo) Create(_ context.Context, t *trip.Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ScheduledRouteID != nil {
		if err, ok := r.failCreateFor[*t.ScheduledRouteID]; ok {
			return err
		}
		for _, existing := range r.trips {
			if existing.ScheduledRouteID != nil &&
				*existing.ScheduledRouteID == *t.ScheduledRouteID &&
				existing.ServiceDate.Equal(t.ServiceDate) {
				return trip.ErrDuplicateForDate
			}
		}
	}

	r.nextID++
	t.ID = fmt.Sprintf("trip-%d", r.nextID)
	cp := *t
	r.trips[t.ID] = &cp
	return nil
}

func (r *fakeTripRepo) GetByID(_ context.Context, id string) (*trip.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trips[id]
	if !ok {
		return nil, trip.ErrTripNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTripRepo) GetByIDForUpdate(ctx context.Context, id string) (*trip.Trip, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeTripRepo) UpdateStatus(_ context.Context, id string, next trip.Status, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trips[id]
	if !ok {
		return trip.ErrTripNotFound
	}
	t.Status = next
	t.UpdatedAt = at
	switch next {
	case trip.StatusInProgress:
		t.StartTime = at
	case trip.StatusCompleted:
		end := at
		t.EndTime = &end
	}
	return nil
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries []*trip.HistoryEntry
}

func (r *fakeHistoryRepo) Append(_ context.Context, entry *trip.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = fmt.Sprintf("hist-%d", len(r.entries)+1)
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeHistoryRepo) ListByTrip(_ context.Context, tripID string) ([]*trip.HistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*trip.HistoryEntry
	for _, e := range r.entries {
		if e.TripID == tripID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeAttendanceRepo struct {
	mu      sync.Mutex
	records map[string]*attendance.Attendance // key: childID|tripID
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]*attendance.Attendance)}
}

func attKey(childID, tripID string) string { return childID + "|" + tripID }

func (r *fakeAttendanceRepo) Create(_ context.Context, a *attendance.Attendance) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := attKey(a.ChildID, a.TripID)
	if _, ok := r.records[key]; ok {
		return false, nil
	}
	a.ID = fmt.Sprintf("att-%d", len(r.records)+1)
	r.records[key] = a
	return true, nil
}

func (r *fakeAttendanceRepo) Exists(_ context.Context, childID, tripID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.records[attKey(childID, tripID)]
	return ok, nil
}

func (r *fakeAttendanceRepo) ListByTrip(_ context.Context, tripID string) ([]*attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*attendance.Attendance
	for _, a := range r.records {
		if a.TripID == tripID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeExemptionRepo struct {
	exempt map[string]struct{} // child ids, any trip
}

func (r *fakeExemptionRepo) ExemptChildIDs(_ context.Context, _ string, childIDs []string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	for _, id := range childIDs {
		if _, ok := r.exempt[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

type publishedMessage struct {
	Exchange   string
	RoutingKey string
	Body       []byte
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
}

func (p *recordingPublisher) Publish(exchange, routingKey string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, publishedMessage{exchange, routingKey, body})
	return nil
}

func (p *recordingPublisher) byPrefix(prefix string) []publishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedMessage
	for _, m := range p.messages {
		if len(m.RoutingKey) >= len(prefix) && m.RoutingKey[:len(prefix)] == prefix {
			out = append(out, m)
		}
	}
	return out
}

type fakeLock struct {
	held     bool
	releases int
}

func (l *fakeLock) AcquireDay(_ context.Context, _ time.Time) (bool, error) {
	if l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

func (l *fakeLock) ReleaseDay(_ context.Context, _ time.Time) error {
	l.held = false
	l.releases++
	return nil
}

// testEnv bundles the fakes behind one engineService instance.
type testEnv struct {
	svc ports.EngineService

	schools   *fakeSchoolRepo
	children  *fakeChildRepo
	buses     *fakeBusRepo
	routes    *fakeRouteRepo
	schedules *fakeScheduleRepo
	trips     *fakeTripRepo
	history   *fakeHistoryRepo
	atts      *fakeAttendanceRepo
	exempts   *fakeExemptionRepo
	pub       *recordingPublisher
	lock      *fakeLock
}

func newTestEnv() *testEnv {
	env := &testEnv{
		schools:   &fakeSchoolRepo{schools: make(map[string]*school.School)},
		children:  &fakeChildRepo{},
		buses:     &fakeBusRepo{},
		routes:    newFakeRouteRepo(),
		schedules: &fakeScheduleRepo{},
		trips:     newFakeTripRepo(),
		history:   &fakeHistoryRepo{},
		atts:      newFakeAttendanceRepo(),
		exempts:   &fakeExemptionRepo{exempt: make(map[string]struct{})},
		pub:       &recordingPublisher{},
		lock:      &fakeLock{},
	}
	env.svc = NewEngineService(
		logger.New("engine-service-test"),
		fakeUow{},
		env.schools,
		env.children,
		env.buses,
		env.routes,
		env.schedules,
		env.trips,
		env.history,
		env.atts,
		env.exempts,
		env.pub,
		env.lock,
		rand.New(rand.NewSource(1)),
		config.DefaultGeofenceThresholdDegrees,
	)
	return env
}
