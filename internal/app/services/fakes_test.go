package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ensab/scolarite/internal/app/auth"
	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/app/repositories"
	"github.com/ensab/scolarite/internal/pkg/apperrors"
	"github.com/ensab/scolarite/internal/pkg/listing"
	"github.com/rs/zerolog"
)

var (
	testNow    = time.Date(2024, time.March, 5, 9, 30, 0, 0, time.UTC)
	testClock  = Clock(func() time.Time { return testNow })
	testLogger = zerolog.New(io.Discard)

	adminP   = auth.Principal{UserID: 1, ProfileID: 1, Username: "admin", Role: models.RoleAdmin}
	studentP = auth.Principal{UserID: 2, ProfileID: 1, Username: "salma@ensab.ma", Role: models.RoleStudent}
	otherP   = auth.Principal{UserID: 3, ProfileID: 2, Username: "karim@ensab.ma", Role: models.RoleStudent}
)

// memTable is an in-memory stand-in for one repository table.
type memTable[T any, P interface {
	*T
	listing.Record
}] struct {
	mu      sync.Mutex
	rows    map[int64]*T
	next    int64
	setID   func(*T, int64)
	student func(*T) int64
}

func newTable[T any, P interface {
	*T
	listing.Record
}](setID func(*T, int64), student func(*T) int64) *memTable[T, P] {
	return &memTable[T, P]{rows: map[int64]*T{}, setID: setID, student: student}
}

func (m *memTable[T, P]) insert(v *T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	m.setID(v, m.next)
	c := *v
	m.rows[m.next] = &c
}

func (m *memTable[T, P]) get(id int64) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("introuvable")
	}
	c := *row
	return &c, nil
}

func (m *memTable[T, P]) ids() []int64 {
	ids := make([]int64, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (m *memTable[T, P]) list(f repositories.RecordFilter) ([]*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*T{}
	for _, id := range m.ids() {
		row := m.rows[id]
		rec := P(row)
		if f.StudentID > 0 && m.student(row) != f.StudentID {
			continue
		}
		if listing.Active(f.Status) && rec.StatusValue() != strings.ToUpper(f.Status) {
			continue
		}
		if listing.Active(f.Kind) && rec.KindValue() != "" && rec.KindValue() != strings.ToUpper(f.Kind) {
			continue
		}
		c := *row
		out = append(out, &c)
	}
	return out, nil
}

func (m *memTable[T, P]) transition(id int64, fn func(*T) error) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("introuvable")
	}
	c := *row
	if err := fn(&c); err != nil {
		return nil, err
	}
	stored := c
	m.rows[id] = &stored
	return &c, nil
}

func (m *memTable[T, P]) remove(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return apperrors.NewResourceNotFoundError("introuvable")
	}
	delete(m.rows, id)
	return nil
}

// students

type fakeStudents struct {
	*memTable[models.Student, *models.Student]
	users []*models.User
}

func newFakeStudents(seed ...*models.Student) *fakeStudents {
	f := &fakeStudents{memTable: newTable[models.Student, *models.Student](
		func(s *models.Student, id int64) { s.ID = id },
		func(s *models.Student) int64 { return s.ID },
	)}
	for _, s := range seed {
		f.insert(s)
	}
	return f
}

func (f *fakeStudents) Create(_ context.Context, s *models.Student, u *models.User) error {
	for _, row := range f.rows {
		if strings.EqualFold(row.Email, s.Email) {
			return apperrors.NewCustomError(apperrors.ErrStudentIdentifier, "Un étudiant existe déjà avec l'e-mail "+s.Email+".")
		}
	}
	u.ID = int64(len(f.users) + 100)
	f.users = append(f.users, u)
	s.UserID = u.ID
	f.insert(s)
	return nil
}

func (f *fakeStudents) GetByID(_ context.Context, id int64) (*models.Student, error) {
	s, err := f.get(id)
	if err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrStudentNotFound, "Étudiant introuvable.")
	}
	return s, nil
}

func (f *fakeStudents) FindByIdentity(_ context.Context, email string, code int64, cin string) (*models.Student, error) {
	for _, id := range f.ids() {
		s := f.rows[id]
		if strings.EqualFold(s.Email, email) && s.CodeApogee == code && strings.EqualFold(s.CIN, cin) {
			c := *s
			return &c, nil
		}
	}
	return nil, apperrors.NewCustomError(apperrors.ErrStudentNotFound, repositories.MsgStudentNotFound)
}

func (f *fakeStudents) List(context.Context) ([]*models.Student, error) {
	return f.list(repositories.RecordFilter{})
}

func (f *fakeStudents) Update(_ context.Context, s *models.Student) error {
	_, err := f.transition(s.ID, func(row *models.Student) error {
		*row = *s
		return nil
	})
	return err
}

func (f *fakeStudents) Delete(_ context.Context, id int64) error { return f.remove(id) }

// records

type fakeRequests struct {
	*memTable[models.DocumentRequest, *models.DocumentRequest]
}

func newFakeRequests() *fakeRequests {
	return &fakeRequests{newTable[models.DocumentRequest, *models.DocumentRequest](
		func(r *models.DocumentRequest, id int64) { r.ID = id },
		func(r *models.DocumentRequest) int64 { return r.StudentID },
	)}
}

func (f *fakeRequests) Create(_ context.Context, r *models.DocumentRequest) error {
	r.Status = models.RequestPending
	f.insert(r)
	return nil
}

func (f *fakeRequests) HasPending(_ context.Context, studentID int64, t models.DocumentType) (bool, error) {
	for _, r := range f.rows {
		if r.StudentID == studentID && r.Type == t && r.Status == models.RequestPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRequests) GetByID(_ context.Context, id int64) (*models.DocumentRequest, error) {
	return f.get(id)
}

func (f *fakeRequests) List(_ context.Context, filter repositories.RecordFilter) ([]*models.DocumentRequest, error) {
	return f.list(filter)
}

func (f *fakeRequests) Transition(_ context.Context, id int64, fn func(*models.DocumentRequest) error) (*models.DocumentRequest, error) {
	return f.transition(id, fn)
}

type fakePayments struct {
	*memTable[models.Payment, *models.Payment]
}

func newFakePayments() *fakePayments {
	return &fakePayments{newTable[models.Payment, *models.Payment](
		func(p *models.Payment, id int64) { p.ID = id },
		func(p *models.Payment) int64 { return p.StudentID },
	)}
}

func (f *fakePayments) Create(_ context.Context, p *models.Payment) error {
	f.insert(p)
	return nil
}

func (f *fakePayments) GetByID(_ context.Context, id int64) (*models.Payment, error) {
	return f.get(id)
}

func (f *fakePayments) List(_ context.Context, filter repositories.RecordFilter) ([]*models.Payment, error) {
	return f.list(filter)
}

func (f *fakePayments) Transition(_ context.Context, id int64, fn func(*models.Payment) error) (*models.Payment, error) {
	return f.transition(id, fn)
}

type fakeEnrollments struct {
	*memTable[models.Enrollment, *models.Enrollment]
}

func newFakeEnrollments() *fakeEnrollments {
	return &fakeEnrollments{newTable[models.Enrollment, *models.Enrollment](
		func(e *models.Enrollment, id int64) { e.ID = id },
		func(e *models.Enrollment) int64 { return e.StudentID },
	)}
}

func (f *fakeEnrollments) Create(_ context.Context, e *models.Enrollment) error {
	f.insert(e)
	return nil
}

func (f *fakeEnrollments) GetByID(_ context.Context, id int64) (*models.Enrollment, error) {
	return f.get(id)
}

func (f *fakeEnrollments) List(_ context.Context, filter repositories.RecordFilter) ([]*models.Enrollment, error) {
	return f.list(filter)
}

func (f *fakeEnrollments) Transition(_ context.Context, id int64, fn func(*models.Enrollment) error) (*models.Enrollment, error) {
	return f.transition(id, fn)
}

type fakeComplaints struct {
	*memTable[models.Complaint, *models.Complaint]
}

func newFakeComplaints() *fakeComplaints {
	return &fakeComplaints{newTable[models.Complaint, *models.Complaint](
		func(c *models.Complaint, id int64) { c.ID = id },
		func(c *models.Complaint) int64 { return c.StudentID },
	)}
}

func (f *fakeComplaints) Create(_ context.Context, c *models.Complaint) error {
	f.insert(c)
	return nil
}

func (f *fakeComplaints) GetByID(_ context.Context, id int64) (*models.Complaint, error) {
	return f.get(id)
}

func (f *fakeComplaints) List(_ context.Context, filter repositories.RecordFilter) ([]*models.Complaint, error) {
	return f.list(filter)
}

func (f *fakeComplaints) Transition(_ context.Context, id int64, fn func(*models.Complaint) error) (*models.Complaint, error) {
	return f.transition(id, fn)
}

type fakeGrades struct {
	*memTable[models.Grade, *models.Grade]
}

func newFakeGrades() *fakeGrades {
	return &fakeGrades{newTable[models.Grade, *models.Grade](
		func(g *models.Grade, id int64) { g.ID = id },
		func(g *models.Grade) int64 { return g.StudentID },
	)}
}

func (f *fakeGrades) Create(_ context.Context, g *models.Grade) error {
	f.insert(g)
	return nil
}

func (f *fakeGrades) GetByID(_ context.Context, id int64) (*models.Grade, error) {
	return f.get(id)
}

func (f *fakeGrades) ListByStudent(_ context.Context, studentID int64) ([]*models.Grade, error) {
	return f.list(repositories.RecordFilter{StudentID: studentID})
}

func (f *fakeGrades) Update(_ context.Context, g *models.Grade) error {
	_, err := f.transition(g.ID, func(row *models.Grade) error {
		*row = *g
		return nil
	})
	return err
}

func (f *fakeGrades) Delete(_ context.Context, id int64) error { return f.remove(id) }

// accounts

type fakeUsers struct {
	byName   map[string]*models.User
	profiles map[int64]int64
	admins   int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byName: map[string]*models.User{}, profiles: map[int64]int64{}}
}

func (f *fakeUsers) add(u *models.User, profileID int64) {
	f.byName[u.Username] = u
	f.profiles[u.ID] = profileID
	if u.RoleType == models.RoleAdmin {
		f.admins++
	}
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := f.byName[username]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Utilisateur introuvable")
	}
	return u, nil
}

func (f *fakeUsers) UsernameExists(_ context.Context, username string) (bool, error) {
	_, ok := f.byName[username]
	return ok, nil
}

func (f *fakeUsers) ProfileID(_ context.Context, u *models.User) (int64, error) {
	id, ok := f.profiles[u.ID]
	if !ok {
		return 0, apperrors.NewResourceNotFoundError("Profil introuvable")
	}
	return id, nil
}

func (f *fakeUsers) CountAdmins(context.Context) (int64, error) { return f.admins, nil }

type fakeAdmins struct {
	*memTable[models.Admin, *models.Admin]
	hashes map[int64]string
}

func newFakeAdmins() *fakeAdmins {
	return &fakeAdmins{
		memTable: newTable[models.Admin, *models.Admin](
			func(a *models.Admin, id int64) { a.ID = id },
			func(*models.Admin) int64 { return 0 },
		),
		hashes: map[int64]string{},
	}
}

func (f *fakeAdmins) Create(_ context.Context, a *models.Admin, u *models.User) error {
	f.insert(a)
	f.hashes[a.ID] = u.Password
	return nil
}

func (f *fakeAdmins) GetByID(_ context.Context, id int64) (*models.Admin, error) { return f.get(id) }

func (f *fakeAdmins) List(context.Context) ([]*models.Admin, error) {
	return f.list(repositories.RecordFilter{})
}

func (f *fakeAdmins) Update(_ context.Context, a *models.Admin, hash string) error {
	_, err := f.transition(a.ID, func(row *models.Admin) error {
		*row = *a
		return nil
	})
	if err == nil && hash != "" {
		f.hashes[a.ID] = hash
	}
	return err
}

func (f *fakeAdmins) Delete(_ context.Context, id int64) error { return f.remove(id) }

type fakeStats struct {
	counts  map[string]map[string]int64
	days    map[string]float64
	total   int64
	monthly map[string]map[string]int64
}

func (f *fakeStats) CountByStatus(_ context.Context, table string) (map[string]int64, error) {
	if m, ok := f.counts[table]; ok {
		return m, nil
	}
	return map[string]int64{}, nil
}

func (f *fakeStats) AverageDays(_ context.Context, table, _ string) (float64, error) {
	return f.days[table], nil
}

func (f *fakeStats) CountStudents(context.Context) (int64, error) { return f.total, nil }

func (f *fakeStats) MonthlyRequests(context.Context) (map[string]map[string]int64, error) {
	return f.monthly, nil
}

func seedStudents() *fakeStudents {
	return newFakeStudents(
		&models.Student{LastName: "El Amrani", FirstName: "Salma", Email: "salma@ensab.ma", CodeApogee: 20231234,
			CIN: "BE123456", Program: "Génie Informatique", Level: "3ème année", AcademicYear: "2023-2024"},
		&models.Student{LastName: "Bennani", FirstName: "Karim", Email: "karim@ensab.ma", CodeApogee: 20231235,
			CIN: "BE654321", Program: "Génie Industriel", Level: "2ème année", AcademicYear: "2023-2024"},
	)
}
