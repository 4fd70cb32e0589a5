package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/gpatracker/internal/common"
	"github.com/dmitrijs2005/gpatracker/internal/dbx"
	"github.com/dmitrijs2005/gpatracker/internal/server/models"
	"github.com/dmitrijs2005/gpatracker/internal/server/notify"
	"github.com/dmitrijs2005/gpatracker/internal/server/repositories/classrecords"
	"github.com/dmitrijs2005/gpatracker/internal/server/repositories/tenants"
	"github.com/dmitrijs2005/gpatracker/internal/server/repositories/users"
	"github.com/dmitrijs2005/gpatracker/internal/server/resettokens"
)

// --- users ---

type fakeUsersRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User

	createErr error
	lookupErr error
	updateErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[int64]*models.User{}}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	cp := *u
	cp.ID = f.nextID
	cp.CreatedAt = time.Now()
	f.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeUsersRepo) find(match func(*models.User) bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, u := range f.byID {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetUserByLogin(_ context.Context, userName string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.UserName == userName })
}

func (f *fakeUsersRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Email == email })
}

func (f *fakeUsersRepo) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.ID == id })
}

func (f *fakeUsersRepo) ExistsByLoginOrEmail(_ context.Context, userName, email string) (bool, error) {
	_, err := f.find(func(u *models.User) bool { return u.UserName == userName || u.Email == email })
	switch {
	case err == nil:
		return true, nil
	case err == common.ErrorNotFound:
		return false, nil
	default:
		return false, err
	}
}

func (f *fakeUsersRepo) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUsersRepo) remove(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
}

// --- tenants ---

type fakeTenantsRepo struct {
	mu          sync.Mutex
	provisioned map[string]int
	err         error
}

func (f *fakeTenantsRepo) Provision(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.provisioned == nil {
		f.provisioned = map[string]int{}
	}
	f.provisioned[name]++
	return nil
}

// --- class records ---

type storedRecord struct {
	tenant string
	rec    models.ClassRecord
}

type fakeRecordsRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]storedRecord
	err    error
}

func newFakeRecordsRepo() *fakeRecordsRepo {
	return &fakeRecordsRepo{rows: map[int64]storedRecord{}}
}

func (f *fakeRecordsRepo) List(_ context.Context, tenant string) ([]*models.ClassRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	items := make([]*models.ClassRecord, 0)
	for _, r := range f.rows {
		if r.tenant == tenant {
			cp := r.rec
			items = append(items, &cp)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return items, nil
}

func (f *fakeRecordsRepo) Create(_ context.Context, tenant string, rec *models.ClassRecord) (*models.ClassRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	cp := *rec
	cp.ID = f.nextID
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.rows[cp.ID] = storedRecord{tenant: tenant, rec: cp}
	return &cp, nil
}

func (f *fakeRecordsRepo) Update(_ context.Context, tenant string, rec *models.ClassRecord) (*models.ClassRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	cur, ok := f.rows[rec.ID]
	if !ok || cur.tenant != tenant {
		return nil, common.ErrorNotFound
	}
	cp := *rec
	cp.CreatedAt = cur.rec.CreatedAt
	cp.UpdatedAt = time.Now()
	f.rows[rec.ID] = storedRecord{tenant: tenant, rec: cp}
	return &cp, nil
}

func (f *fakeRecordsRepo) Delete(_ context.Context, tenant string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if cur, ok := f.rows[id]; ok && cur.tenant == tenant {
		delete(f.rows, id)
	}
	return nil
}

func (f *fakeRecordsRepo) Totals(_ context.Context, tenant string) (float64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, 0, f.err
	}
	var points float64
	var credits int64
	for _, r := range f.rows {
		if r.tenant == tenant {
			points += r.rec.Grade * float64(r.rec.Credits)
			credits += int64(r.rec.Credits)
		}
	}
	return points, credits, nil
}

// --- repository manager ---

type fakeRepoManager struct {
	users   *fakeUsersRepo
	tenants *fakeTenantsRepo
	records *fakeRecordsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:   newFakeUsersRepo(),
		tenants: &fakeTenantsRepo{},
		records: newFakeRecordsRepo(),
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error       { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository                   { return m.users }
func (m *fakeRepoManager) Tenants(dbx.DBTX) tenants.Repository               { return m.tenants }
func (m *fakeRepoManager) ClassRecords(dbx.DBTX) classrecords.Repository     { return m.records }

// --- notifications ---

type recordingMailer struct {
	mu   sync.Mutex
	sent []notify.Message
	err  error

	// block, when set, holds Send until it is closed
	block chan struct{}
}

func (r *recordingMailer) Send(ctx context.Context, msg notify.Message) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := ctx.Deadline(); !ok {
		panic("send without deadline")
	}
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingMailer) messages() []notify.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Message(nil), r.sent...)
}

// --- reset tokens ---

// capturingStore remembers the last token put, so tests can use it.
type capturingStore struct {
	*resettokens.MemoryStore
	mu   sync.Mutex
	last string
}

func (s *capturingStore) Put(t models.ResetToken) {
	s.mu.Lock()
	s.last = t.Token
	s.mu.Unlock()
	s.MemoryStore.Put(t)
}

func (s *capturingStore) lastToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
