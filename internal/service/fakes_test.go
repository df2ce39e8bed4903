package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/ledger-sync/internal/logger"
	"github.com/MKhiriev/ledger-sync/internal/store"
	"github.com/MKhiriev/ledger-sync/internal/validators"
	"github.com/MKhiriev/ledger-sync/models"
)

var errNoSQL = errors.New("in-memory querier does not run sql")

// memQuerier stands in for *sql.Tx; the in-memory stores never use it.
type memQuerier struct{}

func (memQuerier) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, errNoSQL
}

func (memQuerier) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, errNoSQL
}

func (memQuerier) QueryRowContext(context.Context, string, ...any) *sql.Row {
	return nil
}

// memDB is an in-memory database with whole-state snapshots for rollback.
type memDB struct {
	mu     sync.Mutex
	tables map[string]map[string]models.Record
	logs   []models.LogEntry

	beginErr error
}

func newMemDB() *memDB {
	return &memDB{tables: make(map[string]map[string]models.Record)}
}

func (db *memDB) table(name string) map[string]models.Record {
	rows, ok := db.tables[name]
	if !ok {
		rows = make(map[string]models.Record)
		db.tables[name] = rows
	}
	return rows
}

func (db *memDB) snapshot() (map[string]map[string]models.Record, []models.LogEntry) {
	db.mu.Lock()
	defer db.mu.Unlock()

	tables := make(map[string]map[string]models.Record, len(db.tables))
	for name, rows := range db.tables {
		tables[name] = maps.Clone(rows)
	}
	return tables, slices.Clone(db.logs)
}

func (db *memDB) restore(tables map[string]map[string]models.Record, logs []models.LogEntry) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.tables = tables
	db.logs = logs
}

func (db *memDB) record(table, id string) (models.Record, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()

	r, ok := db.tables[table][id]
	return r, ok
}

func (db *memDB) logByID(id string) (models.LogEntry, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, l := range db.logs {
		if l.ID == id {
			return l, true
		}
	}
	return models.LogEntry{}, false
}

// WithinTransaction implements store.Transactor.
func (db *memDB) WithinTransaction(ctx context.Context, fn func(ctx context.Context, q store.Querier) error) (err error) {
	if db.beginErr != nil {
		return fmt.Errorf("%w: %w", store.ErrBeginningTransaction, db.beginErr)
	}

	tables, logs := db.snapshot()
	defer func() {
		if p := recover(); p != nil {
			db.restore(tables, logs)
			panic(p)
		}
		if err != nil {
			db.restore(tables, logs)
		}
	}()

	return fn(ctx, memQuerier{})
}

type memRecordStore[T models.Record] struct {
	db    *memDB
	table string
}

func newMemRecordStore[T models.Record](db *memDB, newRecord func() T) store.RecordStore[T] {
	return &memRecordStore[T]{db: db, table: newRecord().TableName()}
}

func (s *memRecordStore[T]) Insert(_ context.Context, _ store.Querier, records ...T) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	rows := s.db.table(s.table)
	for _, r := range records {
		if _, ok := rows[r.PrimaryKey()]; ok {
			return fmt.Errorf("%w: duplicate %s %s", store.ErrConstraintViolation, s.table, r.PrimaryKey())
		}
		rows[r.PrimaryKey()] = r
	}
	return nil
}

func (s *memRecordStore[T]) Update(_ context.Context, _ store.Querier, records ...T) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	rows := s.db.table(s.table)
	for _, r := range records {
		if _, ok := rows[r.PrimaryKey()]; !ok {
			return fmt.Errorf("%w: %s %s", store.ErrRecordNotFound, s.table, r.PrimaryKey())
		}
		rows[r.PrimaryKey()] = r
	}
	return nil
}

func (s *memRecordStore[T]) Delete(_ context.Context, _ store.Querier, ids ...string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	rows := s.db.table(s.table)
	if len(ids) == 1 {
		if _, ok := rows[ids[0]]; !ok {
			return fmt.Errorf("%w: %s %s", store.ErrRecordNotFound, s.table, ids[0])
		}
	}
	for _, id := range ids {
		delete(rows, id)
	}
	return nil
}

// memLogEntries mirrors the log_entries table and its unique operation index.
type memLogEntries struct {
	db *memDB

	findErr error
}

func operationKey(l models.LogEntry) string {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	return fmt.Sprintf("%s|%s|%s|%s|%s|%d", deref(l.ParentType), deref(l.ParentID), l.BusinessType, l.BusinessID.Key(), l.OperatorID, l.OperatedAt)
}

func (r *memLogEntries) conflicts(entry models.LogEntry) bool {
	for _, l := range r.db.logs {
		if l.ID == entry.ID || operationKey(l) == operationKey(entry) {
			return true
		}
	}
	return false
}

func (r *memLogEntries) Insert(_ context.Context, _ store.Querier, entry models.LogEntry) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.conflicts(entry) {
		return fmt.Errorf("%w: log entry %s", store.ErrConstraintViolation, entry.ID)
	}
	r.db.logs = append(r.db.logs, entry)
	return nil
}

func (r *memLogEntries) InsertIfAbsent(_ context.Context, _ store.Querier, entry models.LogEntry) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.conflicts(entry) {
		return false, nil
	}
	r.db.logs = append(r.db.logs, entry)
	return true, nil
}

func (r *memLogEntries) FindByID(_ context.Context, _ store.Querier, id string) (models.LogEntry, error) {
	if r.findErr != nil {
		return models.LogEntry{}, r.findErr
	}
	if l, ok := r.db.logByID(id); ok {
		return l, nil
	}
	return models.LogEntry{}, store.ErrLogEntryNotFound
}

func (r *memLogEntries) FindVisible(_ context.Context, _ store.Querier, filter store.VisibilityFilter) ([]models.LogEntry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var out []models.LogEntry
	for _, l := range r.db.logs {
		if l.SyncState != models.SyncStateSynced {
			continue
		}
		if filter.After != nil && (l.SyncTime == nil || *l.SyncTime <= *filter.After) {
			continue
		}
		if slices.Contains(filter.ExcludeIDs, l.ID) {
			continue
		}

		inBook := l.ParentType != nil && *l.ParentType == models.ParentTypeBook &&
			l.ParentID != nil && slices.Contains(filter.BookIDs, *l.ParentID)
		if l.OperatorID == filter.UserID || l.BusinessType == models.BusinessTypeUser || inBook {
			out = append(out, l)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OperatedAt != out[j].OperatedAt {
			return out[i].OperatedAt < out[j].OperatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// memPermissions reads book_members rows written through the applier.
type memPermissions struct {
	db *memDB
}

func (p *memPermissions) HasViewPermission(ctx context.Context, userID, bookID string) (bool, error) {
	ids, err := p.ViewableBookIDs(ctx, userID)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, bookID), nil
}

func (p *memPermissions) ViewableBookIDs(_ context.Context, userID string) ([]string, error) {
	p.db.mu.Lock()
	defer p.db.mu.Unlock()

	var ids []string
	for _, r := range p.db.tables["book_members"] {
		m := r.(*models.BookMember)
		if m.UserID == userID && m.CanViewBook && !slices.Contains(ids, m.BookID) {
			ids = append(ids, m.BookID)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

type memUsers struct {
	db *memDB
}

func (u *memUsers) CreateUser(_ context.Context, _ store.Querier, user models.User) error {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()

	rows := u.db.table("users")
	for _, r := range rows {
		if r.(*models.User).Username == user.Username {
			return store.ErrUsernameAlreadyExists
		}
	}
	rows[user.ID] = &user
	return nil
}

func (u *memUsers) FindUserByUsername(_ context.Context, username string) (models.User, error) {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()

	for _, r := range u.db.tables["users"] {
		if user := r.(*models.User); user.Username == username {
			return *user, nil
		}
	}
	return models.User{}, store.ErrUserNotFound
}

// memStorages wires the in-memory fakes the way store.NewStoragesFromDB
// wires the SQL repositories.
func memStorages(db *memDB) *store.Storages {
	return &store.Storages{
		Transactor:  db,
		LogEntries:  &memLogEntries{db: db},
		Permissions: &memPermissions{db: db},
		Users:       &memUsers{db: db},

		Books:       newMemRecordStore(db, func() *models.Book { return new(models.Book) }),
		Categories:  newMemRecordStore(db, func() *models.Category { return new(models.Category) }),
		Funds:       newMemRecordStore(db, func() *models.Fund { return new(models.Fund) }),
		Items:       newMemRecordStore(db, func() *models.Item { return new(models.Item) }),
		Shops:       newMemRecordStore(db, func() *models.Shop { return new(models.Shop) }),
		Symbols:     newMemRecordStore(db, func() *models.Symbol { return new(models.Symbol) }),
		FundBooks:   newMemRecordStore(db, func() *models.FundBook { return new(models.FundBook) }),
		BookMembers: newMemRecordStore(db, func() *models.BookMember { return new(models.BookMember) }),
		UserRecords: newMemRecordStore(db, func() *models.User { return new(models.User) }),
	}
}

// stepClock advances by one millisecond on every reading.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.UnixMilli(1_700_000_000_000)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(time.Millisecond)
	return c.now
}

type seqIDs struct {
	mu   sync.Mutex
	next int
}

func (g *seqIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.next++
	return fmt.Sprintf("gen-%03d", g.next)
}

func newTestSyncService(storages *store.Storages, clock *stepClock) *syncService {
	return &syncService{
		transactor:   storages.Transactor,
		db:           memQuerier{},
		logEntries:   storages.LogEntries,
		applier:      NewStoreApplier(storages),
		resolver:     NewVisibilityResolver(memQuerier{}, storages.LogEntries, storages.Permissions),
		desensitizer: NewDesensitizer(),
		validator:    validators.NewLogEntryValidator(),
		ids:          &seqIDs{},
		now:          clock.Now,
	}
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	return logger.Nop().WithContext(context.Background())
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }
