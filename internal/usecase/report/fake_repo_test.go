package report_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"studyhub/internal/domain/entity"
	"studyhub/internal/repository"
)

// memRepo is an in-memory ReportRepository. Reports become visible in
// rows only on Commit, mirroring transactional semantics.
type memRepo struct {
	mu       sync.Mutex
	contents map[int64]*entity.Content
	rows     []*entity.Report
	nextID   int64

	beginErr  error
	lookupErr error
	insertErr error
	commitErr error

	begins    int
	lookups   int
	rollbacks int
	commits   int
}

func newMemRepo(contents ...*entity.Content) *memRepo {
	r := &memRepo{contents: make(map[int64]*entity.Content), nextID: 100}
	for _, c := range contents {
		r.contents[c.ID] = c
	}
	return r
}

func (r *memRepo) rowCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

func (r *memRepo) BeginTx(ctx context.Context) (repository.ReportTx, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.begins++
	if r.beginErr != nil {
		return nil, r.beginErr
	}
	return &memTx{repo: r}, nil
}

type memTx struct {
	repo    *memRepo
	pending []*entity.Report
	done    bool
}

func (t *memTx) GetActiveContent(ctx context.Context, id int64) (*entity.Content, error) {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	t.repo.lookups++
	if t.repo.lookupErr != nil {
		return nil, t.repo.lookupErr
	}
	c, ok := t.repo.contents[id]
	if !ok || c.IsDeleted() {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (t *memTx) CreateReport(ctx context.Context, report *entity.Report) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	if t.repo.insertErr != nil {
		return t.repo.insertErr
	}
	t.repo.nextID++
	report.ID = t.repo.nextID
	report.CreatedAt = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
	t.pending = append(t.pending, report)
	return nil
}

func (t *memTx) Commit() error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	if t.done {
		return sql.ErrTxDone
	}
	t.done = true
	if t.repo.commitErr != nil {
		return t.repo.commitErr
	}
	t.repo.commits++
	t.repo.rows = append(t.repo.rows, t.pending...)
	return nil
}

func (t *memTx) Rollback() error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	if t.done {
		return sql.ErrTxDone
	}
	t.done = true
	t.repo.rollbacks++
	t.pending = nil
	return nil
}

var errDB = errors.New("connection reset by peer")
