package proposal_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/saulo-duarte/proposals-lambda/internal/proposal"
	"github.com/saulo-duarte/proposals-lambda/internal/user"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, proposal.Migrate(db))
	return db
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
	delay time.Duration
}

func newFakeUsers(names ...string) (*fakeUsers, []uuid.UUID) {
	f := &fakeUsers{users: make(map[uuid.UUID]*user.User)}
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		u := &user.User{ID: uuid.New(), Username: name, Active: true}
		f.users[u.ID] = u
		ids = append(ids, u.ID)
	}
	return f, ids
}

func (f *fakeUsers) Create(ctx context.Context, u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUsers) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func officeChairs(userID uuid.UUID) proposal.CreateProposalDTO {
	return proposal.CreateProposalDTO{
		User:       userID.String(),
		Title:      "Office Chairs",
		Text:       "50 units",
		Items:      "chairs",
		Cost:       5000,
		ProposedTo: "Vendor A",
		ProposedBy: "Dept X",
	}
}

func updateFrom(p *proposal.Proposal) proposal.UpdateProposalDTO {
	return proposal.UpdateProposalDTO{
		ID:         p.ID.String(),
		User:       p.UserID.String(),
		Title:      p.Title,
		Text:       p.Text,
		Items:      p.Items,
		Cost:       p.Cost,
		StartDate:  p.StartDate,
		Remark:     p.Remark,
		Completed:  proposal.Bool(p.Completed),
		ProposedBy: p.ProposedBy,
		ProposedTo: p.ProposedTo,
	}
}
