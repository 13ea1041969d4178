package proposal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProposalRepository returns copies; callers never hold live store records.
type ProposalRepository interface {
	ListAll(ctx context.Context) ([]Proposal, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Proposal, error)
	FindByTitle(ctx context.Context, title string) (*Proposal, error)
	Create(ctx context.Context, p *Proposal) error
	Update(ctx context.Context, p *Proposal) error
	Delete(ctx context.Context, id uuid.UUID) (*Proposal, error)
}

var updatableColumns = []string{
	"user_id", "title", "title_key", "text", "items", "cost", "start_date",
	"remark", "completed", "proposed_by", "proposed_to", "updated_at",
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ProposalRepository {
	return &repository{db: db}
}

// Migrate creates the proposal and counter tables and seeds the ticket sequence.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Proposal{}, &Counter{}); err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Counter{ID: ticketCounter, Seq: 0}).Error
}

func (r *repository) ListAll(ctx context.Context) ([]Proposal, error) {
	var proposals []Proposal
	if err := r.db.WithContext(ctx).Order("ticket ASC").Find(&proposals).Error; err != nil {
		return nil, err
	}
	return proposals, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Proposal, error) {
	var p Proposal
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindByTitle(ctx context.Context, title string) (*Proposal, error) {
	var p Proposal
	if err := r.db.WithContext(ctx).First(&p, "title_key = ?", TitleKey(title)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) Create(ctx context.Context, p *Proposal) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ticket, err := nextSequence(tx, ticketCounter)
		if err != nil {
			return fmt.Errorf("next ticket: %w", err)
		}

		p.Ticket = ticket
		p.TitleKey = TitleKey(p.Title)
		return tx.Create(p).Error
	})
	return translate(err)
}

func (r *repository) Update(ctx context.Context, p *Proposal) error {
	p.TitleKey = TitleKey(p.Title)
	p.UpdatedAt = time.Now()

	res := r.db.WithContext(ctx).Model(p).Select(updatableColumns).Updates(p)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProposalNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (*Proposal, error) {
	var deleted Proposal
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&deleted, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProposalNotFound
			}
			return err
		}
		res := tx.Delete(&Proposal{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProposalNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}

// nextSequence bumps the named counter inside tx; the row lock taken by the
// update serialises concurrent inserts until tx ends.
func nextSequence(tx *gorm.DB, name string) (int64, error) {
	res := bump(tx, name)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		seeded := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&Counter{ID: name, Seq: 1})
		if seeded.Error != nil {
			return 0, seeded.Error
		}
		// Another writer seeded the row first.
		if seeded.RowsAffected == 0 {
			if err := bump(tx, name).Error; err != nil {
				return 0, err
			}
		}
	}

	var c Counter
	if err := tx.First(&c, "id = ?", name).Error; err != nil {
		return 0, err
	}
	return c.Seq, nil
}

func bump(tx *gorm.DB, name string) *gorm.DB {
	return tx.Model(&Counter{}).Where("id = ?", name).
		UpdateColumn("seq", gorm.Expr("seq + ?", 1))
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateTitle
	}
	return err
}
