package proposal

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/saulo-duarte/proposals-lambda/internal/auth"
	"github.com/saulo-duarte/proposals-lambda/internal/config"
	"github.com/saulo-duarte/proposals-lambda/internal/user"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const defaultLookupConcurrency = 8

type ProposalService interface {
	List(ctx context.Context) ([]ProposalResponse, error)
	Create(ctx context.Context, dto CreateProposalDTO) (*Proposal, error)
	Update(ctx context.Context, dto UpdateProposalDTO) (*Proposal, error)
	Delete(ctx context.Context, dto DeleteProposalDTO) (*Proposal, error)
}

type proposalService struct {
	repo              ProposalRepository
	userRepo          user.UserRepository
	lookupConcurrency int
}

func NewService(repo ProposalRepository, userRepo user.UserRepository, lookupConcurrency int) ProposalService {
	if lookupConcurrency <= 0 {
		lookupConcurrency = defaultLookupConcurrency
	}
	return &proposalService{
		repo:              repo,
		userRepo:          userRepo,
		lookupConcurrency: lookupConcurrency,
	}
}

func logger(ctx context.Context) *logrus.Entry {
	log := config.WithContext(ctx)
	if claims, err := auth.GetUserClaimsFromContext(ctx); err == nil {
		log = log.WithField("actor", claims.UserID)
	}
	return log
}

func (s *proposalService) List(ctx context.Context) ([]ProposalResponse, error) {
	log := logger(ctx)

	proposals, err := s.repo.ListAll(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list proposals")
		return nil, err
	}
	if len(proposals) == 0 {
		return nil, ErrNoProposalsFound
	}

	responses := make([]ProposalResponse, len(proposals))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.lookupConcurrency)

	for i := range proposals {
		g.Go(func() error {
			p := proposals[i]
			u, err := s.userRepo.FindByID(gctx, p.UserID)
			if err != nil {
				if errors.Is(err, user.ErrUserNotFound) {
					return fmt.Errorf("%w: proposal %s references user %s", ErrUnresolvedUser, p.ID, p.UserID)
				}
				return fmt.Errorf("resolve user %s: %w", p.UserID, err)
			}
			responses[i] = ProposalResponse{Proposal: p, Username: u.Username}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Failed to resolve proposal users")
		return nil, err
	}

	log.WithField("count", len(responses)).Info("Proposals listed")
	return responses, nil
}

func (s *proposalService) Create(ctx context.Context, dto CreateProposalDTO) (*Proposal, error) {
	log := logger(ctx)

	if err := dto.Validate(); err != nil {
		log.Warn("Create proposal with missing fields")
		return nil, err
	}

	if err := s.ensureTitleAvailable(ctx, dto.Title, uuid.Nil); err != nil {
		if errors.Is(err, ErrDuplicateTitle) {
			log.WithField("title", dto.Title).Warn("Duplicate proposal title on create")
		}
		return nil, err
	}

	userID, err := uuid.Parse(dto.User)
	if err != nil {
		log.WithError(err).Warn("Invalid user reference on create")
		return nil, fmt.Errorf("%w: invalid user %q", ErrInvalidProposalData, dto.User)
	}

	p := &Proposal{
		UserID:     userID,
		Title:      dto.Title,
		Text:       dto.Text,
		Items:      dto.Items,
		Cost:       dto.Cost,
		StartDate:  dto.StartDate,
		Remark:     dto.Remark,
		ProposedTo: dto.ProposedTo,
		ProposedBy: dto.ProposedBy,
		Completed:  false,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, ErrDuplicateTitle) {
			log.WithField("title", dto.Title).Warn("Duplicate proposal title rejected by store")
			return nil, err
		}
		log.WithError(err).Error("Failed to create proposal")
		return nil, fmt.Errorf("%w: %v", ErrInvalidProposalData, err)
	}

	log.WithFields(logrus.Fields{
		"proposal_id": p.ID,
		"ticket":      p.Ticket,
	}).Info("Proposal created")
	return p, nil
}

func (s *proposalService) Update(ctx context.Context, dto UpdateProposalDTO) (*Proposal, error) {
	log := logger(ctx)

	if err := dto.Validate(); err != nil {
		log.Warn("Update proposal with missing fields")
		return nil, err
	}

	id, err := uuid.Parse(dto.ID)
	if err != nil {
		log.WithField("proposal_id", dto.ID).Warn("Malformed proposal id on update")
		return nil, ErrProposalNotFound
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProposalNotFound) {
			log.WithField("proposal_id", id).Warn("Proposal not found for update")
			return nil, err
		}
		log.WithError(err).Error("Failed to find proposal for update")
		return nil, err
	}

	if err := s.ensureTitleAvailable(ctx, dto.Title, id); err != nil {
		if errors.Is(err, ErrDuplicateTitle) {
			log.WithField("title", dto.Title).Warn("Duplicate proposal title on update")
		}
		return nil, err
	}

	userID, err := uuid.Parse(dto.User)
	if err != nil {
		log.WithError(err).Warn("Invalid user reference on update")
		return nil, fmt.Errorf("%w: invalid user %q", ErrInvalidProposalData, dto.User)
	}

	existing.UserID = userID
	existing.Title = dto.Title
	existing.Text = dto.Text
	existing.Items = dto.Items
	existing.Cost = dto.Cost
	existing.StartDate = dto.StartDate
	existing.Remark = dto.Remark
	existing.Completed = dto.Completed.Value
	existing.ProposedBy = dto.ProposedBy
	existing.ProposedTo = dto.ProposedTo

	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, ErrProposalNotFound) || errors.Is(err, ErrDuplicateTitle) {
			log.WithError(err).Warn("Proposal update rejected by store")
			return nil, err
		}
		log.WithError(err).Error("Failed to update proposal")
		return nil, fmt.Errorf("%w: %v", ErrInvalidProposalData, err)
	}

	log.WithField("proposal_id", existing.ID).Info("Proposal updated")
	return existing, nil
}

func (s *proposalService) Delete(ctx context.Context, dto DeleteProposalDTO) (*Proposal, error) {
	log := logger(ctx)

	if err := dto.Validate(); err != nil {
		log.Warn("Delete proposal without id")
		return nil, err
	}

	id, err := uuid.Parse(dto.ID)
	if err != nil {
		log.WithField("proposal_id", dto.ID).Warn("Malformed proposal id on delete")
		return nil, ErrProposalNotFound
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, ErrProposalNotFound) {
			log.WithField("proposal_id", id).Warn("Proposal not found for deletion")
			return nil, err
		}
		log.WithError(err).Error("Failed to find proposal for deletion")
		return nil, err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrProposalNotFound) {
			log.WithError(err).Error("Failed to delete proposal")
		}
		return nil, err
	}

	log.WithField("proposal_id", deleted.ID).Info("Proposal deleted")
	return deleted, nil
}

// ensureTitleAvailable fails with ErrDuplicateTitle when another proposal than
// self already holds an equivalent title.
func (s *proposalService) ensureTitleAvailable(ctx context.Context, title string, self uuid.UUID) error {
	dup, err := s.repo.FindByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, ErrProposalNotFound) {
			return nil
		}
		logger(ctx).WithError(err).Error("Failed to check proposal title")
		return err
	}
	if dup.ID != self {
		return ErrDuplicateTitle
	}
	return nil
}
