package proposal

import (
	"github.com/saulo-duarte/proposals-lambda/internal/metrics"
	"github.com/saulo-duarte/proposals-lambda/internal/user"
)

type ProposalContainer struct {
	Repo    ProposalRepository
	Service ProposalService
	Handler *Handler
}

func NewProposalContainer(
	repo ProposalRepository,
	userRepo user.UserRepository,
	recorder *metrics.Recorder,
	lookupConcurrency int,
) *ProposalContainer {
	service := NewService(repo, userRepo, lookupConcurrency)
	handler := NewHandler(service, recorder)

	return &ProposalContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
