package container

import (
	"context"
	"fmt"

	"github.com/saulo-duarte/proposals-lambda/internal/auth"
	"github.com/saulo-duarte/proposals-lambda/internal/config"
	"github.com/saulo-duarte/proposals-lambda/internal/metrics"
	"github.com/saulo-duarte/proposals-lambda/internal/proposal"
	"github.com/saulo-duarte/proposals-lambda/internal/user"
)

type Container struct {
	Settings          *config.Settings
	Metrics           *metrics.Recorder
	AuthHandler       *auth.Handler
	UserContainer     *user.UserContainer
	ProposalContainer *proposal.ProposalContainer
}

// New loads settings, opens the selected store and wires every feature.
func New(ctx context.Context) (*Container, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	config.Init(settings.LogLevel)
	auth.Init(settings.JWTSecret)

	userRepo, proposalRepo, err := openStores(ctx, settings)
	if err != nil {
		return nil, err
	}

	recorder := metrics.NewRecorder()

	return &Container{
		Settings:          settings,
		Metrics:           recorder,
		AuthHandler:       auth.NewHandler(settings.CookieDomain),
		UserContainer:     user.NewUserContainer(userRepo),
		ProposalContainer: proposal.NewProposalContainer(proposalRepo, userRepo, recorder, settings.UserLookupConcurrency),
	}, nil
}

func openStores(ctx context.Context, s *config.Settings) (user.UserRepository, proposal.ProposalRepository, error) {
	if s.StoreDriver == config.DriverMongo {
		if err := config.ConnectMongo(ctx, s.MongoURI, s.MongoDatabase); err != nil {
			return nil, nil, err
		}
		if err := proposal.EnsureIndexes(ctx, config.Mongo); err != nil {
			return nil, nil, fmt.Errorf("ensure proposal indexes: %w", err)
		}
		return user.NewMongoRepository(config.Mongo), proposal.NewMongoRepository(config.Mongo), nil
	}

	if err := config.Connect(ctx, s.StoreDriver, s.DatabaseDSN); err != nil {
		return nil, nil, err
	}
	if err := user.Migrate(config.DB); err != nil {
		return nil, nil, fmt.Errorf("migrate users: %w", err)
	}
	if err := proposal.Migrate(config.DB); err != nil {
		return nil, nil, fmt.Errorf("migrate proposals: %w", err)
	}
	return user.NewRepository(config.DB), proposal.NewRepository(config.DB), nil
}
