package integration_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaksia/easybook/internal/app"
	"github.com/jaksia/easybook/internal/mailer"
	"github.com/jaksia/easybook/internal/mocks"
	"github.com/jaksia/easybook/internal/payment"
	"github.com/redis/go-redis/v9"
)

type TestApp struct {
	App    *app.Application
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Mailer *mailer.MockMailer
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	mockMailer := mailer.NewMockMailer()

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	gateway := payment.NewMockGateway()
	generator := &mocks.MockAnswerGenerator{
		GenerateAnswerFunc: func(ctx context.Context, prompt string) (string, error) {
			return "generated reply", nil
		},
	}

	application := app.New(cfg, logger, db, redisClient, gateway, generator, mockMailer)

	return &TestApp{
		App:    application,
		DB:     db,
		Redis:  redisClient,
		Mailer: mockMailer,
	}, nil
}
