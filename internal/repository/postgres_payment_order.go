package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaksia/easybook/internal/domain"
)

type PostgresPaymentOrderRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPaymentOrderRepository(db *pgxpool.Pool) *PostgresPaymentOrderRepository {
	return &PostgresPaymentOrderRepository{
		db: db,
	}
}

func (p *PostgresPaymentOrderRepository) Create(ctx context.Context, order *domain.PaymentOrder) error {
	query := `
		INSERT INTO payment_orders (order_id, amount, status, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	return p.db.QueryRow(
		ctx,
		query,
		order.OrderID,
		order.Amount,
		order.Status,
		order.Description,
	).Scan(&order.ID, &order.CreatedAt)
}

func (p *PostgresPaymentOrderRepository) GetByOrderId(ctx context.Context, orderID string) (*domain.PaymentOrder, error) {
	query := `
		SELECT id, order_id, COALESCE(payment_id, ''), amount, status,
			description, COALESCE(error_message, ''), created_at, updated_at
		FROM payment_orders
		WHERE order_id = $1
	`

	var order domain.PaymentOrder

	err := p.db.QueryRow(ctx, query, orderID).Scan(
		&order.ID,
		&order.OrderID,
		&order.PaymentID,
		&order.Amount,
		&order.Status,
		&order.Description,
		&order.ErrorMsg,
		&order.CreatedAt,
		&order.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &order, nil
}

func (p *PostgresPaymentOrderRepository) MarkSucceeded(ctx context.Context, orderID, paymentID string) error {
	return p.transition(ctx, orderID, paymentID, domain.PaymentOrderSuccess, "")
}

func (p *PostgresPaymentOrderRepository) MarkFailed(ctx context.Context, orderID, paymentID, reason string) error {
	return p.transition(ctx, orderID, paymentID, domain.PaymentOrderFailed, reason)
}

// transition moves an order out of CREATED. The status predicate makes the
// update a compare-and-set: a row already in a terminal state is left
// untouched and the call fails with ErrInvalidStateTransition.
func (p *PostgresPaymentOrderRepository) transition(
	ctx context.Context,
	orderID, paymentID string,
	status domain.PaymentOrderStatus,
	reason string) error {

	query := `
		UPDATE payment_orders
		SET payment_id = $2, status = $3, error_message = NULLIF($4, ''), updated_at = NOW()
		WHERE order_id = $1 AND status = $5
	`

	tag, err := p.db.Exec(ctx, query, orderID, paymentID, status, reason, domain.PaymentOrderCreated)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		_, err := p.GetByOrderId(ctx, orderID)
		if err != nil {
			return err
		}

		return domain.ErrInvalidStateTransition
	}

	return nil
}
