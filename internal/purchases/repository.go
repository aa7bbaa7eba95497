package purchases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Payment method catalog
	ListPaymentMethods(ctx context.Context) ([]PaymentMethod, error)
	GetPaymentMethodByID(ctx context.Context, id uuid.UUID) (*PaymentMethod, error)
	CreatePaymentMethod(ctx context.Context, method *PaymentMethod) error

	// Sales
	CreateSale(ctx context.Context, sale *Sale) error
	GetSaleByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	ListSalesByOwner(ctx context.Context, userID, sessionID string) ([]Sale, error)
	ListActiveTickets(ctx context.Context, userID string, now time.Time) ([]ActiveTicket, error)
}

// ActiveTicket is a ticket joined with its showing's start time for the
// "my tickets" screen.
type ActiveTicket struct {
	Ticket
	StartsAt time.Time `json:"starts_at"`
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// PAYMENT METHODS

func (r *repository) ListPaymentMethods(ctx context.Context) ([]PaymentMethod, error) {
	var methods []PaymentMethod
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&methods).Error
	return methods, err
}

func (r *repository) GetPaymentMethodByID(ctx context.Context, id uuid.UUID) (*PaymentMethod, error) {
	var method PaymentMethod
	err := r.db.WithContext(ctx).First(&method, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentRejected
		}
		return nil, err
	}
	return &method, nil
}

func (r *repository) CreatePaymentMethod(ctx context.Context, method *PaymentMethod) error {
	return r.db.WithContext(ctx).Create(method).Error
}

// SALES

// CreateSale persists the sale with its items and tickets in one
// transaction (gorm cascades the associations).
func (r *repository) CreateSale(ctx context.Context, sale *Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *repository) GetSaleByID(ctx context.Context, id uuid.UUID) (*Sale, error) {
	var sale Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Tickets").
		First(&sale, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	return &sale, nil
}

func (r *repository) ListSalesByOwner(ctx context.Context, userID, sessionID string) ([]Sale, error) {
	var sales []Sale
	query := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Tickets").
		Order("created_at DESC")
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	} else {
		query = query.Where("session_id = ?", sessionID)
	}
	err := query.Find(&sales).Error
	return sales, err
}

func (r *repository) ListActiveTickets(ctx context.Context, userID string, now time.Time) ([]ActiveTicket, error) {
	var tickets []ActiveTicket
	err := r.db.WithContext(ctx).
		Table("tickets").
		Select("tickets.*, showings.starts_at").
		Joins("JOIN sales ON sales.id = tickets.sale_id").
		Joins("JOIN showings ON showings.id = tickets.showing_id").
		Where("sales.user_id = ? AND showings.starts_at >= ?", userID, now).
		Order("showings.starts_at ASC").
		Scan(&tickets).Error
	return tickets, err
}
