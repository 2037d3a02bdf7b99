package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"special-requests/internal/models"
	"special-requests/internal/repository"
	"special-requests/internal/utils"
)

// StoreRepo holds store accounts (stores the bcrypt hash in password_h).
type StoreRepo struct{ db *pgxpool.Pool }

func NewStoreRepo(db *pgxpool.Pool) *StoreRepo { return &StoreRepo{db: db} }

var _ repository.Authenticator = (*StoreRepo)(nil)

func (r *StoreRepo) GetByCode(ctx context.Context, storeCode string) (*models.User, string, error) {
	var u models.User
	var ph string
	err := r.db.QueryRow(ctx, `
		SELECT store_code, store_name, email, role, password_h
		FROM stores WHERE store_code=$1`, storeCode).
		Scan(&u.StoreCode, &u.StoreName, &u.Email, &u.Role, &ph)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", nil
		}
		return nil, "", err
	}
	return &u, ph, nil
}

func (r *StoreRepo) Login(ctx context.Context, storeCode, password string) (*models.User, error) {
	u, hash, err := r.GetByCode(ctx, storeCode)
	if err != nil {
		return nil, err
	}
	if u == nil || !utils.CheckPassword(hash, password) {
		return nil, &repository.RejectedError{Message: "Invalid store code or password."}
	}
	return u, nil
}

// Register inserts a user-role account; an existing store code is refused.
func (r *StoreRepo) Register(ctx context.Context, in repository.Registration) (string, error) {
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return "", err
	}
	var code string
	err = r.db.QueryRow(ctx, `
		INSERT INTO stores (store_code, store_name, email, role, password_h)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (store_code) DO NOTHING
		RETURNING store_code`,
		in.StoreCode, in.StoreName, in.Email, models.RoleUser, hash).Scan(&code)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", &repository.RejectedError{Message: "Store code already registered."}
		}
		return "", err
	}
	return "Registration successful.", nil
}
