// Package memory is an in-process row store for local development and tests.
package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"special-requests/internal/models"
	"special-requests/internal/repository"
	"special-requests/internal/utils"
)

// Account is a seeded login for the in-memory authenticator.
type Account struct {
	User     models.User
	Password string
}

type Store struct {
	mu       sync.Mutex
	rows     []models.Row
	items    []models.MasterItem
	accounts map[string]account
	nextRow  int
	nextID   int
	now      func() time.Time
}

type account struct {
	user models.User
	hash string
}

var (
	_ repository.RowStore      = (*Store)(nil)
	_ repository.Authenticator = (*Store)(nil)
)

// New returns an empty store. Handles start at 2 and ticket ids at R100,
// mirroring a sheet with a header row.
func New(items []models.MasterItem, accounts ...Account) (*Store, error) {
	s := &Store{
		items:    append([]models.MasterItem(nil), items...),
		accounts: make(map[string]account, len(accounts)),
		nextRow:  2,
		nextID:   100,
		now:      time.Now,
	}
	for _, a := range accounts {
		hash, err := utils.HashPassword(a.Password)
		if err != nil {
			return nil, err
		}
		s.accounts[a.User.StoreCode] = account{user: a.User, hash: hash}
	}
	return s, nil
}

// WithClock replaces the timestamp source used for new tickets.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

func (s *Store) FetchRows(ctx context.Context) ([]models.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Row{}, s.rows...), nil
}

func (s *Store) UpdateRowStatus(ctx context.Context, handle int, status models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].Handle == handle {
			s.rows[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("%w: %d", repository.ErrRowNotFound, handle)
}

func (s *Store) SubmitTicket(ctx context.Context, sub models.Submission) (string, error) {
	qtys := make([]int, len(sub.Items))
	for i, d := range sub.Items {
		n, err := d.Quantity()
		if err != nil {
			return "", &repository.RejectedError{Message: err.Error()}
		}
		qtys[i] = n
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := "R" + strconv.Itoa(s.nextID)
	s.nextID++
	at := s.now().UTC()
	for i, d := range sub.Items {
		s.rows = append(s.rows, models.Row{
			TicketID:        id,
			SubmittedAt:     at,
			Store:           sub.Store,
			ItemCode:        d.Code,
			ItemDescription: d.Name,
			Quantity:        qtys[i],
			Reason:          d.Reason,
			Status:          models.StatusPending,
			SubmitterEmail:  sub.Email,
			Handle:          s.nextRow,
		})
		s.nextRow++
	}
	return fmt.Sprintf("Request %s submitted successfully.", id), nil
}

func (s *Store) FetchMasterItems(ctx context.Context) ([]models.MasterItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.MasterItem{}, s.items...), nil
}

func (s *Store) Login(ctx context.Context, storeCode, password string) (*models.User, error) {
	s.mu.Lock()
	a, ok := s.accounts[storeCode]
	s.mu.Unlock()
	if !ok || !utils.CheckPassword(a.hash, password) {
		return nil, &repository.RejectedError{Message: "Invalid store code or password."}
	}
	u := a.user
	return &u, nil
}

// Register creates a store account. Self-registration never grants admin.
func (s *Store) Register(ctx context.Context, in repository.Registration) (string, error) {
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[in.StoreCode]; exists {
		return "", &repository.RejectedError{Message: "Store code already registered."}
	}
	s.accounts[in.StoreCode] = account{
		user: models.User{StoreCode: in.StoreCode, StoreName: in.StoreName, Email: in.Email, Role: models.RoleUser},
		hash: hash,
	}
	return "Registration successful.", nil
}
