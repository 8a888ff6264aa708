package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pysugar/launcher-accounts/internal/db/models"
	"gorm.io/gorm"
)

// Document kinds held by the store.
const (
	KindLauncherConfig = models.LauncherConfigKey
	KindAccounts       = "accounts"
)

// StoreError reports a failed persistence operation.
type StoreError struct {
	Op   string // read, read-all, create, update, delete
	Kind string
	ID   string
	Err  error
}

func (e *StoreError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("store %s %s/%s: %v", e.Op, e.Kind, e.ID, e.Err)
	}
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Store is the launcher's document store: one LauncherConfig singleton and
// a collection of accounts keyed by id.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an initialized database.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ReadLauncherConfig returns the configuration singleton, or nil if it has
// not been created yet.
func (s *Store) ReadLauncherConfig(ctx context.Context) (*models.LauncherConfig, error) {
	var row models.Config
	err := s.db.WithContext(ctx).Where("key = ?", KindLauncherConfig).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "read", Kind: KindLauncherConfig, Err: err}
	}

	cfg := &models.LauncherConfig{}
	if err := json.Unmarshal([]byte(row.Value), cfg); err != nil {
		return nil, &StoreError{Op: "read", Kind: KindLauncherConfig, Err: fmt.Errorf("decode: %w", err)}
	}
	return cfg, nil
}

// CreateLauncherConfig stores the configuration singleton.
func (s *Store) CreateLauncherConfig(ctx context.Context, cfg *models.LauncherConfig) error {
	value, err := json.Marshal(cfg)
	if err != nil {
		return &StoreError{Op: "create", Kind: KindLauncherConfig, Err: err}
	}
	row := models.Config{Key: KindLauncherConfig, Value: string(value)}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return &StoreError{Op: "create", Kind: KindLauncherConfig, Err: err}
	}
	return nil
}

// UpdateLauncherConfig replaces the configuration singleton, creating it if
// it does not exist.
func (s *Store) UpdateLauncherConfig(ctx context.Context, cfg *models.LauncherConfig) error {
	value, err := json.Marshal(cfg)
	if err != nil {
		return &StoreError{Op: "update", Kind: KindLauncherConfig, Err: err}
	}
	result := s.db.WithContext(ctx).Model(&models.Config{}).
		Where("key = ?", KindLauncherConfig).
		Update("value", string(value))
	if result.Error != nil {
		return &StoreError{Op: "update", Kind: KindLauncherConfig, Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return s.CreateLauncherConfig(ctx, cfg)
	}
	return nil
}

// ReadAccount returns the account with the given id, or nil if absent.
func (s *Store) ReadAccount(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "read", Kind: KindAccounts, ID: id, Err: err}
	}
	return &account, nil
}

// ReadAllAccounts returns every account in insertion order.
func (s *Store) ReadAllAccounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	// rowid is assigned on insert and kept by updates.
	if err := s.db.WithContext(ctx).Order("rowid ASC").Find(&accounts).Error; err != nil {
		return nil, &StoreError{Op: "read-all", Kind: KindAccounts, Err: err}
	}
	return accounts, nil
}

// CreateAccount inserts a new account. The id must be set.
func (s *Store) CreateAccount(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		return &StoreError{Op: "create", Kind: KindAccounts, Err: errors.New("account id is required")}
	}
	if err := s.db.WithContext(ctx).Create(account).Error; err != nil {
		return &StoreError{Op: "create", Kind: KindAccounts, ID: account.ID, Err: err}
	}
	return nil
}

// UpdateAccount replaces the stored account with the same id.
func (s *Store) UpdateAccount(ctx context.Context, account models.Account) error {
	if account.ID == "" {
		return &StoreError{Op: "update", Kind: KindAccounts, Err: errors.New("account id is required")}
	}
	err := s.db.WithContext(ctx).Model(&account).Select("*").Omit("created_at").Updates(&account).Error
	if err != nil {
		return &StoreError{Op: "update", Kind: KindAccounts, ID: account.ID, Err: err}
	}
	return nil
}

// DeleteAccount removes an account. Deleting a missing id is a no-op.
func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Account{}).Error; err != nil {
		return &StoreError{Op: "delete", Kind: KindAccounts, ID: id, Err: err}
	}
	return nil
}
