package sqlstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bookkeeping-web/internal/domain/session"
)

// persistedToken is one row per browser session and storage key.
type persistedToken struct {
	SessionID  string    `gorm:"primaryKey;size:64;column:session_id"`
	StorageKey string    `gorm:"primaryKey;size:32;column:storage_key"`
	Token      string    `gorm:"type:text;column:token"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (persistedToken) TableName() string { return "session_tokens" }

// TokenRepository keeps bearer tokens in any gorm database (sqlite for a
// single node, MySQL when several frontends share sessions).
type TokenRepository struct{ db *gorm.DB }

func NewTokenRepository(db *gorm.DB) *TokenRepository { return &TokenRepository{db: db} }

var _ session.TokenStore = (*TokenRepository)(nil)

// Migrate creates the session_tokens table.
func (r *TokenRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&persistedToken{})
}

func (r *TokenRepository) Load(ctx context.Context, sessionID string) (string, error) {
	var out persistedToken
	res := r.db.WithContext(ctx).
		Where("session_id = ? AND storage_key = ?", sessionID, session.TokenKey).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return "", session.ErrTokenNotFound
	}
	if res.Error != nil {
		return "", res.Error
	}
	return out.Token, nil
}

func (r *TokenRepository) Save(ctx context.Context, sessionID, token string) error {
	row := persistedToken{SessionID: sessionID, StorageKey: session.TokenKey, Token: token}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "storage_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"token", "updated_at"}),
		}).
		Create(&row).Error
}

func (r *TokenRepository) Delete(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ? AND storage_key = ?", sessionID, session.TokenKey).
		Delete(&persistedToken{}).Error
}
