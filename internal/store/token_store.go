package store

import (
	"errors"

	"launchpad/internal/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// maxPageSize caps both list pages and search results
const maxPageSize = 20

// updatableColumns whitelists the fields a partial update may touch
var updatableColumns = map[string]bool{
	"name":            true,
	"symbol":          true,
	"description":     true,
	"image_url":       true,
	"metadata_uri":    true,
	"creator_address": true,
	"initial_supply":  true,
	"website":         true,
	"twitter":         true,
	"telegram":        true,
	"discord":         true,
	"signature":       true,
	"status":          true,
	"metadata":        true,
}

// TokenStore persists token records. Every operation degrades to an
// empty result or false on a storage fault instead of propagating the
// error; callers treat persistence as best-effort.
type TokenStore struct {
	db *gorm.DB
}

// NewTokenStore creates a TokenStore over the given database handle
func NewTokenStore(db *gorm.DB) *TokenStore {
	return &TokenStore{db: db}
}

// Create inserts a new token record. Returns the persisted record, or
// nil if the write failed.
func (s *TokenStore) Create(token *models.Token) *models.Token {
	if err := s.db.Create(token).Error; err != nil {
		log.Errorf("Error creating token record for mint %s: %v", token.MintAddress, err)
		return nil
	}
	log.Infof("Token record saved: mint=%s name=%s", token.MintAddress, token.Name)
	return token
}

// GetByMint returns the record for a mint address, or nil when no such
// record exists. Not-found is not an error condition.
func (s *TokenStore) GetByMint(mintAddress string) *models.Token {
	var token models.Token
	if err := s.db.Where("mint_address = ?", mintAddress).First(&token).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Errorf("Error fetching token %s: %v", mintAddress, err)
		}
		return nil
	}
	return &token
}

// List returns a page of records ordered by creation time descending.
// Page and limit are normalized to positive values; limit is capped.
func (s *TokenStore) List(page, limit int) []models.Token {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageSize {
		limit = maxPageSize
	}
	offset := (page - 1) * limit

	var tokens []models.Token
	if err := s.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&tokens).Error; err != nil {
		log.Errorf("Error listing tokens: %v", err)
		return []models.Token{}
	}
	if tokens == nil {
		tokens = []models.Token{}
	}
	return tokens
}

// Search matches the query as a case-insensitive substring of name or
// symbol, capped at maxPageSize results, newest first.
func (s *TokenStore) Search(query string) []models.Token {
	pattern := "%" + query + "%"

	var tokens []models.Token
	if err := s.db.
		Where("name ILIKE ? OR symbol ILIKE ?", pattern, pattern).
		Order("created_at DESC").
		Limit(maxPageSize).
		Find(&tokens).Error; err != nil {
		log.Errorf("Error searching tokens for %q: %v", query, err)
		return []models.Token{}
	}
	if tokens == nil {
		tokens = []models.Token{}
	}
	return tokens
}

// Update merges the given fields into the record for a mint address.
// Unknown fields are ignored. Returns false when nothing was updated,
// whether because the record does not exist or the write failed.
func (s *TokenStore) Update(mintAddress string, updates map[string]interface{}) bool {
	filtered := make(map[string]interface{}, len(updates))
	for key, value := range updates {
		if updatableColumns[key] {
			filtered[key] = value
		}
	}
	if len(filtered) == 0 {
		return false
	}

	result := s.db.Model(&models.Token{}).
		Where("mint_address = ?", mintAddress).
		Updates(filtered)
	if result.Error != nil {
		log.Errorf("Error updating token %s: %v", mintAddress, result.Error)
		return false
	}
	return result.RowsAffected > 0
}

// ListPending returns up to limit records still awaiting confirmation,
// oldest first, so the worker can re-check their signatures.
func (s *TokenStore) ListPending(limit int) []models.Token {
	if limit < 1 {
		limit = maxPageSize
	}

	var tokens []models.Token
	if err := s.db.
		Where("status = ? AND signature <> ''", models.TokenStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&tokens).Error; err != nil {
		log.Errorf("Error listing pending tokens: %v", err)
		return []models.Token{}
	}
	if tokens == nil {
		tokens = []models.Token{}
	}
	return tokens
}
