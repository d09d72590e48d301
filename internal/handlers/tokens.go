package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"launchpad/internal/models"
	"launchpad/internal/store"
	dbconfig "launchpad/pkg/config"
)

// ListTokens serves token browsing: a `mint` query selects a single
// record, `search` runs a substring match, otherwise a paginated
// listing is returned.
func ListTokens(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	// The store caps pages at 20; clamp here so the echoed pagination
	// block matches what is actually returned.
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 20 {
		limit = 20
	}

	search := c.Query("search")
	mint := c.Query("mint")

	s := store.NewTokenStore(dbconfig.DB)

	var tokens []models.Token
	switch {
	case mint != "":
		tokens = []models.Token{}
		if token := s.GetByMint(mint); token != nil {
			tokens = append(tokens, *token)
		}
	case search != "":
		tokens = s.Search(search)
	default:
		tokens = s.List(page, limit)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tokens,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": len(tokens),
		},
	})
}

// UpdateToken merges the provided fields into an existing record,
// keyed by mint_address.
func UpdateToken(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		log.Errorf("Update token request body error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	mintAddress, _ := body["mint_address"].(string)
	if mintAddress == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mint_address is required"})
		return
	}
	delete(body, "mint_address")

	if !store.NewTokenStore(dbconfig.DB).Update(mintAddress, body) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
