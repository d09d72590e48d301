package handlers

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"launchpad/internal/models"
	"launchpad/internal/store"
	dbconfig "launchpad/pkg/config"
	"launchpad/pkg/pumpportal"
)

// TokenMetadataBody is the metadata portion of a creation request.
// Only name, symbol and uri are forwarded upstream; the remaining
// fields feed the persisted token record.
type TokenMetadataBody struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	URI         string `json:"uri"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Website     string `json:"website"`
	Twitter     string `json:"twitter"`
	Telegram    string `json:"telegram"`
	Discord     string `json:"discord"`
}

// CreateTokenBody is the request body for the create-token proxy.
// Optional numeric fields are pointers so an explicit zero survives.
type CreateTokenBody struct {
	PublicKey        string             `json:"publicKey"`
	TokenMetadata    *TokenMetadataBody `json:"tokenMetadata"`
	Mint             string             `json:"mint"`
	DenominatedInSOL *bool              `json:"denominatedInSol"`
	Amount           *float64           `json:"amount"`
	Slippage         *float64           `json:"slippage"`
	PriorityFee      *float64           `json:"priorityFee"`
	Pool             string             `json:"pool"`
}

// CreateToken validates a creation request, forwards it to the
// trade-construction API and streams the unsigned transaction back
// unchanged. On pass-through success a token record is written
// best-effort; persistence failures never change the response.
func CreateToken(c *gin.Context) {
	var body CreateTokenBody
	if err := c.ShouldBindJSON(&body); err != nil {
		log.Errorf("Create token request body error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if body.PublicKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "publicKey is required"})
		return
	}
	if body.TokenMetadata == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tokenMetadata is required"})
		return
	}
	if body.Mint == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mint is required"})
		return
	}

	client := pumpportal.NewClient(os.Getenv("PUMPPORTAL_API_URL"))
	data, err := client.CreateTokenTransaction(c.Request.Context(), pumpportal.CreateTokenRequest{
		PublicKey: body.PublicKey,
		TokenMetadata: pumpportal.TokenMetadata{
			Name:   body.TokenMetadata.Name,
			Symbol: body.TokenMetadata.Symbol,
			URI:    body.TokenMetadata.URI,
		},
		Mint:             body.Mint,
		DenominatedInSOL: body.DenominatedInSOL,
		Amount:           body.Amount,
		Slippage:         body.Slippage,
		PriorityFee:      body.PriorityFee,
		Pool:             body.Pool,
	})
	if err != nil {
		var upstream *pumpportal.UpstreamError
		if errors.As(err, &upstream) {
			log.WithFields(log.Fields{
				"status": upstream.StatusCode,
				"error":  upstream.Body,
			}).Error("Trade API error")
			c.JSON(upstream.StatusCode, gin.H{"error": upstream.Body})
			return
		}
		log.Errorf("Create token API error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.Data(http.StatusOK, "application/octet-stream", data)

	// Detached best-effort persistence; the response above is final.
	go persistCreatedToken(body)
}

func persistCreatedToken(body CreateTokenBody) {
	if dbconfig.DB == nil {
		log.Debug("Database not initialized, skipping token record")
		return
	}

	initialSupply := pumpportal.DefaultAmount
	if body.Amount != nil {
		initialSupply = *body.Amount
	}

	md := body.TokenMetadata
	token := &models.Token{
		MintAddress:    body.Mint,
		Name:           md.Name,
		Symbol:         md.Symbol,
		Description:    md.Description,
		ImageURL:       md.Image,
		MetadataURI:    md.URI,
		CreatorAddress: body.PublicKey,
		InitialSupply:  initialSupply,
		Website:        md.Website,
		Twitter:        md.Twitter,
		Telegram:       md.Telegram,
		Discord:        md.Discord,
		Status:         models.TokenStatusPending,
	}

	created := store.NewTokenStore(dbconfig.DB).Create(token)
	if created == nil {
		return
	}
	notifyTokenCreated(created)
}
