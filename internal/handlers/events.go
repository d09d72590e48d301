package handlers

import (
	log "github.com/sirupsen/logrus"

	"launchpad/internal/feed"
	"launchpad/internal/models"
	dbconfig "launchpad/pkg/config"
)

// TokenCreatedQueue receives an event for every persisted creation
const TokenCreatedQueue = "token_created"

// TokenFeed pushes persisted creations to websocket subscribers
var TokenFeed = feed.NewHub()

// TokenCreatedEvent is the message published for each new token
type TokenCreatedEvent struct {
	MintAddress    string `json:"mint_address"`
	Name           string `json:"name"`
	Symbol         string `json:"symbol"`
	CreatorAddress string `json:"creator_address"`
	Signature      string `json:"signature"`
}

// notifyTokenCreated fans a persisted token record out to the live feed
// and the message queue. Both are best-effort.
func notifyTokenCreated(token *models.Token) {
	TokenFeed.Broadcast(token)

	if dbconfig.RabbitMQ == nil {
		return
	}
	publisher, err := dbconfig.NewPublisher(TokenCreatedQueue)
	if err != nil {
		log.Warnf("Failed to create publisher for token %s: %v", token.MintAddress, err)
		return
	}
	defer publisher.Close()

	event := TokenCreatedEvent{
		MintAddress:    token.MintAddress,
		Name:           token.Name,
		Symbol:         token.Symbol,
		CreatorAddress: token.CreatorAddress,
		Signature:      token.Signature,
	}
	if err := publisher.Publish(event); err != nil {
		log.Warnf("Failed to publish token created event for %s: %v", token.MintAddress, err)
	}
}
