package main

import (
	"encoding/json"
	"os"

	"launchpad/internal/models"
	"launchpad/internal/store"
	"launchpad/pkg/config"
	solanapkg "launchpad/pkg/solana"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	logrus "github.com/sirupsen/logrus"
)

const (
	// confirmationBatchSize bounds how many pending tokens each sweep inspects
	confirmationBatchSize = 50
)

func main() {
	// Initialize logger
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	// Initialize database
	config.InitDB()
	tokenStore := store.NewTokenStore(config.DB)

	// Initialize RabbitMQ
	config.InitRabbitMQ()
	defer config.RabbitMQ.Close()

	endpoint := os.Getenv("DEFAULT_SOLANA_RPC")
	if endpoint == "" {
		endpoint = rpc.MainNetBeta_RPC
	}
	rpcClient := rpc.New(endpoint)

	// Periodically re-check tokens whose transactions have not confirmed yet
	c := cron.New(cron.WithSeconds())
	_, err := c.AddFunc("*/30 * * * * *", func() {
		sweepPendingTokens(tokenStore, rpcClient)
	})
	if err != nil {
		logrus.Fatal("Failed to schedule confirmation sweep: ", err)
	}
	c.Start()
	defer c.Stop()

	// Create consumer for token created queue
	msgConsumer, err := config.NewConsumer("token_created")
	if err != nil {
		logrus.Fatal("Failed to create consumer: ", err)
	}
	defer msgConsumer.Close()

	logrus.Info("Token worker started, waiting for messages...")

	// Start consuming messages
	err = msgConsumer.Consume(func(msg []byte) error {
		var event struct {
			MintAddress    string `json:"mint_address"`
			Name           string `json:"name"`
			Symbol         string `json:"symbol"`
			CreatorAddress string `json:"creator_address"`
			Signature      string `json:"signature"`
		}
		if err := json.Unmarshal(msg, &event); err != nil {
			logrus.Errorf("Failed to unmarshal message: %v", err)
			return err
		}

		logrus.WithFields(logrus.Fields{
			"mint":      event.MintAddress,
			"name":      event.Name,
			"symbol":    event.Symbol,
			"creator":   event.CreatorAddress,
			"signature": event.Signature,
		}).Info("Token created")

		if event.Signature != "" {
			checkAndUpdateToken(tokenStore, rpcClient, event.MintAddress, event.Signature)
		}
		return nil
	})

	if err != nil {
		logrus.Fatal("Failed to start consumer: ", err)
	}
}

// sweepPendingTokens re-checks the on-chain status of tokens stuck in pending
func sweepPendingTokens(tokenStore *store.TokenStore, rpcClient *rpc.Client) {
	pending := tokenStore.ListPending(confirmationBatchSize)
	if len(pending) == 0 {
		return
	}

	logrus.Infof("Checking %d pending token transactions", len(pending))
	for _, token := range pending {
		checkAndUpdateToken(tokenStore, rpcClient, token.MintAddress, token.Signature)
	}
}

// checkAndUpdateToken resolves a token's status from its transaction signature
func checkAndUpdateToken(tokenStore *store.TokenStore, rpcClient *rpc.Client, mintAddress, signature string) {
	status, err := solanapkg.CheckTransactionStatus(rpcClient, signature)

	switch status {
	case "confirmed", "finalized":
		if tokenStore.Update(mintAddress, map[string]interface{}{"status": models.TokenStatusConfirmed}) {
			logrus.Infof("Token %s confirmed (tx %s)", mintAddress, signature)
		}
	case "error":
		// An on-chain failure arrives as status "error" plus the failure detail
		if tokenStore.Update(mintAddress, map[string]interface{}{"status": models.TokenStatusFailed}) {
			logrus.Warnf("Token %s transaction failed (tx %s): %v", mintAddress, signature, err)
		}
	default:
		if err != nil {
			logrus.Warnf("Failed to check transaction %s for token %s: %v", signature, mintAddress, err)
		}
	}
}
