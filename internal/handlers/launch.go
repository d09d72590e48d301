package handlers

import (
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"launchpad/internal/launch"
	"launchpad/internal/models"
	"launchpad/internal/store"
	dbconfig "launchpad/pkg/config"
	"launchpad/pkg/ipfs"
	"launchpad/pkg/pumpportal"
	lpsolana "launchpad/pkg/solana"
)

var (
	launchWalletOnce sync.Once
	launchWallet     *lpsolana.LocalWallet
	launchWalletErr  error
)

// managedWallet loads the server-held creator wallet from the encrypted
// keystore on first use
func managedWallet() (*lpsolana.LocalWallet, error) {
	launchWalletOnce.Do(func() {
		path := os.Getenv("LAUNCH_KEYSTORE_PATH")
		if path == "" {
			launchWalletErr = errors.New("LAUNCH_KEYSTORE_PATH is not set")
			return
		}
		launchWallet, launchWalletErr = lpsolana.LoadWalletFromKeystore(path, os.Getenv("LAUNCH_KEYSTORE_PASSWORD"))
	})
	return launchWallet, launchWalletErr
}

func rpcEndpoint() string {
	if endpoint := os.Getenv("DEFAULT_SOLANA_RPC"); endpoint != "" {
		return endpoint
	}
	return rpc.MainNetBeta_RPC
}

func formFloat(c *gin.Context, field string) float64 {
	value, err := strconv.ParseFloat(c.PostForm(field), 64)
	if err != nil {
		return 0
	}
	return value
}

// LaunchToken runs the full creation pipeline with the server-managed
// wallet: upload metadata, construct, co-sign, broadcast, confirm, and
// persist the record best-effort.
func LaunchToken(c *gin.Context) {
	wallet, err := managedWallet()
	if err != nil {
		log.Errorf("Managed wallet unavailable: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "managed launch wallet is not configured"})
		return
	}

	form := launch.Form{
		Name:         c.PostForm("name"),
		Symbol:       c.PostForm("symbol"),
		Description:  c.PostForm("description"),
		Website:      c.PostForm("website"),
		Twitter:      c.PostForm("twitter"),
		Telegram:     c.PostForm("telegram"),
		Discord:      c.PostForm("discord"),
		DevBuyAmount: formFloat(c, "dev_buy_amount"),
		Slippage:     formFloat(c, "slippage"),
		PriorityFee:  formFloat(c, "priority_fee"),
		Pool:         c.PostForm("pool"),
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		file, err := fileHeader.Open()
		if err == nil {
			form.Image, _ = io.ReadAll(file)
			form.ImageName = fileHeader.Filename
			file.Close()
		}
	}

	pipeline := launch.NewPipeline(
		ipfs.NewClient(os.Getenv("IPFS_API_URL")),
		pumpportal.NewClient(os.Getenv("PUMPPORTAL_API_URL")),
		wallet,
		lpsolana.NewRPCBroadcaster(rpc.New(rpcEndpoint())),
		launch.Options{
			MintKeystoreDir:      os.Getenv("MINT_KEYSTORE_DIR"),
			MintKeystorePassword: os.Getenv("LAUNCH_KEYSTORE_PASSWORD"),
			OnStatus: func(status launch.Status, message string) {
				log.WithFields(log.Fields{"status": status}).Info(message)
			},
		},
	)

	result, err := pipeline.Run(c.Request.Context(), form)
	if err != nil {
		var validation launch.ValidationError
		if errors.As(err, &validation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
			return
		}
		log.Errorf("Launch failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"mint":         result.MintAddress,
		"name":         result.Name,
		"symbol":       result.Symbol,
		"signature":    result.Signature,
		"metadata_uri": result.MetadataURI,
		"explorer_url": lpsolana.ExplorerTransactionURL(result.Signature),
	})

	go persistLaunchedToken(result, form, wallet.PublicKey().String())
}

func persistLaunchedToken(result *launch.Result, form launch.Form, creator string) {
	if dbconfig.DB == nil {
		log.Debug("Database not initialized, skipping token record")
		return
	}

	token := &models.Token{
		MintAddress:    result.MintAddress,
		Name:           result.Name,
		Symbol:         result.Symbol,
		Description:    form.Description,
		ImageURL:       result.ImageURL,
		MetadataURI:    result.MetadataURI,
		CreatorAddress: creator,
		InitialSupply:  form.DevBuyAmount,
		Website:        form.Website,
		Twitter:        form.Twitter,
		Telegram:       form.Telegram,
		Discord:        form.Discord,
		Signature:      result.Signature,
		Status:         models.TokenStatusConfirmed,
		Metadata: models.JSONB{
			"name":        result.Metadata.Name,
			"symbol":      result.Metadata.Symbol,
			"description": result.Metadata.Description,
			"image":       result.Metadata.Image,
		},
	}

	created := store.NewTokenStore(dbconfig.DB).Create(token)
	if created == nil {
		return
	}
	notifyTokenCreated(created)
}
