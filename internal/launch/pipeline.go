package launch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"launchpad/pkg/ipfs"
	"launchpad/pkg/pumpportal"
	lpsolana "launchpad/pkg/solana"

	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
)

// Status is a pipeline state. A run moves through the states strictly in
// order and ends in StatusSucceeded or StatusFailed.
type Status string

const (
	StatusIdle         Status = "idle"
	StatusUploading    Status = "uploading"
	StatusConstructing Status = "constructing_transaction"
	StatusSigning      Status = "signing"
	StatusBroadcasting Status = "broadcasting"
	StatusConfirming   Status = "confirming"
	StatusSucceeded    Status = "succeeded"
	StatusFailed       Status = "failed"
)

// ErrSigningRejected means the wallet capability declined to countersign
// or the user cancelled.
var ErrSigningRejected = errors.New("wallet rejected the transaction")

// ErrConfirmationTimeout means the confirmation wait exceeded its bound.
// The transaction may still succeed on-chain later; callers must surface
// that ambiguity rather than treat it as a definite failure.
var ErrConfirmationTimeout = errors.New("transaction confirmation timed out")

// ValidationError reports a precondition violation. Validation failures
// are terminal and never start network activity.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// MetadataUploader stores a token's image and descriptive fields and
// returns a stable metadata URI.
type MetadataUploader interface {
	Upload(ctx context.Context, req ipfs.UploadRequest) (*ipfs.UploadResult, error)
}

// TransactionBuilder converts a creation intent into an unsigned,
// binary-encoded transaction.
type TransactionBuilder interface {
	CreateTokenTransaction(ctx context.Context, req pumpportal.CreateTokenRequest) ([]byte, error)
}

// Broadcaster submits a signed transaction and waits for confirmation
type Broadcaster interface {
	SendTransaction(ctx context.Context, tx *solana.Transaction, opts lpsolana.SendOptions) (string, error)
	ConfirmTransaction(ctx context.Context, signature string) error
}

// Options tune a pipeline beyond its collaborators
type Options struct {
	// Send controls broadcast and confirmation behavior. Zero fields are
	// filled from lpsolana.DefaultSendOptions.
	Send lpsolana.SendOptions

	// StepTimeout bounds the upload and construction calls
	StepTimeout time.Duration

	// MintKeystoreDir, when set, receives an encrypted archive of each
	// generated mint key before broadcast
	MintKeystoreDir      string
	MintKeystorePassword string

	// OnStatus, when set, observes every state transition
	OnStatus func(status Status, message string)
}

// Form carries the user-supplied creation inputs
type Form struct {
	Name        string
	Symbol      string
	Description string
	Image       []byte
	ImageName   string
	Website     string
	Twitter     string
	Telegram    string
	Discord     string

	// DevBuyAmount is the creator's initial buy, in SOL
	DevBuyAmount float64
	Slippage     float64
	PriorityFee  float64
	Pool         string
}

// Result is emitted on success. Signature and MintAddress are enough for
// the caller to verify the action on an external explorer.
type Result struct {
	MintAddress string        `json:"mint_address"`
	Name        string        `json:"name"`
	Symbol      string        `json:"symbol"`
	Signature   string        `json:"signature"`
	MetadataURI string        `json:"metadata_uri"`
	ImageURL    string        `json:"image_url"`
	Metadata    ipfs.Metadata `json:"metadata"`
}

// Pipeline orchestrates a token creation: upload metadata, request an
// unsigned transaction, co-sign with the mint key and the wallet,
// broadcast, and wait for confirmation. The on-chain action is
// irreversible once broadcast succeeds; there is no compensating
// transaction.
type Pipeline struct {
	uploader    MetadataUploader
	builder     TransactionBuilder
	wallet      lpsolana.Wallet
	broadcaster Broadcaster
	opts        Options
}

// NewPipeline wires a pipeline from its capabilities. The wallet is an
// explicit capability passed in by the caller, never ambient state.
func NewPipeline(uploader MetadataUploader, builder TransactionBuilder, wallet lpsolana.Wallet, broadcaster Broadcaster, opts Options) *Pipeline {
	defaults := lpsolana.DefaultSendOptions()
	if opts.Send.PreflightCommitment == "" {
		opts.Send.PreflightCommitment = defaults.PreflightCommitment
	}
	if opts.Send.MaxRetries == 0 {
		opts.Send.MaxRetries = defaults.MaxRetries
	}
	if opts.Send.ConfirmationTimeout == 0 {
		opts.Send.ConfirmationTimeout = defaults.ConfirmationTimeout
	}
	if opts.StepTimeout == 0 {
		opts.StepTimeout = 60 * time.Second
	}

	return &Pipeline{
		uploader:    uploader,
		builder:     builder,
		wallet:      wallet,
		broadcaster: broadcaster,
		opts:        opts,
	}
}

// Run executes one creation end to end. Every failure is terminal: the
// pipeline performs no retries of its own beyond the broadcast retry
// count delegated to the RPC node.
func (p *Pipeline) Run(ctx context.Context, form Form) (*Result, error) {
	p.emit(StatusIdle, "")

	if err := p.validate(form); err != nil {
		p.emit(StatusFailed, err.Error())
		return nil, err
	}

	p.emit(StatusUploading, "Uploading metadata")
	uploadCtx, cancelUpload := context.WithTimeout(ctx, p.opts.StepTimeout)
	upload, err := p.uploader.Upload(uploadCtx, ipfs.UploadRequest{
		Image:       form.Image,
		ImageName:   form.ImageName,
		Name:        form.Name,
		Symbol:      form.Symbol,
		Description: form.Description,
		Twitter:     form.Twitter,
		Telegram:    form.Telegram,
		Website:     form.Website,
	})
	cancelUpload()
	if err != nil {
		return nil, p.fail("metadata upload failed", err)
	}

	p.emit(StatusConstructing, "Creating token transaction")
	mintKey := lpsolana.NewMintKey()
	mintAddress := mintKey.PublicKey().String()
	p.archiveMintKey(mintKey, mintAddress)

	amount := form.DevBuyAmount
	req := pumpportal.CreateTokenRequest{
		PublicKey: p.wallet.PublicKey().String(),
		TokenMetadata: pumpportal.TokenMetadata{
			Name:   form.Name,
			Symbol: form.Symbol,
			URI:    upload.MetadataURI,
		},
		Mint:   mintAddress,
		Amount: &amount,
	}
	if form.Slippage > 0 {
		req.Slippage = &form.Slippage
	}
	if form.PriorityFee > 0 {
		req.PriorityFee = &form.PriorityFee
	}
	if form.Pool != "" {
		req.Pool = form.Pool
	}

	buildCtx, cancelBuild := context.WithTimeout(ctx, p.opts.StepTimeout)
	raw, err := p.builder.CreateTokenTransaction(buildCtx, req)
	cancelBuild()
	if err != nil {
		return nil, p.fail("transaction construction failed", err)
	}

	p.emit(StatusSigning, "Signing transaction")
	tx, err := lpsolana.DeserializeTransaction(raw)
	if err != nil {
		return nil, p.fail("signing failed", err)
	}

	// The mint keypair must sign before the wallet: the wallet capability
	// may only countersign, not originate.
	mintPub := mintKey.PublicKey()
	if _, err := tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(mintPub) {
			return &mintKey
		}
		return nil
	}); err != nil {
		return nil, p.fail("mint signing failed", err)
	}

	if err := p.wallet.SignTransaction(tx); err != nil {
		wrapped := fmt.Errorf("%w: %v", ErrSigningRejected, err)
		p.emit(StatusFailed, wrapped.Error())
		return nil, wrapped
	}

	p.emit(StatusBroadcasting, "Broadcasting transaction")
	signature, err := p.broadcaster.SendTransaction(ctx, tx, p.opts.Send)
	if err != nil {
		return nil, p.fail("broadcast failed", err)
	}
	log.Infof("Transaction accepted for processing: mint=%s signature=%s", mintAddress, signature)

	p.emit(StatusConfirming, "Confirming transaction")
	confirmCtx, cancelConfirm := context.WithTimeout(ctx, p.opts.Send.ConfirmationTimeout)
	err = p.broadcaster.ConfirmTransaction(confirmCtx, signature)
	cancelConfirm()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s; the transaction may still land on-chain, check signature %s on an explorer",
				ErrConfirmationTimeout, p.opts.Send.ConfirmationTimeout, signature)
		}
		p.emit(StatusFailed, err.Error())
		return nil, err
	}

	result := &Result{
		MintAddress: mintAddress,
		Name:        form.Name,
		Symbol:      form.Symbol,
		Signature:   signature,
		MetadataURI: upload.MetadataURI,
		ImageURL:    upload.Metadata.Image,
		Metadata:    upload.Metadata,
	}
	p.emit(StatusSucceeded, fmt.Sprintf("Token created: mint=%s signature=%s", mintAddress, signature))
	return result, nil
}

// validate checks every precondition before any network activity
func (p *Pipeline) validate(form Form) error {
	if p.wallet == nil {
		return ValidationError("wallet is not connected")
	}
	if strings.TrimSpace(form.Name) == "" {
		return ValidationError("token name is required")
	}
	if strings.TrimSpace(form.Symbol) == "" {
		return ValidationError("token symbol is required")
	}
	if strings.TrimSpace(form.Description) == "" {
		return ValidationError("token description is required")
	}
	if len(form.Image) == 0 {
		return ValidationError("token image is required")
	}
	if form.DevBuyAmount <= 0 || math.IsNaN(form.DevBuyAmount) || math.IsInf(form.DevBuyAmount, 0) {
		return ValidationError("invalid dev buy amount")
	}
	return nil
}

// archiveMintKey writes an encrypted copy of the mint key before the key
// leaves scope. Archival is best-effort and never blocks the launch.
func (p *Pipeline) archiveMintKey(key solana.PrivateKey, address string) {
	if p.opts.MintKeystoreDir == "" {
		return
	}
	km := lpsolana.NewKeyManager(p.opts.MintKeystoreDir)
	if err := km.SaveKeyStoreEntry(key, p.opts.MintKeystorePassword); err != nil {
		log.Warnf("Failed to archive mint key %s: %v", address, err)
	}
}

func (p *Pipeline) fail(stage string, err error) error {
	wrapped := fmt.Errorf("%s: %w", stage, err)
	p.emit(StatusFailed, wrapped.Error())
	return wrapped
}

func (p *Pipeline) emit(status Status, message string) {
	if p.opts.OnStatus != nil {
		p.opts.OnStatus(status, message)
	}
}
