package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/gaze-network/ticket-storefront/modules/metadata/datagateway"
	"github.com/gaze-network/ticket-storefront/pkg/logger"
	"github.com/gaze-network/ticket-storefront/pkg/logger/slogx"
)

const DefaultMaxIconSize = 5 << 20

type Usecase struct {
	pinningDg   datagateway.PinningDataGateway
	maxIconSize int
}

// New creates the usecase. A nil pinningDg means the pinning credential isn't configured;
// every request then fails with an internal error.
func New(pinningDg datagateway.PinningDataGateway, maxIconSize int) *Usecase {
	if maxIconSize <= 0 {
		maxIconSize = DefaultMaxIconSize
	}
	return &Usecase{
		pinningDg:   pinningDg,
		maxIconSize: maxIconSize,
	}
}

type PinRequest struct {
	EventName   string
	EventSymbol string
	Icon        *datagateway.File
}

type PinnedMetadata struct {
	BaseURI     string `json:"baseURI"`
	ImageURI    string `json:"imageURI"`
	MetadataURI string `json:"metadataURI"`
}

// TokenMetadata is the JSON document the ticket contract's base URI points at.
type TokenMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Symbol      string `json:"symbol"`
}

func (u *Usecase) PinEventMetadata(ctx context.Context, req PinRequest) (*PinnedMetadata, error) {
	if u.pinningDg == nil {
		return nil, errs.NewPublicErrorFrom(errors.Wrap(errs.InternalError, "pinning credential is not configured"),
			"Missing pinning credential in server environment.")
	}

	name := strings.TrimSpace(req.EventName)
	symbol := strings.TrimSpace(req.EventSymbol)
	if err := u.validate(name, symbol, req.Icon); err != nil {
		return nil, errors.WithStack(err)
	}

	pinName := PinName(name + "-" + symbol)
	ctx = logger.WithContext(ctx, slogx.String("package", "metadata"), slogx.String("pin_name", pinName))

	iconCID, err := u.pinningDg.PinFile(ctx, pinName+"-icon", *req.Icon)
	if err != nil {
		return nil, upstreamError(err, "Failed to pin icon to IPFS.")
	}
	imageURI := ipfsURI(iconCID)

	metadataCID, err := u.pinningDg.PinJSON(ctx, pinName+"-metadata", TokenMetadata{
		Name:        name,
		Description: "Ticket for " + name,
		Image:       imageURI,
		Symbol:      symbol,
	})
	if err != nil {
		return nil, upstreamError(err, "Failed to pin metadata to IPFS.")
	}
	metadataURI := ipfsURI(metadataCID)

	logger.InfoContext(ctx, "Pinned event metadata", slogx.String("metadata_uri", metadataURI))
	return &PinnedMetadata{
		BaseURI:     metadataURI,
		ImageURI:    imageURI,
		MetadataURI: metadataURI,
	}, nil
}

func (u *Usecase) validate(name, symbol string, icon *datagateway.File) error {
	invalid := func(message string) error {
		return errs.NewPublicErrorFrom(errors.Wrap(errs.InvalidArgument, message), message)
	}
	switch {
	case name == "" || symbol == "":
		return invalid("Event name and symbol are required.")
	case icon == nil || len(icon.Content) == 0:
		return invalid("Event icon is required.")
	case !strings.HasPrefix(icon.ContentType, "image/"):
		return invalid("Event icon must be an image file.")
	case len(icon.Content) > u.maxIconSize:
		return invalid("Event icon must be " + formatSize(u.maxIconSize) + " or smaller.")
	}
	return nil
}

// upstreamError keeps the error kind and exposes the upstream reason to the user.
func upstreamError(err error, prefix string) error {
	reason := "Pinning service is unreachable."
	var upstream *datagateway.UpstreamError
	if errors.As(err, &upstream) {
		reason = upstream.Reason
	}
	if !errors.Is(err, errs.Rejected) && !errors.Is(err, errs.Transport) {
		err = errors.WithSecondaryError(errors.Wrap(errs.Transport, "pinning failed"), err)
	}
	return errs.NewPublicErrorFrom(err, prefix+" "+reason)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// PinName turns s into a lowercase dash-separated pin name, "event" if nothing remains.
func PinName(s string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if slug == "" {
		return "event"
	}
	return slug
}

func ipfsURI(cid string) string {
	return "ipfs://" + cid
}

func formatSize(bytes int) string {
	const mib = 1 << 20
	if bytes%mib == 0 {
		return fmt.Sprintf("%dMB", bytes/mib)
	}
	return fmt.Sprintf("%d bytes", bytes)
}
