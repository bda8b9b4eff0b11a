package datagateway

import (
	"context"
	"fmt"

	"github.com/gaze-network/ticket-storefront/common/errs"
)

type PinningDataGateway interface {
	// PinFile pins a file and returns its content identifier.
	PinFile(ctx context.Context, name string, file File) (cid string, err error)

	// PinJSON pins content encoded as JSON and returns its content identifier.
	PinJSON(ctx context.Context, name string, content any) (cid string, err error)
}

type File struct {
	Filename    string
	ContentType string
	Content     []byte
}

// UpstreamError is a non-successful answer of the pinning service.
type UpstreamError struct {
	StatusCode int
	Reason     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("pinning service responded %d: %s", e.StatusCode, e.Reason)
}

// Is reports UpstreamError as errs.Rejected.
func (e *UpstreamError) Is(target error) bool {
	return target == errs.Rejected
}
