// Package pinata pins files and JSON documents to IPFS through the Pinata pinning API.
package pinata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/gaze-network/ticket-storefront/modules/metadata/datagateway"
	"github.com/gaze-network/ticket-storefront/pkg/httpclient"
	"github.com/gaze-network/ticket-storefront/pkg/logger"
	"github.com/gaze-network/ticket-storefront/pkg/logger/slogx"
)

const (
	pathPinFile = "/pinning/pinFileToIPFS"
	pathPinJSON = "/pinning/pinJSONToIPFS"

	cidVersion = 1
)

var _ datagateway.PinningDataGateway = (*Repository)(nil)

type Repository struct {
	client *httpclient.Client
}

func NewRepository(client *httpclient.Client) *Repository {
	return &Repository{client: client}
}

// NewClient creates an API client authenticated with jwt.
func NewClient(apiURL, jwt string, config httpclient.Config) (*httpclient.Client, error) {
	if jwt == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "pinning credential is required")
	}
	headers := make(map[string]string, len(config.Headers)+1)
	for k, v := range config.Headers {
		headers[k] = v
	}
	headers["Authorization"] = "Bearer " + jwt
	config.Headers = headers

	client, err := httpclient.New(apiURL, config)
	if err != nil {
		return nil, errors.Wrap(err, "can't create pinning client")
	}
	return client, nil
}

type pinMetadata struct {
	Name string `json:"name"`
}

type pinOptions struct {
	CIDVersion int `json:"cidVersion"`
}

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

type pinJSONRequest struct {
	Metadata pinMetadata `json:"pinataMetadata"`
	Options  pinOptions  `json:"pinataOptions"`
	Content  any         `json:"pinataContent"`
}

func (r *Repository) PinFile(ctx context.Context, name string, file datagateway.File) (string, error) {
	metadata, err := json.Marshal(pinMetadata{Name: name})
	if err != nil {
		return "", errors.WithStack(err)
	}
	options, err := json.Marshal(pinOptions{CIDVersion: cidVersion})
	if err != nil {
		return "", errors.WithStack(err)
	}

	filename := file.Filename
	if filename == "" {
		filename = name
	}
	resp, err := r.client.Post(ctx, pathPinFile, httpclient.RequestOptions{
		Multipart: &httpclient.Multipart{
			Fields: map[string]string{
				"pinataMetadata": string(metadata),
				"pinataOptions":  string(options),
			},
			Files: []httpclient.File{{
				Field:       "file",
				Filename:    filename,
				ContentType: file.ContentType,
				Content:     file.Content,
			}},
		},
	})
	if err != nil {
		return "", transportError(ctx, err)
	}
	return decodePin(resp)
}

func (r *Repository) PinJSON(ctx context.Context, name string, content any) (string, error) {
	body, err := json.Marshal(pinJSONRequest{
		Metadata: pinMetadata{Name: name},
		Options:  pinOptions{CIDVersion: cidVersion},
		Content:  content,
	})
	if err != nil {
		return "", errors.Wrap(err, "can't encode pinned content")
	}

	resp, err := r.client.Post(ctx, pathPinJSON, httpclient.RequestOptions{Body: body})
	if err != nil {
		return "", transportError(ctx, err)
	}
	return decodePin(resp)
}

func transportError(ctx context.Context, err error) error {
	logger.WarnContext(ctx, "Pinning service unreachable", slogx.String("package", "pinata"), slogx.Error(err))
	return errors.Wrap(errs.Transport, "pinning service is unreachable")
}

func decodePin(resp *httpclient.HttpResponse) (string, error) {
	status := resp.StatusCode()
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return "", errors.WithStack(&datagateway.UpstreamError{
			StatusCode: status,
			Reason:     errorReason(resp.Body(), status),
		})
	}

	var out pinResponse
	if err := resp.UnmarshalBody(&out); err != nil {
		return "", errors.Wrap(errs.Transport, err.Error())
	}
	if out.IpfsHash == "" {
		return "", errors.Wrap(errs.Transport, "pinning service returned no content identifier")
	}
	return out.IpfsHash, nil
}

// errorReason reads `error.reason` from an error payload, which may be malformed or absent.
func errorReason(body []byte, status int) string {
	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Error) > 0 {
		var detail struct {
			Reason string `json:"reason"`
		}
		if err := json.Unmarshal(payload.Error, &detail); err == nil && detail.Reason != "" {
			return detail.Reason
		}
	}
	return fmt.Sprintf("Pinata request failed with status %d.", status)
}
