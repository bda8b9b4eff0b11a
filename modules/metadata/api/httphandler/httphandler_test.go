package httphandler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gaze-network/ticket-storefront/modules/metadata/datagateway"
	"github.com/gaze-network/ticket-storefront/modules/metadata/usecase"
	"github.com/gaze-network/ticket-storefront/pkg/errorhandler"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinning struct {
	err   error
	icons [][]byte
}

func (f *fakePinning) PinFile(_ context.Context, _ string, file datagateway.File) (string, error) {
	f.icons = append(f.icons, file.Content)
	return "bafyicon", f.err
}

func (f *fakePinning) PinJSON(context.Context, string, any) (string, error) {
	return "bafymeta", f.err
}

type form struct {
	name, symbol string
	icon         []byte
	iconType     string
}

func (f form) encode(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("eventName", f.name))
	require.NoError(t, w.WriteField("eventSymbol", f.symbol))
	if f.icon != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="icon"; filename="icon.png"`)
		header.Set("Content-Type", f.iconType)
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(f.icon)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

type response struct {
	Error  *string                 `json:"error"`
	Result *usecase.PinnedMetadata `json:"result"`
}

func post(t *testing.T, dg datagateway.PinningDataGateway, f form) (int, response) {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: errorhandler.NewHTTPErrorHandler()})
	require.NoError(t, New(usecase.New(dg, 0)).Mount(app))

	body, contentType := f.encode(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/events/metadata", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out response
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func TestPinMetadata(t *testing.T) {
	pinning := &fakePinning{}
	status, out := post(t, pinning, form{name: "Devcon", symbol: "DCA", icon: []byte("png"), iconType: "image/png"})

	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, out.Result)
	assert.Equal(t, usecase.PinnedMetadata{
		BaseURI:     "ipfs://bafymeta",
		ImageURI:    "ipfs://bafyicon",
		MetadataURI: "ipfs://bafymeta",
	}, *out.Result)
	assert.Equal(t, [][]byte{[]byte("png")}, pinning.icons)
}

func TestPinMetadataErrors(t *testing.T) {
	valid := form{name: "Devcon", symbol: "DCA", icon: []byte("png"), iconType: "image/png"}

	testCases := []struct {
		name    string
		dg      datagateway.PinningDataGateway
		form    form
		status  int
		message string
	}{
		{
			name:    "missing_icon",
			dg:      &fakePinning{},
			form:    form{name: "Devcon", symbol: "DCA"},
			status:  http.StatusBadRequest,
			message: "Event icon is required.",
		},
		{
			name:    "not_an_image",
			dg:      &fakePinning{},
			form:    form{name: "Devcon", symbol: "DCA", icon: []byte("%PDF"), iconType: "application/pdf"},
			status:  http.StatusBadRequest,
			message: "Event icon must be an image file.",
		},
		{
			name:    "missing_credential",
			dg:      nil,
			form:    valid,
			status:  http.StatusInternalServerError,
			message: "Missing pinning credential in server environment.",
		},
		{
			name:    "upstream_rejected",
			dg:      &fakePinning{err: &datagateway.UpstreamError{StatusCode: http.StatusUnauthorized, Reason: "INVALID_CREDENTIALS"}},
			form:    valid,
			status:  http.StatusBadGateway,
			message: "Failed to pin icon to IPFS. INVALID_CREDENTIALS",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, out := post(t, tc.dg, tc.form)
			assert.Equal(t, tc.status, status)
			require.NotNil(t, out.Error)
			assert.Equal(t, tc.message, *out.Error)
			assert.Nil(t, out.Result)
		})
	}
}
