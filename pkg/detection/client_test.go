package detection

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModelURL = "http://models.internal/detect"

func newMockedClient(t *testing.T) *Client {
	t.Helper()
	c := NewClient(testModelURL)
	httpmock.ActivateNonDefault(c.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func TestDetectDecodesResponse(t *testing.T) {
	c := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodPost, testModelURL,
		httpmock.NewStringResponder(http.StatusOK, `{
			"id": 10,
			"confidence": 0.8,
			"objects": [
				{"classId": "0", "className": "car", "confidence": 0.9,
				 "boundingBox": {"x": 1, "y": 2, "width": 3, "height": 4}}
			]
		}`))

	resp, err := c.Detect(context.Background(), Request{DataID: 10, ImageURL: "http://example.com/1.jpg"})

	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.ID)
	require.NotNil(t, resp.Confidence)
	assert.Equal(t, 0.8, *resp.Confidence)
	require.Len(t, resp.Objects, 1)
	assert.Equal(t, "car", resp.Objects[0].ClassName)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestDetectNonSuccessIsUpstreamError(t *testing.T) {
	c := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodPost, testModelURL,
		httpmock.NewStringResponder(http.StatusInternalServerError, "model crashed"))

	_, err := c.Detect(context.Background(), Request{DataID: 10})

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusInternalServerError, upstreamErr.Status)
	assert.Contains(t, upstreamErr.Body, "model crashed")
}

func TestDetectTransportErrorIsNotUpstreamError(t *testing.T) {
	c := newMockedClient(t)
	// No responder registered: httpmock fails the connection.

	_, err := c.Detect(context.Background(), Request{DataID: 10})

	require.Error(t, err)
	var upstreamErr *UpstreamError
	assert.False(t, errors.As(err, &upstreamErr))
}
