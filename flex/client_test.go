package flex

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func TestClientRetrieve(t *testing.T) {
	var sendRequestCalls, getStatementCalls int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("v"))
		assert.Equal(t, "token", r.URL.Query().Get("t"))

		switch r.URL.Path {
		case "/SendRequest":
			sendRequestCalls++
			assert.Equal(t, "12345", r.URL.Query().Get("q"))
			_, _ = w.Write([]byte(`<FlexStatementResponse timestamp="29 August, 2026 10:00 AM EDT">
  <Status>Success</Status>
  <ReferenceCode>9876543210</ReferenceCode>
</FlexStatementResponse>`))
		case "/GetStatement":
			getStatementCalls++
			assert.Equal(t, "9876543210", r.URL.Query().Get("q"))
			_, _ = w.Write([]byte(`<FlexQueryResponse></FlexQueryResponse>`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithWait(time.Millisecond))

	body, err := client.Retrieve(context.Background(), "token", "12345")
	assert.NoError(t, err)
	assert.Equal(t, `<FlexQueryResponse></FlexQueryResponse>`, string(body))
	assert.Equal(t, 1, sendRequestCalls)
	assert.Equal(t, 1, getStatementCalls)
}

func TestClientSendRequestFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<FlexStatementResponse>
  <Status>Fail</Status>
  <ErrorCode>1012</ErrorCode>
  <ErrorMessage>Token has expired.</ErrorMessage>
</FlexStatementResponse>`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	_, err := client.SendRequest(context.Background(), "token", "12345")

	var statusErr *StatusError
	assert.True(t, errors.As(err, &statusErr))
	assert.Equal(t, "Fail", statusErr.Status)
	assert.Equal(t, "Token has expired.", statusErr.ErrorMessage)
}

func TestClientHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway timeout", http.StatusGatewayTimeout)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	_, err := client.SendRequest(context.Background(), "token", "12345")
	assert.Error(t, err)
}

func TestClientRetrieveCancelledDuringWait(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<FlexStatementResponse>
  <Status>Success</Status>
  <ReferenceCode>9876543210</ReferenceCode>
</FlexStatementResponse>`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithWait(time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := client.Retrieve(ctx, "token", "12345")
	assert.IsError(t, err, context.Canceled)
}
