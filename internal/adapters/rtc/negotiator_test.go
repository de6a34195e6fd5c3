package rtc

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/camwall/internal/domain"
)

const fakeAnswer = "v=0\r\no=- 0 0 IN IP4 127.0.0.1\r\ns=-\r\nt=0 0\r\n"

func testCam(endpoint string) domain.Camera {
	return domain.Camera{ID: "printer-1", Name: "Printer 1", NegotiationEndpoint: endpoint}
}

func TestSubmitOffer(t *testing.T) {
	var gotMethod, gotContentType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(fakeAnswer))
	}))
	defer srv.Close()

	n := &Negotiator{client: srv.Client()}
	answer, err := n.submitOffer(context.Background(), testCam(srv.URL), "v=0 offer")
	require.NoError(t, err)
	assert.Equal(t, fakeAnswer, answer)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/sdp", gotContentType)
	assert.Equal(t, "v=0 offer", gotBody)
}

func TestSubmitOfferRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "camera busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	n := &Negotiator{client: srv.Client()}
	_, err := n.submitOffer(context.Background(), testCam(srv.URL), "v=0 offer")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestSubmitOfferEmptyAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := &Negotiator{client: srv.Client()}
	_, err := n.submitOffer(context.Background(), testCam(srv.URL), "v=0 offer")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty answer")
}

func TestSubmitOfferUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // endpoint gone

	n := &Negotiator{client: http.DefaultClient}
	_, err := n.submitOffer(context.Background(), testCam(srv.URL), "v=0 offer")
	require.Error(t, err)
}
