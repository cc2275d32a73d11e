package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MysticTarot/internal/deck"
)

func newTestClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func TestHTTPClientDrawReadingSuccess(t *testing.T) {
	var received readingRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tarot/reading", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		json.NewEncoder(w).Encode(readingResponse{
			Success:     true,
			Reading:     "The cards whisper of new beginnings.",
			CharacterID: received.CharacterID,
			ImageURL:    "https://cdn.example.com/cards/the_fool.png",
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 5*time.Second)

	reading, err := client.DrawReading(context.Background(), &Request{
		ProfileID:   "profile-1",
		MysticDate:  "2024-06-15",
		Question:    "What does today hold?",
		CharacterID: "madame_luna",
	})
	require.NoError(t, err)

	assert.Equal(t, "What does today hold?", received.Question)
	assert.Equal(t, "madame_luna", received.CharacterID)
	assert.Equal(t, "profile-1", received.DeviceID)
	require.Len(t, received.Cards, 1)
	assert.True(t, deck.IsKnown(received.Cards[0]))

	assert.Equal(t, received.Cards[0], reading.CardName)
	assert.Equal(t, "The cards whisper of new beginnings.", reading.Interpretation)
	assert.Equal(t, "madame_luna", reading.CharacterID)
	assert.Equal(t, "https://cdn.example.com/cards/the_fool.png", reading.ImageRef)
	assert.NotEmpty(t, reading.Summary)
}

func TestHTTPClientDrawReadingUpstreamRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(readingResponse{
			Success: false,
			Error:   "model overloaded",
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 5*time.Second)

	_, err := client.DrawReading(context.Background(), &Request{ProfileID: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestHTTPClientDrawReadingNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 5*time.Second)

	_, err := client.DrawReading(context.Background(), &Request{ProfileID: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestHTTPClientDrawReadingTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		json.NewEncoder(w).Encode(readingResponse{Success: true, Reading: "too late"})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 5*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.DrawReading(ctx, &Request{ProfileID: "p"})
	require.Error(t, err)
	assert.Equal(t, "timeout", callStatus(err))
}

func TestMockClientRecordsCalls(t *testing.T) {
	mock := NewMockClient()

	reading, err := mock.DrawReading(context.Background(), &Request{
		ProfileID:   "profile-1",
		MysticDate:  "2024-06-15",
		CharacterID: "shadow",
	})
	require.NoError(t, err)
	assert.True(t, deck.IsKnown(reading.CardName))

	require.Equal(t, 1, mock.CallCount())
	assert.Equal(t, "shadow", mock.Calls[0].CharacterID)

	mock.FailNext = true
	_, err = mock.DrawReading(context.Background(), &Request{ProfileID: "profile-1"})
	require.Error(t, err)

	// FailNext 自动复位
	_, err = mock.DrawReading(context.Background(), &Request{ProfileID: "profile-1"})
	require.NoError(t, err)
}
