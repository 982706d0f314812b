package ner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/claims-intake/internal/domain/claim"
	"github.com/turtacn/claims-intake/pkg/errors"
)

func TestRemoteRecognizer_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req recognizeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "John Doe paid $5", req.Text)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"entities":[
			{"text":"$5","label":"MONEY","start_char":14,"end_char":16},
			{"text":"John Doe","label":"PERSON","start_char":0,"end_char":8}]}`))
	}))
	defer srv.Close()

	r := NewRemoteRecognizer(srv.URL, time.Second, nil)
	got, err := r.Recognize(context.Background(), "John Doe paid $5")
	require.NoError(t, err)
	assert.Equal(t, []claim.Entity{
		{Text: "John Doe", Label: claim.LabelPerson, Start: 0, End: 8},
		{Text: "$5", Label: claim.LabelMoney, Start: 14, End: 16},
	}, got)
}

func TestRemoteRecognizer_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewRemoteRecognizer(srv.URL, time.Second, nil).Recognize(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNERFailed))
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "model not loaded")
	assert.False(t, errors.IsClientError(err))
}

func TestRemoteRecognizer_BadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := NewRemoteRecognizer(srv.URL, time.Second, nil).Recognize(context.Background(), "x")
	assert.True(t, errors.IsCode(err, errors.ErrCodeNERFailed))
}

func TestRemoteRecognizer_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewRemoteRecognizer(url, 200*time.Millisecond, nil).Recognize(context.Background(), "x")
	assert.True(t, errors.IsCode(err, errors.ErrCodeNERUnavailable))
}

//Personal.AI order the ending
