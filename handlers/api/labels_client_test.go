package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outpost/models"
)

func newLabelServer(t *testing.T, handler http.HandlerFunc) *LabelClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewLabelClient(srv.URL, 5*time.Second)
}

func TestFetchLabels(t *testing.T) {
	client := newLabelServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/labels", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"labels":[{"id":"l1","name":"work","display_name":"Work","type":"user"}]}`))
	})

	labels, err := client.FetchLabels(context.Background(), "test-token")
	require.NoError(t, err)

	require.Len(t, labels, 1)
	assert.Equal(t, "l1", labels[0].ID)
	assert.Equal(t, "Work", labels[0].DisplayName)
	assert.Equal(t, models.LabelTypeUser, labels[0].Type)
}

func TestFetchLabelsMissingFieldIsEmpty(t *testing.T) {
	client := newLabelServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	})

	labels, err := client.FetchLabels(context.Background(), "test-token")
	require.NoError(t, err)

	assert.NotNil(t, labels)
	assert.Empty(t, labels)
}

func TestFetchLabelsServerError(t *testing.T) {
	client := newLabelServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.FetchLabels(context.Background(), "test-token")
	assert.Error(t, err)
}

func TestFetchLabelsMalformedBody(t *testing.T) {
	client := newLabelServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := client.FetchLabels(context.Background(), "test-token")
	assert.Error(t, err)
}

func TestCreateLabel(t *testing.T) {
	client := newLabelServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/labels", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"label":{"id":"l2","name":"travel","display_name":"Travel","type":"user"}}`))
	})

	label, err := client.CreateLabel(context.Background(), "test-token", models.Label{
		Name:        "travel",
		DisplayName: "Travel",
		Type:        models.LabelTypeUser,
	})
	require.NoError(t, err)
	assert.Equal(t, "l2", label.ID)
}

func TestUpdateLabel(t *testing.T) {
	client := newLabelServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/labels/l1", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"label":{"id":"l1","name":"work","display_name":"Renamed","type":"user"}}`))
	})

	name := "Renamed"
	label, err := client.UpdateLabel(context.Background(), "test-token", "l1", models.LabelPatch{
		DisplayName: &name,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", label.DisplayName)
}

func TestDeleteLabel(t *testing.T) {
	var gotPath string
	client := newLabelServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.DeleteLabel(context.Background(), "test-token", "l1"))
	assert.Equal(t, "/api/labels/l1", gotPath)
}

func TestDeleteLabelNotFound(t *testing.T) {
	client := newLabelServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	assert.Error(t, client.DeleteLabel(context.Background(), "test-token", "l1"))
}
