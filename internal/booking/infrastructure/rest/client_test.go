package rest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/felixgeelhaar/praxis/internal/booking/application/conflict"
	"github.com/felixgeelhaar/praxis/internal/booking/domain"
	"github.com/felixgeelhaar/praxis/internal/booking/infrastructure/rest"
	sharedDomain "github.com/felixgeelhaar/praxis/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAppointment(t *testing.T) *domain.Booking {
	t.Helper()
	b, err := domain.NewAppointment(
		uuid.New(), uuid.New(),
		"north", "Exam", "#FF6B6B",
		time.Date(2025, time.November, 10, 0, 0, 0, 0, time.UTC),
		sharedDomain.MustTimeOfDay("09:00"), sharedDomain.MustTimeOfDay("09:30"),
	)
	require.NoError(t, err)
	return b
}

func TestClient_CreateSendsOverrideFlag(t *testing.T) {
	var gotPath, gotOverride string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotOverride = r.URL.Query().Get("allow_overlap")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := rest.NewClient(srv.URL, time.Second)
	require.NoError(t, c.Create(context.Background(), testAppointment(t), true))

	assert.Equal(t, "/api/v1/bookings", gotPath)
	assert.Equal(t, "true", gotOverride)
}

func TestClient_ConflictBecomesClassifiableRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{
			"messages": []string{domain.OverlapMessage},
		})
	}))
	defer srv.Close()

	c := rest.NewClient(srv.URL, time.Second)
	err := c.Create(context.Background(), testAppointment(t), false)
	require.Error(t, err)

	res := conflict.Classify(err)
	assert.True(t, res.Overlap)
	assert.Equal(t, domain.OverlapMessage, res.StoreMessage)
}

func TestClient_FindByIDNotFoundIsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := rest.NewClient(srv.URL, time.Second)
	got, err := c.FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClient_ListRoundTrip(t *testing.T) {
	want := testAppointment(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, want.ProviderID().String(), r.URL.Query().Get("provider_id"))
		assert.Equal(t, "2025-11-10", r.URL.Query().Get("from"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]any{{
			"id":               want.ID().String(),
			"kind":             "appointment",
			"provider_id":      want.ProviderID().String(),
			"patient_id":       want.PatientID().String(),
			"location":         "north",
			"appointment_type": "Exam",
			"color_code":       "#FF6B6B",
			"date":             "2025-11-10",
			"start":            "09:00",
			"end":              "09:30",
			"status":           "pending",
			"intake":           "not_submitted",
			"created_at":       time.Now().UTC(),
			"updated_at":       time.Now().UTC(),
		}})
	}))
	defer srv.Close()

	c := rest.NewClient(srv.URL, time.Second)
	bookings, err := c.List(context.Background(), domain.Filter{
		ProviderID: want.ProviderID(),
		From:       want.Date(),
	})
	require.NoError(t, err)
	require.Len(t, bookings, 1)

	got := bookings[0]
	assert.Equal(t, want.ID(), got.ID())
	assert.Equal(t, "north", got.Location())
	assert.Equal(t, "09:00", got.Start().String())
	assert.Equal(t, domain.StatusPending, got.Status())
}
