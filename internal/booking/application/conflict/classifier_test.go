package conflict_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/felixgeelhaar/praxis/internal/booking/application/conflict"
	"github.com/felixgeelhaar/praxis/internal/booking/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassify_OverlapRejection(t *testing.T) {
	res := conflict.Classify(domain.NewOverlapRejection())

	assert.True(t, res.Overlap)
	assert.Equal(t, domain.OverlapMessage, res.StoreMessage)
}

func TestClassify_MarkerIsCaseInsensitive(t *testing.T) {
	rej := &domain.RejectionError{
		StatusCode: 409,
		Messages:   []string{"This time OVERLAPS WITH ANOTHER APPOINTMENT."},
	}

	assert.True(t, conflict.Classify(rej).Overlap)
}

func TestClassify_WrappedRejection(t *testing.T) {
	err := fmt.Errorf("create booking: %w", domain.NewOverlapRejection())

	assert.True(t, conflict.Classify(err).Overlap)
}

func TestClassify_NotOverlap(t *testing.T) {
	cases := map[string]error{
		"nil error":           nil,
		"transport failure":   errors.New("dial tcp 10.0.0.1:8080: connection refused"),
		"field rejection":     &domain.RejectionError{StatusCode: 400, Messages: []string{"Patient is required unless creating a block time."}},
		"empty rejection":     &domain.RejectionError{StatusCode: 500},
	}

	for name, err := range cases {
		t.Run(name, func(t *testing.T) {
			assert.False(t, conflict.Classify(err).Overlap)
		})
	}
}

func TestConfirmMessage(t *testing.T) {
	msg := conflict.ConfirmMessage("North Office")

	assert.Contains(t, msg, "Double Booking Detected")
	assert.Contains(t, msg, "in North Office")
	assert.Contains(t, msg, "allow this overlap")

	noLoc := conflict.ConfirmMessage("")
	assert.NotContains(t, noLoc, " in .")
	assert.Contains(t, noLoc, "this time range.")
}
