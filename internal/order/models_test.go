// File: internal/order/models_test.go
package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/domain/apperrors"
)

func TestCalculateTotals(t *testing.T) {
	o := &Order{
		Items: []OrderItem{
			{ProductID: 1, Quantity: 2, PriceCents: 1000},
		},
	}
	o.CalculateTotals()

	assert.Equal(t, int64(2000), o.SubtotalCents)
	assert.Equal(t, int64(240), o.TaxCents)
	assert.Equal(t, int64(2240), o.TotalCents)
}

func TestCalculateTotalsRounding(t *testing.T) {
	tests := []struct {
		name     string
		subtotal int64
		wantTax  int64
	}{
		{"exact", 100, 12},
		{"rounds down", 104, 12}, // 12.48
		{"rounds up", 105, 13},   // 12.60
		{"large", 99999, 12000},  // 11999.88
		{"zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Order{Items: []OrderItem{{Quantity: 1, PriceCents: tt.subtotal}}}
			o.CalculateTotals()
			assert.Equal(t, tt.subtotal, o.SubtotalCents)
			assert.Equal(t, tt.wantTax, o.TaxCents)
			assert.Equal(t, tt.subtotal+tt.wantTax, o.TotalCents)
		})
	}
}

func TestCalculateTotalsIdempotent(t *testing.T) {
	o := &Order{Items: []OrderItem{{Quantity: 3, PriceCents: 999}}}
	o.CalculateTotals()
	first := *o
	o.CalculateTotals()

	assert.Equal(t, first.SubtotalCents, o.SubtotalCents)
	assert.Equal(t, first.TaxCents, o.TaxCents)
	assert.Equal(t, first.TotalCents, o.TotalCents)
}

func TestTransitionAllowedEdges(t *testing.T) {
	now := time.Now()
	allowed := []struct {
		from, to Status
	}{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusCancelled},
		{StatusConfirmed, StatusProcessing},
		{StatusConfirmed, StatusCancelled},
		{StatusProcessing, StatusShipped},
		{StatusProcessing, StatusCancelled},
		{StatusShipped, StatusDelivered},
		{StatusDelivered, StatusRefunded},
	}
	for _, edge := range allowed {
		t.Run(string(edge.from)+"_to_"+string(edge.to), func(t *testing.T) {
			o := &Order{Status: edge.from}
			require.NoError(t, o.Transition(edge.to, now))
			assert.Equal(t, edge.to, o.Status)
		})
	}
}

func TestTransitionRejectsIllegalEdges(t *testing.T) {
	now := time.Now()
	illegal := []struct {
		from, to Status
	}{
		{StatusPending, StatusDelivered},
		{StatusPending, StatusShipped},
		{StatusConfirmed, StatusDelivered},
		{StatusShipped, StatusCancelled},
		{StatusDelivered, StatusCancelled},
		{StatusRefunded, StatusPending},
	}
	for _, edge := range illegal {
		t.Run(string(edge.from)+"_to_"+string(edge.to), func(t *testing.T) {
			o := &Order{Status: edge.from}
			err := o.Transition(edge.to, now)
			assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)
			assert.Equal(t, edge.from, o.Status)
		})
	}
}

func TestTransitionTerminalStates(t *testing.T) {
	now := time.Now()
	targets := []Status{
		StatusPending, StatusConfirmed, StatusProcessing,
		StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded,
	}
	for _, terminal := range []Status{StatusCancelled, StatusRefunded} {
		for _, target := range targets {
			o := &Order{Status: terminal}
			err := o.Transition(target, now)
			assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition,
				"transition %s -> %s must fail", terminal, target)
		}
	}
}

func TestTransitionStampsTimestamps(t *testing.T) {
	now := time.Now()
	o := &Order{Status: StatusProcessing}

	require.NoError(t, o.Transition(StatusShipped, now))
	require.NotNil(t, o.ShippedAt)
	assert.Equal(t, now, *o.ShippedAt)

	later := now.Add(time.Hour)
	require.NoError(t, o.Transition(StatusDelivered, later))
	require.NotNil(t, o.DeliveredAt)
	assert.Equal(t, later, *o.DeliveredAt)
	// shippedAt stays at the first stamp
	assert.Equal(t, now, *o.ShippedAt)
}

func TestCancel(t *testing.T) {
	now := time.Now()

	for _, from := range []Status{StatusPending, StatusConfirmed, StatusProcessing} {
		o := &Order{Status: from}
		require.NoError(t, o.Cancel(now))
		assert.Equal(t, StatusCancelled, o.Status)
	}

	for _, from := range []Status{StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded} {
		o := &Order{Status: from}
		err := o.Cancel(now)
		assert.ErrorIs(t, err, apperrors.ErrOrderNotCancellable)
		assert.Equal(t, from, o.Status)
	}
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("SHIPPED")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, status)

	_, err = ParseStatus("shipped")
	assert.Error(t, err)

	_, err = ParseStatus("UNKNOWN")
	assert.Error(t, err)
}
