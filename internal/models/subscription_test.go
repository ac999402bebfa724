package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionView(t *testing.T) {
	t.Run("price serializes as quoted decimal", func(t *testing.T) {
		sub := Subscription{ID: 1, Name: "Netflix", Price: decimal.RequireFromString("29.99"), Active: true}

		raw, err := json.Marshal(sub.View())
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":1,"name":"Netflix","price":"29.99","next_payment":null,"active":true}`, string(raw))
	})

	t.Run("next payment formats as plain date", func(t *testing.T) {
		next := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
		sub := Subscription{ID: 2, Name: "Spotify", Price: decimal.RequireFromString("19.99"), NextPayment: &next, Active: true}

		view := sub.View()
		require.NotNil(t, view.NextPayment)
		assert.Equal(t, "2026-09-15", *view.NextPayment)
	})
}

func TestDummySubscription_AcceptsStringAndNumericPrice(t *testing.T) {
	var fromString DummySubscription
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Netflix","price":"29.99"}`), &fromString))

	var fromNumber DummySubscription
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Netflix","price":29.99}`), &fromNumber))

	assert.True(t, fromString.Price.Equal(fromNumber.Price))
}
