package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	telebot "gopkg.in/telebot.v3"
)

func TestCallbackKey_PageFlipsBypassDedup(t *testing.T) {
	cb := &telebot.Callback{
		Sender: &telebot.User{ID: 42},
		Data:   "orders_page:2",
	}

	assert.Empty(t, callbackKey(cb))

	// Telegram prepends \f to callback data on the wire.
	cb.Data = "\forders_page:3"
	assert.Empty(t, callbackKey(cb))
}

func TestCallbackKey_MutatingActionsAreKeyed(t *testing.T) {
	confirm := &telebot.Callback{
		Sender: &telebot.User{ID: 42},
		Data:   "confirm:ORD-AAA111BBB",
	}

	key := callbackKey(confirm)
	assert.NotEmpty(t, key)

	// Retaps of the same button by the same user collapse onto one key.
	assert.Equal(t, key, callbackKey(confirm))

	// A different user or a different order gets its own key.
	other := &telebot.Callback{Sender: &telebot.User{ID: 43}, Data: confirm.Data}
	assert.NotEqual(t, key, callbackKey(other))

	cancel := &telebot.Callback{Sender: confirm.Sender, Data: "cancel:ORD-AAA111BBB"}
	assert.NotEqual(t, key, callbackKey(cancel))
}
