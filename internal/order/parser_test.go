package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Parsed
		ok   bool
	}{
		{
			name: "basic order",
			text: "order: Cyberpunk 2077, 59.99, mysteamname, PayPal",
			want: Parsed{
				GameName:      "Cyberpunk 2077",
				RawPrice:      "59.99",
				SteamName:     "mysteamname",
				PaymentMethod: "PayPal",
			},
			ok: true,
		},
		{
			name: "swedish prefix",
			text: "beställ: Stardew Valley, 129 kr, bonden, Swish",
			want: Parsed{
				GameName:      "Stardew Valley",
				RawPrice:      "129 kr",
				SteamName:     "bonden",
				PaymentMethod: "Swish",
			},
			ok: true,
		},
		{
			name: "prefix is case insensitive",
			text: "ORDER: Hades, 20.99 EUR, zagreus, Crypto",
			want: Parsed{
				GameName:      "Hades",
				RawPrice:      "20.99 EUR",
				SteamName:     "zagreus",
				PaymentMethod: "Crypto",
			},
			ok: true,
		},
		{
			name: "three fields",
			text: "order: Hades, 20.99, zagreus",
			ok:   false,
		},
		{
			name: "five fields",
			text: "order: Hades, 20.99, zagreus, Crypto, extra",
			ok:   false,
		},
		{
			name: "empty field",
			text: "order: Hades, , zagreus, Crypto",
			ok:   false,
		},
		{
			name: "no prefix",
			text: "Hades, 20.99, zagreus, Crypto",
			ok:   false,
		},
		{
			name: "prefix mid-sentence does not match",
			text: "my order: Hades, 20.99, zagreus, Crypto",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseFields_TrimsWhitespace(t *testing.T) {
	got, ok := ParseFields("  Hades ,  20.99 EUR ,  zagreus ,  Swish  ")
	assert.True(t, ok)
	assert.Equal(t, Parsed{
		GameName:      "Hades",
		RawPrice:      "20.99 EUR",
		SteamName:     "zagreus",
		PaymentMethod: "Swish",
	}, got)
}

func TestHasPrefix(t *testing.T) {
	assert.True(t, HasPrefix("order: whatever"))
	assert.True(t, HasPrefix("Beställ: whatever"))
	assert.False(t, HasPrefix("hello there"))
	assert.False(t, HasPrefix("/order Hades, 20.99, zagreus, Swish"))
}
