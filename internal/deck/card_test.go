package deck

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCardModel(t *testing.T) {
	cases := []struct {
		card Card
		str  string
		rank uint8
		suit uint8
		ord  uint8
	}{
		{0, "Ac", 0, 0, 13},
		{1, "2c", 1, 0, 1},
		{9, "Tc", 9, 0, 9},
		{12, "Kc", 12, 0, 12},
		{13, "Ad", 0, 1, 13},
		{26, "Ah", 0, 2, 13},
		{39, "As", 0, 3, 13},
		{51, "Ks", 12, 3, 12},
	}
	for _, tc := range cases {
		require.Equal(t, tc.str, tc.card.String())
		require.Equal(t, tc.rank, tc.card.Rank())
		require.Equal(t, tc.suit, tc.card.Suit())
		require.Equal(t, tc.ord, tc.card.OrderValue())
		require.True(t, tc.card.Valid())
	}
	require.False(t, Card(52).Valid())
	require.Equal(t, "??", Card(200).String())
}
