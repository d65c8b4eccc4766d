package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func storeImpls(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return map[string]Store{
		"mem":  NewMemStore(),
		"file": fs,
	}
}

func TestStoreBasics(t *testing.T) {
	for name, s := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			_, found, err := s.Get("missing")
			require.NoError(t, err)
			require.False(t, found)

			require.NoError(t, s.Set("a/1", []byte("one")))
			require.NoError(t, s.Set("a/2", []byte("two")))
			require.NoError(t, s.Set("b/1", []byte("other")))

			v, found, err := s.Get("a/2")
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, []byte("two"), v)

			var seen []string
			require.NoError(t, s.Iterate("a/", func(key string, _ []byte) bool {
				seen = append(seen, key)
				return false
			}))
			require.Equal(t, []string{"a/1", "a/2"}, seen)

			require.NoError(t, s.Delete("a/1"))
			require.NoError(t, s.Delete("a/1")) // absent key is fine
			_, found, err = s.Get("a/1")
			require.NoError(t, err)
			require.False(t, found)
		})
	}
}

func TestStoreIterateStops(t *testing.T) {
	for name, s := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set("k/1", []byte("x")))
			require.NoError(t, s.Set("k/2", []byte("y")))
			n := 0
			require.NoError(t, s.Iterate("k/", func(string, []byte) bool {
				n++
				return true
			}))
			require.Equal(t, 1, n)
		})
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	rec := NewRecords(NewMemStore())

	cfg := &GameConfig{
		GameID:          "g1",
		Authority:       "alice",
		MaxPlayers:      4,
		SmallBlind:      10,
		MinBuyIn:        1000,
		CreatedAtUnix:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC).Unix(),
		TimeoutSeconds:  120,
		SlashPercentage: 25,
	}
	require.NoError(t, rec.SetConfig(cfg))

	got, err := rec.Config("g1")
	require.NoError(t, err)
	require.Equal(t, cfg, got)

	_, err = rec.Config("nope")
	require.ErrorIs(t, err, ErrRecordNotFound)

	st := NewGameState("g1", 77)
	st.Pot = 300
	require.NoError(t, rec.SetState(st))
	gotState, err := rec.State("g1")
	require.NoError(t, err)
	require.Equal(t, st, gotState)

	d := NewDeckState("g1")
	d.SetCard(3, testPointFor(t, "card3"))
	d.SetHolder(3, "bob")
	require.NoError(t, rec.SetDeck(d))
	gotDeck, err := rec.Deck("g1")
	require.NoError(t, err)
	require.Equal(t, d, gotDeck)

	a := NewAccumulatorState("g1")
	a.Accumulate(5, [32]byte{1})
	a.SetDeckPoint(5, testPointFor(t, "canon5"))
	require.NoError(t, rec.SetAccumulator(a))
	gotAcc, err := rec.Accumulator("g1")
	require.NoError(t, err)
	require.Equal(t, a, gotAcc)

	c := NewCommunityCards("g1")
	require.True(t, c.AddCard(51))
	require.NoError(t, rec.SetCommunity(c))
	gotComm, err := rec.Community("g1")
	require.NoError(t, err)
	require.Equal(t, c, gotComm)

	l := NewPlayerList("g1", 4)
	_, ok := l.AddPlayer("alice")
	require.True(t, ok)
	require.NoError(t, rec.SetPlayers(l))
	gotList, err := rec.Players("g1")
	require.NoError(t, err)
	require.Equal(t, l, gotList)

	p := NewPlayerState("g1", "alice", 0, 1000)
	p.SetCommitment([32]byte{9})
	require.NoError(t, rec.SetPlayer(p))
	gotPlayer, err := rec.Player("g1", "alice")
	require.NoError(t, err)
	require.Equal(t, p, gotPlayer)
}

func TestDeleteGameRemovesEverything(t *testing.T) {
	mem := NewMemStore()
	rec := NewRecords(mem)

	require.NoError(t, rec.SetConfig(&GameConfig{GameID: "g1", Authority: "a", MaxPlayers: 2, SmallBlind: 1, MinBuyIn: 2}))
	require.NoError(t, rec.SetState(NewGameState("g1", 0)))
	require.NoError(t, rec.SetDeck(NewDeckState("g1")))
	require.NoError(t, rec.SetAccumulator(NewAccumulatorState("g1")))
	require.NoError(t, rec.SetCommunity(NewCommunityCards("g1")))
	require.NoError(t, rec.SetPlayers(NewPlayerList("g1", 2)))
	require.NoError(t, rec.SetPlayer(NewPlayerState("g1", "alice", 0, 10)))
	require.NoError(t, rec.SetPlayer(NewPlayerState("g1", "bob", 1, 10)))

	// A second game must survive the delete.
	require.NoError(t, rec.SetConfig(&GameConfig{GameID: "g2", Authority: "a", MaxPlayers: 2, SmallBlind: 1, MinBuyIn: 2}))

	require.NoError(t, rec.DeleteGame("g1"))
	require.Equal(t, 1, mem.Len())
	has, err := rec.HasGame("g2")
	require.NoError(t, err)
	require.True(t, has)
}

func TestFingerprintStable(t *testing.T) {
	build := func(store Store, reorder bool) {
		rec := NewRecords(store)
		cfg := &GameConfig{GameID: "g1", Authority: "a", MaxPlayers: 2, SmallBlind: 5, MinBuyIn: 100}
		st := NewGameState("g1", 42)
		p1 := NewPlayerState("g1", "alice", 0, 100)
		p2 := NewPlayerState("g1", "bob", 1, 100)
		if reorder {
			require.NoError(t, rec.SetPlayer(p2))
			require.NoError(t, rec.SetState(st))
			require.NoError(t, rec.SetPlayer(p1))
			require.NoError(t, rec.SetConfig(cfg))
		} else {
			require.NoError(t, rec.SetConfig(cfg))
			require.NoError(t, rec.SetPlayer(p1))
			require.NoError(t, rec.SetPlayer(p2))
			require.NoError(t, rec.SetState(st))
		}
	}

	s1, s2 := NewMemStore(), NewMemStore()
	build(s1, false)
	build(s2, true)

	f1, err := Fingerprint(s1, "g1")
	require.NoError(t, err)
	f2, err := Fingerprint(s2, "g1")
	require.NoError(t, err)
	require.Equal(t, f1, f2)

	// Any state change moves the fingerprint.
	rec := NewRecords(s2)
	st, err := rec.State("g1")
	require.NoError(t, err)
	st.Pot = 1
	require.NoError(t, rec.SetState(st))
	f3, err := Fingerprint(s2, "g1")
	require.NoError(t, err)
	require.NotEqual(t, f1, f3)
}
