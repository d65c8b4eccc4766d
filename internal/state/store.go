package state

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
)

// Store is the persistence boundary. Implementations must make Set/Delete
// atomic per key; the engine serializes whole transitions above this
// interface, so no cross-key transactionality is required of it.
type Store interface {
	// Get returns the stored value, or found=false when the key is absent.
	Get(key string) (value []byte, found bool, err error)
	// Set stores value under key, overwriting any previous value.
	Set(key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
	// Iterate visits every key with the given prefix in lexical order.
	Iterate(prefix string, fn func(key string, value []byte) (stop bool)) error
}

// Store key layout. One game spans a handful of records plus one per seat.
func configKey(gameID string) string     { return "config/" + gameID }
func stateKey(gameID string) string      { return "state/" + gameID }
func deckKey(gameID string) string       { return "deck/" + gameID }
func accKey(gameID string) string        { return "acc/" + gameID }
func communityKey(gameID string) string  { return "community/" + gameID }
func playerListKey(gameID string) string { return "players/" + gameID }

func playerKey(gameID, addr string) string {
	return fmt.Sprintf("player/%s/%s", gameID, addr)
}

func playerPrefix(gameID string) string {
	return "player/" + gameID + "/"
}

// GamePrefix returns the key prefix shared by every record of a game.
// Useful for backups and teardown.
func GamePrefix(gameID string) []string {
	return []string{
		configKey(gameID), stateKey(gameID), deckKey(gameID),
		accKey(gameID), communityKey(gameID), playerListKey(gameID),
		playerPrefix(gameID),
	}
}

// Records wraps a Store with typed accessors for every game record.
type Records struct {
	store Store
}

// NewRecords returns typed access over store.
func NewRecords(store Store) *Records {
	return &Records{store: store}
}

// Store exposes the underlying store, mainly for fingerprinting.
func (r *Records) Store() Store { return r.store }

func (r *Records) get(key string, v any) error {
	b, found, err := r.store.Get(key)
	if err != nil {
		return errorsmod.Wrapf(ErrStoreFailure, "get %s: %v", key, err)
	}
	if !found {
		return errorsmod.Wrap(ErrRecordNotFound, key)
	}
	return Unmarshal(b, v)
}

func (r *Records) set(key string, v any) error {
	b, err := Marshal(v)
	if err != nil {
		return err
	}
	if err := r.store.Set(key, b); err != nil {
		return errorsmod.Wrapf(ErrStoreFailure, "set %s: %v", key, err)
	}
	return nil
}

// HasGame reports whether a game with this id exists.
func (r *Records) HasGame(gameID string) (bool, error) {
	_, found, err := r.store.Get(configKey(gameID))
	if err != nil {
		return false, errorsmod.Wrapf(ErrStoreFailure, "get %s: %v", configKey(gameID), err)
	}
	return found, nil
}

// Config loads a game's configuration.
func (r *Records) Config(gameID string) (*GameConfig, error) {
	var c GameConfig
	if err := r.get(configKey(gameID), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// SetConfig stores a game's configuration.
func (r *Records) SetConfig(c *GameConfig) error {
	return r.set(configKey(c.GameID), c)
}

// State loads a game's mutable state.
func (r *Records) State(gameID string) (*GameState, error) {
	var s GameState
	if err := r.get(stateKey(gameID), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SetState stores a game's mutable state.
func (r *Records) SetState(s *GameState) error {
	return r.set(stateKey(s.GameID), s)
}

// Deck loads the working deck.
func (r *Records) Deck(gameID string) (*DeckState, error) {
	var d DeckState
	if err := r.get(deckKey(gameID), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// SetDeck stores the working deck.
func (r *Records) SetDeck(d *DeckState) error {
	return r.set(deckKey(d.GameID), d)
}

// Accumulator loads the randomness accumulator and canonical deck mapping.
func (r *Records) Accumulator(gameID string) (*AccumulatorState, error) {
	var a AccumulatorState
	if err := r.get(accKey(gameID), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// SetAccumulator stores the accumulator record.
func (r *Records) SetAccumulator(a *AccumulatorState) error {
	return r.set(accKey(a.GameID), a)
}

// Community loads the board record.
func (r *Records) Community(gameID string) (*CommunityCards, error) {
	var c CommunityCards
	if err := r.get(communityKey(gameID), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// SetCommunity stores the board record.
func (r *Records) SetCommunity(c *CommunityCards) error {
	return r.set(communityKey(c.GameID), c)
}

// Players loads the seat list.
func (r *Records) Players(gameID string) (*PlayerList, error) {
	var l PlayerList
	if err := r.get(playerListKey(gameID), &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// SetPlayers stores the seat list.
func (r *Records) SetPlayers(l *PlayerList) error {
	return r.set(playerListKey(l.GameID), l)
}

// Player loads one seat's record.
func (r *Records) Player(gameID, addr string) (*PlayerState, error) {
	var p PlayerState
	if err := r.get(playerKey(gameID, addr), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SetPlayer stores one seat's record.
func (r *Records) SetPlayer(p *PlayerState) error {
	return r.set(playerKey(p.GameID, p.Addr), p)
}

// DeletePlayer removes a seat's record after the player leaves.
func (r *Records) DeletePlayer(gameID, addr string) error {
	if err := r.store.Delete(playerKey(gameID, addr)); err != nil {
		return errorsmod.Wrapf(ErrStoreFailure, "delete player %s: %v", addr, err)
	}
	return nil
}

// DeleteGame removes every record of a game.
func (r *Records) DeleteGame(gameID string) error {
	var playerKeys []string
	err := r.store.Iterate(playerPrefix(gameID), func(key string, _ []byte) bool {
		playerKeys = append(playerKeys, key)
		return false
	})
	if err != nil {
		return errorsmod.Wrapf(ErrStoreFailure, "iterate players: %v", err)
	}
	keys := append(playerKeys,
		configKey(gameID), stateKey(gameID), deckKey(gameID),
		accKey(gameID), communityKey(gameID), playerListKey(gameID),
	)
	for _, k := range keys {
		if err := r.store.Delete(k); err != nil {
			return errorsmod.Wrapf(ErrStoreFailure, "delete %s: %v", k, err)
		}
	}
	return nil
}
