package state

// The table runs six orthogonal sub-machines. Each one is serialized as a
// small integer so stored records stay compact and comparable across
// versions.

// GamePhase is the coarse lifecycle of a hand.
type GamePhase uint8

const (
	PhaseWaitingForPlayers GamePhase = iota
	PhaseShuffling
	PhaseDrawing
	PhaseOpening
	PhaseFinished
)

func (p GamePhase) String() string {
	switch p {
	case PhaseWaitingForPlayers:
		return "waiting_for_players"
	case PhaseShuffling:
		return "shuffling"
	case PhaseDrawing:
		return "drawing"
	case PhaseOpening:
		return "opening"
	case PhaseFinished:
		return "finished"
	}
	return "unknown"
}

// ShufflingState sequences the deck preparation rounds.
type ShufflingState uint8

const (
	ShuffleNotStarted ShufflingState = iota
	ShuffleCommitting
	ShuffleGenerating
	ShuffleShuffling
	ShuffleLocking
)

func (s ShufflingState) String() string {
	switch s {
	case ShuffleNotStarted:
		return "not_started"
	case ShuffleCommitting:
		return "committing"
	case ShuffleGenerating:
		return "generating"
	case ShuffleShuffling:
		return "shuffling"
	case ShuffleLocking:
		return "locking"
	}
	return "unknown"
}

// DrawingState alternates between a player picking a deck slot and the other
// players collaboratively stripping their lock keys off it.
type DrawingState uint8

const (
	DrawNotDrawn DrawingState = iota
	DrawPicking
	DrawRevealing
)

func (d DrawingState) String() string {
	switch d {
	case DrawNotDrawn:
		return "not_drawn"
	case DrawPicking:
		return "picking"
	case DrawRevealing:
		return "revealing"
	}
	return "unknown"
}

// TexasState is the hold'em hand flow layered over the crypto machinery.
type TexasState uint8

const (
	TexasNotStarted TexasState = iota
	TexasSetup
	TexasDrawing
	TexasCommunityCardsAwaiting
	TexasBetting
	TexasRevealing
	TexasSubmitBest
	TexasClaimPot
	TexasStartNext
	TexasFinished
)

func (t TexasState) String() string {
	switch t {
	case TexasNotStarted:
		return "not_started"
	case TexasSetup:
		return "setup"
	case TexasDrawing:
		return "drawing"
	case TexasCommunityCardsAwaiting:
		return "community_cards_awaiting"
	case TexasBetting:
		return "betting"
	case TexasRevealing:
		return "revealing"
	case TexasSubmitBest:
		return "submit_best"
	case TexasClaimPot:
		return "claim_pot"
	case TexasStartNext:
		return "start_next"
	case TexasFinished:
		return "finished"
	}
	return "unknown"
}

// BettingRound names the street being bet.
type BettingRound uint8

const (
	RoundBlinds BettingRound = iota
	RoundPreFlop
	RoundPostFlop
	RoundPostTurn
	RoundShowdown
)

func (b BettingRound) String() string {
	switch b {
	case RoundBlinds:
		return "blinds"
	case RoundPreFlop:
		return "pre_flop"
	case RoundPostFlop:
		return "post_flop"
	case RoundPostTurn:
		return "post_turn"
	case RoundShowdown:
		return "showdown"
	}
	return "unknown"
}

// CommunityState tracks which board card the table is waiting on.
type CommunityState uint8

const (
	CommunityOpening CommunityState = iota
	CommunityFlopAwaiting
	CommunityTurnAwaiting
	CommunityRiverAwaiting
)

func (c CommunityState) String() string {
	switch c {
	case CommunityOpening:
		return "opening"
	case CommunityFlopAwaiting:
		return "flop_awaiting"
	case CommunityTurnAwaiting:
		return "turn_awaiting"
	case CommunityRiverAwaiting:
		return "river_awaiting"
	}
	return "unknown"
}
