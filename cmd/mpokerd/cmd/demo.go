package cmd

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/vitorpy/solana-poker/internal/engine"
	"github.com/vitorpy/solana-poker/internal/ledger"
	"github.com/vitorpy/solana-poker/internal/player"
	"github.com/vitorpy/solana-poker/internal/state"
)

// demoStepLimit bounds the drive loop; a full hand at an 8-seat table
// stays well under it.
const demoStepLimit = 2000

func newDemoCmd() *cobra.Command {
	var (
		players    uint8
		smallBlind uint64
		buyIn      uint64
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Play one scripted hand at an in-memory table",
		Long: `Runs a complete hand against an in-memory store: seating, the
commit-reveal shuffle, hole-card draws, all betting streets with the
board dealt in between, the showdown and the pot settlement. Every
participant is an honest scripted client that calls and checks.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			if players < state.MinPlayers || players > state.MaxPlayers {
				return fmt.Errorf("players must be between %d and %d", state.MinPlayers, state.MaxPlayers)
			}

			bank := ledger.NewBank()
			eng := engine.New(state.NewMemStore(), bank, logger)

			const gameID = "demo"
			cfg := state.GameConfig{
				GameID:          gameID,
				Authority:       "house",
				MaxPlayers:      players,
				SmallBlind:      smallBlind,
				MinBuyIn:        buyIn,
				TimeoutSeconds:  300,
				SlashPercentage: 50,
			}
			if err := eng.CreateGame(cfg); err != nil {
				return err
			}

			clients := make([]*player.Client, players)
			for i := range clients {
				addr := fmt.Sprintf("player-%d", i)
				bank.Mint(addr, math.NewIntFromUint64(buyIn))
				clients[i] = player.New(eng, gameID, addr, []byte(addr+"/secret"))
				if err := clients[i].Join(buyIn); err != nil {
					return err
				}
			}
			pterm.Success.Printfln("%d players seated with %d chips each", players, buyIn)

			if err := driveHand(eng, gameID, clients); err != nil {
				return err
			}
			return printTable(eng, gameID, clients)
		},
	}

	cmd.Flags().Uint8Var(&players, "players", 3, "number of seats at the table")
	cmd.Flags().Uint64Var(&smallBlind, "small-blind", 10, "small blind in chips")
	cmd.Flags().Uint64Var(&buyIn, "buy-in", 1000, "buy-in per player in chips")
	return cmd
}

// driveHand advances the table one operation at a time, reading the state
// machine back after every call and dispatching whichever client owes the
// next move.
func driveHand(eng *engine.Engine, gameID string, clients []*player.Client) error {
	rec := eng.Records()
	bySeat := func(seat uint8) *player.Client { return clients[int(seat)%len(clients)] }

	for step := 0; ; step++ {
		if step >= demoStepLimit {
			return fmt.Errorf("hand did not finish within %d steps", demoStepLimit)
		}
		cfg, err := rec.Config(gameID)
		if err != nil {
			return err
		}
		st, err := rec.State(gameID)
		if err != nil {
			return err
		}
		if st.Texas == state.TexasFinished {
			return nil
		}
		dealer := bySeat(cfg.DealerIndex)

		switch {
		case st.Phase == state.PhaseShuffling && st.Shuffling == state.ShuffleGenerating:
			err = bySeat(st.CurrentTurn).RevealSeed()

		case st.Phase == state.PhaseShuffling && st.Shuffling == state.ShuffleShuffling:
			if !st.DeckSubmitted {
				err = bySeat(st.CurrentTurn).SubmitMapping()
				break
			}
			err = bySeat(st.CurrentTurn).Shuffle()

		case st.Phase == state.PhaseShuffling && st.Shuffling == state.ShuffleLocking:
			err = bySeat(st.CurrentTurn).Lock()

		case st.Texas == state.TexasBetting && st.BettingRound == state.RoundBlinds:
			amount := cfg.SmallBlind
			if st.CurrentCallAmount != 0 {
				amount = cfg.SmallBlind * 2
			}
			err = bySeat(st.CurrentTurn).Blind(amount)

		case st.Drawing == state.DrawRevealing:
			err = revealRound(eng, gameID, st.CardToReveal, clients)

		case st.Texas == state.TexasDrawing:
			_, err = bySeat(st.CurrentTurn).Draw()

		case st.Texas == state.TexasCommunityCardsAwaiting:
			d, derr := rec.Deck(gameID)
			if derr != nil {
				return derr
			}
			comm, cerr := rec.Community(gameID)
			if cerr != nil {
				return cerr
			}
			if comm.IsCommunityCard(st.CardToReveal) && d.Holder(int(st.CardToReveal)) == dealer.Addr {
				// Board card fully revealed by the table, dealer opens it.
				err = dealer.OpenBoard(st.CardToReveal)
				break
			}
			_, err = dealer.DealBoard()

		case st.Texas == state.TexasBetting:
			c := bySeat(st.CurrentTurn)
			p, perr := rec.Player(gameID, c.Addr)
			if perr != nil {
				return perr
			}
			owed := uint64(0)
			if st.CurrentCallAmount > p.CurrentBet {
				owed = st.CurrentCallAmount - p.CurrentBet
			}
			err = c.Bet(min(owed, p.Chips))

		case st.Texas == state.TexasRevealing:
			c := bySeat(st.CurrentTurn)
			p, perr := rec.Player(gameID, c.Addr)
			if perr != nil {
				return perr
			}
			err = c.OpenOwn(p.HoleCards[p.RevealedCardCount])

		case st.Texas == state.TexasSubmitBest:
			err = bySeat(st.CurrentTurn).SubmitBest()

		case st.Texas == state.TexasClaimPot:
			err = dealer.Claim()

		default:
			return fmt.Errorf("no scripted move for phase=%s texas=%s", st.Phase, st.Texas)
		}
		if err != nil {
			return err
		}
	}
}

// revealRound has every seat that does not hold the card contribute its
// decryption share.
func revealRound(eng *engine.Engine, gameID string, slot uint8, clients []*player.Client) error {
	rec := eng.Records()
	deck, err := rec.Deck(gameID)
	if err != nil {
		return err
	}
	list, err := rec.Players(gameID)
	if err != nil {
		return err
	}
	for _, c := range clients {
		if deck.Holder(int(slot)) == c.Addr {
			continue
		}
		seat, ok := list.FindPlayer(c.Addr)
		if !ok || list.HasRevealed(seat) {
			continue
		}
		if err := c.RevealFor(slot); err != nil {
			return err
		}
	}
	return nil
}

func printTable(eng *engine.Engine, gameID string, clients []*player.Client) error {
	rec := eng.Records()
	st, err := rec.State(gameID)
	if err != nil {
		return err
	}

	if _, board, err := clients[0].Holding(); err == nil && len(board) > 0 {
		line := ""
		for _, c := range board {
			line += c.String() + " "
		}
		pterm.DefaultSection.Println("Board: " + line)
	}

	rows := pterm.TableData{{"Seat", "Player", "Hole", "Hand", "Chips"}}
	for _, c := range clients {
		p, err := rec.Player(gameID, c.Addr)
		if err != nil {
			return err
		}
		hole, _, err := c.Holding()
		if err != nil {
			return err
		}
		holeStr := ""
		for _, h := range hole {
			holeStr += h.String() + " "
		}
		hand := "-"
		if p.HasSubmittedHand {
			hand = p.SubmittedHand.Category.String()
		}
		if p.Folded {
			hand = "folded"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", p.Seat),
			c.Addr,
			holeStr,
			hand,
			fmt.Sprintf("%d", p.Chips),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		return err
	}

	fp, err := eng.Fingerprint(gameID)
	if err != nil {
		return err
	}
	pterm.Info.Printfln("pot claimed: %v, final state fingerprint %x", st.PotClaimed, fp[:8])
	return nil
}
