package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/vitorpy/solana-poker/internal/engine"
	"github.com/vitorpy/solana-poker/internal/ledger"
	"github.com/vitorpy/solana-poker/internal/state"
)

func newInspectCmd() *cobra.Command {
	var gameID string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Dump the stored records of a game",
		Long: `Opens the on-disk store under the home directory and prints the
table configuration, the phase machine, the seated players and the
state fingerprint for one game.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			home, err := cmd.Flags().GetString("home")
			if err != nil {
				return err
			}
			store, err := state.NewFileStore(filepath.Join(home, "data"))
			if err != nil {
				return err
			}
			eng := engine.New(store, ledger.NewBank(), logger)
			rec := eng.Records()

			ok, err := rec.HasGame(gameID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no game %q in %s", gameID, home)
			}

			cfg, err := rec.Config(gameID)
			if err != nil {
				return err
			}
			st, err := rec.State(gameID)
			if err != nil {
				return err
			}
			list, err := rec.Players(gameID)
			if err != nil {
				return err
			}

			pterm.DefaultSection.Println("Game " + gameID)
			cfgRows := pterm.TableData{
				{"Authority", cfg.Authority},
				{"Players", fmt.Sprintf("%d/%d", cfg.CurrentPlayers, cfg.MaxPlayers)},
				{"Small blind", fmt.Sprintf("%d", cfg.SmallBlind)},
				{"Min buy-in", fmt.Sprintf("%d", cfg.MinBuyIn)},
				{"Dealer seat", fmt.Sprintf("%d", cfg.DealerIndex)},
				{"Hand number", fmt.Sprintf("%d", cfg.GameNumber)},
				{"Timeout", fmt.Sprintf("%ds, slash %d%%", cfg.TimeoutSeconds, cfg.SlashPercentage)},
			}
			if err := pterm.DefaultTable.WithData(cfgRows).Render(); err != nil {
				return err
			}

			pterm.DefaultSection.Println("Phase machine")
			stRows := pterm.TableData{
				{"Phase", st.Phase.String()},
				{"Shuffling", st.Shuffling.String()},
				{"Drawing", st.Drawing.String()},
				{"Hand state", st.Texas.String()},
				{"Street", st.BettingRound.String()},
				{"Board state", st.Community.String()},
				{"Turn", fmt.Sprintf("seat %d", st.CurrentTurn)},
				{"Pot", fmt.Sprintf("%d (call %d)", st.Pot, st.CurrentCallAmount)},
				{"Deck", fmt.Sprintf("%d cards left, submitted %v", st.CardsLeftInDeck, st.DeckSubmitted)},
			}
			if err := pterm.DefaultTable.WithData(stRows).Render(); err != nil {
				return err
			}

			pterm.DefaultSection.Println("Seats")
			rows := pterm.TableData{{"Seat", "Address", "Chips", "Bet", "Status"}}
			for seat := uint8(0); seat < cfg.MaxPlayers; seat++ {
				addr := list.Player(seat)
				if addr == "" {
					continue
				}
				p, err := rec.Player(gameID, addr)
				if err != nil {
					return err
				}
				var status []string
				if p.Folded {
					status = append(status, "folded")
				}
				if p.HasCommitted {
					status = append(status, "committed")
				}
				if p.HasSubmittedHand {
					status = append(status, p.SubmittedHand.Category.String())
				}
				if len(status) == 0 {
					status = append(status, "active")
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", seat),
					addr,
					fmt.Sprintf("%d", p.Chips),
					fmt.Sprintf("%d", p.CurrentBet),
					strings.Join(status, ", "),
				})
			}
			if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
				return err
			}

			fp, err := eng.Fingerprint(gameID)
			if err != nil {
				return err
			}
			pterm.Info.Printfln("state fingerprint %x", fp)
			return nil
		},
	}

	cmd.Flags().StringVar(&gameID, "game", "", "game id to inspect")
	_ = cmd.MarkFlagRequired("game")
	return cmd
}
