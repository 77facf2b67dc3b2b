package play

import (
	"fmt"
	"slices"

	"github.com/lox/cfr-solver/internal/config"
	"github.com/lox/cfr-solver/internal/game"
	"github.com/lox/cfr-solver/internal/solver"
)

// searchIterations is how many subgame-solve iterations Driver.Search runs
// after the human seat's action and after every new street, the same budget
// the reference play loop uses.
const searchIterations = 10000

// humanSeat is player 0, by convention: the only seat driven by WaitForAction
// rather than the trained strategy.
const humanSeat = 0

// Outcome is the result of one played hand.
type Outcome struct {
	Payoff []float64
}

// RunHand plays one hand of Leduc against driver's blueprint, with the human
// seat driven through model's action channel. It re-solves the subgame below
// the realized path with driver.Search after the human acts and after every
// street, exactly as spec's play()/search() pseudocode describes, and
// returns the terminal payoff. On an illegal human token it also runs a
// search round before re-prompting, on the theory that an info set the
// player is about to revisit is worth another pass regardless of why the
// first answer didn't parse.
//
// RunHand only supports the Leduc variant and returns an error for any other;
// there is no interactive mode for Kuhn.
func RunHand(driver *solver.Driver, cfg *config.Config, model *Model) (Outcome, error) {
	if cfg.Game.Variant != "leduc" {
		return Outcome{}, fmt.Errorf("play: interactive play is only supported for the leduc variant, got %q", cfg.Game.Variant)
	}

	deck := driver.ShuffledDeck()
	state := game.New(driver.NumPlayers(), driver.TotalRounds(), deck, driver.MaxRaises())
	frozen := map[string]string{}
	publicRound := 0

	model.AddLogEntry("new hand dealt")

	for !state.IsTerminal() {
		turn := state.Turn()
		actions := state.ValidActions()

		if turn == humanSeat {
			model.SetHumanTurn(true, fmt.Sprintf("%d", state.HoleCard(humanSeat)), sum(state.Bets()), actions)

			var action string
			for {
				result := model.WaitForAction()
				if !result.Continue {
					return Outcome{}, fmt.Errorf("play: quit requested mid-hand")
				}
				if slices.Contains(actions, result.Action) {
					action = result.Action
					break
				}
				model.AddLogEntry(errorStyle.Render(fmt.Sprintf("not a legal action: %q (choices: %v)", result.Action, actions)))
				driver.Search(searchIterations, frozen)
			}

			model.AddLogEntry(successStyle.Render(fmt.Sprintf("you: %s", action)))
			state = state.Act(action)

			driver.Search(searchIterations, frozen)
		} else {
			key := state.InfoSet()
			node := driver.Table().GetOrCreate(turn, key, actions)

			var sigma []float64
			if cfg.Training.BotUsesCurrentStrategy {
				sigma = node.GetStrategy()
			} else {
				sigma = node.GetAverageStrategy()
			}

			idx := driver.SampleAction(sigma)
			action := actions[idx]
			frozen[key] = action

			model.AddLogEntry(fmt.Sprintf("solver (seat %d): %s", turn, action))
			state = state.Act(action)
		}

		if state.Round() > publicRound {
			publicRound = state.Round()
			model.AddLogEntry(infoStyle.Render("--- new street ---"))
			driver.Search(searchIterations, frozen)
		}
	}

	model.SetHumanTurn(false, "", sum(state.Bets()), nil)
	payoff := state.Payoff()
	model.AddLogEntry(fmt.Sprintf("hand over, payoff: %v", payoff))
	return Outcome{Payoff: payoff}, nil
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}
