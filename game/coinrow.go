package game

import (
	"fmt"

	"golang.org/x/exp/rand"
)

type Side int

const (
	LeftEnd Side = iota
	RightEnd
)

func (s Side) String() string {
	if s == LeftEnd {
		return "left"
	}
	return "right"
}

// CoinRow is "coins in a line": players alternately take a coin from either end
// of the row and score its value. The game ends when the row is empty.
type CoinRow struct {
	Coins   []int
	Players [2]string
	Turn    int // Index into Players of the player to move
	Points  [2]float64
}

// NewCoinRow starts a game where players[0] moves first.
func NewCoinRow(coins []int, players [2]string) *CoinRow {
	row := make([]int, len(coins))
	copy(row, coins)
	return &CoinRow{Coins: row, Players: players}
}

// RandomCoinRow deals n coins with values in [1, maxValue].
func RandomCoinRow(n, maxValue int, seed uint64, players [2]string) *CoinRow {
	r := rand.New(rand.NewSource(seed))
	coins := make([]int, n)
	for i := range coins {
		coins[i] = r.Intn(maxValue) + 1
	}
	return NewCoinRow(coins, players)
}

func (c *CoinRow) Player() string {
	return c.Players[c.Turn]
}

func (c *CoinRow) IsTerminal() bool {
	return len(c.Coins) == 0
}

func (c *CoinRow) Scores() map[string]float64 {
	return map[string]float64{
		c.Players[0]: c.Points[0],
		c.Players[1]: c.Points[1],
	}
}

func (c *CoinRow) Winner() string {
	if !c.IsTerminal() {
		return ""
	}
	return Leader(c.Scores())
}

func (c *CoinRow) LegalActions() []Action {
	switch len(c.Coins) {
	case 0:
		return nil
	case 1:
		// Both ends are the same coin
		return []Action{Take{from: c, Side: LeftEnd}}
	default:
		return []Action{Take{from: c, Side: LeftEnd}, Take{from: c, Side: RightEnd}}
	}
}

func (c *CoinRow) String() string {
	return fmt.Sprintf("coins=%v %s=%g %s=%g next=%s",
		c.Coins, c.Players[0], c.Points[0], c.Players[1], c.Points[1], c.Player())
}

// Take removes the coin at one end of the row it was generated from.
type Take struct {
	from *CoinRow
	Side Side
}

func (t Take) Next() State {
	c := t.from
	var coin int
	var rest []int
	if t.Side == LeftEnd {
		coin, rest = c.Coins[0], c.Coins[1:]
	} else {
		last := len(c.Coins) - 1
		coin, rest = c.Coins[last], c.Coins[:last]
	}

	next := &CoinRow{
		Coins:   make([]int, len(rest)),
		Players: c.Players,
		Turn:    1 - c.Turn,
		Points:  c.Points,
	}
	copy(next.Coins, rest)
	next.Points[c.Turn] += float64(coin)
	return next
}

func (t Take) String() string {
	if t.Side == LeftEnd {
		return fmt.Sprintf("take %d from the left", t.from.Coins[0])
	}
	return fmt.Sprintf("take %d from the right", t.from.Coins[len(t.from.Coins)-1])
}
