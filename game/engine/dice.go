package engine

import (
	"time"

	"golang.org/x/exp/rand"
)

// Dice lists the twelve faces of the planetary dice.
var Dice = [12]DiceOutcome{
	{Planet: Mars, Element: Fire, Color: Red},
	{Planet: Mars, Element: Water, Color: Blue},
	{Planet: Jupiter, Element: Fire, Color: Red},
	{Planet: Jupiter, Element: Water, Color: Blue},
	{Planet: Venus, Element: Earth, Color: Green},
	{Planet: Venus, Element: Air, Color: Yellow},
	{Planet: Mercury, Element: Earth, Color: Green},
	{Planet: Mercury, Element: Air, Color: Yellow},
	{Planet: Moon, Element: Water, Color: Blue},
	{Planet: Moon, Element: Air, Color: Yellow},
	{Planet: Sun, Element: Fire, Color: Red},
	{Planet: Sun, Element: Earth, Color: Green},
}

// ElementColor maps each element to the line color it sends pieces to.
var ElementColor = map[Element]Color{
	Fire:  Red,
	Water: Blue,
	Earth: Green,
	Air:   Yellow,
}

// Rand is the source of randomness for dice and automated tie-breaking.
// *rand.Rand from golang.org/x/exp/rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// NewRand returns a seeded source. A zero seed draws one from the clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(uint64(seed)))
}

// RollDice draws one face uniformly.
func RollDice(r Rand) DiceOutcome {
	return Dice[r.Intn(len(Dice))]
}

// FindOutcome looks up the face with the given planet and color.
func FindOutcome(p Planet, c Color) (DiceOutcome, bool) {
	for _, d := range Dice {
		if d.Planet == p && d.Color == c {
			return d, true
		}
	}
	return DiceOutcome{}, false
}
