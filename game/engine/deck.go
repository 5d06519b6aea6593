package engine

import (
	"fmt"
	"math/rand/v2"
)

// NewDeck returns the 52 cards in suit then rank order, all face down
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for suit := Hearts; suit <= Spades; suit++ {
		for rank := Ace; rank <= King; rank++ {
			deck = append(deck, NewCard(suit, rank))
		}
	}
	return deck
}

// CreateShuffledDeck returns a uniformly shuffled deck. A nil r uses the
// package-level source; pass a seeded *rand.Rand for reproducible deals.
func CreateShuffledDeck(r *rand.Rand) []Card {
	deck := NewDeck()
	swap := func(i, j int) { deck[i], deck[j] = deck[j], deck[i] }
	if r == nil {
		rand.Shuffle(len(deck), swap)
	} else {
		r.Shuffle(len(deck), swap)
	}
	return deck
}

// Deal lays out the Klondike starting position. Cards are dealt row by row:
// row r puts one card on each tableau r..6, and the first card of the row
// (the last card tableau r receives) is face up. Tableau i ends with i+1
// cards. The remaining 24 cards are returned as the stock, face down, with
// the last card on top.
func Deal(deck []Card) ([NumTableaus][]Card, []Card, error) {
	var tableaus [NumTableaus][]Card
	if len(deck) != DeckSize {
		return tableaus, nil, fmt.Errorf("deal: deck must have %d cards, got %d", DeckSize, len(deck))
	}

	seen := make(map[CardID]bool, DeckSize)
	for _, c := range deck {
		if !c.Valid() {
			return tableaus, nil, fmt.Errorf("deal: invalid card %s", c.ShortName())
		}
		if seen[c.ID()] {
			return tableaus, nil, fmt.Errorf("deal: duplicate card %s", c.ShortName())
		}
		seen[c.ID()] = true
	}

	next := 0
	for row := 0; row < NumTableaus; row++ {
		for pile := row; pile < NumTableaus; pile++ {
			card := deck[next]
			next++
			card.FaceDown = pile != row
			tableaus[pile] = append(tableaus[pile], card)
		}
	}

	stock := make([]Card, 0, StockSize)
	for _, card := range deck[next:] {
		card.FaceDown = true
		stock = append(stock, card)
	}
	return tableaus, stock, nil
}
