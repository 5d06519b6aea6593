package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// PileType identifies the role of a pile on the table
type PileType string

const (
	StockPile      PileType = "stock"
	DiscardPile    PileType = "discard"
	FoundationPile PileType = "foundation"
	TableauPile    PileType = "tableau"
)

// PileID names a pile: "stock", "discard", "foundation-0".."foundation-3", "tableau-0".."tableau-6"
type PileID string

const (
	StockID   PileID = "stock"
	DiscardID PileID = "discard"
)

// FoundationID returns the id of foundation i (0-based)
func FoundationID(i int) PileID { return PileID(fmt.Sprintf("foundation-%d", i)) }

// TableauID returns the id of tableau i (0-based)
func TableauID(i int) PileID { return PileID(fmt.Sprintf("tableau-%d", i)) }

func (id PileID) IsFoundation() bool { return strings.HasPrefix(string(id), "foundation-") }
func (id PileID) IsTableau() bool    { return strings.HasPrefix(string(id), "tableau-") }

// ParsePileID normalizes and validates a pile id. "waste" is accepted for the discard pile.
func ParsePileID(s string) (PileID, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "stock":
		return StockID, nil
	case "discard", "waste":
		return DiscardID, nil
	}

	prefix, num, ok := strings.Cut(v, "-")
	if !ok {
		return "", fmt.Errorf("unknown pile %q", s)
	}
	i, err := strconv.Atoi(num)
	if err != nil {
		return "", fmt.Errorf("unknown pile %q", s)
	}
	switch {
	case prefix == "foundation" && i >= 0 && i < NumFoundations:
		return FoundationID(i), nil
	case prefix == "tableau" && i >= 0 && i < NumTableaus:
		return TableauID(i), nil
	}
	return "", fmt.Errorf("unknown pile %q", s)
}

// Pile is an ordered stack of cards; the top card is the last element.
// It performs no rule checks.
type Pile struct {
	ID    PileID   `json:"id"`
	Type  PileType `json:"type"`
	Name  string   `json:"name"`
	Cards []Card   `json:"cards"`
}

// NewPile creates an empty pile
func NewPile(id PileID, pileType PileType, name string) *Pile {
	return &Pile{
		ID:    id,
		Type:  pileType,
		Name:  name,
		Cards: []Card{},
	}
}

func (p *Pile) Push(card Card) {
	p.Cards = append(p.Cards, card)
}

// PushRun appends cards keeping their order, so the last card becomes the top
func (p *Pile) PushRun(cards []Card) {
	p.Cards = append(p.Cards, cards...)
}

func (p *Pile) TopCard() (Card, bool) {
	if p == nil || len(p.Cards) == 0 {
		return Card{}, false
	}
	return p.Cards[len(p.Cards)-1], true
}

func (p *Pile) RemoveTop() (Card, bool) {
	card, ok := p.TopCard()
	if !ok {
		return Card{}, false
	}
	p.Cards = p.Cards[:len(p.Cards)-1]
	return card, true
}

func (p *Pile) IsEmpty() bool { return p == nil || len(p.Cards) == 0 }

func (p *Pile) Size() int {
	if p == nil {
		return 0
	}
	return len(p.Cards)
}

func (p *Pile) Clear() {
	p.Cards = []Card{}
}

// IndexOf returns the position of the card in the pile, or -1
func (p *Pile) IndexOf(id CardID) int {
	for i, c := range p.Cards {
		if c.ID() == id {
			return i
		}
	}
	return -1
}

// RunFrom returns a copy of the cards from index i to the top
func (p *Pile) RunFrom(i int) []Card {
	if i < 0 || i >= len(p.Cards) {
		return nil
	}
	run := make([]Card, len(p.Cards)-i)
	copy(run, p.Cards[i:])
	return run
}

// TakeFrom removes and returns the cards from index i to the top
func (p *Pile) TakeFrom(i int) []Card {
	run := p.RunFrom(i)
	if run == nil {
		return nil
	}
	p.Cards = p.Cards[:i]
	return run
}

// FlipTop turns a face-down top card face up and reports whether it did
func (p *Pile) FlipTop() (Card, bool) {
	if p.IsEmpty() {
		return Card{}, false
	}
	top := &p.Cards[len(p.Cards)-1]
	if !top.FaceDown {
		return Card{}, false
	}
	top.Flip()
	return *top, true
}

// FaceUpCount returns how many cards in the pile are face up
func (p *Pile) FaceUpCount() int {
	n := 0
	for _, c := range p.Cards {
		if !c.FaceDown {
			n++
		}
	}
	return n
}

func (p *Pile) String() string {
	return fmt.Sprintf("%s(%d)", p.ID, p.Size())
}
