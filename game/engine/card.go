package engine

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Suit is 1..4. Hearts and diamonds are red, clubs and spades are black.
type Suit int

const (
	Hearts Suit = iota + 1
	Diamonds
	Clubs
	Spades
)

// Rank is 1 (ace) through 13 (king)
type Rank int

const (
	Ace   Rank = 1
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
)

// Color of a suit
type Color string

const (
	Red   Color = "red"
	Black Color = "black"
)

var suitNames = [...]string{"", "Hearts", "Diamonds", "Clubs", "Spades"}

var rankNames = [...]string{"", "Ace", "2", "3", "4", "5", "6", "7", "8", "9", "10", "Jack", "Queen", "King"}

func (s Suit) Valid() bool { return s >= Hearts && s <= Spades }

func (s Suit) Color() Color {
	if s == Hearts || s == Diamonds {
		return Red
	}
	return Black
}

func (s Suit) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Suit(%d)", int(s))
	}
	return suitNames[s]
}

func (r Rank) Valid() bool { return r >= Ace && r <= King }

func (r Rank) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Rank(%d)", int(r))
	}
	return rankNames[r]
}

// CardID is the identity of a card. Each of the 52 identities exists once per game.
type CardID struct {
	Suit Suit
	Rank Rank
}

// String returns the short form used on the wire, e.g. "S4R12" for the queen of spades.
func (id CardID) String() string {
	return fmt.Sprintf("S%dR%d", id.Suit, id.Rank)
}

func (id CardID) Valid() bool { return id.Suit.Valid() && id.Rank.Valid() }

// MarshalText lets CardID be used as a JSON string and map key
func (id CardID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *CardID) UnmarshalText(text []byte) error {
	parsed, err := ParseCardID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseCardID parses the "S<suit>R<rank>" form, case-insensitive
func ParseCardID(s string) (CardID, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(v, "S") {
		return CardID{}, fmt.Errorf("invalid card id %q: expected S<suit>R<rank>", s)
	}
	parts := strings.SplitN(v[1:], "R", 2)
	if len(parts) != 2 {
		return CardID{}, fmt.Errorf("invalid card id %q: expected S<suit>R<rank>", s)
	}
	suit, err := strconv.Atoi(parts[0])
	if err != nil {
		return CardID{}, fmt.Errorf("invalid card id %q: bad suit: %w", s, err)
	}
	rank, err := strconv.Atoi(parts[1])
	if err != nil {
		return CardID{}, fmt.Errorf("invalid card id %q: bad rank: %w", s, err)
	}
	id := CardID{Suit: Suit(suit), Rank: Rank(rank)}
	if !id.Valid() {
		return CardID{}, fmt.Errorf("invalid card id %q: suit must be 1-4 and rank 1-13", s)
	}
	return id, nil
}

// Card is a playing card with its orientation
type Card struct {
	Suit     Suit `json:"suit"`
	Rank     Rank `json:"rank"`
	FaceDown bool `json:"face_down"`
}

// NewCard returns a face-down card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank, FaceDown: true}
}

func (c Card) ID() CardID     { return CardID{Suit: c.Suit, Rank: c.Rank} }
func (c Card) Color() Color   { return c.Suit.Color() }
func (c Card) IsRed() bool    { return c.Color() == Red }
func (c Card) Valid() bool    { return c.ID().Valid() }
func (c Card) FaceUp() bool   { return !c.FaceDown }
func (c *Card) Flip()         { c.FaceDown = !c.FaceDown }
func (c Card) String() string { return c.Rank.String() + " of " + c.Suit.String() }

// ShortName returns the wire form of the card identity
func (c Card) ShortName() string { return c.ID().String() }

// MarshalJSON adds the card id and display name to the encoded card
func (c Card) MarshalJSON() ([]byte, error) {
	type card Card
	return json.Marshal(struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		card
	}{
		ID:   c.ShortName(),
		Name: c.String(),
		card: card(c),
	})
}

// IsOppositeColor reports whether one card is red and the other black
func IsOppositeColor(a, b Card) bool {
	return a.Color() != b.Color()
}
