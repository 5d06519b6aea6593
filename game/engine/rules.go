package engine

// IsMoveValid reports whether card may be placed on dest.
//
//   - empty tableau: kings only
//   - tableau: opposite colour, one rank below the top card
//   - empty foundation: aces only
//   - foundation: same suit, one rank above the top card
//
// Every other destination, including a nil pile, is illegal.
func IsMoveValid(card Card, dest *Pile) bool {
	if dest == nil || !card.Valid() {
		return false
	}

	top, hasTop := dest.TopCard()
	switch dest.Type {
	case TableauPile:
		if !hasTop {
			return card.Rank == King
		}
		return IsOppositeColor(card, top) && top.Rank == card.Rank+1
	case FoundationPile:
		if !hasTop {
			return card.Rank == Ace
		}
		return card.Suit == top.Suit && card.Rank == top.Rank+1
	default:
		return false
	}
}

// IsRunValid checks a proposed run of cards against dest before anything is
// moved. run[0] is the bottom-most card and is the one judged by IsMoveValid;
// the rest ride along. Runs of more than one card only go to tableaus.
func IsRunValid(run []Card, dest *Pile) bool {
	if len(run) == 0 || dest == nil {
		return false
	}
	for _, c := range run {
		if c.FaceDown {
			return false
		}
	}
	if len(run) > 1 && dest.Type != TableauPile {
		return false
	}
	return IsMoveValid(run[0], dest)
}

// MovableRun returns the cards lifted when the given card is picked up from
// pile: the top card of a discard or foundation pile, or a face-up card and
// everything above it on a tableau. Stock cards are never picked up.
func MovableRun(pile *Pile, id CardID) ([]Card, bool) {
	if pile == nil {
		return nil, false
	}
	idx := pile.IndexOf(id)
	if idx < 0 || pile.Cards[idx].FaceDown {
		return nil, false
	}

	switch pile.Type {
	case DiscardPile, FoundationPile:
		if idx != pile.Size()-1 {
			return nil, false
		}
		return pile.RunFrom(idx), true
	case TableauPile:
		return pile.RunFrom(idx), true
	default:
		return nil, false
	}
}
