package engine

// AllPiles returns every pile: stock, discard, foundations, then tableaus
func (gs *GameState) AllPiles() []*Pile {
	piles := make([]*Pile, 0, 2+len(gs.Foundations)+len(gs.Tableaus))
	piles = append(piles, gs.Stock, gs.Discard)
	piles = append(piles, gs.Foundations...)
	piles = append(piles, gs.Tableaus...)
	return piles
}

// Pile returns the pile with the given id, or nil
func (gs *GameState) Pile(id PileID) *Pile {
	switch id {
	case StockID:
		return gs.Stock
	case DiscardID:
		return gs.Discard
	}
	for _, p := range gs.Foundations {
		if p.ID == id {
			return p
		}
	}
	for _, p := range gs.Tableaus {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Locate answers which pile currently holds the card
func (gs *GameState) Locate(id CardID) (PileID, bool) {
	if gs.locations == nil {
		gs.reindex()
	}
	pid, ok := gs.locations[id]
	return pid, ok
}

// reindex rebuilds the card to pile lookup from the piles
func (gs *GameState) reindex() {
	gs.locations = make(map[CardID]PileID, DeckSize)
	for _, p := range gs.AllPiles() {
		if p == nil {
			continue
		}
		for _, c := range p.Cards {
			gs.locations[c.ID()] = p.ID
		}
	}
}

func (gs *GameState) relocate(cards []Card, to PileID) {
	if gs.locations == nil {
		gs.reindex()
		return
	}
	for _, c := range cards {
		gs.locations[c.ID()] = to
	}
}

// CompletedFoundations counts foundations holding all 13 cards of a suit
func (gs *GameState) CompletedFoundations() int {
	n := 0
	for _, f := range gs.Foundations {
		if f.Size() == CardsPerSuit {
			n++
		}
	}
	return n
}

// FoundationCards counts all cards on the foundations
func (gs *GameState) FoundationCards() int {
	n := 0
	for _, f := range gs.Foundations {
		n += f.Size()
	}
	return n
}

// CountCards counts the cards on the table
func (gs *GameState) CountCards() int {
	n := 0
	for _, p := range gs.AllPiles() {
		n += p.Size()
	}
	return n
}

// FaceDownTableauCards counts the tableau cards still hidden
func (gs *GameState) FaceDownTableauCards() int {
	n := 0
	for _, t := range gs.Tableaus {
		n += t.Size() - t.FaceUpCount()
	}
	return n
}

// Clone returns a deep copy that shares nothing with gs
func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}
	cp := *gs
	cp.Stock = gs.Stock.clone()
	cp.Discard = gs.Discard.clone()
	cp.Foundations = clonePiles(gs.Foundations)
	cp.Tableaus = clonePiles(gs.Tableaus)
	cp.MoveHistory = append([]MoveHistoryEntry(nil), gs.MoveHistory...)
	cp.CurrentMoves = append([]MoveHistoryEntry(nil), gs.CurrentMoves...)
	cp.locations = nil
	return &cp
}

func (p *Pile) clone() *Pile {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Cards = append([]Card{}, p.Cards...)
	return &cp
}

func clonePiles(piles []*Pile) []*Pile {
	out := make([]*Pile, len(piles))
	for i, p := range piles {
		out[i] = p.clone()
	}
	return out
}
