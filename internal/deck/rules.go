package deck

import (
	"github.com/mycardscz/mycards-server/internal/assets"
	"github.com/mycardscz/mycards-server/internal/catalog"
)

// codecKind selects which legacy file naming scheme a game family uses.
type codecKind int

const (
	codecNone codecKind = iota
	codecMarias
	codecPoker
)

// styleRule is one row of the lock/template decision table. The resolver
// evaluates rules uniformly; all per-game, per-style special casing lives in
// the table itself.
type styleRule struct {
	// locked decides whether a card stays on its template.
	locked func(rank catalog.Rank, suit catalog.Suit) bool
	// version names the template asset set the rule draws from.
	version string
	// codec picks the file naming scheme; codecNone locks without a URL.
	codec codecKind
	// prefix is the file name prefix of the game's asset set.
	prefix string
	// dir is the path segment under the asset base URL.
	dir string
}

func lockAll(catalog.Rank, catalog.Suit) bool { return true }

// lockLowMarias locks Seven through Ten, the ranks without unique face art
// in the single-headed Marias line.
func lockLowMarias(rank catalog.Rank, _ catalog.Suit) bool {
	switch rank {
	case catalog.Seven, catalog.Eight, catalog.Nine, catalog.Ten:
		return true
	}
	return false
}

// lockMariasSingleFaceGaps mirrors the asset availability gaps of the
// single-headed v2 set: Diamonds lack 8/9/10, the other suits also lack the
// Seven.
func lockMariasSingleFaceGaps(rank catalog.Rank, suit catalog.Suit) bool {
	switch rank {
	case catalog.Eight, catalog.Nine, catalog.Ten:
		return true
	case catalog.Seven:
		return suit != catalog.Diamonds
	}
	return false
}

// lockNonCourt locks everything except the court ranks and jokers, the only
// cards that receive face-swap personalization.
func lockNonCourt(rank catalog.Rank, _ catalog.Suit) bool {
	return !catalog.IsCourtRank(rank) && rank != catalog.Joker
}

type ruleKey struct {
	game  catalog.GameType
	style catalog.CardStyle
}

// ruleTable maps (game, style) to its lock/template rule. CustomGame has no
// rows: every card falls through to fully editable with no template. A
// missing row for any other combination falls through the same way.
var ruleTable = map[ruleKey]styleRule{
	// RUB: faces stay on the stock v1 template sets.
	{catalog.MariasSingle, catalog.BackOnly}:  {locked: lockLowMarias, version: "v1", codec: codecMarias, prefix: "m1h", dir: "m1h/rub"},
	{catalog.MariasDouble, catalog.BackOnly}:  {locked: lockAll, version: "v1", codec: codecMarias, prefix: "m2h", dir: "m2h/rub"},
	{catalog.PokerStandard, catalog.BackOnly}: {locked: lockAll, version: "v1", codec: codecPoker, prefix: "pok", dir: "pok/rub"},
	{catalog.PokerBig, catalog.BackOnly}:      {locked: lockAll, version: "v1", codec: codecPoker, prefix: "big", dir: "big/rub"},

	// RUB + LICE: everything editable except the single-headed Marias
	// carve-out, which keeps v2 templates where the set has no face art.
	{catalog.MariasSingle, catalog.BackAndFace}: {locked: lockMariasSingleFaceGaps, version: "v2", codec: codecMarias, prefix: "m1h", dir: "m1h/lice"},

	// RUB + OBLICEJE: only court cards and jokers are editable.
	{catalog.MariasSingle, catalog.BackAndFaceFaces}:  {locked: lockNonCourt, version: "v3", codec: codecMarias, prefix: "m1h", dir: "m1h/obliceje"},
	{catalog.MariasDouble, catalog.BackAndFaceFaces}:  {locked: lockNonCourt, version: "v1", codec: codecMarias, prefix: "m2h", dir: "m2h/obliceje"},
	{catalog.PokerStandard, catalog.BackAndFaceFaces}: {locked: lockNonCourt, version: "v3", codec: codecPoker, prefix: "pok", dir: "pok/obliceje"},
	{catalog.PokerBig, catalog.BackAndFaceFaces}:      {locked: lockNonCourt, version: "v3", codec: codecPoker, prefix: "big", dir: "big/obliceje"},
	// Canasta has no template asset family; its non-court cards still lock
	// under the faces style but carry no template URL.
	{catalog.Canasta, catalog.BackAndFaceFaces}: {locked: lockNonCourt, codec: codecNone},
}

// ruleFor looks up the decision table row for a game/style pair.
func ruleFor(game catalog.GameType, style catalog.CardStyle) (styleRule, bool) {
	rule, ok := ruleTable[ruleKey{game: game, style: style}]
	return rule, ok
}

// fileName runs the rule's codec for one card.
func (r styleRule) fileName(rank catalog.Rank, suit catalog.Suit) (string, error) {
	switch r.codec {
	case codecMarias:
		return assets.MariasFileName(r.prefix, rank, suit, r.version)
	case codecPoker:
		return assets.PokerFileName(r.prefix, rank, suit, r.version)
	default:
		return "", nil
	}
}
