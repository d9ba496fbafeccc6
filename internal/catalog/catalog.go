// Package catalog holds the static registry of printable card game variants
// and the closed card enumerations shared by the whole configurator.
package catalog

import "fmt"

// GameType identifies one of the five supported game variants.
type GameType string

// Supported game variants.
const (
	MariasSingle  GameType = "marias-single"
	MariasDouble  GameType = "marias-double"
	PokerStandard GameType = "poker-standard"
	PokerBig      GameType = "poker-big"
	Canasta       GameType = "canasta"
)

// Suit is one of the four standard suits.
type Suit string

// Suits in deck order.
const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Spades   Suit = "spades"
	Clubs    Suit = "clubs"
)

// Rank is a card rank. Joker is only valid for games that include jokers.
type Rank string

// Ranks.
const (
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
	Ace   Rank = "A"
	Joker Rank = "joker"
)

// CardStyle is the customization tier chosen in the wizard.
type CardStyle string

// Customization tiers.
const (
	// BackOnly customizes the shared back; faces stay on stock templates.
	BackOnly CardStyle = "back-only"
	// BackAndFace customizes the back and every playing card face.
	BackAndFace CardStyle = "back-and-face"
	// BackAndFaceFaces customizes the back plus the court card faces only.
	BackAndFaceFaces CardStyle = "back-and-face-faces"
	// CustomGame starts from blank cards with everything editable.
	CustomGame CardStyle = "custom-game"
)

// Dimensions describes the physical card size of a variant.
type Dimensions struct {
	WidthMM  int    `json:"width_mm"`
	HeightMM int    `json:"height_mm"`
	Label    string `json:"label"`
}

// GameVariant is the immutable description of one game product line.
type GameVariant struct {
	ID          GameType   `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ShortCode   string     `json:"short_code"` // used in export archive names
	CardCount   int        `json:"card_count"`
	Dimensions  Dimensions `json:"dimensions"`
	Ranks       []Rank     `json:"ranks"`
	// Packs is the number of identical card packs in one product.
	// Canasta ships two 54-card packs; everything else ships one.
	Packs int `json:"packs"`
	// NeedsJokers reports whether a red and black joker close each pack.
	NeedsJokers bool `json:"needs_jokers"`
}

// Suits returns the four suits in deck order (suit-major iteration order).
func Suits() []Suit {
	return []Suit{Hearts, Diamonds, Spades, Clubs}
}

// IsCourtRank reports whether a rank is a court rank (Jack, Queen or King),
// the ranks eligible for face-swap personalization.
func IsCourtRank(r Rank) bool {
	return r == Jack || r == Queen || r == King
}

var mariasRanks = []Rank{Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

var frenchRanks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

var variants = map[GameType]GameVariant{
	MariasSingle: {
		ID:          MariasSingle,
		Name:        "Mariášové Jednohlavé",
		Description: "Klasické české karty, 32 listů. Ideální na Prší nebo Mariáš.",
		ShortCode:   "M1H",
		CardCount:   32,
		Dimensions:  Dimensions{WidthMM: 56, HeightMM: 89, Label: "56 × 89 mm"},
		Ranks:       mariasRanks,
		Packs:       1,
	},
	MariasDouble: {
		ID:          MariasDouble,
		Name:        "Mariášové Dvouhlavé",
		Description: "Moderní verze mariášek, zrcadlový obraz. Nemusíte karty otáčet.",
		ShortCode:   "M2H",
		CardCount:   32,
		Dimensions:  Dimensions{WidthMM: 56, HeightMM: 89, Label: "56 × 89 mm"},
		Ranks:       mariasRanks,
		Packs:       1,
	},
	PokerStandard: {
		ID:          PokerStandard,
		Name:        "Poker Standard",
		Description: "Francouzské karty, 52 listů + Žolíci. Klasické indexy ve 4 rozích.",
		ShortCode:   "POK",
		CardCount:   54,
		Dimensions:  Dimensions{WidthMM: 63, HeightMM: 88, Label: "63 × 88 mm"},
		Ranks:       frenchRanks,
		Packs:       1,
		NeedsJokers: true,
	},
	PokerBig: {
		ID:          PokerBig,
		Name:        "Poker 4BIG Index",
		Description: "Francouzské karty s obřími indexy. Skvěle čitelné i potmě.",
		ShortCode:   "BIG",
		CardCount:   54,
		Dimensions:  Dimensions{WidthMM: 63, HeightMM: 88, Label: "63 × 88 mm"},
		Ranks:       frenchRanks,
		Packs:       1,
		NeedsJokers: true,
	},
	Canasta: {
		ID:          Canasta,
		Name:        "Canasta / Žolíky",
		Description: "Dva balíčky po 54 kartách. Užší formát pro držení v ruce.",
		ShortCode:   "CAN",
		CardCount:   108,
		Dimensions:  Dimensions{WidthMM: 57, HeightMM: 88, Label: "57 × 88 mm"},
		Ranks:       frenchRanks,
		Packs:       2,
		NeedsJokers: true,
	},
}

// Variant returns the registry entry for a game type. The registry is total
// over the defined game types; any other value is a programming error and
// panics rather than returning a recoverable error.
func Variant(gameType GameType) GameVariant {
	v, ok := variants[gameType]
	if !ok {
		panic(fmt.Sprintf("catalog: unknown game type %q", gameType))
	}
	return v
}

// Variants returns all registry entries in a fixed display order.
func Variants() []GameVariant {
	order := []GameType{MariasSingle, MariasDouble, PokerStandard, PokerBig, Canasta}
	out := make([]GameVariant, 0, len(order))
	for _, id := range order {
		out = append(out, variants[id])
	}
	return out
}

// IsKnown reports whether a game type is registered.
func IsKnown(gameType GameType) bool {
	_, ok := variants[gameType]
	return ok
}

// IsKnownStyle reports whether a card style is one of the closed tiers.
func IsKnownStyle(style CardStyle) bool {
	switch style {
	case BackOnly, BackAndFace, BackAndFaceFaces, CustomGame:
		return true
	}
	return false
}

// IsMarias reports whether a game belongs to the Marias family.
func IsMarias(gameType GameType) bool {
	return gameType == MariasSingle || gameType == MariasDouble
}

// RankLabel returns the display label for a rank within a game. Marias games
// use the Czech court names, French-suited games use letter indexes.
func RankLabel(rank Rank, gameType GameType) string {
	if rank == Joker {
		return "JOKER"
	}
	if IsMarias(gameType) {
		switch rank {
		case Jack:
			return "Spodek"
		case Queen:
			return "Svršek"
		case King:
			return "Král"
		case Ace:
			return "Eso"
		default:
			return string(rank)
		}
	}
	return string(rank)
}
