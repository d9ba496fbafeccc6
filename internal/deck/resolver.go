package deck

import (
	"fmt"
	"strings"

	"github.com/mycardscz/mycards-server/internal/catalog"
	log "github.com/sirupsen/logrus"
)

// DefaultAssetBase is the production template asset host.
const DefaultAssetBase = "https://assets.mycards.cz/templates"

// Resolver produces the ordered card list for a game/style selection,
// annotating each card with its lock flag and template image URL.
type Resolver struct {
	// AssetBase is the URL prefix template file names are appended to.
	AssetBase string
}

// NewResolver returns a resolver pointing at the given asset host, or the
// production host when empty.
func NewResolver(assetBase string) *Resolver {
	base := strings.TrimRight(strings.TrimSpace(assetBase), "/")
	if base == "" {
		base = DefaultAssetBase
	}
	return &Resolver{AssetBase: base}
}

// Resolve builds the full deck for a game type and customization style.
// The output is deterministic: suit-major Cartesian product of the variant's
// suits and ranks with sequential ids, repeated per pack, plus a red and a
// black joker per pack for games that need them. Lock and template
// resolution runs through the style rule table; combinations without a rule
// fall through to fully editable cards with no template.
func (r *Resolver) Resolve(gameType catalog.GameType, style catalog.CardStyle) []CardConfig {
	variant := catalog.Variant(gameType)
	rule, hasRule := ruleFor(gameType, style)

	cards := make([]CardConfig, 0, variant.CardCount)
	idCounter := 1
	for pack := 0; pack < variant.Packs; pack++ {
		for _, suit := range catalog.Suits() {
			for _, rank := range variant.Ranks {
				card := CardConfig{
					ID:          fmt.Sprintf("card-%d", idCounter),
					Suit:        suit,
					Rank:        rank,
					GameType:    gameType,
					ImageScale:  1,
					BorderColor: defaultBorderColor,
				}
				idCounter++
				r.applyRule(&card, rule, hasRule)
				cards = append(cards, card)
			}
		}
		if variant.NeedsJokers {
			red := CardConfig{
				ID:          fmt.Sprintf("card-joker-red-%d", idCounter),
				Suit:        catalog.Hearts,
				Rank:        catalog.Joker,
				GameType:    gameType,
				ImageScale:  1,
				BorderColor: defaultBorderColor,
			}
			idCounter++
			black := CardConfig{
				ID:          fmt.Sprintf("card-joker-black-%d", idCounter),
				Suit:        catalog.Spades,
				Rank:        catalog.Joker,
				GameType:    gameType,
				ImageScale:  1,
				BorderColor: defaultBorderColor,
			}
			idCounter++
			r.applyRule(&red, rule, hasRule)
			r.applyRule(&black, rule, hasRule)
			cards = append(cards, red, black)
		}
	}
	return cards
}

// applyRule stamps the lock flag and template URL on a freshly built card.
func (r *Resolver) applyRule(card *CardConfig, rule styleRule, hasRule bool) {
	if !hasRule {
		return
	}
	if !rule.locked(card.Rank, card.Suit) {
		return
	}
	card.IsLocked = true
	name, err := rule.fileName(card.Rank, card.Suit)
	if err != nil {
		// A gap in the asset set leaves the card locked without a URL;
		// callers must not rely on a template existing.
		log.WithError(err).Warnf("deck: no template asset for %s %s", card.Rank, card.Suit)
		return
	}
	if name == "" {
		return
	}
	card.TemplateImage = r.AssetBase + "/" + rule.dir + "/" + name
}
