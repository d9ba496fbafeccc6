// Package deck builds the full ordered card list for a game/style selection
// and owns the wizard-facing card configuration types.
package deck

import "github.com/mycardscz/mycards-server/internal/catalog"

// Transform bounds enforced on card and back image placement.
const (
	MinImageScale = 1.0
	MaxImageScale = 3.0
	MinImageShift = -50
	MaxImageShift = 50
	// MaxCaptionLen caps the free-text caption on cards and backs.
	MaxCaptionLen = 20
)

// defaultBorderColor is the gold border applied to fresh cards and backs.
const defaultBorderColor = "#D4AF37"

// CardConfig is the configuration of one physical card in a deck.
//
// TemplateImage is assigned once when the deck is resolved and is never
// recomputed for a given card identity; when IsLocked is set the card is
// template-sourced and its custom fields must not be edited.
type CardConfig struct {
	ID       string           `json:"id"`
	Suit     catalog.Suit     `json:"suit"`
	Rank     catalog.Rank     `json:"rank"`
	GameType catalog.GameType `json:"gameType"`

	CustomImage   string `json:"customImage,omitempty"`
	TemplateImage string `json:"templateImage,omitempty"`
	CustomText    string `json:"customText"`

	ImageScale float64 `json:"imageScale"`
	ImageX     int     `json:"imageX"`
	ImageY     int     `json:"imageY"`

	BorderColor         string `json:"borderColor"`
	IsBackgroundRemoved bool   `json:"isBackgroundRemoved"`
	IsLocked            bool   `json:"isLocked"`
}

// BackConfig is the single shared design applied to the reverse side of
// every card in an order.
type BackConfig struct {
	CustomImage string  `json:"customImage,omitempty"`
	CustomText  string  `json:"customText"`
	BorderColor string  `json:"borderColor"`
	ImageScale  float64 `json:"imageScale"`
	ImageX      int     `json:"imageX"`
	ImageY      int     `json:"imageY"`
	Color       string  `json:"color"`
}

// NewBackConfig returns the default back design.
func NewBackConfig() BackConfig {
	return BackConfig{
		CustomText:  "",
		BorderColor: defaultBorderColor,
		ImageScale:  1,
		Color:       "#0F1623",
	}
}

// ClampScale bounds an image scale to the allowed zoom range.
func ClampScale(scale float64) float64 {
	if scale < MinImageScale {
		return MinImageScale
	}
	if scale > MaxImageScale {
		return MaxImageScale
	}
	return scale
}

// ClampShift bounds an image offset to the allowed positioning range.
func ClampShift(shift int) int {
	if shift < MinImageShift {
		return MinImageShift
	}
	if shift > MaxImageShift {
		return MaxImageShift
	}
	return shift
}

// TruncateCaption cuts a caption to the maximum allowed length.
func TruncateCaption(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxCaptionLen {
		return text
	}
	return string(runes[:MaxCaptionLen])
}
