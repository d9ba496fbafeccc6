// Package assets encodes the print vendor's historical file naming schemes
// for pre-rendered template images. The numbering is a compatibility shim:
// it must reproduce the existing remote asset names byte for byte, legacy
// quirks included, so nothing here may be "cleaned up" without updating the
// fixture tests first.
package assets

import (
	"fmt"

	"github.com/mycardscz/mycards-server/internal/catalog"
)

// Czech suit names used by the Marias asset sets. Spades are labelled
// "zelene" (green) in this product line.
var mariasSuitNames = map[catalog.Suit]string{
	catalog.Diamonds: "kule",
	catalog.Hearts:   "srdce",
	catalog.Spades:   "zelene",
	catalog.Clubs:    "zaludy",
}

// Marias suit index blocks. Each suit owns a fixed block of 8 indices.
var mariasSuitOffsets = map[catalog.Suit]int{
	catalog.Diamonds: 1,
	catalog.Hearts:   9,
	catalog.Spades:   17,
	catalog.Clubs:    25,
}

// Marias rank order within a suit block, Seven through Ace.
var mariasRankOffsets = map[catalog.Rank]int{
	catalog.Seven: 0,
	catalog.Eight: 1,
	catalog.Nine:  2,
	catalog.Ten:   3,
	catalog.Jack:  4,
	catalog.Queen: 5,
	catalog.King:  6,
	catalog.Ace:   7,
}

// Czech rank names used in Marias asset file names.
var mariasRankNames = map[catalog.Rank]string{
	catalog.Seven: "7",
	catalog.Eight: "8",
	catalog.Nine:  "9",
	catalog.Ten:   "10",
	catalog.Jack:  "spodek",
	catalog.Queen: "svrsek",
	catalog.King:  "kral",
	catalog.Ace:   "eso",
}

// MariasFileName builds the asset file name for a Marias family card.
// The shape is {prefix}_{version}_{index}_{suit}_{rank}.png where the index
// is the suit block offset plus the rank offset, zero-padded to two digits.
func MariasFileName(prefix string, rank catalog.Rank, suit catalog.Suit, version string) (string, error) {
	suitOffset, okSuit := mariasSuitOffsets[suit]
	if !okSuit {
		return "", fmt.Errorf("assets: no marias suit block for %q", suit)
	}
	rankOffset, okRank := mariasRankOffsets[rank]
	if !okRank {
		return "", fmt.Errorf("assets: rank %q not in the marias set", rank)
	}
	index := suitOffset + rankOffset
	return fmt.Sprintf("%s_%s_%02d_%s_%s.png", prefix, version, index, mariasSuitNames[suit], mariasRankNames[rank]), nil
}

// Poker joker indices. The red joker is printed from plate 2, the black one
// from plate 3, regardless of version.
const (
	pokerRedJokerIndex   = 2
	pokerBlackJokerIndex = 3
)

// Face card index blocks per suit for the v1 poker asset set. Offsets within
// a block are Jack=0, Queen=1, King=2. The v1 plates assigned the lower block
// to Spades and the higher one to Clubs; every later asset set swapped the
// two, so the Spades and Clubs blocks trade places for non-v1 versions.
var pokerFaceBlocksV1 = map[catalog.Suit]int{
	catalog.Hearts:   2,
	catalog.Diamonds: 5,
	catalog.Spades:   8,
	catalog.Clubs:    11,
}

var pokerFaceRankOffsets = map[catalog.Rank]int{
	catalog.Jack:  0,
	catalog.Queen: 1,
	catalog.King:  2,
}

// Ace plate indices for the v1 set; Spades/Clubs swap in later versions
// together with the face blocks.
var pokerAceIndicesV1 = map[catalog.Suit]int{
	catalog.Hearts:   14,
	catalog.Diamonds: 15,
	catalog.Spades:   16,
	catalog.Clubs:    17,
}

// Numeric card base offsets; a numeric card's index is base minus its pip
// value, so higher ranks land on lower plate numbers within the suit run.
var pokerNumericBases = map[catalog.Suit]int{
	catalog.Hearts:   28,
	catalog.Diamonds: 40,
	catalog.Spades:   52,
	catalog.Clubs:    64,
}

var pokerSuitNames = map[catalog.Suit]string{
	catalog.Hearts:   "hearts",
	catalog.Diamonds: "diamonds",
	catalog.Spades:   "spades",
	catalog.Clubs:    "clubs",
}

var pokerRankNames = map[catalog.Rank]string{
	catalog.Two: "2", catalog.Three: "3", catalog.Four: "4", catalog.Five: "5",
	catalog.Six: "6", catalog.Seven: "7", catalog.Eight: "8", catalog.Nine: "9",
	catalog.Ten: "10", catalog.Jack: "jack", catalog.Queen: "queen",
	catalog.King: "king", catalog.Ace: "ace",
}

var pokerNumericValues = map[catalog.Rank]int{
	catalog.Two: 2, catalog.Three: 3, catalog.Four: 4, catalog.Five: 5,
	catalog.Six: 6, catalog.Seven: 7, catalog.Eight: 8, catalog.Nine: 9,
	catalog.Ten: 10,
}

// swapSpadesClubs mirrors the Spades/Clubs plate swap between the v1 asset
// set and every later one.
func swapSpadesClubs(suit catalog.Suit, version string) catalog.Suit {
	if version == "v1" {
		return suit
	}
	switch suit {
	case catalog.Spades:
		return catalog.Clubs
	case catalog.Clubs:
		return catalog.Spades
	}
	return suit
}

// PokerCardIndex computes the plate index for a poker family card.
func PokerCardIndex(rank catalog.Rank, suit catalog.Suit, version string) (int, error) {
	if rank == catalog.Joker {
		switch suit {
		case catalog.Hearts:
			return pokerRedJokerIndex, nil
		case catalog.Spades:
			return pokerBlackJokerIndex, nil
		default:
			return 0, fmt.Errorf("assets: no joker plate for suit %q", suit)
		}
	}
	if offset, okFace := pokerFaceRankOffsets[rank]; okFace {
		return pokerFaceBlocksV1[swapSpadesClubs(suit, version)] + offset, nil
	}
	if rank == catalog.Ace {
		return pokerAceIndicesV1[swapSpadesClubs(suit, version)], nil
	}
	value, okNumeric := pokerNumericValues[rank]
	if !okNumeric {
		return 0, fmt.Errorf("assets: rank %q not in the poker set", rank)
	}
	return pokerNumericBases[suit] - value, nil
}

// PokerFileName builds the asset file name for a poker family card. Jokers
// use a short shape without suit or rank names; everything else follows
// {prefix}_{version}_{index}_{suit}_{rank}.png.
func PokerFileName(prefix string, rank catalog.Rank, suit catalog.Suit, version string) (string, error) {
	index, err := PokerCardIndex(rank, suit, version)
	if err != nil {
		return "", err
	}
	if rank == catalog.Joker {
		return fmt.Sprintf("%s_%s_%02d_joker.png", prefix, version, index), nil
	}
	return fmt.Sprintf("%s_%s_%02d_%s_%s.png", prefix, version, index, pokerSuitNames[suit], pokerRankNames[rank]), nil
}
