package domain

import "strconv"

const (
	ReactionLike    Choice = "like"
	ReactionLove    Choice = "love"
	ReactionHaha    Choice = "haha"
	ReactionWow     Choice = "wow"
	ReactionDislike Choice = "dislike"
)

// Vocabulary is the closed set of legal choices for a ledger kind.
type Vocabulary interface {
	// Contains reports whether c is a member of the vocabulary.
	Contains(c Choice) bool

	// Rank returns the position of c in the vocabulary order, used to break
	// equal-count ties in histograms. Returns -1 for non-members.
	Rank(c Choice) int

	// Numeric returns the numeric value of c for averaging. The second
	// return is false for non-numeric vocabularies and non-members.
	Numeric(c Choice) (int, bool)
}

type reactionVocabulary struct {
	ordered []Choice
}

// Reactions returns the comment reaction vocabulary.
func Reactions() Vocabulary {
	return &reactionVocabulary{
		ordered: []Choice{ReactionLike, ReactionLove, ReactionHaha, ReactionWow, ReactionDislike},
	}
}

func (v *reactionVocabulary) Contains(c Choice) bool {
	return v.Rank(c) >= 0
}

func (v *reactionVocabulary) Rank(c Choice) int {
	for i, r := range v.ordered {
		if r == c {
			return i
		}
	}
	return -1
}

func (v *reactionVocabulary) Numeric(Choice) (int, bool) {
	return 0, false
}

type ratingVocabulary struct {
	min, max int
}

// Ratings returns the picture rating vocabulary, integers 1 through 5.
func Ratings() Vocabulary {
	return &ratingVocabulary{min: 1, max: 5}
}

// RatingChoice converts a numeric rating to its stored form.
func RatingChoice(value int) Choice {
	return Choice(strconv.Itoa(value))
}

func (v *ratingVocabulary) Contains(c Choice) bool {
	_, ok := v.Numeric(c)
	return ok
}

func (v *ratingVocabulary) Rank(c Choice) int {
	n, ok := v.Numeric(c)
	if !ok {
		return -1
	}
	return n - v.min
}

func (v *ratingVocabulary) Numeric(c Choice) (int, bool) {
	n, err := strconv.Atoi(string(c))
	if err != nil || n < v.min || n > v.max {
		return 0, false
	}
	return n, true
}
