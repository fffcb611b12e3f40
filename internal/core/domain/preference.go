package domain

import "time"

// LedgerKind distinguishes the two preference ledgers sharing the same
// storage. It is part of the composite key, so records from one ledger are
// invisible to the other even when subject ids collide.
type LedgerKind string

const (
	KindCommentReaction LedgerKind = "comment_reaction"
	KindPictureRating   LedgerKind = "picture_rating"
)

// Choice is the value a user picked for a subject: a reaction token such as
// "like", or a rating in its decimal form such as "4".
type Choice string

// PreferenceRecord is one user's current choice on one subject. At most one
// record exists per (subject, user) pair within a ledger.
type PreferenceRecord struct {
	SubjectID int64     `json:"subject_id"`
	UserID    int64     `json:"user_id"`
	Choice    Choice    `json:"choice"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
