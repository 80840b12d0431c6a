package entity

import "errors"

var (
	// ErrForbidden indicates the actor has no rights on the target entity.
	ErrForbidden = errors.New("action forbidden")
	// ErrInvalidStatus indicates a status literal outside the known enum.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidTransition indicates a status that is never legal for the actor's role.
	ErrInvalidTransition = errors.New("invalid status transition for role")
	// ErrPreconditionFailed indicates a role-legal status whose current-state
	// precondition does not hold.
	ErrPreconditionFailed = errors.New("transition precondition failed")
	// ErrConflict indicates a concurrent modification lost the race.
	ErrConflict = errors.New("conflicting concurrent update")
	// ErrInvalidInput indicates malformed or incomplete input data.
	ErrInvalidInput = errors.New("invalid input data")
	// ErrBanned indicates the account is blocked.
	ErrBanned = errors.New("account is banned")
	// ErrNotVerified indicates the account email was never confirmed.
	ErrNotVerified = errors.New("email is not verified")
	// ErrBadCredentials indicates a failed email/password check.
	ErrBadCredentials = errors.New("bad credentials")
	// ErrBadCode indicates a wrong verification or reset code.
	ErrBadCode = errors.New("wrong verification code")
	// ErrAlreadyReviewed indicates the user already reviewed this listing.
	ErrAlreadyReviewed = errors.New("review already exists for this user and listing")
	// ErrReviewNotAllowed indicates the user has no confirmed booking on the listing.
	ErrReviewNotAllowed = errors.New("review requires a confirmed booking")
	// ErrSelfAction indicates an admin action pointed at the admin's own account.
	ErrSelfAction = errors.New("action cannot target own account")
)
