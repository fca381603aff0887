package state

import "errors"

// ErrorKind buckets ledger failures so the API boundary can map them to
// status codes without string matching.
type ErrorKind uint8

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindAuthorization
	KindState
	KindFunds
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindState:
		return "state"
	case KindFunds:
		return "funds"
	default:
		return "unknown"
	}
}

type LedgerError struct {
	kind ErrorKind
	msg  string
}

func (e *LedgerError) Error() string {
	return e.msg
}

func (e *LedgerError) Kind() ErrorKind {
	return e.kind
}

func newErr(kind ErrorKind, msg string) *LedgerError {
	return &LedgerError{kind: kind, msg: msg}
}

// KindOf classifies any error returned by the state machine.
func KindOf(err error) ErrorKind {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.kind
	}
	return KindUnknown
}

var (
	ErrNotFound = errors.New("not found")

	// validation
	ErrEmptyTitle          = newErr(KindValidation, "title is empty")
	ErrEmptyLocator        = newErr(KindValidation, "content locator is empty")
	ErrNegativeAmount      = newErr(KindValidation, "amount must not be negative")
	ErrInvalidContribution = newErr(KindValidation, "invalid contribution type")
	ErrBelowMinimumStake   = newErr(KindValidation, "cumulative stake below verifier minimum")

	// authorization
	ErrNotAVerifier   = newErr(KindAuthorization, "caller is not a staked verifier")
	ErrTxSigInvalid   = newErr(KindAuthorization, "signature invalid")
	ErrTxNonceInvalid = newErr(KindAuthorization, "nonce invalid")

	// state
	ErrAccountNotFound      = newErr(KindState, "account does not exist")
	ErrDatasetNotFound      = newErr(KindState, "dataset does not exist")
	ErrProposalNotFound     = newErr(KindState, "proposal does not exist")
	ErrDuplicateVote        = newErr(KindState, "verifier already voted on this proposal")
	ErrVotingClosed         = newErr(KindState, "voting window has closed")
	ErrVotingStillOpen      = newErr(KindState, "voting window is still open")
	ErrAlreadyResolved      = newErr(KindState, "proposal already resolved")
	ErrActiveVoteObligation = newErr(KindState, "unresolved votes keep stake locked")

	// funds
	ErrInsufficientFunds = newErr(KindFunds, "insufficient funds")
	ErrNothingToClaim    = newErr(KindFunds, "nothing to claim")
)
