// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies a contract failure.
type Kind uint8

const (
	Unauthorized Kind = iota + 1
	InvalidInput
	PhaseViolation
	InsufficientBalance
	TransferFailed
	BalanceInvariantViolation
	ConfigurationMissing
	Internal
)

var kindNames = map[Kind]string{
	Unauthorized:              "Unauthorized",
	InvalidInput:              "InvalidInput",
	PhaseViolation:            "PhaseViolation",
	InsufficientBalance:       "InsufficientBalance",
	TransferFailed:            "TransferFailed",
	BalanceInvariantViolation: "BalanceInvariantViolation",
	ConfigurationMissing:      "ConfigurationMissing",
	Internal:                  "Internal",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ErrRevert aborts the running invocation. Code is the machine-readable reason.
type ErrRevert struct {
	kind    Kind
	code    string
	message string
}

func New(kind Kind, code, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		code:    code,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

func (e *ErrRevert) Code() string {
	return e.code
}

// Is reports whether target is a revert with the same reason code.
func (e *ErrRevert) Is(target error) bool {
	var t *ErrRevert
	if !errors.As(target, &t) {
		return false
	}
	return t.code == e.code
}

// Withf returns a copy carrying a more specific message.
func (e *ErrRevert) Withf(format string, args ...any) *ErrRevert {
	return &ErrRevert{
		kind:    e.kind,
		code:    e.code,
		message: e.message + ": " + fmt.Sprintf(format, args...),
	}
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the kind of a revert error, or false when err is not a revert.
func KindOf(err error) (Kind, bool) {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind, true
	}
	return 0, false
}

var (
	ErrUnauthorized      = New(Unauthorized, "Unauthorized", "witness check failed")
	ErrInvalidAddress    = New(InvalidInput, "InvalidAddress", "invalid address")
	ErrInvalidAmount     = New(InvalidInput, "InvalidAmount", "invalid amount")
	ErrInvalidLevel      = New(InvalidInput, "InvalidLevel", "allowed level out of range")
	ErrInvalidParam      = New(InvalidInput, "InvalidParam", "invalid parameter")
	ErrAmountOrdering    = New(InvalidInput, "InvalidAmountOrdering", "bad level amount ordering")
	ErrBadContractRef    = New(InvalidInput, "BadContractReference", "unresolvable contract reference")
	ErrBadAsset          = New(InvalidInput, "BadAsset", "asset not accepted")
	ErrDuplicateProject  = New(InvalidInput, "DuplicateProject", "project already registered")
	ErrProjectNotFound   = New(InvalidInput, "ProjectNotFound", "project not found")
	ErrBadSwapAmount     = New(InvalidInput, "BadSwapAmount", "bad swap amount")
	ErrInsufficientStake = New(InsufficientBalance, "InsufficientStake", "insufficient stake")
	ErrNothingToClaim    = New(InsufficientBalance, "NothingToClaim", "nothing to claim")

	ErrAlreadyDeployed    = New(PhaseViolation, "AlreadyDeployed", "already deployed")
	ErrAlreadyReviewed    = New(PhaseViolation, "AlreadyReviewed", "project already reviewed")
	ErrProjectNotReviewed = New(PhaseViolation, "ProjectNotReviewed", "project not reviewed")
	ErrProjectEnded       = New(PhaseViolation, "ProjectEnded", "project ended")
	ErrVoteWindowClosed   = New(PhaseViolation, "VoteWindowClosed", "vote window closed")
	ErrInsufficientTier   = New(PhaseViolation, "InsufficientTier", "stake level below allowed level")
	ErrAlreadyVoted       = New(PhaseViolation, "AlreadyVoted", "already voted")
	ErrRoundNotOpen       = New(PhaseViolation, "RoundNotOpen", "swap round not open")
	ErrRoundClosed        = New(PhaseViolation, "RoundClosed", "swap round closed")
	ErrClaimNotOpen       = New(PhaseViolation, "ClaimNotOpen", "claim not open")
	ErrWeightOverflow     = New(PhaseViolation, "WeightOverflow", "total weight overflow")
	ErrFlagRaised         = New(PhaseViolation, "ReceiveFlagRaised", "receive flag already raised")

	ErrTransferFailed   = New(TransferFailed, "TransferFailed", "transfer failed")
	ErrBalanceInvariant = New(BalanceInvariantViolation, "BalanceInvariantViolation", "balance invariant violated")
	ErrAmountMismatch   = New(BalanceInvariantViolation, "AmountMismatch", "received amount mismatch")

	ErrConfigurationMissing = New(ConfigurationMissing, "ConfigurationMissing", "configuration missing")

	ErrInternal = New(Internal, "Internal", "internal consistency failure")
)
