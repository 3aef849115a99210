// Package errors provides coded domain errors for creature operations.
package errors

import "net/http"

// Code identifies a failure on the wire, e.g. "ELF_LOW_MANA".
type Code string

const (
	// CodeUnknown is reported for errors that carry no code.
	CodeUnknown Code = "UNKNOWN"

	// Creature construction
	CodeCreatureEmptyName          Code = "CREATURE_EMPTY_NAME"
	CodeCreatureMissingBirthDate   Code = "CREATURE_MISSING_BIRTH_DATE"
	CodeCreatureBirthDateInFuture  Code = "CREATURE_BIRTH_DATE_IN_FUTURE"
	CodeCreatureInvalidHealth      Code = "CREATURE_INVALID_HEALTH"
	CodeCreatureInvalidKind        Code = "CREATURE_INVALID_KIND"
	CodeCreatureInvalidBirthFormat Code = "CREATURE_INVALID_BIRTH_FORMAT"

	// Stats and resources
	CodeStatOutOfRange       Code = "STAT_OUT_OF_RANGE"
	CodeNegativeAmount       Code = "NEGATIVE_AMOUNT"
	CodeInsufficientResource Code = "INSUFFICIENT_RESOURCE"
	CodeDragonLowFirePower   Code = "DRAGON_LOW_FIRE_POWER"
	CodeElfLowMana           Code = "ELF_LOW_MANA"
	CodeOrcInvalidRage       Code = "ORC_INVALID_RAGE"
	CodeOrcLowRage           Code = "ORC_LOW_RAGE"

	// Actions
	CodeMissingTarget     Code = "MISSING_TARGET"
	CodeActionUnsupported Code = "ACTION_UNSUPPORTED"
	CodeActionInvalid     Code = "ACTION_INVALID"

	// Lookups
	CodeNotFound Code = "NOT_FOUND"
)

// Kind groups codes by how a caller is expected to react.
type Kind string

const (
	KindUnknown              Kind = "unknown"
	KindValidation           Kind = "validation"
	KindInsufficientResource Kind = "insufficient_resource"
	KindRageState            Kind = "rage_state"
	KindNotFound             Kind = "not_found"
)

// Kind returns the group the code belongs to.
func (c Code) Kind() Kind {
	switch c {
	case CodeCreatureEmptyName,
		CodeCreatureMissingBirthDate,
		CodeCreatureBirthDateInFuture,
		CodeCreatureInvalidHealth,
		CodeCreatureInvalidKind,
		CodeCreatureInvalidBirthFormat,
		CodeStatOutOfRange,
		CodeNegativeAmount,
		CodeMissingTarget,
		CodeActionUnsupported,
		CodeActionInvalid:
		return KindValidation
	case CodeInsufficientResource, CodeDragonLowFirePower, CodeElfLowMana:
		return KindInsufficientResource
	case CodeOrcInvalidRage, CodeOrcLowRage:
		return KindRageState
	case CodeNotFound:
		return KindNotFound
	default:
		return KindUnknown
	}
}

// HTTPStatus maps the kind to the status code the HTTP API answers with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindInsufficientResource, KindRageState:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
