package core

// errors.go maps errors to user-facing messages with support codes.
//
// Codes are grouped by category:
//
//	IMP001 - File too large            (tabular.ErrTooLarge)
//	IMP002 - Not a readable table      (tabular.ErrUnreadable)
//	IMP003 - Empty file                (tabular.ErrEmptyFile)
//	IMP004 - Import slots busy         (ErrTooManyImports)
//
//	VAL001 - Featured list invalid     (*featured.ValidationErrors)
//	VAL002 - Profile has invalid costs (featured.ErrInvalidCosts)
//	VAL003 - Invalid cycle breakpoint  (featured.ErrInvalidBreakpoint)
//	VAL004 - Malformed request         (ErrInvalidRequest)
//
//	PRE001 - Preset not found          (preset.ErrNotFound)
//	PRE002 - Preset limit reached      (preset.ErrQuotaExceeded)
//	PRE003 - Preset name in use        (preset.ErrDuplicateName)
//	PRE004 - Preset name missing       (preset.ErrInvalidName)
//
//	CAT001 - Catalog not loaded        (ErrNoCatalog)
//	CAT002 - Catalog empty             (catalog.ErrEmptyCatalog)
//	CAT003 - Catalog fetch failed      (ErrCatalogFetch)
//
//	STO001 - Storage unavailable       ("connection refused", "connection reset")
//	STO002 - Storage timeout           ("timeout", "deadline exceeded")
//
//	ERR000 - Anything else
//
// Sentinels are matched with errors.Is / errors.As first; the string
// patterns only catch driver errors that carry no sentinel.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/costdraft/internal/catalog"
	"github.com/JonMunkholm/costdraft/internal/featured"
	"github.com/JonMunkholm/costdraft/internal/preset"
	"github.com/JonMunkholm/costdraft/internal/tabular"
)

var (
	// ErrNoCatalog is returned before the first catalog fetch succeeds.
	ErrNoCatalog = errors.New("catalog not loaded")
	// ErrCatalogFetch wraps catalog source failures.
	ErrCatalogFetch = errors.New("catalog fetch failed")
	// ErrInvalidRequest marks malformed caller input.
	ErrInvalidRequest = errors.New("invalid request")
)

// UserMessage is the user-facing form of an error.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

type sentinelMessage struct {
	match func(error) bool
	msg   UserMessage
}

func is(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

var sentinelMessages = []sentinelMessage{
	{is(tabular.ErrTooLarge), UserMessage{"File exceeds the maximum import size", "Remove unused rows or split the table", "IMP001"}},
	{is(tabular.ErrUnreadable), UserMessage{"The file is not a readable cost table", "Save the sheet as CSV and try again", "IMP002"}},
	{is(tabular.ErrEmptyFile), UserMessage{"The file is empty", "Download the template and fill it in", "IMP003"}},
	{is(ErrTooManyImports), UserMessage{"Too many imports are running", "Please try again in a few seconds", "IMP004"}},

	{func(err error) bool {
		var v *featured.ValidationErrors
		return errors.As(err, &v)
	}, UserMessage{"Some featured entries are invalid", "Give each highlighted entry a rule or a custom cost", "VAL001"}},
	{is(featured.ErrInvalidCosts), UserMessage{"The cost profile contains invalid values", "Costs must be zero or positive numbers", "VAL002"}},
	{is(featured.ErrInvalidBreakpoint), UserMessage{"The cycle breakpoint is out of range", "Use a whole number between 1 and 100", "VAL003"}},
	{is(ErrInvalidRequest), UserMessage{"The request is malformed", "Check the submitted fields", "VAL004"}},

	{is(preset.ErrNotFound), UserMessage{"Preset not found", "Refresh the preset list", "PRE001"}},
	{is(preset.ErrQuotaExceeded), UserMessage{"You have reached the preset limit", "Delete a preset before saving a new one", "PRE002"}},
	{is(preset.ErrDuplicateName), UserMessage{"A preset with this name already exists", "Choose a different name", "PRE003"}},
	{is(preset.ErrInvalidName), UserMessage{"A preset name is required", "Enter a name for the preset", "PRE004"}},

	{is(ErrNoCatalog), UserMessage{"The catalog is not loaded yet", "Please try again in a few moments", "CAT001"}},
	{is(catalog.ErrEmptyCatalog), UserMessage{"The catalog feed returned no entries", "Check the catalog source", "CAT002"}},
	{is(ErrCatalogFetch), UserMessage{"The catalog could not be fetched", "The previous catalog stays in use; try refreshing later", "CAT003"}},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{"connection refused", UserMessage{"Unable to reach storage", "Please try again in a few moments", "STO001"}},
	{"connection reset", UserMessage{"Storage connection was interrupted", "Please try again", "STO001"}},
	{"timeout", UserMessage{"Operation timed out", "Please try again", "STO002"}},
	{"deadline exceeded", UserMessage{"Operation timed out", "Please try again", "STO002"}},
}

// defaultMessage is returned when nothing matches (ERR000). Check the logs
// for the technical error when users report it.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts err to a user-facing message. Nil maps to the zero value.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if sm.match(err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
