package employee

import (
	"strconv"
	"strings"

	"github.com/kscudds/Employee/internal/shared/apperror"
)

// View names.
const (
	ViewIndex   = "Index"
	ViewDetails = "Details"
	ViewCreate  = "Create"
	ViewEdit    = "Edit"
	ViewDelete  = "Delete"
)

// Redirect targets.
const (
	ActionIndex  = "Index"
	ActionDelete = "Delete"
)

type ResultKind int

const (
	ResultView ResultKind = iota
	ResultRedirect
	ResultNotFound
)

func (k ResultKind) String() string {
	switch k {
	case ResultView:
		return "view"
	case ResultRedirect:
		return "redirect"
	case ResultNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Result is the outcome of a lifecycle operation. View results carry a model
// and optional annotations; redirects name the next action.
type Result struct {
	Kind         ResultKind
	View         string
	Model        any
	Errors       apperror.FieldErrors
	ErrorMessage string

	RedirectAction   string
	RedirectID       uint
	SaveChangesError bool
}

func viewResult(view string, model any) Result {
	return Result{Kind: ResultView, View: view, Model: model}
}

func redirectToIndex() Result {
	return Result{Kind: ResultRedirect, RedirectAction: ActionIndex}
}

func notFound() Result {
	return Result{Kind: ResultNotFound}
}

// OptionalID is an id that may not have been supplied. Missing and
// unparseable ids are both absent.
type OptionalID struct {
	value uint
	set   bool
}

func SomeID(id uint) OptionalID {
	return OptionalID{value: id, set: true}
}

func NoID() OptionalID {
	return OptionalID{}
}

// ParseOptionalID reads a decimal id; anything else is absent.
func ParseOptionalID(raw string) OptionalID {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return NoID()
	}
	n, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return NoID()
	}
	return SomeID(uint(n))
}

func (o OptionalID) Get() (uint, bool) {
	return o.value, o.set
}
