package employee

import (
	"strings"

	"github.com/kscudds/Employee/internal/shared/apperror"

	"github.com/gin-gonic/gin/binding"
)

// EmployeeForm is the create payload. Its fields are the complete allow-list:
// anything else in the request body is never bound.
type EmployeeForm struct {
	LastName  string `json:"last_name" form:"last_name" binding:"required"`
	FirstName string `json:"first_name" form:"first_name" binding:"required"`
}

func (f *EmployeeForm) Normalize() {
	f.LastName = strings.TrimSpace(f.LastName)
	f.FirstName = strings.TrimSpace(f.FirstName)
}

// Validate runs the required-field rules and returns nil when the form is valid.
func (f EmployeeForm) Validate() apperror.FieldErrors {
	f.Normalize()
	if err := binding.Validator.ValidateStruct(&f); err != nil {
		if errs := apperror.FieldErrorsFrom(err); errs != nil {
			return errs
		}
		return apperror.FieldErrors{apperror.GlobalField: err.Error()}
	}
	return nil
}

// EmployeePatch is the edit payload. A nil field was not supplied and keeps
// its stored value.
type EmployeePatch struct {
	LastName  *string `json:"last_name" form:"last_name"`
	FirstName *string `json:"first_name" form:"first_name"`
}

func (p EmployeePatch) IsEmpty() bool {
	return p.LastName == nil && p.FirstName == nil
}

// ApplyTo copies the supplied fields onto e.
func (p EmployeePatch) ApplyTo(e *Employee) {
	if p.LastName != nil {
		e.LastName = strings.TrimSpace(*p.LastName)
	}
	if p.FirstName != nil {
		e.FirstName = strings.TrimSpace(*p.FirstName)
	}
}

// columns returns the column updates for the supplied fields.
func (p EmployeePatch) columns() map[string]any {
	cols := map[string]any{}
	if p.LastName != nil {
		cols["last_name"] = strings.TrimSpace(*p.LastName)
	}
	if p.FirstName != nil {
		cols["first_name"] = strings.TrimSpace(*p.FirstName)
	}
	return cols
}

type EmployeeResponse struct {
	ID        uint   `json:"id"`
	LastName  string `json:"last_name"`
	FirstName string `json:"first_name"`
}

func mapToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:        e.ID,
		LastName:  e.LastName,
		FirstName: e.FirstName,
	}
}

func mapToListResponse(emps []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(emps))
	for i, e := range emps {
		res[i] = mapToResponse(e)
	}
	return res
}

// ViewPayload is the rendered form of a view result.
type ViewPayload struct {
	View             string               `json:"view"`
	Model            any                  `json:"model"`
	Errors           apperror.FieldErrors `json:"errors,omitempty"`
	ErrorMessage     string               `json:"error_message,omitempty"`
	AntiForgeryToken string               `json:"antiforgery_token,omitempty"`
}
