package employee

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	employeeerrors "github.com/kscudds/Employee/internal/employee/errors"
	"github.com/kscudds/Employee/internal/shared/antiforgery"
	"github.com/kscudds/Employee/internal/shared/apperror"
	"github.com/kscudds/Employee/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	BasePath        = "/employees"
	FlashCookieName = "employee_flash"
)

type Handler struct {
	service Service
	tokens  *antiforgery.Manager
	logger  *zap.Logger
}

// NewHandler builds the HTTP surface. When tokens is nil, form views are
// rendered without an anti-forgery token.
func NewHandler(service Service, tokens *antiforgery.Manager, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, tokens: tokens, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	var storageErr *employeeerrors.StorageError
	if errors.As(err, &storageErr) {
		err = apperror.Wrap(err, apperror.CodeStorageFailure, employeeerrors.MsgStorageUnavailable, http.StatusInternalServerError)
	}
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("employee request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// render writes res: a view payload, a 303 redirect, or a 404.
func (h *Handler) render(c *gin.Context, res Result, err error) {
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	switch res.Kind {
	case ResultNotFound:
		h.writeServiceError(c, employeeerrors.ErrEmployeeNotFound)
	case ResultRedirect:
		if res.ErrorMessage != "" {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(FlashCookieName, res.ErrorMessage, 60, "/", "", false, true)
		}
		c.Redirect(http.StatusSeeOther, redirectLocation(res))
	case ResultView:
		payload := ViewPayload{
			View:         res.View,
			Model:        res.Model,
			Errors:       res.Errors,
			ErrorMessage: res.ErrorMessage,
		}
		if h.tokens != nil && isFormView(res.View) {
			token, err := h.tokens.Issue(c)
			if err != nil {
				h.writeServiceError(c, err)
				return
			}
			payload.AntiForgeryToken = token
		}
		status := http.StatusOK
		if !res.Errors.Valid() {
			status = http.StatusUnprocessableEntity
		}
		response.Success(c, status, payload)
	default:
		h.writeServiceError(c, fmt.Errorf("unknown result kind %d", res.Kind))
	}
}

func isFormView(view string) bool {
	return view == ViewCreate || view == ViewEdit || view == ViewDelete
}

func redirectLocation(res Result) string {
	switch res.RedirectAction {
	case ActionDelete:
		loc := fmt.Sprintf("%s/delete/%d", BasePath, res.RedirectID)
		if res.SaveChangesError {
			loc += "?saveChangesError=true"
		}
		return loc
	default:
		return BasePath
	}
}

// optionalID reads the id from the path, falling back to ?id=.
func optionalID(c *gin.Context) OptionalID {
	raw := c.Param("id")
	if raw == "" {
		raw = c.Query("id")
	}
	return ParseOptionalID(raw)
}

func (h *Handler) Index(c *gin.Context) {
	h.logger.Debug("http list employees")
	res, err := h.service.Index(c.Request.Context())
	if err == nil {
		if msg, cerr := c.Cookie(FlashCookieName); cerr == nil && msg != "" {
			res.ErrorMessage = msg
			c.SetCookie(FlashCookieName, "", -1, "/", "", false, true)
		}
	}
	h.render(c, res, err)
}

func (h *Handler) Details(c *gin.Context) {
	res, err := h.service.Details(c.Request.Context(), optionalID(c))
	h.render(c, res, err)
}

func (h *Handler) CreateForm(c *gin.Context) {
	h.render(c, h.service.CreateForm(c.Request.Context()), nil)
}

func (h *Handler) Create(c *gin.Context) {
	h.logger.Debug("http create employee")

	var form EmployeeForm
	state := apperror.FieldErrors{}
	if err := c.ShouldBind(&form); err != nil {
		fieldErrs := apperror.FieldErrorsFrom(err)
		if fieldErrs == nil {
			h.logger.Warn("http create employee malformed body", zap.Error(err))
			h.writeServiceError(c, employeeerrors.ErrMalformedPayload)
			return
		}
		state.Merge(fieldErrs)
	}

	res, err := h.service.Create(c.Request.Context(), form, state)
	h.render(c, res, err)
}

func (h *Handler) EditForm(c *gin.Context) {
	res, err := h.service.EditForm(c.Request.Context(), optionalID(c))
	h.render(c, res, err)
}

func (h *Handler) EditApply(c *gin.Context) {
	id := optionalID(c)
	h.logger.Debug("http update employee", zap.String("id", c.Param("id")))

	var patch EmployeePatch
	if err := c.ShouldBind(&patch); err != nil {
		h.logger.Warn("http update employee malformed body", zap.Error(err))
		h.writeServiceError(c, employeeerrors.ErrMalformedPayload)
		return
	}

	res, err := h.service.EditApply(c.Request.Context(), id, patch)
	h.render(c, res, err)
}

func (h *Handler) DeleteForm(c *gin.Context) {
	saveChangesError, _ := strconv.ParseBool(c.Query("saveChangesError"))
	res, err := h.service.DeleteForm(c.Request.Context(), optionalID(c), saveChangesError)
	h.render(c, res, err)
}

func (h *Handler) DeleteConfirmed(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil {
		h.writeServiceError(c, employeeerrors.ErrInvalidEmployeeID)
		return
	}
	h.logger.Debug("http delete employee", zap.Uint64("employee_id", id))

	res, err := h.service.DeleteConfirmed(c.Request.Context(), uint(id))
	h.render(c, res, err)
}
