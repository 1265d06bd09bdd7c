package employee

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	employeeerrors "github.com/kscudds/Employee/internal/employee/errors"
	"github.com/kscudds/Employee/internal/events"
	"github.com/kscudds/Employee/internal/shared/apperror"
	"github.com/kscudds/Employee/internal/shared/contextutil"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	EmployeeListKey    = "employees:all"
	EmployeeListGenKey = "employees:gen"
	employeeListTTL    = 30 * time.Minute
	listLoadTimeout    = 10 * time.Second
)

// Service is the employee lifecycle controller. It holds no state between
// calls. A returned error is fatal for the request; every recoverable outcome
// (not found, validation, storage failure) is expressed as a Result.
type Service interface {
	Index(ctx context.Context) (Result, error)
	Details(ctx context.Context, id OptionalID) (Result, error)
	CreateForm(ctx context.Context) Result
	Create(ctx context.Context, form EmployeeForm, state apperror.FieldErrors) (Result, error)
	EditForm(ctx context.Context, id OptionalID) (Result, error)
	EditApply(ctx context.Context, id OptionalID, patch EmployeePatch) (Result, error)
	DeleteForm(ctx context.Context, id OptionalID, saveChangesError bool) (Result, error)
	DeleteConfirmed(ctx context.Context, id uint) (Result, error)
}

type service struct {
	repo      Repository
	rdb       *redis.Client
	publisher EventPublisher
	sf        *singleflight.Group
	gen       atomic.Uint64
	logger    *zap.Logger
}

// NewService wires the controller. rdb and publisher are optional: without
// Redis the list is always read from the store, without a publisher no
// events are emitted.
func NewService(repo Repository, rdb *redis.Client, publisher EventPublisher, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	if publisher == nil {
		publisher = NewNoopEventPublisher()
	}
	return &service{
		repo:      repo,
		rdb:       rdb,
		publisher: publisher,
		sf:        &singleflight.Group{},
		logger:    l,
	}
}

func (s *service) Index(ctx context.Context) (Result, error) {
	s.logger.Debug("list employees requested", zap.String("request_id", contextutil.GetRequestID(ctx)))

	emps, err := s.listEmployees(ctx)
	if err != nil {
		s.logger.Error("list employees failed", zap.Error(err))
		return Result{}, err
	}
	return viewResult(ViewIndex, emps), nil
}

// listEmployees serves the list from the cache slot of the current
// generation. Every committed write bumps the generation, so a read that
// starts after a write never joins or fills a slot loaded before it.
func (s *service) listEmployees(ctx context.Context) ([]EmployeeResponse, error) {
	cacheKey := ""
	gen := s.gen.Load()
	if s.rdb != nil {
		remote, err := s.rdb.Get(ctx, EmployeeListGenKey).Uint64()
		switch {
		case err == nil || errors.Is(err, redis.Nil):
			cacheKey = fmt.Sprintf("%s:%d", EmployeeListKey, remote)
			if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
				var resp []EmployeeResponse
				if json.Unmarshal([]byte(cached), &resp) == nil {
					return resp, nil
				}
			}
		default:
			s.logger.Warn("read employee list generation failed", zap.Error(err))
		}
	}

	ch := s.sf.DoChan(fmt.Sprintf("%s|%d", cacheKey, gen), func() (interface{}, error) {
		// callers joining this load must not fail when the first one goes away
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), listLoadTimeout)
		defer cancel()
		return s.loadList(loadCtx, cacheKey)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]EmployeeResponse), nil
	}
}

func (s *service) loadList(ctx context.Context, cacheKey string) ([]EmployeeResponse, error) {
	emps, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, mapRepositoryError("list", err)
	}

	resp := mapToListResponse(emps)
	if cacheKey != "" {
		if jsonData, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, jsonData, employeeListTTL).Err(); err != nil {
				s.logger.Warn("cache employee list failed", zap.Error(err))
			}
		}
	}
	return resp, nil
}

func (s *service) Details(ctx context.Context, id OptionalID) (Result, error) {
	return s.show(ctx, id, ViewDetails)
}

func (s *service) EditForm(ctx context.Context, id OptionalID) (Result, error) {
	return s.show(ctx, id, ViewEdit)
}

// show renders view with the record addressed by id, or NotFound.
func (s *service) show(ctx context.Context, id OptionalID, view string) (Result, error) {
	rawID, ok := id.Get()
	if !ok {
		s.logger.Debug("employee id not supplied", zap.String("view", view))
		return notFound(), nil
	}

	empl, found, err := s.repo.FindByID(ctx, rawID)
	if err != nil {
		err = mapRepositoryError("find", err)
		s.logger.Error("get employee by id failed", zap.Uint("employee_id", rawID), zap.Error(err))
		return Result{}, err
	}
	if !found {
		return notFound(), nil
	}
	return viewResult(view, mapToResponse(empl)), nil
}

func (s *service) CreateForm(ctx context.Context) Result {
	return viewResult(ViewCreate, EmployeeForm{})
}

func (s *service) Create(ctx context.Context, form EmployeeForm, state apperror.FieldErrors) (Result, error) {
	rid := contextutil.GetRequestID(ctx)
	form.Normalize()

	errs := apperror.FieldErrors{}
	errs.Merge(state)
	errs.Merge(form.Validate())
	if !errs.Valid() {
		s.logger.Info("create employee rejected by validation",
			zap.String("request_id", rid),
			zap.Strings("fields", errs.Fields()),
		)
		return Result{Kind: ResultView, View: ViewCreate, Model: form, Errors: errs}, nil
	}

	empl := &Employee{
		LastName:  form.LastName,
		FirstName: form.FirstName,
	}
	if err := s.repo.Insert(ctx, empl); err != nil {
		err = mapRepositoryError("insert", err)
		s.logger.Error("create employee persist failed", zap.String("request_id", rid), zap.Error(err))
		errs.Add(apperror.GlobalField, employeeerrors.MsgUnableToSave)
		return Result{Kind: ResultView, View: ViewCreate, Model: form, Errors: errs}, nil
	}

	s.invalidateList(ctx)
	s.publish(ctx, events.EmployeeCreated, *empl)
	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.Uint("employee_id", empl.ID),
	)
	return redirectToIndex(), nil
}

// EditApply binds the supplied fields onto a local copy of the stored record,
// validates the copy, and only then writes. A storage failure redirects to the
// list with a flash message instead of re-rendering the form.
func (s *service) EditApply(ctx context.Context, id OptionalID, patch EmployeePatch) (Result, error) {
	rid := contextutil.GetRequestID(ctx)
	rawID, ok := id.Get()
	if !ok {
		return notFound(), nil
	}

	empl, found, err := s.repo.FindByID(ctx, rawID)
	if err != nil {
		err = mapRepositoryError("find", err)
		s.logger.Error("update employee fetch existing failed", zap.String("request_id", rid), zap.Error(err))
		return Result{}, err
	}
	if !found {
		return notFound(), nil
	}

	errs := apperror.FieldErrors{}
	if patch.IsEmpty() {
		errs.Add(apperror.GlobalField, employeeerrors.MsgNoFields)
	} else {
		patch.ApplyTo(&empl)
		errs.Merge(EmployeeForm{LastName: empl.LastName, FirstName: empl.FirstName}.Validate())
	}
	if !errs.Valid() {
		s.logger.Info("update employee rejected by validation",
			zap.String("request_id", rid),
			zap.Uint("employee_id", rawID),
			zap.Strings("fields", errs.Fields()),
		)
		return Result{Kind: ResultView, View: ViewEdit, Model: mapToResponse(empl), Errors: errs}, nil
	}

	updated, found, err := s.repo.Update(ctx, rawID, patch)
	if err != nil {
		err = mapRepositoryError("update", err)
		s.logger.Error("update employee persist failed", zap.String("request_id", rid), zap.Error(err))
		res := redirectToIndex()
		res.ErrorMessage = employeeerrors.MsgUnableToSave
		return res, nil
	}
	if !found {
		s.logger.Warn("update employee target vanished", zap.Uint("employee_id", rawID))
		return notFound(), nil
	}

	s.invalidateList(ctx)
	s.publish(ctx, events.EmployeeUpdated, updated)
	s.logger.Info("update employee success", zap.String("request_id", rid), zap.Uint("employee_id", rawID))
	return redirectToIndex(), nil
}

func (s *service) DeleteForm(ctx context.Context, id OptionalID, saveChangesError bool) (Result, error) {
	res, err := s.show(ctx, id, ViewDelete)
	if err != nil || res.Kind != ResultView {
		return res, err
	}
	if saveChangesError {
		res.ErrorMessage = employeeerrors.MsgDeleteFailed
	}
	return res, nil
}

// DeleteConfirmed removes the record. A record that is already gone is a
// no-op; a storage failure sends the caller back to the confirmation view.
func (s *service) DeleteConfirmed(ctx context.Context, id uint) (Result, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("delete employee requested", zap.String("request_id", rid), zap.Uint("employee_id", id))

	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return s.deleteFailed(rid, id, mapRepositoryError("exists", err)), nil
	}
	if !exists {
		s.logger.Info("delete employee skipped, record already gone", zap.Uint("employee_id", id))
		return redirectToIndex(), nil
	}

	removed, err := s.repo.Remove(ctx, id)
	if err != nil {
		return s.deleteFailed(rid, id, mapRepositoryError("remove", err)), nil
	}
	if !removed {
		s.logger.Info("delete employee lost race with concurrent delete", zap.Uint("employee_id", id))
		return redirectToIndex(), nil
	}

	s.invalidateList(ctx)
	s.publish(ctx, events.EmployeeDeleted, Employee{ID: id})
	s.logger.Info("delete employee success", zap.String("request_id", rid), zap.Uint("employee_id", id))
	return redirectToIndex(), nil
}

func (s *service) deleteFailed(rid string, id uint, err error) Result {
	s.logger.Error("delete employee failed",
		zap.String("request_id", rid),
		zap.Uint("employee_id", id),
		zap.Error(err),
	)
	return Result{
		Kind:             ResultRedirect,
		RedirectAction:   ActionDelete,
		RedirectID:       id,
		SaveChangesError: true,
	}
}

// invalidateList moves readers to a new list generation. It runs after the
// write has committed.
func (s *service) invalidateList(ctx context.Context) {
	s.gen.Add(1)
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Incr(ctx, EmployeeListGenKey).Err(); err != nil {
		s.logger.Error("failed to bump employee list generation",
			zap.Error(err),
			zap.String("key", EmployeeListGenKey),
		)
	}
}

// publish emits a lifecycle event. The write has already committed, so a
// failure is logged and does not change the outcome.
func (s *service) publish(ctx context.Context, eventType string, empl Employee) {
	event := events.EmployeeChangedEvent{
		EventType:  eventType,
		RequestID:  contextutil.GetRequestID(ctx),
		EmployeeID: empl.ID,
		LastName:   empl.LastName,
		FirstName:  empl.FirstName,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishEmployeeChanged(ctx, event); err != nil {
		s.logger.Error("publish employee event failed",
			zap.String("event_type", eventType),
			zap.Uint("employee_id", empl.ID),
			zap.Error(err),
		)
	}
}
