package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"staffing_bridge/internal/domain"
	"staffing_bridge/internal/slack"
)

type fakeRequestRepo struct {
	getByIDFn            func(ctx context.Context, id uuid.UUID) (*domain.Request, error)
	createFn             func(ctx context.Context, request *domain.Request) error
	claimFn              func(ctx context.Context, id uuid.UUID, operatorID, operatorName string, at time.Time) (*domain.Request, bool, error)
	startFn              func(ctx context.Context, id uuid.UUID, operatorID, operatorName string, at time.Time) (*domain.Request, error)
	setNotificationRefFn func(ctx context.Context, id uuid.UUID, channel, ts string) error
	countByStatusFn      func(ctx context.Context) (map[string]int64, error)
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Request, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return &domain.Request{ID: id, ClaimStatus: domain.ClaimStatusOpen}, nil
}

func (f *fakeRequestRepo) Create(ctx context.Context, request *domain.Request) error {
	if f.createFn != nil {
		return f.createFn(ctx, request)
	}
	return nil
}

func (f *fakeRequestRepo) Claim(ctx context.Context, id uuid.UUID, operatorID, operatorName string, at time.Time) (*domain.Request, bool, error) {
	if f.claimFn != nil {
		return f.claimFn(ctx, id, operatorID, operatorName, at)
	}
	return &domain.Request{ID: id, ClaimStatus: domain.ClaimStatusClaimed}, true, nil
}

func (f *fakeRequestRepo) Start(ctx context.Context, id uuid.UUID, operatorID, operatorName string, at time.Time) (*domain.Request, error) {
	if f.startFn != nil {
		return f.startFn(ctx, id, operatorID, operatorName, at)
	}
	return &domain.Request{ID: id, ClaimStatus: domain.ClaimStatusInProgress}, nil
}

func (f *fakeRequestRepo) SetNotificationRef(ctx context.Context, id uuid.UUID, channel, ts string) error {
	if f.setNotificationRefFn != nil {
		return f.setNotificationRefFn(ctx, id, channel, ts)
	}
	return nil
}

func (f *fakeRequestRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	if f.countByStatusFn != nil {
		return f.countByStatusFn(ctx)
	}
	return map[string]int64{}, nil
}

type fakeMessageRepo struct {
	createFn    func(ctx context.Context, message *domain.Message) error
	listAfterFn func(ctx context.Context, requestID uuid.UUID, afterID int64) ([]*domain.Message, error)
	countFn     func(ctx context.Context) (int64, error)
}

func (f *fakeMessageRepo) Create(ctx context.Context, message *domain.Message) error {
	if f.createFn != nil {
		return f.createFn(ctx, message)
	}
	return nil
}

func (f *fakeMessageRepo) List(ctx context.Context, requestID uuid.UUID) ([]*domain.Message, error) {
	return f.ListAfter(ctx, requestID, 0)
}

func (f *fakeMessageRepo) ListAfter(ctx context.Context, requestID uuid.UUID, afterID int64) ([]*domain.Message, error) {
	if f.listAfterFn != nil {
		return f.listAfterFn(ctx, requestID, afterID)
	}
	return []*domain.Message{}, nil
}

func (f *fakeMessageRepo) Count(ctx context.Context) (int64, error) {
	if f.countFn != nil {
		return f.countFn(ctx)
	}
	return 0, nil
}

type fakeAuditRepo struct {
	createLogFn func(ctx context.Context, log *domain.AuditLog) error
	entries     []*domain.AuditLog
}

func (f *fakeAuditRepo) CreateLog(ctx context.Context, entry *domain.AuditLog) error {
	f.entries = append(f.entries, entry)
	if f.createLogFn != nil {
		return f.createLogFn(ctx, entry)
	}
	return nil
}

type fakeRateLimitRepo struct {
	checkLimitFn func(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	incrementFn  func(ctx context.Context, key string, window time.Duration) (int64, error)
	checkCalls   []string
	incrCalls    []string
}

func (f *fakeRateLimitRepo) CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	f.checkCalls = append(f.checkCalls, key)
	if f.checkLimitFn != nil {
		return f.checkLimitFn(ctx, key, limit, window)
	}
	return true, nil
}

func (f *fakeRateLimitRepo) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	f.incrCalls = append(f.incrCalls, key)
	if f.incrementFn != nil {
		return f.incrementFn(ctx, key, window)
	}
	return 1, nil
}

type fakeSlackAPI struct {
	postMessageFn  func(ctx context.Context, channel, fallbackText string, blocks []slack.Block) (string, string, error)
	updateFn       func(ctx context.Context, channel, ts, fallbackText string, blocks []slack.Block) error
	postResponseFn func(ctx context.Context, responseURL, fallbackText string, blocks []slack.Block) error
	userNamesFn    func(ctx context.Context, userID string) (string, string, string, error)

	postCalls     int
	updateCalls   int
	responseCalls int
}

func (f *fakeSlackAPI) PostMessage(ctx context.Context, channel, fallbackText string, blocks []slack.Block) (string, string, error) {
	f.postCalls++
	if f.postMessageFn != nil {
		return f.postMessageFn(ctx, channel, fallbackText, blocks)
	}
	return "C123", "1700000000.000100", nil
}

func (f *fakeSlackAPI) UpdateMessage(ctx context.Context, channel, ts, fallbackText string, blocks []slack.Block) error {
	f.updateCalls++
	if f.updateFn != nil {
		return f.updateFn(ctx, channel, ts, fallbackText, blocks)
	}
	return nil
}

func (f *fakeSlackAPI) PostResponse(ctx context.Context, responseURL, fallbackText string, blocks []slack.Block) error {
	f.responseCalls++
	if f.postResponseFn != nil {
		return f.postResponseFn(ctx, responseURL, fallbackText, blocks)
	}
	return nil
}

func (f *fakeSlackAPI) UserNames(ctx context.Context, userID string) (string, string, string, error) {
	if f.userNamesFn != nil {
		return f.userNamesFn(ctx, userID)
	}
	return "", "", "", nil
}

type fakeNotification struct {
	dispatchFn  func(ctx context.Context, request *domain.Request) error
	redisplayFn func(ctx context.Context, responseURL string, request *domain.Request) error
	resolveFn   func(ctx context.Context, operatorID string) string

	dispatched  []*domain.Request
	redisplayed []*domain.Request
}

func (f *fakeNotification) Render(request *domain.Request) (string, []slack.Block) {
	return request.Organization, nil
}

func (f *fakeNotification) Dispatch(ctx context.Context, request *domain.Request) error {
	f.dispatched = append(f.dispatched, request)
	if f.dispatchFn != nil {
		return f.dispatchFn(ctx, request)
	}
	return nil
}

func (f *fakeNotification) Redisplay(ctx context.Context, responseURL string, request *domain.Request) error {
	f.redisplayed = append(f.redisplayed, request)
	if f.redisplayFn != nil {
		return f.redisplayFn(ctx, responseURL, request)
	}
	return nil
}

func (f *fakeNotification) ResolveDisplayName(ctx context.Context, operatorID string) string {
	if f.resolveFn != nil {
		return f.resolveFn(ctx, operatorID)
	}
	return operatorID
}
