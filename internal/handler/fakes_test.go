package handler

import (
	"context"

	"github.com/google/uuid"
	"staffing_bridge/internal/domain"
	"staffing_bridge/internal/service"
	"staffing_bridge/internal/slack"
)

type fakeClaimService struct {
	claimFn   func(ctx context.Context, requestID uuid.UUID, operator service.Operator, responseURL string) (*service.ClaimResult, error)
	advanceFn func(ctx context.Context, requestID uuid.UUID, operator service.Operator, responseURL string) (*service.ClaimResult, error)

	claimCalls   int
	advanceCalls int
}

func (f *fakeClaimService) Claim(ctx context.Context, requestID uuid.UUID, operator service.Operator, responseURL string) (*service.ClaimResult, error) {
	f.claimCalls++
	if f.claimFn != nil {
		return f.claimFn(ctx, requestID, operator, responseURL)
	}
	return &service.ClaimResult{Request: &domain.Request{ID: requestID, ClaimStatus: domain.ClaimStatusClaimed}, Won: true}, nil
}

func (f *fakeClaimService) Advance(ctx context.Context, requestID uuid.UUID, operator service.Operator, responseURL string) (*service.ClaimResult, error) {
	f.advanceCalls++
	if f.advanceFn != nil {
		return f.advanceFn(ctx, requestID, operator, responseURL)
	}
	return &service.ClaimResult{Request: &domain.Request{ID: requestID, ClaimStatus: domain.ClaimStatusInProgress}, Won: true}, nil
}

type fakeNotificationService struct {
	resolveFn func(ctx context.Context, operatorID string) string
}

func (f *fakeNotificationService) Render(request *domain.Request) (string, []slack.Block) {
	return "", nil
}

func (f *fakeNotificationService) Dispatch(ctx context.Context, request *domain.Request) error {
	return nil
}

func (f *fakeNotificationService) Redisplay(ctx context.Context, responseURL string, request *domain.Request) error {
	return nil
}

func (f *fakeNotificationService) ResolveDisplayName(ctx context.Context, operatorID string) string {
	if f.resolveFn != nil {
		return f.resolveFn(ctx, operatorID)
	}
	return operatorID
}

type fakeChatService struct {
	postFn func(ctx context.Context, input service.PostMessageInput) (*domain.Message, error)
	listFn func(ctx context.Context, requestID uuid.UUID, afterID int64) ([]*domain.Message, error)
}

func (f *fakeChatService) Post(ctx context.Context, input service.PostMessageInput) (*domain.Message, error) {
	if f.postFn != nil {
		return f.postFn(ctx, input)
	}
	return &domain.Message{RequestID: input.RequestID, Body: input.Text}, nil
}

func (f *fakeChatService) List(ctx context.Context, requestID uuid.UUID, afterID int64) ([]*domain.Message, error) {
	if f.listFn != nil {
		return f.listFn(ctx, requestID, afterID)
	}
	return []*domain.Message{}, nil
}

type fakeIntakeService struct {
	submitFn func(ctx context.Context, submission service.IntakeSubmission) (*service.IntakeResult, error)
	submits  []service.IntakeSubmission
}

func (f *fakeIntakeService) Submit(ctx context.Context, submission service.IntakeSubmission) (*service.IntakeResult, error) {
	f.submits = append(f.submits, submission)
	if f.submitFn != nil {
		return f.submitFn(ctx, submission)
	}
	return &service.IntakeResult{Request: &domain.Request{ID: uuid.New(), ClaimStatus: domain.ClaimStatusOpen}}, nil
}

func (f *fakeIntakeService) MissingFields(submission service.IntakeSubmission) []string {
	var missing []string
	if submission.Organization == "" {
		missing = append(missing, "organization")
	}
	if submission.ContactName == "" {
		missing = append(missing, "contact_name")
	}
	if submission.ContactEmail == "" {
		missing = append(missing, "contact_email")
	}
	return missing
}
