package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"staffing_bridge/internal/config"
	"staffing_bridge/internal/domain"
	"staffing_bridge/internal/slack"
	apperrors "staffing_bridge/pkg/errors"
	"staffing_bridge/pkg/logger"
)

func newNotificationService(api *fakeSlackAPI, repo *fakeRequestRepo) NotificationService {
	cfg := config.SlackConfig{Channel: "#operations", Timeout: time.Second}
	return NewNotificationService(api, repo, cfg, logger.New("error"))
}

func blocksJSON(t *testing.T, blocks []slack.Block) string {
	t.Helper()
	data, err := json.Marshal(blocks)
	if err != nil {
		t.Fatalf("marshal blocks: %v", err)
	}
	return string(data)
}

func openRequest() *domain.Request {
	return &domain.Request{
		ID:           uuid.New(),
		Organization: "Acme",
		ContactName:  "Jane",
		ContactEmail: "jane@acme.test",
		Headcount:    2,
		ClaimStatus:  domain.ClaimStatusOpen,
		Notes:        "night shift, harbor area",
	}
}

func TestRenderOpenRequest(t *testing.T) {
	svc := newNotificationService(&fakeSlackAPI{}, &fakeRequestRepo{})
	request := openRequest()

	fallback, blocks := svc.Render(request)

	if !strings.Contains(fallback, "Acme") {
		t.Errorf("fallback %q misses organization", fallback)
	}
	rendered := blocksJSON(t, blocks)
	for _, want := range []string{"Acme", "Jane", "jane@acme.test", "2 guards", "night shift", ActionClaim, request.ID.String()} {
		if !strings.Contains(rendered, want) {
			t.Errorf("rendered blocks miss %q", want)
		}
	}
	if strings.Contains(rendered, ActionStart) {
		t.Error("open request must not offer the start action")
	}
}

func TestRenderDeterministic(t *testing.T) {
	svc := newNotificationService(&fakeSlackAPI{}, &fakeRequestRepo{})
	request := openRequest()

	first, firstBlocks := svc.Render(request)
	second, secondBlocks := svc.Render(request)

	if first != second {
		t.Errorf("fallback differs: %q vs %q", first, second)
	}
	if blocksJSON(t, firstBlocks) != blocksJSON(t, secondBlocks) {
		t.Error("blocks differ between renders of the same snapshot")
	}
}

func TestRenderClaimedRequest(t *testing.T) {
	svc := newNotificationService(&fakeSlackAPI{}, &fakeRequestRepo{})
	request := openRequest()
	claimant := "U1"
	name := "Sam"
	request.ClaimStatus = domain.ClaimStatusClaimed
	request.ClaimedByID = &claimant
	request.ClaimedName = &name

	_, blocks := svc.Render(request)
	rendered := blocksJSON(t, blocks)

	if !strings.Contains(rendered, "Sam") {
		t.Error("claimant name missing")
	}
	if strings.Contains(rendered, ActionClaim) {
		t.Error("claimed request must not offer the claim action")
	}
	if !strings.Contains(rendered, ActionStart) {
		t.Error("claimed request must offer the start action")
	}
}

func TestRenderInProgressHasNoActions(t *testing.T) {
	svc := newNotificationService(&fakeSlackAPI{}, &fakeRequestRepo{})
	request := openRequest()
	claimant := "U1"
	request.ClaimStatus = domain.ClaimStatusInProgress
	request.ClaimedByID = &claimant

	_, blocks := svc.Render(request)
	rendered := blocksJSON(t, blocks)

	if strings.Contains(rendered, ActionClaim) || strings.Contains(rendered, ActionStart) {
		t.Error("in-progress request must offer no actions")
	}
}

func TestDispatchStoresNotificationRef(t *testing.T) {
	var gotChannel, gotTS string
	repo := &fakeRequestRepo{
		setNotificationRefFn: func(ctx context.Context, id uuid.UUID, channel, ts string) error {
			gotChannel, gotTS = channel, ts
			return nil
		},
	}
	api := &fakeSlackAPI{}
	svc := newNotificationService(api, repo)

	if err := svc.Dispatch(context.Background(), openRequest()); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if api.postCalls != 1 {
		t.Errorf("post calls = %d", api.postCalls)
	}
	if gotChannel != "C123" || gotTS == "" {
		t.Errorf("stored ref = %q/%q", gotChannel, gotTS)
	}
}

func TestDispatchFailure(t *testing.T) {
	api := &fakeSlackAPI{
		postMessageFn: func(ctx context.Context, channel, fallbackText string, blocks []slack.Block) (string, string, error) {
			return "", "", errors.New("channel_not_found")
		},
	}
	svc := newNotificationService(api, &fakeRequestRepo{})

	err := svc.Dispatch(context.Background(), openRequest())
	if !errors.Is(err, apperrors.ErrDelivery) {
		t.Fatalf("err = %v, want delivery error", err)
	}
}

func TestRedisplayPrefersResponseURL(t *testing.T) {
	api := &fakeSlackAPI{}
	svc := newNotificationService(api, &fakeRequestRepo{})

	if err := svc.Redisplay(context.Background(), "https://hooks.example/resp", openRequest()); err != nil {
		t.Fatalf("Redisplay: %v", err)
	}
	if api.responseCalls != 1 || api.updateCalls != 0 {
		t.Errorf("responseCalls=%d updateCalls=%d", api.responseCalls, api.updateCalls)
	}
}

func TestRedisplayFallsBackToStoredRef(t *testing.T) {
	api := &fakeSlackAPI{}
	svc := newNotificationService(api, &fakeRequestRepo{})

	request := openRequest()
	channel, ts := "C123", "1700000000.000100"
	request.SlackChannel = &channel
	request.SlackTS = &ts

	if err := svc.Redisplay(context.Background(), "", request); err != nil {
		t.Fatalf("Redisplay: %v", err)
	}
	if api.updateCalls != 1 || api.responseCalls != 0 {
		t.Errorf("responseCalls=%d updateCalls=%d", api.responseCalls, api.updateCalls)
	}
}

func TestRedisplayWithoutAnyRef(t *testing.T) {
	svc := newNotificationService(&fakeSlackAPI{}, &fakeRequestRepo{})

	err := svc.Redisplay(context.Background(), "", openRequest())
	if !errors.Is(err, apperrors.ErrDelivery) {
		t.Fatalf("err = %v, want delivery error", err)
	}
}

func TestResolveDisplayNameFallbackChain(t *testing.T) {
	cases := []struct {
		name                            string
		displayName, realName, username string
		err                             error
		want                            string
	}{
		{"display name first", "sam.ops", "Sam Jones", "sjones", nil, "sam.ops"},
		{"real name second", "", "Sam Jones", "sjones", nil, "Sam Jones"},
		{"username third", "", "", "sjones", nil, "sjones"},
		{"raw id last", "", "", "", nil, "U1"},
		{"lookup failure", "", "", "", errors.New("user_not_found"), "U1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeSlackAPI{
				userNamesFn: func(ctx context.Context, userID string) (string, string, string, error) {
					return tc.displayName, tc.realName, tc.username, tc.err
				},
			}
			svc := newNotificationService(api, &fakeRequestRepo{})

			if got := svc.ResolveDisplayName(context.Background(), "U1"); got != tc.want {
				t.Errorf("ResolveDisplayName = %q, want %q", got, tc.want)
			}
		})
	}
}
