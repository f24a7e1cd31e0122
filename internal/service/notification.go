package service

import (
	"context"
	"fmt"
	"strings"

	"staffing_bridge/internal/config"
	"staffing_bridge/internal/domain"
	"staffing_bridge/internal/repository"
	"staffing_bridge/internal/slack"
	apperrors "staffing_bridge/pkg/errors"
	"staffing_bridge/pkg/logger"
)

// SlackAPI is the outbound surface of the messaging platform used by the
// notification service; internal/slack.Client implements it.
type SlackAPI interface {
	PostMessage(ctx context.Context, channel, fallbackText string, blocks []slack.Block) (string, string, error)
	UpdateMessage(ctx context.Context, channel, ts, fallbackText string, blocks []slack.Block) error
	PostResponse(ctx context.Context, responseURL, fallbackText string, blocks []slack.Block) error
	UserNames(ctx context.Context, userID string) (displayName, realName, username string, err error)
}

const (
	ActionClaim = "claim_request"
	ActionStart = "start_request"
)

type NotificationService interface {
	// Render builds the notification body for a request snapshot. Pure and
	// deterministic.
	Render(request *domain.Request) (fallbackText string, blocks []slack.Block)
	// Dispatch posts a fresh notification to the ops channel and records
	// the channel/ts pair on the request for later in-place updates.
	Dispatch(ctx context.Context, request *domain.Request) error
	// Redisplay re-renders the notification in place, through responseURL
	// when given, otherwise through the stored channel/ts reference.
	Redisplay(ctx context.Context, responseURL string, request *domain.Request) error
	// ResolveDisplayName maps an operator id to a human-readable name.
	// Never fails; worst case it returns the raw id.
	ResolveDisplayName(ctx context.Context, operatorID string) string
}

type notificationService struct {
	api         SlackAPI
	requestRepo repository.RequestRepository
	cfg         config.SlackConfig
	log         logger.Logger
}

func NewNotificationService(api SlackAPI, requestRepo repository.RequestRepository, cfg config.SlackConfig, log logger.Logger) NotificationService {
	return &notificationService{
		api:         api,
		requestRepo: requestRepo,
		cfg:         cfg,
		log:         log,
	}
}

func (s *notificationService) Render(request *domain.Request) (string, []slack.Block) {
	header := fmt.Sprintf("New staffing request: %s", request.Organization)
	if strings.TrimSpace(request.Timing) != "" {
		header += fmt.Sprintf(" (%s)", request.Timing)
	}

	fields := []*slack.Text{
		slack.Mrkdwn("*Contact:*\n" + orDash(request.ContactName)),
		slack.Mrkdwn("*Email:*\n" + orDash(request.ContactEmail)),
		slack.Mrkdwn("*Phone:*\n" + orDash(request.Phone)),
		slack.Mrkdwn("*Location:*\n" + orDash(request.Location)),
		slack.Mrkdwn("*Timing:*\n" + orDash(request.Timing)),
		slack.Mrkdwn("*Hours:*\n" + orDashInt(request.EstimatedHours)),
	}

	requirements := fmt.Sprintf("*Requested:* %s", headcountLine(request.Headcount))
	if request.Source != "" {
		requirements += fmt.Sprintf(" · via %s", request.Source)
	}

	blocks := []slack.Block{
		{Type: "header", Text: slack.Plain(header)},
		{Type: "section", Fields: fields},
		{Type: "section", Text: slack.Mrkdwn(requirements)},
	}

	if strings.TrimSpace(request.Notes) != "" {
		blocks = append(blocks, slack.Block{
			Type: "section",
			Text: slack.Mrkdwn("*Notes:*\n" + request.Notes),
		})
	}

	switch request.ClaimStatus {
	case domain.ClaimStatusOpen:
		blocks = append(blocks, slack.Block{
			Type: "actions",
			Elements: []interface{}{
				&slack.Button{
					Type:     "button",
					Text:     slack.Plain("Claim"),
					ActionID: ActionClaim,
					Value:    request.ID.String(),
					Style:    "primary",
				},
			},
		})
	case domain.ClaimStatusClaimed:
		blocks = append(blocks,
			slack.Block{Type: "section", Text: slack.Mrkdwn(fmt.Sprintf(":raising_hand: Claimed by *%s*", request.Claimant()))},
			slack.Block{
				Type: "actions",
				Elements: []interface{}{
					&slack.Button{
						Type:     "button",
						Text:     slack.Plain("Start"),
						ActionID: ActionStart,
						Value:    request.ID.String(),
					},
				},
			},
		)
	case domain.ClaimStatusInProgress:
		blocks = append(blocks, slack.Block{
			Type: "section",
			Text: slack.Mrkdwn(fmt.Sprintf(":hourglass_flowing_sand: In progress with *%s*", request.Claimant())),
		})
	}

	blocks = append(blocks, slack.Block{
		Type: "context",
		Elements: []interface{}{
			slack.Mrkdwn(fmt.Sprintf("Operations channel · request %s · claims are first come, first served", request.ID)),
		},
	})

	return header, blocks
}

func (s *notificationService) Dispatch(ctx context.Context, request *domain.Request) error {
	fallback, blocks := s.Render(request)

	channel, ts, err := s.api.PostMessage(ctx, s.cfg.Channel, fallback, blocks)
	if err != nil {
		s.log.Error("Failed to dispatch notification", "error", err, "request_id", request.ID)
		return fmt.Errorf("%w: %v", apperrors.ErrDelivery, err)
	}

	if err := s.requestRepo.SetNotificationRef(ctx, request.ID, channel, ts); err != nil {
		// The notification is out; losing the ref only costs later
		// in-place updates outside a response_url context.
		s.log.Warn("Failed to store notification ref", "error", err, "request_id", request.ID)
	}

	return nil
}

func (s *notificationService) Redisplay(ctx context.Context, responseURL string, request *domain.Request) error {
	fallback, blocks := s.Render(request)

	if responseURL != "" {
		if err := s.api.PostResponse(ctx, responseURL, fallback, blocks); err != nil {
			s.log.Error("Failed to redisplay via response_url", "error", err, "request_id", request.ID)
			return fmt.Errorf("%w: %v", apperrors.ErrDelivery, err)
		}
		return nil
	}

	if request.SlackChannel == nil || request.SlackTS == nil {
		s.log.Warn("No notification ref to redisplay", "request_id", request.ID)
		return fmt.Errorf("%w: no notification reference", apperrors.ErrDelivery)
	}

	if err := s.api.UpdateMessage(ctx, *request.SlackChannel, *request.SlackTS, fallback, blocks); err != nil {
		s.log.Error("Failed to redisplay via chat.update", "error", err, "request_id", request.ID)
		return fmt.Errorf("%w: %v", apperrors.ErrDelivery, err)
	}
	return nil
}

func (s *notificationService) ResolveDisplayName(ctx context.Context, operatorID string) string {
	displayName, realName, username, err := s.api.UserNames(ctx, operatorID)
	if err != nil {
		s.log.Warn("Failed to resolve operator name", "error", err, "operator_id", operatorID)
		return operatorID
	}

	for _, candidate := range []string{displayName, realName, username} {
		if candidate != "" {
			return candidate
		}
	}
	return operatorID
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func orDashInt(value int) string {
	if value <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d", value)
}

func headcountLine(headcount int) string {
	switch {
	case headcount <= 0:
		return "headcount not specified"
	case headcount == 1:
		return "1 guard"
	default:
		return fmt.Sprintf("%d guards", headcount)
	}
}
