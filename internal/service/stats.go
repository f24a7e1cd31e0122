package service

import (
	"context"

	"staffing_bridge/internal/domain"
	"staffing_bridge/internal/repository"
	"staffing_bridge/pkg/logger"
)

type Stats struct {
	Open       int64 `json:"open"`
	Claimed    int64 `json:"claimed"`
	InProgress int64 `json:"in_progress"`
	Messages   int64 `json:"messages"`
}

type StatsService interface {
	Overview(ctx context.Context) (*Stats, error)
}

type statsService struct {
	requestRepo repository.RequestRepository
	messageRepo repository.MessageRepository
	log         logger.Logger
}

func NewStatsService(requestRepo repository.RequestRepository, messageRepo repository.MessageRepository, log logger.Logger) StatsService {
	return &statsService{
		requestRepo: requestRepo,
		messageRepo: messageRepo,
		log:         log,
	}
}

func (s *statsService) Overview(ctx context.Context) (*Stats, error) {
	counts, err := s.requestRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		Open:       counts[domain.ClaimStatusOpen],
		Claimed:    counts[domain.ClaimStatusClaimed],
		InProgress: counts[domain.ClaimStatusInProgress],
		Messages:   messages,
	}, nil
}
