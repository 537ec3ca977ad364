package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"diacare-bot/internal/constant"
	"diacare-bot/internal/dto"
	"diacare-bot/internal/pkg/logger"
	"diacare-bot/pkg/filesearch"
)

// ContentFetcher resolves a transport file reference to its bytes.
type ContentFetcher interface {
	Fetch(ctx context.Context, fileId string) ([]byte, error)
}

// ReplyPusher delivers a message outside the webhook request cycle.
type ReplyPusher interface {
	Push(ctx context.Context, userId, text string) error
}

type IIngestService interface {
	Consume(ctx context.Context) error
}

type ingestService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	manager   *filesearch.Manager
	fetcher   ContentFetcher
	pusher    ReplyPusher
	log       logger.ILogger
}

func NewIngestService(
	pubSub *gochannel.GoChannel,
	topicName string,
	manager *filesearch.Manager,
	fetcher ContentFetcher,
	pusher ReplyPusher,
	log logger.ILogger,
) IIngestService {
	return &ingestService{
		pubSub:    pubSub,
		topicName: topicName,
		manager:   manager,
		fetcher:   fetcher,
		pusher:    pusher,
		log:       log,
	}
}

func (s *ingestService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage runs one document through fetch, upload and poll, then
// pushes the outcome to the user. Every message is acked: the user already
// got a definitive reply, so a broker retry would only duplicate it.
func (s *ingestService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload dto.PublishIngestDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.log.Error(constant.ModuleIngest, "failed to unmarshal ingest message", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	s.log.Info(constant.ModuleIngest, "processing document", map[string]interface{}{
		"user_id":      payload.UserId,
		"file_name":    payload.FileName,
		"logical_name": payload.LogicalName,
	})

	data, err := s.fetcher.Fetch(ctx, payload.FileId)
	if err != nil {
		s.log.Error(constant.ModuleIngest, "failed to fetch document content", map[string]interface{}{
			"file_id": payload.FileId,
			"error":   err.Error(),
		})
		s.push(ctx, payload.UserId, constant.DownloadFailed)
		return
	}

	err = s.manager.Upload(ctx, payload.LogicalName, payload.FileName, data)
	switch {
	case err == nil:
		s.log.Info(constant.ModuleIngest, "document uploaded", map[string]interface{}{
			"file_name":    payload.FileName,
			"logical_name": payload.LogicalName,
		})
		s.push(ctx, payload.UserId, fmt.Sprintf(constant.UploadSuccessTemplate, payload.FileName))

	case errors.Is(err, filesearch.ErrOperationTimedOut):
		// Still processing remotely; a timeout is never reported as failure.
		s.log.Warn(constant.ModuleIngest, "document upload still processing after poll ceiling", map[string]interface{}{
			"file_name":    payload.FileName,
			"logical_name": payload.LogicalName,
		})
		s.push(ctx, payload.UserId, fmt.Sprintf(constant.UploadTimeoutTemplate, payload.FileName))

	default:
		s.log.Error(constant.ModuleIngest, "document upload failed", map[string]interface{}{
			"file_name":    payload.FileName,
			"logical_name": payload.LogicalName,
			"error":        err.Error(),
		})
		s.push(ctx, payload.UserId, constant.UploadFailed)
	}
}

func (s *ingestService) push(ctx context.Context, userId, text string) {
	if err := s.pusher.Push(ctx, userId, text); err != nil {
		s.log.Error(constant.ModuleIngest, "failed to push reply", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
	}
}
