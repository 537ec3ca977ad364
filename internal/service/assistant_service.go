package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"diacare-bot/internal/constant"
	"diacare-bot/internal/dto"
	"diacare-bot/internal/pkg/logger"
	"diacare-bot/internal/registry"
	"diacare-bot/pkg/filesearch"
	"diacare-bot/pkg/intent"
	"diacare-bot/pkg/onboarding"
	"diacare-bot/pkg/profile"
	"diacare-bot/pkg/query"
)

const maxListItems = 10

type IAssistantService interface {
	Handle(ctx context.Context, event *dto.Event) ([]*dto.Reply, error)
}

type assistantService struct {
	machine       *onboarding.Machine
	profiles      *registry.ProfileRegistry
	modes         *registry.ModeRegistry
	manager       *filesearch.Manager
	orchestrator  *query.Orchestrator
	publisher     IPublisherService
	knowledgeBase string
	log           logger.ILogger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewAssistantService(
	machine *onboarding.Machine,
	profiles *registry.ProfileRegistry,
	modes *registry.ModeRegistry,
	manager *filesearch.Manager,
	orchestrator *query.Orchestrator,
	publisher IPublisherService,
	knowledgeBase string,
	log logger.ILogger,
) IAssistantService {
	return &assistantService{
		machine:       machine,
		profiles:      profiles,
		modes:         modes,
		manager:       manager,
		orchestrator:  orchestrator,
		publisher:     publisher,
		knowledgeBase: knowledgeBase,
		log:           log,
		locks:         make(map[string]*sync.Mutex),
	}
}

// lockFor serializes event handling per user so concurrent webhook
// deliveries cannot interleave a dialogue session.
func (s *assistantService) lockFor(userId string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[userId]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userId] = l
	}
	return l
}

func (s *assistantService) Handle(ctx context.Context, event *dto.Event) ([]*dto.Reply, error) {
	l := s.lockFor(event.UserId)
	l.Lock()
	defer l.Unlock()

	switch event.Type {
	case dto.EventFollow:
		return s.handleFollow(ctx, event)
	case dto.EventPostback:
		return s.handlePostback(ctx, event)
	case dto.EventFile:
		return s.handleFile(ctx, event)
	case dto.EventMessage:
		return s.handleMessage(ctx, event)
	default:
		return nil, fmt.Errorf("unknown event type %q", event.Type)
	}
}

func (s *assistantService) handleFollow(_ context.Context, event *dto.Event) ([]*dto.Reply, error) {
	if s.profiles.IsComplete(event.UserId) {
		return []*dto.Reply{dto.TextReply(constant.WelcomeBack)}, nil
	}

	firstQuestion := s.machine.Start(event.UserId)
	text := fmt.Sprintf(constant.WelcomeNewTemplate, firstQuestion)
	return []*dto.Reply{dto.TextReply(text)}, nil
}

func (s *assistantService) handlePostback(ctx context.Context, event *dto.Event) ([]*dto.Reply, error) {
	values, err := url.ParseQuery(event.Postback)
	if err != nil || values.Get("action") != "delete_file" || values.Get("doc_name") == "" {
		s.log.Warn(constant.ModuleAssistant, "unrecognized postback payload", map[string]interface{}{
			"user_id": event.UserId,
			"data":    event.Postback,
		})
		return []*dto.Reply{dto.TextReply(constant.PostbackError)}, nil
	}

	docName := values.Get("doc_name")
	if err := s.manager.Delete(ctx, docName); err != nil {
		s.log.Error(constant.ModuleAssistant, "failed to delete document", map[string]interface{}{
			"user_id":  event.UserId,
			"doc_name": docName,
			"error":    err.Error(),
		})
		return []*dto.Reply{dto.TextReply(constant.DeleteFailed)}, nil
	}

	return []*dto.Reply{dto.TextReply(constant.DeleteSucceeded)}, nil
}

// handleFile acknowledges immediately and hands the document to the ingest
// pipeline; the outcome reaches the user through the push channel.
func (s *assistantService) handleFile(ctx context.Context, event *dto.Event) ([]*dto.Reply, error) {
	if event.File == nil || event.File.Id == "" {
		return []*dto.Reply{dto.TextReply(constant.UploadFailed)}, nil
	}

	payload := dto.PublishIngestDocumentMessage{
		UserId:      event.UserId,
		SourceKind:  event.SourceKind,
		SourceId:    event.SourceId,
		LogicalName: s.personalStoreName(event),
		FileId:      event.File.Id,
		FileName:    event.File.Name,
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(ctx, payloadJson); err != nil {
		s.log.Error(constant.ModuleAssistant, "failed to publish ingest message", map[string]interface{}{
			"user_id": event.UserId,
			"error":   err.Error(),
		})
		return []*dto.Reply{dto.TextReply(constant.UploadFailed)}, nil
	}

	return []*dto.Reply{dto.TextReply(constant.UploadProcessing)}, nil
}

func (s *assistantService) handleMessage(ctx context.Context, event *dto.Event) ([]*dto.Reply, error) {
	// An open dialogue session consumes every utterance before intent
	// classification gets a look.
	if s.machine.InProgress(event.UserId) {
		reply, err := s.machine.Answer(ctx, event.UserId, event.Text)
		if err != nil {
			if !errors.Is(err, registry.ErrPersistenceDegraded) {
				return nil, err
			}
			s.log.Warn(constant.ModuleAssistant, "profile saved in memory only", map[string]interface{}{
				"user_id": event.UserId,
				"error":   err.Error(),
			})
		}
		return []*dto.Reply{dto.TextReply(reply)}, nil
	}

	classified := intent.Classify(event.Text)
	switch classified.Kind {
	case intent.KindOnboardingStart:
		return []*dto.Reply{dto.TextReply(s.machine.Start(event.UserId))}, nil

	case intent.KindProfileView:
		return []*dto.Reply{dto.TextReply(s.profileView(event.UserId))}, nil

	case intent.KindProfileUpdate:
		text := constant.ProfileUpdatePrefix + s.machine.Start(event.UserId)
		return []*dto.Reply{dto.TextReply(text)}, nil

	case intent.KindModeSwitch:
		return s.switchMode(ctx, event.UserId, classified.Mode)

	case intent.KindModeQuery:
		return s.modeStatus(event.UserId)

	case intent.KindListDocuments:
		return s.listDocuments(ctx, event)

	default:
		return s.answerQuery(ctx, event)
	}
}

func (s *assistantService) profileView(userId string) string {
	p := s.profiles.Get(userId)
	if p == nil || p.IsEmpty() {
		return constant.ProfileMissing
	}
	return fmt.Sprintf(constant.ProfileViewTemplate,
		p.Name,
		p.Age,
		p.Gender,
		p.DiabetesType,
		profile.JoinOrNone(p.Complications),
		p.EducationLevel,
		profile.JoinOrNone(p.CurrentMedications),
	)
}

func (s *assistantService) switchMode(ctx context.Context, userId, mode string) ([]*dto.Reply, error) {
	if err := s.modes.Set(ctx, userId, mode); err != nil {
		if !errors.Is(err, registry.ErrPersistenceDegraded) {
			return nil, err
		}
		s.log.Warn(constant.ModuleAssistant, "mode saved in memory only", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
	}
	text := fmt.Sprintf(constant.ModeSwitchedTemplate, s.modeDescription(mode))
	return []*dto.Reply{dto.TextReply(text)}, nil
}

func (s *assistantService) modeStatus(userId string) ([]*dto.Reply, error) {
	profileStatus := constant.ProfileStatusUnset
	if s.profiles.IsComplete(userId) {
		profileStatus = constant.ProfileStatusSet
	}
	text := fmt.Sprintf(constant.ModeStatusTemplate, s.modeDescription(s.modes.Get(userId)), profileStatus)
	return []*dto.Reply{dto.TextReply(text)}, nil
}

func (s *assistantService) listDocuments(ctx context.Context, event *dto.Event) ([]*dto.Reply, error) {
	docs, err := s.manager.List(ctx, s.activeStoreName(event))
	if err != nil {
		s.log.Error(constant.ModuleAssistant, "failed to list documents", map[string]interface{}{
			"user_id": event.UserId,
			"error":   err.Error(),
		})
		return []*dto.Reply{dto.TextReply(constant.QueryErrorMessage)}, nil
	}
	if len(docs) == 0 {
		return []*dto.Reply{dto.TextReply(constant.NoDocuments)}, nil
	}

	if len(docs) > maxListItems {
		docs = docs[:maxListItems]
	}
	items := make([]*dto.ReplyItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, &dto.ReplyItem{
			Label:  doc.DisplayName,
			Action: "action=delete_file&doc_name=" + url.QueryEscape(doc.Name),
		})
	}
	return []*dto.Reply{{
		Type:    dto.ReplyList,
		AltText: "文件列表",
		Items:   items,
	}}, nil
}

func (s *assistantService) answerQuery(ctx context.Context, event *dto.Event) ([]*dto.Reply, error) {
	mode := s.modes.Get(event.UserId)
	answer, err := s.orchestrator.Answer(ctx, event.Text, s.activeStoreName(event), event.UserId)
	if err != nil {
		s.log.Error(constant.ModuleQuery, "failed to answer query", map[string]interface{}{
			"user_id": event.UserId,
			"mode":    mode,
			"error":   err.Error(),
		})
		return []*dto.Reply{dto.TextReply(constant.QueryErrorMessage)}, nil
	}

	// Guidance replies carry their own framing.
	if answer == constant.NoStoreGuidance {
		return []*dto.Reply{dto.TextReply(answer)}, nil
	}

	indicator := constant.PersonalModeIndicator
	if mode == registry.ModeKnowledge {
		indicator = constant.KnowledgeModeIndicator
	}
	text := indicator + " " + answer

	if mode == registry.ModeKnowledge && !s.profiles.IsComplete(event.UserId) {
		text += constant.PersonalizationNudge
	}
	return []*dto.Reply{dto.TextReply(text)}, nil
}

func (s *assistantService) modeDescription(mode string) string {
	if mode == registry.ModeKnowledge {
		return constant.KnowledgeModeDescription
	}
	return constant.PersonalModeDescription
}

// activeStoreName maps the event to the logical store the current mode
// reads from.
func (s *assistantService) activeStoreName(event *dto.Event) string {
	if s.modes.Get(event.UserId) == registry.ModeKnowledge {
		return s.knowledgeBase
	}
	return s.personalStoreName(event)
}

// personalStoreName derives the per-conversation logical store name.
func (s *assistantService) personalStoreName(event *dto.Event) string {
	switch event.SourceKind {
	case dto.SourceUser, dto.SourceGroup, dto.SourceRoom:
		return event.SourceKind + "_" + event.SourceId
	default:
		return "unknown_" + event.UserId
	}
}
