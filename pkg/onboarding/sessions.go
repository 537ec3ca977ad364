package onboarding

import (
	"context"
	"fmt"
	"sync"

	"diacare-bot/pkg/profile"
)

// Machine drives the profile-collection dialogue. A session exists for a
// user exactly while they are mid-dialogue. Callers serialize conflicting
// answers per user; the Machine itself is safe for concurrent use across
// users.
type Machine struct {
	mu       sync.Mutex
	sessions map[string]*session
	profiles ProfileSink
}

func NewMachine(profiles ProfileSink) *Machine {
	return &Machine{
		sessions: make(map[string]*session),
		profiles: profiles,
	}
}

// Start opens (or restarts) a session at step 1 and returns its prompt.
func (m *Machine) Start(userID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[userID] = &session{step: StepName}
	return Question(StepName)
}

// InProgress reports whether the user is mid-dialogue.
func (m *Machine) InProgress(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.sessions[userID]
	return ok
}

// Step returns the user's current step, or 0 when no session exists.
func (m *Machine) Step(userID string) Step {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[userID]; ok {
		return s.step
	}
	return 0
}

// Answer feeds one utterance into the user's session and returns the reply
// text: a re-prompt on rejection, the next step's prompt on acceptance, or
// the profile summary on the terminal transition. The returned error is
// non-nil only for the degraded-persistence case on the terminal
// transition; the reply is still valid then.
func (m *Machine) Answer(ctx context.Context, userID, answer string) (string, error) {
	reply, finished, err := m.advance(userID, answer)
	if err != nil || finished == nil {
		return reply, err
	}

	// The durable write stays outside the map lock so one user's commit
	// cannot stall another user's dialogue. The session is already gone;
	// per-user ordering is the caller's serialization.
	saveErr := m.profiles.Set(ctx, userID, finished)
	return reply, saveErr
}

// advance runs one transition under the map lock. On the terminal
// transition it drops the session and returns the finished profile for the
// caller to commit.
func (m *Machine) advance(userID, answer string) (string, *profile.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		return "", nil, fmt.Errorf("no onboarding session for user %s", userID)
	}

	spec := steps[s.step]
	reprompt, accepted := spec.accept(answer, &s.data)
	if !accepted {
		return reprompt, nil, nil
	}

	if s.step == lastStep {
		finished := s.data
		delete(m.sessions, userID)
		return summary(&finished), &finished, nil
	}

	s.step++
	if s.step == StepAge {
		return fmt.Sprintf("很高興認識您，%s！\n\n%s", s.data.Name, Question(s.step)), nil, nil
	}
	return Question(s.step), nil, nil
}

// Cancel drops a session without committing anything.
func (m *Machine) Cancel(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
}

func summary(p *profile.UserProfile) string {
	return fmt.Sprintf(`✅ 資料建立完成！

【您的個人資料】
• 稱呼：%s
• 年齡：%d歲
• 性別：%s
• 糖尿病類型：%s
• 併發症：%s
• 教育程度：%s
• 目前用藥：%s

現在我會根據您的個人資料提供更適合您的衛教建議！

您可以隨時輸入「我的資料」查看或「更新資料」重新設定。

現在就開始提問吧！ 😊`,
		p.Name,
		p.Age,
		p.Gender,
		p.DiabetesType,
		profile.JoinOrNone(p.Complications),
		p.EducationLevel,
		profile.JoinOrNone(p.CurrentMedications),
	)
}
