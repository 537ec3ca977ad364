package onboarding

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"diacare-bot/pkg/profile"
)

type sinkCall struct {
	userID  string
	profile *profile.UserProfile
}

type fakeSink struct {
	calls []sinkCall
	err   error
}

func (f *fakeSink) Set(_ context.Context, userID string, p *profile.UserProfile) error {
	f.calls = append(f.calls, sinkCall{userID: userID, profile: p})
	return f.err
}

func answerOK(t *testing.T, m *Machine, userID, answer string) string {
	t.Helper()
	reply, err := m.Answer(context.Background(), userID, answer)
	if err != nil {
		t.Fatalf("Answer(%q) returned error: %v", answer, err)
	}
	return reply
}

func TestFullDialogue(t *testing.T) {
	sink := &fakeSink{}
	m := NewMachine(sink)
	userID := "U123"

	first := m.Start(userID)
	if !strings.Contains(first, "請問我該如何稱呼您") {
		t.Errorf("Start prompt = %q, want name question", first)
	}
	if !m.InProgress(userID) {
		t.Fatal("session should be open after Start")
	}

	reply := answerOK(t, m, userID, "張媽媽")
	if !strings.Contains(reply, "很高興認識您，張媽媽") {
		t.Errorf("name accepted reply = %q, want greeting", reply)
	}
	if !strings.Contains(reply, "請問您的年齡是") {
		t.Errorf("name accepted reply = %q, want age question", reply)
	}

	// A rejected answer must re-prompt without advancing.
	reply = answerOK(t, m, userID, "六十五")
	if reply != "請輸入有效的數字年齡" {
		t.Errorf("invalid age reply = %q", reply)
	}
	if got := m.Step(userID); got != StepAge {
		t.Errorf("step after rejected answer = %v, want StepAge", got)
	}

	reply = answerOK(t, m, userID, "65")
	if !strings.Contains(reply, "請問您的性別是") {
		t.Errorf("age accepted reply = %q, want gender question", reply)
	}

	reply = answerOK(t, m, userID, "女性")
	if !strings.Contains(reply, "請問您的糖尿病類型是") {
		t.Errorf("gender accepted reply = %q, want diabetes question", reply)
	}

	reply = answerOK(t, m, userID, "2")
	if !strings.Contains(reply, "併發症") {
		t.Errorf("diabetes accepted reply = %q, want complications question", reply)
	}

	reply = answerOK(t, m, userID, "1,3")
	if !strings.Contains(reply, "教育程度") {
		t.Errorf("complications accepted reply = %q, want education question", reply)
	}

	reply = answerOK(t, m, userID, "4")
	if !strings.Contains(reply, "藥物") {
		t.Errorf("education accepted reply = %q, want medications question", reply)
	}

	reply = answerOK(t, m, userID, "Metformin, 胰島素")
	if !strings.Contains(reply, "✅ 資料建立完成！") {
		t.Errorf("terminal reply = %q, want completion summary", reply)
	}
	if !strings.Contains(reply, "視網膜病變, 神經病變") {
		t.Errorf("terminal reply = %q, want listed complications", reply)
	}

	if m.InProgress(userID) {
		t.Error("session should be closed after terminal transition")
	}
	if len(sink.calls) != 1 {
		t.Fatalf("sink calls = %d, want 1", len(sink.calls))
	}

	got := sink.calls[0].profile
	if got.Name != "張媽媽" || got.Age != 65 || got.Gender != profile.GenderFemale {
		t.Errorf("committed profile = %+v", got)
	}
	if got.DiabetesType != profile.DiabetesType2 {
		t.Errorf("diabetes type = %q", got.DiabetesType)
	}
	if got.EducationLevel != profile.EducationCollege {
		t.Errorf("education = %q", got.EducationLevel)
	}
	if len(got.CurrentMedications) != 2 || got.CurrentMedications[0] != "Metformin" {
		t.Errorf("medications = %v", got.CurrentMedications)
	}
	if !got.IsComplete() {
		t.Error("committed profile should be complete")
	}
}

func TestRejectedAnswers(t *testing.T) {
	tests := []struct {
		name     string
		step     Step
		answer   string
		reprompt string
	}{
		{"empty name", StepName, "   ", "請輸入您的稱呼"},
		{"non-numeric age", StepAge, "abc", "請輸入有效的數字年齡"},
		{"age out of range", StepAge, "200", "請輸入有效的年齡（0-120）"},
		{"unknown gender", StepGender, "其他", "請輸入「男性」或「女性」"},
		{"bad diabetes code", StepDiabetesType, "5", "請輸入 1、2、3 或 4"},
		{"no valid complication code", StepComplications, "9,8", "請輸入有效的選項（例如：1,3 或 6）"},
		{"bad education code", StepEducation, "0", "請輸入 1、2、3、4 或 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data profile.UserProfile
			before := data
			reprompt, ok := steps[tt.step].accept(tt.answer, &data)
			if ok {
				t.Fatalf("accept(%q) = ok, want rejection", tt.answer)
			}
			if reprompt != tt.reprompt {
				t.Errorf("reprompt = %q, want %q", reprompt, tt.reprompt)
			}
			if !reflect.DeepEqual(data, before) {
				t.Errorf("rejected answer mutated data: %+v", data)
			}
		})
	}
}

func TestComplicationNone(t *testing.T) {
	for _, answer := range []string{"6", "無"} {
		var data profile.UserProfile
		if _, ok := steps[StepComplications].accept(answer, &data); !ok {
			t.Fatalf("accept(%q) rejected", answer)
		}
		if data.Complications == nil || len(data.Complications) != 0 {
			t.Errorf("accept(%q) complications = %v, want empty", answer, data.Complications)
		}
	}
}

func TestDegradedPersistenceStillReplies(t *testing.T) {
	sink := &fakeSink{err: errors.New("db down")}
	m := NewMachine(sink)
	userID := "U456"

	m.Start(userID)
	for _, answer := range []string{"王先生", "45", "男性", "1", "6"} {
		answerOK(t, m, userID, answer)
	}
	answerOK(t, m, userID, "3")

	reply, err := m.Answer(context.Background(), userID, "無")
	if err == nil {
		t.Fatal("terminal Answer should surface the save error")
	}
	if !strings.Contains(reply, "✅ 資料建立完成！") {
		t.Errorf("reply = %q, want summary despite save error", reply)
	}
	if m.InProgress(userID) {
		t.Error("session must close even when persistence fails")
	}
}

type blockingSink struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingSink) Set(context.Context, string, *profile.UserProfile) error {
	close(b.entered)
	<-b.release
	return nil
}

// A slow terminal commit for one user must not stall another user's
// dialogue.
func TestTerminalCommitDoesNotBlockOtherUsers(t *testing.T) {
	sink := &blockingSink{entered: make(chan struct{}), release: make(chan struct{})}
	m := NewMachine(sink)

	m.Start("U1")
	for _, answer := range []string{"王先生", "45", "男性", "1", "6", "3"} {
		answerOK(t, m, "U1", answer)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := m.Answer(context.Background(), "U1", "無"); err != nil {
			t.Errorf("terminal Answer: %v", err)
		}
	}()

	<-sink.entered

	// U1's commit is in flight; U2 must still be able to answer.
	other := make(chan struct{})
	go func() {
		defer close(other)
		m.Start("U2")
		answerOK(t, m, "U2", "李小姐")
	}()

	select {
	case <-other:
	case <-time.After(2 * time.Second):
		t.Fatal("another user's dialogue blocked behind a slow commit")
	}

	close(sink.release)
	<-done

	if m.InProgress("U1") {
		t.Error("terminal session should be closed")
	}
}

func TestCancelDropsSession(t *testing.T) {
	sink := &fakeSink{}
	m := NewMachine(sink)

	m.Start("U789")
	m.Cancel("U789")

	if m.InProgress("U789") {
		t.Error("Cancel should close the session")
	}
	if len(sink.calls) != 0 {
		t.Errorf("Cancel must not commit, got %d sink calls", len(sink.calls))
	}
}

func TestStartRestartsAtStepOne(t *testing.T) {
	m := NewMachine(&fakeSink{})

	m.Start("U1")
	answerOK(t, m, "U1", "李小姐")
	answerOK(t, m, "U1", "30")

	m.Start("U1")
	if got := m.Step("U1"); got != StepName {
		t.Errorf("step after restart = %v, want StepName", got)
	}
}
