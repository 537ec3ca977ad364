package profile

import (
	"strings"
	"testing"
)

func completeProfile() *UserProfile {
	return &UserProfile{
		Name:           "王先生",
		Age:            45,
		Gender:         GenderMale,
		DiabetesType:   DiabetesType2,
		EducationLevel: EducationHigh,
	}
}

func TestIsComplete(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *UserProfile)
		want   bool
	}{
		{"all required fields", func(*UserProfile) {}, true},
		{"missing name", func(p *UserProfile) { p.Name = "" }, false},
		{"zero age", func(p *UserProfile) { p.Age = 0 }, false},
		{"missing gender", func(p *UserProfile) { p.Gender = "" }, false},
		{"missing diabetes type", func(p *UserProfile) { p.DiabetesType = "" }, false},
		{"missing education", func(p *UserProfile) { p.EducationLevel = "" }, false},
		{"optional fields do not matter", func(p *UserProfile) {
			p.Complications = nil
			p.CurrentMedications = nil
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := completeProfile()
			tt.mutate(p)
			if got := p.IsComplete(); got != tt.want {
				t.Errorf("IsComplete() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsCompleteNil(t *testing.T) {
	var p *UserProfile
	if p.IsComplete() {
		t.Error("nil profile must not be complete")
	}
	if !p.IsEmpty() {
		t.Error("nil profile must be empty")
	}
}

func TestJoinOrNone(t *testing.T) {
	if got := JoinOrNone(nil); got != "無" {
		t.Errorf("JoinOrNone(nil) = %q", got)
	}
	if got := JoinOrNone([]string{}); got != "無" {
		t.Errorf("JoinOrNone(empty) = %q", got)
	}
	if got := JoinOrNone([]string{"a", "b"}); got != "a, b" {
		t.Errorf("JoinOrNone = %q", got)
	}
}

func TestBuildSystemPromptEmpty(t *testing.T) {
	if got := BuildSystemPrompt(&UserProfile{}); got != "" {
		t.Errorf("empty profile prompt = %q, want empty", got)
	}
	if got := BuildSystemPrompt(nil); got != "" {
		t.Errorf("nil profile prompt = %q, want empty", got)
	}
}

func TestBuildSystemPromptConditionalGuidance(t *testing.T) {
	tests := []struct {
		name    string
		profile *UserProfile
		want    []string
		notWant []string
	}{
		{
			name:    "elderly female type 2",
			profile: &UserProfile{Name: "張媽媽", Age: 70, Gender: GenderFemale, DiabetesType: DiabetesType2, EducationLevel: EducationElementary},
			want: []string{
				"張媽媽",
				"70歲",
				"老年人的用藥安全",
				"妊娠糖尿病和更年期",
				"生活方式調整",
				"淺顯易懂的詞彙",
				"【回答原則】",
			},
			notWant: []string{"青少年", "胰島素治療的重要性"},
		},
		{
			name:    "teen male type 1",
			profile: &UserProfile{Name: "小明", Age: 15, Gender: GenderMale, DiabetesType: DiabetesType1, EducationLevel: EducationMiddle},
			want:    []string{"青少年", "胰島素治療的重要性"},
			notWant: []string{"老年人", "更年期"},
		},
		{
			name: "complications and medications",
			profile: &UserProfile{
				Name: "李小姐", Age: 40, Gender: GenderFemale,
				DiabetesType: DiabetesGestational, EducationLevel: EducationGraduate,
				Complications:      []string{ComplicationRetinopathy},
				CurrentMedications: []string{"Metformin"},
			},
			want: []string{
				"視網膜病變",
				"預防惡化",
				"Metformin",
				"藥物交互作用",
				"母嬰健康",
				"較專業的醫學詞彙",
			},
		},
		{
			name:    "partial profile still renders",
			profile: &UserProfile{Name: "王先生"},
			want:    []string{"王先生", "【回答原則】"},
			notWant: []string{"年齡", "性別"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildSystemPrompt(tt.profile)
			for _, s := range tt.want {
				if !strings.Contains(got, s) {
					t.Errorf("prompt missing %q\nprompt:\n%s", s, got)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(got, s) {
					t.Errorf("prompt should not contain %q", s)
				}
			}
		})
	}
}
