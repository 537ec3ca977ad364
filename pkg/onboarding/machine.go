package onboarding

import (
	"context"
	"strconv"
	"strings"

	"diacare-bot/pkg/profile"
)

// ProfileSink receives the finished profile on the terminal transition.
// *registry.ProfileRegistry satisfies it.
type ProfileSink interface {
	Set(ctx context.Context, userID string, p *profile.UserProfile) error
}

// Step indexes the fixed 7-step dialogue.
type Step int

const (
	StepName Step = iota + 1
	StepAge
	StepGender
	StepDiabetesType
	StepComplications
	StepEducation
	StepMedications
)

const lastStep = StepMedications

type session struct {
	step Step
	data profile.UserProfile
}

// stepSpec pairs a step's prompt with its answer handler. accept returns
// ok=false to re-prompt without advancing; reprompt carries the rejection
// message. Handlers are total over string input.
type stepSpec struct {
	prompt string
	accept func(answer string, data *profile.UserProfile) (reprompt string, ok bool)
}

var diabetesTypeByCode = map[string]string{
	"1": profile.DiabetesType1,
	"2": profile.DiabetesType2,
	"3": profile.DiabetesGestational,
	"4": profile.DiabetesOther,
}

var complicationByCode = map[string]string{
	"1": profile.ComplicationRetinopathy,
	"2": profile.ComplicationNephropathy,
	"3": profile.ComplicationNeuropathy,
	"4": profile.ComplicationCardiovascular,
	"5": profile.ComplicationFoot,
}

var educationByCode = map[string]string{
	"1": profile.EducationElementary,
	"2": profile.EducationMiddle,
	"3": profile.EducationHigh,
	"4": profile.EducationCollege,
	"5": profile.EducationGraduate,
}

// steps is the transition table: reordering or extending the dialogue is a
// data change here, not a control-flow rewrite.
var steps = map[Step]stepSpec{
	StepName: {
		prompt: "👋 您好！為了提供更個人化的衛教建議，請問我該如何稱呼您？\n（例如：王先生、小美、張媽媽）",
		accept: func(answer string, data *profile.UserProfile) (string, bool) {
			name := strings.TrimSpace(answer)
			if name == "" {
				return "請輸入您的稱呼", false
			}
			data.Name = name
			return "", true
		},
	},
	StepAge: {
		prompt: "請問您的年齡是？\n（請輸入數字，例如：45）",
		accept: func(answer string, data *profile.UserProfile) (string, bool) {
			age, err := strconv.Atoi(strings.TrimSpace(answer))
			if err != nil {
				return "請輸入有效的數字年齡", false
			}
			if age < 0 || age > 120 {
				return "請輸入有效的年齡（0-120）", false
			}
			data.Age = age
			return "", true
		},
	},
	StepGender: {
		prompt: "請問您的性別是？\n（請輸入：男性 或 女性）",
		accept: func(answer string, data *profile.UserProfile) (string, bool) {
			switch strings.TrimSpace(answer) {
			case "男性", "男":
				data.Gender = profile.GenderMale
			case "女性", "女":
				data.Gender = profile.GenderFemale
			default:
				return "請輸入「男性」或「女性」", false
			}
			return "", true
		},
	},
	StepDiabetesType: {
		prompt: "請問您的糖尿病類型是？\n請選擇：\n1. 第1型糖尿病\n2. 第2型糖尿病\n3. 妊娠糖尿病\n4. 其他類型",
		accept: func(answer string, data *profile.UserProfile) (string, bool) {
			dtype, ok := diabetesTypeByCode[strings.TrimSpace(answer)]
			if !ok {
				return "請輸入 1、2、3 或 4", false
			}
			data.DiabetesType = dtype
			return "", true
		},
	},
	StepComplications: {
		prompt: "請問您目前有以下併發症嗎？（可複選，用逗號分隔）\n1. 視網膜病變\n2. 腎臟病變\n3. 神經病變\n4. 心血管疾病\n5. 足部病變\n6. 無\n\n例如：1,3 或 6",
		accept: func(answer string, data *profile.UserProfile) (string, bool) {
			trimmed := strings.TrimSpace(answer)
			if trimmed == "6" || strings.EqualFold(trimmed, "無") {
				data.Complications = []string{}
				return "", true
			}
			// Permissive parse: keep recognized codes, drop the rest.
			selected := make([]string, 0)
			for _, token := range strings.Split(trimmed, ",") {
				if name, ok := complicationByCode[strings.TrimSpace(token)]; ok {
					selected = append(selected, name)
				}
			}
			if len(selected) == 0 {
				return "請輸入有效的選項（例如：1,3 或 6）", false
			}
			data.Complications = selected
			return "", true
		},
	},
	StepEducation: {
		prompt: "請問您的教育程度是？\n1. 國小\n2. 國中\n3. 高中/職\n4. 大學\n5. 研究所",
		accept: func(answer string, data *profile.UserProfile) (string, bool) {
			edu, ok := educationByCode[strings.TrimSpace(answer)]
			if !ok {
				return "請輸入 1、2、3、4 或 5", false
			}
			data.EducationLevel = edu
			return "", true
		},
	},
	StepMedications: {
		prompt: "最後一個問題：您目前有在使用哪些藥物嗎？（可選填）\n（請輸入藥名，用逗號分隔，或輸入「無」）",
		accept: func(answer string, data *profile.UserProfile) (string, bool) {
			trimmed := strings.TrimSpace(answer)
			if trimmed == "" || strings.EqualFold(trimmed, "無") || strings.EqualFold(trimmed, "none") {
				data.CurrentMedications = []string{}
				return "", true
			}
			meds := make([]string, 0)
			for _, med := range strings.Split(trimmed, ",") {
				if med = strings.TrimSpace(med); med != "" {
					meds = append(meds, med)
				}
			}
			data.CurrentMedications = meds
			return "", true
		},
	},
}

// Question returns the prompt for a step.
func Question(step Step) string {
	return steps[step].prompt
}
