package profile

import "strings"

// Gender values as presented to the user.
const (
	GenderMale   = "男性"
	GenderFemale = "女性"
)

// Diabetes types.
const (
	DiabetesType1       = "第1型"
	DiabetesType2       = "第2型"
	DiabetesGestational = "妊娠糖尿病"
	DiabetesOther       = "其他"
)

// Education levels.
const (
	EducationElementary = "國小"
	EducationMiddle     = "國中"
	EducationHigh       = "高中/職"
	EducationCollege    = "大學"
	EducationGraduate   = "研究所"
)

// Complications.
const (
	ComplicationRetinopathy    = "視網膜病變"
	ComplicationNephropathy    = "腎臟病變"
	ComplicationNeuropathy     = "神經病變"
	ComplicationCardiovascular = "心血管疾病"
	ComplicationFoot           = "足部病變"
)

// UserProfile holds the structured patient profile collected during
// onboarding. Complications and CurrentMedications are optional.
type UserProfile struct {
	Name               string   `json:"name"`
	Age                int      `json:"age"`
	Gender             string   `json:"gender"`
	DiabetesType       string   `json:"diabetes_type"`
	EducationLevel     string   `json:"education_level"`
	Complications      []string `json:"complications"`
	CurrentMedications []string `json:"current_medications"`
}

// IsComplete reports whether all required fields are set. The optional
// fields never affect the verdict.
func (p *UserProfile) IsComplete() bool {
	if p == nil {
		return false
	}
	return p.Name != "" &&
		p.Age > 0 &&
		p.Gender != "" &&
		p.DiabetesType != "" &&
		p.EducationLevel != ""
}

// IsEmpty reports whether nothing has been collected at all.
func (p *UserProfile) IsEmpty() bool {
	if p == nil {
		return true
	}
	return p.Name == "" && p.Age == 0 && p.Gender == "" &&
		p.DiabetesType == "" && p.EducationLevel == "" &&
		len(p.Complications) == 0 && len(p.CurrentMedications) == 0
}

// JoinOrNone renders a list field the way replies present it: a
// comma-joined string, or 無 when the list is empty.
func JoinOrNone(items []string) string {
	if len(items) == 0 {
		return "無"
	}
	return strings.Join(items, ", ")
}
