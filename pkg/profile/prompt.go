package profile

import (
	"fmt"
	"strings"
)

// BuildSystemPrompt renders the personalization preamble prepended to
// free-form queries. Absent fields are omitted; specific field values add
// conditional guidance lines. An empty profile yields an empty string.
func BuildSystemPrompt(p *UserProfile) string {
	if p.IsEmpty() {
		return ""
	}

	var prompt strings.Builder
	prompt.WriteString("請根據以下患者資訊提供個人化的衛教內容：\n\n")

	if p.Name != "" {
		prompt.WriteString(fmt.Sprintf("• 患者稱呼：%s\n", p.Name))
	}

	if p.Age > 0 {
		prompt.WriteString(fmt.Sprintf("• 年齡：%d歲\n", p.Age))
		if p.Age < 18 {
			prompt.WriteString("  → 使用適合青少年理解的簡單語言\n")
		} else if p.Age >= 65 {
			prompt.WriteString("  → 特別注意老年人的用藥安全和低血糖風險\n")
		}
	}

	if p.Gender != "" {
		prompt.WriteString(fmt.Sprintf("• 性別：%s\n", p.Gender))
		if p.Gender == GenderFemale {
			prompt.WriteString("  → 考慮妊娠糖尿病和更年期影響\n")
		}
	}

	if p.DiabetesType != "" {
		prompt.WriteString(fmt.Sprintf("• 糖尿病類型：%s\n", p.DiabetesType))
		switch p.DiabetesType {
		case DiabetesType1:
			prompt.WriteString("  → 強調胰島素治療的重要性\n")
		case DiabetesType2:
			prompt.WriteString("  → 著重生活方式調整和口服藥物\n")
		case DiabetesGestational:
			prompt.WriteString("  → 關注母嬰健康和產後追蹤\n")
		}
	}

	if len(p.Complications) > 0 {
		prompt.WriteString(fmt.Sprintf("• 併發症：%s\n", strings.Join(p.Complications, ", ")))
		prompt.WriteString("  → 針對現有併發症提供預防惡化的建議\n")
	}

	if p.EducationLevel != "" {
		prompt.WriteString(fmt.Sprintf("• 教育程度：%s\n", p.EducationLevel))
		switch p.EducationLevel {
		case EducationElementary, EducationMiddle:
			prompt.WriteString("  → 使用淺顯易懂的詞彙，避免醫學術語\n")
		case EducationCollege, EducationGraduate:
			prompt.WriteString("  → 可以使用較專業的醫學詞彙和詳細解釋\n")
		}
	}

	if len(p.CurrentMedications) > 0 {
		prompt.WriteString(fmt.Sprintf("• 目前用藥：%s\n", strings.Join(p.CurrentMedications, ", ")))
		prompt.WriteString("  → 注意藥物交互作用和副作用\n")
	}

	prompt.WriteString("\n【回答原則】\n")
	prompt.WriteString("1. 使用溫和、支持性的語氣\n")
	prompt.WriteString("2. 根據患者的教育程度調整專業術語的使用\n")
	prompt.WriteString("3. 提供具體、可執行的建議\n")
	prompt.WriteString("4. 強調個人化照護的重要性\n")
	prompt.WriteString("5. 必要時建議諮詢醫療專業人員\n")

	return prompt.String()
}
