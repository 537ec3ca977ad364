package intent

import "strings"

// Intent kinds, in routing priority order. The open-session check that
// shadows all of these lives in the assistant service, not here: while a
// dialogue session is open every utterance is an onboarding answer.
const (
	KindOnboardingStart = "ONBOARDING_START"
	KindProfileView     = "PROFILE_VIEW"
	KindProfileUpdate   = "PROFILE_UPDATE"
	KindModeSwitch      = "MODE_SWITCH"
	KindModeQuery       = "MODE_QUERY"
	KindListDocuments   = "LIST_DOCUMENTS"
	KindQuery           = "QUERY"
)

// Intent is the classification result. Mode is set only for KindModeSwitch.
type Intent struct {
	Kind string
	Mode string // "knowledge" | "personal"
}

var onboardingStartKeywords = []string{
	"設定資料", "建立資料", "個人資料設定", "開始設定", "setup", "start",
}

var profileViewKeywords = []string{
	"我的資料", "個人資料", "查看資料", "my profile", "profile",
}

var profileUpdateKeywords = []string{
	"更新資料", "修改資料", "重新設定", "update profile",
}

var modeSignalWords = []string{
	"模式", "切換", "mode", "switch",
}

var knowledgeModeKeywords = []string{
	"知識庫", "知識庫模式", "使用知識庫", "切換知識庫",
	"糖尿病", "醫療知識", "專業知識",
	"knowledge", "knowledge base",
}

var personalModeKeywords = []string{
	"個人檔案", "個人模式", "我的檔案", "私人檔案",
	"切換個人", "使用個人",
	"personal", "my files", "personal mode",
}

// modeQueryPhrases must match the whole utterance, not a substring.
var modeQueryPhrases = []string{
	"模式", "目前模式", "當前模式", "mode", "current mode",
}

var listDocumentsKeywords = []string{
	"列出檔案", "列出文件", "顯示檔案", "顯示文件",
	"查看檔案", "查看文件", "檔案列表", "文件列表",
	"有哪些檔案", "有哪些文件", "我的檔案", "我的文件",
	"list files", "show files", "my files",
}

type rule func(text string) (Intent, bool)

// rules is a priority list, not a set: earlier rules shadow later ones.
var rules = []rule{
	matchAny(onboardingStartKeywords, KindOnboardingStart),
	matchAny(profileViewKeywords, KindProfileView),
	matchAny(profileUpdateKeywords, KindProfileUpdate),
	matchModeSwitch,
	matchModeQuery,
	matchAny(listDocumentsKeywords, KindListDocuments),
}

// Classify maps an utterance to exactly one intent; anything unmatched is
// a free-form query.
func Classify(text string) Intent {
	normalized := strings.ToLower(strings.TrimSpace(text))
	for _, r := range rules {
		if intent, ok := r(normalized); ok {
			return intent
		}
	}
	return Intent{Kind: KindQuery}
}

func matchAny(keywords []string, kind string) rule {
	return func(text string) (Intent, bool) {
		for _, keyword := range keywords {
			if strings.Contains(text, keyword) {
				return Intent{Kind: kind}, true
			}
		}
		return Intent{}, false
	}
}

// matchModeSwitch needs both a signal word (mode/switch) and a mode-name
// keyword; a signal word alone is not a switch.
func matchModeSwitch(text string) (Intent, bool) {
	hasSignal := false
	for _, word := range modeSignalWords {
		if strings.Contains(text, word) {
			hasSignal = true
			break
		}
	}
	if !hasSignal {
		return Intent{}, false
	}

	for _, keyword := range knowledgeModeKeywords {
		if strings.Contains(text, keyword) {
			return Intent{Kind: KindModeSwitch, Mode: "knowledge"}, true
		}
	}
	for _, keyword := range personalModeKeywords {
		if strings.Contains(text, keyword) {
			return Intent{Kind: KindModeSwitch, Mode: "personal"}, true
		}
	}
	return Intent{}, false
}

func matchModeQuery(text string) (Intent, bool) {
	for _, phrase := range modeQueryPhrases {
		if text == phrase {
			return Intent{Kind: KindModeQuery}, true
		}
	}
	return Intent{}, false
}
