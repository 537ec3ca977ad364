package intent

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Intent
	}{
		{"onboarding start", "設定資料", Intent{Kind: KindOnboardingStart}},
		{"onboarding start english", "setup", Intent{Kind: KindOnboardingStart}},
		{"profile view", "我的資料", Intent{Kind: KindProfileView}},
		{"profile update", "更新資料", Intent{Kind: KindProfileUpdate}},
		{"switch to knowledge", "切換知識庫模式", Intent{Kind: KindModeSwitch, Mode: "knowledge"}},
		{"switch to personal", "切換個人模式", Intent{Kind: KindModeSwitch, Mode: "personal"}},
		{"switch english", "switch to personal mode", Intent{Kind: KindModeSwitch, Mode: "personal"}},
		{"mode query exact", "目前模式", Intent{Kind: KindModeQuery}},
		{"mode query bare word", "模式", Intent{Kind: KindModeQuery}},
		{"list documents", "列出檔案", Intent{Kind: KindListDocuments}},
		{"list documents variant", "有哪些文件", Intent{Kind: KindListDocuments}},
		{"free form question", "血糖多少算正常？", Intent{Kind: KindQuery}},
		{"whitespace only", "   ", Intent{Kind: KindQuery}},
		{"case insensitive", "SETUP", Intent{Kind: KindOnboardingStart}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

// Priority ties are decided by rule order, not keyword specificity.
func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		// 個人資料設定 contains both a profile-view keyword (個人資料) and an
		// onboarding keyword; onboarding wins because it ranks higher.
		{"onboarding beats profile view", "個人資料設定", KindOnboardingStart},
		// 我的檔案 matches both personal-mode and list keywords; without a
		// mode signal word the switch rule does not fire.
		{"list without mode signal", "我的檔案", KindListDocuments},
		// A mode signal plus mode keyword outranks mode query.
		{"switch beats mode query", "切換個人模式", KindModeSwitch},
		// 模式 embedded in a longer utterance is not an exact mode query.
		{"mode substring falls through", "請問知識庫模式是什麼意思呢", KindModeSwitch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text); got.Kind != tt.want {
				t.Errorf("Classify(%q).Kind = %q, want %q", tt.text, got.Kind, tt.want)
			}
		})
	}
}

func TestClassifyModeSwitchNeedsBothSignals(t *testing.T) {
	// Mentioning a mode name without 切換/模式/mode/switch is a free query.
	got := Classify("知識庫裡有什麼")
	if got.Kind != KindQuery {
		t.Errorf("Classify = %+v, want free-form query", got)
	}
}
