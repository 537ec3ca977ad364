package constant

// Module names used in log entries.
const (
	ModuleAssistant = "assistant"
	ModuleIngest    = "ingest"
	ModuleQuery     = "query"
	ModuleRegistry  = "registry"
)

// NoStoreGuidance is the fixed reply when a user queries before any
// document exists for their active store.
const NoStoreGuidance = "📁 您還沒有上傳任何檔案。\n\n請先傳送文件檔案（PDF、DOCX、TXT 等）給我，上傳完成後就可以開始提問了！"

// QueryErrorMessage replaces raw remote errors; the detail goes to logs.
const QueryErrorMessage = "抱歉，系統暫時無法回答您的問題，請稍後再試。"

// Mode descriptions.
const (
	KnowledgeModeDescription = "📚 知識庫模式\n使用共用醫療知識庫（糖尿病照護標準 2025）回答問題"
	PersonalModeDescription  = "📁 個人模式\n使用您上傳的個人文件回答問題"
)

const ModeSwitchedTemplate = "✅ 已切換到 %s\n\n現在可以開始提問了！"

const ModeStatusTemplate = "🔍 目前模式：\n\n%s\n\n👤 個人資料：%s\n\n💡 切換模式請輸入：\n• 「切換知識庫模式」\n• 「切換個人模式」\n\n💡 個人化衛教請輸入：\n• 「設定資料」"

const (
	ProfileStatusSet   = "✅ 已設定"
	ProfileStatusUnset = "❌ 未設定"
)

// Profile view.
const (
	ProfileViewTemplate = "📋 【您的個人資料】\n\n• 稱呼：%s\n• 年齡：%d歲\n• 性別：%s\n• 糖尿病類型：%s\n• 併發症：%s\n• 教育程度：%s\n• 目前用藥：%s\n\n💡 輸入「更新資料」可重新設定"
	ProfileMissing      = "您還沒有設定個人資料。\n\n輸入「設定資料」開始建立個人化衛教檔案。"
	ProfileUpdatePrefix = "♻️ 重新設定個人資料\n\n"
)

// PersonalizationNudge is appended once to knowledge-mode answers while
// the profile is incomplete.
const PersonalizationNudge = "\n\n💡 提示：設定個人資料後，我可以根據您的年齡、教育程度、糖尿病類型等提供更適合您的建議。\n\n輸入「設定資料」開始個人化設定。"

// Document handling replies.
const (
	UploadProcessing      = "正在處理您的檔案，請稍候..."
	UploadSuccessTemplate = "✅ 檔案已成功上傳！\n檔案名稱：%s\n\n現在您可以詢問我關於這個檔案的任何問題。"
	UploadTimeoutTemplate = "⏳ 檔案仍在處理中：%s\n\n稍後輸入「列出檔案」確認是否完成。"
	UploadFailed          = "檔案上傳失敗，請重試。"
	DownloadFailed        = "檔案下載失敗，請重試。"
	NoDocuments           = "📁 目前沒有任何文件。\n\n請先上傳文件檔案，就可以查詢囉！"
	DeleteSucceeded       = "✅ 檔案已刪除成功！\n\n如需查看剩餘檔案，請輸入「列出檔案」。"
	DeleteFailed          = "❌ 刪除檔案失敗，請稍後再試。"
	PostbackError         = "處理操作時發生錯誤。"
)

// Follow-event replies.
const (
	WelcomeBack = "👋 歡迎回來！\n\n我是您的糖尿病照護助手。\n\n您可以：\n• 詢問糖尿病相關問題（使用知識庫模式）\n• 上傳個人文件進行查詢（切換個人模式）\n• 輸入「我的資料」查看個人資料\n\n現在就開始提問吧！😊"

	WelcomeNewTemplate = "👋 您好！歡迎使用糖尿病照護助手！\n\n我可以幫助您：\n📚 解答糖尿病相關問題\n💊 提供用藥與照護建議\n📊 分析您上傳的健康文件\n\n為了提供更個人化的衛教內容，讓我先了解您的基本資料。\n\n%s"
)

// Mode indicators prefix free-form answers.
const (
	KnowledgeModeIndicator = "📚"
	PersonalModeIndicator  = "📁"
)

// PatientQuestionHeader separates the personalization preamble from the
// user's actual question.
const PatientQuestionHeader = "【患者問題】"
