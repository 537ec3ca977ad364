package genai

// Store is a file search store as returned by the API. Name is the
// API-assigned resource name (fileSearchStores/...); DisplayName is the
// caller-chosen label and the only caller-controlled correlation key.
type Store struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// Document is a file indexed inside a store.
type Document struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	CreateTime  string `json:"createTime"`
	UpdateTime  string `json:"updateTime"`
}

// Operation is a long-running upload operation handle.
type Operation struct {
	Name string `json:"name"`
	Done bool   `json:"done"`
}

type listStoresResponse struct {
	FileSearchStores []Store `json:"fileSearchStores"`
	NextPageToken    string  `json:"nextPageToken"`
}

type listDocumentsResponse struct {
	Documents     []Document `json:"documents"`
	NextPageToken string     `json:"nextPageToken"`
}

type createStoreRequest struct {
	DisplayName string `json:"displayName"`
}

type fileSearchTool struct {
	FileSearchStoreNames []string `json:"file_search_store_names"`
}

type generateTool struct {
	FileSearch *fileSearchTool `json:"file_search,omitempty"`
}

type generationConfig struct {
	Temperature float32 `json:"temperature"`
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []*generatePart `json:"parts"`
	Role  string          `json:"role,omitempty"`
}

type generateRequest struct {
	Contents         []*generateContent `json:"contents"`
	Tools            []*generateTool    `json:"tools,omitempty"`
	GenerationConfig *generationConfig  `json:"generationConfig,omitempty"`
}

type generateCandidate struct {
	Content *generateContent `json:"content"`
}

type generateResponse struct {
	Candidates []*generateCandidate `json:"candidates"`
}
