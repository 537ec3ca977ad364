package dto

// PublishIngestDocumentMessage is the payload published to the ingest topic
// when a file event arrives. The consumer fetches the content, uploads it to
// the resolved store and pushes the outcome back to the user.
type PublishIngestDocumentMessage struct {
	UserId      string `json:"user_id"`
	SourceKind  string `json:"source_kind"`
	SourceId    string `json:"source_id"`
	LogicalName string `json:"logical_name"`
	FileId      string `json:"file_id"`
	FileName    string `json:"file_name"`
}
