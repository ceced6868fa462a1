package api

// requests---------------------

type UploadRequest struct {
	FileName    string `json:"filename" validate:"required" example:"report.pdf"`
	ContentType string `json:"contentType" example:"application/pdf"`
	FileSize    int64  `json:"fileSize" validate:"required" example:"204800"`
}

type QueryRequest struct {
	Question       string `json:"question" validate:"required" example:"What does the onboarding guide say about VPN access?"`
	TopK           int    `json:"top_k,omitempty" example:"5"`
	IncludeSources *bool  `json:"include_sources,omitempty"`
}

// ObjectCreatedEvent is the storage notification delivered after a client
// finishes a presigned upload.
type ObjectCreatedEvent struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key" validate:"required"`
}

// responses--------------------

type UploadResponse struct {
	Success   bool   `json:"success"`
	UploadUrl string `json:"uploadUrl"`
	FileId    string `json:"fileId"`
	S3Key     string `json:"s3Key"`
	Bucket    string `json:"bucket"`
	ExpiresIn int    `json:"expiresIn"`
	Message   string `json:"message,omitempty"`
}

type DocumentMetadata struct {
	OriginalFilename string `json:"original_filename"`
	ContentType      string `json:"content_type"`
	FileSize         int64  `json:"file_size"`
}

type DocumentResponse struct {
	Id            string           `json:"id"`
	Name          string           `json:"name"`
	Size          int64            `json:"size"`
	Type          string           `json:"type"`
	Status        string           `json:"status"`
	UploadDate    string           `json:"upload_date"`
	ProcessedDate *string          `json:"processed_date"`
	S3Key         string           `json:"s3_key"`
	ErrorDetail   string           `json:"error_detail,omitempty"`
	Metadata      DocumentMetadata `json:"metadata"`
}

type ListMetadata struct {
	Total     int    `json:"total"`
	Timestamp string `json:"timestamp"`
}

type DocumentListResponse struct {
	Success  bool               `json:"success"`
	Data     []DocumentResponse `json:"data"`
	Metadata ListMetadata       `json:"metadata"`
}

type SourceResponse struct {
	Content    string  `json:"content"`
	Document   string  `json:"document"`
	Confidence float32 `json:"confidence"`
}

type QueryMetadata struct {
	TopK           int     `json:"top_k"`
	ModelUsed      string  `json:"model_used"`
	ProcessingTime float64 `json:"processing_time"`
}

type QueryResponse struct {
	Success  bool             `json:"success"`
	Question string           `json:"question"`
	Answer   string           `json:"answer"`
	Sources  []SourceResponse `json:"sources"`
	Metadata QueryMetadata    `json:"metadata"`
}

type KnowledgeBaseInfo struct {
	Id           string `json:"id"`
	Name         string `json:"name"`
	Status       string `json:"status"`
	DataSourceId string `json:"dataSourceId"`
}

type StatusSummary struct {
	LatestJobStatus       string `json:"latestJobStatus,omitempty"`
	TotalDocumentsIndexed int    `json:"totalDocumentsIndexed"`
	TotalChunksIndexed    int64  `json:"totalChunksIndexed"`
	TotalJobs             int    `json:"totalJobs"`
	HasAnySuccessfulJobs  bool   `json:"hasAnySuccessfulJobs"`
}

type KBStatusResponse struct {
	Success       bool              `json:"success"`
	KnowledgeBase KnowledgeBaseInfo `json:"knowledgeBase"`
	SystemReady   bool              `json:"systemReady"`
	ReadyMessage  string            `json:"readyMessage"`
	HasDocuments  bool              `json:"hasDocuments"`
	Summary       StatusSummary     `json:"summary"`
	Timestamp     string            `json:"timestamp"`
}

type StatsResponse struct {
	Success          bool           `json:"success"`
	TotalDocuments   int            `json:"totalDocuments"`
	IndexedDocuments int            `json:"indexedDocuments"`
	TotalSizeBytes   int64          `json:"totalSizeBytes"`
	ByStatus         map[string]int `json:"byStatus"`
	ByFileType       map[string]int `json:"byFileType"`
	Timestamp        string         `json:"timestamp"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	ObjectStore bool   `json:"objectStore"`
	RecordStore bool   `json:"recordStore"`
}

// errors-----------------------

type ErrorBody struct {
	Code    string `json:"code" example:"VALIDATION_ERROR"`
	Message string `json:"message" example:"fileName is required"`
}

type ErrorResponse struct {
	Success   bool      `json:"success"`
	Error     ErrorBody `json:"error"`
	Timestamp string    `json:"timestamp"`
}
