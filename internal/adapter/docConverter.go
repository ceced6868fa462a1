package adapter

import (
	"fmt"
	"strconv"
	"time"

	"github.com/akolanti/DocGateway/internal/api"
	"github.com/akolanti/DocGateway/internal/apperror"
	"github.com/akolanti/DocGateway/internal/config"
	"github.com/akolanti/DocGateway/internal/domain/docModel"
	"github.com/akolanti/DocGateway/internal/engine"
	"github.com/akolanti/DocGateway/internal/query"
	"github.com/akolanti/DocGateway/internal/tracker"
	"github.com/akolanti/DocGateway/internal/upload"
)

func ToUploadResponse(grant upload.UploadGrant) api.UploadResponse {
	return api.UploadResponse{
		Success:   true,
		UploadUrl: grant.UploadURL,
		FileId:    grant.DocumentId,
		S3Key:     grant.StorageKey,
		Bucket:    grant.Bucket,
		ExpiresIn: grant.ExpiresIn,
		Message:   fmt.Sprintf("Presigned URL generated successfully, please complete upload within %d minutes", grant.ExpiresIn/60),
	}
}

func ToDocumentResponse(doc docModel.Document) api.DocumentResponse {
	var processed *string
	if !doc.IndexedAt.IsZero() {
		s := doc.IndexedAt.Format(time.RFC3339)
		processed = &s
	}

	return api.DocumentResponse{
		Id:            doc.Id,
		Name:          doc.OriginalFilename,
		Size:          doc.SizeBytes,
		Type:          doc.ContentType,
		Status:        string(doc.Status),
		UploadDate:    doc.UploadedAt.Format(time.RFC3339),
		ProcessedDate: processed,
		S3Key:         doc.StorageKey,
		ErrorDetail:   doc.ErrorDetail,
		Metadata: api.DocumentMetadata{
			OriginalFilename: doc.OriginalFilename,
			ContentType:      doc.ContentType,
			FileSize:         doc.SizeBytes,
		},
	}
}

func ToDocumentListResponse(docs []docModel.Document) api.DocumentListResponse {
	out := make([]api.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, ToDocumentResponse(doc))
	}
	return api.DocumentListResponse{
		Success:  true,
		Data:     out,
		Metadata: api.ListMetadata{Total: len(out), Timestamp: nowTimestamp()},
	}
}

func ToQueryResponse(question string, topK int, includeSources bool, answer query.Answer) api.QueryResponse {
	sources := []api.SourceResponse{}
	if includeSources {
		for _, s := range answer.Sources {
			sources = append(sources, api.SourceResponse{
				Content:    s.ContentSnippet,
				Document:   s.DocumentReference,
				Confidence: s.ConfidenceScore,
			})
		}
	}

	return api.QueryResponse{
		Success:  true,
		Question: question,
		Answer:   answer.Answer,
		Sources:  sources,
		Metadata: api.QueryMetadata{
			TopK:           topK,
			ModelUsed:      answer.Metadata.ModelId,
			ProcessingTime: float64(answer.Metadata.LatencyMs) / 1000,
		},
	}
}

func ToKBStatusResponse(desc engine.Description, stats tracker.Stats, latestJobStatus string, totalJobs int) api.KBStatusResponse {
	chunks := desc.ChunksIndexed
	if !desc.ChunkCountExact {
		// The index cannot be counted right now, fall back to an estimate.
		chunks = int64(stats.IndexedDocuments) * config.ChunksPerDocumentEstimate
	}

	hasDocuments := stats.IndexedDocuments > 0
	systemReady := desc.Status == "ACTIVE" && hasDocuments

	readyMessage := "System is not ready yet."
	switch {
	case desc.Status != "ACTIVE":
		readyMessage = fmt.Sprintf("Knowledge Base status abnormal: %s", desc.Status)
	case systemReady:
		readyMessage = fmt.Sprintf("System ready, %d documents indexed.", stats.IndexedDocuments)
	case latestJobStatus == string(docModel.JobStatusRunning):
		readyMessage = "Documents are being processed, please wait."
	case stats.TotalDocuments == 0:
		readyMessage = "Knowledge Base is empty, upload documents to get started."
	}

	return api.KBStatusResponse{
		Success: true,
		KnowledgeBase: api.KnowledgeBaseInfo{
			Id:           desc.KnowledgeBaseId,
			Name:         desc.Name,
			Status:       desc.Status,
			DataSourceId: desc.DataSourceId,
		},
		SystemReady:  systemReady,
		ReadyMessage: readyMessage,
		HasDocuments: hasDocuments,
		Summary: api.StatusSummary{
			LatestJobStatus:       latestJobStatus,
			TotalDocumentsIndexed: stats.IndexedDocuments,
			TotalChunksIndexed:    chunks,
			TotalJobs:             totalJobs,
			HasAnySuccessfulJobs:  hasDocuments,
		},
		Timestamp: nowTimestamp(),
	}
}

func ToStatsResponse(stats tracker.Stats) api.StatsResponse {
	byStatus := make(map[string]int, len(stats.ByStatus))
	for status, count := range stats.ByStatus {
		byStatus[string(status)] = count
	}

	return api.StatsResponse{
		Success:          true,
		TotalDocuments:   stats.TotalDocuments,
		IndexedDocuments: stats.IndexedDocuments,
		TotalSizeBytes:   stats.TotalSizeBytes,
		ByStatus:         byStatus,
		ByFileType:       stats.ByFileType,
		Timestamp:        nowTimestamp(),
	}
}

func ToErrorResponse(err error) (int, api.ErrorResponse) {
	kind := apperror.KindOf(err)

	return apperror.HTTPStatus(kind), api.ErrorResponse{
		Success: false,
		Error: api.ErrorBody{
			Code:    string(kind),
			Message: apperror.SafeMessage(err),
		},
		Timestamp: nowTimestamp(),
	}
}

func BadRequest(code string, message string) api.ErrorResponse {
	return api.ErrorResponse{
		Success: false,
		Error: api.ErrorBody{
			Code:    code,
			Message: message,
		},
		Timestamp: nowTimestamp(),
	}
}

func nowTimestamp() string {
	return strconv.FormatInt(time.Now().Unix(), 10)
}
