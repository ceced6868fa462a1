package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/akolanti/DocGateway/internal/adapter"
	"github.com/akolanti/DocGateway/internal/adapter/utils"
	"github.com/akolanti/DocGateway/internal/api"
)

func GetHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"

	objectsHealthy := true
	if err := handlerInstance.objects.Healthy(r.Context()); err != nil {
		logRH.Warn("Object store health check failed", "error", err)
		objectsHealthy = false
		status = "degraded"
	}

	// The job listing exercises the same backend as every document read.
	storeHealthy := true
	if _, err := handlerInstance.jobs.ListRunningJobs(r.Context()); err != nil {
		logRH.Warn("Record store health check failed", "error", err)
		storeHealthy = false
		status = "degraded"
	}

	writeJsonResponse(w, http.StatusOK, api.HealthResponse{
		Status:      status,
		ObjectStore: objectsHealthy,
		RecordStore: storeHealthy,
	})
}

// UploadHandler godoc
// @Summary      Request a presigned upload
// @Description  Validates the file metadata, registers a pending document and returns a presigned PUT url the client uploads the bytes to.
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        request  body      api.UploadRequest   true  "File metadata"
// @Success      200      {object}  api.UploadResponse  "Presigned upload grant"
// @Failure      400      {object}  api.ErrorResponse   "Invalid file metadata"
// @Failure      502      {object}  api.ErrorResponse   "Object storage unavailable"
// @Router       /upload [post]
func UploadHandler(w http.ResponseWriter, request *http.Request) {

	if validateContext(request.Context()) {

		var requestData api.UploadRequest
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logRH.Error("Couldn't close the upload handler reader :", "error", err)
			}
		}(request.Body)
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil {
			logRH.Warn("Bad Upload Request: ", "error:", err)
			WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
			return
		}

		grant, err := handlerInstance.upload.RequestUpload(request.Context(), requestData.FileName, requestData.ContentType, requestData.FileSize)
		if err != nil {
			writeAppError(w, err)
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToUploadResponse(grant))
		return
	}
	logRH.Warn("Invalid Context by request ", "remoteAddr", request.RemoteAddr)
}

// ListDocumentsHandler godoc
// @Summary      List tracked documents
// @Description  Returns every tracked document, newest first, optionally filtered by lifecycle status.
// @Tags         Documents
// @Produce      json
// @Param        status  query     string  false  "Filter by status (pending, uploaded, processing, indexed, failed)"
// @Success      200     {object}  api.DocumentListResponse
// @Failure      400     {object}  api.ErrorResponse  "Unknown status filter"
// @Router       /documents [get]
func ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		docs, err := handlerInstance.tracker.ListDocuments(r.Context(), r.URL.Query().Get("status"))
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJsonResponse(w, http.StatusOK, adapter.ToDocumentListResponse(docs))
	}
}

// GetDocumentStatusHandler godoc
// @Summary      Get one document
// @Description  Retrieves a single tracked document with its lifecycle status.
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  api.DocumentResponse
// @Failure      404  {object}  api.ErrorResponse  "Unknown document"
// @Router       /documents/{id}/status [get]
func GetDocumentStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		idString := utils.GetChiURLParam(r, "id")

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		doc, err := handlerInstance.tracker.GetDocument(r.Context(), idString)
		if err != nil {
			writeAppError(w, err)
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToDocumentResponse(doc))
	}
}

// DeleteDocumentHandler godoc
// @Summary      Delete a document
// @Description  Removes the tracking record, the stored object and the indexed vectors.
// @Tags         Documents
// @Param        id   path  string  true  "Document ID"
// @Success      204  "Deleted"
// @Failure      404  {object}  api.ErrorResponse  "Unknown document"
// @Router       /documents/{id} [delete]
func DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		idString := utils.GetChiURLParam(r, "id")

		if err := handlerInstance.tracker.DeleteDocument(r.Context(), idString); err != nil {
			writeAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// QueryHandler godoc
// @Summary      Query the knowledge base
// @Description  Retrieves relevant passages and generates an answer with source attribution.
// @Tags         Query
// @Accept       json
// @Produce      json
// @Param        request  body      api.QueryRequest   true  "Question and retrieval options"
// @Success      200      {object}  api.QueryResponse
// @Failure      400      {object}  api.ErrorResponse  "Invalid question"
// @Failure      502      {object}  api.ErrorResponse  "Engine unavailable"
// @Router       /query [post]
func QueryHandler(w http.ResponseWriter, request *http.Request) {
	if validateContext(request.Context()) {

		var requestData api.QueryRequest
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logRH.Error("Couldn't close the query handler reader :", "error", err)
			}
		}(request.Body)
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil {
			logRH.Warn("Bad Query Request: ", "error:", err)
			WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
			return
		}

		answer, err := handlerInstance.query.Query(request.Context(), requestData.Question, requestData.TopK)
		if err != nil {
			writeAppError(w, err)
			return
		}

		includeSources := requestData.IncludeSources == nil || *requestData.IncludeSources
		writeJsonResponse(w, http.StatusOK, adapter.ToQueryResponse(requestData.Question, requestData.TopK, includeSources, answer))
		return
	}
	logRH.Warn("Invalid Context by request ", "remoteAddr", request.RemoteAddr)
}

// QueryStatusHandler godoc
// @Summary      Knowledge base status
// @Description  Combines the engine description with document statistics into a readiness summary.
// @Tags         Query
// @Produce      json
// @Success      200  {object}  api.KBStatusResponse
// @Router       /query/status [get]
func QueryStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		desc := handlerInstance.engine.Describe(r.Context())

		stats, err := handlerInstance.tracker.GetStats(r.Context())
		if err != nil {
			writeAppError(w, err)
			return
		}

		latestJobStatus := ""
		totalJobs := 0
		if running, err := handlerInstance.jobs.ListRunningJobs(r.Context()); err == nil {
			totalJobs = len(running)
			if len(running) > 0 {
				latestJobStatus = string(running[0].Status)
			}
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToKBStatusResponse(desc, stats, latestJobStatus, totalJobs))
	}
}

// StatsHandler godoc
// @Summary      Document statistics
// @Description  Aggregates document counts by status and file type.
// @Tags         Documents
// @Produce      json
// @Success      200  {object}  api.StatsResponse
// @Router       /stats [get]
func StatsHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		stats, err := handlerInstance.tracker.GetStats(r.Context())
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJsonResponse(w, http.StatusOK, adapter.ToStatsResponse(stats))
	}
}

// ObjectCreatedHandler godoc
// @Summary      Object-store upload notification
// @Description  Marks the matching document uploaded and schedules ingestion. Safe under at-least-once delivery.
// @Tags         Events
// @Accept       json
// @Param        event  body  api.ObjectCreatedEvent  true  "Created object key"
// @Success      202    "Accepted"
// @Failure      400    {object}  api.ErrorResponse  "Malformed event"
// @Router       /events/object-created [post]
func ObjectCreatedHandler(w http.ResponseWriter, request *http.Request) {
	if validateContext(request.Context()) {

		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logRH.Error("Couldn't close the event handler reader :", "error", err)
			}
		}(request.Body)

		raw, err := io.ReadAll(request.Body)
		if err != nil {
			logRH.Warn("Reading object-created event failed: ", "error:", err)
			WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
			return
		}

		// Notifications arrive directly from the store or forwarded through
		// a gateway that wraps them in a statusCode/body envelope.
		event, err := decodeObjectEvent(raw)
		if err != nil || event.Key == "" {
			logRH.Warn("Bad object-created event: ", "error:", err)
			WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
			return
		}

		if err := handlerInstance.trigger.OnObjectCreated(request.Context(), event.Key); err != nil {
			writeAppError(w, err)
			return
		}

		w.WriteHeader(http.StatusAccepted)
		return
	}
	logRH.Warn("Invalid Context by request ", "remoteAddr", request.RemoteAddr)
}
