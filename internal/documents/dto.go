package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	DocumentID  string     `json:"documentId"`
	Name        string     `json:"name"`
	Kind        string     `json:"kind"`
	SizeBytes   int64      `json:"sizeBytes,omitempty"`
	VideoURL    string     `json:"videoUrl,omitempty"`
	FolderID    string     `json:"folderId,omitempty"`
	Status      string     `json:"status"`
	ErrorCode   string     `json:"errorCode,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID:  doc.ID,
		Name:        doc.Name,
		Kind:        doc.Kind,
		SizeBytes:   doc.SizeBytes,
		VideoURL:    doc.VideoURL,
		FolderID:    doc.FolderID,
		Status:      doc.Status,
		ErrorCode:   doc.ErrorCode,
		CreatedAt:   doc.CreatedAt,
		ProcessedAt: doc.ProcessedAt,
	}
}
