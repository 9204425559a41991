package models

import "time"

const ExportFormatCSV = "csv"

// Export is a rendered inquiry stored in object storage
type Export struct {
	ID        int       `json:"id"`
	InquiryID int       `json:"inquiryId"`
	ObjectKey string    `json:"objectKey"`
	Format    string    `json:"format"`
	SizeBytes int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}

// ExportResponse pairs an export with a temporary download URL
type ExportResponse struct {
	Export
	DownloadURL string `json:"downloadUrl"`
}
