package util

const (
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageInline = "inline"
	StorageLocal  = "local"
	StorageMinio  = "minio"
)

const (
	MimePDF = "application/pdf"
)
