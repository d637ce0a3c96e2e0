package util

import (
	"encoding/base64"
	"fmt"
	"io"

	"praktikmaal_backend/internal/model"
)

// OversizeAttachmentBytes is the soft cap above which callers must ask the
// user for an explicit confirmation before storing the file.
const OversizeAttachmentBytes = 4 * 1024 * 1024

// EncodeAttachment reads every byte from r and packs it into a portable
// Attachment record with the content as standard base64 text. The codec
// enforces no size limit; policy belongs to the caller.
func EncodeAttachment(name, mimeType string, r io.Reader) (*model.Attachment, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAttachmentRead, err)
	}

	return &model.Attachment{
		Name: name,
		Size: int64(len(raw)),
		Type: mimeType,
		Data: base64.StdEncoding.EncodeToString(raw),
	}, nil
}

// DecodeAttachment reverses EncodeAttachment losslessly.
func DecodeAttachment(a *model.Attachment) ([]byte, error) {
	if a == nil {
		return nil, ErrNoAttachment
	}
	raw, err := base64.StdEncoding.DecodeString(a.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAttachmentRead, err)
	}
	return raw, nil
}

// FormatFileSize renders a byte count the way the supervisor view shows it.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	const k = 1024
	units := []string{"B", "KB", "MB", "GB"}
	size := float64(bytes)
	i := 0
	for size >= k && i < len(units)-1 {
		size /= k
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d B", bytes)
	}
	return fmt.Sprintf("%.2f %s", size, units[i])
}
