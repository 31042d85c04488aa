package extract

import (
	"bytes"
	"strings"

	pdf "github.com/ledongthuc/pdf"

	appErrors "github.com/unicollab/study-api/pkg/errors"
)

// MinReadableLength is the trimmed-text threshold below which a document is
// treated as unreadable. Scanned/image-only PDFs with no selectable text
// fall under it.
const MinReadableLength = 50

// Text extracts plain text from PDF bytes. It fails with a typed extraction
// error when the bytes are not a parseable PDF or when the extracted text is
// too short to be usable. No partial output is returned on failure.
func Text(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	doc, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrExtraction.Code, appErrors.ErrExtraction.Status, "document could not be parsed")
	}

	var builder strings.Builder
	total := doc.NumPage()
	for page := 1; page <= total; page++ {
		p := doc.Page(page)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrExtraction.Code, appErrors.ErrExtraction.Status, "document could not be parsed")
		}
		builder.WriteString(content)
		builder.WriteString("\n")
	}

	text := strings.TrimSpace(builder.String())
	if len(text) < MinReadableLength {
		return "", appErrors.Clone(appErrors.ErrExtraction, "document is empty or unreadable")
	}
	return text, nil
}
