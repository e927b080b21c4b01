package validators

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrFileEmpty  = errors.New("uploaded file is empty")
	ErrFileNotPDF = errors.New("only PDF files are allowed")
)

// PDFValidator opens the uploaded file and sniffs its actual content type
// instead of trusting the client-supplied one. The returned file is rewound
// and ready to be stored.
func PDFValidator(fh *multipart.FileHeader) (multipart.File, error) {
	if fh.Size == 0 {
		return nil, ErrFileEmpty
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file, %w", err)
	}

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to detect file type, %w", err)
	}

	if !mtype.Is("application/pdf") {
		f.Close()
		return nil, ErrFileNotPDF
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}
