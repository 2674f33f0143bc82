package vectorstore

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"sort"

	"github.com/MilanLasica/DrugsDataroom/internal/domain"
)

// UploadID derives a document id from a filename alone. Two different files
// with the same name share an id; listings built from the upload directory
// inherit that collision.
func UploadID(filename string) string {
	sum := md5.Sum([]byte(filename))
	return hex.EncodeToString(sum[:])
}

// scanUploads lists the .pdf files of dir in name order. A missing directory
// yields an empty list.
func scanUploads(dir string) ([]domain.DocumentSummary, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.DocumentSummary{}, nil
	}
	if err != nil {
		return nil, err
	}

	docs := make([]domain.DocumentSummary, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !domain.IsPDFName(e.Name()) {
			continue
		}
		docs = append(docs, domain.DocumentSummary{DocumentID: UploadID(e.Name()), Filename: e.Name()})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Filename < docs[j].Filename })
	return docs, nil
}
