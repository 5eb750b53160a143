package diagfmt

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"lazy/internal/diag"
	"lazy/internal/source"
)

// fixEditPreview holds the whole lines touched by an edit, before and after.
type fixEditPreview struct {
	before []string
	after  []string
}

func buildFixEditPreview(fs *source.FileSet, edit diag.FixEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, errors.New("nil FileSet")
	}
	if int(edit.Span.File) >= fs.Len() {
		return fixEditPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	content := fs.Get(edit.Span.File).Content
	start, end := int(edit.Span.Start), int(edit.Span.End)
	if start > len(content) || end > len(content) || end < start {
		return fixEditPreview{}, fmt.Errorf("edit span %d..%d out of range for %d bytes", start, end, len(content))
	}

	from, to := lineBlock(content, start, end)
	original := content[from:to]

	var after bytes.Buffer
	after.Grow(len(original) + len(edit.NewText))
	after.Write(content[from:start])
	after.WriteString(edit.NewText)
	after.Write(content[end:to])

	return fixEditPreview{
		before: splitPreviewLines(original),
		after:  splitPreviewLines(after.Bytes()),
	}, nil
}

// lineBlock widens [start, end) to whole lines, trailing newline included.
func lineBlock(content []byte, start, end int) (from, to int) {
	from = bytes.LastIndexByte(content[:start], '\n') + 1
	nl := bytes.IndexByte(content[end:], '\n')
	if nl < 0 {
		return from, len(content)
	}
	return from, end + nl + 1
}

func splitPreviewLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	// финальный перевод строки не даёт лишней пустой строки
	return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
}
