package testkit

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"lazy/internal/ast"
	"lazy/internal/source"
)

// CheckSpanInvariants runs the span invariants on a parsed file:
// 1) file.Span lies within the file content
// 2) every top-level statement is inside file.Span
// 3) every child node span is inside its parent's span
//
// Empty child spans are skipped: recovery may leave zero-width placeholders.
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return errors.New("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node %d not found", fileID)
	}

	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End > lenContent {
		return fmt.Errorf("file span end beyond content: %d > %d", f.Span.End, lenContent)
	}
	if len(f.Stmts) > 0 && f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}

	var walkErr error
	b.WalkFile(fileID, func(n, parent ast.Node, _ int) bool {
		if walkErr != nil {
			return false
		}
		sp := b.Span(n)
		if sp.End < sp.Start {
			walkErr = fmt.Errorf("%s has inverted span %v", b.Label(n), sp)
			return false
		}
		if parent.Kind == ast.NodeNone {
			if !f.Span.Contains(sp) {
				walkErr = fmt.Errorf("%s span %v is outside file span %v", b.Label(n), sp, f.Span)
			}
			return walkErr == nil
		}
		if sp.Empty() {
			return true
		}
		if ps := b.Span(parent); !ps.Contains(sp) {
			walkErr = fmt.Errorf("%s span %v is outside parent %s span %v", b.Label(n), sp, b.Label(parent), ps)
		}
		return walkErr == nil
	})
	return walkErr
}

// CheckSingleParent verifies that no node is reachable from two parents.
func CheckSingleParent(b *ast.Builder, fileID ast.FileID) error {
	seen := make(map[ast.Node]ast.Node)
	var walkErr error
	b.WalkFile(fileID, func(n, parent ast.Node, _ int) bool {
		if walkErr != nil {
			return false
		}
		if prev, ok := seen[n]; ok {
			walkErr = fmt.Errorf("%s #%d has two parents: %s and %s", b.Label(n), n.ID, b.Label(prev), b.Label(parent))
			return false
		}
		seen[n] = parent
		return true
	})
	return walkErr
}
