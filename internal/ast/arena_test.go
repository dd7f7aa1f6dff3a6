package ast

import (
	"testing"

	"github.com/psrlang/psr/internal/token"
)

func TestArenaAlloc(t *testing.T) {
	arena := NewArena(0)

	ident := arena.NewIdentifier(token.Token{
		Type:    token.IDENT,
		Literal: "count",
		Pos:     token.Position{Line: 1, Column: 1},
	})
	if ident.Name != "count" {
		t.Errorf("expected name count, got %s", ident.Name)
	}

	stats := arena.Stats()
	if stats.ChunkCount != 1 {
		t.Errorf("expected 1 chunk, got %d", stats.ChunkCount)
	}
	if stats.UsedBytes == 0 {
		t.Error("expected non-zero used bytes")
	}
}

func TestArenaGrow(t *testing.T) {
	// 很小的块，强制多次增长
	arena := NewArena(64)
	for i := 0; i < 100; i++ {
		arena.NewIdentifier(token.Token{Type: token.IDENT, Literal: "x"})
	}
	stats := arena.Stats()
	if stats.ChunkCount < 2 {
		t.Errorf("expected multiple chunks, got %d", stats.ChunkCount)
	}
}

func TestArenaResetZeroesReusedMemory(t *testing.T) {
	arena := NewArena(0)

	first := arena.NewIdentifier(token.Token{Type: token.IDENT, Literal: "dirty"})
	first.Name = "dirty"

	arena.Reset()

	// 复用同一块内存，新节点的字段必须是零值再被工厂填充
	second := AllocType[Identifier](arena)
	if second.Name != "" {
		t.Errorf("expected zeroed allocation after Reset, got name %q", second.Name)
	}
	if second.Token.Literal != "" {
		t.Errorf("expected zeroed token after Reset, got %q", second.Token.Literal)
	}
}

func TestArenaResetKeepsFirstChunk(t *testing.T) {
	arena := NewArena(64)
	for i := 0; i < 100; i++ {
		arena.NewIdentifier(token.Token{Type: token.IDENT, Literal: "x"})
	}
	arena.Reset()
	stats := arena.Stats()
	if stats.ChunkCount != 1 {
		t.Errorf("expected 1 chunk after reset, got %d", stats.ChunkCount)
	}
	if stats.UsedBytes != 0 {
		t.Errorf("expected 0 used bytes after reset, got %d", stats.UsedBytes)
	}
}

func TestArenaFree(t *testing.T) {
	arena := NewArena(0)
	arena.NewIdentifier(token.Token{Type: token.IDENT, Literal: "x"})
	arena.Free()
	stats := arena.Stats()
	if stats.ChunkCount != 0 || stats.TotalBytes != 0 {
		t.Errorf("expected empty arena after Free, got %+v", stats)
	}
}
