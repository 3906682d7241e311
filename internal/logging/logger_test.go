package logging

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Spok95/smartschool/internal/ctxutil"
)

func TestInit_FallsBackToInfo(t *testing.T) {
	l, err := Init("nonsense", "prod")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Closer()
	if l.Level.Level() != zap.InfoLevel {
		t.Fatalf("level = %v", l.Level.Level())
	}
}

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	ctx := ctxutil.WithOp(ctxutil.WithTeacherID(context.Background(), "T1"), "resolve")
	FromContext(ctx, zap.New(core)).Info("tick")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["teacher_id"] != "T1" || fields["op"] != "resolve" {
		t.Fatalf("fields = %v", fields)
	}
}
