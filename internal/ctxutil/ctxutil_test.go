package ctxutil

import (
	"context"
	"testing"
	"time"
)

func TestValues(t *testing.T) {
	ctx := context.Background()
	if _, ok := TeacherID(ctx); ok {
		t.Fatal("empty context has no teacher")
	}
	ctx = WithOp(WithTeacherID(ctx, "T1"), "roster")
	if id, _ := TeacherID(ctx); id != "T1" {
		t.Fatalf("teacher = %q", id)
	}
	if op, _ := Op(ctx); op != "roster" {
		t.Fatalf("op = %q", op)
	}
}

func TestWithDBTimeout_RespectsParentDeadline(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ctx, c2 := WithDBTimeout(parent)
	defer c2()
	dl, _ := ctx.Deadline()
	if time.Until(dl) > time.Second {
		t.Fatal("db deadline exceeds parent")
	}

	ctx, c3 := WithDBTimeout(context.Background())
	defer c3()
	if dl, ok := ctx.Deadline(); !ok || time.Until(dl) > DefaultDBTimeout {
		t.Fatal("default db timeout not applied")
	}
}

func TestWithTimeout_Zero(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), 0)
	defer cancel()
	if _, ok := ctx.Deadline(); ok {
		t.Fatal("zero timeout must not set a deadline")
	}
}
