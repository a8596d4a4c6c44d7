package record

import (
	"testing"

	"github.com/schriftgestalt/drawbot"
)

func TestRecordsOpsInOrder(t *testing.T) {
	b := New()
	ctx := drawbot.New(b)

	if err := ctx.NewPage(400, 300); err != nil {
		t.Fatal(err)
	}
	ctx.Save()
	red := drawbot.RGB(1, 0, 0)
	ctx.SetFill(&red)
	if err := ctx.Rect(10, 10, 100, 50); err != nil {
		t.Fatal(err)
	}
	ctx.Translate(5, 5)
	if err := ctx.Restore(); err != nil {
		t.Fatal(err)
	}
	if err := ctx.SaveImage("out.pdf", true); err != nil {
		t.Fatal(err)
	}

	want := []OpType{OpNewPage, OpSave, OpDrawPath, OpTransform, OpRestore, OpSaveImage}
	ops := b.Ops()
	if len(ops) != len(want) {
		t.Fatalf("got %d ops, want %d", len(ops), len(want))
	}
	for i, op := range ops {
		if op.Type != want[i] {
			t.Errorf("op %d = %s, want %s", i, op.Type, want[i])
		}
	}

	if ops[0].Width != 400 || ops[0].Height != 300 {
		t.Errorf("page size = %g x %g", ops[0].Width, ops[0].Height)
	}
	if got := ops[2].State.Fill; got == nil || *got != red {
		t.Errorf("recorded fill = %v, want %+v", got, red)
	}
	if ops[3].Matrix != drawbot.Translate(5, 5) {
		t.Errorf("recorded matrix = %+v", ops[3].Matrix)
	}
	if ops[5].Path != "out.pdf" || !ops[5].Multipage {
		t.Errorf("save op = %+v", ops[5])
	}
	if b.Pages() != 1 {
		t.Errorf("Pages() = %d, want 1", b.Pages())
	}
}

func TestRecordedStateIsSnapshot(t *testing.T) {
	b := New()
	ctx := drawbot.New(b)
	red := drawbot.RGB(1, 0, 0)
	ctx.SetFill(&red)
	if err := ctx.Rect(0, 0, 10, 10); err != nil {
		t.Fatal(err)
	}

	// Mutating the live state must not change the recorded op.
	blue := drawbot.RGB(0, 0, 1)
	ctx.SetFill(&blue)
	ctx.SetStrokeWidth(99)

	op := b.Ops()[0]
	if got := op.State.Fill; got == nil || *got != red {
		t.Errorf("snapshot fill = %v, want %+v", got, red)
	}
	if op.State.StrokeWidth != 1 {
		t.Errorf("snapshot stroke width = %g, want 1", op.State.StrokeWidth)
	}
}

func TestRecordedTextBox(t *testing.T) {
	b := New()
	ctx := drawbot.New(b)
	box := drawbot.Box(10, 20, 200, 100)
	if err := ctx.TextBox("hello", box, "center"); err != nil {
		t.Fatal(err)
	}
	op := b.Ops()[0]
	if op.Type != OpTextBox {
		t.Fatalf("op = %s, want TextBox", op.Type)
	}
	if op.Text.String() != "hello" || op.Box != box || op.Align != drawbot.AlignCenter {
		t.Errorf("op = %+v", op)
	}
}

func TestReset(t *testing.T) {
	b := New()
	ctx := drawbot.New(b)
	if err := ctx.NewPage(100, 100); err != nil {
		t.Fatal(err)
	}
	ctx.Reset()
	if len(b.Ops()) != 0 || b.Pages() != 0 {
		t.Errorf("after Reset: %d ops, %d pages", len(b.Ops()), b.Pages())
	}
}
