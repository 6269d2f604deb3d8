package nodetree

import (
	"testing"
	"time"
)

var (
	identMain     = Ident{File: "/srv/bank/main.go", Name: "main"}
	identTransfer = Ident{File: "/srv/bank/bank.go", Name: "transfer"}
	identWithdraw = Ident{File: "/srv/bank/bank.go", Name: "withdraw"}
	identAudit    = Ident{File: "/srv/bank/audit.go", Name: "audit"}
)

func TestIdentKey(t *testing.T) {
	if got, want := identTransfer.Key(), FuncID("/srv/bank/bank.go::transfer"); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNewNode(t *testing.T) {
	n := NewNode(identTransfer)
	if n.FileName != "bank.go" {
		t.Errorf("file name: got %q, want %q", n.FileName, "bank.go")
	}
	if n.FileFunctionName() != "bank.go::transfer" {
		t.Errorf("file function name: got %q", n.FileFunctionName())
	}
	if n.InstanceID == "" {
		t.Error("instance id should be set")
	}
	if other := NewNode(identTransfer); other.InstanceID == n.InstanceID {
		t.Error("instance ids should be unique per node")
	}
}

func TestAddChild(t *testing.T) {
	parent := NewNode(identTransfer)
	child := NewNode(identWithdraw)

	parent.AddChild(child)
	parent.AddChild(child)
	if len(parent.Children) != 1 {
		t.Fatalf("edges must be deduplicated by identity, got %d", len(parent.Children))
	}

	// recursion increments stats on the same node, it never records a
	// self edge
	parent.AddChild(parent)
	if len(parent.Children) != 1 {
		t.Fatalf("a node must never be its own child, got %d children", len(parent.Children))
	}

	sameIdentity := NewNode(identWithdraw)
	parent.AddChild(sameIdentity)
	if len(parent.Children) != 1 {
		t.Fatal("identity equality, not instance identity, governs edge dedup")
	}
}

func TestRecordAndSelfTime(t *testing.T) {
	n := NewNode(identTransfer)
	n.Record(10 * time.Millisecond)
	n.Record(5 * time.Millisecond)
	if n.Called != 2 {
		t.Errorf("call count: got %d, want 2", n.Called)
	}
	if n.Duration != 15*time.Millisecond {
		t.Errorf("inclusive duration: got %v, want 15ms", n.Duration)
	}
	n.ChildTime = 6 * time.Millisecond
	if n.SelfTime() != 9*time.Millisecond {
		t.Errorf("self time: got %v, want 9ms", n.SelfTime())
	}
	if n.SelfTime() > n.Duration {
		t.Error("inclusive duration must not be below exclusive duration")
	}
}

func TestCalledNodes(t *testing.T) {
	called := NewNode(identMain)
	called.Record(time.Millisecond)
	idle := NewNode(identAudit)
	got := CalledNodes([]*Node{called, idle})
	if len(got) != 1 || got[0] != called {
		t.Fatalf("want only the called node, got %d nodes", len(got))
	}
}

func TestGroupByFile(t *testing.T) {
	main := NewNode(identMain)
	transfer := NewNode(identTransfer)
	audit := NewNode(identAudit)
	withdraw := NewNode(identWithdraw)

	rows := GroupByFile([]*Node{main, transfer, audit, withdraw})
	if len(rows) != 3 {
		t.Fatalf("want 3 file rows, got %d", len(rows))
	}
	wantFiles := []string{"/srv/bank/main.go", "/srv/bank/bank.go", "/srv/bank/audit.go"}
	for i, row := range rows {
		if row[0].FilePath != wantFiles[i] {
			t.Errorf("row %d: got file %q, want %q (first-seen order)", i, row[0].FilePath, wantFiles[i])
		}
	}
	if len(rows[1]) != 2 {
		t.Errorf("bank.go row should hold transfer and withdraw, got %d nodes", len(rows[1]))
	}
}

func TestMaxDuration(t *testing.T) {
	a := NewNode(identMain)
	a.Record(3 * time.Millisecond)
	b := NewNode(identTransfer)
	b.Record(7 * time.Millisecond)
	if got := MaxDuration([]*Node{a, b}); got != 7*time.Millisecond {
		t.Fatalf("got %v, want 7ms", got)
	}
	if got := MaxDuration(nil); got != 0 {
		t.Fatalf("got %v, want 0 for empty input", got)
	}
}
