package isolation

import "testing"

func TestAllocateRejectsZeroIndex(t *testing.T) {
	if _, err := Allocate(nil, 0); err == nil {
		t.Fatal("expected error for worktree index 0")
	}
}

func TestAllocateDeterministicAndNonColliding(t *testing.T) {
	sources := []PortSource{
		{VariableName: "A", PortValue: 3000},
		{VariableName: "B", PortValue: 3000}, // duplicate original port
		{VariableName: "C", PortValue: 8080},
	}
	result, err := Allocate(sources, 1)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if len(result.Assignments) != 3 {
		t.Fatalf("expected 3 assignments, got %d", len(result.Assignments))
	}
	if result.Assignments[0].AssignedPort != result.Assignments[1].AssignedPort {
		t.Error("equal original ports must share one assignment")
	}
	if result.Assignments[0].AssignedPort != 3100 {
		t.Errorf("got %d, want 3100", result.Assignments[0].AssignedPort)
	}
	if result.Assignments[2].AssignedPort != 8180 {
		t.Errorf("got %d, want 8180", result.Assignments[2].AssignedPort)
	}
	if result.Assignments[0].AssignedPort == result.Assignments[2].AssignedPort {
		t.Error("distinct original ports must never collide")
	}
}

func TestAllocateOverflow(t *testing.T) {
	sources := []PortSource{{VariableName: "A", PortValue: 65500}}
	result, err := Allocate(sources, 1)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if len(result.Assignments) != 0 {
		t.Fatalf("expected no assignments, got %v", result.Assignments)
	}
	if len(result.Overflowed) != 1 || result.Overflowed[0] != 65500 {
		t.Fatalf("expected overflow recorded for 65500, got %v", result.Overflowed)
	}
}
