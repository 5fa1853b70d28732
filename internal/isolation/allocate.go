package isolation

import "fmt"

// Allocate implements spec.md §4.4.2: offset = worktreeIndex * 100, applied
// to every distinct original port in input order. Equal original ports
// always share one assignment; an original port that would overflow 65535
// is recorded as an overflow and otherwise skipped. worktreeIndex must be
// strictly positive.
func Allocate(sources []PortSource, worktreeIndex int) (AllocationResult, error) {
	if worktreeIndex <= 0 {
		return AllocationResult{}, fmt.Errorf("isolation: worktree index must be positive, got %d", worktreeIndex)
	}
	offset := worktreeIndex * 100

	var result AllocationResult
	seen := make(map[uint16]uint16) // original -> assigned
	overflowed := make(map[uint16]bool)

	for _, src := range sources {
		if assigned, ok := seen[src.PortValue]; ok {
			result.Assignments = append(result.Assignments, PortAssignment{
				VariableName: src.VariableName,
				OriginalPort: src.PortValue,
				AssignedPort: assigned,
			})
			continue
		}
		if overflowed[src.PortValue] {
			continue
		}

		newPort := int(src.PortValue) + offset
		if newPort > 65535 {
			overflowed[src.PortValue] = true
			result.Overflowed = append(result.Overflowed, src.PortValue)
			continue
		}

		assigned := uint16(newPort)
		seen[src.PortValue] = assigned
		result.Assignments = append(result.Assignments, PortAssignment{
			VariableName: src.VariableName,
			OriginalPort: src.PortValue,
			AssignedPort: assigned,
		})
	}

	return result, nil
}

// assignmentMap builds an original-port -> assigned-port lookup from an
// AllocationResult's assignments (every source pointing at the same
// original port always carries the same assigned value, per Allocate's
// determinism guarantee).
func assignmentMap(assignments []PortAssignment) map[uint16]uint16 {
	m := make(map[uint16]uint16, len(assignments))
	for _, a := range assignments {
		m[a.OriginalPort] = a.AssignedPort
	}
	return m
}
