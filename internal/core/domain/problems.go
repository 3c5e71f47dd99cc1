package domain

import (
	"strconv"
	"strings"
)

// Problem is one independent reason a solve failed, as a chain of rules.
type Problem struct {
	Rules []string
}

// SolverProblems is returned by a solver that cannot find an installable set.
type SolverProblems struct {
	Problems []Problem
}

func (e *SolverProblems) Error() string {
	return ErrUnresolvable.Error()
}

// Unwrap lets errors.Is match ErrUnresolvable.
func (e *SolverProblems) Unwrap() error {
	return ErrUnresolvable
}

// PrettyString renders the numbered rule trace.
func (e *SolverProblems) PrettyString() string {
	var b strings.Builder
	for i, p := range e.Problems {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("  Problem " + strconv.Itoa(i+1) + "\n")
		for _, rule := range p.Rules {
			b.WriteString("    - " + rule + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
