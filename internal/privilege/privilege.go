// Package privilege decides whether the process may mutate shared scanner
// state such as the allowlist, quarantine directory and ledger.
package privilege

import (
	"fmt"

	"github.com/SethMC26/3320-antivirus-Final/pkg/models"
	"golang.org/x/sys/unix"
)

// Checker is consulted before any state mutation
type Checker interface {
	Check(op string) error
}

// CheckFunc adapts a function to Checker
type CheckFunc func(op string) error

func (f CheckFunc) Check(op string) error {
	return f(op)
}

// Allow permits every operation
var Allow Checker = CheckFunc(func(string) error { return nil })

// RootChecker requires an effective uid of 0
type RootChecker struct {
	euid func() int
}

// NewRootChecker creates a checker that refuses non-root callers
func NewRootChecker() *RootChecker {
	return &RootChecker{euid: unix.Geteuid}
}

func (r *RootChecker) Check(op string) error {
	if uid := r.euid(); uid != 0 {
		return fmt.Errorf("%w: %s requires root (euid %d)", models.ErrPrivilege, op, uid)
	}
	return nil
}

// IsRoot reports whether the process runs with an effective uid of 0
func IsRoot() bool {
	return unix.Geteuid() == 0
}

// For returns the checker matching the require_root setting
func For(requireRoot bool) Checker {
	if requireRoot {
		return NewRootChecker()
	}
	return Allow
}
