package models

import (
	"io/fs"
	"time"
)

// Action is the terminal disposition applied to a detected file
type Action string

const (
	ActionNone       Action = ""
	ActionDelete     Action = "delete"
	ActionQuarantine Action = "quarantine"
	ActionAllow      Action = "allow"
)

// ParseAction converts a config/flag value to an Action
func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionDelete, ActionQuarantine, ActionAllow:
		return Action(s), true
	case "whitelist":
		return ActionAllow, true
	case "remove":
		return ActionDelete, true
	}
	return ActionNone, false
}

// QuarantineRecord is one ledger line: where a quarantined file came from
// and the permission bits it had before lockdown
type QuarantineRecord struct {
	OriginalPath string      `json:"original_path"`
	Mode         fs.FileMode `json:"mode"`
	StoredName   string      `json:"stored_name"` // File name inside the quarantine directory
}

// Detection describes a blocklist match and what was done about it
type Detection struct {
	Path      string    `json:"path"`
	Digest    Digest    `json:"digest"`
	Action    Action    `json:"action,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
