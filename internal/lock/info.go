package lock

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Info describes who holds a lock.
type Info struct {
	User     string    `json:"user"`
	Hostname string    `json:"hostname"`
	Started  time.Time `json:"started"`
	PID      int       `json:"pid"`
	Purpose  string    `json:"purpose,omitempty"`
}

// NewInfo describes the current process.
func NewInfo(purpose string) Info {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	user := os.Getenv("USER")
	if user == "" {
		user = "unknown"
	}
	return Info{
		User:     user,
		Hostname: hostname,
		Started:  time.Now(),
		PID:      os.Getpid(),
		Purpose:  purpose,
	}
}

// Age returns how long ago the lock was taken.
func (i Info) Age() time.Duration {
	return time.Since(i.Started)
}

// ParseInfo reads an info.json payload.
func ParseInfo(data []byte) (Info, error) {
	var info Info
	err := json.Unmarshal(data, &info)
	return info, err
}

// String reads: alice@laptop (pid 4242) restoring site_a.sql.gz
func (i Info) String() string {
	s := fmt.Sprintf("%s@%s (pid %d)", i.User, i.Hostname, i.PID)
	if i.Purpose != "" {
		s += " " + i.Purpose
	}
	return s
}
