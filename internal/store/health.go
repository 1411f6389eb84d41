package store

import (
	"time"

	"github.com/stashbot/stashbot/internal/health"
)

// HealthCheck reports whether the database can be reached and queried.
func (db *DB) HealthCheck() health.ComponentHealth {
	h := health.ComponentHealth{
		Name:   "database",
		Status: "ok",
	}

	if err := db.Ping(); err != nil {
		h.Status = "error"
		h.Message = err.Error()
		h.LastError = time.Now()
		return h
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM user_messages").Scan(&count); err != nil {
		h.Status = "degraded"
		h.Message = "cannot query message log: " + err.Error()
		h.LastError = time.Now()
		return h
	}

	h.LastOK = time.Now()
	return h
}
