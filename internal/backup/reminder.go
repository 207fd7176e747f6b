// Package backup generates periodic backup reminder notices with
// backend-specific instructions.
package backup

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"rentalflow/internal/backend"
)

const reminderText = `Backup reminder for {{.AppName}} ({{.Date}})

Backend: {{.Backend}}
{{.Instructions}}
Keep at least the last 3 backups and store one copy off the host.
`

var reminderTmpl = template.Must(template.New("reminder").Parse(reminderText))

// Reminder renders backup instructions for the configured backend.
type Reminder struct {
	appName     string
	backendType backend.BackendType
	sqlitePath  string
	mongoDB     string
}

func NewReminder(appName string, backendType backend.BackendType, sqlitePath, mongoDB string) *Reminder {
	return &Reminder{
		appName:     appName,
		backendType: backendType,
		sqlitePath:  sqlitePath,
		mongoDB:     mongoDB,
	}
}

// Render produces the reminder text for the given day.
func (r *Reminder) Render(now time.Time) (string, error) {
	data := struct {
		AppName      string
		Date         string
		Backend      string
		Instructions string
	}{
		AppName:      r.appName,
		Date:         now.UTC().Format("2006-01-02"),
		Backend:      r.backendType.String(),
		Instructions: r.instructions(),
	}

	var sb strings.Builder
	if err := reminderTmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render reminder: %w", err)
	}
	return sb.String(), nil
}

func (r *Reminder) instructions() string {
	switch r.backendType {
	case backend.SQLiteBackend:
		return fmt.Sprintf("Copy the database file while the server is idle:\n  cp %s %s.bak\n", r.sqlitePath, r.sqlitePath)
	case backend.MongoBackend:
		return fmt.Sprintf("Dump the database with mongodump:\n  mongodump --db %s --out ./backups/\n", r.mongoDB)
	default:
		return "The in-memory backend holds no durable data. Export the seed JSON files if you changed them.\n"
	}
}
