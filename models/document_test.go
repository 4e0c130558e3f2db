package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDocumentVisibleTo(t *testing.T) {
	doc := Document{
		Title:   "Runbook",
		Domains: []uint{1, 3},
		Roles:   []string{"editor", "doc_admin"},
	}

	assert.True(t, doc.VisibleTo(1, "editor"))
	assert.True(t, doc.VisibleTo(3, "doc_admin"))
	assert.False(t, doc.VisibleTo(2, "editor"), "wrong domain")
	assert.False(t, doc.VisibleTo(1, "superadmin"), "role not in allowlist")
}

func TestDocumentVisibleToDeleted(t *testing.T) {
	now := time.Now()
	doc := Document{
		Domains:   []uint{1},
		Roles:     []string{"editor"},
		Deleted:   true,
		DeletedAt: &now,
	}

	assert.False(t, doc.VisibleTo(1, "editor"))
}
