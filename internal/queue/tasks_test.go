package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSendEmailTask(t *testing.T) {
	task, err := NewSendEmailTask("tenant-1", "tmpl-1", "guest@example.com")
	require.NoError(t, err)
	assert.Equal(t, TaskSendEmail, task.Type())

	var payload SendEmailPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "tenant-1", payload.TenantID)
	assert.Equal(t, "tmpl-1", payload.TemplateID)
	assert.Equal(t, "guest@example.com", payload.Recipient)
}

func TestNewDocumentIngestTaskSiteImport(t *testing.T) {
	// site-import pages carry no file path; the worker loads the stored text
	task, err := NewDocumentIngestTask("tenant-1", "doc-1", "")
	require.NoError(t, err)

	var payload DocumentIngestPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Empty(t, payload.FilePath)
	assert.Equal(t, "doc-1", payload.DocumentID)
}
