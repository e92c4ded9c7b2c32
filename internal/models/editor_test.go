// internal/models/editor_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditorPasswordRoundTrip(t *testing.T) {
	editor := &Editor{}
	assert.NoError(t, editor.SetPassword("Sup3r-secret!"))
	assert.NotEqual(t, "Sup3r-secret!", editor.PasswordHash)

	assert.NoError(t, editor.CheckPassword("Sup3r-secret!"))
	assert.Error(t, editor.CheckPassword("wrong password"))
}

func TestIsCoordinator(t *testing.T) {
	assert.True(t, (&Editor{Role: EditorRoleCoordinator}).IsCoordinator())
	assert.False(t, (&Editor{Role: EditorRoleEditor}).IsCoordinator())
}
