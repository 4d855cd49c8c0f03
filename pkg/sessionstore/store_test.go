package sessionstore

import (
	"testing"

	"github.com/bowjob/jobagent/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetOrCreateIsIdempotent(t *testing.T) {
	st := NewStore()
	a := st.GetOrCreate("u1", "s1")
	b := st.GetOrCreate("u1", "s1")
	assert.Same(t, a, b)
}

func TestStore_AppendAndReadBack(t *testing.T) {
	st := NewStore()
	s := st.GetOrCreate("u1", "s1")

	for i := 0; i < 10; i++ {
		s.AddMessage(models.Message{Role: models.RoleUser, Text: string(rune('a' + i))})
	}

	got, err := st.Get("u1", "s1")
	require.NoError(t, err)
	clone := got.Clone()
	require.Len(t, clone.Messages, 10)
	for i, m := range clone.Messages {
		assert.Equal(t, string(rune('a'+i)), m.Text, "Nth message read must equal Nth message written")
	}
}

func TestStore_GetMissingSessionErrors(t *testing.T) {
	st := NewStore()
	_, err := st.Get("u1", "missing")
	assert.Error(t, err)
}

func TestSession_LastN(t *testing.T) {
	s := &Session{}
	for i := 0; i < 5; i++ {
		s.AddMessage(models.Message{Role: models.RoleUser, Text: string(rune('a' + i))})
	}

	last3 := s.LastN(3)
	require.Len(t, last3, 3)
	assert.Equal(t, "c", last3[0].Text)
	assert.Equal(t, "e", last3[2].Text)

	assert.Len(t, s.LastN(100), 5, "LastN beyond length returns everything")
}

func TestSession_LastAssistantMetadata(t *testing.T) {
	s := &Session{}
	s.AddMessage(models.Message{Role: models.RoleUser, Text: "hi"})
	s.AddMessage(models.Message{
		Role:     models.RoleAssistant,
		Text:     "here are some jobs",
		Metadata: models.JobResultsMetadata{JobIDs: []string{"j1"}},
	})
	s.AddMessage(models.Message{Role: models.RoleUser, Text: "tell me more"})

	meta, ok := s.LastAssistantMetadata(10)
	require.True(t, ok)
	assert.Equal(t, models.MetadataJobResults, meta.Type())
}

func TestSession_LastAssistantMetadataNoneFound(t *testing.T) {
	s := &Session{}
	s.AddMessage(models.Message{Role: models.RoleUser, Text: "hi"})

	_, ok := s.LastAssistantMetadata(10)
	assert.False(t, ok)
}

func TestSession_PipelineStateRoundTrip(t *testing.T) {
	s := &Session{}
	s.SetPipelineState("app-1", map[string]any{"step": "compose_email"})

	got, ok := s.PipelineStateFor("app-1")
	require.True(t, ok)
	assert.Equal(t, "compose_email", got.(map[string]any)["step"])

	s.SetPipelineState("app-1", nil)
	_, ok = s.PipelineStateFor("app-1")
	assert.False(t, ok)
}
