package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get(RoadmapFile, KeySystemInstruction)
	require.NoError(t, err)
	assert.Contains(t, prompt, "interview preparation roadmap")
	assert.Contains(t, prompt, "1. Parse the Job Description")
	assert.Contains(t, prompt, "2. Company Research")
	assert.Contains(t, prompt, "3. Synthesize & Structure")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get(RoadmapFile, "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", Format(template, data))
}

func TestFormat_NoPlaceholders(t *testing.T) {
	template := "No placeholders here"
	assert.Equal(t, template, Format(template, map[string]string{"Key": "Value"}))
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"
	assert.Equal(t, template, Format(template, map[string]string{}))
}

func TestFormat_ValuesAreNotExpanded(t *testing.T) {
	template := "Company: {{.Company}}\nRole: {{.Role}}"
	data := map[string]string{
		"Company": "{{.Role}} Inc",
		"Role":    "Engineer",
	}

	assert.Equal(t, "Company: {{.Role}} Inc\nRole: Engineer", Format(template, data))
}

func TestRender_UserMessage(t *testing.T) {
	ClearCache()

	out, err := Render(RoadmapFile, KeyUserMessage, map[string]string{
		"Company":        "Acme",
		"Role":           "Backend Engineer",
		"JobDescription": "REST APIs, SQL, distributed systems",
	})
	require.NoError(t, err)
	assert.Equal(t,
		"Company: Acme\nRole: Backend Engineer\nJob Description:\n---\nREST APIs, SQL, distributed systems\n---",
		out)
}

func TestRender_MissingValue(t *testing.T) {
	ClearCache()

	_, err := Render(RoadmapFile, KeyUserMessage, map[string]string{"Company": "Acme"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Role")
	assert.Contains(t, err.Error(), "JobDescription")
}

func TestRender_InvalidKey(t *testing.T) {
	_, err := Render(RoadmapFile, "missing", nil)
	assert.Error(t, err)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, Placeholders("{{.A}} {{.B}} {{.A}}"))
	assert.Nil(t, Placeholders("plain text {{ .NotOne }}"))
}

func TestRoadmapPlaceholders(t *testing.T) {
	ClearCache()
	get := func(key string) string {
		prompt, err := Get(RoadmapFile, key)
		require.NoError(t, err)
		return prompt
	}

	assert.ElementsMatch(t,
		[]string{"SearchTool", "SearchMaxUses", "SchemaName"},
		Placeholders(get(KeySystemInstruction)))
	assert.Equal(t,
		[]string{"Company", "Role", "JobDescription"},
		Placeholders(get(KeyUserMessage)))
	assert.Equal(t,
		[]string{"SchemaName"},
		Placeholders(get(KeyFinalInstruction)))
}

func TestCaching(t *testing.T) {
	ClearCache()

	prompt1, err := Get(RoadmapFile, KeyUserMessage)
	require.NoError(t, err)

	cacheMu.RLock()
	_, cached := cache[RoadmapFile]
	cacheMu.RUnlock()
	assert.True(t, cached)

	prompt2, err := Get(RoadmapFile, KeyUserMessage)
	require.NoError(t, err)
	assert.Equal(t, prompt1, prompt2)
}
