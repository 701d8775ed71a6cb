package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studypilot/studypilot/internal/store"
)

func TestBuildPartsOrdering(t *testing.T) {
	sources := PromptSources{
		PreviousMessages: "User: hi\nAssistant: hello",
		Videos: []store.Video{
			{Title: "Cell Biology", Description: "An intro to cells"},
			{Title: "Photosynthesis", Description: "How plants make energy"},
		},
		Files: []EncodedFile{
			{MIMEType: "application/pdf", Data: "cGRmLWJ5dGVz"},
			{MIMEType: "image/png", Data: "cG5nLWJ5dGVz"},
		},
	}

	parts := BuildParts("answer the question", sources)

	// context + instruction + one part per video + one part per file
	require.Len(t, parts, 6)

	assert.Contains(t, parts[0].Text, "User: hi")
	assert.Equal(t, "answer the question", parts[1].Text)
	assert.Contains(t, parts[2].Text, "Cell Biology")
	assert.Contains(t, parts[3].Text, "Photosynthesis")
	assert.Equal(t, "application/pdf", parts[4].MIMEType)
	assert.Equal(t, "cGRmLWJ5dGVz", parts[4].Data)
	assert.Equal(t, "image/png", parts[5].MIMEType)
}

func TestBuildPartsNoContext(t *testing.T) {
	parts := BuildParts("just the instruction", PromptSources{})

	require.Len(t, parts, 1)
	assert.Equal(t, "just the instruction", parts[0].Text)
}

func TestWorkspaceQuestionInstructionMentionsVideosOnlyWhenPresent(t *testing.T) {
	withVideos := WorkspaceQuestionInstruction("what is osmosis?", true)
	assert.Contains(t, withVideos, "video descriptions")
	assert.Contains(t, withVideos, "what is osmosis?")

	withoutVideos := WorkspaceQuestionInstruction("what is osmosis?", false)
	assert.NotContains(t, withoutVideos, "video descriptions")
}

func TestChatReplyInstructionFallbacks(t *testing.T) {
	noSources := ChatReplyInstruction("hello", false, "", false)
	assert.Contains(t, noSources, "No prior context")

	strict := ChatReplyInstruction("hello", true, "", true)
	assert.Contains(t, strict, "Strict mode is ON")
}

func TestMaterialGuideInstructionDefaults(t *testing.T) {
	guide := MaterialGuideInstruction("algebra", 0, "", false)
	assert.Contains(t, guide, "at least 5 pages")
	assert.NotContains(t, guide, "ONLY the content")

	grounded := MaterialGuideInstruction("algebra", 3, "focus on equations", true)
	assert.Contains(t, grounded, "at least 3 pages")
	assert.Contains(t, grounded, "focus on equations")
	assert.Contains(t, grounded, "ONLY the content")
}
