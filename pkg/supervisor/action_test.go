package supervisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction_SingleArg(t *testing.T) {
	action, ok := ParseAction("__TAILOR_APPLY__:job-123")
	require.True(t, ok)
	assert.Equal(t, "__TAILOR_APPLY__", action.Name)
	assert.Equal(t, []string{"job-123"}, action.Args)
}

func TestParseAction_EditCVTwoArgs(t *testing.T) {
	action, ok := ParseAction(`__EDIT_CV__:cv-1:{"summary":"new text"}`)
	require.True(t, ok)
	assert.Equal(t, []string{"cv-1", `{"summary":"new text"}`}, action.Args)
}

func TestParseAction_SelectCVThreeArgs(t *testing.T) {
	action, ok := ParseAction("__SELECT_CV__:cv-1:job_search:aGVsbG8=")
	require.True(t, ok)
	assert.Equal(t, []string{"cv-1", "job_search", "aGVsbG8="}, action.Args)
}

func TestParseAction_UnreservedPrefixStillParsedForRejection(t *testing.T) {
	action, ok := ParseAction("__SOMETHING_ELSE__:x")
	require.True(t, ok, "must still be recognised as an action so the caller rejects it explicitly")
	assert.Empty(t, action.Args)
}

func TestParseAction_OrdinaryTextIsNotAnAction(t *testing.T) {
	_, ok := ParseAction("find me backend jobs")
	assert.False(t, ok)
}

func TestDecodeSelectCVContext_ValidBase64(t *testing.T) {
	// "hello" base64 standard padding "aGVsbG8="
	decoded := DecodeSelectCVContext("aGVsbG8=", nil)
	assert.Equal(t, "hello", decoded)
}

func TestDecodeSelectCVContext_InvalidFallsBackToRaw(t *testing.T) {
	decoded := DecodeSelectCVContext("not-valid-base64-!!!", nil)
	assert.Equal(t, "not-valid-base64-!!!", decoded)
}
