package types

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Name string
}

func TestSignatures_Lookup(t *testing.T) {
	signatures := Signatures{
		{Name: "getAll", Input: reflect.TypeOf(&sampleInput{}), Output: reflect.TypeOf(&Output{})},
		{Name: "count"},
	}
	sig := signatures.Lookup("GETALL")
	require.NotNil(t, sig)
	assert.Equal(t, "getAll", sig.Name)
	assert.IsType(t, &sampleInput{}, sig.NewInput())
	assert.IsType(t, &Output{}, sig.NewOutput())

	count := signatures.Lookup("count")
	require.NotNil(t, count)
	assert.Nil(t, count.NewInput())
	assert.Nil(t, signatures.Lookup("delete"))
}

func TestOutput_Set(t *testing.T) {
	output := &Output{}
	require.NoError(t, output.Set("done", 3))
	assert.Equal(t, "done", output.Message)
	assert.Equal(t, 3, output.Data)
}
