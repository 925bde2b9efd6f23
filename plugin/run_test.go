// SPDX-License-Identifier: MIT

package plugin

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/pluginpb"

	"github.com/albertocavalcante/protoc-gen-pydantic/internal/testutil"
)

// runBytes drives Run over in-memory pipes and decodes the response.
func runBytes(t *testing.T, req *pluginpb.CodeGeneratorRequest) *pluginpb.CodeGeneratorResponse {
	t.Helper()

	in, err := proto.Marshal(req)
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	err = Run(context.Background(), Env{
		Stdin:  bytes.NewReader(in),
		Stdout: &stdout,
		Stderr: &stderr,
	}, newHandler())
	require.NoError(t, err, "stderr: %s", stderr.String())

	resp := &pluginpb.CodeGeneratorResponse{}
	require.NoError(t, proto.Unmarshal(stdout.Bytes(), resp))
	return resp
}

func TestRunEmptyRequest(t *testing.T) {
	resp := runBytes(t, &pluginpb.CodeGeneratorRequest{})

	assert.Equal(t, NoInputFiles, resp.GetError())
	assert.Empty(t, resp.GetFile())
	assert.Equal(t, uint64(pluginpb.CodeGeneratorResponse_FEATURE_PROTO3_OPTIONAL), resp.GetSupportedFeatures())
}

func TestRunRequest(t *testing.T) {
	resp := runBytes(t, testutil.Request(t, sources))

	require.Empty(t, resp.GetError())
	assert.NotZero(t, resp.GetSupportedFeatures()&uint64(pluginpb.CodeGeneratorResponse_FEATURE_PROTO3_OPTIONAL))
	assert.Equal(t, []string{"acme/v1/person.py", "acme/v1/team.py"}, fileNames(resp))
}

func TestRunParameterError(t *testing.T) {
	req := testutil.Request(t, sources)
	req.Parameter = proto.String("flavour=mint")

	resp := runBytes(t, req)

	assert.Contains(t, resp.GetError(), `unknown parameter "flavour"`)
	assert.Empty(t, resp.GetFile())
}

func TestRunMalformedInput(t *testing.T) {
	var stdout bytes.Buffer
	err := Run(context.Background(), Env{
		Stdin:  bytes.NewReader([]byte{0xff, 0xff, 0xff}),
		Stdout: &stdout,
	}, newHandler())

	assert.ErrorContains(t, err, "decode request")
	assert.Zero(t, stdout.Len())
}
