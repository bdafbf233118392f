package build

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bundlesize/analyzer"
	"bundlesize/artifacts"
	"bundlesize/models"
)

type recordingPlugin struct {
	name  string
	err   error
	calls *[]string
}

func (p *recordingPlugin) Name() string {
	return p.name
}

func (p *recordingPlugin) OnBuildComplete(src artifacts.Source) (*models.Report, error) {
	*p.calls = append(*p.calls, p.name)
	if p.err != nil {
		return nil, p.err
	}
	return &models.Report{TotalSize: uint64(len(src.Snapshot()))}, nil
}

func TestHostCompleteRunsPluginsInOrder(t *testing.T) {
	var calls []string
	h := NewHost()
	require.NoError(t, h.Register(&recordingPlugin{name: "first", calls: &calls}))
	require.NoError(t, h.Register(&recordingPlugin{name: "second", calls: &calls}))

	reports, err := h.Complete(artifacts.Sizes{"a.js": 1, "b.js": 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)
	require.Len(t, reports, 2)
	assert.Equal(t, uint64(2), reports[0].TotalSize)
}

func TestHostRejectsDuplicateNames(t *testing.T) {
	var calls []string
	h := NewHost()
	require.NoError(t, h.Register(&recordingPlugin{name: "dup", calls: &calls}))

	err := h.Register(&recordingPlugin{name: "dup", calls: &calls})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
	assert.Len(t, h.Plugins(), 1)
}

func TestHostCompleteStopsOnError(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	h := NewHost()
	require.NoError(t, h.Register(&recordingPlugin{name: "broken", err: boom, calls: &calls}))
	require.NoError(t, h.Register(&recordingPlugin{name: "never", calls: &calls}))

	reports, err := h.Complete(artifacts.Sizes{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "plugin broken")
	assert.Empty(t, reports)
	assert.Equal(t, []string{"broken"}, calls)
}

func TestHostWithAnalyzer(t *testing.T) {
	store := artifacts.NewStore()
	store.Put("large.js", make([]byte, 2048))
	store.Put("small.js", make([]byte, 512))

	var out bytes.Buffer
	a := analyzer.New(`{"warning_threshold": 1024}`)
	a.SetOutput(&out)

	h := NewHost()
	require.NoError(t, h.Register(a))
	reports, err := h.Complete(store)
	require.NoError(t, err)
	require.Len(t, reports, 1)

	assert.Contains(t, out.String(), "large.js: 2.0 KB (80.0%) [LARGE FILE]\n")
	assert.Contains(t, out.String(), "small.js: 512 B (20.0%)\n")
	assert.Contains(t, out.String(), "   - large.js: 2.0 KB\n")
	assert.NotContains(t, out.String(), "   - small.js")
}
