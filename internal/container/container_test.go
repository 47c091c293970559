package container

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paintmcp/paintd/config"
	"github.com/paintmcp/paintd/internal/display"
	"github.com/paintmcp/paintd/internal/display/displaytest"
)

type fakeProvider struct {
	name      string
	available bool
	ctrl      display.Controller
}

func (p fakeProvider) GetController(string) (display.Controller, error) {
	return p.ctrl, nil
}

func (p fakeProvider) GetInfo() display.Info {
	return display.Info{Name: p.name, SupportsWindows: true, SupportsMouse: true, SupportsKeyboard: true}
}

func (p fakeProvider) IsAvailable() bool {
	return p.available
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Display.Backend = "fake"
	cfg.Journal.Type = "memory"
	cfg.Journal.MaxEntries = 16
	cfg.Guard.Root = t.TempDir()
	return cfg
}

func TestNewServiceContainerWiresEngine(t *testing.T) {
	display.ClearProviders()
	t.Cleanup(display.ClearProviders)

	fake := displaytest.NewFakeController()
	display.Register(fakeProvider{name: "fake", available: true, ctrl: fake})

	services, err := NewServiceContainer(testConfig(t), "test")
	require.NoError(t, err)

	eng := services.GetEngine()
	require.NotNil(t, eng)

	result, err := eng.Execute(context.Background(), "get_version", json.RawMessage(`{}`))
	require.NoError(t, err)

	payload, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"server_version":"test"`)

	require.NoError(t, services.Shutdown(context.Background()))
	assert.True(t, fake.Closed())
}

func TestNewServiceContainerUnknownBackend(t *testing.T) {
	display.ClearProviders()
	t.Cleanup(display.ClearProviders)

	cfg := testConfig(t)
	cfg.Display.Backend = "hologram"

	_, err := NewServiceContainer(cfg, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hologram")
}

func TestNewServiceContainerUnavailableBackend(t *testing.T) {
	display.ClearProviders()
	t.Cleanup(display.ClearProviders)

	display.Register(fakeProvider{name: "fake", available: false, ctrl: displaytest.NewFakeController()})

	_, err := NewServiceContainer(testConfig(t), "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not available")
}

func TestNewServiceContainerAutoDetect(t *testing.T) {
	display.ClearProviders()
	t.Cleanup(display.ClearProviders)

	display.Register(fakeProvider{name: "first", available: false, ctrl: displaytest.NewFakeController()})
	display.Register(fakeProvider{name: "second", available: true, ctrl: displaytest.NewFakeController()})

	cfg := testConfig(t)
	cfg.Display.Backend = "auto"

	services, err := NewServiceContainer(cfg, "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = services.Shutdown(context.Background()) })

	assert.NotNil(t, services.GetController())
	assert.NotNil(t, services.GetSessions())
	assert.NotNil(t, services.GetJournal())
}
