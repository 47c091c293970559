package display

import (
	"testing"

	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

type stubProvider struct {
	name      string
	available bool
}

func (p *stubProvider) GetController(display string) (Controller, error) {
	return nil, nil
}

func (p *stubProvider) GetInfo() Info {
	return Info{Name: p.name, SupportsWindows: true, SupportsMouse: true, SupportsKeyboard: true}
}

func (p *stubProvider) IsAvailable() bool {
	return p.available
}

func TestRegistryDetectOrder(t *testing.T) {
	ClearProviders()
	defer ClearProviders()

	Register(&stubProvider{name: "first", available: false})
	Register(&stubProvider{name: "second", available: true})
	Register(&stubProvider{name: "third", available: true})

	p, err := Detect()
	require.NoError(t, err)
	assert.Equal(t, "second", p.GetInfo().Name)
}

func TestRegistryDetectNoneAvailable(t *testing.T) {
	ClearProviders()
	defer ClearProviders()

	Register(&stubProvider{name: "only", available: false})

	_, err := Detect()
	assert.Error(t, err)
}

func TestRegistryGetProviderByName(t *testing.T) {
	ClearProviders()
	defer ClearProviders()

	Register(&stubProvider{name: "native", available: true})
	Register(&stubProvider{name: "x11", available: true})

	assert.NotNil(t, GetProvider("x11"))
	assert.Nil(t, GetProvider("wayland"))
	assert.Len(t, GetAllProviders(), 2)
}

func TestParseMouseButton(t *testing.T) {
	tests := []struct {
		input   string
		want    MouseButton
		wantErr bool
	}{
		{"left", MouseButtonLeft, false},
		{"middle", MouseButtonMiddle, false},
		{"right", MouseButtonRight, false},
		{"wheel", MouseButtonLeft, true},
		{"", MouseButtonLeft, true},
	}

	for _, tt := range tests {
		got, err := ParseMouseButton(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.input, got.String())
	}
}
