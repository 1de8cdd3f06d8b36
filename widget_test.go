package lattice

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryRegisterAndCreate(t *testing.T) {
	f := NewFactory()
	f.Register("text", func(attrs map[string]ValueReference, text *string, node NodeID, ctx Context) (Widget, error) {
		s := ""
		if text != nil {
			s = *text
		}
		return &stubWidget{kind: "text", text: s}, nil
	})

	hello := "hello"
	w, err := f.Create("text", nil, &hello, Root(), Context{})
	require.NoError(t, err)
	assert.Equal(t, "text", w.Kind())
	assert.Equal(t, "hello", w.(*stubWidget).text)
}

func TestFactoryCreateUnknownKind(t *testing.T) {
	f := NewFactory()
	_, err := f.Create("nope", nil, nil, Root(), Context{})
	require.Error(t, err)
	var uw *UnknownWidgetError
	require.True(t, errors.As(err, &uw))
	assert.Equal(t, "nope", uw.Kind)
}

func TestFactoryCreateWrapsConstructorError(t *testing.T) {
	f := NewFactory()
	f.Register("broken", func(map[string]ValueReference, *string, NodeID, Context) (Widget, error) {
		return nil, errors.New("boom")
	})

	_, err := f.Create("broken", nil, nil, Root().Child(3), Context{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.Contains(t, err.Error(), "boom")
}

func TestFactoryRegisterOverwritesExisting(t *testing.T) {
	f := NewFactory()
	f.Register("k", func(map[string]ValueReference, *string, NodeID, Context) (Widget, error) {
		return &stubWidget{kind: "first"}, nil
	})
	f.Register("k", func(map[string]ValueReference, *string, NodeID, Context) (Widget, error) {
		return &stubWidget{kind: "second"}, nil
	})

	w, err := f.Create("k", nil, nil, Root(), Context{})
	require.NoError(t, err)
	assert.Equal(t, "second", w.Kind())
}
