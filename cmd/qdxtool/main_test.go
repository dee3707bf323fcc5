package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeFor(t *testing.T) {
	assert.Equal(t, 1, exitCodeFor(usageError{errors.New("bad flag")}))
	assert.Equal(t, 2, exitCodeFor(ioExitError{errors.New("disk full")}))
	assert.Equal(t, 3, exitCodeFor(structuralExitError{errors.New("3 diagnostics")}))
	assert.Equal(t, 1, exitCodeFor(errors.New("unclassified")))
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()
	assert.NotNil(t, root.PersistentFlags().Lookup("log-format"))
	assert.NotNil(t, root.PersistentFlags().Lookup("log-file"))
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("layer-height"))

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["encode"])
	assert.True(t, names["analyze"])
}
