package pkgmgr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEveryKnownManagerHasAProbeBinary(t *testing.T) {
	for _, m := range known {
		assert.NotEmpty(t, probeBinary[m.Name], "manager %s has no probe binary", m.Name)
		assert.NotEmpty(t, m.CachePath, "manager %s has no cache path", m.Name)
		assert.NotEmpty(t, m.cleanArgs, "manager %s has no clean verb", m.Name)
	}
}

func TestAutoremoveWithoutVerbIsNoOp(t *testing.T) {
	m := &Manager{Name: "zypper"}
	assert.NoError(t, m.Autoremove())
}
