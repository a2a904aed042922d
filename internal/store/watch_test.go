package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReloadsOnExternalWrite(t *testing.T) {
	path := writeFixture(t)
	fs, err := OpenFile(path, nil)
	require.NoError(t, err)
	defer fs.Close()

	w, err := fs.Watch()
	require.NoError(t, err)
	defer w.Close()

	edited := fixtureYAML + `  - id: cal-new
    label: added externally
    active: true
`
	require.NoError(t, os.WriteFile(path, []byte(edited), 0644))

	assert.Eventually(t, func() bool {
		cals, err := fs.ListActiveCalendars(context.Background(), "site-a")
		return err == nil && len(cals) == 3
	}, 3*time.Second, 20*time.Millisecond)
}
