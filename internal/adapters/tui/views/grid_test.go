package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laserlab/internal/application"
	"laserlab/internal/application/rows"
)

const inventory = "position,Element,System,Model\n1,Laser1,Laser,Mephisto\n2,Lens1,Optics,LA1509\n3,Mirror1,Optics,BB1\n"

type recObserver struct {
	edits, reorders int
}

func (r *recObserver) RowsEdited()    { r.edits++ }
func (r *recObserver) RowsReordered() { r.reorders++ }

func newLoadedGrid(t *testing.T, src *memRows) (*GridModel, *rows.Store, *recObserver) {
	t.Helper()
	store := rows.NewStore(src, nil)
	obs := &recObserver{}
	store.SetObserver(obs)

	m := NewGridModel(store, nil)
	m.Update(m.load())
	require.True(t, m.loaded)
	return m, store, obs
}

func TestGridModel_EditStreamsIntoStore(t *testing.T) {
	m, store, obs := newLoadedGrid(t, &memRows{text: inventory})

	m.Update(press("l")) // System column
	m.Update(press("enter"))
	require.True(t, m.Capturing())

	typeText(m, "X")
	typeText(m, "Y")

	row, err := store.Row(0)
	require.NoError(t, err)
	assert.Equal(t, "LaserXY", row.System)
	assert.Equal(t, 2, obs.edits, "every keystroke is one edit")
	assert.Zero(t, obs.reorders)

	m.Update(press("enter"))
	assert.False(t, m.Capturing())
}

func TestGridModel_MoveRowReorders(t *testing.T) {
	m, store, obs := newLoadedGrid(t, &memRows{text: inventory})

	m.Update(press("J"))

	assert.Equal(t, 1, obs.reorders)
	assert.Zero(t, obs.edits)
	assert.Equal(t, 1, m.pager.Cursor())

	all := store.Rows()
	assert.Equal(t, "Lens1", all[0].Element)
	assert.Equal(t, "1", all[0].Position)
	assert.Equal(t, "Laser1", all[1].Element)
	assert.Equal(t, "2", all[1].Position)

	// Moving past the top is a no-op
	m.Update(press("K"))
	m.Update(press("K"))
	assert.Equal(t, 2, obs.reorders)
}

func TestGridModel_CopyCSV(t *testing.T) {
	m, _, _ := newLoadedGrid(t, &memRows{text: inventory})
	var copied string
	m.copyText = func(s string) error {
		copied = s
		return nil
	}

	m.Update(press("y"))
	assert.Contains(t, copied, "position,Element,System,Model")
	assert.Contains(t, copied, "2,Lens1,Optics,LA1509")
	assert.Contains(t, m.Message, "Copied 3 rows")
	assert.False(t, m.MessageErr)
}

func TestGridModel_AddRowToCanvas(t *testing.T) {
	m, _, _ := newLoadedGrid(t, &memRows{text: inventory})

	m.Update(press("j"))
	_, cmd := m.Update(press("a"))
	require.NotNil(t, cmd)

	msg, ok := cmd().(AddRowToCanvasMsg)
	require.True(t, ok)
	assert.Equal(t, "Lens1", msg.Row.Element)
}

func TestGridModel_LoadFailure(t *testing.T) {
	m, store, _ := newLoadedGrid(t, &memRows{loadErr: errOffline})

	assert.Equal(t, application.StatusLoadError, m.Status())
	assert.True(t, m.MessageErr)
	assert.Zero(t, store.Len())
	assert.Contains(t, m.View(), "No rows.")
}

func TestGridModel_SaveStatus(t *testing.T) {
	m, _, _ := newLoadedGrid(t, &memRows{text: inventory})

	m.Update(SaveStatusMsg{Text: application.StatusSaved})
	assert.Equal(t, application.StatusSaved, m.Status())

	m.Update(SaveStatusMsg{})
	assert.Empty(t, m.Status())
}

func TestStatusFeed_NewestWins(t *testing.T) {
	feed := make(StatusFeed, 1)
	feed.Publish(application.StatusSaving)
	feed.Publish(application.StatusSaved)

	msg := feed.Next()()
	assert.Equal(t, SaveStatusMsg{Text: application.StatusSaved}, msg)
}

func TestGridModel_PageKeys(t *testing.T) {
	m, _, _ := newLoadedGrid(t, &memRows{text: inventory})
	m.SetSize(80, 14)

	m.Update(press("pgdown"))
	_, cmd := m.Update(press("a"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(AddRowToCanvasMsg)
	require.True(t, ok)
	assert.Equal(t, "Mirror1", msg.Row.Element)
}
