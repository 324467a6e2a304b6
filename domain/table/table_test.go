package table

import (
	"errors"
	"math"
	"testing"
	"time"

	"catalogclean/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New([]Column{
		{Name: "title", Type: ColumnText},
		{Name: "release_year", Type: ColumnInteger},
		{Name: "rating", Type: ColumnFloat},
	})
	require.NoError(t, err)
	require.NoError(t, tbl.Append(Row{Text("Dick Johnson Is Dead"), Number(2020), Number(7.1)}))
	require.NoError(t, tbl.Append(Row{Text("Blood & Water"), Number(2021), Missing()}))
	require.NoError(t, tbl.Append(Row{Text("Ganglands"), Number(2021), Number(6.4)}))
	return tbl
}

func TestNew_RejectsDuplicateColumns(t *testing.T) {
	_, err := New([]Column{{Name: "a"}, {Name: "a"}})
	assert.True(t, errors.Is(err, core.ErrColumnExists))
}

func TestTable_LookupAndShape(t *testing.T) {
	tbl := newTestTable(t)

	rows, cols := tbl.Shape()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, []string{"title", "release_year", "rating"}, tbl.Names())
	assert.Equal(t, 1, tbl.Index("release_year"))
	assert.Equal(t, -1, tbl.Index("duration"))

	v, ok := tbl.Get(1, "title")
	require.True(t, ok)
	assert.Equal(t, "Blood & Water", v.Text)

	v, ok = tbl.Get(1, "rating")
	require.True(t, ok)
	assert.True(t, v.IsMissing())

	_, ok = tbl.Get(0, "duration")
	assert.False(t, ok)
}

func TestTable_AppendChecksWidth(t *testing.T) {
	tbl := newTestTable(t)
	assert.Error(t, tbl.Append(Row{Text("short")}))
}

func TestTable_AddAndDropColumn(t *testing.T) {
	tbl := newTestTable(t)

	err := tbl.AddColumn(Column{Name: "country", Type: ColumnText},
		[]Value{Text("us"), Text("za"), Missing()})
	require.NoError(t, err)
	assert.Equal(t, 4, tbl.Width())
	v, _ := tbl.Get(1, "country")
	assert.Equal(t, "za", v.Text)

	err = tbl.AddColumn(Column{Name: "country"}, []Value{Missing(), Missing(), Missing()})
	assert.True(t, errors.Is(err, core.ErrColumnExists))

	assert.Error(t, tbl.AddColumn(Column{Name: "short"}, []Value{Missing()}))

	require.NoError(t, tbl.DropColumn("release_year"))
	assert.Equal(t, []string{"title", "rating", "country"}, tbl.Names())
	assert.Equal(t, 2, tbl.Index("country"))
	v, _ = tbl.Get(0, "country")
	assert.Equal(t, "us", v.Text)
	assert.Len(t, tbl.Row(0), 3)

	assert.True(t, errors.Is(tbl.DropColumn("release_year"), core.ErrColumnNotFound))
}

func TestTable_CloneIsDeep(t *testing.T) {
	tbl := newTestTable(t)
	clone := tbl.Clone()

	require.NoError(t, clone.Set(0, "title", Text("changed")))
	require.NoError(t, clone.DropColumn("rating"))

	v, _ := tbl.Get(0, "title")
	assert.Equal(t, "Dick Johnson Is Dead", v.Text)
	assert.True(t, tbl.Has("rating"))
	assert.Equal(t, 3, tbl.Width())
}

func TestTable_Head(t *testing.T) {
	tbl := newTestTable(t)

	assert.Equal(t, 2, tbl.Head(2).Len())
	assert.Equal(t, 3, tbl.Head(100).Len())
	assert.Equal(t, 0, tbl.Head(-1).Len())

	head := tbl.Head(1)
	require.NoError(t, head.Set(0, "title", Text("changed")))
	v, _ := tbl.Get(0, "title")
	assert.Equal(t, "Dick Johnson Is Dead", v.Text)
}

func TestTable_RetainAndRowKey(t *testing.T) {
	tbl := newTestTable(t)
	require.NoError(t, tbl.Append(Row{Text("Blood & Water"), Number(2021), Missing()}))

	assert.Equal(t, tbl.RowKey(1), tbl.RowKey(3))
	assert.NotEqual(t, tbl.RowKey(0), tbl.RowKey(1))

	removed := tbl.Retain(func(i int, _ Row) bool { return i != 1 })
	assert.Equal(t, 1, removed)
	assert.Equal(t, 3, tbl.Len())
	v, _ := tbl.Get(1, "title")
	assert.Equal(t, "Ganglands", v.Text)
}

func TestValue_KeysDistinguishKinds(t *testing.T) {
	// "1" as text must not collide with the number 1, nor "" with missing
	assert.NotEqual(t, Text("1").key(), Number(1).key())
	assert.NotEqual(t, Text("").key(), Missing().key())
	assert.Equal(t, Missing().key(), Missing().key())
}

func TestValue_NegativeZeroKey(t *testing.T) {
	assert.Equal(t, Number(0).key(), Number(math.Copysign(0, -1)).key())

	tbl, err := New([]Column{{Name: "score", Type: ColumnFloat}})
	require.NoError(t, err)
	require.NoError(t, tbl.Append(Row{Number(0)}))
	require.NoError(t, tbl.Append(Row{Number(math.Copysign(0, -1))}))
	assert.Equal(t, tbl.RowKey(0), tbl.RowKey(1))
}

func TestValue_StringAndEqual(t *testing.T) {
	d := Date(time.Date(2021, 9, 25, 13, 30, 0, 0, time.FixedZone("X", 3600)))

	assert.Equal(t, "2021-09-25", d.String())
	assert.Equal(t, "90", Number(90).String())
	assert.Equal(t, "2.5", Number(2.5).String())
	assert.Equal(t, "", Missing().String())
	assert.True(t, Number(2).Equal(Number(2)))
	assert.False(t, Number(2).Equal(Text("2")))
	assert.True(t, Missing().Equal(Missing()))
	assert.True(t, Number(math.NaN()).IsMissing())
}
