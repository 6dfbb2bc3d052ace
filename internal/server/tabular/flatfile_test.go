package tabular

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceciliacavosi-unitn/CivicTrento/internal/common"
)

var userSchema = Schema{
	Columns: []string{"name", "surname", "email", "password", "fiscal_code", "id_card_number"},
	Key:     "email",
}

var civicSchema = Schema{
	Columns: []string{"email", "subscription_code", "pod_code", "driver_license"},
	Key:     "email",
	Header:  true,
}

func newUserTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New(filepath.Join(t.TempDir(), "users.txt"), userSchema)
	require.NoError(t, err)
	return tbl
}

func newCivicTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New(filepath.Join(t.TempDir(), "data.txt"), civicSchema)
	require.NoError(t, err)
	return tbl
}

func TestNew_RejectsKeyOutsideSchema(t *testing.T) {
	_, err := New("x.txt", Schema{Columns: []string{"a", "b"}, Key: "c"})
	assert.ErrorIs(t, err, common.ErrInvalidField)
}

func TestAppendFind_RoundTrip(t *testing.T) {
	tbl := newUserTable(t)
	ctx := context.Background()

	rec := []string{"Ada", "Lovelace", "a@x.com", "p1", "FC1", "ID1"}
	require.NoError(t, tbl.Append(ctx, rec))

	got, err := tbl.Find(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestAppend_TrimsValuesOnWrite(t *testing.T) {
	tbl := newUserTable(t)
	ctx := context.Background()

	require.NoError(t, tbl.Append(ctx, []string{" Ada ", "Lovelace", " a@x.com", "p1", "FC1", "ID1 "}))

	got, err := tbl.Find(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got[0])
	assert.Equal(t, "ID1", got[5])
}

func TestFind_MissingFileIsNotFound(t *testing.T) {
	tbl := newUserTable(t)

	_, err := tbl.Find(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestFind_IsExactAndCaseSensitive(t *testing.T) {
	tbl := newUserTable(t)
	ctx := context.Background()

	require.NoError(t, tbl.Append(ctx, []string{"Ada", "Lovelace", "a@x.com", "p1", "FC1", "ID1"}))

	_, err := tbl.Find(ctx, "A@X.COM")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestFind_ReturnsFirstMatchTopToBottom(t *testing.T) {
	tbl := newUserTable(t)
	ctx := context.Background()

	require.NoError(t, tbl.Append(ctx, []string{"First", "Row", "dup@x.com", "p1", "FC1", "ID1"}))
	require.NoError(t, tbl.Append(ctx, []string{"Second", "Row", "dup@x.com", "p2", "FC2", "ID2"}))

	got, err := tbl.Find(ctx, "dup@x.com")
	require.NoError(t, err)
	assert.Equal(t, "First", got[0])
}

func TestFind_PadsShortRowsWithoutPersisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "users.txt")
	// Row with only 4 of 6 columns.
	require.NoError(t, os.WriteFile(path, []byte("Ada,Lovelace,a@x.com,p1\n"), 0o660))

	tbl, err := New(path, userSchema)
	require.NoError(t, err)

	got, err := tbl.Find(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ada", "Lovelace", "a@x.com", "p1", "", ""}, got)

	// The read must not have materialized the padding on disk.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Ada,Lovelace,a@x.com,p1\n", string(raw))
}

func TestFindBy_CredentialMatch(t *testing.T) {
	tbl := newUserTable(t)
	ctx := context.Background()

	require.NoError(t, tbl.Append(ctx, []string{"Ada", "Lovelace", "a@x.com", "p1", "FC1", "ID1"}))

	_, err := tbl.FindBy(ctx, "a@x.com", "password", "p1")
	assert.NoError(t, err)

	_, err = tbl.FindBy(ctx, "a@x.com", "password", "wrong")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = tbl.FindBy(ctx, "a@x.com", "nope", "p1")
	assert.ErrorIs(t, err, common.ErrInvalidField)
}

func TestUpdateField_IsolatesOtherRowsAndFields(t *testing.T) {
	tbl := newUserTable(t)
	ctx := context.Background()

	require.NoError(t, tbl.Append(ctx, []string{"Ada", "Lovelace", "a@x.com", "p1", "FC1", "ID1"}))
	require.NoError(t, tbl.Append(ctx, []string{"Grace", "Hopper", "g@x.com", "p2", "FC2", "ID2"}))

	require.NoError(t, tbl.UpdateField(ctx, "a@x.com", "surname", "Byron"))

	updated, err := tbl.Find(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ada", "Byron", "a@x.com", "p1", "FC1", "ID1"}, updated)

	other, err := tbl.Find(ctx, "g@x.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"Grace", "Hopper", "g@x.com", "p2", "FC2", "ID2"}, other)
}

func TestUpdateField_TrimsValueAndPreservesOrder(t *testing.T) {
	tbl := newUserTable(t)
	ctx := context.Background()

	require.NoError(t, tbl.Append(ctx, []string{"Ada", "Lovelace", "a@x.com", "p1", "FC1", "ID1"}))
	require.NoError(t, tbl.Append(ctx, []string{"Grace", "Hopper", "g@x.com", "p2", "FC2", "ID2"}))

	require.NoError(t, tbl.UpdateField(ctx, "g@x.com", "name", "  Grace Brewster  "))

	rows, err := tbl.Rows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a@x.com", rows[0][2])
	assert.Equal(t, "Grace Brewster", rows[1][0])
}

func TestUpdateField_PadsShortRowToTargetColumn(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "users.txt")
	require.NoError(t, os.WriteFile(path, []byte("Ada,Lovelace,a@x.com,p1\n"), 0o660))

	tbl, err := New(path, userSchema)
	require.NoError(t, err)

	require.NoError(t, tbl.UpdateField(context.Background(), "a@x.com", "id_card_number", "ID9"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Ada,Lovelace,a@x.com,p1,,ID9\n", string(raw))
}

func TestUpdateField_NotFound(t *testing.T) {
	tbl := newUserTable(t)
	ctx := context.Background()

	require.NoError(t, tbl.Append(ctx, []string{"Ada", "Lovelace", "a@x.com", "p1", "FC1", "ID1"}))

	err := tbl.UpdateField(ctx, "missing@x.com", "name", "X")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateFieldBy_RequiresCredentialMatch(t *testing.T) {
	tbl := newUserTable(t)
	ctx := context.Background()

	require.NoError(t, tbl.Append(ctx, []string{"Ada", "Lovelace", "a@x.com", "p1", "FC1", "ID1"}))

	err := tbl.UpdateFieldBy(ctx, "a@x.com", "password", "wrong", "name", "X")
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, tbl.UpdateFieldBy(ctx, "a@x.com", "password", "p1", "name", "X"))

	got, err := tbl.Find(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "X", got[0])
}

func TestUpsertRow_CreatesFileWithHeader(t *testing.T) {
	tbl := newCivicTable(t)
	ctx := context.Background()

	require.NoError(t, tbl.UpsertRow(ctx, []string{"a@x.com", "SUB1", "POD1", "DL1"}))

	raw, err := os.ReadFile(tbl.Path())
	require.NoError(t, err)
	assert.Equal(t, "email,subscription_code,pod_code,driver_license\na@x.com,SUB1,POD1,DL1\n", string(raw))
}

func TestUpsertRow_Idempotent(t *testing.T) {
	tbl := newCivicTable(t)
	ctx := context.Background()

	rec := []string{"a@x.com", "SUB1", "POD1", "DL1"}
	require.NoError(t, tbl.UpsertRow(ctx, rec))
	require.NoError(t, tbl.UpsertRow(ctx, rec))

	rows, err := tbl.Rows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, rec, rows[0])
}

func TestUpsertRow_ReplacesInPlaceOrAppends(t *testing.T) {
	tbl := newCivicTable(t)
	ctx := context.Background()

	require.NoError(t, tbl.UpsertRow(ctx, []string{"a@x.com", "SUB1", "POD1", "DL1"}))
	require.NoError(t, tbl.UpsertRow(ctx, []string{"b@x.com", "SUB2", "POD2", "DL2"}))
	require.NoError(t, tbl.UpsertRow(ctx, []string{"a@x.com", "SUB9", "POD9", "DL9"}))

	rows, err := tbl.Rows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Replaced row keeps its original position.
	assert.Equal(t, []string{"a@x.com", "SUB9", "POD9", "DL9"}, rows[0])
	assert.Equal(t, []string{"b@x.com", "SUB2", "POD2", "DL2"}, rows[1])
}

func TestClearField_OnlyClearsNonEmptyValues(t *testing.T) {
	tbl := newCivicTable(t)
	ctx := context.Background()

	require.NoError(t, tbl.Append(ctx, []string{"a@x.com", "", "POD1", ""}))

	require.NoError(t, tbl.ClearField(ctx, "a@x.com", "pod_code"))

	err := tbl.ClearField(ctx, "a@x.com", "pod_code")
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = tbl.ClearField(ctx, "b@x.com", "pod_code")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteRowBy_RemovesExactlyOneRow(t *testing.T) {
	tbl := newUserTable(t)
	ctx := context.Background()

	require.NoError(t, tbl.Append(ctx, []string{"Ada", "Lovelace", "a@x.com", "p1", "FC1", "ID1"}))
	require.NoError(t, tbl.Append(ctx, []string{"Grace", "Hopper", "g@x.com", "p2", "FC2", "ID2"}))

	require.NoError(t, tbl.DeleteRowBy(ctx, "a@x.com", "password", "p1"))

	_, err := tbl.Find(ctx, "a@x.com")
	assert.ErrorIs(t, err, common.ErrNotFound)

	rows, err := tbl.Rows(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestDeleteRowBy_CredentialMismatchIsNotFound(t *testing.T) {
	tbl := newUserTable(t)
	ctx := context.Background()

	require.NoError(t, tbl.Append(ctx, []string{"Ada", "Lovelace", "a@x.com", "p1", "FC1", "ID1"}))

	err := tbl.DeleteRowBy(ctx, "a@x.com", "password", "wrong")
	assert.ErrorIs(t, err, common.ErrNotFound)

	rows, err := tbl.Rows(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestHeaderRow_IsNeverMatchedByScans(t *testing.T) {
	tbl := newCivicTable(t)
	ctx := context.Background()

	require.NoError(t, tbl.Append(ctx, []string{"a@x.com", "SUB1", "POD1", "DL1"}))

	_, err := tbl.Find(ctx, "email")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRewrite_RoundTripsUntouchedRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "users.txt")
	content := "Ada,Lovelace,a@x.com,p1,FC1,ID1\nGrace,Hopper,g@x.com,p2,FC2,ID2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o660))

	tbl, err := New(path, userSchema)
	require.NoError(t, err)

	require.NoError(t, tbl.UpdateField(context.Background(), "a@x.com", "name", "Ada"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(raw))
}

func TestRows_MissingFileIsTableMissing(t *testing.T) {
	tbl := newUserTable(t)

	_, err := tbl.Rows(context.Background())
	assert.ErrorIs(t, err, common.ErrTableMissing)
}
