package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/student-service/internal/models"
	"github.com/SAP-F-2025/student-service/internal/repositories"
)

func newTestStore(t *testing.T, seed bool) *StudentJSONFile {
	t.Helper()
	return NewStudentJSONFile(filepath.Join(t.TempDir(), "students.json"), seed)
}

func TestInitialize_SeedsMissingFile(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, true)

	require.NoError(t, store.Initialize(ctx))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "seeded_students", data)

	// a second Initialize keeps the existing document
	require.NoError(t, store.Save(ctx, []models.Student{{StudentID: "STU100"}}))
	require.NoError(t, store.Initialize(ctx))
	students, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 1)
}

func TestInitialize_MissingFileWithoutSeed(t *testing.T) {
	store := newTestStore(t, false)

	err := store.Initialize(context.Background())
	require.Error(t, err)
	assert.True(t, repositories.IsStorageError(err))
}

func TestLoad_MissingFile(t *testing.T) {
	store := newTestStore(t, false)

	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.True(t, repositories.IsStorageError(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_MalformedDocument(t *testing.T) {
	for name, content := range map[string]string{
		"garbage":     "{not json",
		"object":      `{"student_id": "STU001"}`,
		"null":        "null",
		"wrong types": `[{"student_id": "STU001", "years_of_experience": "two"}]`,
	} {
		t.Run(name, func(t *testing.T) {
			store := newTestStore(t, false)
			require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0o644))

			_, err := store.Load(context.Background())
			require.Error(t, err)
			assert.True(t, repositories.IsStorageError(err))
		})
	}
}

func TestLoad_EmptyArray(t *testing.T) {
	store := newTestStore(t, false)
	require.NoError(t, os.WriteFile(store.Path(), []byte("[]"), 0o644))

	students, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
}

func TestSaveLoad_PreservesOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, false)

	want := []models.Student{
		{StudentID: "STU003", StudentName: "C", YearsOfExperience: 3, CompanyName: "Gamma"},
		{StudentID: "STU001", StudentName: "A", YearsOfExperience: 1, CompanyName: "Alpha"},
		{StudentID: "STU002", StudentName: "B", YearsOfExperience: 0, CompanyName: "Beta"},
	}
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// no temp files are left behind
	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSave_NilWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, false)

	require.NoError(t, store.Save(ctx, nil))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestPing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, false)

	assert.True(t, repositories.IsStorageError(store.Ping(ctx)))
	require.NoError(t, store.Save(ctx, nil))
	assert.NoError(t, store.Ping(ctx))
}

func TestLoad_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestStore(t, true).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
