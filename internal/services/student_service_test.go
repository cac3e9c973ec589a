package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/SAP-F-2025/student-service/internal/events"
	"github.com/SAP-F-2025/student-service/internal/locking"
	"github.com/SAP-F-2025/student-service/internal/models"
	"github.com/SAP-F-2025/student-service/internal/repositories"
	"github.com/SAP-F-2025/student-service/internal/repositories/jsonfile"
	"github.com/SAP-F-2025/student-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	repo      *jsonfile.StudentJSONFile
	publisher *events.MockEventPublisher
	service   StudentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := jsonfile.NewStudentJSONFile(filepath.Join(t.TempDir(), "students.json"), true)
	require.NoError(t, repo.Initialize(context.Background()))

	publisher := events.NewMockEventPublisher(logger)
	return &testEnv{
		repo:      repo,
		publisher: publisher,
		service:   NewStudentService(repo, locking.NewLocalLocker(), publisher, logger, validator.New()),
	}
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func newCreateRequest(id string) *CreateStudentRequest {
	return &CreateStudentRequest{
		StudentID:         strPtr(id),
		StudentName:       strPtr("Meera Nair"),
		YearsOfExperience: intPtr(2),
		CompanyName:       strPtr("HCL"),
	}
}

func TestStudentService_ListAndGet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	students, err := env.service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 5)
	assert.Equal(t, "STU001", students[0].StudentID)

	student, err := env.service.Get(ctx, "STU003")
	require.NoError(t, err)
	assert.Equal(t, "Rahul Verma", student.StudentName)

	_, err = env.service.Get(ctx, "STU999")
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestStudentService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.service.Create(ctx, newCreateRequest("STU006"))
	require.NoError(t, err)
	assert.Equal(t, models.Student{StudentID: "STU006", StudentName: "Meera Nair", YearsOfExperience: 2, CompanyName: "HCL"}, *created)

	stored, err := env.repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 6)
	assert.Equal(t, *created, stored[5])

	published := env.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.StudentCreated, published[0].Type)
}

func TestStudentService_CreateDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.service.Create(ctx, newCreateRequest("STU001"))
	assert.ErrorIs(t, err, ErrStudentExists)

	stored, err := env.repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 5)
	assert.Empty(t, env.publisher.GetPublishedEvents())
}

func TestStudentService_CreatePrecedence(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	decode := func(body string) *CreateStudentRequest {
		req, err := validator.DecodeStudentCreate([]byte(body))
		require.NoError(t, err)
		return req
	}

	// a taken id wins over a bad value
	_, err := env.service.Create(ctx, decode(`{"student_id":"STU001","student_name":"X","years_of_experience":"many","company_name":"Y"}`))
	assert.ErrorIs(t, err, ErrStudentExists)

	// missing fields win over a taken id
	_, err = env.service.Create(ctx, decode(`{"student_id":"STU001","student_name":"X"}`))
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, []string{"years_of_experience", "company_name"}, verrs.MissingFields())

	// a free id with a bad value is rejected
	_, err = env.service.Create(ctx, decode(`{"student_id":"STU006","student_name":"X","years_of_experience":"many","company_name":"Y"}`))
	require.True(t, errors.As(err, &verrs))
	assert.False(t, verrs.OnlyMissing())

	stored, err := env.repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, repositories.SeedStudents(), stored)
	assert.Empty(t, env.publisher.GetPublishedEvents())
}

func TestStudentService_CreateMissingFields(t *testing.T) {
	env := newTestEnv(t)

	req := newCreateRequest("STU006")
	req.StudentName = nil
	req.CompanyName = nil

	_, err := env.service.Create(context.Background(), req)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.True(t, verrs.OnlyMissing())
	assert.Equal(t, []string{"student_name", "company_name"}, verrs.MissingFields())
}

func TestStudentService_CreateNegativeExperience(t *testing.T) {
	env := newTestEnv(t)

	req := newCreateRequest("STU006")
	req.YearsOfExperience = intPtr(-1)

	_, err := env.service.Create(context.Background(), req)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.False(t, verrs.OnlyMissing())
}

func TestStudentService_UpdateMerges(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	updated, err := env.service.Update(ctx, "STU002", []byte(`{"company_name":"Infosys","student_id":"HIJACK"}`))
	require.NoError(t, err)
	assert.Equal(t, models.Student{StudentID: "STU002", StudentName: "Priya Patel", YearsOfExperience: 5, CompanyName: "Infosys"}, *updated)

	stored, err := env.repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, *updated, stored[1])

	published := env.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.StudentUpdated, published[0].Type)
}

func TestStudentService_UpdateCoercesExperience(t *testing.T) {
	env := newTestEnv(t)

	updated, err := env.service.Update(context.Background(), "STU001", []byte(`{"years_of_experience":"7"}`))
	require.NoError(t, err)
	assert.Equal(t, 7, updated.YearsOfExperience)

	updated, err = env.service.Update(context.Background(), "STU001", []byte(`{"years_of_experience":3.7}`))
	require.NoError(t, err)
	assert.Equal(t, 3, updated.YearsOfExperience)
}

func TestStudentService_UpdateErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		payload string
		check   func(t *testing.T, err error)
	}{
		{
			name:    "unknown id wins over bad body",
			id:      "STU999",
			payload: `not json`,
			check:   func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrStudentNotFound) },
		},
		{
			name:    "empty object",
			id:      "STU001",
			payload: `{}`,
			check:   func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrInvalidPayload) },
		},
		{
			name:    "non-object",
			id:      "STU001",
			payload: `[1,2]`,
			check:   func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrInvalidPayload) },
		},
		{
			name:    "fractional string experience",
			id:      "STU001",
			payload: `{"years_of_experience":"2.5"}`,
			check: func(t *testing.T, err error) {
				var verrs validator.ValidationErrors
				assert.True(t, errors.As(err, &verrs))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.service.Update(ctx, tt.id, []byte(tt.payload))
			require.Error(t, err)
			tt.check(t, err)
		})
	}

	stored, err := env.repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, repositories.SeedStudents(), stored)
	assert.Empty(t, env.publisher.GetPublishedEvents())
}

func TestStudentService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.service.Delete(ctx, "STU003"))

	stored, err := env.repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 4)
	assert.Equal(t, []string{"STU001", "STU002", "STU004", "STU005"}, studentIDs(stored))

	assert.ErrorIs(t, env.service.Delete(ctx, "STU003"), ErrStudentNotFound)

	published := env.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.StudentDeleted, published[0].Type)
}

func TestStudentService_PublishFailureDoesNotFailMutation(t *testing.T) {
	env := newTestEnv(t)
	env.publisher.FailWith(errors.New("broker down"))

	_, err := env.service.Create(context.Background(), newCreateRequest("STU006"))
	require.NoError(t, err)

	stored, err := env.repo.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 6)
}

func TestStudentService_ConcurrentCreatesAreNotLost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := env.service.Create(ctx, newCreateRequest(fmt.Sprintf("NEW%02d", i)))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	stored, err := env.repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 15)
}

func TestStudentService_StorageFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := jsonfile.NewStudentJSONFile(filepath.Join(t.TempDir(), "missing.json"), false)
	service := NewStudentService(repo, locking.NewLocalLocker(), nil, logger, validator.New())

	_, err := service.List(context.Background())
	assert.True(t, repositories.IsStorageError(err))

	_, err = service.Create(context.Background(), newCreateRequest("STU006"))
	assert.True(t, repositories.IsStorageError(err))
}

func studentIDs(students []models.Student) []string {
	ids := make([]string, 0, len(students))
	for _, s := range students {
		ids = append(ids, s.StudentID)
	}
	return ids
}
