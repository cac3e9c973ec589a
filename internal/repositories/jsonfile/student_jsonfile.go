// Package jsonfile stores the student collection as a single indented JSON document on disk.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/SAP-F-2025/student-service/internal/models"
	"github.com/SAP-F-2025/student-service/internal/repositories"
)

const filePerm = 0o644

// StudentJSONFile implements repositories.StudentRepository over one JSON file.
//
// Save writes a temp file next to the artifact, syncs it and renames it into place,
// so concurrent readers see either the old or the new document, never a partial one.
type StudentJSONFile struct {
	path string
	seed bool
}

// NewStudentJSONFile creates a file store. When seed is true, Initialize writes the
// seed collection if the file does not exist yet.
func NewStudentJSONFile(path string, seed bool) *StudentJSONFile {
	return &StudentJSONFile{path: path, seed: seed}
}

// Path returns the artifact location
func (r *StudentJSONFile) Path() string {
	return r.path
}

func (r *StudentJSONFile) Initialize(ctx context.Context) error {
	_, err := os.Stat(r.path)
	switch {
	case err == nil:
		// existing artifact must be readable
		_, err = r.Load(ctx)
		return err
	case errors.Is(err, fs.ErrNotExist) && r.seed:
		if err := r.Save(ctx, repositories.SeedStudents()); err != nil {
			return repositories.NewStorageError("init", r.path, err)
		}
		return nil
	default:
		return repositories.NewStorageError("init", r.path, err)
	}
}

func (r *StudentJSONFile) Load(ctx context.Context) ([]models.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, repositories.NewStorageError("load", r.path, err)
	}

	var students []models.Student
	if err := json.Unmarshal(data, &students); err != nil {
		return nil, repositories.NewStorageError("load", r.path, fmt.Errorf("malformed document: %w", err))
	}
	if students == nil {
		if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
			return nil, repositories.NewStorageError("load", r.path, errors.New("malformed document: not a JSON array"))
		}
		students = []models.Student{}
	}
	return students, nil
}

func (r *StudentJSONFile) Save(ctx context.Context, students []models.Student) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if students == nil {
		students = []models.Student{}
	}

	data, err := json.MarshalIndent(students, "", "  ")
	if err != nil {
		return repositories.NewStorageError("save", r.path, err)
	}
	data = append(data, '\n')

	if err := writeFileAtomic(r.path, data, filePerm); err != nil {
		return repositories.NewStorageError("save", r.path, err)
	}
	return nil
}

func (r *StudentJSONFile) Ping(ctx context.Context) error {
	if _, err := os.Stat(r.path); err != nil {
		return repositories.NewStorageError("ping", r.path, err)
	}
	return nil
}

func (r *StudentJSONFile) Close() error {
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}
